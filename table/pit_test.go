package table_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/named-data/slfwd/ndn"
	"github.com/named-data/slfwd/table"
)

func TestPitFindOrInsert(t *testing.T) {
	pit := table.NewPit()
	interest := ndn.NewInterest(ndn.MustName("/a/b"))

	e1, created1 := pit.FindOrInsert(interest)
	require.True(t, created1)

	e2, created2 := pit.FindOrInsert(interest)
	assert.False(t, created2)
	assert.Same(t, e1, e2)
}

func TestPitFindOrInsertSeparatesSelectors(t *testing.T) {
	pit := table.NewPit()
	name := ndn.MustName("/a/b")

	plain := ndn.NewInterest(name)
	fresh := ndn.NewInterest(name)
	fresh.SetMustBeFresh(true)

	e1, _ := pit.FindOrInsert(plain)
	e2, _ := pit.FindOrInsert(fresh)
	assert.NotSame(t, e1, e2)
}

func TestPitFindFromData(t *testing.T) {
	pit := table.NewPit()
	interest := ndn.NewInterest(ndn.MustName("/a/b"))
	interest.SetCanBePrefix(true)
	pit.FindOrInsert(interest)

	data := ndn.NewData(ndn.MustName("/a/b/c"), nil)
	matches := pit.FindFromData(data)
	assert.Equal(t, 1, len(matches))

	exactOnly := ndn.NewInterest(ndn.MustName("/x/y"))
	pit.FindOrInsert(exactOnly)
	noPrefixData := ndn.NewData(ndn.MustName("/x/y/z"), nil)
	assert.Equal(t, 0, len(pit.FindFromData(noPrefixData)))

	exactData := ndn.NewData(ndn.MustName("/x/y"), nil)
	assert.Equal(t, 1, len(pit.FindFromData(exactData)))
}

func TestPitInOutRecords(t *testing.T) {
	pit := table.NewPit()
	interest := ndn.NewInterest(ndn.MustName("/a/b"))
	interest.SetLifetime(2 * time.Second)
	e, _ := pit.FindOrInsert(interest)

	_, existed := e.FindOrInsertInRecord(interest, 10)
	assert.False(t, existed)
	_, existedAgain := e.FindOrInsertInRecord(interest, 10)
	assert.True(t, existedAgain)
	assert.Equal(t, 1, e.NumInRecords())

	out := e.FindOrInsertOutRecord(interest, 20)
	assert.NotNil(t, out)
	got, ok := e.GetOutRecord(20)
	require.True(t, ok)
	assert.Same(t, out, got)

	_, hasOut := e.GetOutRecord(999)
	assert.False(t, hasOut)
}

func TestPitExpiryTimerFires(t *testing.T) {
	pit := table.NewPit()
	interest := ndn.NewInterest(ndn.MustName("/a/b"))
	e, _ := pit.FindOrInsert(interest)

	e.SetExpiryTimer(10 * time.Millisecond)

	select {
	case expired := <-pit.Expired:
		assert.Same(t, e, expired)
	case <-time.After(500 * time.Millisecond):
		t.Fatal("expiry timer did not fire")
	}
}

func TestPitRejected(t *testing.T) {
	pit := table.NewPit()
	interest := ndn.NewInterest(ndn.MustName("/a/b"))
	e, _ := pit.FindOrInsert(interest)

	assert.False(t, e.Rejected())
	e.Reject()
	assert.True(t, e.Rejected())
}
