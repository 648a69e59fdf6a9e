package selflearning

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/named-data/slfwd/defn"
	"github.com/named-data/slfwd/dispatch"
	"github.com/named-data/slfwd/ndn"
	"github.com/named-data/slfwd/table"
)

// stubFace is the minimal dispatch.Face fixture nexthop eligibility tests
// need: just enough identity and link-type/scope to drive eligible().
type stubFace struct {
	id       uint64
	scope    defn.Scope
	linkType defn.LinkType
}

func (f *stubFace) FaceID() uint64             { return f.id }
func (f *stubFace) LocalURI() *ndn.URI         { return ndn.MakeInternalFaceURI() }
func (f *stubFace) RemoteURI() *ndn.URI        { return ndn.MakeInternalFaceURI() }
func (f *stubFace) RemoteScheme() string       { return "internal" }
func (f *stubFace) Scope() defn.Scope          { return f.scope }
func (f *stubFace) LinkType() defn.LinkType    { return f.linkType }
func (f *stubFace) State() defn.State          { return defn.Up }
func (f *stubFace) SendInterest(*ndn.Interest) {}
func (f *stubFace) SendData(*ndn.Data)         {}
func (f *stubFace) SendNack(*ndn.Nack)         {}

// stubForwarder implements Forwarder with just enough behavior for
// eligibility tests: a face registry and a no-violation scope check.
type stubForwarder struct {
	faces map[uint64]dispatch.Face
}

func newStubForwarder() *stubForwarder { return &stubForwarder{faces: map[uint64]dispatch.Face{}} }

func (f *stubForwarder) addFace(face *stubFace) { f.faces[face.id] = face }

func (f *stubForwarder) LookupFib(*table.PitEntry) []table.NextHop           { return nil }
func (f *stubForwarder) SendInterest(*table.PitEntry, uint64, *ndn.Interest) {}
func (f *stubForwarder) SendData(*table.PitEntry, uint64, *ndn.Data)         {}
func (f *stubForwarder) SendDataToAll(*table.PitEntry, *ndn.Data)            {}
func (f *stubForwarder) SendNack(*table.PitEntry, uint64, ndn.NackReason)    {}
func (f *stubForwarder) SendNackToAll(*table.PitEntry, ndn.NackReason)       {}
func (f *stubForwarder) RejectPendingInterest(*table.PitEntry)               {}
func (f *stubForwarder) SetExpiryTimer(*table.PitEntry, time.Duration)       {}
func (f *stubForwarder) FaceTable() []dispatch.Face {
	out := make([]dispatch.Face, 0, len(f.faces))
	for _, face := range f.faces {
		out = append(out, face)
	}
	return out
}
func (f *stubForwarder) GetFace(id uint64) dispatch.Face                      { return f.faces[id] }
func (f *stubForwarder) WouldViolateScope(uint64, *ndn.Interest, uint64) bool { return false }
func (f *stubForwarder) PostTask(fn func())                                   { fn() }

func TestEligibleRejectsIngressFaceUnlessAdHoc(t *testing.T) {
	fwd := newStubForwarder()
	fwd.addFace(&stubFace{id: 1, linkType: defn.PointToPoint})
	fwd.addFace(&stubFace{id: 2, linkType: defn.AdHoc})

	pit := table.NewPit()
	interest := ndn.NewInterest(ndn.MustName("/a/b"))
	pitEntry, _ := pit.FindOrInsert(interest)

	assert.False(t, eligible(fwd, pitEntry, table.NextHop{Face: 1}, 1, false, time.Now()))
	assert.True(t, eligible(fwd, pitEntry, table.NextHop{Face: 2}, 2, false, time.Now()))
}

// An unexpired out-record does not by itself make a next hop ineligible
// outside the want-unused search: the all-tried retransmission fallback
// (§4.6) needs to retry a next hop whose Interest is still outstanding.
func TestEligibleIgnoresOutRecordExpiryWhenNotWantingUnused(t *testing.T) {
	fwd := newStubForwarder()
	fwd.addFace(&stubFace{id: 1, linkType: defn.PointToPoint})

	pit := table.NewPit()
	interest := ndn.NewInterest(ndn.MustName("/a/b"))
	interest.SetLifetime(time.Second)
	pitEntry, _ := pit.FindOrInsert(interest)

	now := time.Now()
	assert.True(t, eligible(fwd, pitEntry, table.NextHop{Face: 1}, 99, false, now))

	pitEntry.FindOrInsertOutRecord(interest, 1)
	assert.True(t, eligible(fwd, pitEntry, table.NextHop{Face: 1}, 99, false, now))
}

func TestWantUnusedRequiresStaleLastSend(t *testing.T) {
	fwd := newStubForwarder()
	fwd.addFace(&stubFace{id: 1, linkType: defn.PointToPoint})

	pit := table.NewPit()
	interest := ndn.NewInterest(ndn.MustName("/a/b"))
	interest.SetLifetime(50 * time.Millisecond)
	pitEntry, _ := pit.FindOrInsert(interest)
	pitEntry.FindOrInsertOutRecord(interest, 1)

	now := time.Now()
	assert.False(t, eligible(fwd, pitEntry, table.NextHop{Face: 1}, 99, true, now))
	assert.True(t, eligible(fwd, pitEntry, table.NextHop{Face: 1}, 99, true, now.Add(100*time.Millisecond)))
}

func TestLowestCostEligiblePicksFirstEligible(t *testing.T) {
	fwd := newStubForwarder()
	fwd.addFace(&stubFace{id: 1, linkType: defn.PointToPoint})
	fwd.addFace(&stubFace{id: 2, linkType: defn.PointToPoint})

	pit := table.NewPit()
	interest := ndn.NewInterest(ndn.MustName("/a/b"))
	pitEntry, _ := pit.FindOrInsert(interest)

	nexthops := []table.NextHop{{Face: 1, Cost: 10}, {Face: 2, Cost: 20}}
	h, ok := lowestCostEligible(fwd, pitEntry, nexthops, 99, time.Now())
	require.True(t, ok)
	assert.Equal(t, uint64(1), h.Face)
}

func TestEarliestUsedEligiblePicksOldestSend(t *testing.T) {
	fwd := newStubForwarder()
	fwd.addFace(&stubFace{id: 1, linkType: defn.PointToPoint})
	fwd.addFace(&stubFace{id: 2, linkType: defn.PointToPoint})

	pit := table.NewPit()
	interest := ndn.NewInterest(ndn.MustName("/a/b"))
	interest.SetLifetime(time.Second)
	pitEntry, _ := pit.FindOrInsert(interest)

	// Face 1 sent long ago; face 2 sent just now. Both are eligible; the
	// earlier send time must win.
	pitEntry.FindOrInsertOutRecord(interest, 1)
	out1, _ := pitEntry.GetOutRecord(1)
	out1.LastSendTime = time.Now().Add(-10 * time.Second)

	pitEntry.FindOrInsertOutRecord(interest, 2)

	nexthops := []table.NextHop{{Face: 1, Cost: 10}, {Face: 2, Cost: 20}}
	h, ok := earliestUsedEligible(fwd, pitEntry, nexthops, 99, time.Now())
	require.True(t, ok)
	assert.Equal(t, uint64(1), h.Face)
}
