package selflearning

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/named-data/slfwd/ndn"
	"github.com/named-data/slfwd/table"
)

func TestDecideSuppressionNewThenSuppressThenForward(t *testing.T) {
	pit := table.NewPit()
	interest := ndn.NewInterest(ndn.MustName("/a/b"))
	pitEntry, _ := pit.FindOrInsert(interest)

	start := time.Now()
	assert.Equal(t, SuppressionNew, decideSuppression(pitEntry, start))

	// Inside the initial 10ms backoff window.
	assert.Equal(t, SuppressionSuppress, decideSuppression(pitEntry, start.Add(5*time.Millisecond)))

	// Past the window: permitted, interval doubles to 20ms.
	assert.Equal(t, SuppressionForward, decideSuppression(pitEntry, start.Add(RetxSuppressionInitial+time.Millisecond)))
}

func TestDecideSuppressionIntervalCapsAtMax(t *testing.T) {
	pit := table.NewPit()
	interest := ndn.NewInterest(ndn.MustName("/a/b"))
	pitEntry, _ := pit.FindOrInsert(interest)

	now := time.Now()
	decideSuppression(pitEntry, now) // NEW, interval = 10ms

	// Force enough FORWARD decisions to exceed RetxSuppressionMax.
	for i := 0; i < 10; i++ {
		st := pitEntry.StrategyInfo.(*suppressionState)
		now = st.lastForwarded.Add(st.interval + time.Millisecond)
		decideSuppression(pitEntry, now)
	}

	st := pitEntry.StrategyInfo.(*suppressionState)
	assert.Equal(t, RetxSuppressionMax, st.interval)
}

func TestRetxCountTracksForwardDecisions(t *testing.T) {
	pit := table.NewPit()
	interest := ndn.NewInterest(ndn.MustName("/a/b"))
	pitEntry, _ := pit.FindOrInsert(interest)

	now := time.Now()
	decideSuppression(pitEntry, now)
	assert.Equal(t, 0, retxCount(pitEntry))

	now = now.Add(20 * time.Millisecond)
	decideSuppression(pitEntry, now)
	assert.Equal(t, 1, retxCount(pitEntry))
}
