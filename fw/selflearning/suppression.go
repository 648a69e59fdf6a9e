package selflearning

import (
	"time"

	"github.com/named-data/slfwd/table"
)

// RetxSuppressionInitial, RetxSuppressionMax and the implicit ×2
// multiplier are this strategy's exponential-backoff parameters for
// retransmission suppression.
const (
	RetxSuppressionInitial   = 10 * time.Millisecond
	RetxSuppressionMax       = 250 * time.Millisecond
	retxSuppressionMultiplier = 2
)

// RetxTriggerBroadcastCount is the number of retransmissions on the same
// PIT entry after which the optional reflood mode (gated by
// strategy.enable_retx_reflood) retires the entry's routes and restarts
// discovery. Inactive unless that config key is set.
const RetxTriggerBroadcastCount = 7

// SuppressionResult classifies an incoming Interest for retransmission purposes.
type SuppressionResult int

const (
	SuppressionNew SuppressionResult = iota
	SuppressionForward
	SuppressionSuppress
)

// suppressionState is the PIT-entry-level strategy info the suppressor
// keeps, attached via table.PitEntry.StrategyInfo the way NFD's
// RetxSuppressionExponential attaches a PIT-entry strategy-info record.
type suppressionState struct {
	lastForwarded time.Time
	interval      time.Duration
	retxCount     int
}

// decideSuppression implements §4.1: classify the PIT entry as NEW (its
// suppression state has not been initialized yet, i.e. this is the first
// Interest seen for it), SUPPRESS (retransmission arrived inside the
// backoff window), or FORWARD (outside the window — permit and double the
// interval).
func decideSuppression(pitEntry *table.PitEntry, now time.Time) SuppressionResult {
	st, ok := pitEntry.StrategyInfo.(*suppressionState)
	if !ok || st == nil {
		pitEntry.StrategyInfo = &suppressionState{lastForwarded: now, interval: RetxSuppressionInitial}
		return SuppressionNew
	}

	if now.Before(st.lastForwarded.Add(st.interval)) {
		return SuppressionSuppress
	}

	st.lastForwarded = now
	st.interval *= retxSuppressionMultiplier
	if st.interval > RetxSuppressionMax {
		st.interval = RetxSuppressionMax
	}
	st.retxCount++
	return SuppressionForward
}

// retxCount returns how many times decideSuppression has returned
// SuppressionForward for this PIT entry, or 0 if the suppressor has not
// seen it yet.
func retxCount(pitEntry *table.PitEntry) int {
	if st, ok := pitEntry.StrategyInfo.(*suppressionState); ok && st != nil {
		return st.retxCount
	}
	return 0
}
