package selflearning

import (
	"time"

	"github.com/named-data/slfwd/defn"
	"github.com/named-data/slfwd/table"
)

// eligible implements §4.2's eligibility test for next-hop h when
// forwarding the PIT entry's Interest, received on face fIn.
func eligible(fwd Forwarder, pitEntry *table.PitEntry, h table.NextHop, fIn uint64, wantUnused bool, now time.Time) bool {
	if h.Face == fIn {
		inFace := fwd.GetFace(fIn)
		if inFace == nil || inFace.LinkType() != defn.AdHoc {
			return false
		}
	}

	if fwd.WouldViolateScope(fIn, pitEntry.Interest, h.Face) {
		return false
	}

	if !wantUnused {
		return true
	}
	out, hasOut := pitEntry.GetOutRecord(h.Face)
	if !hasOut {
		return true
	}
	freshnessBound := now.Add(-pitEntry.Interest.Lifetime())
	return out.LastSendTime.Before(freshnessBound)
}

// lowestCostEligible returns the first eligible next-hop in the
// cost-ordered list (nexthops is already sorted ascending by cost).
func lowestCostEligible(fwd Forwarder, pitEntry *table.PitEntry, nexthops []table.NextHop, fIn uint64, now time.Time) (table.NextHop, bool) {
	for _, h := range nexthops {
		if eligible(fwd, pitEntry, h, fIn, false, now) {
			return h, true
		}
	}
	return table.NextHop{}, false
}

// wantUnusedEligible is lowestCostEligible but requiring the next hop to
// be genuinely unused (its own send, if any, predates the current
// Interest's lifetime window).
func wantUnusedEligible(fwd Forwarder, pitEntry *table.PitEntry, nexthops []table.NextHop, fIn uint64, now time.Time) (table.NextHop, bool) {
	for _, h := range nexthops {
		if eligible(fwd, pitEntry, h, fIn, true, now) {
			return h, true
		}
	}
	return table.NextHop{}, false
}

// earliestUsedEligible returns, among the eligible next hops, the one
// whose out-record has the oldest last-send time — used for the
// all-next-hops-tried retransmission fallback (§4.6). Nack recovery does
// not use it; it searches with wantUnusedEligible only.
func earliestUsedEligible(fwd Forwarder, pitEntry *table.PitEntry, nexthops []table.NextHop, fIn uint64, now time.Time) (table.NextHop, bool) {
	var best table.NextHop
	var bestTime time.Time
	found := false
	for _, h := range nexthops {
		if !eligible(fwd, pitEntry, h, fIn, false, now) {
			continue
		}
		out, ok := pitEntry.GetOutRecord(h.Face)
		sendTime := now
		if ok {
			sendTime = out.LastSendTime
		}
		if !found || sendTime.Before(bestTime) {
			best, bestTime, found = h, sendTime, true
		}
	}
	return best, found
}
