package selflearning

import (
	"time"

	"github.com/named-data/slfwd/core"
	"github.com/named-data/slfwd/defn"
	"github.com/named-data/slfwd/ndn"
	"github.com/named-data/slfwd/table"
)

// AfterReceiveInterest implements on_interest / §4.3.
func (s *Strategy) AfterReceiveInterest(pitEntry *table.PitEntry, inFace uint64, interest *ndn.Interest, nexthops []table.NextHop) {
	now := time.Now()
	result := decideSuppression(pitEntry, now)
	if result == SuppressionSuppress {
		core.LogDebug(s, "AfterReceiveInterest: suppressed Interest=", interest.Name().String())
		return
	}

	switch result {
	case SuppressionNew:
		if h, ok := lowestCostEligible(s.fwd, pitEntry, nexthops, inFace, now); ok {
			s.forwardToUntried(pitEntry, inFace, interest, h.Face)
			return
		}
		s.noNextHop(pitEntry, inFace, interest)
	default: // SuppressionForward
		if s.shouldReflood(pitEntry, nexthops) {
			s.reflood(pitEntry, inFace, interest, nexthops)
			return
		}
		if h, ok := wantUnusedEligible(s.fwd, pitEntry, nexthops, inFace, now); ok {
			s.forwardToUntried(pitEntry, inFace, interest, h.Face)
			return
		}
		s.allTried(pitEntry, inFace, interest, nexthops, now)
	}
}

// shouldReflood reports whether the optional retransmission-triggered
// reflood mode (DESIGN NOTES Open Question, off by default) should fire:
// the config flag is set, the PIT entry has been retransmitted
// RETX_TRIGGER_BROADCAST_COUNT times, and it still has FIB routes to
// retire (otherwise it is already in the discovery broadcast path).
func (s *Strategy) shouldReflood(pitEntry *table.PitEntry, nexthops []table.NextHop) bool {
	if len(nexthops) == 0 {
		return false
	}
	if !core.GetConfigBoolDefault("strategy.enable_retx_reflood", false) {
		return false
	}
	return retxCount(pitEntry) >= RetxTriggerBroadcastCount
}

// reflood implements the optional reflood mode: retire every FIB route
// this PIT entry was using and restart as a discovery broadcast, the same
// recovery §4.13 runs for a consumer after a NoRoute Nack, triggered here
// by persistent retransmission instead.
func (s *Strategy) reflood(pitEntry *table.PitEntry, inFace uint64, interest *ndn.Interest, nexthops []table.NextHop) {
	for _, h := range nexthops {
		s.rib.Renew(interest.Name(), h.Face, 0, func(ok bool, err error) {
			if !ok {
				core.LogWarn(s, "reflood: renew(0) for ", interest.Name().String(), " failed: ", err)
			}
		})
	}

	in, _ := pitEntry.FindOrInsertInRecord(interest, inFace)
	in.StrategyInfo = &InRecordInfo{IsNonDiscovery: false}

	discovery := interest.DeepCopy()
	discovery.RemoveNonDiscoveryTag()
	s.broadcast(pitEntry, inFace, discovery)
}

// forwardToUntried implements §4.4.
func (s *Strategy) forwardToUntried(pitEntry *table.PitEntry, inFace uint64, interest *ndn.Interest, outFace uint64) {
	isND := interest.IsNonDiscovery()
	in, _ := pitEntry.FindOrInsertInRecord(interest, inFace)
	in.StrategyInfo = &InRecordInfo{IsNonDiscovery: isND}

	s.sendUpstream(pitEntry, interest, outFace)
}

// sendUpstream forwards interest to outFace as non-discovery (tagging a
// copy if it was not already) and records the out-record, without
// touching any in-record — the part of forwardToUntried that Nack
// recovery's untried-next-hop retry also needs, since a retry is not a
// newly arrived downstream Interest.
func (s *Strategy) sendUpstream(pitEntry *table.PitEntry, interest *ndn.Interest, outFace uint64) {
	out := interest
	if !interest.IsNonDiscovery() {
		out = interest.DeepCopy()
		out.SetNonDiscoveryTag()
	}

	s.fwd.SendInterest(pitEntry, outFace, out)
	if rec, ok := pitEntry.GetOutRecord(outFace); ok {
		rec.StrategyInfo = &OutRecordInfo{IsNonDiscovery: true}
	}
}

// noNextHop implements §4.5.
func (s *Strategy) noNextHop(pitEntry *table.PitEntry, inFace uint64, interest *ndn.Interest) {
	isND := interest.IsNonDiscovery()
	in, _ := pitEntry.FindOrInsertInRecord(interest, inFace)
	in.StrategyInfo = &InRecordInfo{IsNonDiscovery: isND}

	if isND {
		s.fwd.SendNack(pitEntry, inFace, ndn.NackReasonNoRoute)
		s.fwd.RejectPendingInterest(pitEntry)
		return
	}
	s.broadcast(pitEntry, inFace, interest)
}

// allTried implements §4.6.
func (s *Strategy) allTried(pitEntry *table.PitEntry, inFace uint64, interest *ndn.Interest, nexthops []table.NextHop, now time.Time) {
	if h, ok := earliestUsedEligible(s.fwd, pitEntry, nexthops, inFace, now); ok {
		s.forwardToUntried(pitEntry, inFace, interest, h.Face)
	}
}

// broadcast implements §4.7: flood to every eligible, non-local face other
// than the ingress (unless the ingress is ad-hoc), enumerated in reverse
// face-table order.
func (s *Strategy) broadcast(pitEntry *table.PitEntry, inFace uint64, interest *ndn.Interest) {
	faces := s.fwd.FaceTable()
	for i := len(faces) - 1; i >= 0; i-- {
		f := faces[i]
		if f.FaceID() == inFace && f.LinkType() != defn.AdHoc {
			continue
		}
		if f.Scope() == defn.Local {
			continue
		}
		if s.fwd.WouldViolateScope(inFace, interest, f.FaceID()) {
			continue
		}

		out := interest.DeepCopy()
		out.RemoveNonDiscoveryTag()
		s.fwd.SendInterest(pitEntry, f.FaceID(), out)
		if rec, ok := pitEntry.GetOutRecord(f.FaceID()); ok {
			rec.StrategyInfo = &OutRecordInfo{IsNonDiscovery: false}
		}
	}
}
