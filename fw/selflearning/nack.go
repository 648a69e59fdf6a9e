package selflearning

import (
	"time"

	"github.com/named-data/slfwd/core"
	"github.com/named-data/slfwd/ndn"
	"github.com/named-data/slfwd/table"
)

// AfterReceiveNack implements on_nack / §4.13. A NoRoute Nack means the
// upstream on faceID just told us it has no route for this name, so the
// route this strategy self-learned there is stale; it is retired via
// rib.renew(..., maxLifetime=0) regardless of which recovery branch runs
// below. Nacks with any other reason go straight to the default Nack
// processor.
func (s *Strategy) AfterReceiveNack(pitEntry *table.PitEntry, faceID uint64, nack *ndn.Nack) {
	if nack.Reason() != ndn.NackReasonNoRoute {
		s.fwd.SendNackToAll(pitEntry, nack.Reason())
		return
	}
	s.rib.Renew(nack.Interest().Name(), faceID, 0, func(ok bool, err error) {
		if !ok {
			core.LogWarn(s, "AfterReceiveNack: renew(0) for ", nack.Interest().Name().String(), " FaceID=", faceID, " failed: ", err)
		}
	})

	out, hasOut := pitEntry.GetOutRecord(faceID)
	if !hasOut {
		core.LogDebug(s, "AfterReceiveNack: no out-record for FaceID=", faceID, " - fall through to default Nack processor")
		s.fwd.SendNackToAll(pitEntry, nack.Reason())
		return
	}
	info, _ := out.StrategyInfo.(*OutRecordInfo)
	wasNonDiscovery := info != nil && info.IsNonDiscovery

	if wasNonDiscovery {
		nexthops := s.fwd.LookupFib(pitEntry)
		if h, ok := wantUnusedEligible(s.fwd, pitEntry, nexthops, faceID, time.Now()); ok {
			s.sendUpstream(pitEntry, pitEntry.Interest, h.Face)
			return
		}
		if s.isConsumer(pitEntry) {
			s.restartAsDiscovery(pitEntry)
			return
		}
		s.fwd.SendNackToAll(pitEntry, nack.Reason())
		return
	}

	// The outgoing Interest was already a discovery flood; there is
	// nothing left to retry upstream of it.
	s.fwd.SendNackToAll(pitEntry, nack.Reason())
}

// restartAsDiscovery re-floods the Interest as discovery after every
// non-discovery next hop Nacked it, the consumer-facing recovery path of
// §4.13. isConsumer guarantees exactly one in-record, the consumer's own
// downstream face, which broadcast excludes from the flood.
func (s *Strategy) restartAsDiscovery(pitEntry *table.PitEntry) {
	consumer, ok := pitEntry.FirstInRecord()
	if !ok {
		return
	}
	consumer.StrategyInfo = &InRecordInfo{IsNonDiscovery: false}

	interest := pitEntry.Interest.DeepCopy()
	interest.RemoveNonDiscoveryTag()
	s.broadcast(pitEntry, consumer.Face, interest)
}
