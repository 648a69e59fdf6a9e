package selflearning

import (
	"net"
	"time"

	"github.com/named-data/slfwd/core"
	"github.com/named-data/slfwd/defn"
	"github.com/named-data/slfwd/dispatch"
	"github.com/named-data/slfwd/ndn"
	"github.com/named-data/slfwd/rib"
	"github.com/named-data/slfwd/table"
)

// paAttachExpiry is how long a PIT entry is kept alive while this strategy
// waits on an asynchronous RIB round trip before it installs or forwards
// the Data it is holding.
const paAttachExpiry = 1 * time.Second

// channel is the duck-typed capability a multi-access face exposes to dial
// an on-demand unicast face to a newly seen endpoint (face.Channel, matched
// by method set only so this package need not import face).
type channel interface {
	Connect(remote net.Addr, callback func(f dispatch.Face, err error))
}

// AfterContentStoreHit implements on_content_store_hit / §4.8.
func (s *Strategy) AfterContentStoreHit(pitEntry *table.PitEntry, inFace uint64, data *ndn.Data) {
	in := s.fwd.GetFace(inFace)
	if in == nil || in.Scope() == defn.Local {
		s.fwd.SendData(pitEntry, inFace, data)
		return
	}

	interest := pitEntry.Interest
	if _, hasPA := data.PrefixAnnouncement(); !interest.IsNonDiscovery() && !hasPA {
		s.attachPrefixAnnAndReply(pitEntry, inFace, data)
		return
	}
	s.fwd.SendData(pitEntry, inFace, data)
}

// AfterReceiveData implements on_data / §4.9.
func (s *Strategy) AfterReceiveData(pitEntry *table.PitEntry, inFace uint64, data *ndn.Data) {
	out, hasOut := pitEntry.GetOutRecord(inFace)
	if !hasOut {
		core.LogDebug(s, "AfterReceiveData: no out-record for FaceID=", inFace, " - DROP")
		return
	}
	info, _ := out.StrategyInfo.(*OutRecordInfo)
	wasNonDiscovery := info != nil && info.IsNonDiscovery

	if wasNonDiscovery {
		if !s.needPrefixAnn(pitEntry) {
			s.fwd.SendDataToAll(pitEntry, data)
			return
		}
		s.attachPrefixAnnAndReply(pitEntry, inFace, data)
		return
	}

	pa, hasPA := data.PrefixAnnouncement()
	if !hasPA {
		s.fwd.SendDataToAll(pitEntry, data)
		return
	}

	inFaceObj := s.fwd.GetFace(inFace)
	if inFaceObj == nil {
		s.fwd.SendDataToAll(pitEntry, data)
		return
	}

	if inFaceObj.LinkType() == defn.MultiAccess {
		s.createOnDemandFace(pitEntry, inFaceObj, data, pa)
		return
	}

	s.installRoute(pa, inFace)
	s.fwd.SendDataToAll(pitEntry, data)
}

// attachPrefixAnnAndReply implements §4.10: extend the PIT entry's life
// while a RIB lookup runs. If a PA is found, attach it, deliver the Data,
// and relinquish control of the entry's expiry. If none is found, do
// nothing and let the PIT entry expire on its own.
func (s *Strategy) attachPrefixAnnAndReply(pitEntry *table.PitEntry, replyFace uint64, data *ndn.Data) {
	s.fwd.SetExpiryTimer(pitEntry, paAttachExpiry)
	name := data.Name().DeepCopy()
	s.rib.FindPrefixAnn(name, func(pa *ndn.PrefixAnnouncement) {
		if pa == nil {
			return
		}
		s.fwd.PostTask(func() {
			data.SetPrefixAnnouncement(pa)
			s.fwd.SendDataToAll(pitEntry, data)
			s.fwd.SetExpiryTimer(pitEntry, 0)
		})
	})
	_ = replyFace
}

// createOnDemandFace implements §4.11: dial a unicast face to the Data's
// sender before installing the route, since a multi-access face's own
// FaceID cannot be used as a next hop for a single remote. If the ingress
// face is not a channel, or the dial fails, the Data is still delivered —
// just without a FIB route getting installed.
func (s *Strategy) createOnDemandFace(pitEntry *table.PitEntry, inFace dispatch.Face, data *ndn.Data, pa *ndn.PrefixAnnouncement) {
	ch, ok := inFace.(channel)
	endpoint, hasEndpoint := data.Endpoint()
	remote, isAddr := endpoint.(net.Addr)
	if !ok || !hasEndpoint || !isAddr {
		s.fwd.SendDataToAll(pitEntry, data)
		return
	}

	s.fwd.SetExpiryTimer(pitEntry, paAttachExpiry)
	ch.Connect(remote, func(nf dispatch.Face, err error) {
		s.fwd.PostTask(func() {
			defer s.fwd.SetExpiryTimer(pitEntry, 0)
			if err != nil || nf == nil {
				core.LogWarn(s, "createOnDemandFace: dial to ", remote.String(), " failed: ", err)
				s.fwd.SendDataToAll(pitEntry, data)
				return
			}
			s.installRoute(pa, nf.FaceID())
			s.fwd.SendDataToAll(pitEntry, data)
		})
	})
}

// installRoute implements §4.12.
func (s *Strategy) installRoute(pa *ndn.PrefixAnnouncement, faceID uint64) {
	s.rib.Announce(pa, faceID, rib.ROUTE_RENEW_LIFETIME, func(ok bool, err error) {
		if !ok {
			core.LogWarn(s, "installRoute: announce of ", pa.AnnouncedName.String(), " on FaceID=", faceID, " failed: ", err)
			return
		}
		core.LogDebug(s, "installRoute: announced ", pa.AnnouncedName.String(), " on FaceID=", faceID)
	})
}
