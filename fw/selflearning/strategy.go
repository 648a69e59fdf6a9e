// Package selflearning implements the self-learning forwarding strategy:
// automatic FIB population via discovery flooding and Prefix-Announcement
// -carrying Data, expressed against this repository's fw.Thread/rib.Service
// contracts.
package selflearning

import (
	"time"

	"github.com/named-data/slfwd/core"
	"github.com/named-data/slfwd/defn"
	"github.com/named-data/slfwd/dispatch"
	"github.com/named-data/slfwd/ndn"
	"github.com/named-data/slfwd/table"
)

// strategyBaseName is this strategy's registered name, without version.
var strategyBaseName = ndn.MustName("/localhost/nfd/strategy/self-learning")

// strategyVersionComponent is the only version this build supports.
const strategyVersionComponent = ndn.NameComponent("%FD%02")

// Forwarder is the subset of fw.Thread's Forwarder contract (spec §6) the
// strategy consumes. fw.Thread satisfies this interface structurally.
type Forwarder interface {
	LookupFib(pitEntry *table.PitEntry) []table.NextHop
	SendInterest(pitEntry *table.PitEntry, faceID uint64, interest *ndn.Interest)
	SendData(pitEntry *table.PitEntry, faceID uint64, data *ndn.Data)
	SendDataToAll(pitEntry *table.PitEntry, data *ndn.Data)
	SendNack(pitEntry *table.PitEntry, faceID uint64, reason ndn.NackReason)
	SendNackToAll(pitEntry *table.PitEntry, reason ndn.NackReason)
	RejectPendingInterest(pitEntry *table.PitEntry)
	SetExpiryTimer(pitEntry *table.PitEntry, d time.Duration)
	FaceTable() []dispatch.Face
	GetFace(id uint64) dispatch.Face
	WouldViolateScope(inFace uint64, interest *ndn.Interest, outFace uint64) bool
	PostTask(fn func())
}

// RibClient is the RIB service contract (spec §6) the strategy consumes;
// *rib.Service satisfies this interface structurally.
type RibClient interface {
	FindPrefixAnn(name *ndn.Name, callback func(pa *ndn.PrefixAnnouncement))
	Announce(pa *ndn.PrefixAnnouncement, faceID uint64, lifetime time.Duration, callback func(ok bool, err error))
	Renew(name *ndn.Name, faceID uint64, maxLifetime time.Duration, callback func(ok bool, err error))
}

// Strategy is the self-learning forwarding strategy.
type Strategy struct {
	fwd          Forwarder
	rib          RibClient
	instanceName *ndn.Name
}

// New validates instanceName against strategyBaseName per spec §6
// ("Instance names must not carry parameters; instantiation with
// parameters or a mismatched version fails") and returns a ready
// Strategy. Validation failures are program-level configuration errors
// and are reported rather than panicking, so callers can fail fast at
// startup.
func New(fwd Forwarder, rib RibClient, instanceName *ndn.Name) (*Strategy, error) {
	if err := validateInstanceName(instanceName); err != nil {
		return nil, err
	}
	return &Strategy{fwd: fwd, rib: rib, instanceName: instanceName.DeepCopy()}, nil
}

func validateInstanceName(name *ndn.Name) error {
	if !strategyBaseName.IsPrefixOf(name) {
		return core.ErrInstanceVersion
	}
	if name.Size() != strategyBaseName.Size()+1 {
		return core.ErrInstanceParameters
	}
	if name.At(strategyBaseName.Size()) != strategyVersionComponent {
		return core.ErrInstanceVersion
	}
	return nil
}

// DefaultInstanceName builds the canonical instance name for registration.
func DefaultInstanceName() *ndn.Name {
	return strategyBaseName.Append(strategyVersionComponent)
}

// InstanceName returns the strategy's registered instance name.
func (s *Strategy) InstanceName() *ndn.Name { return s.instanceName }

// isConsumer implements §4.14: true iff the PIT entry has exactly one
// in-record and that in-record's face is local scope.
func (s *Strategy) isConsumer(pitEntry *table.PitEntry) bool {
	if pitEntry.NumInRecords() != 1 {
		return false
	}
	in, ok := pitEntry.FirstInRecord()
	if !ok {
		return false
	}
	face := s.fwd.GetFace(in.Face)
	return face != nil && face.Scope() == defn.Local
}

// needPrefixAnn implements §4.9's need_prefix_ann: true iff, among
// unexpired in-records, at least one was recorded as discovery and at
// least one belongs to a face that is non-local, or local but not a
// wsclient (the directToConsumer computation).
func (s *Strategy) needPrefixAnn(pitEntry *table.PitEntry) bool {
	now := time.Now()
	sawDiscovery := false
	sawDirectToConsumer := false
	for _, in := range pitEntry.InRecords() {
		if in.ExpirationTime.Before(now) {
			continue
		}
		if info, ok := in.StrategyInfo.(*InRecordInfo); ok && !info.IsNonDiscovery {
			sawDiscovery = true
		}
		if face := s.fwd.GetFace(in.Face); face != nil {
			if face.Scope() != defn.Local || face.RemoteScheme() != "wsclient" {
				sawDirectToConsumer = true
			}
		}
	}
	return sawDiscovery && sawDirectToConsumer
}
