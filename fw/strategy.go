// Package fw implements the forwarding thread F: the packet pipeline that
// dispatches Interests, Data, and Nacks into a pluggable Strategy, keeping
// all PIT/FIB access and all Interest/Data/Nack sends on a single
// goroutine, trimmed to the one strategy this forwarder runs.
package fw

import (
	"github.com/named-data/slfwd/ndn"
	"github.com/named-data/slfwd/table"
)

// Strategy is the forwarding pipeline's pluggable decision-maker. All four
// triggers run on the forwarding thread; none may block.
type Strategy interface {
	// InstanceName returns the strategy's registered name, including
	// version and any parameters.
	InstanceName() *ndn.Name

	// AfterReceiveInterest runs when an Interest is not satisfied by the
	// Content Store, whether it created a new PIT entry or arrived on an
	// existing one.
	AfterReceiveInterest(pitEntry *table.PitEntry, inFace uint64, interest *ndn.Interest, nexthops []table.NextHop)

	// AfterContentStoreHit runs when an Interest is satisfied directly
	// from the Content Store.
	AfterContentStoreHit(pitEntry *table.PitEntry, inFace uint64, data *ndn.Data)

	// AfterReceiveData runs when Data arrives that satisfies one or more
	// PIT entries.
	AfterReceiveData(pitEntry *table.PitEntry, inFace uint64, data *ndn.Data)

	// AfterReceiveNack runs when a Nack arrives for a pending PIT entry;
	// the entry may have no out-record for the face the Nack came from.
	AfterReceiveNack(pitEntry *table.PitEntry, inFace uint64, nack *ndn.Nack)
}
