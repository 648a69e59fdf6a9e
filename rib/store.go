package rib

import (
	"time"

	"github.com/named-data/slfwd/ndn"
)

// Store is the durable route/PA database backing the RIB manager's route
// table — an external collaborator whose interface the strategy never
// sees directly, only through Service.
type Store interface {
	// LookupPA returns the most specific Prefix Announcement covering
	// name, or (nil, nil) if none is known.
	LookupPA(name *ndn.Name) (*ndn.PrefixAnnouncement, error)
	// PutRoute installs or refreshes a route to faceID for name, valid
	// for lifetime.
	PutRoute(name *ndn.Name, faceID uint64, lifetime time.Duration) error
	// PutPA persists the Prefix Announcement the route above was installed
	// from, so FindPrefixAnn can recover it from the durable store after a
	// restart, not just from the in-memory cache.
	PutPA(pa *ndn.PrefixAnnouncement) error
	// RemoveRoute retires the route to faceID for name.
	RemoveRoute(name *ndn.Name, faceID uint64) error
	// Close releases the store's resources.
	Close() error
}
