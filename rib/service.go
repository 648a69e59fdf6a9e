// Package rib implements the RIB thread R: the single-threaded event loop
// that owns the route/PA database and answers the forwarding thread's
// sl_find_ann/sl_announce/sl_renew calls asynchronously, posting
// continuations back onto F's task channel.
package rib

import (
	"time"

	"github.com/cornelk/hashmap"

	"github.com/named-data/slfwd/core"
	"github.com/named-data/slfwd/ndn"
)

// ROUTE_RENEW_LIFETIME is the lifetime self-learning-installed routes are
// announced with.
const ROUTE_RENEW_LIFETIME = 10 * time.Minute

// FindAnnResult is delivered to the caller-supplied callback of FindPrefixAnn.
type FindAnnResult struct {
	PA *ndn.PrefixAnnouncement
}

// AnnounceResult and RenewResult report whether a route operation
// succeeded; the strategy only logs the outcome and never retries, so a
// bool plus an error is enough.
type AnnounceResult struct {
	OK  bool
	Err error
}

type RenewResult struct {
	OK  bool
	Err error
}

type task func()

// Service is the RIB thread. It runs its own goroutine draining a task
// channel, the same single-threaded event-loop shape fw/thread.go's
// forwarding thread uses.
type Service struct {
	tasks chan task

	store Store

	// paCache is a concurrent read-mostly cache of announced PAs, keyed by
	// the announced name's string form, consulted before the durable
	// store to answer sl_find_ann without a disk round trip.
	paCache *hashmap.Map[string, *ndn.PrefixAnnouncement]

	// postToForwarding delivers a continuation back onto the forwarding
	// thread; it is passed to NewService (the daemon passes fw.Thread's
	// PostTask).
	postToForwarding func(func())
}

// NewService creates a RIB service backed by store. postToForwarding must
// enqueue its argument on the forwarding thread's task channel.
func NewService(store Store, postToForwarding func(func())) *Service {
	return &Service{
		tasks:            make(chan task, 1024),
		store:            store,
		paCache:          hashmap.New[string, *ndn.PrefixAnnouncement](),
		postToForwarding: postToForwarding,
	}
}

// Run drains the task channel until stopped; call it in its own goroutine.
func (s *Service) Run() {
	for t := range s.tasks {
		if core.ShouldQuit {
			return
		}
		t()
	}
}

// Stop closes the task channel, ending Run.
func (s *Service) Stop() {
	close(s.tasks)
}

func (s *Service) post(t task) {
	select {
	case s.tasks <- t:
	default:
		core.LogWarn("RibService", "task queue full, dropping RIB task")
	}
}

func (s *Service) reply(cb func()) {
	if s.postToForwarding != nil {
		s.postToForwarding(cb)
	}
}

// FindPrefixAnn implements sl_find_ann: looks up the most specific PA
// covering name and invokes callback on the forwarding thread with the
// result (nil if none is known).
func (s *Service) FindPrefixAnn(name *ndn.Name, callback func(pa *ndn.PrefixAnnouncement)) {
	s.post(func() {
		pa := s.findPrefixAnnLocked(name)
		s.reply(func() { callback(pa) })
	})
}

func (s *Service) findPrefixAnnLocked(name *ndn.Name) *ndn.PrefixAnnouncement {
	for i := name.Size(); i >= 0; i-- {
		candidate := name.Prefix(i)
		if pa, ok := s.paCache.Get(candidate.String()); ok {
			if pa.Valid(time.Now()) {
				return pa
			}
			s.paCache.Del(candidate.String())
		}
	}
	if s.store == nil {
		return nil
	}
	pa, err := s.store.LookupPA(name)
	if err != nil || pa == nil || !pa.Valid(time.Now()) {
		return nil
	}
	s.paCache.Set(pa.AnnouncedName.String(), pa)
	return pa
}

// Announce implements sl_announce: validates (PA signature validation is
// out of scope here and left to a real RIB manager) and installs pa as a
// route to faceID with the given lifetime, then invokes callback on the
// forwarding thread.
func (s *Service) Announce(pa *ndn.PrefixAnnouncement, faceID uint64, lifetime time.Duration, callback func(ok bool, err error)) {
	s.post(func() {
		var err error
		if s.store != nil {
			err = s.store.PutRoute(pa.AnnouncedName, faceID, lifetime)
			if err == nil {
				err = s.store.PutPA(pa)
			}
		}
		if err == nil {
			s.paCache.Set(pa.AnnouncedName.String(), pa)
		} else {
			core.LogWarn("RibService", "announce failed for ", pa.AnnouncedName.String(), ": ", err)
		}
		ok := err == nil
		if callback != nil {
			s.reply(func() { callback(ok, err) })
		}
	})
}

// Renew implements sl_renew: refreshes (or, with maxLifetime == 0, retires)
// the route for name over faceID.
func (s *Service) Renew(name *ndn.Name, faceID uint64, maxLifetime time.Duration, callback func(ok bool, err error)) {
	s.post(func() {
		var err error
		if s.store != nil {
			if maxLifetime <= 0 {
				err = s.store.RemoveRoute(name, faceID)
				s.paCache.Del(name.String())
			} else {
				err = s.store.PutRoute(name, faceID, maxLifetime)
			}
		}
		if err != nil {
			core.LogWarn("RibService", "renew failed for ", name.String(), ": ", err)
		}
		ok := err == nil
		if callback != nil {
			s.reply(func() { callback(ok, err) })
		}
	})
}
