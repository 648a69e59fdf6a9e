//go:build !js

package rib

import (
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/named-data/slfwd/ndn"
)

// BadgerStore persists routes and Prefix Announcements in a badger
// key-value database, grounded on zjkmxy-ndnd's object-store BadgerStore.
// Routes are keyed "route/<name>/<faceID>" so RemovePrefix-style iteration
// can enumerate all routes for a name; PAs are keyed "pa/<name>".
type BadgerStore struct {
	db *badger.DB
}

// NewBadgerStore opens (or creates) a badger database at path.
func NewBadgerStore(path string) (*BadgerStore, error) {
	db, err := badger.Open(badger.DefaultOptions(path))
	if err != nil {
		return nil, err
	}
	return &BadgerStore{db: db}, nil
}

func (s *BadgerStore) Close() error {
	return s.db.Close()
}

func routeKey(name *ndn.Name, faceID uint64) []byte {
	return []byte(fmt.Sprintf("route/%s/%d", name.String(), faceID))
}

func routePrefixKey(name *ndn.Name) []byte {
	return []byte(fmt.Sprintf("route/%s/", name.String()))
}

func paKey(name *ndn.Name) []byte {
	return []byte("pa/" + name.String())
}

func (s *BadgerStore) PutRoute(name *ndn.Name, faceID uint64, lifetime time.Duration) error {
	return s.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry(routeKey(name, faceID), encodeExpiry(time.Now().Add(lifetime)))
		if lifetime > 0 {
			e = e.WithTTL(lifetime)
		}
		return txn.SetEntry(e)
	})
}

func (s *BadgerStore) RemoveRoute(name *ndn.Name, faceID uint64) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(routeKey(name, faceID))
	})
}

// LookupPA returns the most specific PA covering name by walking from the
// full name up to the root, mirroring the forwarding-thread longest-prefix
// search pattern used throughout this repository's name trees.
func (s *BadgerStore) LookupPA(name *ndn.Name) (*ndn.PrefixAnnouncement, error) {
	var found *ndn.PrefixAnnouncement
	err := s.db.View(func(txn *badger.Txn) error {
		for i := name.Size(); i >= 0; i-- {
			candidate := name.Prefix(i)
			item, err := txn.Get(paKey(candidate))
			if errors.Is(err, badger.ErrKeyNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			raw, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			pa, err := decodePA(candidate, raw)
			if err != nil {
				return err
			}
			found = pa
			return nil
		}
		return nil
	})
	return found, err
}

// PutPA persists a Prefix Announcement so it can be recovered across
// restarts; Service.Announce calls this in addition to updating its
// in-memory cache.
func (s *BadgerStore) PutPA(pa *ndn.PrefixAnnouncement) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(paKey(pa.AnnouncedName), encodePA(pa))
	})
}

func encodeExpiry(t time.Time) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, uint64(t.UnixNano()))
	return buf
}

func encodePA(pa *ndn.PrefixAnnouncement) []byte {
	buf := make([]byte, 16+len(pa.SignatureInfo))
	binary.BigEndian.PutUint64(buf[0:8], uint64(pa.ValidityStart.UnixNano()))
	binary.BigEndian.PutUint64(buf[8:16], uint64(pa.ValidityEnd.UnixNano()))
	copy(buf[16:], pa.SignatureInfo)
	return buf
}

func decodePA(name *ndn.Name, raw []byte) (*ndn.PrefixAnnouncement, error) {
	if len(raw) < 16 {
		return nil, fmt.Errorf("rib: truncated PA record for %s", name.String())
	}
	return &ndn.PrefixAnnouncement{
		AnnouncedName: name,
		ValidityStart: time.Unix(0, int64(binary.BigEndian.Uint64(raw[0:8]))),
		ValidityEnd:   time.Unix(0, int64(binary.BigEndian.Uint64(raw[8:16]))),
		SignatureInfo: append([]byte(nil), raw[16:]...),
	}, nil
}
