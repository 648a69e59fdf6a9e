package face

import (
	"sync"
	"sync/atomic"

	"github.com/named-data/slfwd/core"
	"github.com/named-data/slfwd/dispatch"
	"github.com/named-data/slfwd/ndn"
)

// Table is the global face table.
type Table struct {
	faces      sync.Map
	nextFaceID atomic.Uint64
}

// NewTable creates an empty face table; face ids start at 1, since 0 is
// never a valid face id.
func NewTable() *Table {
	t := &Table{}
	t.nextFaceID.Store(1)
	return t
}

// Add assigns the next face id to f, registers it in the table and in
// dispatch (so the forwarding thread can reach it), and returns the id.
func (t *Table) Add(f Face) uint64 {
	id := t.nextFaceID.Add(1) - 1
	f.SetFaceID(id)
	t.faces.Store(id, f)
	dispatch.AddFace(id, f)
	core.LogDebug("FaceTable", "registered FaceID=", id)
	return id
}

// Get returns the face with the given id, or nil.
func (t *Table) Get(id uint64) Face {
	v, ok := t.faces.Load(id)
	if !ok {
		return nil
	}
	return v.(Face)
}

// GetByURI returns the face whose remote URI matches, or nil.
func (t *Table) GetByURI(remote *ndn.URI) Face {
	var found Face
	t.faces.Range(func(_, v any) bool {
		if v.(Face).RemoteURI().String() == remote.String() {
			found = v.(Face)
			return false
		}
		return true
	})
	return found
}

// GetAll returns a snapshot of every registered face.
func (t *Table) GetAll() []Face {
	out := make([]Face, 0)
	t.faces.Range(func(_, v any) bool {
		out = append(out, v.(Face))
		return true
	})
	return out
}

// Remove unregisters the face with the given id.
func (t *Table) Remove(id uint64) {
	t.faces.Delete(id)
	dispatch.RemoveFace(id)
	core.LogDebug("FaceTable", "unregistered FaceID=", id)
}
