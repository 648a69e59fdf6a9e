// Package dispatch breaks the import cycle between the face table and the
// forwarding thread: face registers itself here, fw looks faces up here,
// and neither package imports the other's concrete types.
package dispatch

import (
	"sort"
	"sync"

	"github.com/named-data/slfwd/defn"
	"github.com/named-data/slfwd/ndn"
)

// Face is the subset of face.Face visible to the forwarding pipeline.
type Face interface {
	FaceID() uint64
	LocalURI() *ndn.URI
	RemoteURI() *ndn.URI
	RemoteScheme() string
	Scope() defn.Scope
	LinkType() defn.LinkType
	State() defn.State
	SendInterest(interest *ndn.Interest)
	SendData(data *ndn.Data)
	SendNack(nack *ndn.Nack)
}

var (
	facesMu sync.RWMutex
	faces   = map[uint64]Face{}
)

// AddFace registers a face so the forwarding thread can reach it by id.
func AddFace(id uint64, f Face) {
	facesMu.Lock()
	defer facesMu.Unlock()
	faces[id] = f
}

// RemoveFace unregisters a face.
func RemoveFace(id uint64) {
	facesMu.Lock()
	defer facesMu.Unlock()
	delete(faces, id)
}

// GetFace returns the face with the given id, or nil if it is gone — the
// forwarding thread uses this to re-resolve a stable face id after an
// asynchronous RIB round trip, per the concurrency model's weak-reference
// discipline.
func GetFace(id uint64) Face {
	facesMu.RLock()
	defer facesMu.RUnlock()
	return faces[id]
}

// AllFaces returns a snapshot of all registered faces, ordered by
// ascending face id (the order face.Table assigns ids in).
func AllFaces() []Face {
	facesMu.RLock()
	defer facesMu.RUnlock()
	out := make([]Face, 0, len(faces))
	for _, f := range faces {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FaceID() < out[j].FaceID() })
	return out
}
