// Package face implements the faces the strategy sends Interests, Data,
// and Nacks through, and the channels that create new faces on demand
// (per §4.11's multi-access-to-unicast promotion), trimmed to the link
// types this forwarder actually exercises.
package face

import (
	"github.com/named-data/slfwd/defn"
	"github.com/named-data/slfwd/ndn"
)

// Face is the forwarder-visible face abstraction; it satisfies
// dispatch.Face so the forwarding thread can reach any registered face
// without face importing fw or fw importing face's concrete types.
type Face interface {
	FaceID() uint64
	SetFaceID(id uint64)
	LocalURI() *ndn.URI
	RemoteURI() *ndn.URI
	RemoteScheme() string
	Scope() defn.Scope
	LinkType() defn.LinkType
	Persistency() defn.Persistency
	State() defn.State

	SendInterest(interest *ndn.Interest)
	SendData(data *ndn.Data)
	SendNack(nack *ndn.Nack)

	Close()
}

// baseFace holds the fields common to every concrete face type, collapsed
// into a single struct since this repository does not model a separate
// NDNLP link-service layer.
type baseFace struct {
	id          uint64
	localURI    *ndn.URI
	remoteURI   *ndn.URI
	scope       defn.Scope
	linkType    defn.LinkType
	persistency defn.Persistency
	state       defn.State
}

func (f *baseFace) FaceID() uint64                { return f.id }
func (f *baseFace) SetFaceID(id uint64)           { f.id = id }
func (f *baseFace) LocalURI() *ndn.URI            { return f.localURI }
func (f *baseFace) RemoteURI() *ndn.URI           { return f.remoteURI }
func (f *baseFace) RemoteScheme() string          { return f.remoteURI.Scheme() }
func (f *baseFace) Scope() defn.Scope             { return f.scope }
func (f *baseFace) LinkType() defn.LinkType       { return f.linkType }
func (f *baseFace) Persistency() defn.Persistency { return f.persistency }
func (f *baseFace) State() defn.State             { return f.state }
