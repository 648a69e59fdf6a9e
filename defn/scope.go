// Package defn holds small, face-visible enumerations shared by the face,
// table, rib, and fw packages — split out to avoid import cycles.
package defn

// Scope indicates whether a face reaches a local application or another
// forwarder over the network.
type Scope int

const (
	// NonLocal indicates the face is non-local (to another forwarder).
	NonLocal Scope = iota
	// Local indicates the face is local (to an application on this host).
	Local
)

func (s Scope) String() string {
	if s == Local {
		return "Local"
	}
	return "NonLocal"
}
