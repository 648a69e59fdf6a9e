package defn

// LinkType indicates what type of link a face is.
type LinkType int

const (
	// PointToPoint is a face with exactly one remote endpoint.
	PointToPoint LinkType = iota
	// MultiAccess is a face shared by multiple remote endpoints (e.g.
	// Ethernet multicast, UDP multicast).
	MultiAccess
	// AdHoc is a wireless ad-hoc link where the sender of an Interest may
	// legitimately also be an eligible next hop for it.
	AdHoc
)

func (l LinkType) String() string {
	switch l {
	case MultiAccess:
		return "MultiAccess"
	case AdHoc:
		return "AdHoc"
	default:
		return "PointToPoint"
	}
}
