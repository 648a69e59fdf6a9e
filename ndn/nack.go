package ndn

// NackReason indicates why an upstream could not satisfy an Interest.
type NackReason int

const (
	// NackReasonNone is the zero value; should not appear on the wire.
	NackReasonNone NackReason = iota
	// NackReasonCongestion indicates the upstream link is congested.
	NackReasonCongestion
	// NackReasonDuplicate indicates the Interest is a looping duplicate.
	NackReasonDuplicate
	// NackReasonNoRoute indicates the upstream has no FIB route for the name.
	NackReasonNoRoute
)

func (r NackReason) String() string {
	switch r {
	case NackReasonCongestion:
		return "Congestion"
	case NackReasonDuplicate:
		return "Duplicate"
	case NackReasonNoRoute:
		return "NoRoute"
	default:
		return "None"
	}
}

// Nack is a link-layer negative acknowledgement referencing an Interest.
type Nack struct {
	interest *Interest
	reason   NackReason
}

// NewNack creates a Nack for interest with the given reason.
func NewNack(interest *Interest, reason NackReason) *Nack {
	return &Nack{interest: interest, reason: reason}
}

// Interest returns the Interest the Nack refers to.
func (n *Nack) Interest() *Interest { return n.interest }

// Reason returns the Nack's reason.
func (n *Nack) Reason() NackReason { return n.reason }
