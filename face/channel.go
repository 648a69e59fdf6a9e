package face

import (
	"net"

	"github.com/named-data/slfwd/dispatch"
)

// Channel is a multi-access face's channel: the object §4.11 asks to
// create an on-demand unicast face to a newly
// seen endpoint. Connect is asynchronous: the strategy continues running
// while the dial happens, and callback delivers the result whenever it is
// ready — matching the F/R asynchrony discipline used for RIB calls.
//
// The callback reports the new face as a dispatch.Face (rather than
// face.Face) so packages downstream of dispatch, like fw/selflearning,
// can recognize a Channel by method set alone without importing this
// package.
type Channel interface {
	Connect(remote net.Addr, callback func(f dispatch.Face, err error))
}
