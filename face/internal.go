package face

import (
	"github.com/named-data/slfwd/core"
	"github.com/named-data/slfwd/defn"
	"github.com/named-data/slfwd/ndn"
)

const internalQueueSize = 128

// InternalFace is a local-scope face used by management and test
// consumers — a face with no transport underneath, backed purely by Go
// channels.
type InternalFace struct {
	baseFace

	toConsumer   chan any // *ndn.Interest | *ndn.Data | *ndn.Nack delivered to the local consumer
	fromConsumer chan any // same, originated by the local consumer
}

// NewInternalFace creates an InternalFace in the Up state.
func NewInternalFace() *InternalFace {
	f := &InternalFace{
		baseFace: baseFace{
			localURI:    ndn.MakeInternalFaceURI(),
			remoteURI:   ndn.MakeInternalFaceURI(),
			scope:       defn.Local,
			linkType:    defn.PointToPoint,
			persistency: defn.PersistencyPersistent,
			state:       defn.Up,
		},
		toConsumer:   make(chan any, internalQueueSize),
		fromConsumer: make(chan any, internalQueueSize),
	}
	return f
}

func (f *InternalFace) SendInterest(i *ndn.Interest) { f.deliver(i) }
func (f *InternalFace) SendData(d *ndn.Data)          { f.deliver(d) }
func (f *InternalFace) SendNack(n *ndn.Nack)          { f.deliver(n) }

func (f *InternalFace) deliver(pkt any) {
	select {
	case f.toConsumer <- pkt:
	default:
		core.LogWarn("InternalFace", "consumer queue full on FaceID=", f.id)
	}
}

// Receive returns the channel the internal consumer reads forwarder-bound
// packets from.
func (f *InternalFace) Receive() <-chan any { return f.toConsumer }

// Submit is how the internal consumer injects a packet into the forwarder:
// it queues pkt on the channel returned by Outgoing. fw.Thread's event
// loop does not read that channel.
func (f *InternalFace) Submit(pkt any) {
	select {
	case f.fromConsumer <- pkt:
	default:
		core.LogWarn("InternalFace", "submit queue full on FaceID=", f.id)
	}
}

// Outgoing exposes the channel that holds locally-submitted packets.
func (f *InternalFace) Outgoing() <-chan any { return f.fromConsumer }

func (f *InternalFace) Close() {
	f.state = defn.AdminDown
}
