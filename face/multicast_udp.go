package face

import (
	"context"
	"net"

	"github.com/named-data/slfwd/core"
	"github.com/named-data/slfwd/defn"
	"github.com/named-data/slfwd/dispatch"
	"github.com/named-data/slfwd/ndn"
)

// MulticastUDPFace is a multi-access face bound to a multicast group. It
// doubles as a face.Channel: receiving a discovery reply from an
// endpoint this face has not unicast-dialed yet triggers §4.11's
// on-demand UDPFace creation.
type MulticastUDPFace struct {
	baseFace
	conn     *net.UDPConn
	group    *net.UDPAddr
	onRecv   func(from net.Addr, pkt any)
	faceIPv4 int // not set or read; Connect dials on-demand unicast faces from an ephemeral local port
}

// ListenMulticastUDPFace joins group on iface and starts receiving.
func ListenMulticastUDPFace(group *net.UDPAddr, iface *net.Interface) (*MulticastUDPFace, error) {
	conn, err := net.ListenMulticastUDP("udp4", iface, group)
	if err != nil {
		return nil, err
	}
	f := &MulticastUDPFace{
		baseFace: baseFace{
			localURI:    ndn.MakeUDPFaceURI(4, group.IP.String(), uint16(group.Port)),
			remoteURI:   ndn.MakeUDPFaceURI(4, group.IP.String(), uint16(group.Port)),
			scope:       defn.NonLocal,
			linkType:    defn.MultiAccess,
			persistency: defn.PersistencyPermanent,
			state:       defn.Up,
		},
		conn:  conn,
		group: group,
	}
	go f.runLoop()
	return f, nil
}

func (f *MulticastUDPFace) runLoop() {
	buf := make([]byte, defn.MaxNDNPacketSize)
	for {
		n, from, err := f.conn.ReadFromUDP(buf)
		if err != nil {
			f.state = defn.Down
			return
		}
		if f.onRecv != nil {
			f.onRecv(from, decodeStub(buf[:n]))
		}
	}
}

// SetRecvCallback installs the handler fw.Thread uses for Interests/Data
// arriving on the multicast group, carrying the sender's endpoint
// alongside the packet since that endpoint is what a §4.11 on-demand
// unicast face would dial.
func (f *MulticastUDPFace) SetRecvCallback(cb func(from net.Addr, pkt any)) { f.onRecv = cb }

func (f *MulticastUDPFace) SendInterest(i *ndn.Interest) { f.sendAll(encodeStub(i)) }
func (f *MulticastUDPFace) SendData(d *ndn.Data)         { f.sendAll(encodeStub(d)) }
func (f *MulticastUDPFace) SendNack(n *ndn.Nack)         { f.sendAll(encodeStub(n)) }

func (f *MulticastUDPFace) sendAll(b []byte) {
	if _, err := f.conn.WriteToUDP(b, f.group); err != nil {
		core.LogWarn("MulticastUDPFace", "send failed on FaceID=", f.id, ": ", err)
	}
}

func (f *MulticastUDPFace) Close() {
	f.state = defn.AdminDown
	_ = f.conn.Close()
}

// Connect implements face.Channel: it dials an on-demand unicast UDPFace
// to remote, the behavior §4.11 triggers when Data for a discovery
// Interest arrives on this multi-access face from an endpoint with no
// existing unicast face.
func (f *MulticastUDPFace) Connect(remote net.Addr, callback func(dispatch.Face, error)) {
	udpRemote, ok := remote.(*net.UDPAddr)
	if !ok {
		go callback(nil, context.Canceled)
		return
	}
	go func() {
		nf, err := DialUDPFace(udpRemote, 0)
		if err != nil {
			callback(nil, err)
			return
		}
		callback(nf, nil)
	}()
}
