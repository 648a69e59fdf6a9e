package face

import (
	"context"
	"net"
	"syscall"

	"golang.org/x/sys/unix"

	"github.com/named-data/slfwd/core"
	"github.com/named-data/slfwd/defn"
	"github.com/named-data/slfwd/ndn"
)

// UDPFace is a point-to-point unicast UDP face — the on-demand face type
// §4.11 asks the multicast UDP channel to create when a discovery reply
// arrives over a multi-access face. The TLV wire codec is an external
// collaborator out of scope here, so SendInterest/SendData/SendNack hand
// already-decoded packets to onRecv on the receive side and a stand-in
// encoding on the send side.
type UDPFace struct {
	baseFace
	conn   *net.UDPConn
	onRecv func(pkt any)
}

// DialUDPFace opens a unicast UDP face to remote, bound to localPort (0
// picks an ephemeral port). SO_REUSEPORT is set on the socket so the same
// port can host both the shared multicast channel and per-peer on-demand
// unicast faces, using net.Dialer's Control hook for the option.
func DialUDPFace(remote *net.UDPAddr, localPort int) (*UDPFace, error) {
	d := net.Dialer{
		LocalAddr: &net.UDPAddr{Port: localPort},
		Control: func(_, _ string, c syscall.RawConn) error {
			var sockErr error
			err := c.Control(func(fd uintptr) {
				sockErr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEPORT, 1)
			})
			if err != nil {
				return err
			}
			return sockErr
		},
	}

	c, err := d.DialContext(context.Background(), "udp", remote.String())
	if err != nil {
		return nil, err
	}
	conn := c.(*net.UDPConn)
	if err := conn.SetWriteBuffer(defn.MaxNDNPacketSize); err != nil {
		core.LogWarn("UDPFace", "failed to size write buffer: ", err)
	}

	local := conn.LocalAddr().(*net.UDPAddr)
	f := &UDPFace{
		baseFace: baseFace{
			localURI:    ndn.MakeUDPFaceURI(4, local.IP.String(), uint16(local.Port)),
			remoteURI:   ndn.MakeUDPFaceURI(4, remote.IP.String(), uint16(remote.Port)),
			scope:       defn.NonLocal,
			linkType:    defn.PointToPoint,
			persistency: defn.PersistencyOnDemand,
			state:       defn.Up,
		},
		conn: conn,
	}
	go f.runLoop(remote)
	return f, nil
}

func (f *UDPFace) runLoop(remote *net.UDPAddr) {
	buf := make([]byte, defn.MaxNDNPacketSize)
	for {
		n, from, err := f.conn.ReadFromUDP(buf)
		if err != nil {
			f.state = defn.Down
			return
		}
		if from.IP.String() != remote.IP.String() {
			continue // not our peer; a shared-port on-demand face ignores stray datagrams
		}
		if f.onRecv != nil {
			f.onRecv(decodeStub(buf[:n]))
		}
	}
}

// SetRecvCallback installs the handler fw.Thread uses to feed received
// packets into the forwarding pipeline.
func (f *UDPFace) SetRecvCallback(cb func(pkt any)) { f.onRecv = cb }

func (f *UDPFace) SendInterest(i *ndn.Interest) { f.send(encodeStub(i)) }
func (f *UDPFace) SendData(d *ndn.Data)         { f.send(encodeStub(d)) }
func (f *UDPFace) SendNack(n *ndn.Nack)         { f.send(encodeStub(n)) }

func (f *UDPFace) send(b []byte) {
	if _, err := f.conn.Write(b); err != nil {
		core.LogWarn("UDPFace", "send failed on FaceID=", f.id, ": ", err)
		f.state = defn.Down
	}
}

func (f *UDPFace) Close() {
	f.state = defn.AdminDown
	_ = f.conn.Close()
}

// encodeStub/decodeStub stand in for the TLV wire codec, which is an
// external collaborator out of scope here; faces here only need a
// one-byte tag so loopback tests can round-trip packets without a real
// encoder.
func encodeStub(pkt any) []byte {
	switch pkt.(type) {
	case *ndn.Interest:
		return []byte{0}
	case *ndn.Data:
		return []byte{1}
	default:
		return []byte{2}
	}
}

func decodeStub(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	switch b[0] {
	case 0:
		return &ndn.Interest{}
	case 1:
		return &ndn.Data{}
	default:
		return &ndn.Nack{}
	}
}
