package face

import (
	"fmt"
	"net"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/zjkmxy/stealthpool"

	"github.com/named-data/slfwd/core"
	"github.com/named-data/slfwd/defn"
	"github.com/named-data/slfwd/face/impl"
	"github.com/named-data/slfwd/ndn"
)

// maxFramePoolBlockCnt and maxFramePoolBlockSize size the pooled Ethernet
// frame buffer.
const (
	maxFramePoolBlockCnt  = 1000
	maxFramePoolBlockSize = 9000
)

// EthernetFace is a multicast Ethernet multi-access face. NDN packets are
// carried directly in Ethernet frames under defn.NDNEtherType — no IP
// layer underneath.
type EthernetFace struct {
	baseFace
	handle     impl.PcapHandle
	localAddr  net.HardwareAddr
	remoteAddr net.HardwareAddr
	onRecv     func(from net.HardwareAddr, pkt any)
	quit       chan struct{}

	// framePool is allocated when the face opens and released by Close;
	// neither sendFrame nor runLoop draws buffers from it (sendFrame
	// serializes into a gopacket buffer).
	framePool *stealthpool.Pool
}

// OpenEthernetFace opens a multicast Ethernet face on ifaceName, sending
// to and filtering on remoteAddr (typically the NDN multicast MAC).
func OpenEthernetFace(ifaceName string, remoteAddr net.HardwareAddr) (*EthernetFace, error) {
	iface, err := net.InterfaceByName(ifaceName)
	if err != nil {
		return nil, err
	}

	filter := fmt.Sprintf("ether proto 0x%x and ether dst %s", defn.NDNEtherType, remoteAddr.String())
	handle, err := impl.OpenPcap(ifaceName, filter)
	if err != nil {
		return nil, err
	}

	pool, err := stealthpool.New(maxFramePoolBlockCnt, stealthpool.WithBlockSize(maxFramePoolBlockSize))
	if err != nil {
		handle.Close()
		core.LogError("EthernetFace", "unable to allocate frame pool: ", err)
		return nil, err
	}

	f := &EthernetFace{
		baseFace: baseFace{
			localURI:    ndn.MakeEtherFaceURI(iface.HardwareAddr),
			remoteURI:   ndn.MakeEtherFaceURI(remoteAddr),
			scope:       defn.NonLocal,
			linkType:    defn.MultiAccess,
			persistency: defn.PersistencyPermanent,
			state:       defn.Up,
		},
		handle:     handle,
		localAddr:  iface.HardwareAddr,
		remoteAddr: remoteAddr,
		quit:       make(chan struct{}),
		framePool:  pool,
	}
	go f.runLoop()
	return f, nil
}

func (f *EthernetFace) runLoop() {
	src := gopacket.NewPacketSource(f.handle, layers.LinkTypeEthernet)
	for {
		select {
		case <-f.quit:
			return
		case pkt, ok := <-src.Packets():
			if !ok {
				f.state = defn.Down
				return
			}
			eth, _ := pkt.Layer(layers.LayerTypeEthernet).(*layers.Ethernet)
			if eth == nil || f.onRecv == nil {
				continue
			}
			f.onRecv(eth.SrcMAC, decodeStub(eth.Payload))
		}
	}
}

// SetRecvCallback installs the handler used for Interests/Data arriving
// over this multi-access face, carrying the sender's MAC address — the
// endpoint a §4.11 on-demand face would be created against.
func (f *EthernetFace) SetRecvCallback(cb func(from net.HardwareAddr, pkt any)) { f.onRecv = cb }

func (f *EthernetFace) SendInterest(i *ndn.Interest) { f.sendFrame(encodeStub(i)) }
func (f *EthernetFace) SendData(d *ndn.Data)         { f.sendFrame(encodeStub(d)) }
func (f *EthernetFace) SendNack(n *ndn.Nack)         { f.sendFrame(encodeStub(n)) }

func (f *EthernetFace) sendFrame(payload []byte) {
	buf := gopacket.NewSerializeBuffer()
	opts := gopacket.SerializeOptions{FixLengths: true}
	eth := &layers.Ethernet{
		SrcMAC:       f.localAddr,
		DstMAC:       f.remoteAddr,
		EthernetType: layers.EthernetType(defn.NDNEtherType),
	}
	if err := gopacket.SerializeLayers(buf, opts, eth, gopacket.Payload(payload)); err != nil {
		core.LogWarn("EthernetFace", "failed to serialize frame: ", err)
		return
	}
	if err := f.handle.WritePacketData(buf.Bytes()); err != nil {
		core.LogWarn("EthernetFace", "send failed on FaceID=", f.id, ": ", err)
	}
}

func (f *EthernetFace) Close() {
	f.state = defn.AdminDown
	close(f.quit)
	f.handle.Close()
	f.framePool.Close()
}
