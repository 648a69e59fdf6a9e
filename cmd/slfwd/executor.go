package main

import (
	"fmt"
	"net"
	"net/http"

	"github.com/named-data/slfwd/core"
	"github.com/named-data/slfwd/face"
	"github.com/named-data/slfwd/fw"
	"github.com/named-data/slfwd/fw/selflearning"
	"github.com/named-data/slfwd/ndn"
	"github.com/named-data/slfwd/rib"
)

// daemonConfig is the subset of the loaded TOML document the executor
// reads to decide which faces and how many forwarding threads to start.
type daemonConfig struct {
	threads             int
	ribStorePath        string
	multicastUDPIfaces  []string
	ethernetIfaces      []string
	ethernetRemoteMAC   string
	websocketListenAddr string
}

func loadDaemonConfig() daemonConfig {
	return daemonConfig{
		threads:             core.GetConfigIntDefault("core.threads", 1),
		ribStorePath:        core.GetConfigStringDefault("rib.store_path", ""),
		multicastUDPIfaces:  core.GetConfigArrayString("faces.multicast_udp_ifaces"),
		ethernetIfaces:      core.GetConfigArrayString("faces.ethernet_ifaces"),
		ethernetRemoteMAC:   core.GetConfigStringDefault("faces.ethernet_remote_mac", ""),
		websocketListenAddr: core.GetConfigStringDefault("faces.websocket_listen", ""),
	}
}

// executor owns every subsystem started by "slfwd run": the face table,
// the forwarding threads, the RIB services backing them, and any
// listeners created for configured face types.
type executor struct {
	faceTable    *face.Table
	threads      []*fw.Thread
	ribServices  []*rib.Service
	ribStore     *rib.BadgerStore
	httpServer   *http.Server
}

func newExecutor(cfg daemonConfig) (*executor, error) {
	e := &executor{faceTable: face.NewTable()}

	if cfg.ribStorePath != "" {
		store, err := rib.NewBadgerStore(cfg.ribStorePath)
		if err != nil {
			return nil, fmt.Errorf("open RIB store at %s: %w", cfg.ribStorePath, err)
		}
		e.ribStore = store
	}

	numThreads := cfg.threads
	if numThreads < 1 {
		numThreads = 1
	}
	if numThreads > fw.MaxFwThreads {
		numThreads = fw.MaxFwThreads
	}

	instanceName := selflearning.DefaultInstanceName()
	for i := 0; i < numThreads; i++ {
		thread := fw.NewThread(i, nil)

		var store rib.Store
		if e.ribStore != nil {
			store = e.ribStore
		}
		svc := rib.NewService(store, thread.PostTask)

		strategy, err := selflearning.New(thread, svc, instanceName)
		if err != nil {
			return nil, fmt.Errorf("instantiate strategy for thread %d: %w", i, err)
		}
		thread.Attach(strategy)

		e.threads = append(e.threads, thread)
		e.ribServices = append(e.ribServices, svc)
	}

	if err := e.openFaces(cfg); err != nil {
		return nil, err
	}

	return e, nil
}

// dispatchTo picks the forwarding thread responsible for name and hands
// the received packet to it.
func (e *executor) dispatchTo(inFace uint64, name *ndn.Name, pkt any) {
	idx := fw.HashNameToFwThread(name, len(e.threads))
	thread := e.threads[idx]
	switch p := pkt.(type) {
	case *ndn.Interest:
		thread.QueueInterest(p, inFace)
	case *ndn.Data:
		thread.QueueData(p, inFace)
	case *ndn.Nack:
		thread.QueueNack(p, inFace)
	}
}

func (e *executor) openFaces(cfg daemonConfig) error {
	for _, ifaceName := range cfg.multicastUDPIfaces {
		iface, err := net.InterfaceByName(ifaceName)
		if err != nil {
			return fmt.Errorf("multicast UDP face on %s: %w", ifaceName, err)
		}
		group := &net.UDPAddr{IP: net.ParseIP("224.0.23.170"), Port: 56363}
		f, err := face.ListenMulticastUDPFace(group, iface)
		if err != nil {
			return fmt.Errorf("multicast UDP face on %s: %w", ifaceName, err)
		}
		id := e.faceTable.Add(f)
		f.SetRecvCallback(func(from net.Addr, pkt any) {
			e.onPacketFromEndpoint(id, from, pkt)
		})
		core.LogInfo("slfwd", "multicast UDP face up on ", ifaceName, " FaceID=", id)
	}

	if len(cfg.ethernetIfaces) > 0 && cfg.ethernetRemoteMAC == "" {
		return fmt.Errorf("faces.ethernet_ifaces configured without faces.ethernet_remote_mac")
	}
	for _, ifaceName := range cfg.ethernetIfaces {
		remote, err := net.ParseMAC(cfg.ethernetRemoteMAC)
		if err != nil {
			return fmt.Errorf("ethernet face on %s: %w", ifaceName, err)
		}
		f, err := face.OpenEthernetFace(ifaceName, remote)
		if err != nil {
			return fmt.Errorf("ethernet face on %s: %w", ifaceName, err)
		}
		id := e.faceTable.Add(f)
		f.SetRecvCallback(func(from net.HardwareAddr, pkt any) {
			e.onPacketFromEndpoint(id, nil, pkt)
		})
		core.LogInfo("slfwd", "Ethernet face up on ", ifaceName, " FaceID=", id)
	}

	if cfg.websocketListenAddr != "" {
		mux := http.NewServeMux()
		mux.HandleFunc("/ndn", func(w http.ResponseWriter, r *http.Request) {
			localURI := ndn.MakeInternalFaceURI()
			f, err := face.UpgradeWebSocketFace(w, r, localURI)
			if err != nil {
				core.LogWarn("slfwd", "WebSocket upgrade failed: ", err)
				return
			}
			id := e.faceTable.Add(f)
			f.SetRecvCallback(func(pkt any) {
				e.onPacketFromEndpoint(id, nil, pkt)
			})
			core.LogInfo("slfwd", "WebSocket face up FaceID=", id)
		})
		e.httpServer = &http.Server{Addr: cfg.websocketListenAddr, Handler: mux}
		go func() {
			if err := e.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				core.LogError("slfwd", "WebSocket listener stopped: ", err)
			}
		}()
		core.LogInfo("slfwd", "WebSocket listener up on ", cfg.websocketListenAddr)
	}

	return nil
}

// onPacketFromEndpoint routes a packet received on inFace to the owning
// forwarding thread, attaching the sender's link-layer endpoint to Data
// so §4.11's on-demand unicast face creation can dial it back.
func (e *executor) onPacketFromEndpoint(inFace uint64, from net.Addr, pkt any) {
	if d, ok := pkt.(*ndn.Data); ok && from != nil {
		d.SetEndpoint(from)
	}
	name := packetName(pkt)
	if name == nil {
		return
	}
	e.dispatchTo(inFace, name, pkt)
}

func packetName(pkt any) *ndn.Name {
	switch p := pkt.(type) {
	case *ndn.Interest:
		return p.Name()
	case *ndn.Data:
		return p.Name()
	case *ndn.Nack:
		return p.Interest().Name()
	default:
		return nil
	}
}

func (e *executor) start() {
	for _, svc := range e.ribServices {
		go svc.Run()
	}
	for _, thread := range e.threads {
		go thread.Run()
	}
}

func (e *executor) stop() {
	core.ShouldQuit = true

	if e.httpServer != nil {
		_ = e.httpServer.Close()
	}
	for _, f := range e.faceTable.GetAll() {
		f.Close()
	}
	for _, thread := range e.threads {
		thread.TellToQuit()
	}
	for _, thread := range e.threads {
		<-thread.HasQuit
	}
	for _, svc := range e.ribServices {
		svc.Stop()
	}
	if e.ribStore != nil {
		_ = e.ribStore.Close()
	}
}
