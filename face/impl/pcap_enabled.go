//go:build windows || cgo

package impl

import (
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcap"

	"github.com/named-data/slfwd/core"
	"github.com/named-data/slfwd/defn"
)

// OpenPcap creates and activates a PCAP handle for an Ethernet face.
func OpenPcap(device, bpfFilter string) (PcapHandle, error) {
	inactive, err := pcap.NewInactiveHandle(device)
	if err != nil {
		core.LogError("Face-Pcap", "unable to create PCAP handle: ", err)
		return nil, err
	}
	defer inactive.CleanUp()

	if err := inactive.SetSnapLen(18 + defn.MaxNDNPacketSize); err != nil {
		core.LogError("Face-Pcap", "unable to set PCAP snap length: ", err)
		return nil, err
	}
	if err := inactive.SetImmediateMode(true); err != nil {
		core.LogError("Face-Pcap", "unable to set immediate mode: ", err)
		return nil, err
	}
	if err := inactive.SetBufferSize(24 * 1024 * 1024); err != nil {
		core.LogError("Face-Pcap", "unable to set buffer size: ", err)
		return nil, err
	}

	hdl, err := inactive.Activate()
	if err != nil {
		core.LogError("Face-Pcap", "unable to activate PCAP handle: ", err)
		return nil, err
	}
	if err := hdl.SetDirection(pcap.DirectionIn); err != nil {
		core.LogError("Face-Pcap", "unable to set direction: ", err)
	}
	if err := hdl.SetLinkType(layers.LinkTypeEthernet); err != nil {
		core.LogError("Face-Pcap", "unable to set link type: ", err)
		return nil, err
	}
	if err := hdl.SetBPFFilter(bpfFilter); err != nil {
		core.LogError("Face-Pcap", "unable to set BPF filter: ", err)
	}

	return hdl, nil
}
