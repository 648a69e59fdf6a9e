// Package impl holds platform-specific face internals, split out so
// pcap_enabled.go / pcap_disabled.go can be build-tag-gated independently.
package impl

import (
	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
)

// PcapHandle contains a subset of *pcap.Handle's methods.
type PcapHandle interface {
	gopacket.PacketDataSource
	LinkType() layers.LinkType
	WritePacketData(data []byte) error
	Close()
}
