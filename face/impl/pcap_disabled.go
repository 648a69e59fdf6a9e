//go:build !windows && !cgo

package impl

import (
	"errors"

	"github.com/named-data/slfwd/core"
)

// OpenPcap returns an error on platforms built without cgo/pcap support.
func OpenPcap(device, bpfFilter string) (PcapHandle, error) {
	core.LogError("Face-Pcap", "PCAP not supported on this build")
	return nil, errors.New("pcap not supported on this build")
}
