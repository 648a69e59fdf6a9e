package defn

// MaxNDNPacketSize is the maximum size in bytes of an NDN packet on the wire.
const MaxNDNPacketSize = 8800

// NDNEtherType is the standard EtherType for NDN over Ethernet.
const NDNEtherType = 0x8624

// NDNUnicastUDPPort is the standard unicast UDP port for NDN.
const NDNUnicastUDPPort = 6363

// NDNMulticastUDPPort is the standard multicast UDP port for NDN.
const NDNMulticastUDPPort = 56363
