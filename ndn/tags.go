package ndn

// TagKey identifies a slot in a packet's tag set. Real NDN forwarders
// carry these as LpPacket header fields on the wire; here they are a
// plain in-memory map, since the LP codec is an external collaborator.
type TagKey int

const (
	// NonDiscoveryTagKey marks an Interest as non-discovery. The tag
	// carries no value; its presence alone is the signal.
	NonDiscoveryTagKey TagKey = iota
	// PrefixAnnouncementTagKey wraps a *PrefixAnnouncement on a Data packet.
	PrefixAnnouncementTagKey
	// EndpointTagKey carries the sender's link-layer endpoint (e.g.
	// *net.UDPAddr, net.HardwareAddr) for Data arriving on a multi-access
	// face, mirroring NFD's lp::EndpointId. It is what a multi-access
	// face's channel dials to create an on-demand unicast face.
	EndpointTagKey
)

// tagSet is embedded in Interest and Data to carry strategy-visible tags.
type tagSet struct {
	tags map[TagKey]any
}

func (t *tagSet) has(k TagKey) bool {
	if t.tags == nil {
		return false
	}
	_, ok := t.tags[k]
	return ok
}

func (t *tagSet) get(k TagKey) any {
	if t.tags == nil {
		return nil
	}
	return t.tags[k]
}

func (t *tagSet) set(k TagKey, v any) {
	if t.tags == nil {
		t.tags = make(map[TagKey]any)
	}
	t.tags[k] = v
}

func (t *tagSet) remove(k TagKey) {
	if t.tags == nil {
		return
	}
	delete(t.tags, k)
}
