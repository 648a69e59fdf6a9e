package ndn

import "time"

// Data represents an NDN Data packet.
type Data struct {
	tagSet

	name          *Name
	freshnessTime time.Duration
	content       []byte
}

// NewData creates a Data packet for name.
func NewData(name *Name, content []byte) *Data {
	return &Data{name: name.DeepCopy(), content: content}
}

// Name returns the Data's name.
func (d *Data) Name() *Name { return d.name }

// Content returns the Data's content.
func (d *Data) Content() []byte { return d.content }

// FreshnessPeriod returns the Data's freshness period.
func (d *Data) FreshnessPeriod() time.Duration { return d.freshnessTime }

// SetFreshnessPeriod sets the Data's freshness period.
func (d *Data) SetFreshnessPeriod(v time.Duration) { d.freshnessTime = v }

// DeepCopy returns an independent copy of the Data packet, including tags.
func (d *Data) DeepCopy() *Data {
	out := &Data{
		name:          d.name.DeepCopy(),
		freshnessTime: d.freshnessTime,
		content:       append([]byte(nil), d.content...),
	}
	for k, v := range d.tagSet.tags {
		out.tagSet.set(k, v)
	}
	return out
}

// PrefixAnnouncement returns the attached Prefix Announcement, if any.
func (d *Data) PrefixAnnouncement() (*PrefixAnnouncement, bool) {
	v := d.tagSet.get(PrefixAnnouncementTagKey)
	if v == nil {
		return nil, false
	}
	pa, ok := v.(*PrefixAnnouncement)
	return pa, ok
}

// SetPrefixAnnouncement attaches a Prefix Announcement to the Data packet.
func (d *Data) SetPrefixAnnouncement(pa *PrefixAnnouncement) {
	d.tagSet.set(PrefixAnnouncementTagKey, pa)
}

// Endpoint returns the sender's link-layer endpoint, if the receiving face
// attached one (multi-access faces do; point-to-point faces do not need to).
func (d *Data) Endpoint() (any, bool) {
	v := d.tagSet.get(EndpointTagKey)
	return v, v != nil
}

// SetEndpoint attaches the sender's link-layer endpoint to the Data packet.
func (d *Data) SetEndpoint(endpoint any) {
	d.tagSet.set(EndpointTagKey, endpoint)
}
