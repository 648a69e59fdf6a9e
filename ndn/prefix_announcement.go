package ndn

import "time"

// PrefixAnnouncement asserts that its originator serves AnnouncedName for
// the given validity window. The strategy treats it as an opaque, already
// -validated object — signature verification is out of scope here and is
// delegated to the RIB service.
type PrefixAnnouncement struct {
	AnnouncedName  *Name
	ValidityStart  time.Time
	ValidityEnd    time.Time
	SignatureInfo  []byte // opaque; unchecked by this package
}

// NewPrefixAnnouncement builds a PrefixAnnouncement for name, valid for d
// starting now.
func NewPrefixAnnouncement(name *Name, d time.Duration) *PrefixAnnouncement {
	now := time.Now()
	return &PrefixAnnouncement{
		AnnouncedName: name.DeepCopy(),
		ValidityStart: now,
		ValidityEnd:   now.Add(d),
	}
}

// Valid reports whether the announcement's validity window covers now.
func (pa *PrefixAnnouncement) Valid(now time.Time) bool {
	return pa != nil && !now.Before(pa.ValidityStart) && now.Before(pa.ValidityEnd)
}
