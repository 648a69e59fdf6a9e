package ndn

import (
	"crypto/rand"
	"time"
)

// DefaultInterestLifetime matches the NDN protocol default.
const DefaultInterestLifetime = 4000 * time.Millisecond

// Interest represents an NDN Interest packet.
type Interest struct {
	tagSet

	name        *Name
	canBePrefix bool
	mustBeFresh bool
	nonce       []byte
	lifetime    time.Duration
	hopLimit    *uint8
}

// NewInterest creates an Interest for name with the protocol default lifetime.
func NewInterest(name *Name) *Interest {
	i := &Interest{
		name:     name.DeepCopy(),
		lifetime: DefaultInterestLifetime,
	}
	i.ResetNonce()
	return i
}

// Name returns the Interest's name.
func (i *Interest) Name() *Name { return i.name }

// SetName replaces the Interest's name.
func (i *Interest) SetName(name *Name) { i.name = name }

// CanBePrefix reports the CanBePrefix selector.
func (i *Interest) CanBePrefix() bool { return i.canBePrefix }

// SetCanBePrefix sets the CanBePrefix selector.
func (i *Interest) SetCanBePrefix(v bool) { i.canBePrefix = v }

// MustBeFresh reports the MustBeFresh selector.
func (i *Interest) MustBeFresh() bool { return i.mustBeFresh }

// SetMustBeFresh sets the MustBeFresh selector.
func (i *Interest) SetMustBeFresh(v bool) { i.mustBeFresh = v }

// Nonce returns the Interest's nonce.
func (i *Interest) Nonce() []byte { return i.nonce }

// ResetNonce generates a fresh random nonce.
func (i *Interest) ResetNonce() {
	n := make([]byte, 4)
	_, _ = rand.Read(n)
	i.nonce = n
}

// Lifetime returns the Interest's lifetime.
func (i *Interest) Lifetime() time.Duration { return i.lifetime }

// SetLifetime sets the Interest's lifetime.
func (i *Interest) SetLifetime(d time.Duration) { i.lifetime = d }

// HopLimit returns the Interest's hop limit, or nil if unset.
func (i *Interest) HopLimit() *uint8 { return i.hopLimit }

// SetHopLimit sets the Interest's hop limit.
func (i *Interest) SetHopLimit(v uint8) { i.hopLimit = &v }

// DeepCopy returns an independent copy of the Interest, including its tags.
// Strategies that mutate an outgoing Interest's tags (e.g. attaching
// NonDiscoveryTag before forwarding) must copy first so that in-records
// for other downstreams are not affected.
func (i *Interest) DeepCopy() *Interest {
	out := &Interest{
		name:        i.name.DeepCopy(),
		canBePrefix: i.canBePrefix,
		mustBeFresh: i.mustBeFresh,
		nonce:       append([]byte(nil), i.nonce...),
		lifetime:    i.lifetime,
		hopLimit:    i.hopLimit,
	}
	for k, v := range i.tagSet.tags {
		out.tagSet.set(k, v)
	}
	return out
}

// HasNonDiscoveryTag reports whether the NonDiscoveryTag is present.
func (i *Interest) HasNonDiscoveryTag() bool {
	return i.tagSet.has(NonDiscoveryTagKey)
}

// SetNonDiscoveryTag attaches the (empty-valued) NonDiscoveryTag.
func (i *Interest) SetNonDiscoveryTag() {
	i.tagSet.set(NonDiscoveryTagKey, struct{}{})
}

// RemoveNonDiscoveryTag strips the NonDiscoveryTag, if present.
func (i *Interest) RemoveNonDiscoveryTag() {
	i.tagSet.remove(NonDiscoveryTagKey)
}

// IsNonDiscovery is an alias for HasNonDiscoveryTag: an Interest is
// forwarded as non-discovery if and only if it carries NonDiscoveryTag
// on the wire.
func (i *Interest) IsNonDiscovery() bool {
	return i.HasNonDiscoveryTag()
}
