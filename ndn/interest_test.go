package ndn_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/named-data/slfwd/ndn"
)

func TestInterestNonDiscoveryTag(t *testing.T) {
	i := ndn.NewInterest(ndn.MustName("/a/b"))
	assert.False(t, i.IsNonDiscovery())

	i.SetNonDiscoveryTag()
	assert.True(t, i.IsNonDiscovery())

	i.RemoveNonDiscoveryTag()
	assert.False(t, i.IsNonDiscovery())
}

func TestInterestDeepCopyPreservesTags(t *testing.T) {
	i := ndn.NewInterest(ndn.MustName("/a/b"))
	i.SetNonDiscoveryTag()

	cp := i.DeepCopy()
	assert.True(t, cp.IsNonDiscovery())

	cp.RemoveNonDiscoveryTag()
	assert.False(t, cp.IsNonDiscovery())
	assert.True(t, i.IsNonDiscovery(), "mutating a deep copy's tags must not affect the original")
}

func TestInterestNonceIsSet(t *testing.T) {
	i := ndn.NewInterest(ndn.MustName("/a/b"))
	assert.Len(t, i.Nonce(), 4)
}
