package ndn_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/named-data/slfwd/ndn"
)

func TestDataPrefixAnnouncement(t *testing.T) {
	d := ndn.NewData(ndn.MustName("/a/b"), []byte("content"))
	_, hasPA := d.PrefixAnnouncement()
	assert.False(t, hasPA)

	pa := ndn.NewPrefixAnnouncement(ndn.MustName("/a"), time.Minute)
	d.SetPrefixAnnouncement(pa)

	got, hasPA2 := d.PrefixAnnouncement()
	require.True(t, hasPA2)
	assert.Same(t, pa, got)
}

func TestDataEndpointTag(t *testing.T) {
	d := ndn.NewData(ndn.MustName("/a/b"), nil)
	_, has := d.Endpoint()
	assert.False(t, has)

	d.SetEndpoint("10.0.0.1:6363")
	endpoint, has2 := d.Endpoint()
	assert.True(t, has2)
	assert.Equal(t, "10.0.0.1:6363", endpoint)
}

func TestPrefixAnnouncementValidity(t *testing.T) {
	pa := ndn.NewPrefixAnnouncement(ndn.MustName("/a"), time.Minute)
	assert.True(t, pa.Valid(time.Now()))
	assert.False(t, pa.Valid(time.Now().Add(2*time.Minute)))
	assert.False(t, pa.Valid(time.Now().Add(-2*time.Minute)))
}
