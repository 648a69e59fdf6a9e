package selflearning_test

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/named-data/slfwd/defn"
	"github.com/named-data/slfwd/dispatch"
	"github.com/named-data/slfwd/fw/selflearning"
	"github.com/named-data/slfwd/ndn"
	"github.com/named-data/slfwd/table"
)

// fakeFace is a minimal dispatch.Face double that can optionally satisfy
// the strategy's duck-typed channel capability (Connect) for on-demand
// unicast face creation.
type fakeFace struct {
	id       uint64
	scope    defn.Scope
	linkType defn.LinkType

	dialed     net.Addr
	dialResult dispatch.Face
	dialErr    error
}

func (f *fakeFace) FaceID() uint64          { return f.id }
func (f *fakeFace) LocalURI() *ndn.URI      { return ndn.MakeInternalFaceURI() }
func (f *fakeFace) RemoteURI() *ndn.URI     { return ndn.MakeInternalFaceURI() }
func (f *fakeFace) RemoteScheme() string    { return "udp4" }
func (f *fakeFace) Scope() defn.Scope       { return f.scope }
func (f *fakeFace) LinkType() defn.LinkType { return f.linkType }
func (f *fakeFace) State() defn.State       { return defn.Up }
func (f *fakeFace) SendInterest(*ndn.Interest) {}
func (f *fakeFace) SendData(*ndn.Data)         {}
func (f *fakeFace) SendNack(*ndn.Nack)         {}

func (f *fakeFace) Connect(remote net.Addr, callback func(nf dispatch.Face, err error)) {
	f.dialed = remote
	callback(f.dialResult, f.dialErr)
}

// fakeForwarder is a Forwarder double recording every send the strategy
// issues, so scenarios can assert on what was forwarded where.
type fakeForwarder struct {
	faceOrder []uint64
	faces     map[uint64]dispatch.Face
	fib       []table.NextHop

	sentInterest []sentInterest
	sentData     []sentData
	sentNack     []sentNack
	nackedAll    []ndn.NackReason
	rejected     int
}

type sentInterest struct {
	faceID   uint64
	interest *ndn.Interest
}
type sentData struct {
	faceID uint64
	data   *ndn.Data
}
type sentNack struct {
	faceID uint64
	reason ndn.NackReason
}

func newFakeForwarder() *fakeForwarder {
	return &fakeForwarder{faces: map[uint64]dispatch.Face{}}
}

func (f *fakeForwarder) addFace(face *fakeFace) {
	f.faces[face.id] = face
	f.faceOrder = append(f.faceOrder, face.id)
}

func (f *fakeForwarder) LookupFib(*table.PitEntry) []table.NextHop { return f.fib }

func (f *fakeForwarder) SendInterest(pitEntry *table.PitEntry, faceID uint64, interest *ndn.Interest) {
	f.sentInterest = append(f.sentInterest, sentInterest{faceID, interest})
	pitEntry.FindOrInsertOutRecord(interest, faceID)
}

func (f *fakeForwarder) SendData(pitEntry *table.PitEntry, faceID uint64, data *ndn.Data) {
	f.sentData = append(f.sentData, sentData{faceID, data})
}

func (f *fakeForwarder) SendDataToAll(pitEntry *table.PitEntry, data *ndn.Data) {
	for _, in := range pitEntry.InRecords() {
		f.sentData = append(f.sentData, sentData{in.Face, data})
	}
}

func (f *fakeForwarder) SendNack(pitEntry *table.PitEntry, faceID uint64, reason ndn.NackReason) {
	f.sentNack = append(f.sentNack, sentNack{faceID, reason})
}

func (f *fakeForwarder) SendNackToAll(pitEntry *table.PitEntry, reason ndn.NackReason) {
	f.nackedAll = append(f.nackedAll, reason)
}

func (f *fakeForwarder) RejectPendingInterest(*table.PitEntry) { f.rejected++ }
func (f *fakeForwarder) SetExpiryTimer(*table.PitEntry, time.Duration) {}

func (f *fakeForwarder) FaceTable() []dispatch.Face {
	out := make([]dispatch.Face, 0, len(f.faceOrder))
	for _, id := range f.faceOrder {
		out = append(out, f.faces[id])
	}
	return out
}

func (f *fakeForwarder) GetFace(id uint64) dispatch.Face { return f.faces[id] }

func (f *fakeForwarder) WouldViolateScope(uint64, *ndn.Interest, uint64) bool { return false }

func (f *fakeForwarder) PostTask(fn func()) { fn() }

// fakeRibClient is a RibClient double whose callbacks fire synchronously.
type fakeRibClient struct {
	pa        *ndn.PrefixAnnouncement
	announced []announceCall
	renewed   []renewCall
}

type announceCall struct {
	pa     *ndn.PrefixAnnouncement
	faceID uint64
}
type renewCall struct {
	name        *ndn.Name
	faceID      uint64
	maxLifetime time.Duration
}

func (r *fakeRibClient) FindPrefixAnn(_ *ndn.Name, callback func(pa *ndn.PrefixAnnouncement)) {
	callback(r.pa)
}

func (r *fakeRibClient) Announce(pa *ndn.PrefixAnnouncement, faceID uint64, _ time.Duration, callback func(ok bool, err error)) {
	r.announced = append(r.announced, announceCall{pa, faceID})
	callback(true, nil)
}

func (r *fakeRibClient) Renew(name *ndn.Name, faceID uint64, maxLifetime time.Duration, callback func(ok bool, err error)) {
	r.renewed = append(r.renewed, renewCall{name, faceID, maxLifetime})
	callback(true, nil)
}

func newStrategy(t *testing.T, fwd selflearning.Forwarder, rib selflearning.RibClient) *selflearning.Strategy {
	t.Helper()
	s, err := selflearning.New(fwd, rib, selflearning.DefaultInstanceName())
	require.NoError(t, err)
	return s
}

// First Interest with an empty FIB, arriving from a local consumer, is
// broadcast to every non-local face as a discovery Interest.
func TestFirstInterestWithEmptyFibBroadcastsToAllNonLocalFaces(t *testing.T) {
	fwd := newFakeForwarder()
	fwd.addFace(&fakeFace{id: 1, scope: defn.Local})
	fwd.addFace(&fakeFace{id: 2, scope: defn.NonLocal})
	fwd.addFace(&fakeFace{id: 3, scope: defn.NonLocal})
	fwd.addFace(&fakeFace{id: 4, scope: defn.NonLocal})
	s := newStrategy(t, fwd, &fakeRibClient{})

	pit := table.NewPit()
	interest := ndn.NewInterest(ndn.MustName("/a/b"))
	pitEntry, _ := pit.FindOrInsert(interest)
	pitEntry.FindOrInsertInRecord(interest, 1)

	s.AfterReceiveInterest(pitEntry, 1, interest, nil)

	require.Len(t, fwd.sentInterest, 3)
	seen := map[uint64]bool{}
	for _, si := range fwd.sentInterest {
		seen[si.faceID] = true
		assert.False(t, si.interest.IsNonDiscovery())
	}
	assert.Equal(t, map[uint64]bool{2: true, 3: true, 4: true}, seen)
}

// A FIB hit sends a tagged non-discovery Interest to the lowest-cost
// eligible next hop only.
func TestFirstInterestWithFibRouteUsesLowestCostNextHop(t *testing.T) {
	fwd := newFakeForwarder()
	fwd.addFace(&fakeFace{id: 1, scope: defn.Local})
	fwd.addFace(&fakeFace{id: 2, scope: defn.NonLocal})
	fwd.addFace(&fakeFace{id: 3, scope: defn.NonLocal})
	fwd.fib = []table.NextHop{{Face: 2, Cost: 10}, {Face: 3, Cost: 20}}
	s := newStrategy(t, fwd, &fakeRibClient{})

	pit := table.NewPit()
	interest := ndn.NewInterest(ndn.MustName("/a/b"))
	pitEntry, _ := pit.FindOrInsert(interest)
	pitEntry.FindOrInsertInRecord(interest, 1)

	s.AfterReceiveInterest(pitEntry, 1, interest, fwd.fib)

	require.Len(t, fwd.sentInterest, 1)
	assert.Equal(t, uint64(2), fwd.sentInterest[0].faceID)
	assert.True(t, fwd.sentInterest[0].interest.IsNonDiscovery())
}

// A retransmission inside the suppression window is dropped silently.
func TestRetransmissionWithinSuppressionWindowIsSuppressed(t *testing.T) {
	fwd := newFakeForwarder()
	fwd.addFace(&fakeFace{id: 1, scope: defn.Local})
	fwd.addFace(&fakeFace{id: 2, scope: defn.NonLocal})
	fwd.fib = []table.NextHop{{Face: 2, Cost: 10}}
	s := newStrategy(t, fwd, &fakeRibClient{})

	pit := table.NewPit()
	interest := ndn.NewInterest(ndn.MustName("/a/b"))
	pitEntry, _ := pit.FindOrInsert(interest)
	pitEntry.FindOrInsertInRecord(interest, 1)

	s.AfterReceiveInterest(pitEntry, 1, interest, fwd.fib)
	require.Len(t, fwd.sentInterest, 1)

	s.AfterReceiveInterest(pitEntry, 1, interest, fwd.fib)
	assert.Len(t, fwd.sentInterest, 1, "a retransmission inside the backoff window must not be forwarded again")
}

// A retransmission 50ms after the first attempt, with the sole FIB route
// already tried, falls back to the earliest-used eligible next hop
// instead of being treated as having no next hop left to try. The out-
// record's expiration time (4s default lifetime) has not elapsed yet, so
// this only works if an unexpired out-record does not by itself make a
// next hop ineligible outside the want-unused search.
func TestRetransmissionAfterAllTriedFallsBackToEarliestUsed(t *testing.T) {
	fwd := newFakeForwarder()
	fwd.addFace(&fakeFace{id: 1, scope: defn.Local})
	fwd.addFace(&fakeFace{id: 2, scope: defn.NonLocal})
	fwd.fib = []table.NextHop{{Face: 2, Cost: 10}}
	s := newStrategy(t, fwd, &fakeRibClient{})

	pit := table.NewPit()
	interest := ndn.NewInterest(ndn.MustName("/a/b"))
	pitEntry, _ := pit.FindOrInsert(interest)
	pitEntry.FindOrInsertInRecord(interest, 1)

	s.AfterReceiveInterest(pitEntry, 1, interest, fwd.fib)
	require.Len(t, fwd.sentInterest, 1)
	assert.Equal(t, uint64(2), fwd.sentInterest[0].faceID)

	time.Sleep(50 * time.Millisecond)

	s.AfterReceiveInterest(pitEntry, 1, interest, fwd.fib)
	require.Len(t, fwd.sentInterest, 2, "the only next hop must be retried once the suppression window passes")
	assert.Equal(t, uint64(2), fwd.sentInterest[1].faceID)
}

// A Data carrying a Prefix Announcement, arriving on a multi-access face,
// triggers an on-demand unicast dial before the route is installed.
func TestDiscoveryDataOnMultiAccessFaceCreatesOnDemandFaceAndInstallsRoute(t *testing.T) {
	unicast := &fakeFace{id: 99, scope: defn.NonLocal, linkType: defn.PointToPoint}
	multiAccess := &fakeFace{id: 2, scope: defn.NonLocal, linkType: defn.MultiAccess, dialResult: unicast}

	fwd := newFakeForwarder()
	fwd.addFace(&fakeFace{id: 1, scope: defn.Local})
	fwd.addFace(multiAccess)
	ribClient := &fakeRibClient{}
	s := newStrategy(t, fwd, ribClient)

	pit := table.NewPit()
	interest := ndn.NewInterest(ndn.MustName("/a/b"))
	interest.SetNonDiscoveryTag()
	pitEntry, _ := pit.FindOrInsert(interest)
	pitEntry.FindOrInsertInRecord(interest, 1)
	fwd.SendInterest(pitEntry, 2, interest.DeepCopy())
	if rec, ok := pitEntry.GetOutRecord(2); ok {
		rec.StrategyInfo = &selflearning.OutRecordInfo{IsNonDiscovery: false}
	}

	data := ndn.NewData(ndn.MustName("/a/b"), []byte("x"))
	pa := ndn.NewPrefixAnnouncement(ndn.MustName("/a"), time.Minute)
	data.SetPrefixAnnouncement(pa)
	data.SetEndpoint(&net.UDPAddr{IP: net.ParseIP("10.0.0.1"), Port: 6363})

	s.AfterReceiveData(pitEntry, 2, data)

	require.NotNil(t, multiAccess.dialed)
	require.Len(t, ribClient.announced, 1)
	assert.Equal(t, uint64(99), ribClient.announced[0].faceID)
	assert.Same(t, pa, ribClient.announced[0].pa)
	require.Len(t, fwd.sentData, 1)
	assert.Equal(t, uint64(1), fwd.sentData[0].faceID)
}

// A NoRoute Nack arriving on the sole FIB route, for a PIT entry with a
// local consumer and no other untried next hop, restarts the Interest as
// a discovery broadcast.
func TestNoRouteNackFromSoleRouteRestartsAsDiscovery(t *testing.T) {
	fwd := newFakeForwarder()
	fwd.addFace(&fakeFace{id: 1, scope: defn.Local})
	fwd.addFace(&fakeFace{id: 2, scope: defn.NonLocal})
	fwd.addFace(&fakeFace{id: 3, scope: defn.NonLocal})
	ribClient := &fakeRibClient{}
	s := newStrategy(t, fwd, ribClient)

	pit := table.NewPit()
	interest := ndn.NewInterest(ndn.MustName("/a/b"))
	pitEntry, _ := pit.FindOrInsert(interest)
	pitEntry.FindOrInsertInRecord(interest, 1)

	fwd.SendInterest(pitEntry, 2, interest.DeepCopy())
	rec, _ := pitEntry.GetOutRecord(2)
	rec.StrategyInfo = &selflearning.OutRecordInfo{IsNonDiscovery: true}

	nack := ndn.NewNack(interest, ndn.NackReasonNoRoute)
	s.AfterReceiveNack(pitEntry, 2, nack)

	require.Len(t, ribClient.renewed, 1)
	assert.Equal(t, uint64(2), ribClient.renewed[0].faceID)
	assert.Equal(t, time.Duration(0), ribClient.renewed[0].maxLifetime)

	broadcasted := map[uint64]bool{}
	for _, si := range fwd.sentInterest {
		if si.faceID == 2 {
			continue
		}
		broadcasted[si.faceID] = true
		assert.False(t, si.interest.IsNonDiscovery())
	}
	assert.Equal(t, map[uint64]bool{3: true}, broadcasted)
	assert.Empty(t, fwd.nackedAll, "a consumer with a discovery fallback must not be Nacked")
}
