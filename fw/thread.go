package fw

import (
	"strconv"
	"time"

	"github.com/cespare/xxhash"

	"github.com/named-data/slfwd/core"
	"github.com/named-data/slfwd/defn"
	"github.com/named-data/slfwd/dispatch"
	"github.com/named-data/slfwd/ndn"
	"github.com/named-data/slfwd/table"
)

// MaxFwThreads bounds the number of forwarding threads this daemon runs.
const MaxFwThreads = 32

// ContentStore is the out-of-scope Content Store collaborator; the
// forwarding thread only needs to ask it whether an Interest already has a
// cached answer, so it is modeled as a narrow lookup interface. A nil
// ContentStore means "always miss".
type ContentStore interface {
	Find(interest *ndn.Interest) (*ndn.Data, bool)
}

// incomingInterest and incomingData carry a decoded packet plus the face
// it arrived on.
type incomingInterest struct {
	interest *ndn.Interest
	inFace   uint64
}

type incomingData struct {
	data   *ndn.Data
	inFace uint64
}

type incomingNack struct {
	nack   *ndn.Nack
	inFace uint64
}

// Thread is a forwarding thread: the single goroutine that owns a PIT/FIB
// pair and runs the self-learning strategy against them. It also
// implements the Forwarder contract the strategy calls back into, keeping
// every PIT/FIB mutation and every send on this one goroutine.
type Thread struct {
	id       int
	pit      *table.Pit
	fib      *table.Fib
	cs       ContentStore
	strategy Strategy

	pendingInterests chan incomingInterest
	pendingData      chan incomingData
	pendingNacks     chan incomingNack
	tasks            chan func()
	shouldQuit       chan struct{}
	HasQuit          chan struct{}
}

// NewThread creates a forwarding thread. Attach must be called before Run
// to install the strategy, since the strategy typically needs a reference
// back to the thread it runs on.
func NewThread(id int, cs ContentStore) *Thread {
	return &Thread{
		id:               id,
		pit:              table.NewPit(),
		fib:              table.NewFib(),
		cs:               cs,
		pendingInterests: make(chan incomingInterest, 1024),
		pendingData:      make(chan incomingData, 1024),
		pendingNacks:     make(chan incomingNack, 1024),
		tasks:            make(chan func(), 1024),
		shouldQuit:       make(chan struct{}),
		HasQuit:          make(chan struct{}),
	}
}

// Attach installs the strategy this thread dispatches to.
func (t *Thread) Attach(s Strategy) { t.strategy = s }

func (t *Thread) String() string { return "FwThread-" + strconv.Itoa(t.id) }

// ID returns the thread's numeric identifier.
func (t *Thread) ID() int { return t.id }

// Pit and Fib expose this thread's tables to management/tests.
func (t *Thread) Pit() *table.Pit { return t.pit }
func (t *Thread) Fib() *table.Fib { return t.fib }

// TellToQuit signals Run to stop.
func (t *Thread) TellToQuit() {
	close(t.shouldQuit)
}

// QueueInterest hands an Interest received on inFace to this thread.
func (t *Thread) QueueInterest(interest *ndn.Interest, inFace uint64) {
	t.pendingInterests <- incomingInterest{interest, inFace}
}

// QueueData hands Data received on inFace to this thread.
func (t *Thread) QueueData(data *ndn.Data, inFace uint64) {
	t.pendingData <- incomingData{data, inFace}
}

// QueueNack hands a Nack received on inFace to this thread.
func (t *Thread) QueueNack(nack *ndn.Nack, inFace uint64) {
	t.pendingNacks <- incomingNack{nack, inFace}
}

// PostTask enqueues a continuation to run on this thread — how a
// rib.Service delivers an asynchronous result back to F.
func (t *Thread) PostTask(fn func()) {
	select {
	case t.tasks <- fn:
	default:
		core.LogWarn(t, "task queue full, dropping continuation")
	}
}

// Run is the forwarding thread's event loop.
func (t *Thread) Run() {
	for {
		select {
		case <-t.shouldQuit:
			core.LogInfo(t, "stopping")
			close(t.HasQuit)
			return
		case ii := <-t.pendingInterests:
			t.processIncomingInterest(ii.interest, ii.inFace)
		case id := <-t.pendingData:
			t.processIncomingData(id.data, id.inFace)
		case in := <-t.pendingNacks:
			t.processIncomingNack(in.nack, in.inFace)
		case fn := <-t.tasks:
			fn()
		case e := <-t.pit.Expired:
			t.processPitExpiry(e)
		}
	}
}

func (t *Thread) processIncomingInterest(interest *ndn.Interest, inFace uint64) {
	if dispatch.GetFace(inFace) == nil {
		core.LogWarn(t, "non-existent incoming FaceID=", inFace, " - DROP")
		return
	}

	pitEntry, _ := t.pit.FindOrInsert(interest)
	_, alreadyPending := pitEntry.FindOrInsertInRecord(interest, inFace)

	if !alreadyPending && t.cs != nil {
		if data, hit := t.cs.Find(interest); hit {
			t.strategy.AfterContentStoreHit(pitEntry, inFace, data)
			return
		}
	}

	pitEntry.SetExpiryTimer(0)

	nexthops := t.fib.LongestPrefixNexthops(interest.Name())
	t.strategy.AfterReceiveInterest(pitEntry, inFace, interest, nexthops)
}

func (t *Thread) processIncomingData(data *ndn.Data, inFace uint64) {
	for _, pitEntry := range t.pit.FindFromData(data) {
		t.strategy.AfterReceiveData(pitEntry, inFace, data)
	}
}

func (t *Thread) processIncomingNack(nack *ndn.Nack, inFace uint64) {
	pitEntry, found := t.findExact(nack.Interest())
	if !found {
		core.LogDebug(t, "Nack for unknown PIT entry ", nack.Interest().Name().String(), " - DROP")
		return
	}
	t.strategy.AfterReceiveNack(pitEntry, inFace, nack)
}

// findExact looks up the PIT entry an already-sent Interest refers to,
// without creating one if absent — a stray Nack must never manufacture a
// PIT entry.
func (t *Thread) findExact(interest *ndn.Interest) (*table.PitEntry, bool) {
	for _, e := range t.pit.FindFromData(ndn.NewData(interest.Name(), nil)) {
		if e.Interest.Name().Equals(interest.Name()) {
			return e, true
		}
	}
	return nil, false
}

func (t *Thread) processPitExpiry(e *table.PitEntry) {
	t.pit.Remove(e)
}

// --- Forwarder contract consumed by the strategy (spec §6) ---

// LookupFib returns the longest-prefix FIB next hops for the PIT entry's name.
func (t *Thread) LookupFib(pitEntry *table.PitEntry) []table.NextHop {
	return t.fib.LongestPrefixNexthops(pitEntry.Interest.Name())
}

// SendInterest forwards interest to face, creating/refreshing the out-record.
func (t *Thread) SendInterest(pitEntry *table.PitEntry, faceID uint64, interest *ndn.Interest) {
	face := dispatch.GetFace(faceID)
	if face == nil {
		core.LogWarn(t, "non-existent nexthop FaceID=", faceID, " - DROP")
		return
	}
	pitEntry.FindOrInsertOutRecord(interest, faceID)
	face.SendInterest(interest)
}

// SendData sends data to a single face, e.g. a Content Store hit answered
// only to the Interest that just triggered it.
func (t *Thread) SendData(pitEntry *table.PitEntry, faceID uint64, data *ndn.Data) {
	if face := dispatch.GetFace(faceID); face != nil {
		face.SendData(data)
	}
}

// SendDataToAll sends data to every downstream in-record's face.
func (t *Thread) SendDataToAll(pitEntry *table.PitEntry, data *ndn.Data) {
	for _, in := range pitEntry.InRecords() {
		if face := dispatch.GetFace(in.Face); face != nil {
			face.SendData(data)
		}
	}
}

// SendNack sends a Nack with the given reason to face.
func (t *Thread) SendNack(pitEntry *table.PitEntry, faceID uint64, reason ndn.NackReason) {
	face := dispatch.GetFace(faceID)
	if face == nil {
		return
	}
	face.SendNack(ndn.NewNack(pitEntry.Interest, reason))
}

// SendNackToAll is the default Nack processor: it reverse-propagates a Nack
// to every downstream in-record's face, the same set SendDataToAll delivers
// satisfying Data to.
func (t *Thread) SendNackToAll(pitEntry *table.PitEntry, reason ndn.NackReason) {
	for _, in := range pitEntry.InRecords() {
		if face := dispatch.GetFace(in.Face); face != nil {
			face.SendNack(ndn.NewNack(pitEntry.Interest, reason))
		}
	}
}

// RejectPendingInterest marks the PIT entry as rejected; it does not
// touch the expiry timer, so the entry is removed when its existing
// expiry timer fires.
func (t *Thread) RejectPendingInterest(pitEntry *table.PitEntry) {
	pitEntry.Reject()
}

// SetExpiryTimer delegates to the PIT entry.
func (t *Thread) SetExpiryTimer(pitEntry *table.PitEntry, d time.Duration) {
	pitEntry.SetExpiryTimer(d)
}

// FaceTable returns every registered face.
func (t *Thread) FaceTable() []dispatch.Face { return dispatch.AllFaces() }

// GetFace returns the face with the given id, or nil.
func (t *Thread) GetFace(id uint64) dispatch.Face { return dispatch.GetFace(id) }

// WouldViolateScope reports whether forwarding interest from inFace to
// outFace would violate NDN scoping: /localhost Interests must never
// leave via a non-local face.
func (t *Thread) WouldViolateScope(inFace uint64, interest *ndn.Interest, outFace uint64) bool {
	out := dispatch.GetFace(outFace)
	if out == nil {
		return false
	}
	if interest.Name().Size() > 0 && interest.Name().At(0).String() == "localhost" {
		return out.Scope() == defn.NonLocal
	}
	return false
}

// HashNameToFwThread hashes name to the forwarding thread that owns it,
// using xxhash since no cryptographic property is needed for
// load-spreading across threads.
func HashNameToFwThread(name *ndn.Name, numThreads int) int {
	if numThreads <= 0 {
		return 0
	}
	if name.Size() > 0 && name.At(0).String() == "localhost" {
		return 0
	}
	sum := xxhash.Sum64String(name.String())
	return int(sum % uint64(numThreads))
}
