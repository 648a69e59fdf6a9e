package table

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/named-data/slfwd/ndn"
)

// InRecord records a downstream that sent a matching Interest.
// StrategyInfo is a strategy-owned slot whose lifetime is the record's; a
// single strategy is active in this forwarder, so a plain field (rather
// than a polymorphic base) suffices.
type InRecord struct {
	Face           uint64
	LatestInterest *ndn.Interest
	ExpirationTime time.Time
	StrategyInfo   any
}

// OutRecord records an upstream the Interest was forwarded to.
type OutRecord struct {
	Face           uint64
	LatestInterest *ndn.Interest
	LastSendTime   time.Time
	ExpirationTime time.Time
	StrategyInfo   any
}

// PitEntry is an entry in the Pending Interest Table.
type PitEntry struct {
	node *pitNode
	pit  *Pit

	Token       uint64
	Interest    *ndn.Interest
	CanBePrefix bool
	MustBeFresh bool

	mu         sync.Mutex
	inRecords  map[uint64]*InRecord
	outRecords map[uint64]*OutRecord

	ExpirationTime time.Time
	rejected       bool

	timer *time.Timer

	// StrategyInfo is a slot for per-PIT-entry state that does not belong
	// to any single in/out-record, e.g. retransmission-suppression
	// bookkeeping. Mirrors NFD's pitEntry->insertStrategyInfo<T>().
	StrategyInfo any
}

type pitNode struct {
	component ndn.NameComponent
	depth     int

	parent   *pitNode
	children []*pitNode

	entries []*PitEntry
}

// Pit is a thread's Pending Interest Table: a name-tree of entries plus
// the expiry-timer machinery that reclaims them.
type Pit struct {
	mu        sync.Mutex
	root      *pitNode
	nextToken atomic.Uint64

	// Expired receives a PIT entry when its expiry timer fires; the
	// forwarding thread's event loop drains this channel.
	Expired chan *PitEntry
}

// NewPit creates an empty PIT.
func NewPit() *Pit {
	return &Pit{root: &pitNode{}, Expired: make(chan *PitEntry, 256)}
}

func (n *pitNode) child(c ndn.NameComponent) *pitNode {
	for _, ch := range n.children {
		if ch.component.Equals(c) {
			return ch
		}
	}
	return nil
}

func (n *pitNode) findLongestPrefix(name *ndn.Name) *pitNode {
	node := n
	for node.depth < name.Size() {
		next := node.child(name.At(node.depth))
		if next == nil {
			break
		}
		node = next
	}
	return node
}

func (n *pitNode) fillTo(name *ndn.Name) *pitNode {
	node := n.findLongestPrefix(name)
	for depth := node.depth + 1; depth <= name.Size(); depth++ {
		child := &pitNode{component: name.At(depth - 1), depth: depth, parent: node}
		node.children = append(node.children, child)
		node = child
	}
	return node
}

func (n *pitNode) removeEntry(e *PitEntry) {
	for i, cur := range n.entries {
		if cur == e {
			n.entries = append(n.entries[:i], n.entries[i+1:]...)
			break
		}
	}
	for cur := n; cur.parent != nil && len(cur.entries) == 0 && len(cur.children) == 0; cur = cur.parent {
		siblings := cur.parent.children
		for i, s := range siblings {
			if s == cur {
				cur.parent.children = append(siblings[:i], siblings[i+1:]...)
				break
			}
		}
	}
}

// FindOrInsert returns the PIT entry aggregating interest, creating one if
// none exists with matching CanBePrefix/MustBeFresh selectors. The second
// return value reports whether a new entry was created.
func (p *Pit) FindOrInsert(interest *ndn.Interest) (*PitEntry, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	node := p.root.fillTo(interest.Name())
	for _, e := range node.entries {
		if e.CanBePrefix == interest.CanBePrefix() && e.MustBeFresh == interest.MustBeFresh() {
			return e, false
		}
	}

	e := &PitEntry{
		node:        node,
		pit:         p,
		Token:       p.nextToken.Add(1),
		Interest:    interest,
		CanBePrefix: interest.CanBePrefix(),
		MustBeFresh: interest.MustBeFresh(),
		inRecords:   map[uint64]*InRecord{},
		outRecords:  map[uint64]*OutRecord{},
	}
	node.entries = append(node.entries, e)
	return e, true
}

// FindFromData returns the PIT entries a Data packet satisfies.
func (p *Pit) FindFromData(data *ndn.Data) []*PitEntry {
	p.mu.Lock()
	defer p.mu.Unlock()

	var matching []*PitEntry
	dataDepth := data.Name().Size()
	for node := p.root.findLongestPrefix(data.Name()); node != nil; node = node.parent {
		for _, e := range node.entries {
			if e.CanBePrefix || node.depth == dataDepth {
				matching = append(matching, e)
			}
		}
	}
	return matching
}

// Remove deletes the PIT entry from the table and stops its expiry timer.
func (p *Pit) Remove(e *PitEntry) {
	p.mu.Lock()
	defer p.mu.Unlock()

	e.mu.Lock()
	if e.timer != nil {
		e.timer.Stop()
	}
	e.mu.Unlock()

	e.node.removeEntry(e)
}

// FindOrInsertInRecord finds or creates the in-record for faceID and
// refreshes it to interest's lifetime. The second return value reports
// whether this downstream already had a pending in-record (i.e. this is
// a retransmission from its perspective).
func (e *PitEntry) FindOrInsertInRecord(interest *ndn.Interest, faceID uint64) (*InRecord, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	r, existed := e.inRecords[faceID]
	if !existed {
		r = &InRecord{Face: faceID}
		e.inRecords[faceID] = r
	}
	r.LatestInterest = interest
	r.ExpirationTime = time.Now().Add(interest.Lifetime())
	return r, existed
}

// GetInRecord returns the in-record for faceID, if any.
func (e *PitEntry) GetInRecord(faceID uint64) (*InRecord, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	r, ok := e.inRecords[faceID]
	return r, ok
}

// InRecords returns a snapshot of the current in-records, including expired
// ones; callers that need "unexpired only" for a need_prefix_ann-style
// check must filter by ExpirationTime themselves.
func (e *PitEntry) InRecords() []*InRecord {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]*InRecord, 0, len(e.inRecords))
	for _, r := range e.inRecords {
		out = append(out, r)
	}
	return out
}

// FindOrInsertOutRecord finds or creates the out-record for faceID and
// stamps its last-send time to now.
func (e *PitEntry) FindOrInsertOutRecord(interest *ndn.Interest, faceID uint64) *OutRecord {
	e.mu.Lock()
	defer e.mu.Unlock()

	r, ok := e.outRecords[faceID]
	if !ok {
		r = &OutRecord{Face: faceID}
		e.outRecords[faceID] = r
	}
	r.LatestInterest = interest
	r.LastSendTime = time.Now()
	r.ExpirationTime = time.Now().Add(interest.Lifetime())
	return r
}

// GetOutRecord returns the out-record for faceID, if any.
func (e *PitEntry) GetOutRecord(faceID uint64) (*OutRecord, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	r, ok := e.outRecords[faceID]
	return r, ok
}

// OutRecords returns a snapshot of the current out-records.
func (e *PitEntry) OutRecords() []*OutRecord {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]*OutRecord, 0, len(e.outRecords))
	for _, r := range e.outRecords {
		out = append(out, r)
	}
	return out
}

// FirstInRecord returns one of the entry's in-records, for strategies
// that need a single downstream face; which one is returned is not
// defined when there are several.
func (e *PitEntry) FirstInRecord() (*InRecord, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, r := range e.inRecords {
		return r, true
	}
	return nil, false
}

// NumInRecords returns the number of downstreams currently pending.
func (e *PitEntry) NumInRecords() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.inRecords)
}

// Reject marks the PIT entry as rejected (e.g. after a NoRoute Nack was
// sent downstream for a non-discovery Interest with no usable next hop).
func (e *PitEntry) Reject() {
	e.mu.Lock()
	e.rejected = true
	e.mu.Unlock()
}

// Rejected reports whether Reject was called on this entry.
func (e *PitEntry) Rejected() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rejected
}

// SetExpiryTimer implements a set_expiry_timer contract: a non-zero
// duration schedules (or reschedules) delivery of this entry on
// Pit.Expired after d; zero relinquishes strategy control, recomputing the
// expiry from the current in/out records' own expiration times.
func (e *PitEntry) SetExpiryTimer(d time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if d <= 0 {
		e.ExpirationTime = e.latestRecordExpiryLocked()
	} else {
		e.ExpirationTime = time.Now().Add(d)
	}

	if e.timer != nil {
		e.timer.Stop()
	}
	wait := time.Until(e.ExpirationTime)
	if wait < 0 {
		wait = 0
	}
	entry := e
	e.timer = time.AfterFunc(wait, func() {
		select {
		case entry.pit.Expired <- entry:
		default:
		}
	})
}

func (e *PitEntry) latestRecordExpiryLocked() time.Time {
	latest := time.Time{}
	for _, r := range e.inRecords {
		if r.ExpirationTime.After(latest) {
			latest = r.ExpirationTime
		}
	}
	for _, r := range e.outRecords {
		if r.ExpirationTime.After(latest) {
			latest = r.ExpirationTime
		}
	}
	return latest
}
