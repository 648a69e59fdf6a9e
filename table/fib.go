package table

import (
	"sync"

	"golang.org/x/exp/slices"

	"github.com/named-data/slfwd/ndn"
)

// NextHop is a FIB next hop: a face id plus its routing cost. The FIB's
// per-name next-hop list is always kept sorted ascending by Cost.
type NextHop struct {
	Face uint64
	Cost uint64
}

type fibNode struct {
	component ndn.NameComponent
	depth     int

	parent   *fibNode
	children []*fibNode

	nexthops []NextHop
}

// Fib is a name-tree Forwarding Information Base. Unlike a per-strategy
// FIB entry, there is no strategy-choice field here: this forwarder only
// ever runs the self-learning strategy.
type Fib struct {
	mu   sync.RWMutex
	root *fibNode
}

// NewFib creates an empty FIB.
func NewFib() *Fib {
	return &Fib{root: &fibNode{}}
}

func (f *fibNode) findLongestPrefix(name *ndn.Name) *fibNode {
	node := f
	for node.depth < name.Size() {
		next := node.child(name.At(node.depth))
		if next == nil {
			break
		}
		node = next
	}
	return node
}

func (f *fibNode) child(c ndn.NameComponent) *fibNode {
	for _, ch := range f.children {
		if ch.component.Equals(c) {
			return ch
		}
	}
	return nil
}

func (f *fibNode) fillTo(name *ndn.Name) *fibNode {
	node := f.findLongestPrefix(name)
	for depth := node.depth + 1; depth <= name.Size(); depth++ {
		child := &fibNode{component: name.At(depth - 1), depth: depth, parent: node}
		node.children = append(node.children, child)
		node = child
	}
	return node
}

func (f *fibNode) pruneIfEmpty() {
	for n := f; n.parent != nil && len(n.children) == 0 && len(n.nexthops) == 0; n = n.parent {
		siblings := n.parent.children
		for i, s := range siblings {
			if s == n {
				n.parent.children = append(siblings[:i], siblings[i+1:]...)
				break
			}
		}
	}
}

// LongestPrefixNexthops returns the cost-ordered next hops of the longest
// FIB entry matching (a prefix of) name.
func (f *Fib) LongestPrefixNexthops(name *ndn.Name) []NextHop {
	f.mu.RLock()
	defer f.mu.RUnlock()

	for node := f.root.findLongestPrefix(name); node != nil; node = node.parent {
		if len(node.nexthops) > 0 {
			out := make([]NextHop, len(node.nexthops))
			copy(out, node.nexthops)
			return out
		}
	}
	return nil
}

// AddNexthop adds or updates the next hop for (name, faceID), keeping the
// per-name next-hop list sorted ascending by cost.
func (f *Fib) AddNexthop(name *ndn.Name, faceID uint64, cost uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()

	node := f.root.fillTo(name)
	for i, nh := range node.nexthops {
		if nh.Face == faceID {
			node.nexthops[i].Cost = cost
			f.resort(node)
			return
		}
	}
	node.nexthops = append(node.nexthops, NextHop{Face: faceID, Cost: cost})
	f.resort(node)
}

func (f *Fib) resort(node *fibNode) {
	slices.SortFunc(node.nexthops, func(a, b NextHop) bool { return a.Cost < b.Cost })
}

// RemoveNexthop removes the next hop on faceID for the exact-match entry
// name, pruning the FIB entry if it becomes empty.
func (f *Fib) RemoveNexthop(name *ndn.Name, faceID uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()

	node := f.root.findLongestPrefix(name)
	if node.depth != name.Size() {
		return
	}
	for i, nh := range node.nexthops {
		if nh.Face == faceID {
			node.nexthops = append(node.nexthops[:i], node.nexthops[i+1:]...)
			break
		}
	}
	node.pruneIfEmpty()
}

// ClearNexthops removes all next hops for the exact-match entry name.
func (f *Fib) ClearNexthops(name *ndn.Name) {
	f.mu.Lock()
	defer f.mu.Unlock()

	node := f.root.findLongestPrefix(name)
	if node.depth != name.Size() {
		return
	}
	node.nexthops = nil
	node.pruneIfEmpty()
}
