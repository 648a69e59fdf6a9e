// Package ndn provides the packet data model the self-learning strategy
// operates on: names, Interests, Data, Nacks, and Prefix Announcements.
//
// The wire codec (TLV parsing/encoding) is an external collaborator and
// is not implemented here; Name, Interest, and Data are plain in-memory
// structures, as if already decoded by the forwarder's packet pipeline.
package ndn

import "strings"

// NameComponent is a single generic path component of a Name.
type NameComponent string

// Equals reports whether two components are identical.
func (c NameComponent) Equals(other NameComponent) bool {
	return c == other
}

func (c NameComponent) String() string {
	return string(c)
}

// Name is a hierarchical NDN name.
type Name struct {
	components []NameComponent
}

// NewName returns the empty name "/".
func NewName() *Name {
	return &Name{}
}

// NameFromString parses a slash-separated name such as "/a/b/c". A leading
// "/" is optional; "/" and "" both denote the empty (root) name.
func NameFromString(s string) (*Name, error) {
	s = strings.TrimPrefix(s, "/")
	if s == "" {
		return NewName(), nil
	}
	parts := strings.Split(s, "/")
	comps := make([]NameComponent, len(parts))
	for i, p := range parts {
		comps[i] = NameComponent(p)
	}
	return &Name{components: comps}, nil
}

// MustName is NameFromString without an error return, for tests and constants.
func MustName(s string) *Name {
	n, _ := NameFromString(s)
	return n
}

// Size returns the number of components in the name.
func (n *Name) Size() int {
	if n == nil {
		return 0
	}
	return len(n.components)
}

// At returns the component at the given depth (0-indexed).
func (n *Name) At(i int) NameComponent {
	return n.components[i]
}

// Append returns a new name with component appended.
func (n *Name) Append(c NameComponent) *Name {
	out := make([]NameComponent, n.Size()+1)
	copy(out, n.components)
	out[n.Size()] = c
	return &Name{components: out}
}

// Prefix returns the first i components of the name as a new name.
func (n *Name) Prefix(i int) *Name {
	if i > n.Size() {
		i = n.Size()
	}
	out := make([]NameComponent, i)
	copy(out, n.components[:i])
	return &Name{components: out}
}

// DeepCopy returns an independent copy of the name.
func (n *Name) DeepCopy() *Name {
	out := make([]NameComponent, n.Size())
	copy(out, n.components)
	return &Name{components: out}
}

// Equals reports whether two names have identical components.
func (n *Name) Equals(other *Name) bool {
	if n.Size() != other.Size() {
		return false
	}
	for i, c := range n.components {
		if !c.Equals(other.components[i]) {
			return false
		}
	}
	return true
}

// IsPrefixOf reports whether n is a prefix of (or equal to) other.
func (n *Name) IsPrefixOf(other *Name) bool {
	if n.Size() > other.Size() {
		return false
	}
	for i, c := range n.components {
		if !c.Equals(other.components[i]) {
			return false
		}
	}
	return true
}

// String renders the name in slash-separated form, e.g. "/a/b".
func (n *Name) String() string {
	if n.Size() == 0 {
		return "/"
	}
	var sb strings.Builder
	for _, c := range n.components {
		sb.WriteByte('/')
		sb.WriteString(c.String())
	}
	return sb.String()
}
