// Package check implements the structural comparison of photo metadata
// documents: a reference document that carries every property of the IPTC
// standard is walked against the metadata extracted from a test image, and
// every divergence is handed to a sink.
package check

import (
	"fmt"
	"strings"
)

// Kind classifies a finding.
type Kind int

const (
	// KindMissing reports a reference property absent from the candidate.
	KindMissing Kind = iota
	// KindChanged reports a candidate value differing from the reference.
	KindChanged
	// KindNote carries informational context, such as a file comment.
	KindNote
)

func (k Kind) String() string {
	switch k {
	case KindMissing:
		return "MISSING"
	case KindChanged:
		return "CHANGED"
	case KindNote:
		return "NOTE"
	default:
		return "UNKNOWN"
	}
}

// Segment is one step of a property path. Index is the 1-based position for
// list elements and 0 otherwise.
type Segment struct {
	Name  string
	Index int
}

// Path locates a property in the tree, rendered as `A->B[2]->C`.
type Path []Segment

// Child returns a new path extended by a named segment.
func (p Path) Child(name string) Path {
	next := make(Path, len(p), len(p)+1)
	copy(next, p)
	return append(next, Segment{Name: name})
}

// At returns a copy of the path with the last segment indexed. Displayed
// indices are 1-based.
func (p Path) At(index int) Path {
	next := make(Path, len(p))
	copy(next, p)
	if len(next) > 0 {
		next[len(next)-1].Index = index
	}
	return next
}

func (p Path) String() string {
	var b strings.Builder
	for i, seg := range p {
		if i > 0 {
			b.WriteString("->")
		}
		b.WriteString(seg.Name)
		if seg.Index > 0 {
			fmt.Fprintf(&b, "[%d]", seg.Index)
		}
	}
	return b.String()
}

// Finding is one result of a comparison run. Findings are immutable and
// ordered solely by traversal order.
type Finding struct {
	Kind  Kind
	Path  Path
	Value string
}

// Sink receives findings as they are discovered. Implementations own the
// durable recording; the checker itself never touches the file system.
type Sink interface {
	Emit(f Finding) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(f Finding) error

// Emit calls the wrapped function.
func (fn SinkFunc) Emit(f Finding) error {
	return fn(f)
}
