package source

import (
	"fmt"
)

// Span addresses a half-open byte range [Start, End) within one document.
type Span struct {
	Doc   DocID
	Start uint32
	End   uint32
}

func (s Span) Empty() bool {
	return s.Start == s.End
}

func (s Span) Len() uint32 {
	return s.End - s.Start
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d-%d", s.Doc, s.Start, s.End)
}

// Contains reports whether other lies fully inside s. Spans in different
// documents never contain each other.
func (s Span) Contains(other Span) bool {
	return s.Doc == other.Doc && s.Start <= other.Start && other.End <= s.End
}

// Cover extends s to include other. Spans from different documents are
// returned unchanged.
func (s Span) Cover(other Span) Span {
	if s.Doc != other.Doc {
		return s
	}
	if other.Start < s.Start {
		s.Start = other.Start
	}
	if other.End > s.End {
		s.End = other.End
	}
	return s
}

// Overlaps reports whether the two spans share at least one byte, treating
// both as half-open intervals. Two empty spans never overlap; an empty span
// overlaps a non-empty one when its position falls strictly inside it.
func (s Span) Overlaps(other Span) bool {
	if s.Doc != other.Doc {
		return false
	}
	if s.Empty() && other.Empty() {
		return false
	}
	if s.Empty() {
		return other.Start <= s.Start && s.Start < other.End
	}
	if other.Empty() {
		return s.Start <= other.Start && other.Start < s.End
	}
	return s.Start < other.End && other.Start < s.End
}
