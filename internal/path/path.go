package path

import (
	"slices"
	"strings"
)

// Separator splits path segments.
const Separator = "/"

// Path is an immutable, parsed field address.
type Path struct {
	segments []Segment
}

// Parse parses an address. A single leading separator is discarded.
// Parsing never fails.
func Parse(text string) Path {
	text = strings.TrimPrefix(text, Separator)
	if text == "" {
		return Path{}
	}

	parts := strings.Split(text, Separator)
	segments := make([]Segment, 0, len(parts))

	for _, part := range parts {
		segments = append(segments, ParseSegment(part))
	}

	return Path{segments: segments}
}

// New builds a path from already parsed segments.
func New(segments ...Segment) Path {
	return Path{segments: slices.Clone(segments)}
}

// Format renders p with a leading separator.
func Format(p Path) string {
	return p.String()
}

// String renders the path with a leading separator.
func (p Path) String() string {
	if len(p.segments) == 0 {
		return Separator
	}

	parts := make([]string, len(p.segments))
	for i, seg := range p.segments {
		parts[i] = seg.String()
	}

	return Separator + strings.Join(parts, Separator)
}

// Len returns the number of segments.
func (p Path) Len() int {
	return len(p.segments)
}

// IsEmpty returns true for the root path.
func (p Path) IsEmpty() bool {
	return len(p.segments) == 0
}

// Segment returns the i-th segment.
func (p Path) Segment(i int) Segment {
	return p.segments[i]
}

// Segments returns a copy of the segments.
func (p Path) Segments() []Segment {
	return slices.Clone(p.segments)
}

// Last returns the last segment, or a zero Segment for the root path.
func (p Path) Last() Segment {
	if len(p.segments) == 0 {
		return Segment{}
	}

	return p.segments[len(p.segments)-1]
}

// IsCollection returns true if any segment is collection-shaped.
func (p Path) IsCollection() bool {
	return slices.ContainsFunc(p.segments, Segment.IsCollection)
}

// Collection returns the collection shape of the last segment.
func (p Path) Collection() Collection {
	return p.Last().Collection
}

// FirstWildcard returns the position of the first unindexed array or list
// segment.
func (p Path) FirstWildcard() (int, bool) {
	i := slices.IndexFunc(p.segments, Segment.IsWildcard)
	return i, i >= 0
}

// HasWildcard returns true if any array or list segment is unindexed.
func (p Path) HasWildcard() bool {
	_, ok := p.FirstWildcard()
	return ok
}

// LastIndexed returns the position of the last array or list segment.
func (p Path) LastIndexed() (int, bool) {
	for i := len(p.segments) - 1; i >= 0; i-- {
		if p.segments[i].Collection.Indexed() {
			return i, true
		}
	}

	return -1, false
}

// WithIndexAt returns a copy of p whose i-th segment addresses item idx.
// Segments that are not arrays or lists are left untouched.
func (p Path) WithIndexAt(i, idx int) Path {
	if i < 0 || i >= len(p.segments) || !p.segments[i].Collection.Indexed() {
		return p
	}

	out := p.Segments()
	out[i] = out[i].WithIndex(idx)

	return Path{segments: out}
}

// FillWildcards returns a copy of p with every unindexed array or list
// segment set to idx.
func (p Path) FillWildcards(idx int) Path {
	out := p.Segments()
	for i := range out {
		if out[i].IsWildcard() {
			out[i] = out[i].WithIndex(idx)
		}
	}

	return Path{segments: out}
}

// OverwriteIndex rewrites every array or list segment whose cleaned name is
// name so that it addresses item idx.
func OverwriteIndex(p Path, name string, idx int) Path {
	target := CleanSegment(name)
	out := p.Segments()

	for i := range out {
		if !out[i].Collection.Indexed() {
			continue
		}

		if CleanSegment(out[i].String()) == target {
			out[i] = out[i].WithIndex(idx)
		}
	}

	return Path{segments: out}
}

// Truncate drops the leading segments up to and including the first
// segment whose cleaned name is name. When nothing matches, p is returned
// unchanged.
func Truncate(p Path, name string) Path {
	target := CleanSegment(name)

	for i, seg := range p.segments {
		if CleanSegment(seg.String()) == target {
			return Path{segments: slices.Clone(p.segments[i+1:])}
		}
	}

	return p
}

// ParentPath returns p without its last segment.
func ParentPath(p Path) Path {
	if len(p.segments) == 0 {
		return p
	}

	return Path{segments: slices.Clone(p.segments[:len(p.segments)-1])}
}

// Equal reports whether two paths format identically.
func (p Path) Equal(other Path) bool {
	return p.String() == other.String()
}
