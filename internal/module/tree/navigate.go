package tree

import (
	"errors"
	"fmt"

	"github.com/mohae/deepcopy"

	"fieldmap/internal/path"
)

// ErrShape is returned when a document does not have the shape a path
// expects, for example indexing into an object.
var ErrShape = errors.New("document shape mismatch")

// Get reads the value addressed by p. Missing keys and items read as nil.
func Get(doc any, p path.Path) (any, error) {
	return get(doc, p.Segments())
}

func get(node any, segs []path.Segment) (any, error) {
	if len(segs) == 0 {
		return node, nil
	}

	seg, rest := segs[0], segs[1:]

	child, err := lookup(node, seg)
	if err != nil || child == nil {
		return nil, err
	}

	if !seg.Collection.Indexed() {
		return get(child, rest)
	}

	items, ok := child.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: %q is not an array", ErrShape, seg.String())
	}

	if seg.Index != nil {
		if *seg.Index >= len(items) {
			return nil, nil
		}

		return get(items[*seg.Index], rest)
	}

	out := make([]any, 0, len(items))

	for _, item := range items {
		v, err := get(item, rest)
		if err != nil {
			return nil, err
		}

		out = append(out, v)
	}

	return out, nil
}

// lookup returns the child of node named by seg. A nameless segment
// addresses node itself, which lets "/[0]" index a root array.
func lookup(node any, seg path.Segment) (any, error) {
	if seg.Name == "" && seg.Collection.Indexed() {
		return node, nil
	}

	if node == nil {
		return nil, nil
	}

	m, ok := node.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: cannot select %q from %T", ErrShape, key(seg), node)
	}

	return m[key(seg)], nil
}

// Size returns the number of items addressed by the first unindexed
// collection segment of p, zero when the collection is missing.
func Size(doc any, p path.Path) (int, error) {
	i, ok := p.FirstWildcard()
	if !ok {
		return 0, fmt.Errorf("path %s has no unindexed collection", p)
	}

	v, err := get(doc, p.Segments()[:i+1])
	if err != nil {
		return 0, err
	}

	items, _ := v.([]any)

	return len(items), nil
}

// Put writes value at p and returns the possibly replaced root. Unindexed
// segments receive the items of a collection value in order; any other
// value goes to item 0.
func Put(doc any, p path.Path, value any) (any, error) {
	i, ok := p.FirstWildcard()
	if !ok {
		return set(doc, p.Segments(), value)
	}

	items, isCollection := value.([]any)
	if !isCollection {
		return Put(doc, p.WithIndexAt(i, 0), value)
	}

	var err error

	for j, item := range items {
		if doc, err = Put(doc, p.WithIndexAt(i, j), item); err != nil {
			return nil, err
		}
	}

	return doc, nil
}

// set stores a deep copy of value so the document never shares maps or
// lists with the caller.
func set(node any, segs []path.Segment, value any) (any, error) {
	if len(segs) == 0 {
		return deepcopy.Copy(value), nil
	}

	seg, rest := segs[0], segs[1:]

	if seg.Name == "" && seg.Collection.Indexed() {
		return setItem(node, seg, rest, value)
	}

	var m map[string]any

	switch n := node.(type) {
	case nil:
		m = make(map[string]any)
	case map[string]any:
		m = n
	default:
		return nil, fmt.Errorf("%w: cannot set %q on %T", ErrShape, key(seg), node)
	}

	var (
		child any
		err   error
	)

	if seg.Collection.Indexed() {
		child, err = setItem(m[key(seg)], seg, rest, value)
	} else {
		child, err = set(m[key(seg)], rest, value)
	}

	if err != nil {
		return nil, err
	}

	m[key(seg)] = child

	return m, nil
}

func setItem(node any, seg path.Segment, rest []path.Segment, value any) (any, error) {
	var items []any

	switch n := node.(type) {
	case nil:
	case []any:
		items = n
	default:
		return nil, fmt.Errorf("%w: %q is not an array", ErrShape, seg.String())
	}

	idx := 0
	if seg.Index != nil {
		idx = *seg.Index
	}

	for len(items) <= idx {
		items = append(items, nil)
	}

	child, err := set(items[idx], rest, value)
	if err != nil {
		return nil, err
	}

	items[idx] = child

	return items, nil
}

// key is the object key selected by seg: the segment text without its
// collection bracket.
func key(seg path.Segment) string {
	k := seg.Name

	if seg.Namespace != "" {
		k = seg.Namespace + ":" + k
	}

	if seg.Attribute {
		k = "@" + k
	}

	return k
}
