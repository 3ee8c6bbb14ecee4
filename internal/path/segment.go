package path

import (
	"strconv"
	"strings"
)

// Collection is the collection shape of a segment.
type Collection string

const (
	CollectionNone  Collection = ""
	CollectionArray Collection = "array"
	CollectionList  Collection = "list"
	CollectionMap   Collection = "map"
)

// IsValid returns true if the collection shape is a recognized value.
func (c Collection) IsValid() bool {
	return c == CollectionNone || c == CollectionArray || c == CollectionList || c == CollectionMap
}

// Indexed reports whether items of this shape are addressed by position.
func (c Collection) Indexed() bool {
	return c == CollectionArray || c == CollectionList
}

type bracketPair struct {
	open, close byte
	collection  Collection
}

var bracketPairs = []bracketPair{
	{'[', ']', CollectionArray},
	{'<', '>', CollectionList},
	{'{', '}', CollectionMap},
}

// Segment is one parsed element of a Path.
type Segment struct {
	// Name is the bare name without namespace, attribute marker or bracket.
	Name string
	// Namespace is the prefix before ':' (empty when unqualified).
	Namespace string
	// Attribute is true for "@name" segments.
	Attribute bool
	// Collection is the bracket kind, CollectionNone for plain segments.
	Collection Collection
	// Index is the item position for arrays and lists; nil means all items.
	Index *int

	// token keeps the bracket text as written so formatting round-trips.
	token string
}

// ParseSegment parses a single segment string.
func ParseSegment(text string) Segment {
	var seg Segment

	head := text

	if pair, open, ok := matchBracket(text); ok {
		seg.Collection = pair.collection
		head = text[:open]
		seg.token = text[open+1 : len(text)-1]

		if pair.collection.Indexed() {
			if isDigits(seg.token) {
				if n, err := strconv.Atoi(seg.token); err == nil {
					seg.Index = &n
				}
			}
		}
	}

	if strings.HasPrefix(head, "@") {
		seg.Attribute = true
		head = head[1:]
	}

	if ns, name, ok := strings.Cut(head, ":"); ok {
		seg.Namespace = ns
		head = name
	}

	seg.Name = head

	return seg
}

// matchBracket finds the collection bracket of a segment. Exactly one kind
// of bracket pair may be present and it must close the segment.
func matchBracket(text string) (bracketPair, int, bool) {
	var (
		found    bracketPair
		openPos  int
		closePos int
		present  int
	)

	for _, p := range bracketPairs {
		open := strings.IndexByte(text, p.open)
		closing := strings.LastIndexByte(text, p.close)

		if open < 0 || closing <= open {
			continue
		}

		found = p
		openPos = open
		closePos = closing
		present++
	}

	if present != 1 || closePos != len(text)-1 {
		return bracketPair{}, 0, false
	}

	return found, openPos, true
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}

	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}

	return true
}

// IsCollection returns true when the segment carries a collection bracket.
func (s Segment) IsCollection() bool {
	return s.Collection != CollectionNone
}

// IsWildcard returns true for an array or list segment without an index.
func (s Segment) IsWildcard() bool {
	return s.Collection.Indexed() && s.Index == nil
}

// WithIndex returns a copy of the segment addressing item idx.
func (s Segment) WithIndex(idx int) Segment {
	s.Index = &idx
	s.token = strconv.Itoa(idx)

	return s
}

// String formats the segment back to its textual form.
func (s Segment) String() string {
	var b strings.Builder

	if s.Attribute {
		b.WriteByte('@')
	}

	if s.Namespace != "" {
		b.WriteString(s.Namespace)
		b.WriteByte(':')
	}

	b.WriteString(s.Name)

	token := s.token
	if token == "" && s.Index != nil {
		token = strconv.Itoa(*s.Index)
	}

	switch s.Collection {
	case CollectionArray:
		b.WriteString("[" + token + "]")
	case CollectionList:
		b.WriteString("<" + token + ">")
	case CollectionMap:
		b.WriteString("{" + token + "}")
	}

	return b.String()
}

// IsCollectionSegment reports whether a segment string is collection-shaped.
func IsCollectionSegment(text string) bool {
	_, _, ok := matchBracket(text)
	return ok
}

// IndexOf returns the index of a segment string, or nil when unindexed.
func IndexOf(text string) *int {
	return ParseSegment(text).Index
}

// CleanSegment strips the namespace prefix, attribute marker and collection
// bracket, returning the bare name. It is idempotent.
func CleanSegment(text string) string {
	for {
		next := cleanOnce(text)
		if next == text {
			return next
		}

		text = next
	}
}

func cleanOnce(text string) string {
	text = strings.ReplaceAll(text, "@", "")

	if _, open, ok := matchBracket(text); ok {
		text = text[:open]
	}

	if i := strings.LastIndexByte(text, ':'); i >= 0 {
		text = text[i+1:]
	}

	return text
}
