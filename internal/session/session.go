package session

import (
	"maps"

	"github.com/google/uuid"

	"fieldmap/internal/diagnostic"
	"fieldmap/internal/mapping"
)

// Session is the per-run state of one Process call.
type Session struct {
	id    string
	owner any

	fields     mapping.Fields
	documents  map[string]any
	handles    map[string]any
	properties map[string]any

	// Audits is the session-wide diagnostic trail in entry order.
	Audits diagnostic.Diagnostics
	// Validations holds the findings of the validation step.
	Validations diagnostic.Diagnostics
}

// New returns a session owned by owner over a copy of fields.
func New(owner any, fields mapping.Fields) *Session {
	return &Session{
		id:         uuid.NewString(),
		owner:      owner,
		fields:     fields.Copy(),
		documents:  make(map[string]any),
		handles:    make(map[string]any),
		properties: make(map[string]any),
	}
}

// ID returns the unique session id.
func (s *Session) ID() string {
	return s.id
}

// Owner returns the token of the context that created the session.
func (s *Session) Owner() any {
	return s.owner
}

// Field returns the field addressed by id in the session arena.
func (s *Session) Field(id mapping.FieldID) *mapping.Field {
	return s.fields.Get(id)
}

// FieldCount returns the size of the session arena.
func (s *Session) FieldCount() int {
	return len(s.fields)
}

// CloneField appends a copy of the field addressed by id and returns the
// id of the copy.
func (s *Session) CloneField(id mapping.FieldID) mapping.FieldID {
	return s.fields.Clone(id)
}

// Document returns the document registered under docID.
func (s *Session) Document(docID string) (any, bool) {
	doc, ok := s.documents[docID]
	return doc, ok
}

// SetDocument registers doc under docID, replacing any previous one.
func (s *Session) SetDocument(docID string, doc any) {
	s.documents[docID] = doc
}

// Documents returns a shallow copy of the document map.
func (s *Session) Documents() map[string]any {
	return maps.Clone(s.documents)
}

// Handle returns the module handle stored for docID.
func (s *Session) Handle(docID string) (any, bool) {
	h, ok := s.handles[docID]
	return h, ok
}

// SetHandle stores a module handle for docID.
func (s *Session) SetHandle(docID string, h any) {
	s.handles[docID] = h
}

// Property returns a runtime property.
func (s *Session) Property(name string) (any, bool) {
	v, ok := s.properties[name]
	return v, ok
}

// SetProperty sets a runtime property. Runtime properties take precedence
// over the values declared in the specification.
func (s *Session) SetProperty(name string, value any) {
	s.properties[name] = value
}

// Properties returns a copy of the runtime properties.
func (s *Session) Properties() map[string]any {
	return maps.Clone(s.properties)
}

// NewHead returns a cursor for entry. table is nil for entries that do
// not use a lookup table.
func (s *Session) NewHead(entry *mapping.Entry, table *mapping.LookupTable) *Head {
	return &Head{Entry: entry, LookupTable: table, Target: NoField}
}

// Flush appends the audits buffered on h to the session trail and clears
// the buffer.
func (s *Session) Flush(h *Head) {
	s.Audits.Merge(h.audits)
	h.audits = nil
}
