package tree

import (
	"fmt"

	"fieldmap/internal/mapping"
	"fieldmap/internal/module"
	"fieldmap/internal/session"
)

// Stats is the per-session handle the module keeps for its document.
type Stats struct {
	Reads  int
	Writes int
}

// Module reads and writes tree documents.
type Module struct {
	module.Base

	format   Format
	location string
}

// New returns an unconfigured tree module.
func New() module.Module {
	return &Module{}
}

// Register binds the json and yaml schemes to the tree module.
func Register(r *module.Registry) *module.Registry {
	return r.Register(string(FormatJSON), New).Register(string(FormatYAML), New)
}

func (m *Module) Configure(cfg module.Config) error {
	format, location, err := ParseURI(cfg.URI)
	if err != nil {
		return err
	}

	m.format = format
	m.location = location

	return m.Base.Configure(cfg)
}

// Format returns the encoding named by the data source URI.
func (m *Module) Format() Format {
	return m.format
}

// Init makes sure the session holds a document. Sources without one are
// read from the URI location; targets start empty.
func (m *Module) Init(s *session.Session) error {
	cfg := m.Config()
	s.SetHandle(cfg.DocID, &Stats{})

	if _, ok := s.Document(cfg.DocID); ok {
		return nil
	}

	if cfg.Role == mapping.RoleTarget {
		s.SetDocument(cfg.DocID, map[string]any{})
		return nil
	}

	if m.location == "" {
		return fmt.Errorf("no document for source %q", cfg.DocID)
	}

	doc, err := ReadFile(m.format, m.location)
	if err != nil {
		return fmt.Errorf("source %q: %w", cfg.DocID, err)
	}

	s.SetDocument(cfg.DocID, doc)
	cfg.Logger.Debug("document loaded", "doc", cfg.DocID, "location", m.location)

	return nil
}

func (m *Module) Destroy(s *session.Session) {
	cfg := m.Config()
	if st := stats(s, cfg.DocID); st != nil {
		cfg.Logger.Debug("document released", "doc", cfg.DocID, "reads", st.Reads, "writes", st.Writes)
	}
}

func (m *Module) ProcessSourceFieldMapping(s *session.Session, _ *session.Head, id mapping.FieldID) error {
	f := s.Field(id)
	if !m.IsSupportedField(f) {
		return fmt.Errorf("%w: %s", module.ErrUnsupportedField, f)
	}

	doc, _ := s.Document(f.DocID)

	v, err := Get(doc, f.Path)
	if err != nil {
		return fmt.Errorf("read %s: %w", f, err)
	}

	f.Value = v

	if st := stats(s, f.DocID); st != nil {
		st.Reads++
	}

	return nil
}

func (m *Module) ProcessTargetFieldMapping(s *session.Session, _ *session.Head, id mapping.FieldID) error {
	f := s.Field(id)
	if !m.IsSupportedField(f) {
		return fmt.Errorf("%w: %s", module.ErrUnsupportedField, f)
	}

	doc, _ := s.Document(f.DocID)

	doc, err := Put(doc, f.Path, f.Value)
	if err != nil {
		return fmt.Errorf("write %s: %w", f, err)
	}

	s.SetDocument(f.DocID, doc)

	if st := stats(s, f.DocID); st != nil {
		st.Writes++
	}

	return nil
}

func (m *Module) CollectionSize(s *session.Session, id mapping.FieldID) (int, error) {
	f := s.Field(id)
	doc, _ := s.Document(f.DocID)

	return Size(doc, f.Path)
}

func stats(s *session.Session, docID string) *Stats {
	h, _ := s.Handle(docID)
	st, _ := h.(*Stats)

	return st
}
