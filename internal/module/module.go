package module

import (
	"errors"
	"log/slog"

	"fieldmap/internal/action"
	"fieldmap/internal/convert"
	"fieldmap/internal/mapping"
	"fieldmap/internal/session"
)

var (
	ErrNoModule         = errors.New("no module for data source")
	ErrUnsupportedField = errors.New("field is not supported by module")
	ErrReadOnly         = errors.New("document is read-only")
)

// Config is handed to a Module before first use.
type Config struct {
	DocID      string
	URI        string
	Role       mapping.Role
	Conversion convert.Service
	Pipeline   *action.Pipeline
	Spec       *mapping.Specification
	Logger     *slog.Logger
}

// Module reads and writes the fields of one document.
//
// Hooks receive the session being processed. Field level calls also get
// the head of the entry under way; audits recorded there are scoped to it.
type Module interface {
	Configure(cfg Config) error
	Config() Config

	Init(s *session.Session) error
	Destroy(s *session.Session)

	ProcessPreValidation(s *session.Session) error
	ProcessPostValidation(s *session.Session) error

	ProcessPreSourceExecution(s *session.Session) error
	// ProcessSourceFieldMapping loads the value of field id into its slot.
	ProcessSourceFieldMapping(s *session.Session, h *session.Head, id mapping.FieldID) error
	ProcessPostSourceExecution(s *session.Session) error

	ProcessPreTargetExecution(s *session.Session) error
	// ProcessTargetFieldMapping stores the slot of field id in the document.
	ProcessTargetFieldMapping(s *session.Session, h *session.Head, id mapping.FieldID) error
	ProcessPostTargetExecution(s *session.Session) error

	IsSupportedField(f *mapping.Field) bool
	CloneField(s *session.Session, id mapping.FieldID) mapping.FieldID
	// CollectionSize returns the number of items addressed by the first
	// unindexed collection segment of field id.
	CollectionSize(s *session.Session, id mapping.FieldID) (int, error)
}

// Base implements every hook as a no-op. Modules embed it and override what
// they need.
type Base struct {
	cfg Config
}

func (b *Base) Configure(cfg Config) error {
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}

	if cfg.Conversion == nil {
		cfg.Conversion = convert.NewDefault()
	}

	b.cfg = cfg

	return nil
}

func (b *Base) Config() Config { return b.cfg }

func (b *Base) Init(*session.Session) error { return nil }
func (b *Base) Destroy(*session.Session)    {}

func (b *Base) ProcessPreValidation(*session.Session) error  { return nil }
func (b *Base) ProcessPostValidation(*session.Session) error { return nil }

func (b *Base) ProcessPreSourceExecution(*session.Session) error { return nil }
func (b *Base) ProcessSourceFieldMapping(*session.Session, *session.Head, mapping.FieldID) error {
	return nil
}
func (b *Base) ProcessPostSourceExecution(*session.Session) error { return nil }

func (b *Base) ProcessPreTargetExecution(*session.Session) error { return nil }
func (b *Base) ProcessTargetFieldMapping(*session.Session, *session.Head, mapping.FieldID) error {
	return nil
}
func (b *Base) ProcessPostTargetExecution(*session.Session) error { return nil }

// IsSupportedField accepts document fields of the configured document.
func (b *Base) IsSupportedField(f *mapping.Field) bool {
	return f.Kind == mapping.FieldSimple && f.DocID == b.cfg.DocID
}

func (b *Base) CloneField(s *session.Session, id mapping.FieldID) mapping.FieldID {
	return s.CloneField(id)
}

func (b *Base) CollectionSize(*session.Session, mapping.FieldID) (int, error) {
	return 0, nil
}
