package module

import (
	"fmt"
	"os"
	"runtime"
	"slices"
	"strings"
	"time"

	"fieldmap/internal/mapping"
	"fieldmap/internal/session"
)

// Property scopes. An empty scope searches them in this order.
const (
	ScopeSession     = "session"
	ScopeMapping     = "mapping"
	ScopeEnvironment = "env"
	ScopeSystem      = "system"
)

var scopeOrder = []string{ScopeSession, ScopeMapping, ScopeEnvironment, ScopeSystem}

// Properties serves the reserved properties document. A property resolves
// from the session, then the specification, then the environment and
// finally from system values.
type Properties struct {
	Base

	lookupEnv func(string) (string, bool)
	clock     func() time.Time
}

// NewProperties returns the properties module.
func NewProperties() Module {
	return &Properties{lookupEnv: os.LookupEnv, clock: time.Now}
}

func (m *Properties) IsSupportedField(f *mapping.Field) bool {
	return f.Kind == mapping.FieldProperty
}

func (m *Properties) ProcessSourceFieldMapping(s *session.Session, _ *session.Head, id mapping.FieldID) error {
	f := s.Field(id)
	if !m.IsSupportedField(f) {
		return fmt.Errorf("%w: %s", ErrUnsupportedField, f)
	}

	scopes := scopeOrder

	if scope := m.scopeOf(f); scope != "" {
		if !isScope(scope) {
			return fmt.Errorf("property %q: unknown scope %q", f.Name, scope)
		}

		scopes = []string{scope}
	}

	for _, scope := range scopes {
		value, ok, err := m.resolve(s, scope, f.Name)
		if err != nil {
			return fmt.Errorf("property %q: %w", f.Name, err)
		}

		if ok {
			f.Value = value
			return nil
		}
	}

	return fmt.Errorf("property %q is not set", f.Name)
}

func (m *Properties) ProcessTargetFieldMapping(s *session.Session, _ *session.Head, id mapping.FieldID) error {
	return fmt.Errorf("%w: %s", ErrReadOnly, s.Field(id))
}

func (m *Properties) CollectionSize(*session.Session, mapping.FieldID) (int, error) {
	return 1, nil
}

// scopeOf returns the scope of the field, falling back to the scope of the
// declared property.
func (m *Properties) scopeOf(f *mapping.Field) string {
	if f.Scope != "" || m.cfg.Spec == nil {
		return strings.ToLower(f.Scope)
	}

	if p, ok := m.cfg.Spec.Property(f.Name); ok {
		return strings.ToLower(p.Scope)
	}

	return ""
}

func (m *Properties) resolve(s *session.Session, scope, name string) (any, bool, error) {
	switch scope {
	case ScopeSession:
		v, ok := s.Property(name)
		return v, ok, nil

	case ScopeMapping:
		if m.cfg.Spec == nil {
			return nil, false, nil
		}

		p, ok := m.cfg.Spec.Property(name)
		if !ok {
			return nil, false, nil
		}

		v, err := typed(m.cfg.Conversion, p.Value, p.Type)

		return v, err == nil, err

	case ScopeEnvironment:
		if v, ok := m.lookupEnv(name); ok {
			return v, true, nil
		}

		v, ok := m.lookupEnv(envName(name))

		return v, ok, nil

	case ScopeSystem:
		v, ok := m.system(s, name)
		return v, ok, nil
	}

	return nil, false, nil
}

func (m *Properties) system(s *session.Session, name string) (any, bool) {
	switch strings.ToLower(name) {
	case "os":
		return runtime.GOOS, true
	case "arch":
		return runtime.GOARCH, true
	case "hostname":
		h, err := os.Hostname()
		return h, err == nil
	case "pid":
		return os.Getpid(), true
	case "cwd":
		wd, err := os.Getwd()
		return wd, err == nil
	case "tempdir":
		return os.TempDir(), true
	case "numcpu":
		return runtime.NumCPU(), true
	case "timestamp", "now":
		return m.clock(), true
	case "date":
		return m.clock().Format(time.DateOnly), true
	case "sessionid":
		return s.ID(), true
	}

	return nil, false
}

// envName turns "app.region" into "APP_REGION".
func envName(name string) string {
	return strings.ToUpper(strings.NewReplacer(".", "_", "-", "_").Replace(name))
}

func isScope(scope string) bool {
	return slices.Contains(scopeOrder, scope)
}
