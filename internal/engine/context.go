package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"fieldmap/internal/action"
	"fieldmap/internal/convert"
	"fieldmap/internal/diagnostic"
	"fieldmap/internal/logging"
	"fieldmap/internal/mapping"
	"fieldmap/internal/metrics"
	"fieldmap/internal/module"
	"fieldmap/internal/module/tree"
	"fieldmap/internal/session"
)

var (
	ErrForeignSession = errors.New("session was not created by this context")
	ErrNilSession     = errors.New("session is nil")
	ErrNilSpec        = errors.New("specification is nil")
)

// Context executes one compiled specification. It is immutable after New.
type Context struct {
	spec       *mapping.Specification
	logger     *slog.Logger
	metrics    *metrics.Metrics
	conversion convert.Service
	actions    *action.Registry
	pipeline   *action.Pipeline
	registry   *module.Registry

	modules map[string]module.Module
	// sources and targets list document ids in hook order.
	sources []string
	targets []string
}

// Option configures a Context.
type Option func(*Context)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(c *Context) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMetrics records processing metrics on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Context) {
		c.metrics = m
	}
}

// WithModules replaces the module registry. The default knows the json
// and yaml tree documents.
func WithModules(r *module.Registry) Option {
	return func(c *Context) {
		if r != nil {
			c.registry = r
		}
	}
}

// WithConversion replaces the conversion service.
func WithConversion(s convert.Service) Option {
	return func(c *Context) {
		if s != nil {
			c.conversion = s
		}
	}
}

// WithActions replaces the action registry.
func WithActions(r *action.Registry) Option {
	return func(c *Context) {
		if r != nil {
			c.actions = r
		}
	}
}

// DefaultModules returns a registry with the built-in document modules.
func DefaultModules() *module.Registry {
	return tree.Register(module.NewRegistry())
}

// New builds the context for spec. Data sources whose URI no module
// claims are left unresolved; Validate reports them and Process refuses to
// run until they are fixed.
func New(spec *mapping.Specification, opts ...Option) (*Context, error) {
	if spec == nil {
		return nil, ErrNilSpec
	}

	c := &Context{
		spec:    spec,
		logger:  logging.NewNop(),
		modules: make(map[string]module.Module),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.conversion == nil {
		c.conversion = convert.NewDefault()
	}

	if c.actions == nil {
		c.actions = action.NewDefaultRegistry()
	}

	if c.registry == nil {
		c.registry = DefaultModules()
	}

	c.pipeline = action.NewPipeline(c.actions, c.conversion)

	if err := c.resolveModules(); err != nil {
		return nil, err
	}

	return c, nil
}

func (c *Context) resolveModules() error {
	base := module.Config{
		Conversion: c.conversion,
		Pipeline:   c.pipeline,
		Spec:       c.spec,
		Logger:     c.logger,
		Role:       mapping.RoleSource,
	}

	reserved := []struct {
		docID   string
		factory module.Factory
	}{
		{mapping.ConstantsDocID, module.NewConstants},
		{mapping.PropertiesDocID, module.NewProperties},
	}

	for _, r := range reserved {
		cfg := base
		cfg.DocID = r.docID

		m := r.factory()
		if err := m.Configure(cfg); err != nil {
			return fmt.Errorf("configure %s: %w", r.docID, err)
		}

		c.modules[r.docID] = m
		c.sources = append(c.sources, r.docID)
	}

	for _, ds := range c.spec.DataSources {
		if _, dup := c.modules[ds.ID]; dup || ds.ID == "" {
			continue
		}

		cfg := base
		cfg.DocID = ds.ID
		cfg.URI = ds.URI
		cfg.Role = ds.Role
		cfg.Logger = c.logger.With("doc", ds.ID)

		m, err := c.registry.New(cfg)
		if errors.Is(err, module.ErrNoModule) {
			c.logger.Warn("data source has no module", "doc", ds.ID, "uri", ds.URI)
			continue
		}

		if err != nil {
			return err
		}

		c.modules[ds.ID] = m

		if ds.Role == mapping.RoleTarget {
			c.targets = append(c.targets, ds.ID)
		} else {
			c.sources = append(c.sources, ds.ID)
		}
	}

	return nil
}

// Spec returns the specification executed by the context.
func (c *Context) Spec() *mapping.Specification {
	return c.spec
}

// Actions returns the action registry.
func (c *Context) Actions() *action.Registry {
	return c.actions
}

// Modules returns the module registry data sources are resolved against.
func (c *Context) Modules() *module.Registry {
	return c.registry
}

// Targets returns the ids of the resolved target data sources in
// declaration order.
func (c *Context) Targets() []string {
	return slices.Clone(c.targets)
}

// Module returns the module resolved for docID.
func (c *Context) Module(docID string) (module.Module, bool) {
	m, ok := c.modules[docID]
	return m, ok
}

// NewSession returns a fresh session owned by the context.
func (c *Context) NewSession() *session.Session {
	return session.New(c, c.spec.Fields)
}

// Validate checks the specification. It does not touch any session.
func (c *Context) Validate() diagnostic.Diagnostics {
	v := mapping.Validator{
		Conversion: c.conversion,
		Modules:    c.registry,
		Actions:    c.actions,
	}

	return v.Validate(c.spec)
}

// Run creates a session holding sources and properties and processes it.
func (c *Context) Run(sources map[string]any, properties map[string]any) (*session.Session, error) {
	s := c.NewSession()

	for id, doc := range sources {
		s.SetDocument(id, doc)
	}

	for name, v := range properties {
		s.SetProperty(name, v)
	}

	if err := c.Process(s); err != nil {
		return nil, err
	}

	return s, nil
}
