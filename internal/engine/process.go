package engine

import (
	"fmt"
	"runtime/debug"
	"time"

	"fieldmap/internal/common"
	"fieldmap/internal/diagnostic"
	"fieldmap/internal/mapping"
	"fieldmap/internal/module"
	"fieldmap/internal/session"
)

// Process executes the specification against s. It returns an error only
// when s cannot be processed by this context; every data problem is
// recorded in s.Audits.
func (c *Context) Process(s *session.Session) error {
	if s == nil {
		return ErrNilSession
	}

	if s.Owner() != any(c) {
		return ErrForeignSession
	}

	start := time.Now()
	before := len(s.Audits)
	log := c.logger.With("session", s.ID())

	defer func() {
		c.metrics.Audited(s.Audits[before:])
		c.metrics.ObserveProcess(start)
		log.Debug("session processed", "audits", len(s.Audits)-before, "elapsed", time.Since(start))
	}()

	s.Validations = c.Validate()
	s.Audits.Merge(s.Validations)

	if s.Validations.HasErrors() {
		log.Warn("specification is invalid", "errors", s.Validations.Count(diagnostic.StatusError))
		return nil
	}

	initialized := c.initModules(s)
	defer c.destroyModules(s, initialized)

	if len(initialized) < len(c.sources)+len(c.targets) {
		log.Warn("module initialization failed")
		return nil
	}

	if !c.runHooks(s, "pre-validation", c.all(), module.Module.ProcessPreValidation) {
		return nil
	}

	okSources := c.runHooks(s, "pre-source", c.sources, module.Module.ProcessPreSourceExecution)
	okTargets := c.runHooks(s, "pre-target", c.targets, module.Module.ProcessPreTargetExecution)

	if !okSources || !okTargets {
		return nil
	}

	for i := range c.spec.Entries {
		for _, e := range c.expand(s, &c.spec.Entries[i]) {
			c.processEntry(s, e)
		}
	}

	c.runHooks(s, "post-validation", c.all(), module.Module.ProcessPostValidation)
	c.runHooks(s, "post-source", c.sources, module.Module.ProcessPostSourceExecution)
	c.runHooks(s, "post-target", c.targets, module.Module.ProcessPostTargetExecution)

	return nil
}

func (c *Context) all() []string {
	return append(append([]string(nil), c.sources...), c.targets...)
}

// initModules initializes every module and returns the ids of those that
// succeeded. Failures are recorded as audits.
func (c *Context) initModules(s *session.Session) []string {
	var done []string

	for _, id := range c.all() {
		if err := c.modules[id].Init(s); err != nil {
			s.Audits.AddError("module_init_failed", err.Error(), id, "")
			continue
		}

		done = append(done, id)
	}

	return done
}

func (c *Context) destroyModules(s *session.Session, ids []string) {
	for _, id := range ids {
		c.modules[id].Destroy(s)
	}
}

// runHooks calls hook on the modules of ids in order and reports whether
// none of them failed.
func (c *Context) runHooks(
	s *session.Session,
	stage string,
	ids []string,
	hook func(module.Module, *session.Session) error,
) bool {
	ok := true

	for _, id := range ids {
		if err := hook(c.modules[id], s); err != nil {
			s.Audits.AddError("module_hook_failed", fmt.Sprintf("%s hook: %v", stage, err), id, "")
			ok = false
		}
	}

	return ok
}

// processEntry runs one concrete entry under its own head. Panics are
// contained to the entry.
func (c *Context) processEntry(s *session.Session, e mapping.Entry) {
	var table *mapping.LookupTable
	if e.Kind == mapping.KindLookup {
		table, _ = c.spec.LookupTable(e.LookupTable)
	}

	h := s.NewHead(&e, table)
	defer s.Flush(h)

	defer func() {
		if r := recover(); r != nil {
			h.Errorf("uncaught_runtime_error", "", "entry %s failed: %v", e.ID, r)
			c.logger.Error("entry panicked", "entry", e.ID, "panic", r, "stack", string(debug.Stack()))
		}
	}()

	c.metrics.EntryProcessed(string(e.Kind))
	c.logger.Debug("processing entry", "entry", e.ID, "kind", e.Kind)

	if common.IsEmpty(e.Outputs) {
		h.Warnf("no_output_fields", "", "entry %s has no output fields and is skipped", e.ID)
		return
	}

	if common.IsEmpty(e.Inputs) {
		h.Warnf("no_input_fields", "", "entry %s has no input fields", e.ID)
	}

	h.Sources = e.Inputs

	for _, id := range e.Inputs {
		c.readSource(s, h, id)
	}

	if h.HasErrors() {
		return
	}

	switch e.Kind {
	case mapping.KindMap:
		c.processMap(s, h, &e)
	case mapping.KindCombine:
		c.processCombine(s, h, &e)
	case mapping.KindSeparate:
		c.processSeparate(s, h, &e)
	case mapping.KindLookup:
		c.processLookup(s, h, &e)
	default:
		h.Errorf("unknown_mapping_kind", "", "entry %s has unsupported kind %q", e.ID, e.Kind)
	}
}

// readSource loads the value of an input field through its module.
func (c *Context) readSource(s *session.Session, h *session.Head, id mapping.FieldID) {
	f := s.Field(id)

	m, ok := c.modules[f.DocID]
	if !ok {
		h.Errorf("no_module_for_field", f.String(), "no module serves document %q", f.DocID)
		return
	}

	if !m.IsSupportedField(f) {
		h.Warnf("unsupported_field", f.String(), "field is not supported by the module of %q and is skipped", f.DocID)
		return
	}

	if err := m.ProcessSourceFieldMapping(s, h, id); err != nil {
		h.Errorf("source_field_failed", f.String(), "%v", err)
	}
}

// writeTarget stores value in an output field through its module.
func (c *Context) writeTarget(s *session.Session, h *session.Head, id mapping.FieldID, value any) {
	f := s.Field(id)
	f.Value = value

	m, ok := c.modules[f.DocID]
	if !ok {
		h.Errorf("no_module_for_field", f.String(), "no module serves document %q", f.DocID)
		return
	}

	if !m.IsSupportedField(f) {
		h.Warnf("unsupported_field", f.String(), "field is not supported by the module of %q and is skipped", f.DocID)
		return
	}

	h.Target = id
	defer func() { h.Target = session.NoField }()

	if err := m.ProcessTargetFieldMapping(s, h, id); err != nil {
		h.Errorf("target_field_failed", f.String(), "%v", err)
	}
}
