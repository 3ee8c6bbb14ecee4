package engine

import (
	"fmt"

	"fieldmap/internal/common"
	"fieldmap/internal/mapping"
	"fieldmap/internal/path"
	"fieldmap/internal/session"
)

// expand turns a top-level entry into the concrete entries to process. A
// collection entry yields one clone of each template per item of the
// collection addressed by the template's primary input; any other entry
// is returned as is. Expansion audits are scoped to e.
func (c *Context) expand(s *session.Session, e *mapping.Entry) []mapping.Entry {
	if e.Kind != mapping.KindCollection {
		return []mapping.Entry{*e}
	}

	h := s.NewHead(e, nil)
	defer s.Flush(h)

	return c.expandTemplates(s, h, e)
}

func (c *Context) expandTemplates(s *session.Session, h *session.Head, e *mapping.Entry) []mapping.Entry {
	var out []mapping.Entry

	for i := range e.Entries {
		out = append(out, c.fanOut(s, h, e.Entries[i])...)
	}

	return out
}

// fanOut expands one template. Clones are expanded again while their
// primary input still has an unindexed collection segment, so nested
// collections produce one entry per innermost item.
func (c *Context) fanOut(s *session.Session, h *session.Head, tmpl mapping.Entry) []mapping.Entry {
	if tmpl.Kind == mapping.KindCollection {
		return c.expandTemplates(s, h, &tmpl)
	}

	primaryID, ok := common.First(tmpl.Inputs)
	if !ok {
		return []mapping.Entry{c.settleOutputs(s, tmpl)}
	}

	primary := s.Field(primaryID)

	at, ok := primary.Path.FirstWildcard()
	if !ok {
		return []mapping.Entry{c.settleOutputs(s, tmpl)}
	}

	m, ok := c.modules[primary.DocID]
	if !ok {
		h.Errorf("no_module_for_field", primary.String(), "no module serves document %q", primary.DocID)
		return nil
	}

	n, err := m.CollectionSize(s, primaryID)
	if err != nil {
		h.Errorf("collection_size_failed", primary.String(), "%v", err)
		return nil
	}

	name := path.CleanSegment(primary.Path.Segment(at).String())
	out := make([]mapping.Entry, 0, n)

	for i := range n {
		out = append(out, c.fanOut(s, h, c.cloneEntry(s, tmpl, name, i))...)
	}

	return out
}

// cloneEntry copies tmpl into the session arena for item idx of the
// collection segment name. Inputs have every segment called name pointed
// at idx; outputs have their first unindexed segment pointed at idx.
func (c *Context) cloneEntry(s *session.Session, tmpl mapping.Entry, name string, idx int) mapping.Entry {
	e := tmpl
	e.ID = fmt.Sprintf("%s[%d]", tmpl.ID, idx)
	e.Inputs = make([]mapping.FieldID, len(tmpl.Inputs))
	e.Outputs = make([]mapping.FieldID, len(tmpl.Outputs))

	for i, id := range tmpl.Inputs {
		clone := c.cloneField(s, id)
		f := s.Field(clone)
		f.Path = path.OverwriteIndex(f.Path, name, idx)
		e.Inputs[i] = clone
	}

	for i, id := range tmpl.Outputs {
		clone := c.cloneField(s, id)
		f := s.Field(clone)

		if at, ok := f.Path.FirstWildcard(); ok {
			f.Path = f.Path.WithIndexAt(at, idx)
		}

		e.Outputs[i] = clone
	}

	return e
}

// settleOutputs points every unindexed collection segment of the outputs
// at item 0, so that a scalar source still materializes one target item.
func (c *Context) settleOutputs(s *session.Session, tmpl mapping.Entry) mapping.Entry {
	e := tmpl
	e.Outputs = make([]mapping.FieldID, len(tmpl.Outputs))

	for i, id := range tmpl.Outputs {
		if !s.Field(id).Path.HasWildcard() {
			e.Outputs[i] = id
			continue
		}

		clone := c.cloneField(s, id)
		f := s.Field(clone)
		f.Path = f.Path.FillWildcards(0)
		e.Outputs[i] = clone
	}

	return e
}

func (c *Context) cloneField(s *session.Session, id mapping.FieldID) mapping.FieldID {
	if m, ok := c.modules[s.Field(id).DocID]; ok {
		return m.CloneField(s, id)
	}

	return s.CloneField(id)
}
