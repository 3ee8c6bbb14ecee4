package engine

import (
	"errors"
	"fmt"
	"reflect"
	"time"

	"fieldmap/internal/action"
	"fieldmap/internal/common"
	"fieldmap/internal/convert"
	"fieldmap/internal/mapping"
	"fieldmap/internal/session"
)

// processMap copies the input value into every output. Input actions run
// before the conversion to the output type, output actions after it.
func (c *Context) processMap(s *session.Session, h *session.Head, e *mapping.Entry) {
	inID, ok := common.First(e.Inputs)
	if !ok {
		for _, out := range e.Outputs {
			c.deliver(s, h, nil, nil, "", "", out)
		}

		return
	}

	c.mapFrom(s, h, inID, e.Outputs)
}

func (c *Context) mapFrom(s *session.Session, h *session.Head, inID mapping.FieldID, outputs []mapping.FieldID) {
	in := s.Field(inID)

	value, typ, err := c.pipeline.Apply(in.Actions, in.Value, in.Type)
	if err != nil {
		c.actionFailed(h, in, err)
		return
	}

	format := ""
	if typ == in.Type {
		format = in.Format
	}

	src := *in

	for _, out := range outputs {
		c.deliver(s, h, &src, value, typ, format, out)
	}
}

// processCombine joins the indexed inputs into one string and maps it into
// the output through a synthetic field cloned from the first input.
func (c *Context) processCombine(s *session.Session, h *session.Head, e *mapping.Entry) {
	parts := make(map[int]string, len(e.Inputs))

	for _, id := range e.Inputs {
		f := s.Field(id)

		if f.Index == nil || *f.Index < 0 {
			h.Warnf("combine_missing_index", f.String(), "combine input has no index and is skipped")
			continue
		}

		value, typ, err := c.pipeline.Apply(f.Actions, f.Value, f.Type)
		if err != nil {
			c.actionFailed(h, f, err)
			continue
		}

		if value == nil {
			continue
		}

		parts[*f.Index] = c.stringify(h, f.String(), value, typ, f.Format)
	}

	strategy, ok := combineStrategies[e.Strategy]
	if !ok {
		h.Errorf("unknown_strategy", "", "unknown combine strategy %q", e.Strategy)
		return
	}

	combined, err := strategy(parts, e)
	if err != nil {
		h.Errorf("combine_failed", "", "%v", err)
		return
	}

	firstID, ok := common.First(e.Inputs)
	if !ok {
		for _, out := range e.Outputs {
			c.deliver(s, h, nil, combined, convert.TypeString, "", out)
		}

		return
	}

	synth := s.CloneField(firstID)
	f := s.Field(synth)
	f.Value = combined
	f.Type = convert.TypeString
	f.Format = ""
	f.Index = nil

	// input actions already ran; only the output redirect survives
	f.Actions = nil
	if a, ok := s.Field(firstID).FindAction(action.CopyToAction); ok {
		f.Actions = []mapping.Action{a}
	}

	c.mapFrom(s, h, synth, e.Outputs)
}

// processSeparate splits the input string and delivers the piece selected
// by each output's index. An index past the last piece stops the entry.
func (c *Context) processSeparate(s *session.Session, h *session.Head, e *mapping.Entry) {
	inID, ok := common.First(e.Inputs)
	if !ok {
		return
	}

	in := s.Field(inID)
	if common.IsMultiple(e.Inputs) {
		c.logger.Debug("separate uses its first input only", "entry", e.ID)
	}

	value, typ, err := c.pipeline.Apply(in.Actions, in.Value, in.Type)
	if err != nil {
		c.actionFailed(h, in, err)
		return
	}

	if value == nil {
		return
	}

	text := c.stringify(h, in.String(), value, typ, in.Format)
	src := *in

	strategy, ok := separateStrategies[e.Strategy]
	if !ok {
		h.Errorf("unknown_strategy", "", "unknown separate strategy %q", e.Strategy)
		return
	}

	pieces := strategy(text, e)

	for _, id := range e.Outputs {
		out := s.Field(id)

		if out.Index == nil || *out.Index < 0 {
			h.Warnf("separate_missing_index", out.String(), "separate output has no index and is skipped")
			continue
		}

		if *out.Index >= len(pieces) {
			h.Warnf("separate_index_out_of_range", out.String(),
				"index %d is beyond the %d separated values, remaining outputs are skipped", *out.Index, len(pieces))

			return
		}

		c.deliver(s, h, &src, pieces[*out.Index], convert.TypeString, "", id)
	}
}

// processLookup replaces the input value by the target value of the first
// matching table entry. A miss writes nil and records nothing.
func (c *Context) processLookup(s *session.Session, h *session.Head, e *mapping.Entry) {
	if h.LookupTable == nil {
		h.Errorf("unknown_lookup_table", "", "lookup table %q is not declared", e.LookupTable)
		return
	}

	var (
		value any
		src   *mapping.Field
	)

	if inID, ok := common.First(e.Inputs); ok {
		in := s.Field(inID)

		var err error
		if value, _, err = c.pipeline.Apply(in.Actions, in.Value, in.Type); err != nil {
			c.actionFailed(h, in, err)
			return
		}

		copied := *in
		src = &copied
	}

	match, found := c.lookup(h.LookupTable, value)

	for _, out := range e.Outputs {
		if !found {
			c.writeTarget(s, h, out, nil)
			continue
		}

		targetType := match.TargetType
		if targetType.IsWildcard() {
			targetType = convert.TypeString
		}

		v, err := c.conversion.ConvertType(match.TargetValue, "", targetType, "")
		if err != nil {
			h.Errorf("conversion_failed", s.Field(out).String(), "lookup value %q to %s: %v", match.TargetValue, targetType, err)
			continue
		}

		c.deliver(s, h, src, v, targetType, "", out)
	}
}

// lookup returns the first entry of table matching value. Entries with a
// source type compare typed values; the others compare string forms.
func (c *Context) lookup(table *mapping.LookupTable, value any) (mapping.LookupEntry, bool) {
	if value == nil {
		return mapping.LookupEntry{}, false
	}

	key, err := c.conversion.ConvertType(value, "", convert.TypeString, "")
	if err != nil {
		key = fmt.Sprint(value)
	}

	text, ok := key.(string)
	if !ok {
		text = fmt.Sprint(key)
	}

	return table.Find(func(e mapping.LookupEntry) bool {
		if e.SourceType.IsWildcard() {
			return e.SourceValue == text
		}

		return c.matchesTyped(e, value)
	})
}

func (c *Context) matchesTyped(e mapping.LookupEntry, value any) bool {
	want, err := c.conversion.ConvertType(e.SourceValue, "", e.SourceType, "")
	if err != nil {
		return false
	}

	got, err := c.conversion.ConvertType(value, "", e.SourceType, "")
	if err != nil {
		return false
	}

	if wt, ok := want.(time.Time); ok {
		gt, ok := got.(time.Time)
		return ok && wt.Equal(gt)
	}

	return reflect.DeepEqual(want, got)
}

// deliver converts value to the output type, runs the output actions and
// writes the result. src is the field the value came from; it may carry a
// CopyTo action redirecting the output item.
func (c *Context) deliver(
	s *session.Session,
	h *session.Head,
	src *mapping.Field,
	value any,
	typ convert.FieldType,
	format string,
	outID mapping.FieldID,
) {
	if src != nil {
		outID = c.copyTo(s, h, src, outID)
	}

	out := s.Field(outID)
	name := out.String()
	outType, outFormat, outActions := out.Type, out.Format, out.Actions

	converted, err := c.convert(value, typ, format, outType, outFormat)
	if err != nil {
		h.Errorf("conversion_failed", name, "%v", err)
		return
	}

	current := outType
	if current.IsWildcard() {
		current = typ
	}

	final, _, err := c.pipeline.ApplyTo(outActions, converted, current, outType)
	if err != nil {
		c.actionFailed(h, out, err)
		return
	}

	c.writeTarget(s, h, outID, final)
}

// convert converts value to typ item by item. Matching types are copied
// verbatim.
func (c *Context) convert(value any, from convert.FieldType, fromFormat string, typ convert.FieldType, format string) (any, error) {
	if value == nil || typ.IsWildcard() || (from == typ && format == "") {
		return value, nil
	}

	items, ok := value.([]any)
	if !ok || typ == convert.TypeComplex {
		return c.conversion.ConvertType(value, fromFormat, typ, format)
	}

	out := make([]any, len(items))

	for i, item := range items {
		v, err := c.conversion.ConvertType(item, fromFormat, typ, format)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}

		out[i] = v
	}

	return out, nil
}

// stringify returns the string form of value. Without a converter from
// typ to STRING the raw form is used and a WARN recorded.
func (c *Context) stringify(h *session.Head, where string, value any, typ convert.FieldType, format string) string {
	if s, ok := value.(string); ok {
		return s
	}

	if _, ok := c.conversion.FindMatchingConverter(typ, convert.TypeString); ok {
		if v, err := c.conversion.ConvertType(value, format, convert.TypeString, ""); err == nil {
			if s, ok := v.(string); ok {
				return s
			}
		}
	}

	h.Warnf("raw_string_conversion", where, "no converter from %s to STRING, using the raw value", typ)

	return fmt.Sprint(value)
}

func (c *Context) actionFailed(h *session.Head, f *mapping.Field, err error) {
	var resErr *action.ResolutionError
	if errors.As(err, &resErr) {
		h.Audit(diagnosticFor(resErr, f.String()))
		return
	}

	h.Errorf("action_failed", f.String(), "%v", err)
}
