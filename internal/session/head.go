package session

import (
	"fmt"

	"fieldmap/internal/diagnostic"
	"fieldmap/internal/mapping"
)

// NoField marks an unset field reference on a Head.
const NoField mapping.FieldID = -1

// Head is the cursor for one concrete entry. It scopes every audit to the
// entry being processed.
type Head struct {
	Entry       *mapping.Entry
	LookupTable *mapping.LookupTable

	// Sources are the input fields of the entry.
	Sources []mapping.FieldID
	// Target is the output field currently written, NoField outside the
	// target stage.
	Target mapping.FieldID

	audits diagnostic.Diagnostics
}

// Scope returns the id of the entry under the head.
func (h *Head) Scope() string {
	if h.Entry == nil {
		return ""
	}

	return h.Entry.ID
}

// Audit buffers d, filling in the scope when it is empty.
func (h *Head) Audit(d diagnostic.Diagnostic) {
	if d.Scope == "" {
		d.Scope = h.Scope()
	}

	h.audits.Add(d)
}

// Errorf buffers an ERROR audit for path.
func (h *Head) Errorf(code, path, format string, args ...any) {
	h.audits.AddError(code, fmt.Sprintf(format, args...), h.Scope(), path)
}

// Warnf buffers a WARN audit for path.
func (h *Head) Warnf(code, path, format string, args ...any) {
	h.audits.AddWarning(code, fmt.Sprintf(format, args...), h.Scope(), path)
}

// Infof buffers an INFO audit for path.
func (h *Head) Infof(code, path, format string, args ...any) {
	h.audits.AddInfo(code, fmt.Sprintf(format, args...), h.Scope(), path)
}

// HasErrors reports whether an ERROR audit is buffered.
func (h *Head) HasErrors() bool {
	return h.audits.HasErrors()
}

// Audits returns the buffered audits.
func (h *Head) Audits() diagnostic.Diagnostics {
	return h.audits
}
