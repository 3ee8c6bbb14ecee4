package diagnostic

import (
	"errors"
	"fmt"
	"strings"
)

// Diagnostics is an ordered list of diagnostic records.
type Diagnostics []Diagnostic

// Diagnostic represents a single validation finding or execution audit.
type Diagnostic struct {
	// Status of the diagnostic.
	Status Status `json:"status" yaml:"status"`
	// Code is a unique identifier for this type of diagnostic.
	Code string `json:"code" yaml:"code"`
	// Message is the human-readable description.
	Message string `json:"message" yaml:"message"`
	// Scope identifies the mapping entry or data source this relates to (if any).
	Scope string `json:"scope,omitempty" yaml:"scope,omitempty"`
	// Path identifies which field this relates to (if any).
	Path string `json:"path,omitempty" yaml:"path,omitempty"`
	// Value is the offending value, when there is one.
	Value any `json:"value,omitempty" yaml:"value,omitempty"`
	// Suggestions are potential fixes or alternatives.
	Suggestions []string `json:"suggestions,omitempty" yaml:"suggestions,omitempty"`
}

// Status represents the severity level of a diagnostic.
type Status int

const (
	StatusInfo Status = iota
	StatusWarn
	StatusError
)

// String returns the canonical upper-case status name.
func (s Status) String() string {
	switch s {
	case StatusInfo:
		return "INFO"
	case StatusWarn:
		return "WARN"
	case StatusError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Status) UnmarshalText(text []byte) error {
	switch strings.ToUpper(string(text)) {
	case "INFO":
		*s = StatusInfo
	case "WARN", "WARNING":
		*s = StatusWarn
	case "ERROR":
		*s = StatusError
	default:
		return fmt.Errorf("unknown status %q", text)
	}

	return nil
}

// Add appends a diagnostic.
func (d *Diagnostics) Add(diag Diagnostic) {
	*d = append(*d, diag)
}

// AddError adds an error diagnostic.
func (d *Diagnostics) AddError(code, message, scope, path string) {
	d.Add(Diagnostic{Status: StatusError, Code: code, Message: message, Scope: scope, Path: path})
}

// AddWarning adds a warning diagnostic.
func (d *Diagnostics) AddWarning(code, message, scope, path string) {
	d.Add(Diagnostic{Status: StatusWarn, Code: code, Message: message, Scope: scope, Path: path})
}

// AddInfo adds an info diagnostic.
func (d *Diagnostics) AddInfo(code, message, scope, path string) {
	d.Add(Diagnostic{Status: StatusInfo, Code: code, Message: message, Scope: scope, Path: path})
}

// Merge appends all records of other, preserving their order.
func (d *Diagnostics) Merge(other Diagnostics) {
	*d = append(*d, other...)
}

// HasErrors returns true if there are any error diagnostics.
func (d Diagnostics) HasErrors() bool {
	return d.Count(StatusError) > 0
}

// IsValid returns true if there are no errors.
func (d Diagnostics) IsValid() bool {
	return !d.HasErrors()
}

// Count returns the number of records with the given status.
func (d Diagnostics) Count(status Status) int {
	n := 0

	for _, diag := range d {
		if diag.Status == status {
			n++
		}
	}

	return n
}

// Filter returns the records with the given status, in order.
func (d Diagnostics) Filter(status Status) Diagnostics {
	var out Diagnostics

	for _, diag := range d {
		if diag.Status == status {
			out = append(out, diag)
		}
	}

	return out
}

// Errors returns the error records.
func (d Diagnostics) Errors() Diagnostics { return d.Filter(StatusError) }

// Warnings returns the warning records.
func (d Diagnostics) Warnings() Diagnostics { return d.Filter(StatusWarn) }

// Infos returns the info records.
func (d Diagnostics) Infos() Diagnostics { return d.Filter(StatusInfo) }

// Err returns a combined error from all error diagnostics, or nil if valid.
func (d Diagnostics) Err() error {
	if d.IsValid() {
		return nil
	}

	var parts []string
	for _, e := range d.Errors() {
		parts = append(parts, e.String())
	}

	return errors.New(strings.Join(parts, "; "))
}

// String returns a formatted diagnostic string.
func (d Diagnostic) String() string {
	var prefix []string
	if d.Scope != "" {
		prefix = append(prefix, "["+d.Scope+"]")
	}

	if d.Path != "" {
		prefix = append(prefix, d.Path)
	}

	msg := d.Message
	if d.Code != "" {
		msg = fmt.Sprintf("[%s] %s", d.Code, msg)
	}

	msg = d.Status.String() + " " + msg

	if len(prefix) > 0 {
		return strings.Join(prefix, " ") + ": " + msg
	}

	return msg
}
