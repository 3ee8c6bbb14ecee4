package module

import (
	"fmt"
	"slices"
	"strings"
)

// Factory returns a new, unconfigured Module.
type Factory func() Module

// Registry maps URI schemes to module factories.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register binds scheme to f, replacing any previous binding.
func (r *Registry) Register(scheme string, f Factory) *Registry {
	r.factories[strings.ToLower(scheme)] = f
	return r
}

// Scheme returns the lowercased scheme of uri, the text before the first
// ':'. It is empty when uri has no scheme.
func Scheme(uri string) string {
	scheme, _, ok := strings.Cut(uri, ":")
	if !ok {
		return ""
	}

	return strings.ToLower(strings.TrimSpace(scheme))
}

// Claims reports whether a module is registered for the scheme of uri.
func (r *Registry) Claims(uri string) bool {
	_, ok := r.factories[Scheme(uri)]
	return ok
}

// Schemes returns the registered schemes, sorted.
func (r *Registry) Schemes() []string {
	out := make([]string, 0, len(r.factories))
	for scheme := range r.factories {
		out = append(out, scheme)
	}

	slices.Sort(out)

	return out
}

// New creates and configures the module for cfg.URI.
func (r *Registry) New(cfg Config) (Module, error) {
	f, ok := r.factories[Scheme(cfg.URI)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNoModule, cfg.URI)
	}

	m := f()
	if err := m.Configure(cfg); err != nil {
		return nil, fmt.Errorf("configure module for %q: %w", cfg.DocID, err)
	}

	return m, nil
}
