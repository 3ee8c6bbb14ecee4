package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"fieldmap/internal/action"
	"fieldmap/internal/diagnostic"
	"fieldmap/internal/engine"
	"fieldmap/internal/mapping"
)

// ProcessRequest is the body of POST /v1/process.
type ProcessRequest struct {
	Sources    map[string]any `json:"sources"`
	Properties map[string]any `json:"properties,omitempty"`
}

// ProcessResponse is the result of one session.
type ProcessResponse struct {
	Session string                 `json:"session"`
	Targets map[string]any         `json:"targets"`
	Audits  diagnostic.Diagnostics `json:"audits"`
}

// ValidateResponse reports the findings of a validation.
type ValidateResponse struct {
	Valid       bool                   `json:"valid"`
	Diagnostics diagnostic.Diagnostics `json:"diagnostics"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, "ok\n")
}

func (s *Server) actions(w http.ResponseWriter, _ *http.Request) {
	details := s.ctx.Actions().Details()
	if details == nil {
		details = []action.Detail{}
	}

	s.writeJSON(w, http.StatusOK, details)
}

// validate checks the served mapping. A non-empty body is parsed as a
// mapping file and checked against the same actions and modules instead.
func (s *Server) validate(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		s.writeError(w, http.StatusRequestEntityTooLarge, err)
		return
	}

	ctx := s.ctx

	if len(bytes.TrimSpace(body)) > 0 {
		spec, err := mapping.Parse(body)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, err)
			return
		}

		ctx, err = engine.New(spec,
			engine.WithActions(s.ctx.Actions()),
			engine.WithModules(s.ctx.Modules()),
		)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, err)
			return
		}
	}

	diags := ctx.Validate()
	if diags == nil {
		diags = diagnostic.Diagnostics{}
	}

	s.writeJSON(w, http.StatusOK, ValidateResponse{Valid: diags.IsValid(), Diagnostics: diags})
}

func (s *Server) process(w http.ResponseWriter, r *http.Request) {
	var req ProcessRequest

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize))
	dec.UseNumber()

	if err := dec.Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	sources := make(map[string]any, len(req.Sources))
	for id, doc := range req.Sources {
		sources[id] = numbers(doc)
	}

	properties := make(map[string]any, len(req.Properties))
	for name, v := range req.Properties {
		properties[name] = numbers(v)
	}

	sess, err := s.ctx.Run(sources, properties)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	resp := ProcessResponse{
		Session: sess.ID(),
		Targets: make(map[string]any),
		Audits:  sess.Audits,
	}

	if resp.Audits == nil {
		resp.Audits = diagnostic.Diagnostics{}
	}

	for _, id := range s.ctx.Targets() {
		if doc, ok := sess.Document(id); ok {
			resp.Targets[id] = doc
		}
	}

	s.logger.Debug("session processed", "session", sess.ID(), "audits", len(sess.Audits))
	s.writeJSON(w, http.StatusOK, resp)
}

// numbers turns json.Number leaves into int64 when integral and float64
// otherwise, so typed conversions see Go numbers.
func numbers(v any) any {
	switch n := v.(type) {
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i
		}

		if f, err := n.Float64(); err == nil {
			return f
		}

		return n.String()
	case map[string]any:
		for k, item := range n {
			n[k] = numbers(item)
		}

		return n
	case []any:
		for i, item := range n {
			n[i] = numbers(item)
		}

		return n
	default:
		return v
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		status = http.StatusRequestEntityTooLarge
	}

	s.logger.Warn("request failed", "status", status, "error", err)
	s.writeJSON(w, status, errorResponse{Error: err.Error()})
}
