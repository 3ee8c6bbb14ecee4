// Package session holds the mutable state of one processing run.
//
// A Session owns a private copy of the specification's field arena, the
// source and target documents keyed by document id, opaque per-document
// handles stored by modules, runtime properties, and the audit trail.
// Fan-out clones are appended to the session arena, never to the shared
// specification.
//
// A Head is the per-entry cursor. The engine creates one for each concrete
// entry and passes it down explicitly; audits recorded on it are buffered
// and only reach the session when the entry is flushed.
//
// Sessions are single use and must not be shared across goroutines.
package session
