// Package module defines the contract between the execution engine and the
// format adapters that read source documents and write target documents.
//
// A Module is configured once per data source when the engine context is
// built and then shared by every session of that context. Modules keep no
// per-run state on themselves: documents and any reader or writer handles
// live on the Session.
//
// The package ships the modules for the reserved constant and property
// documents. Document formats live in subpackages such as module/tree.
package module
