// Package diagnostic provides the status-tagged records produced while a
// mapping specification is validated and executed.
//
// Validation findings and execution audits share one shape: a status
// (INFO, WARN or ERROR), a stable code, a message, and the scope (mapping
// entry or data source id) and field path they relate to. Records are kept
// in emission order so a caller can replay exactly what happened.
package diagnostic
