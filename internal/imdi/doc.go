// Package imdi builds IMDI 3.0 documents, optionally wrapped in an OPEX
// envelope, from the project model.
//
// A Generator is created once per export run. It is not safe for concurrent
// use: the run-scoped "approximate birth year" notice is tracked on it.
//
// Documents are assembled as immutable xmlnode trees by small builder
// functions, one per schema group, and serialized once. Field emission goes
// through a single policy dispatch (emit) driven by the fields registry, so a
// field is present exactly when it is required or non-empty.
//
// Missing data never fails generation. Gaps become schema-legal placeholders
// and, where the user can fix them, advisory warnings on the configured sink.
package imdi
