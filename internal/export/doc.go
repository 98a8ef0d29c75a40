// Package export drives one export run: it prepares the output root, pulls
// units from the bundle orchestrator, writes their documents through
// PrivilegedIO, dispatches file copies in the background and reports
// progress.
//
// Failure handling:
//
//   - output root cannot be prepared: fatal, nothing is generated
//   - a document fails schema validation: fatal
//   - a single file copy fails: counted in the Result, the run continues
//   - the context is cancelled: the run stops between units
//
// Fatal errors and cancellation remove the output root. Copies that are
// already running are left to the copy engine; only its CancelAll
// interrupts them.
package export
