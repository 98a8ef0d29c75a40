// Package filesystem is the disk boundary of imdix: it reads project folders
// and executes the write plans of an export.
//
// Implementations:
//   - OS: the real filesystem, with schemas read from a schema directory
//   - Memory: an in-memory filesystem for tests that records every write
//
// Both implement Reader and imdix.PrivilegedIO.
package filesystem
