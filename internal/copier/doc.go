// Package copier copies source files into an export by running an external
// copy tool per file.
//
// Large media files are copied by rsync (with --progress) or, when rsync is
// missing, by cp -p. Each process runs in its own process group so it
// survives the terminal's interrupt and the exit of imdix itself. An Engine
// keeps a registry of running jobs: callers can ask whether anything is still
// copying and cancel every job, which interrupts the processes and removes
// their partially written destinations.
//
// Transient tool failures (an rsync partial transfer, a busy volume) are
// retried with backoff, and a finished copy can be verified against its
// source with SHA-256.
package copier
