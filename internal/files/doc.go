// Package files groups the disk-facing packages of imdix.
//
//   - filesystem: reading project folders and executing export plans, on the
//     real filesystem or in memory
package files
