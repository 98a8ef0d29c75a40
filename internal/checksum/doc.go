// Package checksum hashes file content with SHA-256 so a finished copy can be
// compared against its source.
//
// # Example Usage
//
//	calculator := checksum.New()
//	same, err := calculator.Same(src, dst)
//
// # Thread Safety
//
// SHA256 is safe for concurrent use by multiple goroutines.
package checksum
