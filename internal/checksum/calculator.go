package checksum

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

// Calculator computes content checksums.
type Calculator interface {
	// Sum hashes everything read from r.
	Sum(r io.Reader) (string, error)

	// File hashes the content of the file at path.
	File(path string) (string, error)
}

// SHA256 implements Calculator with SHA-256 and lowercase hex output.
// It is a zero-size value type.
type SHA256 struct{}

// New creates a SHA-256 calculator.
func New() SHA256 {
	return SHA256{}
}

// Bytes hashes an in-memory buffer.
func (SHA256) Bytes(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// Sum hashes everything read from r.
func (SHA256) Sum(r io.Reader) (string, error) {
	h := sha256.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// File hashes the content of the file at path.
func (c SHA256) File(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	sum, err := c.Sum(f)
	if err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}
	return sum, nil
}

// Same reports whether two files have identical content. Files of
// different sizes are not hashed.
func (c SHA256) Same(a, b string) (bool, error) {
	infoA, err := os.Stat(a)
	if err != nil {
		return false, err
	}
	infoB, err := os.Stat(b)
	if err != nil {
		return false, err
	}
	if infoA.Size() != infoB.Size() {
		return false, nil
	}

	sumA, err := c.File(a)
	if err != nil {
		return false, err
	}
	sumB, err := c.File(b)
	if err != nil {
		return false, err
	}
	return sumA == sumB, nil
}

// MismatchError reports a copy whose content differs from its source.
type MismatchError struct {
	Source      string
	Destination string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("checksum mismatch: %s differs from %s", e.Destination, e.Source)
}

// Verify returns a *MismatchError when dst does not match src.
func (c SHA256) Verify(src, dst string) error {
	same, err := c.Same(src, dst)
	if err != nil {
		return fmt.Errorf("verify %s: %w", dst, err)
	}
	if !same {
		return &MismatchError{Source: src, Destination: dst}
	}
	return nil
}
