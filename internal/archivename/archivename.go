// Package archivename maps project file and folder names to the restricted
// character set archives accept. The same mapping feeds both the XML
// ResourceLink values and the on-disk copy destinations.
package archivename

import (
	"strings"

	"github.com/vvka-141/imdix/pkg/imdix"
)

// Replacement substitutes every character an archive would reject.
const Replacement = '_'

// Sanitize returns name with everything outside [A-Za-z0-9._-] replaced.
// Surrounding whitespace is dropped first; an empty result becomes "_".
func Sanitize(name string) string {
	name = strings.TrimSpace(name)
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if allowed(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(Replacement)
		}
	}
	if b.Len() == 0 {
		return string(Replacement)
	}
	return b.String()
}

// Changed reports whether Sanitize alters name.
func Changed(name string) bool {
	return Sanitize(name) != name
}

// ExportName is the sanitized bundle name of a file.
func ExportName(f *imdix.File) string {
	if f.ExportAs != "" {
		return Sanitize(f.ExportAs)
	}
	return Sanitize(f.Name())
}

func allowed(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == '.', r == '-', r == '_':
		return true
	}
	return false
}
