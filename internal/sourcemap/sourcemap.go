// Package sourcemap maps lines of an extracted fragment back to the document
// it was cut from, and slices source lines around a location for diagnostics.
package sourcemap

import "strings"

// Entry maps a range of fragment lines onto the original document.
type Entry struct {
	FragmentStart int    // First fragment line (1-based, inclusive)
	FragmentEnd   int    // Last fragment line (1-based, inclusive)
	OriginalLine  int    // Original line of FragmentStart
	Description   string // Human-readable description (e.g., "IMDI payload")
}

// SourceMap tracks where the lines of an extracted fragment came from.
// Used to report validation errors of an embedded payload against the
// enclosing document.
type SourceMap struct {
	entries []Entry
}

// New creates a new empty SourceMap.
func New() *SourceMap {
	return &SourceMap{
		entries: make([]Entry, 0),
	}
}

// Add records that fragment lines [fragmentStart, fragmentEnd] start at
// originalLine in the enclosing document. Lines are 1-based.
func (sm *SourceMap) Add(fragmentStart, fragmentEnd, originalLine int, desc string) {
	sm.entries = append(sm.entries, Entry{
		FragmentStart: fragmentStart,
		FragmentEnd:   fragmentEnd,
		OriginalLine:  originalLine,
		Description:   desc,
	})
}

// Resolve converts a fragment line to its original line.
func (sm *SourceMap) Resolve(fragmentLine int) (line int, desc string, found bool) {
	for _, entry := range sm.entries {
		if fragmentLine >= entry.FragmentStart && fragmentLine <= entry.FragmentEnd {
			return entry.OriginalLine + fragmentLine - entry.FragmentStart, entry.Description, true
		}
	}
	return 0, "", false
}

// Entries returns a copy of all entries.
func (sm *SourceMap) Entries() []Entry {
	result := make([]Entry, len(sm.entries))
	copy(result, sm.entries)
	return result
}

// Len returns the number of entries in the source map.
func (sm *SourceMap) Len() int {
	return len(sm.entries)
}

// LineOf returns the 1-based line of a byte offset in text.
func LineOf(text string, offset int) int {
	if offset > len(text) {
		offset = len(text)
	}
	return strings.Count(text[:offset], "\n") + 1
}

// LineCount returns the number of lines in text.
func LineCount(text string) int {
	if text == "" {
		return 0
	}
	return strings.Count(strings.TrimSuffix(text, "\n"), "\n") + 1
}

// Line is one source line shown in a diagnostic.
type Line struct {
	Number int
	Text   string
	Focus  bool
}

// Context returns up to radius lines on each side of line. It returns nil
// when line is outside the text.
func Context(text string, line, radius int) []Line {
	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	if line < 1 || line > len(lines) {
		return nil
	}
	from := max(line-radius, 1)
	to := min(line+radius, len(lines))

	out := make([]Line, 0, to-from+1)
	for n := from; n <= to; n++ {
		out = append(out, Line{Number: n, Text: lines[n-1], Focus: n == line})
	}
	return out
}
