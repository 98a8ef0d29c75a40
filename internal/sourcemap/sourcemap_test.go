package sourcemap

import (
	"testing"
)

func TestNew(t *testing.T) {
	sm := New()
	if sm == nil {
		t.Fatal("New() returned nil")
	}
	if sm.Len() != 0 {
		t.Errorf("Len() = %d, expected 0", sm.Len())
	}
}

func TestSourceMap_Resolve_Offset(t *testing.T) {
	sm := New()
	sm.Add(1, 40, 9, "IMDI payload")

	tests := []struct {
		fragmentLine int
		expectedLine int
		expectedOK   bool
	}{
		{1, 9, true},
		{2, 10, true},
		{40, 48, true},
		{41, 0, false},
		{0, 0, false},
	}

	for _, tt := range tests {
		line, desc, found := sm.Resolve(tt.fragmentLine)
		if found != tt.expectedOK {
			t.Errorf("Resolve(%d) found = %v, expected %v", tt.fragmentLine, found, tt.expectedOK)
			continue
		}
		if line != tt.expectedLine {
			t.Errorf("Resolve(%d) line = %d, expected %d", tt.fragmentLine, line, tt.expectedLine)
		}
		if found && desc != "IMDI payload" {
			t.Errorf("Resolve(%d) desc = %q", tt.fragmentLine, desc)
		}
	}
}

func TestSourceMap_Resolve_MultipleEntries(t *testing.T) {
	sm := New()
	sm.Add(1, 5, 100, "first")
	sm.Add(6, 10, 200, "second")

	if line, desc, _ := sm.Resolve(7); line != 201 || desc != "second" {
		t.Errorf("Resolve(7) = %d %q, expected 201 \"second\"", line, desc)
	}
}

func TestSourceMap_Entries_ReturnsCopy(t *testing.T) {
	sm := New()
	sm.Add(1, 2, 3, "x")

	entries := sm.Entries()
	entries[0].OriginalLine = 99

	if line, _, _ := sm.Resolve(1); line != 3 {
		t.Errorf("mutating Entries() result changed the map: line = %d", line)
	}
}

func TestLineOfAndLineCount(t *testing.T) {
	text := "a\nbb\nccc\n"

	if got := LineOf(text, 0); got != 1 {
		t.Errorf("LineOf(0) = %d", got)
	}
	if got := LineOf(text, 3); got != 2 {
		t.Errorf("LineOf(3) = %d", got)
	}
	if got := LineOf(text, 1000); got != 4 {
		t.Errorf("LineOf(past end) = %d", got)
	}
	if got := LineCount(text); got != 3 {
		t.Errorf("LineCount = %d, expected 3", got)
	}
	if got := LineCount(""); got != 0 {
		t.Errorf("LineCount(\"\") = %d", got)
	}
}

func TestContext(t *testing.T) {
	text := "1\n2\n3\n4\n5\n6\n7\n"

	lines := Context(text, 2, 3)
	if len(lines) != 5 {
		t.Fatalf("len = %d, expected 5 (clamped at the start)", len(lines))
	}
	if lines[0].Number != 1 || lines[4].Number != 5 {
		t.Errorf("range = %d..%d, expected 1..5", lines[0].Number, lines[4].Number)
	}
	if !lines[1].Focus || lines[0].Focus {
		t.Error("focus should be on line 2 only")
	}

	lines = Context(text, 7, 1)
	if len(lines) != 2 || lines[1].Text != "7" {
		t.Errorf("unexpected tail context: %+v", lines)
	}

	if Context(text, 0, 3) != nil || Context(text, 8, 3) != nil {
		t.Error("out-of-range lines should yield nil")
	}
}
