package schema

import (
	"fmt"
	"strings"
)

// Issue is one validation error. Line is 0 when unknown.
type Issue struct {
	Message string
	Line    int
}

func (i Issue) String() string {
	if i.Line > 0 {
		return fmt.Sprintf("line %d: %s", i.Line, i.Message)
	}
	return i.Message
}

// Result contains the outcome of a validation.
// If Valid is false, Errors describes why.
type Result struct {
	Valid  bool
	Errors []Issue
}

// valid returns a passing result.
func valid() Result {
	return Result{Valid: true}
}

// AddError appends an error and marks the result invalid.
func (r *Result) AddError(line int, format string, args ...any) {
	r.Valid = false
	r.Errors = append(r.Errors, Issue{Message: fmt.Sprintf(format, args...), Line: line})
}

// HasErrors returns true if the result contains errors.
func (r *Result) HasErrors() bool {
	return len(r.Errors) > 0
}

// ErrorString returns all errors joined with semicolons.
func (r *Result) ErrorString() string {
	parts := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		parts[i] = e.String()
	}
	return strings.Join(parts, "; ")
}

// FirstLine returns the line of the first located error, or 0.
func (r *Result) FirstLine() int {
	for _, e := range r.Errors {
		if e.Line > 0 {
			return e.Line
		}
	}
	return 0
}

// merge combines two results; errors are prefixed with their origin.
func merge(inner Result, innerLabel string, outer Result, outerLabel string) Result {
	out := Result{Valid: inner.Valid && outer.Valid}
	for _, e := range inner.Errors {
		out.Errors = append(out.Errors, Issue{Message: innerLabel + ": " + e.Message, Line: e.Line})
	}
	for _, e := range outer.Errors {
		out.Errors = append(out.Errors, Issue{Message: outerLabel + ": " + e.Message, Line: e.Line})
	}
	return out
}
