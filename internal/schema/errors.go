package schema

import (
	"fmt"
	"strings"

	"github.com/vvka-141/imdix/internal/sourcemap"
	"github.com/vvka-141/imdix/pkg/imdix"
)

// ValidationError aborts an export when a generated document is rejected.
// It carries the folder it was generated for, the schema errors, the lines
// around the first error and, when a debug directory is configured, where
// the document was saved.
type ValidationError struct {
	Folder    string
	Result    Result
	Context   []sourcemap.Line
	SavedPath string
	Hint      string
}

// NewValidationError builds the error for a failed document.
func NewValidationError(folder, document string, result Result) *ValidationError {
	return &ValidationError{
		Folder:  folder,
		Result:  result,
		Context: sourcemap.Context(document, result.FirstLine(), imdix.ContextLines),
		Hint: "The archive schema rejected the generated metadata. Check the field named in the first error\n" +
			"for this folder, or pass --debug-dir to keep the rejected document for inspection.",
	}
}

// Error implements the error interface with rich formatting.
func (e *ValidationError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "schema validation failed for %q", e.Folder)
	for _, issue := range e.Result.Errors {
		fmt.Fprintf(&b, "\n  %s", issue)
	}
	if len(e.Context) > 0 {
		b.WriteString("\n\n")
		b.WriteString(FormatContext(e.Context))
	}
	if e.SavedPath != "" {
		fmt.Fprintf(&b, "\n\nDocument saved to %s", e.SavedPath)
	}
	if e.Hint != "" {
		b.WriteString("\n\nHint: " + e.Hint)
	}
	return b.String()
}

// Unwrap lets errors.Is match imdix.ErrSchemaValidation.
func (e *ValidationError) Unwrap() error {
	return imdix.ErrSchemaValidation
}

// FormatContext renders source lines with the focused one marked.
func FormatContext(lines []sourcemap.Line) string {
	var b strings.Builder
	for i, l := range lines {
		marker := " "
		if l.Focus {
			marker = ">"
		}
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s %5d | %s", marker, l.Number, l.Text)
	}
	return b.String()
}
