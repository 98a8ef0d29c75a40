package schema

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vvka-141/imdix/internal/sourcemap"
	"github.com/vvka-141/imdix/pkg/imdix"
)

func TestValidationErrorMatchesSentinel(t *testing.T) {
	r := Result{}
	r.AddError(5, "Element 'Date': This element is not expected. Expected is ( Title ).")
	err := fmt.Errorf("bundle s1: %w", NewValidationError("s1", sessionDocument, r))

	assert.True(t, errors.Is(err, imdix.ErrSchemaValidation))
	assert.Equal(t, imdix.ExitValidationFailed, imdix.ExitCodeForError(err))

	var ve *ValidationError
	assert.True(t, errors.As(err, &ve))
	assert.Equal(t, "s1", ve.Folder)
}

func TestValidationErrorShowsContext(t *testing.T) {
	r := Result{}
	r.AddError(5, "Element 'Title': bad")
	ve := NewValidationError("s1", sessionDocument, r)
	ve.SavedPath = "/tmp/debug/s1.imdi"

	assert.Len(t, ve.Context, 2*imdix.ContextLines+1)
	assert.Equal(t, 2, ve.Context[0].Number)
	assert.True(t, ve.Context[3].Focus)

	msg := ve.Error()
	assert.True(t, strings.HasPrefix(msg, `schema validation failed for "s1"`))
	assert.Contains(t, msg, "line 5: Element 'Title': bad")
	assert.Contains(t, msg, ">     5 |     <Title>Fishing</Title>")
	assert.Contains(t, msg, "      4 |     <Name>s1</Name>")
	assert.Contains(t, msg, "Document saved to /tmp/debug/s1.imdi")
	assert.Contains(t, msg, "Hint: ")
}

func TestValidationErrorWithoutLine(t *testing.T) {
	r := Result{}
	r.AddError(0, "IMDI: no METATRANSCRIPT payload")
	ve := NewValidationError("s1", "<x/>", r)

	assert.Empty(t, ve.Context)
	assert.NotContains(t, ve.Error(), " | ")
}

func TestFormatContext(t *testing.T) {
	out := FormatContext([]sourcemap.Line{
		{Number: 9, Text: "a"},
		{Number: 10, Text: "b", Focus: true},
	})
	assert.Equal(t, "      9 | a\n>    10 | b", out)
}
