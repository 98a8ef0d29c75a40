package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/imdix/internal/config"
	"github.com/vvka-141/imdix/pkg/imdix"
)

const corpusDocument = `<?xml version="1.0" encoding="UTF-8"?>
<METATRANSCRIPT xmlns="http://www.mpi.nl/IMDI/Schema/IMDI" Type="CORPUS">
  <Corpus>
    <Name>edolo</Name>
    <CorpusLink Name="s1">edolo/s1.imdi</CorpusLink>
    <CorpusLink Name="s2">edolo/s2.imdi</CorpusLink>
  </Corpus>
</METATRANSCRIPT>
`

// schemaDir serves the schema package's test schema under the archive name.
func schemaDir(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("..", "schema", "testdata", "imdi.xsd"))
	require.NoError(t, err)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, imdix.SchemaIMDI), data, 0o644))
	return dir
}

func newTestValidateCommand(t *testing.T, args ...string) (*cobra.Command, *validateFlagValues, *bytes.Buffer) {
	t.Helper()
	flags := &validateFlagValues{}
	cmd := &cobra.Command{Use: "validate"}
	cmd.Flags().BoolP("verbose", "v", false, "")
	bindValidateFlags(cmd, flags)
	require.NoError(t, cmd.ParseFlags(args))

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	return cmd, flags, &out
}

func writeDocument(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "Edolo.imdi")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRunValidate_Valid(t *testing.T) {
	isolateEnv(t, config.EnvSchemaDir, config.EnvXMLLint)
	path := writeDocument(t, corpusDocument)
	cmd, flags, out := newTestValidateCommand(t, "--schema-dir", schemaDir(t))

	require.NoError(t, runValidate(cmd, flags, path))
	assert.Contains(t, out.String(), "is valid (imdi schema)")
}

func TestRunValidate_SchemaDirFromEnvironment(t *testing.T) {
	t.Setenv(config.EnvSchemaDir, schemaDir(t))
	path := writeDocument(t, corpusDocument)
	cmd, flags, _ := newTestValidateCommand(t)

	assert.NoError(t, runValidate(cmd, flags, path))
}

func TestRunValidate_Invalid(t *testing.T) {
	isolateEnv(t, config.EnvSchemaDir, config.EnvXMLLint)
	path := writeDocument(t, strings.Replace(corpusDocument, `<CorpusLink Name="s2">`, `<CorpusLink>`, 1))
	cmd, flags, _ := newTestValidateCommand(t, "--schema-dir", schemaDir(t))

	err := runValidate(cmd, flags, path)
	require.ErrorIs(t, err, imdix.ErrSchemaValidation)
	assert.Equal(t, imdix.ExitValidationFailed, imdix.ExitCodeForError(err))

	msg := err.Error()
	assert.Contains(t, msg, `schema validation failed for "Edolo.imdi"`)
	assert.Contains(t, msg, "line 6: Element 'CorpusLink': The attribute 'Name' is required but missing.")
	assert.Contains(t, msg, ">     6 |")
	assert.NotContains(t, msg, "Hint:")
}

func TestRunValidate_Errors(t *testing.T) {
	isolateEnv(t, config.EnvSchemaDir, config.EnvXMLLint)
	path := writeDocument(t, corpusDocument)

	t.Run("no schema directory", func(t *testing.T) {
		cmd, flags, _ := newTestValidateCommand(t)
		err := runValidate(cmd, flags, path)
		assert.ErrorIs(t, err, imdix.ErrSchemaNotFound)
	})

	t.Run("unknown variant", func(t *testing.T) {
		cmd, flags, _ := newTestValidateCommand(t, "--variant", "dublin-core")
		err := runValidate(cmd, flags, path)
		assert.ErrorIs(t, err, imdix.ErrInvalidConfig)
	})

	t.Run("missing document", func(t *testing.T) {
		cmd, flags, _ := newTestValidateCommand(t, "--schema-dir", schemaDir(t))
		err := runValidate(cmd, flags, filepath.Join(t.TempDir(), "nope.imdi"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}
