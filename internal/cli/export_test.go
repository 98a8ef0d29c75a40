package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/imdix/internal/config"
	"github.com/vvka-141/imdix/internal/copier"
	"github.com/vvka-141/imdix/internal/export"
	"github.com/vvka-141/imdix/internal/files/filesystem"
	"github.com/vvka-141/imdix/internal/logging"
	"github.com/vvka-141/imdix/internal/schema"
	"github.com/vvka-141/imdix/internal/ui"
	"github.com/vvka-141/imdix/pkg/imdix"
)

func edoloProject(t *testing.T) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "Edolo")
	writeFiles(t, dir, map[string]string{
		"Edolo.project":                 "title: Edolo Language Documentation\n",
		"Sessions/ETR009/ETR009.session": "title: Fishing\ndate: 2011-10-07\n",
	})
	return dir
}

func TestRunExport_ProjectNotFound(t *testing.T) {
	t.Setenv("IMDIX_NON_INTERACTIVE", "1")
	isolateEnv(t, config.EnvSchemaDir, config.EnvXMLLint)
	root := t.TempDir()
	cmd, flags, _ := newTestExportCommand(t, "-o", filepath.Join(root, "bundle"), "--no-copy")

	err := runExport(cmd, flags, filepath.Join(root, "missing"))
	assert.ErrorIs(t, err, imdix.ErrProjectNotFound)
	assert.Equal(t, imdix.ExitProjectError, imdix.ExitCodeForError(err))
}

func TestRunExport_MissingOutput(t *testing.T) {
	t.Setenv("IMDIX_NON_INTERACTIVE", "1")
	isolateEnv(t, config.EnvSchemaDir, config.EnvXMLLint)
	cmd, flags, _ := newTestExportCommand(t)

	err := runExport(cmd, flags, edoloProject(t))
	assert.ErrorIs(t, err, imdix.ErrInvalidConfig)
}

func TestRunExport_MissingLanguageTable(t *testing.T) {
	t.Setenv("IMDIX_NON_INTERACTIVE", "1")
	isolateEnv(t, config.EnvSchemaDir, config.EnvXMLLint)
	project := edoloProject(t)
	cmd, flags, _ := newTestExportCommand(t,
		"-o", filepath.Join(filepath.Dir(project), "bundle"),
		"--language-table", filepath.Join(project, "iso-639-3.tab"))

	err := runExport(cmd, flags, project)
	assert.ErrorIs(t, err, imdix.ErrInvalidConfig)
}

func TestRunExport_SchemaUnavailableRemovesOutput(t *testing.T) {
	t.Setenv("IMDIX_NON_INTERACTIVE", "1")
	isolateEnv(t, config.EnvSchemaDir, config.EnvXMLLint)
	project := edoloProject(t)
	output := filepath.Join(filepath.Dir(project), "bundle")
	cmd, flags, out := newTestExportCommand(t, "-o", output, "--no-copy")

	err := runExport(cmd, flags, project)
	require.ErrorIs(t, err, imdix.ErrSchemaNotFound)
	assert.Equal(t, imdix.ExitSchemaUnavailable, imdix.ExitCodeForError(err))
	assert.NoDirExists(t, output)
	assert.Contains(t, out.String(), "✗")
}

type stubApprover struct {
	approve bool
	err     error
	asked   []string
}

func (a *stubApprover) RequestApproval(ctx context.Context, outputRoot string) (bool, error) {
	a.asked = append(a.asked, outputRoot)
	return a.approve, a.err
}

func TestApproveOverwrite(t *testing.T) {
	root := t.TempDir()
	full := filepath.Join(root, "full")
	writeFiles(t, full, map[string]string{"Edolo.imdi": "<old/>"})
	empty := filepath.Join(root, "empty")
	require.NoError(t, os.Mkdir(empty, 0o755))

	t.Run("missing and empty folders are not asked about", func(t *testing.T) {
		a := &stubApprover{}
		assert.NoError(t, approveOverwrite(context.Background(), filepath.Join(root, "missing"), a))
		assert.NoError(t, approveOverwrite(context.Background(), empty, a))
		assert.Empty(t, a.asked)
	})

	t.Run("approved", func(t *testing.T) {
		a := &stubApprover{approve: true}
		assert.NoError(t, approveOverwrite(context.Background(), full, a))
		assert.Equal(t, []string{full}, a.asked)
	})

	t.Run("denied", func(t *testing.T) {
		err := approveOverwrite(context.Background(), full, &stubApprover{})
		assert.ErrorIs(t, err, imdix.ErrOverwriteDenied)
		assert.Equal(t, imdix.ExitOverwriteDenied, imdix.ExitCodeForError(err))
	})

	t.Run("interrupted prompt", func(t *testing.T) {
		err := approveOverwrite(context.Background(), full, &stubApprover{err: context.Canceled})
		assert.ErrorIs(t, err, imdix.ErrCancelled)
	})
}

func TestNewApprover(t *testing.T) {
	_, ok := newApprover(true, false).(*ui.ForcedApprover)
	assert.True(t, ok, "--force never prompts")

	t.Setenv("IMDIX_NON_INTERACTIVE", "1")
	_, ok = newApprover(false, false).(*ui.ForcedApprover)
	assert.True(t, ok, "non-interactive runs never prompt")
}

func TestApproveOverwrite_NonInteractiveClearsWithoutPrompt(t *testing.T) {
	out := filepath.Join(t.TempDir(), "Edolo_ELAR")
	writeFiles(t, out, map[string]string{
		"Edolo/Edolo.imdi":           "<old/>",
		"Edolo/ETR009/ETR009.imdi":   "<old/>",
		"Edolo/ETR009/ETR009_01.wav": "audio",
	})

	t.Setenv("IMDIX_NON_INTERACTIVE", "1")
	require.NoError(t, approveOverwrite(context.Background(), out+string(filepath.Separator), newApprover(false, false)))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := approveOverwrite(ctx, out, newApprover(false, false))
	assert.ErrorIs(t, err, imdix.ErrCancelled, "a cancelled run is not treated as approval")
}

func TestNewSchemaBackend(t *testing.T) {
	logger := logging.NewNullLogger()

	_, ok := newSchemaBackend(&config.ProjectConfig{}, logger).(*schema.Structural)
	assert.True(t, ok, "built-in validator by default")

	_, ok = newSchemaBackend(&config.ProjectConfig{XMLLint: "/nonexistent/xmllint"}, logger).(*schema.Structural)
	assert.True(t, ok, "falls back when xmllint is missing")
}

func TestNewFileCopier(t *testing.T) {
	logger := logging.NewNullLogger()
	fsys := filesystem.NewOS("")

	t.Run("copying disabled", func(t *testing.T) {
		c, engine, err := newFileCopier(&config.ProjectConfig{}, fsys, false, logger)
		require.NoError(t, err)
		assert.Nil(t, c)
		assert.Nil(t, engine)
	})

	t.Run("unknown tool", func(t *testing.T) {
		t.Setenv("PATH", t.TempDir())
		_, _, err := newFileCopier(&config.ProjectConfig{CopyTool: "rsync"}, fsys, true, logger)
		assert.ErrorIs(t, err, imdix.ErrInvalidConfig)
	})

	t.Run("no tool on PATH falls back to in-process copy", func(t *testing.T) {
		t.Setenv("PATH", t.TempDir())
		c, engine, err := newFileCopier(&config.ProjectConfig{}, fsys, true, logger)
		require.NoError(t, err)
		assert.Nil(t, engine)
		assert.IsType(t, copier.IOCopier{}, c)
	})
}

func TestReportCopyFailures(t *testing.T) {
	_, _, out := newTestExportCommand(t)
	reportCopyFailures(out, export.Result{CopyFailures: []export.CopyFailure{{
		Unit:   "ETR009",
		Source: "/p/Sessions/ETR009/ETR009.wav",
		Err:    assert.AnError,
	}}})
	assert.Contains(t, out.String(), "! ETR009: copy /p/Sessions/ETR009/ETR009.wav")
}
