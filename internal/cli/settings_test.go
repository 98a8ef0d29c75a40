package cli

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/imdix/internal/config"
	"github.com/vvka-141/imdix/pkg/imdix"
)

func TestLoadSettings_FromConfigFile(t *testing.T) {
	isolateEnv(t, config.EnvSchemaDir, config.EnvXMLLint)
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		config.ConfigFileName: "mode: opex\noutput: bundle\ncopy: false\nsessions: [ETR009]\n",
	})
	cmd, flags, _ := newTestExportCommand(t)

	settings, err := loadSettings(cmd, flags, dir, false)
	require.NoError(t, err)

	assert.Equal(t, "opex", settings.Mode)
	assert.Equal(t, filepath.Join(dir, "bundle"), settings.Output)
	assert.False(t, settings.CopyEnabled())
	assert.Equal(t, []string{"ETR009"}, settings.Sessions)
}

func TestLoadSettings_FlagsOverrideFile(t *testing.T) {
	isolateEnv(t, config.EnvSchemaDir, config.EnvXMLLint)
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		config.ConfigFileName: "mode: opex\noutput: bundle\ncopy: false\nretries: 5\nsessions: [ETR009]\n",
	})
	cmd, flags, _ := newTestExportCommand(t,
		"--mode", "imdi", "-o", "/elsewhere", "--no-copy=false", "--retries", "0",
		"--session", "ETR010", "--session", "ETR011")

	settings, err := loadSettings(cmd, flags, dir, false)
	require.NoError(t, err)

	assert.Equal(t, "imdi", settings.Mode)
	assert.Equal(t, "/elsewhere", settings.Output)
	assert.True(t, settings.CopyEnabled())
	assert.Equal(t, 0, settings.RetryCount())
	assert.Equal(t, []string{"ETR010", "ETR011"}, settings.Sessions)
}

func TestLoadSettings_UnsetFlagsKeepFileValues(t *testing.T) {
	isolateEnv(t, config.EnvSchemaDir, config.EnvXMLLint)
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{config.ConfigFileName: "retries: 5\nconcurrency: 4\n"})
	cmd, flags, _ := newTestExportCommand(t)

	settings, err := loadSettings(cmd, flags, dir, false)
	require.NoError(t, err)
	assert.Equal(t, 5, settings.RetryCount())
	assert.Equal(t, 4, settings.Concurrency)
}

func TestLoadSettings_Precedence(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{config.ConfigFileName: "schema_dir: schemas\n"})

	t.Run("environment overrides file", func(t *testing.T) {
		t.Setenv(config.EnvSchemaDir, "/env/schemas")
		cmd, flags, _ := newTestExportCommand(t)
		settings, err := loadSettings(cmd, flags, dir, false)
		require.NoError(t, err)
		assert.Equal(t, "/env/schemas", settings.SchemaDir)
	})

	t.Run("flag overrides environment", func(t *testing.T) {
		t.Setenv(config.EnvSchemaDir, "/env/schemas")
		cmd, flags, _ := newTestExportCommand(t, "--schema-dir", "/flag/schemas")
		settings, err := loadSettings(cmd, flags, dir, false)
		require.NoError(t, err)
		assert.Equal(t, "/flag/schemas", settings.SchemaDir)
	})
}

func TestLoadSettings_ProjectDotEnv(t *testing.T) {
	isolateEnv(t, config.EnvSchemaDir, config.EnvXMLLint)
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{".env": "IMDIX_XMLLINT=/opt/libxml2/bin/xmllint\n"})
	cmd, flags, _ := newTestExportCommand(t)

	settings, err := loadSettings(cmd, flags, dir, false)
	require.NoError(t, err)
	assert.Equal(t, "/opt/libxml2/bin/xmllint", settings.XMLLint)
}

func TestLoadSettings_Invalid(t *testing.T) {
	isolateEnv(t, config.EnvSchemaDir, config.EnvXMLLint)
	tests := []struct {
		name string
		args []string
		file string
	}{
		{name: "unknown copy tool", args: []string{"--copy-tool", "scp"}},
		{name: "negative concurrency", args: []string{"--concurrency", "-1"}},
		{name: "unknown mode in file", file: "mode: zip\n"},
		{name: "malformed file", file: "mode: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			if tt.file != "" {
				writeFiles(t, dir, map[string]string{config.ConfigFileName: tt.file})
			}
			cmd, flags, _ := newTestExportCommand(t, tt.args...)
			_, err := loadSettings(cmd, flags, dir, false)
			assert.ErrorIs(t, err, imdix.ErrInvalidConfig)
		})
	}
}

func TestBuildExportConfig(t *testing.T) {
	root := t.TempDir()
	project := filepath.Join(root, "Edolo")
	noCopy := false

	cfg, err := buildExportConfig(&config.ProjectConfig{
		Mode:        "opex",
		Variant:     "elar",
		Output:      filepath.Join(root, "bundle"),
		Copy:        &noCopy,
		Verify:      true,
		Concurrency: 3,
		Sessions:    []string{"ETR009"},
		DebugDir:    filepath.Join(root, "debug"),
		Log:         filepath.Join(root, "export.log"),
	}, project, true)
	require.NoError(t, err)

	assert.Equal(t, imdix.ExportConfig{
		ProjectPath:     project,
		OutputRoot:      filepath.Join(root, "bundle"),
		Mode:            imdix.ModeOPEX,
		Variant:         imdix.VariantELAR,
		CopyFiles:       false,
		VerifyCopies:    false,
		CopyConcurrency: 3,
		Sessions:        []string{"ETR009"},
		DebugDirectory:  filepath.Join(root, "debug"),
		LogPath:         filepath.Join(root, "export.log"),
		Verbose:         true,
	}, cfg)
	assert.NoError(t, cfg.Validate())
}

func TestBuildExportConfig_RequiresOutput(t *testing.T) {
	_, err := buildExportConfig(&config.ProjectConfig{}, t.TempDir(), false)
	assert.ErrorIs(t, err, imdix.ErrInvalidConfig)
	assert.Contains(t, err.Error(), "--output")
}

func TestCheckOutputRoot(t *testing.T) {
	root := t.TempDir()
	project := filepath.Join(root, "work", "Edolo")

	tests := []struct {
		output string
		ok     bool
	}{
		{filepath.Join(root, "bundle"), true},
		{filepath.Join(root, "work", "Edolo-bundle"), true},
		{filepath.Join(project, "bundle"), true},
		{project, false},
		{filepath.Join(root, "work"), false},
		{root, false},
	}
	for _, tt := range tests {
		t.Run(tt.output, func(t *testing.T) {
			err := checkOutputRoot(project, tt.output)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, imdix.ErrInvalidConfig)
			}
		})
	}
}
