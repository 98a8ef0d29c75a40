package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/vvka-141/imdix/internal/config"
	"github.com/vvka-141/imdix/pkg/imdix"
)

// exportFlagValues holds the flags of the export command. Only flags the
// user set override imdix.yaml.
type exportFlagValues struct {
	output, mode, variant string
	noCopy, verify, quiet bool
	force                 bool
	concurrency, retries  int
	copyTool              string
	sessions              []string
	debugDir, logPath     string
	schemaDir             string
	languageTable         string
	xmllint               string
}

// loadSettings merges imdix.yaml, the environment (including .env files in
// the working directory and the project folder) and the command-line flags.
// Precedence: flag > environment > imdix.yaml.
func loadSettings(cmd *cobra.Command, flags *exportFlagValues, projectDir string, verbose bool) (*config.ProjectConfig, error) {
	loadDotEnv(projectDir, verbose)

	settings, err := config.LoadOptional(projectDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", config.ConfigFileName, err)
	}
	settings.ApplyEnv(os.LookupEnv)

	changed := cmd.Flags().Changed
	if changed("output") {
		settings.Output = flags.output
	}
	if changed("mode") {
		settings.Mode = flags.mode
	}
	if changed("variant") {
		settings.Variant = flags.variant
	}
	if changed("no-copy") {
		copyFiles := !flags.noCopy
		settings.Copy = &copyFiles
	}
	if changed("verify") {
		settings.Verify = flags.verify
	}
	if changed("concurrency") {
		settings.Concurrency = flags.concurrency
	}
	if changed("copy-tool") {
		settings.CopyTool = flags.copyTool
	}
	if changed("retries") {
		retries := flags.retries
		settings.Retries = &retries
	}
	if changed("session") {
		settings.Sessions = flags.sessions
	}
	if changed("debug-dir") {
		settings.DebugDir = flags.debugDir
	}
	if changed("log") {
		settings.Log = flags.logPath
	}
	if changed("schema-dir") {
		settings.SchemaDir = flags.schemaDir
	}
	if changed("language-table") {
		settings.LanguageTable = flags.languageTable
	}
	if changed("xmllint") {
		settings.XMLLint = flags.xmllint
	}

	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

// loadDotEnv loads .env from the working directory and then from the
// project folder. Variables already set are never overridden.
func loadDotEnv(projectDir string, verbose bool) {
	for _, path := range []string{".env", filepath.Join(projectDir, ".env")} {
		if err := godotenv.Load(path); err == nil && verbose {
			fmt.Fprintf(os.Stderr, "[VERBOSE] Loaded environment from %s\n", path)
		}
	}
}

// buildExportConfig turns merged settings into the run configuration.
func buildExportConfig(settings *config.ProjectConfig, projectDir string, verbose bool) (imdix.ExportConfig, error) {
	mode, err := imdix.ParseMode(settings.Mode)
	if err != nil {
		return imdix.ExportConfig{}, err
	}
	variant, err := imdix.LookupVariant(settings.Variant)
	if err != nil {
		return imdix.ExportConfig{}, err
	}
	if settings.Output == "" {
		return imdix.ExportConfig{}, fmt.Errorf("no output folder: pass --output or set output in %s: %w",
			config.ConfigFileName, imdix.ErrInvalidConfig)
	}
	if err := checkOutputRoot(projectDir, settings.Output); err != nil {
		return imdix.ExportConfig{}, err
	}

	return imdix.ExportConfig{
		ProjectPath:     projectDir,
		OutputRoot:      settings.Output,
		Mode:            mode,
		Variant:         variant,
		CopyFiles:       settings.CopyEnabled(),
		VerifyCopies:    settings.Verify && settings.CopyEnabled(),
		CopyConcurrency: settings.Concurrency,
		Sessions:        settings.Sessions,
		DebugDirectory:  settings.DebugDir,
		LogPath:         settings.Log,
		Verbose:         verbose,
	}, nil
}

// checkOutputRoot refuses output folders that would take the project with
// them when the export clears or removes the bundle.
func checkOutputRoot(projectDir, output string) error {
	project, err := filepath.Abs(projectDir)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", projectDir, err)
	}
	out, err := filepath.Abs(output)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", output, err)
	}
	rel, err := filepath.Rel(out, project)
	if err == nil && (rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))) {
		return fmt.Errorf("output folder %s contains the project folder: %w", output, imdix.ErrInvalidConfig)
	}
	return nil
}
