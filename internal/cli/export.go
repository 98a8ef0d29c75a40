package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vvka-141/imdix/internal/config"
	"github.com/vvka-141/imdix/internal/copier"
	"github.com/vvka-141/imdix/internal/export"
	"github.com/vvka-141/imdix/internal/files/filesystem"
	"github.com/vvka-141/imdix/internal/logging"
	"github.com/vvka-141/imdix/internal/project"
	"github.com/vvka-141/imdix/internal/schema"
	"github.com/vvka-141/imdix/internal/tui"
	"github.com/vvka-141/imdix/internal/ui"
	"github.com/vvka-141/imdix/pkg/imdix"
)

func newExportCommand() *cobra.Command {
	flags := &exportFlagValues{}

	cmd := &cobra.Command{
		Use:   "export <project_path>",
		Short: "Export a project folder as an archive bundle",
		Long: `Export reads a project folder and writes an archive bundle to the output folder.

The export:
1. Clears the output folder
2. Writes a pseudo-session for OtherDocuments and DescriptionDocuments
3. Writes a Consent pseudo-session with the consent files of every contributor
4. Writes one document per session and copies its files next to it
5. Writes the corpus document linking every session
6. Waits for the remaining file copies

Each document is validated against the archive schema before it is written.
If validation fails, or the export is cancelled, the output folder is removed.
Files that fail to copy are reported but do not stop the export.

Arguments:
  project_path    Folder containing the <name>.project file

Configuration:
  Settings are read from imdix.yaml in the project folder, then from the
  environment (IMDIX_SCHEMA_DIR, IMDIX_XMLLINT, optionally from .env), then
  from flags. Flags win.

Examples:
  # Export to ./bundle with file copies
  imdix export ./Edolo --output ./bundle --schema-dir ./schemas

  # OPEX packages for the relaxed archive schema
  imdix export ./Edolo -o ./bundle --mode opex --variant elar

  # Metadata only, two sessions
  imdix export ./Edolo -o ./bundle --no-copy --session ETR009 --session ETR010`,
		Args: RequireProjectPath,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, flags, args[0])
		},
	}

	bindExportFlags(cmd, flags)
	registerExportCompletions(cmd)
	return cmd
}

func bindExportFlags(cmd *cobra.Command, flags *exportFlagValues) {
	f := cmd.Flags()
	f.StringVarP(&flags.output, "output", "o", "",
		"Folder the bundle is written into (cleared first)")
	f.StringVar(&flags.mode, "mode", "",
		"Document format: imdi|opex (default imdi)")
	f.StringVar(&flags.variant, "variant", "",
		"Archive schema variant: imdi|elar (default imdi)")
	f.BoolVar(&flags.noCopy, "no-copy", false,
		"Write metadata only, do not copy session files")
	f.BoolVar(&flags.verify, "verify", false,
		"Compare SHA-256 digests of each copied file with its source")
	f.IntVar(&flags.concurrency, "concurrency", 0,
		fmt.Sprintf("Maximum simultaneous file copies (default %d)", imdix.DefaultCopyConcurrency))
	f.StringVar(&flags.copyTool, "copy-tool", "",
		"Copy program: auto|rsync|cp (default auto)")
	f.IntVar(&flags.retries, "retries", imdix.DefaultRetryMaxAttempts,
		"Retries after a transient copy failure")
	f.StringArrayVar(&flags.sessions, "session", nil,
		"Export only this session ID (can be specified multiple times)")
	f.StringVar(&flags.debugDir, "debug-dir", "",
		"Save documents that fail validation into this folder")
	f.StringVar(&flags.logPath, "log", "",
		"Write the warnings of the export to this file")
	f.StringVar(&flags.schemaDir, "schema-dir", "",
		"Folder containing the archive schemas (overrides $"+config.EnvSchemaDir+")")
	f.StringVar(&flags.languageTable, "language-table", "",
		"ISO 639-3 code table (tab-separated) used for language names")
	f.StringVar(&flags.xmllint, "xmllint", "",
		"Validate with this xmllint executable instead of the built-in validator (overrides $"+config.EnvXMLLint+")")
	f.BoolVarP(&flags.quiet, "quiet", "q", false,
		"Print only phase changes in non-interactive mode")
	f.BoolVar(&flags.force, "force", false,
		"Clear a non-empty output folder without asking")
}

func init() {
	rootCmd.AddCommand(newExportCommand())
}

func runExport(cmd *cobra.Command, flags *exportFlagValues, projectDir string) error {
	verbose := getVerboseFlag(cmd)
	logger := logging.NewConsoleLogger(verbose)

	settings, err := loadSettings(cmd, flags, projectDir, verbose)
	if err != nil {
		return err
	}
	cfg, err := buildExportConfig(settings, projectDir, verbose)
	if err != nil {
		return err
	}

	fsys := filesystem.NewOS(settings.SchemaDir)
	proj, err := loadProject(fsys, settings, projectDir, logger)
	if err != nil {
		return err
	}

	validator := schema.NewValidator(newSchemaBackend(settings, logger), fsys, cfg.Variant)
	fileCopier, engine, err := newFileCopier(settings, fsys, cfg.CopyFiles, logger)
	if err != nil {
		return err
	}
	coordinator := export.NewCoordinator(fsys, fileCopier, validator, logger)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := approveOverwrite(ctx, cfg.OutputRoot, newApprover(flags.force, verbose)); err != nil {
		return err
	}

	run := func(ctx context.Context, onProgress func(imdix.Progress), onCopy func(string, int)) (export.Result, error) {
		if onCopy != nil {
			coordinator.WithCopyProgress(onCopy)
		}
		return coordinator.Run(ctx, proj, cfg, onProgress)
	}

	var result export.Result
	if tui.IsInteractive() {
		result, err = tui.RunInteractive(ctx, "Exporting "+proj.ID, run)
	} else {
		result, err = tui.RunPlain(ctx, cmd.ErrOrStderr(), flags.quiet, run)
	}
	if err != nil {
		if engine != nil && errors.Is(err, imdix.ErrCancelled) {
			engine.CancelAll(true)
		}
		return err
	}

	reportCopyFailures(cmd.ErrOrStderr(), result)
	return nil
}

func newApprover(force, verbose bool) imdix.Approver {
	if force || !tui.IsInteractive() {
		return ui.NewForcedApprover(verbose)
	}
	return ui.NewInteractiveApprover(verbose)
}

// approveOverwrite asks before an output folder that already holds files is
// cleared. Missing and empty folders need no approval.
func approveOverwrite(ctx context.Context, outputRoot string, approver imdix.Approver) error {
	entries, err := os.ReadDir(outputRoot)
	if err != nil || len(entries) == 0 {
		return nil
	}
	approved, err := approver.RequestApproval(ctx, outputRoot)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return fmt.Errorf("export: %w", imdix.ErrCancelled)
		}
		return err
	}
	if !approved {
		return fmt.Errorf("export to %s: %w", outputRoot, imdix.ErrOverwriteDenied)
	}
	return nil
}

// loadProject reads the project folder, loading the language table first
// when one is configured.
func loadProject(fsys filesystem.Reader, settings *config.ProjectConfig, projectDir string, logger imdix.Logger) (*imdix.Project, error) {
	languages := project.NewLanguages()
	if settings.LanguageTable != "" {
		data, err := fsys.ReadFile(settings.LanguageTable)
		if err != nil {
			return nil, fmt.Errorf("language table: %v: %w", err, imdix.ErrInvalidConfig)
		}
		n, err := languages.LoadTable(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("language table %s: %v: %w", settings.LanguageTable, err, imdix.ErrInvalidConfig)
		}
		logger.Verbose("Loaded %d language(s) from %s", n, settings.LanguageTable)
	}
	return project.NewReader(fsys, languages).WithLogger(logger).Load(projectDir)
}

// newSchemaBackend returns xmllint when one is configured and found, the
// built-in structural validator otherwise.
func newSchemaBackend(settings *config.ProjectConfig, logger imdix.Logger) schema.Backend {
	if settings.XMLLint != "" {
		x := schema.XMLLint{Path: settings.XMLLint}
		if x.Available() {
			logger.Verbose("Validating with %s", settings.XMLLint)
			return x
		}
		logger.Warn("xmllint not found at %s; using the built-in validator", settings.XMLLint)
	}
	return schema.NewStructural()
}

// newFileCopier returns the external-tool engine, or the in-process copier
// when automatic detection finds no tool. engine is nil unless the external
// engine is in use.
func newFileCopier(settings *config.ProjectConfig, fsys imdix.PrivilegedIO, copyFiles bool, logger imdix.Logger) (imdix.FileCopier, *copier.Engine, error) {
	if !copyFiles {
		return nil, nil, nil
	}

	engine, err := copier.New(copier.Options{
		Tool:    settings.CopyTool,
		Retries: settings.RetryCount(),
		Verify:  settings.Verify,
		Logger:  logger,
	})
	if errors.Is(err, copier.ErrNoCopyTool) {
		logger.Warn("%v; copying in-process without progress", err)
		if settings.Verify {
			logger.Warn("Copy verification needs rsync or cp and is disabled")
		}
		return copier.IOCopier{IO: fsys}, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("%v: %w", err, imdix.ErrInvalidConfig)
	}
	logger.Verbose("Copying files with %s", engine.Tool())
	return engine, engine, nil
}

func reportCopyFailures(w io.Writer, result export.Result) {
	for _, f := range result.CopyFailures {
		fmt.Fprintf(w, "%s %s\n", tui.SymbolWarning, f)
	}
}
