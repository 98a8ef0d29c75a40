package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/vvka-141/imdix/internal/config"
	"github.com/vvka-141/imdix/internal/files/filesystem"
	"github.com/vvka-141/imdix/internal/logging"
	"github.com/vvka-141/imdix/internal/schema"
	"github.com/vvka-141/imdix/internal/tui"
	"github.com/vvka-141/imdix/pkg/imdix"
)

type validateFlagValues struct {
	variant   string
	schemaDir string
	xmllint   string
}

func newValidateCommand() *cobra.Command {
	flags := &validateFlagValues{}

	cmd := &cobra.Command{
		Use:   "validate <document>",
		Short: "Validate an IMDI or OPEX document against the archive schema",
		Long: `Validate checks an existing .imdi or .opex document against the archive schema
and prints every error with the lines around the first one. OPEX documents are
checked twice: the embedded IMDI against the IMDI schema and the envelope
against the OPEX schema. Line numbers always refer to the file as given.

Examples:
  imdix validate ./bundle/Edolo/ETR009.imdi --schema-dir ./schemas
  imdix validate ./bundle/Edolo/ETR009/ETR009.opex --variant elar`,
		Args: RequireDocumentPath,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, flags, args[0])
		},
	}

	bindValidateFlags(cmd, flags)
	registerVariantCompletion(cmd)
	return cmd
}

func bindValidateFlags(cmd *cobra.Command, flags *validateFlagValues) {
	f := cmd.Flags()
	f.StringVar(&flags.variant, "variant", "",
		"Archive schema variant: imdi|elar (default imdi)")
	f.StringVar(&flags.schemaDir, "schema-dir", "",
		"Folder containing the archive schemas (overrides $"+config.EnvSchemaDir+")")
	f.StringVar(&flags.xmllint, "xmllint", "",
		"Validate with this xmllint executable (overrides $"+config.EnvXMLLint+")")
}

func init() {
	rootCmd.AddCommand(newValidateCommand())
}

func runValidate(cmd *cobra.Command, flags *validateFlagValues, path string) error {
	verbose := getVerboseFlag(cmd)
	logger := logging.NewConsoleLogger(verbose)
	_ = godotenv.Load()

	settings := &config.ProjectConfig{}
	settings.ApplyEnv(os.LookupEnv)
	if cmd.Flags().Changed("schema-dir") {
		settings.SchemaDir = flags.schemaDir
	}
	if cmd.Flags().Changed("xmllint") {
		settings.XMLLint = flags.xmllint
	}

	variant, err := imdix.LookupVariant(flags.variant)
	if err != nil {
		return err
	}

	fsys := filesystem.NewOS(settings.SchemaDir)
	data, err := fsys.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	document := string(data)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	validator := schema.NewValidator(newSchemaBackend(settings, logger), fsys, variant)
	result, err := validator.Validate(ctx, document)
	if err != nil {
		return err
	}
	if !result.Valid {
		verr := schema.NewValidationError(filepath.Base(path), document, result)
		verr.Hint = ""
		return verr
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s %s is valid (%s schema)\n", tui.SymbolCheck, path, variant.Name)
	return nil
}
