package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "imdix",
	Short: "Export language-documentation projects as IMDI archive bundles",
	Long: `imdix turns a language-documentation project folder into an archive bundle:
one IMDI (or OPEX-wrapped IMDI) document per session, a corpus document linking
them, pseudo-sessions for project documents and consent files, and copies of
the media files next to their metadata.

Every generated document is validated against the archive schema before it is
written. A document the schema rejects stops the export and the partial bundle
is removed.

Exit Codes:
  0  - Success
  1  - General error
  2  - CLI usage error (invalid arguments or flags)
  3  - Panic or unexpected system error
  10 - Invalid configuration (flags or imdix.yaml)
  11 - Project folder missing or unreadable
  12 - Schema validation failed
  13 - Output folder could not be prepared
  14 - Export cancelled
  15 - Schema file could not be loaded
  16 - Clearing the output folder was declined`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		printVersionInfo(os.Stdout, os.Stderr)
		return nil
	}
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output for all commands")
}

// getVerboseFlag safely retrieves the verbose flag value
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to get verbose flag: %v\n", err)
		return false
	}
	return verbose
}
