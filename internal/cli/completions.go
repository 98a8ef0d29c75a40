package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/vvka-141/imdix/internal/copier"
	"github.com/vvka-141/imdix/pkg/imdix"
)

var (
	modeNames     = []string{"imdi", "opex"}
	variantNames  = []string{imdix.VariantIMDI.Name, imdix.VariantELAR.Name}
	copyToolNames = []string{copier.ToolAuto, copier.ToolRsync, copier.ToolCp}
)

// completeFrom completes a flag value from a fixed list.
func completeFrom(values []string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		var matches []string
		for _, v := range values {
			if strings.HasPrefix(v, toComplete) {
				matches = append(matches, v)
			}
		}
		return matches, cobra.ShellCompDirectiveNoFileComp
	}
}

func registerVariantCompletion(cmd *cobra.Command) {
	_ = cmd.RegisterFlagCompletionFunc("variant", completeFrom(variantNames))
}

func registerExportCompletions(cmd *cobra.Command) {
	registerVariantCompletion(cmd)
	_ = cmd.RegisterFlagCompletionFunc("mode", completeFrom(modeNames))
	_ = cmd.RegisterFlagCompletionFunc("copy-tool", completeFrom(copyToolNames))
	_ = cmd.MarkFlagDirname("output")
	_ = cmd.MarkFlagDirname("debug-dir")
	_ = cmd.MarkFlagDirname("schema-dir")
}
