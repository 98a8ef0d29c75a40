package cli

import (
	"fmt"
	"io"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// Build-time variables set via ldflags
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		printVersionInfo(cmd.OutOrStdout(), cmd.ErrOrStderr())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

// resolveVersionInfo prefers ldflags values and falls back to the module
// build info for `go install` builds.
func resolveVersionInfo() (string, string, string) {
	v, c, d := version, commit, date
	if v != "dev" {
		return v, c, d
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return v, c, d
	}
	if mv := info.Main.Version; mv != "" && mv != "(devel)" {
		v = mv
	}
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			if c == "unknown" && len(s.Value) >= 7 {
				c = s.Value[:7]
			}
		case "vcs.time":
			if d == "unknown" {
				d = s.Value
			}
		}
	}
	return v, c, d
}

// printVersionInfo writes the version line to out, for pipeline
// consumption, and the banner to banner.
func printVersionInfo(out, banner io.Writer) {
	fmt.Fprintln(out, versionLine())
	fmt.Fprintln(banner, "IMDI archive bundle exporter")
	fmt.Fprintln(banner)
	fmt.Fprintln(banner, "Repository: https://github.com/vvka-141/imdix")
}

func versionLine() string {
	v, c, d := resolveVersionInfo()
	return fmt.Sprintf("imdix %s (%s, %s) %s/%s", v, c, d, runtime.GOOS, runtime.GOARCH)
}
