package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

// newTestExportCommand builds an export command with parsed flags.
func newTestExportCommand(t *testing.T, args ...string) (*cobra.Command, *exportFlagValues, *bytes.Buffer) {
	t.Helper()
	flags := &exportFlagValues{}
	cmd := &cobra.Command{Use: "export"}
	cmd.Flags().BoolP("verbose", "v", false, "")
	bindExportFlags(cmd, flags)
	require.NoError(t, cmd.ParseFlags(args))

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	return cmd, flags, &out
}

// writeFiles creates files under root from a path → content map.
func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

// isolateEnv clears the variables the commands read so the developer's
// environment does not leak into tests.
func isolateEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}
