package app

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

// testNow is Wednesday 2026-01-14 12:00 local time.
var testNow = time.Date(2026, 1, 14, 12, 0, 0, 0, time.Local)

// testEnv points the CLI at a fresh database under a temp dir and pins the
// clock. It returns the config file path.
func testEnv(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	cfg := "db_path: " + filepath.Join(dir, "study.db") + "\noutput:\n  color: false\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o644))

	prev := nowFunc
	nowFunc = func() time.Time { return testNow }
	t.Cleanup(func() { nowFunc = prev })
	return cfgPath
}

// runCLI executes the root command with args and returns what it printed on
// stdout. Flags are reset first so values never leak between invocations.
func runCLI(t *testing.T, cfgPath string, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	rootCmd.SetArgs(append([]string{"--config", cfgPath}, args...))

	var err error
	out := captureStdout(t, func() { err = rootCmd.Execute() })
	return out, err
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	r, w, err := os.Pipe()
	require.NoError(t, err)

	orig := os.Stdout
	os.Stdout = w
	done := make(chan string)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		done <- buf.String()
	}()

	defer func() {
		os.Stdout = orig
	}()
	fn()
	_ = w.Close()
	out := <-done
	_ = r.Close()
	return out
}
