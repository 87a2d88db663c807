package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

const tempoJSON = `{
  "q1_core_what": "Tempo is a habit tracker for busy parents",
  "q2_audience_who": "Busy parents juggling work and kids",
  "q8_banned_words": "guru, ninja"
}`

const tempoYAML = `q1_core_what: Tempo is a habit tracker for busy parents
q2_audience_who: Busy parents juggling work and kids
q8_banned_words:
  - guru
  - ninja
`

// isolate keeps the developer's environment out of a test run.
func isolate(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"GEMINI_API_KEY", "BRANDC_LLM_API_KEY",
		"DATABASE_URL", "BRANDC_DATABASE_URL",
		"BRANDC_LOG_LEVEL", "BRANDC_LOG_FORMAT", "BRANDC_REGISTRY_DIR",
	} {
		t.Setenv(key, "")
	}
}

// resetFlags returns every flag to its default so runs do not leak state.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

// execute runs the CLI in-process and returns stdout and stderr.
func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	isolate(t)
	resetFlags(rootCmd)
	current = nil

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(append([]string{"--log-level", "error"}, args...))
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}
