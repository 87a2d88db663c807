// Package main provides the brandc command line interface for compiling
// discovery answers into brand specifications.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	cfgFile     string
	verbose     bool
	logLevel    string
	logFormat   string
	registryDir string
)

var rootCmd = &cobra.Command{
	Use:   "brandc",
	Short: "Deterministic brand specification compiler",
	Long: "brandc compiles answers to a short discovery questionnaire into a validated brand " +
		"spec, launch copy, design tokens and a paste-ready brand prompt. The same answers " +
		"always produce the same output.",
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "Path to a YAML config file")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Print summaries and debug logs to stderr")
	flags.StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flags.StringVar(&logFormat, "log-format", "", "Log format (json, console)")
	flags.StringVar(&registryDir, "registry-dir", "", "Directory of registry YAML files replacing the built-in data")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
