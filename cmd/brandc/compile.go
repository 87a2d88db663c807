package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var compileCmd = &cobra.Command{
	Use:   "compile",
	Short: "Compile discovery answers into a brand spec",
	Long: "Compile a JSON or YAML file of discovery answers into a brand spec, assets, " +
		"markdown and a stable spec hash.",
	Args: cobra.NoArgs,
	RunE: runCompile,
}

var (
	compileInput  string
	compileOutput string
	compileFormat string
)

func init() {
	compileCmd.Flags().StringVarP(&compileInput, "in", "i", "", "Path to discovery answers (JSON or YAML, - for stdin)")
	compileCmd.Flags().StringVarP(&compileOutput, "out", "o", "", "Output file (default stdout)")
	compileCmd.Flags().StringVarP(&compileFormat, "format", "f", "json", "Output format: json, spec, assets, markdown or hash")
	_ = compileCmd.MarkFlagRequired("in")

	rootCmd.AddCommand(compileCmd)
}

func runCompile(cmd *cobra.Command, _ []string) error {
	in, err := readInputs(cmd, compileInput)
	if err != nil {
		return err
	}

	result, err := current.compiler.Compile(in)
	if err != nil {
		return fmt.Errorf("compilation failed: %w", err)
	}
	if current.printer != nil {
		current.printer.PrintCompileSummary(result)
	}

	switch compileFormat {
	case "json":
		return writeJSON(cmd, compileOutput, result)
	case "spec":
		return writeJSON(cmd, compileOutput, result.Spec)
	case "assets":
		return writeJSON(cmd, compileOutput, result.Assets)
	case "markdown":
		return writeText(cmd, compileOutput, result.Markdown)
	case "hash":
		return writeText(cmd, compileOutput, result.SpecHash+"\n")
	default:
		return fmt.Errorf("unknown format %q (want json, spec, assets, markdown or hash)", compileFormat)
	}
}
