package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/brand-compiler/internal/brandprompt"
)

var brandPromptCmd = &cobra.Command{
	Use:   "brand-prompt",
	Short: "Print the paste-ready brand prompt",
	Long: "Compile discovery answers and print a prompt that briefs a site builder or model " +
		"on the brand: non-negotiables, identity, copy patterns, voice rules and design tokens.",
	Args: cobra.NoArgs,
	RunE: runBrandPrompt,
}

var (
	promptInput  string
	promptOutput string
	promptJSON   bool
)

func init() {
	brandPromptCmd.Flags().StringVarP(&promptInput, "in", "i", "", "Path to discovery answers (JSON or YAML, - for stdin)")
	brandPromptCmd.Flags().StringVarP(&promptOutput, "out", "o", "", "Output file (default stdout)")
	brandPromptCmd.Flags().BoolVar(&promptJSON, "json", false, "Emit {specHash, checksum, prompt} as JSON")
	_ = brandPromptCmd.MarkFlagRequired("in")

	rootCmd.AddCommand(brandPromptCmd)
}

func runBrandPrompt(cmd *cobra.Command, _ []string) error {
	in, err := readInputs(cmd, promptInput)
	if err != nil {
		return err
	}
	result, err := current.compiler.Compile(in)
	if err != nil {
		return fmt.Errorf("compilation failed: %w", err)
	}

	prompt := brandprompt.Build(result.Spec, result.Assets, result.Style)
	if promptJSON {
		return writeJSON(cmd, promptOutput, map[string]string{
			"specHash": result.SpecHash,
			"checksum": prompt.Checksum,
			"prompt":   prompt.Text,
		})
	}

	if current.printer != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "checksum %s\n", prompt.Checksum)
	}
	return writeText(cmd, promptOutput, prompt.Text+"\n")
}
