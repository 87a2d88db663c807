package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var copyCmd = &cobra.Command{
	Use:   "copy",
	Short: "Generate launch copy with a language model",
	Long: "Compile discovery answers, then ask the configured model for launch copy in the " +
		"brand's voice. The answer is held to the same word limits as the compiled assets and " +
		"anything missing is filled from them. With a database configured, copy is cached by spec hash.",
	Args: cobra.NoArgs,
	RunE: runCopy,
}

var (
	copyInput   string
	copyOutput  string
	copyTier    string
	copyAPIKey  string
	copyDBURL   string
	copyRefresh bool
)

func init() {
	copyCmd.Flags().StringVarP(&copyInput, "in", "i", "", "Path to discovery answers (JSON or YAML, - for stdin)")
	copyCmd.Flags().StringVarP(&copyOutput, "out", "o", "", "Output file (default stdout)")
	copyCmd.Flags().StringVar(&copyTier, "tier", "", "Model tier: lite, standard or advanced")
	copyCmd.Flags().StringVar(&copyAPIKey, "api-key", "", "Gemini API key (overrides GEMINI_API_KEY env var)")
	copyCmd.Flags().StringVar(&copyDBURL, "db-url", "", "Database URL for the copy cache (overrides DATABASE_URL)")
	copyCmd.Flags().BoolVar(&copyRefresh, "refresh", false, "Ignore cached copy and generate again")
	_ = copyCmd.MarkFlagRequired("in")

	rootCmd.AddCommand(copyCmd)
}

func runCopy(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	in, err := readInputs(cmd, copyInput)
	if err != nil {
		return err
	}
	result, err := current.compiler.Compile(in)
	if err != nil {
		return fmt.Errorf("compilation failed: %w", err)
	}

	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
		if !copyRefresh {
			record, err := store.GetCopy(ctx, result.SpecHash)
			if err != nil {
				return err
			}
			if record != nil {
				current.logger.Info("using cached copy", zap.String("spec_hash", result.SpecHash))
				return writeJSON(cmd, copyOutput, record)
			}
		}
	}

	generator, client, err := newCopier(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	generated, err := generator.Generate(ctx, result.Spec, result.Style, result.Assets)
	if err != nil {
		return err
	}
	for _, line := range generated.Rejected {
		current.logger.Warn("dropped model line", zap.String("text", line))
	}

	if store != nil {
		if err := store.SaveCopy(ctx, result.SpecHash, generated.Assets, generated.Model); err != nil {
			return err
		}
	}
	return writeJSON(cmd, copyOutput, generated)
}
