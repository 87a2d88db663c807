package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jonathan/brand-compiler/internal/tone"
	"github.com/jonathan/brand-compiler/internal/types"
)

var mixTonesCmd = &cobra.Command{
	Use:   "mix-tones",
	Short: "Blend tone sheets into one style spec",
	Long: "Blend registry tone sheets with the given weights. Numbers are averaged, " +
		"enumerations resolve toward the stricter value and lexicons are merged.",
	Args: cobra.NoArgs,
	RunE: runMixTones,
}

var (
	mixTones   string
	mixWeights string
	mixOutput  string
)

func init() {
	mixTonesCmd.Flags().StringVar(&mixTones, "tones", "", "Comma separated tone sheet ids, e.g. sage,creator (required)")
	mixTonesCmd.Flags().StringVar(&mixWeights, "weights", "", "Comma separated weights, one per tone (default equal)")
	mixTonesCmd.Flags().StringVarP(&mixOutput, "out", "o", "", "Output file (default stdout)")
	_ = mixTonesCmd.MarkFlagRequired("tones")

	rootCmd.AddCommand(mixTonesCmd)
}

func runMixTones(cmd *cobra.Command, _ []string) error {
	ids := splitList(mixTones)
	sheets := make([]types.ToneStyleSheet, 0, len(ids))
	for _, id := range ids {
		sheet, ok := current.reg.ToneSheet(id)
		if !ok {
			return fmt.Errorf("unknown tone sheet %q", id)
		}
		sheets = append(sheets, sheet)
	}

	weights, err := parseWeights(mixWeights, len(sheets))
	if err != nil {
		return err
	}

	mixed, err := tone.Mix(sheets, weights)
	if err != nil {
		return err
	}
	if current.printer != nil {
		current.printer.PrintMixedStyle(&mixed)
	}
	return writeJSON(cmd, mixOutput, mixed)
}

// parseWeights parses a comma separated weight list. An empty value gives
// every sheet the same weight; count mismatches are left to the mixer.
func parseWeights(value string, n int) ([]float64, error) {
	parts := splitList(value)
	if len(parts) == 0 {
		weights := make([]float64, n)
		for i := range weights {
			weights[i] = 1
		}
		return weights, nil
	}

	weights := make([]float64, 0, len(parts))
	for _, p := range parts {
		w, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid weight %q: %w", p, err)
		}
		weights = append(weights, w)
	}
	return weights, nil
}
