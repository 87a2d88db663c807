package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/brand-compiler/internal/archetype"
	"github.com/jonathan/brand-compiler/internal/compiler"
	"github.com/jonathan/brand-compiler/internal/types"
)

var scoreArchetypeCmd = &cobra.Command{
	Use:   "score-archetype [description]",
	Short: "Classify text into a brand archetype",
	Long: "Score archetype signals against the description and print the winner, " +
		"per-archetype scores, matched signals and runner-ups.",
	Args: cobra.MaximumNArgs(1),
	RunE: runScoreArchetype,
}

var (
	scoreInput       string
	scoreProductType string
)

func init() {
	scoreArchetypeCmd.Flags().StringVarP(&scoreInput, "in", "i", "", "Read the text fields from a discovery answers file")
	scoreArchetypeCmd.Flags().StringVar(&scoreProductType, "product-type", "", "Product type hint")

	rootCmd.AddCommand(scoreArchetypeCmd)
}

func runScoreArchetype(cmd *cobra.Command, args []string) error {
	var in types.DiscoveryInputs
	switch {
	case scoreInput != "":
		var err error
		if in, err = readInputs(cmd, scoreInput); err != nil {
			return err
		}
	case len(args) == 1:
		in = types.DiscoveryInputs{Description: args[0], ProductType: scoreProductType}
	}
	if strings.TrimSpace(in.Description+in.Moment+in.URLOrDesc) == "" {
		return fmt.Errorf("pass a description argument or --in")
	}

	inputHash, err := compiler.InputHash(in)
	if err != nil {
		return err
	}

	result := archetype.NewScorer(current.reg).Score(archetype.Input{
		Description: in.Description,
		Moment:      in.Moment,
		URLOrDesc:   in.URLOrDesc,
		ProductType: in.ProductType,
		InputHash:   inputHash,
	})
	if current.printer != nil {
		current.printer.PrintArchetypeScore(&result)
	}
	return writeJSON(cmd, "", result)
}
