package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/brand-compiler/internal/naming"
)

var inferNameCmd = &cobra.Command{
	Use:   "infer-name [description]",
	Short: "Infer the product name from free text",
	Long: "Score naming signals (explicit phrases, parentheticals, quotes and capitalised tokens) " +
		"across the description, moment and URL text and print the winning name with its evidence.",
	Args: cobra.MaximumNArgs(1),
	RunE: runInferName,
}

var (
	inferInput  string
	inferMoment string
	inferURL    string
	inferDraft  string
)

func init() {
	inferNameCmd.Flags().StringVarP(&inferInput, "in", "i", "", "Read the text fields from a discovery answers file")
	inferNameCmd.Flags().StringVar(&inferMoment, "moment", "", "Secondary text (the moment the product is needed)")
	inferNameCmd.Flags().StringVar(&inferURL, "url", "", "Tertiary text (URL or short description)")
	inferNameCmd.Flags().StringVar(&inferDraft, "draft", "", "Draft name supplied earlier")

	rootCmd.AddCommand(inferNameCmd)
}

func runInferName(cmd *cobra.Command, args []string) error {
	src := naming.Sources{
		Secondary: inferMoment,
		Tertiary:  inferURL,
		DraftName: inferDraft,
	}
	if len(args) == 1 {
		src.Primary = args[0]
	}

	if inferInput != "" {
		in, err := readInputs(cmd, inferInput)
		if err != nil {
			return err
		}
		src = naming.Sources{
			Primary:   in.Description,
			Secondary: in.Moment,
			Tertiary:  in.URLOrDesc,
			DraftName: in.ProductName,
		}
	}
	if strings.TrimSpace(src.Primary+src.Secondary+src.Tertiary) == "" {
		return fmt.Errorf("pass a description argument or --in")
	}

	result := naming.Infer(src)
	if current.printer != nil {
		current.printer.PrintNameInference(&result)
	}
	return writeJSON(cmd, "", result)
}
