package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/brand-compiler/internal/schemas"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a JSON file against a built-in schema",
	Long:  "Validate a brand spec or brand assets JSON file against its built-in JSON Schema.",
	Args:  cobra.NoArgs,
	RunE:  runValidate,
}

var (
	validateSchema string
	validateJSON   string
)

func init() {
	validateCmd.Flags().StringVarP(&validateSchema, "schema", "s", "", "Schema: brand_spec or brand_assets (required)")
	validateCmd.Flags().StringVarP(&validateJSON, "json", "j", "", "Path to the JSON file to validate (required)")
	_ = validateCmd.MarkFlagRequired("schema")
	_ = validateCmd.MarkFlagRequired("json")

	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, _ []string) error {
	name, err := schemaName(validateSchema)
	if err != nil {
		return err
	}

	err = schemas.ValidateFile(name, validateJSON)
	var validationErr *schemas.ValidationError
	if errors.As(err, &validationErr) {
		fmt.Fprintf(cmd.ErrOrStderr(), "Validation failed: %s", validationErr.Error())
		return fmt.Errorf("%s has %d schema violations", validateJSON, len(validationErr.Errors))
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Validation passed: %s matches %s\n", validateJSON, name)
	return nil
}

// schemaName accepts brand_spec, brand-spec or the full schema file name.
func schemaName(value string) (string, error) {
	normalized := strings.ReplaceAll(strings.TrimSuffix(strings.TrimSpace(value), ".schema.json"), "-", "_")
	for _, name := range schemas.Names() {
		if strings.TrimSuffix(name, ".schema.json") == normalized {
			return name, nil
		}
	}
	return "", fmt.Errorf("unknown schema %q (want brand_spec or brand_assets)", value)
}
