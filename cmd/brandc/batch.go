package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/brand-compiler/internal/compiler"
)

var batchCmd = &cobra.Command{
	Use:   "batch <inputs>...",
	Short: "Compile many answer files in parallel",
	Long: "Compile every given answer file (or every .json/.yaml file in --dir) concurrently. " +
		"Each result is written to <out-dir>/<name>.brand.json and a summary line is printed per file.",
	RunE: runBatch,
}

var (
	batchDir         string
	batchOutDir      string
	batchConcurrency int
)

func init() {
	batchCmd.Flags().StringVar(&batchDir, "dir", "", "Directory of answer files to compile")
	batchCmd.Flags().StringVar(&batchOutDir, "out-dir", "", "Directory for compiled results (required)")
	batchCmd.Flags().IntVarP(&batchConcurrency, "concurrency", "c", 4, "Maximum parallel compilations")
	_ = batchCmd.MarkFlagRequired("out-dir")

	rootCmd.AddCommand(batchCmd)
}

// batchResult is one summary line of a batch run.
type batchResult struct {
	path     string
	name     string
	specHash string
	warnings int
}

func runBatch(cmd *cobra.Command, args []string) error {
	paths := append([]string(nil), args...)
	if batchDir != "" {
		found, err := inputFiles(batchDir)
		if err != nil {
			return err
		}
		paths = append(paths, found...)
	}
	if len(paths) == 0 {
		return fmt.Errorf("no input files: pass paths or --dir")
	}
	if batchConcurrency < 1 {
		return fmt.Errorf("--concurrency must be at least 1")
	}
	if err := checkOutputNames(paths); err != nil {
		return err
	}
	if err := os.MkdirAll(batchOutDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	results := make([]batchResult, len(paths))
	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(batchConcurrency)

	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			in, err := readInputs(cmd, path)
			if err != nil {
				return err
			}
			result, err := current.compiler.Compile(in)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}

			out := filepath.Join(batchOutDir, outputName(path))
			if err := writeJSON(cmd, out, result); err != nil {
				return err
			}
			current.logger.Debug("compiled", zap.String("input", path), zap.String("output", out))

			results[i] = summarize(path, result)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("batch failed: %w", err)
	}

	for _, r := range results {
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%d warnings\n", r.path, r.name, r.specHash, r.warnings)
	}
	return nil
}

func summarize(path string, result *compiler.Result) batchResult {
	return batchResult{
		path:     path,
		name:     result.Spec.ProductName,
		specHash: result.SpecHash,
		warnings: len(result.Warnings),
	}
}

// inputFiles lists the JSON and YAML files directly inside dir, sorted.
func inputFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".json", ".yaml", ".yml":
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// checkOutputNames rejects inputs that would write the same output file.
func checkOutputNames(paths []string) error {
	seen := make(map[string]string, len(paths))
	for _, path := range paths {
		name := outputName(path)
		if prev, ok := seen[name]; ok {
			return fmt.Errorf("%s and %s both write %s", prev, path, name)
		}
		seen[name] = path
	}
	return nil
}

// outputName maps answers/tempo.yaml to tempo.brand.json.
func outputName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".brand.json"
}
