package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/jonathan/brand-compiler/internal/compiler"
	"github.com/jonathan/brand-compiler/internal/config"
	"github.com/jonathan/brand-compiler/internal/logging"
	"github.com/jonathan/brand-compiler/internal/observability"
	"github.com/jonathan/brand-compiler/internal/registry"
	"github.com/jonathan/brand-compiler/internal/types"
)

// app holds what every subcommand needs, built once per invocation.
type app struct {
	v        *viper.Viper
	cfg      *config.Config
	logger   *zap.Logger
	reg      *registry.Registry
	compiler *compiler.Compiler
	printer  *observability.Printer
}

var current *app

// setup layers configuration (defaults, file, env, flags), then builds the
// logger and registry.
func setup(cmd *cobra.Command, _ []string) error {
	v := config.New()
	if err := config.ReadFile(v, cfgFile); err != nil {
		return err
	}
	if err := bindFlags(v, cmd); err != nil {
		return err
	}

	cfg, err := config.Load(v)
	if err != nil {
		return err
	}

	logger, err := logging.New(logging.Verbose(cfg.Log, verbose))
	if err != nil {
		return err
	}

	reg, err := registry.Load(cfg.Registry.Dir)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}

	a := &app{
		v:        v,
		cfg:      cfg,
		logger:   logger,
		reg:      reg,
		compiler: compiler.New(reg, logger),
	}
	if verbose {
		a.printer = observability.NewPrinter(cmd.ErrOrStderr())
	}
	current = a
	return nil
}

// flagKeys maps flags to configuration keys. Only flags set on the command
// line override the lower layers.
var flagKeys = map[string]string{
	"log-level":    "log.level",
	"log-format":   "log.format",
	"registry-dir": "registry.dir",
	"port":         "server.port",
	"tier":         "llm.tier",
	"api-key":      "llm.api_key",
	"db-url":       "database.url",
}

func bindFlags(v *viper.Viper, cmd *cobra.Command) error {
	for name, key := range flagKeys {
		f := cmd.Flags().Lookup(name)
		if f == nil || !f.Changed {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("failed to bind --%s: %w", name, err)
		}
	}
	return nil
}

// readInputs decodes discovery answers from a JSON or YAML file, or from
// stdin when path is "-".
func readInputs(cmd *cobra.Command, path string) (types.DiscoveryInputs, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		if os.IsNotExist(err) {
			return types.DiscoveryInputs{}, fmt.Errorf("inputs file not found: %s", path)
		}
		return types.DiscoveryInputs{}, fmt.Errorf("failed to read inputs: %w", err)
	}
	return decodeInputs(path, data)
}

func decodeInputs(path string, data []byte) (types.DiscoveryInputs, error) {
	var in types.DiscoveryInputs
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var raw map[string]any
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return in, fmt.Errorf("failed to parse YAML inputs %s: %w", path, err)
		}
		return types.DiscoveryInputsFromMap(raw), nil
	default:
		if err := json.Unmarshal(bytes.TrimSpace(data), &in); err != nil {
			return in, fmt.Errorf("failed to parse JSON inputs %s: %w", path, err)
		}
		return in, nil
	}
}

// writeJSON writes v as indented JSON to path, or to the command's output
// when path is empty.
func writeJSON(cmd *cobra.Command, path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	return writeText(cmd, path, string(data)+"\n")
}

func writeText(cmd *cobra.Command, path, text string) error {
	if path == "" {
		_, err := io.WriteString(cmd.OutOrStdout(), text)
		return err
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// splitList splits a comma separated flag value, dropping blanks.
func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
