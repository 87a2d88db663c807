// Package prompts holds the LLM prompt templates used by the copy generator.
// Templates live in embedded JSON files keyed by prompt name and use
// {{.Key}} placeholders.
package prompts

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"regexp"
	"sort"
	"strings"
	"sync"
)

//go:embed *.json
var promptFiles embed.FS

// CopyFile holds the copy-generation prompts.
const CopyFile = "copy.json"

// Keys in CopyFile.
const (
	CopySystem = "copy-system"
	CopyBrief  = "copy-brief"
)

var placeholderRe = regexp.MustCompile(`\{\{\.[A-Za-z][A-Za-z0-9]*\}\}`)

// all parses every embedded file on first use.
var all = sync.OnceValues(func() (map[string]map[string]string, error) {
	files, err := fs.Glob(promptFiles, "*.json")
	if err != nil {
		return nil, err
	}
	out := make(map[string]map[string]string, len(files))
	for _, name := range files {
		data, err := promptFiles.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("failed to read prompt file %s: %w", name, err)
		}
		var prompts map[string]string
		if err := json.Unmarshal(data, &prompts); err != nil {
			return nil, fmt.Errorf("failed to parse prompt file %s: %w", name, err)
		}
		out[name] = prompts
	}
	return out, nil
})

// Get retrieves a prompt by filename and key.
func Get(filename, key string) (string, error) {
	prompts, err := file(filename)
	if err != nil {
		return "", err
	}
	prompt, ok := prompts[key]
	if !ok {
		return "", fmt.Errorf("prompt key %q not found in %s", key, filename)
	}
	return prompt, nil
}

// Render loads a prompt and fills its placeholders. Any placeholder left
// without a value is an error, so a renamed key never reaches the model.
func Render(filename, key string, data map[string]string) (string, error) {
	template, err := Get(filename, key)
	if err != nil {
		return "", err
	}

	result := Format(template, data)
	if missing := Placeholders(result); len(missing) > 0 {
		return "", fmt.Errorf("prompt %s/%s has unresolved placeholders: %s", filename, key, strings.Join(missing, ", "))
	}
	return result, nil
}

// Format replaces {{.Key}} placeholders with values from data in one pass,
// so values that themselves contain placeholders are left alone.
func Format(template string, data map[string]string) string {
	return placeholderRe.ReplaceAllStringFunc(template, func(m string) string {
		if v, ok := data[m[3:len(m)-2]]; ok {
			return v
		}
		return m
	})
}

// Placeholders lists the distinct placeholder keys a template expects, sorted.
func Placeholders(template string) []string {
	seen := make(map[string]bool)
	var keys []string
	for _, m := range placeholderRe.FindAllString(template, -1) {
		key := m[3 : len(m)-2]
		if !seen[key] {
			seen[key] = true
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}

func file(filename string) (map[string]string, error) {
	files, err := all()
	if err != nil {
		return nil, err
	}
	prompts, ok := files[filename]
	if !ok {
		return nil, fmt.Errorf("prompt file %s not found", filename)
	}
	return prompts, nil
}
