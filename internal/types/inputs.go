// Package types provides type definitions for structured data used throughout the brand compiler.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// DiscoveryInputs holds the raw answers to the discovery questions plus any
// draft overrides. Every field is optional except Description.
type DiscoveryInputs struct {
	Description     string   `json:"q1_core_what" validate:"required"`
	Audience        string   `json:"q2_audience_who,omitempty"`
	Moment          string   `json:"q2_moment,omitempty"`
	URLOrDesc       string   `json:"q3_url_or_desc,omitempty"`
	VibeAdjectives  []string `json:"q3_vibe_adjectives,omitempty"`
	ArchetypeHint   string   `json:"q4_archetype_primary,omitempty"`
	Mission         string   `json:"q6_mission_why,omitempty"`
	Differentiation string   `json:"q7_competitors_differentiation,omitempty"`
	BannedWords     []string `json:"q8_banned_words,omitempty"`
	VoiceTone       string   `json:"q9_voice_tone,omitempty"`
	VisualStyle     string   `json:"q10_visual_style,omitempty"`
	ProductType     string   `json:"product_type,omitempty"`
	PaletteID       string   `json:"palette_id,omitempty"`

	// Draft overrides supplied by an earlier editing pass.
	ProductName   string `json:"productName,omitempty"`
	Category      string `json:"category,omitempty"`
	AudienceDraft string `json:"audience,omitempty"`
	Pain          string `json:"pain,omitempty"`
	Outcome       string `json:"outcome,omitempty"`
	Proof         string `json:"proof,omitempty"`
	DiffDraft     string `json:"differentiation,omitempty"`
}

// stringFields maps input keys to their string destinations.
func (d *DiscoveryInputs) stringFields() map[string]*string {
	return map[string]*string{
		"q1_core_what":                   &d.Description,
		"q2_audience_who":                &d.Audience,
		"q2_moment":                      &d.Moment,
		"q3_url_or_desc":                 &d.URLOrDesc,
		"q4_archetype_primary":           &d.ArchetypeHint,
		"q6_mission_why":                 &d.Mission,
		"q7_competitors_differentiation": &d.Differentiation,
		"q9_voice_tone":                  &d.VoiceTone,
		"q10_visual_style":               &d.VisualStyle,
		"product_type":                   &d.ProductType,
		"palette_id":                     &d.PaletteID,
		"productName":                    &d.ProductName,
		"category":                       &d.Category,
		"audience":                       &d.AudienceDraft,
		"pain":                           &d.Pain,
		"outcome":                        &d.Outcome,
		"proof":                          &d.Proof,
		"differentiation":                &d.DiffDraft,
	}
}

// DiscoveryInputsFromMap builds inputs from a loosely typed mapping.
// Unknown keys are ignored, scalars of any type are stringified and list
// fields accept either an array or a comma separated string.
func DiscoveryInputsFromMap(raw map[string]any) DiscoveryInputs {
	var d DiscoveryInputs
	fields := d.stringFields()
	for key, value := range raw {
		if dst, ok := fields[key]; ok {
			*dst = collapse(stringify(value))
		}
	}
	d.VibeAdjectives = toStringList(raw["q3_vibe_adjectives"])
	d.BannedWords = toStringList(raw["q8_banned_words"])
	return d
}

// Normalized returns a copy with every answer on one line: whitespace runs,
// newlines included, become single spaces. Blank list items are dropped.
func (d DiscoveryInputs) Normalized() DiscoveryInputs {
	out := d
	for _, ptr := range out.stringFields() {
		*ptr = collapse(*ptr)
	}
	out.VibeAdjectives = toStringList(d.VibeAdjectives)
	out.BannedWords = toStringList(d.BannedWords)
	return out
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// UnmarshalJSON accepts the same loose shapes as DiscoveryInputsFromMap.
func (d *DiscoveryInputs) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("discovery inputs must be a JSON object: %w", err)
	}
	*d = DiscoveryInputsFromMap(raw)
	return nil
}

// Fields returns the inputs as a flat key/value map with empty values
// dropped. Lists are kept as string slices.
func (d DiscoveryInputs) Fields() map[string]any {
	out := make(map[string]any)
	for key, ptr := range d.stringFields() {
		if *ptr != "" {
			out[key] = *ptr
		}
	}
	if len(d.VibeAdjectives) > 0 {
		out["q3_vibe_adjectives"] = d.VibeAdjectives
	}
	if len(d.BannedWords) > 0 {
		out["q8_banned_words"] = d.BannedWords
	}
	return out
}

// Keys returns the populated field names in sorted order.
func (d DiscoveryInputs) Keys() []string {
	fields := d.Fields()
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case bool:
		return strconv.FormatBool(v)
	case []any:
		return strings.Join(toStringList(v), ", ")
	default:
		return fmt.Sprint(v)
	}
}

func toStringList(value any) []string {
	var items []string
	switch v := value.(type) {
	case nil:
		return nil
	case string:
		items = strings.Split(v, ",")
	case []string:
		items = v
	case []any:
		for _, item := range v {
			items = append(items, stringify(item))
		}
	default:
		items = []string{stringify(v)}
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		if trimmed := collapse(item); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
