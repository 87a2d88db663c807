// Package brandprompt renders the paste-ready prompt that tells AI site
// builders how a compiled brand should sound and look.
package brandprompt

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/jonathan/brand-compiler/internal/types"
)

const (
	maxBannedLexicon    = 20
	maxPreferredLexicon = 15
	checksumLength      = 8
	casualFormality     = 0.5
)

// Prompt is a rendered brand prompt and the checksum of its text.
type Prompt struct {
	Text     string `json:"text"`
	Checksum string `json:"checksum"`
}

// Build renders the brand prompt. Output depends only on its arguments.
func Build(spec types.BrandSpec, assets types.BrandAssets, style types.MixedStyleSpec) Prompt {
	var sections []string
	add := func(lines ...string) { sections = append(sections, lines...) }

	add(
		"# BRAND PROMPT: "+spec.ProductName,
		"> Use this prompt to instruct AI builders on the exact voice and style for this product.",
	)

	add("## NON-NEGOTIABLES")
	rules := []string{
		`**No filler**: Do not use words like "seamless", "cutting-edge", "revolutionary", "robust", "delighted".`,
		"**Punctuation**: No exclamation marks. No em-dashes.",
		"**Length**: Keep copy short. If in doubt, cut it by half.",
	}
	if style.Constraints.AllowNumbers == "avoid" {
		rules = append(rules, "**Numbers**: Spell out all numbers (one, two, ten).")
	}
	if style.Constraints.AllowContractions == "no" {
		rules = append(rules, "**Contractions**: Do not use contractions (cannot, do not, will not).")
	}
	if len(spec.Voice.NeverWords) > 0 {
		rules = append(rules, "**Never say**: "+strings.Join(spec.Voice.NeverWords, ", ")+".")
	}
	for i, rule := range rules {
		add(fmt.Sprintf("%d. %s", i+1, rule))
	}

	add(
		"## BRAND IDENTITY",
		"- **Product**: "+spec.ProductName,
		"- **Category**: "+spec.Category,
		"- **Audience**: "+spec.Audience,
		"- **Outcome**: "+spec.Outcome,
		"- **Proof**: "+spec.Proof,
		"- **Archetype**: "+archetypeLine(spec),
		"- **Tones**: "+strings.Join(spec.Voice.SoundsLike, ", "),
	)

	add(
		"## COPY PATTERNS",
		"Use the following approved copy as your benchmark for voice, rhythm, and attitude. All new copy must match it.",
		"",
		"### One Liner",
		quote(assets.OneLiner),
		"",
		"### Positioning",
		quote(assets.Positioning),
		"",
		"### Headlines",
	)
	for _, h := range assets.HeroHeadlines {
		add("- " + quote(h))
	}

	add("## VOICE RULES")
	for _, inst := range style.Instructions {
		add("- " + inst)
	}
	if len(style.BannedLexicon) > 0 {
		add("", "### BANNED WORDS (STRICT)", "Do not use: "+joinFirst(style.BannedLexicon, maxBannedLexicon)+".")
	}
	if len(style.PreferredLexicon) > 0 {
		add("", "### PREFERRED VOCABULARY", "Try to use: "+joinFirst(style.PreferredLexicon, maxPreferredLexicon)+".")
	}

	add(
		"## UI TOKENS",
		"Use these tokens to style the UI:",
		CSSVariables(spec.DesignTokens),
		"- **Density**: "+density(style.Sliders.Formality)+" UI density.",
	)

	add(
		"## INSTRUCTION TO BUILDER",
		`When writing new copy or building UI components, check every sentence against the "NON-NEGOTIABLES" list above. If you find a banned word, rewrite the sentence immediately.`,
	)

	text := strings.Join(sections, "\n\n")
	return Prompt{Text: text, Checksum: Checksum(text)}
}

// CSSVariables renders design tokens as a fenced CSS :root block.
func CSSVariables(t types.DesignTokens) string {
	return strings.Join([]string{
		"```css",
		":root {",
		"  --primary: " + t.Accent + ";",
		"  --background: " + t.Base + ";",
		"  --foreground: " + t.Ink + ";",
		"  --radius: " + strconv.FormatFloat(t.Radius, 'f', -1, 64) + "rem;",
		"  --font-sans: '" + t.Font + "', sans-serif;",
		"}",
		"```",
	}, "\n")
}

// Checksum is the first eight hex digits of the SHA-256 of text.
func Checksum(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])[:checksumLength]
}

func archetypeLine(spec types.BrandSpec) string {
	if spec.ArchetypeSecondary != "" && spec.ArchetypeSecondary != spec.ArchetypePrimary {
		return spec.ArchetypePrimary + " with a touch of " + spec.ArchetypeSecondary
	}
	return spec.ArchetypePrimary
}

func density(formality float64) string {
	if formality < casualFormality {
		return "Casual and open"
	}
	return "Structured and professional"
}

func quote(s string) string {
	return `"` + s + `"`
}

func joinFirst(items []string, n int) string {
	if len(items) > n {
		items = items[:n]
	}
	return strings.Join(items, ", ")
}
