package compiler

import (
	"fmt"
	"strings"

	"github.com/jonathan/brand-compiler/internal/types"
)

var dashCleaner = strings.NewReplacer("—", ", ", "–", ", ", "--", ", ")

const maxPromptNeverWords = 3

// RenderMarkdown renders the spec as numbered markdown sections for humans
// and coding agents. Dashes are rewritten so banned punctuation never leaks
// through interpolated values.
func RenderMarkdown(spec types.BrandSpec, assets types.BrandAssets, style types.MixedStyleSpec, warnings []string) string {
	clean := dashCleaner.Replace
	var sb strings.Builder

	section := func(n int, title string) {
		if n > 1 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "## %d. %s\n\n", n, title)
	}
	list := func(items []string) {
		for _, item := range items {
			fmt.Fprintf(&sb, "- %s\n", clean(item))
		}
	}

	section(1, "Project Context")
	fmt.Fprintf(&sb, "Name: %s\n", clean(spec.ProductName))
	fmt.Fprintf(&sb, "Category: %s\n", clean(spec.Category))
	fmt.Fprintf(&sb, "Audience: %s\n", clean(spec.Audience))
	fmt.Fprintf(&sb, "Pain: %s\n", clean(spec.Pain))

	section(2, "Positioning")
	sb.WriteString(clean(assets.Positioning) + "\n")

	section(3, "Promise")
	sb.WriteString(clean(spec.Promise) + "\n")

	section(4, "Differentiation")
	fmt.Fprintf(&sb, "One thing we do: %s\n", clean(spec.Differentiation))

	section(5, "Voice Rules")
	sb.WriteString("Sounds like:\n")
	list(spec.Voice.SoundsLike)
	sb.WriteString("Never like:\n")
	list(spec.Voice.NeverLike)
	sb.WriteString("Never words:\n")
	list(spec.Voice.NeverWords)

	section(6, "Visual Direction")
	if len(spec.VisualDirection.VibeTags) > 0 {
		fmt.Fprintf(&sb, "Vibe: %s\n", clean(strings.Join(spec.VisualDirection.VibeTags, ", ")))
	}
	sb.WriteString("Do:\n")
	list(spec.VisualDirection.Do)
	sb.WriteString("Avoid:\n")
	list(spec.VisualDirection.Avoid)

	section(7, "Design Tokens")
	fmt.Fprintf(&sb, "Accent: %s\n", spec.DesignTokens.Accent)
	fmt.Fprintf(&sb, "Ink: %s\n", spec.DesignTokens.Ink)
	fmt.Fprintf(&sb, "Base: %s\n", spec.DesignTokens.Base)
	fmt.Fprintf(&sb, "Radius: %srem\n", formatRadius(spec.DesignTokens.Radius))
	fmt.Fprintf(&sb, "Font: %s\n", spec.DesignTokens.Font)

	section(8, "Paste Ready Brand Prompt")
	fmt.Fprintf(&sb, "**Instruction**: You are building the brand for %s.\n", clean(spec.ProductName))
	fmt.Fprintf(&sb, "- **Role**: %s\n", spec.ArchetypePrimary)
	fmt.Fprintf(&sb, "- **Tone**: %s\n", clean(strings.Join(spec.Voice.SoundsLike, ", ")))
	never := spec.Voice.NeverWords
	if len(never) > maxPromptNeverWords {
		never = never[:maxPromptNeverWords]
	}
	if len(never) > 0 {
		fmt.Fprintf(&sb, "- **Constraint**: Never use words like %s.\n", clean(strings.Join(never, ", ")))
	}
	fmt.Fprintf(&sb, "- **UI**: Use %s font and %srem border radius.\n", spec.DesignTokens.Font, formatRadius(spec.DesignTokens.Radius))
	for _, inst := range style.Instructions {
		fmt.Fprintf(&sb, "- **Style**: %s\n", inst)
	}

	section(9, "Warnings")
	if len(warnings) == 0 {
		sb.WriteString("None.\n")
	} else {
		list(warnings)
	}
	return sb.String()
}
