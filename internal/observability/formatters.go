// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/brand-compiler/internal/compiler"
	"github.com/jonathan/brand-compiler/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stderr; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n-3]) + "..."
}

// PrintCompileSummary outputs the headline fields of a compilation.
func (p *Printer) PrintCompileSummary(result *compiler.Result) {
	if result == nil {
		return
	}
	spec := result.Spec

	var sb strings.Builder
	fmt.Fprintf(&sb, "Product:   %s\n", spec.ProductName)
	fmt.Fprintf(&sb, "Category:  %s\n", spec.Category)
	fmt.Fprintf(&sb, "Domain:    %s\n", result.Domain)
	archetype := spec.ArchetypePrimary
	if spec.ArchetypeSecondary != "" {
		archetype += " / " + spec.ArchetypeSecondary
	}
	fmt.Fprintf(&sb, "Archetype: %s\n", archetype)
	fmt.Fprintf(&sb, "Palette:   %s on %s, %s\n", spec.DesignTokens.Accent, spec.DesignTokens.Base, spec.DesignTokens.Font)
	fmt.Fprintf(&sb, "Spec hash: %s", result.SpecHash)

	p.printBox("COMPILED BRAND SPEC", sb.String())
	p.PrintNameInference(&result.NameInference)
	p.PrintArchetypeScore(result.ArchetypeScore)
	p.PrintWarnings(result.Warnings)
}

// PrintNameInference outputs the chosen name and the leading candidates.
func (p *Printer) PrintNameInference(inference *types.NameInferenceResult) {
	if inference == nil {
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Name:       %s\n", inference.Name)
	fmt.Fprintf(&sb, "Confidence: %s (%.2f)", inference.Confidence, inference.Score)

	if len(inference.Candidates) > 0 {
		sb.WriteString("\n\nCandidates:")
		count := min(len(inference.Candidates), maxItemsToShow)
		for _, c := range inference.Candidates[:count] {
			fmt.Fprintf(&sb, "\n  • %s %.2f", c.Name, c.Score)
			if len(c.Evidence) > 0 {
				fmt.Fprintf(&sb, " [%s]", strings.Join(c.Evidence, ", "))
			}
		}
		if len(inference.Candidates) > maxItemsToShow {
			fmt.Fprintf(&sb, "\n  ... and %d more", len(inference.Candidates)-maxItemsToShow)
		}
	}

	p.printBox("NAME INFERENCE", sb.String())
}

// PrintArchetypeScore outputs the winning archetype, runner-ups and the
// signals that decided it. A nil score means an explicit hint was used.
func (p *Printer) PrintArchetypeScore(score *types.ArchetypeScoreResult) {
	if score == nil {
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Archetype: %s (%.2f)\n", score.Archetype, score.Score)
	fmt.Fprintf(&sb, "Dampener:  %.2f", score.Dampener)
	if score.TieBreakUsed {
		sb.WriteString("\nTie broken by input hash")
	}

	if len(score.ChosenHits) > 0 {
		sb.WriteString("\n\nSignals:")
		count := min(len(score.ChosenHits), maxItemsToShow)
		for _, hit := range score.ChosenHits[:count] {
			fmt.Fprintf(&sb, "\n  %+.1f %s", hit.Weight, hit.Pattern)
		}
	}

	if len(score.Alternatives) > 0 {
		sb.WriteString("\n\nRunner-ups:")
		count := min(len(score.Alternatives), 3)
		for _, alt := range score.Alternatives[:count] {
			fmt.Fprintf(&sb, "\n  • %s %.2f", alt.Archetype, alt.Score)
		}
	}

	p.printBox("ARCHETYPE SCORE", sb.String())
}

// PrintMixedStyle outputs the resolved tone constraints.
func (p *Printer) PrintMixedStyle(style *types.MixedStyleSpec) {
	if style == nil {
		return
	}
	c := style.Constraints

	var sb strings.Builder
	fmt.Fprintf(&sb, "Formality %.2f  Authority %.2f\n", style.Sliders.Formality, style.Sliders.Authority)
	fmt.Fprintf(&sb, "Sentences: %d to %d words\n", c.MinAvgWordsPerSentence, c.MaxWordsPerSentence)
	fmt.Fprintf(&sb, "Contractions %s, emojis %s, numbers %s\n", c.AllowContractions, c.AllowEmojis, c.AllowNumbers)

	bans := append([]string(nil), c.PunctuationBans...)
	sort.Strings(bans)
	fmt.Fprintf(&sb, "Banned punctuation: %s", strings.Join(bans, " "))

	p.printBox("MIXED STYLE", sb.String())
}

// PrintWarnings outputs compile warnings.
//
//nolint:errcheck // writing to stderr; errors are not recoverable
func (p *Printer) PrintWarnings(warnings []string) {
	if len(warnings) == 0 {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "✅ NO WARNINGS")
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d warnings:\n", len(warnings))
	for _, w := range warnings {
		fmt.Fprintf(&sb, "\n⚠ %s", w)
	}

	p.printBox("WARNINGS", sb.String())
}
