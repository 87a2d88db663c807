// Package repair fixes grammar and leakage problems in derived brand fields.
package repair

import (
	"regexp"
	"strings"

	"github.com/jonathan/brand-compiler/internal/naming"
	"github.com/jonathan/brand-compiler/internal/normalize"
	"github.com/jonathan/brand-compiler/internal/types"
)

// Fallbacks substituted when a field fails a grammar or leakage check.
const (
	LeakedPainFallback     = "chaotic workflows"
	SelfDefinitionFallback = "fragmented tools"
	DefaultCategory        = "Product"

	maxCategoryWords = 6
	maxProofWords    = 16
	minLeakNameLen   = 3
)

var (
	categoryTailRe   = regexp.MustCompile(`(?i)(?:^|\s+)\b(?:called|named|titled|calls|that|which|where|who)\b.*$`)
	leadingArticleRe = regexp.MustCompile(`(?i)^\s*(?:an?|the)\s+`)
	selfDefinitionRe = regexp.MustCompile(`(?i)^\s*(?:it\s+|this\s+)?(?:is|are)\s+(?:an?|the)\b`)
	leadingToRe      = regexp.MustCompile(`(?i)^to(?:\s+|$)`)
	leadingItsRe     = regexp.MustCompile(`(?i)^it['’]s\s+`)
	consonantYRe     = regexp.MustCompile(`[^aeiou]y$`)
	sibilantEndingRe = regexp.MustCompile(`(?:sh|ch|x|z)$`)

	// participles read as passive proof ("Trusted by ...") and take "It is".
	participles = map[string]bool{
		"trusted": true, "used": true, "built": true, "loved": true, "designed": true,
		"made": true, "backed": true, "powered": true, "tested": true, "proven": true,
	}
)

// SanitizeCategory strips naming phrases, relative clauses and leading
// articles, then capitalizes the first letter.
func SanitizeCategory(category string) string {
	out := categoryTailRe.ReplaceAllString(strings.TrimSpace(category), "")
	out = leadingArticleRe.ReplaceAllString(out, "")
	out = normalize.LimitWords(normalize.TrimTrailingPunct(out), maxCategoryWords)
	if !normalize.HasWord(out) {
		return DefaultCategory
	}
	return normalize.Capitalize(out)
}

// SanitizeProof makes the proof a sentence starting with "It " and ending
// with a period. Empty proof stays empty.
func SanitizeProof(proof string) string {
	out := normalize.TrimTrailingPunct(normalize.CollapseWhitespace(proof))
	if !normalize.HasWord(out) {
		return ""
	}

	if loc := leadingItsRe.FindStringIndex(out); loc != nil {
		out = "It is " + out[loc[1]:]
	} else if strings.HasPrefix(strings.ToLower(out), "it ") {
		out = "It " + out[3:]
	} else {
		first := strings.Fields(out)[0]
		if participles[strings.ToLower(first)] {
			out = "It is " + normalize.LowerFirst(out)
		} else {
			out = "It " + normalize.LowerFirst(out)
		}
	}
	return normalize.LimitWords(out, maxProofWords) + "."
}

// RepairPain keeps the product name out of the pain statement and rejects
// self-definitions such as "is a tool for branding".
func RepairPain(pain, productName string) string {
	name := strings.TrimSpace(productName)
	if name != types.PlaceholderName && len(name) > minLeakNameLen && !naming.IsGeneric(name) &&
		strings.Contains(strings.ToLower(pain), strings.ToLower(name)) {
		return LeakedPainFallback
	}
	if selfDefinitionRe.MatchString(pain) {
		return SelfDefinitionFallback
	}
	return pain
}

// RepairOutcome drops a leading "to" and pads one-word outcomes so they
// read as a verb phrase. A bare "to" repairs to the empty string.
func RepairOutcome(outcome string) string {
	out := normalize.TrimTrailingPunct(normalize.CollapseWhitespace(outcome))
	out = normalize.LowerFirst(leadingToRe.ReplaceAllString(out, ""))
	if out == "" {
		return ""
	}
	if len(strings.Fields(out)) == 1 {
		out += " consistently"
	}
	return out
}

// EnsureThirdPerson conjugates the leading verb of a base-form phrase.
func EnsureThirdPerson(phrase string) string {
	words := strings.Fields(phrase)
	if len(words) == 0 {
		return ""
	}

	verb := words[0]
	lower := strings.ToLower(verb)
	switch {
	case strings.HasSuffix(lower, "s"):
	case consonantYRe.MatchString(lower):
		verb = verb[:len(verb)-1] + "ies"
	case sibilantEndingRe.MatchString(lower):
		verb += "es"
	default:
		verb += "s"
	}
	words[0] = verb
	return strings.Join(words, " ")
}

// WithArticle prefixes a noun phrase with "a" or "an".
func WithArticle(noun string) string {
	if noun == "" {
		return ""
	}
	if strings.ContainsRune("aeiouAEIOU", rune(noun[0])) {
		return "an " + noun
	}
	return "a " + noun
}
