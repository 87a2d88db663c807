// Package normalize provides text clean-up helpers shared by the extraction
// and repair stages: hedge stripping, punctuation normalization and word limits.
package normalize

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Hedges are filler words removed from prose-style answers.
var Hedges = []string{
	"maybe", "probably", "basically", "kind of", "hopefully",
	"i guess", "unsure", "sort of", "essentially",
}

var (
	hedgePatterns = compileHedges(Hedges)

	whitespaceRe       = regexp.MustCompile(`\s+`)
	dashRe             = regexp.MustCompile(`\s*(?:—|--)\s*`)
	periodRunRe        = regexp.MustCompile(`\.{2,}`)
	bangRunRe          = regexp.MustCompile(`!{2,}`)
	questionRunRe      = regexp.MustCompile(`\?{2,}`)
	spaceBeforePunctRe = regexp.MustCompile(`\s+([.,!?])`)
)

func compileHedges(words []string) []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, 0, len(words))
	for _, w := range words {
		parts := strings.Fields(w)
		for i, p := range parts {
			parts[i] = regexp.QuoteMeta(p)
		}
		patterns = append(patterns, regexp.MustCompile(`(?i)\b`+strings.Join(parts, `\s+`)+`\b`))
	}
	return patterns
}

// RemoveHedges strips whole-word, case-insensitive filler words and collapses
// the whitespace left behind.
func RemoveHedges(text string) string {
	out := text
	for _, re := range hedgePatterns {
		out = re.ReplaceAllString(out, " ")
	}
	return CollapseWhitespace(out)
}

// NormalizePunctuation turns dashes into commas, collapses repeated marks of
// the same kind and removes whitespace before punctuation.
func NormalizePunctuation(text string) string {
	out := dashRe.ReplaceAllString(text, ", ")
	out = periodRunRe.ReplaceAllString(out, ".")
	out = bangRunRe.ReplaceAllString(out, "!")
	out = questionRunRe.ReplaceAllString(out, "?")
	out = spaceBeforePunctRe.ReplaceAllString(out, "$1")
	return CollapseWhitespace(out)
}

// Clean applies punctuation normalization followed by hedge removal.
func Clean(text string) string {
	return RemoveHedges(NormalizePunctuation(text))
}

// CollapseWhitespace replaces whitespace runs with a single space and trims.
func CollapseWhitespace(text string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))
}

// WordCount counts whitespace separated words.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// HasWord reports whether text contains at least one letter or digit.
func HasWord(text string) bool {
	return strings.IndexFunc(text, func(r rune) bool {
		return unicode.IsLetter(r) || unicode.IsDigit(r)
	}) >= 0
}

// LimitWords truncates text to at most n words.
func LimitWords(text string, n int) string {
	words := strings.Fields(text)
	if n <= 0 {
		return ""
	}
	if len(words) > n {
		words = words[:n]
	}
	return strings.Join(words, " ")
}

// TrimTrailingPunct removes sentence punctuation from the end of text.
func TrimTrailingPunct(text string) string {
	return strings.TrimRight(strings.TrimSpace(text), ".,;:!?")
}

// Capitalize upper-cases the first letter.
func Capitalize(text string) string {
	r, size := utf8.DecodeRuneInString(text)
	if r == utf8.RuneError {
		return text
	}
	return string(unicode.ToUpper(r)) + text[size:]
}

// LowerFirst lower-cases the first letter unless the first word looks like an
// acronym (second letter also upper case).
func LowerFirst(text string) string {
	r, size := utf8.DecodeRuneInString(text)
	if r == utf8.RuneError {
		return text
	}
	if next, _ := utf8.DecodeRuneInString(text[size:]); unicode.IsUpper(next) {
		return text
	}
	return string(unicode.ToLower(r)) + text[size:]
}

// Sentence capitalizes text and guarantees a single trailing period.
func Sentence(text string) string {
	text = TrimTrailingPunct(text)
	if text == "" {
		return ""
	}
	return Capitalize(text) + "."
}

// DedupeFold drops blank entries and case-insensitive duplicates, keeping the
// first seen spelling and order.
func DedupeFold(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		key := strings.ToLower(item)
		if item == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, item)
	}
	return out
}

// TitleWord capitalizes the first letter and lower-cases the rest.
func TitleWord(word string) string {
	return Capitalize(strings.ToLower(word))
}
