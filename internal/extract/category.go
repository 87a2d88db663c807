package extract

import (
	"regexp"
	"strings"

	"github.com/jonathan/brand-compiler/internal/normalize"
)

// DefaultCategory is used when no usable category can be extracted.
const DefaultCategory = "Product"

const maxCategoryWords = 5

var (
	namingPhraseRe = regexp.MustCompile(`(?i:\b(?:called|named|titled)\s+)(?:"[^"]*"|'[^']*'|[A-Z][\w\-.]*(?:\s+[A-Z][\w\-.]*)*|\S+)`)
	leadInRe       = regexp.MustCompile(`(?i)^\s*(?:this|it|we)\s+(?:is|are)\s+(?:an?|the)\s+`)
	isAMarkerRe    = regexp.MustCompile(`(?i)\b(?:is|are)\s+(?:an?|the)\s+`)
	leadArticleRe  = regexp.MustCompile(`(?i)^\s*(?:an?|the)\s+`)

	categoryStopWords = map[string]bool{
		"that": true, "for": true, "which": true, "with": true, "called": true,
		"by": true, "who": true, "where": true, "used": true, "to": true,
		"helps": true, "lets": true, "so": true, "named": true, "titled": true,
	}
	articles = map[string]bool{"a": true, "an": true, "the": true}
)

// ExtractCategory returns the noun phrase describing what the product is,
// keeping the original casing.
func ExtractCategory(raw string) string {
	text := normalize.NormalizePunctuation(raw)
	text = namingPhraseRe.ReplaceAllString(text, " ")
	text = leadInRe.ReplaceAllString(text, "")

	if loc := isAMarkerRe.FindStringIndex(text); loc != nil {
		text = text[loc[1]:]
	} else {
		text = leadArticleRe.ReplaceAllString(text, "")
	}

	category := truncateAtStopWord(text, categoryStopWords, maxCategoryWords)
	if !usableCategory(category) {
		return DefaultCategory
	}
	return category
}

// truncateAtStopWord keeps words up to the first stop word or hard
// punctuation mark, capped at limit words.
func truncateAtStopWord(text string, stops map[string]bool, limit int) string {
	var kept []string
	for _, tok := range strings.Fields(text) {
		if len(kept) == limit {
			break
		}
		word := normalize.TrimTrailingPunct(tok)
		if stops[strings.ToLower(word)] {
			break
		}
		if word != "" {
			kept = append(kept, word)
		}
		if word != tok {
			break
		}
	}
	return strings.Join(kept, " ")
}

func usableCategory(category string) bool {
	for _, w := range strings.Fields(category) {
		if !articles[strings.ToLower(w)] {
			return true
		}
	}
	return false
}
