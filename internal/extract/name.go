// Package extract pulls concise structured fields out of free-text discovery
// answers using pattern and keyword heuristics.
package extract

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/jonathan/brand-compiler/internal/normalize"
	"github.com/jonathan/brand-compiler/internal/types"
)

const maxNameWords = 4

var (
	nameMarkerRe = regexp.MustCompile(`(?i)\b(?:called|named|titled)\s+`)
	quotedNameRe = regexp.MustCompile(`"([^"]+)"|“([^”]+)”|(?:^|[^\w])'([^']+)'`)

	// nameStopWords end a capitalized run after a naming marker.
	nameStopWords = map[string]bool{
		"is": true, "for": true, "with": true, "and": true, "a": true, "an": true, "the": true,
	}
)

// ExtractName finds the product name in a description. Hedges are not
// stripped here since a name may legitimately contain one.
func ExtractName(raw string) string {
	clean := normalize.NormalizePunctuation(raw)
	if clean == "" {
		return types.PlaceholderName
	}

	if name := nameAfterMarker(clean); name != "" {
		return name
	}
	if name := firstQuoted(clean); name != "" {
		return name
	}

	words := strings.Fields(clean)
	first := strings.ToLower(normalize.TrimTrailingPunct(words[0]))
	if first == "a" || first == "an" {
		return types.PlaceholderName
	}
	if name := normalize.TrimTrailingPunct(normalize.LimitWords(clean, maxNameWords)); name != "" {
		return name
	}
	return types.PlaceholderName
}

// nameAfterMarker captures up to four capitalized tokens following
// "called", "named" or "titled".
func nameAfterMarker(text string) string {
	loc := nameMarkerRe.FindStringIndex(text)
	if loc == nil {
		return ""
	}

	var run []string
	for _, tok := range strings.Fields(text[loc[1]:]) {
		if len(run) == maxNameWords {
			break
		}
		r, _ := utf8.DecodeRuneInString(tok)
		if !unicode.IsUpper(r) && !unicode.IsDigit(r) {
			break
		}
		word := strings.TrimRight(tok, `.,;:!?)"'`)
		if word == "" || nameStopWords[strings.ToLower(word)] {
			break
		}
		run = append(run, word)
		if word != tok {
			break
		}
	}
	return strings.Join(run, " ")
}

func firstQuoted(text string) string {
	m := quotedNameRe.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	for _, group := range m[1:] {
		if s := strings.TrimSpace(group); s != "" {
			return s
		}
	}
	return ""
}
