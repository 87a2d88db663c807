package extract

import (
	"regexp"
	"sort"
	"strings"

	"github.com/jonathan/brand-compiler/internal/normalize"
	"github.com/jonathan/brand-compiler/internal/types"
)

// toneKeywords are explicit voice words recognised in free text.
var toneKeywords = []string{
	"direct", "professional", "playful", "friendly", "warm", "bold",
	"technical", "minimal", "calm", "witty", "confident", "casual", "serious",
}

var toneKeywordRes = func() map[string]*regexp.Regexp {
	m := make(map[string]*regexp.Regexp, len(toneKeywords))
	for _, kw := range toneKeywords {
		m[kw] = regexp.MustCompile(`\b` + kw + `\b`)
	}
	return m
}()

// DefaultNeverLike is the fixed list of traits a brand should never sound like.
var DefaultNeverLike = []string{"Arrogant", "Confusing", "Generic"}

// BaseNeverWords seeds the banned vocabulary for every brand.
var BaseNeverWords = []string{"synergy", "10x", "disruptive", "AI-powered", "crush it", "hustle"}

// ExtractVoice builds the voice block. Explicit tone keywords come first in
// the order they appear, archetype adjectives follow.
func ExtractVoice(differentiation, voiceHint string, archetypeVoice []string) types.Voice {
	text := strings.ToLower(differentiation + " " + voiceHint)

	type found struct {
		word string
		pos  int
	}
	var hits []found
	for _, kw := range toneKeywords {
		if loc := toneKeywordRes[kw].FindStringIndex(text); loc != nil {
			hits = append(hits, found{normalize.TitleWord(kw), loc[0]})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].pos < hits[j].pos })

	sounds := make([]string, 0, len(hits)+len(archetypeVoice))
	for _, h := range hits {
		sounds = append(sounds, h.word)
	}
	sounds = append(sounds, archetypeVoice...)
	sounds = normalize.DedupeFold(sounds)
	if len(sounds) > types.SoundsLikeCount {
		sounds = sounds[:types.SoundsLikeCount]
	}

	return types.Voice{
		SoundsLike: sounds,
		NeverLike:  append([]string(nil), DefaultNeverLike...),
		NeverWords: append([]string(nil), BaseNeverWords...),
	}
}

// MergeNeverWords appends user banned words to the engine defaults,
// deduplicating case-insensitively and capping the list at eight.
func MergeNeverWords(base, userBanned []string) []string {
	merged := normalize.DedupeFold(append(append([]string(nil), base...), userBanned...))
	if len(merged) > types.MaxNeverWords {
		merged = merged[:types.MaxNeverWords]
	}
	return merged
}
