package tone

import (
	"strings"

	"github.com/jonathan/brand-compiler/internal/types"
)

const minLexiconEntryLen = 3

var lexiconStopWords = map[string]bool{
	"and": true, "or": true, "the": true, "a": true, "an": true, "to": true, "of": true,
	"in": true, "on": true, "for": true, "with": true, "from": true, "is": true, "are": true,
	"was": true, "were": true, "be": true, "been": true, "being": true, "have": true,
	"has": true, "had": true, "do": true, "does": true, "did": true, "but": true, "at": true,
	"by": true, "up": true, "out": true, "off": true, "over": true, "under": true,
	"again": true, "further": true, "then": true, "once": true,
}

// PunctuationBans are always forbidden in generated copy.
var PunctuationBans = []string{"!", "—", "–", "--"}

// SanitizeLexicon lowercases entries and drops short words, stop words and
// duplicates while keeping first-seen order.
func SanitizeLexicon(entries []string) []string {
	seen := make(map[string]bool, len(entries))
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		e = strings.ToLower(strings.TrimSpace(e))
		if len(e) < minLexiconEntryLen || lexiconStopWords[e] || seen[e] {
			continue
		}
		seen[e] = true
		out = append(out, e)
	}
	return out
}

var legacyValues = map[string]map[string]string{
	"evidence":     {"low": "optional", "medium": "preferred", "high": "required"},
	"claims":       {"low": "measured", "weak": "measured", "medium": "confident", "high": "strong"},
	"contractions": {"never": "no", "rare": "some", "often": "yes", "always": "yes"},
	"emojis":       {"no": "never", "none": "never", "often": "frequent"},
	"passive":      {"never": "avoid", "no": "avoid", "yes": "allow"},
}

func migrate(kind, value string) string {
	v := strings.ToLower(strings.TrimSpace(value))
	if mapped, ok := legacyValues[kind][v]; ok {
		return mapped
	}
	return v
}

// NormalizeSheet maps legacy enum values to the current vocabulary and
// replaces missing lexicon lists with empty ones.
func NormalizeSheet(sheet types.ToneStyleSheet) types.ToneStyleSheet {
	out := sheet
	out.Stance.EvidenceRequirement = migrate("evidence", sheet.Stance.EvidenceRequirement)
	out.Stance.Claims = migrate("claims", sheet.Stance.Claims)
	out.Stance.Hedging = migrate("hedging", sheet.Stance.Hedging)
	out.MicroStyle.Contractions = migrate("contractions", sheet.MicroStyle.Contractions)
	out.MicroStyle.Emojis = migrate("emojis", sheet.MicroStyle.Emojis)
	out.MicroStyle.Numbers = migrate("numbers", sheet.MicroStyle.Numbers)
	out.MicroStyle.PassiveVoice = migrate("passive", sheet.MicroStyle.PassiveVoice)
	out.ParagraphRules.PreferLists = migrate("structure", sheet.ParagraphRules.PreferLists)
	out.ParagraphRules.PreferHeadings = migrate("structure", sheet.ParagraphRules.PreferHeadings)

	out.Lexicon = types.Lexicon{
		PreferredVerbs:   cloneOrEmpty(sheet.Lexicon.PreferredVerbs),
		PreferredPhrases: cloneOrEmpty(sheet.Lexicon.PreferredPhrases),
		BannedWords:      cloneOrEmpty(sheet.Lexicon.BannedWords),
		BannedPhrases:    cloneOrEmpty(sheet.Lexicon.BannedPhrases),
	}
	return out
}

func cloneOrEmpty(items []string) []string {
	return append([]string{}, items...)
}
