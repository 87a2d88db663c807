package tone

import (
	"fmt"
	"math"
	"strings"

	"github.com/jonathan/brand-compiler/internal/types"
)

// Mix merges sheets using parallel weights into one constraint set.
func Mix(sheets []types.ToneStyleSheet, weights []float64) (types.MixedStyleSpec, error) {
	if len(sheets) == 0 {
		return types.MixedStyleSpec{}, &ContractError{Message: "at least one tone sheet is required"}
	}
	if len(sheets) != len(weights) {
		return types.MixedStyleSpec{}, &ContractError{
			Message: fmt.Sprintf("got %d tone sheets but %d weights", len(sheets), len(weights)),
		}
	}
	for i, w := range weights {
		if w < 0 || math.IsNaN(w) {
			return types.MixedStyleSpec{}, &ContractError{Message: fmt.Sprintf("weight %d must be non-negative", i)}
		}
	}

	collect := func(get func(types.ToneStyleSheet) string) []string {
		out := make([]string, len(sheets))
		for i, s := range sheets {
			out[i] = get(s)
		}
		return out
	}
	avg := func(get func(types.ToneStyleSheet) float64) float64 {
		return weightedMean(sheets, weights, get)
	}
	minInt := func(get func(types.ToneStyleSheet) int) int {
		m := get(sheets[0])
		for _, s := range sheets[1:] {
			m = min(m, get(s))
		}
		return m
	}

	constraints := types.StyleConstraints{
		MinAvgWordsPerSentence: int(math.Round(avg(func(s types.ToneStyleSheet) float64 { return float64(s.SentenceRules.AvgWords) }))),
		MaxWordsPerSentence:    minInt(func(s types.ToneStyleSheet) int { return s.SentenceRules.MaxWords }),
		MaxClausesPerSentence:  minInt(func(s types.ToneStyleSheet) int { return s.SentenceRules.MaxClauses }),
		MaxSentencesPara:       minInt(func(s types.ToneStyleSheet) int { return s.ParagraphRules.MaxSentences }),
		QuestionsPer100:        int(math.Round(avg(func(s types.ToneStyleSheet) float64 { return float64(s.Rhythm.QuestionsPer100) }))),
		ExclamationsPer100:     0, // "!" is a hard ban whatever the sheets allow
		PunctuationBans:        append([]string(nil), PunctuationBans...),
		AllowContractions:      Contractions.Pick(collect(func(s types.ToneStyleSheet) string { return s.MicroStyle.Contractions }), Strictest),
		AllowEmojis:            Emojis.Pick(collect(func(s types.ToneStyleSheet) string { return s.MicroStyle.Emojis }), Strictest),
		AllowNumbers:           Numbers.Pick(collect(func(s types.ToneStyleSheet) string { return s.MicroStyle.Numbers }), Strictest),
		AllowPassive:           Passive.Pick(collect(func(s types.ToneStyleSheet) string { return s.MicroStyle.PassiveVoice }), Strictest),
		Hedging:                Hedging.Pick(collect(func(s types.ToneStyleSheet) string { return s.Stance.Hedging }), Strictest),
		Evidence:               Evidence.Pick(collect(func(s types.ToneStyleSheet) string { return s.Stance.EvidenceRequirement }), MostDemanding),
		Claims:                 Claims.Pick(collect(func(s types.ToneStyleSheet) string { return s.Stance.Claims }), MostDemanding),
	}

	lists := Structure.WeightedVote(collect(func(s types.ToneStyleSheet) string { return s.ParagraphRules.PreferLists }), weights)
	headings := Structure.WeightedVote(collect(func(s types.ToneStyleSheet) string { return s.ParagraphRules.PreferHeadings }), weights)

	var banned, preferred []string
	for _, s := range sheets {
		banned = append(banned, s.Lexicon.BannedWords...)
		banned = append(banned, s.Lexicon.BannedPhrases...)
		preferred = append(preferred, s.Lexicon.PreferredVerbs...)
		preferred = append(preferred, s.Lexicon.PreferredPhrases...)
	}

	mixed := types.MixedStyleSpec{
		Sliders: types.ToneSliders{
			Formality: round2(avg(func(s types.ToneStyleSheet) float64 { return s.Sliders.Formality })),
			Authority: round2(avg(func(s types.ToneStyleSheet) float64 { return s.Sliders.Authority })),
		},
		Constraints: constraints,
		Structure: types.StylePreferences{
			Lists:          lists,
			Headings:       headings,
			PreferLists:    lists == "high",
			PreferHeadings: headings == "high",
		},
		BannedLexicon:    SanitizeLexicon(banned),
		PreferredLexicon: SanitizeLexicon(preferred),
	}
	mixed.Instructions = buildInstructions(mixed)
	return mixed, nil
}

// weightedMean falls back to a plain mean when every weight is zero.
func weightedMean(sheets []types.ToneStyleSheet, weights []float64, get func(types.ToneStyleSheet) float64) float64 {
	var sum, total float64
	for i, s := range sheets {
		sum += get(s) * weights[i]
		total += weights[i]
	}
	if total == 0 {
		sum = 0
		for _, s := range sheets {
			sum += get(s)
		}
		return sum / float64(len(sheets))
	}
	return sum / total
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func buildInstructions(m types.MixedStyleSpec) []string {
	c := m.Constraints
	out := []string{
		fmt.Sprintf("Sentences: max %d words (aim for %d). Max %d clauses.",
			c.MaxWordsPerSentence, c.MinAvgWordsPerSentence, c.MaxClausesPerSentence),
		fmt.Sprintf("Paragraphs: max %d sentences.", c.MaxSentencesPara),
	}

	var marks []string
	for _, p := range c.PunctuationBans {
		if p != "!" {
			marks = append(marks, p)
		}
	}
	out = append(out,
		"Never use punctuation: "+strings.Join(marks, " "),
		fmt.Sprintf("Rhythm: about %d questions per 100 sentences.", c.QuestionsPer100),
		"No exclamation marks.",
	)

	switch c.AllowContractions {
	case "no":
		out = append(out, "No contractions.")
	case "some":
		out = append(out, "Use contractions sparingly.")
	default:
		out = append(out, "Contractions are fine.")
	}
	switch c.AllowEmojis {
	case "never":
		out = append(out, "No emojis.")
	case "rare":
		out = append(out, "Emojis only when they add meaning.")
	}
	switch c.AllowPassive {
	case "avoid":
		out = append(out, "Active voice only.")
	case "rare":
		out = append(out, "Prefer active voice.")
	}
	if c.AllowNumbers == "avoid" {
		out = append(out, "Spell out numbers.")
	}

	switch m.Structure.Lists {
	case "high":
		out = append(out, "Use lists often.")
	case "low":
		out = append(out, "Avoid lists, use paragraphs.")
	}
	if m.Structure.PreferHeadings {
		out = append(out, "Use subheadings often.")
	}

	switch c.Hedging {
	case "none":
		out = append(out, "State facts decisively (no hedging).")
	case "low":
		out = append(out, "Hedge rarely.")
	}
	switch c.Evidence {
	case "required":
		out = append(out, "Support all claims with proof.")
	case "preferred":
		out = append(out, "Back claims with proof where you can.")
	}
	switch c.Claims {
	case "strong":
		out = append(out, "Make strong, direct claims.")
	case "measured":
		out = append(out, "Keep claims measured.")
	}

	if len(m.BannedLexicon) > 0 {
		out = append(out, "Banned words: "+strings.Join(m.BannedLexicon, ", "))
	}
	if len(m.PreferredLexicon) > 0 {
		out = append(out, "Preferred vocabulary: "+strings.Join(m.PreferredLexicon, ", "))
	}
	return out
}
