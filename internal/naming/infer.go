package naming

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/jonathan/brand-compiler/internal/types"
)

var (
	explicitRe    = regexp.MustCompile(`(?i)\b(?:called|named|titled|brand is|product is|we call it|known as)\s+([A-Za-z][A-Za-z0-9\-.]*)`)
	parensRe      = regexp.MustCompile(`\(([A-Za-z0-9.\-\s]+)\)`)
	doubleQuoteRe = regexp.MustCompile(`"([\w\s\-.]+)"`)
	singleQuoteRe = regexp.MustCompile(`(?:^|[^\w])'([\w\s\-.]+)'`)
	domainRe      = regexp.MustCompile(`(?i)^([a-z0-9-]+)\.(?:com|app|io|ai|co|net|org)$`)
	usageVerbRe   = regexp.MustCompile(`(?i)\b(?:use|launch|open|download|visit|try)`)
)

const (
	leadingTokenPunct  = `("'“‘[`
	trailingTokenPunct = `).!?,;:'"”’]`
)

// Sources are the free-text fields scanned for naming signals, in order.
type Sources struct {
	Primary   string
	Secondary string
	Tertiary  string
	DraftName string
}

// Infer scores naming signals across the sources and returns the winner.
func Infer(src Sources) types.NameInferenceResult {
	board := newScoreboard()

	for _, text := range []string{src.Primary, src.Secondary, src.Tertiary} {
		if strings.TrimSpace(text) == "" {
			continue
		}
		scanExplicit(board, text)
		scanParens(board, text)
		scanQuotes(board, text)
		scanTokens(board, text)
	}

	if draft := strings.TrimSpace(src.DraftName); draft != "" && !IsGeneric(draft) {
		board.add(draft, draftPoints, sourceDraft, draft)
	}

	for _, c := range board.order {
		if personNames[strings.ToLower(c.name)] {
			c.score -= personPenalty
		}
	}

	return choose(board)
}

func scanExplicit(board *scoreboard, text string) {
	for _, m := range explicitRe.FindAllStringSubmatch(text, -1) {
		name := strings.TrimRight(m[1], ".,!?)")
		board.add(name, explicitPoints, sourceExplicit, m[0])
	}
}

func scanParens(board *scoreboard, text string) {
	for _, loc := range parensRe.FindAllStringSubmatchIndex(text, -1) {
		inner := strings.TrimSpace(text[loc[2]:loc[3]])
		if inner == "" || IsGeneric(inner) || len(strings.Fields(inner)) >= maxPhraseWords {
			continue
		}
		start := max(0, loc[0]-parensContext)
		end := min(len(text), loc[1]+parensContext)
		points := parensPoints
		if usageVerbRe.MatchString(text[start:end]) {
			points = parensNearVerbPoints
		}
		board.add(inner, points, sourceParens, text[loc[0]:loc[1]])
	}
}

func scanQuotes(board *scoreboard, text string) {
	var quoted []string
	for _, m := range doubleQuoteRe.FindAllStringSubmatch(text, -1) {
		quoted = append(quoted, m[1])
	}
	for _, m := range singleQuoteRe.FindAllStringSubmatch(text, -1) {
		quoted = append(quoted, m[1])
	}
	for _, q := range quoted {
		q = strings.TrimSpace(q)
		if len(q) <= 1 || len(strings.Fields(q)) >= maxPhraseWords || IsGeneric(q) {
			continue
		}
		board.add(q, quotePoints, sourceQuotes, q)
	}
}

func scanTokens(board *scoreboard, text string) {
	for _, tok := range strings.Fields(text) {
		clean := strings.TrimRight(strings.TrimLeft(tok, leadingTokenPunct), trailingTokenPunct)
		if clean == "" {
			continue
		}

		if m := domainRe.FindStringSubmatch(clean); m != nil {
			if !IsGeneric(m[1]) {
				board.add(m[1], domainPoints, sourceDomain, clean)
			}
			board.add(clean, domainPoints, sourceDomain, clean)
			continue
		}

		if !pascalRe.MatchString(clean) || IsGeneric(clean) || isWeak(clean) {
			continue
		}
		points := pascalPoints
		if startVerbs[strings.ToLower(clean)] {
			points = startVerbPoints
		}
		board.add(clean, points, sourcePascal, clean)
	}
}

func choose(board *scoreboard) types.NameInferenceResult {
	var best *candidate
	for _, c := range board.order {
		if best == nil || c.score > best.score || (c.score == best.score && c.priority > best.priority) {
			best = c
		}
	}

	result := types.NameInferenceResult{
		Name:       types.PlaceholderName,
		Confidence: types.ConfidenceLow,
		Candidates: ranked(board),
	}
	if best == nil {
		return result
	}
	result.Score = round2(best.score)
	result.Evidence = append([]string(nil), best.evidence...)

	if best.score < minScore || IsGeneric(best.name) {
		return result
	}

	result.Name = best.name
	switch {
	case best.score >= highConfidence:
		result.Confidence = types.ConfidenceHigh
	case best.score >= mediumConfidence:
		result.Confidence = types.ConfidenceMedium
	default:
		result.Confidence = types.ConfidenceLow
	}
	return result
}

func ranked(board *scoreboard) []types.NameCandidate {
	out := make([]types.NameCandidate, 0, len(board.order))
	for _, c := range board.order {
		out = append(out, types.NameCandidate{
			Name:     c.name,
			Score:    round2(c.score),
			Evidence: append([]string(nil), c.evidence...),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
