package extract

import (
	"regexp"
	"strings"

	"github.com/jonathan/brand-compiler/internal/normalize"
	"github.com/jonathan/brand-compiler/internal/types"
)

// Word ceilings for prose fields.
const (
	MaxAudienceWords        = 12
	MaxDifferentiationWords = 14
	MaxPainWords            = 14
	MaxOutcomeWords         = 9

	// DefaultPain is used when no pain signal is long enough to trust.
	DefaultPain = "manual work"

	minMomentLength = 8
	minPainLength   = 5
)

var clauseSplitRe = regexp.MustCompile(`[,.]`)

// ExtractAudience strips hedges and limits the audience to twelve words.
func ExtractAudience(raw string) string {
	return normalize.LimitWords(normalize.TrimTrailingPunct(normalize.Clean(raw)), MaxAudienceWords)
}

// ExtractDifferentiation strips hedges and limits the answer to fourteen words.
func ExtractDifferentiation(raw string) string {
	return normalize.LimitWords(normalize.TrimTrailingPunct(normalize.Clean(raw)), MaxDifferentiationWords)
}

// ExtractPain prefers a substantial moment answer, then the longest clause of
// the mission or description. Ties keep the earlier clause.
func ExtractPain(moment, why, description string) string {
	if m := strings.TrimSpace(moment); len(m) > minMomentLength {
		return normalize.LimitWords(normalize.TrimTrailingPunct(normalize.Clean(m)), MaxPainWords)
	}

	source := why
	if strings.TrimSpace(source) == "" {
		source = description
	}

	best := ""
	for _, clause := range clauseSplitRe.Split(normalize.Clean(source), -1) {
		clause = strings.TrimSpace(clause)
		if len(clause) > len(best) {
			best = clause
		}
	}
	if len(best) < minPainLength {
		return DefaultPain
	}
	return normalize.LimitWords(best, MaxPainWords)
}

type outcomeRule struct {
	keywords []string
	outcome  string
}

var outcomeRules = []outcomeRule{
	{[]string{"stuck", "block"}, "unblock delivery"},
	{[]string{"busy", "time", "slow"}, "save time"},
	{[]string{"messy", "chaos", "scattered"}, "bring order to chaos"},
	{[]string{"confus", "unclear"}, "get clarity fast"},
}

var domainOutcomes = map[types.Domain]string{
	types.DomainDevtools: "ship faster with fewer errors",
	types.DomainSaaS:     "scale operations without extra headcount",
	types.DomainConsumer: "feel better every day",
	types.DomainGeneral:  "get results without guesswork",
}

// GenericOutcome is the last-resort outcome when even the domain is unknown.
const GenericOutcome = "ship with clarity"

// MatchOutcome applies the keyword cascade to text. The boolean is false when
// no keyword fired.
func MatchOutcome(text string) (string, bool) {
	lower := strings.ToLower(text)
	for _, rule := range outcomeRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.outcome, true
			}
		}
	}
	return "", false
}

// DefaultOutcome returns the fallback outcome for a domain.
func DefaultOutcome(domain types.Domain) string {
	if outcome, ok := domainOutcomes[domain]; ok {
		return outcome
	}
	return GenericOutcome
}

// ExtractOutcome derives a base-form outcome from pain text, falling back to
// the domain default.
func ExtractOutcome(pain string, domain types.Domain) string {
	if outcome, ok := MatchOutcome(pain); ok {
		return outcome
	}
	return DefaultOutcome(domain)
}
