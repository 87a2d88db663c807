// Package naming infers the most likely product name from several discovery
// answers by scoring naming signals.
package naming

import (
	"math"
	"regexp"
	"strings"
)

var genericWords = toSet(
	"app", "application", "platform", "tool", "toolkit", "marketplace", "website", "site",
	"service", "software", "solution", "dashboard", "system", "engine", "compiler",
	"generator", "builder", "product", "project", "brand", "company", "startup", "demo",
	"prototype", "interface", "api", "wrapper", "cli", "saas", "devtool", "plugin",
	"extension", "dog", "walking", "trip", "planner", "health", "supplement", "crm",
	"analytics", "finance", "tracker",
)

var weakTerms = toSet(
	"this", "that", "it", "they", "we", "our", "my", "your", "the", "a", "an",
	"use", "open", "log", "sign", "start", "click", "tap", "go", "get", "try",
)

var startVerbs = toSet(
	"use", "open", "try", "get", "download", "launch", "visit", "click", "see", "watch",
	"read", "log", "sign", "start", "create", "build", "make", "this",
)

var personNames = toSet("john", "jane", "alice", "bob", "mike", "sarah")

var tokenSplitRe = regexp.MustCompile(`[^a-z0-9]+`)

func toSet(words ...string) map[string]bool {
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return m
}

// IsGeneric reports whether a candidate is a generic product noun or is
// made up only of generic and weak words.
func IsGeneric(candidate string) bool {
	lower := strings.ToLower(strings.TrimSpace(candidate))
	if genericWords[lower] {
		return true
	}
	tokens := tokenSplitRe.Split(lower, -1)
	meaningful := 0
	for _, tok := range tokens {
		if tok == "" {
			continue
		}
		meaningful++
		if !genericWords[tok] && !weakTerms[tok] {
			return false
		}
	}
	return meaningful > 0
}

// isWeak reports whether a candidate is a pronoun or filler verb.
func isWeak(candidate string) bool {
	return weakTerms[strings.ToLower(strings.TrimSpace(candidate))]
}

// Signal sources in descending tie-break priority.
const (
	sourceExplicit = "explicit"
	sourceParens   = "parens"
	sourceQuotes   = "quotes"
	sourceDomain   = "domain"
	sourcePascal   = "pascal"
	sourceDraft    = "draft"
)

var sourcePriority = map[string]int{
	sourceExplicit: 5,
	sourceParens:   4,
	sourceQuotes:   3,
	sourceDomain:   2,
}

// Scoring weights and thresholds.
const (
	explicitPoints       = 5.0
	parensPoints         = 3.0
	parensNearVerbPoints = 4.0
	quotePoints          = 3.0
	domainPoints         = 2.5
	pascalPoints         = 2.0
	startVerbPoints      = 0.5
	draftPoints          = 3.0
	repeatBonus          = 3.0
	personPenalty        = 4.0

	minScore         = 2.0
	highConfidence   = 5.0
	mediumConfidence = 2.5
	rejectBelow      = -50.0
	minNameLength    = 2
	maxNameLength    = 30
	parensContext    = 20
	maxPhraseWords   = 4
)

var pascalRe = regexp.MustCompile(`^[A-Z][a-zA-Z0-9]+$`)

// scoreCandidate computes the shape bonus added on top of a signal's points.
func scoreCandidate(name string) float64 {
	if len(name) < minNameLength || len(name) > maxNameLength {
		return math.Inf(-1)
	}
	if isWeak(name) || IsGeneric(name) {
		return math.Inf(-1)
	}
	bonus := 0.0
	if pascalRe.MatchString(name) {
		bonus += 2
	}
	if !strings.Contains(name, " ") {
		bonus++
	}
	return bonus
}

type candidate struct {
	name     string
	score    float64
	evidence []string
	priority int
}

// scoreboard accumulates candidates in first-seen order so that selection
// never depends on map iteration.
type scoreboard struct {
	byKey map[string]*candidate
	order []*candidate
}

func newScoreboard() *scoreboard {
	return &scoreboard{byKey: make(map[string]*candidate)}
}

func (b *scoreboard) add(raw string, points float64, source, evidence string) {
	name := strings.Join(strings.Fields(strings.Trim(strings.TrimSpace(raw), `"'“”‘’`)), " ")
	if name == "" {
		return
	}

	if existing, ok := b.byKey[name]; ok {
		existing.score += repeatBonus
		existing.evidence = append(existing.evidence, source+": "+evidence)
		if p := sourcePriority[source]; p > existing.priority {
			existing.priority = p
		}
		return
	}

	score := points + scoreCandidate(name)
	if score <= rejectBelow {
		return
	}
	c := &candidate{
		name:     name,
		score:    score,
		evidence: []string{source + ": " + evidence},
		priority: priorityOf(source),
	}
	b.byKey[name] = c
	b.order = append(b.order, c)
}

func priorityOf(source string) int {
	if p, ok := sourcePriority[source]; ok {
		return p
	}
	return 1
}
