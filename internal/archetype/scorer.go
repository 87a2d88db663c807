// Package archetype classifies discovery text into one of the twelve brand
// archetypes with weighted signal matching and a deterministic tie-break.
package archetype

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/jonathan/brand-compiler/internal/registry"
	"github.com/jonathan/brand-compiler/internal/types"
)

const (
	maxChosenHits   = 6
	maxTopHits      = 12
	maxAlternatives = 2
	hashPrefixLen   = 8
)

var (
	nonWordRe    = regexp.MustCompile(`[^a-z0-9\s-]+`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// Input is the text the scorer classifies.
type Input struct {
	Description string
	Moment      string
	URLOrDesc   string
	ProductType string
	// InputHash is a hex digest of the raw inputs used to break ties.
	InputHash string
}

// Combined joins the input fields the way the scorer sees them.
func (in Input) Combined() string {
	return strings.Join([]string{in.Description, in.Moment, in.URLOrDesc, in.ProductType}, " | ")
}

// NormalizeText lowercases text, replaces anything but letters, digits,
// whitespace and hyphens with spaces and collapses whitespace.
func NormalizeText(text string) string {
	out := nonWordRe.ReplaceAllString(strings.ToLower(text), " ")
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(out, " "))
}

// Scorer classifies text against the archetype registry.
type Scorer struct {
	reg *registry.Registry
}

// NewScorer creates a scorer over an immutable registry.
func NewScorer(reg *registry.Registry) *Scorer {
	return &Scorer{reg: reg}
}

// Score classifies the input. Weights are accumulated in hundredths so that
// ties are detected exactly.
func (s *Scorer) Score(in Input) types.ArchetypeScoreResult {
	text := NormalizeText(in.Combined())
	dampener := s.dampener(text)

	archetypes := s.reg.Archetypes()
	scores := make([]int64, len(archetypes))
	matches := make([]int, len(archetypes))
	hitsByArchetype := make([][]types.SignalHit, len(archetypes))

	for i, a := range archetypes {
		for _, sig := range a.Signals {
			if !sig.Match(text) {
				continue
			}
			w := toCents(sig.Weight * dampener)
			scores[i] += w
			matches[i]++
			hitsByArchetype[i] = append(hitsByArchetype[i], types.SignalHit{
				Archetype: a.Name, Pattern: sig.Pattern, Weight: fromCents(w),
			})
		}
		for _, sig := range a.AntiSignals {
			if !sig.Match(text) {
				continue
			}
			w := toCents(sig.Weight)
			scores[i] += w
			matches[i]++
			hitsByArchetype[i] = append(hitsByArchetype[i], types.SignalHit{
				Archetype: a.Name, Pattern: sig.Pattern, Weight: fromCents(w), Anti: true,
			})
		}
	}

	top := scores[0]
	for _, sc := range scores[1:] {
		top = max(top, sc)
	}
	var tied []int
	for i, sc := range scores {
		if sc == top {
			tied = append(tied, i)
		}
	}

	var chosen int
	tieBreak := false
	switch {
	case top == 0:
		chosen = s.indexOf(archetypes, s.reg.FallbackArchetype())
	case len(tied) == 1:
		chosen = tied[0]
	default:
		chosen = tied[PickIndex(in.InputHash, len(tied))]
		tieBreak = true
	}

	result := types.ArchetypeScoreResult{
		Archetype:    archetypes[chosen].Name,
		Score:        fromCents(scores[chosen]),
		Scores:       make(map[string]float64, len(archetypes)),
		Dampener:     dampener,
		TieBreakUsed: tieBreak,
		ChosenHits:   capHits(sortHits(hitsByArchetype[chosen]), maxChosenHits),
	}
	var all []types.SignalHit
	for i, a := range archetypes {
		result.Scores[a.Name] = fromCents(scores[i])
		all = append(all, hitsByArchetype[i]...)
	}
	result.TopHits = capHits(sortHits(all), maxTopHits)
	result.Alternatives = alternatives(archetypes, scores, matches, chosen)
	return result
}

// dampener is the smallest multiplier among matching fluff patterns.
func (s *Scorer) dampener(text string) float64 {
	mult := 1.0
	for _, d := range s.reg.Dampeners() {
		if d.Match(text) && d.Multiplier < mult {
			mult = d.Multiplier
		}
	}
	return mult
}

func (s *Scorer) indexOf(archetypes []registry.Archetype, name string) int {
	for i, a := range archetypes {
		if a.Name == name {
			return i
		}
	}
	return 0
}

// PickIndex maps a hex digest to an index in [0, n). The first eight hex
// characters are read as an integer; an unparsable prefix maps to 0.
func PickIndex(hash string, n int) int {
	if n <= 1 {
		return 0
	}
	prefix := hash
	if len(prefix) > hashPrefixLen {
		prefix = prefix[:hashPrefixLen]
	}
	v, err := strconv.ParseUint(prefix, 16, 64)
	if err != nil {
		return 0
	}
	return int(v % uint64(n))
}

func alternatives(archetypes []registry.Archetype, scores []int64, matches []int, chosen int) []types.ArchetypeAlternative {
	idx := make([]int, 0, len(archetypes))
	for i := range archetypes {
		if i != chosen {
			idx = append(idx, i)
		}
	}
	sort.SliceStable(idx, func(a, b int) bool { return scores[idx[a]] > scores[idx[b]] })

	out := make([]types.ArchetypeAlternative, 0, maxAlternatives)
	for _, i := range idx[:min(maxAlternatives, len(idx))] {
		out = append(out, types.ArchetypeAlternative{
			Archetype:  archetypes[i].Name,
			Score:      math.Round(fromCents(scores[i])*10) / 10,
			MatchCount: matches[i],
		})
	}
	return out
}

func sortHits(hits []types.SignalHit) []types.SignalHit {
	out := append([]types.SignalHit(nil), hits...)
	sort.SliceStable(out, func(i, j int) bool { return math.Abs(out[i].Weight) > math.Abs(out[j].Weight) })
	return out
}

func capHits(hits []types.SignalHit, n int) []types.SignalHit {
	if len(hits) > n {
		return hits[:n]
	}
	if hits == nil {
		return []types.SignalHit{}
	}
	return hits
}

func toCents(w float64) int64 {
	return int64(math.Round(w * 100))
}

func fromCents(c int64) float64 {
	return float64(c) / 100
}
