// Package tone merges named tone style sheets into a single constraint set
// for copy generation.
package tone

import "strings"

// Direction selects which end of a scale wins a merge.
type Direction int

const (
	// Strictest picks the most restrictive recognised value.
	Strictest Direction = iota
	// MostDemanding picks the most demanding recognised value.
	MostDemanding
)

// Scale is an enumeration with a fixed total order. Levels run from most
// restrictive (or least demanding) to least restrictive (or most demanding).
type Scale struct {
	Name   string
	Levels []string
}

// Enumerations used by tone sheets.
var (
	Contractions = Scale{"contractions", []string{"no", "some", "yes"}}
	Emojis       = Scale{"emojis", []string{"never", "rare", "some", "frequent"}}
	Numbers      = Scale{"numbers", []string{"avoid", "use"}}
	Passive      = Scale{"passive_voice", []string{"avoid", "rare", "allow"}}
	Hedging      = Scale{"hedging", []string{"none", "low", "medium", "high"}}
	Evidence     = Scale{"evidence_requirement", []string{"optional", "preferred", "required"}}
	Claims       = Scale{"claims", []string{"measured", "confident", "strong"}}
	Structure    = Scale{"structure", []string{"low", "medium", "high"}}
)

// Index returns the position of value in the scale, or -1.
func (s Scale) Index(value string) int {
	v := strings.ToLower(strings.TrimSpace(value))
	for i, level := range s.Levels {
		if level == v {
			return i
		}
	}
	return -1
}

// Pick resolves values to a single level. Unrecognised values are ignored.
// With no recognised value the result is the scale's first level when
// picking the strictest and its last level when picking the most demanding.
func (s Scale) Pick(values []string, dir Direction) string {
	best := -1
	for _, v := range values {
		idx := s.Index(v)
		if idx < 0 {
			continue
		}
		switch {
		case best < 0:
			best = idx
		case dir == Strictest && idx < best:
			best = idx
		case dir == MostDemanding && idx > best:
			best = idx
		}
	}
	if best >= 0 {
		return s.Levels[best]
	}
	if dir == Strictest {
		return s.Levels[0]
	}
	return s.Levels[len(s.Levels)-1]
}

// TieBreakLevel wins a tied structural vote when it is among the leaders.
const TieBreakLevel = "medium"

// WeightedVote sums weights per level and returns the level with the largest
// total. On a tie TieBreakLevel wins if it is tied for the lead, otherwise
// the first tied level in scale order.
func (s Scale) WeightedVote(values []string, weights []float64) string {
	totals := make([]float64, len(s.Levels))
	for i, v := range values {
		if idx := s.Index(v); idx >= 0 && i < len(weights) {
			totals[idx] += weights[i]
		}
	}

	top := totals[0]
	for _, t := range totals[1:] {
		if t > top {
			top = t
		}
	}

	var winners []string
	for i, t := range totals {
		if t == top {
			winners = append(winners, s.Levels[i])
		}
	}
	if len(winners) > 1 {
		for _, w := range winners {
			if w == TieBreakLevel {
				return w
			}
		}
	}
	return winners[0]
}
