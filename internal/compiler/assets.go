package compiler

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/jonathan/brand-compiler/internal/normalize"
	"github.com/jonathan/brand-compiler/internal/repair"
	"github.com/jonathan/brand-compiler/internal/types"
)

const (
	headlineWords = 6
	painHookWords = 4
)

var (
	strategistRe = regexp.MustCompile(`(?i)\b(?:strategists?|agency|agencies|consultants?)\b`)
	unlikeRe     = regexp.MustCompile(`(?i)^unlike\s+[^,]+,\s*\S`)
)

// AssetHints records which spec fields came from the user rather than from
// the fallback pack. Only user-derived fields produce custom copy lines.
type AssetHints struct {
	OutcomeExplicit bool
	ProofExplicit   bool
	PainExplicit    bool
	// RawText is the concatenated free text used for keyword-driven objections.
	RawText string
}

// BuildAssets derives the marketing copy bundle. Fixed-size lists are
// deduplicated and then padded from the pack, so every list reaches its
// required length without blank or repeated entries.
func BuildAssets(spec types.BrandSpec, pack Pack, hints AssetHints) types.BrandAssets {
	audience := normalize.LowerFirst(spec.Audience)
	category := normalize.LowerFirst(spec.Category)
	fill := strings.NewReplacer("{name}", spec.ProductName, "{audience}", audience, "{outcome}", spec.Outcome)

	var headlines []string
	if hints.OutcomeExplicit {
		headlines = append(headlines, normalize.Sentence(normalize.LimitWords(spec.Outcome, headlineWords)))
	}
	if hints.PainExplicit {
		headlines = append(headlines, normalize.Sentence("No more "+normalize.LimitWords(normalize.LowerFirst(spec.Pain), painHookWords)))
	}
	headlines = append(headlines, pack.Headlines...)

	var subheadlines []string
	if hints.PainExplicit {
		subheadlines = append(subheadlines, fmt.Sprintf("Built for %s who are done with %s.", audience, normalize.LowerFirst(spec.Pain)))
	}
	subheadlines = append(subheadlines, normalize.Sentence(spec.Differentiation))

	var bullets []string
	if hints.OutcomeExplicit {
		bullets = append(bullets, normalize.Sentence(spec.Outcome))
	}
	if hints.ProofExplicit {
		bullets = append(bullets, normalize.Sentence(proofBody(spec.Proof)))
	}

	objections := []types.ObjectionHandler{{
		Objection: "We already have a process that works.",
		Answer:    fill.Replace("{name} fits alongside it. Start with one workflow and keep it only if it helps you {outcome}."),
	}}
	if strategistRe.MatchString(hints.RawText) {
		objections = append(objections, types.ObjectionHandler{
			Objection: "Why not hire a brand strategist?",
			Answer:    fill.Replace("A strategist takes weeks. {name} gives you a clear direction today."),
		})
	} else {
		objections = append(objections, types.ObjectionHandler{
			Objection: fill.Replace(pack.Objection.Objection),
			Answer:    fill.Replace(pack.Objection.Answer),
		})
	}

	pitch := strings.Join([]string{
		fmt.Sprintf("%s is %s for %s.", spec.ProductName, repair.WithArticle(category), audience),
		normalize.Sentence("Most of them are stuck with " + normalize.LowerFirst(spec.Pain)),
		normalize.Sentence(fmt.Sprintf("%s helps them %s", spec.ProductName, spec.Outcome)),
		spec.Proof,
		normalize.Sentence(spec.Promise),
	}, " ")

	return types.BrandAssets{
		OneLiner:          fmt.Sprintf("%s helps %s %s with %s.", spec.ProductName, audience, spec.Outcome, repair.WithArticle(category)),
		HeroHeadlines:     FillList(headlines, pack.HeadlinePool, types.HeroHeadlineCount),
		Subheadlines:      FillList(subheadlines, pack.Subheadlines, types.SubheadlineCount),
		BenefitBullets:    FillList(bullets, pack.Bullets, types.BenefitBulletCount),
		ObjectionHandlers: objections,
		Pitch30s:          pitch,
		NotForYouIf:       FillList(nil, pack.NotForYouIf, types.NotForYouIfCount),
		CTAOptions:        FillList(nil, pack.CTAs, types.CTAOptionCount),
		Positioning:       Positioning(spec),
	}
}

// Positioning renders "For X, Y is the Z that W because V." with the outcome
// in third person. A differentiation of the form "Unlike A, ..." is appended
// as a second sentence.
func Positioning(spec types.BrandSpec) string {
	out := fmt.Sprintf("For %s, %s is the %s that %s because %s.",
		normalize.LowerFirst(spec.Audience),
		spec.ProductName,
		normalize.LowerFirst(spec.Category),
		repair.EnsureThirdPerson(spec.Outcome),
		normalize.LowerFirst(normalize.TrimTrailingPunct(spec.Proof)),
	)
	if unlikeRe.MatchString(spec.Differentiation) {
		out += " " + normalize.Sentence(spec.Differentiation)
	}
	return out
}

// FillList deduplicates primary case-insensitively, then pads it from pool
// until it holds n entries. The result has at most n entries.
func FillList(primary, pool []string, n int) []string {
	candidates := make([]string, 0, len(primary)+len(pool))
	for _, item := range primary {
		candidates = append(candidates, normalize.CollapseWhitespace(item))
	}
	for _, item := range pool {
		candidates = append(candidates, normalize.CollapseWhitespace(item))
	}
	out := normalize.DedupeFold(candidates)
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// proofBody drops the "It " or "It is " lead so the proof reads as a bullet.
func proofBody(proof string) string {
	switch {
	case strings.HasPrefix(proof, "It is "):
		return strings.TrimPrefix(proof, "It is ")
	case strings.HasPrefix(proof, "It "):
		return strings.TrimPrefix(proof, "It ")
	}
	return proof
}
