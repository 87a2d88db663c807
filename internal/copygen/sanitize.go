package copygen

import (
	"regexp"
	"strings"

	"github.com/jonathan/brand-compiler/internal/compiler"
	"github.com/jonathan/brand-compiler/internal/normalize"
	"github.com/jonathan/brand-compiler/internal/tone"
	"github.com/jonathan/brand-compiler/internal/types"
)

// Word ceilings for generated copy.
const (
	OneLinerWords    = 18
	HeadlineWords    = 6
	SubheadlineWords = 18
	BulletWords      = 10
	ObjectionWords   = 10
	AnswerWords      = 22
	PitchWords       = 60
	NotForYouIfWords = 10
	CTAWords         = 5
)

var (
	spaceBeforePunctRe = regexp.MustCompile(`\s+([,.])`)
	repeatedPunctRe    = regexp.MustCompile(`([,.])[,.]+`)
)

// rawCopy mirrors the JSON object the model is asked to return.
type rawCopy struct {
	OneLiner          string         `json:"oneLiner"`
	HeroHeadlines     []string       `json:"heroHeadlines"`
	Subheadlines      []string       `json:"subheadlines"`
	BenefitBullets    []string       `json:"benefitBullets"`
	ObjectionHandlers []rawObjection `json:"objectionHandlers"`
	Pitch30s          string         `json:"pitch30s"`
	NotForYouIf       []string       `json:"notForYouIf"`
	CTAOptions        []string       `json:"ctaOptions"`
}

type rawObjection struct {
	Objection string `json:"objection"`
	Answer    string `json:"answer"`
}

// sanitizer cleans model text: banned punctuation is rewritten, word
// ceilings are enforced and text containing a never word is rejected.
type sanitizer struct {
	punct    *strings.Replacer
	forbids  []*regexp.Regexp
	rejected []string
}

func newSanitizer(bans, neverWords []string) *sanitizer {
	if len(bans) == 0 {
		bans = tone.PunctuationBans
	}
	var pairs []string
	// longer marks first so "--" is not split by a single dash
	for _, b := range []string{"--", "—", "–", "!", ";"} {
		if b != ";" && !contains(bans, b) {
			continue
		}
		if b == "!" {
			pairs = append(pairs, b, ".")
		} else {
			pairs = append(pairs, b, ",")
		}
	}

	s := &sanitizer{punct: strings.NewReplacer(pairs...)}
	for _, w := range neverWords {
		w = strings.TrimSpace(w)
		if w == "" {
			continue
		}
		s.forbids = append(s.forbids, regexp.MustCompile(`(?i)\b`+regexp.QuoteMeta(w)+`\b`))
	}
	return s
}

// clean returns the sanitized text, or "" when nothing usable is left.
func (s *sanitizer) clean(text string, maxWords int) string {
	text = s.punct.Replace(text)
	text = normalize.CollapseWhitespace(text)
	text = spaceBeforePunctRe.ReplaceAllString(text, "$1")
	text = repeatedPunctRe.ReplaceAllString(text, "$1")
	text = strings.TrimLeft(text, ",. ")
	text = normalize.LimitWords(text, maxWords)
	if text == "" {
		return ""
	}
	for _, re := range s.forbids {
		if re.MatchString(text) {
			s.rejected = append(s.rejected, text)
			return ""
		}
	}
	return text
}

func (s *sanitizer) cleanList(items []string, maxWords int) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if c := s.clean(item, maxWords); c != "" {
			out = append(out, c)
		}
	}
	return out
}

// merge sanitizes raw model output and fills every gap from the
// deterministic assets. Positioning always comes from the fallback.
func (s *sanitizer) merge(raw rawCopy, fallback types.BrandAssets) types.BrandAssets {
	out := types.BrandAssets{
		OneLiner:       orElse(s.clean(raw.OneLiner, OneLinerWords), fallback.OneLiner),
		HeroHeadlines:  compiler.FillList(s.cleanList(raw.HeroHeadlines, HeadlineWords), fallback.HeroHeadlines, types.HeroHeadlineCount),
		Subheadlines:   compiler.FillList(s.cleanList(raw.Subheadlines, SubheadlineWords), fallback.Subheadlines, types.SubheadlineCount),
		BenefitBullets: compiler.FillList(s.cleanList(raw.BenefitBullets, BulletWords), fallback.BenefitBullets, types.BenefitBulletCount),
		Pitch30s:       orElse(s.clean(raw.Pitch30s, PitchWords), fallback.Pitch30s),
		NotForYouIf:    compiler.FillList(s.cleanList(raw.NotForYouIf, NotForYouIfWords), fallback.NotForYouIf, types.NotForYouIfCount),
		CTAOptions:     compiler.FillList(s.cleanList(raw.CTAOptions, CTAWords), fallback.CTAOptions, types.CTAOptionCount),
		Positioning:    fallback.Positioning,
	}

	out.ObjectionHandlers = make([]types.ObjectionHandler, 0, types.ObjectionCount)
	seen := make(map[string]bool)
	for _, o := range raw.ObjectionHandlers {
		h := types.ObjectionHandler{
			Objection: s.clean(o.Objection, ObjectionWords),
			Answer:    s.clean(o.Answer, AnswerWords),
		}
		key := strings.ToLower(h.Objection)
		if h.Objection == "" || h.Answer == "" || seen[key] {
			continue
		}
		seen[key] = true
		out.ObjectionHandlers = append(out.ObjectionHandlers, h)
		if len(out.ObjectionHandlers) == types.ObjectionCount {
			break
		}
	}
	for _, h := range fallback.ObjectionHandlers {
		if len(out.ObjectionHandlers) == types.ObjectionCount {
			break
		}
		if key := strings.ToLower(h.Objection); !seen[key] {
			seen[key] = true
			out.ObjectionHandlers = append(out.ObjectionHandlers, h)
		}
	}
	return out
}

func orElse(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func contains(items []string, v string) bool {
	for _, item := range items {
		if item == v {
			return true
		}
	}
	return false
}
