// Package compiler turns discovery answers into a validated brand
// specification, a bundle of marketing assets, a markdown rendering and a
// stable content hash. Compilation is pure: the same inputs always produce
// byte-identical output, and a Compiler is safe for concurrent use.
package compiler

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/jonathan/brand-compiler/internal/archetype"
	"github.com/jonathan/brand-compiler/internal/extract"
	"github.com/jonathan/brand-compiler/internal/naming"
	"github.com/jonathan/brand-compiler/internal/normalize"
	"github.com/jonathan/brand-compiler/internal/registry"
	"github.com/jonathan/brand-compiler/internal/repair"
	"github.com/jonathan/brand-compiler/internal/schemas"
	"github.com/jonathan/brand-compiler/internal/tone"
	"github.com/jonathan/brand-compiler/internal/types"
)

const (
	maxMetaRunes        = 160
	maxKeywordWords     = 6
	maxPromiseWords     = 12
	maxNameRunes        = 30
	primaryToneWeight   = 0.7
	secondaryToneWeight = 0.3
)

var integrationsRe = regexp.MustCompile(`(?i)\b(?:jira|linear|github|slack)\b`)

// integrationProof is used when the differentiation mentions the usual
// project tooling. It never copies differentiation text into the proof.
const integrationProof = "It fits into Jira, Linear, GitHub and Slack."

// Result is everything a compilation produces.
type Result struct {
	Spec           types.BrandSpec             `json:"brandSpec"`
	Assets         types.BrandAssets           `json:"assets"`
	Style          types.MixedStyleSpec        `json:"style"`
	Markdown       string                      `json:"markdown"`
	SpecHash       string                      `json:"specHash"`
	InputHash      string                      `json:"inputHash"`
	Domain         types.Domain                `json:"domain"`
	NameInference  types.NameInferenceResult   `json:"nameInference"`
	ArchetypeScore *types.ArchetypeScoreResult `json:"archetypeScore,omitempty"`
	Warnings       []string                    `json:"warnings"`
}

// Compiler runs the deterministic derivation pipeline against an immutable
// registry.
type Compiler struct {
	reg    *registry.Registry
	scorer *archetype.Scorer
	logger *zap.Logger
}

// New creates a compiler. A nil logger disables logging.
func New(reg *registry.Registry, logger *zap.Logger) *Compiler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Compiler{
		reg:    reg,
		scorer: archetype.NewScorer(reg),
		logger: logger,
	}
}

// derivation carries intermediate values and provenance flags between steps.
type derivation struct {
	in       types.DiscoveryInputs
	pack     Pack
	warnings []string

	outcomeExplicit bool
	proofExplicit   bool
	painExplicit    bool
}

func (d *derivation) warn(format string, args ...any) {
	d.warnings = append(d.warnings, fmt.Sprintf(format, args...))
}

// Compile derives the brand spec and assets. The only errors are invariant
// violations, which indicate a bug in the pipeline rather than bad input.
func (c *Compiler) Compile(in types.DiscoveryInputs) (*Result, error) {
	in = in.Normalized()
	inputHash, err := InputHash(in)
	if err != nil {
		return nil, err
	}

	domain := ResolveDomain(in.ProductType, in.Description)
	d := &derivation{in: in, pack: PackFor(domain)}
	if strings.TrimSpace(in.Description) == "" {
		d.warn("Missing core product description.")
	}
	c.logger.Debug("resolved domain", zap.String("domain", string(domain)), zap.String("input_hash", inputHash))

	name, inference := c.resolveName(d)
	category := c.resolveCategory(d)
	audience := c.resolveAudience(d)
	rawPain, pain := c.resolvePain(d, name)
	outcome := c.resolveOutcome(d, rawPain)
	proof := c.resolveProof(d)
	differentiation := c.resolveDifferentiation(d)

	if hint := strings.TrimSpace(in.ArchetypeHint); hint != "" && !types.IsArchetype(hint) {
		d.warn("Unknown archetype %q; scoring the description instead.", hint)
	}
	primary, secondary, score := c.resolveArchetype(in, inputHash)
	profile, _ := c.reg.Archetype(primary)

	voice := extract.ExtractVoice(in.Differentiation, in.VoiceTone, profile.Voice)
	voice.NeverWords = extract.MergeNeverWords(voice.NeverWords, in.BannedWords)

	palette := c.resolvePalette(d, profile)
	vibeTags := resolveVibeTags(in, palette)
	tokens := types.DesignTokens{
		Accent: palette.Accent,
		Ink:    palette.Ink,
		Base:   palette.Base,
		Radius: palette.Radius,
		Font:   palette.Font,
	}

	spec := types.BrandSpec{
		ProductName:        name,
		Category:           category,
		Audience:           audience,
		Pain:               pain,
		Outcome:            outcome,
		Differentiation:    differentiation,
		Proof:              proof,
		Promise:            normalize.LimitWords(outcome+" from day one", maxPromiseWords),
		Voice:              voice,
		ArchetypePrimary:   primary,
		ArchetypeSecondary: secondary,
		VisualDirection: types.VisualDirection{
			VibeTags:     vibeTags,
			UIPrinciples: uiPrinciples(tokens),
			Do:           visualDo(tokens, primary, outcome, vibeTags),
			Avoid:        visualAvoid(audience, voice.NeverWords),
		},
		DesignTokens: tokens,
		SEO:          buildSEO(name, category, audience, outcome, proof, d.pack),
		SourceNotes: types.SourceNotes{
			RawWhat:      in.Description,
			RawWho:       in.Audience,
			RawMoment:    in.Moment,
			RawWhy:       in.Mission,
			RawDifferent: in.Differentiation,
			RawSound:     in.VoiceTone,
			RawLook:      strings.TrimSpace(strings.Join(append([]string{in.VisualStyle}, in.VibeAdjectives...), " ")),
			RawForbidden: strings.Join(in.BannedWords, ", "),
		},
	}
	if err := schemas.Validate(schemas.BrandSpecSchema, spec); err != nil {
		return nil, &InvariantError{Artifact: "brand spec", Message: "assembled spec failed schema validation", Cause: err}
	}

	style, err := c.mixStyle(primary, secondary)
	if err != nil {
		return nil, err
	}

	assets := BuildAssets(spec, d.pack, AssetHints{
		OutcomeExplicit: d.outcomeExplicit,
		ProofExplicit:   d.proofExplicit,
		PainExplicit:    d.painExplicit,
		RawText:         strings.Join([]string{in.Description, in.Moment, in.Mission, in.Differentiation}, " "),
	})
	if err := schemas.Validate(schemas.BrandAssetsSchema, assets); err != nil {
		return nil, &InvariantError{Artifact: "brand assets", Message: "assembled assets failed schema validation", Cause: err}
	}

	specHash, err := StableHash(spec)
	if err != nil {
		return nil, err
	}

	warnings := d.warnings
	if warnings == nil {
		warnings = []string{}
	}

	c.logger.Debug("compiled brand spec",
		zap.String("product_name", name),
		zap.String("archetype", primary),
		zap.String("palette", palette.ID),
		zap.String("spec_hash", specHash),
		zap.Int("warnings", len(warnings)),
	)

	return &Result{
		Spec:           spec,
		Assets:         assets,
		Style:          style,
		Markdown:       RenderMarkdown(spec, assets, style, warnings),
		SpecHash:       specHash,
		InputHash:      inputHash,
		Domain:         domain,
		NameInference:  inference,
		ArchetypeScore: score,
		Warnings:       warnings,
	}, nil
}

// resolveName prefers a confident inference, then a usable draft name, then
// a strong extractor result.
func (c *Compiler) resolveName(d *derivation) (string, types.NameInferenceResult) {
	in := d.in
	inference := naming.Infer(naming.Sources{
		Primary:   in.Description,
		Secondary: in.Moment,
		Tertiary:  in.URLOrDesc,
		DraftName: in.ProductName,
	})
	c.logger.Debug("inferred product name",
		zap.String("name", inference.Name),
		zap.String("confidence", string(inference.Confidence)),
		zap.Float64("score", inference.Score),
	)

	name := normalize.CollapseWhitespace(inference.Name)
	if inference.Confidence == types.ConfidenceLow {
		if draft := normalize.CollapseWhitespace(in.ProductName); draft != "" && !naming.IsGeneric(draft) &&
			utf8.RuneCountInString(draft) <= maxNameRunes {
			name = draft
		} else if extracted := normalize.CollapseWhitespace(extract.ExtractName(in.Description)); !weakName(extracted) {
			name = extracted
		}
	}
	if name == types.PlaceholderName {
		d.warn("No product name found; using %q.", types.PlaceholderName)
	}
	return name, inference
}

// weakName rejects extractor output that reads like a description.
func weakName(name string) bool {
	if name == types.PlaceholderName || naming.IsGeneric(name) || utf8.RuneCountInString(name) > maxNameRunes {
		return true
	}
	for _, w := range strings.Fields(name) {
		r, _ := utf8.DecodeRuneInString(w)
		if unicode.IsLower(r) {
			return true
		}
	}
	return false
}

func (c *Compiler) resolveCategory(d *derivation) string {
	if draft := strings.TrimSpace(d.in.Category); draft != "" {
		return repair.SanitizeCategory(draft)
	}
	return repair.SanitizeCategory(extract.ExtractCategory(d.in.Description))
}

func (c *Compiler) resolveAudience(d *derivation) string {
	raw := d.in.AudienceDraft
	if strings.TrimSpace(raw) == "" {
		raw = d.in.Audience
	}
	if audience := extract.ExtractAudience(raw); audience != "" {
		return audience
	}
	d.warn("No audience given; using %q.", d.pack.Audience)
	return d.pack.Audience
}

// resolvePain returns the raw candidate and the repaired pain.
func (c *Compiler) resolvePain(d *derivation, name string) (string, string) {
	in := d.in
	var raw string
	if strings.TrimSpace(in.Pain) != "" {
		raw = normalize.LimitWords(normalize.TrimTrailingPunct(normalize.Clean(in.Pain)), extract.MaxPainWords)
		d.painExplicit = true
	} else {
		raw = extract.ExtractPain(in.Moment, in.Mission, in.Description)
		d.painExplicit = strings.TrimSpace(in.Moment) != "" || strings.TrimSpace(in.Mission) != ""
	}
	if raw == "" {
		raw = extract.DefaultPain
	}

	pain := repair.RepairPain(raw, name)
	if pain != raw {
		d.painExplicit = false
		c.logger.Debug("repaired pain", zap.String("from", raw), zap.String("to", pain))
	}
	return raw, pain
}

// resolveOutcome uses an explicit outcome, then keyword matches over the pain
// and moment, and only then the domain default.
func (c *Compiler) resolveOutcome(d *derivation, rawPain string) string {
	in := d.in
	if explicit := strings.TrimSpace(in.Outcome); explicit != "" {
		out := repair.RepairOutcome(normalize.LimitWords(normalize.Clean(explicit), extract.MaxOutcomeWords))
		if out != "" {
			d.outcomeExplicit = true
			return out
		}
	}
	if out, ok := extract.MatchOutcome(rawPain); ok {
		d.outcomeExplicit = true
		return out
	}
	if out, ok := extract.MatchOutcome(in.Moment); ok {
		d.outcomeExplicit = true
		return out
	}
	d.warn("No outcome signal; using the %s default.", d.pack.Keyword)
	return repair.RepairOutcome(d.pack.Outcome)
}

// resolveProof keeps an explicit proof or falls back to the domain default.
func (c *Compiler) resolveProof(d *derivation) string {
	if proof := repair.SanitizeProof(normalize.Clean(d.in.Proof)); proof != "" {
		d.proofExplicit = true
		return proof
	}
	if integrationsRe.MatchString(d.in.Differentiation) {
		return integrationProof
	}
	return d.pack.Proof
}

func (c *Compiler) resolveDifferentiation(d *derivation) string {
	raw := d.in.DiffDraft
	if strings.TrimSpace(raw) == "" {
		raw = d.in.Differentiation
	}
	if diff := extract.ExtractDifferentiation(raw); diff != "" {
		return diff
	}
	d.warn("No differentiation given; using a %s default.", d.pack.Keyword)
	return d.pack.Differentiation
}

// resolveArchetype honours a valid explicit hint. Otherwise the scorer picks
// the primary and the best positive runner-up becomes the secondary.
func (c *Compiler) resolveArchetype(in types.DiscoveryInputs, inputHash string) (string, string, *types.ArchetypeScoreResult) {
	if hint := strings.TrimSpace(in.ArchetypeHint); types.IsArchetype(hint) {
		return hint, "", nil
	}

	result := c.scorer.Score(archetype.Input{
		Description: in.Description,
		Moment:      in.Moment,
		URLOrDesc:   in.URLOrDesc,
		ProductType: in.ProductType,
		InputHash:   inputHash,
	})
	c.logger.Debug("scored archetype",
		zap.String("archetype", result.Archetype),
		zap.Float64("score", result.Score),
		zap.Bool("tie_break", result.TieBreakUsed),
	)

	secondary := ""
	if len(result.Alternatives) > 0 && result.Alternatives[0].Score > 0 {
		secondary = result.Alternatives[0].Archetype
	}
	return result.Archetype, secondary, &result
}

func (c *Compiler) resolvePalette(d *derivation, profile registry.Archetype) registry.Palette {
	if id := strings.TrimSpace(d.in.PaletteID); id != "" {
		if p, ok := c.reg.Palette(id); ok {
			return p
		}
		d.warn("Unknown palette %q; using the archetype palette.", id)
	}
	return c.reg.PaletteOrDefault(profile.Palette)
}

// mixStyle blends the primary archetype's tone sheet with the secondary's.
func (c *Compiler) mixStyle(primary, secondary string) (types.MixedStyleSpec, error) {
	sheet, ok := c.reg.ToneSheetFor(primary)
	if !ok {
		return types.MixedStyleSpec{}, &InvariantError{Artifact: "style", Message: "no tone sheet for " + primary}
	}
	sheets := []types.ToneStyleSheet{sheet}
	weights := []float64{1}

	if secondary != "" {
		if other, ok := c.reg.ToneSheetFor(secondary); ok && other.ID != sheet.ID {
			sheets = append(sheets, other)
			weights = []float64{primaryToneWeight, secondaryToneWeight}
		}
	}
	return tone.Mix(sheets, weights)
}

func resolveVibeTags(in types.DiscoveryInputs, palette registry.Palette) []string {
	tags := normalize.DedupeFold(in.VibeAdjectives)
	if len(tags) == 0 {
		tags = normalize.DedupeFold(palette.Tags)
	}
	if len(tags) > types.MaxVibeTags {
		tags = tags[:types.MaxVibeTags]
	}
	return tags
}

func uiPrinciples(tokens types.DesignTokens) []string {
	corners := fmt.Sprintf("Round interactive elements at %srem.", formatRadius(tokens.Radius))
	if tokens.Radius == 0 {
		corners = "Square corners and strict grid alignment."
	}
	return []string{
		"Lead with the outcome, not the feature list.",
		"One primary action per view.",
		corners,
	}
}

func visualDo(tokens types.DesignTokens, archetypeName, outcome string, vibeTags []string) []string {
	vibe := "minimal"
	if len(vibeTags) > 0 {
		vibe = strings.ToLower(vibeTags[0])
	}
	return []string{
		fmt.Sprintf("Use %s for primary actions.", tokens.Accent),
		fmt.Sprintf("Set headings in %s.", tokens.Font),
		fmt.Sprintf("Keep layouts clean with %srem radius.", formatRadius(tokens.Radius)),
		fmt.Sprintf("Speak like %s.", archetypeName),
		fmt.Sprintf("Show how users %s.", outcome),
		fmt.Sprintf("Keep it %s.", vibe),
	}
}

func visualAvoid(audience string, neverWords []string) []string {
	banned := "filler words"
	if len(neverWords) > 0 {
		banned = fmt.Sprintf("%q", neverWords[0])
	}
	return []string{
		"Don't use complex gradients.",
		"Avoid ambiguous language.",
		fmt.Sprintf("Never talk past %s.", audience),
		"No low contrast text.",
		"Don't clutter the view.",
		fmt.Sprintf("Never write %s.", banned),
	}
}

func buildSEO(name, category, audience, outcome, proof string, pack Pack) types.SEO {
	secondary := normalize.DedupeFold([]string{
		normalize.LimitWords(strings.ToLower(audience), maxKeywordWords),
		normalize.LimitWords(outcome, maxKeywordWords),
		pack.Keyword,
	})
	if len(secondary) > types.MaxSecondaryKeyword {
		secondary = secondary[:types.MaxSecondaryKeyword]
	}

	meta := fmt.Sprintf("%s helps %s %s. %s", name, normalize.LowerFirst(audience), outcome, proof)
	return types.SEO{
		PrimaryKeyword:    normalize.LimitWords(strings.ToLower(category), maxKeywordWords),
		SecondaryKeywords: secondary,
		OneSentenceMeta:   truncateRunes(meta, maxMetaRunes),
	}
}

// truncateRunes shortens s to at most n runes, marking the cut with "...".
func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return strings.TrimSpace(string(runes[:n-3])) + "..."
}

func formatRadius(r float64) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", r), "0"), ".")
}
