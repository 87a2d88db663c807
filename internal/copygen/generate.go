// Package copygen asks a language model for launch copy in the voice of a
// compiled brand and cleans the answer so it honours the same limits as the
// deterministic assets. Anything the model gets wrong or leaves out is
// filled from those assets.
package copygen

import (
	"context"
	"encoding/json"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/brand-compiler/internal/llm"
	"github.com/jonathan/brand-compiler/internal/prompts"
	"github.com/jonathan/brand-compiler/internal/schemas"
	"github.com/jonathan/brand-compiler/internal/types"
)

// Copy is the sanitized model output.
type Copy struct {
	Assets types.BrandAssets `json:"assets"`
	Model  string            `json:"model"`
	// Rejected lists model lines dropped for using a never word.
	Rejected []string `json:"rejected,omitempty"`
}

// Generator produces copy through an llm.Client.
type Generator struct {
	client llm.Client
	tier   llm.ModelTier
	logger *zap.Logger
}

// New creates a Generator. A nil logger disables logging.
func New(client llm.Client, tier llm.ModelTier, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{client: client, tier: tier, logger: logger}
}

// Generate requests copy for spec written to style. fallback supplies every
// item the model omits or that fails sanitization; it is normally the
// compiler's own assets for the same spec.
func (g *Generator) Generate(ctx context.Context, spec types.BrandSpec, style types.MixedStyleSpec, fallback types.BrandAssets) (*Copy, error) {
	system, brief, err := BuildPrompt(spec, style)
	if err != nil {
		return nil, &GenerationError{Message: "failed to build prompt", Cause: err}
	}

	model := g.client.GetModel(g.tier)
	g.logger.Debug("requesting copy",
		zap.String("product", spec.ProductName),
		zap.String("model", model),
		zap.Int("prompt_chars", len(system)+len(brief)),
	)

	text, err := g.client.GenerateJSON(ctx, llm.Request{System: system, Prompt: brief, Tier: g.tier})
	if err != nil {
		return nil, &GenerationError{Message: "failed to generate copy", Cause: err}
	}

	var raw rawCopy
	if err := json.Unmarshal([]byte(llm.CleanJSONBlock(text)), &raw); err != nil {
		return nil, &GenerationError{Message: "failed to parse model response", Cause: err}
	}

	s := newSanitizer(style.Constraints.PunctuationBans, append(append([]string(nil), spec.Voice.NeverWords...), style.BannedLexicon...))
	assets := s.merge(raw, fallback)

	if err := schemas.Validate(schemas.BrandAssetsSchema, assets); err != nil {
		return nil, &GenerationError{Message: "generated copy is invalid", Cause: err}
	}

	if len(s.rejected) > 0 {
		g.logger.Info("dropped copy using never words",
			zap.String("product", spec.ProductName),
			zap.Int("count", len(s.rejected)),
		)
	}

	return &Copy{Assets: assets, Model: model, Rejected: s.rejected}, nil
}

// BuildPrompt renders the system instruction, which carries the voice and
// style rules, and the brief, which carries the brand facts and output shape.
func BuildPrompt(spec types.BrandSpec, style types.MixedStyleSpec) (system, brief string, err error) {
	archetype := spec.ArchetypePrimary
	if spec.ArchetypeSecondary != "" {
		archetype += " (secondary " + spec.ArchetypeSecondary + ")"
	}

	instructions := make([]string, 0, len(style.Instructions))
	for _, inst := range style.Instructions {
		instructions = append(instructions, "- "+inst)
	}

	system, err = prompts.Render(prompts.CopyFile, prompts.CopySystem, map[string]string{
		"ProductName":      spec.ProductName,
		"Archetype":        archetype,
		"SoundsLike":       listOrNone(spec.Voice.SoundsLike),
		"NeverLike":        listOrNone(spec.Voice.NeverLike),
		"NeverWords":       listOrNone(spec.Voice.NeverWords),
		"Instructions":     strings.Join(instructions, "\n"),
		"BannedLexicon":    listOrNone(style.BannedLexicon),
		"PreferredLexicon": listOrNone(style.PreferredLexicon),
	})
	if err != nil {
		return "", "", err
	}

	brief, err = prompts.Render(prompts.CopyFile, prompts.CopyBrief, map[string]string{
		"ProductName":     spec.ProductName,
		"Category":        spec.Category,
		"Audience":        spec.Audience,
		"Pain":            spec.Pain,
		"Outcome":         spec.Outcome,
		"Proof":           spec.Proof,
		"Differentiation": spec.Differentiation,
	})
	if err != nil {
		return "", "", err
	}
	return system, brief, nil
}

func listOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}
