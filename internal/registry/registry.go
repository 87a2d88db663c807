// Package registry loads the read-only configuration tables used by the
// compiler: archetype profiles and signals, curated palettes and tone sheets.
// A Registry is built once at start-up and never mutated afterwards, so it
// is safe to share across goroutines.
package registry

import (
	"regexp"

	"github.com/jonathan/brand-compiler/internal/types"
)

// Signal is one weighted pattern used to classify text into an archetype.
type Signal struct {
	Type    string  `yaml:"type" validate:"required,oneof=regex phrase"`
	Pattern string  `yaml:"pattern" validate:"required"`
	Weight  float64 `yaml:"weight" validate:"ne=0"`

	re *regexp.Regexp
}

// Match reports whether the signal fires on normalized text.
func (s Signal) Match(text string) bool {
	if s.re != nil {
		return s.re.MatchString(text)
	}
	return containsPhrase(text, s.Pattern)
}

// Dampener scales positive signal weights down when fluffy wording is found.
type Dampener struct {
	Pattern    string  `yaml:"pattern" validate:"required"`
	Multiplier float64 `yaml:"multiplier" validate:"gt=0,lte=1"`

	re *regexp.Regexp
}

// Match reports whether the dampener pattern fires on normalized text.
func (d Dampener) Match(text string) bool {
	return d.re != nil && d.re.MatchString(text)
}

// Archetype is the single profile for a brand archetype.
type Archetype struct {
	Name        string   `yaml:"name" validate:"required"`
	Color       string   `yaml:"color" validate:"required,hexcolor,len=7"`
	Voice       []string `yaml:"voice" validate:"len=3,dive,required"`
	Description string   `yaml:"description"`
	Motto       string   `yaml:"motto"`
	Palette     string   `yaml:"palette" validate:"required"`
	Tone        string   `yaml:"tone" validate:"required"`
	Signals     []Signal `yaml:"signals" validate:"dive"`
	AntiSignals []Signal `yaml:"anti_signals" validate:"dive"`
}

func (a Archetype) clone() Archetype {
	out := a
	out.Voice = append([]string(nil), a.Voice...)
	out.Signals = append([]Signal(nil), a.Signals...)
	out.AntiSignals = append([]Signal(nil), a.AntiSignals...)
	return out
}

// Palette is a curated set of design tokens.
type Palette struct {
	ID     string   `yaml:"id" validate:"required"`
	Name   string   `yaml:"name" validate:"required"`
	Accent string   `yaml:"accent" validate:"required,hexcolor,len=7"`
	Base   string   `yaml:"base" validate:"required,hexcolor,len=7"`
	Ink    string   `yaml:"ink" validate:"required,hexcolor,len=7"`
	Font   string   `yaml:"font" validate:"required,oneof=Inter Outfit Cormorant"`
	Radius float64  `yaml:"radius" validate:"gte=0,lte=2"`
	Tags   []string `yaml:"tags" validate:"max=5,dive,required"`
}

func (p Palette) clone() Palette {
	out := p
	out.Tags = append([]string(nil), p.Tags...)
	return out
}

// Registry holds the immutable lookup tables.
type Registry struct {
	fallback   string
	dampeners  []Dampener
	archetypes []Archetype
	byName     map[string]int
	palettes   []Palette
	paletteIdx map[string]int
	tones      []types.ToneStyleSheet
	toneIdx    map[string]int
}

// FallbackArchetype is chosen when no archetype signal fires.
func (r *Registry) FallbackArchetype() string {
	return r.fallback
}

// Dampeners returns the fluff dampeners.
func (r *Registry) Dampeners() []Dampener {
	return append([]Dampener(nil), r.dampeners...)
}

// Archetypes returns every archetype profile in registry order.
func (r *Registry) Archetypes() []Archetype {
	out := make([]Archetype, len(r.archetypes))
	for i, a := range r.archetypes {
		out[i] = a.clone()
	}
	return out
}

// Archetype looks up a profile by its exact name.
func (r *Registry) Archetype(name string) (Archetype, bool) {
	idx, ok := r.byName[name]
	if !ok {
		return Archetype{}, false
	}
	return r.archetypes[idx].clone(), true
}

// Palettes returns every palette in registry order.
func (r *Registry) Palettes() []Palette {
	out := make([]Palette, len(r.palettes))
	for i, p := range r.palettes {
		out[i] = p.clone()
	}
	return out
}

// Palette looks up a palette by id.
func (r *Registry) Palette(id string) (Palette, bool) {
	idx, ok := r.paletteIdx[id]
	if !ok {
		return Palette{}, false
	}
	return r.palettes[idx].clone(), true
}

// DefaultPalette is the first curated palette.
func (r *Registry) DefaultPalette() Palette {
	return r.palettes[0].clone()
}

// PaletteOrDefault looks up a palette, falling back to the default.
func (r *Registry) PaletteOrDefault(id string) Palette {
	if p, ok := r.Palette(id); ok {
		return p
	}
	return r.DefaultPalette()
}

// ToneSheets returns every tone sheet in registry order.
func (r *Registry) ToneSheets() []types.ToneStyleSheet {
	out := make([]types.ToneStyleSheet, len(r.tones))
	for i, t := range r.tones {
		out[i] = cloneSheet(t)
	}
	return out
}

// ToneSheet looks up a tone sheet by id.
func (r *Registry) ToneSheet(id string) (types.ToneStyleSheet, bool) {
	idx, ok := r.toneIdx[id]
	if !ok {
		return types.ToneStyleSheet{}, false
	}
	return cloneSheet(r.tones[idx]), true
}

// ToneSheetFor returns the tone sheet mapped to an archetype.
func (r *Registry) ToneSheetFor(archetype string) (types.ToneStyleSheet, bool) {
	a, ok := r.Archetype(archetype)
	if !ok {
		return types.ToneStyleSheet{}, false
	}
	return r.ToneSheet(a.Tone)
}

func cloneSheet(s types.ToneStyleSheet) types.ToneStyleSheet {
	out := s
	out.Lexicon = types.Lexicon{
		PreferredVerbs:   append([]string{}, s.Lexicon.PreferredVerbs...),
		PreferredPhrases: append([]string{}, s.Lexicon.PreferredPhrases...),
		BannedWords:      append([]string{}, s.Lexicon.BannedWords...),
		BannedPhrases:    append([]string{}, s.Lexicon.BannedPhrases...),
	}
	return out
}
