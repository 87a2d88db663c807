package registry

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/jonathan/brand-compiler/internal/tone"
	"github.com/jonathan/brand-compiler/internal/types"
)

//go:embed data/*.yaml
var dataFiles embed.FS

// File names inside a registry directory.
const (
	ArchetypesFile = "archetypes.yaml"
	PalettesFile   = "palettes.yaml"
	TonesFile      = "tones.yaml"
)

var validate = validator.New()

type archetypeFile struct {
	Fallback   string      `yaml:"fallback" validate:"required"`
	Dampeners  []Dampener  `yaml:"dampeners" validate:"dive"`
	Archetypes []Archetype `yaml:"archetypes" validate:"len=12,dive"`
}

type paletteFile struct {
	Palettes []Palette `yaml:"palettes" validate:"min=1,dive"`
}

type toneFile struct {
	Tones []types.ToneStyleSheet `yaml:"tones" validate:"min=1,dive"`
}

// Embedded builds a registry from the data files compiled into the binary.
func Embedded() (*Registry, error) {
	sub, err := fs.Sub(dataFiles, "data")
	if err != nil {
		return nil, &LoadError{Message: "embedded registry data missing", Cause: err}
	}
	return LoadFS(sub)
}

// Load uses dir when set and the embedded data otherwise.
func Load(dir string) (*Registry, error) {
	if dir == "" {
		return Embedded()
	}
	return LoadDir(dir)
}

// LoadDir loads a registry from a directory on disk.
func LoadDir(dir string) (*Registry, error) {
	return LoadFS(os.DirFS(dir))
}

// LoadFS decodes, validates and indexes the three registry files.
func LoadFS(fsys fs.FS) (*Registry, error) {
	var af archetypeFile
	if err := decode(fsys, ArchetypesFile, &af); err != nil {
		return nil, err
	}
	var pf paletteFile
	if err := decode(fsys, PalettesFile, &pf); err != nil {
		return nil, err
	}
	var tf toneFile
	if err := decode(fsys, TonesFile, &tf); err != nil {
		return nil, err
	}

	r := &Registry{
		fallback:   af.Fallback,
		byName:     make(map[string]int, len(af.Archetypes)),
		paletteIdx: make(map[string]int, len(pf.Palettes)),
		toneIdx:    make(map[string]int, len(tf.Tones)),
	}

	for i, p := range pf.Palettes {
		if _, dup := r.paletteIdx[p.ID]; dup {
			return nil, &LoadError{File: PalettesFile, Message: fmt.Sprintf("duplicate palette %q", p.ID)}
		}
		r.paletteIdx[p.ID] = i
		r.palettes = append(r.palettes, p)
	}

	for i, t := range tf.Tones {
		if _, dup := r.toneIdx[t.ID]; dup {
			return nil, &LoadError{File: TonesFile, Message: fmt.Sprintf("duplicate tone sheet %q", t.ID)}
		}
		r.toneIdx[t.ID] = i
		r.tones = append(r.tones, tone.NormalizeSheet(t))
	}

	for _, d := range af.Dampeners {
		re, err := regexp.Compile(d.Pattern)
		if err != nil {
			return nil, &LoadError{File: ArchetypesFile, Message: "bad dampener pattern " + d.Pattern, Cause: err}
		}
		d.re = re
		r.dampeners = append(r.dampeners, d)
	}

	for i, a := range af.Archetypes {
		if !types.IsArchetype(a.Name) {
			return nil, &LoadError{File: ArchetypesFile, Message: fmt.Sprintf("unknown archetype %q", a.Name)}
		}
		if _, dup := r.byName[a.Name]; dup {
			return nil, &LoadError{File: ArchetypesFile, Message: fmt.Sprintf("duplicate archetype %q", a.Name)}
		}
		if _, ok := r.paletteIdx[a.Palette]; !ok {
			return nil, &LoadError{File: ArchetypesFile, Message: fmt.Sprintf("%s references unknown palette %q", a.Name, a.Palette)}
		}
		if _, ok := r.toneIdx[a.Tone]; !ok {
			return nil, &LoadError{File: ArchetypesFile, Message: fmt.Sprintf("%s references unknown tone sheet %q", a.Name, a.Tone)}
		}

		var err error
		if a.Signals, err = compileSignals(a.Signals); err != nil {
			return nil, &LoadError{File: ArchetypesFile, Message: a.Name, Cause: err}
		}
		if a.AntiSignals, err = compileSignals(a.AntiSignals); err != nil {
			return nil, &LoadError{File: ArchetypesFile, Message: a.Name, Cause: err}
		}
		r.byName[a.Name] = i
		r.archetypes = append(r.archetypes, a)
	}

	if _, ok := r.byName[r.fallback]; !ok {
		return nil, &LoadError{File: ArchetypesFile, Message: fmt.Sprintf("fallback archetype %q is not defined", r.fallback)}
	}
	return r, nil
}

func decode(fsys fs.FS, name string, out any) error {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return &LoadError{File: name, Message: "failed to read file", Cause: err}
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return &LoadError{File: name, Message: "failed to parse YAML", Cause: err}
	}
	if err := validate.Struct(out); err != nil {
		return &LoadError{File: name, Message: "invalid registry data", Cause: err}
	}
	return nil
}

func compileSignals(signals []Signal) ([]Signal, error) {
	out := make([]Signal, len(signals))
	for i, s := range signals {
		if s.Type == "regex" {
			re, err := regexp.Compile(s.Pattern)
			if err != nil {
				return nil, fmt.Errorf("bad signal pattern %q: %w", s.Pattern, err)
			}
			s.re = re
		}
		out[i] = s
	}
	return out, nil
}

func containsPhrase(text, phrase string) bool {
	return phrase != "" && strings.Contains(text, strings.ToLower(phrase))
}
