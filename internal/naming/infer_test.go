package naming

import (
	"testing"

	"github.com/jonathan/brand-compiler/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestInfer(t *testing.T) {
	tests := []struct {
		name       string
		src        Sources
		expected   string
		confidence types.Confidence
	}{
		{"explicit called", Sources{Primary: "A tool called Bladr for cutting."}, "Bladr", types.ConfidenceHigh},
		{"runner example", Sources{Primary: "A tool called Speedy for runners"}, "Speedy", types.ConfidenceHigh},
		{"brand is", Sources{Primary: "My brand is SuperApp."}, "SuperApp", types.ConfidenceHigh},
		{"parens near usage verb", Sources{Secondary: "Users download (Doggr) to walk dogs."}, "Doggr", types.ConfidenceHigh},
		{"double quotes", Sources{Primary: `We are building "RouteBuddy".`}, "RouteBuddy", types.ConfidenceHigh},
		{"single quotes after apostrophe", Sources{Primary: "It's known as 'FastTrack'."}, "FastTrack", types.ConfidenceHigh},
		{"frequency across fields", Sources{Primary: "We are building Alpha.", Secondary: "Users love Alpha.", Tertiary: "Beta.com"}, "Alpha", types.ConfidenceHigh},
		{"domain core word", Sources{Tertiary: "getbetter.com"}, "getbetter", types.ConfidenceMedium},
		{"app tld", Sources{Tertiary: "super.app"}, "super", types.ConfidenceMedium},
		{"pascal token", Sources{Primary: "ZenTask helps you focus."}, "ZenTask", types.ConfidenceHigh},
		{"pipeflow", Sources{Primary: "A CRM.", Secondary: "They open PipeFlow and close deals."}, "PipeFlow", types.ConfidenceHigh},
		{"start verb skipped", Sources{Primary: "Use FlowApp."}, "FlowApp", types.ConfidenceHigh},
		{"draft used when text is generic", Sources{Primary: "A scheduling tool.", DraftName: "SchedulerPro"}, "SchedulerPro", types.ConfidenceHigh},
		{"explicit beats draft", Sources{Primary: "Called RealName.", DraftName: "WrongName"}, "RealName", types.ConfidenceHigh},
		{"explicit beats quoted", Sources{Primary: `Called Beta. Context "Alpha".`}, "Beta", types.ConfidenceHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Infer(tt.src)
			assert.Equal(t, tt.expected, result.Name)
			assert.Equal(t, tt.confidence, result.Confidence)
		})
	}
}

func TestInfer_Placeholder(t *testing.T) {
	tests := []struct {
		name string
		src  Sources
	}{
		{"pronoun and generic", Sources{Primary: "This App is great."}},
		{"verb and generic", Sources{Primary: "Open the App."}},
		{"log into dashboard", Sources{Primary: "Log into Dashboard."}},
		{"person name penalised", Sources{Primary: "John uses it."}},
		{"generic parens", Sources{Primary: "Users use this (tool)."}},
		{"empty", Sources{}},
		{"generic draft ignored", Sources{DraftName: "Dashboard"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Infer(tt.src)
			if result.Name == types.PlaceholderName {
				assert.Equal(t, types.ConfidenceLow, result.Confidence)
				return
			}
			assert.NotEqual(t, "tool", result.Name)
		})
	}
}

func TestInfer_Deterministic(t *testing.T) {
	src := Sources{Tertiary: "alpha.io beta.io"}
	first := Infer(src)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, Infer(src))
	}
	assert.Equal(t, "alpha", first.Name)
}

func TestInfer_Candidates(t *testing.T) {
	result := Infer(Sources{Primary: "A tool called Speedy for runners"})

	assert.NotEmpty(t, result.Candidates)
	assert.Equal(t, "Speedy", result.Candidates[0].Name)
	assert.Equal(t, result.Score, result.Candidates[0].Score)
	assert.Contains(t, result.Evidence[0], "explicit")
}

func TestIsGeneric(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"App", true},
		{"the dashboard", true},
		{"Our Platform", true},
		{"Dlytful", false},
		{"Speedy App", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsGeneric(tt.input))
		})
	}
}
