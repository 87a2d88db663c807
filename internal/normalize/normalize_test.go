package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRemoveHedges(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"mixed case hedges", "It is basically, kind of, MAYBE a tool.", "It is , , a tool."},
		{"prose audience", "Probably indie founders and maybe marketers", "indie founders and marketers"},
		{"multi word hedge", "We basically sort of do it better", "We do it better"},
		{"hedge inside word untouched", "Maybelline sells probablyness", "Maybelline sells probablyness"},
		{"like is not a hedge", "We literally like it", "We literally like it"},
		{"i guess", "I guess we ship", "we ship"},
		{"empty", "", ""},
		{"whitespace only", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, RemoveHedges(tt.input))
		})
	}
}

func TestNormalizePunctuation(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"double hyphen", "Hello--world", "Hello, world"},
		{"em dash", "Fast — simple", "Fast, simple"},
		{"repeated marks", "Really??!!", "Really?!"},
		{"ellipsis", "Wait... what", "Wait. what"},
		{"mixed run kept", "Why?!", "Why?!"},
		{"space before punct", "Hello , world !", "Hello, world!"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizePunctuation(tt.input))
		})
	}
}

func TestLimitWords(t *testing.T) {
	assert.Equal(t, "one two", LimitWords("one two three", 2))
	assert.Equal(t, "one two three", LimitWords("  one   two three ", 5))
	assert.Equal(t, "", LimitWords("one", 0))
}

func TestHasWord(t *testing.T) {
	assert.True(t, HasWord("ok"))
	assert.True(t, HasWord("— 500 —"))
	assert.True(t, HasWord("für"))
	assert.False(t, HasWord(""))
	assert.False(t, HasWord("- – —"))
	assert.False(t, HasWord("?!., 🚀"))
}

func TestCaseHelpers(t *testing.T) {
	assert.Equal(t, "Tool", Capitalize("tool"))
	assert.Equal(t, "", Capitalize(""))
	assert.Equal(t, "works with Jira", LowerFirst("Works with Jira"))
	assert.Equal(t, "API first", LowerFirst("API first"))
	assert.Equal(t, "Save time.", Sentence("save time!!"))
	assert.Equal(t, "", Sentence(" . "))
	assert.Equal(t, "Direct", TitleWord("DIRECT"))
}

func TestDedupeFold(t *testing.T) {
	got := DedupeFold([]string{"Synergy", "", "synergy", " hustle ", "HUSTLE", "10x"})
	assert.Equal(t, []string{"Synergy", "hustle", "10x"}, got)
}
