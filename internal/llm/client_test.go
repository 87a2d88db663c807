package llm

import (
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func candidate(reason genai.FinishReason, parts ...genai.Part) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content:      &genai.Content{Parts: parts},
			FinishReason: reason,
		}},
	}
}

func TestExtractTextFromResponse(t *testing.T) {
	text, err := extractTextFromResponse(candidate(genai.FinishReasonStop, genai.Text(`{"oneLiner":`), genai.Text(` "x"}`)))
	require.NoError(t, err)
	assert.Equal(t, `{"oneLiner": "x"}`, text)
}

func TestExtractTextFromResponse_Errors(t *testing.T) {
	tests := []struct {
		name     string
		resp     *genai.GenerateContentResponse
		contains string
	}{
		{"nil response", nil, "no candidates"},
		{"no candidates", &genai.GenerateContentResponse{}, "no candidates"},
		{
			name: "blocked prompt",
			resp: &genai.GenerateContentResponse{
				PromptFeedback: &genai.PromptFeedback{BlockReason: genai.BlockReasonSafety},
			},
			contains: "prompt blocked",
		},
		{"safety stop", candidate(genai.FinishReasonSafety, genai.Text("{}")), "safety"},
		{"empty content", candidate(genai.FinishReasonStop), "no content"},
		{"non-text parts", candidate(genai.FinishReasonStop, genai.Blob{MIMEType: "image/png"}), "no text parts"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := extractTextFromResponse(tt.resp)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestExtractTextFromResponse_Truncated(t *testing.T) {
	_, err := extractTextFromResponse(candidate(genai.FinishReasonMaxTokens, genai.Text(`{"oneLiner": "cut`)))
	assert.ErrorIs(t, err, ErrTruncated)
}

func TestNewGeminiClient_RequiresKey(t *testing.T) {
	_, err := NewGeminiClient(t.Context(), DefaultConfig(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key is required")
}
