package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/juliakriv0137/video-analysis-system/internal/config"
	"github.com/juliakriv0137/video-analysis-system/internal/logging"
)

func TestNewClientRequiresAPIKey(t *testing.T) {
	_, err := NewClient(config.AIConfig{}, logging.NewNop())
	assert.Error(t, err)
}

func TestNewClientDefaultsPolicy(t *testing.T) {
	c, err := NewClient(config.AIConfig{APIKey: "test-key"}, logging.NewNop())
	assert.NoError(t, err)
	assert.Equal(t, DefaultRetryPolicy(), c.policy)
}

func TestCleanJSONResponse(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "plain json passes through",
			input:    `{"scene_description": "a street"}`,
			expected: `{"scene_description": "a street"}`,
		},
		{
			name:     "json fence stripped",
			input:    "```json\n{\"mood\": \"calm\"}\n```",
			expected: `{"mood": "calm"}`,
		},
		{
			name:     "bare fence stripped",
			input:    "```\n{\"mood\": \"calm\"}\n```",
			expected: `{"mood": "calm"}`,
		},
		{
			name:     "surrounding prose removed",
			input:    "Here is the analysis:\n{\"mood\": \"tense\"}\nHope this helps!",
			expected: `{"mood": "tense"}`,
		},
		{
			name:     "whitespace trimmed",
			input:    "  \n{\"a\": 1}\n  ",
			expected: `{"a": 1}`,
		},
		{
			name:     "no json object left untouched",
			input:    "no structured content",
			expected: "no structured content",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, cleanJSONResponse(tt.input))
		})
	}
}

func TestParseVision(t *testing.T) {
	t.Run("valid payload", func(t *testing.T) {
		analysis := parseVision("```json\n{\"scene_description\": \"a park\", \"main_objects\": [\"tree\", \"bench\"], \"mood\": \"calm\"}\n```")

		assert.Equal(t, "a park", analysis.SceneDescription)
		assert.Equal(t, []string{"tree", "bench"}, analysis.MainObjects)
		assert.Equal(t, "calm", analysis.Mood)
		assert.Empty(t, analysis.Raw)
		assert.False(t, analysis.IsError())
	})

	t.Run("unparseable payload keeps raw text", func(t *testing.T) {
		analysis := parseVision("The frame shows a park with benches.")

		assert.Equal(t, "The frame shows a park with benches.", analysis.Raw)
		assert.Empty(t, analysis.SceneDescription)
		assert.False(t, analysis.IsError())
	})
}
