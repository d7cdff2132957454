package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestGeminiSchema(t *testing.T) {
	s := geminiSchema(map[string]any{
		"type": "object",
		"properties": map[string]any{
			"summary": map[string]any{"type": "string", "description": "one paragraph"},
			"focus": map[string]any{
				"type":     "array",
				"maxItems": 3,
				"items":    map[string]any{"type": "string"},
			},
			"level": map[string]any{"type": "string", "enum": []any{"low", "high"}},
		},
		"required": []string{"summary"},
	})

	assert.Equal(t, genai.TypeObject, s.Type)
	assert.Equal(t, []string{"summary"}, s.Required)
	require.Contains(t, s.Properties, "focus")
	focus := s.Properties["focus"]
	assert.Equal(t, genai.TypeArray, focus.Type)
	require.NotNil(t, focus.Items)
	assert.Equal(t, genai.TypeString, focus.Items.Type)
	require.NotNil(t, focus.MaxItems)
	assert.Equal(t, int64(3), *focus.MaxItems)
	assert.Equal(t, "one paragraph", s.Properties["summary"].Description)
	assert.Equal(t, []string{"low", "high"}, s.Properties["level"].Enum)
}

func TestResolveModel(t *testing.T) {
	assert.Equal(t, "gemini-2.5-flash", resolveModel("gemini-flash", geminiAliases))
	assert.Equal(t, "gemini-1.5-pro-002", resolveModel("gemini-1.5-pro-002", geminiAliases))
}
