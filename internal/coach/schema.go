package coach

import "github.com/examdesk/examdesk/internal/llm"

// NotesSchema constrains the provider output.
var NotesSchema = llm.MustSchema("study_notes", "Study notes for a finished exam", map[string]any{
	"type": "object",
	"properties": map[string]any{
		"summary": map[string]any{
			"type":        "string",
			"description": "Two to four sentences on how the student did",
		},
		"focus_topics": map[string]any{
			"type":        "array",
			"description": "Topics to revise, most important first",
			"items":       map[string]any{"type": "string"},
			"maxItems":    5,
		},
		"tips": map[string]any{
			"type":        "array",
			"description": "Concrete study tips",
			"items":       map[string]any{"type": "string"},
			"maxItems":    5,
		},
	},
	"required":             []string{"summary", "focus_topics", "tips"},
	"additionalProperties": false,
})

// SampleReply is a valid canned answer, used by the mock provider.
const SampleReply = `{"summary":"You answered most questions on the topics you practised, but lost marks on the harder ones.","focus_topics":["Review the questions you missed"],"tips":["Redo each missed question without looking at the options first","Time yourself on a short practice set"]}`
