package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSON_BareObject(t *testing.T) {
	out, err := ExtractJSON(`{"a": 1}`)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a": 1}`, out)
}

func TestExtractJSON_MarkdownFences(t *testing.T) {
	reply := "```json\n{\"chart\": {\"chart_type\": \"bar\"}}\n```"

	out, err := ExtractJSON(reply)
	require.NoError(t, err)
	assert.JSONEq(t, `{"chart": {"chart_type": "bar"}}`, out)
}

func TestExtractJSON_LeadInProse(t *testing.T) {
	reply := `Sure! Here is the specification you asked for:
{"insight": "sales look flat", "suggested_questions": []}
Let me know if you need anything else.`

	out, err := ExtractJSON(reply)
	require.NoError(t, err)
	assert.JSONEq(t, `{"insight": "sales look flat", "suggested_questions": []}`, out)
}

func TestExtractJSON_BracesInsideStrings(t *testing.T) {
	reply := `{"insight": "use {curly} braces \"freely\""}`

	out, err := ExtractJSON(reply)
	require.NoError(t, err)
	assert.Equal(t, reply, out)
}

func TestExtractJSON_NoJSON(t *testing.T) {
	_, err := ExtractJSON("I could not produce a chart for that question.")
	require.Error(t, err)
}

func TestParseJSONReply_Typed(t *testing.T) {
	type answer struct {
		Insight string `json:"insight"`
	}

	got, err := ParseJSONReply[answer]("```\n{\"insight\": \"up and to the right\"}\n```")
	require.NoError(t, err)
	assert.Equal(t, "up and to the right", got.Insight)
}

func TestParseJSONReply_TypeMismatch(t *testing.T) {
	type answer struct {
		Insight []string `json:"insight"`
	}

	_, err := ParseJSONReply[answer](`{"insight": "not a list"}`)
	require.Error(t, err)
}
