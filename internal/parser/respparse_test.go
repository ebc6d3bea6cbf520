package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanMarkdownWrapper(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "plain JSON untouched",
			content: `{"items": []}`,
			want:    `{"items": []}`,
		},
		{
			name:    "json fence",
			content: "```json\n{\"items\": []}\n```",
			want:    `{"items": []}`,
		},
		{
			name:    "bare fence",
			content: "```\n{\"items\": []}\n```",
			want:    `{"items": []}`,
		},
		{
			name:    "surrounding whitespace",
			content: "  \n```json\n{\"items\": []}\n```\n  ",
			want:    `{"items": []}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanMarkdownWrapper(tt.content))
		})
	}
}

func TestParseResponse(t *testing.T) {
	t.Run("decodes items and warnings", func(t *testing.T) {
		content := `{
			"items": [
				{
					"kind": "create_rule",
					"payload": {"category": "coverage", "description": "two openers", "priority": 60},
					"confidence": 0.92,
					"warnings": ["assumed category coverage"]
				},
				{
					"kind": "cancel_session",
					"payload": {"staff": "Priya", "day": "tuesday", "start": "09:00"},
					"confidence": 0.7
				}
			],
			"global_warnings": ["audio quality was poor"]
		}`

		resp, err := parseResponse(content)
		require.NoError(t, err)
		require.Len(t, resp.Items, 2)
		assert.Equal(t, "create_rule", resp.Items[0].Kind)
		assert.Equal(t, 0.92, resp.Items[0].Confidence)
		assert.Equal(t, []string{"assumed category coverage"}, resp.Items[0].Warnings)
		assert.Equal(t, []string{"audio quality was poor"}, resp.GlobalWarnings)
	})

	t.Run("strips a markdown fence first", func(t *testing.T) {
		content := "```json\n{\"items\": [{\"kind\": \"create_staff\", \"payload\": {\"name\": \"Dana\"}, \"confidence\": 0.8}]}\n```"

		resp, err := parseResponse(content)
		require.NoError(t, err)
		require.Len(t, resp.Items, 1)
		assert.Equal(t, "create_staff", resp.Items[0].Kind)
	})

	t.Run("clamps out-of-range confidence", func(t *testing.T) {
		content := `{"items": [
			{"kind": "create_rule", "payload": {}, "confidence": 1.7},
			{"kind": "create_rule", "payload": {}, "confidence": -0.3}
		]}`

		resp, err := parseResponse(content)
		require.NoError(t, err)
		assert.Equal(t, 1.0, resp.Items[0].Confidence)
		assert.Equal(t, 0.0, resp.Items[1].Confidence)
	})

	t.Run("rejects an item without a kind", func(t *testing.T) {
		content := `{"items": [{"payload": {}, "confidence": 0.9}]}`

		_, err := parseResponse(content)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no kind")
	})

	t.Run("rejects malformed JSON", func(t *testing.T) {
		_, err := parseResponse("the user wants to add a rule")
		require.Error(t, err)
	})
}
