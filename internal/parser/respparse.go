package parser

import (
	"encoding/json"
	"fmt"
	"strings"
)

// cleanMarkdownWrapper strips markdown code fences that models sometimes
// wrap around JSON responses.
func cleanMarkdownWrapper(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```") {
		if idx := strings.Index(content, "\n"); idx != -1 {
			content = content[idx+1:]
		}
		content = strings.TrimSuffix(strings.TrimSpace(content), "```")
	}

	return strings.TrimSpace(content)
}

// parseResponse decodes a provider's text output into a Response,
// clamping confidence scores into [0, 1].
func parseResponse(content string) (Response, error) {
	content = cleanMarkdownWrapper(content)

	var resp Response
	if err := json.Unmarshal([]byte(content), &resp); err != nil {
		return Response{}, fmt.Errorf("failed to parse JSON response: %w", err)
	}

	for i := range resp.Items {
		if resp.Items[i].Kind == "" {
			return Response{}, fmt.Errorf("item %d has no kind", i)
		}
		resp.Items[i].Confidence = clampConfidence(resp.Items[i].Confidence)
	}

	return resp, nil
}

func clampConfidence(score float64) float64 {
	if score < 0.0 {
		return 0.0
	}
	if score > 1.0 {
		return 1.0
	}
	return score
}
