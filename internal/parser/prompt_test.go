package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindsForDomain(t *testing.T) {
	tests := []struct {
		name   string
		domain Domain
		want   []string
	}{
		{"rules", DomainRules, []string{"create_rule"}},
		{"staff", DomainStaff, []string{"create_staff"}},
		{"schedule", DomainSchedule, []string{"move_session", "cancel_session"}},
		{"unknown falls back to everything", Domain("kitchen"), []string{"create_rule", "create_staff", "move_session", "cancel_session"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, kindsForDomain(tt.domain))
		})
	}
}

func TestBuildPrompt(t *testing.T) {
	prompt := buildPrompt(Request{Transcript: "cancel priya's tuesday nine am", Domain: DomainSchedule})

	assert.Contains(t, prompt, `"cancel priya's tuesday nine am"`)
	assert.Contains(t, prompt, "move_session, cancel_session")
	assert.NotContains(t, prompt, "Allowed kinds: create_rule")
	assert.Contains(t, prompt, "global_warnings")
}
