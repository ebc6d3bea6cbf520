package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPayloadValidate(t *testing.T) {
	tests := []struct {
		name    string
		payload CommandPayload
		wantErr string
	}{
		{
			name:    "valid rule",
			payload: RulePayload{Category: "coverage", Description: "no back-to-back closes", Priority: 70},
		},
		{
			name:    "rule without description",
			payload: RulePayload{Category: "coverage", Priority: 70},
			wantErr: "description is required",
		},
		{
			name:    "rule description of only whitespace",
			payload: RulePayload{Description: "   ", Priority: 10},
			wantErr: "description is required",
		},
		{
			name:    "rule priority too high",
			payload: RulePayload{Description: "x", Priority: 101},
			wantErr: "priority must be 0-100",
		},
		{
			name:    "rule priority negative",
			payload: RulePayload{Description: "x", Priority: -1},
			wantErr: "priority must be 0-100",
		},
		{
			name:    "valid staff",
			payload: StaffPayload{Name: "Dana", Role: "barista", WeeklyHours: 32},
		},
		{
			name:    "staff without name",
			payload: StaffPayload{Role: "barista", WeeklyHours: 32},
			wantErr: "name is required",
		},
		{
			name:    "staff hours out of range",
			payload: StaffPayload{Name: "Dana", WeeklyHours: 81},
			wantErr: "hours must be 0-80",
		},
		{
			name:    "valid move with both targets",
			payload: MoveSessionPayload{Staff: "Priya", FromDay: "monday", FromStart: "09:00", ToDay: "tuesday", ToStart: "10:00"},
		},
		{
			name:    "move with only a new time",
			payload: MoveSessionPayload{Staff: "Priya", FromDay: "monday", FromStart: "09:00", ToStart: "11:00"},
		},
		{
			name:    "move without locator",
			payload: MoveSessionPayload{Staff: "Priya", ToDay: "tuesday"},
			wantErr: "current day and start time are required",
		},
		{
			name:    "move without target",
			payload: MoveSessionPayload{Staff: "Priya", FromDay: "monday", FromStart: "09:00"},
			wantErr: "a new day or start time is required",
		},
		{
			name:    "valid cancel",
			payload: CancelSessionPayload{Staff: "Priya", Day: "friday", Start: "14:00"},
		},
		{
			name:    "cancel without day",
			payload: CancelSessionPayload{Staff: "Priya", Start: "14:00"},
			wantErr: "day and start time are required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.payload.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tt.wantErr)
			}
		})
	}
}

func TestPayloadSummary(t *testing.T) {
	tests := []struct {
		name    string
		payload CommandPayload
		want    string
	}{
		{
			name:    "rule with category",
			payload: RulePayload{Category: "coverage", Description: "two openers minimum", Priority: 60},
			want:    "rule [coverage, priority 60]: two openers minimum",
		},
		{
			name:    "rule defaults category",
			payload: RulePayload{Description: "quiet hours after nine", Priority: 20},
			want:    "rule [general, priority 20]: quiet hours after nine",
		},
		{
			name:    "staff",
			payload: StaffPayload{Name: "Dana", Role: "barista", WeeklyHours: 32},
			want:    "add Dana as barista, 32h/week",
		},
		{
			name:    "move carries forward unchanged fields",
			payload: MoveSessionPayload{Staff: "Priya", FromDay: "monday", FromStart: "09:00", ToStart: "11:00"},
			want:    "move Priya's monday 09:00 session to monday 11:00",
		},
		{
			name:    "cancel with reason",
			payload: CancelSessionPayload{Staff: "Priya", Day: "friday", Start: "14:00", Reason: "holiday"},
			want:    "cancel Priya's friday 14:00 session (holiday)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.payload.Summary())
		})
	}
}

func TestPayloadKinds(t *testing.T) {
	assert.Equal(t, KindCreateRule, RulePayload{}.CommandKind())
	assert.Equal(t, KindCreateStaff, StaffPayload{}.CommandKind())
	assert.Equal(t, KindMoveSession, MoveSessionPayload{}.CommandKind())
	assert.Equal(t, KindCancelSession, CancelSessionPayload{}.CommandKind())

	for _, k := range KnownKinds {
		assert.True(t, IsKnownKind(k))
	}
	assert.False(t, IsKnownKind("delete_everything"))
}

func TestBatchHelpers(t *testing.T) {
	batch := &Batch{
		Candidates: []Candidate{
			NewCandidate(Proposal{Kind: KindCreateRule, Payload: RulePayload{Description: "a", Priority: 1}}),
			NewCandidate(Proposal{Kind: KindCreateStaff, Payload: StaffPayload{Name: "Dana"}}),
		},
	}
	batch.Candidates[1].Status = StatusConfirmed

	found := batch.Find(batch.Candidates[0].ID)
	assert.NotNil(t, found)
	assert.Equal(t, KindCreateRule, found.Kind)
	assert.Nil(t, batch.Find("missing"))

	confirmed := batch.Confirmed()
	assert.Len(t, confirmed, 1)
	assert.Equal(t, KindCreateStaff, confirmed[0].Kind)
}
