package engine

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rosterflow/rosterflow/internal/common"
	"github.com/rosterflow/rosterflow/internal/model"
	"github.com/rosterflow/rosterflow/internal/parser"
	"github.com/rosterflow/rosterflow/internal/staging"
	"github.com/rosterflow/rosterflow/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rawItem(t *testing.T, kind string, payload any, confidence float64) parser.Item {
	t.Helper()
	data, err := json.Marshal(payload)
	require.NoError(t, err)
	return parser.Item{Kind: kind, Payload: data, Confidence: confidence}
}

// stepPrompter computes each decision from the snapshot it is shown, so
// scripted steps can reference candidate ids assigned at staging time.
type stepPrompter struct {
	MockPrompter
	steps []func(model.Batch) ReviewDecision
	next  int
}

func (p *stepPrompter) ReviewBatch(_ context.Context, batch model.Batch, _ staging.Counts) (ReviewDecision, error) {
	p.mu.Lock()
	p.snapshots = append(p.snapshots, batch)
	p.mu.Unlock()

	if p.next >= len(p.steps) {
		return ReviewDecision{}, errors.New("out of scripted steps")
	}
	step := p.steps[p.next]
	p.next++
	return step(batch), nil
}

func TestEngine_Dictate(t *testing.T) {
	ctx := context.Background()

	t.Run("parse failure creates no batch", func(t *testing.T) {
		store := testutil.SetupTestDB(t)
		parseErr := &parser.ParseError{Message: "provider unavailable"}
		eng := New(store, NewMockParserError(parseErr), NewMockPrompter())

		err := eng.Dictate(ctx, "add a rule", parser.DomainRules)
		var pe *parser.ParseError
		require.ErrorAs(t, err, &pe)
		assert.False(t, eng.Store().Active())
	})

	t.Run("nothing above the cutoff is unrecognized", func(t *testing.T) {
		store := testutil.SetupTestDB(t)
		resp := parser.Response{Items: []parser.Item{
			rawItem(t, "create_rule", model.RulePayload{Description: "maybe a rule", Priority: 10}, 0.31),
			rawItem(t, "create_staff", model.StaffPayload{Name: "Dana"}, 0.12),
		}}
		eng := New(store, NewMockParser(resp), NewMockPrompter())

		err := eng.Dictate(ctx, "mumble mumble", parser.DomainRules)
		require.ErrorIs(t, err, common.ErrUnrecognized)
		assert.False(t, eng.Store().Active())
	})

	t.Run("low-confidence items are dropped before review", func(t *testing.T) {
		store := testutil.SetupTestDB(t)
		resp := parser.Response{Items: []parser.Item{
			rawItem(t, "create_rule", model.RulePayload{Description: "solid rule", Priority: 50}, 0.88),
			rawItem(t, "create_rule", model.RulePayload{Description: "guess", Priority: 10}, 0.2),
		}}
		prompter := NewMockPrompter(ReviewDecision{Action: ActionCancelAll})
		eng := New(store, NewMockParser(resp), prompter)

		require.NoError(t, eng.Dictate(ctx, "one solid one mumbled", parser.DomainRules))

		snapshots := prompter.Snapshots()
		require.Len(t, snapshots, 1)
		require.Len(t, snapshots[0].Candidates, 1)
		assert.Equal(t, "solid rule", snapshots[0].Candidates[0].Payload.(model.RulePayload).Description)
	})

	t.Run("cutoff is configurable", func(t *testing.T) {
		store := testutil.SetupTestDB(t)
		resp := parser.Response{Items: []parser.Item{
			rawItem(t, "create_rule", model.RulePayload{Description: "solid rule", Priority: 50}, 0.6),
		}}
		eng := NewWithConfig(store, NewMockParser(resp), NewMockPrompter(),
			Config{MinConfidence: 0.9})

		err := eng.Dictate(ctx, "a decent guess", parser.DomainRules)
		require.ErrorIs(t, err, common.ErrUnrecognized)
	})

	t.Run("unknown kinds surface as batch warnings", func(t *testing.T) {
		store := testutil.SetupTestDB(t)
		resp := parser.Response{Items: []parser.Item{
			rawItem(t, "create_rule", model.RulePayload{Description: "keep me", Priority: 50}, 0.9),
			rawItem(t, "summon_manager", map[string]string{"who": "Dana"}, 0.9),
		}}
		prompter := NewMockPrompter(ReviewDecision{Action: ActionCancelAll})
		eng := New(store, NewMockParser(resp), prompter)

		require.NoError(t, eng.Dictate(ctx, "keep one drop one", parser.DomainRules))

		snapshots := prompter.Snapshots()
		require.Len(t, snapshots, 1)
		assert.Len(t, snapshots[0].Candidates, 1)
		assert.NotEmpty(t, snapshots[0].GlobalWarnings)
	})
}

func TestEngine_Review(t *testing.T) {
	ctx := context.Background()

	twoRulesAndStaff := func(t *testing.T) parser.Response {
		return parser.Response{Items: []parser.Item{
			rawItem(t, "create_rule", model.RulePayload{Category: "coverage", Description: "two openers", Priority: 60}, 0.9),
			rawItem(t, "create_rule", model.RulePayload{Category: "coverage", Description: "no double closes", Priority: 70}, 0.85),
			rawItem(t, "create_staff", model.StaffPayload{Name: "Dana", Role: "barista", WeeklyHours: 32}, 0.8),
		}}
	}

	t.Run("confirm all then commit persists everything", func(t *testing.T) {
		store := testutil.SetupTestDB(t)
		prompter := NewMockPrompter(
			ReviewDecision{Action: ActionConfirmAll},
			ReviewDecision{Action: ActionCommit},
		)
		eng := New(store, NewMockParser(twoRulesAndStaff(t)), prompter)

		require.NoError(t, eng.Dictate(ctx, "set up the basics", parser.DomainRules))
		assert.False(t, eng.Store().Active())

		rules, err := store.GetRules(ctx)
		require.NoError(t, err)
		assert.Len(t, rules, 2)
		staff, err := store.GetStaff(ctx)
		require.NoError(t, err)
		assert.Len(t, staff, 1)

		results := prompter.Results()
		require.Len(t, results, 1)
		assert.Len(t, results[0].Succeeded, 3)
		assert.Empty(t, results[0].Failed)
	})

	t.Run("reject one then confirm all commits the rest", func(t *testing.T) {
		store := testutil.SetupTestDB(t)
		prompter := &stepPrompter{steps: []func(model.Batch) ReviewDecision{
			func(b model.Batch) ReviewDecision {
				return ReviewDecision{Action: ActionReject, CandidateID: b.Candidates[1].ID}
			},
			func(model.Batch) ReviewDecision { return ReviewDecision{Action: ActionConfirmAll} },
			func(model.Batch) ReviewDecision { return ReviewDecision{Action: ActionCommit} },
		}}
		eng := New(store, NewMockParser(twoRulesAndStaff(t)), prompter)

		require.NoError(t, eng.Dictate(ctx, "set up the basics", parser.DomainRules))

		rules, err := store.GetRules(ctx)
		require.NoError(t, err)
		require.Len(t, rules, 1)
		assert.Equal(t, "two openers", rules[0].Description)

		results := prompter.Results()
		require.Len(t, results, 1)
		assert.Len(t, results[0].Succeeded, 2)
	})

	t.Run("edit replaces the payload before commit", func(t *testing.T) {
		store := testutil.SetupTestDB(t)
		edited := model.RulePayload{Category: "coverage", Description: "three openers", Priority: 95}
		prompter := &stepPrompter{steps: []func(model.Batch) ReviewDecision{
			func(b model.Batch) ReviewDecision {
				return ReviewDecision{Action: ActionEdit, CandidateID: b.Candidates[0].ID, Payload: edited}
			},
			func(model.Batch) ReviewDecision { return ReviewDecision{Action: ActionConfirmAll} },
			func(model.Batch) ReviewDecision { return ReviewDecision{Action: ActionCommit} },
		}}
		resp := parser.Response{Items: []parser.Item{
			rawItem(t, "create_rule", model.RulePayload{Category: "coverage", Description: "two openers", Priority: 60}, 0.9),
		}}
		eng := New(store, NewMockParser(resp), prompter)

		require.NoError(t, eng.Dictate(ctx, "two openers minimum", parser.DomainRules))

		rules, err := store.GetRules(ctx)
		require.NoError(t, err)
		require.Len(t, rules, 1)
		assert.Equal(t, "three openers", rules[0].Description)
		assert.Equal(t, 95, rules[0].Priority)
	})

	t.Run("abandoned edit leaves the original payload", func(t *testing.T) {
		store := testutil.SetupTestDB(t)
		prompter := &stepPrompter{steps: []func(model.Batch) ReviewDecision{
			func(b model.Batch) ReviewDecision {
				return ReviewDecision{Action: ActionEdit, CandidateID: b.Candidates[0].ID}
			},
			func(model.Batch) ReviewDecision { return ReviewDecision{Action: ActionConfirmAll} },
			func(model.Batch) ReviewDecision { return ReviewDecision{Action: ActionCommit} },
		}}
		resp := parser.Response{Items: []parser.Item{
			rawItem(t, "create_rule", model.RulePayload{Category: "coverage", Description: "two openers", Priority: 60}, 0.9),
		}}
		eng := New(store, NewMockParser(resp), prompter)

		require.NoError(t, eng.Dictate(ctx, "two openers minimum", parser.DomainRules))

		rules, err := store.GetRules(ctx)
		require.NoError(t, err)
		require.Len(t, rules, 1)
		assert.Equal(t, "two openers", rules[0].Description)
	})

	t.Run("cancel all persists nothing", func(t *testing.T) {
		store := testutil.SetupTestDB(t)
		prompter := NewMockPrompter(ReviewDecision{Action: ActionCancelAll})
		eng := New(store, NewMockParser(twoRulesAndStaff(t)), prompter)

		require.NoError(t, eng.Dictate(ctx, "never mind", parser.DomainRules))
		assert.False(t, eng.Store().Active())

		rules, err := store.GetRules(ctx)
		require.NoError(t, err)
		assert.Empty(t, rules)
	})

	t.Run("commit with nothing confirmed shows a message", func(t *testing.T) {
		store := testutil.SetupTestDB(t)
		prompter := NewMockPrompter(
			ReviewDecision{Action: ActionCommit},
			ReviewDecision{Action: ActionCancelAll},
		)
		eng := New(store, NewMockParser(twoRulesAndStaff(t)), prompter)

		require.NoError(t, eng.Dictate(ctx, "set up the basics", parser.DomainRules))
		assert.Contains(t, prompter.Messages(), "Nothing confirmed to apply.")
	})

	t.Run("retry after partial failure resubmits only the failed", func(t *testing.T) {
		store := testutil.SetupTestDB(t)
		resp := parser.Response{Items: []parser.Item{
			rawItem(t, "create_staff", model.StaffPayload{Name: "Dana", WeeklyHours: 32}, 0.9),
			rawItem(t, "cancel_session", model.CancelSessionPayload{Staff: "Priya", Day: "tuesday", Start: "09:00"}, 0.9),
		}}
		prompter := &stepPrompter{steps: []func(model.Batch) ReviewDecision{
			func(model.Batch) ReviewDecision { return ReviewDecision{Action: ActionConfirmAll} },
			func(model.Batch) ReviewDecision { return ReviewDecision{Action: ActionCommit} },
			// First pass: staff create succeeds, the cancel fails because
			// no such session exists. Retry the remainder, then give up.
			func(model.Batch) ReviewDecision { return ReviewDecision{Action: ActionCommit} },
			func(model.Batch) ReviewDecision { return ReviewDecision{Action: ActionCancelAll} },
		}}
		eng := New(store, NewMockParser(resp), prompter)

		require.NoError(t, eng.Dictate(ctx, "add dana and cancel priya's tuesday", parser.DomainSchedule))

		results := prompter.Results()
		require.Len(t, results, 2)
		assert.Len(t, results[0].Succeeded, 1)
		assert.Len(t, results[0].Failed, 1)

		// Second pass attempts only the failed cancel; Dana is excluded,
		// so no duplicate-name error shows up.
		assert.Equal(t, 1, results[1].Attempted())
		assert.Empty(t, results[1].Succeeded)
		require.Len(t, results[1].Failed, 1)
		assert.Equal(t, model.KindCancelSession, results[1].Failed[0].Candidate.Kind)

		staff, err := store.GetStaff(ctx)
		require.NoError(t, err)
		assert.Len(t, staff, 1)
	})
}

func TestEngine_AutoAccept(t *testing.T) {
	ctx := context.Background()

	t.Run("commits everything without review", func(t *testing.T) {
		store := testutil.SetupTestDB(t)
		resp := parser.Response{Items: []parser.Item{
			rawItem(t, "create_rule", model.RulePayload{Description: "auto rule", Priority: 30}, 0.9),
			rawItem(t, "create_staff", model.StaffPayload{Name: "Dana", WeeklyHours: 20}, 0.8),
		}}
		prompter := NewMockPrompter()
		eng := NewWithConfig(store, NewMockParser(resp), prompter, Config{AutoAccept: true})

		require.NoError(t, eng.Dictate(ctx, "auto apply these", parser.DomainRules))
		assert.False(t, eng.Store().Active())
		assert.Empty(t, prompter.Snapshots())

		rules, err := store.GetRules(ctx)
		require.NoError(t, err)
		assert.Len(t, rules, 1)
	})

	t.Run("partial failure keeps the batch and reports an error", func(t *testing.T) {
		store := testutil.SetupTestDB(t)
		resp := parser.Response{Items: []parser.Item{
			rawItem(t, "create_rule", model.RulePayload{Description: "auto rule", Priority: 30}, 0.9),
			rawItem(t, "cancel_session", model.CancelSessionPayload{Staff: "Priya", Day: "tuesday", Start: "09:00"}, 0.9),
		}}
		prompter := NewMockPrompter()
		eng := NewWithConfig(store, NewMockParser(resp), prompter, Config{AutoAccept: true})

		err := eng.Dictate(ctx, "auto apply these", parser.DomainSchedule)
		require.Error(t, err)
		var userErr *common.UserError
		assert.ErrorAs(t, err, &userErr)

		// Batch left in place so the failure can be inspected.
		assert.True(t, eng.Store().Active())

		results := prompter.Results()
		require.Len(t, results, 1)
		assert.Len(t, results[0].Failed, 1)
	})
}
