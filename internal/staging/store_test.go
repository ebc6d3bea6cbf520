package staging

import (
	"testing"

	"github.com/rosterflow/rosterflow/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProposals() []model.Proposal {
	return []model.Proposal{
		{
			Kind:       model.KindCreateRule,
			Payload:    model.RulePayload{Category: "coverage", Description: "no double closing shifts", Priority: 80},
			Confidence: 0.92,
		},
		{
			Kind:       model.KindCreateRule,
			Payload:    model.RulePayload{Category: "coverage", Description: "two staff minimum on weekends", Priority: 50},
			Confidence: 0.71,
			Warnings:   []string{"priority defaulted to 50"},
		},
		{
			Kind:       model.KindCancelSession,
			Payload:    model.CancelSessionPayload{Staff: "Priya", Day: "tuesday", Start: "09:00"},
			Confidence: 0.64,
		},
	}
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store := NewStore()
	require.NoError(t, store.Begin("test transcript", nil, testProposals()))
	return store
}

func candidateIDs(store *Store) []string {
	snap, _ := store.Snapshot()
	ids := make([]string, len(snap.Candidates))
	for i, c := range snap.Candidates {
		ids[i] = c.ID
	}
	return ids
}

func TestStore_Begin(t *testing.T) {
	t.Run("creates pending candidates in parser order", func(t *testing.T) {
		store := newTestStore(t)

		snap, ok := store.Snapshot()
		require.True(t, ok)
		assert.Equal(t, "test transcript", snap.Transcript)
		require.Len(t, snap.Candidates, 3)

		for _, c := range snap.Candidates {
			assert.Equal(t, model.StatusPending, c.Status)
			assert.NotEmpty(t, c.ID)
		}
		assert.Equal(t, model.KindCreateRule, snap.Candidates[0].Kind)
		assert.Equal(t, model.KindCancelSession, snap.Candidates[2].Kind)
	})

	t.Run("refuses an empty parse result", func(t *testing.T) {
		store := NewStore()
		err := store.Begin("mumbling", nil, nil)
		require.ErrorIs(t, err, ErrEmptyBatch)
		assert.False(t, store.Active())
	})

	t.Run("replaces an uncommitted batch", func(t *testing.T) {
		store := newTestStore(t)
		oldIDs := candidateIDs(store)

		require.NoError(t, store.Begin("second try", nil, testProposals()[:1]))

		snap, _ := store.Snapshot()
		assert.Equal(t, "second try", snap.Transcript)
		require.Len(t, snap.Candidates, 1)
		assert.NotContains(t, oldIDs, snap.Candidates[0].ID)
	})

	t.Run("assigns unique ids", func(t *testing.T) {
		store := newTestStore(t)
		ids := candidateIDs(store)
		seen := make(map[string]bool)
		for _, id := range ids {
			assert.False(t, seen[id])
			seen[id] = true
		}
	})
}

func TestStore_Transitions(t *testing.T) {
	tests := []struct {
		name      string
		setup     func(*testing.T, *Store, string)
		op        func(*Store, string) error
		wantState model.CandidateStatus
		wantErr   bool
	}{
		{
			name:      "confirm pending",
			op:        (*Store).Confirm,
			wantState: model.StatusConfirmed,
		},
		{
			name:      "reject pending",
			op:        (*Store).Reject,
			wantState: model.StatusRejected,
		},
		{
			name:      "start edit on pending",
			op:        (*Store).StartEdit,
			wantState: model.StatusEditing,
		},
		{
			name: "confirm a rejected candidate fails",
			setup: func(t *testing.T, s *Store, id string) {
				require.NoError(t, s.Reject(id))
			},
			op:        (*Store).Confirm,
			wantState: model.StatusRejected,
			wantErr:   true,
		},
		{
			name: "reject a confirmed candidate fails",
			setup: func(t *testing.T, s *Store, id string) {
				require.NoError(t, s.Confirm(id))
			},
			op:        (*Store).Reject,
			wantState: model.StatusConfirmed,
			wantErr:   true,
		},
		{
			name: "confirm while editing fails",
			setup: func(t *testing.T, s *Store, id string) {
				require.NoError(t, s.StartEdit(id))
			},
			op:        (*Store).Confirm,
			wantState: model.StatusEditing,
			wantErr:   true,
		},
		{
			name: "start edit on confirmed fails",
			setup: func(t *testing.T, s *Store, id string) {
				require.NoError(t, s.Confirm(id))
			},
			op:        (*Store).StartEdit,
			wantState: model.StatusConfirmed,
			wantErr:   true,
		},
		{
			name:      "cancel edit without edit in progress fails",
			op:        (*Store).CancelEdit,
			wantState: model.StatusPending,
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newTestStore(t)
			id := candidateIDs(store)[0]

			if tt.setup != nil {
				tt.setup(t, store, id)
			}

			err := tt.op(store, id)
			if tt.wantErr {
				var stateErr *StateError
				require.ErrorAs(t, err, &stateErr)
			} else {
				require.NoError(t, err)
			}

			snap, _ := store.Snapshot()
			assert.Equal(t, tt.wantState, snap.Candidates[0].Status)
		})
	}
}

func TestStore_UnknownCandidate(t *testing.T) {
	store := newTestStore(t)

	var stateErr *StateError
	require.ErrorAs(t, store.Confirm("nope"), &stateErr)
	assert.Equal(t, "confirm", stateErr.Op)
}

func TestStore_EditRoundTrip(t *testing.T) {
	t.Run("cancel edit restores the prior payload", func(t *testing.T) {
		store := newTestStore(t)
		id := candidateIDs(store)[0]

		before, _ := store.Snapshot()
		original := before.Candidates[0].Payload

		require.NoError(t, store.StartEdit(id))
		require.NoError(t, store.CancelEdit(id))

		after, _ := store.Snapshot()
		assert.Equal(t, model.StatusPending, after.Candidates[0].Status)
		assert.Equal(t, original, after.Candidates[0].Payload)
	})

	t.Run("save edit replaces payload and returns to pending", func(t *testing.T) {
		store := newTestStore(t)
		ids := candidateIDs(store)

		newPayload := model.RulePayload{Category: "coverage", Description: "edited rule", Priority: 90}
		require.NoError(t, store.StartEdit(ids[0]))
		require.NoError(t, store.SaveEdit(ids[0], newPayload))

		snap, _ := store.Snapshot()
		assert.Equal(t, model.StatusPending, snap.Candidates[0].Status)
		assert.Equal(t, newPayload, snap.Candidates[0].Payload)

		// Sibling candidates are untouched.
		assert.Equal(t, model.StatusPending, snap.Candidates[1].Status)
		assert.Equal(t, testProposals()[1].Payload, snap.Candidates[1].Payload)
	})

	t.Run("save edit rejects a payload of the wrong kind", func(t *testing.T) {
		store := newTestStore(t)
		id := candidateIDs(store)[0]

		require.NoError(t, store.StartEdit(id))
		err := store.SaveEdit(id, model.StaffPayload{Name: "Dana"})
		require.Error(t, err)

		// Still editing; the bad payload was not applied.
		snap, _ := store.Snapshot()
		assert.Equal(t, model.StatusEditing, snap.Candidates[0].Status)
	})
}

func TestStore_ConfirmAllPending(t *testing.T) {
	t.Run("skips rejected and editing candidates", func(t *testing.T) {
		store := newTestStore(t)
		ids := candidateIDs(store)

		require.NoError(t, store.Reject(ids[1]))
		require.NoError(t, store.StartEdit(ids[2]))
		require.NoError(t, store.ConfirmAllPending())

		snap, _ := store.Snapshot()
		assert.Equal(t, model.StatusConfirmed, snap.Candidates[0].Status)
		assert.Equal(t, model.StatusRejected, snap.Candidates[1].Status)
		assert.Equal(t, model.StatusEditing, snap.Candidates[2].Status)
	})

	t.Run("reject one then confirm all", func(t *testing.T) {
		store := newTestStore(t)
		ids := candidateIDs(store)

		require.NoError(t, store.Reject(ids[1]))
		require.NoError(t, store.ConfirmAllPending())

		snap, _ := store.Snapshot()
		assert.Equal(t, model.StatusConfirmed, snap.Candidates[0].Status)
		assert.Equal(t, model.StatusRejected, snap.Candidates[1].Status)
		assert.Equal(t, model.StatusConfirmed, snap.Candidates[2].Status)
		assert.Equal(t, 2, store.Counts().Confirmed)
	})

	t.Run("is idempotent", func(t *testing.T) {
		store := newTestStore(t)

		require.NoError(t, store.ConfirmAllPending())
		first, _ := store.Snapshot()

		require.NoError(t, store.ConfirmAllPending())
		second, _ := store.Snapshot()

		assert.Equal(t, first, second)
	})
}

func TestStore_Counts(t *testing.T) {
	store := newTestStore(t)
	ids := candidateIDs(store)

	assert.Equal(t, Counts{Pending: 3}, store.Counts())

	require.NoError(t, store.Confirm(ids[0]))
	require.NoError(t, store.Reject(ids[1]))
	require.NoError(t, store.StartEdit(ids[2]))

	counts := store.Counts()
	assert.Equal(t, Counts{Pending: 0, Editing: 1, Confirmed: 1, Rejected: 1}, counts)
	assert.Equal(t, 3, counts.Total())
}

func TestStore_Clear(t *testing.T) {
	store := newTestStore(t)
	ids := candidateIDs(store)

	require.NoError(t, store.Confirm(ids[0]))
	require.NoError(t, store.Clear())
	assert.False(t, store.Active())

	// Every mutator on the old ids now fails.
	var stateErr *StateError
	require.ErrorAs(t, store.Confirm(ids[0]), &stateErr)
	require.ErrorAs(t, store.Reject(ids[1]), &stateErr)
	require.ErrorAs(t, store.StartEdit(ids[2]), &stateErr)
	require.ErrorAs(t, store.ConfirmAllPending(), &stateErr)
	require.ErrorAs(t, store.Clear(), &stateErr)

	_, ok := store.Snapshot()
	assert.False(t, ok)
	assert.Equal(t, Counts{}, store.Counts())
}

func TestStore_SnapshotIsIsolated(t *testing.T) {
	store := newTestStore(t)

	snap, _ := store.Snapshot()
	snap.Candidates[0].Status = model.StatusRejected

	fresh, _ := store.Snapshot()
	assert.Equal(t, model.StatusPending, fresh.Candidates[0].Status)
}
