package storage

import (
	"context"
	"testing"

	"github.com/rosterflow/rosterflow/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateStaff(t *testing.T) {
	ctx := context.Background()

	t.Run("persists and reads back", func(t *testing.T) {
		store := newTestStorage(t)

		member, err := store.CreateStaff(ctx, model.StaffPayload{
			Name:        "Dana",
			Role:        "barista",
			WeeklyHours: 32,
		})
		require.NoError(t, err)
		assert.NotZero(t, member.ID)
		assert.Equal(t, "Dana", member.Name)
		assert.Equal(t, "barista", member.Role)
		assert.Equal(t, 32, member.WeeklyHours)
	})

	t.Run("rejects a duplicate name case-insensitively", func(t *testing.T) {
		store := newTestStorage(t)

		_, err := store.CreateStaff(ctx, model.StaffPayload{Name: "Dana", WeeklyHours: 32})
		require.NoError(t, err)

		_, err = store.CreateStaff(ctx, model.StaffPayload{Name: "dana", WeeklyHours: 20})
		var valErr *ValidationError
		require.ErrorAs(t, err, &valErr)
		assert.Equal(t, "name", valErr.Field)
		assert.Contains(t, valErr.Message, "already exists")
	})

	t.Run("rejects invalid payloads", func(t *testing.T) {
		store := newTestStorage(t)

		_, err := store.CreateStaff(ctx, model.StaffPayload{WeeklyHours: 10})
		var valErr *ValidationError
		require.ErrorAs(t, err, &valErr)
		assert.Equal(t, "name", valErr.Field)

		_, err = store.CreateStaff(ctx, model.StaffPayload{Name: "Dana", WeeklyHours: 200})
		require.ErrorAs(t, err, &valErr)
		assert.Equal(t, "weekly_hours", valErr.Field)
	})
}

func TestGetStaff(t *testing.T) {
	ctx := context.Background()
	store := newTestStorage(t)

	for _, payload := range []model.StaffPayload{
		{Name: "Priya", Role: "manager", WeeklyHours: 40},
		{Name: "Dana", Role: "barista", WeeklyHours: 32},
	} {
		_, err := store.CreateStaff(ctx, payload)
		require.NoError(t, err)
	}

	t.Run("lists ordered by name", func(t *testing.T) {
		members, err := store.GetStaff(ctx)
		require.NoError(t, err)
		require.Len(t, members, 2)
		assert.Equal(t, "Dana", members[0].Name)
		assert.Equal(t, "Priya", members[1].Name)
	})

	t.Run("finds by name ignoring case and padding", func(t *testing.T) {
		member, err := store.GetStaffByName(ctx, "  priya ")
		require.NoError(t, err)
		require.NotNil(t, member)
		assert.Equal(t, "Priya", member.Name)
	})

	t.Run("returns nil for an unknown name", func(t *testing.T) {
		member, err := store.GetStaffByName(ctx, "nobody")
		require.NoError(t, err)
		assert.Nil(t, member)
	})
}
