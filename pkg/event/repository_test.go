package event

import (
	"context"
	"errors"
	"testing"

	"github.com/kalendo/kalendo/internal/test_utils"
	"github.com/kalendo/kalendo/pkg/caldate"
	"github.com/kalendo/kalendo/pkg/recurrence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func storedEvent(id, date string) Event {
	return Event{
		ID:           id,
		Title:        "Dentist",
		Date:         caldate.MustParse(date),
		StartTime:    "14:00",
		EndTime:      "15:00",
		Description:  "Checkup",
		Location:     "Main St 1",
		Category:     "health",
		Repeat:       recurrence.NonRecurring(),
		Notification: 30,
	}
}

func TestRepositoryImpl_StoreAndGetEvent(t *testing.T) {
	// given
	db := test_utils.SetupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	t.Run("standalone event round trips", func(t *testing.T) {
		// given
		event := storedEvent("evt-1", "2025-10-01")

		// when
		err := repo.StoreEvent(ctx, event)
		require.NoError(t, err)
		found, err := repo.GetEvent(ctx, "evt-1")

		// then
		require.NoError(t, err)
		assert.Equal(t, event, found)
	})

	t.Run("recurring member round trips with end date and group", func(t *testing.T) {
		// given
		member := storedEvent("evt-2", "2025-10-02")
		member.Repeat = recurrence.Recurring(recurrence.Weekly, caldate.MustParse("2025-12-31")).WithGroup("group-1")

		// when
		err := repo.StoreEvent(ctx, member)
		require.NoError(t, err)
		found, err := repo.GetEvent(ctx, "evt-2")

		// then
		require.NoError(t, err)
		assert.Equal(t, recurrence.Weekly, found.Repeat.Frequency)
		assert.Equal(t, caldate.MustParse("2025-12-31"), found.Repeat.EndDate)
		assert.Equal(t, "group-1", found.Repeat.GroupID)
	})

	t.Run("unknown id", func(t *testing.T) {
		// when
		_, err := repo.GetEvent(ctx, "missing")

		// then
		assert.ErrorIs(t, err, ErrEventNotFound)
	})
}

func TestRepositoryImpl_ListEvents(t *testing.T) {
	// given
	db := test_utils.SetupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	require.NoError(t, repo.StoreEvent(ctx, storedEvent("late", "2025-10-02")))
	earlier := storedEvent("early", "2025-10-01")
	require.NoError(t, repo.StoreEvent(ctx, earlier))
	sameDay := storedEvent("morning", "2025-10-02")
	sameDay.StartTime = "08:00"
	sameDay.EndTime = "09:00"
	require.NoError(t, repo.StoreEvent(ctx, sameDay))

	// when
	events, err := repo.ListEvents(ctx)

	// then
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, "early", events[0].ID)
	assert.Equal(t, "morning", events[1].ID)
	assert.Equal(t, "late", events[2].ID)
}

func TestRepositoryImpl_ListEventsByGroup(t *testing.T) {
	// given
	db := test_utils.SetupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	member := storedEvent("member", "2025-10-01")
	member.Repeat = recurrence.Recurring(recurrence.Daily, caldate.MustParse("2025-10-05")).WithGroup("group-1")
	require.NoError(t, repo.StoreEvent(ctx, member))
	require.NoError(t, repo.StoreEvent(ctx, storedEvent("loner", "2025-10-01")))

	t.Run("returns only members of the group", func(t *testing.T) {
		// when
		events, err := repo.ListEventsByGroup(ctx, "group-1")

		// then
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, "member", events[0].ID)
	})

	t.Run("empty group id matches no standalone event", func(t *testing.T) {
		// standalone rows store NULL, not an empty string
		// when
		events, err := repo.ListEventsByGroup(ctx, "")

		// then
		require.NoError(t, err)
		assert.Empty(t, events)
	})
}

func TestRepositoryImpl_UpdateEvent(t *testing.T) {
	// given
	db := test_utils.SetupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	require.NoError(t, repo.StoreEvent(ctx, storedEvent("evt-1", "2025-10-01")))

	t.Run("rewrites all columns", func(t *testing.T) {
		// given
		changed := storedEvent("evt-1", "2025-10-03")
		changed.Title = "Orthodontist"
		changed.Repeat = recurrence.Recurring(recurrence.Monthly, caldate.MustParse("2025-12-31"))

		// when
		err := repo.UpdateEvent(ctx, changed)

		// then
		require.NoError(t, err)
		found, err := repo.GetEvent(ctx, "evt-1")
		require.NoError(t, err)
		assert.Equal(t, changed, found)
	})

	t.Run("unknown id", func(t *testing.T) {
		// when
		err := repo.UpdateEvent(ctx, storedEvent("missing", "2025-10-01"))

		// then
		assert.ErrorIs(t, err, ErrEventNotFound)
	})
}

func TestRepositoryImpl_DeleteEvents(t *testing.T) {
	// given
	db := test_utils.SetupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	member1 := storedEvent("member-1", "2025-10-01")
	member1.Repeat = recurrence.Recurring(recurrence.Daily, caldate.MustParse("2025-10-02")).WithGroup("group-1")
	member2 := storedEvent("member-2", "2025-10-02")
	member2.Repeat = member1.Repeat
	require.NoError(t, repo.StoreEvent(ctx, member1))
	require.NoError(t, repo.StoreEvent(ctx, member2))
	require.NoError(t, repo.StoreEvent(ctx, storedEvent("loner", "2025-10-01")))

	t.Run("deleting one event leaves its siblings", func(t *testing.T) {
		// when
		err := repo.DeleteEvent(ctx, "member-1")

		// then
		require.NoError(t, err)
		_, err = repo.GetEvent(ctx, "member-1")
		assert.ErrorIs(t, err, ErrEventNotFound)
		_, err = repo.GetEvent(ctx, "member-2")
		assert.NoError(t, err)
	})

	t.Run("deleting by group reports the removed count", func(t *testing.T) {
		// when
		removed, err := repo.DeleteEventsByGroup(ctx, "group-1")

		// then
		require.NoError(t, err)
		assert.Equal(t, 1, removed)
		_, err = repo.GetEvent(ctx, "loner")
		assert.NoError(t, err)
	})

	t.Run("deleting an unknown group removes nothing", func(t *testing.T) {
		// when
		removed, err := repo.DeleteEventsByGroup(ctx, "missing")

		// then
		require.NoError(t, err)
		assert.Zero(t, removed)
	})
}

func TestRepositoryImpl_WithTransaction(t *testing.T) {
	// given
	db := test_utils.SetupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	t.Run("commits when fn succeeds", func(t *testing.T) {
		// when
		err := repo.WithTransaction(ctx, func(txRepo Repository) error {
			if err := txRepo.StoreEvent(ctx, storedEvent("a", "2025-10-01")); err != nil {
				return err
			}
			return txRepo.StoreEvent(ctx, storedEvent("b", "2025-10-02"))
		})

		// then
		require.NoError(t, err)
		events, err := repo.ListEvents(ctx)
		require.NoError(t, err)
		assert.Len(t, events, 2)
	})

	t.Run("rolls back everything when fn fails", func(t *testing.T) {
		// given
		boom := errors.New("boom")

		// when
		err := repo.WithTransaction(ctx, func(txRepo Repository) error {
			if err := txRepo.StoreEvent(ctx, storedEvent("c", "2025-10-03")); err != nil {
				return err
			}
			return boom
		})

		// then
		assert.ErrorIs(t, err, boom)
		_, err = repo.GetEvent(ctx, "c")
		assert.ErrorIs(t, err, ErrEventNotFound)
	})
}
