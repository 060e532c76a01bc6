package reminder

import (
	"context"
	"testing"
	"time"

	"github.com/kalendo/kalendo/internal/utils"
	"github.com/kalendo/kalendo/pkg/caldate"
	"github.com/kalendo/kalendo/pkg/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedEvent(t *testing.T, repo event.Repository, id, date, start string, notification int) {
	t.Helper()
	err := repo.StoreEvent(context.Background(), event.Event{
		ID:           id,
		Title:        "Event " + id,
		Date:         caldate.MustParse(date),
		StartTime:    start,
		EndTime:      "23:59",
		Notification: notification,
	})
	require.NoError(t, err)
}

func TestServiceImpl_DueReminders(t *testing.T) {
	ctx := context.Background()
	// 2025-10-01 13:50
	clock := &utils.MockClock{FixedNow: time.Date(2025, 10, 1, 13, 50, 0, 0, time.UTC)}

	t.Run("event inside its notification window is due", func(t *testing.T) {
		// given
		repo := event.NewRepositoryStub()
		seedEvent(t, repo, "soon", "2025-10-01", "14:00", 15)
		service := NewService(repo, clock)

		// when
		due, err := service.DueReminders(ctx)

		// then
		require.NoError(t, err)
		require.Len(t, due, 1)
		assert.Equal(t, "soon", due[0].ID)
	})

	t.Run("window has not opened yet", func(t *testing.T) {
		// given: 14:30 start with a 15 minute offset opens at 14:15
		repo := event.NewRepositoryStub()
		seedEvent(t, repo, "later", "2025-10-01", "14:30", 15)
		service := NewService(repo, clock)

		// when
		due, err := service.DueReminders(ctx)

		// then
		require.NoError(t, err)
		assert.Empty(t, due)
	})

	t.Run("already started events are not due", func(t *testing.T) {
		// given
		repo := event.NewRepositoryStub()
		seedEvent(t, repo, "started", "2025-10-01", "13:45", 30)
		service := NewService(repo, clock)

		// when
		due, err := service.DueReminders(ctx)

		// then
		require.NoError(t, err)
		assert.Empty(t, due)
	})

	t.Run("zero offset never fires", func(t *testing.T) {
		// given
		repo := event.NewRepositoryStub()
		seedEvent(t, repo, "silent", "2025-10-01", "14:00", 0)
		service := NewService(repo, clock)

		// when
		due, err := service.DueReminders(ctx)

		// then
		require.NoError(t, err)
		assert.Empty(t, due)
	})

	t.Run("other dates are ignored", func(t *testing.T) {
		// given
		repo := event.NewRepositoryStub()
		seedEvent(t, repo, "tomorrow", "2025-10-02", "14:00", 15)
		service := NewService(repo, clock)

		// when
		due, err := service.DueReminders(ctx)

		// then
		require.NoError(t, err)
		assert.Empty(t, due)
	})

	t.Run("window edge: exactly at start minus offset", func(t *testing.T) {
		// given: 14:05 start, 15 minute offset, window opens 13:50
		repo := event.NewRepositoryStub()
		seedEvent(t, repo, "edge", "2025-10-01", "14:05", 15)
		service := NewService(repo, clock)

		// when
		due, err := service.DueReminders(ctx)

		// then
		require.NoError(t, err)
		require.Len(t, due, 1)
		assert.Equal(t, "edge", due[0].ID)
	})
}
