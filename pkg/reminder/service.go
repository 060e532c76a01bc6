// Package reminder reports which events are due a notification right now: the
// event is dated today and the current time has entered the window between
// (start time - notification offset) and the start time itself.
package reminder

import (
	"context"
	"fmt"
	"time"

	"github.com/kalendo/kalendo/internal/utils"
	"github.com/kalendo/kalendo/pkg/caldate"
	"github.com/kalendo/kalendo/pkg/event"
)

type Service interface {
	DueReminders(ctx context.Context) ([]event.Event, error)
}

type ServiceImpl struct {
	repo  event.Repository
	clock utils.Clock
}

func NewService(repo event.Repository, clock utils.Clock) *ServiceImpl {
	return &ServiceImpl{repo: repo, clock: clock}
}

// DueReminders returns today's events whose notification window covers the
// current time. Events with a zero notification offset never fire. The result
// keeps the repository's date and start time ordering.
func (s *ServiceImpl) DueReminders(ctx context.Context) ([]event.Event, error) {
	now := s.clock.Now()
	today := caldate.FromTime(now)
	minuteOfDay := now.Hour()*60 + now.Minute()

	all, err := s.repo.ListEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	due := make([]event.Event, 0)
	for _, e := range all {
		if e.Notification <= 0 || e.Date != today {
			continue
		}
		start, err := parseMinutes(e.StartTime)
		if err != nil {
			continue
		}
		if minuteOfDay >= start-e.Notification && minuteOfDay < start {
			due = append(due, e)
		}
	}
	return due, nil
}

func parseMinutes(text string) (int, error) {
	parsed, err := time.Parse("15:04", text)
	if err != nil {
		return 0, err
	}
	return parsed.Hour()*60 + parsed.Minute(), nil
}
