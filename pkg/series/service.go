package series

import (
	"context"
	"fmt"

	"github.com/kalendo/kalendo/internal/event_bus"
	"github.com/kalendo/kalendo/pkg/caldate"
	"github.com/kalendo/kalendo/pkg/event"
	"github.com/kalendo/kalendo/pkg/recurrence"
	log "github.com/sirupsen/logrus"
)

type Service interface {
	CreateSeries(ctx context.Context, template event.Event) ([]event.Event, error)
	UpdateSeries(ctx context.Context, groupID string, diff Diff) ([]event.Event, error)
	DeleteSeries(ctx context.Context, groupID string) error
}

type ServiceImpl struct {
	repo     event.Repository
	eventBus *event_bus.EventBus
	// maxEndDate is the configured ceiling for recurrence end dates. The
	// expander itself is ceiling-agnostic; the check happens here, before
	// expansion.
	maxEndDate caldate.Date
}

func NewService(repo event.Repository, eventBus *event_bus.EventBus, maxEndDate caldate.Date) *ServiceImpl {
	return &ServiceImpl{repo: repo, eventBus: eventBus, maxEndDate: maxEndDate}
}

// CreateSeries expands the template's recurrence rule into its full date set,
// materializes the group, and stores all occurrences in a single transaction.
// Either the whole group exists afterwards or none of it does.
func (s *ServiceImpl) CreateSeries(ctx context.Context, template event.Event) ([]event.Event, error) {
	if err := s.validateTemplate(template); err != nil {
		return nil, err
	}

	dates := recurrence.ExpandDates(template.Date, template.Repeat.EndDate, template.Repeat.Frequency)
	members, err := Materialize(template, dates)
	if err != nil {
		return nil, err
	}

	err = s.repo.WithTransaction(ctx, func(repo event.Repository) error {
		for _, member := range members {
			if err := repo.StoreEvent(ctx, member); err != nil {
				return fmt.Errorf("failed to store occurrence on %s: %w", member.Date, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	groupID := members[0].Repeat.GroupID
	log.Infof("Materialized recurring group %s with %d occurrences", groupID, len(members))
	s.publish(ctx, event_bus.TypeSeriesCreated, event_bus.SeriesCreated{
		GroupID:     groupID,
		Frequency:   template.Repeat.Frequency.String(),
		Occurrences: len(members),
	})
	return members, nil
}

// UpdateSeries applies a field diff to every stored member of the group. The
// group's date set is never regenerated, even when the diff touches the
// recurrence rule.
func (s *ServiceImpl) UpdateSeries(ctx context.Context, groupID string, diff Diff) ([]event.Event, error) {
	if groupID == "" {
		log.Warn("Group edit requested without a group id")
		return nil, ErrMissingGroupID
	}

	members, err := s.repo.ListEventsByGroup(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to load group %s: %w", groupID, err)
	}
	if len(members) == 0 {
		return nil, ErrGroupNotFound
	}

	updated, _, err := ApplyGroupEdit(groupID, diff, members)
	if err != nil {
		return nil, err
	}
	for _, member := range updated {
		if err := member.Validate(); err != nil {
			return nil, err
		}
	}

	err = s.repo.WithTransaction(ctx, func(repo event.Repository) error {
		for _, member := range updated {
			if err := repo.UpdateEvent(ctx, member); err != nil {
				return fmt.Errorf("failed to update occurrence %s: %w", member.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, event_bus.TypeSeriesUpdated, event_bus.SeriesUpdated{
		GroupID:     groupID,
		Occurrences: len(updated),
	})
	return updated, nil
}

// DeleteSeries removes every stored member of the group.
func (s *ServiceImpl) DeleteSeries(ctx context.Context, groupID string) error {
	if groupID == "" {
		log.Warn("Group delete requested without a group id")
		return ErrMissingGroupID
	}
	removed, err := s.repo.DeleteEventsByGroup(ctx, groupID)
	if err != nil {
		return fmt.Errorf("failed to delete group %s: %w", groupID, err)
	}
	if removed == 0 {
		return ErrGroupNotFound
	}

	log.Infof("Removed recurring group %s (%d occurrences)", groupID, removed)
	s.publish(ctx, event_bus.TypeSeriesRemoved, event_bus.SeriesRemoved{
		GroupID:     groupID,
		Occurrences: removed,
	})
	return nil
}

func (s *ServiceImpl) validateTemplate(template event.Event) error {
	if err := template.Validate(); err != nil {
		return err
	}
	rule := template.Repeat
	if !rule.IsRecurring() {
		return fmt.Errorf("%w: a series requires a recurrence frequency", event.ErrInvalidEvent)
	}
	if rule.EndDate.IsZero() {
		return fmt.Errorf("%w: a series requires a recurrence end date", event.ErrInvalidEvent)
	}
	if rule.EndDate.Before(template.Date) {
		return fmt.Errorf("%w: recurrence end date %s is before start date %s",
			event.ErrInvalidEvent, rule.EndDate, template.Date)
	}
	if !s.maxEndDate.IsZero() && rule.EndDate.After(s.maxEndDate) {
		return fmt.Errorf("%w: recurrence end date %s is after the allowed maximum %s",
			event.ErrInvalidEvent, rule.EndDate, s.maxEndDate)
	}
	if rule.GroupID != "" {
		return fmt.Errorf("%w: a new series must not carry a group id", event.ErrInvalidEvent)
	}
	return nil
}

func (s *ServiceImpl) publish(ctx context.Context, eventType event_bus.EventType, data any) {
	if s.eventBus == nil {
		return
	}
	if err := s.eventBus.Publish(event_bus.NewEvent(ctx, eventType, data)); err != nil {
		log.Errorf("failed to publish %s: %v", eventType, err)
	}
}
