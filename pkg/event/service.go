package event

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/kalendo/kalendo/internal/event_bus"
	log "github.com/sirupsen/logrus"
)

type Service interface {
	ListEvents(ctx context.Context) ([]Event, error)
	GetEvent(ctx context.Context, id string) (Event, error)
	CreateEvent(ctx context.Context, event Event) (Event, error)
	UpdateEvent(ctx context.Context, event Event) (Event, error)
	DeleteEvent(ctx context.Context, id string) error
	FindOverlaps(ctx context.Context, candidate Event) ([]Event, error)
}

type ServiceImpl struct {
	repo     Repository
	eventBus *event_bus.EventBus
}

func NewService(repo Repository, eventBus *event_bus.EventBus) *ServiceImpl {
	return &ServiceImpl{repo: repo, eventBus: eventBus}
}

func (s *ServiceImpl) ListEvents(ctx context.Context) ([]Event, error) {
	return s.repo.ListEvents(ctx)
}

func (s *ServiceImpl) GetEvent(ctx context.Context, id string) (Event, error) {
	return s.repo.GetEvent(ctx, id)
}

// CreateEvent stores a single standalone event. Recurring series are
// materialized through the series service, never here.
func (s *ServiceImpl) CreateEvent(ctx context.Context, event Event) (Event, error) {
	if err := event.Validate(); err != nil {
		return Event{}, err
	}
	if event.Repeat.IsRecurring() {
		return Event{}, fmt.Errorf("%w: recurring events are created as a series", ErrInvalidEvent)
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if err := s.repo.StoreEvent(ctx, event); err != nil {
		return Event{}, fmt.Errorf("failed to store event: %w", err)
	}

	s.publish(ctx, event_bus.TypeEventCreated, event_bus.EventCreated{
		ID:    event.ID,
		Title: event.Title,
		Date:  event.Date.String(),
	})
	return event, nil
}

// UpdateEvent rewrites a single stored event. When the stored event belongs to
// a recurring group, the edit detaches it: the updated row becomes a
// standalone event and the rest of the group is left untouched. A single
// update can never attach an event to a group.
func (s *ServiceImpl) UpdateEvent(ctx context.Context, event Event) (Event, error) {
	if err := event.Validate(); err != nil {
		return Event{}, err
	}
	existing, err := s.repo.GetEvent(ctx, event.ID)
	if err != nil {
		return Event{}, err
	}

	detached := false
	if existing.Repeat.InGroup() {
		log.Debugf("Editing one member of group %s detaches event %s", existing.Repeat.GroupID, event.ID)
		event = event.Detached()
		detached = true
	} else {
		event.Repeat.GroupID = ""
	}

	if err := s.repo.UpdateEvent(ctx, event); err != nil {
		return Event{}, err
	}

	s.publish(ctx, event_bus.TypeEventUpdated, event_bus.EventUpdated{ID: event.ID, Detached: detached})
	return event, nil
}

// DeleteEvent removes one event. Sibling members of the same group are not
// affected.
func (s *ServiceImpl) DeleteEvent(ctx context.Context, id string) error {
	if err := s.repo.DeleteEvent(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, event_bus.TypeEventDeleted, event_bus.EventDeleted{ID: id})
	return nil
}

// FindOverlaps returns the stored events colliding with the candidate's date
// and time interval. Used by the client to decide whether to ask the user for
// confirmation before saving.
func (s *ServiceImpl) FindOverlaps(ctx context.Context, candidate Event) ([]Event, error) {
	existing, err := s.repo.ListEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return FindOverlaps(candidate, existing), nil
}

func (s *ServiceImpl) publish(ctx context.Context, eventType event_bus.EventType, data any) {
	if s.eventBus == nil {
		return
	}
	if err := s.eventBus.Publish(event_bus.NewEvent(ctx, eventType, data)); err != nil {
		log.Errorf("failed to publish %s: %v", eventType, err)
	}
}
