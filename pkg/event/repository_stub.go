package event

import (
	"context"
	"sort"
	"sync"
)

// RepositoryStub is an in-memory Repository for service and handler tests.
type RepositoryStub struct {
	mu     sync.RWMutex
	events map[string]Event
	order  int
	seq    map[string]int // insertion order, for stable listings
}

func NewRepositoryStub() *RepositoryStub {
	return &RepositoryStub{
		events: make(map[string]Event),
		seq:    make(map[string]int),
	}
}

func (r *RepositoryStub) WithTransaction(ctx context.Context, fn func(repo Repository) error) error {
	r.mu.Lock()
	snapshot := make(map[string]Event, len(r.events))
	for id, e := range r.events {
		snapshot[id] = e
	}
	seqSnapshot := make(map[string]int, len(r.seq))
	for id, n := range r.seq {
		seqSnapshot[id] = n
	}
	order := r.order
	r.mu.Unlock()

	if err := fn(r); err != nil {
		r.mu.Lock()
		r.events = snapshot
		r.seq = seqSnapshot
		r.order = order
		r.mu.Unlock()
		return err
	}
	return nil
}

func (r *RepositoryStub) StoreEvent(ctx context.Context, event Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events[event.ID] = event
	r.seq[event.ID] = r.order
	r.order++
	return nil
}

func (r *RepositoryStub) GetEvent(ctx context.Context, id string) (Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	event, ok := r.events[id]
	if !ok {
		return Event{}, ErrEventNotFound
	}
	return event, nil
}

func (r *RepositoryStub) ListEvents(ctx context.Context) ([]Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sorted(func(Event) bool { return true }), nil
}

func (r *RepositoryStub) ListEventsByGroup(ctx context.Context, groupID string) ([]Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if groupID == "" {
		// standalone events store no group at all; an empty key matches nothing
		return []Event{}, nil
	}
	return r.sorted(func(e Event) bool { return e.Repeat.GroupID == groupID }), nil
}

func (r *RepositoryStub) UpdateEvent(ctx context.Context, event Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.events[event.ID]; !ok {
		return ErrEventNotFound
	}
	r.events[event.ID] = event
	return nil
}

func (r *RepositoryStub) DeleteEvent(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.events[id]; !ok {
		return ErrEventNotFound
	}
	delete(r.events, id)
	delete(r.seq, id)
	return nil
}

func (r *RepositoryStub) DeleteEventsByGroup(ctx context.Context, groupID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if groupID == "" {
		return 0, nil
	}
	removed := 0
	for id, e := range r.events {
		if e.Repeat.GroupID == groupID {
			delete(r.events, id)
			delete(r.seq, id)
			removed++
		}
	}
	return removed, nil
}

func (r *RepositoryStub) sorted(keep func(Event) bool) []Event {
	events := make([]Event, 0, len(r.events))
	for _, e := range r.events {
		if keep(e) {
			events = append(events, e)
		}
	}
	sort.Slice(events, func(i, j int) bool {
		if events[i].Date != events[j].Date {
			return events[i].Date.Before(events[j].Date)
		}
		if events[i].StartTime != events[j].StartTime {
			return events[i].StartTime < events[j].StartTime
		}
		return r.seq[events[i].ID] < r.seq[events[j].ID]
	})
	return events
}
