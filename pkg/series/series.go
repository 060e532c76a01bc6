// Package series implements the lifecycle of recurring event groups: turning
// an expanded date set into a materialized group of occurrences, editing or
// removing a whole group, and detaching single members. The operations in
// this file are pure; persistence is the service's concern.
package series

import (
	"errors"

	"github.com/google/uuid"
	"github.com/kalendo/kalendo/pkg/caldate"
	"github.com/kalendo/kalendo/pkg/event"
	"github.com/kalendo/kalendo/pkg/recurrence"
)

var (
	// ErrNoDates signals that a valid recurrence rule produced zero
	// occurrence dates, e.g. a day-31 monthly rule over a window with no
	// 31-day month. Distinct from storage failures and user-visible as
	// "no matching dates".
	ErrNoDates = errors.New("no matching dates for recurrence rule")

	// ErrMissingGroupID signals a group-scoped operation invoked without a
	// group identifier. This is caller misuse, not a lookup miss.
	ErrMissingGroupID = errors.New("group id is required")

	// ErrGroupNotFound signals that no stored event carries the given
	// group id.
	ErrGroupNotFound = errors.New("recurring group not found")
)

// Materialize produces one occurrence per expansion date, each a copy of the
// template stamped with a freshly generated group ID and its own event ID.
// An empty date set fails with ErrNoDates. The template is not modified.
func Materialize(template event.Event, dates []caldate.Date) ([]event.Event, error) {
	if len(dates) == 0 {
		return nil, ErrNoDates
	}
	groupID := uuid.NewString()
	members := make([]event.Event, 0, len(dates))
	for _, date := range dates {
		member := template
		member.ID = uuid.NewString()
		member.Date = date
		member.Repeat = template.Repeat.WithGroup(groupID)
		members = append(members, member)
	}
	return members, nil
}

// Diff is a partial event: nil fields are left unchanged when the diff is
// applied. Repeat is itself partial, so editing only the end date of a rule
// keeps its frequency and group ID intact.
type Diff struct {
	Title        *string
	Date         *caldate.Date
	StartTime    *string
	EndTime      *string
	Description  *string
	Location     *string
	Category     *string
	Repeat       *RuleDiff
	Notification *int
}

// RuleDiff is a partial recurrence rule.
type RuleDiff struct {
	Frequency *recurrence.Frequency
	EndDate   *caldate.Date
}

func (d Diff) apply(e event.Event) event.Event {
	if d.Title != nil {
		e.Title = *d.Title
	}
	if d.Date != nil {
		e.Date = *d.Date
	}
	if d.StartTime != nil {
		e.StartTime = *d.StartTime
	}
	if d.EndTime != nil {
		e.EndTime = *d.EndTime
	}
	if d.Description != nil {
		e.Description = *d.Description
	}
	if d.Location != nil {
		e.Location = *d.Location
	}
	if d.Category != nil {
		e.Category = *d.Category
	}
	if d.Notification != nil {
		e.Notification = *d.Notification
	}
	if d.Repeat != nil {
		if d.Repeat.Frequency != nil {
			e.Repeat.Frequency = *d.Repeat.Frequency
		}
		if d.Repeat.EndDate != nil {
			e.Repeat.EndDate = *d.Repeat.EndDate
		}
	}
	return e
}

// ApplyGroupEdit merges diff into every event whose rule carries groupID and
// returns the resulting list alongside the number of members edited. Events
// outside the group are returned unchanged, in their original positions. The
// input slice is never mutated. The date set of the group is never
// regenerated, even when the diff rewrites the recurrence rule.
func ApplyGroupEdit(groupID string, diff Diff, all []event.Event) ([]event.Event, int, error) {
	if groupID == "" {
		return nil, 0, ErrMissingGroupID
	}
	updated := make([]event.Event, len(all))
	edited := 0
	for i, e := range all {
		if e.Repeat.GroupID == groupID {
			updated[i] = diff.apply(e)
			edited++
		} else {
			updated[i] = e
		}
	}
	return updated, edited, nil
}

// RemoveGroup filters out every event carrying groupID. When nothing matched
// the input comes back unchanged together with ErrGroupNotFound.
func RemoveGroup(groupID string, all []event.Event) ([]event.Event, error) {
	if groupID == "" {
		return nil, ErrMissingGroupID
	}
	remaining := make([]event.Event, 0, len(all))
	for _, e := range all {
		if e.Repeat.GroupID != groupID {
			remaining = append(remaining, e)
		}
	}
	if len(remaining) == len(all) {
		return remaining, ErrGroupNotFound
	}
	return remaining, nil
}
