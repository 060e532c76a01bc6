package event

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/kalendo/kalendo/pkg/caldate"
	"github.com/kalendo/kalendo/pkg/recurrence"
)

// Event is one concrete dated occurrence in the calendar, whether standalone
// or a member of a recurring series. Members of a series share
// Repeat.GroupID but are otherwise independent rows.
type Event struct {
	ID          string
	Title       string
	Date        caldate.Date
	StartTime   string // HH:MM, date-local
	EndTime     string // HH:MM, date-local
	Description string
	Location    string
	Category    string
	Repeat      recurrence.Rule
	// Notification is the reminder offset in minutes before StartTime.
	Notification int
}

var ErrInvalidEvent = errors.New("invalid event")

var timeShape = regexp.MustCompile(`^\d{2}:\d{2}$`)

// minutesOfDay converts a strict HH:MM string into minutes since midnight.
func minutesOfDay(text string) (int, error) {
	if !timeShape.MatchString(text) {
		return 0, fmt.Errorf("%w: time %q", ErrInvalidEvent, text)
	}
	var hours, minutes int
	if _, err := fmt.Sscanf(text, "%2d:%2d", &hours, &minutes); err != nil {
		return 0, fmt.Errorf("%w: time %q", ErrInvalidEvent, text)
	}
	if hours > 23 || minutes > 59 {
		return 0, fmt.Errorf("%w: time %q", ErrInvalidEvent, text)
	}
	return hours*60 + minutes, nil
}

// Validate checks the fields every stored event must carry: a title, a real
// date, and a well-formed, strictly increasing time interval.
func (e Event) Validate() error {
	if e.Title == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidEvent)
	}
	if e.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidEvent)
	}
	start, err := minutesOfDay(e.StartTime)
	if err != nil {
		return err
	}
	end, err := minutesOfDay(e.EndTime)
	if err != nil {
		return err
	}
	if end <= start {
		return fmt.Errorf("%w: end time %s is not after start time %s", ErrInvalidEvent, e.EndTime, e.StartTime)
	}
	if e.Notification < 0 {
		return fmt.Errorf("%w: notification offset must not be negative", ErrInvalidEvent)
	}
	return nil
}

// Detached returns a copy of the event converted into a standalone,
// non-recurring occurrence: the recurrence rule is rewritten to the
// non-recurring variant and the group ID dropped. No other field changes and
// the receiver is left untouched.
func (e Event) Detached() Event {
	e.Repeat = recurrence.NonRecurring()
	return e
}
