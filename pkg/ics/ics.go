// Package ics renders the stored events as an iCalendar feed so external
// calendar clients can subscribe to them.
package ics

import (
	"fmt"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/kalendo/kalendo/pkg/event"
)

// Render serializes events into a VCALENDAR document. Times are written as
// floating local times since events carry no time zone.
func Render(calendarName string, events []event.Event) (string, error) {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId("-//Kalendo//Kalendo Calendar//EN")
	if calendarName != "" {
		cal.SetXWRCalName(calendarName)
	}

	for _, e := range events {
		vevent := cal.AddEvent(e.ID)
		vevent.SetSummary(e.Title)
		if e.Description != "" {
			vevent.SetDescription(e.Description)
		}
		if e.Location != "" {
			vevent.SetLocation(e.Location)
		}
		if e.Category != "" {
			vevent.SetProperty(ical.ComponentPropertyCategories, e.Category)
		}

		start, err := timestamp(e, e.StartTime)
		if err != nil {
			return "", fmt.Errorf("event %s has a malformed start time: %w", e.ID, err)
		}
		end, err := timestamp(e, e.EndTime)
		if err != nil {
			return "", fmt.Errorf("event %s has a malformed end time: %w", e.ID, err)
		}
		vevent.SetProperty(ical.ComponentPropertyDtStart, start)
		vevent.SetProperty(ical.ComponentPropertyDtEnd, end)
	}

	return cal.Serialize(), nil
}

func timestamp(e event.Event, hhmm string) (string, error) {
	clock, err := time.Parse("15:04", hhmm)
	if err != nil {
		return "", err
	}
	local := time.Date(e.Date.Year, e.Date.Month, e.Date.Day, clock.Hour(), clock.Minute(), 0, 0, time.UTC)
	return local.Format("20060102T150405"), nil
}
