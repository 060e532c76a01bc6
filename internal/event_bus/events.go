package event_bus

// Event types published by the calendar services.
const (
	TypeEventCreated  EventType = "calendar.event.created"
	TypeEventUpdated  EventType = "calendar.event.updated"
	TypeEventDeleted  EventType = "calendar.event.deleted"
	TypeSeriesCreated EventType = "calendar.series.created"
	TypeSeriesUpdated EventType = "calendar.series.updated"
	TypeSeriesRemoved EventType = "calendar.series.removed"
)

type EventCreated struct {
	ID    string
	Title string
	Date  string
}

type EventUpdated struct {
	ID string
	// Detached reports that the update converted a series member into a
	// standalone event.
	Detached bool
}

type EventDeleted struct {
	ID string
}

type SeriesCreated struct {
	GroupID     string
	Frequency   string
	Occurrences int
}

type SeriesUpdated struct {
	GroupID     string
	Occurrences int
}

type SeriesRemoved struct {
	GroupID     string
	Occurrences int
}
