package event

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/kalendo/kalendo/pkg/caldate"
	"github.com/kalendo/kalendo/pkg/recurrence"
	log "github.com/sirupsen/logrus"
)

type EventDTO struct {
	ID               string    `json:"id,omitempty"`
	Title            string    `json:"title"`
	Date             string    `json:"date"`
	StartTime        string    `json:"startTime"`
	EndTime          string    `json:"endTime"`
	Description      string    `json:"description,omitempty"`
	Location         string    `json:"location,omitempty"`
	Category         string    `json:"category,omitempty"`
	Repeat           RepeatDTO `json:"repeat"`
	NotificationTime int       `json:"notificationTime"`
}

type RepeatDTO struct {
	Type     string `json:"type"`
	Interval int    `json:"interval"`
	EndDate  string `json:"endDate,omitempty"`
	ID       string `json:"id,omitempty"`
}

type EventsDTO struct {
	Events []EventDTO `json:"events"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// ListEvents godoc
// @Summary List all events
// @Description Get every stored event, ordered by date and start time
// @Tags Event
// @Produce json
// @Success 200 {object} EventsDTO
// @Router /api/events [get]
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	log.Debug("Listing events")
	w.Header().Set("Content-Type", "application/json")
	events, err := h.service.ListEvents(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(ToEventsDTO(events)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

// CreateEvent godoc
// @Summary Create a standalone event
// @Description Create one non-recurring event
// @Tags Event
// @Accept json
// @Produce json
// @Param event body EventDTO true "Event"
// @Success 201 {object} EventDTO
// @Failure 400 {string} string "Bad Request"
// @Router /api/events [post]
func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	log.Debug("Creating new event")
	w.Header().Set("Content-Type", "application/json")
	var dto EventDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	event, err := FromDTO(dto)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	created, err := h.service.CreateEvent(r.Context(), event)
	if err != nil {
		if errors.Is(err, ErrInvalidEvent) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(ToDTO(created)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

// UpdateEvent godoc
// @Summary Update a single event
// @Description Update one event by ID; editing a recurring series member this way detaches it from its group
// @Tags Event
// @Accept json
// @Produce json
// @Param eventId path string true "Event ID"
// @Param event body EventDTO true "Event"
// @Success 200 {object} EventDTO
// @Failure 400 {string} string "Bad Request"
// @Failure 404 {string} string "Event Not Found"
// @Router /api/events/{eventId} [put]
func (h *Handler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	log.Debug("Updating event")
	w.Header().Set("Content-Type", "application/json")
	eventId := mux.Vars(r)["eventId"]

	var dto EventDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if dto.ID != "" && dto.ID != eventId {
		http.Error(w, "Invalid event id in request body", http.StatusBadRequest)
		return
	}
	dto.ID = eventId

	event, err := FromDTO(dto)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	updated, err := h.service.UpdateEvent(r.Context(), event)
	if err != nil {
		switch {
		case errors.Is(err, ErrEventNotFound):
			http.Error(w, err.Error(), http.StatusNotFound)
		case errors.Is(err, ErrInvalidEvent):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(ToDTO(updated)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

// DeleteEvent godoc
// @Summary Delete a single event
// @Description Delete one event by ID; sibling series members are not affected
// @Tags Event
// @Param eventId path string true "Event ID"
// @Success 204 "No Content"
// @Failure 404 {string} string "Event Not Found"
// @Router /api/events/{eventId} [delete]
func (h *Handler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	log.Debug("Deleting event")
	eventId := mux.Vars(r)["eventId"]
	if err := h.service.DeleteEvent(r.Context(), eventId); err != nil {
		if errors.Is(err, ErrEventNotFound) {
			http.Error(w, "event not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CheckOverlaps godoc
// @Summary Find overlapping events
// @Description Return the stored events whose date and time interval intersect the candidate's
// @Tags Event
// @Accept json
// @Produce json
// @Param event body EventDTO true "Candidate event"
// @Success 200 {object} EventsDTO
// @Failure 400 {string} string "Bad Request"
// @Router /api/events/overlaps [post]
func (h *Handler) CheckOverlaps(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	var dto EventDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	candidate, err := FromDTO(dto)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	overlapping, err := h.service.FindOverlaps(r.Context(), candidate)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(ToEventsDTO(overlapping)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func ToDTO(event Event) EventDTO {
	dto := EventDTO{
		ID:               event.ID,
		Title:            event.Title,
		Date:             event.Date.String(),
		StartTime:        event.StartTime,
		EndTime:          event.EndTime,
		Description:      event.Description,
		Location:         event.Location,
		Category:         event.Category,
		Repeat:           RepeatDTO{Type: event.Repeat.Frequency.String()},
		NotificationTime: event.Notification,
	}
	if event.Repeat.IsRecurring() {
		dto.Repeat.Interval = 1
		dto.Repeat.EndDate = event.Repeat.EndDate.String()
		dto.Repeat.ID = event.Repeat.GroupID
	}
	return dto
}

func ToEventsDTO(events []Event) EventsDTO {
	dtos := make([]EventDTO, 0, len(events))
	for _, e := range events {
		dtos = append(dtos, ToDTO(e))
	}
	return EventsDTO{Events: dtos}
}

func FromDTO(dto EventDTO) (Event, error) {
	event := Event{
		ID:           dto.ID,
		Title:        dto.Title,
		StartTime:    dto.StartTime,
		EndTime:      dto.EndTime,
		Description:  dto.Description,
		Location:     dto.Location,
		Category:     dto.Category,
		Notification: dto.NotificationTime,
	}

	if dto.Date != "" {
		date, err := caldate.Parse(dto.Date)
		if err != nil {
			return Event{}, fmt.Errorf("%w: date %q", ErrInvalidEvent, dto.Date)
		}
		event.Date = date
	}

	frequency := recurrence.None
	if dto.Repeat.Type != "" {
		var err error
		frequency, err = recurrence.ParseFrequency(dto.Repeat.Type)
		if err != nil {
			return Event{}, fmt.Errorf("%w: repeat type %q", ErrInvalidEvent, dto.Repeat.Type)
		}
	}
	if frequency != recurrence.None {
		endDate, err := caldate.Parse(dto.Repeat.EndDate)
		if err != nil {
			return Event{}, fmt.Errorf("%w: repeat end date %q", ErrInvalidEvent, dto.Repeat.EndDate)
		}
		event.Repeat = recurrence.Recurring(frequency, endDate).WithGroup(dto.Repeat.ID)
	} else {
		event.Repeat = recurrence.NonRecurring()
	}

	return event, nil
}
