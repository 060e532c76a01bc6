package ics

import (
	"net/http"

	"github.com/kalendo/kalendo/pkg/event"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	eventService event.Service
	calendarName string
}

func NewHandler(eventService event.Service, calendarName string) *Handler {
	return &Handler{eventService: eventService, calendarName: calendarName}
}

// ExportCalendar godoc
// @Summary Export all events as iCalendar
// @Description Serialize every stored event into an ICS feed
// @Tags Calendar
// @Produce text/calendar
// @Success 200 {string} string "VCALENDAR document"
// @Router /api/calendar.ics [get]
func (h *Handler) ExportCalendar(w http.ResponseWriter, r *http.Request) {
	log.Debug("Exporting calendar as ICS")
	events, err := h.eventService.ListEvents(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	document, err := Render(h.calendarName, events)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="kalendo.ics"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(document)); err != nil {
		log.Errorf("failed to write ICS response: %v", err)
	}
}
