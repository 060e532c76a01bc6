package reminder

import (
	"encoding/json"
	"net/http"

	"github.com/kalendo/kalendo/pkg/event"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// DueReminders godoc
// @Summary List events due a notification
// @Description Get today's events whose notification window covers the current time
// @Tags Reminder
// @Produce json
// @Success 200 {object} event.EventsDTO
// @Router /api/events/reminders [get]
func (h *Handler) DueReminders(w http.ResponseWriter, r *http.Request) {
	log.Debug("Listing due reminders")
	w.Header().Set("Content-Type", "application/json")
	due, err := h.service.DueReminders(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(event.ToEventsDTO(due)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}
