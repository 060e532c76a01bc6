package app

import (
	"github.com/gorilla/mux"
	"github.com/kalendo/kalendo/internal/config"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies, cfg config.Application) {

	// Events
	r.HandleFunc("/api/events", deps.EventHandler.ListEvents).Methods("GET")
	r.HandleFunc("/api/events", deps.EventHandler.CreateEvent).Methods("POST")
	r.HandleFunc("/api/events/reminders", deps.ReminderHandler.DueReminders).Methods("GET")
	r.HandleFunc("/api/events/overlaps", deps.EventHandler.CheckOverlaps).Methods("POST")
	r.HandleFunc("/api/events/{eventId}", deps.EventHandler.UpdateEvent).Methods("PUT")
	r.HandleFunc("/api/events/{eventId}", deps.EventHandler.DeleteEvent).Methods("DELETE")

	// Recurring series
	r.HandleFunc("/api/events-list", deps.SeriesHandler.CreateSeries).Methods("POST")
	r.HandleFunc("/api/recurring-events/{groupId}", deps.SeriesHandler.UpdateSeries).Methods("PUT")
	r.HandleFunc("/api/recurring-events/{groupId}", deps.SeriesHandler.DeleteSeries).Methods("DELETE")

	// Calendar export
	r.HandleFunc("/api/calendar.ics", deps.IcsHandler.ExportCalendar).Methods("GET")
}
