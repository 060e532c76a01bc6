package app

import (
	"database/sql"

	"github.com/kalendo/kalendo/internal/config"
	"github.com/kalendo/kalendo/internal/event_bus"
	"github.com/kalendo/kalendo/internal/utils"
	"github.com/kalendo/kalendo/pkg/caldate"
	"github.com/kalendo/kalendo/pkg/event"
	"github.com/kalendo/kalendo/pkg/ics"
	"github.com/kalendo/kalendo/pkg/reminder"
	"github.com/kalendo/kalendo/pkg/series"
	log "github.com/sirupsen/logrus"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	EventBus *event_bus.EventBus
	Clock    utils.Clock

	EventRepo    event.Repository
	EventService event.Service
	EventHandler *event.Handler

	SeriesService series.Service
	SeriesHandler *series.Handler

	ReminderService reminder.Service
	ReminderHandler *reminder.Handler

	IcsHandler *ics.Handler
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(db *sql.DB, cfg config.Application) *Dependencies {
	deps := &Dependencies{}

	deps.EventBus = event_bus.NewEventBus()
	deps.Clock = &utils.SystemClock{}

	maxEndDate, err := caldate.Parse(cfg.Calendar.MaxEndDate)
	if err != nil {
		if cfg.Calendar.MaxEndDate != "" {
			log.Warnf("Ignoring malformed calendar.maxEndDate %q", cfg.Calendar.MaxEndDate)
		}
		maxEndDate = caldate.Date{}
	}

	deps.EventRepo = event.NewRepository(db)
	deps.EventService = event.NewService(deps.EventRepo, deps.EventBus)
	deps.EventHandler = event.NewHandler(deps.EventService)

	deps.SeriesService = series.NewService(deps.EventRepo, deps.EventBus, maxEndDate)
	deps.SeriesHandler = series.NewHandler(deps.SeriesService)

	deps.ReminderService = reminder.NewService(deps.EventRepo, deps.Clock)
	deps.ReminderHandler = reminder.NewHandler(deps.ReminderService)

	deps.IcsHandler = ics.NewHandler(deps.EventService, cfg.Calendar.Name)

	registerActivityLog(deps.EventBus)

	return deps
}

// registerActivityLog subscribes an audit logger to every calendar mutation.
func registerActivityLog(bus *event_bus.EventBus) {
	event_bus.SubscribeTyped[event_bus.EventCreated](bus, event_bus.TypeEventCreated,
		func(e event_bus.EventT[event_bus.EventCreated]) error {
			log.Infof("Event %s (%q) created on %s", e.Data.ID, e.Data.Title, e.Data.Date)
			return nil
		})
	event_bus.SubscribeTyped[event_bus.EventUpdated](bus, event_bus.TypeEventUpdated,
		func(e event_bus.EventT[event_bus.EventUpdated]) error {
			if e.Data.Detached {
				log.Infof("Event %s updated and detached from its series", e.Data.ID)
			} else {
				log.Infof("Event %s updated", e.Data.ID)
			}
			return nil
		})
	event_bus.SubscribeTyped[event_bus.EventDeleted](bus, event_bus.TypeEventDeleted,
		func(e event_bus.EventT[event_bus.EventDeleted]) error {
			log.Infof("Event %s deleted", e.Data.ID)
			return nil
		})
	event_bus.SubscribeTyped[event_bus.SeriesCreated](bus, event_bus.TypeSeriesCreated,
		func(e event_bus.EventT[event_bus.SeriesCreated]) error {
			log.Infof("Series %s created: %s, %d occurrences", e.Data.GroupID, e.Data.Frequency, e.Data.Occurrences)
			return nil
		})
	event_bus.SubscribeTyped[event_bus.SeriesUpdated](bus, event_bus.TypeSeriesUpdated,
		func(e event_bus.EventT[event_bus.SeriesUpdated]) error {
			log.Infof("Series %s updated across %d occurrences", e.Data.GroupID, e.Data.Occurrences)
			return nil
		})
	event_bus.SubscribeTyped[event_bus.SeriesRemoved](bus, event_bus.TypeSeriesRemoved,
		func(e event_bus.EventT[event_bus.SeriesRemoved]) error {
			log.Infof("Series %s removed, %d occurrences deleted", e.Data.GroupID, e.Data.Occurrences)
			return nil
		})
}
