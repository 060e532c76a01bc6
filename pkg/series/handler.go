package series

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/kalendo/kalendo/pkg/caldate"
	"github.com/kalendo/kalendo/pkg/event"
	"github.com/kalendo/kalendo/pkg/recurrence"
	log "github.com/sirupsen/logrus"
)

// SeriesEditDTO is the wire form of a group edit: only the fields present in
// the request are applied. A partial repeat object merges into the members'
// existing recurrence rules.
type SeriesEditDTO struct {
	Title            *string        `json:"title,omitempty"`
	Date             *string        `json:"date,omitempty"`
	StartTime        *string        `json:"startTime,omitempty"`
	EndTime          *string        `json:"endTime,omitempty"`
	Description      *string        `json:"description,omitempty"`
	Location         *string        `json:"location,omitempty"`
	Category         *string        `json:"category,omitempty"`
	Repeat           *RepeatEditDTO `json:"repeat,omitempty"`
	NotificationTime *int           `json:"notificationTime,omitempty"`
}

type RepeatEditDTO struct {
	Type    *string `json:"type,omitempty"`
	EndDate *string `json:"endDate,omitempty"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// CreateSeries godoc
// @Summary Create a recurring series
// @Description Expand the template's recurrence rule and store all occurrences as one group, atomically
// @Tags Series
// @Accept json
// @Produce json
// @Param event body event.EventDTO true "Series template"
// @Success 201 {object} event.EventsDTO
// @Failure 400 {string} string "Bad Request"
// @Failure 422 {string} string "No matching dates"
// @Router /api/events-list [post]
func (h *Handler) CreateSeries(w http.ResponseWriter, r *http.Request) {
	log.Debug("Creating recurring series")
	w.Header().Set("Content-Type", "application/json")
	var dto event.EventDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	template, err := event.FromDTO(dto)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	members, err := h.service.CreateSeries(r.Context(), template)
	if err != nil {
		switch {
		case errors.Is(err, ErrNoDates):
			// valid rule, zero producible dates: a user-visible outcome,
			// not a save failure
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		case errors.Is(err, event.ErrInvalidEvent):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(event.ToEventsDTO(members)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

// UpdateSeries godoc
// @Summary Edit all members of a recurring group
// @Description Apply a field diff to every event sharing the group ID; the date set is never regenerated
// @Tags Series
// @Accept json
// @Produce json
// @Param groupId path string true "Group ID"
// @Param diff body SeriesEditDTO true "Field diff"
// @Success 200 {object} event.EventsDTO
// @Failure 400 {string} string "Bad Request"
// @Failure 404 {string} string "Group Not Found"
// @Router /api/recurring-events/{groupId} [put]
func (h *Handler) UpdateSeries(w http.ResponseWriter, r *http.Request) {
	log.Debug("Updating recurring series")
	w.Header().Set("Content-Type", "application/json")
	groupID := mux.Vars(r)["groupId"]

	var dto SeriesEditDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	diff, err := diffFromDTO(dto)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	updated, err := h.service.UpdateSeries(r.Context(), groupID, diff)
	if err != nil {
		switch {
		case errors.Is(err, ErrGroupNotFound):
			http.Error(w, err.Error(), http.StatusNotFound)
		case errors.Is(err, ErrMissingGroupID), errors.Is(err, event.ErrInvalidEvent):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(event.ToEventsDTO(updated)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

// DeleteSeries godoc
// @Summary Delete all members of a recurring group
// @Description Remove every event sharing the group ID
// @Tags Series
// @Param groupId path string true "Group ID"
// @Success 204 "No Content"
// @Failure 404 {string} string "Group Not Found"
// @Router /api/recurring-events/{groupId} [delete]
func (h *Handler) DeleteSeries(w http.ResponseWriter, r *http.Request) {
	log.Debug("Deleting recurring series")
	groupID := mux.Vars(r)["groupId"]
	if err := h.service.DeleteSeries(r.Context(), groupID); err != nil {
		switch {
		case errors.Is(err, ErrGroupNotFound):
			http.Error(w, err.Error(), http.StatusNotFound)
		case errors.Is(err, ErrMissingGroupID):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func diffFromDTO(dto SeriesEditDTO) (Diff, error) {
	diff := Diff{
		Title:        dto.Title,
		StartTime:    dto.StartTime,
		EndTime:      dto.EndTime,
		Description:  dto.Description,
		Location:     dto.Location,
		Category:     dto.Category,
		Notification: dto.NotificationTime,
	}
	if dto.Date != nil {
		date, err := caldate.Parse(*dto.Date)
		if err != nil {
			return Diff{}, fmt.Errorf("%w: date %q", event.ErrInvalidEvent, *dto.Date)
		}
		diff.Date = &date
	}
	if dto.Repeat != nil {
		ruleDiff := &RuleDiff{}
		if dto.Repeat.Type != nil {
			frequency, err := recurrence.ParseFrequency(*dto.Repeat.Type)
			if err != nil {
				return Diff{}, fmt.Errorf("%w: repeat type %q", event.ErrInvalidEvent, *dto.Repeat.Type)
			}
			ruleDiff.Frequency = &frequency
		}
		if dto.Repeat.EndDate != nil {
			endDate, err := caldate.Parse(*dto.Repeat.EndDate)
			if err != nil {
				return Diff{}, fmt.Errorf("%w: repeat end date %q", event.ErrInvalidEvent, *dto.Repeat.EndDate)
			}
			ruleDiff.EndDate = &endDate
		}
		diff.Repeat = ruleDiff
	}
	return diff, nil
}
