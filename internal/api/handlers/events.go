package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/guestlist/server/internal/api/problem"
	"github.com/guestlist/server/internal/domain/events"
	"github.com/guestlist/server/internal/domain/ids"
)

const (
	problemTypeValidation = "https://guestlist.dev/problems/validation-error"
	problemTypeBadRequest = "https://guestlist.dev/problems/bad-request"
	problemTypeNotFound   = "https://guestlist.dev/problems/not-found"
	problemTypeInternal   = "https://guestlist.dev/problems/internal-error"
)

// EventsHandler serves event creation, listing, and details.
type EventsHandler struct {
	service  *events.Service
	env      string
	validate *validator.Validate
}

func NewEventsHandler(service *events.Service, env string) *EventsHandler {
	return &EventsHandler{
		service:  service,
		env:      env,
		validate: newValidator(),
	}
}

func (h *EventsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createEventRequest
	if err := decodeJSON(r, &req); err != nil {
		problem.Write(w, r, http.StatusBadRequest, problemTypeBadRequest,
			"Invalid request body", err, h.env)
		return
	}

	if err := h.validate.Struct(req); err != nil {
		problem.Write(w, r, http.StatusUnprocessableEntity, problemTypeValidation,
			"Validation failed", nil, h.env,
			problem.WithDetail("one or more fields failed validation"),
			problem.WithErrors(fieldErrors(err)))
		return
	}

	// Formats were validated above, so parsing cannot fail here.
	startDate, _ := time.Parse(DateTimeLayout, req.StartDate)
	endDate, _ := time.Parse(DateTimeLayout, req.EndDate)

	event, err := h.service.Create(r.Context(), events.EventCreateParams{
		Name:        req.Name,
		Description: req.Description,
		StartDate:   startDate,
		EndDate:     endDate,
		Location:    req.Location,
		Capacity:    req.Capacity,
	})
	if err != nil {
		problem.Write(w, r, http.StatusInternalServerError, problemTypeInternal,
			"Failed to create event", err, h.env)
		return
	}

	writeJSON(w, http.StatusCreated, toEventDetailsView(event))
}

func (h *EventsHandler) List(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.service.List(r.Context())
	if err != nil {
		problem.Write(w, r, http.StatusInternalServerError, problemTypeInternal,
			"Failed to list events", err, h.env)
		return
	}

	views := make([]eventSummaryView, 0, len(summaries))
	for _, s := range summaries {
		views = append(views, toEventSummaryView(s))
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *EventsHandler) Get(w http.ResponseWriter, r *http.Request) {
	eventID := pathParam(r, "eventId")
	if err := ids.ValidateULID(eventID); err != nil {
		problem.Write(w, r, http.StatusNotFound, problemTypeNotFound,
			"Event not found", nil, h.env,
			problem.WithDetail("event not found"))
		return
	}

	event, err := h.service.Get(r.Context(), eventID)
	if errors.Is(err, events.ErrEventNotFound) {
		problem.Write(w, r, http.StatusNotFound, problemTypeNotFound,
			"Event not found", nil, h.env,
			problem.WithDetail("event not found"))
		return
	}
	if err != nil {
		problem.Write(w, r, http.StatusInternalServerError, problemTypeInternal,
			"Failed to load event", err, h.env)
		return
	}

	writeJSON(w, http.StatusOK, toEventDetailsView(event))
}
