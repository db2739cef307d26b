package handlers

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/guestlist/server/internal/api/problem"
	"github.com/guestlist/server/internal/domain/events"
	"github.com/guestlist/server/internal/domain/ids"
	"github.com/guestlist/server/internal/metrics"
)

const (
	problemTypeCapacity  = "https://guestlist.dev/problems/capacity-exceeded"
	problemTypeDuplicate = "https://guestlist.dev/problems/duplicate-registration"
	problemTypeForbidden = "https://guestlist.dev/problems/forbidden"
)

// AttendeesHandler serves registration and deregistration under an event.
type AttendeesHandler struct {
	registrations *events.RegistrationService
	env           string
	validate      *validator.Validate
}

func NewAttendeesHandler(registrations *events.RegistrationService, env string) *AttendeesHandler {
	return &AttendeesHandler{
		registrations: registrations,
		env:           env,
		validate:      newValidator(),
	}
}

func (h *AttendeesHandler) Register(w http.ResponseWriter, r *http.Request) {
	eventID := pathParam(r, "eventId")
	if err := ids.ValidateULID(eventID); err != nil {
		metrics.RegistrationsTotal.WithLabelValues("not_found").Inc()
		problem.Write(w, r, http.StatusNotFound, problemTypeNotFound,
			"Event not found", nil, h.env,
			problem.WithDetail("event not found"))
		return
	}

	var req registerAttendeeRequest
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

	attendee, err := h.registrations.Register(r.Context(), events.RegistrationParams{
		EventID: eventID,
		Name:    req.Name,
		Email:   req.Email,
	})
	switch {
	case errors.Is(err, events.ErrEventNotFound):
		metrics.RegistrationsTotal.WithLabelValues("not_found").Inc()
		problem.Write(w, r, http.StatusNotFound, problemTypeNotFound,
			"Event not found", nil, h.env,
			problem.WithDetail("event not found"))
		return
	case errors.Is(err, events.ErrCapacityExceeded):
		metrics.RegistrationsTotal.WithLabelValues("capacity_exceeded").Inc()
		problem.Write(w, r, http.StatusUnprocessableEntity, problemTypeCapacity,
			"Capacity for this event is full", nil, h.env,
			problem.WithDetail("capacity for this event is full"))
		return
	case errors.Is(err, events.ErrDuplicateRegistration):
		metrics.RegistrationsTotal.WithLabelValues("duplicate").Inc()
		problem.Write(w, r, http.StatusConflict, problemTypeDuplicate,
			"Email already registered", nil, h.env,
			problem.WithDetail("email has already been registered for this event"))
		return
	case err != nil:
		metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		problem.Write(w, r, http.StatusInternalServerError, problemTypeInternal,
			"Failed to register attendee", err, h.env)
		return
	}

	metrics.RegistrationsTotal.WithLabelValues("accepted").Inc()
	writeJSON(w, http.StatusCreated, toAttendeeView(*attendee))
}

func (h *AttendeesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	eventID := pathParam(r, "eventId")
	attendeeID := pathParam(r, "attendeeId")
	if ids.ValidateULID(eventID) != nil || ids.ValidateULID(attendeeID) != nil {
		metrics.AttendeeDeletionsTotal.WithLabelValues("not_found").Inc()
		problem.Write(w, r, http.StatusNotFound, problemTypeNotFound,
			"Attendee not found", nil, h.env,
			problem.WithDetail("attendee not found"))
		return
	}

	err := h.registrations.Delete(r.Context(), eventID, attendeeID)
	switch {
	case errors.Is(err, events.ErrAttendeeNotFound):
		metrics.AttendeeDeletionsTotal.WithLabelValues("not_found").Inc()
		problem.Write(w, r, http.StatusNotFound, problemTypeNotFound,
			"Attendee not found", nil, h.env,
			problem.WithDetail("attendee not found"))
		return
	case errors.Is(err, events.ErrWrongEvent):
		metrics.AttendeeDeletionsTotal.WithLabelValues("forbidden").Inc()
		problem.Write(w, r, http.StatusForbidden, problemTypeForbidden,
			"Attendee does not belong to this event", nil, h.env,
			problem.WithDetail("attendee does not belong to this event"))
		return
	case err != nil:
		metrics.AttendeeDeletionsTotal.WithLabelValues("error").Inc()
		problem.Write(w, r, http.StatusInternalServerError, problemTypeInternal,
			"Failed to delete attendee", err, h.env)
		return
	}

	metrics.AttendeeDeletionsTotal.WithLabelValues("deleted").Inc()
	w.WriteHeader(http.StatusNoContent)
}
