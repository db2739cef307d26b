package events

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrEventNotFound is returned when an event lookup fails.
	ErrEventNotFound = errors.New("event not found")

	// ErrAttendeeNotFound is returned when an attendee lookup fails.
	ErrAttendeeNotFound = errors.New("attendee not found")

	// ErrCapacityExceeded is returned when an event has no remaining capacity.
	ErrCapacityExceeded = errors.New("capacity for this event is full")

	// ErrDuplicateRegistration is returned when an email is already registered
	// for the event, whether detected by the pre-check or by the storage-level
	// unique constraint.
	ErrDuplicateRegistration = errors.New("email has already been registered for this event")

	// ErrWrongEvent is returned when an attendee exists but belongs to a
	// different event than the one named in the request.
	ErrWrongEvent = errors.New("attendee does not belong to this event")
)

type Event struct {
	ID          string
	Name        string
	Description string
	StartDate   time.Time
	EndDate     time.Time
	Location    string
	Capacity    int
	Attendees   []Attendee
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// EventSummary is the list-view shape: no attendee collection, just the
// derived count.
type EventSummary struct {
	ID             string
	Name           string
	Description    string
	StartDate      time.Time
	EndDate        time.Time
	Location       string
	Capacity       int
	TotalAttendees int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type Attendee struct {
	ID        string
	Name      string
	Email     string
	EventID   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type EventCreateParams struct {
	Name        string
	Description string
	StartDate   time.Time
	EndDate     time.Time
	Location    string
	Capacity    int
}

type RegistrationParams struct {
	EventID string
	Name    string
	Email   string
}

type EventRepository interface {
	Create(ctx context.Context, params EventCreateParams) (*Event, error)
	List(ctx context.Context) ([]EventSummary, error)
	GetByID(ctx context.Context, id string) (*Event, error)
}

// AttendeeRepository persists attendees. Register runs the capacity check,
// the duplicate check, and the insert as a single atomic operation against
// the event row, so concurrent registrations cannot overfill an event.
type AttendeeRepository interface {
	Register(ctx context.Context, params RegistrationParams) (*Attendee, error)
	GetByID(ctx context.Context, id string) (*Attendee, error)
	GetByEvent(ctx context.Context, eventID string) ([]Attendee, error)
	Delete(ctx context.Context, id string) error
}
