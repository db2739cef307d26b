package events

import (
	"context"

	"github.com/rs/zerolog"
)

// Notifier enqueues an asynchronous confirmation job for a newly registered
// attendee. Implementations must not block on mail delivery.
type Notifier interface {
	EnqueueConfirmation(ctx context.Context, attendeeID string) error
}

// RegistrationService decides admission for registration requests and owns
// the attendee lifecycle within an event.
type RegistrationService struct {
	attendees AttendeeRepository
	notifier  Notifier
	logger    zerolog.Logger
}

func NewRegistrationService(attendees AttendeeRepository, notifier Notifier, logger zerolog.Logger) *RegistrationService {
	return &RegistrationService{
		attendees: attendees,
		notifier:  notifier,
		logger:    logger.With().Str("component", "registrations").Logger(),
	}
}

// Register admits params.Email into the event or rejects with
// ErrEventNotFound, ErrCapacityExceeded, or ErrDuplicateRegistration. The
// repository performs the capacity check, the duplicate check, and the
// insert atomically. The confirmation job is enqueued only after the insert
// has committed; an enqueue failure is logged and never undoes the
// registration.
func (s *RegistrationService) Register(ctx context.Context, params RegistrationParams) (*Attendee, error) {
	attendee, err := s.attendees.Register(ctx, params)
	if err != nil {
		return nil, err
	}

	if err := s.notifier.EnqueueConfirmation(ctx, attendee.ID); err != nil {
		s.logger.Error().
			Err(err).
			Str("attendee_id", attendee.ID).
			Str("event_id", attendee.EventID).
			Msg("confirmation enqueue failed")
	} else {
		s.logger.Info().
			Str("attendee_id", attendee.ID).
			Str("event_id", attendee.EventID).
			Msg("attendee registered")
	}

	return attendee, nil
}

// Delete removes an attendee. Deletion is scoped to the event named in the
// request: an attendee reached through another event's id yields
// ErrWrongEvent even though attendee ids are globally unique.
func (s *RegistrationService) Delete(ctx context.Context, eventID, attendeeID string) error {
	attendee, err := s.attendees.GetByID(ctx, attendeeID)
	if err != nil {
		return err
	}
	if attendee.EventID != eventID {
		return ErrWrongEvent
	}

	if err := s.attendees.Delete(ctx, attendeeID); err != nil {
		return err
	}

	s.logger.Info().
		Str("attendee_id", attendeeID).
		Str("event_id", eventID).
		Msg("attendee deleted")
	return nil
}
