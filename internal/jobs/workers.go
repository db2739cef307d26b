package jobs

import (
	"context"
	"fmt"

	"github.com/guestlist/server/internal/domain/events"
	"github.com/guestlist/server/internal/email"
	"github.com/guestlist/server/internal/metrics"
	"github.com/riverqueue/river"
	"github.com/rs/zerolog"
)

// AttendeeConfirmationArgs is the confirmation-email job payload. It carries
// only the attendee id; the worker re-reads the attendee from storage, so a
// registration deleted before the job runs fails the job.
type AttendeeConfirmationArgs struct {
	AttendeeID string `json:"attendee_id"`
}

func (AttendeeConfirmationArgs) Kind() string { return JobKindAttendeeConfirmation }

// AttendeeConfirmationWorker sends the confirmation email for one attendee.
type AttendeeConfirmationWorker struct {
	river.WorkerDefaults[AttendeeConfirmationArgs]
	Attendees events.AttendeeRepository
	Events    events.EventRepository
	Sender    email.Sender
	Logger    zerolog.Logger
}

func (AttendeeConfirmationWorker) Kind() string { return JobKindAttendeeConfirmation }

func (w AttendeeConfirmationWorker) Work(ctx context.Context, job *river.Job[AttendeeConfirmationArgs]) error {
	if w.Attendees == nil || w.Events == nil {
		return fmt.Errorf("repositories not configured")
	}
	if w.Sender == nil {
		return fmt.Errorf("email sender not configured")
	}

	attendeeID := job.Args.AttendeeID
	if attendeeID == "" {
		return fmt.Errorf("attendee_id is required")
	}

	attendee, err := w.Attendees.GetByID(ctx, attendeeID)
	if err != nil {
		// Attendee deleted before the job ran: nobody left to notify.
		w.Logger.Warn().
			Err(err).
			Str("attendee_id", attendeeID).
			Int("attempt", job.Attempt).
			Msg("confirmation job could not load attendee")
		metrics.ConfirmationEmailsFailed.Inc()
		return fmt.Errorf("load attendee %s: %w", attendeeID, err)
	}

	event, err := w.Events.GetByID(ctx, attendee.EventID)
	if err != nil {
		metrics.ConfirmationEmailsFailed.Inc()
		return fmt.Errorf("load event %s: %w", attendee.EventID, err)
	}

	msg := email.Confirmation(attendee.Email, event.Name, event.StartDate)
	if err := w.Sender.Send(ctx, msg); err != nil {
		w.Logger.Warn().
			Err(err).
			Str("attendee_id", attendeeID).
			Int("attempt", job.Attempt).
			Msg("confirmation email send failed")
		metrics.ConfirmationEmailsFailed.Inc()
		return fmt.Errorf("send confirmation for attendee %s: %w", attendeeID, err)
	}

	w.Logger.Info().
		Str("attendee_id", attendeeID).
		Str("event_id", event.ID).
		Msg("confirmation email sent")
	metrics.ConfirmationEmailsSent.Inc()
	return nil
}

// NewWorkers registers all background workers.
func NewWorkers(attendees events.AttendeeRepository, eventRepo events.EventRepository, sender email.Sender, logger zerolog.Logger) *river.Workers {
	workers := river.NewWorkers()
	river.AddWorker[AttendeeConfirmationArgs](workers, AttendeeConfirmationWorker{
		Attendees: attendees,
		Events:    eventRepo,
		Sender:    sender,
		Logger:    logger.With().Str("component", "jobs").Logger(),
	})
	return workers
}
