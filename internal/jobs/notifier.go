package jobs

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/riverqueue/river"
)

// Notifier adapts the River client to the registration service's enqueue
// interface. Insertion is a fast local write to the job table; the send
// happens later on a worker.
type Notifier struct {
	client *river.Client[pgx.Tx]
}

func NewNotifier(client *river.Client[pgx.Tx]) *Notifier {
	return &Notifier{client: client}
}

func (n *Notifier) EnqueueConfirmation(ctx context.Context, attendeeID string) error {
	if n.client == nil {
		return fmt.Errorf("river client not configured")
	}
	_, err := n.client.Insert(ctx, AttendeeConfirmationArgs{AttendeeID: attendeeID}, nil)
	if err != nil {
		return fmt.Errorf("enqueue confirmation job: %w", err)
	}
	return nil
}
