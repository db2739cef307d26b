package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/guestlist/server/internal/domain/events"
	"github.com/guestlist/server/internal/domain/ids"
	"github.com/jackc/pgx/v5"
)

var _ events.AttendeeRepository = (*AttendeeRepository)(nil)

// Register admits an attendee inside a single transaction. The event row is
// locked with SELECT ... FOR UPDATE so the capacity check and the insert are
// serialized across concurrent registrations; two requests racing for the
// last seat cannot both pass the check. The (email, event_id) unique index
// backstops the duplicate pre-check, so a concurrent duplicate loses with
// the same ErrDuplicateRegistration.
func (r *AttendeeRepository) Register(ctx context.Context, params events.RegistrationParams) (*events.Attendee, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin registration: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	txr := r.withTx(tx)

	var capacity int
	err = txr.queryer().QueryRow(ctx, `
SELECT capacity
  FROM events
 WHERE id = $1
   FOR UPDATE
`, params.EventID).Scan(&capacity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = events.ErrEventNotFound
			return nil, err
		}
		return nil, fmt.Errorf("lock event row: %w", err)
	}

	var total int
	err = txr.queryer().QueryRow(ctx,
		`SELECT count(*) FROM attendees WHERE event_id = $1`,
		params.EventID,
	).Scan(&total)
	if err != nil {
		return nil, fmt.Errorf("count attendees: %w", err)
	}
	if total >= capacity {
		err = events.ErrCapacityExceeded
		return nil, err
	}

	var duplicates int
	err = txr.queryer().QueryRow(ctx,
		`SELECT count(*) FROM attendees WHERE event_id = $1 AND email = $2`,
		params.EventID, params.Email,
	).Scan(&duplicates)
	if err != nil {
		return nil, fmt.Errorf("count registrations for email: %w", err)
	}
	if duplicates > 0 {
		err = events.ErrDuplicateRegistration
		return nil, err
	}

	id, err := ids.NewULID()
	if err != nil {
		return nil, fmt.Errorf("mint attendee id: %w", err)
	}

	attendee := &events.Attendee{
		ID:      id,
		Name:    params.Name,
		Email:   params.Email,
		EventID: params.EventID,
	}
	err = txr.queryer().QueryRow(ctx, `
INSERT INTO attendees (id, event_id, name, email)
VALUES ($1, $2, $3, $4)
RETURNING created_at, updated_at
`,
		attendee.ID,
		attendee.EventID,
		attendee.Name,
		attendee.Email,
	).Scan(&attendee.CreatedAt, &attendee.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			err = events.ErrDuplicateRegistration
			return nil, err
		}
		return nil, fmt.Errorf("insert attendee: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit registration: %w", err)
	}
	return attendee, nil
}

func (r *AttendeeRepository) GetByID(ctx context.Context, id string) (*events.Attendee, error) {
	var a events.Attendee
	err := r.queryer().QueryRow(ctx, `
SELECT id, name, email, event_id, created_at, updated_at
  FROM attendees
 WHERE id = $1
`, id).Scan(&a.ID, &a.Name, &a.Email, &a.EventID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, events.ErrAttendeeNotFound
		}
		return nil, fmt.Errorf("get attendee: %w", err)
	}
	return &a, nil
}

func (r *AttendeeRepository) GetByEvent(ctx context.Context, eventID string) ([]events.Attendee, error) {
	rows, err := r.queryer().Query(ctx, `
SELECT id, name, email, event_id, created_at, updated_at
  FROM attendees
 WHERE event_id = $1
 ORDER BY created_at ASC, id ASC
`, eventID)
	if err != nil {
		return nil, fmt.Errorf("list attendees: %w", err)
	}
	defer rows.Close()

	attendees := make([]events.Attendee, 0)
	for rows.Next() {
		var a events.Attendee
		if err := rows.Scan(&a.ID, &a.Name, &a.Email, &a.EventID, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan attendee: %w", err)
		}
		attendees = append(attendees, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate attendees: %w", err)
	}
	return attendees, nil
}

// Delete removes the attendee row permanently.
func (r *AttendeeRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.queryer().Exec(ctx, `DELETE FROM attendees WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete attendee: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return events.ErrAttendeeNotFound
	}
	return nil
}
