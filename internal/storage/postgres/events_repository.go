package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/guestlist/server/internal/domain/events"
	"github.com/guestlist/server/internal/domain/ids"
	"github.com/jackc/pgx/v5"
)

var _ events.EventRepository = (*EventRepository)(nil)

func (r *EventRepository) Create(ctx context.Context, params events.EventCreateParams) (*events.Event, error) {
	id, err := ids.NewULID()
	if err != nil {
		return nil, fmt.Errorf("mint event id: %w", err)
	}

	event := &events.Event{
		ID:          id,
		Name:        params.Name,
		Description: params.Description,
		StartDate:   params.StartDate,
		EndDate:     params.EndDate,
		Location:    params.Location,
		Capacity:    params.Capacity,
		Attendees:   []events.Attendee{},
	}

	err = r.queryer().QueryRow(ctx, `
INSERT INTO events (id, name, description, start_date, end_date, location, capacity)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING created_at, updated_at
`,
		event.ID,
		event.Name,
		event.Description,
		event.StartDate,
		event.EndDate,
		event.Location,
		event.Capacity,
	).Scan(&event.CreatedAt, &event.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert event: %w", err)
	}
	return event, nil
}

func (r *EventRepository) List(ctx context.Context) ([]events.EventSummary, error) {
	rows, err := r.queryer().Query(ctx, `
SELECT e.id, e.name, e.description, e.start_date, e.end_date, e.location, e.capacity,
       count(a.id) AS total_attendees, e.created_at, e.updated_at
  FROM events e
  LEFT JOIN attendees a ON a.event_id = e.id
 GROUP BY e.id
 ORDER BY e.created_at ASC, e.id ASC
`)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	summaries := make([]events.EventSummary, 0)
	for rows.Next() {
		var s events.EventSummary
		if err := rows.Scan(
			&s.ID,
			&s.Name,
			&s.Description,
			&s.StartDate,
			&s.EndDate,
			&s.Location,
			&s.Capacity,
			&s.TotalAttendees,
			&s.CreatedAt,
			&s.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan event summary: %w", err)
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return summaries, nil
}

func (r *EventRepository) GetByID(ctx context.Context, id string) (*events.Event, error) {
	var event events.Event
	err := r.queryer().QueryRow(ctx, `
SELECT id, name, description, start_date, end_date, location, capacity, created_at, updated_at
  FROM events
 WHERE id = $1
`, id).Scan(
		&event.ID,
		&event.Name,
		&event.Description,
		&event.StartDate,
		&event.EndDate,
		&event.Location,
		&event.Capacity,
		&event.CreatedAt,
		&event.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, events.ErrEventNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	attendees, err := (&AttendeeRepository{pool: r.pool, tx: r.tx}).GetByEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	event.Attendees = attendees
	return &event, nil
}
