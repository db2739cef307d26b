package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/guestlist/server/internal/domain/events"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository implements the domain repository interfaces with a PostgreSQL
// backend.
type Repository struct {
	pool *pgxpool.Pool

	events    *EventRepository
	attendees *AttendeeRepository
}

func NewRepository(pool *pgxpool.Pool) (*Repository, error) {
	if pool == nil {
		return nil, fmt.Errorf("postgres repository: pool is nil")
	}
	return &Repository{
		pool:      pool,
		events:    &EventRepository{pool: pool},
		attendees: &AttendeeRepository{pool: pool},
	}, nil
}

func (r *Repository) Events() events.EventRepository {
	return r.events
}

func (r *Repository) Attendees() events.AttendeeRepository {
	return r.attendees
}

type EventRepository struct {
	pool *pgxpool.Pool
	tx   pgx.Tx
}

type AttendeeRepository struct {
	pool *pgxpool.Pool
	tx   pgx.Tx
}

type queryer interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func (r *AttendeeRepository) withTx(tx pgx.Tx) *AttendeeRepository {
	return &AttendeeRepository{pool: r.pool, tx: tx}
}

func (r *EventRepository) queryer() queryer {
	if r.tx != nil {
		return r.tx
	}
	return r.pool
}

func (r *AttendeeRepository) queryer() queryer {
	if r.tx != nil {
		return r.tx
	}
	return r.pool
}

// isUniqueViolation reports whether err is a PostgreSQL unique constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
