package bookings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type pgxConn interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// PostgresRepository stores bookings in the relational database.
type PostgresRepository struct {
	pool pgxConn
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("bookings: pgx pool required")
	}
	return &PostgresRepository{pool: pool}
}

func newPostgresRepositoryWithConn(conn pgxConn) *PostgresRepository {
	if conn == nil {
		panic("bookings: conn required")
	}
	return &PostgresRepository{pool: conn}
}

const selectBookingColumns = `booking_id, name, email, phone, address, services, preferred_time, message, status, created_at, updated_at`

// Create inserts a new pending booking.
func (r *PostgresRepository) Create(ctx context.Context, req *SubmitRequest) (*Booking, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	id := uuid.New().String()
	query := `
		INSERT INTO bookings (booking_id, name, email, phone, address, services, preferred_time, message, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`
	var createdAt, updatedAt time.Time
	if err := r.pool.QueryRow(ctx, query,
		id,
		req.Name,
		req.Email,
		req.Phone,
		req.Address,
		req.Services,
		req.PreferredTime,
		req.Message,
		string(StatusPending),
	).Scan(&createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("bookings: insert failed: %w", err)
	}

	return &Booking{
		ID:            id,
		Name:          req.Name,
		Email:         req.Email,
		Phone:         req.Phone,
		Address:       req.Address,
		Services:      req.Services,
		PreferredTime: req.PreferredTime,
		Message:       req.Message,
		Status:        StatusPending,
		CreatedAt:     createdAt,
		UpdatedAt:     updatedAt,
	}, nil
}

// GetByID fetches a booking by its id.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Booking, error) {
	query := `SELECT ` + selectBookingColumns + ` FROM bookings WHERE booking_id = $1`
	return scanBooking(r.pool.QueryRow(ctx, query, id))
}

// GetByIDAndEmail fetches a booking only when both id and email match.
func (r *PostgresRepository) GetByIDAndEmail(ctx context.Context, id, email string) (*Booking, error) {
	query := `SELECT ` + selectBookingColumns + ` FROM bookings WHERE booking_id = $1 AND lower(email) = lower($2)`
	return scanBooking(r.pool.QueryRow(ctx, query, id, strings.TrimSpace(email)))
}

const updateStatusQuery = `UPDATE bookings SET status = $2, updated_at = now() WHERE booking_id = $1`

// UpdateStatus sets the booking status unconditionally.
func (r *PostgresRepository) UpdateStatus(ctx context.Context, id string, status Status) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}
	ct, err := r.pool.Exec(ctx, updateStatusQuery, id, string(status))
	if err != nil {
		return fmt.Errorf("bookings: update status: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrBookingNotFound
	}
	return nil
}

const updateStatusUnlessPaidQuery = `UPDATE bookings SET status = $2, updated_at = now() WHERE booking_id = $1 AND status <> 'paid'`

// UpdateStatusUnlessPaid sets the status unless the booking is already paid.
// It reports whether the status was written.
func (r *PostgresRepository) UpdateStatusUnlessPaid(ctx context.Context, id string, status Status) (bool, error) {
	if !status.Valid() {
		return false, ErrInvalidStatus
	}
	ct, err := r.pool.Exec(ctx, updateStatusUnlessPaidQuery, id, string(status))
	if err != nil {
		return false, fmt.Errorf("bookings: update status: %w", err)
	}
	if ct.RowsAffected() > 0 {
		return true, nil
	}

	var current string
	if err := r.pool.QueryRow(ctx, `SELECT status FROM bookings WHERE booking_id = $1`, id).Scan(&current); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, ErrBookingNotFound
		}
		return false, fmt.Errorf("bookings: read status: %w", err)
	}
	return false, nil
}

// UpdateStatusWith updates the status inside a transaction that commits only
// when effect succeeds.
func (r *PostgresRepository) UpdateStatusWith(ctx context.Context, id string, status Status, effect SideEffect) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("bookings: begin tx: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback(ctx)
		}
	}()

	ct, err := tx.Exec(ctx, updateStatusQuery, id, string(status))
	if err != nil {
		return fmt.Errorf("bookings: update status: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrBookingNotFound
	}

	if effect != nil {
		if err := effect(ctx); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrCommitAfterSend, err)
	}
	committed = true
	return nil
}

func scanBooking(row pgx.Row) (*Booking, error) {
	var (
		b      Booking
		status string
	)
	if err := row.Scan(
		&b.ID,
		&b.Name,
		&b.Email,
		&b.Phone,
		&b.Address,
		&b.Services,
		&b.PreferredTime,
		&b.Message,
		&status,
		&b.CreatedAt,
		&b.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("bookings: select failed: %w", err)
	}
	b.Status = Status(status)
	return &b, nil
}
