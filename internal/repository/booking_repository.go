package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/coolie-booking/internal/model"
)

// BookingRepo provides data access to the bookings table. Lifecycle
// transitions (PENDING → ACCEPTED → COMPLETED) are written as
// conditional updates guarded by the current status so that a
// transition can only ever be applied once; callers run them inside
// a transaction together with the coolie-side writes.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a BookingRepo bound to the database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// DB exposes the underlying handle so handlers can open
// transactions spanning multiple repositories.
func (r *BookingRepo) DB() *sql.DB { return r.db }

const bookingColumns = `id, passenger_id, coolie_id, train_number, platform_number,
	luggage_type, weight, fare, status, completion_pin, is_paid, station_code,
	created_at, updated_at`

func scanBookingRow(scan func(dest ...interface{}) error) (model.Booking, error) {
	var b model.Booking
	err := scan(&b.ID, &b.PassengerID, &b.CoolieID, &b.TrainNumber, &b.PlatformNumber,
		&b.LuggageType, &b.Weight, &b.Fare, &b.Status, &b.CompletionPIN, &b.IsPaid,
		&b.StationCode, &b.CreatedAt, &b.UpdatedAt)
	if err == sql.ErrNoRows {
		return b, ErrBookingNotFound
	}
	return b, err
}

// Create inserts a new PENDING booking and returns its ID. CoolieID
// and the completion PIN stay null until assignment.
func (r *BookingRepo) Create(ctx context.Context, b model.Booking) (uint64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO bookings
		 (passenger_id, train_number, platform_number, luggage_type, weight, fare, status, station_code)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		b.PassengerID, b.TrainNumber, b.PlatformNumber, b.LuggageType, b.Weight, b.Fare,
		model.BookingPending, b.StationCode)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByID fetches a booking by primary key.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (model.Booking, error) {
	return scanBookingRow(r.db.QueryRowContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE id = ? LIMIT 1`, id).Scan)
}

// GetByIDTx fetches a booking inside a transaction with a row lock,
// so lifecycle checks and the subsequent transition see a stable row.
func (r *BookingRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (model.Booking, error) {
	return scanBookingRow(tx.QueryRowContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE id = ? LIMIT 1 FOR UPDATE`, id).Scan)
}

// AcceptTx stamps a PENDING booking ACCEPTED with the assigned
// coolie and completion PIN, inside the supplied transaction. The
// status guard means a booking can be accepted at most once; a
// second assignment attempt affects zero rows and fails with
// ErrInvalidBookingState.
func (r *BookingRepo) AcceptTx(ctx context.Context, tx *sql.Tx, bookingID, coolieID uint64, pin string) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE bookings SET coolie_id = ?, completion_pin = ?, status = ?
		 WHERE id = ? AND status = ?`,
		coolieID, pin, model.BookingAccepted, bookingID, model.BookingPending)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrInvalidBookingState
	}
	return nil
}

// CompleteTx moves an ACCEPTED booking to COMPLETED and marks the
// fare paid, inside the supplied transaction. Guarded the same way
// as AcceptTx so a booking completes at most once.
func (r *BookingRepo) CompleteTx(ctx context.Context, tx *sql.Tx, bookingID uint64) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE bookings SET status = ?, is_paid = 1 WHERE id = ? AND status = ?`,
		model.BookingCompleted, bookingID, model.BookingAccepted)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrInvalidBookingState
	}
	return nil
}

// ListByPassenger returns a passenger's bookings, newest first.
func (r *BookingRepo) ListByPassenger(ctx context.Context, passengerID uint64) ([]model.Booking, error) {
	return r.list(ctx, `passenger_id = ?`, passengerID)
}

// ListByCoolie returns the bookings assigned to a coolie, newest first.
func (r *BookingRepo) ListByCoolie(ctx context.Context, coolieID uint64) ([]model.Booking, error) {
	return r.list(ctx, `coolie_id = ?`, coolieID)
}

// HasActiveForCoolie reports whether the coolie has an ACCEPTED
// booking in flight. Used to refuse a manual off-duty toggle mid-job.
func (r *BookingRepo) HasActiveForCoolie(ctx context.Context, coolieID uint64) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx,
		`SELECT 1 FROM bookings WHERE coolie_id = ? AND status = ? LIMIT 1`,
		coolieID, model.BookingAccepted).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *BookingRepo) list(ctx context.Context, where string, arg interface{}) ([]model.Booking, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE `+where+` ORDER BY created_at DESC`, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Booking
	for rows.Next() {
		b, err := scanBookingRow(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
