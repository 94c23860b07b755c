package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/coolie-booking/internal/model"
)

// PassengerRepo provides data access to the passengers table.
type PassengerRepo struct {
	db *sql.DB
}

// NewPassengerRepo returns a PassengerRepo bound to the database.
func NewPassengerRepo(db *sql.DB) *PassengerRepo { return &PassengerRepo{db: db} }

// DB exposes the underlying handle so handlers can open
// transactions spanning multiple repositories.
func (r *PassengerRepo) DB() *sql.DB { return r.db }

const passengerColumns = "id, user_id, name, phone, pnr, created_at"

func scanPassenger(row *sql.Row) (model.Passenger, error) {
	var p model.Passenger
	err := row.Scan(&p.ID, &p.UserID, &p.Name, &p.Phone, &p.PNR, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return p, ErrPassengerNotFound
	}
	return p, err
}

// Create inserts a passenger row and returns its ID. UserID and pnr
// may be nil for records created outside signup.
func (r *PassengerRepo) Create(ctx context.Context, userID *uint64, name, phone string, pnr *string) (uint64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO passengers (user_id, name, phone, pnr) VALUES (?, ?, ?, ?)`,
		userID, name, phone, pnr)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByID fetches a passenger by primary key.
func (r *PassengerRepo) GetByID(ctx context.Context, id uint64) (model.Passenger, error) {
	return scanPassenger(r.db.QueryRowContext(ctx,
		`SELECT `+passengerColumns+` FROM passengers WHERE id = ? LIMIT 1`, id))
}

// GetByUserID fetches the passenger profile owned by an account.
func (r *PassengerRepo) GetByUserID(ctx context.Context, userID uint64) (model.Passenger, error) {
	return scanPassenger(r.db.QueryRowContext(ctx,
		`SELECT `+passengerColumns+` FROM passengers WHERE user_id = ? LIMIT 1`, userID))
}

// GetByPNR fetches the passenger record keyed by a PNR.
func (r *PassengerRepo) GetByPNR(ctx context.Context, pnr string) (model.Passenger, error) {
	return scanPassenger(r.db.QueryRowContext(ctx,
		`SELECT `+passengerColumns+` FROM passengers WHERE pnr = ? LIMIT 1`, pnr))
}

// UpsertByPNR inserts or refreshes the passenger row for a PNR and
// returns its ID. PNR logins call this on every successful lookup so
// the stored name tracks the latest reservation data.
func (r *PassengerRepo) UpsertByPNR(ctx context.Context, pnr, name string) (uint64, error) {
	existing, err := r.GetByPNR(ctx, pnr)
	switch err {
	case nil:
		if _, err := r.db.ExecContext(ctx,
			`UPDATE passengers SET name = ? WHERE id = ?`, name, existing.ID); err != nil {
			return 0, err
		}
		return existing.ID, nil
	case ErrPassengerNotFound:
		return r.Create(ctx, nil, name, "", &pnr)
	default:
		return 0, err
	}
}

// BindUser attaches an account to a passenger row. Used when a PNR
// record is first linked to its demo account.
func (r *PassengerRepo) BindUser(ctx context.Context, passengerID, userID uint64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE passengers SET user_id = ? WHERE id = ?`, userID, passengerID)
	return err
}
