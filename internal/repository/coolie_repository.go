package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/coolie-booking/internal/model"
)

// CoolieRepo provides data access to the coolies table. The
// is_available flag is the only contended resource in the system;
// all writes that flip it are either guarded conditional updates or
// run inside a caller-supplied transaction.
type CoolieRepo struct {
	db *sql.DB
}

// NewCoolieRepo returns a CoolieRepo bound to the database.
func NewCoolieRepo(db *sql.DB) *CoolieRepo { return &CoolieRepo{db: db} }

// DB exposes the underlying handle so handlers can open
// transactions spanning multiple repositories.
func (r *CoolieRepo) DB() *sql.DB { return r.db }

const coolieColumns = "id, user_id, name, phone, is_available, kyc_verified, earnings, created_at"

func scanCoolie(row *sql.Row) (model.Coolie, error) {
	var c model.Coolie
	err := row.Scan(&c.ID, &c.UserID, &c.Name, &c.Phone, &c.IsAvailable, &c.KYCVerified, &c.Earnings, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return c, ErrCoolieNotFound
	}
	return c, err
}

// Create inserts a coolie row and returns its ID. New coolies start
// available but unverified; assignment eligibility requires an admin
// to verify them first.
func (r *CoolieRepo) Create(ctx context.Context, userID uint64, name, phone string) (uint64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO coolies (user_id, name, phone, is_available, kyc_verified, earnings)
		 VALUES (?, ?, ?, 1, 0, 0)`,
		userID, name, phone)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByID fetches a coolie by primary key.
func (r *CoolieRepo) GetByID(ctx context.Context, id uint64) (model.Coolie, error) {
	return scanCoolie(r.db.QueryRowContext(ctx,
		`SELECT `+coolieColumns+` FROM coolies WHERE id = ? LIMIT 1`, id))
}

// GetByUserID fetches the coolie profile owned by an account.
func (r *CoolieRepo) GetByUserID(ctx context.Context, userID uint64) (model.Coolie, error) {
	return scanCoolie(r.db.QueryRowContext(ctx,
		`SELECT `+coolieColumns+` FROM coolies WHERE user_id = ? LIMIT 1`, userID))
}

// ClaimAvailableTx picks one available, KYC-verified coolie and
// atomically marks them unavailable within the supplied transaction.
// The candidate row is locked with FOR UPDATE and the flip is
// additionally guarded with `is_available = 1`, so when N
// assignments race over a single free coolie exactly one claim
// lands; the rest observe zero affected rows and fail with
// ErrNoAvailableCoolie. Tie-break between candidates is arbitrary.
func (r *CoolieRepo) ClaimAvailableTx(ctx context.Context, tx *sql.Tx) (uint64, error) {
	var id uint64
	err := tx.QueryRowContext(ctx,
		`SELECT id FROM coolies WHERE is_available = 1 AND kyc_verified = 1 LIMIT 1 FOR UPDATE`,
	).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, ErrNoAvailableCoolie
	}
	if err != nil {
		return 0, err
	}
	res, err := tx.ExecContext(ctx,
		`UPDATE coolies SET is_available = 0 WHERE id = ? AND is_available = 1`, id)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if n == 0 {
		// lost the claim to a concurrent assignment
		return 0, ErrNoAvailableCoolie
	}
	return id, nil
}

// CreditAndReleaseTx settles a completed booking for a coolie inside
// the supplied transaction: earnings grow by the fare and the coolie
// becomes available for new work again.
func (r *CoolieRepo) CreditAndReleaseTx(ctx context.Context, tx *sql.Tx, coolieID uint64, amount float64) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE coolies SET earnings = earnings + ?, is_available = 1 WHERE id = ?`,
		amount, coolieID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrCoolieNotFound
	}
	return nil
}

// SetAvailability flips the manual on/off-duty toggle.
func (r *CoolieRepo) SetAvailability(ctx context.Context, coolieID uint64, available bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE coolies SET is_available = ? WHERE id = ?`, available, coolieID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrCoolieNotFound
	}
	return nil
}

// Verify marks a coolie as KYC-verified, gating them into the
// assignment pool.
func (r *CoolieRepo) Verify(ctx context.Context, coolieID uint64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE coolies SET kyc_verified = 1 WHERE id = ?`, coolieID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrCoolieNotFound
	}
	return nil
}

// List returns coolies, optionally filtered by verification state.
// Used by the admin verification screen.
func (r *CoolieRepo) List(ctx context.Context, verified *bool) ([]model.Coolie, error) {
	query := `SELECT ` + coolieColumns + ` FROM coolies`
	var args []interface{}
	if verified != nil {
		query += ` WHERE kyc_verified = ?`
		args = append(args, *verified)
	}
	query += ` ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Coolie
	for rows.Next() {
		var c model.Coolie
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Phone, &c.IsAvailable, &c.KYCVerified, &c.Earnings, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
