package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/coolie-booking/internal/model"
)

// StationRepo provides data access to the stations reference table.
// Stations are written only by admins; the booking flows read them.
type StationRepo struct {
	db *sql.DB
}

// NewStationRepo returns a StationRepo bound to the database.
func NewStationRepo(db *sql.DB) *StationRepo { return &StationRepo{db: db} }

// ErrStationExists is returned when a station code is already taken.
var ErrStationExists = errors.New("station code already exists")

// Create inserts a station and returns its ID. Codes are stored
// upper-case and must be unique.
func (r *StationRepo) Create(ctx context.Context, code, name string, location *string) (uint64, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO stations (code, name, location) VALUES (?, ?, ?)`,
		code, name, location)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrStationExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// Update renames a station or moves its location.
func (r *StationRepo) Update(ctx context.Context, id uint64, name string, location *string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE stations SET name = ?, location = ? WHERE id = ?`, name, location, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrStationNotFound
	}
	return nil
}

// Delete removes a station.
func (r *StationRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM stations WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrStationNotFound
	}
	return nil
}

// GetByCode fetches a station by its short code.
func (r *StationRepo) GetByCode(ctx context.Context, code string) (model.Station, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	var s model.Station
	err := r.db.QueryRowContext(ctx,
		`SELECT id, code, name, location, created_at FROM stations WHERE code = ? LIMIT 1`,
		code).Scan(&s.ID, &s.Code, &s.Name, &s.Location, &s.CreatedAt)
	if err == sql.ErrNoRows {
		return s, ErrStationNotFound
	}
	return s, err
}

// List returns all stations ordered by code.
func (r *StationRepo) List(ctx context.Context) ([]model.Station, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, code, name, location, created_at FROM stations ORDER BY code`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Station
	for rows.Next() {
		var s model.Station
		if err := rows.Scan(&s.ID, &s.Code, &s.Name, &s.Location, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
