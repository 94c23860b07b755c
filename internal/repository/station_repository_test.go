package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestStationCreateNormalizesCode(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("INSERT INTO stations").
		WithArgs("NDLS", "New Delhi", nil).
		WillReturnResult(sqlmock.NewResult(1, 1))

	repo := NewStationRepo(db)
	id, err := repo.Create(context.Background(), " ndls ", "New Delhi", nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if id != 1 {
		t.Fatalf("station id %d, want 1", id)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestStationCreateDuplicateCode(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("INSERT INTO stations").
		WithArgs("NDLS", "New Delhi", nil).
		WillReturnError(errors.New("Error 1062 (23000): Duplicate entry 'NDLS' for key 'stations.code'"))

	repo := NewStationRepo(db)
	if _, err := repo.Create(context.Background(), "NDLS", "New Delhi", nil); err != ErrStationExists {
		t.Fatalf("got %v, want ErrStationExists", err)
	}
}

func TestStationGetByCodeNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM stations WHERE code =").
		WithArgs("XXXX").
		WillReturnRows(sqlmock.NewRows([]string{"id", "code", "name", "location", "created_at"}))

	repo := NewStationRepo(db)
	if _, err := repo.GetByCode(context.Background(), "xxxx"); err != ErrStationNotFound {
		t.Fatalf("got %v, want ErrStationNotFound", err)
	}
}
