package handler

import (
	"database/sql"
	"net/http"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/coolie-booking/internal/config"
	"github.com/iliyamo/coolie-booking/internal/pnr"
	"github.com/iliyamo/coolie-booking/internal/repository"
)

func newAuthHandler(t *testing.T) (*AuthHandler, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	cfg := config.Config{
		JWTSecret:      "test-secret",
		AccessTTLMin:   15,
		RefreshTTLDays: 7,
		BcryptCost:     4, // keep hashing cheap in tests
		PNRDemoPass:    "demo123",
	}
	h := NewAuthHandler(cfg,
		repository.NewUserRepo(db),
		repository.NewTokenRepo(db),
		repository.NewPassengerRepo(db),
		repository.NewCoolieRepo(db),
		pnr.SyntheticSource{},
	)
	return h, mock, db
}

func TestPNRLoginRejectsMalformedPNR(t *testing.T) {
	h, _, db := newAuthHandler(t)
	defer db.Close()

	for _, bad := range []string{"12345", "abcdefghij", "12345678901", ""} {
		rec := postJSON(t, h.PNRLogin, `{"pnr":"`+bad+`"}`, nil)
		require.Equal(t, http.StatusBadRequest, rec.Code, "pnr %q", bad)
		assert.Equal(t, "Invalid PNR. Must be 10 digits.", decodeBody(t, rec)["error"])
	}
}

// First login with an unseen PNR creates the passenger row and its
// backing demo account, then binds the two.
func TestPNRLoginCreatesDemoAccount(t *testing.T) {
	h, mock, db := newAuthHandler(t)
	defer db.Close()

	mock.ExpectQuery("FROM passengers WHERE pnr =").
		WithArgs("9876543210").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "name", "phone", "pnr", "created_at"}))
	mock.ExpectExec("INSERT INTO passengers").
		WithArgs(nil, sqlmock.AnyArg(), "", "9876543210").
		WillReturnResult(sqlmock.NewResult(11, 1))
	mock.ExpectQuery("FROM users WHERE email=").
		WithArgs("passenger_9876543210@demo.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password_hash", "role", "is_active", "created_at", "updated_at"}))
	mock.ExpectExec("INSERT INTO users").
		WithArgs("passenger_9876543210@demo.com", sqlmock.AnyArg(), "PASSENGER").
		WillReturnResult(sqlmock.NewResult(5, 1))
	mock.ExpectExec("UPDATE passengers SET user_id =").
		WithArgs(uint64(5), uint64(11)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO refresh_tokens").
		WithArgs(uint64(5), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	rec := postJSON(t, h.PNRLogin, `{"pnr":"9876543210"}`, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])

	passenger := body["passenger"].(map[string]interface{})
	assert.Equal(t, "9876543210", passenger["pnr"])
	assert.NotEmpty(t, passenger["name"])
	assert.NotEmpty(t, passenger["coach"])
	assert.NotEmpty(t, passenger["train_number"])

	user := body["user"].(map[string]interface{})
	assert.Equal(t, float64(5), user["id"])
	assert.Equal(t, "PASSENGER", user["role"])

	access := body["access"].(map[string]interface{})
	assert.NotEmpty(t, access["token"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Logging in again with the same PNR refreshes the stored name and
// reuses the existing demo account.
func TestPNRLoginReusesExistingAccount(t *testing.T) {
	h, mock, db := newAuthHandler(t)
	defer db.Close()

	mock.ExpectQuery("FROM passengers WHERE pnr =").
		WithArgs("9876543210").
		WillReturnRows(passengerRow(11, 5))
	mock.ExpectExec("UPDATE passengers SET name =").
		WithArgs(sqlmock.AnyArg(), uint64(11)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("FROM users WHERE email=").
		WithArgs("passenger_9876543210@demo.com").
		WillReturnRows(userRow(5, "passenger_9876543210@demo.com", "PASSENGER"))
	mock.ExpectExec("INSERT INTO refresh_tokens").
		WithArgs(uint64(5), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(2, 1))

	rec := postJSON(t, h.PNRLogin, `{"pnr":"9876543210"}`, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	user := decodeBody(t, rec)["user"].(map[string]interface{})
	assert.Equal(t, float64(5), user["id"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoginRejectsUnknownEmail(t *testing.T) {
	h, mock, db := newAuthHandler(t)
	defer db.Close()

	mock.ExpectQuery("FROM users WHERE email=").
		WithArgs("nobody@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password_hash", "role", "is_active", "created_at", "updated_at"}))

	rec := postJSON(t, h.Login, `{"email":"nobody@example.com","password":"x"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetUserID(t *testing.T) {
	cases := []struct {
		name  string
		value interface{}
		want  uint64
		ok    bool
	}{
		{"float64 claim", float64(42), 42, true},
		{"uint64", uint64(7), 7, true},
		{"string subject", "19", 19, true},
		{"bad string", "x", 0, false},
		{"missing", nil, 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := postJSON(t, func(c echo.Context) error {
				id, err := getUserID(c)
				if tc.ok {
					require.NoError(t, err)
					assert.Equal(t, tc.want, id)
				} else {
					require.Error(t, err)
				}
				return nil
			}, `{}`, tc.value)
			_ = rec
		})
	}
}
