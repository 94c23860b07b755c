package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/coolie-booking/internal/model"
	"github.com/iliyamo/coolie-booking/internal/queue"
	"github.com/iliyamo/coolie-booking/internal/repository"
)

func newBookingHandler(t *testing.T) (*BookingHandler, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	h := NewBookingHandler(
		repository.NewUserRepo(db),
		repository.NewPassengerRepo(db),
		repository.NewCoolieRepo(db),
		repository.NewBookingRepo(db),
		repository.NewStationRepo(db),
	)
	h.Publish = nil // no broker in tests
	return h, mock, db
}

// postJSON runs a handler against a JSON POST with the given
// authenticated user id already in context, the way JWTAuth leaves it.
func postJSON(t *testing.T, fn echo.HandlerFunc, body string, userID interface{}) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if userID != nil {
		c.Set("user_id", userID)
	}
	require.NoError(t, fn(c))
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

const bookingTestColumns = "id, passenger_id, coolie_id, train_number, platform_number, " +
	"luggage_type, weight, fare, status, completion_pin, is_paid, station_code, created_at, updated_at"

func bookingRow(b model.Booking) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(strings.Split(bookingTestColumns, ", ")).
		AddRow(b.ID, b.PassengerID, b.CoolieID, b.TrainNumber, b.PlatformNumber,
			b.LuggageType, b.Weight, b.Fare, b.Status, b.CompletionPIN, b.IsPaid,
			b.StationCode, now, now)
}

func userRow(id uint64, email, role string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{"id", "email", "password_hash", "role", "is_active", "created_at", "updated_at"}).
		AddRow(id, email, "x", role, true, now, now)
}

func passengerRow(id uint64, userID uint64) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "user_id", "name", "phone", "pnr", "created_at"}).
		AddRow(id, userID, "Asha", "9999900000", nil, time.Now())
}

func coolieRow(id uint64, userID uint64) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "user_id", "name", "phone", "is_available", "kyc_verified", "earnings", "created_at"}).
		AddRow(id, userID, "Raju", "8888800000", false, true, 0.0, time.Now())
}

// Weight 25kg of MEDIUM luggage prices at 125: the per-kg rate beats
// the 30 floor.
func TestCreateBookingPricesByWeight(t *testing.T) {
	h, mock, db := newBookingHandler(t)
	defer db.Close()

	mock.ExpectQuery("FROM passengers WHERE user_id =").
		WithArgs(uint64(1)).
		WillReturnRows(passengerRow(11, 1))
	mock.ExpectExec("INSERT INTO bookings").
		WithArgs(uint64(11), "12002", 3, model.LuggageMedium, 25.0, 125.0, model.BookingPending, nil).
		WillReturnResult(sqlmock.NewResult(42, 1))

	rec := postJSON(t, h.Create,
		`{"train_number":"12002","platform_number":3,"luggage_type":"MEDIUM","weight":25}`,
		float64(1))

	require.Equal(t, http.StatusCreated, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, float64(42), body["booking_id"])
	assert.Equal(t, 125.0, body["fare"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Light luggage under the floor weight still charges the base rate.
func TestCreateBookingAppliesFloor(t *testing.T) {
	h, mock, db := newBookingHandler(t)
	defer db.Close()

	mock.ExpectQuery("FROM passengers WHERE user_id =").
		WithArgs(uint64(1)).
		WillReturnRows(passengerRow(11, 1))
	mock.ExpectExec("INSERT INTO bookings").
		WithArgs(uint64(11), "12951", 1, model.LuggageHeavy, 4.0, 50.0, model.BookingPending, nil).
		WillReturnResult(sqlmock.NewResult(43, 1))

	rec := postJSON(t, h.Create,
		`{"train_number":"12951","platform_number":1,"luggage_type":"heavy","weight":4}`,
		float64(1))

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 50.0, decodeBody(t, rec)["fare"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBookingValidation(t *testing.T) {
	h, _, db := newBookingHandler(t)
	defer db.Close()

	cases := []struct {
		name string
		body string
	}{
		{"missing train", `{"platform_number":3,"luggage_type":"MEDIUM","weight":25}`},
		{"bad platform", `{"train_number":"12002","platform_number":0,"luggage_type":"MEDIUM","weight":25}`},
		{"zero weight", `{"train_number":"12002","platform_number":3,"luggage_type":"MEDIUM","weight":0}`},
		{"unknown luggage", `{"train_number":"12002","platform_number":3,"luggage_type":"HUGE","weight":25}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := postJSON(t, h.Create, tc.body, float64(1))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestCreateBookingRequiresAuth(t *testing.T) {
	h, _, db := newBookingHandler(t)
	defer db.Close()

	rec := postJSON(t, h.Create,
		`{"train_number":"12002","platform_number":3,"luggage_type":"MEDIUM","weight":25}`, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAssignClaimsCoolieAndIssuesPIN(t *testing.T) {
	h, mock, db := newBookingHandler(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("FROM bookings WHERE id =").
		WithArgs(uint64(42)).
		WillReturnRows(bookingRow(model.Booking{
			ID: 42, PassengerID: 11, TrainNumber: "12002", PlatformNumber: 3,
			LuggageType: model.LuggageMedium, Weight: 25, Fare: 125,
			Status: model.BookingPending,
		}))
	mock.ExpectQuery("SELECT id FROM coolies WHERE is_available = 1 AND kyc_verified = 1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectExec("UPDATE coolies SET is_available = 0 WHERE id =").
		WithArgs(uint64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE bookings SET coolie_id =").
		WithArgs(uint64(7), sqlmock.AnyArg(), model.BookingAccepted, uint64(42), model.BookingPending).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	rec := postJSON(t, h.Assign, `{"booking_id":42}`, float64(1))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Coolie assigned successfully", body["message"])
	assert.Equal(t, float64(7), body["coolie_id"])

	pin, err := strconv.Atoi(body["completion_pin"].(string))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, pin, 100)
	assert.LessOrEqual(t, pin, 999)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignRejectsNonPendingBooking(t *testing.T) {
	h, mock, db := newBookingHandler(t)
	defer db.Close()

	pin := "345"
	coolieID := uint64(7)
	mock.ExpectBegin()
	mock.ExpectQuery("FROM bookings WHERE id =").
		WithArgs(uint64(42)).
		WillReturnRows(bookingRow(model.Booking{
			ID: 42, PassengerID: 11, CoolieID: &coolieID, TrainNumber: "12002",
			PlatformNumber: 3, LuggageType: model.LuggageMedium, Weight: 25, Fare: 125,
			Status: model.BookingAccepted, CompletionPIN: &pin,
		}))
	mock.ExpectRollback()

	rec := postJSON(t, h.Assign, `{"booking_id":42}`, float64(1))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Booking is not in pending status", decodeBody(t, rec)["error"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignNoAvailableCoolie(t *testing.T) {
	h, mock, db := newBookingHandler(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("FROM bookings WHERE id =").
		WithArgs(uint64(42)).
		WillReturnRows(bookingRow(model.Booking{
			ID: 42, PassengerID: 11, TrainNumber: "12002", PlatformNumber: 3,
			LuggageType: model.LuggageMedium, Weight: 25, Fare: 125,
			Status: model.BookingPending,
		}))
	mock.ExpectQuery("SELECT id FROM coolies WHERE is_available = 1 AND kyc_verified = 1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	rec := postJSON(t, h.Assign, `{"booking_id":42}`, float64(1))

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "No available coolies found", decodeBody(t, rec)["error"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignBookingNotFound(t *testing.T) {
	h, mock, db := newBookingHandler(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("FROM bookings WHERE id =").
		WithArgs(uint64(99)).
		WillReturnRows(sqlmock.NewRows(strings.Split(bookingTestColumns, ", ")))
	mock.ExpectRollback()

	rec := postJSON(t, h.Assign, `{"booking_id":99}`, float64(1))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// acceptedBooking is the fixture used by the completion tests: booking
// 42, passenger 11, coolie 7, fare 125, PIN 345.
func acceptedBooking() model.Booking {
	pin := "345"
	coolieID := uint64(7)
	return model.Booking{
		ID: 42, PassengerID: 11, CoolieID: &coolieID, TrainNumber: "12002",
		PlatformNumber: 3, LuggageType: model.LuggageMedium, Weight: 25, Fare: 125,
		Status: model.BookingAccepted, CompletionPIN: &pin,
	}
}

func TestCompleteSettlesBookingAndCreditsCoolie(t *testing.T) {
	h, mock, db := newBookingHandler(t)
	defer db.Close()

	published := make(chan queue.BookingCompletedEvent, 1)
	h.Publish = func(ctx context.Context, ev queue.BookingCompletedEvent) error {
		published <- ev
		return nil
	}

	mock.ExpectBegin()
	mock.ExpectQuery("FROM bookings WHERE id =").
		WithArgs(uint64(42)).
		WillReturnRows(bookingRow(acceptedBooking()))
	mock.ExpectQuery("FROM users WHERE id=").
		WithArgs(uint64(1)).
		WillReturnRows(userRow(1, "asha@example.com", model.RolePassenger))
	mock.ExpectQuery("FROM passengers WHERE user_id =").
		WithArgs(uint64(1)).
		WillReturnRows(passengerRow(11, 1))
	mock.ExpectExec("UPDATE bookings SET status =").
		WithArgs(model.BookingCompleted, uint64(42), model.BookingAccepted).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE coolies SET earnings = earnings").
		WithArgs(125.0, uint64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	rec := postJSON(t, h.Complete, `{"booking_id":42,"pin":"345"}`, float64(1))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Booking completed successfully", decodeBody(t, rec)["message"])
	assert.NoError(t, mock.ExpectationsWereMet())

	select {
	case ev := <-published:
		assert.Equal(t, uint64(42), ev.BookingID)
		assert.Equal(t, uint64(7), ev.CoolieID)
		assert.Equal(t, 125.0, ev.Fare)
	case <-time.After(time.Second):
		t.Fatal("completion event was not published")
	}
}

func TestCompleteByAssignedCoolie(t *testing.T) {
	h, mock, db := newBookingHandler(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("FROM bookings WHERE id =").
		WithArgs(uint64(42)).
		WillReturnRows(bookingRow(acceptedBooking()))
	mock.ExpectQuery("FROM users WHERE id=").
		WithArgs(uint64(2)).
		WillReturnRows(userRow(2, "raju@example.com", model.RoleCoolie))
	mock.ExpectQuery("FROM coolies WHERE user_id =").
		WithArgs(uint64(2)).
		WillReturnRows(coolieRow(7, 2))
	mock.ExpectExec("UPDATE bookings SET status =").
		WithArgs(model.BookingCompleted, uint64(42), model.BookingAccepted).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE coolies SET earnings = earnings").
		WithArgs(125.0, uint64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	rec := postJSON(t, h.Complete, `{"booking_id":42,"pin":"345"}`, float64(2))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// A wrong PIN must roll back without touching the booking or coolie
// rows; the absence of update expectations enforces that.
func TestCompleteWrongPINMutatesNothing(t *testing.T) {
	h, mock, db := newBookingHandler(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("FROM bookings WHERE id =").
		WithArgs(uint64(42)).
		WillReturnRows(bookingRow(acceptedBooking()))
	mock.ExpectRollback()

	rec := postJSON(t, h.Complete, `{"booking_id":42,"pin":"999"}`, float64(1))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid PIN", decodeBody(t, rec)["error"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCompleteRejectsNonParty(t *testing.T) {
	h, mock, db := newBookingHandler(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("FROM bookings WHERE id =").
		WithArgs(uint64(42)).
		WillReturnRows(bookingRow(acceptedBooking()))
	mock.ExpectQuery("FROM users WHERE id=").
		WithArgs(uint64(3)).
		WillReturnRows(userRow(3, "other@example.com", model.RolePassenger))
	mock.ExpectQuery("FROM passengers WHERE user_id =").
		WithArgs(uint64(3)).
		WillReturnRows(passengerRow(12, 3)) // owns a different booking
	mock.ExpectRollback()

	rec := postJSON(t, h.Complete, `{"booking_id":42,"pin":"345"}`, float64(3))

	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "You are not authorized to complete this booking", decodeBody(t, rec)["error"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCompleteRejectsNonAcceptedBooking(t *testing.T) {
	h, mock, db := newBookingHandler(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("FROM bookings WHERE id =").
		WithArgs(uint64(42)).
		WillReturnRows(bookingRow(model.Booking{
			ID: 42, PassengerID: 11, TrainNumber: "12002", PlatformNumber: 3,
			LuggageType: model.LuggageMedium, Weight: 25, Fare: 125,
			Status: model.BookingPending,
		}))
	mock.ExpectRollback()

	rec := postJSON(t, h.Complete, `{"booking_id":42,"pin":"345"}`, float64(1))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Booking is not in accepted status", decodeBody(t, rec)["error"])
	assert.NoError(t, mock.ExpectationsWereMet())
}
