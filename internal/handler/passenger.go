package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/coolie-booking/internal/model"
	"github.com/iliyamo/coolie-booking/internal/repository"
)

// PassengerHandler serves the passenger-facing read endpoints.
type PassengerHandler struct {
	Passengers *repository.PassengerRepo
	Bookings   *repository.BookingRepo
}

func NewPassengerHandler(p *repository.PassengerRepo, b *repository.BookingRepo) *PassengerHandler {
	return &PassengerHandler{Passengers: p, Bookings: b}
}

// bookingView is the JSON shape returned for a booking. The
// completion PIN is included: the passenger needs it to hand to the
// coolie, and the coolie needs it to confirm.
type bookingView struct {
	ID             uint64  `json:"id"`
	PassengerID    uint64  `json:"passenger_id"`
	CoolieID       *uint64 `json:"coolie_id,omitempty"`
	TrainNumber    string  `json:"train_number"`
	PlatformNumber int     `json:"platform_number"`
	LuggageType    string  `json:"luggage_type"`
	Weight         float64 `json:"weight"`
	Fare           float64 `json:"fare"`
	Status         string  `json:"status"`
	CompletionPIN  *string `json:"completion_pin,omitempty"`
	IsPaid         bool    `json:"is_paid"`
	StationCode    *string `json:"station_code,omitempty"`
	CreatedAt      string  `json:"created_at"`
}

func toBookingView(b model.Booking) bookingView {
	return bookingView{
		ID:             b.ID,
		PassengerID:    b.PassengerID,
		CoolieID:       b.CoolieID,
		TrainNumber:    b.TrainNumber,
		PlatformNumber: b.PlatformNumber,
		LuggageType:    b.LuggageType,
		Weight:         b.Weight,
		Fare:           b.Fare,
		Status:         b.Status,
		CompletionPIN:  b.CompletionPIN,
		IsPaid:         b.IsPaid,
		StationCode:    b.StationCode,
		CreatedAt:      b.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// MyBookings handles GET /v1/passenger/bookings and returns the
// caller's bookings, newest first.
func (h *PassengerHandler) MyBookings(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx := c.Request().Context()
	passenger, err := h.Passengers.GetByUserID(ctx, userID)
	if err != nil {
		if err == repository.ErrPassengerNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Passenger profile not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	bookings, err := h.Bookings.ListByPassenger(ctx, passenger.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	views := make([]bookingView, 0, len(bookings))
	for _, b := range bookings {
		views = append(views, toBookingView(b))
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": views})
}
