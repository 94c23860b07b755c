package handler

import (
	"context"  // passed through to repositories and the publisher
	"log"      // best-effort publish failures are logged, not surfaced
	"net/http" // HTTP status codes
	"strings"  // luggage type normalization
	"time"     // timestamps on published events

	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/coolie-booking/internal/fare"       // fare formula
	"github.com/iliyamo/coolie-booking/internal/model"      // domain types
	"github.com/iliyamo/coolie-booking/internal/queue"      // event payloads
	"github.com/iliyamo/coolie-booking/internal/repository" // repository layer
	"github.com/iliyamo/coolie-booking/internal/service"    // queue publisher
	"github.com/iliyamo/coolie-booking/internal/utils"      // completion PIN
)

// BookingHandler groups the repositories needed to run the booking
// lifecycle: intake, coolie assignment and PIN-checked completion.
// JWT authentication has already been performed by middleware; the
// role checks that remain here are per-booking ownership checks.
// Lifecycle transitions run inside a transaction so the booking and
// coolie rows always move together.
type BookingHandler struct {
	Users      *repository.UserRepo      // resolve the caller's role on completion
	Passengers *repository.PassengerRepo // resolve passenger profiles
	Coolies    *repository.CoolieRepo    // claim/release coolies
	Bookings   *repository.BookingRepo   // booking rows and transitions
	Stations   *repository.StationRepo   // validate optional station codes

	// Publish sends the completion event; it is best-effort and may
	// be nil in tests.
	Publish func(ctx context.Context, ev queue.BookingCompletedEvent) error
}

// NewBookingHandler constructs a BookingHandler with the provided
// repositories. All repositories must be non-nil.
func NewBookingHandler(users *repository.UserRepo, passengers *repository.PassengerRepo,
	coolies *repository.CoolieRepo, bookings *repository.BookingRepo,
	stations *repository.StationRepo) *BookingHandler {
	if users == nil || passengers == nil || coolies == nil || bookings == nil || stations == nil {
		panic("nil repository passed to NewBookingHandler")
	}
	return &BookingHandler{
		Users:      users,
		Passengers: passengers,
		Coolies:    coolies,
		Bookings:   bookings,
		Stations:   stations,
		Publish:    service.PublishBookingCompleted,
	}
}

// ----- DTOs -----

type createBookingReq struct {
	TrainNumber    string  `json:"train_number"`
	PlatformNumber int     `json:"platform_number"`
	LuggageType    string  `json:"luggage_type"`
	Weight         float64 `json:"weight"`
	StationCode    string  `json:"station_code"`
}

type assignReq struct {
	BookingID uint64 `json:"booking_id"`
}

type completeReq struct {
	BookingID uint64 `json:"booking_id"`
	PIN       string `json:"pin"`
}

// Create handles POST /v1/bookings. Only passengers reach this
// handler (RequireRole), but the caller must also own a passenger
// profile. The fare is fixed here and never recomputed: it is the
// amount credited to the coolie at completion.
func (h *BookingHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.TrainNumber = strings.TrimSpace(req.TrainNumber)
	if req.TrainNumber == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "train_number is required"})
	}
	if req.PlatformNumber <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid platform_number"})
	}
	if req.Weight <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "weight must be positive"})
	}
	luggage := strings.ToUpper(strings.TrimSpace(req.LuggageType))
	switch luggage {
	case model.LuggageLight, model.LuggageMedium, model.LuggageHeavy:
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid luggage_type"})
	}

	ctx := c.Request().Context()
	passenger, err := h.Passengers.GetByUserID(ctx, userID)
	if err != nil {
		if err == repository.ErrPassengerNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Passenger profile not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	var stationCode *string
	if code := strings.ToUpper(strings.TrimSpace(req.StationCode)); code != "" {
		station, err := h.Stations.GetByCode(ctx, code)
		if err != nil {
			if err == repository.ErrStationNotFound {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown station code"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
		stationCode = &station.Code
	}

	amount := fare.Calculate(req.Weight, luggage)
	bookingID, err := h.Bookings.Create(ctx, model.Booking{
		PassengerID:    passenger.ID,
		TrainNumber:    req.TrainNumber,
		PlatformNumber: req.PlatformNumber,
		LuggageType:    luggage,
		Weight:         req.Weight,
		Fare:           amount,
		StationCode:    stationCode,
	})
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Failed to create booking"})
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"booking_id": bookingID,
		"fare":       amount,
	})
}

// Assign handles POST /v1/bookings/assign. It claims one available,
// KYC-verified coolie and stamps the booking ACCEPTED with a fresh
// completion PIN. Claim and stamp run in a single transaction:
// whichever of N concurrent assignments commits first gets the
// coolie, the rest fail cleanly.
func (h *BookingHandler) Assign(c echo.Context) error {
	var req assignReq
	if err := c.Bind(&req); err != nil || req.BookingID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "booking_id is required"})
	}

	ctx := c.Request().Context()
	tx, err := h.Bookings.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	booking, err := h.Bookings.GetByIDTx(ctx, tx, req.BookingID)
	if err != nil {
		if err == repository.ErrBookingNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if booking.Status != model.BookingPending {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Booking is not in pending status"})
	}

	coolieID, err := h.Coolies.ClaimAvailableTx(ctx, tx)
	if err != nil {
		if err == repository.ErrNoAvailableCoolie {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "No available coolies found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	pin, err := utils.NewCompletionPIN()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to generate PIN"})
	}
	if err := h.Bookings.AcceptTx(ctx, tx, booking.ID, coolieID, pin); err != nil {
		if err == repository.ErrInvalidBookingState {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Booking is not in pending status"})
		}
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Failed to assign coolie"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true

	return c.JSON(http.StatusOK, echo.Map{
		"message":        "Coolie assigned successfully",
		"coolie_id":      coolieID,
		"completion_pin": pin,
	})
}

// Complete handles POST /v1/bookings/complete. The caller must
// present the booking's completion PIN and be a party to the
// booking: its passenger or its assigned coolie. On success the
// booking is settled and the coolie is credited and freed, all in
// one transaction; nothing is mutated on any failed precondition.
func (h *BookingHandler) Complete(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req completeReq
	if err := c.Bind(&req); err != nil || req.BookingID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "booking_id is required"})
	}

	ctx := c.Request().Context()
	tx, err := h.Bookings.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	booking, err := h.Bookings.GetByIDTx(ctx, tx, req.BookingID)
	if err != nil {
		if err == repository.ErrBookingNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if booking.Status != model.BookingAccepted {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Booking is not in accepted status"})
	}
	if booking.CompletionPIN == nil || *booking.CompletionPIN != req.PIN {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid PIN"})
	}

	user, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "User profile not found"})
	}
	authz := h.authorizerForRole(user.Role)
	if authz == nil {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "You are not authorized to complete this booking"})
	}
	if err := authz.authorize(ctx, userID, booking); err != nil {
		if err == repository.ErrForbidden {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "You are not authorized to complete this booking"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	if err := h.Bookings.CompleteTx(ctx, tx, booking.ID); err != nil {
		if err == repository.ErrInvalidBookingState {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Booking is not in accepted status"})
		}
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Failed to complete booking"})
	}
	if err := h.Coolies.CreditAndReleaseTx(ctx, tx, *booking.CoolieID, booking.Fare); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Failed to complete booking"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true

	// Settlement event is best-effort; a broker outage must not fail
	// the completed booking.
	if h.Publish != nil {
		ev := queue.BookingCompletedEvent{
			BookingID:      booking.ID,
			PassengerID:    booking.PassengerID,
			CoolieID:       *booking.CoolieID,
			TrainNumber:    booking.TrainNumber,
			PlatformNumber: booking.PlatformNumber,
			LuggageType:    booking.LuggageType,
			Weight:         booking.Weight,
			Fare:           booking.Fare,
			CompletedAt:    time.Now().UTC().Format(time.RFC3339),
		}
		go func() {
			if err := h.Publish(context.Background(), ev); err != nil {
				log.Printf("booking %d: publish completion event: %v", booking.ID, err)
			}
		}()
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Booking completed successfully"})
}

// ----- completion authorization -----

// completionAuthorizer decides whether a user may complete a given
// booking. There is one strategy per party to the booking.
type completionAuthorizer interface {
	authorize(ctx context.Context, userID uint64, b model.Booking) error
}

// passengerParty authorizes the passenger who owns the booking.
type passengerParty struct {
	repo *repository.PassengerRepo
}

func (a passengerParty) authorize(ctx context.Context, userID uint64, b model.Booking) error {
	p, err := a.repo.GetByUserID(ctx, userID)
	if err == repository.ErrPassengerNotFound {
		return repository.ErrForbidden
	}
	if err != nil {
		return err
	}
	if p.ID != b.PassengerID {
		return repository.ErrForbidden
	}
	return nil
}

// coolieParty authorizes the coolie assigned to the booking.
type coolieParty struct {
	repo *repository.CoolieRepo
}

func (a coolieParty) authorize(ctx context.Context, userID uint64, b model.Booking) error {
	if b.CoolieID == nil {
		return repository.ErrForbidden
	}
	co, err := a.repo.GetByUserID(ctx, userID)
	if err == repository.ErrCoolieNotFound {
		return repository.ErrForbidden
	}
	if err != nil {
		return err
	}
	if co.ID != *b.CoolieID {
		return repository.ErrForbidden
	}
	return nil
}

// authorizerForRole maps an account role to its completion strategy;
// roles that are never party to a booking get nil.
func (h *BookingHandler) authorizerForRole(role string) completionAuthorizer {
	switch role {
	case model.RolePassenger:
		return passengerParty{repo: h.Passengers}
	case model.RoleCoolie:
		return coolieParty{repo: h.Coolies}
	default:
		return nil
	}
}
