package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/coolie-booking/internal/repository"
)

// CoolieHandler serves the coolie dashboard endpoints: assigned
// jobs, earnings and the manual availability toggle.
type CoolieHandler struct {
	Coolies  *repository.CoolieRepo
	Bookings *repository.BookingRepo
}

func NewCoolieHandler(co *repository.CoolieRepo, b *repository.BookingRepo) *CoolieHandler {
	return &CoolieHandler{Coolies: co, Bookings: b}
}

type coolieProfileResp struct {
	ID          uint64  `json:"id"`
	Name        string  `json:"name"`
	Phone       string  `json:"phone"`
	IsAvailable bool    `json:"is_available"`
	KYCVerified bool    `json:"kyc_verified"`
	Earnings    float64 `json:"earnings"`
}

type availabilityReq struct {
	IsAvailable bool `json:"is_available"`
}

// Profile handles GET /v1/coolie/profile.
func (h *CoolieHandler) Profile(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	co, err := h.Coolies.GetByUserID(c.Request().Context(), userID)
	if err != nil {
		if err == repository.ErrCoolieNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Coolie profile not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, coolieProfileResp{
		ID:          co.ID,
		Name:        co.Name,
		Phone:       co.Phone,
		IsAvailable: co.IsAvailable,
		KYCVerified: co.KYCVerified,
		Earnings:    co.Earnings,
	})
}

// MyJobs handles GET /v1/coolie/bookings and returns the bookings
// assigned to the caller, newest first.
func (h *CoolieHandler) MyJobs(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx := c.Request().Context()
	co, err := h.Coolies.GetByUserID(ctx, userID)
	if err != nil {
		if err == repository.ErrCoolieNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Coolie profile not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	bookings, err := h.Bookings.ListByCoolie(ctx, co.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	views := make([]bookingView, 0, len(bookings))
	for _, b := range bookings {
		views = append(views, toBookingView(b))
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": views})
}

// SetAvailability handles PATCH /v1/coolie/availability, the manual
// on/off-duty toggle. Going off duty is refused while a job is in
// flight; the assignment flow owns the flag for the duration of a
// booking.
func (h *CoolieHandler) SetAvailability(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req availabilityReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	ctx := c.Request().Context()
	co, err := h.Coolies.GetByUserID(ctx, userID)
	if err != nil {
		if err == repository.ErrCoolieNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Coolie profile not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	active, err := h.Bookings.HasActiveForCoolie(ctx, co.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if active {
		return c.JSON(http.StatusConflict, echo.Map{"error": "cannot change availability with an active booking"})
	}
	if err := h.Coolies.SetAvailability(ctx, co.ID, req.IsAvailable); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"is_available": req.IsAvailable})
}
