package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/coolie-booking/internal/handler"
	"github.com/iliyamo/coolie-booking/internal/middleware"
	"github.com/iliyamo/coolie-booking/internal/model"
)

// RegisterBooking registers the booking lifecycle endpoints.
// Creation and assignment are passenger operations; completion is
// open to any authenticated party because either side of the booking
// may confirm it with the PIN (ownership is checked in the handler).
func RegisterBooking(e *echo.Echo, h *handler.BookingHandler, jwtSecret string) {
	passenger := e.Group("/v1/bookings")
	passenger.Use(middleware.JWTAuth(jwtSecret))

	// Create requires the passenger role up front; assignment and
	// completion gate on booking state and ownership instead.
	passenger.POST("", h.Create, middleware.RequireRole(model.RolePassenger))
	passenger.POST("/assign", h.Assign, middleware.RequireRole(model.RolePassenger, model.RoleAdmin))
	passenger.POST("/complete", h.Complete, middleware.RequireRole(model.RolePassenger, model.RoleCoolie))
}
