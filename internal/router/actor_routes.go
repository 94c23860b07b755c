package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/coolie-booking/internal/handler"
	"github.com/iliyamo/coolie-booking/internal/middleware"
	"github.com/iliyamo/coolie-booking/internal/model"
)

// RegisterPassenger registers the passenger dashboard reads.
func RegisterPassenger(e *echo.Echo, h *handler.PassengerHandler, jwtSecret string) {
	g := e.Group("/v1/passenger")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole(model.RolePassenger))
	g.GET("/bookings", h.MyBookings)
}

// RegisterCoolie registers the coolie dashboard endpoints.
func RegisterCoolie(e *echo.Echo, h *handler.CoolieHandler, jwtSecret string) {
	g := e.Group("/v1/coolie")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole(model.RoleCoolie))
	g.GET("/profile", h.Profile)
	g.GET("/bookings", h.MyJobs)
	g.PATCH("/availability", h.SetAvailability)
}

// RegisterAdmin registers the admin panel endpoints: coolie KYC
// verification and station management.
func RegisterAdmin(e *echo.Echo, h *handler.AdminHandler, jwtSecret string) {
	g := e.Group("/v1/admin")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole(model.RoleAdmin))
	g.GET("/coolies", h.ListCoolies)
	g.POST("/coolies/:id/verify", h.VerifyCoolie)
	g.POST("/stations", h.CreateStation)
	g.PUT("/stations/:id", h.UpdateStation)
	g.DELETE("/stations/:id", h.DeleteStation)
}

// RegisterPublic registers unauthenticated reference-data reads.
// The station list goes through the Redis response cache when one is
// configured; cacheMW may be nil.
func RegisterPublic(e *echo.Echo, h *handler.PublicHandler, cacheMW echo.MiddlewareFunc) {
	if cacheMW != nil {
		e.GET("/v1/stations", h.ListStations, cacheMW)
		return
	}
	e.GET("/v1/stations", h.ListStations)
}
