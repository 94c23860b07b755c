package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // Echo web framework for routing

	"github.com/iliyamo/coolie-booking/internal/handler"    // handlers implementing the endpoints
	"github.com/iliyamo/coolie-booking/internal/middleware" // JWT authentication and role enforcement
)

// RegisterRoutes registers routes that require no authentication.
// Currently it exposes only a health check for load balancers and
// monitoring.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication-related routes.
// Unauthenticated operations live under /v1/auth, protected account
// endpoints under /v1. The PNR demo login sits next to the classic
// email/password endpoints because both produce the same token pair.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// PNR login: validates the 10-digit PNR, upserts the passenger
	// record and binds it to a demo account.
	g.POST("/pnr", a.PNRLogin)
	// Refresh rotates the refresh token; refresh-access only issues a
	// new access token.
	g.POST("/refresh", a.Refresh)
	g.POST("/refresh-access", a.RefreshAccess)
	// Logout takes a refresh token in the body and does not require a
	// JWT; possession of the token is the credential.
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
}
