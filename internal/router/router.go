// Package router wires HTTP routes to their handlers and middleware.
// Routes are grouped by audience: public browse endpoints, auth
// endpoints, member endpoints (any authenticated user) and organizer
// endpoints (ORGANIZER role only).
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-discovery/internal/handler"
	"github.com/iliyamo/event-discovery/internal/middleware"
)

// RegisterRoutes registers routes that need no authentication or
// grouping.  Currently only the health check used by load balancers.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the session endpoints under /v1/auth plus the
// authenticated profile endpoint /v1/me.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// Refresh rotates the token: the presented refresh token is
	// revoked and a new pair is issued.
	g.POST("/refresh", a.Refresh)
	// Logout takes a refresh_token in the body and needs no access
	// token, so an expired session can still be ended.
	g.POST("/logout", a.Logout)

	me := e.Group("/v1")
	me.Use(middleware.JWTAuth(jwtSecret))
	me.GET("/me", a.Me)
	me.POST("/auth/logout-all", a.LogoutAll)
}
