package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-discovery/internal/handler"
)

// RegisterPublic registers the unauthenticated browse API.  The
// optional middleware (response cache, rate limiter) is applied to
// this group only: authenticated routes must never be cached and are
// already bounded by the session.
func RegisterPublic(e *echo.Echo, h *handler.PublicHandler, mw ...echo.MiddlewareFunc) {
	g := e.Group("/v1", mw...)
	g.GET("/events", h.ListEvents)
	g.GET("/events/:id", h.GetEvent)
	g.GET("/events/:id/reviews", h.ListEventReviews)
}
