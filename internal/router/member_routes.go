package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-discovery/internal/handler"
	"github.com/iliyamo/event-discovery/internal/middleware"
	"github.com/iliyamo/event-discovery/internal/model"
)

// RegisterMember registers endpoints available to any authenticated
// user.  Rating an event is a PUT: one rating per user per event,
// resubmission replaces.
func RegisterMember(e *echo.Echo, h *handler.RatingHandler, jwtSecret string) {
	g := e.Group("/v1")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole(model.RoleOrganizer, model.RoleVisitor))
	g.PUT("/events/:id/rating", h.SubmitRating)
}
