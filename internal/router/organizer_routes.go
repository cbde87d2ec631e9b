package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-discovery/internal/handler"
	"github.com/iliyamo/event-discovery/internal/middleware"
	"github.com/iliyamo/event-discovery/internal/model"
)

// RegisterOrganizer registers event management endpoints, restricted
// to the ORGANIZER role.
func RegisterOrganizer(e *echo.Echo, h *handler.OrganizerHandler, jwtSecret string) {
	g := e.Group("/v1")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole(model.RoleOrganizer))

	g.POST("/events", h.CreateEvent)
	g.PUT("/events/:id", h.UpdateEvent)
	g.PATCH("/events/:id", h.UpdateEvent)
	g.DELETE("/events/:id", h.DeleteEvent)
	g.GET("/my-events", h.ListMyEvents)
}
