package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-discovery/internal/filter"
	"github.com/iliyamo/event-discovery/internal/model"
	"github.com/iliyamo/event-discovery/internal/repository"
)

// EventLister is the read surface the public handlers need.  The
// MySQL EventRepo is the production implementation; tests use fakes.
type EventLister interface {
	ListAll(ctx context.Context) ([]model.Event, error)
	GetByID(ctx context.Context, id uint64) (model.Event, error)
}

// ReviewLister lists an event's ratings, most recent first.
type ReviewLister interface {
	ListByEvent(ctx context.Context, eventID uint64) ([]model.Rating, error)
}

// PublicHandler serves the unauthenticated browse API.  Responses
// expose the full event record; ownership is public information here
// (organizer profiles are part of the product).
type PublicHandler struct {
	Events  EventLister
	Reviews ReviewLister
}

func NewPublicHandler(events EventLister, reviews ReviewLister) *PublicHandler {
	return &PublicHandler{Events: events, Reviews: reviews}
}

// ListEvents handles GET /v1/events.  Query parameters map directly
// onto the filter configuration:
//
//	q          substring match on name/description/venue/category
//	categories comma-separated category set
//	district   single district, "" or "all" for no filter
//	range      today | weekend | next7days | all
//	lat, lng   viewer location; both present enables proximity order
func (h *PublicHandler) ListEvents(c echo.Context) error {
	events, err := h.Events.ListAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	cfg := filter.Config{
		SearchTerm: c.QueryParam("q"),
		District:   c.QueryParam("district"),
		Range:      filter.ParseDateRange(c.QueryParam("range")),
	}
	if raw := strings.TrimSpace(c.QueryParam("categories")); raw != "" {
		cfg.Categories = strings.Split(raw, ",")
	}

	var viewer *filter.Coordinates
	latStr, lngStr := c.QueryParam("lat"), c.QueryParam("lng")
	if latStr != "" && lngStr != "" {
		lat, errLat := strconv.ParseFloat(latStr, 64)
		lng, errLng := strconv.ParseFloat(lngStr, 64)
		if errLat != nil || errLng != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid viewer location"})
		}
		viewer = &filter.Coordinates{Lat: lat, Lng: lng}
	}

	items := filter.Apply(events, cfg, viewer)
	return c.JSON(http.StatusOK, echo.Map{"items": items, "total": len(items)})
}

// GetEvent handles GET /v1/events/:id and returns one event with its
// current average rating.
func (h *PublicHandler) GetEvent(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	ev, err := h.Events.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, ev)
}

// ListEventReviews handles GET /v1/events/:id/reviews.  Ratings come
// back most recently updated first.
func (h *PublicHandler) ListEventReviews(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	ctx := c.Request().Context()
	ev, err := h.Events.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	reviews, err := h.Reviews.ListByEvent(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"items":          reviews,
		"total":          len(reviews),
		"average_rating": ev.AverageRating,
	})
}
