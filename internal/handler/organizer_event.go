package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-discovery/internal/model"
	"github.com/iliyamo/event-discovery/internal/queue"
	"github.com/iliyamo/event-discovery/internal/repository"
	"github.com/iliyamo/event-discovery/internal/service"
)

// OrganizerHandler implements event management for organizers.  All
// methods assume JWT authentication and the ORGANIZER role have been
// enforced by middleware.
type OrganizerHandler struct {
	Events *repository.EventRepo
}

// NewOrganizerHandler constructs a new OrganizerHandler and panics if
// the repository is nil.
func NewOrganizerHandler(events *repository.EventRepo) *OrganizerHandler {
	if events == nil {
		panic("nil repository passed to NewOrganizerHandler")
	}
	return &OrganizerHandler{Events: events}
}

type eventReq struct {
	Name             string   `json:"name"`
	LocalName        string   `json:"local_name"`
	Description      string   `json:"description"`
	LocalDescription string   `json:"local_description"`
	StartsAt         string   `json:"starts_at"`
	EndsAt           string   `json:"ends_at"`
	Venue            string   `json:"venue"`
	Address          string   `json:"address"`
	District         string   `json:"district"`
	City             string   `json:"city"`
	Latitude         *float64 `json:"latitude"`
	Longitude        *float64 `json:"longitude"`
	Category         string   `json:"category"`
	Language         string   `json:"language"`
	Tags             string   `json:"tags"`
	PriceCents       *uint32  `json:"price_cents"` // absent means free
}

// CreateEvent handles POST /v1/events.  On success an
// event.published notification is queued; a broker failure is logged
// by the publisher and deliberately ignored here.
func (h *OrganizerHandler) CreateEvent(c echo.Context) error {
	organizerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body eventReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	name := strings.TrimSpace(body.Name)
	if name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	if strings.TrimSpace(body.Venue) == "" || strings.TrimSpace(body.District) == "" || strings.TrimSpace(body.City) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "venue, district and city are required"})
	}
	if strings.TrimSpace(body.Category) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "category is required"})
	}
	startsAt, err := time.Parse(time.RFC3339, strings.TrimSpace(body.StartsAt))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid starts_at format"})
	}
	endsAt, err := time.Parse(time.RFC3339, strings.TrimSpace(body.EndsAt))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid ends_at format"})
	}
	if !endsAt.After(startsAt) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "ends_at must be after starts_at"})
	}
	if (body.Latitude == nil) != (body.Longitude == nil) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "latitude and longitude must be set together"})
	}

	ev := model.Event{
		Name:             name,
		LocalName:        strings.TrimSpace(body.LocalName),
		Description:      strings.TrimSpace(body.Description),
		LocalDescription: strings.TrimSpace(body.LocalDescription),
		StartsAt:         startsAt,
		EndsAt:           endsAt,
		Venue:            strings.TrimSpace(body.Venue),
		Address:          strings.TrimSpace(body.Address),
		District:         strings.TrimSpace(body.District),
		City:             strings.TrimSpace(body.City),
		Latitude:         body.Latitude,
		Longitude:        body.Longitude,
		Category:         strings.ToUpper(strings.TrimSpace(body.Category)),
		Language:         strings.TrimSpace(body.Language),
		Tags:             strings.TrimSpace(body.Tags),
		PriceCents:       body.PriceCents,
		OrganizerID:      organizerID,
	}
	if err := h.Events.Create(c.Request().Context(), &ev); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create event"})
	}

	// notify subscribers out of band; the request never fails on this
	go func(ev model.Event) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = service.PublishEventPublished(ctx, queue.EventPublishedEvent{
			EventID:     ev.ID,
			Name:        ev.Name,
			Category:    ev.Category,
			District:    ev.District,
			City:        ev.City,
			Venue:       ev.Venue,
			StartsAt:    ev.StartsAt.Format(time.RFC3339),
			PriceCents:  ev.Price(),
			OrganizerID: ev.OrganizerID,
			PublishedAt: time.Now().UTC().Format(time.RFC3339),
		})
	}(ev)

	return c.JSON(http.StatusCreated, ev)
}

// UpdateEvent handles PUT/PATCH /v1/events/:id with partial field
// updates.  Fields omitted from the body keep their stored value.
func (h *OrganizerHandler) UpdateEvent(c echo.Context) error {
	organizerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}

	var body struct {
		Name             *string  `json:"name"`
		LocalName        *string  `json:"local_name"`
		Description      *string  `json:"description"`
		LocalDescription *string  `json:"local_description"`
		StartsAt         *string  `json:"starts_at"`
		EndsAt           *string  `json:"ends_at"`
		Venue            *string  `json:"venue"`
		Address          *string  `json:"address"`
		District         *string  `json:"district"`
		City             *string  `json:"city"`
		Latitude         *float64 `json:"latitude"`
		Longitude        *float64 `json:"longitude"`
		Category         *string  `json:"category"`
		Language         *string  `json:"language"`
		Tags             *string  `json:"tags"`
		PriceCents       *uint32  `json:"price_cents"`
		Free             *bool    `json:"free"` // explicit "make it free"
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	upd := repository.EventUpdate{
		Name:             body.Name,
		LocalName:        body.LocalName,
		Description:      body.Description,
		LocalDescription: body.LocalDescription,
		Venue:            body.Venue,
		Address:          body.Address,
		District:         body.District,
		City:             body.City,
		Latitude:         body.Latitude,
		Longitude:        body.Longitude,
		Category:         body.Category,
		Language:         body.Language,
		Tags:             body.Tags,
		PriceCents:       body.PriceCents,
	}
	if body.Free != nil && *body.Free {
		upd.ClearPrice = true
	}
	if body.StartsAt != nil {
		t, err := time.Parse(time.RFC3339, strings.TrimSpace(*body.StartsAt))
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid starts_at format"})
		}
		upd.StartsAt = &t
	}
	if body.EndsAt != nil {
		t, err := time.Parse(time.RFC3339, strings.TrimSpace(*body.EndsAt))
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid ends_at format"})
		}
		upd.EndsAt = &t
	}

	ev, err := h.Events.Update(c.Request().Context(), id, organizerID, upd)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrEventNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		case errors.Is(err, repository.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not update event"})
	}
	return c.JSON(http.StatusOK, ev)
}

// DeleteEvent handles DELETE /v1/events/:id.  Embedded ratings go
// with the event; nothing else cascades.
func (h *OrganizerHandler) DeleteEvent(c echo.Context) error {
	organizerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	if err := h.Events.Delete(c.Request().Context(), id, organizerID); err != nil {
		switch {
		case errors.Is(err, repository.ErrEventNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		case errors.Is(err, repository.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not delete event"})
	}
	return c.NoContent(http.StatusNoContent)
}

// ListMyEvents handles GET /v1/my-events, newest first.
func (h *OrganizerHandler) ListMyEvents(c echo.Context) error {
	organizerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	events, err := h.Events.ListByOrganizer(c.Request().Context(), organizerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": events, "total": len(events)})
}
