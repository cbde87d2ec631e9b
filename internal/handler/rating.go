package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-discovery/internal/model"
	"github.com/iliyamo/event-discovery/internal/repository"
	"github.com/iliyamo/event-discovery/internal/service"
)

// UserLoader fetches the caller's profile so the stored rating can
// carry a snapshot of their display name and avatar.
type UserLoader interface {
	GetByID(ctx context.Context, id uint64) (model.User, error)
}

// RatingHandler serves rating submission for authenticated users.
type RatingHandler struct {
	Ratings *service.RatingService
	Users   UserLoader
}

func NewRatingHandler(ratings *service.RatingService, users UserLoader) *RatingHandler {
	return &RatingHandler{Ratings: ratings, Users: users}
}

type submitRatingReq struct {
	Rating     int    `json:"rating"`
	ReviewText string `json:"review_text"`
}

// SubmitRating handles PUT /v1/events/:id/rating.  The operation is
// idempotent per user: submitting again replaces the earlier rating
// rather than adding a second one.
func (h *RatingHandler) SubmitRating(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	eventID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || eventID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	var body submitRatingReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	ctx := c.Request().Context()

	u, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unknown user"})
	}

	stored, avg, err := h.Ratings.Submit(ctx, service.SubmitRatingInput{
		EventID:        eventID,
		UserID:         userID,
		Rating:         body.Rating,
		ReviewText:     strings.TrimSpace(body.ReviewText),
		ReviewerName:   u.DisplayName,
		ReviewerAvatar: u.AvatarURL,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRating):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		case errors.Is(err, service.ErrNoActor):
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
		case errors.Is(err, repository.ErrEventNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		case errors.Is(err, service.ErrSubmitConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "please retry your rating"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not store rating"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"rating":         stored,
		"average_rating": avg,
	})
}
