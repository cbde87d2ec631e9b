// Package service contains the business operations that sit between
// HTTP handlers and the repositories.  The rating service owns the
// one real consistency contract in the system: an event's average
// rating must always equal the mean of its current ratings, under
// concurrent submission.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/iliyamo/event-discovery/internal/model"
	"github.com/iliyamo/event-discovery/internal/repository"
)

// ErrInvalidRating is returned before any transaction attempt when
// the star value is outside [1,5].
var ErrInvalidRating = errors.New("rating must be between 1 and 5")

// ErrNoActor is returned when no authenticated identity was supplied.
var ErrNoActor = errors.New("missing caller identity")

// ErrSubmitConflict is returned after the retry budget is exhausted.
// The caller sees a generic failure; no partial write ever became
// visible.
var ErrSubmitConflict = errors.New("rating submission failed due to concurrent updates")

// RatingStore is the atomic read-merge-write primitive the service
// drives.  Submit must replace any prior rating by the same user,
// recompute the event average and persist both in one atomic unit,
// returning repository.ErrTxConflict when a conflicting concurrent
// commit aborted the attempt.  The MySQL RatingRepo is the production
// implementation; tests use an in-memory fake.
type RatingStore interface {
	Submit(ctx context.Context, eventID uint64, in model.Rating) (model.Rating, float64, error)
}

const (
	submitAttempts = 3
	submitBackoff  = 25 * time.Millisecond
)

// RatingService validates submissions and retries the transactional
// merge on serialization conflicts.
type RatingService struct {
	store    RatingStore
	attempts int
	backoff  time.Duration
}

// NewRatingService returns a RatingService with the default bounded
// retry policy.
func NewRatingService(store RatingStore) *RatingService {
	return &RatingService{store: store, attempts: submitAttempts, backoff: submitBackoff}
}

// SubmitRatingInput is everything a submission carries.  Reviewer
// fields are a snapshot of the caller's display info taken at
// submission time.
type SubmitRatingInput struct {
	EventID        uint64
	UserID         uint64
	Rating         int
	ReviewText     string
	ReviewerName   string
	ReviewerAvatar string
}

// Submit stores or replaces the caller's rating for an event and
// returns the stored rating together with the recomputed average.
// Validation failures are rejected before the first transaction
// attempt; conflicts are retried up to the budget and then surface
// as ErrSubmitConflict.
func (s *RatingService) Submit(ctx context.Context, in SubmitRatingInput) (model.Rating, float64, error) {
	if in.UserID == 0 {
		return model.Rating{}, 0, ErrNoActor
	}
	if !model.ValidRating(in.Rating) {
		return model.Rating{}, 0, ErrInvalidRating
	}

	rating := model.Rating{
		EventID:        in.EventID,
		UserID:         in.UserID,
		Rating:         in.Rating,
		ReviewText:     in.ReviewText,
		ReviewerName:   in.ReviewerName,
		ReviewerAvatar: in.ReviewerAvatar,
	}

	for attempt := 1; ; attempt++ {
		stored, avg, err := s.store.Submit(ctx, in.EventID, rating)
		if err == nil {
			return stored, avg, nil
		}
		if !errors.Is(err, repository.ErrTxConflict) {
			return model.Rating{}, 0, err
		}
		if attempt >= s.attempts {
			return model.Rating{}, 0, ErrSubmitConflict
		}
		select {
		case <-ctx.Done():
			return model.Rating{}, 0, ctx.Err()
		case <-time.After(s.backoff):
		}
	}
}
