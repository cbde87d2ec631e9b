package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/event-discovery/internal/model"
	"github.com/iliyamo/event-discovery/internal/repository"
)

// memStore mimics the atomic merge semantics of the MySQL rating
// repository: one mutex plays the role of the event row lock, a
// resubmission replaces the earlier entry and keeps its created_at,
// and the average is recomputed inside the same critical section.
// failBeforeSuccess injects serialization conflicts to exercise the
// retry loop.
type memStore struct {
	mu      sync.Mutex
	nextID  uint64
	events  map[uint64]map[uint64]model.Rating // eventID -> userID -> rating
	average map[uint64]float64

	failBeforeSuccess int
	calls             int
}

func newMemStore(eventIDs ...uint64) *memStore {
	s := &memStore{
		events:  map[uint64]map[uint64]model.Rating{},
		average: map[uint64]float64{},
	}
	for _, id := range eventIDs {
		s.events[id] = map[uint64]model.Rating{}
	}
	return s
}

func (s *memStore) Submit(ctx context.Context, eventID uint64, in model.Rating) (model.Rating, float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls++
	if s.failBeforeSuccess > 0 {
		s.failBeforeSuccess--
		return model.Rating{}, 0, repository.ErrTxConflict
	}

	ratings, ok := s.events[eventID]
	if !ok {
		return model.Rating{}, 0, repository.ErrEventNotFound
	}

	now := time.Now().UTC()
	stored := in
	stored.EventID = eventID
	if prev, exists := ratings[in.UserID]; exists {
		stored.ID = prev.ID
		stored.CreatedAt = prev.CreatedAt // preserved across resubmission
	} else {
		s.nextID++
		stored.ID = s.nextID
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now
	ratings[in.UserID] = stored

	sum := 0
	for _, r := range ratings {
		sum += r.Rating
	}
	avg := float64(sum) / float64(len(ratings))
	s.average[eventID] = avg
	return stored, avg, nil
}

func (s *memStore) count(eventID uint64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events[eventID])
}

func (s *memStore) avg(eventID uint64) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.average[eventID]
}

func input(eventID, userID uint64, stars int) SubmitRatingInput {
	return SubmitRatingInput{
		EventID:      eventID,
		UserID:       userID,
		Rating:       stars,
		ReviewerName: "reviewer",
	}
}

func TestSubmitRejectsInvalidValueBeforeStore(t *testing.T) {
	store := newMemStore(1)
	svc := NewRatingService(store)

	for _, stars := range []int{0, -1, 6, 100} {
		_, _, err := svc.Submit(context.Background(), input(1, 7, stars))
		assert.ErrorIs(t, err, ErrInvalidRating)
	}
	assert.Zero(t, store.calls, "no transaction attempt for invalid input")
}

func TestSubmitRejectsMissingIdentity(t *testing.T) {
	store := newMemStore(1)
	svc := NewRatingService(store)

	_, _, err := svc.Submit(context.Background(), input(1, 0, 4))
	assert.ErrorIs(t, err, ErrNoActor)
	assert.Zero(t, store.calls)
}

func TestSubmitUnknownEvent(t *testing.T) {
	svc := NewRatingService(newMemStore(1))

	_, _, err := svc.Submit(context.Background(), input(99, 7, 4))
	assert.ErrorIs(t, err, repository.ErrEventNotFound)
}

func TestSubmitReplacesNotDuplicates(t *testing.T) {
	store := newMemStore(1)
	svc := NewRatingService(store)
	ctx := context.Background()

	first, avg, err := svc.Submit(ctx, input(1, 7, 3))
	require.NoError(t, err)
	assert.Equal(t, 3.0, avg)

	second, avg, err := svc.Submit(ctx, input(1, 7, 5))
	require.NoError(t, err)

	assert.Equal(t, 1, store.count(1), "resubmission replaces, never duplicates")
	assert.Equal(t, 5.0, avg, "average reflects only the latest value")
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.CreatedAt, second.CreatedAt, "original submission time survives")
	assert.False(t, second.UpdatedAt.Before(first.UpdatedAt))
}

func TestSubmitOnePerUserAndMean(t *testing.T) {
	store := newMemStore(1)
	svc := NewRatingService(store)
	ctx := context.Background()

	stars := []int{5, 3, 4, 1, 2}
	for i, v := range stars {
		_, _, err := svc.Submit(ctx, input(1, uint64(i+1), v))
		require.NoError(t, err)
	}
	assert.Equal(t, len(stars), store.count(1))
	assert.Equal(t, 3.0, store.avg(1)) // (5+3+4+1+2)/5
}

func TestSubmitConcurrentNoLostUpdate(t *testing.T) {
	store := newMemStore(1)
	svc := NewRatingService(store)

	var wg sync.WaitGroup
	for _, sub := range []struct {
		user  uint64
		stars int
	}{{user: 1, stars: 4}, {user: 2, stars: 2}} {
		wg.Add(1)
		go func(user uint64, stars int) {
			defer wg.Done()
			_, _, err := svc.Submit(context.Background(), input(1, user, stars))
			assert.NoError(t, err)
		}(sub.user, sub.stars)
	}
	wg.Wait()

	assert.Equal(t, 2, store.count(1))
	assert.Equal(t, 3.0, store.avg(1), "both writes survive, average is their mean")
}

func TestSubmitCommutativeFinalState(t *testing.T) {
	// many users, many goroutines, several resubmissions: the final
	// state has one entry per user and the exact mean, regardless of
	// interleaving.
	store := newMemStore(1)
	svc := NewRatingService(store)

	const users = 20
	var wg sync.WaitGroup
	for u := uint64(1); u <= users; u++ {
		wg.Add(1)
		go func(u uint64) {
			defer wg.Done()
			_, _, err := svc.Submit(context.Background(), input(1, u, 1)) // first pass
			assert.NoError(t, err)
			_, _, err = svc.Submit(context.Background(), input(1, u, 4)) // replace
			assert.NoError(t, err)
		}(u)
	}
	wg.Wait()

	assert.Equal(t, users, store.count(1))
	assert.Equal(t, 4.0, store.avg(1))
}

func TestSubmitRetriesConflictsThenSucceeds(t *testing.T) {
	store := newMemStore(1)
	store.failBeforeSuccess = 2 // two aborts, third attempt lands
	svc := NewRatingService(store)
	svc.backoff = time.Millisecond

	_, avg, err := svc.Submit(context.Background(), input(1, 7, 4))
	require.NoError(t, err)
	assert.Equal(t, 4.0, avg)
	assert.Equal(t, 3, store.calls)
}

func TestSubmitConflictBudgetExhausted(t *testing.T) {
	store := newMemStore(1)
	store.failBeforeSuccess = 100
	svc := NewRatingService(store)
	svc.backoff = time.Millisecond

	_, _, err := svc.Submit(context.Background(), input(1, 7, 4))
	assert.ErrorIs(t, err, ErrSubmitConflict)
	assert.Equal(t, submitAttempts, store.calls)
	assert.Zero(t, store.count(1), "no partial write is visible")
}

func TestSubmitHonoursCancellationBetweenRetries(t *testing.T) {
	store := newMemStore(1)
	store.failBeforeSuccess = 100
	svc := NewRatingService(store)
	svc.backoff = time.Minute

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := svc.Submit(ctx, input(1, 7, 4))
	assert.ErrorIs(t, err, context.Canceled)
}
