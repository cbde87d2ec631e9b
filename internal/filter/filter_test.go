package filter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/event-discovery/internal/model"
)

// fixed clock: Wednesday 2025-06-11, mid-morning local time.
var wednesday = time.Date(2025, 6, 11, 10, 30, 0, 0, time.UTC)

func eventAt(id uint64, starts time.Time) model.Event {
	return model.Event{ID: id, Name: "event", StartsAt: starts, EndsAt: starts.Add(2 * time.Hour)}
}

func ids(events []model.Event) []uint64 {
	out := make([]uint64, 0, len(events))
	for _, e := range events {
		out = append(out, e.ID)
	}
	return out
}

func TestApplyDateRangeToday(t *testing.T) {
	events := []model.Event{
		eventAt(1, time.Date(2025, 6, 11, 23, 45, 0, 0, time.UTC)), // today, late
		eventAt(2, time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC)),   // today, midnight
		eventAt(3, time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)),  // yesterday
		eventAt(4, time.Date(2025, 6, 12, 12, 0, 0, 0, time.UTC)),  // tomorrow
	}
	got := Apply(events, Config{Range: RangeToday, Now: wednesday}, nil)
	assert.Equal(t, []uint64{2, 1}, ids(got)) // sorted by start time
}

func TestApplyDateRangeWeekend(t *testing.T) {
	events := []model.Event{
		eventAt(1, time.Date(2025, 6, 11, 9, 0, 0, 0, time.UTC)),  // today (Wed)
		eventAt(2, time.Date(2025, 6, 14, 20, 0, 0, 0, time.UTC)), // Saturday
		eventAt(3, time.Date(2025, 6, 15, 20, 0, 0, 0, time.UTC)), // Sunday (inclusive)
		eventAt(4, time.Date(2025, 6, 16, 20, 0, 0, 0, time.UTC)), // Monday after
		eventAt(5, time.Date(2025, 6, 10, 20, 0, 0, 0, time.UTC)), // yesterday
	}
	got := Apply(events, Config{Range: RangeWeekend, Now: wednesday}, nil)
	assert.Equal(t, []uint64{1, 2, 3}, ids(got))
}

func TestApplyDateRangeWeekendOnSunday(t *testing.T) {
	sunday := time.Date(2025, 6, 15, 8, 0, 0, 0, time.UTC)
	events := []model.Event{
		eventAt(1, sunday.Add(4 * time.Hour)),  // later today
		eventAt(2, sunday.AddDate(0, 0, 1)),    // Monday
		eventAt(3, sunday.AddDate(0, 0, 6)),    // next Saturday
	}
	got := Apply(events, Config{Range: RangeWeekend, Now: sunday}, nil)
	assert.Equal(t, []uint64{1}, ids(got), "on a Sunday the weekend window is just today")
}

func TestApplyDateRangeNext7Days(t *testing.T) {
	events := []model.Event{
		eventAt(1, wednesday),                    // today
		eventAt(2, wednesday.AddDate(0, 0, 7)),   // boundary day, included
		eventAt(3, wednesday.AddDate(0, 0, 8)),   // beyond the window
		eventAt(4, wednesday.AddDate(0, 0, -1)),  // past
	}
	got := Apply(events, Config{Range: RangeNext7Days, Now: wednesday}, nil)
	assert.Equal(t, []uint64{1, 2}, ids(got))
}

func TestApplyCategories(t *testing.T) {
	events := []model.Event{
		{ID: 1, Category: "MUSIC", StartsAt: wednesday},
		{ID: 2, Category: "THEATRE", StartsAt: wednesday.Add(time.Hour)},
		{ID: 3, Category: "SPORT", StartsAt: wednesday.Add(2 * time.Hour)},
	}

	got := Apply(events, Config{Categories: []string{"music", "SPORT"}, Now: wednesday}, nil)
	assert.Equal(t, []uint64{1, 3}, ids(got))

	// empty set is a no-op filter
	got = Apply(events, Config{Now: wednesday}, nil)
	assert.Len(t, got, 3)
}

func TestApplyDistrict(t *testing.T) {
	events := []model.Event{
		{ID: 1, District: "Centre", StartsAt: wednesday},
		{ID: 2, District: "North", StartsAt: wednesday},
	}
	got := Apply(events, Config{District: "centre", Now: wednesday}, nil)
	assert.Equal(t, []uint64{1}, ids(got))

	got = Apply(events, Config{District: "all", Now: wednesday}, nil)
	assert.Len(t, got, 2)
}

func TestApplyDistrictIgnoresPadding(t *testing.T) {
	events := []model.Event{
		{ID: 1, District: "Centre", StartsAt: wednesday},
		{ID: 2, District: "North", StartsAt: wednesday},
	}
	got := Apply(events, Config{District: " Centre ", Now: wednesday}, nil)
	assert.Equal(t, []uint64{1}, ids(got), "padded query value still matches")
}

func TestApplySearchTerm(t *testing.T) {
	events := []model.Event{
		{ID: 1, Name: "Jazz Night", StartsAt: wednesday},
		{ID: 2, Description: "An evening of jazz standards", StartsAt: wednesday},
		{ID: 3, Venue: "Jazz Cellar", StartsAt: wednesday},
		{ID: 4, Name: "Poetry Slam", Category: "LITERATURE", StartsAt: wednesday},
	}
	got := Apply(events, Config{SearchTerm: "JAZZ", Now: wednesday}, nil)
	assert.Equal(t, []uint64{1, 2, 3}, ids(got))

	got = Apply(events, Config{SearchTerm: "literature", Now: wednesday}, nil)
	assert.Equal(t, []uint64{4}, ids(got), "category is searchable")
}

func coords(lat, lng float64) (*float64, *float64) { return &lat, &lng }

func TestApplyProximityOrdering(t *testing.T) {
	viewer := &Coordinates{Lat: 48.2082, Lng: 16.3738} // Vienna centre

	far := model.Event{ID: 1, StartsAt: wednesday}
	far.Latitude, far.Longitude = coords(48.30, 16.50)
	near := model.Event{ID: 2, StartsAt: wednesday.Add(time.Hour)}
	near.Latitude, near.Longitude = coords(48.21, 16.38)
	nowhere := model.Event{ID: 3, StartsAt: wednesday.Add(-time.Hour)} // no coordinates

	got := Apply([]model.Event{nowhere, far, near}, Config{Now: wednesday}, viewer)
	require.Len(t, got, 3)
	assert.Equal(t, []uint64{2, 1, 3}, ids(got), "nearest first, ungeocoded last")
}

func TestApplyIsDeterministic(t *testing.T) {
	// identical start times keep input order
	events := []model.Event{
		eventAt(10, wednesday),
		eventAt(11, wednesday),
		eventAt(12, wednesday),
	}
	first := Apply(events, Config{Now: wednesday}, nil)
	second := Apply(events, Config{Now: wednesday}, nil)
	assert.Equal(t, []uint64{10, 11, 12}, ids(first))
	assert.Equal(t, ids(first), ids(second))
}

func TestHaversineKnownDistance(t *testing.T) {
	vienna := Coordinates{Lat: 48.2082, Lng: 16.3738}
	graz := Coordinates{Lat: 47.0707, Lng: 15.4395}
	d := Haversine(vienna, graz)
	assert.InDelta(t, 145, d, 5, "Vienna-Graz is roughly 145 km")
	assert.Zero(t, Haversine(vienna, vienna))
}

func TestParseDateRange(t *testing.T) {
	assert.Equal(t, RangeToday, ParseDateRange("Today"))
	assert.Equal(t, RangeWeekend, ParseDateRange("weekend"))
	assert.Equal(t, RangeNext7Days, ParseDateRange("next7days"))
	assert.Equal(t, RangeAll, ParseDateRange(""))
	assert.Equal(t, RangeAll, ParseDateRange("bogus"))
}
