// Package filter implements the pure event filtering and ordering used
// by the public browse API.  It operates on an in-memory slice of
// events fetched from storage and is stateless: identical inputs
// always yield identical output ordering.
package filter

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/iliyamo/event-discovery/internal/model"
)

// DateRange restricts events by their start date relative to the
// start of the current day in local time.
type DateRange int

const (
	RangeAll       DateRange = iota // no date restriction
	RangeToday                      // start date equals today
	RangeWeekend                    // start date in [today .. upcoming Sunday]
	RangeNext7Days                  // start date in [today .. today+7d]
)

// ParseDateRange maps a query-parameter value onto a DateRange.
// Unknown or empty values mean no restriction.
func ParseDateRange(s string) DateRange {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "today":
		return RangeToday
	case "weekend", "thisweekend", "this_weekend":
		return RangeWeekend
	case "next7days", "next_7_days", "week":
		return RangeNext7Days
	default:
		return RangeAll
	}
}

// Coordinates is a geographic point used for proximity ordering.
type Coordinates struct {
	Lat float64
	Lng float64
}

// Config enumerates every supported filter.  Zero values disable the
// corresponding predicate: an empty search term matches everything,
// an empty category set applies no category filter, an empty or
// "all" district applies no district filter.
type Config struct {
	SearchTerm string
	Categories []string
	District   string
	Range      DateRange

	// Now anchors the date-range predicates; the zero value means
	// time.Now().  Injected so tests can pin the clock.
	Now time.Time
}

// Apply returns the subset of events matching cfg, ordered
// deterministically: by ascending haversine distance from viewer when
// one is supplied (events without coordinates last), otherwise by
// ascending start time.  Ties keep input order.  The input slice is
// not modified.
func Apply(events []model.Event, cfg Config, viewer *Coordinates) []model.Event {
	now := cfg.Now
	if now.IsZero() {
		now = time.Now()
	}
	today := startOfDay(now)

	cats := make(map[string]bool, len(cfg.Categories))
	for _, c := range cfg.Categories {
		c = strings.ToUpper(strings.TrimSpace(c))
		if c != "" {
			cats[c] = true
		}
	}
	term := strings.ToLower(strings.TrimSpace(cfg.SearchTerm))
	district := strings.ToLower(strings.TrimSpace(cfg.District))

	out := make([]model.Event, 0, len(events))
	for _, ev := range events {
		if term != "" && !matchesTerm(ev, term) {
			continue
		}
		if len(cats) > 0 && !cats[strings.ToUpper(ev.Category)] {
			continue
		}
		if district != "" && district != "all" && strings.ToLower(strings.TrimSpace(ev.District)) != district {
			continue
		}
		if !inRange(ev.StartsAt, cfg.Range, today) {
			continue
		}
		out = append(out, ev)
	}

	if viewer != nil {
		sortByDistance(out, *viewer)
	} else {
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].StartsAt.Before(out[j].StartsAt)
		})
	}
	return out
}

// matchesTerm checks a lowercased substring against the searchable
// text fields of an event.
func matchesTerm(ev model.Event, term string) bool {
	for _, f := range []string{ev.Name, ev.LocalName, ev.Description, ev.LocalDescription, ev.Venue, ev.Category} {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}

// inRange evaluates the date-range predicate against the event's
// start date.  All comparisons happen at date granularity in the
// location of `today`.
func inRange(startsAt time.Time, r DateRange, today time.Time) bool {
	if r == RangeAll {
		return true
	}
	day := startOfDay(startsAt.In(today.Location()))
	switch r {
	case RangeToday:
		return day.Equal(today)
	case RangeWeekend:
		// Upcoming Sunday computed from today's weekday; when today
		// is Sunday the weekend is just today.
		daysToSunday := (7 - int(today.Weekday())) % 7
		sunday := today.AddDate(0, 0, daysToSunday)
		return !day.Before(today) && !day.After(sunday)
	case RangeNext7Days:
		return !day.Before(today) && !day.After(today.AddDate(0, 0, 7))
	}
	return true
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// sortByDistance orders events by ascending haversine distance from
// the viewer.  Events without coordinates compare greater than any
// distance and therefore end up last, keeping input order among
// themselves.
func sortByDistance(events []model.Event, viewer Coordinates) {
	dist := make([]float64, len(events))
	for i, ev := range events {
		if ev.HasCoordinates() {
			dist[i] = Haversine(viewer, Coordinates{Lat: *ev.Latitude, Lng: *ev.Longitude})
		} else {
			dist[i] = math.Inf(1)
		}
	}
	idx := make([]int, len(events))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return dist[idx[a]] < dist[idx[b]] })
	sorted := make([]model.Event, len(events))
	for i, j := range idx {
		sorted[i] = events[j]
	}
	copy(events, sorted)
}

// earthRadiusKm is the mean earth radius used by the haversine formula.
const earthRadiusKm = 6371.0

// Haversine returns the great-circle distance between two points in
// kilometres.
func Haversine(a, b Coordinates) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(h))
}
