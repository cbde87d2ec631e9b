package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/iliyamo/event-discovery/internal/model"
)

// EventRepo provides CRUD operations for events.  All timestamp
// fields are stored in UTC.  The average_rating column is owned by
// the rating transaction (see RatingRepo) and is never written by
// the methods here.
type EventRepo struct {
	db *sql.DB
}

// NewEventRepo returns a new EventRepo bound to the given database.
func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{db: db} }

const eventColumns = `id, name, local_name, description, local_description,
	starts_at, ends_at, venue, address, district, city,
	latitude, longitude, category, language, tags, price_cents,
	organizer_id, average_rating, created_at, updated_at`

func scanEvent(row interface{ Scan(...any) error }) (model.Event, error) {
	var (
		ev         model.Event
		localName  sql.NullString
		localDesc  sql.NullString
		lat, lng   sql.NullFloat64
		language   sql.NullString
		tags       sql.NullString
		priceCents sql.NullInt64
	)
	err := row.Scan(
		&ev.ID, &ev.Name, &localName, &ev.Description, &localDesc,
		&ev.StartsAt, &ev.EndsAt, &ev.Venue, &ev.Address, &ev.District, &ev.City,
		&lat, &lng, &ev.Category, &language, &tags, &priceCents,
		&ev.OrganizerID, &ev.AverageRating, &ev.CreatedAt, &ev.UpdatedAt,
	)
	if err != nil {
		return model.Event{}, err
	}
	ev.LocalName = localName.String
	ev.LocalDescription = localDesc.String
	if lat.Valid && lng.Valid {
		la, ln := lat.Float64, lng.Float64
		ev.Latitude, ev.Longitude = &la, &ln
	}
	ev.Language = language.String
	ev.Tags = tags.String
	if priceCents.Valid {
		p := uint32(priceCents.Int64)
		ev.PriceCents = &p
	}
	return ev, nil
}

// Create inserts a new event and populates its ID and timestamps on
// the provided struct.
func (r *EventRepo) Create(ctx context.Context, ev *model.Event) error {
	const q = `INSERT INTO events
		(name, local_name, description, local_description, starts_at, ends_at,
		 venue, address, district, city, latitude, longitude,
		 category, language, tags, price_cents, organizer_id)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`
	res, err := r.db.ExecContext(ctx, q,
		ev.Name, nullStr(ev.LocalName), ev.Description, nullStr(ev.LocalDescription),
		ev.StartsAt.UTC(), ev.EndsAt.UTC(),
		ev.Venue, ev.Address, ev.District, ev.City,
		nullFloat(ev.Latitude), nullFloat(ev.Longitude),
		strings.ToUpper(ev.Category), nullStr(ev.Language), nullStr(ev.Tags),
		nullPrice(ev.PriceCents), ev.OrganizerID,
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	ev.ID = uint64(id)
	fresh, err := r.GetByID(ctx, ev.ID)
	if err != nil {
		return err
	}
	*ev = fresh
	return nil
}

// GetByID fetches one event or ErrEventNotFound.
func (r *EventRepo) GetByID(ctx context.Context, id uint64) (model.Event, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+eventColumns+` FROM events WHERE id=? LIMIT 1`, id)
	ev, err := scanEvent(row)
	if err == sql.ErrNoRows {
		return model.Event{}, ErrEventNotFound
	}
	return ev, err
}

// EventUpdate carries optional field updates for an event.  Nil
// pointers leave the stored value untouched.
type EventUpdate struct {
	Name             *string
	LocalName        *string
	Description      *string
	LocalDescription *string
	StartsAt         *time.Time
	EndsAt           *time.Time
	Venue            *string
	Address          *string
	District         *string
	City             *string
	Latitude         *float64
	Longitude        *float64
	Category         *string
	Language         *string
	Tags             *string
	PriceCents       *uint32
	ClearPrice       bool
}

// Update applies a partial update to an event owned by organizerID.
// It returns ErrEventNotFound when the id does not resolve and
// ErrForbidden when the event belongs to a different organizer.
func (r *EventRepo) Update(ctx context.Context, id, organizerID uint64, upd EventUpdate) (model.Event, error) {
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return model.Event{}, err
	}
	if current.OrganizerID != organizerID {
		return model.Event{}, ErrForbidden
	}

	set := []string{}
	args := []any{}
	add := func(col string, v any) {
		set = append(set, col+"=?")
		args = append(args, v)
	}
	if upd.Name != nil {
		add("name", *upd.Name)
	}
	if upd.LocalName != nil {
		add("local_name", nullStr(*upd.LocalName))
	}
	if upd.Description != nil {
		add("description", *upd.Description)
	}
	if upd.LocalDescription != nil {
		add("local_description", nullStr(*upd.LocalDescription))
	}
	if upd.StartsAt != nil {
		add("starts_at", upd.StartsAt.UTC())
	}
	if upd.EndsAt != nil {
		add("ends_at", upd.EndsAt.UTC())
	}
	if upd.Venue != nil {
		add("venue", *upd.Venue)
	}
	if upd.Address != nil {
		add("address", *upd.Address)
	}
	if upd.District != nil {
		add("district", *upd.District)
	}
	if upd.City != nil {
		add("city", *upd.City)
	}
	if upd.Latitude != nil {
		add("latitude", *upd.Latitude)
	}
	if upd.Longitude != nil {
		add("longitude", *upd.Longitude)
	}
	if upd.Category != nil {
		add("category", strings.ToUpper(*upd.Category))
	}
	if upd.Language != nil {
		add("language", nullStr(*upd.Language))
	}
	if upd.Tags != nil {
		add("tags", nullStr(*upd.Tags))
	}
	if upd.ClearPrice {
		add("price_cents", nil)
	} else if upd.PriceCents != nil {
		add("price_cents", *upd.PriceCents)
	}
	if len(set) == 0 {
		return current, nil
	}
	args = append(args, id)
	if _, err := r.db.ExecContext(ctx,
		"UPDATE events SET "+strings.Join(set, ", ")+" WHERE id=?", args...); err != nil {
		return model.Event{}, err
	}
	return r.GetByID(ctx, id)
}

// Delete removes an event owned by organizerID.  Ratings are removed
// by the ON DELETE CASCADE foreign key; nothing else is touched.
func (r *EventRepo) Delete(ctx context.Context, id, organizerID uint64) error {
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if current.OrganizerID != organizerID {
		return ErrForbidden
	}
	_, err = r.db.ExecContext(ctx, "DELETE FROM events WHERE id=?", id)
	return err
}

// ListAll returns every event ordered by start time.  The public
// browse handler fetches the full set and applies the in-memory
// filter on top, so no predicates are pushed down here.
func (r *EventRepo) ListAll(ctx context.Context) ([]model.Event, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+eventColumns+` FROM events ORDER BY starts_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEvents(rows)
}

// ListByOrganizer returns the events owned by one organizer, newest
// first.
func (r *EventRepo) ListByOrganizer(ctx context.Context, organizerID uint64) ([]model.Event, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+eventColumns+` FROM events WHERE organizer_id=? ORDER BY created_at DESC`, organizerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEvents(rows)
}

func collectEvents(rows *sql.Rows) ([]model.Event, error) {
	out := []model.Event{}
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

func nullStr(s string) any {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return s
}

func nullFloat(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}

func nullPrice(p *uint32) any {
	if p == nil {
		return nil
	}
	return *p
}
