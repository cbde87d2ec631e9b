package model

import "time"

// Event represents a published happening as stored in the `events`
// table.  An event belongs to the organizer that created it and
// carries schedule, venue and classification metadata used by the
// public browse API.
//
// Fields:
//  ID               – primary key identifier.
//  Name             – display name of the event.
//  LocalName        – localized display name (may be empty).
//  Description      – free-text description.
//  LocalDescription – localized description (may be empty).
//  StartsAt         – when the event begins (UTC).
//  EndsAt           – when the event ends (must be after StartsAt).
//  Venue            – venue display name.
//  Address          – street address of the venue.
//  District         – administrative district used for filtering.
//  City             – city the event takes place in.
//  Latitude         – venue latitude; nil when the venue was never
//                     geocoded.  Events without coordinates sort last
//                     under proximity ordering.
//  Longitude        – venue longitude; nil when not geocoded.
//  Category         – event category (e.g. MUSIC, THEATRE, SPORT).
//  Language         – primary language of the event.
//  Tags             – optional comma-joined cultural tags.
//  PriceCents       – entry price in cents; nil means free.
//  OrganizerID      – user that owns the event.
//  AverageRating    – mean of all current ratings; 0 when unrated.
//                     Recomputed transactionally, never edited directly.
//  CreatedAt        – creation timestamp.
//  UpdatedAt        – last update timestamp.
type Event struct {
	ID               uint64    `json:"id"`
	Name             string    `json:"name"`
	LocalName        string    `json:"local_name,omitempty"`
	Description      string    `json:"description"`
	LocalDescription string    `json:"local_description,omitempty"`
	StartsAt         time.Time `json:"starts_at"`
	EndsAt           time.Time `json:"ends_at"`
	Venue            string    `json:"venue"`
	Address          string    `json:"address"`
	District         string    `json:"district"`
	City             string    `json:"city"`
	Latitude         *float64  `json:"latitude,omitempty"`
	Longitude        *float64  `json:"longitude,omitempty"`
	Category         string    `json:"category"`
	Language         string    `json:"language,omitempty"`
	Tags             string    `json:"tags,omitempty"`
	PriceCents       *uint32   `json:"price_cents,omitempty"`
	OrganizerID      uint64    `json:"organizer_id"`
	AverageRating    float64   `json:"average_rating"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Price returns the entry price in cents, treating an absent price as
// free.  Arithmetic and JSON must never see "unknown" here.
func (e *Event) Price() uint32 {
	if e.PriceCents == nil {
		return 0
	}
	return *e.PriceCents
}

// HasCoordinates reports whether the event's venue has been geocoded.
func (e *Event) HasCoordinates() bool {
	return e.Latitude != nil && e.Longitude != nil
}
