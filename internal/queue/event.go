// Package queue defines message payloads exchanged over the message broker.
package queue

// EventPublishedEvent is published when an organizer creates a new
// event.  It contains enough information for downstream consumers to
// build notifications or analytics without querying the primary
// database.  Rating submissions deliberately publish nothing: the
// rating path has no side effects beyond the event record itself.
type EventPublishedEvent struct {
	EventID     uint64 `json:"event_id"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	District    string `json:"district"`
	City        string `json:"city"`
	Venue       string `json:"venue"`
	StartsAt    string `json:"starts_at"`
	PriceCents  uint32 `json:"price_cents"`
	OrganizerID uint64 `json:"organizer_id"`
	PublishedAt string `json:"published_at"`
}
