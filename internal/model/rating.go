package model

import "time"

// Rating is a single user's score and optional text review for one
// event, stored in the `ratings` table.  The table carries a
// UNIQUE (event_id, user_id) key so a resubmission by the same user
// replaces the earlier row instead of adding a second one.
//
// ReviewerName and ReviewerAvatar are denormalized from the user at
// submission time so review lists render without a join.  CreatedAt
// is preserved across resubmissions; only UpdatedAt moves.
type Rating struct {
	ID             uint64    `json:"id"`
	EventID        uint64    `json:"event_id"`
	UserID         uint64    `json:"user_id"`
	Rating         int       `json:"rating"`
	ReviewText     string    `json:"review_text,omitempty"`
	ReviewerName   string    `json:"reviewer_name"`
	ReviewerAvatar string    `json:"reviewer_avatar,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// RatingMin and RatingMax bound the accepted star values.
const (
	RatingMin = 1
	RatingMax = 5
)

// ValidRating reports whether v is an acceptable star value.
func ValidRating(v int) bool { return v >= RatingMin && v <= RatingMax }
