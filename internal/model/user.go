package model

import "time"

// User represents an application user record as stored in the
// `users` table.  Organizers publish and manage events; visitors
// browse, and any authenticated user may rate an event.  Profile
// fields (district, city, language, interests) personalize the
// browse experience but are never touched by the rating core —
// there the user only appears as the actor behind a Rating.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Email        – unique email address.
//  PasswordHash – bcrypt hashed password.
//  DisplayName  – public name shown next to reviews.
//  AvatarURL    – optional avatar image URL.
//  Role         – ORGANIZER or VISITOR.
//  District     – home district, used as a browse default.
//  City         – home city.
//  Language     – preferred language code.
//  Interests    – comma-joined category interests.
//  IsActive     – whether the account is active.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64    // users.id
	Email        string    // users.email
	PasswordHash string    // users.password_hash
	DisplayName  string    // users.display_name
	AvatarURL    string    // users.avatar_url
	Role         string    // users.role (ORGANIZER | VISITOR)
	District     string    // users.district
	City         string    // users.city
	Language     string    // users.language
	Interests    string    // users.interests
	IsActive     bool      // users.is_active
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}

// Roles accepted in the users.role column and the JWT role claim.
const (
	RoleOrganizer = "ORGANIZER"
	RoleVisitor   = "VISITOR"
)

// RefreshToken models an entry in the `refresh_tokens` table.  Each
// refresh token belongs to a user and contains metadata for expiry
// and revocation.  The plain token is not stored; only its
// SHA-256 hash.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserID    uint64     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}
