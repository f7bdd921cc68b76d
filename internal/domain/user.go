package domain

import (
	"context"
	"time"
)

// User is the account identity every event, RSVP and review hangs off.
// swagger:model User
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// NewUser returns a new User with the given fields. ID comes from the identity provider.
func NewUser(id, username, email string, createdAt time.Time) *User {
	return &User{
		ID:        id,
		Username:  username,
		Email:     email,
		CreatedAt: createdAt,
	}
}

// Profile is the one-to-one extension of a User.
// swagger:model Profile
type Profile struct {
	UserID    string    `json:"user_id"`
	FullName  string    `json:"full_name"`
	Bio       string    `json:"bio"`
	Location  string    `json:"location"`
	ImageURL  *string   `json:"image_url"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProfilePatch holds the optional profile fields a user may change.
type ProfilePatch struct {
	FullName *string
	Bio      *string
	Location *string
	ImageURL *string
}

// Identity is what a verified bearer token says about the caller.
type Identity struct {
	UserID   string
	Username string
	Email    string
}

// TokenIssuer issues tokens (e.g. JWT) for an identity.
type TokenIssuer interface {
	Issue(identity Identity, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a token and returns the identity it was issued for.
type TokenVerifier interface {
	Verify(token string) (Identity, error)
}

// UserRepository defines the interface for user storage.
type UserRepository interface {
	// Create inserts the user and its profile. Creating an existing id is a no-op.
	Create(ctx context.Context, user *User, profile *Profile) error
	GetByID(ctx context.Context, id string) (*User, error)
	ListByIDs(ctx context.Context, ids []string) ([]*User, error)
}

// ProfileRepository defines the interface for profile storage.
type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID string) (*Profile, error)
	Update(ctx context.Context, profile *Profile) error
}

// UserService resolves callers and manages their profiles.
type UserService interface {
	// Resolve returns the user behind identity, provisioning user and profile on first sight.
	Resolve(ctx context.Context, identity Identity) (*User, error)
	GetProfile(ctx context.Context, viewer Viewer) (*Profile, error)
	UpdateProfile(ctx context.Context, viewer Viewer, patch ProfilePatch) (*Profile, error)
}
