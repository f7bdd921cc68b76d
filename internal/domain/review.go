package domain

import (
	"context"
	"time"
)

// Rating bounds for reviews.
const (
	MinRating = 1
	MaxRating = 5
)

// Review is a user's rating of an event. A user may review the same event more than once.
// swagger:model Review
type Review struct {
	ID        string    `json:"id"`
	EventID   string    `json:"event_id"`
	UserID    string    `json:"user_id"`
	User      string    `json:"user"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

// ReviewInput holds the client-writable review fields.
type ReviewInput struct {
	Rating  int    `json:"rating" validate:"min=1,max=5"`
	Comment string `json:"comment"`
}

// ReviewRepository defines storage operations for reviews.
type ReviewRepository interface {
	Create(ctx context.Context, review *Review) error
	// ListByEventID returns reviews newest first.
	ListByEventID(ctx context.Context, eventID string) ([]*Review, error)
}

// ReviewService defines review operations.
type ReviewService interface {
	Create(ctx context.Context, viewer Viewer, eventID string, input ReviewInput) (*Review, error)
	List(ctx context.Context, viewer Viewer, eventID string) ([]*Review, error)
}
