package domain

import (
	"context"
	"time"
)

// RSVPStatus is a user's attendance answer.
type RSVPStatus string

const (
	RSVPGoing    RSVPStatus = "Going"
	RSVPMaybe    RSVPStatus = "Maybe"
	RSVPNotGoing RSVPStatus = "Not Going"
)

// DefaultRSVPStatus is stored when a row is created without an explicit answer.
const DefaultRSVPStatus = RSVPMaybe

// RSVPStatuses lists the accepted statuses in display order.
var RSVPStatuses = []RSVPStatus{RSVPGoing, RSVPMaybe, RSVPNotGoing}

// Valid reports whether s is one of RSVPStatuses.
func (s RSVPStatus) Valid() bool {
	switch s {
	case RSVPGoing, RSVPMaybe, RSVPNotGoing:
		return true
	}
	return false
}

// RSVP is a user's single response to an event. At most one exists per (event, user).
// swagger:model RSVP
type RSVP struct {
	ID        string     `json:"id"`
	EventID   string     `json:"event_id"`
	UserID    string     `json:"user_id"`
	User      string     `json:"user"`
	Status    RSVPStatus `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// NewRSVP returns a new RSVP. ID and CreatedAt are settled by the repository on upsert.
func NewRSVP(eventID string, user Viewer, status RSVPStatus, now time.Time) *RSVP {
	return &RSVP{
		EventID:   eventID,
		UserID:    user.UserID,
		User:      user.Username,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// RSVPRepository defines storage operations for RSVPs.
type RSVPRepository interface {
	// Upsert inserts the RSVP or, when one exists for (EventID, UserID), overwrites its
	// status in the same statement. It sets rsvp.ID and rsvp.CreatedAt to the stored values.
	Upsert(ctx context.Context, rsvp *RSVP) error
	// UpdateStatus changes the status of an existing row and returns ErrNotFound when there is none.
	UpdateStatus(ctx context.Context, eventID, userID string, status RSVPStatus, updatedAt time.Time) (*RSVP, error)
	GetByEventAndUser(ctx context.Context, eventID, userID string) (*RSVP, error)
	ListByEventID(ctx context.Context, eventID string) ([]*RSVP, error)
}

// RSVPService defines RSVP operations.
type RSVPService interface {
	// Upsert records the viewer's status for the event, creating or updating the single row.
	Upsert(ctx context.Context, viewer Viewer, eventID string, status RSVPStatus) (*RSVP, error)
	// Update changes an existing row for (eventID, userID); it never creates one.
	Update(ctx context.Context, viewer Viewer, eventID, userID string, status RSVPStatus) (*RSVP, error)
	List(ctx context.Context, viewer Viewer, eventID string) ([]*RSVP, error)
}
