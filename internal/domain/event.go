package domain

import (
	"context"
	"slices"
	"time"
)

// Event is something a user organizes and others can see, RSVP to and review.
// swagger:model Event
type Event struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Location       string    `json:"location"`
	StartTime      time.Time `json:"start_time"`
	EndTime        time.Time `json:"end_time"`
	IsPublic       bool      `json:"is_public"`
	OrganizerID    string    `json:"organizer_id"`
	Organizer      string    `json:"organizer"`
	InvitedUserIDs []string  `json:"invited_users"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewEvent returns a new Event built from input and owned by organizer. ID is set by the repository on create.
func NewEvent(input EventInput, organizer Viewer, createdAt, updatedAt time.Time) *Event {
	e := &Event{
		OrganizerID: organizer.UserID,
		Organizer:   organizer.Username,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}
	input.ApplyTo(e)
	return e
}

// IsInvited reports whether userID is on the event's invite list.
func (e *Event) IsInvited(userID string) bool {
	return slices.Contains(e.InvitedUserIDs, userID)
}

// EventInput holds every client-writable event field.
type EventInput struct {
	Title          string    `json:"title" validate:"required,max=200"`
	Description    string    `json:"description" validate:"required"`
	Location       string    `json:"location" validate:"required,max=100"`
	StartTime      time.Time `json:"start_time" validate:"required"`
	EndTime        time.Time `json:"end_time" validate:"required"`
	IsPublic       bool      `json:"is_public"`
	InvitedUserIDs []string  `json:"invited_users" validate:"dive,required"`
}

// ApplyTo copies the writable fields onto e. Invitees are deduplicated, order preserved.
func (in EventInput) ApplyTo(e *Event) {
	e.Title = in.Title
	e.Description = in.Description
	e.Location = in.Location
	e.StartTime = in.StartTime
	e.EndTime = in.EndTime
	e.IsPublic = in.IsPublic
	e.InvitedUserIDs = dedupe(in.InvitedUserIDs)
}

// EventPatch is a partial update; nil fields are left unchanged.
type EventPatch struct {
	Title          *string
	Description    *string
	Location       *string
	StartTime      *time.Time
	EndTime        *time.Time
	IsPublic       *bool
	InvitedUserIDs *[]string
}

// Merge overlays the patch on the current event and returns the resulting full input.
func (p EventPatch) Merge(e *Event) EventInput {
	in := EventInput{
		Title:          e.Title,
		Description:    e.Description,
		Location:       e.Location,
		StartTime:      e.StartTime,
		EndTime:        e.EndTime,
		IsPublic:       e.IsPublic,
		InvitedUserIDs: e.InvitedUserIDs,
	}
	if p.Title != nil {
		in.Title = *p.Title
	}
	if p.Description != nil {
		in.Description = *p.Description
	}
	if p.Location != nil {
		in.Location = *p.Location
	}
	if p.StartTime != nil {
		in.StartTime = *p.StartTime
	}
	if p.EndTime != nil {
		in.EndTime = *p.EndTime
	}
	if p.IsPublic != nil {
		in.IsPublic = *p.IsPublic
	}
	if p.InvitedUserIDs != nil {
		in.InvitedUserIDs = *p.InvitedUserIDs
	}
	return in
}

// Replace is the PUT counterpart of Merge. The text and time fields are always
// replaced, a nil one counting as empty. IsPublic and InvitedUserIDs keep the
// stored values when nil.
func (p EventPatch) Replace(e *Event) EventInput {
	in := EventInput{
		Title:          deref(p.Title),
		Description:    deref(p.Description),
		Location:       deref(p.Location),
		StartTime:      deref(p.StartTime),
		EndTime:        deref(p.EndTime),
		IsPublic:       e.IsPublic,
		InvitedUserIDs: e.InvitedUserIDs,
	}
	if p.IsPublic != nil {
		in.IsPublic = *p.IsPublic
	}
	if p.InvitedUserIDs != nil {
		in.InvitedUserIDs = *p.InvitedUserIDs
	}
	return in
}

// Patch returns a patch that sets every field of in.
func (in EventInput) Patch() EventPatch {
	invited := in.InvitedUserIDs
	return EventPatch{
		Title:          &in.Title,
		Description:    &in.Description,
		Location:       &in.Location,
		StartTime:      &in.StartTime,
		EndTime:        &in.EndTime,
		IsPublic:       &in.IsPublic,
		InvitedUserIDs: &invited,
	}
}

func deref[T any](v *T) T {
	var zero T
	if v == nil {
		return zero
	}
	return *v
}

func dedupe(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// EventRepository defines the interface for event storage.
type EventRepository interface {
	// Create stores the event and its invitees and sets event.ID.
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	// List returns one page of events matching filter, newest first, and the total match count.
	List(ctx context.Context, filter EventFilter, params PaginationParams) ([]*Event, int, error)
	// Update replaces the writable fields and the invite list of an existing event.
	Update(ctx context.Context, event *Event) error
	Delete(ctx context.Context, id string) error
}

// EventService defines the business logic for events.
type EventService interface {
	ListEvents(ctx context.Context, viewer Viewer, params PaginationParams) ([]*Event, int, error)
	GetEvent(ctx context.Context, viewer Viewer, eventID string) (*Event, error)
	CreateEvent(ctx context.Context, viewer Viewer, input EventInput) (*Event, error)
	// ReplaceEvent applies patch.Replace: omitted visibility and invitees are kept.
	ReplaceEvent(ctx context.Context, viewer Viewer, eventID string, patch EventPatch) (*Event, error)
	PatchEvent(ctx context.Context, viewer Viewer, eventID string, patch EventPatch) (*Event, error)
	DeleteEvent(ctx context.Context, viewer Viewer, eventID string) error
}
