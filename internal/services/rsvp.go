package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"eventhub/internal/domain"
	"eventhub/internal/validation"
)

type rsvpService struct {
	rsvpRepo       domain.RSVPRepository
	eventRepo      domain.EventRepository
	contextTimeout time.Duration
	now            func() time.Time
}

func NewRSVPService(rsvpRepo domain.RSVPRepository, eventRepo domain.EventRepository, timeout time.Duration) domain.RSVPService {
	return &rsvpService{
		rsvpRepo:       rsvpRepo,
		eventRepo:      eventRepo,
		contextTimeout: timeout,
		now:            time.Now,
	}
}

// Upsert records the viewer's answer for a readable event. An empty status
// means DefaultRSVPStatus.
func (s *rsvpService) Upsert(ctx context.Context, viewer domain.Viewer, eventID string, status domain.RSVPStatus) (*domain.RSVP, error) {
	if !viewer.Authenticated() {
		return nil, domain.ErrUnauthenticated
	}
	if status == "" {
		status = domain.DefaultRSVPStatus
	}
	if err := validation.RSVPStatus(status); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := readableEvent(ctx, s.eventRepo, viewer, eventID); err != nil {
		return nil, err
	}
	rsvp := domain.NewRSVP(eventID, viewer, status, s.now().UTC())
	if err := s.rsvpRepo.Upsert(ctx, rsvp); err != nil {
		return nil, fmt.Errorf("upsert rsvp: %w", err)
	}
	return rsvp, nil
}

// Update changes an existing answer. Only the RSVP's own user may change it.
func (s *rsvpService) Update(ctx context.Context, viewer domain.Viewer, eventID, userID string, status domain.RSVPStatus) (*domain.RSVP, error) {
	if !viewer.Authenticated() {
		return nil, domain.ErrUnauthenticated
	}
	if err := validation.RSVPStatus(status); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := readableEvent(ctx, s.eventRepo, viewer, eventID); err != nil {
		return nil, err
	}
	if viewer.UserID != userID {
		return nil, domain.ErrForbidden
	}
	rsvp, err := s.rsvpRepo.UpdateStatus(ctx, eventID, userID, status, s.now().UTC())
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update rsvp: %w", err)
	}
	return rsvp, nil
}

func (s *rsvpService) List(ctx context.Context, viewer domain.Viewer, eventID string) ([]*domain.RSVP, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := readableEvent(ctx, s.eventRepo, viewer, eventID); err != nil {
		return nil, err
	}
	list, err := s.rsvpRepo.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list rsvps: %w", err)
	}
	return list, nil
}

// readableEvent returns nil when the event exists and viewer may read it.
func readableEvent(ctx context.Context, repo domain.EventRepository, viewer domain.Viewer, eventID string) error {
	event, err := repo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get event: %w", err)
	}
	return domain.CheckAccess(viewer, event, domain.OpRead)
}
