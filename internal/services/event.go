package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"eventhub/internal/domain"
	"eventhub/internal/validation"
)

type eventService struct {
	eventRepo      domain.EventRepository
	userRepo       domain.UserRepository
	jobs           domain.JobQueue
	logger         *slog.Logger
	contextTimeout time.Duration
	now            func() time.Time
}

func NewEventService(eventRepo domain.EventRepository,
	userRepo domain.UserRepository,
	jobs domain.JobQueue,
	logger *slog.Logger,
	timeout time.Duration,
) domain.EventService {
	return &eventService{
		eventRepo:      eventRepo,
		userRepo:       userRepo,
		jobs:           jobs,
		logger:         logger,
		contextTimeout: timeout,
		now:            time.Now,
	}
}

func (s *eventService) ListEvents(ctx context.Context, viewer domain.Viewer, params domain.PaginationParams) ([]*domain.Event, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, total, err := s.eventRepo.List(ctx, domain.Listable(viewer), params)
	if err != nil {
		return nil, 0, fmt.Errorf("list events: %w", err)
	}
	return events, total, nil
}

func (s *eventService) GetEvent(ctx context.Context, viewer domain.Viewer, eventID string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	return s.load(ctx, viewer, eventID, domain.OpRead)
}

// CreateEvent stores a new event organized by the viewer and queues the
// creation notice. A queueing failure is logged and does not fail the call.
func (s *eventService) CreateEvent(ctx context.Context, viewer domain.Viewer, input domain.EventInput) (*domain.Event, error) {
	if !viewer.Authenticated() {
		return nil, domain.ErrUnauthenticated
	}
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := validation.Event(input); err != nil {
		return nil, err
	}
	if err := s.checkInvitees(ctx, input.InvitedUserIDs); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	event := domain.NewEvent(input, viewer, now, now)
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}

	if err := s.jobs.Submit(ctx, domain.EventCreatedJob{EventID: event.ID}); err != nil {
		s.logger.WarnContext(ctx, "event created notification not queued", "event_id", event.ID, "err", err)
	}
	return event, nil
}

func (s *eventService) ReplaceEvent(ctx context.Context, viewer domain.Viewer, eventID string, patch domain.EventPatch) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.load(ctx, viewer, eventID, domain.OpWrite)
	if err != nil {
		return nil, err
	}
	return s.save(ctx, event, patch.Replace(event))
}

func (s *eventService) PatchEvent(ctx context.Context, viewer domain.Viewer, eventID string, patch domain.EventPatch) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.load(ctx, viewer, eventID, domain.OpWrite)
	if err != nil {
		return nil, err
	}
	return s.save(ctx, event, patch.Merge(event))
}

func (s *eventService) DeleteEvent(ctx context.Context, viewer domain.Viewer, eventID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.load(ctx, viewer, eventID, domain.OpWrite); err != nil {
		return err
	}
	if err := s.eventRepo.Delete(ctx, eventID); err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}

// load fetches the event and applies the access policy for op.
func (s *eventService) load(ctx context.Context, viewer domain.Viewer, eventID string, op domain.Operation) (*domain.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if err := domain.CheckAccess(viewer, event, op); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *eventService) save(ctx context.Context, event *domain.Event, input domain.EventInput) (*domain.Event, error) {
	if err := validation.Event(input); err != nil {
		return nil, err
	}
	if err := s.checkInvitees(ctx, input.InvitedUserIDs); err != nil {
		return nil, err
	}
	input.ApplyTo(event)
	event.UpdatedAt = s.now().UTC()
	if err := s.eventRepo.Update(ctx, event); err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}
	return event, nil
}

// checkInvitees rejects invite lists that name users who do not exist.
func (s *eventService) checkInvitees(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	users, err := s.userRepo.ListByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("look up invitees: %w", err)
	}
	known := make(map[string]bool, len(users))
	for _, u := range users {
		known[u.ID] = true
	}
	var missing []string
	for _, id := range ids {
		if !known[id] {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return domain.NewValidationError("invited_users", "unknown user ids: "+strings.Join(missing, ", "))
	}
	return nil
}
