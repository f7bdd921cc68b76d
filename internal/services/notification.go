package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"eventhub/internal/domain"
)

type notificationService struct {
	eventRepo    domain.EventRepository
	userRepo     domain.UserRepository
	emailService domain.EmailService
	logger       *slog.Logger
}

// NewNotificationService returns the handler run by the notification worker.
func NewNotificationService(eventRepo domain.EventRepository, userRepo domain.UserRepository, emailService domain.EmailService, logger *slog.Logger) domain.NotificationService {
	return &notificationService{
		eventRepo:    eventRepo,
		userRepo:     userRepo,
		emailService: emailService,
		logger:       logger,
	}
}

// HandleEventCreated emails the organizer of a newly created event. Events
// deleted before the job runs and organizers without an address are skipped.
func (s *notificationService) HandleEventCreated(ctx context.Context, job domain.EventCreatedJob) error {
	event, err := s.eventRepo.GetByID(ctx, job.EventID)
	if errors.Is(err, domain.ErrNotFound) {
		s.logger.InfoContext(ctx, "event deleted before notification, skipping", "event_id", job.EventID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("load event %s: %w", job.EventID, err)
	}
	organizer, err := s.userRepo.GetByID(ctx, event.OrganizerID)
	if err != nil {
		return fmt.Errorf("load organizer %s: %w", event.OrganizerID, err)
	}
	if organizer.Email == "" {
		s.logger.InfoContext(ctx, "organizer has no email, skipping notification", "event_id", event.ID, "user_id", organizer.ID)
		return nil
	}
	return s.emailService.SendEventCreated(ctx, &domain.EventCreatedEmailData{
		Email:     organizer.Email,
		Organizer: organizer.Username,
		EventID:   event.ID,
		Title:     event.Title,
		Location:  event.Location,
		StartTime: event.StartTime,
		EndTime:   event.EndTime,
	})
}
