package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"eventhub/internal/domain"
	"eventhub/internal/validation"
)

type reviewService struct {
	reviewRepo     domain.ReviewRepository
	eventRepo      domain.EventRepository
	contextTimeout time.Duration
	now            func() time.Time
}

func NewReviewService(reviewRepo domain.ReviewRepository, eventRepo domain.EventRepository, timeout time.Duration) domain.ReviewService {
	return &reviewService{
		reviewRepo:     reviewRepo,
		eventRepo:      eventRepo,
		contextTimeout: timeout,
		now:            time.Now,
	}
}

func (s *reviewService) Create(ctx context.Context, viewer domain.Viewer, eventID string, input domain.ReviewInput) (*domain.Review, error) {
	if !viewer.Authenticated() {
		return nil, domain.ErrUnauthenticated
	}
	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := readableEvent(ctx, s.eventRepo, viewer, eventID); err != nil {
		return nil, err
	}
	review := &domain.Review{
		EventID:   eventID,
		UserID:    viewer.UserID,
		User:      viewer.Username,
		Rating:    input.Rating,
		Comment:   strings.TrimSpace(input.Comment),
		CreatedAt: s.now().UTC(),
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}
	return review, nil
}

func (s *reviewService) List(ctx context.Context, viewer domain.Viewer, eventID string) ([]*domain.Review, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := readableEvent(ctx, s.eventRepo, viewer, eventID); err != nil {
		return nil, err
	}
	reviews, err := s.reviewRepo.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return reviews, nil
}
