package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"eventhub/internal/domain"
)

type userService struct {
	userRepo       domain.UserRepository
	profileRepo    domain.ProfileRepository
	contextTimeout time.Duration
	now            func() time.Time
}

// NewUserService creates a UserService backed by the given repositories.
func NewUserService(userRepo domain.UserRepository, profileRepo domain.ProfileRepository, timeout time.Duration) domain.UserService {
	return &userService{
		userRepo:       userRepo,
		profileRepo:    profileRepo,
		contextTimeout: timeout,
		now:            time.Now,
	}
}

// Resolve maps a verified identity to a stored user. The first call for an
// identity creates the user and an empty profile named after the username.
func (s *userService) Resolve(ctx context.Context, identity domain.Identity) (*domain.User, error) {
	if strings.TrimSpace(identity.UserID) == "" {
		return nil, domain.ErrUnauthenticated
	}
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	user, err := s.userRepo.GetByID(ctx, identity.UserID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get user: %w", err)
	}

	username := strings.TrimSpace(identity.Username)
	if username == "" {
		username = identity.UserID
	}
	now := s.now().UTC()
	user = domain.NewUser(identity.UserID, username, strings.ToLower(strings.TrimSpace(identity.Email)), now)
	profile := &domain.Profile{UserID: user.ID, FullName: username, UpdatedAt: now}
	if err := s.userRepo.Create(ctx, user, profile); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	// Re-read so a concurrent first request for the same id sees one stored row.
	user, err = s.userRepo.GetByID(ctx, identity.UserID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

func (s *userService) GetProfile(ctx context.Context, viewer domain.Viewer) (*domain.Profile, error) {
	if !viewer.Authenticated() {
		return nil, domain.ErrUnauthenticated
	}
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	profile, err := s.profileRepo.GetByUserID(ctx, viewer.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return profile, nil
}

func (s *userService) UpdateProfile(ctx context.Context, viewer domain.Viewer, patch domain.ProfilePatch) (*domain.Profile, error) {
	profile, err := s.GetProfile(ctx, viewer)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if patch.FullName != nil {
		profile.FullName = strings.TrimSpace(*patch.FullName)
	}
	if patch.Bio != nil {
		profile.Bio = *patch.Bio
	}
	if patch.Location != nil {
		profile.Location = strings.TrimSpace(*patch.Location)
	}
	if patch.ImageURL != nil {
		if *patch.ImageURL == "" {
			profile.ImageURL = nil
		} else {
			url := *patch.ImageURL
			profile.ImageURL = &url
		}
	}
	profile.UpdatedAt = s.now().UTC()
	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return profile, nil
}
