package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aidar/walking-buddies/internal/domain"
	"github.com/aidar/walking-buddies/internal/events"
	"github.com/aidar/walking-buddies/internal/repository"
	"github.com/aidar/walking-buddies/internal/scoring"
)

// UserService handles business logic for users
type UserService struct {
	userRepo     repository.UserRepository
	standingRepo repository.StandingRepository
	engine       *scoring.Engine
	notifier
	now func() time.Time
}

// NewUserService creates a new UserService
func NewUserService(
	userRepo repository.UserRepository,
	standingRepo repository.StandingRepository,
	engine *scoring.Engine,
	publisher events.Publisher,
	logger *slog.Logger,
) *UserService {
	return &UserService{
		userRepo:     userRepo,
		standingRepo: standingRepo,
		engine:       engine,
		notifier:     newNotifier(publisher, logger),
		now:          time.Now,
	}
}

// Register creates a user with zero points and no streak
func (s *UserService) Register(ctx context.Context, userID, displayName string) (*domain.User, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user_id is required", domain.ErrInvalidInput)
	}
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		displayName = userID
	}

	user := &domain.User{
		UserID:      userID,
		DisplayName: displayName,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.publish(ctx, events.TypeUserRegistered, userID, user)
	return user, nil
}

// GetProfile returns the user with derived points, tier and current streak.
// Users without any activity read as zero points and zero streak.
func (s *UserService) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	standing, err := s.standingRepo.StandingByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile := &domain.Profile{User: *user}
	profile.Streak = s.engine.CurrentStreak(user.StreakState(), s.now())
	if standing != nil {
		profile.Points = standing.Points
	}
	profile.Tier = domain.TierFor(profile.Points)

	return profile, nil
}

// Rename updates the user's display name
func (s *UserService) Rename(ctx context.Context, userID, displayName string) (*domain.User, error) {
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return nil, fmt.Errorf("%w: display_name is required", domain.ErrInvalidInput)
	}

	if err := s.userRepo.Rename(ctx, userID, displayName); err != nil {
		return nil, err
	}

	return s.userRepo.GetByID(ctx, userID)
}
