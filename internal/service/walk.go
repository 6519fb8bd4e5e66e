package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aidar/walking-buddies/internal/domain"
	"github.com/aidar/walking-buddies/internal/events"
	"github.com/aidar/walking-buddies/internal/observability"
	"github.com/aidar/walking-buddies/internal/repository"
	"github.com/aidar/walking-buddies/internal/scoring"
)

// WalkInput is a walk as submitted by the client, before scoring
type WalkInput struct {
	UserID          string    `json:"user_id"`
	DurationMinutes float64   `json:"duration_minutes"`
	Steps           int       `json:"steps"`
	DistanceMiles   float64   `json:"distance_miles"`
	WalkedAt        time.Time `json:"walked_at"`
	GroupWalk       bool      `json:"group_walk"`
	PhotoAttached   bool      `json:"photo_attached"`
	InvitedFriend   bool      `json:"invited_friend"`
}

// WalkResult is the outcome of a submission
type WalkResult struct {
	Walk          *domain.WalkEntry      `json:"walk"`
	PointsAwarded int                    `json:"points_awarded"`
	Breakdown     domain.PointsBreakdown `json:"breakdown"`
	Streak        int                    `json:"streak"`
	TotalPoints   int                    `json:"total_points"`
}

// WalkService handles walk submission and history
type WalkService struct {
	walkRepo     repository.WalkRepository
	standingRepo repository.StandingRepository
	engine       *scoring.Engine
	notifier
	now func() time.Time
}

// NewWalkService creates a new WalkService
func NewWalkService(
	walkRepo repository.WalkRepository,
	standingRepo repository.StandingRepository,
	engine *scoring.Engine,
	publisher events.Publisher,
	logger *slog.Logger,
) *WalkService {
	return &WalkService{
		walkRepo:     walkRepo,
		standingRepo: standingRepo,
		engine:       engine,
		notifier:     newNotifier(publisher, logger),
		now:          time.Now,
	}
}

// Submit scores the walk against the user's streak state and appends it to the ledger.
// The read of the streak state and the append happen atomically per user.
func (s *WalkService) Submit(ctx context.Context, in WalkInput) (*WalkResult, error) {
	result, err := s.submit(ctx, in)
	if err != nil {
		observability.ObserveRejectedWalk(err)
		return nil, err
	}
	return result, nil
}

func (s *WalkService) submit(ctx context.Context, in WalkInput) (*WalkResult, error) {
	if strings.TrimSpace(in.UserID) == "" {
		return nil, fmt.Errorf("%w: user_id is required", domain.ErrInvalidInput)
	}

	now := s.now().UTC()
	candidate := domain.WalkEntry{
		UserID:          in.UserID,
		DurationMinutes: in.DurationMinutes,
		Steps:           in.Steps,
		DistanceMiles:   in.DistanceMiles,
		WalkedAt:        in.WalkedAt,
		GroupWalk:       in.GroupWalk,
		PhotoAttached:   in.PhotoAttached,
		InvitedFriend:   in.InvitedFriend,
	}

	// Reject malformed input before touching the ledger
	if err := s.engine.Validate(candidate, now); err != nil {
		return nil, err
	}

	var award scoring.Award
	entry, user, err := s.walkRepo.Record(ctx, in.UserID, func(user *domain.User) (*domain.WalkEntry, error) {
		a, next, err := s.engine.Score(candidate, user.StreakState(), now)
		if err != nil {
			return nil, err
		}
		user.ApplyStreak(next)
		award = a

		e := candidate
		e.WalkID = uuid.NewString()
		if e.WalkedAt.IsZero() {
			e.WalkedAt = now
		}
		e.WalkedAt = e.WalkedAt.UTC()
		e.Points = a.Points
		e.Streak = next.Streak
		e.CreatedAt = now
		return &e, nil
	})
	if err != nil {
		return nil, err
	}

	observability.ObserveWalk(entry.Points)
	s.logger.Info("walk logged",
		"user_id", entry.UserID,
		"walk_id", entry.WalkID,
		"points", entry.Points,
		"streak", entry.Streak,
	)
	s.publish(ctx, events.TypeWalkLogged, entry.UserID, entry)
	s.afterActivity(ctx, entry.UserID)

	result := &WalkResult{
		Walk:          entry,
		PointsAwarded: award.Points,
		Breakdown:     award.Breakdown,
		Streak:        user.Streak,
	}

	// Total includes rewards granted by the hooks above
	standing, err := s.standingRepo.StandingByUser(ctx, entry.UserID)
	if err != nil {
		return nil, err
	}
	result.TotalPoints = standing.Points

	return result, nil
}

// List returns the user's walks, newest first
func (s *WalkService) List(ctx context.Context, userID string) ([]domain.WalkEntry, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("%w: user_id is required", domain.ErrInvalidInput)
	}
	return s.walkRepo.ListByUser(ctx, userID, time.Time{}, time.Time{})
}
