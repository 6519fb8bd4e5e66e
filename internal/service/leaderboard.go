package service

import (
	"context"
	"time"

	"github.com/aidar/walking-buddies/internal/domain"
	"github.com/aidar/walking-buddies/internal/leaderboard"
	"github.com/aidar/walking-buddies/internal/repository"
	"github.com/aidar/walking-buddies/internal/scoring"
)

// LeaderboardService builds ranked boards from the ledger aggregates
type LeaderboardService struct {
	standingRepo repository.StandingRepository
	teamRepo     repository.TeamRepository
	engine       *scoring.Engine
	now          func() time.Time
}

// NewLeaderboardService creates a new LeaderboardService
func NewLeaderboardService(
	standingRepo repository.StandingRepository,
	teamRepo repository.TeamRepository,
	engine *scoring.Engine,
) *LeaderboardService {
	return &LeaderboardService{
		standingRepo: standingRepo,
		teamRepo:     teamRepo,
		engine:       engine,
		now:          time.Now,
	}
}

// Users returns the global board, or the board of one team when teamID is set.
// An empty board is not an error.
func (s *LeaderboardService) Users(ctx context.Context, teamID string) ([]domain.LeaderboardEntry, error) {
	if teamID != "" {
		exists, err := s.teamRepo.Exists(ctx, teamID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, domain.ErrTeamNotFound
		}
	}

	standings, err := s.standings(ctx)
	if err != nil {
		return nil, err
	}

	if teamID != "" {
		return leaderboard.RankTeamMembers(standings, teamID), nil
	}
	return leaderboard.RankUsers(standings), nil
}

// Teams returns the team board. Teams without members are omitted.
func (s *LeaderboardService) Teams(ctx context.Context) ([]domain.LeaderboardEntry, error) {
	teams, err := s.teamRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	standings, err := s.standings(ctx)
	if err != nil {
		return nil, err
	}

	return leaderboard.RankTeams(teams, standings), nil
}

// standings loads aggregates with broken streaks reported as zero
func (s *LeaderboardService) standings(ctx context.Context) ([]domain.Standing, error) {
	standings, err := s.standingRepo.Standings(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	for i := range standings {
		standings[i].Streak = s.engine.CurrentStreak(standings[i].StreakState(), now)
	}
	return standings, nil
}
