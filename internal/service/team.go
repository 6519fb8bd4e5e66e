package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gosimple/slug"

	"github.com/aidar/walking-buddies/internal/domain"
	"github.com/aidar/walking-buddies/internal/leaderboard"
	"github.com/aidar/walking-buddies/internal/repository"
	"github.com/aidar/walking-buddies/internal/scoring"
)

// TeamService handles business logic for teams
type TeamService struct {
	teamRepo     repository.TeamRepository
	userRepo     repository.UserRepository
	standingRepo repository.StandingRepository
	engine       *scoring.Engine
	now          func() time.Time
}

// NewTeamService creates a new TeamService
func NewTeamService(
	teamRepo repository.TeamRepository,
	userRepo repository.UserRepository,
	standingRepo repository.StandingRepository,
	engine *scoring.Engine,
) *TeamService {
	return &TeamService{
		teamRepo:     teamRepo,
		userRepo:     userRepo,
		standingRepo: standingRepo,
		engine:       engine,
		now:          time.Now,
	}
}

// AddTeam creates a team identified by the slug of its name; the captain joins it
func (s *TeamService) AddTeam(ctx context.Context, name, captainID string) (*domain.Team, error) {
	name = strings.TrimSpace(name)
	teamID := slug.Make(name)
	if teamID == "" {
		return nil, fmt.Errorf("%w: team name is required", domain.ErrInvalidInput)
	}

	// Captain must be registered
	if _, err := s.userRepo.GetByID(ctx, captainID); err != nil {
		return nil, err
	}

	// Check if team already exists
	exists, err := s.teamRepo.Exists(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrTeamExists
	}

	team := &domain.Team{
		TeamID:    teamID,
		Name:      name,
		CaptainID: captainID,
	}
	// Team and captain membership are written together
	if err := s.teamRepo.Create(ctx, team); err != nil {
		return nil, err
	}

	return s.GetTeam(ctx, teamID)
}

// Join moves the user into the team
func (s *TeamService) Join(ctx context.Context, teamID, userID string) (*domain.Team, error) {
	exists, err := s.teamRepo.Exists(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.ErrTeamNotFound
	}

	if err := s.userRepo.SetTeam(ctx, userID, teamID); err != nil {
		return nil, err
	}

	return s.GetTeam(ctx, teamID)
}

// GetTeam retrieves a team with its members ranked by points
func (s *TeamService) GetTeam(ctx context.Context, teamID string) (*domain.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return nil, err
	}

	standings, err := s.standingRepo.Standings(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	for i := range standings {
		standings[i].Streak = s.engine.CurrentStreak(standings[i].StreakState(), now)
	}

	ranked := leaderboard.RankTeamMembers(standings, teamID)
	team.Members = make([]domain.TeamMember, 0, len(ranked))
	team.Points = 0
	for _, e := range ranked {
		team.Members = append(team.Members, domain.TeamMember{
			UserID:      e.ID,
			DisplayName: e.Name,
			Points:      e.Points,
			Streak:      e.Streak,
		})
		team.Points += e.Points
	}

	return team, nil
}
