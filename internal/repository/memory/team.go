package memory

import (
	"context"
	"sort"
	"time"

	"github.com/aidar/walking-buddies/internal/domain"
)

// TeamRepository реализует repository.TeamRepository в памяти
type TeamRepository struct {
	s *Store
}

// Create создает новую команду и переводит в нее капитана
func (r *TeamRepository) Create(_ context.Context, team *domain.Team) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.teams[team.TeamID]; ok {
		return domain.ErrTeamExists
	}
	captain, ok := r.s.users[team.CaptainID]
	if !ok {
		return domain.ErrUserNotFound
	}
	if team.CreatedAt.IsZero() {
		team.CreatedAt = time.Now().UTC()
	}
	stored := domain.Team{
		TeamID:    team.TeamID,
		Name:      team.Name,
		CaptainID: team.CaptainID,
		CreatedAt: team.CreatedAt,
	}
	r.s.teams[team.TeamID] = &stored
	captain.TeamID = team.TeamID
	return nil
}

// GetByID получает команду (без участников)
func (r *TeamRepository) GetByID(_ context.Context, teamID string) (*domain.Team, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	t, ok := r.s.teams[teamID]
	if !ok {
		return nil, domain.ErrTeamNotFound
	}
	c := *t
	return &c, nil
}

// List возвращает все команды
func (r *TeamRepository) List(_ context.Context) ([]domain.Team, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	teams := make([]domain.Team, 0, len(r.s.teams))
	for _, t := range r.s.teams {
		teams = append(teams, *t)
	}
	sort.Slice(teams, func(i, j int) bool { return teams[i].TeamID < teams[j].TeamID })
	return teams, nil
}

// Exists проверяет существование команды
func (r *TeamRepository) Exists(_ context.Context, teamID string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	_, ok := r.s.teams[teamID]
	return ok, nil
}
