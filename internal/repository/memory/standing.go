package memory

import (
	"context"
	"sort"

	"github.com/aidar/walking-buddies/internal/domain"
)

// StandingRepository вычисляет агрегаты очков из журналов в памяти
type StandingRepository struct {
	s *Store
}

// Standings возвращает агрегаты по всем пользователям
func (r *StandingRepository) Standings(_ context.Context) ([]domain.Standing, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	byUser := r.s.aggregateLocked()
	standings := make([]domain.Standing, 0, len(byUser))
	for _, st := range byUser {
		standings = append(standings, *st)
	}
	sort.Slice(standings, func(i, j int) bool { return standings[i].UserID < standings[j].UserID })
	return standings, nil
}

// StandingByUser возвращает агрегат одного пользователя
func (r *StandingRepository) StandingByUser(_ context.Context, userID string) (*domain.Standing, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if _, ok := r.s.users[userID]; !ok {
		return nil, domain.ErrUserNotFound
	}
	st := r.s.aggregateLocked()[userID]
	return st, nil
}

// Totals возвращает общие показатели сервиса
func (r *StandingRepository) Totals(_ context.Context) (*domain.Stats, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	stats := &domain.Stats{
		TotalUsers: len(r.s.users),
		TotalTeams: len(r.s.teams),
		TotalWalks: len(r.s.walks),
	}
	for _, w := range r.s.walks {
		stats.TotalPoints += w.Points
		stats.TotalSteps += w.Steps
	}
	for _, rw := range r.s.rewards {
		stats.TotalPoints += rw.Points
	}
	return stats, nil
}

func (s *Store) aggregateLocked() map[string]*domain.Standing {
	byUser := make(map[string]*domain.Standing, len(s.users))
	for id, u := range s.users {
		byUser[id] = &domain.Standing{
			UserID:      id,
			DisplayName: u.DisplayName,
			TeamID:      u.TeamID,
			Streak:      u.Streak,
			LastWalkAt:  copyUser(u).LastWalkAt,
		}
	}
	for _, w := range s.walks {
		st, ok := byUser[w.UserID]
		if !ok {
			continue
		}
		st.Points += w.Points
		if w.Points != 0 && w.CreatedAt.After(st.ReachedAt) {
			st.ReachedAt = w.CreatedAt
		}
	}
	for _, rw := range s.rewards {
		st, ok := byUser[rw.UserID]
		if !ok {
			continue
		}
		st.Points += rw.Points
		if rw.Points != 0 && rw.AwardedAt.After(st.ReachedAt) {
			st.ReachedAt = rw.AwardedAt
		}
	}
	return byUser
}
