package memory

import (
	"context"
	"time"

	"github.com/aidar/walking-buddies/internal/domain"
)

// UserRepository реализует repository.UserRepository в памяти
type UserRepository struct {
	s *Store
}

// Create регистрирует нового пользователя
func (r *UserRepository) Create(_ context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[user.UserID]; ok {
		return domain.ErrUserExists
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	r.s.users[user.UserID] = copyUser(user)
	return nil
}

// GetByID получает пользователя по ID
func (r *UserRepository) GetByID(_ context.Context, userID string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[userID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return copyUser(u), nil
}

// Rename обновляет отображаемое имя пользователя
func (r *UserRepository) Rename(_ context.Context, userID, displayName string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.DisplayName = displayName
	return nil
}

// SetTeam привязывает пользователя к команде
func (r *UserRepository) SetTeam(_ context.Context, userID, teamID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	if _, ok := r.s.teams[teamID]; !ok {
		return domain.ErrTeamNotFound
	}
	u.TeamID = teamID
	return nil
}

// ListByTeam возвращает всех пользователей команды
func (r *UserRepository) ListByTeam(_ context.Context, teamID string) ([]*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	users := make([]*domain.User, 0)
	for _, u := range r.s.users {
		if u.TeamID == teamID {
			users = append(users, copyUser(u))
		}
	}
	sortUsers(users)
	return users, nil
}
