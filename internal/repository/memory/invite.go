package memory

import (
	"context"
	"time"

	"github.com/aidar/walking-buddies/internal/domain"
)

// InviteRepository реализует repository.InviteRepository в памяти
type InviteRepository struct {
	s *Store
}

// Create сохраняет приглашение и начисляет бонус пригласившему
func (r *InviteRepository) Create(_ context.Context, invite *domain.Invite, reward *domain.Reward) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[invite.InviterID]; !ok {
		return domain.ErrUserNotFound
	}
	if invite.CreatedAt.IsZero() {
		invite.CreatedAt = time.Now().UTC()
	}
	if reward != nil {
		if err := r.s.appendRewardLocked(reward); err != nil {
			return err
		}
	}
	r.s.invites = append(r.s.invites, *invite)
	return nil
}

// Redeem регистрирует приглашенного пользователя и помечает приглашение использованным
func (r *InviteRepository) Redeem(_ context.Context, inviteID string, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	idx := -1
	for i := range r.s.invites {
		if r.s.invites[i].InviteID == inviteID {
			idx = i
			break
		}
	}
	if idx < 0 || r.s.invites[idx].AcceptedBy != "" {
		return domain.ErrInvalidInvite
	}
	if _, ok := r.s.users[user.UserID]; ok {
		return domain.ErrUserExists
	}
	if user.TeamID != "" {
		if _, ok := r.s.teams[user.TeamID]; !ok {
			return domain.ErrTeamNotFound
		}
	}

	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	r.s.users[user.UserID] = copyUser(user)
	r.s.invites[idx].AcceptedBy = user.UserID
	r.s.invites[idx].AcceptedAt = &now
	return nil
}

// CountByInviter считает приглашения пользователя в [from, to)
func (r *InviteRepository) CountByInviter(_ context.Context, inviterID string, from, to time.Time) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	count := 0
	for _, inv := range r.s.invites {
		if inv.InviterID == inviterID && inWindow(inv.CreatedAt, from, to) {
			count++
		}
	}
	return count, nil
}
