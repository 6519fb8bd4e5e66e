package memory

import (
	"context"
	"sort"
	"time"

	"github.com/aidar/walking-buddies/internal/domain"
)

// RewardRepository реализует repository.RewardRepository в памяти
type RewardRepository struct {
	s *Store
}

// Append добавляет бонус в журнал
func (r *RewardRepository) Append(_ context.Context, reward *domain.Reward) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	return r.s.appendRewardLocked(reward)
}

// ListByUser возвращает бонусы пользователя, новые первыми
func (r *RewardRepository) ListByUser(_ context.Context, userID string) ([]domain.Reward, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rewards := make([]domain.Reward, 0)
	for _, rw := range r.s.rewards {
		if rw.UserID == userID {
			rewards = append(rewards, rw)
		}
	}
	sort.SliceStable(rewards, func(i, j int) bool { return rewards[i].AwardedAt.After(rewards[j].AwardedAt) })
	return rewards, nil
}

func (s *Store) appendRewardLocked(reward *domain.Reward) error {
	if _, ok := s.users[reward.UserID]; !ok {
		return domain.ErrUserNotFound
	}
	if reward.AwardedAt.IsZero() {
		reward.AwardedAt = time.Now().UTC()
	}
	s.rewards = append(s.rewards, *reward)
	return nil
}
