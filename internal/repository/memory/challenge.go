package memory

import (
	"context"

	"github.com/aidar/walking-buddies/internal/domain"
)

// ChallengeRepository реализует repository.ChallengeRepository в памяти
type ChallengeRepository struct {
	s *Store
}

// SetJoined включает или выключает участие пользователя в челлендже
func (r *ChallengeRepository) SetJoined(_ context.Context, userID, challengeID string, joined bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[userID]; !ok {
		return domain.ErrUserNotFound
	}
	key := membership{userID: userID, challengeID: challengeID}
	if joined {
		r.s.memberships[key] = true
	} else {
		delete(r.s.memberships, key)
	}
	return nil
}

// Joined возвращает ID челленджей, в которых участвует пользователь
func (r *ChallengeRepository) Joined(_ context.Context, userID string) (map[string]bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	joined := make(map[string]bool)
	for key := range r.s.memberships {
		if key.userID == userID {
			joined[key.challengeID] = true
		}
	}
	return joined, nil
}

// Complete фиксирует выполнение за период и начисляет бонус
func (r *ChallengeRepository) Complete(_ context.Context, userID, challengeID, periodKey string, reward *domain.Reward) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	key := completion{userID: userID, challengeID: challengeID, periodKey: periodKey}
	if _, done := r.s.completions[key]; done {
		return false, nil
	}
	if err := r.s.appendRewardLocked(reward); err != nil {
		return false, err
	}
	r.s.completions[key] = reward.AwardedAt
	return true, nil
}

// IsCompleted проверяет выполнение челленджа за период
func (r *ChallengeRepository) IsCompleted(_ context.Context, userID, challengeID, periodKey string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	_, done := r.s.completions[completion{userID: userID, challengeID: challengeID, periodKey: periodKey}]
	return done, nil
}
