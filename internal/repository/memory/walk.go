package memory

import (
	"context"
	"sort"
	"time"

	"github.com/aidar/walking-buddies/internal/domain"
	"github.com/aidar/walking-buddies/internal/repository"
)

// WalkRepository реализует repository.WalkRepository в памяти
type WalkRepository struct {
	s *Store
}

// Record атомарно читает состояние пользователя, вызывает score и сохраняет результат
func (r *WalkRepository) Record(_ context.Context, userID string, score repository.ScoreFunc) (*domain.WalkEntry, *domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.users[userID]
	if !ok {
		return nil, nil, domain.ErrUserNotFound
	}

	// score works on a copy so a failed scoring leaves the stored user untouched
	user := copyUser(stored)
	entry, err := score(user)
	if err != nil {
		return nil, nil, err
	}

	entry.UserID = userID
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	r.s.walks = append(r.s.walks, *entry)
	r.s.users[userID] = copyUser(user)

	saved := *entry
	return &saved, user, nil
}

// ListByUser возвращает прогулки пользователя в [from, to), новые первыми
func (r *WalkRepository) ListByUser(_ context.Context, userID string, from, to time.Time) ([]domain.WalkEntry, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	walks := make([]domain.WalkEntry, 0)
	for _, w := range r.s.walks {
		if w.UserID == userID && inWindow(w.WalkedAt, from, to) {
			walks = append(walks, w)
		}
	}
	sort.SliceStable(walks, func(i, j int) bool { return walks[i].WalkedAt.After(walks[j].WalkedAt) })
	return walks, nil
}
