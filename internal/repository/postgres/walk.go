package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aidar/walking-buddies/internal/domain"
	"github.com/aidar/walking-buddies/internal/repository"
)

// WalkRepository реализует repository.WalkRepository для PostgreSQL
type WalkRepository struct {
	db *pgxpool.Pool
}

// NewWalkRepository создает новый экземпляр WalkRepository
func NewWalkRepository(db *pgxpool.Pool) *WalkRepository {
	return &WalkRepository{db: db}
}

// Record атомарно читает состояние пользователя под блокировкой строки, вызывает score
// и сохраняет прогулку вместе с новой серией
func (r *WalkRepository) Record(ctx context.Context, userID string, score repository.ScoreFunc) (*domain.WalkEntry, *domain.User, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx) // Ignore error as it will fail if transaction was committed
	}()

	// Lock the user row so concurrent submissions serialize on streak state
	user, err := scanUser(tx.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE user_id = $1 FOR UPDATE`, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, domain.ErrUserNotFound
		}
		return nil, nil, err
	}

	entry, err := score(user)
	if err != nil {
		return nil, nil, err
	}
	entry.UserID = userID

	insert := `
		INSERT INTO walks (
			walk_id, user_id, duration_minutes, steps, distance_miles, walked_at,
			group_walk, photo_attached, invited_friend, points, streak
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at
	`
	err = tx.QueryRow(ctx, insert,
		entry.WalkID, entry.UserID, entry.DurationMinutes, entry.Steps, entry.DistanceMiles, entry.WalkedAt,
		entry.GroupWalk, entry.PhotoAttached, entry.InvitedFriend, entry.Points, entry.Streak,
	).Scan(&entry.CreatedAt)
	if err != nil {
		return nil, nil, err
	}

	update := `
		UPDATE users
		SET streak = $1, last_walk_at = $2, updated_at = NOW()
		WHERE user_id = $3
	`
	if _, err := tx.Exec(ctx, update, user.Streak, user.LastWalkAt, userID); err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, err
	}

	return entry, user, nil
}

// ListByUser возвращает прогулки пользователя в [from, to), новые первыми
func (r *WalkRepository) ListByUser(ctx context.Context, userID string, from, to time.Time) ([]domain.WalkEntry, error) {
	query := `
		SELECT walk_id, user_id, duration_minutes, steps, distance_miles, walked_at,
		       group_walk, photo_attached, invited_friend, points, streak, created_at
		FROM walks
		WHERE user_id = $1
		  AND ($2::timestamptz IS NULL OR walked_at >= $2)
		  AND ($3::timestamptz IS NULL OR walked_at < $3)
		ORDER BY walked_at DESC, created_at DESC
	`

	rows, err := r.db.Query(ctx, query, userID, nullTime(from), nullTime(to))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	walks := []domain.WalkEntry{}
	for rows.Next() {
		var w domain.WalkEntry
		if err := rows.Scan(
			&w.WalkID, &w.UserID, &w.DurationMinutes, &w.Steps, &w.DistanceMiles, &w.WalkedAt,
			&w.GroupWalk, &w.PhotoAttached, &w.InvitedFriend, &w.Points, &w.Streak, &w.CreatedAt,
		); err != nil {
			return nil, err
		}
		walks = append(walks, w)
	}

	return walks, rows.Err()
}

// nullTime maps the zero time to NULL so window bounds stay optional
func nullTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
