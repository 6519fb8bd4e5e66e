package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aidar/walking-buddies/internal/domain"
)

// RewardRepository реализует repository.RewardRepository для PostgreSQL
type RewardRepository struct {
	db *pgxpool.Pool
}

// NewRewardRepository создает новый экземпляр RewardRepository
func NewRewardRepository(db *pgxpool.Pool) *RewardRepository {
	return &RewardRepository{db: db}
}

// Append добавляет бонус в журнал
func (r *RewardRepository) Append(ctx context.Context, reward *domain.Reward) error {
	return insertReward(ctx, r.db, reward)
}

// ListByUser возвращает бонусы пользователя, новые первыми
func (r *RewardRepository) ListByUser(ctx context.Context, userID string) ([]domain.Reward, error) {
	query := `
		SELECT reward_id, user_id, source, points, awarded_at
		FROM rewards
		WHERE user_id = $1
		ORDER BY awarded_at DESC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rewards := []domain.Reward{}
	for rows.Next() {
		var rw domain.Reward
		if err := rows.Scan(&rw.RewardID, &rw.UserID, &rw.Source, &rw.Points, &rw.AwardedAt); err != nil {
			return nil, err
		}
		rewards = append(rewards, rw)
	}

	return rewards, rows.Err()
}

// querier is satisfied by both *pgxpool.Pool and pgx.Tx
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func insertReward(ctx context.Context, q querier, reward *domain.Reward) error {
	query := `
		INSERT INTO rewards (reward_id, user_id, source, points, awarded_at)
		VALUES ($1, $2, $3, $4, COALESCE($5, NOW()))
		RETURNING awarded_at
	`

	err := q.QueryRow(ctx, query, reward.RewardID, reward.UserID, reward.Source, reward.Points, nullTime(reward.AwardedAt)).
		Scan(&reward.AwardedAt)
	if err != nil {
		if isPgCode(err, codeForeignKeyViolation) {
			return domain.ErrUserNotFound
		}
		return err
	}
	return nil
}
