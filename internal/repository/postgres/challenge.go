package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aidar/walking-buddies/internal/domain"
)

// ChallengeRepository реализует repository.ChallengeRepository для PostgreSQL
type ChallengeRepository struct {
	db *pgxpool.Pool
}

// NewChallengeRepository создает новый экземпляр ChallengeRepository
func NewChallengeRepository(db *pgxpool.Pool) *ChallengeRepository {
	return &ChallengeRepository{db: db}
}

// SetJoined включает или выключает участие пользователя в челлендже
func (r *ChallengeRepository) SetJoined(ctx context.Context, userID, challengeID string, joined bool) error {
	query := `
		INSERT INTO challenge_memberships (user_id, challenge_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, challenge_id) DO NOTHING
	`
	if !joined {
		query = `DELETE FROM challenge_memberships WHERE user_id = $1 AND challenge_id = $2`
	}

	if _, err := r.db.Exec(ctx, query, userID, challengeID); err != nil {
		if isPgCode(err, codeForeignKeyViolation) {
			return domain.ErrUserNotFound
		}
		return err
	}
	return nil
}

// Joined возвращает ID челленджей, в которых участвует пользователь
func (r *ChallengeRepository) Joined(ctx context.Context, userID string) (map[string]bool, error) {
	rows, err := r.db.Query(ctx, `SELECT challenge_id FROM challenge_memberships WHERE user_id = $1`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	joined := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		joined[id] = true
	}

	return joined, rows.Err()
}

// Complete фиксирует выполнение за период и начисляет бонус в одной транзакции
func (r *ChallengeRepository) Complete(ctx context.Context, userID, challengeID, periodKey string, reward *domain.Reward) (bool, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer func() {
		_ = tx.Rollback(ctx) // Ignore error as it will fail if transaction was committed
	}()

	query := `
		INSERT INTO challenge_completions (user_id, challenge_id, period_key)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, challenge_id, period_key) DO NOTHING
	`
	result, err := tx.Exec(ctx, query, userID, challengeID, periodKey)
	if err != nil {
		if isPgCode(err, codeForeignKeyViolation) {
			return false, domain.ErrUserNotFound
		}
		return false, err
	}
	if result.RowsAffected() == 0 {
		return false, nil
	}

	if err := insertReward(ctx, tx, reward); err != nil {
		return false, err
	}

	if err := tx.Commit(ctx); err != nil {
		return false, err
	}
	return true, nil
}

// IsCompleted проверяет выполнение челленджа за период
func (r *ChallengeRepository) IsCompleted(ctx context.Context, userID, challengeID, periodKey string) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM challenge_completions
			WHERE user_id = $1 AND challenge_id = $2 AND period_key = $3
		)
	`

	var done bool
	if err := r.db.QueryRow(ctx, query, userID, challengeID, periodKey).Scan(&done); err != nil {
		return false, err
	}
	return done, nil
}
