package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aidar/walking-buddies/internal/domain"
)

// InviteRepository реализует repository.InviteRepository для PostgreSQL
type InviteRepository struct {
	db *pgxpool.Pool
}

// NewInviteRepository создает новый экземпляр InviteRepository
func NewInviteRepository(db *pgxpool.Pool) *InviteRepository {
	return &InviteRepository{db: db}
}

// Create сохраняет приглашение и начисляет бонус пригласившему в одной транзакции
func (r *InviteRepository) Create(ctx context.Context, invite *domain.Invite, reward *domain.Reward) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx) // Ignore error as it will fail if transaction was committed
	}()

	query := `
		INSERT INTO invites (invite_id, inviter_id, friend_email, created_at)
		VALUES ($1, $2, $3, COALESCE($4, NOW()))
		RETURNING created_at
	`
	err = tx.QueryRow(ctx, query, invite.InviteID, invite.InviterID, invite.FriendEmail, nullTime(invite.CreatedAt)).
		Scan(&invite.CreatedAt)
	if err != nil {
		if isPgCode(err, codeForeignKeyViolation) {
			return domain.ErrUserNotFound
		}
		return err
	}

	if reward != nil {
		if err := insertReward(ctx, tx, reward); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// Redeem регистрирует приглашенного пользователя и помечает приглашение использованным в одной транзакции
func (r *InviteRepository) Redeem(ctx context.Context, inviteID string, user *domain.User) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx) // Ignore error as it will fail if transaction was committed
	}()

	query := `
		INSERT INTO users (user_id, display_name, team_id)
		VALUES ($1, $2, NULLIF($3, ''))
		RETURNING created_at
	`
	err = tx.QueryRow(ctx, query, user.UserID, user.DisplayName, user.TeamID).Scan(&user.CreatedAt)
	if err != nil {
		if isPgCode(err, codeUniqueViolation) {
			return domain.ErrUserExists
		}
		if isPgCode(err, codeForeignKeyViolation) {
			return domain.ErrTeamNotFound
		}
		return err
	}

	// Конкурентное погашение того же приглашения ждет блокировку строки и не проходит условие
	result, err := tx.Exec(ctx, `
		UPDATE invites
		SET accepted_by = $2, accepted_at = NOW()
		WHERE invite_id = $1 AND accepted_by IS NULL
	`, inviteID, user.UserID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrInvalidInvite
	}

	return tx.Commit(ctx)
}

// CountByInviter считает приглашения пользователя в [from, to)
func (r *InviteRepository) CountByInviter(ctx context.Context, inviterID string, from, to time.Time) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM invites
		WHERE inviter_id = $1
		  AND ($2::timestamptz IS NULL OR created_at >= $2)
		  AND ($3::timestamptz IS NULL OR created_at < $3)
	`

	var count int
	if err := r.db.QueryRow(ctx, query, inviterID, nullTime(from), nullTime(to)).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
