package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aidar/walking-buddies/internal/domain"
)

const userColumns = `user_id, display_name, COALESCE(team_id, ''), streak, last_walk_at, created_at`

// UserRepository реализует repository.UserRepository для PostgreSQL
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository создает новый экземпляр UserRepository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

// Create регистрирует нового пользователя
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (user_id, display_name, team_id)
		VALUES ($1, $2, NULLIF($3, ''))
		RETURNING created_at
	`

	err := r.db.QueryRow(ctx, query, user.UserID, user.DisplayName, user.TeamID).Scan(&user.CreatedAt)
	if err != nil {
		if isPgCode(err, codeUniqueViolation) {
			return domain.ErrUserExists
		}
		if isPgCode(err, codeForeignKeyViolation) {
			return domain.ErrTeamNotFound
		}
		return err
	}

	return nil
}

// GetByID получает пользователя по ID
func (r *UserRepository) GetByID(ctx context.Context, userID string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE user_id = $1`

	user, err := scanUser(r.db.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	return user, nil
}

// Rename обновляет отображаемое имя пользователя
func (r *UserRepository) Rename(ctx context.Context, userID, displayName string) error {
	query := `
		UPDATE users
		SET display_name = $1, updated_at = NOW()
		WHERE user_id = $2
	`

	result, err := r.db.Exec(ctx, query, displayName, userID)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}

	return nil
}

// SetTeam привязывает пользователя к команде
func (r *UserRepository) SetTeam(ctx context.Context, userID, teamID string) error {
	query := `
		UPDATE users
		SET team_id = $1, updated_at = NOW()
		WHERE user_id = $2
	`

	result, err := r.db.Exec(ctx, query, teamID, userID)
	if err != nil {
		if isPgCode(err, codeForeignKeyViolation) {
			return domain.ErrTeamNotFound
		}
		return err
	}

	if result.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}

	return nil
}

// ListByTeam возвращает всех пользователей команды
func (r *UserRepository) ListByTeam(ctx context.Context, teamID string) ([]*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE team_id = $1 ORDER BY user_id`

	rows, err := r.db.Query(ctx, query, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []*domain.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	return users, rows.Err()
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	err := row.Scan(
		&user.UserID,
		&user.DisplayName,
		&user.TeamID,
		&user.Streak,
		&user.LastWalkAt,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}
