package postgres

import (
	"context"
	"errors"

	"github.com/aidar/walking-buddies/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TeamRepository реализует repository.TeamRepository для PostgreSQL
type TeamRepository struct {
	db *pgxpool.Pool
}

// NewTeamRepository создает новый экземпляр TeamRepository
func NewTeamRepository(db *pgxpool.Pool) *TeamRepository {
	return &TeamRepository{db: db}
}

// Create создает новую команду и переводит в нее капитана в одной транзакции
func (r *TeamRepository) Create(ctx context.Context, team *domain.Team) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx) // Ignore error as it will fail if transaction was committed
	}()

	query := `
		INSERT INTO teams (team_id, name, captain_id)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`

	err = tx.QueryRow(ctx, query, team.TeamID, team.Name, team.CaptainID).Scan(&team.CreatedAt)
	if err != nil {
		// Check for unique constraint violation (team already exists)
		if isPgCode(err, codeUniqueViolation) {
			return domain.ErrTeamExists
		}
		return err
	}

	result, err := tx.Exec(ctx, `UPDATE users SET team_id = $1, updated_at = NOW() WHERE user_id = $2`, team.TeamID, team.CaptainID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}

	return tx.Commit(ctx)
}

// GetByID получает команду (без участников)
func (r *TeamRepository) GetByID(ctx context.Context, teamID string) (*domain.Team, error) {
	query := `SELECT team_id, name, captain_id, created_at FROM teams WHERE team_id = $1`

	var team domain.Team
	err := r.db.QueryRow(ctx, query, teamID).Scan(&team.TeamID, &team.Name, &team.CaptainID, &team.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTeamNotFound
		}
		return nil, err
	}

	return &team, nil
}

// List возвращает все команды
func (r *TeamRepository) List(ctx context.Context) ([]domain.Team, error) {
	query := `SELECT team_id, name, captain_id, created_at FROM teams ORDER BY team_id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	teams := []domain.Team{}
	for rows.Next() {
		var team domain.Team
		if err := rows.Scan(&team.TeamID, &team.Name, &team.CaptainID, &team.CreatedAt); err != nil {
			return nil, err
		}
		teams = append(teams, team)
	}

	return teams, rows.Err()
}

// Exists проверяет существование команды
func (r *TeamRepository) Exists(ctx context.Context, teamID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM teams WHERE team_id = $1)`

	var exists bool
	err := r.db.QueryRow(ctx, query, teamID).Scan(&exists)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, err
	}

	return exists, nil
}
