package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aidar/walking-buddies/internal/domain"
)

// standingQuery sums both ledgers per user; reached_at is the newest entry that changed the total
const standingQuery = `
	WITH ledger AS (
		SELECT user_id, points, created_at AS at FROM walks
		UNION ALL
		SELECT user_id, points, awarded_at AS at FROM rewards
	)
	SELECT
		u.user_id,
		u.display_name,
		COALESCE(u.team_id, ''),
		u.streak,
		u.last_walk_at,
		COALESCE(SUM(l.points), 0)::int AS points,
		MAX(l.at) FILTER (WHERE l.points <> 0) AS reached_at
	FROM users u
	LEFT JOIN ledger l ON l.user_id = u.user_id
`

// StandingRepository реализует repository.StandingRepository для PostgreSQL
type StandingRepository struct {
	db *pgxpool.Pool
}

// NewStandingRepository создает новый экземпляр StandingRepository
func NewStandingRepository(db *pgxpool.Pool) *StandingRepository {
	return &StandingRepository{db: db}
}

// Standings возвращает агрегаты по всем пользователям
func (r *StandingRepository) Standings(ctx context.Context) ([]domain.Standing, error) {
	query := standingQuery + `
		GROUP BY u.user_id, u.display_name, u.team_id, u.streak, u.last_walk_at
		ORDER BY u.user_id
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	standings := []domain.Standing{}
	for rows.Next() {
		st, err := scanStanding(rows)
		if err != nil {
			return nil, err
		}
		standings = append(standings, *st)
	}

	return standings, rows.Err()
}

// StandingByUser возвращает агрегат одного пользователя
func (r *StandingRepository) StandingByUser(ctx context.Context, userID string) (*domain.Standing, error) {
	query := standingQuery + `
		WHERE u.user_id = $1
		GROUP BY u.user_id, u.display_name, u.team_id, u.streak, u.last_walk_at
	`

	st, err := scanStanding(r.db.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	return st, nil
}

// Totals возвращает общие показатели сервиса
func (r *StandingRepository) Totals(ctx context.Context) (*domain.Stats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM users) AS total_users,
			(SELECT COUNT(*) FROM teams) AS total_teams,
			(SELECT COUNT(*) FROM walks) AS total_walks,
			(SELECT COALESCE(SUM(points), 0) FROM walks)
				+ (SELECT COALESCE(SUM(points), 0) FROM rewards) AS total_points,
			(SELECT COALESCE(SUM(steps), 0) FROM walks) AS total_steps
	`

	var stats domain.Stats
	var totalPoints, totalSteps int64
	if err := r.db.QueryRow(ctx, query).Scan(
		&stats.TotalUsers,
		&stats.TotalTeams,
		&stats.TotalWalks,
		&totalPoints,
		&totalSteps,
	); err != nil {
		return nil, err
	}
	stats.TotalPoints = int(totalPoints)
	stats.TotalSteps = int(totalSteps)

	return &stats, nil
}

func scanStanding(row pgx.Row) (*domain.Standing, error) {
	var st domain.Standing
	var reachedAt *time.Time
	if err := row.Scan(&st.UserID, &st.DisplayName, &st.TeamID, &st.Streak, &st.LastWalkAt, &st.Points, &reachedAt); err != nil {
		return nil, err
	}
	if reachedAt != nil {
		st.ReachedAt = *reachedAt
	}
	return &st, nil
}
