package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aidar/walking-buddies/internal/domain"
)

// RouteRepository реализует repository.RouteRepository для PostgreSQL
type RouteRepository struct {
	db *pgxpool.Pool
}

// NewRouteRepository создает новый экземпляр RouteRepository
func NewRouteRepository(db *pgxpool.Pool) *RouteRepository {
	return &RouteRepository{db: db}
}

// Create сохраняет маршрут
func (r *RouteRepository) Create(ctx context.Context, route *domain.Route) error {
	query := `
		INSERT INTO routes (route_id, user_id, name, slug, distance_km, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, COALESCE($7, NOW()))
		RETURNING created_at
	`

	err := r.db.QueryRow(ctx, query,
		route.RouteID, route.UserID, route.Name, route.Slug, route.DistanceKM, route.Notes, nullTime(route.CreatedAt),
	).Scan(&route.CreatedAt)
	if err != nil {
		if isPgCode(err, codeForeignKeyViolation) {
			return domain.ErrUserNotFound
		}
		return err
	}
	return nil
}

// ListByUser возвращает маршруты пользователя, новые первыми
func (r *RouteRepository) ListByUser(ctx context.Context, userID string) ([]domain.Route, error) {
	query := `
		SELECT route_id, user_id, name, slug, distance_km, notes, created_at
		FROM routes
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	routes := []domain.Route{}
	for rows.Next() {
		var rt domain.Route
		if err := rows.Scan(&rt.RouteID, &rt.UserID, &rt.Name, &rt.Slug, &rt.DistanceKM, &rt.Notes, &rt.CreatedAt); err != nil {
			return nil, err
		}
		routes = append(routes, rt)
	}

	return routes, rows.Err()
}

// Delete удаляет маршрут пользователя
func (r *RouteRepository) Delete(ctx context.Context, userID, routeID string) error {
	result, err := r.db.Exec(ctx, `DELETE FROM routes WHERE user_id = $1 AND route_id = $2`, userID, routeID)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return domain.ErrRouteNotFound
	}
	return nil
}

// CountDistinctSlugs считает уникальные теги районов пользователя в [from, to)
func (r *RouteRepository) CountDistinctSlugs(ctx context.Context, userID string, from, to time.Time) (int, error) {
	query := `
		SELECT COUNT(DISTINCT slug)
		FROM routes
		WHERE user_id = $1
		  AND ($2::timestamptz IS NULL OR created_at >= $2)
		  AND ($3::timestamptz IS NULL OR created_at < $3)
	`

	var count int
	if err := r.db.QueryRow(ctx, query, userID, nullTime(from), nullTime(to)).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
