package memory

import (
	"context"
	"sort"
	"time"

	"github.com/aidar/walking-buddies/internal/domain"
)

// RouteRepository реализует repository.RouteRepository в памяти
type RouteRepository struct {
	s *Store
}

// Create сохраняет маршрут
func (r *RouteRepository) Create(_ context.Context, route *domain.Route) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[route.UserID]; !ok {
		return domain.ErrUserNotFound
	}
	if route.CreatedAt.IsZero() {
		route.CreatedAt = time.Now().UTC()
	}
	r.s.routes = append(r.s.routes, *route)
	return nil
}

// ListByUser возвращает маршруты пользователя, новые первыми
func (r *RouteRepository) ListByUser(_ context.Context, userID string) ([]domain.Route, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	routes := make([]domain.Route, 0)
	for _, rt := range r.s.routes {
		if rt.UserID == userID {
			routes = append(routes, rt)
		}
	}
	sort.SliceStable(routes, func(i, j int) bool { return routes[i].CreatedAt.After(routes[j].CreatedAt) })
	return routes, nil
}

// Delete удаляет маршрут пользователя
func (r *RouteRepository) Delete(_ context.Context, userID, routeID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for i, rt := range r.s.routes {
		if rt.UserID == userID && rt.RouteID == routeID {
			r.s.routes = append(r.s.routes[:i], r.s.routes[i+1:]...)
			return nil
		}
	}
	return domain.ErrRouteNotFound
}

// CountDistinctSlugs считает уникальные теги районов пользователя в [from, to)
func (r *RouteRepository) CountDistinctSlugs(_ context.Context, userID string, from, to time.Time) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	seen := make(map[string]struct{})
	for _, rt := range r.s.routes {
		if rt.UserID == userID && inWindow(rt.CreatedAt, from, to) {
			seen[rt.Slug] = struct{}{}
		}
	}
	return len(seen), nil
}
