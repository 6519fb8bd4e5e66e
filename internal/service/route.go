package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"

	"github.com/aidar/walking-buddies/internal/domain"
	"github.com/aidar/walking-buddies/internal/repository"
)

// RouteInput is a route as submitted by the client
type RouteInput struct {
	UserID       string  `json:"user_id"`
	Name         string  `json:"name"`
	Neighborhood string  `json:"neighborhood"`
	DistanceKM   float64 `json:"distance_km"`
	Notes        string  `json:"notes"`
}

// RouteService handles saved walking routes
type RouteService struct {
	routeRepo repository.RouteRepository
	userRepo  repository.UserRepository
	notifier
	now func() time.Time
}

// NewRouteService creates a new RouteService
func NewRouteService(routeRepo repository.RouteRepository, userRepo repository.UserRepository, logger *slog.Logger) *RouteService {
	return &RouteService{
		routeRepo: routeRepo,
		userRepo:  userRepo,
		notifier:  newNotifier(nil, logger),
		now:       time.Now,
	}
}

// Create saves a route. The neighborhood tag defaults to the route name.
func (s *RouteService) Create(ctx context.Context, in RouteInput) (*domain.Route, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: route name is required", domain.ErrInvalidInput)
	}
	if math.IsNaN(in.DistanceKM) || math.IsInf(in.DistanceKM, 0) || in.DistanceKM < 0 {
		return nil, fmt.Errorf("%w: distance_km must not be negative", domain.ErrInvalidInput)
	}

	tag := strings.TrimSpace(in.Neighborhood)
	if tag == "" {
		tag = name
	}

	if _, err := s.userRepo.GetByID(ctx, in.UserID); err != nil {
		return nil, err
	}

	route := &domain.Route{
		RouteID:    uuid.NewString(),
		UserID:     in.UserID,
		Name:       name,
		Slug:       slug.Make(tag),
		DistanceKM: in.DistanceKM,
		Notes:      strings.TrimSpace(in.Notes),
		CreatedAt:  s.now().UTC(),
	}
	if err := s.routeRepo.Create(ctx, route); err != nil {
		return nil, err
	}

	s.afterActivity(ctx, route.UserID)
	return route, nil
}

// List returns the user's routes, newest first
func (s *RouteService) List(ctx context.Context, userID string) ([]domain.Route, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.routeRepo.ListByUser(ctx, userID)
}

// Delete removes one of the user's routes
func (s *RouteService) Delete(ctx context.Context, userID, routeID string) error {
	return s.routeRepo.Delete(ctx, userID, routeID)
}
