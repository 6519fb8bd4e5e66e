package service

import (
	"context"

	"github.com/aidar/walking-buddies/internal/domain"
	"github.com/aidar/walking-buddies/internal/observability"
	"github.com/aidar/walking-buddies/internal/repository"
)

// StatsService handles statistics queries
type StatsService struct {
	standingRepo repository.StandingRepository
}

// NewStatsService creates a new StatsService
func NewStatsService(standingRepo repository.StandingRepository) *StatsService {
	return &StatsService{standingRepo: standingRepo}
}

// GetStats returns overall statistics
func (s *StatsService) GetStats(ctx context.Context) (*domain.Stats, error) {
	return s.standingRepo.Totals(ctx)
}

// Refresh recomputes the totals and publishes them as gauges
func (s *StatsService) Refresh(ctx context.Context) (*domain.Stats, error) {
	stats, err := s.GetStats(ctx)
	if err != nil {
		return nil, err
	}
	observability.SetTotals(stats)
	return stats, nil
}
