package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/aidar/walking-buddies/internal/domain"
	"github.com/aidar/walking-buddies/internal/events"
	"github.com/aidar/walking-buddies/internal/repository"
	"github.com/aidar/walking-buddies/internal/scoring"
)

// ChallengeService tracks challenge membership, progress and completion
type ChallengeService struct {
	catalog       []domain.Challenge
	challengeRepo repository.ChallengeRepository
	walkRepo      repository.WalkRepository
	inviteRepo    repository.InviteRepository
	routeRepo     repository.RouteRepository
	userRepo      repository.UserRepository
	location      *time.Location
	notifier
	now func() time.Time
}

// NewChallengeService creates a new ChallengeService over the default catalog
func NewChallengeService(
	challengeRepo repository.ChallengeRepository,
	walkRepo repository.WalkRepository,
	inviteRepo repository.InviteRepository,
	routeRepo repository.RouteRepository,
	userRepo repository.UserRepository,
	engine *scoring.Engine,
	publisher events.Publisher,
	logger *slog.Logger,
) *ChallengeService {
	return &ChallengeService{
		catalog:       domain.DefaultChallenges,
		challengeRepo: challengeRepo,
		walkRepo:      walkRepo,
		inviteRepo:    inviteRepo,
		routeRepo:     routeRepo,
		userRepo:      userRepo,
		location:      engine.Rules().Location,
		notifier:      newNotifier(publisher, logger),
		now:           time.Now,
	}
}

// Catalog returns all challenges
func (s *ChallengeService) Catalog() []domain.Challenge {
	return s.catalog
}

// Status returns every challenge with the user's membership and progress in the current period
func (s *ChallengeService) Status(ctx context.Context, userID string) ([]domain.ChallengeStatus, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	joined, err := s.challengeRepo.Joined(ctx, userID)
	if err != nil {
		return nil, err
	}

	statuses := make([]domain.ChallengeStatus, 0, len(s.catalog))
	for _, ch := range s.catalog {
		st, err := s.status(ctx, user, ch, joined[ch.ID])
		if err != nil {
			return nil, err
		}
		statuses = append(statuses, *st)
	}

	return statuses, nil
}

// Join enrolls the user in the challenge
func (s *ChallengeService) Join(ctx context.Context, userID, challengeID string) (*domain.ChallengeStatus, error) {
	return s.setJoined(ctx, userID, challengeID, true)
}

// Leave removes the user from the challenge. Completions already granted stay in the ledger.
func (s *ChallengeService) Leave(ctx context.Context, userID, challengeID string) (*domain.ChallengeStatus, error) {
	return s.setJoined(ctx, userID, challengeID, false)
}

// Complete claims the challenge reward for the current period (idempotent operation)
func (s *ChallengeService) Complete(ctx context.Context, userID, challengeID string) (*domain.ChallengeStatus, error) {
	ch, err := s.find(challengeID)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	joined, err := s.challengeRepo.Joined(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !joined[ch.ID] {
		return nil, fmt.Errorf("%w: join the challenge first", domain.ErrNotEligible)
	}

	st, err := s.status(ctx, user, ch, true)
	if err != nil {
		return nil, err
	}
	if st.Completed {
		return st, nil
	}
	if st.Progress < ch.Target {
		return nil, fmt.Errorf("%w: progress %.2f of %.2f", domain.ErrNotEligible, st.Progress, ch.Target)
	}

	if _, err := s.grant(ctx, userID, ch, st.PeriodKey); err != nil {
		return nil, err
	}
	st.Completed = true

	return st, nil
}

// EvaluateJoined completes every joined challenge whose target is met in the current period
func (s *ChallengeService) EvaluateJoined(ctx context.Context, userID string) ([]domain.Reward, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	joined, err := s.challengeRepo.Joined(ctx, userID)
	if err != nil {
		return nil, err
	}

	rewards := make([]domain.Reward, 0)
	for _, ch := range s.catalog {
		if !joined[ch.ID] {
			continue
		}

		st, err := s.status(ctx, user, ch, true)
		if err != nil {
			return rewards, err
		}
		if st.Completed || st.Progress < ch.Target {
			continue
		}

		reward, err := s.grant(ctx, userID, ch, st.PeriodKey)
		if err != nil {
			return rewards, err
		}
		if reward != nil {
			rewards = append(rewards, *reward)
		}
	}

	return rewards, nil
}

// AfterActivity evaluates the user's joined challenges
func (s *ChallengeService) AfterActivity(ctx context.Context, userID string) {
	rewards, err := s.EvaluateJoined(ctx, userID)
	if err != nil {
		s.logger.Error("failed to evaluate challenges", "user_id", userID, "error", err)
		return
	}
	for _, r := range rewards {
		s.logger.Info("challenge completed", "user_id", userID, "source", r.Source, "points", r.Points)
	}
}

func (s *ChallengeService) setJoined(ctx context.Context, userID, challengeID string, joined bool) (*domain.ChallengeStatus, error) {
	ch, err := s.find(challengeID)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.challengeRepo.SetJoined(ctx, userID, ch.ID, joined); err != nil {
		return nil, err
	}

	return s.status(ctx, user, ch, joined)
}

// grant records the completion and its reward; nil means another request got there first
func (s *ChallengeService) grant(ctx context.Context, userID string, ch domain.Challenge, periodKey string) (*domain.Reward, error) {
	reward := &domain.Reward{
		RewardID:  uuid.NewString(),
		UserID:    userID,
		Source:    domain.RewardSourceChallengePrefix + ch.ID,
		Points:    ch.RewardPoints,
		AwardedAt: s.now().UTC(),
	}

	granted, err := s.challengeRepo.Complete(ctx, userID, ch.ID, periodKey, reward)
	if err != nil {
		return nil, err
	}
	if !granted {
		return nil, nil
	}

	s.rewardGranted(ctx, userID, reward.Source, reward.Points)
	return reward, nil
}

func (s *ChallengeService) status(ctx context.Context, user *domain.User, ch domain.Challenge, joined bool) (*domain.ChallengeStatus, error) {
	from, to, key := ch.Period.PeriodWindow(s.now().In(s.location))

	progress, err := s.progress(ctx, user, ch, from, to)
	if err != nil {
		return nil, err
	}

	completed, err := s.challengeRepo.IsCompleted(ctx, user.UserID, ch.ID, key)
	if err != nil {
		return nil, err
	}

	ratio := 0.0
	if ch.Target > 0 {
		ratio = math.Min(progress/ch.Target, 1)
	}

	return &domain.ChallengeStatus{
		Challenge: ch,
		Joined:    joined,
		Completed: completed,
		Progress:  progress,
		Ratio:     ratio,
		PeriodKey: key,
	}, nil
}

// progress measures the challenge metric for the user in [from, to)
func (s *ChallengeService) progress(ctx context.Context, user *domain.User, ch domain.Challenge, from, to time.Time) (float64, error) {
	switch ch.Kind {
	case domain.KindDailySteps:
		walks, err := s.walkRepo.ListByUser(ctx, user.UserID, from, to)
		if err != nil {
			return 0, err
		}
		steps := 0
		for _, w := range walks {
			steps += w.Steps
		}
		return float64(steps), nil

	case domain.KindDistancePeriod:
		return s.distance(ctx, user.UserID, from, to)

	case domain.KindPhotoWeekly:
		walks, err := s.walkRepo.ListByUser(ctx, user.UserID, from, to)
		if err != nil {
			return 0, err
		}
		photos := 0
		for _, w := range walks {
			if w.PhotoAttached {
				photos++
			}
		}
		return float64(photos), nil

	case domain.KindInvitesMonthly:
		n, err := s.inviteRepo.CountByInviter(ctx, user.UserID, from, to)
		return float64(n), err

	case domain.KindDistinctRoutesMonth:
		n, err := s.routeRepo.CountDistinctSlugs(ctx, user.UserID, from, to)
		return float64(n), err

	case domain.KindTeamDistanceWeekly, domain.KindTeamEachMemberWeek:
		return s.teamProgress(ctx, user, ch.Kind, from, to)

	default:
		return 0, nil
	}
}

// teamProgress is the combined distance of the team, or the smallest member distance
// for relay-style challenges. Users without a team have no progress.
func (s *ChallengeService) teamProgress(ctx context.Context, user *domain.User, kind domain.ChallengeKind, from, to time.Time) (float64, error) {
	if user.TeamID == "" {
		return 0, nil
	}

	members, err := s.userRepo.ListByTeam(ctx, user.TeamID)
	if err != nil {
		return 0, err
	}
	if len(members) == 0 {
		return 0, nil
	}

	total, lowest := 0.0, math.Inf(1)
	for _, m := range members {
		d, err := s.distance(ctx, m.UserID, from, to)
		if err != nil {
			return 0, err
		}
		total += d
		lowest = math.Min(lowest, d)
	}

	if kind == domain.KindTeamEachMemberWeek {
		return lowest, nil
	}
	return total, nil
}

func (s *ChallengeService) distance(ctx context.Context, userID string, from, to time.Time) (float64, error) {
	walks, err := s.walkRepo.ListByUser(ctx, userID, from, to)
	if err != nil {
		return 0, err
	}
	miles := 0.0
	for _, w := range walks {
		miles += w.DistanceMiles
	}
	return miles, nil
}

func (s *ChallengeService) find(challengeID string) (domain.Challenge, error) {
	for _, ch := range s.catalog {
		if ch.ID == challengeID {
			return ch, nil
		}
	}
	return domain.Challenge{}, domain.ErrChallengeNotFound
}
