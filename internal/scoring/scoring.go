// Package scoring converts walk entries into point awards and streak updates.
package scoring

import (
	"fmt"
	"math"
	"time"

	"github.com/aidar/walking-buddies/internal/domain"
)

// Rules holds the tunable point values. All bonuses are additive and independent.
type Rules struct {
	PointsPerMinute   int
	StreakBonusPerDay int
	StreakBonusCap    int
	StreakGraceDays   int
	GroupBonus        int
	PhotoBonus        int
	InviteBonus       int
	ClockSkew         time.Duration
	Location          *time.Location
}

// DefaultRules returns the rule set used when nothing is configured.
func DefaultRules() Rules {
	return Rules{
		PointsPerMinute:   1,
		StreakBonusPerDay: 5,
		StreakBonusCap:    50,
		StreakGraceDays:   1,
		GroupBonus:        20,
		PhotoBonus:        5,
		InviteBonus:       50,
		ClockSkew:         5 * time.Minute,
		Location:          time.UTC,
	}
}

// Award is the outcome of scoring a single walk
type Award struct {
	Points         int                    `json:"points"`
	Breakdown      domain.PointsBreakdown `json:"breakdown"`
	StreakAdvanced bool                   `json:"streak_advanced"`
}

// Engine scores walks. It has no side effects; callers persist the returned state.
type Engine struct {
	rules Rules
}

// NewEngine creates an Engine, filling unset location with UTC
func NewEngine(rules Rules) *Engine {
	if rules.Location == nil {
		rules.Location = time.UTC
	}
	if rules.StreakGraceDays < 1 {
		rules.StreakGraceDays = 1
	}
	return &Engine{rules: rules}
}

// Rules returns the engine's rule set
func (e *Engine) Rules() Rules {
	return e.rules
}

// Validate checks the entry fields that scoring depends on.
// A zero WalkedAt is treated as now.
func (e *Engine) Validate(entry domain.WalkEntry, now time.Time) error {
	d := entry.DurationMinutes
	if math.IsNaN(d) || math.IsInf(d, 0) || d <= 0 {
		return fmt.Errorf("%w: duration_minutes must be positive", domain.ErrInvalidInput)
	}
	if entry.Steps < 0 {
		return fmt.Errorf("%w: steps must not be negative", domain.ErrInvalidInput)
	}
	if math.IsNaN(entry.DistanceMiles) || math.IsInf(entry.DistanceMiles, 0) || entry.DistanceMiles < 0 {
		return fmt.Errorf("%w: distance_miles must not be negative", domain.ErrInvalidInput)
	}
	if !entry.WalkedAt.IsZero() && entry.WalkedAt.After(now.Add(e.rules.ClockSkew)) {
		return fmt.Errorf("%w: walked_at is in the future", domain.ErrInvalidInput)
	}
	return nil
}

// Score computes the points for entry given the user's streak state before it.
func (e *Engine) Score(entry domain.WalkEntry, state domain.StreakState, now time.Time) (Award, domain.StreakState, error) {
	if err := e.Validate(entry, now); err != nil {
		return Award{}, state, err
	}

	walkedAt := entry.WalkedAt
	if walkedAt.IsZero() {
		walkedAt = now
	}

	next, advanced := e.nextStreak(state, walkedAt)

	breakdown := domain.PointsBreakdown{
		Base: BasePoints(entry.DurationMinutes) * e.rules.PointsPerMinute,
	}
	if advanced {
		breakdown.StreakBonus = e.streakBonus(next.Streak)
	}
	if entry.GroupWalk {
		breakdown.GroupBonus = e.rules.GroupBonus
	}
	if entry.PhotoAttached {
		breakdown.PhotoBonus = e.rules.PhotoBonus
	}
	if entry.InvitedFriend {
		breakdown.InviteBonus = e.rules.InviteBonus
	}

	return Award{
		Points:         breakdown.Total(),
		Breakdown:      breakdown,
		StreakAdvanced: advanced,
	}, next, nil
}

// BasePoints floors the walked minutes.
func BasePoints(minutes float64) int {
	if minutes <= 0 {
		return 0
	}
	return int(math.Floor(minutes))
}

// nextStreak reports the streak after a walk at walkedAt. The boolean is false when
// the walk fell on the same (or an earlier) day as the previous one.
func (e *Engine) nextStreak(state domain.StreakState, walkedAt time.Time) (domain.StreakState, bool) {
	if state.LastWalkAt.IsZero() || state.Streak <= 0 {
		return domain.StreakState{Streak: 1, LastWalkAt: walkedAt}, true
	}

	gap := e.dayGap(state.LastWalkAt, walkedAt)
	switch {
	case gap <= 0:
		last := state.LastWalkAt
		if walkedAt.After(last) {
			last = walkedAt
		}
		return domain.StreakState{Streak: state.Streak, LastWalkAt: last}, false
	case gap <= e.rules.StreakGraceDays:
		return domain.StreakState{Streak: state.Streak + 1, LastWalkAt: walkedAt}, true
	default:
		return domain.StreakState{Streak: 1, LastWalkAt: walkedAt}, true
	}
}

func (e *Engine) streakBonus(streak int) int {
	bonus := (streak - 1) * e.rules.StreakBonusPerDay
	if bonus < 0 {
		return 0
	}
	if e.rules.StreakBonusCap > 0 && bonus > e.rules.StreakBonusCap {
		return e.rules.StreakBonusCap
	}
	return bonus
}

// dayGap counts calendar days from a to b in the configured location.
func (e *Engine) dayGap(a, b time.Time) int {
	da := truncateDay(a.In(e.rules.Location))
	db := truncateDay(b.In(e.rules.Location))
	return int(math.Round(db.Sub(da).Hours() / 24))
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// CurrentStreak reports the streak as of now: a streak whose last walk is older than
// the grace window is already broken and reads as zero.
func (e *Engine) CurrentStreak(state domain.StreakState, now time.Time) int {
	if state.LastWalkAt.IsZero() || state.Streak <= 0 {
		return 0
	}
	if e.dayGap(state.LastWalkAt, now) > e.rules.StreakGraceDays {
		return 0
	}
	return state.Streak
}
