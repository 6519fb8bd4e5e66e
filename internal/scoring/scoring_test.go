package scoring

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aidar/walking-buddies/internal/domain"
)

var day1 = time.Date(2025, time.March, 3, 8, 30, 0, 0, time.UTC)

func TestBasePointsFloorsMinutes(t *testing.T) {
	cases := map[float64]int{
		1:     1,
		1.99:  1,
		29.5:  29,
		30:    30,
		120.2: 120,
		0.5:   0,
	}
	for minutes, want := range cases {
		assert.Equal(t, want, BasePoints(minutes), "minutes=%v", minutes)
	}
}

func TestScore_FirstSoloWalk(t *testing.T) {
	engine := NewEngine(DefaultRules())

	award, state, err := engine.Score(domain.WalkEntry{DurationMinutes: 30, WalkedAt: day1}, domain.StreakState{}, day1)
	require.NoError(t, err)

	assert.Equal(t, 30, award.Points)
	assert.Equal(t, 1, state.Streak)
	assert.Equal(t, day1, state.LastWalkAt)
	assert.Equal(t, 0, award.Breakdown.StreakBonus)
}

func TestScore_NextDayGroupWalkWithPhoto(t *testing.T) {
	engine := NewEngine(DefaultRules())
	_, state, err := engine.Score(domain.WalkEntry{DurationMinutes: 30, WalkedAt: day1}, domain.StreakState{}, day1)
	require.NoError(t, err)

	next := day1.Add(26 * time.Hour)
	award, state, err := engine.Score(domain.WalkEntry{
		DurationMinutes: 20,
		WalkedAt:        next,
		GroupWalk:       true,
		PhotoAttached:   true,
	}, state, next)
	require.NoError(t, err)

	assert.Equal(t, 2, state.Streak)
	assert.Equal(t, domain.PointsBreakdown{Base: 20, StreakBonus: 5, GroupBonus: 20, PhotoBonus: 5}, award.Breakdown)
	assert.Equal(t, 50, award.Points)
}

func TestScore_BonusesAreIndependent(t *testing.T) {
	engine := NewEngine(DefaultRules())
	base := domain.WalkEntry{DurationMinutes: 10, WalkedAt: day1}

	invite := base
	invite.InvitedFriend = true
	award, _, err := engine.Score(invite, domain.StreakState{}, day1)
	require.NoError(t, err)
	assert.Equal(t, 60, award.Points)

	all := base
	all.GroupWalk, all.PhotoAttached, all.InvitedFriend = true, true, true
	award, _, err = engine.Score(all, domain.StreakState{}, day1)
	require.NoError(t, err)
	assert.Equal(t, 10+20+5+50, award.Points)
}

func TestScore_StreakIncrementsWithinWindowAndResetsOutside(t *testing.T) {
	engine := NewEngine(DefaultRules())
	state := domain.StreakState{Streak: 4, LastWalkAt: day1}

	_, next, err := engine.Score(domain.WalkEntry{DurationMinutes: 5, WalkedAt: day1.AddDate(0, 0, 1)}, state, day1.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Equal(t, 5, next.Streak)

	_, reset, err := engine.Score(domain.WalkEntry{DurationMinutes: 5, WalkedAt: day1.AddDate(0, 0, 2)}, state, day1.AddDate(0, 0, 2))
	require.NoError(t, err)
	assert.Equal(t, 1, reset.Streak)
}

func TestScore_SameDayKeepsStreakWithoutBonus(t *testing.T) {
	engine := NewEngine(DefaultRules())
	state := domain.StreakState{Streak: 3, LastWalkAt: day1}
	later := day1.Add(4 * time.Hour)

	award, next, err := engine.Score(domain.WalkEntry{DurationMinutes: 15, WalkedAt: later}, state, later)
	require.NoError(t, err)

	assert.False(t, award.StreakAdvanced)
	assert.Equal(t, 3, next.Streak)
	assert.Equal(t, later, next.LastWalkAt)
	assert.Equal(t, 15, award.Points)
}

func TestScore_GraceDaysWidenTheWindow(t *testing.T) {
	rules := DefaultRules()
	rules.StreakGraceDays = 2
	engine := NewEngine(rules)
	state := domain.StreakState{Streak: 1, LastWalkAt: day1}
	at := day1.AddDate(0, 0, 2)

	_, next, err := engine.Score(domain.WalkEntry{DurationMinutes: 5, WalkedAt: at}, state, at)
	require.NoError(t, err)
	assert.Equal(t, 2, next.Streak)
}

func TestScore_StreakBonusIsCapped(t *testing.T) {
	engine := NewEngine(DefaultRules())
	state := domain.StreakState{Streak: 40, LastWalkAt: day1}
	at := day1.AddDate(0, 0, 1)

	award, next, err := engine.Score(domain.WalkEntry{DurationMinutes: 1, WalkedAt: at}, state, at)
	require.NoError(t, err)
	assert.Equal(t, 41, next.Streak)
	assert.Equal(t, 50, award.Breakdown.StreakBonus)
}

func TestScore_InvalidInput(t *testing.T) {
	engine := NewEngine(DefaultRules())
	cases := map[string]domain.WalkEntry{
		"zero duration":     {DurationMinutes: 0, WalkedAt: day1},
		"negative duration": {DurationMinutes: -3, WalkedAt: day1},
		"nan duration":      {DurationMinutes: math.NaN(), WalkedAt: day1},
		"negative steps":    {DurationMinutes: 3, Steps: -1, WalkedAt: day1},
		"future walk":       {DurationMinutes: 3, WalkedAt: day1.Add(time.Hour)},
	}
	for name, entry := range cases {
		t.Run(name, func(t *testing.T) {
			state := domain.StreakState{Streak: 2, LastWalkAt: day1.Add(-time.Hour)}
			_, got, err := engine.Score(entry, state, day1)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrInvalidInput))
			assert.Equal(t, state, got, "state must be untouched on error")
		})
	}
}

func TestScore_ClockSkewTolerance(t *testing.T) {
	engine := NewEngine(DefaultRules())
	_, _, err := engine.Score(domain.WalkEntry{DurationMinutes: 3, WalkedAt: day1.Add(2 * time.Minute)}, domain.StreakState{}, day1)
	assert.NoError(t, err)
}

func TestScore_ZeroTimestampMeansNow(t *testing.T) {
	engine := NewEngine(DefaultRules())
	_, state, err := engine.Score(domain.WalkEntry{DurationMinutes: 3}, domain.StreakState{}, day1)
	require.NoError(t, err)
	assert.Equal(t, day1, state.LastWalkAt)
}

func TestScore_UsesConfiguredLocationForDays(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*3600)
	rules := DefaultRules()
	rules.Location = loc
	engine := NewEngine(rules)

	// 23:00 and 03:00 UTC are the same local day in UTC-5
	first := time.Date(2025, time.March, 3, 23, 0, 0, 0, time.UTC)
	second := time.Date(2025, time.March, 4, 3, 0, 0, 0, time.UTC)

	_, next, err := engine.Score(domain.WalkEntry{DurationMinutes: 3, WalkedAt: second}, domain.StreakState{Streak: 1, LastWalkAt: first}, second)
	require.NoError(t, err)
	assert.Equal(t, 1, next.Streak)
}

func TestTierFor(t *testing.T) {
	assert.Equal(t, domain.TierBronze, domain.TierFor(0))
	assert.Equal(t, domain.TierBronze, domain.TierFor(499))
	assert.Equal(t, domain.TierSilver, domain.TierFor(500))
	assert.Equal(t, domain.TierGold, domain.TierFor(1000))
	assert.Equal(t, domain.TierPlatinum, domain.TierFor(5000))
}

func TestCurrentStreak(t *testing.T) {
	engine := NewEngine(DefaultRules())
	state := domain.StreakState{Streak: 6, LastWalkAt: day1}

	assert.Equal(t, 6, engine.CurrentStreak(state, day1.Add(3*time.Hour)))
	assert.Equal(t, 6, engine.CurrentStreak(state, day1.AddDate(0, 0, 1)))
	assert.Equal(t, 0, engine.CurrentStreak(state, day1.AddDate(0, 0, 2)))
	assert.Equal(t, 0, engine.CurrentStreak(domain.StreakState{}, day1))
}
