package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aidar/walking-buddies/internal/domain"
)

func statusByID(statuses []domain.ChallengeStatus) map[string]domain.ChallengeStatus {
	out := make(map[string]domain.ChallengeStatus, len(statuses))
	for _, st := range statuses {
		out[st.ID] = st
	}
	return out
}

func (f *fixture) join(t *testing.T, userID, challengeID string) {
	t.Helper()
	st, err := f.challenges.Join(context.Background(), userID, challengeID)
	require.NoError(t, err)
	require.True(t, st.Joined)
}

func TestChallengeService_StatusPeriodKeys(t *testing.T) {
	f := newFixture(t)
	f.register(t, "alice")

	statuses, err := f.challenges.Status(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, statuses, len(domain.DefaultChallenges))

	byID := statusByID(statuses)
	assert.Equal(t, "2024-05-08", byID["daily_5000"].PeriodKey)
	assert.Equal(t, "2024-W19", byID["photo_share"].PeriodKey)
	assert.Equal(t, "weekend-2024-05-11", byID["weekend_walkathon"].PeriodKey)
	assert.Equal(t, "2024-05", byID["invite_3"].PeriodKey)
	for _, st := range statuses {
		assert.False(t, st.Joined)
		assert.False(t, st.Completed)
	}

	_, err = f.challenges.Status(context.Background(), "ghost")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestChallengeService_JoinLeaveAndEligibility(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "alice")

	_, err := f.challenges.Join(ctx, "alice", "moonwalk")
	assert.ErrorIs(t, err, domain.ErrChallengeNotFound)

	_, err = f.challenges.Complete(ctx, "alice", "daily_5000")
	assert.ErrorIs(t, err, domain.ErrNotEligible, "must join first")

	f.join(t, "alice", "daily_5000")
	_, err = f.challenges.Complete(ctx, "alice", "daily_5000")
	assert.ErrorIs(t, err, domain.ErrNotEligible, "no steps yet")

	st, err := f.challenges.Leave(ctx, "alice", "daily_5000")
	require.NoError(t, err)
	assert.False(t, st.Joined)
}

func TestChallengeService_DailyStepsAutoCompletesOncePerDay(t *testing.T) {
	f := newFixture(t)
	f.register(t, "alice")
	f.join(t, "alice", "daily_5000")

	f.walk(t, WalkInput{UserID: "alice", DurationMinutes: 20, Steps: 3000})
	assert.Equal(t, 20, f.points(t, "alice"))

	res := f.walk(t, WalkInput{UserID: "alice", DurationMinutes: 20, Steps: 2500})
	assert.Equal(t, 20+20+50, res.TotalPoints)

	f.walk(t, WalkInput{UserID: "alice", DurationMinutes: 10, Steps: 9000})
	assert.Equal(t, 100, f.points(t, "alice"), "reward granted once per day")

	st, err := f.challenges.Complete(context.Background(), "alice", "daily_5000")
	require.NoError(t, err)
	assert.True(t, st.Completed)
	assert.Equal(t, 1.0, st.Ratio)
	assert.Equal(t, 100, f.points(t, "alice"), "completing again is a no-op")

	// Next day is a new period: 10 base + 5 streak bonus + 50 reward
	f.now = baseTime.Add(24 * time.Hour)
	f.walk(t, WalkInput{UserID: "alice", DurationMinutes: 10, Steps: 5000})
	assert.Equal(t, 165, f.points(t, "alice"))
}

func TestChallengeService_UnjoinedChallengesAreNotEvaluated(t *testing.T) {
	f := newFixture(t)
	f.register(t, "alice")

	f.walk(t, WalkInput{UserID: "alice", DurationMinutes: 10, Steps: 8000, PhotoAttached: true})
	assert.Equal(t, 15, f.points(t, "alice"))
}

func TestChallengeService_PhotoWeekly(t *testing.T) {
	f := newFixture(t)
	f.register(t, "alice")
	f.join(t, "alice", "photo_share")

	f.walk(t, WalkInput{UserID: "alice", DurationMinutes: 10, PhotoAttached: true})
	assert.Equal(t, 10+5+20, f.points(t, "alice"))
}

func TestChallengeService_InvitesMonthly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "alice")
	f.join(t, "alice", "invite_3")

	for i := 0; i < 3; i++ {
		_, err := f.invites.CreateInvite(ctx, "alice", fmt.Sprintf("friend%d@example.com", i))
		require.NoError(t, err)
	}
	assert.Equal(t, 3*50+100, f.points(t, "alice"))
}

func TestChallengeService_WeekendWalkathon(t *testing.T) {
	f := newFixture(t)
	f.register(t, "alice")
	f.join(t, "alice", "weekend_walkathon")

	// Weekday distance does not count
	f.walk(t, WalkInput{UserID: "alice", DurationMinutes: 60, DistanceMiles: 12})
	assert.Equal(t, 60, f.points(t, "alice"))

	saturday := time.Date(2024, 5, 11, 9, 0, 0, 0, time.UTC)
	f.now = saturday
	f.walk(t, WalkInput{UserID: "alice", DurationMinutes: 60, DistanceMiles: 6})
	assert.Equal(t, 120, f.points(t, "alice"))

	f.now = saturday.Add(24 * time.Hour)
	f.walk(t, WalkInput{UserID: "alice", DurationMinutes: 60, DistanceMiles: 5})
	// 60 base + 5 streak bonus + 150 reward
	assert.Equal(t, 120+65+150, f.points(t, "alice"))
}

func TestChallengeService_TeamChallenges(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "alice", "bob", "solo")
	_, err := f.teams.AddTeam(ctx, "Relay", "alice")
	require.NoError(t, err)
	_, err = f.teams.Join(ctx, "relay", "bob")
	require.NoError(t, err)

	f.join(t, "alice", "relay_pass_baton")
	f.join(t, "alice", "team_100_miles")
	f.join(t, "solo", "relay_pass_baton")

	f.walk(t, WalkInput{UserID: "alice", DurationMinutes: 30, DistanceMiles: 60})
	_, err = f.challenges.Complete(ctx, "alice", "relay_pass_baton")
	assert.ErrorIs(t, err, domain.ErrNotEligible, "bob has not walked yet")

	f.walk(t, WalkInput{UserID: "bob", DurationMinutes: 30, DistanceMiles: 40})

	st, err := f.challenges.Complete(ctx, "alice", "relay_pass_baton")
	require.NoError(t, err)
	assert.True(t, st.Completed)
	assert.Equal(t, 40.0, st.Progress)

	st, err = f.challenges.Complete(ctx, "alice", "team_100_miles")
	require.NoError(t, err)
	assert.Equal(t, 100.0, st.Progress)
	assert.Equal(t, 30+200+300, f.points(t, "alice"))

	// Users without a team make no progress
	_, err = f.challenges.Complete(ctx, "solo", "relay_pass_baton")
	assert.ErrorIs(t, err, domain.ErrNotEligible)
}
