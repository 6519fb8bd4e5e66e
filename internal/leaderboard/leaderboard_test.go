package leaderboard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aidar/walking-buddies/internal/domain"
)

var t0 = time.Date(2025, time.April, 1, 9, 0, 0, 0, time.UTC)

func TestRankUsers_Empty(t *testing.T) {
	got := RankUsers(nil)
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestRankTeams_EmptyAndMemberless(t *testing.T) {
	assert.NotNil(t, RankTeams(nil, nil))

	teams := []domain.Team{{TeamID: "comeback-kids", Name: "Comeback Kids"}}
	got := RankTeams(teams, nil)
	require.NotNil(t, got)
	assert.Empty(t, got, "teams without members are not ranked")
}

func TestRankUsers_SortedDescendingWithTieBreaks(t *testing.T) {
	standings := []domain.Standing{
		{UserID: "carol", Points: 50, ReachedAt: t0.Add(2 * time.Hour)},
		{UserID: "alice", Points: 80, ReachedAt: t0},
		{UserID: "bob", Points: 50, ReachedAt: t0.Add(time.Hour)},
		{UserID: "zed", Points: 0},
		{UserID: "dave", Points: 0},
	}

	got := RankUsers(standings)
	ids := make([]string, len(got))
	for i, e := range got {
		ids[i] = e.ID
		assert.Equal(t, i+1, e.Rank)
	}

	assert.Equal(t, []string{"alice", "bob", "carol", "dave", "zed"}, ids)
	assert.Equal(t, "dave", got[3].Name, "name falls back to id")
	assert.Equal(t, domain.TierBronze, got[0].Tier)
}

func TestRankUsers_StableAcrossRecomputation(t *testing.T) {
	standings := []domain.Standing{
		{UserID: "u3", Points: 10, ReachedAt: t0},
		{UserID: "u1", Points: 10, ReachedAt: t0},
		{UserID: "u2", Points: 30, ReachedAt: t0},
	}
	first := RankUsers(standings)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, RankUsers(standings))
	}
	for i := 1; i < len(first); i++ {
		assert.GreaterOrEqual(t, first[i-1].Points, first[i].Points)
	}
}

func TestRankTeams_SumsMembers(t *testing.T) {
	teams := []domain.Team{
		{TeamID: "a", Name: "Alpha"},
		{TeamID: "b", Name: "Beta"},
		{TeamID: "c", Name: "Gamma"},
	}
	standings := []domain.Standing{
		{UserID: "u1", TeamID: "a", Points: 30, ReachedAt: t0},
		{UserID: "u2", TeamID: "a", Points: 20, ReachedAt: t0.Add(time.Hour)},
		{UserID: "u3", TeamID: "b", Points: 50, ReachedAt: t0.Add(30 * time.Minute)},
		{UserID: "u4", Points: 500},
	}

	got := RankTeams(teams, standings)
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].ID, "b reached 50 earlier than a")
	assert.Equal(t, 50, got[0].Points)
	assert.Equal(t, "a", got[1].ID)
	assert.Equal(t, "Alpha", got[1].Name)

	assert.Equal(t, map[string]int{"a": 50, "b": 50}, TeamPoints(standings))
}

func TestRankTeamMembers(t *testing.T) {
	standings := []domain.Standing{
		{UserID: "u1", TeamID: "a", Points: 1},
		{UserID: "u2", TeamID: "b", Points: 9},
		{UserID: "u3", TeamID: "a", Points: 5},
	}
	got := RankTeamMembers(standings, "a")
	require.Len(t, got, 2)
	assert.Equal(t, "u3", got[0].ID)

	assert.Empty(t, RankTeamMembers(standings, "missing"))
}

func TestTop(t *testing.T) {
	entries := RankUsers([]domain.Standing{{UserID: "a"}, {UserID: "b"}, {UserID: "c"}})
	assert.Len(t, Top(entries, 2), 2)
	assert.Len(t, Top(entries, 0), 3)
	assert.Len(t, Top(entries, 10), 3)
}
