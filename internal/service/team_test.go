package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aidar/walking-buddies/internal/domain"
)

func TestTeamService_AddTeam(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "alice")

	team, err := f.teams.AddTeam(ctx, "  Park Striders ", "alice")
	require.NoError(t, err)
	assert.Equal(t, "park-striders", team.TeamID)
	assert.Equal(t, "Park Striders", team.Name)
	assert.Equal(t, "alice", team.CaptainID)
	require.Len(t, team.Members, 1)
	assert.Equal(t, "alice", team.Members[0].UserID)
	assert.Equal(t, 0, team.Points)

	_, err = f.teams.AddTeam(ctx, "park striders", "alice")
	assert.ErrorIs(t, err, domain.ErrTeamExists)

	_, err = f.teams.AddTeam(ctx, "!!!", "alice")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.teams.AddTeam(ctx, "Ghosts", "ghost")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestTeamService_JoinAndPoints(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "alice", "bob")

	_, err := f.teams.AddTeam(ctx, "Striders", "alice")
	require.NoError(t, err)

	team, err := f.teams.Join(ctx, "striders", "bob")
	require.NoError(t, err)
	assert.Len(t, team.Members, 2)

	f.walk(t, WalkInput{UserID: "alice", DurationMinutes: 25})
	f.walk(t, WalkInput{UserID: "bob", DurationMinutes: 35, GroupWalk: true})

	team, err = f.teams.GetTeam(ctx, "striders")
	require.NoError(t, err)
	assert.Equal(t, 25+35+20, team.Points)
	assert.Equal(t, "bob", team.Members[0].UserID)
	assert.Equal(t, 55, team.Members[0].Points)

	_, err = f.teams.Join(ctx, "nope", "bob")
	assert.ErrorIs(t, err, domain.ErrTeamNotFound)

	_, err = f.teams.Join(ctx, "striders", "ghost")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	_, err = f.teams.GetTeam(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrTeamNotFound)
}
