package service

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aidar/walking-buddies/internal/events"
	"github.com/aidar/walking-buddies/internal/repository/memory"
	"github.com/aidar/walking-buddies/internal/scoring"
)

// recordingPublisher keeps published events for assertions
type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type fixture struct {
	store      *memory.Store
	publisher  *recordingPublisher
	users      *UserService
	walks      *WalkService
	boards     *LeaderboardService
	teams      *TeamService
	invites    *InviteService
	challenges *ChallengeService
	routes     *RouteService
	stats      *StatsService
	now        time.Time
}

// Wednesday noon UTC
var baseTime = time.Date(2024, 5, 8, 12, 0, 0, 0, time.UTC)

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memory.NewStore()
	publisher := &recordingPublisher{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	engine := scoring.NewEngine(scoring.DefaultRules())

	f := &fixture{
		store:     store,
		publisher: publisher,
		now:       baseTime,
	}

	f.users = NewUserService(store.Users(), store.Standings(), engine, publisher, logger)
	f.walks = NewWalkService(store.Walks(), store.Standings(), engine, publisher, logger)
	f.boards = NewLeaderboardService(store.Standings(), store.Teams(), engine)
	f.teams = NewTeamService(store.Teams(), store.Users(), store.Standings(), engine)
	f.invites = NewInviteService(store.Invites(), store.Users(), engine, "test-secret", time.Hour, publisher, logger)
	f.challenges = NewChallengeService(store.Challenges(), store.Walks(), store.Invites(), store.Routes(), store.Users(), engine, publisher, logger)
	f.routes = NewRouteService(store.Routes(), store.Users(), logger)
	f.stats = NewStatsService(store.Standings())

	clock := func() time.Time { return f.now }
	f.users.now = clock
	f.walks.now = clock
	f.boards.now = clock
	f.teams.now = clock
	f.invites.now = clock
	f.challenges.now = clock
	f.routes.now = clock

	f.walks.Subscribe(f.challenges)
	f.invites.Subscribe(f.challenges)
	f.routes.Subscribe(f.challenges)

	return f
}

func (f *fixture) register(t *testing.T, ids ...string) {
	t.Helper()
	for _, id := range ids {
		_, err := f.users.Register(context.Background(), id, id)
		require.NoError(t, err)
	}
}

func (f *fixture) walk(t *testing.T, in WalkInput) *WalkResult {
	t.Helper()
	res, err := f.walks.Submit(context.Background(), in)
	require.NoError(t, err)
	return res
}

func (f *fixture) points(t *testing.T, userID string) int {
	t.Helper()
	p, err := f.users.GetProfile(context.Background(), userID)
	require.NoError(t, err)
	return p.Points
}
