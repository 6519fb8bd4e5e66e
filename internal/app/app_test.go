package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aidar/walking-buddies/internal/config"
	"github.com/aidar/walking-buddies/internal/domain"
	"github.com/aidar/walking-buddies/internal/handler"
)

func testConfig() *config.Config {
	return &config.Config{
		Server:  config.ServerConfig{Host: "127.0.0.1", Port: "0"},
		Storage: config.StorageConfig{Driver: config.StorageMemory},
		Invite:  config.InviteConfig{Secret: "app-test-secret", TTLHours: 1},
		Scoring: config.ScoringConfig{
			PointsPerMinute:   1,
			StreakBonusPerDay: 5,
			StreakBonusCap:    50,
			StreakGraceDays:   1,
			GroupBonus:        20,
			PhotoBonus:        5,
			InviteBonus:       50,
			ClockSkew:         5 * time.Minute,
			Timezone:          "UTC",
		},
		Stats: config.StatsConfig{RefreshInterval: time.Hour},
	}
}

func newTestApp(t *testing.T) http.Handler {
	t.Helper()

	a, err := New(testConfig())
	require.NoError(t, err)
	require.NoError(t, a.Initialize(context.Background()))
	t.Cleanup(func() {
		_ = a.Shutdown(context.Background())
	})

	return a.Handler()
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dst))
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp handler.ErrorResponse
	decode(t, rec, &resp)
	return resp.Error.Code
}

type walkResponse struct {
	PointsAwarded int                    `json:"points_awarded"`
	Breakdown     domain.PointsBreakdown `json:"breakdown"`
	Streak        int                    `json:"streak"`
	TotalPoints   int                    `json:"total_points"`
}

type boardResponse struct {
	Scope   string                    `json:"scope"`
	Entries []domain.LeaderboardEntry `json:"entries"`
}

func TestApp_Health(t *testing.T) {
	h := newTestApp(t)

	rec := do(t, h, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "walking_buddies_http_requests_total")
}

func TestApp_EmptyLeaderboards(t *testing.T) {
	h := newTestApp(t)

	for _, path := range []string{"/leaderboard/users", "/leaderboard/teams"} {
		rec := do(t, h, http.MethodGet, path, nil)
		require.Equal(t, http.StatusOK, rec.Code, path)

		var board boardResponse
		decode(t, rec, &board)
		assert.NotNil(t, board.Entries, path)
		assert.Empty(t, board.Entries, path)
	}
}

func TestApp_WalkScoringFlow(t *testing.T) {
	h := newTestApp(t)
	yesterday := time.Now().UTC().Add(-24 * time.Hour)

	rec := do(t, h, http.MethodPost, "/users", map[string]string{"user_id": "alice", "display_name": "Alice"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, h, http.MethodPost, "/walks", map[string]any{
		"user_id":          "alice",
		"duration_minutes": 30,
		"walked_at":        yesterday,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var first walkResponse
	decode(t, rec, &first)
	assert.Equal(t, 30, first.PointsAwarded)
	assert.Equal(t, 1, first.Streak)

	rec = do(t, h, http.MethodPost, "/walks", map[string]any{
		"user_id":          "alice",
		"duration_minutes": 20,
		"group_walk":       true,
		"photo_attached":   true,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var second walkResponse
	decode(t, rec, &second)
	assert.Equal(t, 50, second.PointsAwarded)
	assert.Equal(t, domain.PointsBreakdown{Base: 20, StreakBonus: 5, GroupBonus: 20, PhotoBonus: 5}, second.Breakdown)
	assert.Equal(t, 2, second.Streak)
	assert.Equal(t, 80, second.TotalPoints)

	rec = do(t, h, http.MethodGet, "/users/get?user_id=alice", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var profile domain.Profile
	decode(t, rec, &profile)
	assert.Equal(t, 80, profile.Points)
	assert.Equal(t, 2, profile.Streak)
	assert.Equal(t, domain.TierBronze, profile.Tier)

	rec = do(t, h, http.MethodGet, "/walks?user_id=alice", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var walks handler.ListWalksResponse
	decode(t, rec, &walks)
	require.Len(t, walks.Walks, 2)
	assert.Equal(t, 50, walks.Walks[0].Points, "newest first")

	rec = do(t, h, http.MethodGet, "/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var stats domain.Stats
	decode(t, rec, &stats)
	assert.Equal(t, domain.Stats{TotalUsers: 1, TotalWalks: 2, TotalPoints: 80}, stats)
}

func TestApp_TeamLeaderboards(t *testing.T) {
	h := newTestApp(t)

	for _, id := range []string{"alice", "bob", "carol"} {
		rec := do(t, h, http.MethodPost, "/users", map[string]string{"user_id": id})
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := do(t, h, http.MethodPost, "/team/add", map[string]string{"name": "Early Birds", "captain_id": "alice"})
	require.Equal(t, http.StatusCreated, rec.Code)

	// A team with no points still shows up once it has members
	rec = do(t, h, http.MethodPost, "/team/join", map[string]string{"team_id": "early-birds", "user_id": "bob"})
	require.Equal(t, http.StatusOK, rec.Code)

	for _, w := range []struct {
		user    string
		minutes int
	}{{"alice", 10}, {"bob", 40}, {"carol", 25}} {
		rec = do(t, h, http.MethodPost, "/walks", map[string]any{"user_id": w.user, "duration_minutes": w.minutes})
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec = do(t, h, http.MethodGet, "/leaderboard/users", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var global boardResponse
	decode(t, rec, &global)
	require.Len(t, global.Entries, 3)
	assert.Equal(t, []string{"bob", "carol", "alice"}, entryIDs(global.Entries))
	assert.Equal(t, 1, global.Entries[0].Rank)

	rec = do(t, h, http.MethodGet, "/leaderboard/users?team_id=early-birds&limit=1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var scoped boardResponse
	decode(t, rec, &scoped)
	assert.Equal(t, "team", scoped.Scope)
	assert.Equal(t, []string{"bob"}, entryIDs(scoped.Entries))

	rec = do(t, h, http.MethodGet, "/leaderboard/teams", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var teams boardResponse
	decode(t, rec, &teams)
	require.Len(t, teams.Entries, 1)
	assert.Equal(t, "early-birds", teams.Entries[0].ID)
	assert.Equal(t, 50, teams.Entries[0].Points)
}

func TestApp_ErrorCodes(t *testing.T) {
	h := newTestApp(t)

	rec := do(t, h, http.MethodPost, "/users", map[string]string{"user_id": "alice"})
	require.Equal(t, http.StatusCreated, rec.Code)

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		status int
		code   string
	}{
		{"duplicate user", http.MethodPost, "/users", map[string]string{"user_id": "alice"}, http.StatusConflict, "USER_EXISTS"},
		{"zero duration", http.MethodPost, "/walks", map[string]any{"user_id": "alice", "duration_minutes": 0}, http.StatusBadRequest, "INVALID_INPUT"},
		{"future walk", http.MethodPost, "/walks", map[string]any{"user_id": "alice", "duration_minutes": 10, "walked_at": time.Now().Add(time.Hour)}, http.StatusBadRequest, "INVALID_INPUT"},
		{"unknown walker", http.MethodPost, "/walks", map[string]any{"user_id": "ghost", "duration_minutes": 10}, http.StatusNotFound, "NOT_FOUND"},
		{"missing profile", http.MethodGet, "/users/get?user_id=ghost", nil, http.StatusNotFound, "NOT_FOUND"},
		{"missing query", http.MethodGet, "/walks", nil, http.StatusBadRequest, "INVALID_INPUT"},
		{"bad limit", http.MethodGet, "/leaderboard/users?limit=-1", nil, http.StatusBadRequest, "INVALID_INPUT"},
		{"unknown team board", http.MethodGet, "/leaderboard/users?team_id=nope", nil, http.StatusNotFound, "NOT_FOUND"},
		{"bad invite token", http.MethodPost, "/invites/accept", map[string]string{"token": "garbage", "user_id": "bob"}, http.StatusBadRequest, "INVALID_INVITE"},
		{"challenge not joined", http.MethodPost, "/challenges/complete", map[string]string{"user_id": "alice", "challenge_id": "daily_5000"}, http.StatusConflict, "NOT_ELIGIBLE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.code, errorCode(t, rec))
		})
	}
}

func TestApp_InviteAndChallengeFlow(t *testing.T) {
	h := newTestApp(t)

	rec := do(t, h, http.MethodPost, "/users", map[string]string{"user_id": "alice"})
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = do(t, h, http.MethodPost, "/challenges/join", map[string]string{"user_id": "alice", "challenge_id": "daily_5000"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodPost, "/invites", map[string]string{"inviter_id": "alice", "friend_email": "Bob@Example.com"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var invite struct {
		Token       string `json:"token"`
		BonusPoints int    `json:"bonus_points"`
	}
	decode(t, rec, &invite)
	require.NotEmpty(t, invite.Token)
	assert.Equal(t, 50, invite.BonusPoints)

	rec = do(t, h, http.MethodPost, "/invites/accept", map[string]string{"token": invite.Token, "user_id": "bob", "display_name": "Bob"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, h, http.MethodPost, "/walks", map[string]any{"user_id": "alice", "duration_minutes": 30, "steps": 6000})
	require.Equal(t, http.StatusCreated, rec.Code)
	var walk walkResponse
	decode(t, rec, &walk)
	assert.Equal(t, 30+50+50, walk.TotalPoints, "walk, invite bonus and daily step reward")

	rec = do(t, h, http.MethodGet, "/challenges?user_id=alice", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list handler.ChallengesResponse
	decode(t, rec, &list)
	for _, ch := range list.Challenges {
		if ch.ID == "daily_5000" {
			assert.True(t, ch.Joined)
			assert.True(t, ch.Completed)
		}
	}

	rec = do(t, h, http.MethodPost, "/routes", map[string]any{"user_id": "alice", "name": "Lake Loop", "neighborhood": "North Shore"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var route handler.RouteResponse
	decode(t, rec, &route)
	assert.Equal(t, "north-shore", route.Route.Slug)

	rec = do(t, h, http.MethodPost, "/routes/delete", map[string]string{"user_id": "alice", "route_id": route.Route.RouteID})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func entryIDs(entries []domain.LeaderboardEntry) []string {
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.ID)
	}
	return ids
}
