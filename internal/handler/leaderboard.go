package handler

import (
	"net/http"
	"strconv"

	"github.com/aidar/walking-buddies/internal/domain"
	"github.com/aidar/walking-buddies/internal/leaderboard"
	"github.com/aidar/walking-buddies/internal/service"
)

// LeaderboardHandler обрабатывает эндпоинты лидербордов
type LeaderboardHandler struct {
	leaderboardService *service.LeaderboardService
}

// NewLeaderboardHandler создает новый LeaderboardHandler
func NewLeaderboardHandler(leaderboardService *service.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{
		leaderboardService: leaderboardService,
	}
}

// LeaderboardResponse представляет лидерборд
type LeaderboardResponse struct {
	Scope   domain.LeaderboardScope   `json:"scope"`
	TeamID  string                    `json:"team_id,omitempty"`
	Entries []domain.LeaderboardEntry `json:"entries"`
}

// Users обрабатывает GET /leaderboard/users?team_id=...&limit=...
func (h *LeaderboardHandler) Users(w http.ResponseWriter, r *http.Request) {
	limit, ok := parseLimit(w, r)
	if !ok {
		return
	}

	teamID := r.URL.Query().Get("team_id")
	entries, err := h.leaderboardService.Users(r.Context(), teamID)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	scope := domain.ScopeGlobal
	if teamID != "" {
		scope = domain.ScopeTeam
	}

	RespondWithJSON(w, r, http.StatusOK, LeaderboardResponse{
		Scope:   scope,
		TeamID:  teamID,
		Entries: leaderboard.Top(entries, limit),
	})
}

// Teams обрабатывает GET /leaderboard/teams?limit=...
func (h *LeaderboardHandler) Teams(w http.ResponseWriter, r *http.Request) {
	limit, ok := parseLimit(w, r)
	if !ok {
		return
	}

	entries, err := h.leaderboardService.Teams(r.Context())
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, LeaderboardResponse{
		Scope:   domain.ScopeTeams,
		Entries: leaderboard.Top(entries, limit),
	})
}

// parseLimit читает необязательный параметр limit (0 означает без ограничения)
func parseLimit(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		respondBadRequest(w, r, "limit must be a non-negative integer")
		return 0, false
	}
	return limit, true
}
