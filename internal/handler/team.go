package handler

import (
	"net/http"

	"github.com/aidar/walking-buddies/internal/domain"
	"github.com/aidar/walking-buddies/internal/service"
)

// TeamHandler обрабатывает эндпоинты команд
type TeamHandler struct {
	teamService *service.TeamService
}

// NewTeamHandler создает новый TeamHandler
func NewTeamHandler(teamService *service.TeamService) *TeamHandler {
	return &TeamHandler{
		teamService: teamService,
	}
}

// AddTeamRequest представляет тело запроса на создание команды
type AddTeamRequest struct {
	Name      string `json:"name"`
	CaptainID string `json:"captain_id"`
}

// JoinTeamRequest представляет тело запроса на вступление в команду
type JoinTeamRequest struct {
	TeamID string `json:"team_id"`
	UserID string `json:"user_id"`
}

// TeamResponse представляет ответ с командой
type TeamResponse struct {
	Team *domain.Team `json:"team"`
}

// AddTeam обрабатывает POST /team/add
func (h *TeamHandler) AddTeam(w http.ResponseWriter, r *http.Request) {
	var req AddTeamRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	// Валидация запроса
	if req.Name == "" || req.CaptainID == "" {
		respondBadRequest(w, r, "name and captain_id are required")
		return
	}

	team, err := h.teamService.AddTeam(r.Context(), req.Name, req.CaptainID)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusCreated, TeamResponse{Team: team})
}

// Join обрабатывает POST /team/join
func (h *TeamHandler) Join(w http.ResponseWriter, r *http.Request) {
	var req JoinTeamRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.TeamID == "" || req.UserID == "" {
		respondBadRequest(w, r, "team_id and user_id are required")
		return
	}

	team, err := h.teamService.Join(r.Context(), req.TeamID, req.UserID)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, TeamResponse{Team: team})
}

// GetTeam обрабатывает GET /team/get?team_id=...
func (h *TeamHandler) GetTeam(w http.ResponseWriter, r *http.Request) {
	teamID, ok := requireQuery(w, r, "team_id")
	if !ok {
		return
	}

	team, err := h.teamService.GetTeam(r.Context(), teamID)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, team)
}
