package handler

import (
	"context"
	"net/http"

	"github.com/aidar/walking-buddies/internal/domain"
	"github.com/aidar/walking-buddies/internal/service"
)

// ChallengeHandler обрабатывает эндпоинты челленджей
type ChallengeHandler struct {
	challengeService *service.ChallengeService
}

// NewChallengeHandler создает новый ChallengeHandler
func NewChallengeHandler(challengeService *service.ChallengeService) *ChallengeHandler {
	return &ChallengeHandler{
		challengeService: challengeService,
	}
}

// ChallengeRequest представляет тело запросов жизненного цикла челленджа
type ChallengeRequest struct {
	UserID      string `json:"user_id"`
	ChallengeID string `json:"challenge_id"`
}

// ChallengesResponse представляет каталог с прогрессом пользователя
type ChallengesResponse struct {
	UserID     string                   `json:"user_id"`
	Challenges []domain.ChallengeStatus `json:"challenges"`
}

// ChallengeResponse представляет один челлендж с прогрессом
type ChallengeResponse struct {
	Challenge *domain.ChallengeStatus `json:"challenge"`
}

// List обрабатывает GET /challenges?user_id=...
func (h *ChallengeHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireQuery(w, r, "user_id")
	if !ok {
		return
	}

	statuses, err := h.challengeService.Status(r.Context(), userID)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, ChallengesResponse{UserID: userID, Challenges: statuses})
}

// Join обрабатывает POST /challenges/join
func (h *ChallengeHandler) Join(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, h.challengeService.Join)
}

// Leave обрабатывает POST /challenges/leave
func (h *ChallengeHandler) Leave(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, h.challengeService.Leave)
}

// Complete обрабатывает POST /challenges/complete
func (h *ChallengeHandler) Complete(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, h.challengeService.Complete)
}

func (h *ChallengeHandler) handle(
	w http.ResponseWriter,
	r *http.Request,
	op func(ctx context.Context, userID, challengeID string) (*domain.ChallengeStatus, error),
) {
	var req ChallengeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.UserID == "" || req.ChallengeID == "" {
		respondBadRequest(w, r, "user_id and challenge_id are required")
		return
	}

	status, err := op(r.Context(), req.UserID, req.ChallengeID)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, ChallengeResponse{Challenge: status})
}
