package handler

import (
	"net/http"

	"github.com/aidar/walking-buddies/internal/domain"
	"github.com/aidar/walking-buddies/internal/service"
)

// WalkHandler обрабатывает эндпоинты прогулок
type WalkHandler struct {
	walkService *service.WalkService
}

// NewWalkHandler создает новый WalkHandler
func NewWalkHandler(walkService *service.WalkService) *WalkHandler {
	return &WalkHandler{
		walkService: walkService,
	}
}

// ListWalksResponse представляет журнал прогулок пользователя
type ListWalksResponse struct {
	UserID string             `json:"user_id"`
	Walks  []domain.WalkEntry `json:"walks"`
}

// Submit обрабатывает POST /walks
func (h *WalkHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req service.WalkInput
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.UserID == "" {
		respondBadRequest(w, r, "user_id is required")
		return
	}

	result, err := h.walkService.Submit(r.Context(), req)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusCreated, result)
}

// List обрабатывает GET /walks?user_id=...
func (h *WalkHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireQuery(w, r, "user_id")
	if !ok {
		return
	}

	walks, err := h.walkService.List(r.Context(), userID)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, ListWalksResponse{UserID: userID, Walks: walks})
}
