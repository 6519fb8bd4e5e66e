package handler

import (
	"net/http"

	"github.com/aidar/walking-buddies/internal/domain"
	"github.com/aidar/walking-buddies/internal/service"
)

// UserHandler обрабатывает эндпоинты пользователей
type UserHandler struct {
	userService *service.UserService
}

// NewUserHandler создает новый UserHandler
func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// RegisterRequest представляет тело запроса регистрации
type RegisterRequest struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
}

// UserResponse представляет ответ с пользователем
type UserResponse struct {
	User *domain.User `json:"user"`
}

// Register обрабатывает POST /users
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.UserID == "" {
		respondBadRequest(w, r, "user_id is required")
		return
	}

	user, err := h.userService.Register(r.Context(), req.UserID, req.DisplayName)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusCreated, UserResponse{User: user})
}

// GetProfile обрабатывает GET /users/get?user_id=...
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireQuery(w, r, "user_id")
	if !ok {
		return
	}

	profile, err := h.userService.GetProfile(r.Context(), userID)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, profile)
}

// Rename обрабатывает POST /users/rename
func (h *UserHandler) Rename(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.UserID == "" {
		respondBadRequest(w, r, "user_id is required")
		return
	}

	user, err := h.userService.Rename(r.Context(), req.UserID, req.DisplayName)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, UserResponse{User: user})
}
