package handler

import (
	"net/http"

	"github.com/aidar/walking-buddies/internal/service"
)

// InviteHandler обрабатывает эндпоинты приглашений
type InviteHandler struct {
	inviteService *service.InviteService
}

// NewInviteHandler создает новый InviteHandler
func NewInviteHandler(inviteService *service.InviteService) *InviteHandler {
	return &InviteHandler{
		inviteService: inviteService,
	}
}

// CreateInviteRequest представляет тело запроса на приглашение друга
type CreateInviteRequest struct {
	InviterID   string `json:"inviter_id"`
	FriendEmail string `json:"friend_email"`
}

// AcceptInviteRequest представляет тело запроса на принятие приглашения
type AcceptInviteRequest struct {
	Token       string `json:"token"`
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
}

// Create обрабатывает POST /invites
func (h *InviteHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateInviteRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.InviterID == "" || req.FriendEmail == "" {
		respondBadRequest(w, r, "inviter_id and friend_email are required")
		return
	}

	result, err := h.inviteService.CreateInvite(r.Context(), req.InviterID, req.FriendEmail)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusCreated, result)
}

// Accept обрабатывает POST /invites/accept
func (h *InviteHandler) Accept(w http.ResponseWriter, r *http.Request) {
	var req AcceptInviteRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.Token == "" || req.UserID == "" {
		respondBadRequest(w, r, "token and user_id are required")
		return
	}

	user, err := h.inviteService.Accept(r.Context(), req.Token, req.UserID, req.DisplayName)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusCreated, UserResponse{User: user})
}
