package handler

import (
	"net/http"

	"github.com/aidar/walking-buddies/internal/domain"
	"github.com/aidar/walking-buddies/internal/service"
)

// RouteHandler обрабатывает эндпоинты маршрутов
type RouteHandler struct {
	routeService *service.RouteService
}

// NewRouteHandler создает новый RouteHandler
func NewRouteHandler(routeService *service.RouteService) *RouteHandler {
	return &RouteHandler{
		routeService: routeService,
	}
}

// DeleteRouteRequest представляет тело запроса на удаление маршрута
type DeleteRouteRequest struct {
	UserID  string `json:"user_id"`
	RouteID string `json:"route_id"`
}

// RouteResponse представляет ответ с маршрутом
type RouteResponse struct {
	Route *domain.Route `json:"route"`
}

// ListRoutesResponse представляет маршруты пользователя
type ListRoutesResponse struct {
	UserID string         `json:"user_id"`
	Routes []domain.Route `json:"routes"`
}

// Create обрабатывает POST /routes
func (h *RouteHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.RouteInput
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.UserID == "" || req.Name == "" {
		respondBadRequest(w, r, "user_id and name are required")
		return
	}

	route, err := h.routeService.Create(r.Context(), req)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusCreated, RouteResponse{Route: route})
}

// List обрабатывает GET /routes?user_id=...
func (h *RouteHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireQuery(w, r, "user_id")
	if !ok {
		return
	}

	routes, err := h.routeService.List(r.Context(), userID)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, ListRoutesResponse{UserID: userID, Routes: routes})
}

// Delete обрабатывает POST /routes/delete
func (h *RouteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var req DeleteRouteRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.UserID == "" || req.RouteID == "" {
		respondBadRequest(w, r, "user_id and route_id are required")
		return
	}

	if err := h.routeService.Delete(r.Context(), req.UserID, req.RouteID); err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, map[string]string{"status": "deleted"})
}
