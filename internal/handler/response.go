package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/render"
)

// RespondWithJSON отправляет JSON ответ с указанным статус кодом
func RespondWithJSON(w http.ResponseWriter, r *http.Request, statusCode int, data interface{}) {
	render.Status(r, statusCode)
	render.JSON(w, r, data)
}

// decodeJSON читает тело запроса; при ошибке отвечает 400 и возвращает false
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondBadRequest(w, r, "invalid request body")
		return false
	}
	return true
}

// requireQuery возвращает обязательный query параметр; при отсутствии отвечает 400
func requireQuery(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	value := r.URL.Query().Get(name)
	if value == "" {
		respondBadRequest(w, r, name+" query parameter is required")
		return "", false
	}
	return value, true
}
