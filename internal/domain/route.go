package domain

import "time"

// Route представляет сохраненный маршрут пользователя
type Route struct {
	RouteID    string    `json:"route_id"`
	UserID     string    `json:"user_id"`
	Name       string    `json:"name"`
	Slug       string    `json:"slug"` // Тег района для челленджа City Explorer
	DistanceKM float64   `json:"distance_km"`
	Notes      string    `json:"notes"`
	CreatedAt  time.Time `json:"created_at"`
}
