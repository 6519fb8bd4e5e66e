package domain

import "time"

// Team представляет группу пользователей (команду)
type Team struct {
	TeamID    string       `json:"team_id"`
	Name      string       `json:"name"`
	CaptainID string       `json:"captain_id"`
	Members   []TeamMember `json:"members"`
	Points    int          `json:"points"`
	CreatedAt time.Time    `json:"created_at"`
}

// TeamMember представляет пользователя в составе команды (используется в Team.Members)
type TeamMember struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	Points      int    `json:"points"`
	Streak      int    `json:"streak"`
}
