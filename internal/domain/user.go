package domain

import "time"

// User представляет участника (ходока). Очки не хранятся, а вычисляются из журнала
type User struct {
	UserID      string     `json:"user_id"`
	DisplayName string     `json:"display_name"`
	TeamID      string     `json:"team_id,omitempty"`
	Streak      int        `json:"streak"`
	LastWalkAt  *time.Time `json:"last_walk_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// StreakState возвращает текущее состояние серии пользователя
func (u *User) StreakState() StreakState {
	state := StreakState{Streak: u.Streak}
	if u.LastWalkAt != nil {
		state.LastWalkAt = *u.LastWalkAt
	}
	return state
}

// ApplyStreak записывает новое состояние серии в пользователя
func (u *User) ApplyStreak(state StreakState) {
	u.Streak = state.Streak
	if state.LastWalkAt.IsZero() {
		u.LastWalkAt = nil
		return
	}
	last := state.LastWalkAt
	u.LastWalkAt = &last
}

// StreakState описывает серию пользователя на момент записи прогулки
type StreakState struct {
	Streak     int       `json:"streak"`
	LastWalkAt time.Time `json:"last_walk_at"`
}

// StreakState возвращает состояние серии для агрегата
func (s *Standing) StreakState() StreakState {
	state := StreakState{Streak: s.Streak}
	if s.LastWalkAt != nil {
		state.LastWalkAt = *s.LastWalkAt
	}
	return state
}

// Profile представляет пользователя с производными агрегатами (всегда с дефолтами)
type Profile struct {
	User
	Points int  `json:"points"`
	Tier   Tier `json:"tier"`
}

// Standing содержит агрегированные очки пользователя для лидерборда
type Standing struct {
	UserID      string     `json:"user_id"`
	DisplayName string     `json:"display_name"`
	TeamID      string     `json:"team_id,omitempty"`
	Points      int        `json:"points"`
	Streak      int        `json:"streak"`
	LastWalkAt  *time.Time `json:"-"`
	ReachedAt   time.Time  `json:"reached_at"` // Момент, когда была набрана текущая сумма
}
