package domain

import "time"

// WalkEntry представляет запись о прогулке. После создания не изменяется
type WalkEntry struct {
	WalkID          string    `json:"walk_id"`
	UserID          string    `json:"user_id"`
	DurationMinutes float64   `json:"duration_minutes"`
	Steps           int       `json:"steps"`
	DistanceMiles   float64   `json:"distance_miles"`
	WalkedAt        time.Time `json:"walked_at"`
	GroupWalk       bool      `json:"group_walk"`
	PhotoAttached   bool      `json:"photo_attached"`
	InvitedFriend   bool      `json:"invited_friend"`
	Points          int       `json:"points"`
	Streak          int       `json:"streak"` // Серия после этой прогулки
	CreatedAt       time.Time `json:"created_at"`
}

// PointsBreakdown раскладывает начисленные очки по правилам
type PointsBreakdown struct {
	Base        int `json:"base"`
	StreakBonus int `json:"streak_bonus"`
	GroupBonus  int `json:"group_bonus"`
	PhotoBonus  int `json:"photo_bonus"`
	InviteBonus int `json:"invite_bonus"`
}

// Total возвращает сумму всех слагаемых
func (b PointsBreakdown) Total() int {
	return b.Base + b.StreakBonus + b.GroupBonus + b.PhotoBonus + b.InviteBonus
}

// Reward представляет бонусное начисление вне прогулок (приглашения, челленджи)
type Reward struct {
	RewardID  string    `json:"reward_id"`
	UserID    string    `json:"user_id"`
	Source    string    `json:"source"`
	Points    int       `json:"points"`
	AwardedAt time.Time `json:"awarded_at"`
}

// Источники бонусов
const (
	RewardSourceInvite          = "invite"
	RewardSourceChallengePrefix = "challenge:"
)
