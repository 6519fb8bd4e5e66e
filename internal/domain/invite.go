package domain

import "time"

// Invite представляет приглашение друга
type Invite struct {
	InviteID    string     `json:"invite_id"`
	InviterID   string     `json:"inviter_id"`
	FriendEmail string     `json:"friend_email"`
	CreatedAt   time.Time  `json:"created_at"`
	AcceptedBy  string     `json:"accepted_by,omitempty"` // Пользователь, зарегистрированный по приглашению
	AcceptedAt  *time.Time `json:"accepted_at,omitempty"`
}
