// Package events publishes domain events about walks and rewards.
package events

import (
	"context"
	"time"
)

// Типы событий
const (
	TypeWalkLogged     = "walk.logged"
	TypeRewardGranted  = "reward.granted"
	TypeUserRegistered = "user.registered"
)

// Event представляет доменное событие для внешних потребителей
type Event struct {
	Type       string    `json:"type"`
	Key        string    `json:"key"` // Ключ партиционирования (обычно user_id)
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload"`
}

// Publisher отправляет события
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// NopPublisher отбрасывает события, когда брокеры не настроены
type NopPublisher struct{}

// Publish ничего не делает
func (NopPublisher) Publish(context.Context, Event) error { return nil }

// Close ничего не делает
func (NopPublisher) Close() error { return nil }
