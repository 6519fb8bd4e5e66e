// Package memory хранит данные сервиса в памяти процесса.
// Все записи сериализуются одним мьютексом.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/aidar/walking-buddies/internal/domain"
)

type membership struct {
	userID      string
	challengeID string
}

type completion struct {
	userID      string
	challengeID string
	periodKey   string
}

// Store содержит все коллекции и общий мьютекс
type Store struct {
	mu sync.RWMutex

	users       map[string]*domain.User
	teams       map[string]*domain.Team
	walks       []domain.WalkEntry
	rewards     []domain.Reward
	invites     []domain.Invite
	routes      []domain.Route
	memberships map[membership]bool
	completions map[completion]time.Time
}

// NewStore создает пустое хранилище
func NewStore() *Store {
	return &Store{
		users:       make(map[string]*domain.User),
		teams:       make(map[string]*domain.Team),
		memberships: make(map[membership]bool),
		completions: make(map[completion]time.Time),
	}
}

// Users возвращает репозиторий пользователей
func (s *Store) Users() *UserRepository { return &UserRepository{s: s} }

// Teams возвращает репозиторий команд
func (s *Store) Teams() *TeamRepository { return &TeamRepository{s: s} }

// Walks возвращает журнал прогулок
func (s *Store) Walks() *WalkRepository { return &WalkRepository{s: s} }

// Rewards возвращает журнал бонусов
func (s *Store) Rewards() *RewardRepository { return &RewardRepository{s: s} }

// Standings возвращает агрегатор очков
func (s *Store) Standings() *StandingRepository { return &StandingRepository{s: s} }

// Invites возвращает репозиторий приглашений
func (s *Store) Invites() *InviteRepository { return &InviteRepository{s: s} }

// Challenges возвращает репозиторий участия в челленджах
func (s *Store) Challenges() *ChallengeRepository { return &ChallengeRepository{s: s} }

// Routes возвращает репозиторий маршрутов
func (s *Store) Routes() *RouteRepository { return &RouteRepository{s: s} }

// Ping всегда успешен; нужен для общего интерфейса проверки хранилища
func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

func inWindow(t, from, to time.Time) bool {
	if !from.IsZero() && t.Before(from) {
		return false
	}
	if !to.IsZero() && !t.Before(to) {
		return false
	}
	return true
}

func copyUser(u *domain.User) *domain.User {
	c := *u
	if u.LastWalkAt != nil {
		last := *u.LastWalkAt
		c.LastWalkAt = &last
	}
	return &c
}

func sortUsers(users []*domain.User) {
	sort.Slice(users, func(i, j int) bool { return users[i].UserID < users[j].UserID })
}
