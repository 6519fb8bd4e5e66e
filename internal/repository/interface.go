package repository

import (
	"context"
	"time"

	"github.com/aidar/walking-buddies/internal/domain"
)

// UserRepository определяет методы для работы с данными пользователей
type UserRepository interface {
	// Create регистрирует нового пользователя
	Create(ctx context.Context, user *domain.User) error

	// GetByID получает пользователя по ID
	GetByID(ctx context.Context, userID string) (*domain.User, error)

	// Rename обновляет отображаемое имя пользователя
	Rename(ctx context.Context, userID, displayName string) error

	// SetTeam привязывает пользователя к команде
	SetTeam(ctx context.Context, userID, teamID string) error

	// ListByTeam возвращает всех пользователей команды
	ListByTeam(ctx context.Context, teamID string) ([]*domain.User, error)
}

// TeamRepository определяет методы для работы с данными команд
type TeamRepository interface {
	// Create создает новую команду и переводит в нее капитана в одной операции
	Create(ctx context.Context, team *domain.Team) error

	// GetByID получает команду (без участников)
	GetByID(ctx context.Context, teamID string) (*domain.Team, error)

	// List возвращает все команды
	List(ctx context.Context) ([]domain.Team, error)

	// Exists проверяет существование команды
	Exists(ctx context.Context, teamID string) (bool, error)
}

// ScoreFunc получает пользователя под блокировкой и возвращает прогулку для записи в журнал.
// Изменения серии должны быть применены к переданному пользователю
type ScoreFunc func(user *domain.User) (*domain.WalkEntry, error)

// WalkRepository определяет методы журнала прогулок (только добавление)
type WalkRepository interface {
	// Record атомарно читает состояние пользователя, вызывает score и сохраняет прогулку и новую серию
	Record(ctx context.Context, userID string, score ScoreFunc) (*domain.WalkEntry, *domain.User, error)

	// ListByUser возвращает прогулки пользователя в [from, to), новые первыми. Нулевые границы не ограничивают
	ListByUser(ctx context.Context, userID string, from, to time.Time) ([]domain.WalkEntry, error)
}

// RewardRepository определяет методы журнала бонусов
type RewardRepository interface {
	// Append добавляет бонус в журнал
	Append(ctx context.Context, reward *domain.Reward) error

	// ListByUser возвращает бонусы пользователя, новые первыми
	ListByUser(ctx context.Context, userID string) ([]domain.Reward, error)
}

// StandingRepository вычисляет агрегаты очков из журналов
type StandingRepository interface {
	// Standings возвращает агрегаты по всем пользователям
	Standings(ctx context.Context) ([]domain.Standing, error)

	// StandingByUser возвращает агрегат одного пользователя
	StandingByUser(ctx context.Context, userID string) (*domain.Standing, error)

	// Totals возвращает общие показатели сервиса
	Totals(ctx context.Context) (*domain.Stats, error)
}

// InviteRepository определяет методы для работы с приглашениями
type InviteRepository interface {
	// Create сохраняет приглашение и начисляет бонус пригласившему в одной операции
	Create(ctx context.Context, invite *domain.Invite, reward *domain.Reward) error

	// Redeem регистрирует приглашенного пользователя и помечает приглашение использованным в одной операции.
	// Повторное использование возвращает domain.ErrInvalidInvite
	Redeem(ctx context.Context, inviteID string, user *domain.User) error

	// CountByInviter считает приглашения пользователя в [from, to)
	CountByInviter(ctx context.Context, inviterID string, from, to time.Time) (int, error)
}

// ChallengeRepository определяет методы для работы с участием в челленджах
type ChallengeRepository interface {
	// SetJoined включает или выключает участие пользователя в челлендже
	SetJoined(ctx context.Context, userID, challengeID string, joined bool) error

	// Joined возвращает ID челленджей, в которых участвует пользователь
	Joined(ctx context.Context, userID string) (map[string]bool, error)

	// Complete фиксирует выполнение за период и начисляет бонус. Возвращает false если уже выполнено
	Complete(ctx context.Context, userID, challengeID, periodKey string, reward *domain.Reward) (bool, error)

	// IsCompleted проверяет выполнение челленджа за период
	IsCompleted(ctx context.Context, userID, challengeID, periodKey string) (bool, error)
}

// RouteRepository определяет методы для работы с маршрутами
type RouteRepository interface {
	// Create сохраняет маршрут
	Create(ctx context.Context, route *domain.Route) error

	// ListByUser возвращает маршруты пользователя, новые первыми
	ListByUser(ctx context.Context, userID string) ([]domain.Route, error)

	// Delete удаляет маршрут пользователя
	Delete(ctx context.Context, userID, routeID string) error

	// CountDistinctSlugs считает уникальные теги районов пользователя в [from, to)
	CountDistinctSlugs(ctx context.Context, userID string, from, to time.Time) (int, error)
}
