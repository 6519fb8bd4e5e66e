package domain

import "errors"

// Доменные ошибки сервиса
var (
	// ErrInvalidInput возвращается при некорректных данных (длительность, время прогулки и т.д.)
	ErrInvalidInput = errors.New("invalid input")

	// ErrUserExists возвращается при попытке зарегистрировать существующего пользователя
	ErrUserExists = errors.New("user already exists")

	// ErrTeamExists возвращается при попытке создать уже существующую команду
	ErrTeamExists = errors.New("team already exists")

	// ErrNotFound возвращается когда ресурс не найден
	ErrNotFound = errors.New("resource not found")

	// ErrUserNotFound возвращается когда пользователь не найден
	ErrUserNotFound = errors.New("user not found")

	// ErrTeamNotFound возвращается когда команда не найдена
	ErrTeamNotFound = errors.New("team not found")

	// ErrChallengeNotFound возвращается когда челлендж отсутствует в каталоге
	ErrChallengeNotFound = errors.New("challenge not found")

	// ErrRouteNotFound возвращается когда маршрут не найден
	ErrRouteNotFound = errors.New("route not found")

	// ErrInvalidInvite возвращается когда токен приглашения невалиден или истек
	ErrInvalidInvite = errors.New("invalid invite")

	// ErrNotEligible возвращается когда условия челленджа еще не выполнены
	ErrNotEligible = errors.New("challenge requirements not met")
)

// ErrorCode представляет коды ошибок API
type ErrorCode string

// Коды ошибок API
const (
	CodeInvalidInput  ErrorCode = "INVALID_INPUT"  // Некорректные входные данные
	CodeUserExists    ErrorCode = "USER_EXISTS"    // Пользователь уже существует
	CodeTeamExists    ErrorCode = "TEAM_EXISTS"    // Команда уже существует
	CodeNotFound      ErrorCode = "NOT_FOUND"      // Ресурс не найден
	CodeInvalidInvite ErrorCode = "INVALID_INVITE" // Невалидное приглашение
	CodeNotEligible   ErrorCode = "NOT_ELIGIBLE"   // Условия челленджа не выполнены
	CodeInternal      ErrorCode = "INTERNAL_ERROR" // Внутренняя ошибка
)

// MapErrorToCode преобразует доменные ошибки в коды ошибок API
func MapErrorToCode(err error) ErrorCode {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return CodeInvalidInput
	case errors.Is(err, ErrUserExists):
		return CodeUserExists
	case errors.Is(err, ErrTeamExists):
		return CodeTeamExists
	case errors.Is(err, ErrInvalidInvite):
		return CodeInvalidInvite
	case errors.Is(err, ErrNotEligible):
		return CodeNotEligible
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrUserNotFound),
		errors.Is(err, ErrTeamNotFound), errors.Is(err, ErrChallengeNotFound),
		errors.Is(err, ErrRouteNotFound):
		return CodeNotFound
	default:
		return CodeInternal
	}
}
