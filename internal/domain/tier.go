package domain

// Tier представляет уровень пользователя по накопленным очкам
type Tier string

// Уровни пользователей
const (
	TierPlatinum Tier = "Platinum"
	TierGold     Tier = "Gold"
	TierSilver   Tier = "Silver"
	TierBronze   Tier = "Bronze"
)

// TierThreshold связывает уровень с минимальным числом очков
type TierThreshold struct {
	Tier      Tier
	MinPoints int
}

// Tiers упорядочены по убыванию порога
var Tiers = []TierThreshold{
	{Tier: TierPlatinum, MinPoints: 5000},
	{Tier: TierGold, MinPoints: 1000},
	{Tier: TierSilver, MinPoints: 500},
	{Tier: TierBronze, MinPoints: 0},
}

// TierFor возвращает уровень для заданного числа очков
func TierFor(points int) Tier {
	for _, t := range Tiers {
		if points >= t.MinPoints {
			return t.Tier
		}
	}
	return TierBronze
}
