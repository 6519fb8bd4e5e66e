package domain

import (
	"fmt"
	"time"
)

// ChallengeKind определяет способ подсчета прогресса челленджа
type ChallengeKind string

// Виды челленджей
const (
	KindDailySteps          ChallengeKind = "daily_steps"
	KindDistancePeriod      ChallengeKind = "distance_period"
	KindPhotoWeekly         ChallengeKind = "boolean_weekly"
	KindInvitesMonthly      ChallengeKind = "count_monthly"
	KindTeamDistanceWeekly  ChallengeKind = "team_distance_weekly"
	KindTeamEachMemberWeek  ChallengeKind = "team_each_member_distance_weekly"
	KindDistinctRoutesMonth ChallengeKind = "distinct_routes_monthly"
)

// ChallengePeriod определяет окно, в котором челлендж может быть выполнен один раз
type ChallengePeriod string

// Периоды челленджей
const (
	PeriodDaily   ChallengePeriod = "daily"
	PeriodWeekly  ChallengePeriod = "weekly"
	PeriodWeekend ChallengePeriod = "weekend"
	PeriodMonthly ChallengePeriod = "monthly"
)

// Challenge представляет запись каталога челленджей
type Challenge struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Kind         ChallengeKind   `json:"kind"`
	Period       ChallengePeriod `json:"period"`
	Target       float64         `json:"target"`
	RewardPoints int             `json:"reward_points"`
}

// ChallengeStatus представляет челлендж с прогрессом пользователя в текущем периоде
type ChallengeStatus struct {
	Challenge
	Joined    bool    `json:"joined"`
	Completed bool    `json:"completed"`
	Progress  float64 `json:"progress"`
	Ratio     float64 `json:"ratio"` // Доля выполнения в диапазоне [0, 1]
	PeriodKey string  `json:"period_key"`
}

// DefaultChallenges каталог челленджей по умолчанию
var DefaultChallenges = []Challenge{
	{
		ID: "daily_5000", Name: "Daily Step Goal",
		Description: "Hit 5,000 steps today for bonus points",
		Kind:        KindDailySteps, Period: PeriodDaily, Target: 5000, RewardPoints: 50,
	},
	{
		ID: "weekend_walkathon", Name: "Weekend Walkathon",
		Description: "Walk 10 miles over the weekend (Sat-Sun)",
		Kind:        KindDistancePeriod, Period: PeriodWeekend, Target: 10, RewardPoints: 150,
	},
	{
		ID: "photo_share", Name: "Photo Challenge",
		Description: "Share a scenic walk photo this week",
		Kind:        KindPhotoWeekly, Period: PeriodWeekly, Target: 1, RewardPoints: 20,
	},
	{
		ID: "invite_3", Name: "Invite Challenge",
		Description: "Invite 3 friends into the app this month",
		Kind:        KindInvitesMonthly, Period: PeriodMonthly, Target: 3, RewardPoints: 100,
	},
	{
		ID: "team_100_miles", Name: "Team Mileage Goal",
		Description: "Teams aim for 100 miles combined in a week",
		Kind:        KindTeamDistanceWeekly, Period: PeriodWeekly, Target: 100, RewardPoints: 300,
	},
	{
		ID: "relay_pass_baton", Name: "Relay Challenge",
		Description: "Each member walks 2 miles this week to pass the baton",
		Kind:        KindTeamEachMemberWeek, Period: PeriodWeekly, Target: 2, RewardPoints: 200,
	},
	{
		ID: "city_explorer", Name: "City Explorer",
		Description: "Complete walks in 5 different neighborhoods this month",
		Kind:        KindDistinctRoutesMonth, Period: PeriodMonthly, Target: 5, RewardPoints: 120,
	},
}

// PeriodWindow возвращает границы периода [start, end), содержащего t, и его ключ
func (p ChallengePeriod) PeriodWindow(t time.Time) (start, end time.Time, key string) {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	switch p {
	case PeriodDaily:
		return day, day.AddDate(0, 0, 1), day.Format("2006-01-02")
	case PeriodWeekly:
		offset := (int(day.Weekday()) + 6) % 7 // понедельник = 0
		start = day.AddDate(0, 0, -offset)
		year, week := day.ISOWeek()
		return start, start.AddDate(0, 0, 7), fmt.Sprintf("%d-W%02d", year, week)
	case PeriodWeekend:
		// Выходные определяются субботой: до субботы включительно берем ближайшую, в воскресенье прошедшую
		var saturday time.Time
		if day.Weekday() == time.Sunday {
			saturday = day.AddDate(0, 0, -1)
		} else {
			saturday = day.AddDate(0, 0, int(time.Saturday-day.Weekday()))
		}
		return saturday, saturday.AddDate(0, 0, 2), "weekend-" + saturday.Format("2006-01-02")
	case PeriodMonthly:
		start = time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
		return start, start.AddDate(0, 1, 0), start.Format("2006-01")
	default:
		return time.Time{}, time.Date(9999, 1, 1, 0, 0, 0, 0, t.Location()), "alltime"
	}
}
