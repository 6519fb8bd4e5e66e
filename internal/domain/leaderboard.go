package domain

// LeaderboardScope определяет область лидерборда
type LeaderboardScope string

// Области лидерборда
const (
	ScopeGlobal LeaderboardScope = "global"
	ScopeTeam   LeaderboardScope = "team"
	ScopeTeams  LeaderboardScope = "teams" // Лидерборд команд
)

// LeaderboardEntry представляет позицию в лидерборде
type LeaderboardEntry struct {
	Rank   int    `json:"rank"`
	ID     string `json:"id"`
	Name   string `json:"name"`
	TeamID string `json:"team_id,omitempty"`
	Points int    `json:"points"`
	Streak int    `json:"streak"`
	Tier   Tier   `json:"tier,omitempty"`
}
