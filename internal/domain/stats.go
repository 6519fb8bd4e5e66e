package domain

// Stats содержит общие показатели сервиса
type Stats struct {
	TotalUsers  int `json:"total_users"`
	TotalTeams  int `json:"total_teams"`
	TotalWalks  int `json:"total_walks"`
	TotalPoints int `json:"total_points"`
	TotalSteps  int `json:"total_steps"`
}
