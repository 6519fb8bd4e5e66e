// Package leaderboard ranks users and teams by accumulated points.
//
// Ordering is points descending, then the earliest moment the current total was
// reached, then identifier ascending. Empty input yields an empty, non-nil slice.
package leaderboard

import (
	"sort"
	"time"

	"github.com/aidar/walking-buddies/internal/domain"
)

type ranked struct {
	entry     domain.LeaderboardEntry
	reachedAt time.Time
}

// RankUsers orders user standings into a leaderboard.
func RankUsers(standings []domain.Standing) []domain.LeaderboardEntry {
	rows := make([]ranked, 0, len(standings))
	for _, s := range standings {
		rows = append(rows, ranked{
			entry: domain.LeaderboardEntry{
				ID:     s.UserID,
				Name:   displayName(s),
				TeamID: s.TeamID,
				Points: s.Points,
				Streak: s.Streak,
				Tier:   domain.TierFor(s.Points),
			},
			reachedAt: s.ReachedAt,
		})
	}
	return finalize(rows)
}

// RankTeamMembers ranks only the standings belonging to teamID.
func RankTeamMembers(standings []domain.Standing, teamID string) []domain.LeaderboardEntry {
	members := make([]domain.Standing, 0)
	for _, s := range standings {
		if s.TeamID == teamID {
			members = append(members, s)
		}
	}
	return RankUsers(members)
}

// RankTeams sums member standings per team. Teams without members are left out.
func RankTeams(teams []domain.Team, standings []domain.Standing) []domain.LeaderboardEntry {
	byTeam := make(map[string][]domain.Standing)
	for _, s := range standings {
		if s.TeamID == "" {
			continue
		}
		byTeam[s.TeamID] = append(byTeam[s.TeamID], s)
	}

	rows := make([]ranked, 0, len(teams))
	for _, t := range teams {
		members := byTeam[t.TeamID]
		if len(members) == 0 {
			continue
		}
		points, reachedAt := 0, time.Time{}
		for _, m := range members {
			points += m.Points
			if m.ReachedAt.After(reachedAt) {
				reachedAt = m.ReachedAt
			}
		}
		name := t.Name
		if name == "" {
			name = t.TeamID
		}
		rows = append(rows, ranked{
			entry: domain.LeaderboardEntry{
				ID:     t.TeamID,
				Name:   name,
				Points: points,
			},
			reachedAt: reachedAt,
		})
	}
	return finalize(rows)
}

// TeamPoints returns the summed points of every team that has members.
func TeamPoints(standings []domain.Standing) map[string]int {
	totals := make(map[string]int)
	for _, s := range standings {
		if s.TeamID != "" {
			totals[s.TeamID] += s.Points
		}
	}
	return totals
}

// Top returns at most n entries; n <= 0 means all.
func Top(entries []domain.LeaderboardEntry, n int) []domain.LeaderboardEntry {
	if n <= 0 || n >= len(entries) {
		return entries
	}
	return entries[:n]
}

func finalize(rows []ranked) []domain.LeaderboardEntry {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.entry.Points != b.entry.Points {
			return a.entry.Points > b.entry.Points
		}
		if !a.reachedAt.Equal(b.reachedAt) {
			return a.reachedAt.Before(b.reachedAt)
		}
		return a.entry.ID < b.entry.ID
	})

	out := make([]domain.LeaderboardEntry, len(rows))
	for i, r := range rows {
		r.entry.Rank = i + 1
		out[i] = r.entry
	}
	return out
}

func displayName(s domain.Standing) string {
	if s.DisplayName != "" {
		return s.DisplayName
	}
	return s.UserID
}
