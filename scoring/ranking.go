package scoring

import (
	"cmp"
	"math"
	"slices"

	"github.com/Dosada05/callclub/models"
)

// Scope narrows a ranking to a championship and optionally to one round.
// There is no league field: a league ranking is the league's championship
// scope ranked over the league members, counting every prediction those
// members made in it.
type Scope struct {
	ChampionshipID string
	Round          int // 0 ranks every round
}

func (s Scope) includes(m *models.Match) bool {
	if m == nil || m.ChampionshipID != s.ChampionshipID {
		return false
	}
	return s.Round == 0 || m.RoundNumber == s.Round
}

// Rank builds the ordered leaderboard for scope. Every username in members
// gets exactly one entry, predictors or not. Only predictions on finished
// matches whose points were already computed contribute.
func Rank(predictions []*models.Prediction, matches []*models.Match, members []string, scope Scope) []models.RankingEntry {
	byMatch := make(map[string]*models.Match, len(matches))
	for _, m := range matches {
		if scope.includes(m) {
			byMatch[m.ID] = m
		}
	}

	stats := make(map[string]*models.RankingEntry, len(members))
	order := make([]string, 0, len(members))
	for _, username := range members {
		if _, seen := stats[username]; seen {
			continue
		}
		stats[username] = &models.RankingEntry{Username: username}
		order = append(order, username)
	}

	for _, p := range predictions {
		if p == nil || p.Points == nil {
			continue
		}
		entry, ok := stats[p.Username]
		if !ok {
			continue
		}
		m, ok := byMatch[p.MatchID]
		if !ok || !m.IsFinished {
			continue
		}

		entry.TotalPredictions++
		entry.TotalPoints += *p.Points

		if m.HomeScore == nil || m.AwayScore == nil {
			continue
		}
		r := Evaluate(p.HomePrediction, p.AwayPrediction, *m.HomeScore, *m.AwayScore)
		if r.CorrectOutcome {
			entry.CorrectResults++
		}
		if r.CorrectHome {
			entry.CorrectHomeGoals++
		}
		if r.CorrectAway {
			entry.CorrectAwayGoals++
		}
		if r.Exact() {
			entry.ExactScores++
		}
	}

	ranking := make([]models.RankingEntry, 0, len(order))
	for _, username := range order {
		entry := stats[username]
		entry.Efficiency = Efficiency(entry.TotalPoints, entry.TotalPredictions)
		ranking = append(ranking, *entry)
	}

	slices.SortFunc(ranking, compareEntries)
	for i := range ranking {
		ranking[i].Position = i + 1
	}
	return ranking
}

// compareEntries orders by points, exact scores and correct results, all
// descending, then by username so equal stats never tie.
func compareEntries(a, b models.RankingEntry) int {
	if c := cmp.Compare(b.TotalPoints, a.TotalPoints); c != 0 {
		return c
	}
	if c := cmp.Compare(b.ExactScores, a.ExactScores); c != 0 {
		return c
	}
	if c := cmp.Compare(b.CorrectResults, a.CorrectResults); c != 0 {
		return c
	}
	return cmp.Compare(a.Username, b.Username)
}

// Efficiency is the share of the maximum possible points, as a percentage
// rounded to one decimal. Zero evaluated predictions give 0.
func Efficiency(points, evaluated int) float64 {
	if evaluated <= 0 {
		return 0
	}
	pct := float64(points) / float64(evaluated*MaxPoints) * 100
	return math.Round(pct*10) / 10
}
