package stats

import (
	"math"
	"sort"
	"strings"

	"github.com/maxviazov/squad-manager-service/internal/model"
)

const (
	recentResults = 5
	topPerformers = 3
	benchPerGroup = 2
)

// BuildDashboard summarizes the squad: counts, win rate in percent, the last five results
// (newest first) and the three leading performers by goals, then assists.
func BuildDashboard(players []model.Player, matches []model.Match) model.Dashboard {
	d := model.Dashboard{
		TotalPlayers:  len(players),
		MatchesPlayed: len(matches),
		Recent:        []model.RecentResult{},
		TopPerformers: []model.Performer{},
	}
	for _, m := range matches {
		if Outcome(m.Score) == Win {
			d.Wins++
		}
	}
	if d.MatchesPlayed > 0 {
		d.WinRate = int(math.Round(float64(d.Wins) * 100 / float64(d.MatchesPlayed)))
	}

	sorted := sortedMatches(matches)
	for i := len(sorted) - 1; i >= 0 && len(d.Recent) < recentResults; i-- {
		m := sorted[i]
		d.Recent = append(d.Recent, model.RecentResult{
			MatchID: m.ID,
			RivalID: m.RivalID,
			Date:    m.Date,
			Score:   m.Score,
			Result:  Outcome(m.Score),
		})
	}

	performers := make([]model.Performer, 0, len(players))
	for _, p := range players {
		agg := AggregatePlayer(p.ID, matches, nil)
		performers = append(performers, model.Performer{
			PlayerID: p.ID,
			Name:     p.Name,
			Goals:    agg.Career.Goals,
			Assists:  agg.Career.Assists,
			Matches:  agg.Career.Matches,
		})
	}
	sort.SliceStable(performers, func(i, j int) bool {
		a, b := performers[i], performers[j]
		if a.Goals != b.Goals {
			return a.Goals > b.Goals
		}
		if a.Assists != b.Assists {
			return a.Assists > b.Assists
		}
		return a.Name < b.Name
	})
	if len(performers) > topPerformers {
		performers = performers[:topPerformers]
	}
	d.TopPerformers = append(d.TopPerformers, performers...)
	return d
}

// SuggestSubstitutes ranks players left out of the lineup by goals plus assists and keeps
// the best two per outfield position group. Goalkeepers are not suggested.
func SuggestSubstitutes(lineup map[string]string, players []model.Player, matches []model.Match) []model.BenchSuggestion {
	selected := make(map[string]struct{}, len(lineup))
	for _, id := range lineup {
		selected[id] = struct{}{}
	}

	byGroup := map[string][]model.BenchSuggestion{}
	for _, p := range players {
		if _, ok := selected[p.ID]; ok {
			continue
		}
		group := strings.ToLower(p.Position)
		if group == model.PositionGoalkeeper {
			continue
		}
		agg := AggregatePlayer(p.ID, matches, nil)
		byGroup[group] = append(byGroup[group], model.BenchSuggestion{
			PlayerID: p.ID,
			Name:     p.Name,
			Position: group,
			Goals:    agg.Career.Goals,
			Assists:  agg.Career.Assists,
			Matches:  agg.Career.Matches,
		})
	}

	out := []model.BenchSuggestion{}
	for _, group := range []string{model.PositionDefender, model.PositionMidfielder, model.PositionForward} {
		candidates := byGroup[group]
		sort.SliceStable(candidates, func(i, j int) bool {
			a, b := candidates[i], candidates[j]
			if a.Goals+a.Assists != b.Goals+b.Assists {
				return a.Goals+a.Assists > b.Goals+b.Assists
			}
			return a.Name < b.Name
		})
		if len(candidates) > benchPerGroup {
			candidates = candidates[:benchPerGroup]
		}
		out = append(out, candidates...)
	}
	return out
}

// LineupInsights returns, in position order, each planned starter with the team record of
// the matches that player started.
func LineupInsights(lineup map[string]string, formation model.Formation, matches []model.Match) []model.LineupInsight {
	positions := make([]string, 0, len(lineup))
	for pos := range lineup {
		positions = append(positions, pos)
	}
	SortPositions(positions)

	out := make([]model.LineupInsight, 0, len(positions))
	for _, pos := range positions {
		id := lineup[pos]
		out = append(out, model.LineupInsight{
			Position: pos,
			Role:     resolveRole(formation.Roles, pos),
			PlayerID: id,
			Starter:  SplitPerformance(id, matches).AsStarter,
		})
	}
	return out
}
