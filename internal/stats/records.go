package stats

import "github.com/maxviazov/squad-manager-service/internal/model"

// Match outcomes from the tracked team's side.
const (
	Win  = "W"
	Draw = "D"
	Loss = "L"
)

// Outcome compares home (always the tracked team) against away.
func Outcome(s model.Score) string {
	switch {
	case s.Home > s.Away:
		return Win
	case s.Home < s.Away:
		return Loss
	default:
		return Draw
	}
}

func addResult(r *model.TeamRecord, m model.Match) {
	r.Matches++
	switch Outcome(m.Score) {
	case Win:
		r.Wins++
	case Draw:
		r.Draws++
	case Loss:
		r.Losses++
	}
	r.GoalsFor += m.Score.Home
	r.GoalsAgainst += m.Score.Away
	r.ShotsFor += m.ShotsFor
	r.ShotsAgainst += m.ShotsAgainst
}

// AggregateFormation derives a formation's record from the matches that used it.
func AggregateFormation(formationID string, matches []model.Match) model.FormationRecord {
	var r model.TeamRecord
	for _, m := range matches {
		if formationID != "" && m.FormationID == formationID {
			addResult(&r, m)
		}
	}
	return model.FormationRecord{
		GamesPlayed:  r.Matches,
		Wins:         r.Wins,
		Draws:        r.Draws,
		Losses:       r.Losses,
		GoalsFor:     r.GoalsFor,
		GoalsAgainst: r.GoalsAgainst,
		ShotsFor:     r.ShotsFor,
		ShotsAgainst: r.ShotsAgainst,
	}
}

// AggregateRival derives the head-to-head record against a rival by scanning the current
// match log. Summaries are ordered by date.
func AggregateRival(rivalID string, matches []model.Match) model.RivalRecord {
	rec := model.RivalRecord{Matches: []model.RivalMatchSummary{}}
	if rivalID == "" {
		return rec
	}
	for _, m := range sortedMatches(matches) {
		if m.RivalID != rivalID {
			continue
		}
		rec.MatchesPlayed++
		switch Outcome(m.Score) {
		case Win:
			rec.Wins++
		case Draw:
			rec.Draws++
		case Loss:
			rec.Losses++
		}
		rec.GoalsFor += m.Score.Home
		rec.GoalsAgainst += m.Score.Away
		rec.Matches = append(rec.Matches, model.RivalMatchSummary{
			MatchID:     m.ID,
			Date:        m.Date,
			Score:       m.Score,
			FormationID: m.FormationID,
		})
	}
	return rec
}

// SplitPerformance partitions the team's results by whether the player started, came on,
// or did not play. Every match lands in exactly one partition.
func SplitPerformance(playerID string, matches []model.Match) model.PerformanceSplit {
	split := model.PerformanceSplit{PlayerID: playerID}
	for _, m := range matches {
		_, started := startingPosition(playerID, m.Lineup)
		_, cameOn := firstEntry(m.Subs, playerID)
		switch {
		case playerID != "" && started:
			addResult(&split.AsStarter, m)
		case playerID != "" && cameOn:
			addResult(&split.AsSubstitute, m)
		default:
			addResult(&split.NotPlayed, m)
		}
	}
	return split
}
