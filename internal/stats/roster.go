// Package stats derives read models from the match log: player role breakdowns,
// formation and rival records, team splits and planning aids.
//
// Every function here is pure. Callers pass full snapshots of the collections and get
// fresh aggregates back, so a deleted match simply stops contributing.
package stats

import (
	"sort"

	"github.com/maxviazov/squad-manager-service/internal/model"
)

const (
	// RegulationMinutes is the length of a match for minute accounting.
	RegulationMinutes = 90
	// SubstituteRole is the synthetic bucket for minutes played after coming on.
	SubstituteRole = "Suplente"
)

// AggregatePlayer computes career totals and the per-role breakdown of one player.
// Role names come from the roles of the formation each match was played with; a position
// without a role keeps its raw label. An unknown or empty id yields an empty aggregate.
func AggregatePlayer(playerID string, matches []model.Match, formations []model.Formation) model.PlayerAggregate {
	agg := model.PlayerAggregate{PlayerID: playerID, Roles: map[string]model.PositionTally{}}
	if playerID == "" {
		return agg
	}
	roles := rolesByFormation(formations)
	for _, m := range matches {
		applyMatch(&agg, playerID, m, roles[m.FormationID])
	}
	return agg
}

// PlayerStats flattens an aggregate into the shape stored on the player record.
func PlayerStats(agg model.PlayerAggregate) model.PlayerStats {
	positions := make(map[string]model.PositionTally, len(agg.Roles))
	for role, t := range agg.Roles {
		positions[role] = t
	}
	return model.PlayerStats{
		Goals:         agg.Career.Goals,
		Assists:       agg.Career.Assists,
		Matches:       agg.Career.Matches,
		MinutesPlayed: agg.Career.MinutesPlayed,
		YellowCards:   agg.Career.YellowCards,
		RedCards:      agg.Career.RedCards,
		Positions:     positions,
	}
}

// participation describes how one player took part in one match.
type participation struct {
	started     bool
	starterRole string
	starterMins int

	cameOn  bool
	onAt    int
	subMins int
}

func participationIn(playerID string, m model.Match, roles map[string]string) participation {
	var p participation

	if pos, ok := startingPosition(playerID, m.Lineup); ok {
		p.started = true
		p.starterRole = resolveRole(roles, pos)
		p.starterMins = RegulationMinutes
		if out, ok := firstExit(m.Subs, playerID, -1); ok {
			p.starterMins = out
		}
	}

	if in, ok := firstEntry(m.Subs, playerID); ok {
		p.cameOn = true
		p.onAt = in
		p.subMins = RegulationMinutes - in
		if out, ok := firstExit(m.Subs, playerID, in); ok {
			p.subMins = out - in
		}
	}

	p.starterMins = clampMinutes(p.starterMins)
	p.subMins = clampMinutes(p.subMins)
	return p
}

// eventRole picks the single bucket an event belongs to. A timed goal at or after the
// entry minute belongs to the substitute spell; everything else goes to the spell the
// player started the match in.
func (p participation) eventRole(minute *int) string {
	if !p.cameOn {
		return p.starterRole
	}
	if !p.started {
		return SubstituteRole
	}
	if minute != nil && *minute >= p.onAt {
		return SubstituteRole
	}
	return p.starterRole
}

func applyMatch(agg *model.PlayerAggregate, playerID string, m model.Match, roles map[string]string) {
	p := participationIn(playerID, m, roles)
	if !p.started && !p.cameOn {
		return
	}

	agg.Career.Matches++
	if p.started {
		t := agg.Roles[p.starterRole]
		t.Matches++
		t.MinutesPlayed += p.starterMins
		agg.Roles[p.starterRole] = t
		agg.Career.MinutesPlayed += p.starterMins
	}
	if p.cameOn {
		t := agg.Roles[SubstituteRole]
		t.Matches++
		t.MinutesPlayed += p.subMins
		agg.Roles[SubstituteRole] = t
		agg.Career.MinutesPlayed += p.subMins
	}

	for _, g := range m.Scorers {
		if g.PlayerID != playerID {
			continue
		}
		role := p.eventRole(g.Minute)
		t := agg.Roles[role]
		t.Goals++
		agg.Roles[role] = t
		agg.Career.Goals++
	}
	for _, a := range m.Assists {
		if a != playerID {
			continue
		}
		role := p.eventRole(nil)
		t := agg.Roles[role]
		t.Assists++
		agg.Roles[role] = t
		agg.Career.Assists++
	}
	for _, c := range m.Cards {
		if c.PlayerID != playerID {
			continue
		}
		role := p.eventRole(nil)
		t := agg.Roles[role]
		switch c.Type {
		case model.CardYellow:
			t.YellowCards++
			agg.Career.YellowCards++
		case model.CardRed:
			t.RedCards++
			agg.Career.RedCards++
		}
		agg.Roles[role] = t
	}
}

// startingPosition returns the lowest position label the player occupies in the lineup.
// A player listed twice is credited once.
func startingPosition(playerID string, lineup map[string]string) (string, bool) {
	var found []string
	for pos, id := range lineup {
		if id == playerID {
			found = append(found, pos)
		}
	}
	if len(found) == 0 {
		return "", false
	}
	SortPositions(found)
	return found[0], true
}

func firstEntry(subs []model.Substitution, playerID string) (int, bool) {
	minute, ok := 0, false
	for _, s := range subs {
		if s.PlayerIn == playerID && (!ok || s.Minute < minute) {
			minute, ok = s.Minute, true
		}
	}
	return minute, ok
}

// firstExit returns the earliest minute the player was taken off strictly after the given minute.
func firstExit(subs []model.Substitution, playerID string, after int) (int, bool) {
	minute, ok := 0, false
	for _, s := range subs {
		if s.PlayerOut == playerID && s.Minute > after && (!ok || s.Minute < minute) {
			minute, ok = s.Minute, true
		}
	}
	return minute, ok
}

func clampMinutes(m int) int {
	switch {
	case m < 0:
		return 0
	case m > RegulationMinutes:
		return RegulationMinutes
	default:
		return m
	}
}

func resolveRole(roles map[string]string, position string) string {
	if role, ok := roles[position]; ok && role != "" {
		return role
	}
	return position
}

func rolesByFormation(formations []model.Formation) map[string]map[string]string {
	out := make(map[string]map[string]string, len(formations))
	for _, f := range formations {
		out[f.ID] = f.Roles
	}
	return out
}

// sortedMatches returns a copy of matches ordered by date, then creation time.
func sortedMatches(matches []model.Match) []model.Match {
	out := make([]model.Match, len(matches))
	copy(out, matches)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}
