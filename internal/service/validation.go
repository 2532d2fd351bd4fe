package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/maxviazov/squad-manager-service/internal/model"
	"github.com/maxviazov/squad-manager-service/internal/stats"
)

const (
	maxNameLength  = 60
	maxNoteLength  = 2000
	minPositions   = 2
	maxPositions   = 11
	minShirtNumber = 1
	maxShirtNumber = 99
	dateLayout     = "2006-01-02"
)

// normalizePosition accepts a few common aliases, including the Spanish labels the squad uses.
func normalizePosition(pos string) string {
	s := strings.ToLower(strings.TrimSpace(pos))
	switch s {
	case "gk", "arquero", "portero":
		return model.PositionGoalkeeper
	case "df", "def", "defensor", "defensa":
		return model.PositionDefender
	case "mf", "mid", "mediocampista", "medio":
		return model.PositionMidfielder
	case "fw", "fwd", "delantero":
		return model.PositionForward
	default:
		return s
	}
}

func isValidPosition(pos string) bool {
	switch pos {
	case model.PositionGoalkeeper, model.PositionDefender, model.PositionMidfielder, model.PositionForward:
		return true
	default:
		return false
	}
}

func isValidFoot(foot string) bool {
	switch foot {
	case "", "left", "right", "both":
		return true
	default:
		return false
	}
}

func isValidVenue(venue string) bool {
	switch venue {
	case "", "home", "away", "neutral":
		return true
	default:
		return false
	}
}

func isValidDate(s string) bool {
	_, err := time.Parse(dateLayout, s)
	return err == nil
}

func isValidCard(t string) bool {
	return t == model.CardYellow || t == model.CardRed
}

// validateName appends errors for an empty or overlong display name.
func validateName(ferrs []FieldError, field, name string) []FieldError {
	if name == "" {
		return append(ferrs, FieldError{Field: field, Message: "must not be empty"})
	}
	if ln := len([]rune(name)); ln > maxNameLength {
		return append(ferrs, FieldError{Field: field, Message: fmt.Sprintf("length must be <= %d", maxNameLength)})
	}
	return ferrs
}

func validateLines(ferrs []FieldError, field string, lines []int) []FieldError {
	for i, c := range lines {
		if c <= 0 {
			ferrs = append(ferrs, FieldError{Field: fmt.Sprintf("%s[%d]", field, i), Message: "must be > 0"})
		}
	}
	return ferrs
}

// validateLineup checks that keys are positions of a shape with n positions and that no
// player appears twice. When full is set every position must be filled.
func validateLineup(ferrs []FieldError, lineup map[string]string, n int, full bool) []FieldError {
	seen := make(map[string]string, len(lineup))
	positions := make([]string, 0, len(lineup))
	for pos := range lineup {
		positions = append(positions, pos)
	}
	stats.SortPositions(positions)

	for _, pos := range positions {
		id := strings.TrimSpace(lineup[pos])
		field := "lineup." + pos
		if idx := stats.PositionIndex(pos); idx < 1 || idx > n {
			ferrs = append(ferrs, FieldError{Field: field, Message: fmt.Sprintf("is not a position of a %d-player formation", n)})
			continue
		}
		if id == "" {
			if full {
				ferrs = append(ferrs, FieldError{Field: field, Message: "must name a player"})
			}
			continue
		}
		if other, dup := seen[id]; dup {
			ferrs = append(ferrs, FieldError{Field: field, Message: "player already placed at " + other})
			continue
		}
		seen[id] = pos
	}
	if full {
		for i := 1; i <= n; i++ {
			if _, ok := lineup[stats.PositionLabel(i)]; !ok {
				ferrs = append(ferrs, FieldError{Field: "lineup." + stats.PositionLabel(i), Message: "must name a player"})
			}
		}
	}
	return ferrs
}

// validateEvents checks the per-event rules of a match: ids present, minutes in range,
// card types and substitutions swapping two different players.
func validateEvents(ferrs []FieldError, in MatchInput) []FieldError {
	for i, g := range in.Scorers {
		if strings.TrimSpace(g.PlayerID) == "" {
			ferrs = append(ferrs, FieldError{Field: fmt.Sprintf("scorers[%d].player_id", i), Message: "must not be empty"})
		}
		if g.Minute != nil && (*g.Minute < 0 || *g.Minute > stats.RegulationMinutes) {
			ferrs = append(ferrs, FieldError{Field: fmt.Sprintf("scorers[%d].minute", i), Message: "must be in 0..90"})
		}
	}
	for i, a := range in.Assists {
		if strings.TrimSpace(a) == "" {
			ferrs = append(ferrs, FieldError{Field: fmt.Sprintf("assists[%d]", i), Message: "must not be empty"})
		}
	}
	for i, c := range in.Cards {
		if strings.TrimSpace(c.PlayerID) == "" {
			ferrs = append(ferrs, FieldError{Field: fmt.Sprintf("cards[%d].player_id", i), Message: "must not be empty"})
		}
		if !isValidCard(c.Type) {
			ferrs = append(ferrs, FieldError{Field: fmt.Sprintf("cards[%d].type", i), Message: "must be one of yellow, red"})
		}
	}
	for i, s := range in.Subs {
		if strings.TrimSpace(s.PlayerOut) == "" || strings.TrimSpace(s.PlayerIn) == "" {
			ferrs = append(ferrs, FieldError{Field: fmt.Sprintf("subs[%d]", i), Message: "player_out and player_in are required"})
		} else if s.PlayerOut == s.PlayerIn {
			ferrs = append(ferrs, FieldError{Field: fmt.Sprintf("subs[%d]", i), Message: "player_in must differ from player_out"})
		}
		if s.Minute < 0 || s.Minute > stats.RegulationMinutes {
			ferrs = append(ferrs, FieldError{Field: fmt.Sprintf("subs[%d].minute", i), Message: "must be in 0..90"})
		}
	}
	return ferrs
}
