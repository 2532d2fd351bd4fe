// Package model contains domain entities and DTOs used across layers.
// I keep it lean and focused on data shapes without behavior.
package model

import "time"

// Player positions accepted by the roster.
const (
	PositionGoalkeeper = "goalkeeper"
	PositionDefender   = "defender"
	PositionMidfielder = "midfielder"
	PositionForward    = "forward"
)

// Card types.
const (
	CardYellow = "yellow"
	CardRed    = "red"
)

// Player represents a squad member.
type Player struct {
	ID            string      `json:"id"`
	Name          string      `json:"name"`
	Number        int         `json:"number"`
	Position      string      `json:"position"`
	Height        string      `json:"height,omitempty"`
	Weight        string      `json:"weight,omitempty"`
	Birthdate     string      `json:"birthdate,omitempty"`
	PreferredFoot string      `json:"preferred_foot,omitempty"`
	Photo         string      `json:"photo,omitempty"`
	Stats         PlayerStats `json:"stats"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// PlayerStats is the materialized career aggregate stored on a player.
// It is rewritten from the match log every time the log changes.
type PlayerStats struct {
	Goals         int                      `json:"goals"`
	Assists       int                      `json:"assists"`
	Matches       int                      `json:"matches"`
	MinutesPlayed int                      `json:"minutes_played"`
	YellowCards   int                      `json:"yellow_cards"`
	RedCards      int                      `json:"red_cards"`
	Positions     map[string]PositionTally `json:"positions"`
}

// PositionTally is the per-role slice of a player's statistics.
type PositionTally struct {
	Matches       int `json:"matches"`
	MinutesPlayed int `json:"minutes_played"`
	Goals         int `json:"goals"`
	Assists       int `json:"assists"`
	YellowCards   int `json:"yellow_cards"`
	RedCards      int `json:"red_cards"`
}

// Formation is a tactical shape with named roles per generated position label.
type Formation struct {
	ID              string            `json:"id"`
	Name            string            `json:"name"`
	Type            string            `json:"type"`
	DefenderLines   []int             `json:"defender_lines"`
	MidfielderLines []int             `json:"midfielder_lines"`
	ForwardLines    []int             `json:"forward_lines"`
	Roles           map[string]string `json:"roles"`
	Goalkeeper      string            `json:"goalkeeper"`
	Record          FormationRecord   `json:"record"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// FormationRecord summarizes results of matches played with a formation.
type FormationRecord struct {
	GamesPlayed  int `json:"games_played"`
	Wins         int `json:"wins"`
	Draws        int `json:"draws"`
	Losses       int `json:"losses"`
	GoalsFor     int `json:"goals_for"`
	GoalsAgainst int `json:"goals_against"`
	ShotsFor     int `json:"shots_for"`
	ShotsAgainst int `json:"shots_against"`
}

// Rival is an opponent with scouting notes.
type Rival struct {
	ID             string      `json:"id"`
	Name           string      `json:"name"`
	Logo           string      `json:"logo,omitempty"`
	HomeGround     string      `json:"home_ground,omitempty"`
	PrimaryColor   string      `json:"primary_color,omitempty"`
	SecondaryColor string      `json:"secondary_color,omitempty"`
	Notes          []string    `json:"notes"`
	Record         RivalRecord `json:"record"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// RivalRecord is the head-to-head record against a rival, derived from the match log.
type RivalRecord struct {
	MatchesPlayed int                 `json:"matches_played"`
	Wins          int                 `json:"wins"`
	Draws         int                 `json:"draws"`
	Losses        int                 `json:"losses"`
	GoalsFor      int                 `json:"goals_for"`
	GoalsAgainst  int                 `json:"goals_against"`
	Matches       []RivalMatchSummary `json:"matches"`
}

// RivalMatchSummary is one line of a rival's match list.
type RivalMatchSummary struct {
	MatchID     string `json:"match_id"`
	Date        string `json:"date"`
	Score       Score  `json:"score"`
	FormationID string `json:"formation_id"`
}

// Score of a match. Home is always the tracked team, whatever the venue.
type Score struct {
	Home int `json:"home"`
	Away int `json:"away"`
}

// Card is a disciplinary event.
type Card struct {
	PlayerID string `json:"player_id"`
	Type     string `json:"type"`
}

// Substitution swaps two players at a given minute.
type Substitution struct {
	PlayerOut string `json:"player_out"`
	PlayerIn  string `json:"player_in"`
	Minute    int    `json:"minute"`
}

// Match is a recorded result. Matches are created and deleted, never edited.
type Match struct {
	ID           string            `json:"id"`
	RivalID      string            `json:"rival_id"`
	Date         string            `json:"date"`
	Venue        string            `json:"venue,omitempty"`
	Score        Score             `json:"score"`
	FormationID  string            `json:"formation_id"`
	Lineup       map[string]string `json:"lineup"`
	Scorers      []Goal            `json:"scorers"`
	Assists      []string          `json:"assists"`
	Cards        []Card            `json:"cards"`
	Subs         []Substitution    `json:"subs"`
	ShotsFor     int               `json:"shots_for"`
	ShotsAgainst int               `json:"shots_against"`
	CreatedAt    time.Time         `json:"created_at"`
}

// MatchPlan is a proposed lineup against a rival ahead of a match.
type MatchPlan struct {
	ID          string            `json:"id"`
	RivalID     string            `json:"rival_id"`
	FormationID string            `json:"formation_id"`
	Lineup      map[string]string `json:"lineup"`
	Notes       string            `json:"notes,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
}

// SavedInsight is a free-text analysis kept by the coach.
type SavedInsight struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}
