package service

import "github.com/maxviazov/squad-manager-service/internal/model"

// PlayerInput is the payload accepted when adding a player to the roster.
type PlayerInput struct {
	Name          string `json:"name"`
	Number        int    `json:"number"`
	Position      string `json:"position"`
	Height        string `json:"height"`
	Weight        string `json:"weight"`
	Birthdate     string `json:"birthdate"`
	PreferredFoot string `json:"preferred_foot"`
	Photo         string `json:"photo"`
}

// FormationInput describes a shape by its line counts. Roles are optional custom names in
// position order, starting with the goalkeeper.
type FormationInput struct {
	Name            string   `json:"name"`
	DefenderLines   []int    `json:"defender_lines"`
	MidfielderLines []int    `json:"midfielder_lines"`
	ForwardLines    []int    `json:"forward_lines"`
	Roles           []string `json:"roles"`
}

type RivalInput struct {
	Name           string `json:"name"`
	Logo           string `json:"logo"`
	HomeGround     string `json:"home_ground"`
	PrimaryColor   string `json:"primary_color"`
	SecondaryColor string `json:"secondary_color"`
}

// MatchInput is a result to record. Score.Home is always the tracked team.
type MatchInput struct {
	RivalID      string               `json:"rival_id"`
	Date         string               `json:"date"`
	Venue        string               `json:"venue"`
	Score        model.Score          `json:"score"`
	FormationID  string               `json:"formation_id"`
	Lineup       map[string]string    `json:"lineup"`
	Scorers      []model.Goal         `json:"scorers"`
	Assists      []string             `json:"assists"`
	Cards        []model.Card         `json:"cards"`
	Subs         []model.Substitution `json:"subs"`
	ShotsFor     int                  `json:"shots_for"`
	ShotsAgainst int                  `json:"shots_against"`
}

type MatchPlanInput struct {
	RivalID     string            `json:"rival_id"`
	FormationID string            `json:"formation_id"`
	Lineup      map[string]string `json:"lineup"`
	Notes       string            `json:"notes"`
}
