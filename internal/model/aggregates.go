package model

// PlayerAggregate is the live, read-only view of a player's statistics derived from the match log.
type PlayerAggregate struct {
	PlayerID string                   `json:"player_id"`
	Career   CareerTotals             `json:"career"`
	Roles    map[string]PositionTally `json:"roles"`
}

// CareerTotals counts every match a player took part in, as starter or substitute.
type CareerTotals struct {
	Matches       int `json:"matches"`
	MinutesPlayed int `json:"minutes_played"`
	Goals         int `json:"goals"`
	Assists       int `json:"assists"`
	YellowCards   int `json:"yellow_cards"`
	RedCards      int `json:"red_cards"`
}

// TeamRecord is the team's result line over some subset of matches.
type TeamRecord struct {
	Matches      int `json:"matches"`
	Wins         int `json:"wins"`
	Draws        int `json:"draws"`
	Losses       int `json:"losses"`
	GoalsFor     int `json:"goals_for"`
	GoalsAgainst int `json:"goals_against"`
	ShotsFor     int `json:"shots_for"`
	ShotsAgainst int `json:"shots_against"`
}

// PerformanceSplit is the team record partitioned by a player's participation.
type PerformanceSplit struct {
	PlayerID     string     `json:"player_id"`
	AsStarter    TeamRecord `json:"as_starter"`
	AsSubstitute TeamRecord `json:"as_substitute"`
	NotPlayed    TeamRecord `json:"not_played"`
}

// Performer is a dashboard leaderboard row.
type Performer struct {
	PlayerID string `json:"player_id"`
	Name     string `json:"name"`
	Goals    int    `json:"goals"`
	Assists  int    `json:"assists"`
	Matches  int    `json:"matches"`
}

// RecentResult is one entry of the recent form strip.
type RecentResult struct {
	MatchID string `json:"match_id"`
	RivalID string `json:"rival_id"`
	Date    string `json:"date"`
	Score   Score  `json:"score"`
	Result  string `json:"result"` // W, D or L
}

// Dashboard is the team overview.
type Dashboard struct {
	TotalPlayers  int            `json:"total_players"`
	MatchesPlayed int            `json:"matches_played"`
	Wins          int            `json:"wins"`
	WinRate       int            `json:"win_rate"`
	Recent        []RecentResult `json:"recent"`
	TopPerformers []Performer    `json:"top_performers"`
}

// BenchSuggestion proposes a non-selected player for a position group.
type BenchSuggestion struct {
	PlayerID string `json:"player_id"`
	Name     string `json:"name"`
	Position string `json:"position"`
	Goals    int    `json:"goals"`
	Assists  int    `json:"assists"`
	Matches  int    `json:"matches"`
}

// LineupInsight pairs a planned starter with the team record when that player started.
type LineupInsight struct {
	Position string     `json:"position"`
	Role     string     `json:"role"`
	PlayerID string     `json:"player_id"`
	Starter  TeamRecord `json:"as_starter"`
}

// PlanSuggestions is the planning aid for a match plan.
type PlanSuggestions struct {
	PlanID      string            `json:"plan_id"`
	Lineup      []LineupInsight   `json:"lineup"`
	Substitutes []BenchSuggestion `json:"substitutes"`
}
