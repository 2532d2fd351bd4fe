package stats

import (
	"fmt"
	"testing"

	"github.com/maxviazov/squad-manager-service/internal/model"
	"github.com/smartystreets/goconvey/convey"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDashboard(t *testing.T) {
	convey.Convey("Given a squad and six matches", t, func() {
		players := []model.Player{
			{ID: "a", Name: "Ana"},
			{ID: "b", Name: "Bea"},
			{ID: "c", Name: "Caro"},
			{ID: "d", Name: "Dani"},
		}
		var matches []model.Match
		for i := 1; i <= 6; i++ {
			m := model.Match{
				ID:     fmt.Sprintf("m%d", i),
				Date:   fmt.Sprintf("2024-01-%02d", i),
				Lineup: map[string]string{"Posición 2": "a", "Posición 3": "b", "Posición 4": "c"},
				Score:  model.Score{Home: i % 3, Away: 1},
			}
			if i <= 2 {
				m.Scorers = []model.Goal{{PlayerID: "b"}}
			}
			if i == 3 {
				m.Scorers = []model.Goal{{PlayerID: "c"}}
				m.Assists = []string{"c"}
			}
			matches = append(matches, m)
		}
		d := BuildDashboard(players, matches)

		convey.Convey("Then counts and the win rate are reported", func() {
			convey.So(d.TotalPlayers, convey.ShouldEqual, 4)
			convey.So(d.MatchesPlayed, convey.ShouldEqual, 6)
			// home goals cycle 1,2,0,1,2,0 against 1: wins at i=2 and i=5
			convey.So(d.Wins, convey.ShouldEqual, 2)
			convey.So(d.WinRate, convey.ShouldEqual, 33)
		})

		convey.Convey("Then the last five results are newest first", func() {
			convey.So(d.Recent, convey.ShouldHaveLength, 5)
			convey.So(d.Recent[0].MatchID, convey.ShouldEqual, "m6")
			convey.So(d.Recent[0].Result, convey.ShouldEqual, Loss)
			convey.So(d.Recent[4].MatchID, convey.ShouldEqual, "m2")
		})

		convey.Convey("Then top performers rank by goals, then assists", func() {
			convey.So(d.TopPerformers, convey.ShouldHaveLength, 3)
			convey.So(d.TopPerformers[0].PlayerID, convey.ShouldEqual, "b")
			convey.So(d.TopPerformers[1].PlayerID, convey.ShouldEqual, "c")
			convey.So(d.TopPerformers[2].PlayerID, convey.ShouldEqual, "a")
			convey.So(d.TopPerformers[2].Matches, convey.ShouldEqual, 6)
		})
	})
}

func TestBuildDashboardEmpty(t *testing.T) {
	d := BuildDashboard(nil, nil)
	assert.Equal(t, 0, d.WinRate)
	assert.NotNil(t, d.Recent)
	assert.NotNil(t, d.TopPerformers)
}

func TestSuggestSubstitutes(t *testing.T) {
	players := []model.Player{
		{ID: "gk2", Name: "Reserve Keeper", Position: model.PositionGoalkeeper},
		{ID: "d1", Name: "Dora", Position: model.PositionDefender},
		{ID: "d2", Name: "Delia", Position: model.PositionDefender},
		{ID: "d3", Name: "Dina", Position: model.PositionDefender},
		{ID: "f1", Name: "Flor", Position: model.PositionForward},
		{ID: "starter", Name: "Sol", Position: model.PositionForward},
	}
	matches := []model.Match{{
		ID:      "m",
		Lineup:  map[string]string{"Posición 2": "d1", "Posición 3": "d3", "Posición 9": "f1", "Posición 10": "starter"},
		Scorers: []model.Goal{{PlayerID: "d3"}, {PlayerID: "starter"}},
		Assists: []string{"d3"},
	}}

	got := SuggestSubstitutes(map[string]string{"Posición 10": "starter"}, players, matches)
	require.Len(t, got, 3)
	assert.Equal(t, "d3", got[0].PlayerID)
	// d1 and d2 tie on zero; names break the tie
	assert.Equal(t, "d2", got[1].PlayerID)
	assert.Equal(t, "f1", got[2].PlayerID)
	for _, s := range got {
		assert.NotEqual(t, model.PositionGoalkeeper, s.Position)
		assert.NotEqual(t, "starter", s.PlayerID)
	}
}

func TestLineupInsights(t *testing.T) {
	f := testFormation()
	matches := []model.Match{
		{ID: "m1", Lineup: map[string]string{"Posición 2": "x"}, Score: model.Score{Home: 1, Away: 0}},
		{ID: "m2", Lineup: map[string]string{"Posición 7": "x"}, Score: model.Score{Home: 0, Away: 0}},
	}
	got := LineupInsights(map[string]string{"Posición 10": "y", "Posición 2": "x"}, f, matches)

	require.Len(t, got, 2)
	assert.Equal(t, "Posición 2", got[0].Position)
	assert.Equal(t, "Lateral Derecho", got[0].Role)
	assert.Equal(t, 2, got[0].Starter.Matches)
	assert.Equal(t, 1, got[0].Starter.Wins)
	assert.Equal(t, "Posición 10", got[1].Position)
	assert.Equal(t, "Delantero 1", got[1].Role)
	assert.Equal(t, 0, got[1].Starter.Matches)
}
