package service

import (
	"fmt"
	"testing"

	"github.com/maxviazov/squad-manager-service/internal/model"
	"github.com/maxviazov/squad-manager-service/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// squad creates eleven starters for a 1-4-4-2 and returns the full lineup.
func (f *fixture) squad(t *testing.T) map[string]string {
	t.Helper()
	positions := []string{"goalkeeper", "defender", "defender", "defender", "defender",
		"midfielder", "midfielder", "midfielder", "midfielder", "forward", "forward"}
	lineup := make(map[string]string, len(positions))
	for i, pos := range positions {
		p := f.player(t, fmt.Sprintf("Titular %02d", i+1), i+1, pos)
		lineup[fmt.Sprintf("Posición %d", i+1)] = p.ID
	}
	return lineup
}

func TestMatchPlanService(t *testing.T) {
	f := newFixture(t)
	lineup := f.squad(t)
	benchDef := f.player(t, "Banco Defensa", 20, "defender")
	benchFwd := f.player(t, "Banco Ataque", 21, "forward")
	f.player(t, "Banco Arquero", 22, "goalkeeper")
	fm := f.formation442(t)
	rv := f.rival(t, "Unión")

	f.record(t, MatchInput{
		RivalID: rv.ID, Date: "2024-05-01", FormationID: fm.ID,
		Lineup:  lineup,
		Score:   model.Score{Home: 2, Away: 0},
		Scorers: []model.Goal{{PlayerID: lineup["Posición 10"]}, {PlayerID: benchFwd.ID, Minute: intRef(80)}},
		Subs:    []model.Substitution{{PlayerOut: lineup["Posición 11"], PlayerIn: benchFwd.ID, Minute: 70}},
	})

	t.Run("incomplete lineup is rejected", func(t *testing.T) {
		partial := map[string]string{"Posición 1": lineup["Posición 1"]}
		_, err := f.plans.CreatePlan(f.ctx, MatchPlanInput{RivalID: rv.ID, FormationID: fm.ID, Lineup: partial})
		assertField(t, err, "lineup.Posición 2")
	})

	t.Run("references must exist", func(t *testing.T) {
		_, err := f.plans.CreatePlan(f.ctx, MatchPlanInput{RivalID: "nope", FormationID: "nope", Lineup: lineup})
		assertField(t, err, "rival_id")
		assertField(t, err, "formation_id")
		_, err = f.plans.CreatePlan(f.ctx, MatchPlanInput{})
		assertField(t, err, "rival_id")
	})

	plan, err := f.plans.CreatePlan(f.ctx, MatchPlanInput{RivalID: rv.ID, FormationID: fm.ID, Lineup: lineup, Notes: " Presión alta "})
	require.NoError(t, err)
	assert.Equal(t, "Presión alta", plan.Notes)

	got, err := f.plans.GetPlan(f.ctx, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, plan.Lineup, got.Lineup)

	sugg, err := f.plans.Suggestions(f.ctx, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, plan.ID, sugg.PlanID)
	require.Len(t, sugg.Lineup, 11)
	assert.Equal(t, "Posición 1", sugg.Lineup[0].Position)
	assert.Equal(t, "Lateral Derecho", sugg.Lineup[1].Role)
	assert.Equal(t, 1, sugg.Lineup[0].Starter.Wins)

	require.Len(t, sugg.Substitutes, 2)
	assert.Equal(t, benchDef.ID, sugg.Substitutes[0].PlayerID)
	assert.Equal(t, benchFwd.ID, sugg.Substitutes[1].PlayerID)
	assert.Equal(t, 1, sugg.Substitutes[1].Goals)
	for _, s := range sugg.Substitutes {
		assert.NotEqual(t, model.PositionGoalkeeper, s.Position)
	}

	// A player in a plan cannot be removed from the roster.
	assert.ErrorIs(t, f.players.DeletePlayer(f.ctx, lineup["Posición 1"]), repository.ErrConflict)

	list, err := f.plans.ListPlans(f.ctx, repository.Page{})
	require.NoError(t, err)
	assert.Equal(t, 1, list.Total)

	require.NoError(t, f.plans.DeletePlan(f.ctx, plan.ID))
	_, err = f.plans.Suggestions(f.ctx, plan.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.ErrorIs(t, f.plans.DeletePlan(f.ctx, plan.ID), repository.ErrNotFound)
}

func TestInsightService(t *testing.T) {
	f := newFixture(t)

	_, err := f.insights.SaveInsight(f.ctx, "  ")
	assertField(t, err, "text")

	first, err := f.insights.SaveInsight(f.ctx, "Ganamos más con línea de cuatro")
	require.NoError(t, err)
	second, err := f.insights.SaveInsight(f.ctx, "El 9 rinde mejor de suplente")
	require.NoError(t, err)

	items, err := f.insights.ListInsights(f.ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, second.ID, items[0].ID)
	assert.Equal(t, first.ID, items[1].ID)

	require.NoError(t, f.insights.DeleteInsight(f.ctx, first.ID))
	assert.ErrorIs(t, f.insights.DeleteInsight(f.ctx, first.ID), repository.ErrNotFound)

	items, err = f.insights.ListInsights(f.ctx)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestDashboardService(t *testing.T) {
	f := newFixture(t)

	empty, err := f.dashboard.GetDashboard(f.ctx)
	require.NoError(t, err)
	assert.Zero(t, empty.WinRate)
	assert.NotNil(t, empty.Recent)
	assert.NotNil(t, empty.TopPerformers)

	juan := f.player(t, "Juan", 9, "forward")
	f.player(t, "Pedro", 10, "forward")
	fm := f.formation442(t)
	rv := f.rival(t, "Unión")
	f.record(t, MatchInput{RivalID: rv.ID, Date: "2024-05-01", FormationID: fm.ID,
		Lineup: map[string]string{"Posición 10": juan.ID}, Scorers: []model.Goal{{PlayerID: juan.ID}}, Score: model.Score{Home: 1}})
	f.record(t, MatchInput{RivalID: rv.ID, Date: "2024-05-08", FormationID: fm.ID, Score: model.Score{Away: 1}})
	f.record(t, MatchInput{RivalID: rv.ID, Date: "2024-05-15", FormationID: fm.ID, Score: model.Score{Home: 2}})

	d, err := f.dashboard.GetDashboard(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, d.TotalPlayers)
	assert.Equal(t, 3, d.MatchesPlayed)
	assert.Equal(t, 2, d.Wins)
	assert.Equal(t, 67, d.WinRate)
	require.Len(t, d.Recent, 3)
	assert.Equal(t, "2024-05-15", d.Recent[0].Date)
	assert.Equal(t, "L", d.Recent[1].Result)
	require.NotEmpty(t, d.TopPerformers)
	assert.Equal(t, juan.ID, d.TopPerformers[0].PlayerID)
}

func intRef(v int) *int { return &v }
