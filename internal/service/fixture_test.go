package service

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/maxviazov/squad-manager-service/internal/model"
	"github.com/maxviazov/squad-manager-service/internal/repository"
	"github.com/maxviazov/squad-manager-service/internal/repository/local"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	ctx        context.Context
	store      *local.Store
	players    PlayerService
	formations FormationService
	rivals     RivalService
	matches    MatchService
	plans      MatchPlanService
	insights   InsightService
	dashboard  DashboardService
	obs        *countingObserver
}

type countingObserver struct {
	recorded, deleted, rebuilt int
}

func (c *countingObserver) MatchRecorded()                  { c.recorded++ }
func (c *countingObserver) MatchDeleted()                   { c.deleted++ }
func (c *countingObserver) AggregatesRebuilt(time.Duration) { c.rebuilt++ }

// newFixture wires every service on a fresh memory store with deterministic ids and clock.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	stubHooks(t)
	store := local.NewMemory()
	return newFixtureOn(t, store, store)
}

func newFixtureOn(t *testing.T, store *local.Store, s repository.Store) *fixture {
	t.Helper()
	logger := zerolog.New(io.Discard)
	obs := &countingObserver{}
	return &fixture{
		ctx:        context.Background(),
		store:      store,
		players:    NewPlayerService(s, store, logger),
		formations: NewFormationService(s, store, logger),
		rivals:     NewRivalService(s, store, logger),
		matches:    NewMatchService(s, store, obs, logger),
		plans:      NewMatchPlanService(s, store, logger),
		insights:   NewInsightService(s, store, logger),
		dashboard:  NewDashboardService(s, logger),
		obs:        obs,
	}
}

func stubHooks(t *testing.T) {
	t.Helper()
	prevNow, prevID := now, newID
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	var tick, seq int
	now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}
	newID = func() string {
		seq++
		return fmt.Sprintf("id-%03d", seq)
	}
	t.Cleanup(func() { now, newID = prevNow, prevID })
}

func (f *fixture) player(t *testing.T, name string, number int, position string) model.Player {
	t.Helper()
	p, err := f.players.CreatePlayer(f.ctx, PlayerInput{Name: name, Number: number, Position: position})
	require.NoError(t, err)
	return p
}

// formation442 creates a 1-4-4-2 with a custom role for the right back.
func (f *fixture) formation442(t *testing.T) model.Formation {
	t.Helper()
	fm, err := f.formations.CreateFormation(f.ctx, FormationInput{
		Name:            "Clásica",
		DefenderLines:   []int{4},
		MidfielderLines: []int{4},
		ForwardLines:    []int{2},
		Roles:           []string{"", "Lateral Derecho"},
	})
	require.NoError(t, err)
	return fm
}

func (f *fixture) rival(t *testing.T, name string) model.Rival {
	t.Helper()
	r, err := f.rivals.CreateRival(f.ctx, RivalInput{Name: name})
	require.NoError(t, err)
	return r
}

func (f *fixture) record(t *testing.T, in MatchInput) model.Match {
	t.Helper()
	m, err := f.matches.RecordMatch(f.ctx, in)
	require.NoError(t, err)
	return m
}

func (f *fixture) storedPlayer(t *testing.T, id string) model.Player {
	t.Helper()
	players, err := repository.Load[model.Player](f.ctx, f.store, repository.Players)
	require.NoError(t, err)
	i := indexOf(players, id, playerID)
	require.GreaterOrEqual(t, i, 0, "player %s not stored", id)
	return players[i]
}

func (f *fixture) storedFormation(t *testing.T, id string) model.Formation {
	t.Helper()
	formations, err := repository.Load[model.Formation](f.ctx, f.store, repository.Formations)
	require.NoError(t, err)
	i := indexOf(formations, id, formationID)
	require.GreaterOrEqual(t, i, 0, "formation %s not stored", id)
	return formations[i]
}

func (f *fixture) storedRival(t *testing.T, id string) model.Rival {
	t.Helper()
	rivals, err := repository.Load[model.Rival](f.ctx, f.store, repository.Rivals)
	require.NoError(t, err)
	i := indexOf(rivals, id, rivalID)
	require.GreaterOrEqual(t, i, 0, "rival %s not stored", id)
	return rivals[i]
}

func assertField(t *testing.T, err error, field string) {
	t.Helper()
	require.ErrorIs(t, err, ErrInvalidInput)
	var fields []string
	for _, fe := range FieldErrors(err) {
		if fe.Field == field {
			return
		}
		fields = append(fields, fe.Field)
	}
	assert.Failf(t, "missing field error", "want %q, got %v", field, fields)
}
