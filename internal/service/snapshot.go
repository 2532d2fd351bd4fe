package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/maxviazov/squad-manager-service/internal/model"
	"github.com/maxviazov/squad-manager-service/internal/repository"
	"github.com/maxviazov/squad-manager-service/internal/stats"
)

// snapshot is the part of the store the aggregates depend on.
type snapshot struct {
	players    []model.Player
	formations []model.Formation
	rivals     []model.Rival
	matches    []model.Match
}

func loadSnapshot(ctx context.Context, store repository.Store) (snapshot, error) {
	var (
		s   snapshot
		err error
	)
	if s.players, err = repository.Load[model.Player](ctx, store, repository.Players); err != nil {
		return s, err
	}
	if s.formations, err = repository.Load[model.Formation](ctx, store, repository.Formations); err != nil {
		return s, err
	}
	if s.rivals, err = repository.Load[model.Rival](ctx, store, repository.Rivals); err != nil {
		return s, err
	}
	if s.matches, err = repository.Load[model.Match](ctx, store, repository.Matches); err != nil {
		return s, err
	}
	return s, nil
}

// rebuild rewrites every materialized aggregate from the current match log.
func (s *snapshot) rebuild() {
	for i := range s.players {
		s.players[i].Stats = stats.PlayerStats(stats.AggregatePlayer(s.players[i].ID, s.matches, s.formations))
	}
	for i := range s.formations {
		s.formations[i].Record = stats.AggregateFormation(s.formations[i].ID, s.matches)
	}
	for i := range s.rivals {
		s.rivals[i].Record = stats.AggregateRival(s.rivals[i].ID, s.matches)
	}
}

func (s *snapshot) save(ctx context.Context, store repository.Store) error {
	if err := repository.Save(ctx, store, repository.Matches, s.matches); err != nil {
		return err
	}
	if err := repository.Save(ctx, store, repository.Players, s.players); err != nil {
		return err
	}
	if err := repository.Save(ctx, store, repository.Formations, s.formations); err != nil {
		return err
	}
	return repository.Save(ctx, store, repository.Rivals, s.rivals)
}

func indexOf[T any](items []T, id string, key func(T) string) int {
	for i, it := range items {
		if key(it) == id {
			return i
		}
	}
	return -1
}

func playerID(p model.Player) string        { return p.ID }
func formationID(f model.Formation) string  { return f.ID }
func rivalID(r model.Rival) string          { return r.ID }
func matchID(m model.Match) string          { return m.ID }
func planID(p model.MatchPlan) string       { return p.ID }
func insightID(i model.SavedInsight) string { return i.ID }

func notFound(kind, id string) error {
	return fmt.Errorf("%s %q: %w", kind, id, repository.ErrNotFound)
}

func validID(field, id string) error {
	if strings.TrimSpace(id) == "" {
		return newInvalidInput([]FieldError{{Field: field, Message: "must not be empty"}})
	}
	return nil
}

// playerInMatch reports whether any part of the match names the player.
func playerInMatch(id string, m model.Match) bool {
	for _, p := range m.Lineup {
		if p == id {
			return true
		}
	}
	for _, g := range m.Scorers {
		if g.PlayerID == id {
			return true
		}
	}
	for _, a := range m.Assists {
		if a == id {
			return true
		}
	}
	for _, c := range m.Cards {
		if c.PlayerID == id {
			return true
		}
	}
	for _, s := range m.Subs {
		if s.PlayerIn == id || s.PlayerOut == id {
			return true
		}
	}
	return false
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}
