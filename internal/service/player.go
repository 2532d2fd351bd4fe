package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/maxviazov/squad-manager-service/internal/model"
	"github.com/maxviazov/squad-manager-service/internal/repository"
	"github.com/maxviazov/squad-manager-service/internal/stats"
	"github.com/rs/zerolog"
)

type playerService struct {
	store repository.Store
	tx    repository.TxManager
	log   zerolog.Logger
}

func NewPlayerService(store repository.Store, tx repository.TxManager, logger zerolog.Logger) PlayerService {
	l := logger.With().Str("module", "service").Str("component", "player").Logger()
	return &playerService{store: store, tx: tx, log: l}
}

func (s *playerService) CreatePlayer(ctx context.Context, in PlayerInput) (model.Player, error) {
	start := time.Now()
	rawPos := in.Position

	// Normalize early so validation and persistence see canonical values.
	p := model.Player{
		Name:          strings.TrimSpace(in.Name),
		Number:        in.Number,
		Position:      normalizePosition(in.Position),
		Height:        strings.TrimSpace(in.Height),
		Weight:        strings.TrimSpace(in.Weight),
		Birthdate:     strings.TrimSpace(in.Birthdate),
		PreferredFoot: strings.ToLower(strings.TrimSpace(in.PreferredFoot)),
		Photo:         in.Photo,
		Stats:         model.PlayerStats{Positions: map[string]model.PositionTally{}},
	}

	var ferrs []FieldError
	ferrs = validateName(ferrs, "name", p.Name)
	if p.Number < minShirtNumber || p.Number > maxShirtNumber {
		ferrs = append(ferrs, FieldError{Field: "number", Message: "must be in 1..99"})
	}
	if !isValidPosition(p.Position) { // after normalizePosition
		ferrs = append(ferrs, FieldError{Field: "position", Message: "must be one of goalkeeper, defender, midfielder, forward"})
	}
	if p.Birthdate != "" && !isValidDate(p.Birthdate) {
		ferrs = append(ferrs, FieldError{Field: "birthdate", Message: "must be in YYYY-MM-DD format"})
	}
	if !isValidFoot(p.PreferredFoot) {
		ferrs = append(ferrs, FieldError{Field: "preferred_foot", Message: "must be one of left, right, both"})
	}
	if err := newInvalidInput(ferrs); err != nil {
		s.log.Debug().Interface("field_errors", ferrs).Str("pos_raw", rawPos).Msg("player validation failed")
		return model.Player{}, err
	}

	p.ID = newID()
	p.CreatedAt = now()
	p.UpdatedAt = p.CreatedAt

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		players, err := repository.Load[model.Player](ctx, s.store, repository.Players)
		if err != nil {
			return err
		}
		return repository.Save(ctx, s.store, repository.Players, append(players, p))
	})
	if err != nil {
		s.log.Error().Err(err).Str("name", p.Name).Msg("create player failed")
		return model.Player{}, err
	}
	s.log.Info().Dur("took", time.Since(start)).Str("player_id", p.ID).Msg("player created")
	return p, nil
}

func (s *playerService) GetPlayer(ctx context.Context, id string) (model.Player, error) {
	if err := validID("id", id); err != nil {
		return model.Player{}, err
	}
	players, err := repository.Load[model.Player](ctx, s.store, repository.Players)
	if err != nil {
		return model.Player{}, err
	}
	i := indexOf(players, id, playerID)
	if i < 0 {
		return model.Player{}, notFound("player", id)
	}
	return players[i], nil
}

// ListPlayers filters by a case-insensitive substring of name or position and orders by
// shirt number, then name.
func (s *playerService) ListPlayers(ctx context.Context, query string, page repository.Page) (repository.PageResult[model.Player], error) {
	players, err := repository.Load[model.Player](ctx, s.store, repository.Players)
	if err != nil {
		s.log.Error().Err(err).Msg("list players failed")
		return repository.PageResult[model.Player]{}, err
	}
	query = strings.TrimSpace(query)
	filtered := make([]model.Player, 0, len(players))
	for _, p := range players {
		if query == "" || containsFold(p.Name, query) || containsFold(p.Position, query) {
			filtered = append(filtered, p)
		}
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		if filtered[i].Number != filtered[j].Number {
			return filtered[i].Number < filtered[j].Number
		}
		return filtered[i].Name < filtered[j].Name
	})
	return repository.Paginate(filtered, page), nil
}

// DeletePlayer refuses while a recorded match or a plan still names the player.
func (s *playerService) DeletePlayer(ctx context.Context, id string) error {
	if err := validID("id", id); err != nil {
		return err
	}
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		players, err := repository.Load[model.Player](ctx, s.store, repository.Players)
		if err != nil {
			return err
		}
		i := indexOf(players, id, playerID)
		if i < 0 {
			return notFound("player", id)
		}
		matches, err := repository.Load[model.Match](ctx, s.store, repository.Matches)
		if err != nil {
			return err
		}
		for _, m := range matches {
			if playerInMatch(id, m) {
				return fmt.Errorf("player %q appears in match %q: %w", id, m.ID, repository.ErrConflict)
			}
		}
		plans, err := repository.Load[model.MatchPlan](ctx, s.store, repository.MatchPlans)
		if err != nil {
			return err
		}
		for _, p := range plans {
			for _, pid := range p.Lineup {
				if pid == id {
					return fmt.Errorf("player %q is in match plan %q: %w", id, p.ID, repository.ErrConflict)
				}
			}
		}
		return repository.Save(ctx, s.store, repository.Players, append(players[:i], players[i+1:]...))
	})
	if err != nil {
		s.log.Warn().Err(err).Str("player_id", id).Msg("delete player failed")
		return err
	}
	s.log.Info().Str("player_id", id).Msg("player deleted")
	return nil
}

func (s *playerService) GetPlayerStats(ctx context.Context, id string) (model.PlayerAggregate, error) {
	if _, err := s.GetPlayer(ctx, id); err != nil {
		return model.PlayerAggregate{}, err
	}
	matches, err := repository.Load[model.Match](ctx, s.store, repository.Matches)
	if err != nil {
		return model.PlayerAggregate{}, err
	}
	formations, err := repository.Load[model.Formation](ctx, s.store, repository.Formations)
	if err != nil {
		return model.PlayerAggregate{}, err
	}
	return stats.AggregatePlayer(id, matches, formations), nil
}

func (s *playerService) GetPlayerPerformance(ctx context.Context, id string) (model.PerformanceSplit, error) {
	if _, err := s.GetPlayer(ctx, id); err != nil {
		return model.PerformanceSplit{}, err
	}
	matches, err := repository.Load[model.Match](ctx, s.store, repository.Matches)
	if err != nil {
		return model.PerformanceSplit{}, err
	}
	return stats.SplitPerformance(id, matches), nil
}
