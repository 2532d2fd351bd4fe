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

type formationService struct {
	store repository.Store
	tx    repository.TxManager
	log   zerolog.Logger
}

func NewFormationService(store repository.Store, tx repository.TxManager, logger zerolog.Logger) FormationService {
	l := logger.With().Str("module", "service").Str("component", "formation").Logger()
	return &formationService{store: store, tx: tx, log: l}
}

// CreateFormation derives the type and the role map from the line counts. Names are unique
// ignoring case.
func (s *formationService) CreateFormation(ctx context.Context, in FormationInput) (model.Formation, error) {
	start := time.Now()
	name := strings.TrimSpace(in.Name)

	var ferrs []FieldError
	ferrs = validateName(ferrs, "name", name)
	ferrs = validateLines(ferrs, "defender_lines", in.DefenderLines)
	ferrs = validateLines(ferrs, "midfielder_lines", in.MidfielderLines)
	ferrs = validateLines(ferrs, "forward_lines", in.ForwardLines)
	n := stats.PositionCount(in.DefenderLines, in.MidfielderLines, in.ForwardLines)
	if n < minPositions || n > maxPositions {
		ferrs = append(ferrs, FieldError{Field: "lines", Message: fmt.Sprintf("total positions must be in %d..%d, got %d", minPositions, maxPositions, n)})
	}
	if len(in.Roles) > n {
		ferrs = append(ferrs, FieldError{Field: "roles", Message: fmt.Sprintf("at most %d roles for this shape", n)})
	}
	for i, role := range in.Roles {
		if strings.EqualFold(strings.TrimSpace(role), stats.SubstituteRole) {
			ferrs = append(ferrs, FieldError{Field: fmt.Sprintf("roles[%d]", i), Message: stats.SubstituteRole + " is reserved for substitute minutes"})
		}
	}
	if err := newInvalidInput(ferrs); err != nil {
		s.log.Debug().Interface("field_errors", ferrs).Msg("formation validation failed")
		return model.Formation{}, err
	}

	roles := stats.BuildRoles(in.Roles, in.DefenderLines, in.MidfielderLines, in.ForwardLines)
	f := model.Formation{
		ID:              newID(),
		Name:            name,
		Type:            stats.ShapeType(in.DefenderLines, in.MidfielderLines, in.ForwardLines),
		DefenderLines:   nonNilInts(in.DefenderLines),
		MidfielderLines: nonNilInts(in.MidfielderLines),
		ForwardLines:    nonNilInts(in.ForwardLines),
		Roles:           roles,
		Goalkeeper:      roles[stats.PositionLabel(1)],
		CreatedAt:       now(),
	}
	f.UpdatedAt = f.CreatedAt

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		formations, err := repository.Load[model.Formation](ctx, s.store, repository.Formations)
		if err != nil {
			return err
		}
		for _, other := range formations {
			if strings.EqualFold(other.Name, f.Name) {
				return fmt.Errorf("formation %q: %w", f.Name, repository.ErrAlreadyExists)
			}
		}
		return repository.Save(ctx, s.store, repository.Formations, append(formations, f))
	})
	if err != nil {
		s.log.Error().Err(err).Str("name", f.Name).Msg("create formation failed")
		return model.Formation{}, err
	}
	s.log.Info().Dur("took", time.Since(start)).Str("formation_id", f.ID).Str("type", f.Type).Msg("formation created")
	return f, nil
}

// GetFormation returns the formation with its record derived live from the match log.
func (s *formationService) GetFormation(ctx context.Context, id string) (model.Formation, error) {
	if err := validID("id", id); err != nil {
		return model.Formation{}, err
	}
	formations, err := repository.Load[model.Formation](ctx, s.store, repository.Formations)
	if err != nil {
		return model.Formation{}, err
	}
	i := indexOf(formations, id, formationID)
	if i < 0 {
		return model.Formation{}, notFound("formation", id)
	}
	matches, err := repository.Load[model.Match](ctx, s.store, repository.Matches)
	if err != nil {
		return model.Formation{}, err
	}
	f := formations[i]
	f.Record = stats.AggregateFormation(f.ID, matches)
	return f, nil
}

func (s *formationService) ListFormations(ctx context.Context, page repository.Page) (repository.PageResult[model.Formation], error) {
	formations, err := repository.Load[model.Formation](ctx, s.store, repository.Formations)
	if err != nil {
		s.log.Error().Err(err).Msg("list formations failed")
		return repository.PageResult[model.Formation]{}, err
	}
	sort.SliceStable(formations, func(i, j int) bool {
		return strings.ToLower(formations[i].Name) < strings.ToLower(formations[j].Name)
	})
	return repository.Paginate(formations, page), nil
}

// DeleteFormation refuses while a match or a plan references the formation.
func (s *formationService) DeleteFormation(ctx context.Context, id string) error {
	if err := validID("id", id); err != nil {
		return err
	}
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		formations, err := repository.Load[model.Formation](ctx, s.store, repository.Formations)
		if err != nil {
			return err
		}
		i := indexOf(formations, id, formationID)
		if i < 0 {
			return notFound("formation", id)
		}
		matches, err := repository.Load[model.Match](ctx, s.store, repository.Matches)
		if err != nil {
			return err
		}
		for _, m := range matches {
			if m.FormationID == id {
				return fmt.Errorf("formation %q used by match %q: %w", id, m.ID, repository.ErrConflict)
			}
		}
		plans, err := repository.Load[model.MatchPlan](ctx, s.store, repository.MatchPlans)
		if err != nil {
			return err
		}
		for _, p := range plans {
			if p.FormationID == id {
				return fmt.Errorf("formation %q used by match plan %q: %w", id, p.ID, repository.ErrConflict)
			}
		}
		return repository.Save(ctx, s.store, repository.Formations, append(formations[:i], formations[i+1:]...))
	})
	if err != nil {
		s.log.Warn().Err(err).Str("formation_id", id).Msg("delete formation failed")
		return err
	}
	s.log.Info().Str("formation_id", id).Msg("formation deleted")
	return nil
}

func nonNilInts(v []int) []int {
	if v == nil {
		return []int{}
	}
	return v
}
