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

type rivalService struct {
	store repository.Store
	tx    repository.TxManager
	log   zerolog.Logger
}

func NewRivalService(store repository.Store, tx repository.TxManager, logger zerolog.Logger) RivalService {
	l := logger.With().Str("module", "service").Str("component", "rival").Logger()
	return &rivalService{store: store, tx: tx, log: l}
}

func (s *rivalService) CreateRival(ctx context.Context, in RivalInput) (model.Rival, error) {
	start := time.Now()
	r := model.Rival{
		Name:           strings.TrimSpace(in.Name),
		Logo:           in.Logo,
		HomeGround:     strings.TrimSpace(in.HomeGround),
		PrimaryColor:   strings.TrimSpace(in.PrimaryColor),
		SecondaryColor: strings.TrimSpace(in.SecondaryColor),
		Notes:          []string{},
		Record:         model.RivalRecord{Matches: []model.RivalMatchSummary{}},
	}
	if err := newInvalidInput(validateName(nil, "name", r.Name)); err != nil {
		return model.Rival{}, err
	}
	r.ID = newID()
	r.CreatedAt = now()
	r.UpdatedAt = r.CreatedAt

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		rivals, err := repository.Load[model.Rival](ctx, s.store, repository.Rivals)
		if err != nil {
			return err
		}
		for _, other := range rivals {
			if strings.EqualFold(other.Name, r.Name) {
				return fmt.Errorf("rival %q: %w", r.Name, repository.ErrAlreadyExists)
			}
		}
		return repository.Save(ctx, s.store, repository.Rivals, append(rivals, r))
	})
	if err != nil {
		s.log.Error().Err(err).Str("name", r.Name).Msg("create rival failed")
		return model.Rival{}, err
	}
	s.log.Info().Dur("took", time.Since(start)).Str("rival_id", r.ID).Msg("rival created")
	return r, nil
}

// GetRival returns the rival with its head-to-head record re-derived from the match log.
func (s *rivalService) GetRival(ctx context.Context, id string) (model.Rival, error) {
	if err := validID("id", id); err != nil {
		return model.Rival{}, err
	}
	rivals, err := repository.Load[model.Rival](ctx, s.store, repository.Rivals)
	if err != nil {
		return model.Rival{}, err
	}
	i := indexOf(rivals, id, rivalID)
	if i < 0 {
		return model.Rival{}, notFound("rival", id)
	}
	matches, err := repository.Load[model.Match](ctx, s.store, repository.Matches)
	if err != nil {
		return model.Rival{}, err
	}
	r := rivals[i]
	r.Record = stats.AggregateRival(r.ID, matches)
	return r, nil
}

func (s *rivalService) ListRivals(ctx context.Context, query string, page repository.Page) (repository.PageResult[model.Rival], error) {
	rivals, err := repository.Load[model.Rival](ctx, s.store, repository.Rivals)
	if err != nil {
		s.log.Error().Err(err).Msg("list rivals failed")
		return repository.PageResult[model.Rival]{}, err
	}
	query = strings.TrimSpace(query)
	filtered := make([]model.Rival, 0, len(rivals))
	for _, r := range rivals {
		if query == "" || containsFold(r.Name, query) {
			filtered = append(filtered, r)
		}
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		return strings.ToLower(filtered[i].Name) < strings.ToLower(filtered[j].Name)
	})
	return repository.Paginate(filtered, page), nil
}

// AddNote appends a scouting note. Notes are never edited in place.
func (s *rivalService) AddNote(ctx context.Context, id, note string) (model.Rival, error) {
	note = strings.TrimSpace(note)
	var ferrs []FieldError
	if strings.TrimSpace(id) == "" {
		ferrs = append(ferrs, FieldError{Field: "id", Message: "must not be empty"})
	}
	if note == "" {
		ferrs = append(ferrs, FieldError{Field: "note", Message: "must not be empty"})
	} else if len([]rune(note)) > maxNoteLength {
		ferrs = append(ferrs, FieldError{Field: "note", Message: fmt.Sprintf("length must be <= %d", maxNoteLength)})
	}
	if err := newInvalidInput(ferrs); err != nil {
		return model.Rival{}, err
	}

	var out model.Rival
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		rivals, err := repository.Load[model.Rival](ctx, s.store, repository.Rivals)
		if err != nil {
			return err
		}
		i := indexOf(rivals, id, rivalID)
		if i < 0 {
			return notFound("rival", id)
		}
		rivals[i].Notes = append(rivals[i].Notes, note)
		rivals[i].UpdatedAt = now()
		out = rivals[i]
		return repository.Save(ctx, s.store, repository.Rivals, rivals)
	})
	if err != nil {
		s.log.Warn().Err(err).Str("rival_id", id).Msg("add note failed")
		return model.Rival{}, err
	}
	return out, nil
}

// DeleteRival refuses while a match or a plan references the rival.
func (s *rivalService) DeleteRival(ctx context.Context, id string) error {
	if err := validID("id", id); err != nil {
		return err
	}
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		rivals, err := repository.Load[model.Rival](ctx, s.store, repository.Rivals)
		if err != nil {
			return err
		}
		i := indexOf(rivals, id, rivalID)
		if i < 0 {
			return notFound("rival", id)
		}
		matches, err := repository.Load[model.Match](ctx, s.store, repository.Matches)
		if err != nil {
			return err
		}
		for _, m := range matches {
			if m.RivalID == id {
				return fmt.Errorf("rival %q has match %q: %w", id, m.ID, repository.ErrConflict)
			}
		}
		plans, err := repository.Load[model.MatchPlan](ctx, s.store, repository.MatchPlans)
		if err != nil {
			return err
		}
		for _, p := range plans {
			if p.RivalID == id {
				return fmt.Errorf("rival %q has match plan %q: %w", id, p.ID, repository.ErrConflict)
			}
		}
		return repository.Save(ctx, s.store, repository.Rivals, append(rivals[:i], rivals[i+1:]...))
	})
	if err != nil {
		s.log.Warn().Err(err).Str("rival_id", id).Msg("delete rival failed")
		return err
	}
	s.log.Info().Str("rival_id", id).Msg("rival deleted")
	return nil
}
