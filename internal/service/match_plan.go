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

type matchPlanService struct {
	store repository.Store
	tx    repository.TxManager
	log   zerolog.Logger
}

func NewMatchPlanService(store repository.Store, tx repository.TxManager, logger zerolog.Logger) MatchPlanService {
	l := logger.With().Str("module", "service").Str("component", "match_plan").Logger()
	return &matchPlanService{store: store, tx: tx, log: l}
}

// CreatePlan stores a proposed lineup. Unlike a recorded match, a plan must fill every
// position of its formation.
func (s *matchPlanService) CreatePlan(ctx context.Context, in MatchPlanInput) (model.MatchPlan, error) {
	start := time.Now()
	p := model.MatchPlan{
		RivalID:     strings.TrimSpace(in.RivalID),
		FormationID: strings.TrimSpace(in.FormationID),
		Lineup:      make(map[string]string, len(in.Lineup)),
		Notes:       strings.TrimSpace(in.Notes),
	}
	for pos, id := range in.Lineup {
		p.Lineup[strings.TrimSpace(pos)] = strings.TrimSpace(id)
	}

	var ferrs []FieldError
	if p.RivalID == "" {
		ferrs = append(ferrs, FieldError{Field: "rival_id", Message: "must not be empty"})
	}
	if p.FormationID == "" {
		ferrs = append(ferrs, FieldError{Field: "formation_id", Message: "must not be empty"})
	}
	if len([]rune(p.Notes)) > maxNoteLength {
		ferrs = append(ferrs, FieldError{Field: "notes", Message: fmt.Sprintf("length must be <= %d", maxNoteLength)})
	}
	if err := newInvalidInput(ferrs); err != nil {
		return model.MatchPlan{}, err
	}

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		rivals, err := repository.Load[model.Rival](ctx, s.store, repository.Rivals)
		if err != nil {
			return err
		}
		formations, err := repository.Load[model.Formation](ctx, s.store, repository.Formations)
		if err != nil {
			return err
		}
		var refErrs []FieldError
		if indexOf(rivals, p.RivalID, rivalID) < 0 {
			refErrs = append(refErrs, FieldError{Field: "rival_id", Message: "rival does not exist"})
		}
		if fi := indexOf(formations, p.FormationID, formationID); fi < 0 {
			refErrs = append(refErrs, FieldError{Field: "formation_id", Message: "formation does not exist"})
		} else {
			f := formations[fi]
			n := stats.PositionCount(f.DefenderLines, f.MidfielderLines, f.ForwardLines)
			refErrs = validateLineup(refErrs, p.Lineup, n, true)
		}
		if err := newInvalidInput(refErrs); err != nil {
			return err
		}

		plans, err := repository.Load[model.MatchPlan](ctx, s.store, repository.MatchPlans)
		if err != nil {
			return err
		}
		p.ID = newID()
		p.CreatedAt = now()
		return repository.Save(ctx, s.store, repository.MatchPlans, append(plans, p))
	})
	if err != nil {
		s.log.Error().Err(err).Str("rival_id", p.RivalID).Msg("create match plan failed")
		return model.MatchPlan{}, err
	}
	s.log.Info().Dur("took", time.Since(start)).Str("plan_id", p.ID).Msg("match plan created")
	return p, nil
}

func (s *matchPlanService) GetPlan(ctx context.Context, id string) (model.MatchPlan, error) {
	if err := validID("id", id); err != nil {
		return model.MatchPlan{}, err
	}
	plans, err := repository.Load[model.MatchPlan](ctx, s.store, repository.MatchPlans)
	if err != nil {
		return model.MatchPlan{}, err
	}
	i := indexOf(plans, id, planID)
	if i < 0 {
		return model.MatchPlan{}, notFound("match plan", id)
	}
	return plans[i], nil
}

// ListPlans returns plans newest first.
func (s *matchPlanService) ListPlans(ctx context.Context, page repository.Page) (repository.PageResult[model.MatchPlan], error) {
	plans, err := repository.Load[model.MatchPlan](ctx, s.store, repository.MatchPlans)
	if err != nil {
		s.log.Error().Err(err).Msg("list match plans failed")
		return repository.PageResult[model.MatchPlan]{}, err
	}
	sort.SliceStable(plans, func(i, j int) bool { return plans[i].CreatedAt.After(plans[j].CreatedAt) })
	return repository.Paginate(plans, page), nil
}

func (s *matchPlanService) DeletePlan(ctx context.Context, id string) error {
	if err := validID("id", id); err != nil {
		return err
	}
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		plans, err := repository.Load[model.MatchPlan](ctx, s.store, repository.MatchPlans)
		if err != nil {
			return err
		}
		i := indexOf(plans, id, planID)
		if i < 0 {
			return notFound("match plan", id)
		}
		return repository.Save(ctx, s.store, repository.MatchPlans, append(plans[:i], plans[i+1:]...))
	})
	if err != nil {
		s.log.Warn().Err(err).Str("plan_id", id).Msg("delete match plan failed")
		return err
	}
	s.log.Info().Str("plan_id", id).Msg("match plan deleted")
	return nil
}

// Suggestions pairs each planned starter with their record as a starter and proposes bench
// players from the rest of the roster.
func (s *matchPlanService) Suggestions(ctx context.Context, id string) (model.PlanSuggestions, error) {
	start := time.Now()
	plan, err := s.GetPlan(ctx, id)
	if err != nil {
		return model.PlanSuggestions{}, err
	}
	snap, err := loadSnapshot(ctx, s.store)
	if err != nil {
		return model.PlanSuggestions{}, err
	}
	var formation model.Formation
	if fi := indexOf(snap.formations, plan.FormationID, formationID); fi >= 0 {
		formation = snap.formations[fi]
	}
	out := model.PlanSuggestions{
		PlanID:      plan.ID,
		Lineup:      stats.LineupInsights(plan.Lineup, formation, snap.matches),
		Substitutes: stats.SuggestSubstitutes(plan.Lineup, snap.players, snap.matches),
	}
	s.log.Debug().Dur("took", time.Since(start)).Str("plan_id", plan.ID).Int("substitutes", len(out.Substitutes)).Msg("plan suggestions built")
	return out, nil
}
