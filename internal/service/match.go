package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/maxviazov/squad-manager-service/internal/model"
	"github.com/maxviazov/squad-manager-service/internal/repository"
	"github.com/maxviazov/squad-manager-service/internal/stats"
	"github.com/rs/zerolog"
)

// MatchObserver is told about changes to the match log. metrics.Manager implements it.
type MatchObserver interface {
	MatchRecorded()
	MatchDeleted()
	AggregatesRebuilt(took time.Duration)
}

type noopObserver struct{}

func (noopObserver) MatchRecorded()                  {}
func (noopObserver) MatchDeleted()                   {}
func (noopObserver) AggregatesRebuilt(time.Duration) {}

type matchService struct {
	store repository.Store
	tx    repository.TxManager
	obs   MatchObserver
	log   zerolog.Logger
}

// NewMatchService wires the match recorder. A nil observer is allowed.
func NewMatchService(store repository.Store, tx repository.TxManager, obs MatchObserver, logger zerolog.Logger) MatchService {
	if obs == nil {
		obs = noopObserver{}
	}
	l := logger.With().Str("module", "service").Str("component", "match").Logger()
	return &matchService{store: store, tx: tx, obs: obs, log: l}
}

// RecordMatch validates the result, appends it to the log and recomputes every materialized
// aggregate from the full log, all inside one unit of work.
func (s *matchService) RecordMatch(ctx context.Context, in MatchInput) (model.Match, error) {
	start := time.Now()
	m := normalizeMatch(in)

	ferrs := validateMatch(m)
	if err := newInvalidInput(ferrs); err != nil {
		s.log.Debug().Interface("field_errors", ferrs).Msg("match validation failed")
		return model.Match{}, err
	}

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		snap, err := loadSnapshot(ctx, s.store)
		if err != nil {
			return err
		}

		// References must resolve before anything is written.
		var refErrs []FieldError
		if indexOf(snap.rivals, m.RivalID, rivalID) < 0 {
			refErrs = append(refErrs, FieldError{Field: "rival_id", Message: "rival does not exist"})
		}
		fi := indexOf(snap.formations, m.FormationID, formationID)
		if fi < 0 {
			refErrs = append(refErrs, FieldError{Field: "formation_id", Message: "formation does not exist"})
		} else {
			f := snap.formations[fi]
			n := stats.PositionCount(f.DefenderLines, f.MidfielderLines, f.ForwardLines)
			refErrs = validateLineup(refErrs, m.Lineup, n, false)
		}
		if err := newInvalidInput(refErrs); err != nil {
			return err
		}

		m.ID = newID()
		m.CreatedAt = now()
		snap.matches = append(snap.matches, m)

		s.rebuild(&snap)
		return snap.save(ctx, s.store)
	})
	if err != nil {
		s.log.Error().Err(err).Str("rival_id", m.RivalID).Str("date", m.Date).Msg("record match failed")
		return model.Match{}, err
	}
	s.obs.MatchRecorded()
	s.log.Info().Dur("took", time.Since(start)).Str("match_id", m.ID).Str("rival_id", m.RivalID).
		Int("home", m.Score.Home).Int("away", m.Score.Away).Msg("match recorded")
	return m, nil
}

func (s *matchService) GetMatch(ctx context.Context, id string) (model.Match, error) {
	if err := validID("id", id); err != nil {
		return model.Match{}, err
	}
	matches, err := repository.Load[model.Match](ctx, s.store, repository.Matches)
	if err != nil {
		return model.Match{}, err
	}
	i := indexOf(matches, id, matchID)
	if i < 0 {
		return model.Match{}, notFound("match", id)
	}
	return matches[i], nil
}

// ListMatches returns matches newest first. The query matches a substring of the rival's
// name or of the date.
func (s *matchService) ListMatches(ctx context.Context, query string, page repository.Page) (repository.PageResult[model.Match], error) {
	matches, err := repository.Load[model.Match](ctx, s.store, repository.Matches)
	if err != nil {
		s.log.Error().Err(err).Msg("list matches failed")
		return repository.PageResult[model.Match]{}, err
	}
	query = strings.TrimSpace(query)
	if query != "" {
		rivals, err := repository.Load[model.Rival](ctx, s.store, repository.Rivals)
		if err != nil {
			return repository.PageResult[model.Match]{}, err
		}
		names := make(map[string]string, len(rivals))
		for _, r := range rivals {
			names[r.ID] = r.Name
		}
		filtered := matches[:0]
		for _, m := range matches {
			if containsFold(names[m.RivalID], query) || strings.Contains(m.Date, query) {
				filtered = append(filtered, m)
			}
		}
		matches = filtered
	}
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Date != matches[j].Date {
			return matches[i].Date > matches[j].Date
		}
		return matches[i].CreatedAt.After(matches[j].CreatedAt)
	})
	return repository.Paginate(matches, page), nil
}

// DeleteMatch removes the match and recomputes aggregates so nothing it contributed remains.
func (s *matchService) DeleteMatch(ctx context.Context, id string) error {
	if err := validID("id", id); err != nil {
		return err
	}
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		snap, err := loadSnapshot(ctx, s.store)
		if err != nil {
			return err
		}
		i := indexOf(snap.matches, id, matchID)
		if i < 0 {
			return notFound("match", id)
		}
		snap.matches = append(snap.matches[:i], snap.matches[i+1:]...)
		s.rebuild(&snap)
		return snap.save(ctx, s.store)
	})
	if err != nil {
		s.log.Warn().Err(err).Str("match_id", id).Msg("delete match failed")
		return err
	}
	s.obs.MatchDeleted()
	s.log.Info().Str("match_id", id).Msg("match deleted")
	return nil
}

func (s *matchService) rebuild(snap *snapshot) {
	start := time.Now()
	snap.rebuild()
	took := time.Since(start)
	s.obs.AggregatesRebuilt(took)
	s.log.Debug().Dur("took", took).Int("matches", len(snap.matches)).Int("players", len(snap.players)).Msg("aggregates rebuilt")
}

func normalizeMatch(in MatchInput) model.Match {
	m := model.Match{
		RivalID:      strings.TrimSpace(in.RivalID),
		Date:         strings.TrimSpace(in.Date),
		Venue:        strings.ToLower(strings.TrimSpace(in.Venue)),
		Score:        in.Score,
		FormationID:  strings.TrimSpace(in.FormationID),
		Lineup:       map[string]string{},
		Scorers:      make([]model.Goal, 0, len(in.Scorers)),
		Assists:      make([]string, 0, len(in.Assists)),
		Cards:        make([]model.Card, 0, len(in.Cards)),
		Subs:         make([]model.Substitution, 0, len(in.Subs)),
		ShotsFor:     in.ShotsFor,
		ShotsAgainst: in.ShotsAgainst,
	}
	for pos, id := range in.Lineup {
		m.Lineup[strings.TrimSpace(pos)] = strings.TrimSpace(id)
	}
	for _, g := range in.Scorers {
		g.PlayerID = strings.TrimSpace(g.PlayerID)
		m.Scorers = append(m.Scorers, g)
	}
	for _, a := range in.Assists {
		m.Assists = append(m.Assists, strings.TrimSpace(a))
	}
	for _, c := range in.Cards {
		m.Cards = append(m.Cards, model.Card{PlayerID: strings.TrimSpace(c.PlayerID), Type: strings.ToLower(strings.TrimSpace(c.Type))})
	}
	for _, sub := range in.Subs {
		m.Subs = append(m.Subs, model.Substitution{
			PlayerOut: strings.TrimSpace(sub.PlayerOut),
			PlayerIn:  strings.TrimSpace(sub.PlayerIn),
			Minute:    sub.Minute,
		})
	}
	return m
}

// validateMatch covers the checks that need no stored data.
func validateMatch(m model.Match) []FieldError {
	var ferrs []FieldError
	if m.RivalID == "" {
		ferrs = append(ferrs, FieldError{Field: "rival_id", Message: "must not be empty"})
	}
	if m.FormationID == "" {
		ferrs = append(ferrs, FieldError{Field: "formation_id", Message: "must not be empty"})
	}
	if m.Date == "" {
		ferrs = append(ferrs, FieldError{Field: "date", Message: "must not be empty"})
	} else if !isValidDate(m.Date) {
		ferrs = append(ferrs, FieldError{Field: "date", Message: "must be in YYYY-MM-DD format"})
	}
	if !isValidVenue(m.Venue) {
		ferrs = append(ferrs, FieldError{Field: "venue", Message: "must be one of home, away, neutral"})
	}
	if m.Score.Home < 0 {
		ferrs = append(ferrs, FieldError{Field: "score.home", Message: "must be >= 0"})
	}
	if m.Score.Away < 0 {
		ferrs = append(ferrs, FieldError{Field: "score.away", Message: "must be >= 0"})
	}
	if m.ShotsFor < 0 {
		ferrs = append(ferrs, FieldError{Field: "shots_for", Message: "must be >= 0"})
	}
	if m.ShotsAgainst < 0 {
		ferrs = append(ferrs, FieldError{Field: "shots_against", Message: "must be >= 0"})
	}
	return validateEvents(ferrs, MatchInput{Scorers: m.Scorers, Assists: m.Assists, Cards: m.Cards, Subs: m.Subs})
}
