package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/maxviazov/squad-manager-service/internal/model"
	"github.com/maxviazov/squad-manager-service/internal/repository"
	"github.com/rs/zerolog"
)

type insightService struct {
	store repository.Store
	tx    repository.TxManager
	log   zerolog.Logger
}

func NewInsightService(store repository.Store, tx repository.TxManager, logger zerolog.Logger) InsightService {
	l := logger.With().Str("module", "service").Str("component", "insight").Logger()
	return &insightService{store: store, tx: tx, log: l}
}

// ListInsights returns saved insights newest first.
func (s *insightService) ListInsights(ctx context.Context) ([]model.SavedInsight, error) {
	items, err := repository.Load[model.SavedInsight](ctx, s.store, repository.SavedInsights)
	if err != nil {
		s.log.Error().Err(err).Msg("list insights failed")
		return nil, err
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].CreatedAt.After(items[j].CreatedAt) })
	return items, nil
}

func (s *insightService) SaveInsight(ctx context.Context, text string) (model.SavedInsight, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return model.SavedInsight{}, newInvalidInput([]FieldError{{Field: "text", Message: "must not be empty"}})
	}
	if len([]rune(text)) > maxNoteLength {
		return model.SavedInsight{}, newInvalidInput([]FieldError{{Field: "text", Message: fmt.Sprintf("length must be <= %d", maxNoteLength)}})
	}
	in := model.SavedInsight{ID: newID(), Text: text, CreatedAt: now()}

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		items, err := repository.Load[model.SavedInsight](ctx, s.store, repository.SavedInsights)
		if err != nil {
			return err
		}
		return repository.Save(ctx, s.store, repository.SavedInsights, append(items, in))
	})
	if err != nil {
		s.log.Error().Err(err).Msg("save insight failed")
		return model.SavedInsight{}, err
	}
	s.log.Info().Str("insight_id", in.ID).Msg("insight saved")
	return in, nil
}

func (s *insightService) DeleteInsight(ctx context.Context, id string) error {
	if err := validID("id", id); err != nil {
		return err
	}
	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		items, err := repository.Load[model.SavedInsight](ctx, s.store, repository.SavedInsights)
		if err != nil {
			return err
		}
		i := indexOf(items, id, insightID)
		if i < 0 {
			return notFound("insight", id)
		}
		return repository.Save(ctx, s.store, repository.SavedInsights, append(items[:i], items[i+1:]...))
	})
}
