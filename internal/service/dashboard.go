package service

import (
	"context"
	"time"

	"github.com/maxviazov/squad-manager-service/internal/model"
	"github.com/maxviazov/squad-manager-service/internal/repository"
	"github.com/maxviazov/squad-manager-service/internal/stats"
	"github.com/rs/zerolog"
)

type dashboardService struct {
	store repository.Store
	log   zerolog.Logger
}

// NewDashboardService builds the read-only team overview. It never writes, so it takes no TxManager.
func NewDashboardService(store repository.Store, logger zerolog.Logger) DashboardService {
	l := logger.With().Str("module", "service").Str("component", "dashboard").Logger()
	return &dashboardService{store: store, log: l}
}

func (s *dashboardService) GetDashboard(ctx context.Context) (model.Dashboard, error) {
	start := time.Now()
	players, err := repository.Load[model.Player](ctx, s.store, repository.Players)
	if err != nil {
		s.log.Error().Err(err).Msg("load players failed")
		return model.Dashboard{}, err
	}
	matches, err := repository.Load[model.Match](ctx, s.store, repository.Matches)
	if err != nil {
		s.log.Error().Err(err).Msg("load matches failed")
		return model.Dashboard{}, err
	}
	d := stats.BuildDashboard(players, matches)
	s.log.Debug().Dur("took", time.Since(start)).Int("matches", d.MatchesPlayed).Msg("dashboard built")
	return d, nil
}
