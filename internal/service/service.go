// Package service holds business logic orchestration across the record store and handlers.
// Kept intentionally lean: only use-case coordination, validation and domain error shaping.
// Aggregation itself lives in the stats package.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/maxviazov/squad-manager-service/internal/model"
	"github.com/maxviazov/squad-manager-service/internal/repository"
)

// ErrInvalidInput is the marker error for aggregated validation failures (maps to HTTP 400).
// Field-level details are retrieved via FieldErrors(err).
var ErrInvalidInput = errors.New("invalid input")

// FieldError describes a single invalid field in a client request.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// invalidInputError aggregates multiple FieldError instances and unwraps to ErrInvalidInput.
type invalidInputError struct {
	fields []FieldError
}

func (e *invalidInputError) Error() string        { return ErrInvalidInput.Error() }
func (e *invalidInputError) Unwrap() error        { return ErrInvalidInput }
func (e *invalidInputError) Fields() []FieldError { return e.fields }

// newInvalidInput builds an aggregated validation error if any field errors are present.
func newInvalidInput(fe []FieldError) error {
	if len(fe) == 0 { // protective case
		return nil
	}
	return &invalidInputError{fields: fe}
}

// NewInvalidInputError lets the transport layer report its own field errors (bad path ids,
// unparsable bodies) through the same envelope.
func NewInvalidInputError(fe []FieldError) error {
	if len(fe) == 0 {
		return ErrInvalidInput
	}
	return newInvalidInput(fe)
}

// FieldErrors extracts field errors from an aggregated validation error, wrapped or not.
func FieldErrors(err error) []FieldError {
	var ie *invalidInputError
	if errors.As(err, &ie) {
		return ie.Fields()
	}
	return nil
}

// Hooks for tests; production uses wall clock and random UUIDs.
var (
	now   = func() time.Time { return time.Now().UTC() }
	newID = uuid.NewString
)

// PlayerService defines roster use cases.
type PlayerService interface {
	CreatePlayer(ctx context.Context, in PlayerInput) (model.Player, error)
	GetPlayer(ctx context.Context, id string) (model.Player, error)
	ListPlayers(ctx context.Context, query string, page repository.Page) (repository.PageResult[model.Player], error)
	DeletePlayer(ctx context.Context, id string) error
	// GetPlayerStats derives the player's aggregate live from the match log.
	GetPlayerStats(ctx context.Context, id string) (model.PlayerAggregate, error)
	// GetPlayerPerformance splits the team record by the player's participation.
	GetPlayerPerformance(ctx context.Context, id string) (model.PerformanceSplit, error)
}

// FormationService defines tactical formation use cases.
type FormationService interface {
	CreateFormation(ctx context.Context, in FormationInput) (model.Formation, error)
	GetFormation(ctx context.Context, id string) (model.Formation, error)
	ListFormations(ctx context.Context, page repository.Page) (repository.PageResult[model.Formation], error)
	DeleteFormation(ctx context.Context, id string) error
}

// RivalService defines opponent use cases.
type RivalService interface {
	CreateRival(ctx context.Context, in RivalInput) (model.Rival, error)
	GetRival(ctx context.Context, id string) (model.Rival, error)
	ListRivals(ctx context.Context, query string, page repository.Page) (repository.PageResult[model.Rival], error)
	AddNote(ctx context.Context, id, note string) (model.Rival, error)
	DeleteRival(ctx context.Context, id string) error
}

// MatchService is the write path of the match log.
type MatchService interface {
	RecordMatch(ctx context.Context, in MatchInput) (model.Match, error)
	GetMatch(ctx context.Context, id string) (model.Match, error)
	ListMatches(ctx context.Context, query string, page repository.Page) (repository.PageResult[model.Match], error)
	DeleteMatch(ctx context.Context, id string) error
}

// MatchPlanService defines match planning use cases.
type MatchPlanService interface {
	CreatePlan(ctx context.Context, in MatchPlanInput) (model.MatchPlan, error)
	GetPlan(ctx context.Context, id string) (model.MatchPlan, error)
	ListPlans(ctx context.Context, page repository.Page) (repository.PageResult[model.MatchPlan], error)
	DeletePlan(ctx context.Context, id string) error
	Suggestions(ctx context.Context, id string) (model.PlanSuggestions, error)
}

// InsightService manages saved free-text insights.
type InsightService interface {
	ListInsights(ctx context.Context) ([]model.SavedInsight, error)
	SaveInsight(ctx context.Context, text string) (model.SavedInsight, error)
	DeleteInsight(ctx context.Context, id string) error
}

// DashboardService builds the team overview.
type DashboardService interface {
	GetDashboard(ctx context.Context) (model.Dashboard, error)
}
