package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/maxviazov/squad-manager-service/internal/handler"
	"github.com/maxviazov/squad-manager-service/internal/model"
	"github.com/maxviazov/squad-manager-service/internal/repository"
	"github.com/maxviazov/squad-manager-service/internal/repository/local"
	"github.com/maxviazov/squad-manager-service/internal/service"
	"github.com/maxviazov/squad-manager-service/pkg/metrics"
	"github.com/maxviazov/squad-manager-service/pkg/response"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type api struct {
	t *testing.T
	r *gin.Engine
	m *metrics.Manager
}

func newAPI(t *testing.T) *api {
	t.Helper()
	gin.SetMode(gin.TestMode)
	store := local.NewMemory()
	logger := zerolog.New(io.Discard)
	m := metrics.NewManager()
	svcs := handler.Services{
		Players:    service.NewPlayerService(store, store, logger),
		Formations: service.NewFormationService(store, store, logger),
		Rivals:     service.NewRivalService(store, store, logger),
		Matches:    service.NewMatchService(store, store, m, logger),
		Plans:      service.NewMatchPlanService(store, store, logger),
		Insights:   service.NewInsightService(store, store, logger),
		Dashboard:  service.NewDashboardService(store, logger),
	}
	r := handler.NewRouter(handler.RouterConfig{
		Logger:      logger,
		Metrics:     m,
		CORSOrigins: []string{"http://localhost:5173"},
	}, store, svcs)
	return &api{t: t, r: r, m: m}
}

func (a *api) do(method, path string, body any) *httptest.ResponseRecorder {
	a.t.Helper()
	var rd io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rd = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(a.t, err)
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, handler.APIV1Prefix+path, rd)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	a.r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestAPI_MatchLifecycle(t *testing.T) {
	a := newAPI(t)

	w := a.do(http.MethodPost, "/players", map[string]any{"name": "Juan", "number": 2, "position": "defensor"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	juan := decode[model.Player](t, w)
	assert.Equal(t, model.PositionDefender, juan.Position)

	w = a.do(http.MethodPost, "/formations", map[string]any{
		"name": "Clásica", "defender_lines": []int{4}, "midfielder_lines": []int{4}, "forward_lines": []int{2},
		"roles": []string{"", "Lateral Derecho"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	fm := decode[model.Formation](t, w)
	assert.Equal(t, "1-4-4-2", fm.Type)

	w = a.do(http.MethodPost, "/rivals", map[string]any{"name": "Deportivo Sur"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	rv := decode[model.Rival](t, w)

	// bare-string scorers are accepted alongside the object form
	w = a.do(http.MethodPost, "/matches", `{
		"rival_id": "`+rv.ID+`", "date": "2024-03-02", "formation_id": "`+fm.ID+`",
		"score": {"home": 2, "away": 1},
		"lineup": {"Posición 2": "`+juan.ID+`"},
		"scorers": ["`+juan.ID+`", {"player_id": "`+juan.ID+`", "minute": 77}]
	}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	m := decode[model.Match](t, w)
	require.Len(t, m.Scorers, 2)

	w = a.do(http.MethodGet, "/players/"+juan.ID+"/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)
	agg := decode[model.PlayerAggregate](t, w)
	assert.Equal(t, 2, agg.Career.Goals)
	assert.Equal(t, 2, agg.Roles["Lateral Derecho"].Goals)

	w = a.do(http.MethodGet, "/players/"+juan.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, decode[model.Player](t, w).Stats.Goals)

	w = a.do(http.MethodGet, "/rivals/"+rv.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, decode[model.Rival](t, w).Record.Wins)

	w = a.do(http.MethodGet, "/dashboard", nil)
	require.Equal(t, http.StatusOK, w.Code)
	d := decode[model.Dashboard](t, w)
	assert.Equal(t, 100, d.WinRate)
	require.Len(t, d.Recent, 1)
	assert.Equal(t, "W", d.Recent[0].Result)

	w = a.do(http.MethodGet, "/matches?q=sur&limit=10", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, decode[repository.PageResult[model.Match]](t, w).Total)

	w = a.do(http.MethodDelete, "/players/"+juan.ID, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "conflict", decode[response.ErrorPayload](t, w).Error)

	w = a.do(http.MethodDelete, "/matches/"+m.ID, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = a.do(http.MethodGet, "/players/"+juan.ID, nil)
	assert.Equal(t, 0, decode[model.Player](t, w).Stats.Goals)

	w = a.do(http.MethodDelete, "/players/"+juan.ID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = a.do(http.MethodGet, "/players/"+juan.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAPI_Errors(t *testing.T) {
	a := newAPI(t)

	t.Run("malformed body", func(t *testing.T) {
		w := a.do(http.MethodPost, "/players", `{"name":`)
		require.Equal(t, http.StatusBadRequest, w.Code)
		body := decode[response.ErrorPayload](t, w)
		assert.Equal(t, "invalid_input", body.Error)
		require.Len(t, body.FieldErrors, 1)
		assert.Equal(t, "body", body.FieldErrors[0].Field)
	})

	t.Run("field errors", func(t *testing.T) {
		w := a.do(http.MethodPost, "/matches", map[string]any{"date": "yesterday"})
		require.Equal(t, http.StatusBadRequest, w.Code)
		fields := map[string]bool{}
		for _, fe := range decode[response.ErrorPayload](t, w).FieldErrors {
			fields[fe.Field] = true
		}
		assert.True(t, fields["rival_id"])
		assert.True(t, fields["formation_id"])
		assert.True(t, fields["date"])
	})

	t.Run("duplicate rival", func(t *testing.T) {
		require.Equal(t, http.StatusCreated, a.do(http.MethodPost, "/rivals", map[string]any{"name": "Unión"}).Code)
		w := a.do(http.MethodPost, "/rivals", map[string]any{"name": "UNIÓN"})
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "already_exists", decode[response.ErrorPayload](t, w).Error)
	})

	t.Run("not found", func(t *testing.T) {
		for _, path := range []string{"/players/x", "/formations/x", "/rivals/x", "/matches/x", "/match-plans/x", "/match-plans/x/suggestions", "/players/x/performance"} {
			w := a.do(http.MethodGet, path, nil)
			assert.Equal(t, http.StatusNotFound, w.Code, path)
		}
		assert.Equal(t, http.StatusNotFound, a.do(http.MethodDelete, "/insights/x", nil).Code)
	})

	t.Run("huge limit", func(t *testing.T) {
		require.Equal(t, http.StatusCreated, a.do(http.MethodPost, "/players", map[string]any{"name": "Juan", "number": 9, "position": "forward"}).Code)
		w := a.do(http.MethodGet, "/players?limit=9223372036854775807&offset=1", nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		page := decode[repository.PageResult[model.Player]](t, w)
		assert.Equal(t, 1, page.Total)
		assert.Empty(t, page.Items)
	})
}

func TestAPI_NotesPlansAndInsights(t *testing.T) {
	a := newAPI(t)
	rv := decode[model.Rival](t, a.do(http.MethodPost, "/rivals", map[string]any{"name": "Atlético Norte"}))

	w := a.do(http.MethodPost, "/rivals/"+rv.ID+"/notes", map[string]any{"note": "Juegan al contragolpe"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, []string{"Juegan al contragolpe"}, decode[model.Rival](t, w).Notes)

	fm := decode[model.Formation](t, a.do(http.MethodPost, "/formations", map[string]any{
		"name": "Mini", "defender_lines": []int{1},
	}))
	gk := decode[model.Player](t, a.do(http.MethodPost, "/players", map[string]any{"name": "Luis", "number": 1, "position": "gk"}))
	def := decode[model.Player](t, a.do(http.MethodPost, "/players", map[string]any{"name": "Ana", "number": 4, "position": "defender"}))
	bench := decode[model.Player](t, a.do(http.MethodPost, "/players", map[string]any{"name": "Bruno", "number": 5, "position": "defender"}))

	w = a.do(http.MethodPost, "/match-plans", map[string]any{
		"rival_id": rv.ID, "formation_id": fm.ID,
		"lineup": map[string]string{"Posición 1": gk.ID, "Posición 2": def.ID},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	plan := decode[model.MatchPlan](t, w)

	w = a.do(http.MethodGet, "/match-plans/"+plan.ID+"/suggestions", nil)
	require.Equal(t, http.StatusOK, w.Code)
	sugg := decode[model.PlanSuggestions](t, w)
	require.Len(t, sugg.Lineup, 2)
	require.Len(t, sugg.Substitutes, 1)
	assert.Equal(t, bench.ID, sugg.Substitutes[0].PlayerID)

	w = a.do(http.MethodGet, "/match-plans", nil)
	assert.Equal(t, 1, decode[repository.PageResult[model.MatchPlan]](t, w).Total)
	assert.Equal(t, http.StatusNoContent, a.do(http.MethodDelete, "/match-plans/"+plan.ID, nil).Code)

	w = a.do(http.MethodPost, "/insights", map[string]any{"text": "Mejor con dos puntas"})
	require.Equal(t, http.StatusCreated, w.Code)
	saved := decode[model.SavedInsight](t, w)
	w = a.do(http.MethodGet, "/insights", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]model.SavedInsight](t, w), 1)
	assert.Equal(t, http.StatusNoContent, a.do(http.MethodDelete, "/insights/"+saved.ID, nil).Code)
}

func TestAPI_MetricsAndCORS(t *testing.T) {
	a := newAPI(t)
	a.do(http.MethodGet, "/players", nil)
	a.do(http.MethodGet, "/players/missing", nil)

	w := httptest.NewRecorder()
	a.r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `squad_http_requests_total{method="GET",route="/api/v1/players",status="200"} 1`)
	assert.Contains(t, body, `route="/api/v1/players/:id",status="404"`)

	req := httptest.NewRequest(http.MethodOptions, handler.APIV1Prefix+"/players", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w = httptest.NewRecorder()
	a.r.ServeHTTP(w, req)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
}

// failingDashboard lets the aggregate path surface store errors.
type failingDashboard struct{ err error }

func (f failingDashboard) GetDashboard(context.Context) (model.Dashboard, error) {
	return model.Dashboard{}, f.err
}

func TestAPI_AggregateErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		name string
		err  error
		code int
		want string
	}{
		{"corrupt", repository.ErrCorrupt, http.StatusInternalServerError, "corrupt_data"},
		{"timeout", context.DeadlineExceeded, http.StatusGatewayTimeout, "timeout"},
		{"other", errors.New("boom"), http.StatusInternalServerError, "internal_error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := gin.New()
			handler.Register(r, stubPinger{}, handler.Services{Dashboard: failingDashboard{err: tc.err}})
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/dashboard", nil))
			assert.Equal(t, tc.code, w.Code)
			assert.Equal(t, tc.want, decode[response.ErrorPayload](t, w).Error)
		})
	}
}
