// Package contract holds behavior suites every record store driver must pass.
package contract

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/maxviazov/squad-manager-service/internal/model"
	"github.com/maxviazov/squad-manager-service/internal/repository"
)

// DriverFactory builds a fresh, empty driver and its cleanup.
type DriverFactory func(t *testing.T) (repository.Driver, func())

// RunDriverContract runs every suite below against the driver.
func RunDriverContract(t *testing.T, makeDriver DriverFactory) {
	t.Helper()
	t.Run("store", func(t *testing.T) { RunStoreContract(t, makeDriver) })
	t.Run("round_trip", func(t *testing.T) { RunRoundTripContract(t, makeDriver) })
	t.Run("tx", func(t *testing.T) { RunTxManagerContract(t, makeDriver) })
	t.Run("ping", func(t *testing.T) { RunPingerContract(t, makeDriver) })
}

func RunStoreContract(t *testing.T, makeDriver DriverFactory) {
	t.Helper()

	t.Run("missing_collection_reads_empty", func(t *testing.T) {
		d, cleanup := makeDriver(t)
		t.Cleanup(cleanup)
		for _, c := range repository.Collections() {
			items, err := repository.Load[map[string]any](context.Background(), d, c)
			if err != nil {
				t.Fatalf("load %s: %v", c, err)
			}
			if items == nil || len(items) != 0 {
				t.Fatalf("expected empty non-nil slice for %s, got %#v", c, items)
			}
		}
	})

	t.Run("put_overwrites", func(t *testing.T) {
		d, cleanup := makeDriver(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		if err := repository.Save(ctx, d, repository.SavedInsights, []model.SavedInsight{{ID: "a", Text: "one"}}); err != nil {
			t.Fatalf("save1: %v", err)
		}
		if err := repository.Save(ctx, d, repository.SavedInsights, []model.SavedInsight{{ID: "b", Text: "two"}, {ID: "c", Text: "three"}}); err != nil {
			t.Fatalf("save2: %v", err)
		}
		got, err := repository.Load[model.SavedInsight](ctx, d, repository.SavedInsights)
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		if len(got) != 2 || got[0].ID != "b" || got[1].ID != "c" {
			t.Fatalf("last write should win, got %#v", got)
		}
	})

	t.Run("corrupt_payload", func(t *testing.T) {
		d, cleanup := makeDriver(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		if err := d.Put(ctx, repository.Players, []byte(`[{"id": 1`)); err != nil {
			// Drivers validating JSON on write may reject it up front.
			if !errors.Is(err, repository.ErrCorrupt) {
				t.Fatalf("expected ErrCorrupt on write, got %v", err)
			}
			return
		}
		_, err := repository.Load[model.Player](ctx, d, repository.Players)
		if !errors.Is(err, repository.ErrCorrupt) {
			t.Fatalf("expected ErrCorrupt, got %v", err)
		}
	})

	t.Run("unknown_collection", func(t *testing.T) {
		d, cleanup := makeDriver(t)
		t.Cleanup(cleanup)
		if _, err := d.Get(context.Background(), repository.Collection("teams")); !errors.Is(err, repository.ErrUnknownCollection) {
			t.Fatalf("expected ErrUnknownCollection, got %v", err)
		}
	})
}

// RunRoundTripContract checks that every collection type survives a save and load unchanged.
func RunRoundTripContract(t *testing.T, makeDriver DriverFactory) {
	t.Helper()
	now := time.Date(2024, 3, 1, 18, 30, 0, 0, time.UTC)
	minute := 17

	cases := []struct {
		name string
		run  func(ctx context.Context, d repository.Driver) error
	}{
		{"players", func(ctx context.Context, d repository.Driver) error {
			return roundTrip(ctx, d, repository.Players, []model.Player{{
				ID: "p1", Name: "Juan", Number: 9, Position: model.PositionForward, Height: "1.80", Weight: "75",
				Birthdate: "2000-01-02", PreferredFoot: "left", Photo: "data:image/png;base64,AAA",
				Stats: model.PlayerStats{Goals: 2, Matches: 1, MinutesPlayed: 90, Positions: map[string]model.PositionTally{
					"Delantero 1": {Matches: 1, MinutesPlayed: 90, Goals: 2},
				}},
				CreatedAt: now, UpdatedAt: now,
			}})
		}},
		{"formations", func(ctx context.Context, d repository.Driver) error {
			return roundTrip(ctx, d, repository.Formations, []model.Formation{{
				ID: "f1", Name: "Clásica", Type: "1-4-4-2",
				DefenderLines: []int{4}, MidfielderLines: []int{4}, ForwardLines: []int{2},
				Roles: map[string]string{"Posición 1": "Arquero"}, Goalkeeper: "Arquero",
				Record:    model.FormationRecord{GamesPlayed: 3, Wins: 1, Draws: 1, Losses: 1, ShotsFor: 12},
				CreatedAt: now, UpdatedAt: now,
			}})
		}},
		{"rivals", func(ctx context.Context, d repository.Driver) error {
			return roundTrip(ctx, d, repository.Rivals, []model.Rival{{
				ID: "r1", Name: "Club X", HomeGround: "Parque", PrimaryColor: "#ff0000", Notes: []string{"press high"},
				Record: model.RivalRecord{MatchesPlayed: 1, Wins: 1, GoalsFor: 2, Matches: []model.RivalMatchSummary{
					{MatchID: "m1", Date: "2024-03-01", Score: model.Score{Home: 2, Away: 0}, FormationID: "f1"},
				}},
				CreatedAt: now, UpdatedAt: now,
			}})
		}},
		{"matches", func(ctx context.Context, d repository.Driver) error {
			return roundTrip(ctx, d, repository.Matches, []model.Match{{
				ID: "m1", RivalID: "r1", Date: "2024-03-01", Venue: "home", Score: model.Score{Home: 2, Away: 0},
				FormationID: "f1", Lineup: map[string]string{"Posición 10": "p1"},
				Scorers: []model.Goal{{PlayerID: "p1", Minute: &minute}, {PlayerID: "p1"}},
				Assists: []string{"p2"}, Cards: []model.Card{{PlayerID: "p1", Type: model.CardYellow}},
				Subs:     []model.Substitution{{PlayerOut: "p1", PlayerIn: "p2", Minute: 80}},
				ShotsFor: 9, ShotsAgainst: 3, CreatedAt: now,
			}})
		}},
		{"match_plans", func(ctx context.Context, d repository.Driver) error {
			return roundTrip(ctx, d, repository.MatchPlans, []model.MatchPlan{{
				ID: "mp1", RivalID: "r1", FormationID: "f1", Lineup: map[string]string{"Posición 1": "p3"}, Notes: "wide", CreatedAt: now,
			}})
		}},
		{"saved_insights", func(ctx context.Context, d repository.Driver) error {
			return roundTrip(ctx, d, repository.SavedInsights, []model.SavedInsight{{ID: "i1", Text: "más presión", CreatedAt: now}})
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d, cleanup := makeDriver(t)
			t.Cleanup(cleanup)
			if err := tc.run(context.Background(), d); err != nil {
				t.Fatal(err)
			}
		})
	}
}

func roundTrip[T any](ctx context.Context, d repository.Driver, c repository.Collection, items []T) error {
	if err := repository.Save(ctx, d, c, items); err != nil {
		return err
	}
	got, err := repository.Load[T](ctx, d, c)
	if err != nil {
		return err
	}
	if !reflect.DeepEqual(items, got) {
		return &mismatch{c: c, want: items, got: got}
	}
	return nil
}

func RunTxManagerContract(t *testing.T, makeDriver DriverFactory) {
	t.Helper()

	t.Run("commit_on_nil_error", func(t *testing.T) {
		d, cleanup := makeDriver(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		err := d.WithinTx(ctx, func(ctx context.Context) error {
			if err := repository.Save(ctx, d, repository.Rivals, []model.Rival{{ID: "r1", Name: "TxCommit"}}); err != nil {
				return err
			}
			// Reads inside the unit of work see its own writes.
			got, err := repository.Load[model.Rival](ctx, d, repository.Rivals)
			if err != nil {
				return err
			}
			if len(got) != 1 {
				return &mismatch{c: repository.Rivals, want: 1, got: len(got)}
			}
			return repository.Save(ctx, d, repository.Matches, []model.Match{{ID: "m1", RivalID: "r1"}})
		})
		if err != nil {
			t.Fatalf("WithinTx: %v", err)
		}
		rivals, _ := repository.Load[model.Rival](ctx, d, repository.Rivals)
		matches, _ := repository.Load[model.Match](ctx, d, repository.Matches)
		if len(rivals) != 1 || len(matches) != 1 {
			t.Fatalf("expected committed writes visible, got rivals=%d matches=%d", len(rivals), len(matches))
		}
	})

	t.Run("rollback_on_error", func(t *testing.T) {
		d, cleanup := makeDriver(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		if err := repository.Save(ctx, d, repository.Rivals, []model.Rival{{ID: "keep"}}); err != nil {
			t.Fatalf("seed: %v", err)
		}
		errMarker := errors.New("boom")
		err := d.WithinTx(ctx, func(ctx context.Context) error {
			if err := repository.Save(ctx, d, repository.Rivals, []model.Rival{{ID: "keep"}, {ID: "drop"}}); err != nil {
				return err
			}
			return errMarker
		})
		if err == nil || err.Error() != errMarker.Error() {
			t.Fatalf("expected marker error, got %v", err)
		}
		rivals, err := repository.Load[model.Rival](ctx, d, repository.Rivals)
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		if len(rivals) != 1 || rivals[0].ID != "keep" {
			t.Fatalf("expected rollback to keep the seed only, got %#v", rivals)
		}
	})

	t.Run("concurrent_units_do_not_lose_writes", func(t *testing.T) {
		d, cleanup := makeDriver(t)
		t.Cleanup(cleanup)
		runConcurrentUnits(t, d)
	})

	t.Run("nested_joins_outer", func(t *testing.T) {
		d, cleanup := makeDriver(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		err := d.WithinTx(ctx, func(ctx context.Context) error {
			return d.WithinTx(ctx, func(ctx context.Context) error {
				return repository.Save(ctx, d, repository.SavedInsights, []model.SavedInsight{{ID: "n"}})
			})
		})
		if err != nil {
			t.Fatalf("nested WithinTx: %v", err)
		}
		got, _ := repository.Load[model.SavedInsight](ctx, d, repository.SavedInsights)
		if len(got) != 1 {
			t.Fatalf("expected nested write committed, got %d", len(got))
		}
	})
}

func runConcurrentUnits(t *testing.T, d repository.Driver) {
	t.Helper()
	const writers = 8
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs <- d.WithinTx(ctx, func(ctx context.Context) error {
				matches, err := repository.Load[model.Match](ctx, d, repository.Matches)
				if err != nil {
					return err
				}
				return repository.Save(ctx, d, repository.Matches, append(matches, model.Match{ID: fmt.Sprintf("m%d", i)}))
			})
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("concurrent WithinTx: %v", err)
		}
	}

	got, err := repository.Load[model.Match](ctx, d, repository.Matches)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != writers {
		t.Fatalf("expected %d matches after concurrent appends, got %d", writers, len(got))
	}
}

func RunPingerContract(t *testing.T, makeDriver DriverFactory) {
	t.Helper()
	t.Run("ping_ok", func(t *testing.T) {
		d, cleanup := makeDriver(t)
		t.Cleanup(cleanup)
		if err := d.Ping(context.Background()); err != nil {
			t.Fatalf("expected ping ok, got %v", err)
		}
	})
}

type mismatch struct {
	c         repository.Collection
	want, got any
}

func (m *mismatch) Error() string {
	return fmt.Sprintf("mismatch in %s:\nwant %+v\ngot  %+v", m.c, m.want, m.got)
}
