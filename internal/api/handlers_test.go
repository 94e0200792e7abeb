package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/everforgeworks/knowledge-clicker/internal/game"
	"github.com/everforgeworks/knowledge-clicker/internal/platform/logger"
	"github.com/everforgeworks/knowledge-clicker/internal/platform/metrics"
)

func testCatalog() *game.Catalog {
	return &game.Catalog{
		BaseClickValue: 1,
		Upgrades: []game.Upgrade{
			{ID: "pen", Name: "Pen", Kind: game.KindActive, Effect: 2, BasePrice: 5, GrowthFactor: 1.2},
			{ID: "lamp", Name: "Lamp", Kind: game.KindPassive, Effect: 3, BasePrice: 10, GrowthFactor: 1.5},
			{ID: "tutor", Name: "Tutor", Kind: game.KindActive, Effect: 10, BasePrice: 100, GrowthFactor: 1.5, UnlockThreshold: 50},
			{ID: "lab", Name: "Lab", Kind: game.KindPassive, Effect: 20, BasePrice: 200, GrowthFactor: 1.5, UnlockThreshold: 80},
			{ID: "archive", Name: "Archive", Kind: game.KindPassive, Effect: 25, BasePrice: 250, GrowthFactor: 1.5, UnlockThreshold: 80},
		},
		Achievements: []game.Achievement{
			{ID: "first_click", Name: "First Click", Requirement: game.Requirement{Kind: game.RequireClicks, Value: 1}},
			{ID: "buyer", Name: "Buyer", Requirement: game.Requirement{Kind: game.RequireUpgrades, Value: 1}},
		},
	}
}

type testEnv struct {
	engine  *game.Engine
	server  *Server
	hub     *Hub
	metrics *metrics.Collector
	handler http.Handler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	eng, err := game.NewEngine(testCatalog())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	log := logger.Discard()
	m := metrics.NewCollector()
	hub := NewHub("*", log, m)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	srv := NewServer(eng, hub, log, m)
	return &testEnv{engine: eng, server: srv, hub: hub, metrics: m, handler: srv.Routes("*")}
}

func (e *testEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %s: %v", rec.Body.String(), err)
	}
	return out
}

func TestGetState(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, "GET", "/api/state", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("unexpected content type %q", ct)
	}
	snap := decode[game.Snapshot](t, rec)
	if snap.PointsPerClick != 1 || len(snap.Upgrades) != 5 || len(snap.Achievements) != 2 {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
}

func TestClickAndBuyFlow(t *testing.T) {
	env := newTestEnv(t)

	for i := 0; i < 5; i++ {
		rec := env.do(t, "POST", "/api/click", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("click %d: expected 200 got %d", i, rec.Code)
		}
		res := decode[game.ClickResult](t, rec)
		if res.Gained != 1 {
			t.Fatalf("click %d: expected gain 1 got %v", i, res.Gained)
		}
	}

	rec := env.do(t, "POST", "/api/upgrades/buy", `{"upgrade_id":"pen"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("buy: expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	p := decode[game.Purchase](t, rec)
	if p.Price != 5 || p.Quantity != 1 || len(p.Unlocked) != 1 || p.Unlocked[0].ID != "buyer" {
		t.Fatalf("unexpected purchase %+v", p)
	}

	snap := env.engine.Snapshot()
	if snap.Points != 0 || snap.PointsPerClick != 3 {
		t.Fatalf("unexpected state after purchase: points=%v ppc=%v", snap.Points, snap.PointsPerClick)
	}
	if env.metrics.Clicks != 5 || env.metrics.Purchases != 1 {
		t.Fatalf("metrics not recorded: clicks=%d purchases=%d", env.metrics.Clicks, env.metrics.Purchases)
	}
}

func TestBuyUpgradeErrors(t *testing.T) {
	env := newTestEnv(t)

	cases := []struct {
		body string
		want int
	}{
		{`not json`, http.StatusBadRequest},
		{`{}`, http.StatusBadRequest},
		{`{"upgrade_id":"missing"}`, http.StatusNotFound},
		{`{"upgrade_id":"tutor"}`, http.StatusForbidden},
		{`{"upgrade_id":"pen"}`, http.StatusPaymentRequired},
	}
	for _, tc := range cases {
		rec := env.do(t, "POST", "/api/upgrades/buy", tc.body)
		if rec.Code != tc.want {
			t.Fatalf("%s: expected %d got %d", tc.body, tc.want, rec.Code)
		}
	}
	if env.metrics.RejectedPurchases != 3 {
		t.Fatalf("expected 3 rejected purchases got %d", env.metrics.RejectedPurchases)
	}
}

func TestReset(t *testing.T) {
	env := newTestEnv(t)
	env.do(t, "POST", "/api/click", "")

	rec := env.do(t, "POST", "/api/reset", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	snap := decode[game.Snapshot](t, rec)
	if snap.Points != 0 || snap.Clicks != 0 || snap.AchievementsUnlocked != 0 {
		t.Fatalf("reset did not restore state: %+v", snap)
	}
}

func TestUpgradeAndAchievementQueries(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, "GET", "/api/upgrades/tutor", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	u := decode[game.UpgradeView](t, rec)
	if u.ID != "tutor" || u.Unlocked || !u.Visible || u.Price != 100 {
		t.Fatalf("unexpected upgrade view %+v", u)
	}

	if rec := env.do(t, "GET", "/api/upgrades/ghost", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rec.Code)
	}
	if rec := env.do(t, "GET", "/api/achievements/ghost", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rec.Code)
	}

	env.do(t, "POST", "/api/click", "")
	rec = env.do(t, "GET", "/api/achievements/first_click", "")
	if a := decode[game.Achievement](t, rec); !a.Unlocked {
		t.Fatalf("expected first_click unlocked got %+v", a)
	}

	visible := decode[[]game.UpgradeView](t, env.do(t, "GET", "/api/upgrades", ""))
	all := decode[[]game.UpgradeView](t, env.do(t, "GET", "/api/upgrades?all=true", ""))
	if len(visible) != 4 || len(all) != 5 {
		t.Fatalf("expected 4 visible of 5 upgrades got %d of %d", len(visible), len(all))
	}

	achievements := decode[[]game.Achievement](t, env.do(t, "GET", "/api/achievements", ""))
	if len(achievements) != 2 {
		t.Fatalf("expected 2 achievements got %d", len(achievements))
	}
}

func TestMethodAndCORS(t *testing.T) {
	env := newTestEnv(t)

	if rec := env.do(t, "GET", "/api/click", ""); rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405 got %d", rec.Code)
	}

	rec := env.do(t, "OPTIONS", "/api/click", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for preflight got %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("unexpected CORS origin %q", got)
	}
}

func TestMetricsEndpoints(t *testing.T) {
	env := newTestEnv(t)
	env.do(t, "POST", "/api/click", "")

	if rec := env.do(t, "GET", "/metrics", ""); rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	rec := env.do(t, "GET", "/metrics/prometheus", "")
	if !strings.Contains(rec.Body.String(), "clicker_clicks_total 1") {
		t.Fatalf("prometheus output missing click counter:\n%s", rec.Body.String())
	}
}
