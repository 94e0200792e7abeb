package metrics

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestCollectorCounters(t *testing.T) {
	c := NewCollector()
	c.RecordClick()
	c.RecordClick()
	c.RecordPurchase(true)
	c.RecordPurchase(false)
	c.RecordReset()
	c.RecordAchievements(3)
	c.RecordTick(2 * time.Millisecond)
	c.RecordTick(5 * time.Millisecond)
	c.RecordTick(1 * time.Millisecond)

	if c.Clicks != 2 || c.Purchases != 1 || c.RejectedPurchases != 1 || c.Resets != 1 || c.Achievements != 3 {
		t.Fatalf("unexpected counters %+v", c)
	}
	if c.TickCount != 3 {
		t.Fatalf("expected 3 ticks got %d", c.TickCount)
	}
	if c.TickLatencyMax != int64(5*time.Millisecond) {
		t.Fatalf("expected max latency 5ms got %v", time.Duration(c.TickLatencyMax))
	}
}

func TestHandlerServesJSON(t *testing.T) {
	c := NewCollector()
	c.RecordClick()

	rec := httptest.NewRecorder()
	c.Handler()(rec, httptest.NewRequest("GET", "/metrics", nil))

	var decoded struct {
		Commands struct {
			Clicks int64 `json:"clicks"`
		} `json:"commands"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.Commands.Clicks != 1 {
		t.Fatalf("expected 1 click got %d", decoded.Commands.Clicks)
	}
}

func TestPrometheusHandler(t *testing.T) {
	c := NewCollector()
	c.RecordPurchase(true)
	c.RecordWSMessage(true)

	rec := httptest.NewRecorder()
	c.PrometheusHandler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics/prometheus", nil))

	got := rec.Body.String()
	for _, want := range []string{
		"clicker_purchases_total 1",
		`clicker_ws_messages_total{direction="in"} 1`,
		`clicker_ws_messages_total{direction="out"} 0`,
		"# TYPE clicker_clicks_total counter",
		"# TYPE clicker_ws_connections gauge",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("missing %q in output:\n%s", want, got)
		}
	}
}

func TestRegistryTracksCounters(t *testing.T) {
	c := NewCollector()
	c.RecordClick()
	c.RecordClick()
	c.RecordWSConnection(1)
	c.RecordTick(250 * time.Millisecond)

	families, err := c.Registry().Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	values := map[string]float64{}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			switch {
			case m.GetCounter() != nil:
				values[mf.GetName()] += m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				values[mf.GetName()] = m.GetGauge().GetValue()
			}
		}
	}

	for name, want := range map[string]float64{
		"clicker_clicks_total":             2,
		"clicker_ticks_total":              1,
		"clicker_ws_connections":           1,
		"clicker_tick_latency_max_seconds": 0.25,
	} {
		if values[name] != want {
			t.Errorf("%s: expected %v got %v", name, want, values[name])
		}
	}
}
