// Package metrics provides observability for the clicker server.
package metrics

import (
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector gathers game and transport metrics.
type Collector struct {
	// Command metrics
	Clicks            int64
	Purchases         int64
	RejectedPurchases int64
	Resets            int64
	Achievements      int64

	// Heartbeat metrics
	TickCount      int64
	TickLatencySum int64 // nanoseconds
	TickLatencyMax int64
	LastTickTime   time.Time

	// WebSocket metrics
	WSConnectionsActive int64
	WSMessagesIn        int64
	WSMessagesOut       int64
	WSErrors            int64

	StartTime time.Time
	mu        sync.RWMutex

	registry *prometheus.Registry
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	c := &Collector{StartTime: time.Now(), registry: prometheus.NewRegistry()}
	c.register()
	return c
}

// RecordClick records a click command.
func (c *Collector) RecordClick() {
	atomic.AddInt64(&c.Clicks, 1)
}

// RecordPurchase records a purchase attempt and whether it went through.
func (c *Collector) RecordPurchase(ok bool) {
	if ok {
		atomic.AddInt64(&c.Purchases, 1)
	} else {
		atomic.AddInt64(&c.RejectedPurchases, 1)
	}
}

// RecordReset records a reset command.
func (c *Collector) RecordReset() {
	atomic.AddInt64(&c.Resets, 1)
}

// RecordAchievements records newly unlocked achievements.
func (c *Collector) RecordAchievements(n int) {
	atomic.AddInt64(&c.Achievements, int64(n))
}

// RecordTick records a heartbeat completion.
func (c *Collector) RecordTick(latency time.Duration) {
	atomic.AddInt64(&c.TickCount, 1)
	atomic.AddInt64(&c.TickLatencySum, int64(latency))

	for {
		cur := atomic.LoadInt64(&c.TickLatencyMax)
		if int64(latency) <= cur || atomic.CompareAndSwapInt64(&c.TickLatencyMax, cur, int64(latency)) {
			break
		}
	}

	c.mu.Lock()
	c.LastTickTime = time.Now()
	c.mu.Unlock()
}

// RecordWSConnection records WebSocket connection changes.
func (c *Collector) RecordWSConnection(delta int64) {
	atomic.AddInt64(&c.WSConnectionsActive, delta)
}

// RecordWSMessage records WebSocket messages.
func (c *Collector) RecordWSMessage(incoming bool) {
	if incoming {
		atomic.AddInt64(&c.WSMessagesIn, 1)
	} else {
		atomic.AddInt64(&c.WSMessagesOut, 1)
	}
}

// RecordWSError records a WebSocket error.
func (c *Collector) RecordWSError() {
	atomic.AddInt64(&c.WSErrors, 1)
}

// Snapshot returns current metrics as a map.
func (c *Collector) Snapshot() map[string]interface{} {
	c.mu.RLock()
	lastTick := c.LastTickTime
	c.mu.RUnlock()

	tickCount := atomic.LoadInt64(&c.TickCount)
	var tickAvg float64
	if tickCount > 0 {
		tickAvg = float64(atomic.LoadInt64(&c.TickLatencySum)) / float64(tickCount) / 1e6 // ms
	}

	last := ""
	if !lastTick.IsZero() {
		last = lastTick.Format(time.RFC3339)
	}

	return map[string]interface{}{
		"uptime_seconds": time.Since(c.StartTime).Seconds(),

		"commands": map[string]interface{}{
			"clicks":             atomic.LoadInt64(&c.Clicks),
			"purchases":          atomic.LoadInt64(&c.Purchases),
			"rejected_purchases": atomic.LoadInt64(&c.RejectedPurchases),
			"resets":             atomic.LoadInt64(&c.Resets),
			"achievements":       atomic.LoadInt64(&c.Achievements),
		},

		"tick": map[string]interface{}{
			"count":          tickCount,
			"avg_latency_ms": tickAvg,
			"max_latency_ms": float64(atomic.LoadInt64(&c.TickLatencyMax)) / 1e6,
			"last_tick":      last,
		},

		"websocket": map[string]interface{}{
			"active_connections": atomic.LoadInt64(&c.WSConnectionsActive),
			"messages_in":        atomic.LoadInt64(&c.WSMessagesIn),
			"messages_out":       atomic.LoadInt64(&c.WSMessagesOut),
			"errors":             atomic.LoadInt64(&c.WSErrors),
		},
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func (c *Collector) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-cache")
		json.NewEncoder(w).Encode(c.Snapshot())
	}
}

// PrometheusHandler serves the collector's registry in the Prometheus exposition format.
func (c *Collector) PrometheusHandler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Registry exposes the collector's Prometheus registry so callers can add their own metrics.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// register exposes the atomic counters through a private registry. The
// functions read the same fields the JSON view does, so both stay in step.
func (c *Collector) register() {
	load := func(v *int64) func() float64 {
		return func() float64 { return float64(atomic.LoadInt64(v)) }
	}
	counter := func(name, help string, v *int64, labels prometheus.Labels) prometheus.Collector {
		return prometheus.NewCounterFunc(prometheus.CounterOpts{Name: name, Help: help, ConstLabels: labels}, load(v))
	}

	c.registry.MustRegister(
		counter("clicker_clicks_total", "Total click commands", &c.Clicks, nil),
		counter("clicker_purchases_total", "Total successful upgrade purchases", &c.Purchases, nil),
		counter("clicker_rejected_purchases_total", "Total rejected upgrade purchases", &c.RejectedPurchases, nil),
		counter("clicker_resets_total", "Total reset commands", &c.Resets, nil),
		counter("clicker_achievements_total", "Total achievements unlocked", &c.Achievements, nil),
		counter("clicker_ticks_total", "Total heartbeat ticks", &c.TickCount, nil),
		counter("clicker_ws_messages_total", "Total WebSocket messages", &c.WSMessagesIn, prometheus.Labels{"direction": "in"}),
		counter("clicker_ws_messages_total", "Total WebSocket messages", &c.WSMessagesOut, prometheus.Labels{"direction": "out"}),
		counter("clicker_ws_errors_total", "Total WebSocket errors", &c.WSErrors, nil),

		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "clicker_tick_latency_max_seconds",
			Help: "Maximum heartbeat tick latency",
		}, func() float64 {
			return time.Duration(atomic.LoadInt64(&c.TickLatencyMax)).Seconds()
		}),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "clicker_ws_connections",
			Help: "Active WebSocket connections",
		}, load(&c.WSConnectionsActive)),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "clicker_uptime_seconds",
			Help: "Seconds since the collector was created",
		}, func() float64 {
			return time.Since(c.StartTime).Seconds()
		}),
	)
}
