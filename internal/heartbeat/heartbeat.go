/*
Package heartbeat
File: heartbeat.go
Description:
    The passive income heartbeat. It is owned by the composition root, not by
    the engine: every beat measures the wall time since the previous beat and
    hands that duration to the engine's Tick, so the engine itself never reads
    a clock and stays deterministic under test.
*/

package heartbeat

import (
	"context"
	"sync"
	"time"

	"github.com/everforgeworks/knowledge-clicker/internal/game"
	"github.com/everforgeworks/knowledge-clicker/internal/platform/logger"
	"github.com/everforgeworks/knowledge-clicker/internal/platform/metrics"
)

// DefaultInterval is the cadence used when none is configured.
const DefaultInterval = 1 * time.Second

// Ticker is the slice of the engine the heartbeat drives.
type Ticker interface {
	Tick(elapsedSeconds float64) game.TickResult
}

// BeatFunc observes the result of every beat (e.g. to broadcast a fresh snapshot).
type BeatFunc func(game.TickResult)

// Heartbeat applies passive income at a fixed cadence.
type Heartbeat struct {
	engine   Ticker
	clock    Clock
	interval time.Duration
	log      *logger.Logger
	metrics  *metrics.Collector
	onBeat   BeatFunc

	mu   sync.Mutex
	last time.Time
}

// Option configures optional collaborators of a Heartbeat.
type Option func(*Heartbeat)

func WithClock(c Clock) Option { return func(h *Heartbeat) { h.clock = c } }

func WithLogger(l *logger.Logger) Option { return func(h *Heartbeat) { h.log = l } }

func WithMetrics(m *metrics.Collector) Option { return func(h *Heartbeat) { h.metrics = m } }

func OnBeat(fn BeatFunc) Option { return func(h *Heartbeat) { h.onBeat = fn } }

// New creates a heartbeat for the engine. A non-positive interval falls back to DefaultInterval.
func New(engine Ticker, interval time.Duration, opts ...Option) *Heartbeat {
	if interval <= 0 {
		interval = DefaultInterval
	}
	h := &Heartbeat{
		engine:   engine,
		clock:    RealClock{},
		interval: interval,
	}
	for _, opt := range opts {
		opt(h)
	}
	h.last = h.clock.Now()
	return h
}

// Interval returns the cadence Run beats at.
func (h *Heartbeat) Interval() time.Duration {
	return h.interval
}

// Beat applies the income earned since the previous beat.
// A clock that moved backwards yields a zero-length beat.
func (h *Heartbeat) Beat() game.TickResult {
	h.mu.Lock()
	now := h.clock.Now()
	elapsed := now.Sub(h.last)
	h.last = now
	h.mu.Unlock()

	start := time.Now()
	res := h.engine.Tick(elapsed.Seconds())
	if h.metrics != nil {
		h.metrics.RecordTick(time.Since(start))
	}
	if h.log != nil {
		for _, a := range res.Unlocked {
			h.log.Event("ACHIEVEMENT", "HEARTBEAT", a.ID)
		}
	}
	if h.onBeat != nil {
		h.onBeat(res)
	}
	return res
}

// Run beats every interval until the context is cancelled. Call in a goroutine.
func (h *Heartbeat) Run(ctx context.Context) {
	if h.log != nil {
		h.log.Infof("Heartbeat started (every %s)", h.interval)
	}

	// Time spent before Run started is not income.
	h.mu.Lock()
	h.last = h.clock.Now()
	h.mu.Unlock()

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if h.log != nil {
				h.log.Info("Heartbeat stopped")
			}
			return
		case <-ticker.C:
			h.Beat()
		}
	}
}
