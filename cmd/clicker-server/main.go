/*
Package main
File: main.go
Description: Server entry point. Loads the catalog, builds the engine, starts
the real-time WebSocket hub, and runs the heartbeat that pays passive income.
*/

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/everforgeworks/knowledge-clicker/internal/api"
	"github.com/everforgeworks/knowledge-clicker/internal/config"
	"github.com/everforgeworks/knowledge-clicker/internal/game"
	"github.com/everforgeworks/knowledge-clicker/internal/heartbeat"
	"github.com/everforgeworks/knowledge-clicker/internal/platform/logger"
	"github.com/everforgeworks/knowledge-clicker/internal/platform/metrics"
)

func main() {
	log := logger.NewLogger()
	if err := run(log); err != nil {
		log.Errorf("Server stopped: %v", err)
		os.Exit(1)
	}
}

func run(log *logger.Logger) error {
	// 1. Configuration (.env + environment)
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// 2. Static catalog, embedded unless a file is configured
	cat, err := loadCatalog(cfg)
	if err != nil {
		return err
	}
	engine, err := game.NewEngine(cat)
	if err != nil {
		return err
	}
	log.Infof("Catalog loaded: %d upgrades, %d achievements", len(cat.Upgrades), len(cat.Achievements))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Real-time hub
	m := metrics.NewCollector()
	hub := api.NewHub(cfg.AllowedOrigin, log, m)
	go hub.Run(ctx)

	srv := api.NewServer(engine, hub, log, m)

	// 4. The passive income heartbeat
	hb := heartbeat.New(engine, cfg.TickInterval,
		heartbeat.WithLogger(log),
		heartbeat.WithMetrics(m),
		heartbeat.OnBeat(srv.OnBeat),
	)
	go hb.Run(ctx)

	// 5. HTTP server
	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv.Routes(cfg.AllowedOrigin),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("KNOWLEDGE CLICKER server live on %s", cfg.Addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
		log.Info("SIGNAL: shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

func loadCatalog(cfg config.Config) (*game.Catalog, error) {
	if cfg.CatalogPath == "" {
		return game.DefaultCatalog(), nil
	}
	return game.LoadCatalogFile(cfg.CatalogPath)
}
