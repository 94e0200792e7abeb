// Command clicker-tui plays the game in a terminal. The engine runs in-process
// and a heartbeat pays passive income once per tick interval.
package main

import (
	"context"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/everforgeworks/knowledge-clicker/internal/config"
	"github.com/everforgeworks/knowledge-clicker/internal/game"
	"github.com/everforgeworks/knowledge-clicker/internal/heartbeat"
	"github.com/everforgeworks/knowledge-clicker/internal/platform/logger"
)

const frameInterval = 100 * time.Millisecond

func main() {
	log := logger.NewLogger()
	if err := run(); err != nil {
		log.Errorf("clicker-tui: %v", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	cat := game.DefaultCatalog()
	if cfg.CatalogPath != "" {
		if cat, err = game.LoadCatalogFile(cfg.CatalogPath); err != nil {
			return err
		}
	}
	engine, err := game.NewEngine(cat)
	if err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()
	screen.HideCursor()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	v := newView(engine)

	// Heartbeat unlocks arrive on another goroutine; hand them to the UI loop.
	beats := make(chan game.TickResult, 16)
	hb := heartbeat.New(engine, cfg.TickInterval,
		heartbeat.OnBeat(func(res game.TickResult) {
			if len(res.Unlocked) == 0 {
				return
			}
			select {
			case beats <- res:
			default:
			}
		}),
	)
	go hb.Run(ctx)

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	frames := time.NewTicker(frameInterval)
	defer frames.Stop()

	draw(screen, v.render(engine.Snapshot()))
	for {
		select {
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if !v.handleKey(ev) {
					return nil
				}
			case *tcell.EventResize:
				screen.Sync()
			}
		case res := <-beats:
			v.announce(res.Unlocked)
		case <-frames.C:
		}
		draw(screen, v.render(engine.Snapshot()))
	}
}
