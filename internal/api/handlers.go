/*
Package api
File: handlers.go
Description:
    Contains the HTTP handlers and websocket command dispatch.
    These functions decode requests, call the engine's entry points, and
    return JSON. The engine does all the game logic; this layer only maps
    its results and errors onto the wire.

    Key Responsibilities:
    - Input Validation (Is the JSON valid? Does the entity exist?)
    - Command Dispatch (Click, BuyUpgrade, Reset on the engine)
    - Fan-out (push the new snapshot and any unlocks through the Hub)
*/

package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"github.com/everforgeworks/knowledge-clicker/internal/game"
	"github.com/everforgeworks/knowledge-clicker/internal/platform/logger"
	"github.com/everforgeworks/knowledge-clicker/internal/platform/metrics"
)

// Request DTOs (Data Transfer Objects)

type BuyUpgradeRequest struct {
	UpgradeID string `json:"upgrade_id"`
}

// Server exposes one engine over HTTP and websockets.
type Server struct {
	engine  *game.Engine
	hub     *Hub
	log     *logger.Logger
	metrics *metrics.Collector

	// publishMu keeps snapshot order and hub queue order the same.
	publishMu sync.Mutex
}

// NewServer wires the engine to the hub and installs the websocket command handler.
func NewServer(engine *game.Engine, hub *Hub, log *logger.Logger, m *metrics.Collector) *Server {
	s := &Server{engine: engine, hub: hub, log: log, metrics: m}
	hub.SetHandler(s.handleCommand)
	return s
}

// Routes returns the HTTP router, wrapped in the CORS middleware.
func (s *Server) Routes(allowedOrigin string) http.Handler {
	mux := http.NewServeMux()

	// Queries
	mux.HandleFunc("GET /api/state", s.HandleGetState)
	mux.HandleFunc("GET /api/upgrades", s.HandleGetUpgrades)
	mux.HandleFunc("GET /api/upgrades/{id}", s.HandleGetUpgrade)
	mux.HandleFunc("GET /api/achievements", s.HandleGetAchievements)
	mux.HandleFunc("GET /api/achievements/{id}", s.HandleGetAchievement)

	// Commands
	mux.HandleFunc("POST /api/click", s.HandleClick)
	mux.HandleFunc("POST /api/upgrades/buy", s.HandleBuyUpgrade)
	mux.HandleFunc("POST /api/reset", s.HandleReset)

	// Observability
	mux.HandleFunc("GET /metrics", s.metrics.Handler())
	mux.Handle("GET /metrics/prometheus", s.metrics.PrometheusHandler())

	// Real-time
	mux.HandleFunc("GET /ws", s.HandleWs)

	return corsMiddleware(allowedOrigin, mux)
}

// HandleGetState returns the full snapshot.
func (s *Server) HandleGetState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.engine.Snapshot())
}

// HandleGetUpgrades returns the upgrades the player can currently see.
// ?all=true includes hidden ones as well.
func (s *Server) HandleGetUpgrades(w http.ResponseWriter, r *http.Request) {
	snap := s.engine.Snapshot()
	if r.URL.Query().Get("all") == "true" {
		writeJSON(w, http.StatusOK, snap.Upgrades)
		return
	}
	writeJSON(w, http.StatusOK, snap.VisibleUpgrades())
}

// HandleGetUpgrade returns one upgrade with its derived fields.
func (s *Server) HandleGetUpgrade(w http.ResponseWriter, r *http.Request) {
	u, err := s.engine.Upgrade(r.PathValue("id"))
	if err != nil {
		http.Error(w, "Upgrade not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// HandleGetAchievements returns every achievement with its unlock flag.
func (s *Server) HandleGetAchievements(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.engine.Snapshot().Achievements)
}

// HandleGetAchievement returns one achievement.
func (s *Server) HandleGetAchievement(w http.ResponseWriter, r *http.Request) {
	a, err := s.engine.Achievement(r.PathValue("id"))
	if err != nil {
		http.Error(w, "Achievement not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// HandleClick registers one manual click.
func (s *Server) HandleClick(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.click(r.RemoteAddr))
}

// HandleBuyUpgrade purchases the next copy of an upgrade.
func (s *Server) HandleBuyUpgrade(w http.ResponseWriter, r *http.Request) {
	var req BuyUpgradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UpgradeID == "" {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	p, err := s.buy(r.RemoteAddr, req.UpgradeID)
	if err != nil {
		http.Error(w, purchaseErrorText(err), purchaseStatus(err))
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// HandleReset restores the initial state and returns the fresh snapshot.
func (s *Server) HandleReset(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.reset(r.RemoteAddr))
}

// HandleWs upgrades to a websocket and greets the client with the current state.
func (s *Server) HandleWs(w http.ResponseWriter, r *http.Request) {
	state, err := Encode(MsgState, s.engine.Snapshot())
	if err != nil {
		s.log.Errorf("encode state: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	s.hub.ServeWs(w, r, state)
}

// OnBeat is the heartbeat callback: announce unlocks and push the new state.
func (s *Server) OnBeat(res game.TickResult) {
	s.publish("HEARTBEAT", res.Unlocked)
}

// handleCommand dispatches one inbound websocket envelope.
func (s *Server) handleCommand(c *Client, env Envelope) {
	switch env.T {
	case MsgClick:
		s.click(c.ID)

	case MsgBuyUpgrade:
		req, err := DecodePayload[BuyUpgradeRequest](env)
		if err != nil || req.UpgradeID == "" {
			s.hub.Send(c, MsgError, ErrorPayload{Code: "bad_request", Message: "buy_upgrade needs an upgrade_id"})
			return
		}
		p, err := s.buy(c.ID, req.UpgradeID)
		if err != nil {
			s.hub.Send(c, MsgError, ErrorPayload{Code: purchaseErrorCode(err), Message: err.Error()})
			return
		}
		s.hub.Send(c, MsgPurchase, p)

	case MsgReset:
		s.reset(c.ID)

	case MsgSync:
		s.hub.Send(c, MsgState, s.engine.Snapshot())

	default:
		s.hub.Send(c, MsgError, ErrorPayload{Code: "unknown_type", Message: "unknown message type " + env.T})
	}
}

func (s *Server) click(actor string) game.ClickResult {
	res := s.engine.Click()
	s.metrics.RecordClick()
	s.publish(actor, res.Unlocked)
	return res
}

func (s *Server) buy(actor, id string) (game.Purchase, error) {
	p, err := s.engine.BuyUpgrade(id)
	s.metrics.RecordPurchase(err == nil)
	if err != nil {
		s.log.Event("PURCHASE_REJECTED", actor, id+": "+err.Error())
		return p, err
	}
	s.log.Event("PURCHASE", actor, id)
	s.publish(actor, p.Unlocked)
	return p, nil
}

func (s *Server) reset(actor string) game.Snapshot {
	s.engine.Reset()
	s.metrics.RecordReset()
	s.log.Event("RESET", actor, "game state restored")
	s.publish(actor, nil)
	return s.engine.Snapshot()
}

// publish announces new unlocks and broadcasts the latest snapshot.
// The snapshot is taken and queued under publishMu, so the last state frame
// a client receives always reflects the most recent mutation.
func (s *Server) publish(actor string, unlocked []game.Achievement) {
	s.publishMu.Lock()
	defer s.publishMu.Unlock()

	if len(unlocked) > 0 {
		s.metrics.RecordAchievements(len(unlocked))
	}
	for _, a := range unlocked {
		s.log.Event("ACHIEVEMENT", actor, a.ID)
		if err := s.hub.Broadcast(MsgAchievement, a); err != nil {
			s.log.Errorf("broadcast achievement: %v", err)
		}
	}
	if err := s.hub.Broadcast(MsgState, s.engine.Snapshot()); err != nil {
		s.log.Errorf("broadcast state: %v", err)
	}
}

func purchaseStatus(err error) int {
	switch {
	case errors.Is(err, game.ErrUnknownUpgrade):
		return http.StatusNotFound
	case errors.Is(err, game.ErrUpgradeLocked):
		return http.StatusForbidden
	case errors.Is(err, game.ErrInsufficientPoints):
		return http.StatusPaymentRequired
	}
	return http.StatusInternalServerError
}

func purchaseErrorCode(err error) string {
	switch {
	case errors.Is(err, game.ErrUnknownUpgrade):
		return "unknown_upgrade"
	case errors.Is(err, game.ErrUpgradeLocked):
		return "upgrade_locked"
	case errors.Is(err, game.ErrInsufficientPoints):
		return "insufficient_points"
	}
	return "internal"
}

func purchaseErrorText(err error) string {
	switch {
	case errors.Is(err, game.ErrUnknownUpgrade):
		return "Upgrade not found"
	case errors.Is(err, game.ErrUpgradeLocked):
		return "Upgrade not unlocked yet"
	case errors.Is(err, game.ErrInsufficientPoints):
		return "Insufficient Points"
	}
	return "Internal Server Error"
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// corsMiddleware lets browser clients served from another origin talk to the API.
func corsMiddleware(allowedOrigin string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
