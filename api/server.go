package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/wricardo/sokoban/game/engine"
	"github.com/wricardo/sokoban/game/levels"
	"github.com/wricardo/sokoban/game/service"
	"github.com/wricardo/sokoban/game/session"
	"github.com/wricardo/sokoban/transport/websocket"
)

// Server represents the REST API server
type Server struct {
	service   service.GameService
	hub       *websocket.Hub
	router    *mux.Router
	levelsDir string
	staticDir string
}

// Option configures a Server
type Option func(*Server)

// WithLevelsDir serves the level files of dir under /levels/
func WithLevelsDir(dir string) Option {
	return func(s *Server) {
		s.levelsDir = dir
	}
}

// WithStaticDir changes the directory served at the root (default ./static/)
func WithStaticDir(dir string) Option {
	return func(s *Server) {
		s.staticDir = dir
	}
}

// NewServer creates a new API server. When hub is set, client input
// arriving over WebSocket is applied through the same game service.
func NewServer(gameService service.GameService, hub *websocket.Hub, opts ...Option) *Server {
	s := &Server{
		service:   gameService,
		hub:       hub,
		router:    mux.NewRouter(),
		staticDir: "./static/",
	}
	for _, opt := range opts {
		opt(s)
	}

	if hub != nil {
		hub.SetInputHandler(s.handleInput)
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/health", s.handleHealth).Methods("GET")

	// Session management
	api.HandleFunc("/sessions", s.handleCreateSession).Methods("POST")
	api.HandleFunc("/sessions", s.handleListSessions).Methods("GET")
	api.HandleFunc("/sessions/{id}", s.handleGetSession).Methods("GET")
	api.HandleFunc("/sessions/{id}", s.handleDeleteSession).Methods("DELETE")

	// Game operations
	api.HandleFunc("/sessions/{id}/state", s.handleGetGameState).Methods("GET")
	api.HandleFunc("/sessions/{id}/view", s.handleGetView).Methods("GET")
	api.HandleFunc("/sessions/{id}/move", s.handleMove).Methods("POST")
	api.HandleFunc("/sessions/{id}/bulk-move", s.handleBulkMove).Methods("POST")
	api.HandleFunc("/sessions/{id}/restart", s.handleRestart).Methods("POST")
	api.HandleFunc("/sessions/{id}/next", s.handleNext).Methods("POST")
	api.HandleFunc("/sessions/{id}/prev", s.handlePrev).Methods("POST")
	api.HandleFunc("/sessions/{id}/level", s.handleSelectLevel).Methods("POST")
	api.HandleFunc("/sessions/{id}/history", s.handleGetHistory).Methods("GET")

	// Levels
	api.HandleFunc("/levels", s.handleListLevels).Methods("GET")
	api.HandleFunc("/levels/{index:[0-9]+}", s.handleGetLevel).Methods("GET")
	api.HandleFunc("/best-times", s.handleBestTimes).Methods("GET")

	// WebSocket
	s.router.HandleFunc("/ws", s.handleWebSocket)

	// Raw level files, so other instances can load from this one
	if s.levelsDir != "" {
		s.router.PathPrefix("/levels/").Handler(
			http.StripPrefix("/levels/", http.FileServer(http.Dir(s.levelsDir))))
	}

	// Static files
	s.router.PathPrefix("/").Handler(http.FileServer(http.Dir(s.staticDir)))
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondServiceError maps service errors to HTTP status codes
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, engine.ErrNoLevels):
		respondError(w, http.StatusServiceUnavailable, engine.ErrNoLevels.Error())
	case errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, engine.ErrLevelOutOfRange),
		errors.Is(err, levels.ErrLevelNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrInvalidMove),
		errors.Is(err, engine.ErrUnknownDirection),
		errors.Is(err, session.ErrInvalidSessionID):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, session.ErrSessionAlreadyExists):
		respondError(w, http.StatusConflict, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, err.Error())
	}
}

// decodeBody decodes an optional JSON body; an empty body leaves v untouched
func decodeBody(r *http.Request, v interface{}) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	return json.NewDecoder(r.Body).Decode(v)
}

// Session Handlers

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Level int `json:"level"`
	}
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	info, err := s.service.CreateSession(r.Context(), req.Level)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, info)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.service.ListSessions(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	// Parse query parameters
	query := r.URL.Query()
	sortBy := query.Get("sort")    // "created", "accessed" (default)
	order := query.Get("order")    // "asc", "desc" (default: "desc")
	limitStr := query.Get("limit") // number of sessions to return

	if sortBy == "" {
		sortBy = "accessed"
	}
	if order == "" {
		order = "desc"
	}

	sort.Slice(sessions, func(i, j int) bool {
		var ti, tj time.Time
		if sortBy == "created" {
			ti, tj = sessions[i].CreatedAt, sessions[j].CreatedAt
		} else {
			ti, tj = sessions[i].LastAccessedAt, sessions[j].LastAccessedAt
		}

		if order == "asc" {
			return ti.Before(tj)
		}
		return ti.After(tj)
	})

	total := len(sessions)
	if limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l < total {
			sessions = sessions[:l]
		}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":    len(sessions),
		"total":    total,
		"sessions": sessions,
		"sort":     sortBy,
		"order":    order,
	})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	info, err := s.service.GetSession(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, info)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	if err := s.service.DeleteSession(r.Context(), sessionID); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Session %s deleted", sessionID),
	})
}

// Game Operation Handlers

func (s *Server) handleGetGameState(w http.ResponseWriter, r *http.Request) {
	state, err := s.service.GetGameState(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, state)
}

func (s *Server) handleGetView(w http.ResponseWriter, r *http.Request) {
	view, err := s.service.GetView(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, view)
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	var req struct {
		Direction string `json:"direction"`
		Key       string `json:"key,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	direction := req.Direction
	if direction == "" && req.Key != "" {
		dir, ok := engine.DirectionForKey(req.Key)
		if !ok {
			respondError(w, http.StatusBadRequest, fmt.Sprintf("key %q is not a movement key", req.Key))
			return
		}
		direction = dir.Name()
	}
	if direction == "" {
		respondError(w, http.StatusBadRequest, "direction or key is required")
		return
	}

	result, err := s.service.Move(r.Context(), sessionID, direction)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	s.broadcast(sessionID, result.GameState)

	fields := log.Fields{"session": sessionID, "dir": direction, "moves": result.GameState.Moves}
	if result.Step != nil {
		fields["from"] = fmt.Sprintf("(%d,%d)", result.Step.From.X, result.Step.From.Y)
		fields["to"] = fmt.Sprintf("(%d,%d)", result.Step.To.X, result.Step.To.Y)
		fields["pushed"] = result.Pushed
	} else if result.AttemptedTo != nil {
		fields["blocked_by"] = result.AttemptedTo.TileType
	}
	log.WithFields(fields).Debug("move")

	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleBulkMove(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	var req struct {
		Moves []string `json:"moves"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := s.service.BulkMove(r.Context(), sessionID, req.Moves)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	s.broadcast(sessionID, result.GameState)

	log.WithFields(log.Fields{
		"session":  sessionID,
		"executed": fmt.Sprintf("%d/%d", result.MovesExecuted, result.RequestedMoves),
		"stop":     result.StopReasonCode,
		"end":      fmt.Sprintf("(%d,%d)", result.EndPos.X, result.EndPos.Y),
		"pushes":   result.PushesDelta,
	}).Debug("bulk move")

	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleRestart(w http.ResponseWriter, r *http.Request) {
	s.navigate(w, r, s.service.Restart)
}

func (s *Server) handleNext(w http.ResponseWriter, r *http.Request) {
	s.navigate(w, r, s.service.NextLevel)
}

func (s *Server) handlePrev(w http.ResponseWriter, r *http.Request) {
	s.navigate(w, r, s.service.PrevLevel)
}

func (s *Server) handleSelectLevel(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Index *int `json:"index"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Index == nil {
		respondError(w, http.StatusBadRequest, "index is required")
		return
	}

	s.navigate(w, r, func(ctx context.Context, sessionID string) (*service.NavigationResult, error) {
		return s.service.SelectLevel(ctx, sessionID, *req.Index)
	})
}

type navigationFunc func(ctx context.Context, sessionID string) (*service.NavigationResult, error)

func (s *Server) navigate(w http.ResponseWriter, r *http.Request, fn navigationFunc) {
	sessionID := mux.Vars(r)["id"]

	result, err := fn(r.Context(), sessionID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	if result.Changed {
		s.broadcast(sessionID, result.GameState)
	}
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	opts := service.HistoryOptions{
		Page:  1,
		Limit: 20,
		Order: "desc",
	}

	query := r.URL.Query()
	if pageStr := query.Get("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			opts.Page = p
		}
	}
	if limitStr := query.Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			opts.Limit = l
		}
	}
	if order := query.Get("order"); order == "asc" || order == "desc" {
		opts.Order = order
	}

	history, err := s.service.GetMoveHistory(r.Context(), sessionID, opts)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, history)
}

// Level Handlers

func (s *Server) handleListLevels(w http.ResponseWriter, r *http.Request) {
	list, err := s.service.ListLevels(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":  len(list),
		"levels": list,
	})
}

func (s *Server) handleGetLevel(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid level index")
		return
	}

	detail, err := s.service.GetLevel(r.Context(), index)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, detail)
}

func (s *Server) handleBestTimes(w http.ResponseWriter, r *http.Request) {
	times, err := s.service.GetBestTimes(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":      len(times),
		"best_times": times,
	})
}

// WebSocket Handler

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if s.hub == nil {
		http.Error(w, "WebSocket not available", http.StatusServiceUnavailable)
		return
	}

	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		http.Error(w, "session parameter required", http.StatusBadRequest)
		return
	}

	state, err := s.service.GetGameState(r.Context(), sessionID)
	if err != nil {
		http.Error(w, "Invalid session", http.StatusNotFound)
		return
	}

	s.hub.ServeWS(w, r, sessionID)

	// Initial state for the new client
	s.hub.BroadcastToSession(sessionID, state)
}

// handleInput applies a key press or action sent over WebSocket
func (s *Server) handleInput(sessionID string, msg websocket.InputMessage) {
	ctx := context.Background()

	var (
		state *engine.GameState
		err   error
	)

	switch msg.Type {
	case "key":
		dir, ok := engine.DirectionForKey(msg.Key)
		if !ok {
			return
		}
		var result *service.MoveResult
		if result, err = s.service.Move(ctx, sessionID, dir.Name()); err == nil {
			state = result.GameState
		}

	case "action":
		var result *service.NavigationResult
		switch msg.Action {
		case "restart":
			result, err = s.service.Restart(ctx, sessionID)
		case "next":
			result, err = s.service.NextLevel(ctx, sessionID)
		case "prev":
			result, err = s.service.PrevLevel(ctx, sessionID)
		case "select":
			result, err = s.service.SelectLevel(ctx, sessionID, msg.Index)
		default:
			err = fmt.Errorf("unknown action %q", msg.Action)
		}
		if err == nil {
			state = result.GameState
		}

	default:
		err = fmt.Errorf("unknown message type %q", msg.Type)
	}

	if err != nil {
		log.Debugf("WebSocket input for session %s rejected: %v", sessionID, err)
		s.hub.BroadcastEvent(sessionID, websocket.EventError, err.Error())
		return
	}
	s.broadcast(sessionID, state)
}

func (s *Server) broadcast(sessionID string, state *engine.GameState) {
	if s.hub != nil && state != nil {
		s.hub.BroadcastToSession(sessionID, state)
	}
}

// Health check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}
