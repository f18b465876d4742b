package service

import (
	"time"

	"github.com/wricardo/sokoban/game/engine"
	"github.com/wricardo/sokoban/game/render"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string            `json:"id"`
	LevelIndex     int               `json:"level_index"`
	LevelCount     int               `json:"level_count"`
	CreatedAt      time.Time         `json:"created_at"`
	LastAccessedAt time.Time         `json:"last_accessed_at"`
	GameState      *engine.GameState `json:"game_state"`
}

// MoveResult contains the result of a move operation
type MoveResult struct {
	Success     bool              `json:"success"`
	Pushed      bool              `json:"pushed"`
	Completed   bool              `json:"completed"`
	NewBest     bool              `json:"new_best,omitempty"`
	GameState   *engine.GameState `json:"game_state"`
	Message     string            `json:"message"`
	Events      []GameEvent       `json:"events,omitempty"`
	Step        *StepInfo         `json:"step,omitempty"`
	AttemptedTo *AttemptInfo      `json:"attempted_to,omitempty"`
}

// BulkMoveResult contains the result of multiple moves
type BulkMoveResult struct {
	MovesExecuted  int               `json:"moves_executed"`
	RequestedMoves int               `json:"requested_moves"`
	Success        bool              `json:"success"`
	Completed      bool              `json:"completed"`
	GameState      *engine.GameState `json:"game_state"`
	Events         []GameEvent       `json:"events"`
	StoppedReason  string            `json:"stopped_reason,omitempty"`
	StopReasonCode string            `json:"stop_reason_code,omitempty"` // blocked_wall|blocked_box|blocked_boundary|invalid_direction|level_complete
	StoppedOnMove  int               `json:"stopped_on_move,omitempty"`  // 1-based index of the move that caused stop
	Truncated      bool              `json:"truncated,omitempty"`
	Limit          int               `json:"limit,omitempty"`

	StartPos    engine.Position `json:"start_pos"`
	EndPos      engine.Position `json:"end_pos"`
	PushesDelta int             `json:"pushes_delta"`

	Steps       []StepInfo   `json:"steps,omitempty"`
	AttemptedTo *AttemptInfo `json:"attempted_to,omitempty"`

	Message       string   `json:"message,omitempty"`
	PossibleMoves []string `json:"possible_moves,omitempty"`
}

// StepInfo is a compact record for each executed move
type StepInfo struct {
	Idx       int             `json:"idx"`
	Dir       string          `json:"dir"`
	From      engine.Position `json:"from"`
	To        engine.Position `json:"to"`
	Success   bool            `json:"success"`
	Pushed    bool            `json:"pushed,omitempty"`
	Completed bool            `json:"completed,omitempty"`
}

// AttemptInfo details the cell that stopped a move
type AttemptInfo struct {
	X        int    `json:"x"`
	Y        int    `json:"y"`
	TileChar string `json:"tile_char"`
	TileType string `json:"tile_type"`
}

// GameEvent represents an event that occurred during gameplay
type GameEvent struct {
	Type      string          `json:"type"` // "move", "push", "level_complete", "new_best", "reset", "level_change"
	Message   string          `json:"message"`
	Timestamp time.Time       `json:"timestamp"`
	Position  engine.Position `json:"position,omitempty"`
}

// NavigationResult is returned by restart and level changes
type NavigationResult struct {
	Changed   bool              `json:"changed"`
	GameState *engine.GameState `json:"game_state"`
	Message   string            `json:"message,omitempty"`
}

// HistoryOptions configures move history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated move history
type HistoryResponse struct {
	Moves       []engine.MoveHistoryEntry `json:"moves"`
	TotalMoves  int                       `json:"total_moves"`
	Page        int                       `json:"page"`
	PageSize    int                       `json:"page_size"`
	TotalPages  int                       `json:"total_pages"`
	HasNext     bool                      `json:"has_next"`
	HasPrevious bool                      `json:"has_previous"`
}

// LevelInfo summarizes one level of the collection
type LevelInfo struct {
	Index  int    `json:"index"`  // 0-based, used by every API
	Number int    `json:"number"` // 1-based, as in level{N}.txt
	Title  string `json:"title,omitempty"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Boxes  int    `json:"boxes"`
	Goals  int    `json:"goals"`
}

// LevelDetail is a level summary plus its initial board
type LevelDetail struct {
	LevelInfo
	Rows     []string `json:"rows"`
	BestTime *float64 `json:"best_time,omitempty"`
}

// BestTime is one stored record
type BestTime struct {
	Index   int     `json:"index"`
	Label   string  `json:"label"`
	Seconds float64 `json:"seconds"`
	Display string  `json:"display"`
}

// View is the rendered state of a session
type View = render.View
