package service

import (
	"context"
	"errors"
	"time"

	"github.com/wricardo/sokoban/game/engine"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrInvalidMove     = errors.New("invalid move")
)

// GameService defines all game-related operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, level int) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Game Operations
	Move(ctx context.Context, sessionID, direction string) (*MoveResult, error)
	BulkMove(ctx context.Context, sessionID string, moves []string) (*BulkMoveResult, error)
	Restart(ctx context.Context, sessionID string) (*NavigationResult, error)
	NextLevel(ctx context.Context, sessionID string) (*NavigationResult, error)
	PrevLevel(ctx context.Context, sessionID string) (*NavigationResult, error)
	SelectLevel(ctx context.Context, sessionID string, index int) (*NavigationResult, error)

	// Game State
	GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error)
	GetView(ctx context.Context, sessionID string) (*View, error)
	GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error)

	// Levels
	ListLevels(ctx context.Context) ([]*LevelInfo, error)
	GetLevel(ctx context.Context, index int) (*LevelDetail, error)
	GetBestTimes(ctx context.Context) ([]*BestTime, error)
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id string, level int) (*Session, error)
	Get(id string) (*Session, error)
	GetOrCreate(id string, level int) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
	Save(id string) error
}

// LevelManager gives access to the loaded level collection
type LevelManager interface {
	Count() int
	Texts() []string
	Get(index int) (*engine.Level, error)
	List() []*LevelInfo
}

// Session represents an active game session
type Session struct {
	ID             string
	Engine         *engine.GameEngine
	CreatedAt      time.Time
	LastAccessedAt time.Time
}

// EngineFactory builds a fresh engine positioned on a level
type EngineFactory func(level int) (*engine.GameEngine, error)
