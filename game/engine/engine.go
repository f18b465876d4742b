package engine

import (
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/wricardo/sokoban/game/records"
)

var (
	ErrNoLevels        = errors.New("no levels found")
	ErrLevelOutOfRange = errors.New("level index out of range")
)

// Message shown once the last box lands on a goal
const CompletedMessage = "Level Complete!"

// Engine provides the main interface for game operations
type Engine interface {
	// Game state management
	GetState() *GameState
	SetState(state *GameState) error
	Reset() *GameState
	IsVictory() bool
	GetPlayerPosition() Position

	// Level navigation
	LoadLevel(index int) error
	NextLevel() bool
	PrevLevel() bool
	LevelIndex() int
	LevelCount() int

	// Movement operations
	Move(direction string) bool
	MoveDir(dir Direction) MoveOutcome
	BulkMove(moves []string) []bool
	CanMove(direction string) bool
	GetPossibleMoves() []string

	// History
	GetMoveHistory() []MoveHistoryEntry
	GetLastMove() *MoveHistoryEntry
}

// GameEngine implements the Engine interface over an ordered level collection
type GameEngine struct {
	levels []string
	state  *GameState
	best   records.BestTimeStore
	now    clock
	start  int
}

// Option configures a GameEngine
type Option func(*GameEngine)

// WithBestTimes sets the store used to read and record best times
func WithBestTimes(store records.BestTimeStore) Option {
	return func(e *GameEngine) {
		e.best = store
	}
}

// WithClock replaces time.Now, mostly for tests
func WithClock(now func() time.Time) Option {
	return func(e *GameEngine) {
		e.now = now
	}
}

// WithStartLevel selects the level loaded by NewEngine
func WithStartLevel(index int) Option {
	return func(e *GameEngine) {
		e.start = index
	}
}

// NewEngine creates an engine over the given level texts and loads the
// start level (the first one unless WithStartLevel says otherwise).
func NewEngine(levels []string, opts ...Option) (*GameEngine, error) {
	if len(levels) == 0 {
		return nil, ErrNoLevels
	}

	engine := &GameEngine{
		levels: levels,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(engine)
	}
	if engine.best == nil {
		engine.best = records.NewMemoryStore()
	}
	if engine.now == nil {
		engine.now = time.Now
	}

	if err := engine.LoadLevel(engine.start); err != nil {
		return nil, err
	}
	return engine, nil
}

// LoadLevel rebuilds the grid from the level text, resets the move counter
// and restarts the timer. History and total moves carry over.
func (e *GameEngine) LoadLevel(index int) error {
	if index < 0 || index >= len(e.levels) {
		return fmt.Errorf("%w: %d of %d", ErrLevelOutOfRange, index, len(e.levels))
	}

	level, err := ParseLevel(e.levels[index])
	if err != nil {
		return fmt.Errorf("level %d: %w", index+1, err)
	}

	state := &GameState{
		LevelIndex:  index,
		LevelCount:  len(e.levels),
		Title:       level.Title,
		Grid:        level.Grid,
		PlayerPos:   level.Player,
		BoxesTotal:  CountBoxes(level.Grid),
		BoxesOnGoal: BoxesOnGoal(level.Grid),
		Message:     fmt.Sprintf("Level %d", index+1),
		MoveHistory: []MoveHistoryEntry{},
	}
	if e.state != nil {
		state.MoveHistory = e.state.MoveHistory
		state.TotalMoves = e.state.TotalMoves
	}

	if best, ok, err := e.best.LoadBestTime(index); err != nil {
		log.Warnf("Failed to load best time for level %d: %v", index, err)
	} else if ok {
		state.BestTime = &best
	}

	state.Timer.SetClock(e.now)
	state.Timer.Start()

	e.state = state
	return nil
}

// GetState returns the current game state with a fresh elapsed time
func (e *GameEngine) GetState() *GameState {
	e.state.ElapsedSeconds = e.state.Timer.Elapsed()
	return e.state
}

// SetState sets the game state (used for persistence loading)
func (e *GameEngine) SetState(state *GameState) error {
	if state == nil {
		return fmt.Errorf("state cannot be nil")
	}
	if state.LevelIndex < 0 || state.LevelIndex >= len(e.levels) {
		return fmt.Errorf("%w: %d", ErrLevelOutOfRange, state.LevelIndex)
	}
	pos, err := FindPlayer(state.Grid)
	if err != nil {
		return fmt.Errorf("invalid state: %w", err)
	}

	state.PlayerPos = pos
	state.LevelCount = len(e.levels)
	if state.MoveHistory == nil {
		state.MoveHistory = []MoveHistoryEntry{}
	}
	state.Timer.SetClock(e.now)
	e.state = state
	return nil
}

// Reset reloads the current level
func (e *GameEngine) Reset() *GameState {
	if err := e.LoadLevel(e.state.LevelIndex); err != nil {
		// The level parsed once already, so this only happens with a bad restored state
		log.Errorf("Failed to reload level %d: %v", e.state.LevelIndex+1, err)
	}
	return e.GetState()
}

// NextLevel loads the following level; it returns false on the last one
func (e *GameEngine) NextLevel() bool {
	return e.step(1)
}

// PrevLevel loads the preceding level; it returns false on the first one
func (e *GameEngine) PrevLevel() bool {
	return e.step(-1)
}

func (e *GameEngine) step(delta int) bool {
	next := e.state.LevelIndex + delta
	if next < 0 || next >= len(e.levels) {
		return false
	}
	if err := e.LoadLevel(next); err != nil {
		log.Errorf("Failed to load level %d: %v", next+1, err)
		return false
	}
	return true
}

// LevelIndex returns the 0-based index of the level being played
func (e *GameEngine) LevelIndex() int {
	return e.state.LevelIndex
}

// LevelCount returns the size of the level collection
func (e *GameEngine) LevelCount() int {
	return len(e.levels)
}

// Levels returns the raw level texts
func (e *GameEngine) Levels() []string {
	return e.levels
}

// BestTimes returns the store that records completions
func (e *GameEngine) BestTimes() records.BestTimeStore {
	return e.best
}

// IsVictory returns whether the current level is solved
func (e *GameEngine) IsVictory() bool {
	return e.state.Won
}

// GetPlayerPosition returns the current player position
func (e *GameEngine) GetPlayerPosition() Position {
	return e.state.PlayerPos
}

// Move attempts to move the player in the specified direction
func (e *GameEngine) Move(direction string) bool {
	dir, err := ParseDirection(direction)
	if err != nil {
		pos := e.state.PlayerPos
		e.state.AddMoveToHistory(direction, pos, pos, false, false, e.now())
		e.state.Message = fmt.Sprintf("Unknown direction %q", direction)
		return false
	}
	return e.MoveDir(dir).Moved
}

// MoveDir applies one step and handles a level completion. Moves are
// rejected once the level is solved, until it is loaded again.
func (e *GameEngine) MoveDir(dir Direction) MoveOutcome {
	from := e.state.PlayerPos
	out := MoveOutcome{From: from, To: from}

	if e.state.Won {
		e.state.Message = CompletedMessage
		return out
	}

	res := e.state.MovePlayer(dir)
	out.Moved = res.Moved
	out.Pushed = res.Pushed
	out.To = e.state.PlayerPos
	e.state.AddMoveToHistory(dir.Name(), from, out.To, res.Pushed, res.Moved, e.now())

	if !res.Moved {
		e.state.Message = "Blocked"
		return out
	}
	e.state.Message = ""

	if res.Won {
		e.complete(&out)
	}
	return out
}

func (e *GameEngine) complete(out *MoveOutcome) {
	e.state.Won = true
	e.state.Timer.Stop()
	elapsed := e.state.Timer.Elapsed()
	e.state.ElapsedSeconds = elapsed
	e.state.Message = CompletedMessage
	out.Completed = true

	stored, err := e.best.SaveBestTime(e.state.LevelIndex, elapsed)
	if err != nil {
		log.Warnf("Failed to save best time for level %d: %v", e.state.LevelIndex, err)
		return
	}
	if stored {
		best := elapsed
		e.state.BestTime = &best
		e.state.NewBest = true
		out.NewBest = true
	}
	log.Infof("Level %d complete in %.3fs (%d moves, new best: %v)",
		e.state.LevelIndex+1, elapsed, e.state.Moves, stored)
}

// CanMove checks if the player can move in the specified direction
func (e *GameEngine) CanMove(direction string) bool {
	dir, err := ParseDirection(direction)
	if err != nil {
		return false
	}
	return e.state.CanMoveTo(dir)
}

// GetPossibleMoves returns all valid directions the player can move
func (e *GameEngine) GetPossibleMoves() []string {
	var possible []string
	for _, dir := range Directions {
		if e.state.CanMoveTo(dir) {
			possible = append(possible, dir.Name())
		}
	}
	return possible
}

// GetMoveHistory returns the complete move history
func (e *GameEngine) GetMoveHistory() []MoveHistoryEntry {
	return e.state.MoveHistory
}

// GetLastMove returns the last move made, or nil if no moves
func (e *GameEngine) GetLastMove() *MoveHistoryEntry {
	if len(e.state.MoveHistory) == 0 {
		return nil
	}
	return &e.state.MoveHistory[len(e.state.MoveHistory)-1]
}

// BulkMove executes multiple moves in sequence, returning success status for
// each. It stops after the move that completes the level.
func (e *GameEngine) BulkMove(moves []string) []bool {
	results := make([]bool, 0, len(moves))

	for _, direction := range moves {
		if e.IsVictory() {
			break
		}
		results = append(results, e.Move(direction))
	}

	return results
}
