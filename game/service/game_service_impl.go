package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/wricardo/sokoban/game/engine"
	"github.com/wricardo/sokoban/game/records"
	"github.com/wricardo/sokoban/game/render"
)

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	levels   LevelManager
	best     records.BestTimeStore
	mu       sync.RWMutex
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, levels LevelManager, best records.BestTimeStore) GameService {
	if best == nil {
		best = records.NewMemoryStore()
	}
	return &gameServiceImpl{
		sessions: sessions,
		levels:   levels,
		best:     best,
	}
}

// snapshot copies the state so callers can encode it after the lock is
// released. Moves replace the grid instead of editing it, so a shallow copy
// is enough.
func snapshot(state *engine.GameState) *engine.GameState {
	cp := *state
	return &cp
}

func (s *gameServiceImpl) sessionInfo(sess *Session) *SessionInfo {
	state := snapshot(sess.Engine.GetState())
	return &SessionInfo{
		ID:             sess.ID,
		LevelIndex:     state.LevelIndex,
		LevelCount:     state.LevelCount,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		GameState:      state,
	}
}

func (s *gameServiceImpl) getSession(sessionID string) (*Session, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}
	s.sessions.UpdateLastAccessed(sessionID)
	return sess, nil
}

func (s *gameServiceImpl) persist(sessionID, after string) {
	if err := s.sessions.Save(sessionID); err != nil {
		log.Warnf("Failed to persist session %s after %s: %v", sessionID, after, err)
	}
}

// CreateSession creates a new game session starting at a level
func (s *gameServiceImpl) CreateSession(ctx context.Context, level int) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := s.levels.Count()
	if count == 0 {
		return nil, engine.ErrNoLevels
	}
	if level < 0 || level >= count {
		return nil, fmt.Errorf("%w: %d (available: 0-%d)", engine.ErrLevelOutOfRange, level, count-1)
	}

	// Let session manager generate the ID
	sess, err := s.sessions.Create("", level)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	log.Debugf("Created session %s at level %d", sess.ID, level+1)
	return s.sessionInfo(sess), nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}
	return s.sessionInfo(sess), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, s.sessionInfo(sess))
	}
	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.sessions.Delete(sessionID); err != nil {
		return fmt.Errorf("session %s: %w", sessionID, err)
	}
	return nil
}

// Move executes a single move for a session
func (s *gameServiceImpl) Move(ctx context.Context, sessionID, direction string) (*MoveResult, error) {
	dir, err := engine.ParseDirection(direction)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMove, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	wasWon := sess.Engine.IsVictory()
	out := sess.Engine.MoveDir(dir)
	state := snapshot(sess.Engine.GetState())

	result := &MoveResult{
		Success:   out.Moved,
		Pushed:    out.Pushed,
		Completed: out.Completed,
		NewBest:   out.NewBest,
		GameState: state,
		Message:   state.Message,
		Events:    moveEvents(out, dir, state),
	}

	if out.Moved {
		result.Step = &StepInfo{
			Idx:       1,
			Dir:       dir.Name(),
			From:      out.From,
			To:        out.To,
			Success:   true,
			Pushed:    out.Pushed,
			Completed: out.Completed,
		}
	} else if !wasWon {
		result.AttemptedTo, _ = attempted(state.Grid, out.From, dir)
	}

	s.persist(sessionID, "move")
	return result, nil
}

// BulkMove executes multiple moves in sequence. It stops at the first move
// that cannot be made and after the move that completes the level.
func (s *gameServiceImpl) BulkMove(ctx context.Context, sessionID string, moves []string) (*BulkMoveResult, error) {
	if len(moves) == 0 {
		return nil, fmt.Errorf("%w: no moves given", ErrInvalidMove)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	start := sess.Engine.GetState()
	startPushes := start.Pushes

	result := &BulkMoveResult{
		RequestedMoves: len(moves),
		Events:         make([]GameEvent, 0),
		Success:        true,
		StartPos:       start.PlayerPos,
	}

	// Limit moves to prevent abuse
	if len(moves) > engine.MaxBulkMoves {
		result.Truncated = true
		result.Limit = engine.MaxBulkMoves
		moves = moves[:engine.MaxBulkMoves]
	}

	for i, move := range moves {
		if sess.Engine.IsVictory() {
			if result.StopReasonCode == "" {
				result.Success = false
				result.StoppedReason = "level already complete"
				result.StopReasonCode = "level_complete"
				result.StoppedOnMove = i + 1
			}
			break
		}

		dir, err := engine.ParseDirection(move)
		if err != nil {
			result.Success = false
			result.StoppedReason = fmt.Sprintf("move %d: unknown direction %q", i+1, move)
			result.StopReasonCode = "invalid_direction"
			result.StoppedOnMove = i + 1
			break
		}

		out := sess.Engine.MoveDir(dir)
		if !out.Moved {
			result.Success = false
			result.StoppedReason = fmt.Sprintf("move %d blocked: %s", i+1, dir.Name())
			result.StoppedOnMove = i + 1
			info, code := attempted(sess.Engine.GetState().Grid, out.From, dir)
			result.AttemptedTo = info
			result.StopReasonCode = code
			break
		}

		result.MovesExecuted++
		result.Events = append(result.Events, moveEvents(out, dir, sess.Engine.GetState())...)
		result.Steps = append(result.Steps, StepInfo{
			Idx:       i + 1,
			Dir:       dir.Name(),
			From:      out.From,
			To:        out.To,
			Success:   true,
			Pushed:    out.Pushed,
			Completed: out.Completed,
		})

		if out.Completed {
			result.Completed = true
			if i < len(moves)-1 {
				result.StoppedReason = fmt.Sprintf("level complete after move %d", i+1)
				result.StopReasonCode = "level_complete"
				result.StoppedOnMove = i + 1
			}
		}
	}

	end := snapshot(sess.Engine.GetState())
	result.GameState = end
	result.EndPos = end.PlayerPos
	result.PushesDelta = end.Pushes - startPushes
	result.Message = end.Message
	result.PossibleMoves = sess.Engine.GetPossibleMoves()

	s.persist(sessionID, "bulk moves")
	return result, nil
}

// Restart reloads the current level of a session
func (s *gameServiceImpl) Restart(ctx context.Context, sessionID string) (*NavigationResult, error) {
	return s.navigate(sessionID, "restart", "", func(eng *engine.GameEngine) (bool, error) {
		eng.Reset()
		return true, nil
	})
}

// NextLevel moves a session to the following level
func (s *gameServiceImpl) NextLevel(ctx context.Context, sessionID string) (*NavigationResult, error) {
	return s.navigate(sessionID, "next level", "Already at the last level", func(eng *engine.GameEngine) (bool, error) {
		return eng.NextLevel(), nil
	})
}

// PrevLevel moves a session to the preceding level
func (s *gameServiceImpl) PrevLevel(ctx context.Context, sessionID string) (*NavigationResult, error) {
	return s.navigate(sessionID, "previous level", "Already at the first level", func(eng *engine.GameEngine) (bool, error) {
		return eng.PrevLevel(), nil
	})
}

// SelectLevel jumps to any level by 0-based index
func (s *gameServiceImpl) SelectLevel(ctx context.Context, sessionID string, index int) (*NavigationResult, error) {
	return s.navigate(sessionID, "level select", "", func(eng *engine.GameEngine) (bool, error) {
		if err := eng.LoadLevel(index); err != nil {
			return false, err
		}
		return true, nil
	})
}

func (s *gameServiceImpl) navigate(sessionID, action, unchanged string, fn func(*engine.GameEngine) (bool, error)) (*NavigationResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	changed, err := fn(sess.Engine)
	if err != nil {
		return nil, err
	}

	state := snapshot(sess.Engine.GetState())
	result := &NavigationResult{
		Changed:   changed,
		GameState: state,
		Message:   state.Message,
	}
	if !changed {
		result.Message = unchanged
		return result, nil
	}

	s.persist(sessionID, action)
	return result, nil
}

// GetGameState retrieves the current game state
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}
	return snapshot(sess.Engine.GetState()), nil
}

// GetView renders the current state of a session
func (s *gameServiceImpl) GetView(ctx context.Context, sessionID string) (*View, error) {
	state, err := s.GetGameState(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	view := render.NewView(state)
	return &view, nil
}

// GetMoveHistory returns paginated move history
func (s *gameServiceImpl) GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	history := sess.Engine.GetMoveHistory()
	total := len(history)

	// Apply defaults
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	if opts.Order == "" {
		opts.Order = "desc"
	}

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := start + opts.Limit
	if end > total {
		end = total
	}

	moves := []engine.MoveHistoryEntry{}
	if opts.Order == "desc" {
		// Most recent first
		for i := total - 1 - start; i >= 0 && i >= total-end; i-- {
			moves = append(moves, history[i])
		}
	} else if start < total {
		moves = append(moves, history[start:end]...)
	}

	return &HistoryResponse{
		Moves:       moves,
		TotalMoves:  total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
	}, nil
}

// ListLevels returns the level catalogue
func (s *gameServiceImpl) ListLevels(ctx context.Context) ([]*LevelInfo, error) {
	if s.levels.Count() == 0 {
		return nil, engine.ErrNoLevels
	}
	return s.levels.List(), nil
}

// GetLevel returns one level with its initial board and best time
func (s *gameServiceImpl) GetLevel(ctx context.Context, index int) (*LevelDetail, error) {
	if s.levels.Count() == 0 {
		return nil, engine.ErrNoLevels
	}
	level, err := s.levels.Get(index)
	if err != nil {
		return nil, err
	}

	detail := &LevelDetail{
		LevelInfo: *s.levels.List()[index],
		Rows:      level.Grid.Rows(),
	}
	if best, ok, err := s.best.LoadBestTime(index); err != nil {
		log.Warnf("Failed to load best time for level %d: %v", index, err)
	} else if ok {
		detail.BestTime = &best
	}
	return detail, nil
}

// GetBestTimes returns every stored record ordered by level
func (s *gameServiceImpl) GetBestTimes(ctx context.Context) ([]*BestTime, error) {
	times, err := s.best.All()
	if err != nil {
		return nil, fmt.Errorf("failed to read best times: %w", err)
	}

	result := make([]*BestTime, 0, len(times))
	for _, index := range records.SortedLevels(times) {
		result = append(result, &BestTime{
			Index:   index,
			Label:   render.LevelLabel(index),
			Seconds: times[index],
			Display: render.FormatSeconds(times[index]),
		})
	}
	return result, nil
}

// moveEvents describes what a successful move did
func moveEvents(out engine.MoveOutcome, dir engine.Direction, state *engine.GameState) []GameEvent {
	if !out.Moved {
		return nil
	}
	now := time.Now()
	events := []GameEvent{{
		Type:      "move",
		Message:   fmt.Sprintf("Moved %s to (%d,%d)", dir.Name(), out.To.X, out.To.Y),
		Timestamp: now,
		Position:  out.To,
	}}

	if out.Pushed {
		box := out.To.Add(dir, 1)
		events = append(events, GameEvent{
			Type:      "push",
			Message:   fmt.Sprintf("Pushed box to (%d,%d), %d/%d on goals", box.X, box.Y, state.BoxesOnGoal, state.BoxesTotal),
			Timestamp: now,
			Position:  box,
		})
	}

	if out.Completed {
		events = append(events, GameEvent{
			Type:      "level_complete",
			Message:   fmt.Sprintf("%s complete in %s", render.LevelLabel(state.LevelIndex), render.FormatSeconds(state.ElapsedSeconds)),
			Timestamp: now,
		})
	}
	if out.NewBest {
		events = append(events, GameEvent{
			Type:      "new_best",
			Message:   fmt.Sprintf("New best time: %s", render.FormatSeconds(state.ElapsedSeconds)),
			Timestamp: now,
		})
	}
	return events
}

// attempted describes the cell that blocked a move and returns a stop code
func attempted(grid engine.Grid, from engine.Position, dir engine.Direction) (*AttemptInfo, string) {
	target := from.Add(dir, 1)
	info := &AttemptInfo{X: target.X, Y: target.Y}

	s, ok := grid.At(target)
	if !ok {
		info.TileChar, info.TileType = "", "boundary"
		return info, "blocked_boundary"
	}

	info.TileChar = s.String()
	info.TileType = render.CellClass(s)
	if s.IsBox() {
		return info, "blocked_box"
	}
	return info, "blocked_wall"
}
