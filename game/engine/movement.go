package engine

import "time"

// ApplyMove computes the effect of one step of the player in dir. It never
// modifies grid; when the step is legal the returned grid is a fresh copy.
// Out-of-bounds cells behave like walls.
func ApplyMove(grid Grid, player Position, dir Direction) MoveResult {
	unchanged := MoveResult{Grid: grid, Player: player, Won: IsWin(grid)}

	from, ok := grid.At(player)
	if !ok || !from.IsPlayer() {
		return unchanged
	}

	dest := player.Add(dir, 1)
	target, ok := grid.At(dest)
	if !ok || target == Wall {
		return unchanged
	}

	next := grid.Clone()
	pushed := false

	if target.IsBox() {
		beyondPos := player.Add(dir, 2)
		beyond, ok := grid.At(beyondPos)
		if !ok || !beyond.IsOpen() {
			return unchanged
		}
		if beyond == Goal {
			next[beyondPos.Y][beyondPos.X] = BoxOnGoal
		} else {
			next[beyondPos.Y][beyondPos.X] = Box
		}
		pushed = true
	} else if !target.IsOpen() {
		// Anything else that is not floor or goal blocks the player
		return unchanged
	}

	if from == PlayerOnGoal {
		next[player.Y][player.X] = Goal
	} else {
		next[player.Y][player.X] = Floor
	}
	if target.IsGoal() {
		next[dest.Y][dest.X] = PlayerOnGoal
	} else {
		next[dest.Y][dest.X] = Player
	}

	return MoveResult{
		Grid:   next,
		Player: dest,
		Moved:  true,
		Pushed: pushed,
		Won:    IsWin(next),
	}
}

// CanMoveTo reports whether the player could step in dir from its current cell
func (gs *GameState) CanMoveTo(dir Direction) bool {
	if gs.Won {
		return false
	}
	return ApplyMove(gs.Grid, gs.PlayerPos, dir).Moved
}

// MovePlayer applies one step to the state. It returns the raw result of
// ApplyMove; callers decide what to do with a completion.
func (gs *GameState) MovePlayer(dir Direction) MoveResult {
	if gs.Won {
		return MoveResult{Grid: gs.Grid, Player: gs.PlayerPos, Won: true}
	}

	res := ApplyMove(gs.Grid, gs.PlayerPos, dir)
	if !res.Moved {
		return res
	}

	gs.Grid = res.Grid
	gs.PlayerPos = res.Player
	gs.Moves++
	if res.Pushed {
		gs.Pushes++
		gs.BoxesOnGoal = CountSymbol(gs.Grid, BoxOnGoal)
	}
	return res
}

// AddMoveToHistory adds a move to the game's move history
func (gs *GameState) AddMoveToHistory(action string, fromPos, toPos Position, pushed, success bool, now time.Time) {
	entry := MoveHistoryEntry{
		Action:       action,
		Level:        gs.LevelIndex,
		FromPosition: fromPos,
		ToPosition:   toPos,
		Pushed:       pushed,
		Timestamp:    now.Unix(),
		Success:      success,
		MoveNumber:   gs.TotalMoves + 1,
	}
	gs.MoveHistory = append(gs.MoveHistory, entry)
	gs.TotalMoves++
}
