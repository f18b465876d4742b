package render

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/wricardo/sokoban/game/engine"
)

// Cell classes, shared with the web front end's stylesheet
const (
	ClassWall       = "wall"
	ClassGoal       = "goal"
	ClassBox        = "box"
	ClassBoxGoal    = "box-goal"
	ClassPlayer     = "player"
	ClassPlayerGoal = "player-goal"
	ClassFloor      = "floor"
)

// NoLevelsMessage is shown when the level collection is empty
const NoLevelsMessage = "No levels found"

// CellClass returns the display class of a symbol
func CellClass(s engine.Symbol) string {
	switch s {
	case engine.Wall:
		return ClassWall
	case engine.Goal:
		return ClassGoal
	case engine.Box:
		return ClassBox
	case engine.BoxOnGoal:
		return ClassBoxGoal
	case engine.Player:
		return ClassPlayer
	case engine.PlayerOnGoal:
		return ClassPlayerGoal
	default:
		return ClassFloor
	}
}

// Classes returns the class of every cell, row by row
func Classes(grid engine.Grid) [][]string {
	out := make([][]string, len(grid))
	for y, row := range grid {
		out[y] = make([]string, len(row))
		for x, s := range row {
			out[y][x] = CellClass(s)
		}
	}
	return out
}

// Text renders the grid as plain text, one line per row
func Text(grid engine.Grid) string {
	return grid.String()
}

// LevelLabel returns the 1-based label of a 0-based level index
func LevelLabel(index int) string {
	return fmt.Sprintf("Level %d", index+1)
}

// FormatSeconds formats a duration with one decimal, e.g. "12.3s"
func FormatSeconds(seconds float64) string {
	return strconv.FormatFloat(seconds, 'f', 1, 64) + "s"
}

// BestLabel returns "Best: 12.3s", or "Best: --" without a record
func BestLabel(best *float64) string {
	if best == nil {
		return "Best: --"
	}
	return "Best: " + FormatSeconds(*best)
}

// View is everything a front end needs to draw one frame
type View struct {
	Level      string     `json:"level"`
	LevelIndex int        `json:"level_index"`
	LevelCount int        `json:"level_count"`
	Title      string     `json:"title,omitempty"`
	Moves      int        `json:"moves"`
	Pushes     int        `json:"pushes"`
	Elapsed    string     `json:"elapsed"`
	Best       string     `json:"best"`
	Rows       []string   `json:"rows"`
	Classes    [][]string `json:"classes"`
	Won        bool       `json:"won"`
	Message    string     `json:"message,omitempty"`
}

// NewView builds a view from a state. ElapsedSeconds is used as is, so
// callers refresh it (GameEngine.GetState does) before rendering.
func NewView(state *engine.GameState) View {
	if state == nil {
		return View{Message: NoLevelsMessage, Best: BestLabel(nil), Elapsed: FormatSeconds(0)}
	}
	return View{
		Level:      LevelLabel(state.LevelIndex),
		LevelIndex: state.LevelIndex,
		LevelCount: state.LevelCount,
		Title:      state.Title,
		Moves:      state.Moves,
		Pushes:     state.Pushes,
		Elapsed:    FormatSeconds(state.ElapsedSeconds),
		Best:       BestLabel(state.BestTime),
		Rows:       state.Grid.Rows(),
		Classes:    Classes(state.Grid),
		Won:        state.Won,
		Message:    state.Message,
	}
}

// HUD returns the status line shown above the board
func (v View) HUD() string {
	parts := []string{v.Level}
	if v.Title != "" {
		parts = append(parts, v.Title)
	}
	parts = append(parts,
		fmt.Sprintf("Moves: %d", v.Moves),
		fmt.Sprintf("Time: %s", v.Elapsed),
		v.Best,
	)
	return strings.Join(parts, " | ")
}

// Color returns the fill color of a cell class for raster front ends
func Color(class string) color.RGBA {
	switch class {
	case ClassWall:
		return color.RGBA{100, 50, 0, 255}
	case ClassGoal:
		return color.RGBA{200, 60, 60, 255}
	case ClassBox:
		return color.RGBA{230, 160, 40, 255}
	case ClassBoxGoal:
		return color.RGBA{60, 180, 60, 255}
	case ClassPlayer, ClassPlayerGoal:
		return color.RGBA{70, 110, 230, 255}
	default:
		return color.RGBA{50, 50, 50, 255}
	}
}
