package engine

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/wricardo/sokoban/game/records"
)

// Symbol is a single grid cell encoded as one character
type Symbol byte

const (
	Wall         Symbol = '#'
	Floor        Symbol = ' '
	Goal         Symbol = '.'
	Box          Symbol = '$'
	BoxOnGoal    Symbol = '*'
	Player       Symbol = '@'
	PlayerOnGoal Symbol = '+'

	MaxBulkMoves = 100
)

// IsBox reports whether the cell holds a box
func (s Symbol) IsBox() bool {
	return s == Box || s == BoxOnGoal
}

// IsPlayer reports whether the cell holds the player
func (s Symbol) IsPlayer() bool {
	return s == Player || s == PlayerOnGoal
}

// IsGoal reports whether the cell is a goal square, whatever stands on it
func (s Symbol) IsGoal() bool {
	return s == Goal || s == BoxOnGoal || s == PlayerOnGoal
}

// IsOpen reports whether a box can be pushed onto the cell
func (s Symbol) IsOpen() bool {
	return s == Floor || s == Goal
}

func (s Symbol) String() string {
	return string(rune(s))
}

// Grid is a rectangular board, one row per level line
type Grid [][]Symbol

// Clone returns a deep copy of the grid
func (g Grid) Clone() Grid {
	out := make(Grid, len(g))
	for y, row := range g {
		out[y] = append([]Symbol(nil), row...)
	}
	return out
}

// Width returns the row length, 0 for an empty grid
func (g Grid) Width() int {
	if len(g) == 0 {
		return 0
	}
	return len(g[0])
}

// Height returns the number of rows
func (g Grid) Height() int {
	return len(g)
}

// At returns the symbol at p; ok is false when p is out of bounds
func (g Grid) At(p Position) (Symbol, bool) {
	if p.Y < 0 || p.Y >= len(g) || p.X < 0 || p.X >= len(g[p.Y]) {
		return 0, false
	}
	return g[p.Y][p.X], true
}

// Rows returns the grid as one string per row
func (g Grid) Rows() []string {
	rows := make([]string, len(g))
	for y, row := range g {
		var b strings.Builder
		b.Grow(len(row))
		for _, s := range row {
			b.WriteByte(byte(s))
		}
		rows[y] = b.String()
	}
	return rows
}

// String renders the grid with newline separated rows
func (g Grid) String() string {
	return strings.Join(g.Rows(), "\n")
}

// GridFromRows builds a grid from row strings without validation
func GridFromRows(rows []string) Grid {
	g := make(Grid, len(rows))
	for y, row := range rows {
		g[y] = make([]Symbol, len(row))
		for x := 0; x < len(row); x++ {
			g[y][x] = Symbol(row[x])
		}
	}
	return g
}

// MarshalJSON encodes the grid as a list of row strings
func (g Grid) MarshalJSON() ([]byte, error) {
	return json.Marshal(g.Rows())
}

// UnmarshalJSON decodes a list of row strings
func (g *Grid) UnmarshalJSON(data []byte) error {
	var rows []string
	if err := json.Unmarshal(data, &rows); err != nil {
		return fmt.Errorf("grid: %w", err)
	}
	*g = GridFromRows(rows)
	return nil
}

// Position represents x,y coordinates
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Add returns p moved by d, scaled by n steps
func (p Position) Add(d Direction, n int) Position {
	return Position{X: p.X + d.DX*n, Y: p.Y + d.DY*n}
}

// Direction is a unit step on the grid
type Direction struct {
	DX int `json:"dx"`
	DY int `json:"dy"`
}

var (
	Up    = Direction{DX: 0, DY: -1}
	Down  = Direction{DX: 0, DY: 1}
	Left  = Direction{DX: -1, DY: 0}
	Right = Direction{DX: 1, DY: 0}

	// Directions lists the four moves in a stable order
	Directions = []Direction{Up, Down, Left, Right}
)

// Name returns up, down, left or right
func (d Direction) Name() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	}
	return fmt.Sprintf("(%d,%d)", d.DX, d.DY)
}

// Level is a parsed level definition
type Level struct {
	Title  string   `json:"title,omitempty"`
	Grid   Grid     `json:"grid"`
	Player Position `json:"player"`
	Width  int      `json:"width"`
	Height int      `json:"height"`
}

// MoveResult is the outcome of ApplyMove
type MoveResult struct {
	Grid   Grid
	Player Position
	Moved  bool
	Pushed bool
	Won    bool
}

// MoveOutcome is what GameEngine reports after handling one direction
type MoveOutcome struct {
	Moved bool `json:"moved"`
	// Pushed is set when a box moved with the player
	Pushed bool `json:"pushed"`
	// Completed is set only on the move that solved the level
	Completed bool     `json:"completed"`
	NewBest   bool     `json:"new_best"`
	From      Position `json:"from"`
	To        Position `json:"to"`
}

// GameState represents the complete state of one play session
type GameState struct {
	LevelIndex  int      `json:"level_index"`
	LevelCount  int      `json:"level_count"`
	Title       string   `json:"title,omitempty"`
	Grid        Grid     `json:"grid"`
	PlayerPos   Position `json:"player_pos"`
	Moves       int      `json:"moves"`
	Pushes      int      `json:"pushes"`
	Won         bool     `json:"won"`
	Message     string   `json:"message"`
	BoxesTotal  int      `json:"boxes_total"`
	BoxesOnGoal int      `json:"boxes_on_goal"`

	Timer          records.Timer `json:"timer"`
	ElapsedSeconds float64       `json:"elapsed_seconds"`
	BestTime       *float64      `json:"best_time,omitempty"`
	NewBest        bool          `json:"new_best,omitempty"`

	MoveHistory []MoveHistoryEntry `json:"move_history"`
	TotalMoves  int                `json:"total_moves"`
}

// MoveHistoryEntry represents a single move in the game history
type MoveHistoryEntry struct {
	Action       string   `json:"action"`
	Level        int      `json:"level"`
	FromPosition Position `json:"from_position"`
	ToPosition   Position `json:"to_position"`
	Pushed       bool     `json:"pushed,omitempty"`
	Timestamp    int64    `json:"timestamp"`
	Success      bool     `json:"success"`
	MoveNumber   int      `json:"move_number"`
}

// clock is the time source used by the engine
type clock func() time.Time
