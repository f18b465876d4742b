package solver

import (
	"errors"
	"fmt"
	"strings"

	"github.com/wricardo/sokoban/game/engine"
)

var (
	ErrSearchLimit = errors.New("search limit reached")
	ErrUnsolvable  = errors.New("level has no solution")
)

// DefaultMaxStates bounds a search when no limit is given
const DefaultMaxStates = 200000

// Solution is a move sequence in LURD notation: lowercase letters are plain
// moves, uppercase letters are pushes.
type Solution struct {
	Moves    string `json:"moves"`
	Pushes   int    `json:"pushes"`
	Explored int    `json:"explored"`
}

// Len returns the number of moves
func (s *Solution) Len() int {
	return len(s.Moves)
}

// Directions converts the solution into direction names
func (s *Solution) Directions() []string {
	dirs := make([]string, 0, len(s.Moves))
	for _, c := range s.Moves {
		if d, ok := letterDirection(c); ok {
			dirs = append(dirs, d.Name())
		}
	}
	return dirs
}

type node struct {
	grid   engine.Grid
	player engine.Position
	parent int
	move   byte
}

// Solve runs a breadth-first search over ApplyMove and returns a solution
// with the fewest moves. maxStates <= 0 means DefaultMaxStates.
func Solve(level *engine.Level, maxStates int) (*Solution, error) {
	if maxStates <= 0 {
		maxStates = DefaultMaxStates
	}
	if engine.IsWin(level.Grid) {
		return &Solution{Explored: 1}, nil
	}

	dead := DeadSquares(level.Grid)
	nodes := []node{{grid: level.Grid, player: level.Player, parent: -1}}
	seen := map[string]bool{level.Grid.String(): true}

	for head := 0; head < len(nodes); head++ {
		if len(seen) > maxStates {
			return nil, fmt.Errorf("%w: %d states", ErrSearchLimit, maxStates)
		}
		current := nodes[head]

		for _, dir := range engine.Directions {
			res := engine.ApplyMove(current.grid, current.player, dir)
			if !res.Moved {
				continue
			}
			if res.Pushed {
				boxAt := res.Player.Add(dir, 1)
				if res.Grid[boxAt.Y][boxAt.X] == engine.Box && dead[boxAt] {
					continue
				}
			}

			key := res.Grid.String()
			if seen[key] {
				continue
			}
			seen[key] = true

			nodes = append(nodes, node{
				grid:   res.Grid,
				player: res.Player,
				parent: head,
				move:   letter(dir, res.Pushed),
			})
			if res.Won {
				return buildSolution(nodes, len(nodes)-1, len(seen)), nil
			}
		}
	}

	return nil, fmt.Errorf("%w after %d states", ErrUnsolvable, len(seen))
}

func buildSolution(nodes []node, last, explored int) *Solution {
	var moves []byte
	for i := last; nodes[i].parent >= 0; i = nodes[i].parent {
		moves = append(moves, nodes[i].move)
	}
	for i, j := 0, len(moves)-1; i < j; i, j = i+1, j-1 {
		moves[i], moves[j] = moves[j], moves[i]
	}

	pushes := 0
	for _, m := range moves {
		if m >= 'A' && m <= 'Z' {
			pushes++
		}
	}
	return &Solution{Moves: string(moves), Pushes: pushes, Explored: explored}
}

func letter(dir engine.Direction, pushed bool) byte {
	var c byte
	switch dir {
	case engine.Up:
		c = 'u'
	case engine.Down:
		c = 'd'
	case engine.Left:
		c = 'l'
	default:
		c = 'r'
	}
	if pushed {
		c -= 'a' - 'A'
	}
	return c
}

func letterDirection(c rune) (engine.Direction, bool) {
	switch c {
	case 'u', 'U':
		return engine.Up, true
	case 'd', 'D':
		return engine.Down, true
	case 'l', 'L':
		return engine.Left, true
	case 'r', 'R':
		return engine.Right, true
	}
	return engine.Direction{}, false
}

// Replay applies a LURD string to a level and returns the final grid. It
// fails on an unknown letter, a blocked move or a push/move mismatch.
func Replay(level *engine.Level, moves string) (engine.Grid, error) {
	grid, player := level.Grid, level.Player
	for i, c := range moves {
		dir, ok := letterDirection(c)
		if !ok {
			return nil, fmt.Errorf("move %d: unknown letter %q", i+1, c)
		}
		res := engine.ApplyMove(grid, player, dir)
		if !res.Moved {
			return nil, fmt.Errorf("move %d (%c) is blocked", i+1, c)
		}
		if res.Pushed != strings.ContainsRune("UDLR", c) {
			return nil, fmt.Errorf("move %d (%c): push mismatch", i+1, c)
		}
		grid, player = res.Grid, res.Player
	}
	return grid, nil
}
