package solver

import "github.com/wricardo/sokoban/game/engine"

// Reachable flood-fills from start through every cell that is not a wall.
// Boxes do not block, so the result is the region the player could ever
// stand on or push into.
func Reachable(grid engine.Grid, start engine.Position) map[engine.Position]bool {
	seen := map[engine.Position]bool{}
	if s, ok := grid.At(start); !ok || s == engine.Wall {
		return seen
	}

	queue := []engine.Position{start}
	seen[start] = true
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, dir := range engine.Directions {
			next := current.Add(dir, 1)
			s, ok := grid.At(next)
			if !ok || s == engine.Wall || seen[next] {
				continue
			}
			seen[next] = true
			queue = append(queue, next)
		}
	}
	return seen
}

// DeadSquares returns the non-goal corners: a box pushed there can never
// move again, so the level is lost.
func DeadSquares(grid engine.Grid) map[engine.Position]bool {
	dead := map[engine.Position]bool{}
	blocked := func(p engine.Position) bool {
		s, ok := grid.At(p)
		return !ok || s == engine.Wall
	}

	for y, row := range grid {
		for x, s := range row {
			if s == engine.Wall || s.IsGoal() {
				continue
			}
			p := engine.Position{X: x, Y: y}
			vertical := blocked(p.Add(engine.Up, 1)) || blocked(p.Add(engine.Down, 1))
			horizontal := blocked(p.Add(engine.Left, 1)) || blocked(p.Add(engine.Right, 1))
			if vertical && horizontal {
				dead[p] = true
			}
		}
	}
	return dead
}
