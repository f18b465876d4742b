package engine

// IsWin reports whether the level is solved: no box remains off a goal
func IsWin(grid Grid) bool {
	for _, row := range grid {
		for _, s := range row {
			if s == Box {
				return false
			}
		}
	}
	return true
}

// CountSymbol counts the cells holding exactly s
func CountSymbol(grid Grid, s Symbol) int {
	count := 0
	for _, row := range grid {
		for _, cell := range row {
			if cell == s {
				count++
			}
		}
	}
	return count
}

// CountBoxes counts boxes whether or not they sit on a goal
func CountBoxes(grid Grid) int {
	return CountSymbol(grid, Box) + CountSymbol(grid, BoxOnGoal)
}

// CountGoals counts goal squares, including covered ones
func CountGoals(grid Grid) int {
	count := 0
	for _, row := range grid {
		for _, cell := range row {
			if cell.IsGoal() {
				count++
			}
		}
	}
	return count
}

// BoxesOnGoal counts boxes already placed on a goal
func BoxesOnGoal(grid Grid) int {
	return CountSymbol(grid, BoxOnGoal)
}

// ManhattanDistance calculates the Manhattan distance between two positions
func ManhattanDistance(from, to Position) int {
	dx := from.X - to.X
	if dx < 0 {
		dx = -dx
	}
	dy := from.Y - to.Y
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}
