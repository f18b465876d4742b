package engine

import (
	"fmt"
	"strings"
)

// TitlePrefix marks a metadata line that is not part of the grid
const TitlePrefix = "Title:"

// MalformedLevelError reports level text that cannot produce a playable grid
type MalformedLevelError struct {
	Reason string
	Line   int // 1-based line in the source text, 0 when not tied to a line
}

func (e *MalformedLevelError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("malformed level: line %d: %s", e.Line, e.Reason)
	}
	return fmt.Sprintf("malformed level: %s", e.Reason)
}

// symbolFor maps a level file character to a grid symbol
func symbolFor(c byte) (Symbol, bool) {
	switch Symbol(c) {
	case Wall, Floor, Goal, Box, BoxOnGoal, Player, PlayerOnGoal:
		return Symbol(c), true
	}
	// Alternative floor notation found in published level sets
	if c == '-' || c == '_' {
		return Floor, true
	}
	return 0, false
}

// ParseLevel converts raw level text into a rectangular grid. Title lines
// are dropped from the grid, the first one is kept as the level title. Short
// rows are padded with floor to the width of the longest row.
func ParseLevel(text string) (*Level, error) {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	rawLines := strings.Split(text, "\n")

	type line struct {
		text   string
		number int
	}

	level := &Level{}
	var lines []line
	for i, raw := range rawLines {
		raw = strings.TrimRight(raw, "\r")
		if strings.HasPrefix(raw, TitlePrefix) {
			if level.Title == "" {
				level.Title = strings.TrimSpace(strings.TrimPrefix(raw, TitlePrefix))
			}
			continue
		}
		lines = append(lines, line{text: raw, number: i + 1})
	}

	// Drop blank lines around the board
	for len(lines) > 0 && strings.TrimSpace(lines[0].text) == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1].text) == "" {
		lines = lines[:len(lines)-1]
	}

	if len(lines) == 0 {
		return nil, &MalformedLevelError{Reason: "no grid rows"}
	}

	width := 0
	for _, l := range lines {
		if len(l.text) > width {
			width = len(l.text)
		}
	}

	grid := make(Grid, len(lines))
	players := 0
	for y, l := range lines {
		row := make([]Symbol, width)
		for x := 0; x < width; x++ {
			if x >= len(l.text) {
				row[x] = Floor
				continue
			}
			s, ok := symbolFor(l.text[x])
			if !ok {
				return nil, &MalformedLevelError{
					Reason: fmt.Sprintf("unknown symbol %q at column %d", l.text[x], x+1),
					Line:   l.number,
				}
			}
			if s.IsPlayer() {
				players++
				if players > 1 {
					return nil, &MalformedLevelError{
						Reason: fmt.Sprintf("second player at column %d", x+1),
						Line:   l.number,
					}
				}
				level.Player = Position{X: x, Y: y}
			}
			row[x] = s
		}
		grid[y] = row
	}

	if players == 0 {
		return nil, &MalformedLevelError{Reason: "no player ('@' or '+') found"}
	}

	level.Grid = grid
	level.Width = width
	level.Height = len(grid)
	return level, nil
}

// FindPlayer scans the grid for the single player cell
func FindPlayer(grid Grid) (Position, error) {
	found := false
	var pos Position
	for y, row := range grid {
		for x, s := range row {
			if !s.IsPlayer() {
				continue
			}
			if found {
				return Position{}, &MalformedLevelError{Reason: "more than one player in grid"}
			}
			pos = Position{X: x, Y: y}
			found = true
		}
	}
	if !found {
		return Position{}, &MalformedLevelError{Reason: "no player ('@' or '+') found"}
	}
	return pos, nil
}
