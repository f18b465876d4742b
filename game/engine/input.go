package engine

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownDirection = errors.New("unknown direction")

// DirectionForKey maps a keyboard key name to a direction. Arrow keys use
// the browser KeyboardEvent names; WASD is case-insensitive.
func DirectionForKey(key string) (Direction, bool) {
	switch key {
	case "ArrowUp":
		return Up, true
	case "ArrowDown":
		return Down, true
	case "ArrowLeft":
		return Left, true
	case "ArrowRight":
		return Right, true
	}

	switch strings.ToLower(key) {
	case "w":
		return Up, true
	case "s":
		return Down, true
	case "a":
		return Left, true
	case "d":
		return Right, true
	}
	return Direction{}, false
}

// ParseDirection accepts direction names (up, down, left, right), the
// initials u, l and r, and anything DirectionForKey understands. WASD keys
// take precedence, so "d" is right wherever a direction is parsed.
func ParseDirection(s string) (Direction, error) {
	trimmed := strings.TrimSpace(s)
	if dir, ok := DirectionForKey(trimmed); ok {
		return dir, nil
	}
	switch strings.ToLower(trimmed) {
	case "up", "u":
		return Up, nil
	case "down":
		return Down, nil
	case "left", "l":
		return Left, nil
	case "right", "r":
		return Right, nil
	}
	return Direction{}, fmt.Errorf("%w: %q", ErrUnknownDirection, s)
}
