// Package solver searches for Sokoban solutions with a breadth-first search
// over engine.ApplyMove. Results use LURD notation (lowercase moves,
// uppercase pushes) so they can be replayed by any Sokoban tool.
//
// The search is exhaustive up to a state limit and only prunes boxes pushed
// into non-goal corners, which suits the small hand-made levels this game
// ships with. Large levels will hit ErrSearchLimit.
package solver
