// Package engine provides the core Sokoban rules.
//
// A level is parsed from its text form by ParseLevel into a rectangular
// Grid. ApplyMove is the pure transition: given a grid, the player position
// and a direction it returns the next grid without touching its input. IsWin
// holds the completion rule: a level is solved once no box stands off a goal.
//
// GameEngine wraps those pieces for one player: it owns the ordered level
// texts, the current GameState, the level timer and the best time store.
//
// Usage:
//
//	eng, err := engine.NewEngine(texts, engine.WithBestTimes(store))
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	eng.Move("right")
//	if eng.IsVictory() {
//		eng.NextLevel()
//	}
//
// Symbols:
//
//	#  wall          .  goal
//	$  box           *  box on goal
//	@  player        +  player on goal
//	   floor (also - and _ in level files)
package engine
