// Package levels loads the numbered level files of a Sokoban game.
//
// Levels are named level1.txt, level2.txt and so on. A Source fetches one
// file by number, either from a directory (DirSource) or from another server
// (HTTPSource, which requests {BaseURL}/levels/level{N}.txt). LoadAll asks for
// levels in order and stops at the first one that cannot be fetched, so the
// collection is simply every consecutive file starting at 1.
//
// Manager keeps the loaded collection. It parses every level up front so a
// malformed file is reported at startup rather than mid-game.
//
//	mgr, err := levels.NewManager(ctx, levels.DirSource{Dir: "levels"})
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(mgr.Count(), "levels")
package levels
