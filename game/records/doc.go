// Package records tracks per-level play time and the best completion times.
//
// Timer measures one attempt at a level. It keeps only the start and stop
// instants; the elapsed value is recomputed on every Elapsed call, so any
// display can poll it at its own refresh rate.
//
// BestTimeStore persists the fastest completion of each level under the key
// "sokoban_best_time_level{N}" (N is the 0-based level index) as a decimal
// string of seconds. FileStore keeps these keys in a single JSON document;
// MemoryStore is the in-process variant.
//
// Usage:
//
//	store, err := records.NewFileStore("data/best_times.json")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	timer := records.NewTimer(nil)
//	timer.Start()
//	// ... level solved ...
//	timer.Stop()
//	stored, err := store.SaveBestTime(0, timer.Elapsed())
package records
