// Package session keeps the Sokoban games that are in play.
//
// Every session owns its own engine, so players never share a grid, a
// timer or a move history. Manager holds sessions in memory keyed by a
// case-insensitive ID and can mirror them to a SessionPersistence such as
// FilePersistence, which writes one JSON document per session.
//
// Session Identifiers:
//
// Generated IDs are the first 4 hex characters of a random UUID, retried
// until unique among the loaded sessions. Callers may also pick their own
// ID as long as it holds no path separators, dots or spaces.
//
// Usage:
//
//	factory := service.NewEngineFactory(levelManager, bestTimes)
//	manager := session.NewManager(factory)
//
//	sess, err := manager.Create("", 0)
//	if err != nil {
//		log.Fatal(err)
//	}
//	sess.Engine.Move("up")
//
// Idle sessions are dropped from memory by CleanupExpiredSessions; their
// persisted copies stay on disk and are loaded again on the next Get.
package session
