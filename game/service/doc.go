// Package service provides the business logic layer of the Sokoban server.
//
// GameService is what every transport talks to: the REST API, the
// WebSocket hub and the MCP tools all call the same operations. It sits on
// top of a SessionManager (one engine per player), a LevelManager (the
// immutable level collection) and a best time store shared by all sessions.
//
// Usage:
//
//	levelMgr, _ := levels.NewManager(ctx, levels.DirSource{Dir: "levels"})
//	best := records.NewMemoryStore()
//	sessionMgr := session.NewManager(service.NewEngineFactory(levelMgr, best))
//	gameService := service.NewGameService(sessionMgr, levelMgr, best)
//
//	info, err := gameService.CreateSession(ctx, 0)
//	if err != nil {
//		log.Fatal(err)
//	}
//	result, err := gameService.Move(ctx, info.ID, "up")
//
// Returned game states are copies; they stay valid after later moves.
package service
