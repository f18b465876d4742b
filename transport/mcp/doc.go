// Package mcp exposes the Sokoban REST API as Model Context Protocol tools.
//
// Client is a thin proxy: every tool call becomes one or two REST requests
// against a running server, and the JSON answers are turned into text an
// agent can read (a HUD line, a coordinate ruler and the board).
//
// Tools:
//   - create_session, list_sessions, get_session
//   - game_state, move, bulk_move, move_history
//   - restart_level, next_level, prev_level, select_level
//   - list_levels, best_times
//   - game_instructions, describe_cell
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//
//	// stdio
//	server.ServeStdio(client.GetMCPServer())
//
//	// or behind an HTTP handler
//	response := client.GetMCPServer().HandleMessage(ctx, body)
package mcp
