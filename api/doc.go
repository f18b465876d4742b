// Package api provides the HTTP REST API of the Sokoban server.
//
// Endpoints:
//
// Sessions:
//   - POST /api/sessions {"level": 0} - Create a session on a level (0-based)
//   - GET /api/sessions?sort=created|accessed&order=asc|desc&limit=N - List sessions
//   - GET /api/sessions/{id} - Get one session
//   - DELETE /api/sessions/{id} - Delete a session
//
// Game:
//   - GET /api/sessions/{id}/state - Raw game state
//   - GET /api/sessions/{id}/view - Rendered board and HUD
//   - POST /api/sessions/{id}/move {"direction": "up"} or {"key": "ArrowUp"}
//   - POST /api/sessions/{id}/bulk-move {"moves": ["up", "left"]}
//   - POST /api/sessions/{id}/restart, /next, /prev
//   - POST /api/sessions/{id}/level {"index": 2}
//   - GET /api/sessions/{id}/history?page=1&limit=20&order=desc
//
// Levels:
//   - GET /api/levels, GET /api/levels/{index}
//   - GET /api/best-times
//   - GET /levels/level{N}.txt - Raw level files, when a levels directory is set
//
// Every change is also pushed to the session's WebSocket clients (/ws?session=ID).
//
// Errors are returned as {"error": "message"}: 404 for an unknown session or
// level, 400 for a bad body or direction, 503 "no levels found" when the
// level collection is empty.
package api
