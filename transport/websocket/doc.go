// Package websocket pushes Sokoban state to browsers and takes their input.
//
// A Hub groups connections by session ID. Every change to a session is
// broadcast to its clients as
//
//	{"session_id": "ab12", "event": "state_update", "game_state": {...}}
//
// with the event set to "level_complete" once the level is solved. Clients
// send key presses ({"type":"key","key":"ArrowUp"}) or actions
// ({"type":"action","action":"restart"}); the hub hands them to the
// InputHandler installed with SetInputHandler.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run(ctx)
//	hub.SetInputHandler(func(sessionID string, msg websocket.InputMessage) {
//		// apply msg to the session
//	})
//	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
//		hub.ServeWS(w, r, r.URL.Query().Get("session"))
//	})
//
// The client map belongs to the Run goroutine; broadcasts, registrations
// and counts all go through its channels.
package websocket
