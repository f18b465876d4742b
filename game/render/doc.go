// Package render turns a game state into something a front end can draw:
// per-cell classes, a text board and the heads-up labels. It never reads the
// clock; the elapsed time comes from the state it is given.
package render
