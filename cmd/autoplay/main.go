// Command autoplay drives a running Sokoban server through its REST API. It
// creates (or resumes) a session, solves each level with a breadth-first
// search and submits the solution as bulk moves, then advances to the next
// level until the collection is finished or a level cannot be solved.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"

	"github.com/wricardo/sokoban/game/engine"
	"github.com/wricardo/sokoban/game/service"
	"github.com/wricardo/sokoban/game/solver"
)

// Client talks to the game server on behalf of one session
type Client struct {
	baseURL   string
	sessionID string
	client    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// do sends a JSON request and decodes the JSON response into result
func (c *Client) do(ctx context.Context, method, path string, body, result interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("%s %s failed: %s - %s", method, path, resp.Status, apiErr.Error)
		}
		return fmt.Errorf("%s %s failed: %s", method, path, resp.Status)
	}

	if result != nil {
		if err := json.Unmarshal(data, result); err != nil {
			return fmt.Errorf("parse response: %w", err)
		}
	}
	return nil
}

func (c *Client) sessionPath(suffix string) string {
	return "/api/sessions/" + url.PathEscape(c.sessionID) + suffix
}

// CreateSession starts a new session at level (0-based)
func (c *Client) CreateSession(ctx context.Context, level int) (*engine.GameState, error) {
	var info service.SessionInfo
	if err := c.do(ctx, http.MethodPost, "/api/sessions", map[string]int{"level": level}, &info); err != nil {
		return nil, err
	}
	c.sessionID = info.ID
	return info.GameState, nil
}

// Resume attaches the client to an existing session
func (c *Client) Resume(ctx context.Context, sessionID string) (*engine.GameState, error) {
	c.sessionID = sessionID
	return c.State(ctx)
}

func (c *Client) State(ctx context.Context) (*engine.GameState, error) {
	var state engine.GameState
	if err := c.do(ctx, http.MethodGet, c.sessionPath("/state"), nil, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

func (c *Client) navigate(ctx context.Context, action string) (*service.NavigationResult, error) {
	var result service.NavigationResult
	if err := c.do(ctx, http.MethodPost, c.sessionPath("/"+action), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) Restart(ctx context.Context) (*service.NavigationResult, error) {
	return c.navigate(ctx, "restart")
}

func (c *Client) Next(ctx context.Context) (*service.NavigationResult, error) {
	return c.navigate(ctx, "next")
}

// BulkMove submits moves, split into requests the server accepts
func (c *Client) BulkMove(ctx context.Context, moves []string) (*service.BulkMoveResult, error) {
	var last *service.BulkMoveResult
	for start := 0; start < len(moves); start += engine.MaxBulkMoves {
		end := start + engine.MaxBulkMoves
		if end > len(moves) {
			end = len(moves)
		}

		var result service.BulkMoveResult
		if err := c.do(ctx, http.MethodPost, c.sessionPath("/bulk-move"), map[string][]string{"moves": moves[start:end]}, &result); err != nil {
			return nil, err
		}
		last = &result
		if !result.Success || result.Completed {
			break
		}
	}
	if last == nil {
		return nil, errors.New("no moves to send")
	}
	return last, nil
}

// Options controls a run
type Options struct {
	MaxStates int
	Delay     time.Duration
}

// Report summarizes a run
type Report struct {
	Solved  []int // 1-based level numbers
	Skipped []int
	Moves   int
}

// solveState builds a level from a live state and solves it
func solveState(state *engine.GameState, maxStates int) (*solver.Solution, error) {
	level := &engine.Level{
		Title:  state.Title,
		Grid:   state.Grid,
		Player: state.PlayerPos,
		Width:  state.Grid.Width(),
		Height: state.Grid.Height(),
	}
	return solver.Solve(level, maxStates)
}

// playLevel restarts the current level and plays a computed solution
func playLevel(ctx context.Context, c *Client, opts Options) (int, error) {
	nav, err := c.Restart(ctx)
	if err != nil {
		return 0, fmt.Errorf("restart: %w", err)
	}

	solution, err := solveState(nav.GameState, opts.MaxStates)
	if err != nil {
		return 0, err
	}
	log.Debugf("Solution for level %d: %s", nav.GameState.LevelIndex+1, solution.Moves)

	if solution.Len() == 0 {
		return 0, nil
	}

	result, err := c.BulkMove(ctx, solution.Directions())
	if err != nil {
		return 0, err
	}
	if !result.Completed {
		return result.MovesExecuted, fmt.Errorf("server did not accept the solution: %s", result.StoppedReason)
	}
	return solution.Len(), nil
}

// playAll plays from the session's current level to the last one. Levels
// that cannot be solved are skipped.
func playAll(ctx context.Context, c *Client, opts Options) (*Report, error) {
	state, err := c.State(ctx)
	if err != nil {
		return nil, err
	}

	report := &Report{}
	for {
		number := state.LevelIndex + 1
		moves, err := playLevel(ctx, c, opts)
		switch {
		case err == nil:
			log.Infof("✅ Level %d solved in %d moves", number, moves)
			report.Solved = append(report.Solved, number)
			report.Moves += moves
		case errors.Is(err, solver.ErrUnsolvable), errors.Is(err, solver.ErrSearchLimit):
			log.Warnf("⚠️  Level %d skipped: %v", number, err)
			report.Skipped = append(report.Skipped, number)
		default:
			return report, fmt.Errorf("level %d: %w", number, err)
		}

		if opts.Delay > 0 {
			select {
			case <-ctx.Done():
				return report, ctx.Err()
			case <-time.After(opts.Delay):
			}
		}

		nav, err := c.Next(ctx)
		if err != nil {
			return report, fmt.Errorf("next level: %w", err)
		}
		if !nav.Changed {
			return report, nil
		}
		state = nav.GameState
	}
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:  "autoplay",
		Usage: "solve every level of a Sokoban server session",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "url",
				Value: "http://localhost:8080",
				Usage: "game server URL",
			},
			&cli.StringFlag{
				Name:  "continue",
				Usage: "resume playing an existing session by ID",
			},
			&cli.IntFlag{
				Name:  "level",
				Value: 1,
				Usage: "level number to start a new session at",
			},
			&cli.IntFlag{
				Name:  "max-states",
				Value: solver.DefaultMaxStates,
				Usage: "solver state limit per level",
			},
			&cli.DurationFlag{
				Name:  "delay",
				Usage: "pause between levels",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "print solutions",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Bool("verbose") {
				log.SetLevel(log.DebugLevel)
			}

			client := NewClient(cmd.String("url"))
			log.Infof("Connecting to game server at %s", cmd.String("url"))

			if id := cmd.String("continue"); id != "" {
				if _, err := client.Resume(ctx, id); err != nil {
					return fmt.Errorf("failed to resume session %s: %w", id, err)
				}
				log.Infof("🔄 Resuming session: %s", id)
			} else {
				if _, err := client.CreateSession(ctx, cmd.Int("level")-1); err != nil {
					return fmt.Errorf("failed to create session: %w", err)
				}
				log.Infof("✨ Session created: %s", client.sessionID)
			}

			report, err := playAll(ctx, client, Options{
				MaxStates: cmd.Int("max-states"),
				Delay:     cmd.Duration("delay"),
			})
			if report != nil {
				log.Infof("Solved %d levels (%d moves), skipped %v", len(report.Solved), report.Moves, report.Skipped)
			}
			return err
		},
	}
}

func main() {
	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
