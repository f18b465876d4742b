package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/wricardo/sokoban/game/engine"
	"github.com/wricardo/sokoban/game/render"
	"github.com/wricardo/sokoban/game/service"
)

// Version reported to MCP clients
const Version = "1.0.0"

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Sokoban",
		Version,
		server.WithToolCapabilities(true),
		server.WithInstructions(`Sokoban - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
Push every box ($) onto a goal (.) to complete the level. You (@) can push one
box at a time and can never pull.

AVAILABLE TOOLS:
- create_session / list_sessions / get_session: manage game sessions
- game_state: board, counters and timer of a session
- move / bulk_move: walk or push (up/down/left/right) - explain your intent
- restart_level / next_level / prev_level / select_level: level navigation
- move_history: past moves, paginated
- list_levels / best_times: the level collection and records
- game_instructions: full rules and legend
- describe_cell: what stands at one (x, y) cell`),
	)

	c.registerTools()
}

func sessionIDProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Session ID",
	}
}

// sessionTool declares a tool whose only argument is the session ID
func sessionTool(name, description string) mcp.Tool {
	return mcp.Tool{
		Name:        name,
		Description: description,
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
			},
			Required: []string{"session_id"},
		},
	}
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new game session, optionally starting on a given level",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"level": map[string]interface{}{
					"type":        "integer",
					"description": "0-based level index to start on (default 0)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active game sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(sessionTool("get_session", "Get details of a specific session"), c.handleGetSession)
	c.mcpServer.AddTool(sessionTool("game_state", "Get the current board, counters and timer"), c.handleGameState)

	// Game operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move",
		Description: "Move the player one cell, pushing a box if one is in the way",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"direction": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"up", "down", "left", "right"},
					"description": "Direction to move",
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Brief explanation of the intent behind this move",
				},
			},
			Required: []string{"session_id", "direction"},
		},
	}, c.handleMove)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "bulk_move",
		Description: fmt.Sprintf("Execute up to %d moves in sequence; stops at the first blocked move or when the level is solved", engine.MaxBulkMoves),
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"moves": map[string]interface{}{
					"type": "array",
					"items": map[string]interface{}{
						"type": "string",
						"enum": []string{"up", "down", "left", "right"},
					},
					"description": "Array of moves",
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Brief explanation of the intent behind this sequence of moves",
				},
			},
			Required: []string{"session_id", "moves"},
		},
	}, c.handleBulkMove)

	// Navigation
	c.mcpServer.AddTool(sessionTool("restart_level", "Restart the current level from its initial layout"), c.handleNavigate("restart"))
	c.mcpServer.AddTool(sessionTool("next_level", "Go to the next level (no change on the last one)"), c.handleNavigate("next"))
	c.mcpServer.AddTool(sessionTool("prev_level", "Go to the previous level (no change on the first one)"), c.handleNavigate("prev"))

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "select_level",
		Description: "Jump to any level by 0-based index",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"index": map[string]interface{}{
					"type":        "integer",
					"description": "0-based level index",
				},
			},
			Required: []string{"session_id", "index"},
		},
	}, c.handleSelectLevel)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move_history",
		Description: "Get the move history of a session, most recent first",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"page": map[string]interface{}{
					"type":        "integer",
					"description": "Page number (default 1)",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Moves per page (default 20, max 100)",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleMoveHistory)

	// Levels
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_levels",
		Description: "List the level collection with sizes and box counts",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListLevels)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "best_times",
		Description: "List the best completion time of every solved level",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleBestTimes)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get the rules, legend and tips",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameInstructions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "describe_cell",
		Description: "Describe the cell at (x, y) of a session's board; x is the column, y the row, both 0-based",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"x": map[string]interface{}{
					"type":        "integer",
					"description": "Column",
				},
				"y": map[string]interface{}{
					"type":        "integer",
					"description": "Row",
				},
			},
			Required: []string{"session_id", "x", "y"},
		},
	}, c.handleDescribeCell)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

func arguments(request mcp.CallToolRequest) map[string]interface{} {
	if args, ok := request.Params.Arguments.(map[string]interface{}); ok {
		return args
	}
	return map[string]interface{}{}
}

// intArg reads a JSON number argument
func intArg(args map[string]interface{}, name string) (int, bool) {
	switch v := args[name].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	}
	return 0, false
}

func sessionPath(args map[string]interface{}, suffix string) (string, error) {
	sessionID, _ := args["session_id"].(string)
	if sessionID == "" {
		return "", fmt.Errorf("session_id is required")
	}
	return "/api/sessions/" + url.PathEscape(sessionID) + suffix, nil
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	body := map[string]int{}
	if level, ok := intArg(arguments(request), "level"); ok {
		body["level"] = level
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "POST", "/api/sessions", body, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\n\n%s", session.ID, formatGameState(session.GameState))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	if err := c.apiCall(ctx, "GET", "/api/sessions", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		fmt.Fprintf(&b, "- %s (%s of %d, Created: %s)\n",
			s.ID, render.LevelLabel(s.LevelIndex), s.LevelCount, s.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := sessionPath(arguments(request), "")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "GET", path, nil, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := sessionPath(arguments(request), "/state")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var state engine.GameState
	if err := c.apiCall(ctx, "GET", path, nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatGameState(&state)), nil
}

func (c *Client) handleMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	path, err := sessionPath(args, "/move")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	direction, _ := args["direction"].(string)

	var result service.MoveResult
	if err := c.apiCall(ctx, "POST", path, map[string]string{"direction": direction}, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatMoveResult(&result)), nil
}

func (c *Client) handleBulkMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	path, err := sessionPath(args, "/bulk-move")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	movesRaw, _ := args["moves"].([]interface{})
	moves := make([]string, 0, len(movesRaw))
	for _, m := range movesRaw {
		if move, ok := m.(string); ok {
			moves = append(moves, move)
		}
	}

	var result service.BulkMoveResult
	if err := c.apiCall(ctx, "POST", path, map[string][]string{"moves": moves}, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatBulkMoveResult(&result)), nil
}

// handleNavigate returns the handler for one of the restart/next/prev endpoints
func (c *Client) handleNavigate(action string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		path, err := sessionPath(arguments(request), "/"+action)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		var result service.NavigationResult
		if err := c.apiCall(ctx, "POST", path, nil, &result); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		return mcp.NewToolResultText(formatNavigationResult(&result)), nil
	}
}

func (c *Client) handleSelectLevel(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	path, err := sessionPath(args, "/level")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	index, ok := intArg(args, "index")
	if !ok {
		return mcp.NewToolResultError("index is required"), nil
	}

	var result service.NavigationResult
	if err := c.apiCall(ctx, "POST", path, map[string]int{"index": index}, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatNavigationResult(&result)), nil
}

func (c *Client) handleMoveHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	path, err := sessionPath(args, "/history")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	params := url.Values{}
	if page, ok := intArg(args, "page"); ok {
		params.Set("page", fmt.Sprint(page))
	}
	if limit, ok := intArg(args, "limit"); ok {
		params.Set("limit", fmt.Sprint(limit))
	}
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var history service.HistoryResponse
	if err := c.apiCall(ctx, "GET", path, nil, &history); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatHistory(&history)), nil
}

func (c *Client) handleListLevels(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count  int                  `json:"count"`
		Levels []*service.LevelInfo `json:"levels"`
	}
	if err := c.apiCall(ctx, "GET", "/api/levels", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Levels (%d):\n\n", response.Count)
	for _, l := range response.Levels {
		title := ""
		if l.Title != "" {
			title = " " + l.Title
		}
		fmt.Fprintf(&b, "• [%d] %s%s: %dx%d, %d boxes\n",
			l.Index, render.LevelLabel(l.Index), title, l.Width, l.Height, l.Boxes)
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleBestTimes(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count     int                 `json:"count"`
		BestTimes []*service.BestTime `json:"best_times"`
	}
	if err := c.apiCall(ctx, "GET", "/api/best-times", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if response.Count == 0 {
		return mcp.NewToolResultText("No level solved yet"), nil
	}

	var b strings.Builder
	b.WriteString("Best times:\n\n")
	for _, bt := range response.BestTimes {
		fmt.Fprintf(&b, "• %s: %s\n", bt.Label, bt.Display)
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	instructions := `Sokoban - Complete Instructions

GAME OBJECTIVE:
Push every box onto a goal. The level is complete the moment no box is left
off a goal; the timer stops and your time is compared with the best one.

GRID LEGEND:
#  wall (impassable)
   floor (space)
.  goal
$  box
*  box on a goal
@  you
+  you standing on a goal

MOVEMENT RULES:
• One move goes one cell up, down, left or right
• Walking into a box pushes it one cell further, if that cell is floor or goal
• A box against a wall or another box cannot be pushed
• Boxes can never be pulled
• Blocked moves change nothing and do not count

COORDINATES:
x is the column and y is the row, both starting at 0 in the top-left corner.
"up" decreases y, "right" increases x.

STRATEGY TIPS:
• A box pushed into a corner that is not a goal can never be moved again
• A box against a wall can only slide along that wall
• Plan which goal each box goes to before pushing
• Use restart_level when a box is stuck; moves and the timer reset

MOVEMENT COMMANDS:
• move: one step, with an intent explaining why
• bulk_move: up to 100 steps; stops at the first blocked step

NAVIGATION:
• restart_level, next_level, prev_level, select_level
• Navigation stops at the first and last level

Good luck!`

	return mcp.NewToolResultText(instructions), nil
}

func (c *Client) handleDescribeCell(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	path, err := sessionPath(args, "/state")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	x, okX := intArg(args, "x")
	y, okY := intArg(args, "y")
	if !okX || !okY {
		return mcp.NewToolResultError("x and y are required"), nil
	}

	var state engine.GameState
	if err := c.apiCall(ctx, "GET", path, nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	cell, ok := state.Grid.At(engine.Position{X: x, Y: y})
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("Coordinates (%d, %d) are out of bounds. Grid size is %dx%d (x 0-%d, y 0-%d)",
			x, y, state.Grid.Width(), state.Grid.Height(), state.Grid.Width()-1, state.Grid.Height()-1)), nil
	}

	result := fmt.Sprintf(`Cell at position (%d, %d):
Character: '%s'
Type: %s
Passable: %v
Description: %s`,
		x, y, cell.String(), render.CellClass(cell), cell.IsOpen() || cell.IsPlayer(), describeSymbol(cell))

	return mcp.NewToolResultText(result), nil
}

func describeSymbol(s engine.Symbol) string {
	switch s {
	case engine.Wall:
		return "Wall - impassable"
	case engine.Goal:
		return "Empty goal - a box must end up here"
	case engine.Box:
		return "Box off a goal - push it onto a goal"
	case engine.BoxOnGoal:
		return "Box already on a goal"
	case engine.Player:
		return "Your current position"
	case engine.PlayerOnGoal:
		return "Your current position, standing on a goal"
	default:
		return "Empty floor"
	}
}

// Formatting helpers

func formatSessionInfo(session *service.SessionInfo) string {
	return fmt.Sprintf("Session: %s\nCreated: %s\nLast access: %s\n\n%s",
		session.ID,
		session.CreatedAt.Format("2006-01-02 15:04:05"),
		session.LastAccessedAt.Format("2006-01-02 15:04:05"),
		formatGameState(session.GameState))
}

func formatGameState(state *engine.GameState) string {
	if state == nil {
		return "No game state available"
	}

	view := render.NewView(state)

	var b strings.Builder
	b.WriteString(view.HUD())
	fmt.Fprintf(&b, "\nPosition: (%d,%d) | Pushes: %d | Boxes on goals: %d/%d\n\n",
		state.PlayerPos.X, state.PlayerPos.Y, state.Pushes, state.BoxesOnGoal, state.BoxesTotal)

	// Column ruler, ones digit only
	b.WriteString("   ")
	for x := 0; x < state.Grid.Width(); x++ {
		fmt.Fprintf(&b, "%d", x%10)
	}
	b.WriteString("\n")
	for y, row := range view.Rows {
		fmt.Fprintf(&b, "%2d %s\n", y, row)
	}

	if state.Won {
		b.WriteString("\nLEVEL COMPLETE!")
		if state.NewBest {
			b.WriteString(" New best time!")
		}
	}
	if state.Message != "" && state.Message != engine.CompletedMessage {
		fmt.Fprintf(&b, "\nMessage: %s", state.Message)
	}

	return b.String()
}

func formatMoveResult(result *service.MoveResult) string {
	var b strings.Builder
	if result.Success {
		b.WriteString("✓ Move successful\n")
	} else {
		b.WriteString("✗ Move failed\n")
	}

	if s := result.Step; s != nil {
		push := ""
		if s.Pushed {
			push = " (pushed box)"
		}
		fmt.Fprintf(&b, "Step: %s (%d,%d)→(%d,%d)%s\n", s.Dir, s.From.X, s.From.Y, s.To.X, s.To.Y, push)
	}

	if a := result.AttemptedTo; a != nil {
		fmt.Fprintf(&b, "Blocked: attempted (%d,%d) tile='%s' %s\n", a.X, a.Y, a.TileChar, a.TileType)
	}

	writeEvents(&b, result.Events)

	b.WriteString("\n")
	b.WriteString(formatGameState(result.GameState))
	return b.String()
}

func formatBulkMoveResult(result *service.BulkMoveResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Executed %d/%d moves", result.MovesExecuted, result.RequestedMoves)
	if result.Truncated {
		fmt.Fprintf(&b, " (truncated to %d)", result.Limit)
	}
	b.WriteString("\n")
	if result.StoppedReason != "" {
		fmt.Fprintf(&b, "Stopped: %s [%s]\n", result.StoppedReason, result.StopReasonCode)
	}
	if a := result.AttemptedTo; a != nil {
		fmt.Fprintf(&b, "Blocked: attempted (%d,%d) tile='%s' %s\n", a.X, a.Y, a.TileChar, a.TileType)
	}
	fmt.Fprintf(&b, "Moved (%d,%d)→(%d,%d), %d pushes\n",
		result.StartPos.X, result.StartPos.Y, result.EndPos.X, result.EndPos.Y, result.PushesDelta)

	if len(result.Steps) > 0 {
		b.WriteString("\nSteps:\n")
		for _, s := range result.Steps {
			push := ""
			if s.Pushed {
				push = " push"
			}
			fmt.Fprintf(&b, "%d. %s (%d,%d)→(%d,%d)%s\n", s.Idx, s.Dir, s.From.X, s.From.Y, s.To.X, s.To.Y, push)
		}
	}

	writeEvents(&b, result.Events)

	if len(result.PossibleMoves) > 0 {
		fmt.Fprintf(&b, "\nPossible moves: %s\n", strings.Join(result.PossibleMoves, ","))
	}

	b.WriteString("\n")
	b.WriteString(formatGameState(result.GameState))
	return b.String()
}

func formatNavigationResult(result *service.NavigationResult) string {
	header := "Level loaded"
	if !result.Changed {
		header = "No change"
	}
	if result.Message != "" && !result.Changed {
		header += ": " + result.Message
	}
	return header + "\n\n" + formatGameState(result.GameState)
}

func writeEvents(b *strings.Builder, events []service.GameEvent) {
	if len(events) == 0 {
		return
	}
	b.WriteString("\nEvents:\n")
	for _, event := range events {
		fmt.Fprintf(b, "- %s: %s\n", event.Type, event.Message)
	}
}

func formatHistory(history *service.HistoryResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Move History (Page %d/%d, Total: %d moves)\n\n",
		history.Page, history.TotalPages, history.TotalMoves)

	for _, move := range history.Moves {
		status := "✓"
		if !move.Success {
			status = "✗"
		}
		push := ""
		if move.Pushed {
			push = " push"
		}
		fmt.Fprintf(&b, "#%d %s %s L%d (%d,%d)→(%d,%d)%s\n",
			move.MoveNumber, status, move.Action, move.Level+1,
			move.FromPosition.X, move.FromPosition.Y,
			move.ToPosition.X, move.ToPosition.Y, push)
	}

	if history.HasNext {
		b.WriteString("\n(more moves on the next page)")
	}
	return b.String()
}
