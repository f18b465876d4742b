package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wricardo/sokoban/api"
	"github.com/wricardo/sokoban/transport/mcp"
	"github.com/wricardo/sokoban/transport/websocket"
)

func TestConstants(t *testing.T) {
	if Version == "" {
		t.Error("Version should not be empty")
	}

	expectedAppName := "Sokoban Server"
	if AppName != expectedAppName {
		t.Errorf("Expected app name %s, got %s", expectedAppName, AppName)
	}
}

func TestFlagDefaults(t *testing.T) {
	if *port <= 0 || *port > 65535 {
		t.Errorf("Invalid default port: %d", *port)
	}
	if *host == "" {
		t.Error("Host should have a default value")
	}
	if *levelsDir == "" {
		t.Error("Levels directory should have a default value")
	}
	if *sessionsDir == "" {
		t.Error("Sessions directory should have a default value")
	}
	if *bestTimes == "" {
		t.Error("Best time file should have a default value")
	}
}

func TestEnvDefault(t *testing.T) {
	t.Setenv("SOKOBAN_TEST_VALUE", "from-env")

	if got := envDefault("SOKOBAN_TEST_VALUE", "fallback"); got != "from-env" {
		t.Errorf("Expected from-env, got %s", got)
	}
	if got := envDefault("SOKOBAN_TEST_UNSET", "fallback"); got != "fallback" {
		t.Errorf("Expected fallback, got %s", got)
	}
}

// useTempDirs points the storage flags at a fresh directory and writes the
// given levels as level1.txt, level2.txt, ...
func useTempDirs(t *testing.T, levelTexts ...string) string {
	t.Helper()

	dir := t.TempDir()
	levels := filepath.Join(dir, "levels")
	if err := os.MkdirAll(levels, 0755); err != nil {
		t.Fatalf("Failed to create levels dir: %v", err)
	}
	for i, text := range levelTexts {
		name := filepath.Join(levels, "level"+string(rune('1'+i))+".txt")
		if err := os.WriteFile(name, []byte(text), 0644); err != nil {
			t.Fatalf("Failed to write level: %v", err)
		}
	}

	saved := []*string{levelsDir, levelsURL, sessionsDir, bestTimes}
	values := []string{*levelsDir, *levelsURL, *sessionsDir, *bestTimes}
	t.Cleanup(func() {
		for i, p := range saved {
			*p = values[i]
		}
	})

	*levelsDir = levels
	*levelsURL = ""
	*sessionsDir = filepath.Join(dir, "sessions")
	*bestTimes = filepath.Join(dir, "best_times.json")
	return dir
}

func TestInitializeServices(t *testing.T) {
	useTempDirs(t, "#####\n#@$.#\n#####", "######\n#@ $.#\n######")

	a, err := initializeServices(context.Background())
	if err != nil {
		t.Fatalf("Failed to initialize services: %v", err)
	}
	if a.service == nil {
		t.Fatal("Expected game service to be initialized")
	}
	if a.levels.Count() != 2 {
		t.Errorf("Expected 2 levels, got %d", a.levels.Count())
	}

	ctx := context.Background()
	info, err := a.service.CreateSession(ctx, 0)
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}

	result, err := a.service.Move(ctx, info.ID, "right")
	if err != nil {
		t.Fatalf("Move failed: %v", err)
	}
	if !result.GameState.Won {
		t.Error("Expected the level to be solved")
	}

	if _, err := os.Stat(filepath.Join(*sessionsDir, info.ID+".json")); err != nil {
		t.Errorf("Expected session file to exist: %v", err)
	}
	if _, err := os.Stat(*bestTimes); err != nil {
		t.Errorf("Expected best time file to exist: %v", err)
	}
}

func TestInitializeServices_RestoresSessions(t *testing.T) {
	useTempDirs(t, "######\n#@ $.#\n######")

	first, err := initializeServices(context.Background())
	if err != nil {
		t.Fatalf("Failed to initialize services: %v", err)
	}
	info, err := first.service.CreateSession(context.Background(), 0)
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}
	if _, err := first.service.Move(context.Background(), info.ID, "right"); err != nil {
		t.Fatalf("Move failed: %v", err)
	}

	second, err := initializeServices(context.Background())
	if err != nil {
		t.Fatalf("Failed to initialize services again: %v", err)
	}
	if second.sessions.Count() != 1 {
		t.Fatalf("Expected 1 restored session, got %d", second.sessions.Count())
	}

	state, err := second.service.GetGameState(context.Background(), info.ID)
	if err != nil {
		t.Fatalf("Failed to get restored state: %v", err)
	}
	if state.Moves != 1 {
		t.Errorf("Expected 1 move in restored session, got %d", state.Moves)
	}
}

func TestInitializeServices_NoLevels(t *testing.T) {
	useTempDirs(t)

	a, err := initializeServices(context.Background())
	if err != nil {
		t.Fatalf("An empty level directory should not fail startup: %v", err)
	}
	if a.levels.Count() != 0 {
		t.Errorf("Expected 0 levels, got %d", a.levels.Count())
	}
	if _, err := a.service.CreateSession(context.Background(), 0); err == nil {
		t.Error("Expected an error creating a session without levels")
	}
}

func TestInitializeServices_MalformedLevel(t *testing.T) {
	useTempDirs(t, "#####\n#@$.#\n#####", "#####\n#@X.#\n#####")

	if _, err := initializeServices(context.Background()); err == nil {
		t.Error("Expected error for a malformed level file")
	}
}

func TestLevelSource(t *testing.T) {
	useTempDirs(t)

	if got := levelSource(); !strings.Contains(toString(got), "levels") {
		t.Errorf("Expected directory source, got %v", got)
	}

	*levelsURL = "http://example.com"
	if got := toString(levelSource()); got != "http://example.com" {
		t.Errorf("Expected URL source, got %s", got)
	}
}

func toString(v interface{}) string {
	if s, ok := v.(interface{ String() string }); ok {
		return s.String()
	}
	return ""
}

func TestMCPHandler(t *testing.T) {
	useTempDirs(t, "#####\n#@$.#\n#####")

	a, err := initializeServices(context.Background())
	if err != nil {
		t.Fatalf("Failed to initialize services: %v", err)
	}

	apiServer := httptest.NewServer(api.NewServer(a.service, websocket.NewHub()))
	defer apiServer.Close()

	handler := newRouter(apiServer.Config.Handler, mcp.NewClient(apiServer.URL))

	t.Run("rejects GET", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/mcp", nil))
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("Expected 405, got %d", rec.Code)
		}
	})

	t.Run("initialize", func(t *testing.T) {
		body := `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2024-11-05","capabilities":{},"clientInfo":{"name":"test","version":"1.0"}}}`
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/mcp", strings.NewReader(body)))

		if rec.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", rec.Code)
		}

		var resp map[string]interface{}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if _, ok := resp["result"]; !ok {
			t.Errorf("Expected result in response, got %s", rec.Body.String())
		}
		if !strings.Contains(rec.Body.String(), "Sokoban") {
			t.Errorf("Expected server name in response, got %s", rec.Body.String())
		}
	})

	t.Run("API still served", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
		if rec.Code != http.StatusOK {
			t.Errorf("Expected 200 from /api/health, got %d", rec.Code)
		}
	})
}

func TestPruneOrphanedSessions(t *testing.T) {
	useTempDirs(t, "######\n#@ $.#\n######")

	a, err := initializeServices(context.Background())
	if err != nil {
		t.Fatalf("Failed to initialize services: %v", err)
	}

	keep, _ := a.service.CreateSession(context.Background(), 0)
	drop, _ := a.service.CreateSession(context.Background(), 0)

	if err := os.Remove(filepath.Join(*sessionsDir, drop.ID+".json")); err != nil {
		t.Fatalf("Failed to remove session file: %v", err)
	}

	if pruned := pruneOrphanedSessions(a.sessions, a.persistence); pruned != 1 {
		t.Errorf("Expected 1 pruned session, got %d", pruned)
	}
	if _, err := a.sessions.Get(keep.ID); err != nil {
		t.Errorf("Expected kept session to remain: %v", err)
	}
	if a.sessions.Count() != 1 {
		t.Errorf("Expected 1 session in memory, got %d", a.sessions.Count())
	}
}
