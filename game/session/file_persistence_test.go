package session

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func createTestPersistence(t *testing.T) (*FilePersistence, string) {
	t.Helper()
	tempDir, err := os.MkdirTemp("", "session_persistence_test_*")
	if err != nil {
		t.Fatalf("Failed to create temp directory: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	persistence, err := NewFilePersistence(tempDir, createTestFactory(t))
	if err != nil {
		t.Fatalf("Failed to create file persistence: %v", err)
	}
	return persistence, tempDir
}

func TestFilePersistence(t *testing.T) {
	persistence, tempDir := createTestPersistence(t)
	manager := NewManager(createTestFactory(t))

	session, err := manager.Create("Save1", 0)
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}
	session.Engine.Move("right")
	session.Engine.Move("up")

	t.Run("save and load", func(t *testing.T) {
		if err := persistence.Save(session); err != nil {
			t.Fatalf("Failed to save session: %v", err)
		}
		if !persistence.Exists("save1") {
			t.Fatal("Expected session file to exist")
		}

		loaded, err := persistence.Load("Save1")
		if err != nil {
			t.Fatalf("Failed to load session: %v", err)
		}

		state := loaded.Engine.GetState()
		if state.Moves != 1 {
			t.Errorf("Expected 1 move restored, got %d", state.Moves)
		}
		if state.PlayerPos.X != 2 || state.PlayerPos.Y != 1 {
			t.Errorf("Expected player at (2,1), got %+v", state.PlayerPos)
		}
		if len(state.MoveHistory) != 2 {
			t.Errorf("Expected 2 history entries, got %d", len(state.MoveHistory))
		}
		if state.Timer.StartedAt.IsZero() {
			t.Error("Expected timer start to be restored")
		}

		// The restored session keeps playing
		if !loaded.Engine.Move("right") || !loaded.Engine.IsVictory() {
			t.Error("Expected restored session to finish the level")
		}
	})

	t.Run("file structure", func(t *testing.T) {
		raw, err := os.ReadFile(filepath.Join(tempDir, "save1.json"))
		if err != nil {
			t.Fatalf("Failed to read session file: %v", err)
		}

		var doc map[string]any
		if err := json.Unmarshal(raw, &doc); err != nil {
			t.Fatalf("Session file is not valid JSON: %v", err)
		}
		for _, key := range []string{"id", "level_index", "created_at", "last_accessed_at", "game_state"} {
			if _, ok := doc[key]; !ok {
				t.Errorf("Expected key %q in session file", key)
			}
		}

		state := doc["game_state"].(map[string]any)
		grid := state["grid"].([]any)
		if grid[1] != "# @$.#" {
			t.Errorf("Expected grid rows as strings, got %v", grid[1])
		}
	})

	t.Run("list and delete", func(t *testing.T) {
		ids, err := persistence.ListAll()
		if err != nil {
			t.Fatalf("Failed to list sessions: %v", err)
		}
		if len(ids) != 1 || ids[0] != "save1" {
			t.Errorf("Expected [save1], got %v", ids)
		}

		if err := persistence.Delete("save1"); err != nil {
			t.Fatalf("Failed to delete: %v", err)
		}
		if err := persistence.Delete("save1"); !errors.Is(err, ErrSessionNotFound) {
			t.Errorf("Expected ErrSessionNotFound, got %v", err)
		}
		if _, err := persistence.Load("save1"); !errors.Is(err, ErrSessionNotFound) {
			t.Errorf("Expected ErrSessionNotFound, got %v", err)
		}
	})

	t.Run("corrupt file", func(t *testing.T) {
		os.WriteFile(filepath.Join(tempDir, "bad.json"), []byte("{not json"), 0644)
		if _, err := persistence.Load("bad"); err == nil {
			t.Error("Expected error for corrupt session file")
		}
	})
}

func TestManagerWithPersistence(t *testing.T) {
	persistence, _ := createTestPersistence(t)
	manager := NewManagerWithPersistence(createTestFactory(t), persistence)

	session, err := manager.Create("auto1", 1)
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}
	if !persistence.Exists(session.ID) {
		t.Error("Session should be auto-saved on creation")
	}

	session.Engine.Move("left")
	if err := manager.Save("auto1"); err != nil {
		t.Fatalf("Failed to save: %v", err)
	}

	t.Run("get loads from persistence", func(t *testing.T) {
		manager2 := NewManagerWithPersistence(createTestFactory(t), persistence)
		loaded, err := manager2.Get("auto1")
		if err != nil {
			t.Fatalf("Failed to load session: %v", err)
		}
		state := loaded.Engine.GetState()
		if state.LevelIndex != 1 || !state.Won {
			t.Errorf("Expected solved level 1, got level %d won=%v", state.LevelIndex, state.Won)
		}
	})

	t.Run("load persisted sessions", func(t *testing.T) {
		manager.Create("auto2", 0)

		manager3 := NewManagerWithPersistence(createTestFactory(t), persistence)
		if err := manager3.LoadPersistedSessions(); err != nil {
			t.Fatalf("Failed to load sessions: %v", err)
		}
		if manager3.Count() != 2 {
			t.Errorf("Expected 2 sessions, got %d", manager3.Count())
		}
	})

	t.Run("delete removes file", func(t *testing.T) {
		if err := manager.Delete("auto1"); err != nil {
			t.Fatalf("Failed to delete: %v", err)
		}
		if persistence.Exists("auto1") {
			t.Error("Expected persisted file to be removed")
		}
	})

	t.Run("save all", func(t *testing.T) {
		if err := manager.SaveAllSessions(); err != nil {
			t.Errorf("Failed to save all sessions: %v", err)
		}
	})
}
