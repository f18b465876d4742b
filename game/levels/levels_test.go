package levels

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/wricardo/sokoban/game/engine"
)

const (
	level1 = "Title: First\n#####\n#@$.#\n#####\n"
	level2 = "######\n#@ $.#\n######\n"
)

func createTestLevelDir(t *testing.T, files map[string]string) string {
	t.Helper()
	dir, err := os.MkdirTemp("", "levels-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })

	for name, text := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(text), 0644); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}
	return dir
}

func TestDirSource_Fetch(t *testing.T) {
	dir := createTestLevelDir(t, map[string]string{"level1.txt": level1})
	src := DirSource{Dir: dir}

	text, err := src.Fetch(context.Background(), 1)
	if err != nil {
		t.Fatalf("Failed to fetch level: %v", err)
	}
	if text != level1 {
		t.Errorf("Expected level text %q, got %q", level1, text)
	}

	if _, err := src.Fetch(context.Background(), 2); !errors.Is(err, ErrLevelNotFound) {
		t.Errorf("Expected ErrLevelNotFound, got %v", err)
	}
}

func TestLoadAll_StopsAtFirstGap(t *testing.T) {
	dir := createTestLevelDir(t, map[string]string{
		"level1.txt": level1,
		"level2.txt": level2,
		"level4.txt": level1,
	})

	texts, err := LoadAll(context.Background(), DirSource{Dir: dir})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(texts) != 2 {
		t.Fatalf("Expected 2 levels before the gap, got %d", len(texts))
	}
	if texts[1] != level2 {
		t.Errorf("Expected level 2 text, got %q", texts[1])
	}
}

func TestLoadAll_Empty(t *testing.T) {
	dir := createTestLevelDir(t, nil)

	texts, err := LoadAll(context.Background(), DirSource{Dir: dir})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(texts) != 0 {
		t.Errorf("Expected no levels, got %d", len(texts))
	}
}

func TestLoadAll_Cancelled(t *testing.T) {
	dir := createTestLevelDir(t, map[string]string{"level1.txt": level1})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := LoadAll(ctx, DirSource{Dir: dir}); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestHTTPSource(t *testing.T) {
	var requests int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		switch r.URL.Path {
		case "/levels/level1.txt":
			w.Write([]byte(level1))
		case "/levels/level2.txt":
			w.Write([]byte(level2))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	src := NewHTTPSource(server.URL + "/")
	src.Client = server.Client()

	text, err := src.Fetch(context.Background(), 2)
	if err != nil {
		t.Fatalf("Failed to fetch level: %v", err)
	}
	if text != level2 {
		t.Errorf("Expected level 2 text, got %q", text)
	}

	if _, err := src.Fetch(context.Background(), 3); !errors.Is(err, ErrLevelNotFound) {
		t.Errorf("Expected ErrLevelNotFound for 404, got %v", err)
	}

	texts, err := LoadAll(context.Background(), src)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(texts) != 2 {
		t.Errorf("Expected 2 levels over HTTP, got %d", len(texts))
	}
	if got := atomic.LoadInt32(&requests); got != 5 {
		t.Errorf("Expected 5 requests, got %d", got)
	}
}

func TestNewManager(t *testing.T) {
	dir := createTestLevelDir(t, map[string]string{
		"level1.txt": level1,
		"level2.txt": level2,
	})

	manager, err := NewManager(context.Background(), DirSource{Dir: dir})
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}
	if manager.Count() != 2 {
		t.Fatalf("Expected 2 levels, got %d", manager.Count())
	}
	if manager.Source() != dir {
		t.Errorf("Expected source %q, got %q", dir, manager.Source())
	}

	infos := manager.List()
	if infos[0].Title != "First" || infos[0].Number != 1 || infos[0].Index != 0 {
		t.Errorf("Unexpected first level info: %+v", infos[0])
	}
	if infos[1].Width != 6 || infos[1].Height != 3 || infos[1].Boxes != 1 || infos[1].Goals != 1 {
		t.Errorf("Unexpected second level info: %+v", infos[1])
	}

	level, err := manager.Get(0)
	if err != nil {
		t.Fatalf("Failed to get level: %v", err)
	}
	level.Grid[1][1] = engine.Wall
	again, _ := manager.Get(0)
	if again.Grid[1][1] != engine.Player {
		t.Error("Expected Get to return a copy of the grid")
	}

	if _, err := manager.Get(2); !errors.Is(err, engine.ErrLevelOutOfRange) {
		t.Errorf("Expected ErrLevelOutOfRange, got %v", err)
	}
}

func TestNewManager_Malformed(t *testing.T) {
	dir := createTestLevelDir(t, map[string]string{
		"level1.txt": level1,
		"level2.txt": "#####\n# $.#\n#####",
	})

	_, err := NewManager(context.Background(), DirSource{Dir: dir})
	var malformed *engine.MalformedLevelError
	if !errors.As(err, &malformed) {
		t.Errorf("Expected MalformedLevelError, got %v", err)
	}
}

func TestNewManager_NoLevels(t *testing.T) {
	manager, err := NewManager(context.Background(), DirSource{Dir: createTestLevelDir(t, nil)})
	if err != nil {
		t.Fatalf("Expected empty collection to load, got %v", err)
	}
	if manager.Count() != 0 || len(manager.List()) != 0 {
		t.Errorf("Expected empty manager, got %d levels", manager.Count())
	}
}

func TestManager_ConcurrentReaders(t *testing.T) {
	manager, err := NewManagerFromTexts([]string{level1, level2})
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			level, err := manager.Get(i % 2)
			if err != nil {
				t.Errorf("Failed to get level: %v", err)
				return
			}
			level.Grid[1][1] = engine.Wall
			texts := manager.Texts()
			texts[0] = ""
			_ = manager.List()
		}(i)
	}
	wg.Wait()

	for i := 0; i < 2; i++ {
		level, _ := manager.Get(i)
		if level.Grid[1][1] != engine.Player {
			t.Errorf("Level %d grid was modified through a returned copy", i)
		}
	}
	if manager.Texts()[0] != level1 {
		t.Error("Expected Texts to return a copy")
	}
}
