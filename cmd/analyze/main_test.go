package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wricardo/sokoban/game/engine"
	"github.com/wricardo/sokoban/game/levels"
)

func TestAnalyzeLevel(t *testing.T) {
	text := "Title: Corner\n#######\n#@ $  #\n#$  ..#\n#######"

	stats, err := analyzeLevel(1, text, false, 0)
	if err != nil {
		t.Fatalf("analyzeLevel failed: %v", err)
	}

	if stats.Title != "Corner" {
		t.Errorf("Expected title Corner, got %q", stats.Title)
	}
	if stats.Width != 7 || stats.Height != 4 {
		t.Errorf("Expected 7x4, got %dx%d", stats.Width, stats.Height)
	}
	if stats.Boxes != 2 || stats.Goals != 2 || stats.BoxesOnGoal != 0 {
		t.Errorf("Unexpected counts: boxes=%d goals=%d on goal=%d", stats.Boxes, stats.Goals, stats.BoxesOnGoal)
	}
	if stats.Walkable != 10 {
		t.Errorf("Expected 10 walkable cells, got %d", stats.Walkable)
	}

	// The box at (1,2) sits in the bottom-left corner
	if len(stats.DeadBoxes) != 1 || stats.DeadBoxes[0] != (engine.Position{X: 1, Y: 2}) {
		t.Errorf("Expected one dead box at (1,2), got %v", stats.DeadBoxes)
	}

	// (3,1) is 2 from (4,2); (1,2) is 3 from (4,2)
	if stats.AvgDistance != 2.5 {
		t.Errorf("Expected average distance 2.5, got %v", stats.AvgDistance)
	}
	if stats.Solution != nil || stats.SolveErr != nil {
		t.Error("Expected no solve without --solve")
	}
}

func TestAnalyzeLevel_Solve(t *testing.T) {
	stats, err := analyzeLevel(2, "######\n#@ $.#\n######", true, 0)
	if err != nil {
		t.Fatalf("analyzeLevel failed: %v", err)
	}
	if stats.SolveErr != nil {
		t.Fatalf("Expected a solution, got %v", stats.SolveErr)
	}
	if stats.Solution.Moves != "rR" {
		t.Errorf("Expected solution rR, got %q", stats.Solution.Moves)
	}
}

func TestAnalyzeLevel_Malformed(t *testing.T) {
	if _, err := analyzeLevel(3, "#####\n#@@$.#\n#####", false, 0); err == nil {
		t.Error("Expected error for two players")
	}
}

func TestPrintStats(t *testing.T) {
	stats, err := analyzeLevel(1, "#######\n#@ $  #\n#$  ..#\n#######", true, 0)
	if err != nil {
		t.Fatalf("analyzeLevel failed: %v", err)
	}

	var buf bytes.Buffer
	printStats(&buf, stats)
	out := buf.String()

	for _, want := range []string{
		"=== Level 1 ===",
		"Grid Size: 7 x 4",
		"Boxes: 2 (0 on goals), Goals: 2",
		"Dead box: (1, 2)",
		"CRITICAL",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestAnalyze(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"level1.txt": "#####\n#@$.#\n#####",
		"level2.txt": "#####\n#@X.#\n#####",
	}
	for name, text := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(text), 0644); err != nil {
			t.Fatalf("Failed to write level: %v", err)
		}
	}

	t.Run("directory", func(t *testing.T) {
		var buf bytes.Buffer
		if err := analyze(context.Background(), &buf, levels.DirSource{Dir: dir}, true, 0); err != nil {
			t.Fatalf("analyze failed: %v", err)
		}
		out := buf.String()
		if !strings.Contains(out, "Solution: 1 moves") {
			t.Errorf("Expected level 1 solution, got:\n%s", out)
		}
		if !strings.Contains(out, "=== Level 2 ===\nError:") {
			t.Errorf("Expected level 2 error, got:\n%s", out)
		}
	})

	t.Run("http", func(t *testing.T) {
		ts := httptest.NewServer(http.StripPrefix("/levels/", http.FileServer(http.Dir(dir))))
		defer ts.Close()

		var buf bytes.Buffer
		if err := analyze(context.Background(), &buf, levels.NewHTTPSource(ts.URL), false, 0); err != nil {
			t.Fatalf("analyze failed: %v", err)
		}
		if !strings.Contains(buf.String(), "Grid Size: 5 x 3") {
			t.Errorf("Expected level 1 stats, got:\n%s", buf.String())
		}
	})

	t.Run("no levels", func(t *testing.T) {
		var buf bytes.Buffer
		if err := analyze(context.Background(), &buf, levels.DirSource{Dir: t.TempDir()}, false, 0); err == nil {
			t.Error("Expected error for an empty directory")
		}
	})
}
