// Command validate checks the Sokoban level files in a directory. For each
// level{N}.txt it checks:
//   - the text parses into a rectangular grid with exactly one player
//   - the level has at least one box and no more boxes than goals
//   - every box and goal lies in the region the player can walk to
//   - optionally (--solve) that a breadth-first search finds a solution
//
// Files named like levels but skipped by the loader (after a gap in the
// numbering) are reported too.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"

	"github.com/wricardo/sokoban/game/engine"
	"github.com/wricardo/sokoban/game/levels"
	"github.com/wricardo/sokoban/game/solver"
)

// ValidationResult captures the outcome of validating a single file.
// Notes are informational and never make a level invalid.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
	Notes  []string
}

func (r *ValidationResult) fail(format string, args ...interface{}) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *ValidationResult) note(format string, args ...interface{}) {
	r.Notes = append(r.Notes, fmt.Sprintf(format, args...))
}

// Options selects the optional checks
type Options struct {
	Solve     bool
	MaxStates int
}

// validateLevel loads and validates a single level file
func validateLevel(filePath string, opts Options) ValidationResult {
	result := ValidationResult{
		File:  filepath.Base(filePath),
		Valid: true,
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.fail("Failed to read file: %v", err)
		return result
	}

	level, err := engine.ParseLevel(string(data))
	if err != nil {
		var malformed *engine.MalformedLevelError
		if errors.As(err, &malformed) {
			result.fail("Malformed level: %s", malformed.Reason)
		} else {
			result.fail("Failed to parse level: %v", err)
		}
		return result
	}

	if level.Title != "" {
		result.note("Title: %s", level.Title)
	}
	result.note("Size: %dx%d", level.Width, level.Height)

	boxes := engine.CountBoxes(level.Grid)
	goals := engine.CountGoals(level.Grid)
	switch {
	case boxes == 0:
		result.fail("Must have at least 1 box ($ or *)")
	case boxes > goals:
		result.fail("More boxes than goals: %d boxes, %d goals", boxes, goals)
	case boxes < goals:
		result.note("%d goals will stay empty (%d boxes, %d goals)", goals-boxes, boxes, goals)
	default:
		result.note("%d boxes, %d goals", boxes, goals)
	}

	for _, msg := range checkReachability(level) {
		result.fail("%s", msg)
	}

	if opts.Solve && result.Valid {
		solution, err := solver.Solve(level, opts.MaxStates)
		switch {
		case errors.Is(err, solver.ErrUnsolvable):
			result.fail("Level has no solution")
		case errors.Is(err, solver.ErrSearchLimit):
			result.note("Solver gave up after %d states; solvability unknown", opts.MaxStates)
		case err != nil:
			result.fail("Solver failed: %v", err)
		default:
			result.note("Solved in %d moves, %d pushes (%d states): %s",
				solution.Len(), solution.Pushes, solution.Explored, solution.Moves)
		}
	}

	return result
}

// checkReachability reports every box and goal the player can never reach.
func checkReachability(level *engine.Level) []string {
	reachable := solver.Reachable(level.Grid, level.Player)

	var problems []string
	for y, row := range level.Grid {
		for x, s := range row {
			pos := engine.Position{X: x, Y: y}
			if reachable[pos] {
				continue
			}
			switch {
			case s.IsBox():
				problems = append(problems, fmt.Sprintf("Box at (%d,%d) is not reachable from the player", x, y))
			case s.IsGoal():
				problems = append(problems, fmt.Sprintf("Goal at (%d,%d) is not reachable from the player", x, y))
			}
		}
	}
	return problems
}

// levelFiles returns the files the loader would read (level1.txt, level2.txt,
// ... up to the first gap) and any level*.txt it would skip.
func levelFiles(dir string) (loaded, skipped []string, err error) {
	all, err := filepath.Glob(filepath.Join(dir, "level*.txt"))
	if err != nil {
		return nil, nil, err
	}
	present := make(map[string]bool, len(all))
	for _, f := range all {
		present[filepath.Base(f)] = true
	}

	for n := 1; present[levels.FileName(n)]; n++ {
		loaded = append(loaded, filepath.Join(dir, levels.FileName(n)))
		delete(present, levels.FileName(n))
	}
	for name := range present {
		skipped = append(skipped, name)
	}
	sort.Strings(skipped)
	return loaded, skipped, nil
}

// run validates every level in dir and prints a report. It returns an error
// when any level is invalid or none was found.
func run(dir string, opts Options) error {
	files, skipped, err := levelFiles(dir)
	if err != nil {
		return fmt.Errorf("error finding level files: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("no levels found in %s", dir)
	}

	allValid := true
	for _, file := range files {
		result := validateLevel(file, opts)

		fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)
		if result.Valid {
			fmt.Println("✅ VALID")
		} else {
			fmt.Println("❌ INVALID")
			allValid = false
		}
		for _, msg := range result.Errors {
			fmt.Println("  ❌ " + msg)
		}
		for _, msg := range result.Notes {
			fmt.Println("  ✓ " + msg)
		}
	}

	for _, name := range skipped {
		fmt.Printf("\n⚠️  %s is never loaded (gap in level numbering)\n", name)
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if !allValid {
		return errors.New("some levels have errors")
	}
	fmt.Printf("✅ All %d levels are valid!\n", len(files))
	return nil
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:  "validate",
		Usage: "check Sokoban level files",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "dir",
				Aliases: []string{"d"},
				Value:   "levels",
				Usage:   "directory containing level1.txt, level2.txt, ...",
				Sources: cli.EnvVars("LEVELS_DIR"),
			},
			&cli.BoolFlag{
				Name:  "solve",
				Usage: "search for a solution to every level",
			},
			&cli.IntFlag{
				Name:  "max-states",
				Value: solver.DefaultMaxStates,
				Usage: "state limit for --solve",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "enable debug logging",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Bool("debug") {
				log.SetLevel(log.DebugLevel)
			}
			return run(cmd.String("dir"), Options{
				Solve:     cmd.Bool("solve"),
				MaxStates: cmd.Int("max-states"),
			})
		},
	}
}

func main() {
	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		fmt.Printf("❌ %v\n", err)
		os.Exit(1)
	}
}
