// Command desktop plays the Sokoban levels in a native window.
//
// Levels come from a directory (default ./levels) or, with -levels-url,
// from a running server's /levels/ endpoint. Best times are kept in the same
// JSON file the server uses, so records set here show up there and back.
//
// Keys: arrows or WASD move, R restarts, N/P or PageDown/PageUp change
// level, Esc quits.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"golang.org/x/image/font/basicfont"

	"github.com/wricardo/sokoban/game/engine"
	"github.com/wricardo/sokoban/game/levels"
	"github.com/wricardo/sokoban/game/records"
	"github.com/wricardo/sokoban/game/render"
)

const (
	cellSize     = 40
	headerHeight = 56
	footerHeight = 24
	minWidth     = 480
	minHeight    = 240
)

var (
	levelsDir = flag.String("levels-dir", "levels", "Directory containing level1.txt, level2.txt, ...")
	levelsURL = flag.String("levels-url", "", "Load levels from {url}/levels/level{N}.txt")
	bestTimes = flag.String("best-times", "best_times.json", "Best time store file")
	debug     = flag.Bool("debug", false, "Enable debug logging")
)

var (
	backgroundColor = color.RGBA{30, 30, 30, 255}
	headerColor     = color.RGBA{45, 45, 60, 255}
	textColor       = color.RGBA{230, 230, 230, 255}
	bannerColor     = color.RGBA{0, 0, 0, 180}
	winColor        = color.RGBA{120, 230, 120, 255}
)

var moveKeys = map[ebiten.Key]engine.Direction{
	ebiten.KeyArrowUp:    engine.Up,
	ebiten.KeyArrowDown:  engine.Down,
	ebiten.KeyArrowLeft:  engine.Left,
	ebiten.KeyArrowRight: engine.Right,
	ebiten.KeyW:          engine.Up,
	ebiten.KeyS:          engine.Down,
	ebiten.KeyA:          engine.Left,
	ebiten.KeyD:          engine.Right,
}

// Game adapts a GameEngine to ebiten. eng is nil when no level was found.
type Game struct {
	eng    *engine.GameEngine
	width  int
	height int
}

// NewGame sizes the window to fit the largest level
func NewGame(eng *engine.GameEngine, lm *levels.Manager) *Game {
	g := &Game{eng: eng, width: minWidth, height: minHeight}

	for _, info := range lm.List() {
		if w := info.Width * cellSize; w > g.width {
			g.width = w
		}
		if h := info.Height*cellSize + headerHeight + footerHeight; h > g.height {
			g.height = h
		}
	}
	return g
}

// Update handles keyboard input once per tick
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if g.eng == nil {
		return nil
	}

	for key, dir := range moveKeys {
		if inpututil.IsKeyJustPressed(key) {
			out := g.eng.MoveDir(dir)
			log.Debugf("Move %s: moved=%v pushed=%v", dir.Name(), out.Moved, out.Pushed)
			if out.Completed {
				log.Infof("Level %d complete (new best: %v)", g.eng.LevelIndex()+1, out.NewBest)
			}
			// One step per tick keeps the history in key order
			return nil
		}
	}

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		g.eng.Reset()
	case inpututil.IsKeyJustPressed(ebiten.KeyN), inpututil.IsKeyJustPressed(ebiten.KeyPageDown):
		g.eng.NextLevel()
	case inpututil.IsKeyJustPressed(ebiten.KeyP), inpututil.IsKeyJustPressed(ebiten.KeyPageUp):
		g.eng.PrevLevel()
	}
	return nil
}

// Draw renders the HUD and the board
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)

	if g.eng == nil {
		g.drawBanner(screen, render.NoLevelsMessage, textColor)
		return
	}

	view := render.NewView(g.eng.GetState())

	vector.FillRect(screen, 0, 0, float32(g.width), headerHeight, headerColor, false)
	text.Draw(screen, view.HUD(), basicfont.Face7x13, 10, 22, textColor)
	text.Draw(screen, fmt.Sprintf("Pushes: %d | %d/%d", view.Pushes, view.LevelIndex+1, view.LevelCount),
		basicfont.Face7x13, 10, 42, textColor)

	for y, row := range view.Classes {
		for x, class := range row {
			g.drawCell(screen, x, y, class)
		}
	}

	ebitenutil.DebugPrintAt(screen, "Arrows/WASD move  R restart  N/P level  Esc quit", 10, g.height-footerHeight+4)

	if view.Won {
		g.drawBanner(screen, fmt.Sprintf("%s %s - press N for the next level", engine.CompletedMessage, view.Elapsed), winColor)
	}
}

func (g *Game) drawCell(screen *ebiten.Image, x, y int, class string) {
	px := float32(x * cellSize)
	py := float32(y*cellSize + headerHeight)

	switch class {
	case render.ClassBox, render.ClassBoxGoal:
		vector.FillRect(screen, px, py, cellSize-1, cellSize-1, render.Color(render.ClassFloor), false)
		if class == render.ClassBoxGoal {
			vector.FillRect(screen, px, py, cellSize-1, cellSize-1, render.Color(render.ClassGoal), false)
		}
		vector.FillRect(screen, px+4, py+4, cellSize-9, cellSize-9, render.Color(class), false)
	case render.ClassPlayer, render.ClassPlayerGoal:
		base := render.ClassFloor
		if class == render.ClassPlayerGoal {
			base = render.ClassGoal
		}
		vector.FillRect(screen, px, py, cellSize-1, cellSize-1, render.Color(base), false)
		vector.FillCircle(screen, px+cellSize/2, py+cellSize/2, cellSize/2-6, render.Color(class), true)
	default:
		vector.FillRect(screen, px, py, cellSize-1, cellSize-1, render.Color(class), false)
	}
}

func (g *Game) drawBanner(screen *ebiten.Image, msg string, clr color.Color) {
	const bannerHeight = 40
	top := float32(g.height-bannerHeight) / 2
	vector.FillRect(screen, 0, top, float32(g.width), bannerHeight, bannerColor, false)

	x := (g.width - len(msg)*basicfont.Face7x13.Advance) / 2
	if x < 4 {
		x = 4
	}
	text.Draw(screen, msg, basicfont.Face7x13, x, int(top)+25, clr)
}

// Layout keeps a fixed logical screen; ebiten scales it to the window
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.width, g.height
}

func loadEngine(ctx context.Context) (*engine.GameEngine, *levels.Manager, error) {
	var src levels.Source = levels.DirSource{Dir: *levelsDir}
	if *levelsURL != "" {
		src = levels.NewHTTPSource(*levelsURL)
	}

	lm, err := levels.NewManager(ctx, src)
	if err != nil {
		return nil, nil, err
	}

	store, err := records.NewFileStore(*bestTimes)
	if err != nil {
		return nil, nil, err
	}

	eng, err := engine.NewEngine(lm.Texts(), engine.WithBestTimes(store))
	if errors.Is(err, engine.ErrNoLevels) {
		return nil, lm, nil
	}
	if err != nil {
		return nil, nil, err
	}
	return eng, lm, nil
}

func main() {
	if err := godotenv.Load(); err == nil {
		log.Info("Loaded environment variables from .env file")
	}
	flag.Parse()

	if *debug {
		log.SetLevel(log.DebugLevel)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	eng, lm, err := loadEngine(ctx)
	cancel()
	if err != nil {
		log.Fatalf("Failed to load levels: %v", err)
	}

	game := NewGame(eng, lm)

	ebiten.SetWindowSize(game.width, game.height)
	ebiten.SetWindowTitle("Sokoban")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
}
