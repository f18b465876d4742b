package service

import (
	"github.com/wricardo/sokoban/game/engine"
	"github.com/wricardo/sokoban/game/records"
)

// NewEngineFactory returns a factory building engines over the level
// collection, all recording into the same best time store
func NewEngineFactory(levels LevelManager, best records.BestTimeStore) EngineFactory {
	return func(level int) (*engine.GameEngine, error) {
		if levels.Count() == 0 {
			return nil, engine.ErrNoLevels
		}
		return engine.NewEngine(levels.Texts(),
			engine.WithBestTimes(best),
			engine.WithStartLevel(level),
		)
	}
}
