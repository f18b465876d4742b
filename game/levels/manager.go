package levels

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/wricardo/sokoban/game/engine"
	"github.com/wricardo/sokoban/game/service"
)

// Manager holds the ordered level collection. It is never modified after
// construction, so it is safe for concurrent readers.
type Manager struct {
	texts  []string
	levels []*engine.Level
	source string
}

// NewManager loads every level from src and parses it. A malformed level
// aborts the load; running out of levels does not.
func NewManager(ctx context.Context, src Source) (*Manager, error) {
	texts, err := LoadAll(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("failed to load levels: %w", err)
	}

	m, err := NewManagerFromTexts(texts)
	if err != nil {
		return nil, err
	}
	m.source = fmt.Sprint(src)

	if len(texts) == 0 {
		log.Warnf("No levels found in %s", m.source)
	} else {
		log.Infof("Loaded %d levels from %s", len(texts), m.source)
	}
	return m, nil
}

// NewManagerFromTexts builds a manager from level texts already in memory
func NewManagerFromTexts(texts []string) (*Manager, error) {
	m := &Manager{
		texts:  append([]string(nil), texts...),
		levels: make([]*engine.Level, 0, len(texts)),
	}
	for i, text := range texts {
		level, err := engine.ParseLevel(text)
		if err != nil {
			return nil, fmt.Errorf("level %d: %w", i+1, err)
		}
		m.levels = append(m.levels, level)
	}
	return m, nil
}

// Count returns the number of levels
func (m *Manager) Count() int {
	return len(m.texts)
}

// Texts returns a copy of the raw level texts in order
func (m *Manager) Texts() []string {
	return append([]string(nil), m.texts...)
}

// Get returns a parsed level by 0-based index. The grid is a copy.
func (m *Manager) Get(index int) (*engine.Level, error) {
	if index < 0 || index >= len(m.levels) {
		return nil, fmt.Errorf("%w: %d of %d", engine.ErrLevelOutOfRange, index, len(m.levels))
	}
	level := *m.levels[index]
	level.Grid = level.Grid.Clone()
	return &level, nil
}

// Info summarizes a level by 0-based index
func (m *Manager) Info(index int) (*service.LevelInfo, error) {
	level, err := m.Get(index)
	if err != nil {
		return nil, err
	}
	return levelInfo(index, level), nil
}

// List returns information about all levels
func (m *Manager) List() []*service.LevelInfo {
	infos := make([]*service.LevelInfo, 0, len(m.levels))
	for i, level := range m.levels {
		infos = append(infos, levelInfo(i, level))
	}
	return infos
}

// Source describes where the levels came from
func (m *Manager) Source() string {
	return m.source
}

func levelInfo(index int, level *engine.Level) *service.LevelInfo {
	return &service.LevelInfo{
		Index:  index,
		Number: index + 1,
		Title:  level.Title,
		Width:  level.Width,
		Height: level.Height,
		Boxes:  engine.CountBoxes(level.Grid),
		Goals:  engine.CountGoals(level.Grid),
	}
}
