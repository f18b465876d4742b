package records

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// KeyPrefix prefixes every persisted best time key
const KeyPrefix = "sokoban_best_time_level"

var ErrInvalidTime = errors.New("invalid completion time")

// BestTimeStore persists the fastest completion time of each level
type BestTimeStore interface {
	// LoadBestTime returns the stored best for a level; ok is false when
	// no record exists.
	LoadBestTime(level int) (seconds float64, ok bool, err error)

	// SaveBestTime stores seconds only when there is no record yet or the
	// new time is strictly smaller. It reports whether the value was stored.
	SaveBestTime(level int, seconds float64) (bool, error)

	// All returns every stored record keyed by level index
	All() (map[int]float64, error)
}

// BestTimeKey returns the persistence key of a level index
func BestTimeKey(level int) string {
	return fmt.Sprintf("%s%d", KeyPrefix, level)
}

// formatSeconds encodes a time as the decimal string stored on disk. The
// shortest exact form is used so a stored time reads back unchanged.
func formatSeconds(seconds float64) string {
	return strconv.FormatFloat(seconds, 'f', -1, 64)
}

func validTime(seconds float64) error {
	if seconds < 0 || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidTime, seconds)
	}
	return nil
}

// MemoryStore keeps best times in memory, mainly for tests and ephemeral servers
type MemoryStore struct {
	mu    sync.RWMutex
	times map[int]float64
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{times: make(map[int]float64)}
}

func (m *MemoryStore) LoadBestTime(level int) (float64, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.times[level]
	return t, ok, nil
}

func (m *MemoryStore) SaveBestTime(level int, seconds float64) (bool, error) {
	if err := validTime(seconds); err != nil {
		return false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if prev, ok := m.times[level]; ok && seconds >= prev {
		return false, nil
	}
	m.times[level] = seconds
	return true, nil
}

func (m *MemoryStore) All() (map[int]float64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[int]float64, len(m.times))
	for k, v := range m.times {
		out[k] = v
	}
	return out, nil
}

// FileStore keeps best times in a flat JSON document on disk:
//
//	{"sokoban_best_time_level0": "12.345", "sokoban_best_time_level1": "40.02"}
//
// Unknown keys in the document are preserved on write.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore creates a store backed by path, creating its directory
func NewFileStore(path string) (*FileStore, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create best times directory: %w", err)
		}
	}
	return &FileStore{path: path}, nil
}

// Path returns the backing file
func (fs *FileStore) Path() string {
	return fs.path
}

func (fs *FileStore) read() ([]byte, error) {
	data, err := os.ReadFile(fs.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []byte("{}"), nil
		}
		return nil, fmt.Errorf("failed to read best times: %w", err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return []byte("{}"), nil
	}
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("best times file %s is not valid JSON", fs.path)
	}
	return data, nil
}

func (fs *FileStore) write(data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(fs.path), ".best_times_*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write best times: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close best times: %w", err)
	}
	if err := os.Rename(tmp.Name(), fs.path); err != nil {
		return fmt.Errorf("failed to replace best times: %w", err)
	}
	return nil
}

func lookup(data []byte, level int) (float64, bool, error) {
	res := gjson.GetBytes(data, BestTimeKey(level))
	if !res.Exists() {
		return 0, false, nil
	}
	t, err := strconv.ParseFloat(res.String(), 64)
	if err != nil {
		return 0, false, fmt.Errorf("corrupt best time for level %d: %w", level, err)
	}
	return t, true, nil
}

func (fs *FileStore) LoadBestTime(level int) (float64, bool, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	data, err := fs.read()
	if err != nil {
		return 0, false, err
	}
	return lookup(data, level)
}

func (fs *FileStore) SaveBestTime(level int, seconds float64) (bool, error) {
	if err := validTime(seconds); err != nil {
		return false, err
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	data, err := fs.read()
	if err != nil {
		return false, err
	}

	prev, ok, err := lookup(data, level)
	if err != nil {
		// A corrupt entry is overwritten rather than blocking new records
		log.Warnf("Replacing unreadable best time for level %d: %v", level, err)
		ok = false
	}
	if ok && seconds >= prev {
		return false, nil
	}

	updated, err := sjson.SetBytes(data, BestTimeKey(level), formatSeconds(seconds))
	if err != nil {
		return false, fmt.Errorf("failed to encode best time: %w", err)
	}
	if err := fs.write(updated); err != nil {
		return false, err
	}

	log.Debugf("New best time for level %d: %ss", level, formatSeconds(seconds))
	return true, nil
}

func (fs *FileStore) All() (map[int]float64, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	data, err := fs.read()
	if err != nil {
		return nil, err
	}

	out := make(map[int]float64)
	gjson.ParseBytes(data).ForEach(func(key, value gjson.Result) bool {
		name := key.String()
		if !strings.HasPrefix(name, KeyPrefix) {
			return true
		}
		level, err := strconv.Atoi(strings.TrimPrefix(name, KeyPrefix))
		if err != nil {
			return true
		}
		t, err := strconv.ParseFloat(value.String(), 64)
		if err != nil {
			return true
		}
		out[level] = t
		return true
	})
	return out, nil
}

// SortedLevels returns the keys of a best time map in ascending order
func SortedLevels(times map[int]float64) []int {
	levels := make([]int, 0, len(times))
	for level := range times {
		levels = append(levels, level)
	}
	sort.Ints(levels)
	return levels
}
