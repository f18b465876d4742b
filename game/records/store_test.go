package records

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// storeFactories lets every store implementation run the same behaviour tests
func storeFactories(t *testing.T) map[string]func() BestTimeStore {
	return map[string]func() BestTimeStore{
		"memory": func() BestTimeStore { return NewMemoryStore() },
		"file": func() BestTimeStore {
			fs, err := NewFileStore(filepath.Join(t.TempDir(), "best_times.json"))
			if err != nil {
				t.Fatalf("Failed to create file store: %v", err)
			}
			return fs
		},
	}
}

func TestBestTimeKey(t *testing.T) {
	if got := BestTimeKey(0); got != "sokoban_best_time_level0" {
		t.Errorf("Unexpected key for level 0: %s", got)
	}
	if got := BestTimeKey(12); got != "sokoban_best_time_level12" {
		t.Errorf("Unexpected key for level 12: %s", got)
	}
}

func TestBestTimeStore_OnlyImprovementsAreKept(t *testing.T) {
	for name, factory := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			store := factory()

			if _, ok, err := store.LoadBestTime(0); err != nil || ok {
				t.Fatalf("Expected no record initially, got ok=%v err=%v", ok, err)
			}

			stored, err := store.SaveBestTime(0, 30)
			if err != nil || !stored {
				t.Fatalf("Expected first time to be stored, got stored=%v err=%v", stored, err)
			}

			stored, err = store.SaveBestTime(0, 20)
			if err != nil || !stored {
				t.Fatalf("Expected faster time to be stored, got stored=%v err=%v", stored, err)
			}

			stored, err = store.SaveBestTime(0, 25)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if stored {
				t.Error("Expected slower time to be rejected")
			}

			stored, _ = store.SaveBestTime(0, 20)
			if stored {
				t.Error("Expected equal time to be rejected")
			}

			best, ok, err := store.LoadBestTime(0)
			if err != nil || !ok {
				t.Fatalf("Expected record, got ok=%v err=%v", ok, err)
			}
			if best != 20 {
				t.Errorf("Expected best 20, got %v", best)
			}
		})
	}
}

func TestBestTimeStore_SubMillisecondImprovements(t *testing.T) {
	for name, factory := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			store := factory()

			if stored, err := store.SaveBestTime(0, 1.2346); err != nil || !stored {
				t.Fatalf("Expected first time to be stored, got stored=%v err=%v", stored, err)
			}
			if stored, _ := store.SaveBestTime(0, 1.2349); stored {
				t.Error("Expected slower time 1.2349 to be rejected after 1.2346")
			}
			if stored, _ := store.SaveBestTime(0, 1.2341); !stored {
				t.Error("Expected faster time 1.2341 to be stored")
			}

			best, ok, err := store.LoadBestTime(0)
			if err != nil || !ok {
				t.Fatalf("Expected record, got ok=%v err=%v", ok, err)
			}
			if best != 1.2341 {
				t.Errorf("Expected best 1.2341 to read back exactly, got %v", best)
			}
		})
	}
}

func TestBestTimeStore_LevelsAreIndependent(t *testing.T) {
	for name, factory := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			store := factory()
			store.SaveBestTime(0, 10)
			store.SaveBestTime(1, 50)

			if best, _, _ := store.LoadBestTime(1); best != 50 {
				t.Errorf("Expected level 1 best 50, got %v", best)
			}
			if _, ok, _ := store.LoadBestTime(2); ok {
				t.Error("Expected no record for level 2")
			}

			all, err := store.All()
			if err != nil {
				t.Fatalf("Failed to list records: %v", err)
			}
			if len(all) != 2 || all[0] != 10 || all[1] != 50 {
				t.Errorf("Unexpected records: %v", all)
			}
			if levels := SortedLevels(all); len(levels) != 2 || levels[0] != 0 || levels[1] != 1 {
				t.Errorf("Unexpected sorted levels: %v", levels)
			}
		})
	}
}

func TestBestTimeStore_RejectsNegative(t *testing.T) {
	for name, factory := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			_, err := factory().SaveBestTime(0, -1)
			if !errors.Is(err, ErrInvalidTime) {
				t.Errorf("Expected ErrInvalidTime, got %v", err)
			}
		})
	}
}

func TestFileStore_DocumentFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "best_times.json")
	store, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("Failed to create file store: %v", err)
	}

	if _, err := store.SaveBestTime(3, 12.5); err != nil {
		t.Fatalf("Failed to save: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read store file: %v", err)
	}
	if !strings.Contains(string(data), `"sokoban_best_time_level3":"12.5"`) {
		t.Errorf("Expected decimal string value under level key, got %s", data)
	}

	// A second store on the same file sees the record
	other, _ := NewFileStore(path)
	if best, ok, _ := other.LoadBestTime(3); !ok || best != 12.5 {
		t.Errorf("Expected persisted 12.5, got %v (ok=%v)", best, ok)
	}
}

func TestFileStore_PreservesForeignKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "best_times.json")
	if err := os.WriteFile(path, []byte(`{"theme":"dark"}`), 0644); err != nil {
		t.Fatalf("Failed to seed file: %v", err)
	}

	store, _ := NewFileStore(path)
	if _, err := store.SaveBestTime(0, 9); err != nil {
		t.Fatalf("Failed to save: %v", err)
	}

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), `"theme":"dark"`) {
		t.Errorf("Expected unrelated key to survive, got %s", data)
	}

	all, _ := store.All()
	if len(all) != 1 {
		t.Errorf("Expected only level keys in All, got %v", all)
	}
}

func TestFileStore_CorruptEntryIsReplaced(t *testing.T) {
	path := filepath.Join(t.TempDir(), "best_times.json")
	os.WriteFile(path, []byte(`{"sokoban_best_time_level0":"fast"}`), 0644)

	store, _ := NewFileStore(path)
	if _, _, err := store.LoadBestTime(0); err == nil {
		t.Error("Expected error reading corrupt entry")
	}

	stored, err := store.SaveBestTime(0, 7)
	if err != nil || !stored {
		t.Fatalf("Expected corrupt entry to be overwritten, got stored=%v err=%v", stored, err)
	}
	if best, ok, _ := store.LoadBestTime(0); !ok || best != 7 {
		t.Errorf("Expected 7 after overwrite, got %v", best)
	}
}

func TestFileStore_InvalidDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "best_times.json")
	os.WriteFile(path, []byte(`not json`), 0644)

	store, _ := NewFileStore(path)
	if _, _, err := store.LoadBestTime(0); err == nil {
		t.Error("Expected error for invalid document")
	}
	if _, err := store.SaveBestTime(0, 1); err == nil {
		t.Error("Expected save to refuse overwriting an invalid document")
	}
}
