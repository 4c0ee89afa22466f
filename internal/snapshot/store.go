package snapshot

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/TooEinfach/PlexSearch/internal/domain"
)

// Store persists the catalog snapshot as a single JSON file. A corrupted
// or missing file reads back as the empty snapshot so a bad cache never
// blocks a search.
type Store struct {
	path   string
	logger *slog.Logger
}

// NewStore creates a store backed by the given file path
func NewStore(path string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{path: path, logger: logger}
}

// Load reads the persisted snapshot. Any read or parse failure degrades to
// the empty snapshot; unknown JSON fields are ignored.
func (s *Store) Load() domain.Snapshot {
	empty := domain.Snapshot{Sections: map[string]domain.Section{}}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("failed to read snapshot file, treating as absent", "path", s.path, "error", err)
		}
		return empty
	}

	var snap domain.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		s.logger.Warn("failed to parse snapshot file, treating as absent", "path", s.path, "error", err)
		return empty
	}
	if snap.Sections == nil {
		snap.Sections = map[string]domain.Section{}
	}
	return snap
}

// Save persists the snapshot atomically: the data is written to a temp
// file in the same directory and renamed over the target, so an
// interrupted write never leaves a truncated file behind.
func (s *Store) Save(snap domain.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".cache-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp snapshot file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write snapshot: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace snapshot file: %w", err)
	}
	return nil
}
