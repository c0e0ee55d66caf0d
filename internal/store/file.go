package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"TrendSentinel/internal/model"
)

// FileStore is a MemoryStore persisted as a JSON file after every Put.
type FileStore struct {
	*MemoryStore
	filePath string
}

// Ensure the FileStore implements the Store interface.
var _ Store = (*FileStore)(nil)

// OpenFileStore loads verdicts from filePath. A missing file yields an empty store.
func OpenFileStore(filePath string) (*FileStore, error) {
	verdicts, err := loadVerdicts(filePath)
	if err != nil {
		return nil, fmt.Errorf("load verdicts: %w", err)
	}
	mem := NewMemoryStore()
	mem.verdicts = verdicts
	return &FileStore{MemoryStore: mem, filePath: filePath}, nil
}

// Put records v and persists the store. A failed write leaves the previous
// verdict in place.
func (s *FileStore) Put(ctx context.Context, symbol string, v model.Verdict) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, had := s.verdicts[symbol]
	s.verdicts[symbol] = v
	if err := saveVerdicts(s.filePath, s.verdicts); err != nil {
		if had {
			s.verdicts[symbol] = prev
		} else {
			delete(s.verdicts, symbol)
		}
		return fmt.Errorf("save verdicts: %w", err)
	}
	return nil
}

func loadVerdicts(filePath string) (map[string]model.Verdict, error) {
	verdicts := make(map[string]model.Verdict)
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return verdicts, nil
		}
		return nil, err
	}
	if err := json.Unmarshal(data, &verdicts); err != nil {
		return nil, err
	}
	// A "null" document decodes to a nil map.
	if verdicts == nil {
		verdicts = make(map[string]model.Verdict)
	}
	return verdicts, nil
}

// saveVerdicts writes through a temporary file so a crash never leaves a
// truncated store behind.
func saveVerdicts(filePath string, verdicts map[string]model.Verdict) error {
	data, err := json.MarshalIndent(verdicts, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(filePath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	tmp := filePath + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, filePath)
}
