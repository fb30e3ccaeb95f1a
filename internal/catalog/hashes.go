package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"card-scanner/internal/inventory"
)

// HashStore is the persisted identity -> hash catalog.
type HashStore struct {
	mu       sync.RWMutex
	Entries  []inventory.HashEntry `json:"entries"`
	FilePath string                `json:"-"`
}

// NewHashStore creates an empty store.
func NewHashStore() *HashStore {
	return &HashStore{Entries: make([]inventory.HashEntry, 0)}
}

// DefaultHashPath returns ~/.config/card-scanner/hashes.json, creating the
// directory if needed.
func DefaultHashPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine config directory: %w", err)
		}
		configDir = filepath.Join(home, ".config")
	}

	appDir := filepath.Join(configDir, "card-scanner")
	if err := os.MkdirAll(appDir, 0755); err != nil {
		return "", fmt.Errorf("cannot create config directory: %w", err)
	}
	return filepath.Join(appDir, "hashes.json"), nil
}

// LoadHashStore reads a hash catalog. A missing file yields an empty store
// bound to path.
func LoadHashStore(path string) (*HashStore, error) {
	s := NewHashStore()
	s.FilePath = path

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("failed to read hash catalog: %w", err)
	}
	if err := json.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("failed to parse hash catalog: %w", err)
	}
	return s, nil
}

// Save writes the store back to its file.
func (s *HashStore) Save() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.FilePath == "" {
		return fmt.Errorf("no file path set")
	}
	if err := os.MkdirAll(filepath.Dir(s.FilePath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize hash catalog: %w", err)
	}
	if err := os.WriteFile(s.FilePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write hash catalog: %w", err)
	}
	return nil
}

// Snapshot returns a copy of the entries.
func (s *HashStore) Snapshot() []inventory.HashEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]inventory.HashEntry, len(s.Entries))
	copy(out, s.Entries)
	return out
}

// Merge appends entries not already present (same id and hash) and returns
// how many were added.
func (s *HashStore) Merge(entries []inventory.HashEntry) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	have := make(map[inventory.HashEntry]bool, len(s.Entries))
	for _, e := range s.Entries {
		have[e] = true
	}
	added := 0
	for _, e := range entries {
		if e.ID == "" || e.Hash == "" || have[e] {
			continue
		}
		have[e] = true
		s.Entries = append(s.Entries, e)
		added++
	}
	return added
}

// Replace drops every entry of the given items and appends entries in their
// place. Used when a kind is bootstrapped from scratch.
func (s *HashStore) Replace(ids []inventory.ItemID, entries []inventory.HashEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	drop := make(map[inventory.ItemID]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	kept := s.Entries[:0:0]
	for _, e := range s.Entries {
		if !drop[e.ID] {
			kept = append(kept, e)
		}
	}
	s.Entries = append(kept, entries...)
}
