// Package state persists small session data between runs: the recent-files
// list and the directory of the last save.
package state

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

const (
	stateFileName = "session.json"
	maxRecent     = 10
)

// Session is the on-disk shape of the saved state.
type Session struct {
	RecentFiles []string `json:"recent_files"`
	LastSaveDir string   `json:"last_save_dir"`
}

// Store manages the persisted session.
type Store struct {
	path string
	data Session
	mu   sync.RWMutex
}

// NewStore creates or loads state from XDG_STATE_HOME/pdf-merger/.
func NewStore() (*Store, error) {
	dir := getStateDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	store := &Store{path: filepath.Join(dir, stateFileName)}
	if err := store.load(); err != nil {
		// Non-fatal - start with empty state
		store.data = Session{}
	}
	return store, nil
}

// getStateDir returns XDG_STATE_HOME/pdf-merger or ~/.local/state/pdf-merger
func getStateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "pdf-merger")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "state", "pdf-merger")
}

// RecentFiles returns the recent-files list, most recent first.
func (s *Store) RecentFiles() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.data.RecentFiles))
	copy(out, s.data.RecentFiles)
	return out
}

// AddRecent puts path at the front of the recent list, dropping an earlier
// occurrence and trimming the list to its cap.
func (s *Store) AddRecent(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	recent := []string{path}
	for _, p := range s.data.RecentFiles {
		if p != path {
			recent = append(recent, p)
		}
	}
	if len(recent) > maxRecent {
		recent = recent[:maxRecent]
	}
	s.data.RecentFiles = recent
	return s.save()
}

// LastSaveDir returns the directory of the previous save, or "".
func (s *Store) LastSaveDir() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.LastSaveDir
}

// SetLastSaveDir records the directory used for a save.
func (s *Store) SetLastSaveDir(dir string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.LastSaveDir = dir
	return s.save()
}

// Clear wipes the persisted session.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = Session{}
	return s.save()
}

func (s *Store) load() error {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(data, &s.data)
}

func (s *Store) save() error {
	data, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0644)
}
