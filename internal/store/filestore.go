// Package store persists the full application snapshot. Two backends
// implement the same load/save contract: a JSON file (the default) and a
// sqlite database holding the snapshot under a single key. Export and import
// of backup documents live here too.
package store

import (
	"encoding/json"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/knkapps/followup/internal/models"
)

// FileStore keeps the snapshot as pretty-printed JSON in a single file.
type FileStore struct {
	path string
	log  *zap.Logger
}

// NewFileStore creates a store writing to path.
func NewFileStore(path string, log *zap.Logger) *FileStore {
	return &FileStore{path: path, log: log}
}

// Load reads the snapshot. A missing or unparseable file means no prior
// state, never a fatal error.
func (s *FileStore) Load() (*models.Snapshot, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var snap models.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		s.log.Warn("saved state is corrupt, starting empty",
			zap.String("path", s.path), zap.Error(err))
		return nil, nil
	}
	return &snap, nil
}

// Save writes the full snapshot, creating the parent directory if needed.
func (s *FileStore) Save(snap *models.Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0600)
}

// DataDir returns the application data directory, creating it if needed.
// Follows XDG with a home-directory fallback.
func DataDir() (string, error) {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dataDir = filepath.Join(home, ".local", "share")
	}

	appDir := filepath.Join(dataDir, "followup")
	if err := os.MkdirAll(appDir, 0755); err != nil {
		return "", err
	}
	return appDir, nil
}
