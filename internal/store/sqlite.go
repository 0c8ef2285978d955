package store

import (
	"database/sql"
	"encoding/json"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/knkapps/followup/internal/models"
)

const snapshotKey = "state"

// SQLiteStore keeps the snapshot as a JSON blob in a single-row key/value
// table. Same contract as FileStore with sqlite durability semantics.
type SQLiteStore struct {
	db  *sql.DB
	log *zap.Logger
}

// NewSQLiteStore opens (or creates) the database at path.
func NewSQLiteStore(path string, log *zap.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS snapshots (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)
	`); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db, log: log}, nil
}

// Load reads the snapshot row. A missing row or corrupt value means no
// prior state.
func (s *SQLiteStore) Load() (*models.Snapshot, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM snapshots WHERE key = ?", snapshotKey).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var snap models.Snapshot
	if err := json.Unmarshal([]byte(value), &snap); err != nil {
		s.log.Warn("saved state is corrupt, starting empty", zap.Error(err))
		return nil, nil
	}
	return &snap, nil
}

// Save upserts the snapshot row.
func (s *SQLiteStore) Save(snap *models.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`
		INSERT INTO snapshots (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, snapshotKey, string(data))
	return err
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
