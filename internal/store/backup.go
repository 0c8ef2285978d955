package store

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/knkapps/followup/internal/models"
)

// ExportVersion is carried through backup documents unchanged. There is no
// schema migration logic keyed on it.
const ExportVersion = "1.0.0"

// Document is the backup file format: the snapshot plus metadata.
type Document struct {
	Version     string          `json:"version"`
	ExportedAt  string          `json:"exportedAt"`
	Tasks       json.RawMessage `json:"tasks"`
	Projects    json.RawMessage `json:"projects"`
	Departments json.RawMessage `json:"departments"`
}

// Export writes the snapshot as a backup document.
func Export(w io.Writer, snap *models.Snapshot, now time.Time) error {
	doc := struct {
		Version     string        `json:"version"`
		ExportedAt  string        `json:"exportedAt"`
		Tasks       []models.Task `json:"tasks"`
		Projects    []string      `json:"projects"`
		Departments []string      `json:"departments"`
	}{
		Version:     ExportVersion,
		ExportedAt:  now.Format(time.RFC3339),
		Tasks:       snap.Tasks,
		Projects:    snap.Projects,
		Departments: snap.Departments,
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// Import parses a backup document into a snapshot. Import is permissive:
// any of the three collections that is not array-typed is replaced with an
// empty one instead of rejecting the whole document. Only a document that is
// not JSON at all is an error.
func Import(r io.Reader) (*models.Snapshot, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("not a valid backup document: %w", err)
	}

	snap := &models.Snapshot{
		Tasks:       []models.Task{},
		Projects:    []string{},
		Departments: []string{},
	}
	if doc.Tasks != nil {
		var tasks []models.Task
		if err := json.Unmarshal(doc.Tasks, &tasks); err == nil && tasks != nil {
			snap.Tasks = tasks
		}
	}
	if doc.Projects != nil {
		var projects []string
		if err := json.Unmarshal(doc.Projects, &projects); err == nil && projects != nil {
			snap.Projects = projects
		}
	}
	if doc.Departments != nil {
		var departments []string
		if err := json.Unmarshal(doc.Departments, &departments); err == nil && departments != nil {
			snap.Departments = departments
		}
	}
	return snap, nil
}

// BackupFileName returns the conventional name for a backup written at now,
// e.g. knk-backup-2024-06-10-12-00-00.json.
func BackupFileName(now time.Time) string {
	stamp := now.Format("2006-01-02T15-04-05")
	return "knk-backup-" + strings.ReplaceAll(stamp, "T", "-") + ".json"
}
