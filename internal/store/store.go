// Package store reads and writes the persisted task document. The
// core never touches the disk format directly: it receives a validated
// document at load time and hands it back here to flush.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dandori-app/dandori/internal/task"
)

// SchemaVersion is the document version this build reads and writes.
const SchemaVersion = 1

// ErrNotExist reports that no document file exists yet. Callers seed a
// default document in that case; any other load error is surfaced.
var ErrNotExist = errors.New("document does not exist")

// Load reads, parses, validates, and normalizes the document at path.
func Load(path string) (*task.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotExist
		}
		return nil, fmt.Errorf("read document: %w", err)
	}

	var doc task.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	result := Validate(&doc)
	if !result.Valid {
		return nil, fmt.Errorf("invalid document: %w", errors.Join(result.Errors...))
	}

	normalizeLegacy(&doc)
	return &doc, nil
}

// Save writes the document to path with 2-space indentation and a
// trailing newline. The write goes through a temp file in the same
// directory and a rename, so a crash mid-write never truncates the
// previous document.
func Save(path string, doc *task.Document) error {
	doc.SchemaVersion = SchemaVersion
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp*")
	if err != nil {
		return fmt.Errorf("create temp document: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp document: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp document: %w", err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("chmod temp document: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace document: %w", err)
	}
	return nil
}

// Seed returns the default document for a first run: empty projects
// and tasks with default settings.
func Seed() *task.Document {
	return &task.Document{
		SchemaVersion: SchemaVersion,
		Projects:      []task.Project{},
		Tasks:         []task.Task{},
		Settings:      task.DefaultSettings(),
	}
}

// Import parses and validates raw document bytes, for restoring a
// backup. The caller decides whether to save the result.
func Import(data []byte) (*task.Document, error) {
	var doc task.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse import: %w", err)
	}
	result := Validate(&doc)
	if !result.Valid {
		return nil, fmt.Errorf("invalid import: %w", errors.Join(result.Errors...))
	}
	normalizeLegacy(&doc)
	return &doc, nil
}

// Export serializes the document for a backup file.
func Export(doc *task.Document) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal export: %w", err)
	}
	return append(data, '\n'), nil
}

// normalizeLegacy removes the legacy "default" project carried over
// from old documents and unassigns its tasks.
func normalizeLegacy(doc *task.Document) bool {
	idx := -1
	for i := range doc.Projects {
		if doc.Projects[i].ID == "default" {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}
	doc.Projects = append(doc.Projects[:idx], doc.Projects[idx+1:]...)
	now := time.Now().UTC()
	for i := range doc.Tasks {
		if doc.Tasks[i].ProjectID == "default" {
			doc.Tasks[i].ProjectID = ""
			doc.Tasks[i].UpdatedAt = now
		}
	}
	return true
}
