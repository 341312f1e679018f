package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"chair-status-backend/internal/model"
)

// stateDocument is the on-disk layout: one JSON document holding the whole
// chair map, rewritten in full on every accepted write.
type stateDocument struct {
	Chairs map[string]model.OccupancyRecord `json:"chairs"`
}

// FilePersister mirrors the snapshot into a single JSON file.
type FilePersister struct {
	path string
}

// NewFilePersister creates a file-backed persister writing to path.
func NewFilePersister(path string) *FilePersister {
	return &FilePersister{path: path}
}

// Load reads the persisted document. A missing file is a fresh deployment and
// yields an empty map.
func (p *FilePersister) Load(ctx context.Context) (map[string]model.OccupancyRecord, error) {
	raw, err := os.ReadFile(p.path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]model.OccupancyRecord), nil
		}
		return nil, fmt.Errorf("failed to read state file %s: %w", p.path, err)
	}

	var doc stateDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse state file %s: %w", p.path, err)
	}
	if doc.Chairs == nil {
		doc.Chairs = make(map[string]model.OccupancyRecord)
	}
	return doc.Chairs, nil
}

// Save rewrites the document in full. Written to a temp file and renamed so a
// crash mid-write never leaves a truncated document behind.
func (p *FilePersister) Save(ctx context.Context, chairs map[string]model.OccupancyRecord) error {
	raw, err := json.MarshalIndent(stateDocument{Chairs: chairs}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(p.path), ".chairs-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp state file: %w", err)
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write temp state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close temp state file: %w", err)
	}
	if err := os.Rename(tmp.Name(), p.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace state file %s: %w", p.path, err)
	}
	return nil
}
