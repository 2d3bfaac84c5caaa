package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/cdurham/hegemon/pkg/world"
)

var saveNamePattern = regexp.MustCompile(`^[a-zA-Z0-9_\- ]+$`)

func (r *RedisStorage) savePath(name string) (string, error) {
	if name == "" || !saveNamePattern.MatchString(name) {
		return "", fmt.Errorf("invalid save name: %q", name)
	}
	return filepath.Join(r.saveDir, name+".json"), nil
}

// ExportSave writes the gamestate to disk as indented JSON so saves are
// diffable and hand-editable.
func (r *RedisStorage) ExportSave(ctx context.Context, name string, gs *world.GameState) error {
	path, err := r.savePath(name)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(r.saveDir, 0o755); err != nil {
		return fmt.Errorf("failed to create save directory: %w", err)
	}

	data, err := json.MarshalIndent(gs, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal save: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		r.logger.Error("Failed to write save file", "path", path, "error", err)
		return fmt.Errorf("failed to write save file: %w", err)
	}

	r.logger.Info("Save exported", "name", name, "path", path)
	return nil
}

// ImportSave reads a save file and migrates it onto the current schema.
// A file that fails validation is rejected whole; no partial state is
// returned.
func (r *RedisStorage) ImportSave(ctx context.Context, name string) (*world.GameState, error) {
	path, err := r.savePath(name)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("save not found: %s", name)
		}
		return nil, fmt.Errorf("failed to read save file: %w", err)
	}

	var gs world.GameState
	if err := json.Unmarshal(data, &gs); err != nil {
		return nil, fmt.Errorf("save file is not valid JSON: %w", err)
	}

	if err := gs.Normalize(); err != nil {
		return nil, fmt.Errorf("save file failed validation: %w", err)
	}

	return &gs, nil
}

// ListSaves returns the names of all save files in the save directory.
func (r *RedisStorage) ListSaves(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(r.saveDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to read save directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() && filepath.Ext(entry.Name()) == ".json" {
			names = append(names, strings.TrimSuffix(entry.Name(), ".json"))
		}
	}

	return names, nil
}
