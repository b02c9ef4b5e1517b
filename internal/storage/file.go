package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"morabot/internal/model"
)

// File implements Store as a single flat JSON file holding every
// scene record, read in full and rewritten in full on each mutation.
// The format matches the original config.json layout. A mutex
// serializes all access, so overlapping mutations cannot lose updates.
type File struct {
	mu   sync.Mutex
	path string
}

// NewFile creates a flat-file store at path, creating the file (and
// parent directories) with an empty record set if it does not exist.
func NewFile(path string) (*File, error) {
	f := &File{path: path}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return nil, fmt.Errorf("create store directory: %w", err)
		}
		if err := f.write([]model.Scene{}); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, fmt.Errorf("stat store file: %w", err)
	}
	return f, nil
}

// Close is a no-op; the file is opened per operation.
func (f *File) Close() error { return nil }

// GetScene returns the scene for key, or ErrNotFound.
func (f *File) GetScene(_ context.Context, key model.SceneKey) (*model.Scene, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	scenes, err := f.read()
	if err != nil {
		return nil, err
	}
	for i := range scenes {
		if scenes[i].SceneKey == key {
			return &scenes[i], nil
		}
	}
	return nil, ErrNotFound
}

// PutScene replaces the record with the same key, or appends a new one.
func (f *File) PutScene(_ context.Context, scene *model.Scene) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	scenes, err := f.read()
	if err != nil {
		return err
	}
	replaced := false
	for i := range scenes {
		if scenes[i].SceneKey == scene.SceneKey {
			scenes[i] = *scene
			replaced = true
			break
		}
	}
	if !replaced {
		scenes = append(scenes, *scene)
	}
	return f.write(scenes)
}

// ListScenes returns all known scenes.
func (f *File) ListScenes(_ context.Context) ([]model.Scene, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.read()
}

func (f *File) read() ([]model.Scene, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("read store file: %w", err)
	}
	var scenes []model.Scene
	if err := json.Unmarshal(data, &scenes); err != nil {
		return nil, fmt.Errorf("decode store file: %w", err)
	}
	return scenes, nil
}

func (f *File) write(scenes []model.Scene) error {
	data, err := json.MarshalIndent(scenes, "", "  ")
	if err != nil {
		return fmt.Errorf("encode store file: %w", err)
	}
	if err := os.WriteFile(f.path, data, 0o640); err != nil {
		return fmt.Errorf("write store file: %w", err)
	}
	return nil
}
