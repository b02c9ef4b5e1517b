// Package storage defines the scene preference store and its backends.
package storage

import (
	"context"
	"errors"

	"morabot/internal/model"
)

// ErrNotFound is returned when no scene exists for a key.
var ErrNotFound = errors.New("scene not found")

// Store is the keyed preference store. Scenes are created lazily on
// first write and never deleted. Implementations serialize writes, so
// read-modify-write sequences through a single Store do not lose
// updates.
type Store interface {
	// GetScene returns the scene for key, or ErrNotFound.
	GetScene(ctx context.Context, key model.SceneKey) (*model.Scene, error)
	// PutScene inserts or fully replaces one scene record.
	PutScene(ctx context.Context, scene *model.Scene) error
	// ListScenes returns all known scenes.
	ListScenes(ctx context.Context) ([]model.Scene, error)

	Close() error
}

// sceneOrDefault loads the scene for key, falling back to a fresh
// default record when none exists yet.
func sceneOrDefault(ctx context.Context, s Store, key model.SceneKey) (*model.Scene, error) {
	scene, err := s.GetScene(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return model.NewScene(key), nil
	}
	if err != nil {
		return nil, err
	}
	return scene, nil
}
