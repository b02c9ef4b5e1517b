package storage

import (
	"context"
	"errors"

	"morabot/internal/model"
)

// Signals for list mutations. Handlers turn these into user-facing
// replies rather than generic errors.
var (
	// ErrDuplicateArtist means the artist name is already on the list.
	ErrDuplicateArtist = errors.New("artist already on list")
	// ErrArtistNotFound means no list entry has the given name.
	ErrArtistNotFound = errors.New("artist not on list")
)

// ListKind selects which of a scene's two artist lists an operation
// applies to.
type ListKind int

// The two per-scene artist lists.
const (
	WatchList ListKind = iota
	Blacklist
)

// Prefs exposes the read-modify-write preference operations on top of
// a Store.
type Prefs struct {
	store Store
}

// NewPrefs wraps a Store.
func NewPrefs(store Store) *Prefs {
	return &Prefs{store: store}
}

// AddArtist appends an artist to the scene's list, creating the scene
// on first write. Uniqueness is by name only; a duplicate name returns
// ErrDuplicateArtist without mutating anything.
func (p *Prefs) AddArtist(ctx context.Context, key model.SceneKey, kind ListKind, name string) error {
	scene, err := sceneOrDefault(ctx, p.store, key)
	if err != nil {
		return err
	}
	list := scene.WatchArtists
	if kind == Blacklist {
		list = scene.BlacklistArtists
	}
	for _, a := range list {
		if a.Name == name {
			return ErrDuplicateArtist
		}
	}
	list = append(list, model.ArtistEntry{Name: name})
	if kind == Blacklist {
		scene.BlacklistArtists = list
	} else {
		scene.WatchArtists = list
	}
	return p.store.PutScene(ctx, scene)
}

// RemoveArtist removes an artist from the scene's list by name.
// Removing a name that is not on the list returns ErrArtistNotFound
// and leaves the record untouched.
func (p *Prefs) RemoveArtist(ctx context.Context, key model.SceneKey, kind ListKind, name string) error {
	scene, err := sceneOrDefault(ctx, p.store, key)
	if err != nil {
		return err
	}
	list := scene.WatchArtists
	if kind == Blacklist {
		list = scene.BlacklistArtists
	}
	kept := make([]model.ArtistEntry, 0, len(list))
	for _, a := range list {
		if a.Name != name {
			kept = append(kept, a)
		}
	}
	if len(kept) == len(list) {
		return ErrArtistNotFound
	}
	if kind == Blacklist {
		scene.BlacklistArtists = kept
	} else {
		scene.WatchArtists = kept
	}
	return p.store.PutScene(ctx, scene)
}

// ListArtists returns the scene's list; an unknown scene has empty
// lists.
func (p *Prefs) ListArtists(ctx context.Context, key model.SceneKey, kind ListKind) ([]model.ArtistEntry, error) {
	scene, err := sceneOrDefault(ctx, p.store, key)
	if err != nil {
		return nil, err
	}
	if kind == Blacklist {
		return scene.BlacklistArtists, nil
	}
	return scene.WatchArtists, nil
}

// Scene returns the full preference record for a key, defaulted when
// the scene has never been written.
func (p *Prefs) Scene(ctx context.Context, key model.SceneKey) (*model.Scene, error) {
	return sceneOrDefault(ctx, p.store, key)
}

// SetAutoPush toggles the daily push opt-in, creating the scene on
// first write.
func (p *Prefs) SetAutoPush(ctx context.Context, key model.SceneKey, enabled bool) error {
	scene, err := sceneOrDefault(ctx, p.store, key)
	if err != nil {
		return err
	}
	scene.AutoPush = enabled
	return p.store.PutScene(ctx, scene)
}

// AutoPushScenes returns every scene that opted into the daily push.
func (p *Prefs) AutoPushScenes(ctx context.Context) ([]model.Scene, error) {
	scenes, err := p.store.ListScenes(ctx)
	if err != nil {
		return nil, err
	}
	var out []model.Scene
	for _, s := range scenes {
		if s.AutoPush {
			out = append(out, s)
		}
	}
	return out, nil
}
