package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // SQLite driver registration.

	"morabot/internal/model"
	"morabot/migrations"
)

const timeLayout = "2006-01-02T15:04:05Z"

// SQLite implements Store backed by a SQLite database. Artist lists
// are stored as JSON columns; the record is always read and written
// whole, matching the full-record semantics of the file backend.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at dsn and runs pending migrations.
func NewSQLite(dsn string) (*SQLite, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	if err := migrations.Run(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLite{db: db}, nil
}

// Close closes the underlying database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// GetScene returns the scene for key, or ErrNotFound.
func (s *SQLite) GetScene(ctx context.Context, key model.SceneKey) (*model.Scene, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, type, watch_artists, blacklist_artists, auto_push
		 FROM scenes WHERE id = ? AND type = ?`, key.ID, string(key.Type),
	)
	scene, err := scanScene(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return scene, nil
}

// PutScene inserts or fully replaces one scene record.
func (s *SQLite) PutScene(ctx context.Context, scene *model.Scene) error {
	watch, err := json.Marshal(scene.WatchArtists)
	if err != nil {
		return fmt.Errorf("marshal watch artists: %w", err)
	}
	blacklist, err := json.Marshal(scene.BlacklistArtists)
	if err != nil {
		return fmt.Errorf("marshal blacklist artists: %w", err)
	}
	now := time.Now().UTC().Format(timeLayout)
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO scenes (id, type, watch_artists, blacklist_artists, auto_push, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT (id, type) DO UPDATE SET
		   watch_artists = excluded.watch_artists,
		   blacklist_artists = excluded.blacklist_artists,
		   auto_push = excluded.auto_push`,
		scene.ID, string(scene.Type), string(watch), string(blacklist), boolToInt(scene.AutoPush), now,
	)
	if err != nil {
		return fmt.Errorf("upsert scene: %w", err)
	}
	return nil
}

// ListScenes returns all known scenes.
func (s *SQLite) ListScenes(ctx context.Context) ([]model.Scene, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, type, watch_artists, blacklist_artists, auto_push
		 FROM scenes ORDER BY created_at, id`,
	)
	if err != nil {
		return nil, fmt.Errorf("query scenes: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var scenes []model.Scene
	for rows.Next() {
		scene, err := scanScene(rows)
		if err != nil {
			return nil, err
		}
		scenes = append(scenes, *scene)
	}
	return scenes, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

type scannable interface {
	Scan(dest ...any) error
}

func scanScene(row scannable) (*model.Scene, error) {
	var scene model.Scene
	var typ, watch, blacklist string
	var autoPush int
	if err := row.Scan(&scene.ID, &typ, &watch, &blacklist, &autoPush); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan scene: %w", err)
	}
	scene.Type = model.SceneType(typ)
	scene.AutoPush = autoPush == 1
	if err := json.Unmarshal([]byte(watch), &scene.WatchArtists); err != nil {
		return nil, fmt.Errorf("decode watch artists: %w", err)
	}
	if err := json.Unmarshal([]byte(blacklist), &scene.BlacklistArtists); err != nil {
		return nil, fmt.Errorf("decode blacklist artists: %w", err)
	}
	return &scene, nil
}
