// Package model defines the domain types used across the application.
package model

// Album is a single catalog release as returned by the new-release API.
// Albums are fetched fresh per query and never persisted.
type Album struct {
	ArtistName     string `json:"artistName"`
	Title          string `json:"title"`
	TrackCount     int    `json:"trackCount"`
	DispStartDate  string `json:"dispStartDate"`
	PackageURL     string `json:"packageUrl"`
	PackageImage   string `json:"packageimage"`
	PackageComment string `json:"packageComment"`
}

// Identity is the tuple that makes two catalog entries the same album.
// The API repeats albums across pages and exposes no surrogate key.
type Identity struct {
	ArtistName    string
	DispStartDate string
	Title         string
	TrackCount    int
}

// Identity returns the deduplication key for the album.
func (a Album) Identity() Identity {
	return Identity{
		ArtistName:    a.ArtistName,
		DispStartDate: a.DispStartDate,
		Title:         a.Title,
		TrackCount:    a.TrackCount,
	}
}

// CoverURL returns the full URL of the album art, or "" if the catalog
// entry carries no image.
func (a Album) CoverURL() string {
	if a.PackageURL == "" || a.PackageImage == "" {
		return ""
	}
	return a.PackageURL + a.PackageImage
}

// PageResult is the decoded payload of one catalog page.
type PageResult struct {
	NewReleaseList []Album `json:"newReleaseList"`
	SplitFileCnt   int     `json:"splitFileCnt"`
}

// SceneType distinguishes group chats from direct conversations.
type SceneType string

// Supported scene types.
const (
	SceneGroup   SceneType = "group"
	ScenePrivate SceneType = "private"
)

// SceneKey identifies one addressable chat context.
type SceneKey struct {
	ID   string    `json:"id"`
	Type SceneType `json:"type"`
}

// ArtistEntry is one entry in a scene's watch list or blacklist.
// Alias and Type are stored but not consulted by matching.
type ArtistEntry struct {
	Name  string `json:"name"`
	Alias string `json:"alias"`
	Type  string `json:"type"`
}

// Scene holds the per-chat preferences: watched artists, blacklisted
// artists, and the daily push opt-in flag.
type Scene struct {
	SceneKey
	WatchArtists     []ArtistEntry `json:"watch_artists"`
	BlacklistArtists []ArtistEntry `json:"blacklist_artists"`
	AutoPush         bool          `json:"auto_push"`
}

// NewScene returns a scene with default preferences for the given key.
func NewScene(key SceneKey) *Scene {
	return &Scene{
		SceneKey:         key,
		WatchArtists:     []ArtistEntry{},
		BlacklistArtists: []ArtistEntry{},
	}
}
