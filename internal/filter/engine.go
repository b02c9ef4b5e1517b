// Package filter implements the per-scene album matching engine.
package filter

import (
	"strings"

	"morabot/internal/model"
)

// ArtistGroup is the set of albums matched by one watched artist.
type ArtistGroup struct {
	Artist model.ArtistEntry
	Albums []model.Album
}

// Matching is substring containment rather than equality: catalog
// artist names often include collaborators or suffixes ("Artist feat.
// X"). Containment catches these, at the cost of false positives for
// artists whose names are substrings of others.

// ExcludeBlacklisted removes albums whose artist name contains any
// blacklisted name as a substring. Order-preserving.
func ExcludeBlacklisted(albums []model.Album, blacklist []model.ArtistEntry) []model.Album {
	if len(blacklist) == 0 {
		return albums
	}
	var out []model.Album
	for _, album := range albums {
		if !containsAny(album.ArtistName, blacklist) {
			out = append(out, album)
		}
	}
	return out
}

// GroupByWatched partitions albums into per-watched-artist groups.
// Entries with zero matches produce no group; an album may appear in
// multiple groups when several watched names are contained in its
// artist name.
func GroupByWatched(albums []model.Album, watch []model.ArtistEntry) []ArtistGroup {
	var groups []ArtistGroup
	for _, artist := range watch {
		var matched []model.Album
		for _, album := range albums {
			if strings.Contains(album.ArtistName, artist.Name) {
				matched = append(matched, album)
			}
		}
		if len(matched) > 0 {
			groups = append(groups, ArtistGroup{Artist: artist, Albums: matched})
		}
	}
	return groups
}

func containsAny(artistName string, entries []model.ArtistEntry) bool {
	for _, e := range entries {
		if strings.Contains(artistName, e.Name) {
			return true
		}
	}
	return false
}
