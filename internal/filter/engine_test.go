package filter

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"morabot/internal/model"
)

func entries(names ...string) []model.ArtistEntry {
	var out []model.ArtistEntry
	for _, n := range names {
		out = append(out, model.ArtistEntry{Name: n})
	}
	return out
}

func byArtist(names ...string) []model.Album {
	var out []model.Album
	for _, n := range names {
		out = append(out, model.Album{ArtistName: n, Title: n + " Album"})
	}
	return out
}

func artists(albums []model.Album) []string {
	var out []string
	for _, a := range albums {
		out = append(out, a.ArtistName)
	}
	return out
}

func TestExcludeBlacklisted(t *testing.T) {
	tests := []struct {
		name      string
		albums    []model.Album
		blacklist []model.ArtistEntry
		want      []string
	}{
		{
			name:      "substring match removes collaborations too",
			albums:    byArtist("GoodArtist", "BadArtist", "GoodArtist feat. BadArtist"),
			blacklist: entries("BadArtist"),
			want:      []string{"GoodArtist"},
		},
		{
			name:      "empty blacklist keeps everything",
			albums:    byArtist("A", "B"),
			blacklist: nil,
			want:      []string{"A", "B"},
		},
		{
			name:      "order preserved",
			albums:    byArtist("C", "A", "Blocked", "B"),
			blacklist: entries("Blocked"),
			want:      []string{"C", "A", "B"},
		},
		{
			name:      "multiple blacklist names",
			albums:    byArtist("One", "Two", "Three"),
			blacklist: entries("One", "Three"),
			want:      []string{"Two"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExcludeBlacklisted(tt.albums, tt.blacklist)
			if diff := cmp.Diff(tt.want, artists(got)); diff != "" {
				t.Errorf("albums mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestGroupByWatched(t *testing.T) {
	albums := byArtist("GoodArtist", "OtherArtist", "GoodArtist feat. Someone")

	groups := GroupByWatched(albums, entries("GoodArtist", "Nobody"))

	if len(groups) != 1 {
		t.Fatalf("expected 1 group, got %d", len(groups))
	}
	if diff := cmp.Diff("GoodArtist", groups[0].Artist.Name); diff != "" {
		t.Errorf("group artist mismatch (-want +got):\n%s", diff)
	}
	want := []string{"GoodArtist", "GoodArtist feat. Someone"}
	if diff := cmp.Diff(want, artists(groups[0].Albums)); diff != "" {
		t.Errorf("group albums mismatch (-want +got):\n%s", diff)
	}
}

func TestGroupByWatchedAlbumInMultipleGroups(t *testing.T) {
	albums := byArtist("Alpha x Beta")

	groups := GroupByWatched(albums, entries("Alpha", "Beta"))

	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	for _, g := range groups {
		if diff := cmp.Diff([]string{"Alpha x Beta"}, artists(g.Albums)); diff != "" {
			t.Errorf("group %s albums mismatch (-want +got):\n%s", g.Artist.Name, diff)
		}
	}
}

func TestBlacklistThenWatchScenario(t *testing.T) {
	// Blacklist takes precedence: watch grouping runs on the filtered
	// list, so a watched artist collaborating with a blocked one is
	// not surfaced.
	albums := byArtist("GoodArtist", "BadArtist", "GoodArtist feat. BadArtist")

	visible := ExcludeBlacklisted(albums, entries("BadArtist"))
	groups := GroupByWatched(visible, entries("GoodArtist"))

	if diff := cmp.Diff([]string{"GoodArtist"}, artists(visible)); diff != "" {
		t.Errorf("filtered albums mismatch (-want +got):\n%s", diff)
	}
	if len(groups) != 1 {
		t.Fatalf("expected 1 group, got %d", len(groups))
	}
	if diff := cmp.Diff([]string{"GoodArtist"}, artists(groups[0].Albums)); diff != "" {
		t.Errorf("group albums mismatch (-want +got):\n%s", diff)
	}
}

func TestGroupByWatchedNoWatchlist(t *testing.T) {
	groups := GroupByWatched(byArtist("A", "B"), nil)
	if groups != nil {
		t.Errorf("expected no groups, got %v", groups)
	}
}
