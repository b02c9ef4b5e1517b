package bot

import (
	"fmt"
	"strings"
	"time"

	"morabot/internal/filter"
	"morabot/internal/model"
	"morabot/internal/storage"
)

// Large release days are chunked so a single message stays within
// transport limits.
const listingChunkSize = 500

// FormatReleaseHeader announces how many albums a release day carries.
func FormatReleaseHeader(targetDate time.Time, count int) string {
	return fmt.Sprintf("=== %d albums released on %s ===", count, targetDate.Format("2006/01/02"))
}

// FormatWatchGroup renders one watched artist's matched albums.
func FormatWatchGroup(group filter.ArtistGroup) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s released %d album(s):\n", group.Artist.Name, len(group.Albums))
	for i, album := range group.Albums {
		fmt.Fprintf(&b, "\n%d. 《%s》- %s, %d tracks\n", i+1, album.Title, album.ArtistName, album.TrackCount)
	}
	return b.String()
}

// FormatAlbumListing renders the full (blacklist-filtered) release
// listing as one or more text tables.
func FormatAlbumListing(albums []model.Album, targetDate time.Time) []string {
	if len(albums) == 0 {
		return []string{fmt.Sprintf("No other new releases on %s.", targetDate.Format("2006/01/02"))}
	}

	var pages []string
	for start := 0; start < len(albums); start += listingChunkSize {
		end := min(start+listingChunkSize, len(albums))
		chunk := albums[start:end]

		var b strings.Builder
		fmt.Fprintf(&b, "All new releases (%s), page %d, %d albums:\n",
			targetDate.Format("2006/01/02"), len(pages)+1, len(chunk))
		for _, album := range chunk {
			fmt.Fprintf(&b, "\n%s — %s", cell(album.Title), cell(album.ArtistName))
			if c := cell(album.PackageComment); c != "" {
				fmt.Fprintf(&b, " (%s)", c)
			}
		}
		pages = append(pages, b.String())
	}
	return pages
}

// FormatArtistList renders a watch list or blacklist for display.
func FormatArtistList(kind storage.ListKind, artists []model.ArtistEntry) string {
	if len(artists) == 0 {
		if kind == storage.Blacklist {
			return "No blocked artists. Use /block <artist> to add one."
		}
		return "No watched artists. Use /watch <artist> to add one."
	}

	var b strings.Builder
	if kind == storage.Blacklist {
		b.WriteString("Blocked artists:\n")
	} else {
		b.WriteString("Watched artists:\n")
	}
	for i, a := range artists {
		fmt.Fprintf(&b, "%d. %s\n", i+1, a.Name)
	}
	return b.String()
}

// cell collapses newlines and truncates a listing cell to 20 runes.
func cell(s string) string {
	s = strings.NewReplacer("\n", "", "\r", "").Replace(s)
	runes := []rune(s)
	if len(runes) > 20 {
		return string(runes[:20])
	}
	return s
}
