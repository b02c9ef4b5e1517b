package bot

import (
	"context"
	"errors"
	"fmt"

	"morabot/internal/model"
	"morabot/internal/storage"
)

func (b *Bot) handleStart(chatID int64) {
	b.reply(chatID, `Welcome to Mora New Release Bot!

Get the albums released on mora.jp each day, filtered to the
artists you care about.

Quick start:
1. /releases — today's new albums
2. /watch <artist> — highlight an artist's releases
3. /push_on — receive the daily push

Use /help for the full command reference.`)
}

func (b *Bot) handleHelp(chatID int64) {
	b.reply(chatID, `Release queries:
/releases — today's new albums (Japan region)
/releases 2025/5/3 — albums for a specific date
/releases 2025/5/3 int — specific date, international region

Watched artists:
/watch <artist> — add an artist to the watch list
/unwatch <artist> — remove a watched artist
/watchlist — show watched artists

Blocked artists:
/block <artist> — hide an artist's releases
/unblock <artist> — unhide an artist
/blocklist — show blocked artists

Daily push:
/push_on — receive the daily release push
/push_off — stop receiving the daily push

Dates use the Japan timezone by default. Region codes are
case-insensitive (jpn, int).`)
}

func (b *Bot) handleReleases(ctx context.Context, chatID int64, key model.SceneKey, args string) {
	targetDate, region, err := ParseReleasesArgs(args, b.cfg.Location(), b.cfg.Region)
	if err != nil {
		b.reply(chatID, "Usage: /releases [YYYY/M/D] [region], e.g. /releases 2025/5/3")
		return
	}

	b.reply(chatID, fmt.Sprintf("Fetching mora releases for %s...", targetDate.Format("2006/01/02")))

	albums, err := b.engine.Discover(ctx, region, targetDate)
	if err != nil {
		b.reply(chatID, fmt.Sprintf("Failed to fetch releases: %v", err))
		return
	}

	scene, err := b.prefs.Scene(ctx, key)
	if err != nil {
		b.reply(chatID, "Failed to load preferences, please try again.")
		return
	}

	if err := b.DeliverReleases(ctx, *scene, albums, targetDate); err != nil {
		b.log.Error("on-demand delivery", "scene_id", key.ID, "error", err)
		b.reply(chatID, "Failed to send the release listing, please try again.")
	}
}

func (b *Bot) handleAddArtist(ctx context.Context, chatID int64, key model.SceneKey, args string, kind storage.ListKind) {
	name, err := ParseArtistArg(args)
	if err != nil {
		b.reply(chatID, usageFor(kind, true))
		return
	}

	err = b.prefs.AddArtist(ctx, key, kind, name)
	switch {
	case errors.Is(err, storage.ErrDuplicateArtist):
		if kind == storage.Blacklist {
			b.reply(chatID, fmt.Sprintf("%s is already blocked.", name))
		} else {
			b.reply(chatID, fmt.Sprintf("Already watching %s.", name))
		}
	case err != nil:
		b.reply(chatID, "Failed to save preferences, please try again.")
	case kind == storage.Blacklist:
		b.reply(chatID, fmt.Sprintf("Blocked artist: %s", name))
	default:
		b.reply(chatID, fmt.Sprintf("Now watching artist: %s", name))
	}
}

func (b *Bot) handleRemoveArtist(ctx context.Context, chatID int64, key model.SceneKey, args string, kind storage.ListKind) {
	name, err := ParseArtistArg(args)
	if err != nil {
		b.reply(chatID, usageFor(kind, false))
		return
	}

	err = b.prefs.RemoveArtist(ctx, key, kind, name)
	switch {
	case errors.Is(err, storage.ErrArtistNotFound):
		if kind == storage.Blacklist {
			b.reply(chatID, fmt.Sprintf("No blocked artist named %s.", name))
		} else {
			b.reply(chatID, fmt.Sprintf("No watched artist named %s.", name))
		}
	case err != nil:
		b.reply(chatID, "Failed to save preferences, please try again.")
	case kind == storage.Blacklist:
		b.reply(chatID, fmt.Sprintf("Unblocked artist: %s", name))
	default:
		b.reply(chatID, fmt.Sprintf("Stopped watching: %s", name))
	}
}

func (b *Bot) handleListArtists(ctx context.Context, chatID int64, key model.SceneKey, kind storage.ListKind) {
	artists, err := b.prefs.ListArtists(ctx, key, kind)
	if err != nil {
		b.reply(chatID, "Failed to load preferences, please try again.")
		return
	}
	b.reply(chatID, FormatArtistList(kind, artists))
}

func (b *Bot) handleSetPush(ctx context.Context, chatID int64, key model.SceneKey, enabled bool) {
	if err := b.prefs.SetAutoPush(ctx, key, enabled); err != nil {
		b.reply(chatID, "Failed to save preferences, please try again.")
		return
	}
	if enabled {
		b.reply(chatID, "Daily release push enabled for this chat.")
	} else {
		b.reply(chatID, "Daily release push disabled for this chat.")
	}
}

func usageFor(kind storage.ListKind, add bool) string {
	switch {
	case kind == storage.Blacklist && add:
		return "Usage: /block <artist name>"
	case kind == storage.Blacklist:
		return "Usage: /unblock <artist name>"
	case add:
		return "Usage: /watch <artist name>"
	default:
		return "Usage: /unwatch <artist name>"
	}
}
