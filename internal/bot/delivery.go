package bot

import (
	"context"
	"fmt"
	"strconv"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"morabot/internal/filter"
	"morabot/internal/model"
)

// DeliverReleases runs the per-scene delivery pipeline: announce the
// release day, drop blacklisted artists, send one message per watched
// artist with matches (with album art), then the full listing. The
// same pipeline serves on-demand queries and the daily push.
func (b *Bot) DeliverReleases(ctx context.Context, scene model.Scene, albums []model.Album, targetDate time.Time) error {
	chatID, err := strconv.ParseInt(scene.ID, 10, 64)
	if err != nil {
		return fmt.Errorf("scene id %q: %w", scene.ID, err)
	}

	if err := b.send(ctx, tgbotapi.NewMessage(chatID, FormatReleaseHeader(targetDate, len(albums)))); err != nil {
		return err
	}

	visible := filter.ExcludeBlacklisted(albums, scene.BlacklistArtists)

	for _, group := range filter.GroupByWatched(visible, scene.WatchArtists) {
		if err := b.send(ctx, tgbotapi.NewMessage(chatID, FormatWatchGroup(group))); err != nil {
			return err
		}
		for _, album := range group.Albums {
			url := album.CoverURL()
			if url == "" {
				continue
			}
			photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileURL(url))
			photo.Caption = fmt.Sprintf("《%s》- %s", album.Title, album.ArtistName)
			if err := b.send(ctx, photo); err != nil {
				return err
			}
		}
	}

	for _, page := range FormatAlbumListing(visible, targetDate) {
		if err := b.send(ctx, tgbotapi.NewMessage(chatID, page)); err != nil {
			return err
		}
	}
	return nil
}

func (b *Bot) send(ctx context.Context, c tgbotapi.Chattable) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := b.api.Send(c); err != nil {
		return fmt.Errorf("send: %w", err)
	}
	return nil
}
