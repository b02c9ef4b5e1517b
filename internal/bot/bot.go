// Package bot implements the Telegram command surface and the
// per-scene delivery pipeline.
package bot

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"morabot/internal/config"
	"morabot/internal/model"
	"morabot/internal/storage"
)

type telegramAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetChat(config tgbotapi.ChatInfoConfig) (tgbotapi.Chat, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Discoverer produces the deduplicated album list for a target date.
type Discoverer interface {
	Discover(ctx context.Context, region string, targetDate time.Time) ([]model.Album, error)
}

// Bot handles user commands and delivers release notifications.
type Bot struct {
	api    telegramAPI
	prefs  *storage.Prefs
	engine Discoverer
	cfg    *config.Config
	log    *slog.Logger
}

// New creates a Bot with the given Telegram token.
func New(token string, prefs *storage.Prefs, engine Discoverer, cfg *config.Config, log *slog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}

	return &Bot{
		api:    api,
		prefs:  prefs,
		engine: engine,
		cfg:    cfg,
		log:    log,
	}, nil
}

// Run starts the bot's long-polling loop, blocking until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return
		case update := <-updates:
			if update.Message == nil || !update.Message.IsCommand() {
				continue
			}
			b.handleCommand(ctx, update.Message)
		}
	}
}

// IsReachable probes whether the bot can still address a scene. Scenes
// the bot was removed from fail the probe and are skipped by the push.
func (b *Bot) IsReachable(_ context.Context, key model.SceneKey) bool {
	id, err := strconv.ParseInt(key.ID, 10, 64)
	if err != nil {
		return false
	}
	_, err = b.api.GetChat(tgbotapi.ChatInfoConfig{
		ChatConfig: tgbotapi.ChatConfig{ChatID: id},
	})
	return err == nil
}

// SendMessage sends a text message to the given chat.
func (b *Bot) SendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.DisableWebPagePreview = true
	if _, err := b.api.Send(msg); err != nil {
		b.log.Error("send message", "chat_id", chatID, "error", err)
	}
}

func (b *Bot) reply(chatID int64, text string) {
	b.SendMessage(chatID, text)
}

// sceneKey derives the scene identity from the chat a command arrived in.
func sceneKey(chat *tgbotapi.Chat) model.SceneKey {
	typ := model.ScenePrivate
	if chat.IsGroup() || chat.IsSuperGroup() {
		typ = model.SceneGroup
	}
	return model.SceneKey{
		ID:   strconv.FormatInt(chat.ID, 10),
		Type: typ,
	}
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	cmd := msg.Command()
	args := strings.TrimSpace(msg.CommandArguments())
	chatID := msg.Chat.ID
	key := sceneKey(msg.Chat)

	b.log.Debug("command", "cmd", cmd, "args", args, "chat_id", chatID)

	switch cmd {
	case "start":
		b.handleStart(chatID)
	case "help":
		b.handleHelp(chatID)
	case "releases":
		b.handleReleases(ctx, chatID, key, args)
	case "watch":
		b.handleAddArtist(ctx, chatID, key, args, storage.WatchList)
	case "unwatch":
		b.handleRemoveArtist(ctx, chatID, key, args, storage.WatchList)
	case "watchlist":
		b.handleListArtists(ctx, chatID, key, storage.WatchList)
	case "block":
		b.handleAddArtist(ctx, chatID, key, args, storage.Blacklist)
	case "unblock":
		b.handleRemoveArtist(ctx, chatID, key, args, storage.Blacklist)
	case "blocklist":
		b.handleListArtists(ctx, chatID, key, storage.Blacklist)
	case "push_on":
		b.handleSetPush(ctx, chatID, key, true)
	case "push_off":
		b.handleSetPush(ctx, chatID, key, false)
	default:
		b.reply(chatID, "Unknown command. Use /help for a list of commands.")
	}
}
