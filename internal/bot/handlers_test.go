package bot

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/go-cmp/cmp"

	"morabot/internal/config"
	"morabot/internal/model"
	"morabot/internal/storage"
)

type fakeAPI struct {
	mu      sync.Mutex
	sent    []tgbotapi.Chattable
	chatErr error
}

func (f *fakeAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, nil
}

func (f *fakeAPI) GetChat(_ tgbotapi.ChatInfoConfig) (tgbotapi.Chat, error) {
	if f.chatErr != nil {
		return tgbotapi.Chat{}, f.chatErr
	}
	return tgbotapi.Chat{}, nil
}

func (f *fakeAPI) GetUpdatesChan(_ tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel { return nil }

func (f *fakeAPI) StopReceivingUpdates() {}

func (f *fakeAPI) texts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, c := range f.sent {
		if msg, ok := c.(tgbotapi.MessageConfig); ok {
			out = append(out, msg.Text)
		}
	}
	return out
}

func (f *fakeAPI) photoURLs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, c := range f.sent {
		if photo, ok := c.(tgbotapi.PhotoConfig); ok {
			if url, ok := photo.File.(tgbotapi.FileURL); ok {
				out = append(out, string(url))
			}
		}
	}
	return out
}

type stubEngine struct {
	albums []model.Album
}

func (s *stubEngine) Discover(_ context.Context, _ string, _ time.Time) ([]model.Album, error) {
	return s.albums, nil
}

func newTestBot(t *testing.T, api *fakeAPI, engine Discoverer) *Bot {
	t.Helper()
	store, err := storage.NewFile(filepath.Join(t.TempDir(), "config.json"))
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	return &Bot{
		api:    api,
		prefs:  storage.NewPrefs(store),
		engine: engine,
		cfg:    &config.Config{Region: "jpn"},
		log:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func command(text string, chat *tgbotapi.Chat) *tgbotapi.Message {
	cmdLen := len(text)
	if i := strings.IndexAny(text, " "); i > 0 {
		cmdLen = i
	}
	return &tgbotapi.Message{
		Text: text,
		Chat: chat,
		Entities: []tgbotapi.MessageEntity{
			{Type: "bot_command", Offset: 0, Length: cmdLen},
		},
	}
}

var privateChat = &tgbotapi.Chat{ID: 77, Type: "private"}

func TestHandleWatchCommands(t *testing.T) {
	api := &fakeAPI{}
	b := newTestBot(t, api, &stubEngine{})
	ctx := context.Background()

	b.handleCommand(ctx, command("/watch YOASOBI", privateChat))
	b.handleCommand(ctx, command("/watch YOASOBI", privateChat))
	b.handleCommand(ctx, command("/watchlist", privateChat))
	b.handleCommand(ctx, command("/unwatch YOASOBI", privateChat))
	b.handleCommand(ctx, command("/unwatch YOASOBI", privateChat))

	want := []string{
		"Now watching artist: YOASOBI",
		"Already watching YOASOBI.",
		"Watched artists:\n1. YOASOBI\n",
		"Stopped watching: YOASOBI",
		"No watched artist named YOASOBI.",
	}
	if diff := cmp.Diff(want, api.texts()); diff != "" {
		t.Errorf("replies mismatch (-want +got):\n%s", diff)
	}
}

func TestHandleBlockCommands(t *testing.T) {
	api := &fakeAPI{}
	b := newTestBot(t, api, &stubEngine{})
	ctx := context.Background()

	b.handleCommand(ctx, command("/block BadArtist", privateChat))
	b.handleCommand(ctx, command("/blocklist", privateChat))
	b.handleCommand(ctx, command("/unblock BadArtist", privateChat))

	want := []string{
		"Blocked artist: BadArtist",
		"Blocked artists:\n1. BadArtist\n",
		"Unblocked artist: BadArtist",
	}
	if diff := cmp.Diff(want, api.texts()); diff != "" {
		t.Errorf("replies mismatch (-want +got):\n%s", diff)
	}
}

func TestHandleEmptyArtistName(t *testing.T) {
	api := &fakeAPI{}
	b := newTestBot(t, api, &stubEngine{})

	b.handleCommand(context.Background(), command("/watch", privateChat))

	want := []string{"Usage: /watch <artist name>"}
	if diff := cmp.Diff(want, api.texts()); diff != "" {
		t.Errorf("replies mismatch (-want +got):\n%s", diff)
	}
}

func TestHandlePushToggle(t *testing.T) {
	api := &fakeAPI{}
	b := newTestBot(t, api, &stubEngine{})
	ctx := context.Background()

	b.handleCommand(ctx, command("/push_on", privateChat))

	key := model.SceneKey{ID: "77", Type: model.ScenePrivate}
	scene, err := b.prefs.Scene(ctx, key)
	if err != nil {
		t.Fatalf("scene: %v", err)
	}
	if !scene.AutoPush {
		t.Error("expected auto push enabled")
	}

	b.handleCommand(ctx, command("/push_off", privateChat))
	scene, err = b.prefs.Scene(ctx, key)
	if err != nil {
		t.Fatalf("scene: %v", err)
	}
	if scene.AutoPush {
		t.Error("expected auto push disabled")
	}
}

func TestHandleReleasesInvalidDate(t *testing.T) {
	api := &fakeAPI{}
	b := newTestBot(t, api, &stubEngine{})

	b.handleCommand(context.Background(), command("/releases not-a-date", privateChat))

	texts := api.texts()
	if len(texts) != 1 || !strings.Contains(texts[0], "Usage: /releases") {
		t.Errorf("expected usage reply, got %v", texts)
	}
}

func TestSceneKeyFromChat(t *testing.T) {
	group := sceneKey(&tgbotapi.Chat{ID: -100, Type: "supergroup"})
	if diff := cmp.Diff(model.SceneKey{ID: "-100", Type: model.SceneGroup}, group); diff != "" {
		t.Errorf("group key mismatch (-want +got):\n%s", diff)
	}

	private := sceneKey(privateChat)
	if diff := cmp.Diff(model.SceneKey{ID: "77", Type: model.ScenePrivate}, private); diff != "" {
		t.Errorf("private key mismatch (-want +got):\n%s", diff)
	}
}

func TestIsReachable(t *testing.T) {
	b := newTestBot(t, &fakeAPI{}, &stubEngine{})
	if !b.IsReachable(context.Background(), model.SceneKey{ID: "77", Type: model.ScenePrivate}) {
		t.Error("expected reachable scene")
	}

	b = newTestBot(t, &fakeAPI{chatErr: io.ErrUnexpectedEOF}, &stubEngine{})
	if b.IsReachable(context.Background(), model.SceneKey{ID: "77", Type: model.ScenePrivate}) {
		t.Error("expected unreachable scene when the chat probe fails")
	}

	if b.IsReachable(context.Background(), model.SceneKey{ID: "not-a-number", Type: model.SceneGroup}) {
		t.Error("expected unreachable scene for malformed id")
	}
}
