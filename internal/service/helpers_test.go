package service

import (
	"context"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/spec-kit/music-collection/internal/config"
	"github.com/spec-kit/music-collection/internal/events"
	"github.com/spec-kit/music-collection/internal/repository/memstore"
)

func testConfig() config.Config {
	return config.Config{
		App: config.AppConfig{Name: "music-collection-test"},
		Auth: config.AuthConfig{
			JWTSecret:             "test-secret",
			Issuer:                "music-collection-test",
			AccessTokenTTLMinutes: 30,
			BcryptCost:            4,
			AdminUsername:         "admin",
			AdminBootstrap:        true,
		},
	}
}

type recordingDispatcher struct {
	mu     sync.Mutex
	events []events.Event
}

func (d *recordingDispatcher) Publish(_ context.Context, event events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
	return nil
}

func (d *recordingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *recordingDispatcher) types() []events.EventType {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]events.EventType, 0, len(d.events))
	for _, e := range d.events {
		out = append(out, e.Type)
	}
	return out
}

type fixture struct {
	store      *memstore.Store
	dispatcher *recordingDispatcher
	auth       *AuthService
	admin      *AdminService
	library    *LibraryService
}

func newFixture(t *testing.T, cfg config.Config) *fixture {
	t.Helper()
	store := memstore.New()
	dispatcher := &recordingDispatcher{}
	logger := zap.NewNop()
	return &fixture{
		store:      store,
		dispatcher: dispatcher,
		auth: NewAuthService(cfg, AuthDependencies{
			UserRepo:   store.Users(),
			Dispatcher: dispatcher,
			Logger:     logger,
		}),
		admin: NewAdminService(store.Users(), dispatcher, logger),
		library: NewLibraryService(LibraryDependencies{
			ArtistRepo:   store.Artists(),
			AlbumRepo:    store.Albums(),
			PlaylistRepo: store.Playlists(),
		}),
	}
}
