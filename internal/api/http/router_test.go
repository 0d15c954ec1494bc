package http

import (
	"encoding/json"
	"fmt"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/music-collection/internal/api/http/handlers"
	"github.com/spec-kit/music-collection/internal/auth"
	"github.com/spec-kit/music-collection/internal/config"
	"github.com/spec-kit/music-collection/internal/events"
	"github.com/spec-kit/music-collection/internal/observability"
	"github.com/spec-kit/music-collection/internal/persistence"
	"github.com/spec-kit/music-collection/internal/repository/memstore"
	"github.com/spec-kit/music-collection/internal/service"
)

type testClock struct {
	mu     sync.Mutex
	offset time.Duration
}

func (c *testClock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return time.Now().Add(c.offset)
}

func (c *testClock) advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.offset += d
}

type testServer struct {
	app   *fiber.App
	clock *testClock
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	cfg := config.Config{
		App: config.AppConfig{Name: "music-collection-test", Version: "test"},
		Auth: config.AuthConfig{
			JWTSecret:             "test-secret",
			Issuer:                "music-collection-test",
			AccessTokenTTLMinutes: 30,
			BcryptCost:            4,
			AdminUsername:         "admin",
			AdminBootstrap:        true,
		},
	}
	logger := zap.NewNop()
	store := memstore.New()
	dispatcher := events.NewInMemoryDispatcher()
	metrics := observability.NewMetrics()

	authService := service.NewAuthService(cfg, service.AuthDependencies{
		UserRepo:   store.Users(),
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	library := service.NewLibraryService(service.LibraryDependencies{
		ArtistRepo:   store.Artists(),
		AlbumRepo:    store.Albums(),
		PlaylistRepo: store.Playlists(),
	})
	admin := service.NewAdminService(store.Users(), dispatcher, logger)

	clock := &testClock{}
	mw := auth.NewAuthMiddleware(auth.NewResolver(authService.TokenManager(), store.Users())).WithClock(clock.now)

	app := NewServer(ServerConfig{
		AppName:        cfg.App.Name,
		RequestTimeout: 5 * time.Second,
		Logger:         logger,
		Metrics:        metrics,
	}, RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, &persistence.Postgres{}, nil, metrics),
		Users:          handlers.NewUsersHandler(authService),
		Library:        handlers.NewLibraryHandler(library),
		Admin:          handlers.NewAdminHandler(admin, library),
		AuthMiddleware: mw,
	})
	return &testServer{app: app, clock: clock}
}

type apiResponse struct {
	status int
	header nethttp.Header
	body   map[string]any
}

func (r apiResponse) data() map[string]any {
	d, _ := r.body["data"].(map[string]any)
	return d
}

func (r apiResponse) list() []any {
	l, _ := r.body["data"].([]any)
	return l
}

func (r apiResponse) errorCode() string {
	e, _ := r.body["error"].(map[string]any)
	code, _ := e["code"].(string)
	return code
}

func (s *testServer) do(t *testing.T, method, path, token string, payload any) apiResponse {
	t.Helper()
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = strings.NewReader(string(raw))
	}
	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	return s.send(t, req)
}

func (s *testServer) send(t *testing.T, req *nethttp.Request) apiResponse {
	t.Helper()
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	out := apiResponse{status: resp.StatusCode, header: resp.Header, body: map[string]any{}}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out.body), string(raw))
	}
	return out
}

func (s *testServer) register(t *testing.T, username string) int64 {
	t.Helper()
	resp := s.do(t, nethttp.MethodPost, "/register", "", map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": "secret1",
	})
	require.Equal(t, nethttp.StatusCreated, resp.status, resp.body)
	return int64(resp.data()["id"].(float64))
}

func (s *testServer) login(t *testing.T, username string) string {
	t.Helper()
	form := url.Values{"username": {username}, "password": {"secret1"}}
	req := httptest.NewRequest(nethttp.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)
	resp := s.send(t, req)
	require.Equal(t, nethttp.StatusOK, resp.status, resp.body)
	assert.Equal(t, "bearer", resp.body["token_type"])
	return resp.body["access_token"].(string)
}

func TestRouter_RegisterLoginAndManageArtists(t *testing.T) {
	s := newTestServer(t)
	s.register(t, "alice")

	reg := s.do(t, nethttp.MethodPost, "/register", "", map[string]string{
		"username": "alice2", "email": "alice2@example.com", "password": "secret1",
	})
	require.Equal(t, nethttp.StatusCreated, reg.status)
	assert.NotContains(t, reg.data(), "password")
	assert.NotContains(t, reg.data(), "password_hash")
	assert.Equal(t, false, reg.data()["is_admin"])

	token := s.login(t, "alice")

	created := s.do(t, nethttp.MethodPost, "/artists", token, map[string]string{"name": "Can", "genre": "krautrock"})
	require.Equal(t, nethttp.StatusCreated, created.status, created.body)
	id := int64(created.data()["id"].(float64))

	got := s.do(t, nethttp.MethodGet, fmt.Sprintf("/artists/%d", id), token, nil)
	require.Equal(t, nethttp.StatusOK, got.status)
	assert.Equal(t, "Can", got.data()["name"])

	updated := s.do(t, nethttp.MethodPut, fmt.Sprintf("/artists/%d", id), token, map[string]string{"name": "Can", "genre": "rock"})
	require.Equal(t, nethttp.StatusOK, updated.status)
	assert.Equal(t, "rock", updated.data()["genre"])

	filtered := s.do(t, nethttp.MethodGet, "/artists?genre=jazz", token, nil)
	require.Equal(t, nethttp.StatusOK, filtered.status)
	assert.Empty(t, filtered.list())

	deleted := s.do(t, nethttp.MethodDelete, fmt.Sprintf("/artists/%d", id), token, nil)
	require.Equal(t, nethttp.StatusOK, deleted.status)
}

func TestRouter_LoginAcceptsJSON(t *testing.T) {
	s := newTestServer(t)
	s.register(t, "alice")

	resp := s.do(t, nethttp.MethodPost, "/login", "", map[string]string{"username": "alice", "password": "secret1"})
	require.Equal(t, nethttp.StatusOK, resp.status)
	assert.NotEmpty(t, resp.body["access_token"])
	assert.NotEmpty(t, resp.body["expires_at"])
}

func TestRouter_RegisterValidationAndConflicts(t *testing.T) {
	s := newTestServer(t)
	s.register(t, "alice")

	dup := s.do(t, nethttp.MethodPost, "/register", "", map[string]string{
		"username": "alice", "email": "other@example.com", "password": "secret1",
	})
	assert.Equal(t, nethttp.StatusBadRequest, dup.status)
	assert.Equal(t, "CONFLICT", dup.errorCode())
	assert.Equal(t, "username", dup.body["error"].(map[string]any)["details"].(map[string]any)["field"])

	dupEmail := s.do(t, nethttp.MethodPost, "/register", "", map[string]string{
		"username": "bob", "email": "alice@example.com", "password": "secret1",
	})
	assert.Equal(t, "CONFLICT", dupEmail.errorCode())
	assert.Equal(t, "email", dupEmail.body["error"].(map[string]any)["details"].(map[string]any)["field"])

	invalid := s.do(t, nethttp.MethodPost, "/register", "", map[string]string{
		"username": "al", "email": "bad", "password": "123",
	})
	assert.Equal(t, nethttp.StatusBadRequest, invalid.status)
	assert.Equal(t, "VALIDATION_FAILED", invalid.errorCode())
}

func TestRouter_LoginFailureIsUniform(t *testing.T) {
	s := newTestServer(t)
	s.register(t, "alice")

	wrong := s.do(t, nethttp.MethodPost, "/login", "", map[string]string{"username": "alice", "password": "nope-nope"})
	unknown := s.do(t, nethttp.MethodPost, "/login", "", map[string]string{"username": "nobody", "password": "secret1"})

	assert.Equal(t, nethttp.StatusUnauthorized, wrong.status)
	assert.Equal(t, wrong.status, unknown.status)
	assert.Equal(t, wrong.body, unknown.body)
	assert.Equal(t, "Bearer", wrong.header.Get(fiber.HeaderWWWAuthenticate))
}

func TestRouter_ForeignRecordsLookMissing(t *testing.T) {
	s := newTestServer(t)
	s.register(t, "alice")
	s.register(t, "bob")
	alice := s.login(t, "alice")
	bob := s.login(t, "bob")

	artist := s.do(t, nethttp.MethodPost, "/artists", alice, map[string]string{"name": "Can", "genre": "krautrock"})
	album := s.do(t, nethttp.MethodPost, "/albums", alice, map[string]any{"title": "Ege Bamyasi", "release_year": 1972, "artist_name": "Can"})
	playlist := s.do(t, nethttp.MethodPost, "/playlists", alice, map[string]any{"name": "Sunday"})
	require.Equal(t, nethttp.StatusCreated, album.status, album.body)
	require.Equal(t, nethttp.StatusCreated, playlist.status, playlist.body)

	for _, path := range []string{
		fmt.Sprintf("/artists/%v", artist.data()["id"]),
		fmt.Sprintf("/albums/%v", album.data()["id"]),
		fmt.Sprintf("/playlists/%v", playlist.data()["id"]),
	} {
		foreignGet := s.do(t, nethttp.MethodGet, path, bob, nil)
		foreignDelete := s.do(t, nethttp.MethodDelete, path, bob, nil)
		assert.Equal(t, nethttp.StatusNotFound, foreignGet.status, path)
		assert.Equal(t, nethttp.StatusNotFound, foreignDelete.status, path)

		missing := s.do(t, nethttp.MethodGet, path+"999", bob, nil)
		assert.Equal(t, missing.body, foreignGet.body, path)

		assert.Equal(t, nethttp.StatusOK, s.do(t, nethttp.MethodGet, path, alice, nil).status, path)
	}

	assert.Empty(t, s.do(t, nethttp.MethodGet, "/artists", bob, nil).list())
	assert.Empty(t, s.do(t, nethttp.MethodGet, "/albums", bob, nil).list())
	assert.Empty(t, s.do(t, nethttp.MethodGet, "/playlists", bob, nil).list())
}

func TestRouter_AuthenticationRequired(t *testing.T) {
	s := newTestServer(t)

	resp := s.do(t, nethttp.MethodGet, "/artists", "", nil)
	assert.Equal(t, nethttp.StatusUnauthorized, resp.status)
	assert.Equal(t, "UNAUTHORIZED", resp.errorCode())
	assert.Equal(t, "Bearer", resp.header.Get(fiber.HeaderWWWAuthenticate))

	resp = s.do(t, nethttp.MethodGet, "/artists", "not-a-token", nil)
	assert.Equal(t, nethttp.StatusUnauthorized, resp.status)
}

func TestRouter_TokenExpiry(t *testing.T) {
	s := newTestServer(t)
	s.register(t, "alice")
	token := s.login(t, "alice")

	s.clock.advance(29 * time.Minute)
	assert.Equal(t, nethttp.StatusOK, s.do(t, nethttp.MethodGet, "/artists", token, nil).status)

	s.clock.advance(2 * time.Minute)
	assert.Equal(t, nethttp.StatusUnauthorized, s.do(t, nethttp.MethodGet, "/artists", token, nil).status)
}

func TestRouter_AdminRoutesRequireAdmin(t *testing.T) {
	s := newTestServer(t)
	s.register(t, "alice")
	token := s.login(t, "alice")

	for _, route := range []struct{ method, path string }{
		{nethttp.MethodGet, "/admin/users"},
		{nethttp.MethodDelete, "/admin/users/1"},
		{nethttp.MethodPut, "/admin/users/1/promote"},
		{nethttp.MethodPut, "/admin/users/1/demote"},
		{nethttp.MethodGet, "/admin/artists"},
		{nethttp.MethodDelete, "/admin/artists/1"},
		{nethttp.MethodGet, "/admin/albums"},
		{nethttp.MethodGet, "/admin/playlists"},
	} {
		resp := s.do(t, route.method, route.path, token, nil)
		assert.Equal(t, nethttp.StatusForbidden, resp.status, route.path)
		assert.Equal(t, "FORBIDDEN", resp.errorCode(), route.path)
	}
}

func TestRouter_AdminLifecycle(t *testing.T) {
	s := newTestServer(t)
	s.register(t, "admin")
	aliceID := s.register(t, "alice")
	admin := s.login(t, "admin")
	alice := s.login(t, "alice")

	users := s.do(t, nethttp.MethodGet, "/admin/users", admin, nil)
	require.Equal(t, nethttp.StatusOK, users.status)
	assert.Len(t, users.list(), 2)

	demote := s.do(t, nethttp.MethodPut, fmt.Sprintf("/admin/users/%d/demote", aliceID), admin, nil)
	assert.Equal(t, nethttp.StatusBadRequest, demote.status)
	assert.Equal(t, "CONFLICT", demote.errorCode())

	promote := s.do(t, nethttp.MethodPut, fmt.Sprintf("/admin/users/%d/promote", aliceID), admin, nil)
	require.Equal(t, nethttp.StatusOK, promote.status)
	assert.Equal(t, true, promote.data()["is_admin"])
	again := s.do(t, nethttp.MethodPut, fmt.Sprintf("/admin/users/%d/promote", aliceID), admin, nil)
	assert.Equal(t, "CONFLICT", again.errorCode())

	// an existing token picks up the new role on its next request
	assert.Equal(t, nethttp.StatusOK, s.do(t, nethttp.MethodGet, "/admin/users", alice, nil).status)

	missing := s.do(t, nethttp.MethodPut, "/admin/users/9999/promote", admin, nil)
	assert.Equal(t, nethttp.StatusNotFound, missing.status)
}

func TestRouter_AdminDeleteUserCascades(t *testing.T) {
	s := newTestServer(t)
	s.register(t, "admin")
	aliceID := s.register(t, "alice")
	admin := s.login(t, "admin")
	alice := s.login(t, "alice")

	s.do(t, nethttp.MethodPost, "/artists", alice, map[string]string{"name": "Can", "genre": "krautrock"})
	s.do(t, nethttp.MethodPost, "/albums", alice, map[string]any{"title": "Soon Over Babaluma", "release_year": 1974, "artist_name": "Can"})
	s.do(t, nethttp.MethodPost, "/playlists", alice, map[string]any{"name": "Late"})
	s.do(t, nethttp.MethodPost, "/artists", admin, map[string]string{"name": "Neu!", "genre": "krautrock"})

	owned := fmt.Sprintf("?owner_id=%d", aliceID)
	assert.Len(t, s.do(t, nethttp.MethodGet, "/admin/artists"+owned, admin, nil).list(), 1)
	assert.Len(t, s.do(t, nethttp.MethodGet, "/admin/artists", admin, nil).list(), 2)

	deleted := s.do(t, nethttp.MethodDelete, fmt.Sprintf("/admin/users/%d", aliceID), admin, nil)
	require.Equal(t, nethttp.StatusOK, deleted.status)

	assert.Empty(t, s.do(t, nethttp.MethodGet, "/admin/artists"+owned, admin, nil).list())
	assert.Empty(t, s.do(t, nethttp.MethodGet, "/admin/albums"+owned, admin, nil).list())
	assert.Empty(t, s.do(t, nethttp.MethodGet, "/admin/playlists"+owned, admin, nil).list())
	assert.Len(t, s.do(t, nethttp.MethodGet, "/admin/artists", admin, nil).list(), 1)

	// the deleted user's token no longer resolves
	assert.Equal(t, nethttp.StatusUnauthorized, s.do(t, nethttp.MethodGet, "/artists", alice, nil).status)
}

func TestRouter_AdminDeletesAnyRecord(t *testing.T) {
	s := newTestServer(t)
	s.register(t, "admin")
	s.register(t, "alice")
	admin := s.login(t, "admin")
	alice := s.login(t, "alice")

	artist := s.do(t, nethttp.MethodPost, "/artists", alice, map[string]string{"name": "Can", "genre": "krautrock"})
	path := fmt.Sprintf("/artists/%v", artist.data()["id"])

	// admins are owner-scoped on the regular routes
	assert.Equal(t, nethttp.StatusNotFound, s.do(t, nethttp.MethodGet, path, admin, nil).status)
	assert.Equal(t, nethttp.StatusOK, s.do(t, nethttp.MethodDelete, "/admin"+path, admin, nil).status)
	assert.Equal(t, nethttp.StatusNotFound, s.do(t, nethttp.MethodDelete, "/admin"+path, admin, nil).status)
}

func TestRouter_BadInput(t *testing.T) {
	s := newTestServer(t)
	s.register(t, "alice")
	token := s.login(t, "alice")

	assert.Equal(t, "VALIDATION_FAILED", s.do(t, nethttp.MethodGet, "/artists/abc", token, nil).errorCode())
	assert.Equal(t, "VALIDATION_FAILED", s.do(t, nethttp.MethodPost, "/albums", token, map[string]any{
		"title": "Old", "release_year": 1900, "artist_name": "x",
	}).errorCode())

	req := httptest.NewRequest(nethttp.MethodPost, "/artists", strings.NewReader("{not json"))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	assert.Equal(t, nethttp.StatusBadRequest, s.send(t, req).status)

	unknown := s.do(t, nethttp.MethodGet, "/nowhere", "", nil)
	assert.Equal(t, nethttp.StatusNotFound, unknown.status)
	assert.Equal(t, "NOT_FOUND", unknown.errorCode())
}

func TestRouter_Health(t *testing.T) {
	s := newTestServer(t)

	live := s.do(t, nethttp.MethodGet, "/health/live", "", nil)
	assert.Equal(t, nethttp.StatusOK, live.status)
	assert.Equal(t, "alive", live.body["status"])

	ready := s.do(t, nethttp.MethodGet, "/health/ready", "", nil)
	assert.Equal(t, nethttp.StatusOK, ready.status)
	assert.Equal(t, "ready", ready.body["status"])

	metrics := s.do(t, nethttp.MethodGet, "/health/metrics", "", nil)
	require.Equal(t, nethttp.StatusOK, metrics.status)
	requests := metrics.data()["requests"].(map[string]any)
	assert.EqualValues(t, 1, requests["/health/live|GET|200"])
}

func TestRouter_RegisterRejectsOverlongPassword(t *testing.T) {
	s := newTestServer(t)

	resp := s.do(t, nethttp.MethodPost, "/register", "", map[string]string{
		"username": "alice", "email": "alice@example.com", "password": strings.Repeat("p", 73),
	})
	assert.Equal(t, nethttp.StatusBadRequest, resp.status, resp.body)
	assert.Equal(t, "VALIDATION_FAILED", resp.errorCode())

	// the name stays free once the request is fixed
	s.register(t, "alice")
}

func TestRouter_WhitespaceOnlyNamesRejected(t *testing.T) {
	s := newTestServer(t)
	s.register(t, "alice")
	token := s.login(t, "alice")

	artist := s.do(t, nethttp.MethodPost, "/artists", token, map[string]string{"name": "   ", "genre": "  "})
	assert.Equal(t, nethttp.StatusBadRequest, artist.status, artist.body)
	assert.Equal(t, "VALIDATION_FAILED", artist.errorCode())

	playlist := s.do(t, nethttp.MethodPost, "/playlists", token, map[string]string{"name": "\t"})
	assert.Equal(t, nethttp.StatusBadRequest, playlist.status, playlist.body)
	assert.Equal(t, "VALIDATION_FAILED", playlist.errorCode())

	listed := s.do(t, nethttp.MethodGet, "/artists", token, nil)
	require.Equal(t, nethttp.StatusOK, listed.status)
	assert.Empty(t, listed.list())
}
