package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/music-collection/internal/api/http/handlers"
	"github.com/spec-kit/music-collection/internal/auth"
	"github.com/spec-kit/music-collection/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Library        *handlers.LibraryHandler
	Admin          *handlers.AdminHandler
	AuthMiddleware *auth.AuthMiddleware
}

// ServerConfig holds what NewServer needs besides the routes.
type ServerConfig struct {
	AppName        string
	RequestTimeout time.Duration
	Logger         *zap.Logger
	Metrics        *observability.Metrics
}

// NewServer builds the fiber app with middlewares and routes registered.
func NewServer(cfg ServerConfig, routes RouteConfig) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               cfg.AppName,
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return renderError(c, cfg.Logger, cfg.Metrics, err)
		},
	})
	RegisterMiddlewares(app, cfg.Logger, cfg.Metrics, cfg.RequestTimeout)
	RegisterRoutes(app, routes)
	return app
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/metrics", cfg.Health.Metrics)

	app.Post("/register", cfg.Users.Register)
	app.Post("/login", cfg.Users.Login)

	requireUser := []fiber.Handler{cfg.AuthMiddleware.Handle, auth.RequireUser()}

	artists := app.Group("/artists", requireUser...)
	artists.Post("/", cfg.Library.CreateArtist)
	artists.Get("/", cfg.Library.ListArtists)
	artists.Get("/:id", cfg.Library.GetArtist)
	artists.Put("/:id", cfg.Library.UpdateArtist)
	artists.Delete("/:id", cfg.Library.DeleteArtist)

	albums := app.Group("/albums", requireUser...)
	albums.Post("/", cfg.Library.CreateAlbum)
	albums.Get("/", cfg.Library.ListAlbums)
	albums.Get("/:id", cfg.Library.GetAlbum)
	albums.Delete("/:id", cfg.Library.DeleteAlbum)

	playlists := app.Group("/playlists", requireUser...)
	playlists.Post("/", cfg.Library.CreatePlaylist)
	playlists.Get("/", cfg.Library.ListPlaylists)
	playlists.Get("/:id", cfg.Library.GetPlaylist)
	playlists.Delete("/:id", cfg.Library.DeletePlaylist)

	admin := app.Group("/admin", cfg.AuthMiddleware.Handle, auth.RequireAdminRole())
	admin.Get("/users", cfg.Admin.ListUsers)
	admin.Delete("/users/:id", cfg.Admin.DeleteUser)
	admin.Put("/users/:id/promote", cfg.Admin.PromoteUser)
	admin.Put("/users/:id/demote", cfg.Admin.DemoteUser)
	admin.Get("/artists", cfg.Admin.ListArtists)
	admin.Delete("/artists/:id", cfg.Admin.DeleteArtist)
	admin.Get("/albums", cfg.Admin.ListAlbums)
	admin.Delete("/albums/:id", cfg.Admin.DeleteAlbum)
	admin.Get("/playlists", cfg.Admin.ListPlaylists)
	admin.Delete("/playlists/:id", cfg.Admin.DeletePlaylist)
}
