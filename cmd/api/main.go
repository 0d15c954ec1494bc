package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	httptransport "github.com/spec-kit/music-collection/internal/api/http"
	"github.com/spec-kit/music-collection/internal/api/http/handlers"
	"github.com/spec-kit/music-collection/internal/auth"
	"github.com/spec-kit/music-collection/internal/config"
	"github.com/spec-kit/music-collection/internal/events"
	"github.com/spec-kit/music-collection/internal/observability"
	"github.com/spec-kit/music-collection/internal/persistence"
	"github.com/spec-kit/music-collection/internal/repository"
	"github.com/spec-kit/music-collection/internal/repository/memstore"
	"github.com/spec-kit/music-collection/internal/service"
	"github.com/spec-kit/music-collection/internal/worker"
)

type repositories struct {
	users     repository.UserRepository
	artists   repository.ArtistRepository
	albums    repository.AlbumRepository
	playlists repository.PlaylistRepository
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	var redis *persistence.Redis
	if cfg.Redis.Enabled {
		redis = persistence.NewRedis(ctx, cfg.Redis, logger)
		defer redis.Close()
	}

	repos := buildRepositories(pg, logger)

	dispatcher := events.NewInMemoryDispatcher()
	worker.StartNotificationWorker(dispatcher, redis.Publisher(), cfg.Events.RedisChannel, logger)

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo:   repos.users,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	adminService := service.NewAdminService(repos.users, dispatcher, logger)
	libraryService := service.NewLibraryService(service.LibraryDependencies{
		ArtistRepo:   repos.artists,
		AlbumRepo:    repos.albums,
		PlaylistRepo: repos.playlists,
	})

	resolver := auth.NewResolver(authService.TokenManager(), repos.users)
	metrics := observability.NewMetrics()

	app := httptransport.NewServer(httptransport.ServerConfig{
		AppName:        cfg.App.Name,
		RequestTimeout: cfg.App.RequestTimeout(),
		Logger:         logger,
		Metrics:        metrics,
	}, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis, metrics),
		Users:          handlers.NewUsersHandler(authService),
		Library:        handlers.NewLibraryHandler(libraryService),
		Admin:          handlers.NewAdminHandler(adminService, libraryService),
		AuthMiddleware: auth.NewAuthMiddleware(resolver),
	})

	go func() {
		logger.Info("listening", zap.String("addr", cfg.App.Addr()), zap.String("env", cfg.App.Env))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
}

func buildRepositories(pg *persistence.Postgres, logger *zap.Logger) repositories {
	if !pg.Configured() {
		logger.Warn("using in-memory store; data is lost on restart")
		store := memstore.New()
		return repositories{
			users:     store.Users(),
			artists:   store.Artists(),
			albums:    store.Albums(),
			playlists: store.Playlists(),
		}
	}
	pool := pg.PoolHandle()
	return repositories{
		users:     repository.NewUserRepository(pool),
		artists:   repository.NewArtistRepository(pool),
		albums:    repository.NewAlbumRepository(pool),
		playlists: repository.NewPlaylistRepository(pool),
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
