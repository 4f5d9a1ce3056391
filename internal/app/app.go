package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/storylabhq/storylab-backend/internal/adapter/blob"
	"github.com/storylabhq/storylab-backend/internal/adapter/postgres"
	chapterrepo "github.com/storylabhq/storylab-backend/internal/adapter/postgres/chapter"
	characterrepo "github.com/storylabhq/storylab-backend/internal/adapter/postgres/character"
	noterepo "github.com/storylabhq/storylab-backend/internal/adapter/postgres/note"
	profilerepo "github.com/storylabhq/storylab-backend/internal/adapter/postgres/profile"
	storyrepo "github.com/storylabhq/storylab-backend/internal/adapter/postgres/story"
	tokenrepo "github.com/storylabhq/storylab-backend/internal/adapter/postgres/token"
	userrepo "github.com/storylabhq/storylab-backend/internal/adapter/postgres/user"
	"github.com/storylabhq/storylab-backend/internal/auth"
	"github.com/storylabhq/storylab-backend/internal/config"
	"github.com/storylabhq/storylab-backend/internal/editor"
	authsvc "github.com/storylabhq/storylab-backend/internal/service/auth"
	"github.com/storylabhq/storylab-backend/internal/store"
	"github.com/storylabhq/storylab-backend/internal/transport/middleware"
	"github.com/storylabhq/storylab-backend/internal/transport/rest"
)

// Run is the application entry point. It loads configuration, connects to
// Postgres, wires repositories, services and registries into the HTTP
// handlers, and serves until the context is cancelled.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	users := userrepo.New(pool)
	profiles := profilerepo.New(pool)
	tokens := tokenrepo.New(pool)
	stories := storyrepo.New(pool)
	chapters := chapterrepo.New(pool)
	characters := characterrepo.New(pool)
	notes := noterepo.New(pool)

	txManager := postgres.NewTxManager(pool)
	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AccessTokenTTL)

	stores := store.NewRegistry(logger, store.Gateways{
		Stories:    stories,
		Chapters:   chapters,
		Characters: characters,
		Notes:      notes,
	})
	editors := editor.NewRegistry(logger, cfg.Editor)

	authService := authsvc.NewService(logger, users, profiles, tokens, txManager, jwtManager, cfg.Auth, stores, editors)

	covers, err := blob.NewCoverStore(cfg.Uploads)
	if err != nil {
		return err
	}

	mux := rest.NewRouter(rest.Handlers{
		Auth:          rest.NewAuthHandler(authService, logger),
		Health:        rest.NewHealthHandler(pool, BuildVersion()),
		Stories:       rest.NewStoriesHandler(stores, logger),
		Editor:        rest.NewEditorHandler(stores, editors, logger),
		Characters:    rest.NewCharactersHandler(stores, logger),
		Notes:         rest.NewNotesHandler(stores, logger),
		Stats:         rest.NewStatsHandler(stores, logger),
		Profile:       rest.NewProfileHandler(profiles, logger),
		Uploads:       rest.NewUploadsHandler(stores, covers, logger),
		Notifications: rest.NewNotificationsHandler(stores, logger),
		UploadsDir:    cfg.Uploads.Dir,
	})

	rateLimiter := middleware.NewRateLimiter(time.Minute)
	defer rateLimiter.Stop()

	handler := middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID,
		middleware.Logger(logger),
		middleware.CORS(cfg.CORS),
		rateLimiter.Limit(cfg.Server.RateLimitPerMin),
		middleware.Auth(authService),
	)(mux)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go pruneEditorSessions(ctx, editors, cfg.Editor.SessionTTL)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// pruneEditorSessions evicts idle editor sessions on a fixed cadence until
// the context is cancelled.
func pruneEditorSessions(ctx context.Context, editors *editor.Registry, ttl time.Duration) {
	interval := ttl / 4
	if interval < time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			editors.Prune()
		}
	}
}
