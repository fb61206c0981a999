package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/maajidpp/linkza/internal/auth"
	"github.com/maajidpp/linkza/internal/config"
	"github.com/maajidpp/linkza/internal/mongo"
	"github.com/maajidpp/linkza/internal/server"
	"github.com/maajidpp/linkza/pkg/cache"
	"github.com/maajidpp/linkza/pkg/preview"
	"github.com/maajidpp/linkza/pkg/session"
)

// serveCommand runs the layout API server.
func (c *CLI) serveCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the layout API server",
		Long: `Serve the HTTP API: layout fetch and save, link previews, credential
auth with revocable sessions, and admin user management. Redis is optional;
without it sessions, rate limiting, and the preview cache fall back to
in-process backends suitable for a single instance.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), configPath)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to TOML config file (default linkza.toml if present)")
	return cmd
}

func (c *CLI) runServe(ctx context.Context, configPath string) error {
	logger := c.Logger
	ctx = withLogger(ctx, logger)

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	db, err := mongo.Connect(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(context.Background()); err != nil {
			logger.Warn("closing mongodb", "err", err)
		}
	}()
	logger.Info("connected to mongodb", "database", cfg.Mongo.Database)

	sessions, previewCache, limiter := c.backends(cfg)
	defer sessions.Close()
	defer previewCache.Close()

	srv := server.New(server.Options{
		Users:    db.Users,
		Layouts:  db.Layouts,
		Sessions: sessions,
		Tokens:   auth.NewTokens(cfg.Auth.JWTSecret, cfg.Auth.SessionTTL.Duration),
		Scraper:  preview.NewScraper(previewCache),
		Limiter:  limiter,
		Logger:   logger,
	})

	httpSrv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      srv.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout.Duration,
		WriteTimeout: cfg.Server.WriteTimeout.Duration,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.Server.Addr)
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return ignoreServerClosed(err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout.Duration)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return ctx.Err()
}

// backends selects redis-backed or in-process collaborators depending on
// configuration.
func (c *CLI) backends(cfg *config.Config) (session.Store, cache.Cache, server.Limiter) {
	if cfg.Redis.Addr == "" {
		c.Logger.Info("redis not configured, using in-process backends")
		return session.NewMemoryStore(), cache.NewMemoryCache(),
			server.NewMemoryLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window.Duration)
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		c.Logger.Warn("redis unreachable, using in-process backends", "err", err)
		_ = client.Close()
		return session.NewMemoryStore(), cache.NewMemoryCache(),
			server.NewMemoryLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window.Duration)
	}

	c.Logger.Info("connected to redis", "addr", cfg.Redis.Addr)
	return session.NewRedisStore(client), cache.NewRedisCache(client),
		server.NewRedisLimiter(client, cfg.RateLimit.Requests, cfg.RateLimit.Window.Duration)
}

// ignoreServerClosed filters the error http.Server returns on a clean
// shutdown.
func ignoreServerClosed(err error) error {
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
