package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"streamflow/cmd/config"
	"streamflow/pkg/auth"
	"streamflow/pkg/database"
	"streamflow/pkg/handlers"
	"streamflow/pkg/logger"
	"streamflow/pkg/session"
	"streamflow/pkg/storage"
	"streamflow/pkg/store"
)

func newServeCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the dashboard web server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(flags.configPath)
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}
}

func newBackend(cfg *config.Config) (storage.Backend, error) {
	switch cfg.Storage.Driver {
	case config.StorageS3:
		return storage.NewS3(cfg.AWS.Region, cfg.AWS.S3Bucket, cfg.AWS.S3Prefix)
	case config.StorageLocal:
		return storage.NewLocal(cfg.Storage.UploadDir), nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
}

func serve(ctx context.Context, cfg *config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log, err := logger.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		return err
	}
	defer log.Sync()

	db, err := database.OpenAndMigrate(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	files, err := newBackend(cfg)
	if err != nil {
		return err
	}

	sessions := session.NewManager(cfg.Server.SessionTTL, log)
	h := handlers.New(
		store.NewUsers(db),
		store.NewVideos(db, files, log),
		store.NewStreams(db),
		sessions,
		auth.NewTokenManager(cfg.Server.SessionSecret, cfg.Server.SessionTTL),
		log,
		handlers.Options{
			MaxUploadBytes:    cfg.Storage.MaxUploadMB << 20,
			AllowedExtensions: cfg.Storage.AllowedExtensions,
		},
	)

	done := make(chan struct{})
	defer close(done)
	go sessions.Run(time.Minute, done)

	var limiter *handlers.IPRateLimiter
	if cfg.Server.LoginRatePerMinute > 0 {
		limiter = handlers.NewIPRateLimiter(cfg.Server.LoginRatePerMinute, 5, log)
		go limiter.Run(done)
	}

	gin.SetMode(cfg.Server.Mode)
	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           handlers.NewRouter(h, limiter),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening",
			zap.String("addr", cfg.Server.Addr),
			zap.String("database", cfg.Database.Path),
			zap.String("storage", cfg.Storage.Driver))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
