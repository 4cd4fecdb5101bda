package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bailbridge-backend/bootstrap"
	"bailbridge-backend/config"
	"bailbridge-backend/handlers"
	"bailbridge-backend/storage"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		log.Fatalf("server: %v", err)
	}
}

func run() error {
	hasDotEnv := config.LoadDotEnv()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := config.InitLogger(cfg.Log); err != nil {
		return err
	}
	defer zap.L().Sync() //nolint:errcheck

	if !hasDotEnv {
		zap.L().Debug("no .env file found, using environment variables")
	}
	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, closeAll, err := bootstrap.NewSuggestionService(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeAll()

	routerCfg := handlers.RouterConfig{
		Suggester:      svc,
		RateLimitRPS:   cfg.Server.RateLimitRPS,
		RateLimitBurst: cfg.Server.RateLimitBurst,
		CORSOrigins:    cfg.Server.CORSOrigins,
		DatasetKey:     cfg.Reference.ObjectKey,
		AdminToken:     cfg.Server.AdminToken,
	}
	if cfg.Server.AdminToken != "" {
		store, err := storage.NewStorage(ctx, cfg.Storage)
		if err != nil {
			return err
		}
		routerCfg.DatasetStore = store
		zap.L().Info("dataset management routes enabled", zap.String("storage", string(cfg.Storage.Type)))
	}
	router := handlers.NewRouter(routerCfg)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		zap.L().Info("server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	zap.L().Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
