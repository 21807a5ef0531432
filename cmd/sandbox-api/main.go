package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/tutorhub/internal/repository"
	"github.com/noah-isme/tutorhub/internal/sandbox"
	"github.com/noah-isme/tutorhub/internal/server"
	"github.com/noah-isme/tutorhub/internal/service"
	"github.com/noah-isme/tutorhub/pkg/config"
	"github.com/noah-isme/tutorhub/pkg/database"
	"github.com/noah-isme/tutorhub/pkg/logger"
)

// @title Tutorhub Sandbox API
// @version 0.1.0
// @description Local backend for the tutoring school attendance client
// @BasePath /
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg, "sandbox-api")
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()
	store, err := openStore(ctx, cfg, logr)
	if err != nil {
		logr.Sugar().Fatalw("store init failed", "error", err, "store", cfg.Sandbox.Store)
	}

	r := server.New(store, server.Options{
		Auth: sandbox.AuthConfig{
			Secret: cfg.Sandbox.JWT.Secret,
			Expiry: cfg.Sandbox.JWT.Expiration,
			Issuer: cfg.Sandbox.JWT.Issuer,
		},
		Location:       cfg.Location(),
		Logger:         logr,
		Metrics:        service.NewMetricsService(),
		AllowedOrigins: cfg.Sandbox.AllowedOrigins,
		EnableDocs:     cfg.Sandbox.EnableDocs && cfg.Env != config.EnvProduction,
	})

	addr := fmt.Sprintf(":%d", cfg.Sandbox.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "store", cfg.Sandbox.Store)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

func openStore(ctx context.Context, cfg *config.Config, logr *zap.Logger) (server.Store, error) {
	if cfg.Sandbox.Store == config.StorePostgres {
		db, err := database.NewPostgres(ctx, cfg.Sandbox.Database)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := repository.Migrate(ctx, db); err != nil {
			return nil, err
		}
		return repository.NewPostgresStore(db), nil
	}

	store := repository.NewMemoryStore()
	if cfg.Sandbox.SeedDemo {
		if err := repository.SeedDemo(store, time.Now().In(cfg.Location())); err != nil {
			return nil, fmt.Errorf("seed demo data: %w", err)
		}
		logr.Info("demo data seeded", zap.String("password", repository.DemoPassword))
	}
	return store, nil
}
