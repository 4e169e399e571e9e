package main

import (
	"context"

	"github.com/korcze/korczetube/internal/app"
	"github.com/korcze/korczetube/internal/cache"
	"github.com/korcze/korczetube/internal/config"
	"github.com/korcze/korczetube/internal/db"
	"github.com/korcze/korczetube/internal/logger"
	"github.com/korcze/korczetube/internal/server"
	authsvc "github.com/korcze/korczetube/internal/service/auth"
	"github.com/korcze/korczetube/internal/service/contest"
	"github.com/korcze/korczetube/internal/service/engagement"
	"github.com/korcze/korczetube/internal/service/video"
)

func main() {
	cfg := config.New()

	// Init logger (global singleton)
	logger.InitFromConfig(cfg)
	log := logger.L() // slog.Logger pointer

	// Init DB
	database, err := db.NewDB(cfg)
	if err != nil {
		log.Error("failed to init db", "err", err)
		return
	}

	// Init Redis
	redisCache := cache.NewRedisCache(cfg)
	if err := redisCache.Ping(context.Background()); err != nil {
		log.Error("failed to connect to redis", "err", err)
		return
	}

	// Inject logger into app context
	appCtx := app.New(database, redisCache, log)

	// Default privileged account; idempotent, decoupled from request handling
	if err := db.EnsureAdmin(database, cfg.Admin.Email, cfg.Admin.Name, cfg.Admin.Password); err != nil {
		log.Error("failed to bootstrap admin", "err", err)
		return
	}

	registrars := []server.Registrar{
		authsvc.NewRegistrar(appCtx, cfg),
		video.NewRegistrar(appCtx, cfg),
		engagement.NewRegistrar(appCtx, cfg),
		contest.NewRegistrar(appCtx, cfg),
	}

	if cfg.App.ENV == "development" {
		if err := db.SeedTestData(database); err != nil {
			log.Error("failed to seed", "err", err)
		}
	}

	addr := cfg.HTTP.Host + ":" + cfg.HTTP.Port
	log.Info("starting HTTP server", "addr", addr)

	if err := server.StartHTTPServer(cfg, registrars...); err != nil {
		log.Error("failed to start HTTP server", "err", err)
	}
}
