package main

import (
	"log"

	_ "time/tzdata"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/scoutlens/scoutlens/internal/api"
	"github.com/scoutlens/scoutlens/internal/auth"
	"github.com/scoutlens/scoutlens/internal/config"
	dbpkg "github.com/scoutlens/scoutlens/internal/db"
	"github.com/scoutlens/scoutlens/internal/matches"
	"github.com/scoutlens/scoutlens/internal/notes"
	"github.com/scoutlens/scoutlens/internal/players"
	"github.com/scoutlens/scoutlens/internal/reports"
	"github.com/scoutlens/scoutlens/internal/shortlists"
	"github.com/scoutlens/scoutlens/internal/teams"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	zl, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()
	logger := zl.Sugar()

	sqlDB, err := dbpkg.Open(cfg.DBPath)
	if err != nil {
		logger.Fatalw("open db", "path", cfg.DBPath, "err", err)
	}
	defer sqlDB.Close()

	if err := dbpkg.Migrate(sqlDB); err != nil {
		logger.Fatalw("migrate", "err", err)
	}

	r := gin.New()
	r.Use(gin.Recovery(), api.RequestLogger(logger))
	if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		logger.Fatalw("trusted proxies", "err", err)
	}

	authRepo := auth.NewRepository(sqlDB)
	auth.RegisterRoutes(r, authRepo, auth.Config{
		SessionTTL:   cfg.SessionTTL,
		CookieSecure: cfg.CookieSecure,
	})
	protect := auth.Required(authRepo)

	teams.RegisterRoutes(r, teams.NewRepository(sqlDB), protect)
	players.RegisterRoutes(r, players.NewRepository(sqlDB), protect)
	matches.RegisterRoutes(r, matches.NewRepository(sqlDB), protect)
	reports.RegisterRoutes(r, reports.NewRepository(sqlDB), protect)
	shortlists.RegisterRoutes(r, shortlists.NewRepository(sqlDB), protect)
	notes.RegisterRoutes(r, notes.NewRepository(sqlDB), protect)

	logger.Infow("listening", "addr", cfg.Addr)
	if err := r.Run(cfg.Addr); err != nil {
		logger.Fatalw("serve", "err", err)
	}
}
