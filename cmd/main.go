package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"campus_lost_found/internal/config"
	"campus_lost_found/internal/handlers"
	"campus_lost_found/internal/logger"
	"campus_lost_found/internal/repository"
	sqlitedb "campus_lost_found/internal/repository/db"
	"campus_lost_found/internal/server"
	"campus_lost_found/internal/service"
	"campus_lost_found/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

const shutdownTimeout = 10 * time.Second

// @title        Campus Lost & Found
// @version      1.0
// @description  Server-rendered bulletin board for lost and found items on campus.
// @BasePath     /
func main() {
	// init logger
	log := logger.Get(logger.InfoLevel)

	// .env is optional; real environment variables win
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warnw("error reading .env", "err", err)
	}

	// load configs/config.yml + LAF_* overrides
	cfg, err := config.Load()
	if err != nil {
		log.Fatalw("error reading config", "err", err)
	}
	log.SetLevel(cfg.Log.Level)
	if cfg.Log.Level != logger.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}
	if cfg.UsesDefaultSecret() {
		log.Warnw("session.secret is the built-in default; set LAF_SESSION_SECRET before deploying")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// open DB and migrate
	db, err := sqlitedb.InitDB(ctx, cfg.DB.Path, log)
	if err != nil {
		log.Fatalw("failed to init sqlite", "path", cfg.DB.Path, "err", err)
	}
	defer closeDB(db, log)

	repos := repository.NewRepository(db)
	if cfg.Seed.Demo {
		if err := repos.SeedDemo(ctx, service.HashPassword); err != nil {
			log.Fatalw("failed to seed demo data", "err", err)
		}
	}

	uploads, err := storage.NewOS(cfg.Uploads.Dir, cfg.Uploads.AllowedExt)
	if err != nil {
		log.Fatalw("failed to prepare upload dir", "dir", cfg.Uploads.Dir, "err", err)
	}

	// wire dependencies
	services := service.NewService(repos, uploads, service.SessionConfig{
		Secret: cfg.Session.Secret,
		TTL:    cfg.Session.TTL,
	}, log)
	webHandler := handlers.NewHandler(services, uploads, log, handlers.Options{
		MaxBodyBytes: cfg.Uploads.MaxBytes,
		SessionTTL:   cfg.Session.TTL,
		SecureCookie: cfg.Session.Secure,
	})

	// start HTTP server
	srv := &server.Server{}
	runHTTPServer(srv, cfg.Port, webHandler, log)

	// graceful shutdown
	waitForShutdown(cancel, srv, log)
}

func closeDB(db *sql.DB, log *logger.Logger) {
	if err := db.Close(); err != nil {
		log.Errorw("failed to close sqlite", "err", err)
	}
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		log.Infow("http server listening", "port", port)
		if err := srv.Run(port, handler.InitRoutes()); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")
	cancel()

	// allow in-flight requests to complete
	ctx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}
}
