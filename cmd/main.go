// @title Clinica IA API
// @version 1.0
// @description Companion AI service for the optical clinic backend

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @BasePath /
// @schemes http https

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"clinica-ia/internal/app"
	"clinica-ia/internal/config"
	"clinica-ia/internal/database"
	"clinica-ia/internal/logger"
	"clinica-ia/internal/preflight"
)

func main() {
	cfg, envFiles, err := config.Load()
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}

	log := logger.New(cfg.Log)
	if len(envFiles) == 0 {
		log.Debug("no .env file found, using process environment")
	} else {
		log.WithField("files", envFiles).Debug("loaded .env files")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := []app.Option{app.WithLogger(log)}

	var db database.Pinger
	if cfg.IsDatabaseConfigured() {
		pool, err := database.Connect(ctx, cfg)
		if err != nil {
			log.WithError(err).Fatal("database connection failed")
		}
		defer pool.Close()
		db = pool
		opts = append(opts, app.WithDatabase(pool))
	}

	results := preflight.NewChecker(cfg, db, log).RunAll(ctx)
	if preflight.HasFailures(results) {
		log.Fatal("pre-flight checks failed")
	}

	application, err := app.New(cfg, opts...)
	if err != nil {
		log.WithError(err).Fatal("build application")
	}
	srv := application.Server()

	go func() {
		log.WithFields(logrus.Fields{
			"addr":       srv.Addr,
			"env":        cfg.App.Env,
			"model_path": cfg.App.ModelPath,
		}).Info("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("ListenAndServe")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("server shutdown error")
	}
	log.Info("server stopped")
}
