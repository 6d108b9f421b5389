package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ciftci/ciftci-backend/internal/app"
	"github.com/ciftci/ciftci-backend/internal/db"
	"github.com/ciftci/ciftci-backend/internal/scheduler"
	"github.com/ciftci/ciftci-backend/internal/storage"
	ws "github.com/ciftci/ciftci-backend/internal/websocket"
	"github.com/ciftci/ciftci-backend/pkg/logger"
	"github.com/ciftci/ciftci-backend/pkg/redis"
)

const shutdownTimeout = 10 * time.Second

func runMigrate() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		return err
	}
	defer db.Close()

	return db.Migrate()
}

func runServe() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger.Info("Starting Çiftçi Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   cfg.Log.Level,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	if err := db.Migrate(); err != nil {
		return err
	}

	// Redis is optional; without it logout revocation and the stats cache are off
	if cfg.Redis.Enabled {
		if err := redis.Init(&cfg.Redis); err != nil {
			logger.Warn("Continuing without Redis", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			defer redis.Close()
		}
	}

	files, err := storage.New(cfg)
	if err != nil {
		return err
	}

	hub := ws.NewHub()
	go hub.Run()

	application := app.New(cfg, db.GetDB(), files, hub, redis.Default())

	if cfg.Scheduler.Enabled {
		jobs := scheduler.NewMaintenanceScheduler(application.Reviews, application.Notifications, cfg.Scheduler)
		if err := jobs.Start(); err != nil {
			return err
		}
		defer jobs.Stop()
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           application.Engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Server started successfully", map[string]interface{}{
			"address": srv.Addr,
			"pid":     os.Getpid(),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return fmt.Errorf("server failed: %w", err)
	case <-quit:
	}

	logger.Info("Shutting down server gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", err)
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}
