package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/danprasetia/belanja/internal/backup"
	"github.com/danprasetia/belanja/internal/database"
	"github.com/danprasetia/belanja/internal/logging"
	"github.com/danprasetia/belanja/internal/server"
)

func envInt(name string, fallback int) int {
	if v := os.Getenv(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func main() {
	port := os.Getenv("BELANJA_PORT")
	if port == "" {
		port = "8080"
	}

	dbPath := os.Getenv("BELANJA_DB_PATH")
	if dbPath == "" {
		dbPath = "belanja.db"
	}

	logger := logging.Setup(os.Getenv("BELANJA_LOG_LEVEL"), os.Getenv("BELANJA_LOG_FORMAT"))

	db, err := database.Open(dbPath)
	if err != nil {
		logger.Error("open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	backupCfg := backup.Config{
		S3: backup.S3Config{
			Endpoint:  os.Getenv("BELANJA_BACKUP_S3_ENDPOINT"),
			Bucket:    os.Getenv("BELANJA_BACKUP_S3_BUCKET"),
			Region:    os.Getenv("BELANJA_BACKUP_S3_REGION"),
			AccessKey: os.Getenv("BELANJA_BACKUP_S3_ACCESS_KEY"),
			SecretKey: os.Getenv("BELANJA_BACKUP_S3_SECRET_KEY"),
		},
		DBPath:        dbPath,
		Passphrase:    os.Getenv("BELANJA_BACKUP_PASSPHRASE"),
		ScheduleHour:  envInt("BELANJA_BACKUP_HOUR", 3),
		RetentionDays: envInt("BELANJA_BACKUP_RETENTION_DAYS", 30),
	}

	srv := server.New(db, backupCfg, logger)

	srv.BackupManager().Start(context.Background())
	defer srv.BackupManager().Stop()

	// Hourly sweep of expired sessions and stale rate-limit windows.
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			if n, err := srv.SessionStore().DeleteExpired(); err != nil {
				logger.Error("session cleanup", "error", err)
			} else if n > 0 {
				logger.Info("session cleanup", "deleted", n)
			}
			srv.RateLimiter().Cleanup()
		}
	}()

	httpServer := &http.Server{
		Addr:         ":" + port,
		Handler:      srv.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("belanja listening", "port", port, "db", dbPath)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
		os.Exit(1)
	}
}
