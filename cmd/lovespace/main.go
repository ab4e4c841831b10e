package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"lovespace/internal/amqp"
	"lovespace/internal/cli"
	apphttp "lovespace/internal/http"
	"lovespace/internal/imaging"
	applog "lovespace/internal/log"
	"lovespace/internal/services"
	"lovespace/internal/store"
	mem "lovespace/internal/store/memory"
	gsheet "lovespace/internal/store/sheets"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	// Data backend
	var backend store.Store
	switch cfg.DataBackend {
	case "sheets":
		sheetsLog := logger.WithComponent(applog.ComponentSheets)
		client, err := gsheet.NewFromEnv(context.Background())
		if err != nil {
			sheetsLog.Error("Failed to initialize Google Sheets backend", "error", err)
			os.Exit(1)
		}
		backend = client
		sheetsLog.Info("Initialized Google Sheets backend", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	default:
		backend = mem.New()
		logger.Info("Initialized memory backend")
	}

	// AMQP is optional: without it, instances converge via cache TTL.
	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		amqpLog := logger.WithComponent(applog.ComponentAMQP)
		var err error
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			amqpLog.Error("Failed to connect to AMQP, continuing without change notifications", "error", err)
		} else {
			amqpLog.Info("AMQP connected", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	}

	anniversary, err := cfg.Anniversary()
	if err != nil {
		logger.Error("Invalid anniversary date", "error", err)
		os.Exit(1)
	}

	policy := imaging.DefaultPolicy()
	policy.MaxEdge = cfg.PhotoMaxEdge
	policy.TargetEncodedLen = cfg.PhotoMaxEncoded

	space := services.NewSpaceService(backend, cfg.CacheTTL, amqpClient, policy, anniversary)

	// Device settings database; proves the path is writable at startup.
	settings := cli.InitLocalStore(logger, cfg.SQLiteDBPath)
	defer settings.Close()
	if sess, err := settings.LoadSession(context.Background()); err == nil && sess.SecretCode != "" {
		logger.Info("Device is paired", "role", string(sess.Role))
	}

	srv := apphttp.NewServer(":"+cfg.Port, space, settings)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 20 // photo uploads arrive in the body, not headers

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		if err := space.Close(); err != nil {
			logger.Error("Service close error", "error", err)
		}
	})

	// Change notifications from other instances invalidate our cache.
	if amqpClient != nil {
		go func() {
			if err := amqpClient.ConsumeRecordChanges(ctx, space.HandleRecordChange); err != nil && ctx.Err() == nil {
				logger.Error("AMQP consumer stopped", "error", err)
			}
		}()
	}

	logger.Info("Starting lovespace server", "port", cfg.Port, "backend", cfg.DataBackend, "cache_ttl", cfg.CacheTTL.String())
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
