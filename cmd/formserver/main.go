// cmd/formserver/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/thanhbinhkd95/Form-To-PDF/internal/common/config"
	"github.com/thanhbinhkd95/Form-To-PDF/internal/common/database"
	commonhttp "github.com/thanhbinhkd95/Form-To-PDF/internal/common/http"
	"github.com/thanhbinhkd95/Form-To-PDF/internal/common/logger"
	"github.com/thanhbinhkd95/Form-To-PDF/internal/common/observability"
	"github.com/thanhbinhkd95/Form-To-PDF/internal/delivery/email"
	"github.com/thanhbinhkd95/Form-To-PDF/internal/delivery/storage"
	"github.com/thanhbinhkd95/Form-To-PDF/internal/document"
	"github.com/thanhbinhkd95/Form-To-PDF/internal/form"
	"github.com/thanhbinhkd95/Form-To-PDF/internal/packaging"
	"github.com/thanhbinhkd95/Form-To-PDF/internal/persistence"
	"github.com/thanhbinhkd95/Form-To-PDF/internal/server"
	"github.com/thanhbinhkd95/Form-To-PDF/internal/submissions"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	configPath := pflag.String("config", "", "path to config file (default: search ./configs)")
	pflag.Parse()

	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	// Wrap zap logger with our logger interface
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting form server...")

	var cfg *config.Config
	var err error
	if *configPath != "" {
		cfg, err = config.LoadFromFile(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	obs := observability.New("form-to-pdf")
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init Redis with retry ---
	var redis *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redis, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		// Test the connection with context
		return redis.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")

	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redis.Close()
	zapLog.Info("Redis connected successfully")

	// --- Draft persistence + application state ---
	draftTTL := time.Duration(cfg.Persistence.TTLHours) * time.Hour
	persister, err := persistence.NewStore(redis, log, cfg.Persistence.Key, draftTTL)
	if err != nil {
		zapLog.Fatal("draft store init failed", zap.Error(err))
	}

	store := form.NewStore(ctx, persister, config.GetDuration(cfg.Persistence.DebounceMs), log)
	defer store.Close()

	// --- Document assembly pipeline ---
	assembler, err := document.NewAssembler(cfg.Document, log, obs)
	if err != nil {
		zapLog.Fatal("document assembler init failed", zap.Error(err))
	}

	packager := packaging.NewPackager(assembler, commonhttp.NewClient(30*time.Second), log)

	// --- Object storage upload ---
	uploader, err := storage.NewS3Uploader(ctx, cfg.Storage, log)
	if err != nil {
		zapLog.Fatal("storage uploader init failed", zap.Error(err))
	}
	zapLog.Info("Storage uploader initialized", zap.String("bucket", cfg.Storage.Bucket))

	// --- Email dispatch (optional) ---
	var sender email.Sender
	if cfg.Email.Enabled {
		sesSender, err := email.NewSESSender(ctx, cfg.Email, uploader, log)
		if err != nil {
			zapLog.Fatal("email sender init failed", zap.Error(err))
		}
		sender = sesSender
		zapLog.Info("Email sender initialized", zap.String("from", cfg.Email.FromEmail))
	} else {
		zapLog.Info("Email delivery disabled")
	}

	// --- Submission records (optional, requires PostgreSQL) ---
	var recorder server.Recorder
	if cfg.Database.Postgres.Host != "" {
		var pg *database.PostgresClient
		err = retryWithBackoff(func() error {
			var err error
			pg, err = database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			// Test the connection with context
			return pg.Ping(ctx)
		}, 15, 2*time.Second, zapLog, "PostgreSQL connection")

		if err != nil {
			zapLog.Fatal("postgres failed after retries", zap.Error(err))
		}
		defer pg.Close()
		recorder = submissions.NewRecorder(pg.DB, log)
		zapLog.Info("PostgreSQL connected successfully")
	} else {
		zapLog.Info("Submission records disabled (no postgres host configured)")
	}

	// --- HTTP Server ---
	srv := server.New(cfg.Server, cfg.Email, store, assembler, packager, uploader, sender, recorder, log)

	httpSrv := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      srv.Handler(),
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
	}

	go func() {
		zapLog.Info("HTTP server listening", zap.String("address", cfg.Server.Address))
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("HTTP server shutdown failed", zap.Error(err))
	}

	// Flush any pending draft write before the redis connection closes.
	store.Flush()

	zapLog.Info("Form server stopped gracefully")
}
