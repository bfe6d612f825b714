package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rentora_backend/internal/billing"
	"rentora_backend/internal/email"
	"rentora_backend/internal/leases/repository"
	"rentora_backend/internal/ops"
	"rentora_backend/internal/reconciler"
	"rentora_backend/internal/scheduler"
	"rentora_backend/internal/storage"
	"rentora_backend/platform/config"
	"rentora_backend/platform/db"
	"rentora_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting lease reconciler", "env", cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	if err := db.RunMigrations(ctx, cfg); err != nil {
		log.Error("failed to run migrations", "error", err)
		panic("failed to run migrations: " + err.Error())
	}

	repo := repository.New(pool)

	var docs reconciler.DocumentStore
	if cfg.IsMinIOEnabled() {
		docStorage, err := storage.NewDocumentStorage(cfg)
		if err != nil {
			log.Error("failed to initialize document storage", "error", err)
			panic("failed to initialize document storage: " + err.Error())
		}
		if err := docStorage.EnsureBucketExists(ctx); err != nil {
			log.Error("failed to ensure lease documents bucket", "error", err)
			panic("failed to ensure lease documents bucket: " + err.Error())
		}
		docs = docStorage
	} else {
		log.Warn("MinIO not configured, orphaned document objects will not be cleaned up")
	}

	engine := reconciler.NewEngine(repo, docs, log,
		cfg.GetReconcileInterval(), cfg.GetReconcileCooldown())

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		engine.Run(ctx)
		return nil
	})

	opsServer := ops.NewServer(cfg, engine, pool, log)
	g.Go(func() error {
		return opsServer.Run(ctx)
	})

	billingGen := billing.NewGenerator(cfg, billing.New(pool), log)
	g.Go(func() error {
		billingGen.Run(ctx)
		return nil
	})

	if cfg.GetRedisURL() != "" && cfg.GetEmailEnabled() {
		client, err := scheduler.NewClient(cfg)
		if err != nil {
			log.Error("failed to initialize task client", "error", err)
			panic("failed to initialize task client: " + err.Error())
		}
		defer func() { _ = client.Close() }()

		scanner := scheduler.NewExpiryReminderScanner(cfg, repo, client, log)
		g.Go(func() error {
			scanner.Run(ctx)
			return nil
		})

		sender := email.NewSMTPSender(
			cfg.GetSMTPHost(), cfg.GetSMTPPort(),
			cfg.GetSMTPUsername(), cfg.GetSMTPPassword(),
			cfg.GetEmailFromAddress(), cfg.GetEmailFromName())

		worker, err := scheduler.NewWorker(cfg, cfg, pool, sender, log)
		if err != nil {
			log.Error("failed to initialize reminder worker", "error", err)
			panic("failed to initialize reminder worker: " + err.Error())
		}
		g.Go(func() error {
			worker.Run(ctx)
			return nil
		})
	} else {
		log.Warn("expiry reminders disabled", "redisConfigured", cfg.GetRedisURL() != "", "emailEnabled", cfg.GetEmailEnabled())
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("reconciler stopped", "error", err)
		os.Exit(1)
	}

	log.Info("reconciler shut down cleanly")
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return errors.New(name + ": invalid retry attempts")
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
