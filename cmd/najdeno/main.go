package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/erazemk/najdeno/internal/api"
	"github.com/erazemk/najdeno/internal/db"
	"github.com/erazemk/najdeno/internal/identity"
	"github.com/erazemk/najdeno/internal/media"
	"github.com/erazemk/najdeno/internal/service"
	"github.com/erazemk/najdeno/internal/store"
)

func main() {
	cfg, err := parseConfig(os.Args[1:], os.Getenv)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	// Set up structured logging: INFO/WARN → stdout, ERROR → stderr.
	// Optionally also write to a log file.
	closeLog, err := setupLogger(cfg.logPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if closeLog != nil {
		defer closeLog()
	}

	if err := run(cfg); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config) error {
	ctx := context.Background()

	database, err := db.Open(cfg.dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Ensure schema exists (idempotent).
	if err := db.EnsureSchema(database); err != nil {
		return fmt.Errorf("ensuring database schema: %w", err)
	}
	slog.Info("database ready", "path", cfg.dbPath)

	// Load signing key from database (auto-generated on first run).
	secret, err := store.SigningKey(ctx, database)
	if err != nil {
		return fmt.Errorf("loading signing key: %w", err)
	}

	provider := &identity.Provider{DB: database, Secret: secret}
	accountStore := &store.Accounts{DB: database}

	created, password, err := bootstrapAdmin(ctx, provider, accountStore, cfg.adminEmail)
	if err != nil {
		return fmt.Errorf("bootstrapping admin: %w", err)
	}
	if created {
		printAdminCredentials(cfg.adminEmail, password)
	}

	blobStore, blobs, err := openMedia(ctx, cfg)
	if err != nil {
		return err
	}

	accounts := &service.AccountService{Identity: provider, Accounts: accountStore, Domain: cfg.domain}
	items := &service.ItemService{
		Items:   &store.Items{DB: database},
		Uploads: &store.Uploads{DB: database},
		Media:   blobStore,
	}

	handler := api.LoggingMiddleware(api.NewRouter(accounts, items, blobs))

	server := &http.Server{
		Addr:              cfg.addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-quit
		slog.Info("shutdown signal received", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			slog.Error("server forced to shutdown", "error", err)
		}
	}()

	slog.Info("server started", "addr", cfg.addr, "domain", cfg.domain)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}

	slog.Info("server stopped, closing database")
	return nil
}

// openMedia picks the blob store: a bucket when one is configured, the
// local directory otherwise. blobs is nil when the bucket serves reads.
func openMedia(ctx context.Context, cfg *config) (media.Store, api.BlobServer, error) {
	if cfg.s3Bucket != "" {
		s3Store, err := media.NewS3Store(ctx, media.S3Options{
			Region:   cfg.s3Region,
			Bucket:   cfg.s3Bucket,
			Endpoint: cfg.s3Endpoint,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to media bucket: %w", err)
		}
		slog.Info("media store ready", "bucket", cfg.s3Bucket, "base_url", s3Store.BaseURL)
		return s3Store, nil, nil
	}

	fsStore, err := media.NewFSStore(cfg.mediaDir, strings.TrimSuffix(cfg.publicURL, "/")+"/media")
	if err != nil {
		return nil, nil, fmt.Errorf("opening media directory: %w", err)
	}
	slog.Info("media store ready", "dir", cfg.mediaDir, "base_url", fsStore.BaseURL)
	return fsStore, fsStore, nil
}
