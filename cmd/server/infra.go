package main

import (
	"context"
	"fmt"
	"time"

	"github.com/nizy/tailor/internal/domain/printing"
	"github.com/nizy/tailor/internal/infrastructure/auth"
	"github.com/nizy/tailor/internal/infrastructure/cache"
	"github.com/nizy/tailor/internal/infrastructure/config"
	infra "github.com/nizy/tailor/internal/infrastructure/printing"
	"github.com/nizy/tailor/internal/infrastructure/scheduler"
	"github.com/nizy/tailor/internal/infrastructure/storage"
	"github.com/nizy/tailor/internal/interfaces/http/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func newRedisClient(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	return cache.NewRedisClient(ctx, cfg.Redis)
}

// newRevocationList shares revocations through Redis when a client is given
func newRevocationList(client *redis.Client) auth.RevocationList {
	if client == nil {
		return auth.NewMemoryRevocationList()
	}
	return auth.NewRedisRevocationList(client)
}

// newSubmissionStore shares Idempotency-Key claims through Redis when a
// client is given. The returned func releases the in-memory store.
func newSubmissionStore(client *redis.Client) (middleware.SubmissionStore, func()) {
	if client == nil {
		store := cache.NewInMemoryIdempotencyStore()
		return store, func() { _ = store.Close() }
	}
	return cache.NewRedisIdempotencyStore(client, cache.DefaultIdempotencyPrefix), func() {}
}

func newRenderer(cfg *config.Config, log *zap.Logger) infra.PDFRenderer {
	if cfg.Export.Renderer == config.RendererGotenberg {
		log.Info("PDF renderer: gotenberg", zap.String("url", cfg.Export.GotenbergURL))
		return infra.NewGotenbergRenderer(&infra.GotenbergConfig{
			URL:            cfg.Export.GotenbergURL,
			DefaultTimeout: cfg.Export.Timeout,
			Logger:         log,
		})
	}
	log.Info("PDF renderer: chromedp", zap.Bool("remote", cfg.Export.ChromeRemoteURL != ""))
	return infra.NewChromedpRenderer(&infra.ChromedpConfig{
		DefaultTimeout: cfg.Export.Timeout,
		RemoteURL:      cfg.Export.ChromeRemoteURL,
		NoSandbox:      cfg.Export.ChromeNoSandbox,
		Logger:         log,
	})
}

type archiveSetup struct {
	store   printing.DocumentArchive
	sweeper *scheduler.ArchiveSweeper
}

// newArchive builds the configured document archive and, when retention is
// set, the sweeper that prunes it
func newArchive(ctx context.Context, cfg *config.Config, log *zap.Logger) (archiveSetup, error) {
	retention := time.Duration(cfg.Export.RetentionDays) * 24 * time.Hour
	withSweeper := func(store printing.DocumentArchive, cleaner scheduler.ArchiveCleaner) (archiveSetup, error) {
		setup := archiveSetup{store: store}
		if retention <= 0 {
			return setup, nil
		}
		var err error
		setup.sweeper, err = scheduler.NewArchiveSweeper(scheduler.DefaultSweeperConfig(retention), cleaner, log)
		return setup, err
	}

	switch cfg.Export.Archive {
	case config.ArchiveFileSystem:
		fs, err := infra.NewFileSystemStorage(&infra.FileSystemStorageConfig{
			BasePath: cfg.Export.ArchiveDir,
			Logger:   log,
		})
		if err != nil {
			return archiveSetup{}, err
		}
		log.Info("Document archive: file system", zap.String("dir", cfg.Export.ArchiveDir))
		return withSweeper(fs, fs)

	case config.ArchiveS3:
		store, err := storage.NewS3DocumentStore(&cfg.Storage, storage.WithLogger(log))
		if err != nil {
			return archiveSetup{}, err
		}
		if err := store.EnsureBucket(ctx); err != nil {
			return archiveSetup{}, fmt.Errorf("failed to prepare bucket %q: %w", store.Bucket(), err)
		}
		log.Info("Document archive: s3", zap.String("bucket", store.Bucket()))
		return withSweeper(store, store)

	default:
		return archiveSetup{}, nil
	}
}
