package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pribylovaa/go-iso-board/internal/ai/gemini"
	"github.com/pribylovaa/go-iso-board/internal/cache"
	"github.com/pribylovaa/go-iso-board/internal/config"
	"github.com/pribylovaa/go-iso-board/internal/service"
	"github.com/pribylovaa/go-iso-board/internal/storage"
	"github.com/pribylovaa/go-iso-board/internal/storage/memory"
	"github.com/pribylovaa/go-iso-board/internal/storage/minio"
	"github.com/pribylovaa/go-iso-board/internal/storage/mongo"
	"github.com/pribylovaa/go-iso-board/internal/storage/postgres"
)

// connectTimeout — время на подключение к каждому бэкенду при старте.
const connectTimeout = 10 * time.Second

// backends — выбранные по конфигу хранилища и внешние клиенты.
type backends struct {
	stores    service.Stores
	insights  storage.InsightCache
	generator service.Generator

	// checks — проверки готовности для /healthz.
	checks map[string]func(context.Context) error
	// closers выполняются в обратном порядке.
	closers []func(context.Context)
}

// openBackends подключает бэкенды. Всё, что не настроено, живёт в памяти процесса.
func openBackends(ctx context.Context, cfg *config.Config, log *slog.Logger) (_ *backends, err error) {
	mem := memory.New(cfg.Images)

	b := &backends{
		stores: service.Stores{
			Listings: mem,
			Users:    mem,
			Threads:  mem,
			Images:   mem,
			Sessions: mem,
			Drafts:   mem,
		},
		insights: mem,
		checks:   map[string]func(context.Context) error{},
	}

	defer func() {
		if err != nil {
			b.close(context.Background())
		}
	}()

	if cfg.Storage.Listings == config.DriverPostgres {
		cctx, cancel := context.WithTimeout(ctx, connectTimeout)
		pg, err := postgres.New(cctx, cfg.DB.URL)
		cancel()
		if err != nil {
			return nil, fmt.Errorf("postgres: %w", err)
		}

		b.stores.Listings, b.stores.Users = pg, pg
		b.checks["postgres"] = pg.Ping
		b.closers = append(b.closers, func(context.Context) { pg.Close() })
		log.Info("postgres_connected")
	}

	if cfg.Storage.Threads == config.DriverMongo {
		cctx, cancel := context.WithTimeout(ctx, connectTimeout)
		mg, err := mongo.New(cctx, cfg.Mongo)
		cancel()
		if err != nil {
			return nil, fmt.Errorf("mongo: %w", err)
		}

		b.stores.Threads = mg
		b.checks["mongo"] = mg.Ping
		b.closers = append(b.closers, func(ctx context.Context) {
			if err := mg.Close(ctx); err != nil {
				log.Warn("mongo_close_failed", slog.String("err", err.Error()))
			}
		})
		log.Info("mongo_connected")
	}

	if cfg.Redis.URL != "" {
		cctx, cancel := context.WithTimeout(ctx, connectTimeout)
		rc, err := cache.New(cctx, cfg.Redis.URL, cfg.Redis.Prefix)
		cancel()
		if err != nil {
			return nil, fmt.Errorf("redis: %w", err)
		}

		b.stores.Sessions, b.insights = rc, rc
		b.checks["redis"] = rc.Ping
		b.closers = append(b.closers, func(context.Context) {
			if err := rc.Close(); err != nil {
				log.Warn("redis_close_failed", slog.String("err", err.Error()))
			}
		})
		log.Info("redis_connected")
	}

	if cfg.S3.Endpoint != "" {
		cctx, cancel := context.WithTimeout(ctx, connectTimeout)
		img, err := minio.New(cctx, cfg.S3, cfg.Images)
		cancel()
		if err != nil {
			return nil, fmt.Errorf("minio: %w", err)
		}

		b.stores.Images = img
		log.Info("minio_connected", slog.String("bucket", cfg.S3.Bucket))
	}

	if cfg.AI.APIKey == "" {
		log.Warn("ai_disabled", slog.String("reason", "ai.api_key is empty"))
		return b, nil
	}

	gen, err := gemini.New(ctx, cfg.AI)
	if err != nil {
		return nil, fmt.Errorf("gemini: %w", err)
	}

	b.generator = gen
	b.closers = append(b.closers, func(context.Context) {
		if err := gen.Close(); err != nil {
			log.Warn("gemini_close_failed", slog.String("err", err.Error()))
		}
	})
	log.Info("gemini_ready", slog.String("model", cfg.AI.Model))

	return b, nil
}

// ready — все проверки прошли.
func (b *backends) ready(ctx context.Context) error {
	for name, check := range b.checks {
		if err := check(ctx); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

func (b *backends) close(ctx context.Context) {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i](ctx)
	}
	b.closers = nil
}
