// Package bootstrap connects the runtime dependencies shared by the server and the tools.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/RahulLalwani5726/Stream-X/internal/cache"
	"github.com/RahulLalwani5726/Stream-X/internal/config"
	"github.com/RahulLalwani5726/Stream-X/internal/database"
	"github.com/RahulLalwani5726/Stream-X/internal/docstore"
	"github.com/RahulLalwani5726/Stream-X/internal/media"
	"github.com/RahulLalwani5726/Stream-X/internal/middleware"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	// SkipMedia leaves Media as a DiscardStore, for tools that never upload.
	SkipMedia bool
}

// Runtime is every external connection the application holds.
type Runtime struct {
	DB     *gorm.DB
	Redis  *redis.Client
	Docs   *docstore.Storage // nil unless STORE_DRIVER=mongo
	Media  media.Store
	Prober media.Prober
}

// InitRuntime connects to the database, Redis, the document store and object storage.
// Redis is optional: a nil client disables caching and token revocation.
func InitRuntime(ctx context.Context, cfg *config.Config, opts Options) (*Runtime, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}
	rt := &Runtime{DB: db}

	cache.InitRedis(cfg.RedisURL)
	rt.Redis = cache.GetClient()

	if cfg.StoreDriver == config.StoreDriverMongo {
		docs, err := docstore.New(ctx, docstore.Config{URI: cfg.MongoURI, DBName: cfg.MongoDB})
		if err != nil {
			_ = rt.Close(ctx)
			return nil, fmt.Errorf("document store connection failed: %w", err)
		}
		rt.Docs = docs
		middleware.Logger.Info("comments and comment likes use the document store", slog.String("db", cfg.MongoDB))
	}

	rt.Media, err = openMedia(ctx, cfg, opts)
	if err != nil {
		_ = rt.Close(ctx)
		return nil, err
	}
	rt.Prober = media.NopProber{}
	if !cfg.MediaDisableProbe {
		rt.Prober = media.FFProbe{}
	}
	return rt, nil
}

func openMedia(ctx context.Context, cfg *config.Config, opts Options) (media.Store, error) {
	if opts.SkipMedia || cfg.MediaDisableObjectOps {
		return media.DiscardStore{Base: cfg.MediaPublicURL}, nil
	}
	store, err := media.NewObjectStore(media.Config{
		Endpoint:  cfg.MediaEndpoint,
		AccessKey: cfg.MediaAccessKey,
		SecretKey: cfg.MediaSecretKey,
		Bucket:    cfg.MediaBucket,
		UseSSL:    cfg.MediaUseSSL,
		PublicURL: cfg.MediaPublicURL,
	})
	if err != nil {
		return nil, fmt.Errorf("object storage setup failed: %w", err)
	}
	if err := store.EnsureBucket(ctx); err != nil {
		return nil, fmt.Errorf("object storage bucket check failed: %w", err)
	}
	return store, nil
}

// Close releases every connection, returning the first error.
func (r *Runtime) Close(ctx context.Context) error {
	var errs []error
	if r.Docs != nil {
		errs = append(errs, r.Docs.Close(ctx))
	}
	if r.Redis != nil {
		errs = append(errs, r.Redis.Close())
	}
	if r.DB != nil {
		if sqlDB, err := r.DB.DB(); err == nil {
			errs = append(errs, sqlDB.Close())
		}
	}
	return errors.Join(errs...)
}
