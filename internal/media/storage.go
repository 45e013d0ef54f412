// Package media stores uploaded videos and images in S3-compatible object
// storage and extracts the metadata the catalog needs from them.
package media

import (
	"context"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/RahulLalwani5726/Stream-X/internal/observability"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/pkg/errors"
)

// Store is the subset of object storage the services rely on.
type Store interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	PutFile(ctx context.Context, key, path, contentType string) error
	Remove(ctx context.Context, key string) error
	// URL returns the public address of key.
	URL(key string) string
	// KeyOf reverses URL. ok is false for addresses this store did not issue.
	KeyOf(rawURL string) (key string, ok bool)
}

type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	// PublicURL overrides the bucket address used to build object URLs,
	// e.g. a CDN in front of the bucket.
	PublicURL string
}

func (c Config) baseURL() string {
	if c.PublicURL != "" {
		return strings.TrimRight(c.PublicURL, "/")
	}
	scheme := "http"
	if c.UseSSL {
		scheme = "https"
	}
	return scheme + "://" + hostOnly(c.Endpoint) + "/" + c.Bucket
}

func hostOnly(endpoint string) string {
	endpoint = strings.TrimPrefix(endpoint, "http://")
	endpoint = strings.TrimPrefix(endpoint, "https://")
	return strings.TrimRight(endpoint, "/")
}

// ObjectStore is a Store backed by MinIO or any S3-compatible service.
type ObjectStore struct {
	cfg    Config
	client *minio.Client
	base   string
}

func NewObjectStore(cfg Config) (*ObjectStore, error) {
	client, err := minio.New(hostOnly(cfg.Endpoint), &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, errors.WithMessage(err, "create object storage client")
	}
	return &ObjectStore{cfg: cfg, client: client, base: cfg.baseURL()}, nil
}

// EnsureBucket creates the configured bucket when it does not exist yet.
func (s *ObjectStore) EnsureBucket(ctx context.Context) error {
	done := s.track(ctx, "ensure_bucket")
	exists, err := s.client.BucketExists(ctx, s.cfg.Bucket)
	if err == nil && !exists {
		err = s.client.MakeBucket(ctx, s.cfg.Bucket, minio.MakeBucketOptions{})
	}
	done(err)
	return errors.WithMessagef(err, "ensure bucket %s", s.cfg.Bucket)
}

// Ping reports whether the bucket is reachable.
func (s *ObjectStore) Ping(ctx context.Context) error {
	_, err := s.client.BucketExists(ctx, s.cfg.Bucket)
	return errors.WithMessage(err, "object storage ping")
}

func (s *ObjectStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	done := s.track(ctx, "put")
	_, err := s.client.PutObject(ctx, s.cfg.Bucket, key, r, size, minio.PutObjectOptions{ContentType: contentType})
	done(err)
	return errors.WithMessagef(err, "put object %s", key)
}

func (s *ObjectStore) PutFile(ctx context.Context, key, path, contentType string) error {
	done := s.track(ctx, "put_file")
	_, err := s.client.FPutObject(ctx, s.cfg.Bucket, key, path, minio.PutObjectOptions{ContentType: contentType})
	done(err)
	return errors.WithMessagef(err, "upload file %s", key)
}

func (s *ObjectStore) Remove(ctx context.Context, key string) error {
	done := s.track(ctx, "remove")
	err := s.client.RemoveObject(ctx, s.cfg.Bucket, key, minio.RemoveObjectOptions{})
	done(err)
	return errors.WithMessagef(err, "remove object %s", key)
}

// PresignGet returns a time-limited download link for private objects.
func (s *ObjectStore) PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error) {
	u, err := s.client.PresignedGetObject(ctx, s.cfg.Bucket, key, expiry, url.Values{})
	if err != nil {
		return "", errors.WithMessagef(err, "presign %s", key)
	}
	return u.String(), nil
}

func (s *ObjectStore) URL(key string) string {
	return s.base + "/" + key
}

func (s *ObjectStore) KeyOf(rawURL string) (string, bool) {
	return keyOf(s.base, rawURL)
}

func (s *ObjectStore) track(ctx context.Context, op string) func(error) {
	_, span := observability.StartMediaSpan(ctx, op)
	return func(err error) {
		if err != nil {
			span.RecordError(err)
		}
		span.End()
		observability.MediaOperations.WithLabelValues(op, observability.Outcome(err)).Inc()
	}
}

func keyOf(base, rawURL string) (string, bool) {
	prefix := base + "/"
	if !strings.HasPrefix(rawURL, prefix) {
		return "", false
	}
	key := strings.TrimPrefix(rawURL, prefix)
	return key, key != ""
}

// DiscardStore accepts every write and keeps nothing. It backs local
// development when MEDIA_DISABLE is set.
type DiscardStore struct {
	Base string
}

func (d DiscardStore) Put(_ context.Context, _ string, r io.Reader, _ int64, _ string) error {
	_, err := io.Copy(io.Discard, r)
	return err
}

func (DiscardStore) PutFile(context.Context, string, string, string) error { return nil }

func (DiscardStore) Remove(context.Context, string) error { return nil }

func (d DiscardStore) URL(key string) string {
	return d.base() + "/" + key
}

func (d DiscardStore) KeyOf(rawURL string) (string, bool) {
	return keyOf(d.base(), rawURL)
}

func (d DiscardStore) base() string {
	if d.Base == "" {
		return "/media"
	}
	return strings.TrimRight(d.Base, "/")
}
