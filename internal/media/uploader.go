package media

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/RahulLalwani5726/Stream-X/internal/models"
	"github.com/RahulLalwani5726/Stream-X/internal/observability"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const (
	DefaultImageMaxBytes = 10 << 20
	DefaultVideoMaxBytes = 512 << 20
	DefaultTempDir       = "/tmp/streamx/uploads"
)

var videoExtensions = map[string]string{
	".mp4":  "video/mp4",
	".m4v":  "video/mp4",
	".mov":  "video/quicktime",
	".webm": "video/webm",
	".mkv":  "video/x-matroska",
}

// UploaderConfig bounds what the Uploader accepts.
type UploaderConfig struct {
	ImageMaxBytes int64
	VideoMaxBytes int64
	TempDir       string
}

// Uploader turns multipart uploads into stored objects.
type Uploader struct {
	store  Store
	prober Prober
	cfg    UploaderConfig
}

func NewUploader(store Store, prober Prober, cfg UploaderConfig) *Uploader {
	if cfg.ImageMaxBytes <= 0 {
		cfg.ImageMaxBytes = DefaultImageMaxBytes
	}
	if cfg.VideoMaxBytes <= 0 {
		cfg.VideoMaxBytes = DefaultVideoMaxBytes
	}
	if cfg.TempDir == "" {
		cfg.TempDir = DefaultTempDir
	}
	if prober == nil {
		prober = NopProber{}
	}
	return &Uploader{store: store, prober: prober, cfg: cfg}
}

// VideoAsset describes a stored video.
type VideoAsset struct {
	URL      string
	Duration float64
}

// UploadImage re-encodes content to WebP and stores it under the owner's prefix.
func (u *Uploader) UploadImage(ctx context.Context, ownerID uint, kind ImageKind, content []byte, contentType string) (string, error) {
	if int64(len(content)) > u.cfg.ImageMaxBytes {
		return "", models.NewValidationError(fmt.Sprintf("File too large (max %dMB)", u.cfg.ImageMaxBytes>>20))
	}
	enc, err := EncodeImage(content, contentType, kind)
	if err != nil {
		return "", err
	}

	key := objectKey("images/"+string(kind), ownerID, ".webp")
	if err := u.store.Put(ctx, key, bytes.NewReader(enc.Data), int64(len(enc.Data)), "image/webp"); err != nil {
		return "", models.NewDependencyError("Media storage", err)
	}
	return u.store.URL(key), nil
}

// UploadVideo spools src to disk, probes its duration and stores it.
func (u *Uploader) UploadVideo(ctx context.Context, ownerID uint, src io.Reader, filename, contentType string) (*VideoAsset, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	ct := normalizeContentType(contentType)
	if known, ok := videoExtensions[ext]; ok && (ct == "" || ct == "application/octet-stream") {
		ct = known
	}
	if !strings.HasPrefix(ct, "video/") {
		return nil, models.NewValidationError("Invalid video type")
	}
	if _, ok := videoExtensions[ext]; !ok {
		ext = ".mp4"
	}

	path, err := u.spool(src)
	if err != nil {
		return nil, err
	}
	defer func() { _ = os.Remove(path) }()

	duration, err := u.prober.Duration(ctx, path)
	if err != nil {
		return nil, models.NewValidationError("Unreadable video file")
	}

	key := objectKey("videos", ownerID, ext)
	if err := u.store.PutFile(ctx, key, path, ct); err != nil {
		return nil, models.NewDependencyError("Media storage", err)
	}
	return &VideoAsset{URL: u.store.URL(key), Duration: duration}, nil
}

func (u *Uploader) spool(src io.Reader) (string, error) {
	if err := os.MkdirAll(u.cfg.TempDir, 0o750); err != nil {
		return "", models.NewInternalError(errors.WithMessage(err, "create upload dir"))
	}
	f, err := os.CreateTemp(u.cfg.TempDir, "video-*")
	if err != nil {
		return "", models.NewInternalError(errors.WithMessage(err, "create temp file"))
	}

	n, err := io.Copy(f, io.LimitReader(src, u.cfg.VideoMaxBytes+1))
	closeErr := f.Close()
	switch {
	case err != nil:
		err = models.NewInternalError(errors.WithMessage(err, "spool upload"))
	case closeErr != nil:
		err = models.NewInternalError(errors.WithMessage(closeErr, "spool upload"))
	case n == 0:
		err = models.NewValidationError("No file uploaded")
	case n > u.cfg.VideoMaxBytes:
		err = models.NewValidationError(fmt.Sprintf("File too large (max %dMB)", u.cfg.VideoMaxBytes>>20))
	}
	if err != nil {
		_ = os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}

// Delete removes the objects behind urls, logging failures.
func (u *Uploader) Delete(ctx context.Context, urls ...string) {
	for _, raw := range urls {
		key, ok := u.store.KeyOf(raw)
		if !ok {
			continue
		}
		if err := u.store.Remove(ctx, key); err != nil {
			observability.GlobalLogger.WarnContext(ctx, "media object left behind",
				slog.String("key", key), slog.String("error", err.Error()))
		}
	}
}

func objectKey(prefix string, ownerID uint, ext string) string {
	return fmt.Sprintf("%s/%d/%s%s", prefix, ownerID, uuid.NewString(), ext)
}
