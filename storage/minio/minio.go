package minio

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"

	"github.com/hupe1980/flatdata/internal/remote"
	"github.com/hupe1980/flatdata/storage"
	"github.com/minio/minio-go/v7"
	"golang.org/x/time/rate"
)

// Backend implements storage.Backend on a MinIO bucket.
type Backend struct {
	prefix string
	shared *shared
}

type shared struct {
	client  *minio.Client
	bucket  string
	limiter *rate.Limiter
	tempDir string
	logger  *slog.Logger
	cache   *remote.Cache
}

var _ storage.Backend = (*Backend)(nil)

// Option configures a Backend.
type Option func(*shared)

// WithUploadRateLimit caps upload bandwidth in bytes per second.
func WithUploadRateLimit(bytesPerSec int) Option {
	return func(s *shared) { s.limiter = remote.NewLimiter(bytesPerSec) }
}

// WithTempDir sets the directory for spool files.
func WithTempDir(dir string) Option {
	return func(s *shared) { s.tempDir = dir }
}

// WithLogger sets the logger for transfer events.
func WithLogger(l *slog.Logger) Option {
	return func(s *shared) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewBackend creates a backend storing resources under prefix in bucket.
func NewBackend(client *minio.Client, bucket, prefix string, opts ...Option) *Backend {
	sh := &shared{
		client: client,
		bucket: bucket,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(sh)
	}
	sh.cache = remote.NewCache(sh.fetch)
	return &Backend{prefix: prefix, shared: sh}
}

func (b *Backend) key(name string) string {
	return path.Join(b.prefix, name)
}

func isNotFound(err error) bool {
	code := minio.ToErrorResponse(err).Code
	return code == "NoSuchKey" || code == "NotFound"
}

func (s *shared) fetch(ctx context.Context, key string) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	defer obj.Close()

	// GetObject is lazy; a missing key surfaces on the first read.
	data, err := io.ReadAll(obj)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("minio %s/%s: %w", s.bucket, key, storage.ErrNotFound)
		}
		return nil, err
	}
	s.logger.Debug("minio object fetched", "bucket", s.bucket, "key", key, "size", len(data))
	return data, nil
}

// ReadResource downloads the object once and serves later reads from memory.
func (b *Backend) ReadResource(ctx context.Context, name string) ([]byte, error) {
	return b.shared.cache.Get(ctx, b.key(name))
}

// CreateOutputStream returns a stream that uploads the object on Close.
func (b *Backend) CreateOutputStream(ctx context.Context, name string) (storage.OutputStream, error) {
	key := b.key(name)
	s := b.shared
	return remote.NewSpool(ctx, s.tempDir, func(ctx context.Context, r io.Reader, size int64) error {
		_, err := s.client.PutObject(ctx, s.bucket, key, remote.LimitReader(ctx, r, s.limiter), size, minio.PutObjectOptions{
			ContentType: "application/octet-stream",
		})
		if err != nil {
			return err
		}
		s.cache.Forget(key)
		s.logger.Debug("minio object uploaded", "bucket", s.bucket, "key", key, "size", size)
		return nil
	})
}

// Subdir returns a backend rooted at name below this one.
func (b *Backend) Subdir(name string) storage.Backend {
	return &Backend{prefix: b.key(name), shared: b.shared}
}

// Exists reports whether the object is present.
func (b *Backend) Exists(ctx context.Context, name string) (bool, error) {
	_, err := b.shared.client.StatObject(ctx, b.shared.bucket, b.key(name), minio.StatObjectOptions{})
	if err == nil {
		return true, nil
	}
	if isNotFound(err) {
		return false, nil
	}
	return false, err
}
