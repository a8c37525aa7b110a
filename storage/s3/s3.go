package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/hupe1980/flatdata/internal/remote"
	"github.com/hupe1980/flatdata/storage"
	"golang.org/x/time/rate"
)

// Client is the subset of the S3 API the backend uses.
type Client interface {
	manager.UploadAPIClient
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
}

var _ Client = (*s3.Client)(nil)

// Backend implements storage.Backend on an S3 bucket.
type Backend struct {
	prefix string
	shared *shared
}

type shared struct {
	client   Client
	bucket   string
	uploader *manager.Uploader
	limiter  *rate.Limiter
	tempDir  string
	logger   *slog.Logger
	cache    *remote.Cache
}

var _ storage.Backend = (*Backend)(nil)

// NewBackend creates a backend storing resources under prefix in bucket.
func NewBackend(client Client, bucket, prefix string, optFns ...Option) *Backend {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	uploader := manager.NewUploader(client, func(u *manager.Uploader) {
		if opts.partSize > 0 {
			u.PartSize = opts.partSize
		}
		if opts.concurrency > 0 {
			u.Concurrency = opts.concurrency
		}
	})

	sh := &shared{
		client:   client,
		bucket:   bucket,
		uploader: uploader,
		limiter:  remote.NewLimiter(opts.uploadBytesPerSec),
		tempDir:  opts.tempDir,
		logger:   opts.logger,
	}
	sh.cache = remote.NewCache(sh.fetch)
	return &Backend{prefix: prefix, shared: sh}
}

func (b *Backend) key(name string) string {
	return path.Join(b.prefix, name)
}

func isNotFound(err error) bool {
	var nf *types.NotFound
	if errors.As(err, &nf) {
		return true
	}
	var nsk *types.NoSuchKey
	return errors.As(err, &nsk)
}

func (s *shared) fetch(ctx context.Context, key string) ([]byte, error) {
	resp, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("s3://%s/%s: %w", s.bucket, key, storage.ErrNotFound)
		}
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("s3 object fetched", "bucket", s.bucket, "key", key, "size", len(data))
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
		_, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
			Bucket:        aws.String(s.bucket),
			Key:           aws.String(key),
			Body:          remote.LimitReader(ctx, r, s.limiter),
			ContentLength: aws.Int64(size),
		})
		if err != nil {
			return err
		}
		s.cache.Forget(key)
		s.logger.Debug("s3 object uploaded", "bucket", s.bucket, "key", key, "size", size)
		return nil
	})
}

// Subdir returns a backend rooted at name below this one.
func (b *Backend) Subdir(name string) storage.Backend {
	return &Backend{prefix: b.key(name), shared: b.shared}
}

// Exists reports whether the object is present.
func (b *Backend) Exists(ctx context.Context, name string) (bool, error) {
	_, err := b.shared.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(b.shared.bucket),
		Key:    aws.String(b.key(name)),
	})
	if err == nil {
		return true, nil
	}
	if isNotFound(err) {
		return false, nil
	}
	return false, err
}
