package s3

import "log/slog"

type options struct {
	uploadBytesPerSec int
	partSize          int64
	concurrency       int
	tempDir           string
	logger            *slog.Logger
}

// Option configures a Backend.
type Option func(*options)

func defaultOptions() options {
	return options{logger: slog.New(slog.DiscardHandler)}
}

// WithUploadRateLimit caps upload bandwidth in bytes per second.
// Zero or negative disables the limit.
func WithUploadRateLimit(bytesPerSec int) Option {
	return func(o *options) { o.uploadBytesPerSec = bytesPerSec }
}

// WithUploadConfig sets the multipart part size and upload concurrency.
// Zero values keep the upload manager's defaults.
func WithUploadConfig(partSize int64, concurrency int) Option {
	return func(o *options) {
		o.partSize = partSize
		o.concurrency = concurrency
	}
}

// WithTempDir sets the directory for spool files.
func WithTempDir(dir string) Option {
	return func(o *options) { o.tempDir = dir }
}

// WithLogger sets the logger for transfer events.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}
