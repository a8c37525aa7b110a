package storage

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/hupe1980/flatdata/internal/conv"
)

const (
	// SizePrefixSize is the length of the little-endian size field that
	// precedes every resource's content.
	SizePrefixSize = 8

	// PaddingSize is the number of zero bytes appended after the content.
	// It is at least the widest scalar so unaligned field reads at the end
	// of a resource stay in bounds.
	PaddingSize = 8

	// SchemaSuffix is appended to a resource name to form its schema resource.
	SchemaSuffix = ".schema"
)

// ResourceStorage implements framing and schema validation on top of a Backend.
//
// A ResourceStorage may be shared by archives, sub-archives and builders;
// all of them see the same backend state.
type ResourceStorage struct {
	backend Backend
	logger  *slog.Logger
	metrics MetricsCollector
}

// New creates a ResourceStorage over backend.
func New(backend Backend, optFns ...Option) *ResourceStorage {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	return &ResourceStorage{backend: backend, logger: opts.logger, metrics: opts.metrics}
}

// Backend returns the underlying backend.
func (s *ResourceStorage) Backend() Backend { return s.backend }

// Logger returns the logger used for resource events.
func (s *ResourceStorage) Logger() *slog.Logger { return s.logger }

// Metrics returns the collector receiving read and write metrics.
func (s *ResourceStorage) Metrics() MetricsCollector { return s.metrics }

// Subdir returns a storage scoped under name, used for sub-archives.
func (s *ResourceStorage) Subdir(name string) *ResourceStorage {
	return &ResourceStorage{backend: s.backend.Subdir(name), logger: s.logger, metrics: s.metrics}
}

// Exists reports whether the resource name is present.
func (s *ResourceStorage) Exists(ctx context.Context, name string) (bool, error) {
	ok, err := s.backend.Exists(ctx, name)
	return ok, wrap("probe", name, err)
}

// Read returns the content of resource name after validating its framing
// and checking that its stored schema equals schema exactly.
//
// The returned slice aliases backend memory and must not be modified.
func (s *ResourceStorage) Read(ctx context.Context, name, schema string) ([]byte, error) {
	start := time.Now()
	content, err := s.read(ctx, name, schema)
	s.metrics.RecordRead(name, len(content), time.Since(start), err)
	return content, err
}

func (s *ResourceStorage) read(ctx context.Context, name, schema string) ([]byte, error) {
	raw, err := s.backend.ReadResource(ctx, name)
	if err != nil {
		return nil, wrap("read", name, err)
	}

	stored, err := s.readSchema(ctx, name)
	if err != nil {
		return nil, err
	}

	content, err := Unframe(raw)
	if err != nil {
		return nil, wrap("read", name, err)
	}

	if stored != schema {
		return nil, wrap("read", name, &WrongSignatureError{
			Resource: name,
			Diff:     schemaDiff(schema, stored),
		})
	}
	return content, nil
}

// ReadSchema returns the schema text stored for resource name.
func (s *ResourceStorage) ReadSchema(ctx context.Context, name string) (string, error) {
	return s.readSchema(ctx, name)
}

func (s *ResourceStorage) readSchema(ctx context.Context, name string) (string, error) {
	raw, err := s.backend.ReadResource(ctx, name+SchemaSuffix)
	if errors.Is(err, ErrNotFound) {
		return "", wrap("read", name, ErrMissingSchema)
	}
	if err != nil {
		return "", wrap("read", name+SchemaSuffix, err)
	}
	if !utf8.Valid(raw) {
		return "", wrap("read", name+SchemaSuffix, ErrInvalidUTF8)
	}
	return string(raw), nil
}

// Write stores data as resource name with the given schema.
func (s *ResourceStorage) Write(ctx context.Context, name, schema string, data []byte) error {
	h, err := s.CreateResource(ctx, name, schema)
	if err != nil {
		return err
	}
	if _, err := h.Write(data); err != nil {
		_ = h.Abort()
		return err
	}
	return h.Close()
}

// CreateResource writes the schema of resource name and returns a handle
// that streams its content.
func (s *ResourceStorage) CreateResource(ctx context.Context, name, schema string) (*ResourceHandle, error) {
	if err := s.writeRaw(ctx, name+SchemaSuffix, []byte(schema)); err != nil {
		return nil, err
	}
	out, err := s.backend.CreateOutputStream(ctx, name)
	if err != nil {
		return nil, wrap("create", name, err)
	}
	return newResourceHandle(s, name, schema, out)
}

func (s *ResourceStorage) writeRaw(ctx context.Context, name string, data []byte) error {
	out, err := s.backend.CreateOutputStream(ctx, name)
	if err != nil {
		return wrap("create", name, err)
	}
	if _, err := out.Write(data); err != nil {
		_ = out.Close()
		return wrap("write", name, err)
	}
	return wrap("close", name, out.Close())
}

// Frame returns data wrapped in the resource framing.
func Frame(data []byte) []byte {
	out := make([]byte, SizePrefixSize+len(data)+PaddingSize)
	binary.LittleEndian.PutUint64(out, uint64(len(data)))
	copy(out[SizePrefixSize:], data)
	return out
}

// Unframe validates the framing of a raw resource and returns its content.
func Unframe(raw []byte) ([]byte, error) {
	if len(raw) < SizePrefixSize+PaddingSize {
		return nil, fmt.Errorf("%w: %d bytes is shorter than the framing", ErrUnexpectedDataSize, len(raw))
	}
	size, err := conv.Uint64ToInt(binary.LittleEndian.Uint64(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnexpectedDataSize, err)
	}
	total, err := conv.AddInt(size, SizePrefixSize+PaddingSize)
	if err != nil || total != len(raw) {
		return nil, fmt.Errorf("%w: size prefix %d, physical length %d", ErrUnexpectedDataSize, size, len(raw))
	}
	return raw[SizePrefixSize : SizePrefixSize+size], nil
}
