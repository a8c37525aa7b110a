package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/hupe1980/flatdata/internal/fs"
	"github.com/hupe1980/flatdata/internal/mmap"
	"golang.org/x/sync/singleflight"
)

// FileBackend stores resources as files below a root directory.
//
// Reads are served from memory mappings that stay alive until Close, so
// views over read resources remain valid for the backend's lifetime.
// Sub-directories share the parent's mapping cache.
type FileBackend struct {
	root   string
	shared *fileShared
}

type fileShared struct {
	fs    fs.FileSystem
	group singleflight.Group

	mu      sync.Mutex
	maps    map[string]*mmap.Mapping
	retired []*mmap.Mapping
	closed  bool
}

// NewFileBackend returns a backend rooted at dir. The directory is created
// on first write.
func NewFileBackend(dir string) *FileBackend {
	return newFileBackend(dir, fs.Default)
}

func newFileBackend(dir string, fsys fs.FileSystem) *FileBackend {
	return &FileBackend{
		root: dir,
		shared: &fileShared{
			fs:   fsys,
			maps: make(map[string]*mmap.Mapping),
		},
	}
}

// Root returns the directory this backend is rooted at.
func (b *FileBackend) Root() string { return b.root }

func (b *FileBackend) path(name string) string {
	return filepath.Join(b.root, filepath.FromSlash(name))
}

// ReadResource maps the resource file, reusing an existing mapping.
func (b *FileBackend) ReadResource(_ context.Context, name string) ([]byte, error) {
	p := b.path(name)

	b.shared.mu.Lock()
	if b.shared.closed {
		b.shared.mu.Unlock()
		return nil, mmap.ErrClosed
	}
	if m, ok := b.shared.maps[p]; ok {
		b.shared.mu.Unlock()
		return m.Bytes(), nil
	}
	b.shared.mu.Unlock()

	v, err, _ := b.shared.group.Do(p, func() (any, error) {
		m, err := mmap.Open(p)
		if err != nil {
			return nil, err
		}
		_ = m.Advise(mmap.AccessRandom)

		b.shared.mu.Lock()
		defer b.shared.mu.Unlock()
		if b.shared.closed {
			_ = m.Close()
			return nil, mmap.ErrClosed
		}
		if prev, ok := b.shared.maps[p]; ok {
			_ = m.Close()
			return prev, nil
		}
		b.shared.maps[p] = m
		return m, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*mmap.Mapping).Bytes(), nil
}

// CreateOutputStream creates or truncates the resource file.
//
// A cached mapping of a previous version is retired, not unmapped, since
// readers may still hold views into it. The old file is unlinked first so
// truncation cannot pull pages out from under those views.
func (b *FileBackend) CreateOutputStream(_ context.Context, name string) (OutputStream, error) {
	p := b.path(name)
	if err := b.shared.fs.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return nil, err
	}

	b.shared.mu.Lock()
	m, mapped := b.shared.maps[p]
	if mapped {
		delete(b.shared.maps, p)
		b.shared.retired = append(b.shared.retired, m)
	}
	b.shared.mu.Unlock()

	if mapped {
		if err := b.shared.fs.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	return b.shared.fs.OpenFile(p, os.O_CREATE|os.O_RDWR|os.O_TRUNC, 0o644)
}

// Subdir returns a backend rooted at name below this one.
func (b *FileBackend) Subdir(name string) Backend {
	return &FileBackend{root: b.path(name), shared: b.shared}
}

// Exists reports whether the resource file is present.
func (b *FileBackend) Exists(_ context.Context, name string) (bool, error) {
	_, err := b.shared.fs.Stat(b.path(name))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// Close unmaps every mapping made by this backend and its sub-directories.
// Views obtained from ReadResource must not be used afterwards.
func (b *FileBackend) Close() error {
	b.shared.mu.Lock()
	defer b.shared.mu.Unlock()

	if b.shared.closed {
		return nil
	}
	b.shared.closed = true

	var errs []error
	for _, m := range b.shared.maps {
		errs = append(errs, m.Close())
	}
	for _, m := range b.shared.retired {
		errs = append(errs, m.Close())
	}
	b.shared.maps = nil
	b.shared.retired = nil
	return errors.Join(errs...)
}
