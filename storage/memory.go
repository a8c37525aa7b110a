package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path"
	"sort"
	"strings"
	"sync"
)

// MemoryBackend keeps resources in memory. Sub-directories share the same
// resource map. Safe for concurrent use.
type MemoryBackend struct {
	root   *memoryRoot
	prefix string
}

type memoryRoot struct {
	mu        sync.RWMutex
	resources map[string][]byte
}

// NewMemoryBackend creates an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{root: &memoryRoot{resources: make(map[string][]byte)}}
}

func (m *MemoryBackend) key(name string) string {
	return path.Join(m.prefix, name)
}

// ReadResource returns the stored bytes without copying.
func (m *MemoryBackend) ReadResource(_ context.Context, name string) ([]byte, error) {
	m.root.mu.RLock()
	defer m.root.mu.RUnlock()

	data, ok := m.root.resources[m.key(name)]
	if !ok {
		return nil, ErrNotFound
	}
	return data, nil
}

// CreateOutputStream returns a stream that publishes its bytes on Close.
func (m *MemoryBackend) CreateOutputStream(_ context.Context, name string) (OutputStream, error) {
	return &memoryStream{root: m.root, key: m.key(name)}, nil
}

// Subdir returns a view of the backend rooted at name.
func (m *MemoryBackend) Subdir(name string) Backend {
	return &MemoryBackend{root: m.root, prefix: m.key(name)}
}

// Exists reports whether name has been written.
func (m *MemoryBackend) Exists(_ context.Context, name string) (bool, error) {
	m.root.mu.RLock()
	defer m.root.mu.RUnlock()

	_, ok := m.root.resources[m.key(name)]
	return ok, nil
}

// Put stores raw bytes as a resource, bypassing framing. Tests use it to
// plant corrupt resources.
func (m *MemoryBackend) Put(name string, data []byte) {
	m.root.mu.Lock()
	defer m.root.mu.Unlock()
	m.root.resources[m.key(name)] = data
}

// Resources lists the resource names below this backend's root, sorted.
func (m *MemoryBackend) Resources() []string {
	m.root.mu.RLock()
	defer m.root.mu.RUnlock()

	var names []string
	for key := range m.root.resources {
		rel := key
		if m.prefix != "" {
			if !strings.HasPrefix(key, m.prefix+"/") {
				continue
			}
			rel = strings.TrimPrefix(key, m.prefix+"/")
		}
		names = append(names, rel)
	}
	sort.Strings(names)
	return names
}

// memoryStream is a seekable write buffer.
type memoryStream struct {
	root   *memoryRoot
	key    string
	buf    []byte
	pos    int
	closed bool
}

func (s *memoryStream) Write(p []byte) (int, error) {
	if s.closed {
		return 0, os.ErrClosed
	}
	end := s.pos + len(p)
	if end > len(s.buf) {
		s.buf = append(s.buf, make([]byte, end-len(s.buf))...)
	}
	copy(s.buf[s.pos:], p)
	s.pos = end
	return len(p), nil
}

func (s *memoryStream) Seek(offset int64, whence int) (int64, error) {
	if s.closed {
		return 0, os.ErrClosed
	}
	var base int64
	switch whence {
	case io.SeekStart:
	case io.SeekCurrent:
		base = int64(s.pos)
	case io.SeekEnd:
		base = int64(len(s.buf))
	default:
		return 0, errors.New("memory stream: invalid whence")
	}
	next := base + offset
	if next < 0 {
		return 0, errors.New("memory stream: negative position")
	}
	s.pos = int(next)
	return next, nil
}

func (s *memoryStream) Close() error {
	if s.closed {
		return os.ErrClosed
	}
	s.closed = true

	s.root.mu.Lock()
	defer s.root.mu.Unlock()
	if s.buf == nil {
		s.buf = []byte{}
	}
	s.root.resources[s.key] = s.buf
	return nil
}
