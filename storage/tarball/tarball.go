package tarball

import (
	"archive/tar"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/hupe1980/flatdata/internal/mmap"
	"github.com/hupe1980/flatdata/storage"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression identifies the container compression of a tar file.
type Compression int

const (
	None Compression = iota
	Gzip
	Zstd
	LZ4
)

func (c Compression) String() string {
	switch c {
	case None:
		return "none"
	case Gzip:
		return "gzip"
	case Zstd:
		return "zstd"
	case LZ4:
		return "lz4"
	default:
		return fmt.Sprintf("Compression(%d)", int(c))
	}
}

// DetectCompression infers the compression from a file name extension.
func DetectCompression(name string) Compression {
	switch {
	case strings.HasSuffix(name, ".tar.gz"), strings.HasSuffix(name, ".tgz"):
		return Gzip
	case strings.HasSuffix(name, ".tar.zst"), strings.HasSuffix(name, ".tzst"):
		return Zstd
	case strings.HasSuffix(name, ".tar.lz4"):
		return LZ4
	default:
		return None
	}
}

// Backend serves resources from the regular-file entries of a tar archive.
type Backend struct {
	prefix string
	shared *shared
}

type shared struct {
	entries map[string][]byte

	mu      sync.Mutex
	mapping *mmap.Mapping
}

var _ storage.Backend = (*Backend)(nil)

// Open opens the tar file at p, choosing decompression by its extension.
func Open(p string) (*Backend, error) {
	comp := DetectCompression(p)
	if comp != None {
		f, err := os.Open(p)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		data, err := decompress(f, comp)
		if err != nil {
			return nil, fmt.Errorf("tarball: decompress %s: %w", p, err)
		}
		return NewReader(data)
	}

	m, err := mmap.Open(p)
	if err != nil {
		return nil, err
	}
	_ = m.Advise(mmap.AccessRandom)

	entries, err := index(m.Bytes())
	if err != nil {
		_ = m.Close()
		return nil, fmt.Errorf("tarball: index %s: %w", p, err)
	}
	return &Backend{shared: &shared{entries: entries, mapping: m}}, nil
}

// NewReader indexes an uncompressed tar archive held in memory. The entries
// alias data, which must not be modified afterwards.
func NewReader(data []byte) (*Backend, error) {
	entries, err := index(data)
	if err != nil {
		return nil, fmt.Errorf("tarball: index: %w", err)
	}
	return &Backend{shared: &shared{entries: entries}}, nil
}

func decompress(r io.Reader, comp Compression) ([]byte, error) {
	switch comp {
	case Gzip:
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, err
		}
		defer zr.Close()
		return io.ReadAll(zr)
	case Zstd:
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		defer zr.Close()
		return io.ReadAll(zr)
	case LZ4:
		return io.ReadAll(lz4.NewReader(r))
	default:
		return io.ReadAll(r)
	}
}

// index walks the archive and records each regular file as a sub-slice of data.
func index(data []byte) (map[string][]byte, error) {
	entries := make(map[string][]byte)
	br := bytes.NewReader(data)
	tr := tar.NewReader(br)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return entries, nil
		}
		// Absolute and dot-dot names are harmless here: they are only
		// ever used as lookup keys.
		if err != nil && !errors.Is(err, tar.ErrInsecurePath) {
			return nil, err
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}

		// The reader consumes headers block by block, so the
		// content starts exactly at the current position.
		start := len(data) - br.Len()
		end := start + int(hdr.Size)
		if hdr.Size < 0 || end > len(data) {
			return nil, fmt.Errorf("entry %q: %w", hdr.Name, storage.ErrUnexpectedDataSize)
		}
		entries[normalize(hdr.Name)] = data[start:end:end]
	}
}

func normalize(name string) string {
	name = strings.TrimPrefix(name, "./")
	name = strings.TrimLeft(name, "/")
	return path.Clean(name)
}

func (b *Backend) key(name string) string {
	if b.prefix == "" {
		return normalize(name)
	}
	return normalize(path.Join(b.prefix, name))
}

// ReadResource returns the bytes of an entry without copying.
func (b *Backend) ReadResource(_ context.Context, name string) ([]byte, error) {
	data, ok := b.shared.entries[b.key(name)]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return data, nil
}

// CreateOutputStream always fails with storage.ErrReadOnly.
func (b *Backend) CreateOutputStream(context.Context, string) (storage.OutputStream, error) {
	return nil, storage.ErrReadOnly
}

// Subdir returns a view of the entries below name.
func (b *Backend) Subdir(name string) storage.Backend {
	return &Backend{prefix: b.key(name), shared: b.shared}
}

// Exists reports whether the archive has an entry called name.
func (b *Backend) Exists(_ context.Context, name string) (bool, error) {
	_, ok := b.shared.entries[b.key(name)]
	return ok, nil
}

// Entries lists the entry names below this backend's prefix, sorted.
func (b *Backend) Entries() []string {
	var names []string
	for name := range b.shared.entries {
		if b.prefix == "" {
			names = append(names, name)
			continue
		}
		if rel, ok := strings.CutPrefix(name, b.prefix+"/"); ok {
			names = append(names, rel)
		}
	}
	sort.Strings(names)
	return names
}

// Close releases the mapping of an uncompressed archive. Slices returned
// by ReadResource must not be used afterwards.
func (b *Backend) Close() error {
	b.shared.mu.Lock()
	defer b.shared.mu.Unlock()

	if b.shared.mapping == nil {
		return nil
	}
	err := b.shared.mapping.Close()
	b.shared.mapping = nil
	b.shared.entries = nil
	return err
}

// Write packs files into a tar archive with the given compression.
// Entries are written in name order.
func Write(w io.Writer, comp Compression, files map[string][]byte) error {
	var (
		zw  io.WriteCloser
		err error
	)
	switch comp {
	case None:
	case Gzip:
		zw = gzip.NewWriter(w)
	case Zstd:
		zw, err = zstd.NewWriter(w)
		if err != nil {
			return err
		}
	case LZ4:
		zw = lz4.NewWriter(w)
	default:
		return fmt.Errorf("tarball: unknown compression %v", comp)
	}
	if zw != nil {
		w = zw
	}

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	tw := tar.NewWriter(w)
	for _, name := range names {
		data := files[name]
		hdr := &tar.Header{
			Name:     name,
			Mode:     0o644,
			Size:     int64(len(data)),
			Typeflag: tar.TypeReg,
			Format:   tar.FormatPAX,
		}
		if err := tw.WriteHeader(hdr); err != nil {
			return err
		}
		if _, err := tw.Write(data); err != nil {
			return err
		}
	}
	if err := tw.Close(); err != nil {
		return err
	}
	if zw != nil {
		return zw.Close()
	}
	return nil
}
