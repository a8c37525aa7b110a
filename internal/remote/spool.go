package remote

import (
	"context"
	"io"
	"os"
)

// CommitFunc uploads size bytes read from r.
type CommitFunc func(ctx context.Context, r io.Reader, size int64) error

// Spool is a seekable output stream backed by a temporary file. Object
// stores cannot patch a size prefix in place, so content is spooled
// locally and uploaded in one piece on Close.
type Spool struct {
	ctx    context.Context
	file   *os.File
	commit CommitFunc
	closed bool
}

// NewSpool creates a spool file in dir, or the default temporary directory
// when dir is empty.
func NewSpool(ctx context.Context, dir string, commit CommitFunc) (*Spool, error) {
	f, err := os.CreateTemp(dir, "flatdata-spool-*")
	if err != nil {
		return nil, err
	}
	return &Spool{ctx: ctx, file: f, commit: commit}, nil
}

func (s *Spool) Write(p []byte) (int, error) {
	if s.closed {
		return 0, os.ErrClosed
	}
	return s.file.Write(p)
}

func (s *Spool) Seek(offset int64, whence int) (int64, error) {
	if s.closed {
		return 0, os.ErrClosed
	}
	return s.file.Seek(offset, whence)
}

// Close uploads the spooled content and removes the temporary file.
func (s *Spool) Close() error {
	if s.closed {
		return os.ErrClosed
	}
	s.closed = true
	defer func() {
		_ = s.file.Close()
		_ = os.Remove(s.file.Name())
	}()

	size, err := s.file.Seek(0, io.SeekEnd)
	if err != nil {
		return err
	}
	if _, err := s.file.Seek(0, io.SeekStart); err != nil {
		return err
	}
	return s.commit(s.ctx, s.file, size)
}

// Abort removes the temporary file without uploading.
func (s *Spool) Abort() error {
	if s.closed {
		return os.ErrClosed
	}
	s.closed = true
	err := s.file.Close()
	if rerr := os.Remove(s.file.Name()); err == nil {
		err = rerr
	}
	return err
}
