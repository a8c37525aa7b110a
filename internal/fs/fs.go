package fs

import (
	"io"
	"os"
)

// File is an open, writable, seekable file.
type File interface {
	io.Writer
	io.Seeker
	io.Closer
	Sync() error
}

// FileSystem is the subset of filesystem operations storage needs.
type FileSystem interface {
	OpenFile(name string, flag int, perm os.FileMode) (File, error)
	Stat(name string) (os.FileInfo, error)
	MkdirAll(path string, perm os.FileMode) error
	Remove(name string) error
}

// LocalFS implements FileSystem with package os.
type LocalFS struct{}

func (LocalFS) OpenFile(name string, flag int, perm os.FileMode) (File, error) {
	return os.OpenFile(name, flag, perm)
}

func (LocalFS) Stat(name string) (os.FileInfo, error)        { return os.Stat(name) }
func (LocalFS) MkdirAll(path string, perm os.FileMode) error { return os.MkdirAll(path, perm) }
func (LocalFS) Remove(name string) error                     { return os.Remove(name) }

// Default is the local filesystem.
var Default FileSystem = LocalFS{}
