package fs

import (
	"errors"
	"io"
	"os"
	"strings"
	"sync"
)

// ErrInjected is the error returned by injected faults unless a rule sets its own.
var ErrInjected = errors.New("fs: injected fault")

// Fault describes how files matching a rule misbehave.
type Fault struct {
	// FailAfterBytes fails the write that would exceed this many bytes.
	// Negative disables the limit.
	FailAfterBytes int64
	FailOnSeek     bool
	FailOnClose    bool
	FailOnOpen     bool
	Err            error
}

func (f Fault) err() error {
	if f.Err != nil {
		return f.Err
	}
	return ErrInjected
}

// FaultyFS wraps a FileSystem and injects faults into files whose name
// contains a rule's pattern.
type FaultyFS struct {
	FS FileSystem

	mu    sync.Mutex
	rules map[string]Fault
}

// NewFaultyFS wraps fsys, or Default when fsys is nil.
func NewFaultyFS(fsys FileSystem) *FaultyFS {
	if fsys == nil {
		fsys = Default
	}
	return &FaultyFS{FS: fsys, rules: make(map[string]Fault)}
}

// AddRule registers a fault for names containing pattern.
func (f *FaultyFS) AddRule(pattern string, fault Fault) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rules[pattern] = fault
}

func (f *FaultyFS) match(name string) (Fault, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	// Longest pattern wins so rules are deterministic.
	best, found, bestLen := Fault{}, false, -1
	for pattern, rule := range f.rules {
		if strings.Contains(name, pattern) && len(pattern) > bestLen {
			best, found, bestLen = rule, true, len(pattern)
		}
	}
	return best, found
}

func (f *FaultyFS) OpenFile(name string, flag int, perm os.FileMode) (File, error) {
	fault, ok := f.match(name)
	if ok && fault.FailOnOpen {
		return nil, fault.err()
	}
	file, err := f.FS.OpenFile(name, flag, perm)
	if err != nil || !ok {
		return file, err
	}
	return &faultyFile{File: file, fault: fault}, nil
}

func (f *FaultyFS) Stat(name string) (os.FileInfo, error)        { return f.FS.Stat(name) }
func (f *FaultyFS) MkdirAll(path string, perm os.FileMode) error { return f.FS.MkdirAll(path, perm) }
func (f *FaultyFS) Remove(name string) error                     { return f.FS.Remove(name) }

type faultyFile struct {
	File
	fault   Fault
	written int64
}

func (ff *faultyFile) Write(p []byte) (int, error) {
	if ff.fault.FailAfterBytes >= 0 && ff.written+int64(len(p)) > ff.fault.FailAfterBytes {
		return 0, ff.fault.err()
	}
	n, err := ff.File.Write(p)
	ff.written += int64(n)
	return n, err
}

func (ff *faultyFile) Seek(offset int64, whence int) (int64, error) {
	if ff.fault.FailOnSeek {
		return 0, ff.fault.err()
	}
	return ff.File.Seek(offset, whence)
}

func (ff *faultyFile) Close() error {
	err := ff.File.Close()
	if ff.fault.FailOnClose {
		return ff.fault.err()
	}
	return err
}

var _ io.WriteSeeker = (*faultyFile)(nil)
