package mmap

import "errors"

// AccessPattern is a hint to the kernel about how mapped pages are read.
type AccessPattern int

const (
	// AccessDefault gives no specific advice.
	AccessDefault AccessPattern = iota
	// AccessSequential expects front-to-back reads (array iteration).
	AccessSequential
	// AccessRandom expects point lookups (At on large views).
	AccessRandom
	// AccessWillNeed asks the kernel to prefetch.
	AccessWillNeed
)

var (
	// ErrClosed is returned when a closed mapping is used.
	ErrClosed = errors.New("mmap: mapping is closed")
	// ErrInvalidSize is returned for files whose size cannot be mapped.
	ErrInvalidSize = errors.New("mmap: invalid file size")
)
