package flatdata

import (
	"errors"

	"github.com/hupe1980/flatdata/storage"
)

// Error kinds surfaced by archive and container operations. They alias the
// storage sentinels so callers need only this package for errors.Is checks.
var (
	ErrNotFound           = storage.ErrNotFound
	ErrMissingSchema      = storage.ErrMissingSchema
	ErrUnexpectedDataSize = storage.ErrUnexpectedDataSize
	ErrWrongSignature     = storage.ErrWrongSignature
	ErrInvalidUTF8        = storage.ErrInvalidUTF8
	ErrAlreadyExists      = storage.ErrAlreadyExists
)

// ErrIndexOverflow is returned when a multivector's data offset no longer
// fits the declared index width.
var ErrIndexOverflow = errors.New("index value exceeds index width")

// WrongSignatureError is the typed form of ErrWrongSignature.
type WrongSignatureError = storage.WrongSignatureError

// ResourceError attaches the resource name and operation to a failure.
type ResourceError = storage.ResourceError

// isAbsent reports whether err is the "never written" kind of failure,
// as opposed to corruption or an I/O error.
func isAbsent(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrMissingSchema)
}
