package storage

import (
	"errors"
	"fmt"
	"os"
)

var (
	// ErrNotFound is returned when a resource does not exist.
	//
	// Backends return an error satisfying errors.Is(err, ErrNotFound).
	// It maps to os.ErrNotExist so filesystem errors match directly.
	ErrNotFound = os.ErrNotExist

	// ErrMissingSchema is returned when a resource exists but its schema
	// companion does not.
	ErrMissingSchema = errors.New("missing schema")

	// ErrUnexpectedDataSize is returned when the size prefix of a resource
	// disagrees with its physical length (truncation or corruption).
	ErrUnexpectedDataSize = errors.New("unexpected data size")

	// ErrWrongSignature is matched by *WrongSignatureError.
	ErrWrongSignature = errors.New("wrong signature")

	// ErrInvalidUTF8 is returned when a stored schema is not valid UTF-8.
	ErrInvalidUTF8 = errors.New("schema is not valid UTF-8")

	// ErrAlreadyExists is returned when creating an archive over an existing one.
	ErrAlreadyExists = errors.New("already exists")

	// ErrReadOnly is returned by backends that cannot create resources.
	ErrReadOnly = errors.New("read-only storage")

	// ErrAborted is reported to metrics for resources whose handle was
	// aborted instead of closed.
	ErrAborted = errors.New("resource aborted")
)

// ResourceError attaches the resource name and operation to a failure.
//
// The underlying error can be accessed via errors.Unwrap.
type ResourceError struct {
	Resource string
	Op       string
	Err      error
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("%s resource %q: %v", e.Op, e.Resource, e.Err)
}

func (e *ResourceError) Unwrap() error { return e.Err }

// WrongSignatureError reports a stored schema that differs from the expected one.
type WrongSignatureError struct {
	Resource string
	// Diff is a unified line diff from the expected to the stored schema.
	// It is informational only.
	Diff string
}

func (e *WrongSignatureError) Error() string {
	return fmt.Sprintf("wrong signature of resource %q:\n%s", e.Resource, e.Diff)
}

// Is lets errors.Is(err, ErrWrongSignature) match.
func (e *WrongSignatureError) Is(target error) bool { return target == ErrWrongSignature }

func wrap(op, resource string, err error) error {
	if err == nil {
		return nil
	}
	return &ResourceError{Resource: resource, Op: op, Err: err}
}
