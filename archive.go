package flatdata

import (
	"context"
	"fmt"

	"github.com/hupe1980/flatdata/storage"
)

// SignatureSuffix is appended to an archive name to form its signature
// resource.
const SignatureSuffix = ".archive"

// OpenArchive checks that st holds an archive called name with the given
// schema by reading its zero-length signature resource.
func OpenArchive(ctx context.Context, st *storage.ResourceStorage, name, schema string) error {
	_, err := st.Read(ctx, name+SignatureSuffix, schema)
	logger(st).LogOpen(ctx, name, false, err)
	return err
}

// CreateArchive writes the signature resource of a new archive. It fails
// with ErrAlreadyExists when st already holds one.
func CreateArchive(ctx context.Context, st *storage.ResourceStorage, name, schema string) error {
	sig := name + SignatureSuffix
	ok, err := st.Exists(ctx, sig)
	if err == nil && ok {
		err = &storage.ResourceError{Resource: sig, Op: "create", Err: ErrAlreadyExists}
	}
	if err == nil {
		err = st.Write(ctx, sig, schema, nil)
	}
	logger(st).LogOpen(ctx, name, true, err)
	return err
}

func logger(st *storage.ResourceStorage) *Logger {
	return &Logger{Logger: st.Logger()}
}

// ReadRaw reads a raw byte resource.
func ReadRaw(ctx context.Context, st *storage.ResourceStorage, name, schema string) ([]byte, error) {
	return st.Read(ctx, name, schema)
}

// ReadStruct reads a single-struct resource.
func ReadStruct[R, W any](ctx context.Context, st *storage.ResourceStorage, name, schema string, layout *Layout[R, W]) (R, error) {
	var zero R
	data, err := st.Read(ctx, name, schema)
	if err != nil {
		return zero, err
	}
	if len(data) != layout.SizeInBytes() {
		return zero, &storage.ResourceError{
			Resource: name,
			Op:       "read",
			Err:      fmt.Errorf("%w: struct %s is %d bytes, resource holds %d", ErrUnexpectedDataSize, layout.Type().Name, layout.SizeInBytes(), len(data)),
		}
	}
	return layout.Ref(data), nil
}

// ReadArray reads a vector resource.
func ReadArray[R, W any](ctx context.Context, st *storage.ResourceStorage, name, schema string, layout *Layout[R, W]) (ArrayView[R], error) {
	data, err := st.Read(ctx, name, schema)
	if err != nil {
		return ArrayView[R]{}, err
	}
	return NewArrayView(layout, data), nil
}

// ReadMultiArray reads a multivector resource and its index.
func ReadMultiArray[T any](ctx context.Context, st *storage.ResourceStorage, name, schema string, indexBits uint, variants []Variant[T]) (MultiArrayView[T], error) {
	indexName, indexSchema := IndexResource(name, schema)
	index, err := ReadArray(ctx, st, indexName, indexSchema, IndexLayout(indexBits))
	if err != nil {
		return MultiArrayView[T]{}, err
	}
	data, err := st.Read(ctx, name, schema)
	if err != nil {
		return MultiArrayView[T]{}, err
	}
	return NewMultiArrayView(index, data, variants), nil
}

// Optional runs read for an optional resource. Any failure yields absent;
// failures other than a resource that was never written are logged at
// warn level since they hide corruption.
func Optional[V any](ctx context.Context, st *storage.ResourceStorage, name string, read func() (V, error)) (V, bool) {
	v, err := read()
	if err == nil {
		return v, true
	}
	if !isAbsent(err) {
		st.Logger().WarnContext(ctx, "optional resource unreadable, treating as absent",
			"resource", name,
			"error", err,
		)
	}
	var zero V
	return zero, false
}

// WriteRaw writes a raw byte resource.
func WriteRaw(ctx context.Context, st *storage.ResourceStorage, name, schema string, data []byte) error {
	return st.Write(ctx, name, schema, data)
}

// WriteStruct writes a single-struct resource whose fields are set by fill.
func WriteStruct[R, W any](ctx context.Context, st *storage.ResourceStorage, name, schema string, layout *Layout[R, W], fill func(W)) error {
	buf := make([]byte, layout.SizeInBytes())
	fill(layout.Mut(buf))
	return st.Write(ctx, name, schema, buf)
}

// WriteVector writes the grown records of v.
func WriteVector[R, W any](ctx context.Context, st *storage.ResourceStorage, name, schema string, v *Vector[R, W]) error {
	return st.Write(ctx, name, schema, v.Bytes())
}

// StartVector creates a vector resource and returns an ExternalVector
// streaming into it.
func StartVector[R, W any](ctx context.Context, st *storage.ResourceStorage, name, schema string, layout *Layout[R, W], optFns ...Option) (*ExternalVector[R, W], error) {
	h, err := st.CreateResource(ctx, name, schema)
	if err != nil {
		return nil, err
	}
	return NewExternalVector(h, layout, optFns...), nil
}

// StartMultiVector creates a multivector resource and its index and
// returns a MultiVector streaming into them.
func StartMultiVector[T any](ctx context.Context, st *storage.ResourceStorage, name, schema string, indexBits uint, variants []Variant[T], optFns ...Option) (*MultiVector[T], error) {
	indexName, indexSchema := IndexResource(name, schema)
	index, err := StartVector(ctx, st, indexName, indexSchema, IndexLayout(indexBits), optFns...)
	if err != nil {
		return nil, err
	}
	data, err := st.CreateResource(ctx, name, schema)
	if err != nil {
		index.abort(ctx, err)
		return nil, err
	}
	return NewMultiVector(index, data, variants, optFns...), nil
}
