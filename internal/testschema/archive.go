package testschema

import (
	"context"

	"github.com/hupe1980/flatdata"
	"github.com/hupe1980/flatdata/storage"
)

const (
	SchemaSub = "namespace test {\narchive Sub {\n    payload : raw_data;\n}\n}\n"

	SchemaSubPayload = "namespace test {\narchive Sub {\n    payload : raw_data;\n}\n}\n"

	SchemaBlobs = "namespace test {\narchive Blobs {\n    data : raw_data;\n    @optional\n    optional_data : raw_data;\n}\n}\n"

	SchemaBlobsData         = "namespace test {\narchive Blobs {\n    data : raw_data;\n}\n}\n"
	SchemaBlobsOptionalData = "namespace test {\narchive Blobs {\n    @optional\n    optional_data : raw_data;\n}\n}\n"

	SchemaArchive = "namespace test {\n" +
		"archive Archive {\n" +
		"    data : raw_data;\n" +
		"    @optional\n    optional_data : raw_data;\n" +
		"    header : .test.S;\n" +
		"    @optional\n    footer : .test.S;\n" +
		"    items : vector< .test.S >;\n" +
		"    nodes : vector< .test.Node >;\n" +
		"    @optional\n    values : vector< .test.Signed >;\n" +
		"    multi : multivector< 32, .test.A, .test.B >;\n" +
		"    @optional\n    sub : archive .test.Sub;\n" +
		"    required_sub : archive .test.Sub;\n" +
		"}\n}\n"

	SchemaArchiveData         = "namespace test {\narchive Archive {\n    data : raw_data;\n}\n}\n"
	SchemaArchiveOptionalData = "namespace test {\narchive Archive {\n    @optional\n    optional_data : raw_data;\n}\n}\n"
	SchemaArchiveHeader       = SchemaS + "namespace test {\narchive Archive {\n    header : .test.S;\n}\n}\n"
	SchemaArchiveFooter       = SchemaS + "namespace test {\narchive Archive {\n    @optional\n    footer : .test.S;\n}\n}\n"
	SchemaArchiveItems        = SchemaS + "namespace test {\narchive Archive {\n    items : vector< .test.S >;\n}\n}\n"
	SchemaArchiveNodes        = SchemaNode + "namespace test {\narchive Archive {\n    nodes : vector< .test.Node >;\n}\n}\n"
	SchemaArchiveValues       = SchemaSigned + "namespace test {\narchive Archive {\n    @optional\n    values : vector< .test.Signed >;\n}\n}\n"
	SchemaArchiveMulti        = SchemaA + SchemaB + "namespace test {\narchive Archive {\n    multi : multivector< 32, .test.A, .test.B >;\n}\n}\n"
)

// MultiIndexBits is the index width of Archive.multi.
const MultiIndexBits = 32

// Sub

type Sub struct {
	payload []byte
}

func OpenSub(ctx context.Context, st *storage.ResourceStorage) (*Sub, error) {
	if err := flatdata.OpenArchive(ctx, st, "Sub", SchemaSub); err != nil {
		return nil, err
	}
	payload, err := flatdata.ReadRaw(ctx, st, "payload", SchemaSubPayload)
	if err != nil {
		return nil, err
	}
	return &Sub{payload: payload}, nil
}

func (a *Sub) Payload() []byte { return a.payload }

type SubBuilder struct {
	st *storage.ResourceStorage
}

func CreateSub(ctx context.Context, st *storage.ResourceStorage) (*SubBuilder, error) {
	if err := flatdata.CreateArchive(ctx, st, "Sub", SchemaSub); err != nil {
		return nil, err
	}
	return &SubBuilder{st: st}, nil
}

func (b *SubBuilder) SetPayload(ctx context.Context, data []byte) error {
	return flatdata.WriteRaw(ctx, b.st, "payload", SchemaSubPayload, data)
}

// Blobs

type Blobs struct {
	data         []byte
	optionalData []byte
	hasOptional  bool
}

func OpenBlobs(ctx context.Context, st *storage.ResourceStorage) (*Blobs, error) {
	if err := flatdata.OpenArchive(ctx, st, "Blobs", SchemaBlobs); err != nil {
		return nil, err
	}
	a := &Blobs{}
	var err error
	if a.data, err = flatdata.ReadRaw(ctx, st, "data", SchemaBlobsData); err != nil {
		return nil, err
	}
	a.optionalData, a.hasOptional = flatdata.Optional(ctx, st, "optional_data", func() ([]byte, error) {
		return flatdata.ReadRaw(ctx, st, "optional_data", SchemaBlobsOptionalData)
	})
	return a, nil
}

func (a *Blobs) Data() []byte { return a.data }

func (a *Blobs) OptionalData() ([]byte, bool) { return a.optionalData, a.hasOptional }

type BlobsBuilder struct {
	st *storage.ResourceStorage
}

func CreateBlobs(ctx context.Context, st *storage.ResourceStorage) (*BlobsBuilder, error) {
	if err := flatdata.CreateArchive(ctx, st, "Blobs", SchemaBlobs); err != nil {
		return nil, err
	}
	return &BlobsBuilder{st: st}, nil
}

func (b *BlobsBuilder) SetData(ctx context.Context, data []byte) error {
	return flatdata.WriteRaw(ctx, b.st, "data", SchemaBlobsData, data)
}

func (b *BlobsBuilder) SetOptionalData(ctx context.Context, data []byte) error {
	return flatdata.WriteRaw(ctx, b.st, "optional_data", SchemaBlobsOptionalData, data)
}

// Archive

type Archive struct {
	data         []byte
	optionalData []byte
	hasOptional  bool
	header       SRef
	footer       SRef
	hasFooter    bool
	items        flatdata.ArrayView[SRef]
	nodes        flatdata.ArrayView[NodeRef]
	values       flatdata.ArrayView[SignedRef]
	hasValues    bool
	multi        flatdata.MultiArrayView[Multi]
	sub          *Sub
	requiredSub  *Sub
}

func OpenArchive(ctx context.Context, st *storage.ResourceStorage) (*Archive, error) {
	if err := flatdata.OpenArchive(ctx, st, "Archive", SchemaArchive); err != nil {
		return nil, err
	}
	a := &Archive{}
	var err error
	if a.data, err = flatdata.ReadRaw(ctx, st, "data", SchemaArchiveData); err != nil {
		return nil, err
	}
	a.optionalData, a.hasOptional = flatdata.Optional(ctx, st, "optional_data", func() ([]byte, error) {
		return flatdata.ReadRaw(ctx, st, "optional_data", SchemaArchiveOptionalData)
	})
	if a.header, err = flatdata.ReadStruct(ctx, st, "header", SchemaArchiveHeader, SLayout); err != nil {
		return nil, err
	}
	a.footer, a.hasFooter = flatdata.Optional(ctx, st, "footer", func() (SRef, error) {
		return flatdata.ReadStruct(ctx, st, "footer", SchemaArchiveFooter, SLayout)
	})
	if a.items, err = flatdata.ReadArray(ctx, st, "items", SchemaArchiveItems, SLayout); err != nil {
		return nil, err
	}
	if a.nodes, err = flatdata.ReadArray(ctx, st, "nodes", SchemaArchiveNodes, NodeLayout); err != nil {
		return nil, err
	}
	a.values, a.hasValues = flatdata.Optional(ctx, st, "values", func() (flatdata.ArrayView[SignedRef], error) {
		return flatdata.ReadArray(ctx, st, "values", SchemaArchiveValues, SignedLayout)
	})
	if a.multi, err = flatdata.ReadMultiArray(ctx, st, "multi", SchemaArchiveMulti, MultiIndexBits, MultiVariants); err != nil {
		return nil, err
	}
	a.sub, _ = flatdata.Optional(ctx, st, "sub", func() (*Sub, error) {
		return OpenSub(ctx, st.Subdir("sub"))
	})
	if a.requiredSub, err = OpenSub(ctx, st.Subdir("required_sub")); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *Archive) Data() []byte                                  { return a.data }
func (a *Archive) OptionalData() ([]byte, bool)                  { return a.optionalData, a.hasOptional }
func (a *Archive) Header() SRef                                  { return a.header }
func (a *Archive) Footer() (SRef, bool)                          { return a.footer, a.hasFooter }
func (a *Archive) Items() flatdata.ArrayView[SRef]               { return a.items }
func (a *Archive) Nodes() flatdata.ArrayView[NodeRef]            { return a.nodes }
func (a *Archive) Values() (flatdata.ArrayView[SignedRef], bool) { return a.values, a.hasValues }
func (a *Archive) Multi() flatdata.MultiArrayView[Multi]         { return a.multi }
func (a *Archive) Sub() (*Sub, bool)                             { return a.sub, a.sub != nil }
func (a *Archive) RequiredSub() *Sub                             { return a.requiredSub }

type ArchiveBuilder struct {
	st *storage.ResourceStorage
}

func CreateArchive(ctx context.Context, st *storage.ResourceStorage) (*ArchiveBuilder, error) {
	if err := flatdata.CreateArchive(ctx, st, "Archive", SchemaArchive); err != nil {
		return nil, err
	}
	return &ArchiveBuilder{st: st}, nil
}

func (b *ArchiveBuilder) SetData(ctx context.Context, data []byte) error {
	return flatdata.WriteRaw(ctx, b.st, "data", SchemaArchiveData, data)
}

func (b *ArchiveBuilder) SetOptionalData(ctx context.Context, data []byte) error {
	return flatdata.WriteRaw(ctx, b.st, "optional_data", SchemaArchiveOptionalData, data)
}

func (b *ArchiveBuilder) SetHeader(ctx context.Context, fill func(SMut)) error {
	return flatdata.WriteStruct(ctx, b.st, "header", SchemaArchiveHeader, SLayout, fill)
}

func (b *ArchiveBuilder) SetFooter(ctx context.Context, fill func(SMut)) error {
	return flatdata.WriteStruct(ctx, b.st, "footer", SchemaArchiveFooter, SLayout, fill)
}

func (b *ArchiveBuilder) SetItems(ctx context.Context, v *flatdata.Vector[SRef, SMut]) error {
	return flatdata.WriteVector(ctx, b.st, "items", SchemaArchiveItems, v)
}

func (b *ArchiveBuilder) StartItems(ctx context.Context, opts ...flatdata.Option) (*flatdata.ExternalVector[SRef, SMut], error) {
	return flatdata.StartVector(ctx, b.st, "items", SchemaArchiveItems, SLayout, opts...)
}

func (b *ArchiveBuilder) SetNodes(ctx context.Context, v *flatdata.Vector[NodeRef, NodeMut]) error {
	return flatdata.WriteVector(ctx, b.st, "nodes", SchemaArchiveNodes, v)
}

func (b *ArchiveBuilder) StartValues(ctx context.Context, opts ...flatdata.Option) (*flatdata.ExternalVector[SignedRef, SignedMut], error) {
	return flatdata.StartVector(ctx, b.st, "values", SchemaArchiveValues, SignedLayout, opts...)
}

func (b *ArchiveBuilder) StartMulti(ctx context.Context, opts ...flatdata.Option) (*MultiBuilder, error) {
	mv, err := flatdata.StartMultiVector(ctx, b.st, "multi", SchemaArchiveMulti, MultiIndexBits, MultiVariants, opts...)
	if err != nil {
		return nil, err
	}
	return &MultiBuilder{mv}, nil
}

func (b *ArchiveBuilder) Sub(ctx context.Context) (*SubBuilder, error) {
	return CreateSub(ctx, b.st.Subdir("sub"))
}

func (b *ArchiveBuilder) RequiredSub(ctx context.Context) (*SubBuilder, error) {
	return CreateSub(ctx, b.st.Subdir("required_sub"))
}

// MultiBuilder grows buckets of Archive.multi.
type MultiBuilder struct {
	*flatdata.MultiVector[Multi]
}

func (m *MultiBuilder) Grow() MultiBucket { return MultiBucket{m.MultiVector.Grow()} }
