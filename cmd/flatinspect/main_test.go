package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/hupe1980/flatdata"
	"github.com/hupe1980/flatdata/internal/hash"
	"github.com/hupe1980/flatdata/internal/testschema"
	"github.com/hupe1980/flatdata/storage"
	"github.com/hupe1980/flatdata/storage/tarball"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeBlobs(t *testing.T, dir string) {
	t.Helper()
	ctx := context.Background()
	backend := storage.NewFileBackend(dir)
	defer backend.Close()

	b, err := testschema.CreateBlobs(ctx, storage.New(backend))
	require.NoError(t, err)
	require.NoError(t, b.SetData(ctx, []byte("hi")))
}

func TestParseFlags(t *testing.T) {
	cfg, err := parseFlags([]string{"-schema", "-log-level", "debug", "dir", "a", "b"}, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, "dir", cfg.location)
	assert.Equal(t, []string{"a", "b"}, cfg.resources)
	assert.True(t, cfg.schemas)
	assert.Equal(t, slog.LevelDebug, cfg.logLevel)

	_, err = parseFlags(nil, io.Discard)
	assert.Error(t, err)
	_, err = parseFlags([]string{"-log-level", "loud", "dir"}, io.Discard)
	assert.Error(t, err)
}

func TestParseS3URL(t *testing.T) {
	tests := []struct {
		in     string
		bucket string
		prefix string
		ok     bool
	}{
		{"s3://bucket", "bucket", "", true},
		{"s3://bucket/some/prefix/", "bucket", "some/prefix", true},
		{"s3://", "", "", false},
		{"/data/archive", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			bucket, prefix, ok := parseS3URL(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.bucket, bucket)
			assert.Equal(t, tt.prefix, prefix)
		})
	}
}

func TestResourceNames(t *testing.T) {
	names := resourceNames([]string{"a.schema", "a", "b.archive", "b.archive.schema", "orphan.schema"})
	assert.Equal(t, []string{"a", "b.archive", "orphan"}, names)
}

func TestRunDirectory(t *testing.T) {
	dir := t.TempDir()
	writeBlobs(t, dir)

	var out bytes.Buffer
	invalid, err := run(context.Background(), config{location: dir, schemas: true}, flatdata.NoopLogger(), &out)
	require.NoError(t, err)
	assert.Equal(t, 0, invalid)

	s := out.String()
	assert.Contains(t, s, "Blobs.archive")
	assert.Contains(t, s, "data")
	assert.Contains(t, s, "== data ==\n"+testschema.SchemaBlobsData)
}

func TestRunReportsInvalid(t *testing.T) {
	dir := t.TempDir()
	writeBlobs(t, dir)
	require.NoError(t, os.Remove(filepath.Join(dir, "data.schema")))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Blobs.archive"), []byte{1, 2}, 0o644))

	var out bytes.Buffer
	invalid, err := run(context.Background(), config{location: dir}, flatdata.NoopLogger(), &out)
	require.NoError(t, err)
	assert.Equal(t, 2, invalid)
	assert.Contains(t, out.String(), "missing schema")
}

func TestRunTarball(t *testing.T) {
	dir := t.TempDir()
	writeBlobs(t, dir)

	files := map[string][]byte{}
	for _, name := range []string{"Blobs.archive", "Blobs.archive.schema", "data", "data.schema"} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		require.NoError(t, err)
		files[name] = data
	}
	p := filepath.Join(t.TempDir(), "blobs.tar.gz")
	var buf bytes.Buffer
	require.NoError(t, tarball.Write(&buf, tarball.Gzip, files))
	require.NoError(t, os.WriteFile(p, buf.Bytes(), 0o644))

	var out bytes.Buffer
	invalid, err := run(context.Background(), config{location: p, resources: []string{"data", "nope"}}, flatdata.NoopLogger(), &out)
	require.NoError(t, err)
	assert.Equal(t, 1, invalid)
	assert.Contains(t, out.String(), "data")
	assert.Contains(t, out.String(), "nope")
	assert.Contains(t, out.String(), fmt.Sprintf("%08x", hash.Fingerprint(testschema.SchemaBlobsData, []byte("hi"))))
}

func TestRunMissingLocation(t *testing.T) {
	_, err := run(context.Background(), config{location: filepath.Join(t.TempDir(), "absent")}, flatdata.NoopLogger(), io.Discard)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
