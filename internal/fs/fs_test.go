package fs

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalFS(t *testing.T) {
	tmp := t.TempDir()
	lfs := LocalFS{}

	dir := filepath.Join(tmp, "sub", "archive")
	require.NoError(t, lfs.MkdirAll(dir, 0o755))

	path := filepath.Join(dir, "data")
	f, err := lfs.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_TRUNC, 0o644)
	require.NoError(t, err)

	_, err = f.Write([]byte("00000000hello"))
	require.NoError(t, err)
	_, err = f.Seek(0, io.SeekStart)
	require.NoError(t, err)
	_, err = f.Write([]byte("11"))
	require.NoError(t, err)
	require.NoError(t, f.Sync())
	require.NoError(t, f.Close())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "11000000hello", string(content))

	info, err := lfs.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, int64(13), info.Size())

	require.NoError(t, lfs.Remove(path))
	_, err = lfs.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestFaultyFS(t *testing.T) {
	tmp := t.TempDir()
	ffs := NewFaultyFS(nil)
	ffs.AddRule("data", Fault{FailAfterBytes: 5})
	ffs.AddRule("data_index", Fault{FailAfterBytes: -1, FailOnClose: true})
	custom := errors.New("disk full")
	ffs.AddRule("blob", Fault{FailAfterBytes: -1, FailOnSeek: true, Err: custom})
	ffs.AddRule("locked", Fault{FailOnOpen: true})

	t.Run("WriteLimit", func(t *testing.T) {
		f, err := ffs.OpenFile(filepath.Join(tmp, "data"), os.O_CREATE|os.O_RDWR, 0o644)
		require.NoError(t, err)
		defer f.Close()

		n, err := f.Write([]byte("hello"))
		require.NoError(t, err)
		assert.Equal(t, 5, n)

		n, err = f.Write([]byte("!"))
		assert.ErrorIs(t, err, ErrInjected)
		assert.Equal(t, 0, n)
	})

	t.Run("LongestPatternWins", func(t *testing.T) {
		f, err := ffs.OpenFile(filepath.Join(tmp, "data_index"), os.O_CREATE|os.O_RDWR, 0o644)
		require.NoError(t, err)
		_, err = f.Write([]byte("more than five bytes"))
		require.NoError(t, err)
		assert.ErrorIs(t, f.Close(), ErrInjected)
	})

	t.Run("CustomError", func(t *testing.T) {
		f, err := ffs.OpenFile(filepath.Join(tmp, "blob"), os.O_CREATE|os.O_RDWR, 0o644)
		require.NoError(t, err)
		defer f.Close()
		_, err = f.Seek(0, io.SeekStart)
		assert.ErrorIs(t, err, custom)
	})

	t.Run("OpenFailure", func(t *testing.T) {
		_, err := ffs.OpenFile(filepath.Join(tmp, "locked"), os.O_CREATE|os.O_RDWR, 0o644)
		assert.ErrorIs(t, err, ErrInjected)
	})

	t.Run("Passthrough", func(t *testing.T) {
		dir := filepath.Join(tmp, "plain")
		require.NoError(t, ffs.MkdirAll(dir, 0o755))
		f, err := ffs.OpenFile(filepath.Join(dir, "other"), os.O_CREATE|os.O_RDWR, 0o644)
		require.NoError(t, err)
		_, err = f.Write(make([]byte, 64))
		require.NoError(t, err)
		require.NoError(t, f.Close())
		_, err = ffs.Stat(filepath.Join(dir, "other"))
		require.NoError(t, err)
		require.NoError(t, ffs.Remove(filepath.Join(dir, "other")))
	})
}
