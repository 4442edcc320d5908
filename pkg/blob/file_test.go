package blob

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileTarget_PutGet(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	target, err := NewFileTarget(dir)
	require.NoError(t, err)
	assert.Equal(t, DriverFile, target.Driver())

	ctx := context.Background()
	payload := []byte{0x00, 0x01, '\r', '\n', 0xFF}

	require.NoError(t, target.Put(ctx, "binaryfile.bin", payload))
	assert.True(t, target.Exists("binaryfile.bin"))

	got, err := target.Get(ctx, "binaryfile.bin")
	require.NoError(t, err)
	assert.Equal(t, payload, got)

	info, err := os.Stat(target.Path("binaryfile.bin"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestFileTarget_Overwrite(t *testing.T) {
	target, err := NewFileTarget(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, target.Put(ctx, "fleet.bin", []byte("first")))
	require.NoError(t, target.Put(ctx, "fleet.bin", []byte("second")))

	got, err := target.Get(ctx, "fleet.bin")
	require.NoError(t, err)
	assert.Equal(t, "second", string(got))

	entries, err := os.ReadDir(target.Dir())
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestFileTarget_GetMissing(t *testing.T) {
	target, err := NewFileTarget(t.TempDir())
	require.NoError(t, err)

	_, err = target.Get(context.Background(), "missing.bin")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, target.Exists("missing.bin"))
}

func TestFileTarget_InvalidNames(t *testing.T) {
	target, err := NewFileTarget(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	for _, name := range []string{"", ".", "..", "../escape.bin", "sub/dir.bin", `win\path.bin`} {
		t.Run(name, func(t *testing.T) {
			assert.Error(t, target.Put(ctx, name, []byte("x")))
			_, err := target.Get(ctx, name)
			assert.Error(t, err)
			assert.False(t, target.Exists(name))
		})
	}
}

func TestFileTarget_CanceledContext(t *testing.T) {
	target, err := NewFileTarget(t.TempDir())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, target.Put(ctx, "fleet.bin", []byte("x")), context.Canceled)
	assert.False(t, target.Exists("fleet.bin"))
}

func TestFileTarget_UnwritableDirectory(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}
	dir := t.TempDir()
	require.NoError(t, os.Chmod(dir, 0500))
	defer os.Chmod(dir, 0700) //nolint:errcheck

	target, err := NewFileTarget(dir)
	require.NoError(t, err)
	assert.Error(t, target.Put(context.Background(), "fleet.bin", []byte("x")))
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	target, err := Open(ctx, Options{Dir: t.TempDir()})
	require.NoError(t, err)
	assert.Equal(t, DriverFile, target.Driver())

	_, err = Open(ctx, Options{Driver: "ftp"})
	assert.Error(t, err)

	_, err = Open(ctx, Options{Driver: DriverS3})
	assert.Error(t, err, "bucket is required")
}
