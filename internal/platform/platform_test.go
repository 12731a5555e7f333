package platform

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNative_LastModified(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "file.txt")
	require.NoError(t, os.WriteFile(p, []byte("content"), 0o644))

	want := time.Date(2021, time.March, 4, 12, 30, 0, 0, time.UTC)
	require.NoError(t, os.Chtimes(p, want, want))

	got, ok, err := Native().LastModified(p)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, want.Equal(got), "expected %s, got %s", want, got)

	t.Run("missing file has no modification time", func(t *testing.T) {
		got, ok, err := Native().LastModified(filepath.Join(dir, "missing.txt"))
		assert.NoError(t, err)
		assert.False(t, ok)
		assert.True(t, got.IsZero())
	})

	t.Run("epoch is treated as no answer", func(t *testing.T) {
		epoch := time.Unix(0, 0)
		require.NoError(t, os.Chtimes(p, epoch, epoch))

		_, ok, err := Native().LastModified(p)
		assert.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestFromFilesystem_LastModified(t *testing.T) {
	fsys := memfs.New()
	require.NoError(t, util.WriteFile(fsys, "/data/file.txt", []byte("content"), 0o644))

	q := FromFilesystem(fsys)
	got, ok, err := q.LastModified("/data/file.txt")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.WithinDuration(t, time.Now(), got, time.Minute)

	_, ok, err = q.LastModified("/data/missing.txt")
	assert.NoError(t, err)
	assert.False(t, ok)
}
