package host

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOSFSWriteFileCreatesParents(t *testing.T) {
	t.Parallel()

	fs := NewOSFS()
	path := filepath.Join(t.TempDir(), "etc", "nginx", "sites-available", "example.com")
	require.NoError(t, fs.WriteFile(path, []byte("server {}"), 0o644))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "server {}", string(data))
}

func TestOSFSSymlinkIdempotent(t *testing.T) {
	t.Parallel()

	fs := NewOSFS()
	dir := t.TempDir()
	target := filepath.Join(dir, "target")
	link := filepath.Join(dir, "link")
	require.NoError(t, os.WriteFile(target, nil, 0o644))

	require.NoError(t, fs.Symlink(target, link))
	// Second call is a no-op, not an EEXIST error.
	require.NoError(t, fs.Symlink(target, link))
}

func TestOSFSRemoveMissingIsNoError(t *testing.T) {
	t.Parallel()

	fs := NewOSFS()
	assert.NoError(t, fs.Remove(filepath.Join(t.TempDir(), "ghost")))
}

func TestMemFS(t *testing.T) {
	t.Parallel()

	fs := NewMemFS()
	require.NoError(t, fs.WriteFile("/a", []byte("x"), 0o644))
	require.NoError(t, fs.Symlink("/a", "/b"))

	assert.Equal(t, []byte("x"), fs.Files["/a"])
	assert.Equal(t, "/a", fs.Links["/b"])

	require.NoError(t, fs.Remove("/a"))
	require.NoError(t, fs.Remove("/b"))
	assert.Empty(t, fs.Files)
	assert.Empty(t, fs.Links)
}

func TestDryFSRecordsWrites(t *testing.T) {
	t.Parallel()

	fs := NewDryFS()
	path := filepath.Join(t.TempDir(), "motd")
	require.NoError(t, fs.WriteFile(path, []byte("hi"), 0o644))
	assert.Equal(t, []string{path}, fs.Written)

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "dry fs must not touch the disk")
}
