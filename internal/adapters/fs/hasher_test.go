package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/cespare/xxhash/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/ffbuild/internal/adapters/fs"
)

func TestComputeFileHash(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.py")
	writeFile(t, path, "WRDS_USERNAME = 'me'\n")

	sum, err := fs.ComputeFileHash(path)
	require.NoError(t, err)
	assert.Equal(t, xxhash.Sum64String("WRDS_USERNAME = 'me'\n"), sum)

	_, err = fs.ComputeFileHash(filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
}

func TestHasher_DigestFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.txt"), "alpha")
	writeFile(t, filepath.Join(root, "b.txt"), "beta")

	h := fs.NewHasher(fs.NewWalker())
	digests, err := h.DigestFiles(context.Background(), root, []string{"a.txt", "b.txt", "gone.txt"})
	require.NoError(t, err)

	require.Len(t, digests, 3)
	assert.NotEqual(t, digests["a.txt"], digests["b.txt"])
	assert.Equal(t, fs.MissingDigest, digests["gone.txt"])

	again, err := h.DigestFiles(context.Background(), root, []string{"a.txt", "b.txt", "gone.txt"})
	require.NoError(t, err)
	assert.Equal(t, digests, again)
}

func TestHasher_DigestFiles_ContentChange(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "src", "calc_Fama_French_1993.py")
	writeFile(t, path, "v1")

	h := fs.NewHasher(fs.NewWalker())
	before, err := h.DigestFiles(context.Background(), root, []string{filepath.Join("src", "calc_Fama_French_1993.py")})
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("v2"), 0o600))
	after, err := h.DigestFiles(context.Background(), root, []string{filepath.Join("src", "calc_Fama_French_1993.py")})
	require.NoError(t, err)

	assert.NotEqual(t, before, after)
}

func TestHasher_DigestFiles_Directory(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "src", "one.py"), "1")
	writeFile(t, filepath.Join(root, "src", "__pycache__", "one.cpython-312.pyc"), "bytecode")

	h := fs.NewHasher(fs.NewWalker())
	before, err := h.DigestFiles(context.Background(), root, []string{"src"})
	require.NoError(t, err)

	// Caches do not participate in the digest.
	writeFile(t, filepath.Join(root, "src", "__pycache__", "one.cpython-312.pyc"), "other bytecode")
	same, err := h.DigestFiles(context.Background(), root, []string{"src"})
	require.NoError(t, err)
	assert.Equal(t, before, same)

	writeFile(t, filepath.Join(root, "src", "two.py"), "2")
	after, err := h.DigestFiles(context.Background(), root, []string{"src"})
	require.NoError(t, err)
	assert.NotEqual(t, before, after)
}

func TestHasher_DigestFiles_Cancelled(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.txt"), "alpha")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := fs.NewHasher(fs.NewWalker()).DigestFiles(ctx, root, []string{"a.txt"})
	require.ErrorIs(t, err, context.Canceled)
}
