package fs

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	iofs "io/fs"
	"os"
	"runtime"
	"sync"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/ffbuild/internal/core/domain"
	"go.trai.ch/ffbuild/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

var _ ports.Hasher = (*Hasher)(nil)

// MissingDigest is recorded for dependencies that do not exist, so that
// their later appearance changes the digest set.
const MissingDigest = "missing"

// Hasher computes xxhash digests of dependency files.
type Hasher struct {
	walker *Walker
}

// NewHasher creates a new Hasher.
func NewHasher(walker *Walker) *Hasher {
	return &Hasher{walker: walker}
}

// DigestFiles hashes every path concurrently. Directories are digested over
// the names and contents of the files they contain.
func (h *Hasher) DigestFiles(ctx context.Context, root string, paths []string) (map[string]string, error) {
	var mu sync.Mutex
	digests := make(map[string]string, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for _, p := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			sum, err := h.digestPath(domain.ResolvePath(root, p))
			if err != nil {
				return err
			}
			mu.Lock()
			digests[p] = sum
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return digests, nil
}

func (h *Hasher) digestPath(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, iofs.ErrNotExist) {
			return MissingDigest, nil
		}
		return "", zerr.With(domain.Fail(domain.ErrPathStatFailed, err), "path", path)
	}

	if !info.IsDir() {
		sum, err := ComputeFileHash(path)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%016x", sum), nil
	}

	digest := xxhash.New()
	for file := range h.walker.WalkFiles(path) {
		sum, err := ComputeFileHash(file)
		if err != nil {
			return "", err
		}
		_, _ = digest.WriteString(file)
		_, _ = digest.Write([]byte{0})
		if err := binary.Write(digest, binary.LittleEndian, sum); err != nil {
			return "", zerr.With(domain.Fail(domain.ErrFileHashFailed, err), "path", file)
		}
	}
	return fmt.Sprintf("%016x", digest.Sum64()), nil
}

// ComputeFileHash computes the xxhash of a file's content.
func ComputeFileHash(path string) (uint64, error) {
	f, err := os.Open(path) //nolint:gosec // Path is controlled by caller
	if err != nil {
		return 0, zerr.With(domain.Fail(domain.ErrFileOpenFailed, err), "path", path)
	}
	defer f.Close() //nolint:errcheck // Best effort close in defer

	digest := xxhash.New()
	if _, err := io.Copy(digest, f); err != nil {
		return 0, zerr.With(domain.Fail(domain.ErrFileHashFailed, err), "path", path)
	}
	return digest.Sum64(), nil
}
