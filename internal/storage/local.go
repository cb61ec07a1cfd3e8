package storage

import (
	"os"
	"path/filepath"

	graphserrors "github.com/23skdu/graphserving/internal/errors"
)

// LocalBackend opens files under a base directory on the local
// filesystem.
type LocalBackend struct {
	basePath string
}

// NewLocalBackend creates a Backend rooted at basePath.
func NewLocalBackend(basePath string) *LocalBackend {
	return &LocalBackend{basePath: basePath}
}

func (b *LocalBackend) Open(name string) (Reader, error) {
	f, err := os.Open(filepath.Join(b.basePath, name))
	if err != nil {
		return nil, graphserrors.WrapStorageError(err, "LocalBackend.Open", "failed to open partition file "+name)
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, graphserrors.WrapStorageError(err, "LocalBackend.Open", "failed to stat partition file "+name)
	}
	return &localReader{f: f, size: info.Size()}, nil
}

func (b *LocalBackend) List(dir string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(b.basePath, dir))
	if err != nil {
		return nil, graphserrors.WrapStorageError(err, "LocalBackend.List", "failed to list directory "+dir)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		names = append(names, e.Name())
	}
	return names, nil
}

type localReader struct {
	f    *os.File
	size int64
}

func (r *localReader) ReadAt(p []byte, off int64) (int, error) { return r.f.ReadAt(p, off) }
func (r *localReader) Close() error                             { return r.f.Close() }
func (r *localReader) Size() int64                              { return r.size }
