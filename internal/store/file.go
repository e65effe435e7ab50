package store

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
)

type fileBackend struct {
	path string
}

// NewFile returns a Store backed by the JSON document at path. The file and
// its directory are created on the first write.
func NewFile(path string, logger *slog.Logger) *Store {
	return newStore(&fileBackend{path: path}, logger)
}

func (b *fileBackend) read() ([]byte, error) {
	return os.ReadFile(b.path)
}

// write replaces the document through a temp file in the same directory so
// a failed write never truncates the previous content.
func (b *fileBackend) write(data []byte) error {
	dir := filepath.Dir(b.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".loans-*.tmp")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), b.path)
}

func (b *fileBackend) ping(_ context.Context) error {
	return os.MkdirAll(filepath.Dir(b.path), 0o755)
}

func (b *fileBackend) Close() error { return nil }
