package storage

import (
	"context"
	"os"
	"path/filepath"
	"regexp"

	"github.com/pkg/errors"
)

var unsafeKeyChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// FileAdapter stores each snapshot as a JSON file under dir.
type FileAdapter struct {
	dir string
}

func NewFileAdapter(dir string) (*FileAdapter, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "create storage dir %s", dir)
	}
	return &FileAdapter{dir: dir}, nil
}

func (f *FileAdapter) Read(ctx context.Context, key string) ([]byte, error) {
	path, err := f.path(key)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "read snapshot %s", key)
	}
	return data, nil
}

// Write replaces the snapshot atomically so a crash never leaves a half-written file.
func (f *FileAdapter) Write(ctx context.Context, key string, data []byte) error {
	path, err := f.path(key)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(f.dir, ".snapshot-*")
	if err != nil {
		return errors.Wrap(err, "create temp snapshot")
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "write snapshot %s", key)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrapf(err, "close snapshot %s", key)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrapf(err, "replace snapshot %s", key)
	}
	return nil
}

func (f *FileAdapter) path(key string) (string, error) {
	if key == "" {
		return "", ErrEmptyKey
	}
	return filepath.Join(f.dir, unsafeKeyChars.ReplaceAllString(key, "_")+".json"), nil
}
