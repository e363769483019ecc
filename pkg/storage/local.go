package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

var ErrEmptyName = errors.New("storage: empty file name")

// Local stores files in a directory on disk, keyed by the uploaded file name.
type Local struct {
	dir string
}

func NewLocal(dir string) *Local {
	return &Local{dir: dir}
}

func (l *Local) Save(name string, r io.Reader) (string, error) {
	base := baseName(name)
	if base == "" {
		return "", ErrEmptyName
	}
	if err := os.MkdirAll(l.dir, os.ModePerm); err != nil {
		return "", fmt.Errorf("create upload directory: %w", err)
	}

	path := filepath.Join(l.dir, base)
	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	if err := out.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", path, err)
	}
	return path, nil
}

func (l *Local) Size(location string) (int64, error) {
	info, err := os.Stat(location)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

func (l *Local) Remove(location string) error {
	if err := os.Remove(location); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
