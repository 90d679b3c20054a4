package localstorage

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// DefaultDir is where clips are written, relative to the working directory.
const DefaultDir = "Downloads"

// LocalStorage implements ports.Storage for the local filesystem.
type LocalStorage struct {
	BaseDir string
}

// NewLocalStorage creates a new LocalStorage instance.
func NewLocalStorage(baseDir string) *LocalStorage {
	return &LocalStorage{BaseDir: baseDir}
}

// Init creates the base directory.
func (s *LocalStorage) Init() error {
	if err := os.MkdirAll(s.BaseDir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", s.BaseDir, err)
	}
	return nil
}

// Path returns the path for a file name.
func (s *LocalStorage) Path(name string) string {
	return filepath.Join(s.BaseDir, name)
}

// Size returns the size of an existing file.
func (s *LocalStorage) Size(name string) (int64, bool, error) {
	info, err := os.Stat(s.Path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to stat %s: %w", s.Path(name), err)
	}
	if info.IsDir() {
		return 0, false, fmt.Errorf("%s is a directory", s.Path(name))
	}
	return info.Size(), true, nil
}

// Create opens a file for writing, truncating it if it exists.
func (s *LocalStorage) Create(name string) (io.WriteCloser, error) {
	path := s.Path(name)
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create file %s: %w", path, err)
	}
	return file, nil
}
