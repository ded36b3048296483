package images

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/happyplaces/internal/common"
	"github.com/dmitrijs2005/happyplaces/internal/filex"
	"github.com/google/uuid"
)

type FileStore struct {
	dir string
}

// NewFileStore creates dir if needed.
func NewFileStore(dir string) (*FileStore, error) {
	abs, err := filex.EnsureDir(dir)
	if err != nil {
		return nil, fmt.Errorf("image dir: %w", err)
	}
	return &FileStore{dir: abs}, nil
}

func (s *FileStore) Dir() string {
	return s.dir
}

func (s *FileStore) Store(ctx context.Context, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	format, err := Format(data)
	if err != nil {
		return "", err
	}

	path := filepath.Join(s.dir, uuid.NewString()+extension(format))

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("%w: write %s: %v", common.ErrCaptureFailed, path, err)
	}

	return path, nil
}

func (s *FileStore) Load(ctx context.Context, ref string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := s.resolve(ref)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("image %s: %w", ref, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", ref, err)
	}
	return data, nil
}

func (s *FileStore) Remove(ctx context.Context, ref string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := s.resolve(ref)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", ref, err)
	}
	return nil
}

// resolve keeps refs inside the store directory.
func (s *FileStore) resolve(ref string) (string, error) {
	path := filepath.Clean(ref)
	if !filepath.IsAbs(path) {
		path = filepath.Join(s.dir, path)
	}
	if filepath.Dir(path) != s.dir || strings.HasPrefix(filepath.Base(path), ".") {
		return "", fmt.Errorf("image %s: %w", ref, common.ErrNotFound)
	}
	return path, nil
}
