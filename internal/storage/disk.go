package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"os"
	"path/filepath"
)

// DiskStore writes objects under a single directory.
type DiskStore struct {
	root string
}

// NewDiskStore creates root if needed.
func NewDiskStore(root string) (*DiskStore, error) {
	if root == "" {
		return nil, errors.New("upload dir is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &DiskStore{root: root}, nil
}

func (s *DiskStore) path(name string) (string, error) {
	if !ValidName(name) {
		return "", fmt.Errorf("invalid object name %q", name)
	}
	return filepath.Join(s.root, name), nil
}

// Put writes through a temp file so readers never observe partial content.
func (s *DiskStore) Put(ctx context.Context, name string, r io.Reader, _ int64, _ string) error {
	target, err := s.path(name)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.root, ".upload-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := io.Copy(tmp, r); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %q: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %q: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return fmt.Errorf("rename %q: %w", name, err)
	}
	return nil
}

func (s *DiskStore) Open(_ context.Context, name string) (*Object, error) {
	p, err := s.path(name)
	if err != nil {
		return nil, ErrNotExist
	}
	f, err := os.Open(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotExist
	}
	if err != nil {
		return nil, fmt.Errorf("open %q: %w", name, err)
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("stat %q: %w", name, err)
	}
	if info.IsDir() {
		_ = f.Close()
		return nil, ErrNotExist
	}
	return &Object{
		ReadCloser:  f,
		Size:        info.Size(),
		ContentType: mime.TypeByExtension(filepath.Ext(name)),
		ModTime:     info.ModTime(),
	}, nil
}
