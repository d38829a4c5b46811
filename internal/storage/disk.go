// Package storage holds the blob store for uploaded images. The rest of the
// system treats the returned reference as an opaque string.
package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

var ErrUnsupportedType = errors.New("unsupported image type")

// MaxUploadSize caps accepted image uploads at 10MB.
const MaxUploadSize = 10 << 20

var allowedTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
}

// BlobStore persists an uploaded image and returns an opaque reference.
type BlobStore interface {
	Save(filename, contentType string, r io.Reader) (string, error)
}

// DiskStore writes images under a local directory, served statically by the
// server. Filenames are prefixed with a nanosecond timestamp to keep them
// unique.
type DiskStore struct {
	dir string
}

func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating upload dir: %w", err)
	}
	return &DiskStore{dir: dir}, nil
}

func (s *DiskStore) Save(filename, contentType string, r io.Reader) (string, error) {
	if !allowedTypes[contentType] {
		return "", ErrUnsupportedType
	}

	name := fmt.Sprintf("%d_%s", time.Now().UnixNano(), filepath.Base(filename))
	path := filepath.Join(s.dir, name)

	dst, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, r); err != nil {
		os.Remove(path)
		return "", err
	}

	return name, nil
}
