package images

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Storage persists a picked image to durable local storage and hands back the
// permanent reference to store on the space.
type Storage interface {
	// Persist copies the image at sourceRef into durable storage and returns
	// the permanent reference. An empty sourceRef returns an empty reference;
	// the caller falls back to the placeholder asset.
	Persist(sourceRef string) (string, error)
	// Load reads the image bytes behind a permanent reference.
	Load(ref string) ([]byte, error)
}

type DiskStorage struct {
	root string
}

func NewDiskStorage(root string) (*DiskStorage, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create image storage root: %w", err)
	}
	return &DiskStorage{root: root}, nil
}

func (s *DiskStorage) Persist(sourceRef string) (string, error) {
	if sourceRef == "" {
		return "", nil
	}

	src, err := os.Open(sourceRef)
	if err != nil {
		return "", fmt.Errorf("failed to open source image: %w", err)
	}
	defer src.Close()

	name := uuid.NewString() + filepath.Ext(sourceRef)
	permanent := filepath.Join(s.root, name)

	dst, err := os.Create(permanent)
	if err != nil {
		return "", fmt.Errorf("failed to create stored image: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(permanent)
		return "", fmt.Errorf("failed to copy image: %w", err)
	}

	return permanent, nil
}

func (s *DiskStorage) Load(ref string) ([]byte, error) {
	data, err := os.ReadFile(ref)
	if err != nil {
		return nil, fmt.Errorf("failed to read stored image: %w", err)
	}
	return data, nil
}
