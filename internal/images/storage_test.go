package images

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDiskStoragePersistAndLoad(t *testing.T) {
	root := t.TempDir()

	storage, err := NewDiskStorage(root)
	if err != nil {
		t.Fatalf("NewDiskStorage: %v", err)
	}

	source := filepath.Join(t.TempDir(), "picked.jpg")
	if err := os.WriteFile(source, []byte("jpeg-bytes"), 0o644); err != nil {
		t.Fatalf("write source image: %v", err)
	}

	ref, err := storage.Persist(source)
	if err != nil {
		t.Fatalf("Persist: %v", err)
	}
	if !strings.HasPrefix(ref, root) {
		t.Errorf("permanent ref %q not under storage root %q", ref, root)
	}
	if filepath.Ext(ref) != ".jpg" {
		t.Errorf("permanent ref %q lost the source extension", ref)
	}

	data, err := storage.Load(ref)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if string(data) != "jpeg-bytes" {
		t.Errorf("loaded %q, want original bytes", data)
	}

	// Deleting the source must not affect the stored copy.
	os.Remove(source)
	if _, err := storage.Load(ref); err != nil {
		t.Errorf("stored copy unreadable after source removed: %v", err)
	}
}

func TestDiskStoragePersistEmptySource(t *testing.T) {
	storage, err := NewDiskStorage(t.TempDir())
	if err != nil {
		t.Fatalf("NewDiskStorage: %v", err)
	}

	ref, err := storage.Persist("")
	if err != nil {
		t.Fatalf("Persist(\"\"): %v", err)
	}
	if ref != "" {
		t.Errorf("empty source produced ref %q, want empty", ref)
	}
}

func TestDiskStoragePersistMissingSource(t *testing.T) {
	storage, err := NewDiskStorage(t.TempDir())
	if err != nil {
		t.Fatalf("NewDiskStorage: %v", err)
	}

	if _, err := storage.Persist("/nonexistent/image.png"); err == nil {
		t.Error("expected error for missing source image")
	}
}
