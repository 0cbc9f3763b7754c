package rom

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestGetPut(t *testing.T) {
	img := New(make([]byte, 16))

	if err := img.Put(4, []byte{1, 2, 3}); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, err := img.Get(3, 5)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	expected := []byte{0, 1, 2, 3, 0}
	for i := range expected {
		if got[i] != expected[i] {
			t.Errorf("byte %d: expected %d, got %d", i, expected[i], got[i])
		}
	}

	// Get returns a copy
	got[1] = 0xAA
	again, _ := img.Get(4, 1)
	if again[0] != 1 {
		t.Error("Get should not alias the image")
	}
}

func TestOutOfBounds(t *testing.T) {
	img := New(make([]byte, 8))

	tests := []struct {
		name string
		err  error
	}{
		{"get past end", func() error { _, err := img.Get(6, 3); return err }()},
		{"get negative", func() error { _, err := img.Get(-1, 1); return err }()},
		{"put past end", img.Put(7, []byte{1, 2})},
	}

	for _, tc := range tests {
		if !errors.Is(tc.err, ErrOutOfBounds) {
			t.Errorf("%s: expected ErrOutOfBounds, got %v", tc.name, tc.err)
		}
	}

	if _, err := img.Get(8, 0); err != nil {
		t.Errorf("empty read at end should succeed: %v", err)
	}
}

func TestOpenStripsCopierHeader(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "game.smc")

	data := make([]byte, copierHeaderSize+0x8000)
	data[copierHeaderSize] = 0x42
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("failed to write test ROM: %v", err)
	}

	img, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if !img.HasCopierHeader() {
		t.Error("expected copier header to be detected")
	}
	if img.Len() != 0x8000 {
		t.Errorf("expected length 0x8000, got %#x", img.Len())
	}
	b, _ := img.Get(0, 1)
	if b[0] != 0x42 {
		t.Errorf("expected first byte 0x42, got %#x", b[0])
	}

	out := filepath.Join(dir, "out.smc")
	if err := img.Save(out); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	saved, _ := os.ReadFile(out)
	if len(saved) != len(data) {
		t.Errorf("expected saved size %d, got %d", len(data), len(saved))
	}
}

func TestOpenMissing(t *testing.T) {
	if _, err := Open("/nonexistent/rom.sfc"); err == nil {
		t.Error("expected error opening missing file")
	}
}
