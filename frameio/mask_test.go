package frameio

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/swdee/go-vibe"
)

func TestLoadMaskThresholds(t *testing.T) {

	// grayscale image with off, dim and bright pixels
	img := image.NewGray(image.Rect(0, 0, 3, 1))
	img.Pix = []uint8{0, 1, 255}

	path := filepath.Join(t.TempDir(), "gt.png")

	f, err := os.Create(path)

	if err != nil {
		t.Fatalf("failed to create file: %v", err)
	}

	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode png: %v", err)
	}

	f.Close()

	mask, err := LoadMask(path)

	if err != nil {
		t.Fatalf("load mask failed: %v", err)
	}

	if mask.Width != 3 || mask.Height != 1 {
		t.Fatalf("mask is %dx%d, want 3x1", mask.Width, mask.Height)
	}

	want := []uint8{vibe.Background, vibe.Foreground, vibe.Foreground}

	for i, label := range want {
		if mask.Pix[i] != label {
			t.Errorf("pixel %d = %d, want %d", i, mask.Pix[i], label)
		}
	}
}

func TestSaveMaskPNG(t *testing.T) {

	mask := vibe.NewMask(4, 2)
	mask.Set(1, 0, vibe.Foreground)
	mask.Set(3, 1, vibe.Foreground)

	path := filepath.Join(t.TempDir(), "mask.png")

	if err := SaveMaskPNG(path, mask); err != nil {
		t.Fatalf("save mask failed: %v", err)
	}

	loaded, err := LoadMask(path)

	if err != nil {
		t.Fatalf("load mask failed: %v", err)
	}

	for i := range mask.Pix {
		if loaded.Pix[i] != mask.Pix[i] {
			t.Errorf("pixel %d = %d, want %d", i, loaded.Pix[i], mask.Pix[i])
		}
	}
}

func TestLoadMaskMissingFile(t *testing.T) {

	if _, err := LoadMask(filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Error("expected error for missing file")
	}
}
