package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestValidateGroundTruth(t *testing.T) {

	dir := t.TempDir()

	gt := filepath.Join(dir, "groundtruth.bmp")

	if err := os.WriteFile(gt, []byte{0}, 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	if err := validateGroundTruth(gt); err != nil {
		t.Errorf("existing file rejected: %v", err)
	}

	if err := validateGroundTruth(filepath.Join(dir, "missing.bmp")); err == nil {
		t.Error("missing ground truth file accepted")
	}

	if err := validateGroundTruth(dir); err == nil {
		t.Error("directory accepted as ground truth image")
	}
}
