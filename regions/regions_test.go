package regions

import (
	"image"
	"testing"

	"github.com/swdee/go-vibe"
)

// maskFromGrid creates a mask from a grid of 0/1 rows where 1 is foreground
func maskFromGrid(t *testing.T, grid []string) *vibe.Mask {

	height := len(grid)
	width := len(grid[0])

	mask := vibe.NewMask(width, height)

	for y, row := range grid {

		if len(row) != width {
			t.Fatalf("row %d length %d does not match width %d", y, len(row), width)
		}

		for x, ch := range row {
			if ch == '1' {
				mask.Set(x, y, vibe.Foreground)
			}
		}
	}

	return mask
}

func TestExtract(t *testing.T) {

	mask := maskFromGrid(t, []string{
		"1100000000",
		"1100000110",
		"0000000110",
		"0000000000",
		"0001000000",
	})

	regions := Extract(mask, 1)

	if len(regions) != 3 {
		t.Fatalf("expected 3 regions, got %d", len(regions))
	}

	expected := []Region{
		{Bounds: image.Rect(0, 0, 2, 2), Area: 4},
		{Bounds: image.Rect(7, 1, 9, 3), Area: 4},
		{Bounds: image.Rect(3, 4, 4, 5), Area: 1},
	}

	for i, want := range expected {

		got := regions[i]

		if got.Bounds != want.Bounds {
			t.Errorf("region %d bounds = %v, want %v", i, got.Bounds, want.Bounds)
		}

		if got.Area != want.Area {
			t.Errorf("region %d area = %d, want %d", i, got.Area, want.Area)
		}
	}
}

func TestExtractDiagonalConnectivity(t *testing.T) {

	// diagonal pixels join under 8 connectivity
	mask := maskFromGrid(t, []string{
		"100",
		"010",
		"001",
	})

	regions := Extract(mask, 1)

	if len(regions) != 1 {
		t.Fatalf("expected 1 region, got %d", len(regions))
	}

	if regions[0].Area != 3 {
		t.Errorf("expected area 3, got %d", regions[0].Area)
	}
}

func TestExtractMinArea(t *testing.T) {

	mask := maskFromGrid(t, []string{
		"1100000000",
		"1100000100",
	})

	regions := Extract(mask, 2)

	if len(regions) != 1 {
		t.Fatalf("expected single region above min area, got %d", len(regions))
	}

	if regions[0].Area != 4 {
		t.Errorf("expected area 4, got %d", regions[0].Area)
	}
}

func TestExtractEmptyMask(t *testing.T) {

	mask := vibe.NewMask(8, 8)

	if regions := Extract(mask, 1); len(regions) != 0 {
		t.Errorf("expected no regions on empty mask, got %d", len(regions))
	}
}

func TestMergeOverlapping(t *testing.T) {

	regions := []Region{
		{Bounds: image.Rect(0, 0, 4, 4), Area: 10},
		{Bounds: image.Rect(2, 2, 6, 6), Area: 8},
		{Bounds: image.Rect(10, 10, 12, 12), Area: 4},
	}

	merged := Merge(regions)

	if len(merged) != 2 {
		t.Fatalf("expected 2 merged regions, got %d", len(merged))
	}

	// order of clipper output polygons is not defined, index by bounds
	byBounds := make(map[image.Rectangle]Region)

	for _, r := range merged {
		byBounds[r.Bounds] = r
	}

	big, ok := byBounds[image.Rect(0, 0, 6, 6)]

	if !ok {
		t.Fatalf("missing merged region covering overlap, got %v", merged)
	}

	if big.Area != 18 {
		t.Errorf("merged area = %d, want 18", big.Area)
	}

	if _, ok := byBounds[image.Rect(10, 10, 12, 12)]; !ok {
		t.Errorf("isolated region missing from merge result, got %v", merged)
	}
}

// TestMergeIsolatedInsideUnionBounds verifies a region sitting inside the
// bounding rectangle of an L shaped union, without overlapping any of its
// members, keeps its own area and is not double counted into the union
func TestMergeIsolatedInsideUnionBounds(t *testing.T) {

	regions := []Region{
		{Bounds: image.Rect(0, 0, 10, 2), Area: 20},
		{Bounds: image.Rect(0, 0, 2, 10), Area: 20},
		{Bounds: image.Rect(5, 5, 7, 7), Area: 4},
	}

	merged := Merge(regions)

	if len(merged) != 2 {
		t.Fatalf("expected 2 merged regions, got %d", len(merged))
	}

	byBounds := make(map[image.Rectangle]Region)
	total := 0

	for _, r := range merged {
		byBounds[r.Bounds] = r
		total += r.Area
	}

	union, ok := byBounds[image.Rect(0, 0, 10, 10)]

	if !ok {
		t.Fatalf("missing merged region covering the union, got %v", merged)
	}

	if union.Area != 40 {
		t.Errorf("union area = %d, want 40", union.Area)
	}

	isolated, ok := byBounds[image.Rect(5, 5, 7, 7)]

	if !ok {
		t.Fatalf("isolated region missing from merge result, got %v", merged)
	}

	if isolated.Area != 4 {
		t.Errorf("isolated area = %d, want 4", isolated.Area)
	}

	if total != 44 {
		t.Errorf("merged areas sum to %d, want the input total 44", total)
	}
}

func TestMergeSingle(t *testing.T) {

	regions := []Region{{Bounds: image.Rect(1, 1, 3, 3), Area: 4}}

	merged := Merge(regions)

	if len(merged) != 1 || merged[0] != regions[0] {
		t.Errorf("single region changed by merge: %v", merged)
	}
}
