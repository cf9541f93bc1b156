// Package regions extracts connected foreground blobs from a segmentation
// mask as bounding box regions
package regions

import (
	"image"

	clipper "github.com/ctessum/go.clipper"

	"github.com/swdee/go-vibe"
)

// Region is one connected foreground component of a mask
type Region struct {
	// Bounds is the bounding box of the component
	Bounds image.Rectangle
	// Area is the number of foreground pixels in the component
	Area int
}

// Extract labels the 8 connected foreground components of the mask and
// returns one region per component with at least minArea pixels.  Regions
// are returned in scan order of their first pixel
func Extract(mask *vibe.Mask, minArea int) []Region {

	visited := make([]bool, len(mask.Pix))

	var regions []Region

	// scratch stack for the flood fill, reused across components
	var stack []int

	for start, label := range mask.Pix {

		if label == vibe.Background || visited[start] {
			continue
		}

		// flood fill the component collecting its extent
		area := 0
		minX, minY := mask.Width, mask.Height
		maxX, maxY := 0, 0

		stack = append(stack[:0], start)
		visited[start] = true

		for len(stack) > 0 {

			idx := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			x := idx % mask.Width
			y := idx / mask.Width

			area++

			if x < minX {
				minX = x
			}
			if x > maxX {
				maxX = x
			}
			if y < minY {
				minY = y
			}
			if y > maxY {
				maxY = y
			}

			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {

					nx := x + dx
					ny := y + dy

					if nx < 0 || nx >= mask.Width || ny < 0 || ny >= mask.Height {
						continue
					}

					nidx := ny*mask.Width + nx

					if !visited[nidx] && mask.Pix[nidx] != vibe.Background {
						visited[nidx] = true
						stack = append(stack, nidx)
					}
				}
			}
		}

		if area >= minArea {
			regions = append(regions, Region{
				// +1 so the rectangle covers the bottom right pixel
				Bounds: image.Rect(minX, minY, maxX+1, maxY+1),
				Area:   area,
			})
		}
	}

	return regions
}

// Merge unions overlapping region bounding boxes into combined regions.
// Regions whose boxes transitively overlap are grouped, each group's box
// polygons are unioned with clipper and become one region whose area is
// the sum of that group's member areas.  Regions not overlapping anything
// pass through unchanged
func Merge(regions []Region) []Region {

	if len(regions) < 2 {
		return regions
	}

	groups := groupOverlapping(regions)

	merged := make([]Region, 0, len(groups))

	for _, group := range groups {

		if len(group) == 1 {
			merged = append(merged, regions[group[0]])
			continue
		}

		boxes := make(clipper.Paths, len(group))
		area := 0

		for i, idx := range group {
			boxes[i] = rectPath(regions[idx].Bounds)
			area += regions[idx].Area
		}

		c := clipper.NewClipper(clipper.IoNone)
		c.AddPaths(boxes, clipper.PtSubject, true)

		solution, ok := c.Execute1(clipper.CtUnion, clipper.PftNonZero,
			clipper.PftNonZero)

		if !ok || len(solution) == 0 {
			// union failure, keep the group members as they are
			for _, idx := range group {
				merged = append(merged, regions[idx])
			}
			continue
		}

		// a group unions to a single outline, any further solution paths
		// are interior holes so the outer bounds covers them all
		bounds := pathBounds(solution[0])

		for _, path := range solution[1:] {
			bounds = bounds.Union(pathBounds(path))
		}

		merged = append(merged, Region{
			Bounds: bounds,
			Area:   area,
		})
	}

	return merged
}

// groupOverlapping partitions region indexes into groups whose bounding
// boxes transitively overlap, groups are ordered by their first member
func groupOverlapping(regions []Region) [][]int {

	parent := make([]int, len(regions))

	for i := range parent {
		parent[i] = i
	}

	var find func(int) int

	find = func(i int) int {
		for parent[i] != i {
			parent[i] = parent[parent[i]]
			i = parent[i]
		}
		return i
	}

	for i := 0; i < len(regions); i++ {
		for j := i + 1; j < len(regions); j++ {
			if regions[i].Bounds.Overlaps(regions[j].Bounds) {
				parent[find(j)] = find(i)
			}
		}
	}

	index := make(map[int]int)

	var groups [][]int

	for i := range regions {

		root := find(i)

		gi, ok := index[root]

		if !ok {
			gi = len(groups)
			index[root] = gi
			groups = append(groups, nil)
		}

		groups[gi] = append(groups[gi], i)
	}

	return groups
}

// rectPath converts a rectangle to a closed clipper path
func rectPath(r image.Rectangle) clipper.Path {
	return clipper.Path{
		&clipper.IntPoint{X: clipper.CInt(r.Min.X), Y: clipper.CInt(r.Min.Y)},
		&clipper.IntPoint{X: clipper.CInt(r.Max.X), Y: clipper.CInt(r.Min.Y)},
		&clipper.IntPoint{X: clipper.CInt(r.Max.X), Y: clipper.CInt(r.Max.Y)},
		&clipper.IntPoint{X: clipper.CInt(r.Min.X), Y: clipper.CInt(r.Max.Y)},
	}
}

// pathBounds returns the bounding rectangle of a clipper path
func pathBounds(path clipper.Path) image.Rectangle {

	if len(path) == 0 {
		return image.Rectangle{}
	}

	bounds := image.Rect(int(path[0].X), int(path[0].Y),
		int(path[0].X), int(path[0].Y))

	for _, pt := range path[1:] {

		x := int(pt.X)
		y := int(pt.Y)

		if x < bounds.Min.X {
			bounds.Min.X = x
		}
		if x > bounds.Max.X {
			bounds.Max.X = x
		}
		if y < bounds.Min.Y {
			bounds.Min.Y = y
		}
		if y > bounds.Max.Y {
			bounds.Max.Y = y
		}
	}

	return bounds
}
