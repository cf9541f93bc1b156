// Package render draws segmentation masks and foreground regions onto
// images for saving or display
package render

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/swdee/go-vibe"
	"github.com/swdee/go-vibe/regions"
)

// MaskToMat converts a segmentation mask to a single channel Mat suitable
// for writing with gocv.IMWrite
func MaskToMat(mask *vibe.Mask) (gocv.Mat, error) {
	return gocv.NewMatFromBytes(mask.Height, mask.Width, gocv.MatTypeCV8UC1,
		mask.Pix)
}

// MaskOverlay blends the foreground pixels of the mask over a 3 channel BGR
// image with the given color and alpha transparency.
func MaskOverlay(img *gocv.Mat, mask *vibe.Mask, clr color.RGBA, alpha float32) error {

	width := img.Cols()
	height := img.Rows()

	if width != mask.Width || height != mask.Height {
		return fmt.Errorf("image is %dx%d, mask is %dx%d",
			width, height, mask.Width, mask.Height)
	}

	if img.Channels() != 3 {
		return fmt.Errorf("overlay requires a 3 channel image, got %d",
			img.Channels())
	}

	// manipulating pixels through GoCV is too slow over CGO, so copy the
	// bytes out, blend directly and copy back
	imgData := img.ToBytes()

	for i, label := range mask.Pix {

		if label == vibe.Background {
			continue
		}

		pos := i * 3

		b, g, r := imgData[pos+0], imgData[pos+1], imgData[pos+2]

		imgData[pos+0] = uint8(float32(b)*(1-alpha) + float32(clr.B)*alpha)
		imgData[pos+1] = uint8(float32(g)*(1-alpha) + float32(clr.G)*alpha)
		imgData[pos+2] = uint8(float32(r)*(1-alpha) + float32(clr.R)*alpha)
	}

	tmpImg, err := gocv.NewMatFromBytes(height, width, gocv.MatTypeCV8UC3,
		imgData)

	if err != nil {
		return fmt.Errorf("creating blended mat: %w", err)
	}

	defer tmpImg.Close()

	tmpImg.CopyTo(img)

	return nil
}

// RegionBoxes draws the bounding box of each foreground region on the image
// with an area label above the box
func RegionBoxes(img *gocv.Mat, regs []regions.Region, boxClr color.RGBA,
	font Font, lineThickness int) {

	for _, reg := range regs {

		gocv.Rectangle(img, reg.Bounds, boxClr, lineThickness)

		text := fmt.Sprintf("%dpx", reg.Area)
		textSize := gocv.GetTextSize(text, font.Face, font.Scale, font.Thickness)

		// label box sits on top of the region box
		labelRect := image.Rect(
			reg.Bounds.Min.X-(lineThickness/2),
			reg.Bounds.Min.Y-textSize.Y-font.TopPad-font.BottomPad,
			reg.Bounds.Min.X+textSize.X+font.LeftPad+font.RightPad,
			reg.Bounds.Min.Y,
		)

		gocv.Rectangle(img, labelRect, boxClr, -1)

		textPos := image.Pt(reg.Bounds.Min.X+font.LeftPad,
			reg.Bounds.Min.Y-font.BottomPad)

		gocv.PutTextWithParams(img, text, textPos, font.Face, font.Scale,
			font.Color, font.Thickness, font.LineType, false)
	}
}
