package frameio

import (
	"fmt"
	"image"
	"image/png"
	"os"

	// ground truth masks are commonly bmp or tiff files, register their
	// decoders alongside the stdlib formats
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	_ "image/jpeg"

	"github.com/swdee/go-vibe"
)

// LoadMask decodes an image file as a binary mask.  Any pixel with a
// luminance above zero is treated as foreground, so approximately binary
// ground truth images from lossy formats decode sensibly
func LoadMask(path string) (*vibe.Mask, error) {

	f, err := os.Open(path)

	if err != nil {
		return nil, fmt.Errorf("error opening mask file: %w", err)
	}

	defer f.Close()

	img, _, err := image.Decode(f)

	if err != nil {
		return nil, fmt.Errorf("error decoding mask %s: %w", path, err)
	}

	bounds := img.Bounds()
	mask := vibe.NewMask(bounds.Dx(), bounds.Dy())

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {

			r, g, b, _ := img.At(x, y).RGBA()

			if r+g+b > 0 {
				mask.Set(x-bounds.Min.X, y-bounds.Min.Y, vibe.Foreground)
			}
		}
	}

	return mask, nil
}

// SaveMaskPNG writes a mask as an 8 bit grayscale png
func SaveMaskPNG(path string, mask *vibe.Mask) error {

	img := &image.Gray{
		Pix:    mask.Pix,
		Stride: mask.Width,
		Rect:   image.Rect(0, 0, mask.Width, mask.Height),
	}

	f, err := os.Create(path)

	if err != nil {
		return fmt.Errorf("error creating mask file: %w", err)
	}

	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("error encoding mask %s: %w", path, err)
	}

	return nil
}
