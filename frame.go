package vibe

import (
	"fmt"
)

// Frame is a decoded image with fixed dimensions.  Pixel data is stored row
// major with channels interleaved, in whatever channel order the decoder
// produced.  The model only measures distances between values so channel
// order does not matter, provided it is consistent across the sequence
type Frame struct {
	// Width of the frame in pixels
	Width int
	// Height of the frame in pixels
	Height int
	// Channels per pixel, 1 for grayscale or 3 for colour
	Channels int
	// Pix holds Width*Height*Channels bytes of pixel data
	Pix []uint8
}

// NewFrame creates a frame taking ownership of the given pixel buffer
func NewFrame(width, height, channels int, pix []uint8) (*Frame, error) {

	if width < 1 || height < 1 || channels < 1 {
		return nil, fmt.Errorf("invalid frame dimensions %dx%dx%d",
			width, height, channels)
	}

	if len(pix) != width*height*channels {
		return nil, fmt.Errorf("pixel buffer size %d does not match dimensions %dx%dx%d",
			len(pix), width, height, channels)
	}

	return &Frame{
		Width:    width,
		Height:   height,
		Channels: channels,
		Pix:      pix,
	}, nil
}

// Pixel returns the channel values at the given coordinate as a slice view
// into the frame buffer
func (f *Frame) Pixel(x, y int) []uint8 {
	i := (y*f.Width + x) * f.Channels
	return f.Pix[i : i+f.Channels]
}

// Mask pixel labels
const (
	// Background label value
	Background uint8 = 0
	// Foreground label value
	Foreground uint8 = 255
)

// Mask is a binary segmentation result, one label per pixel
type Mask struct {
	// Width of the mask in pixels
	Width int
	// Height of the mask in pixels
	Height int
	// Pix holds Width*Height label bytes
	Pix []uint8
}

// NewMask creates an all background mask of the given size
func NewMask(width, height int) *Mask {
	return &Mask{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height),
	}
}

// At returns the label at the given coordinate
func (m *Mask) At(x, y int) uint8 {
	return m.Pix[y*m.Width+x]
}

// Set writes the label at the given coordinate
func (m *Mask) Set(x, y int, label uint8) {
	m.Pix[y*m.Width+x] = label
}

// ForegroundCount returns the number of pixels labelled foreground
func (m *Mask) ForegroundCount() int {

	count := 0

	for _, p := range m.Pix {
		if p != Background {
			count++
		}
	}

	return count
}
