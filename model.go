package vibe

import (
	"fmt"
	"math/rand"
	"sync"
	"time"
)

// Model is the ViBe background model, a sample bank for every pixel of a
// fixed frame geometry.  A Model is owned by a single segmentation run and
// is not safe for concurrent use
type Model struct {
	params Params
	// frame geometry the model was created with
	width    int
	height   int
	channels int
	// samples is the flat sample buffer of size
	// width*height*SampleCount*channels, laid out so one pixels bank is
	// contiguous for cache locality
	samples []uint8
	// fill is the number of samples collected per pixel so far, banks fill
	// in lock step during training
	fill int
	// rng drives the stochastic update policy
	rng *rand.Rand
}

// NewModel creates an untrained model sized to the given frame geometry
func NewModel(width, height, channels int, params Params) (*Model, error) {

	if err := params.Validate(); err != nil {
		return nil, err
	}

	if width < 1 || height < 1 || channels < 1 {
		return nil, fmt.Errorf("invalid model dimensions %dx%dx%d",
			width, height, channels)
	}

	seed := params.Seed

	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &Model{
		params:   params,
		width:    width,
		height:   height,
		channels: channels,
		samples:  make([]uint8, width*height*params.SampleCount*channels),
		rng:      rand.New(rand.NewSource(seed)),
	}, nil
}

// Params returns the parameters the model was created with
func (m *Model) Params() Params {
	return m.params
}

// Width returns the frame width the model was created with
func (m *Model) Width() int {
	return m.width
}

// Height returns the frame height the model was created with
func (m *Model) Height() int {
	return m.height
}

// Channels returns the pixel channel count the model was created with
func (m *Model) Channels() int {
	return m.channels
}

// Trained reports whether every sample bank holds a full set of samples
func (m *Model) Trained() bool {
	return m.fill >= m.params.SampleCount
}

// Bank returns the sample bank for the given pixel coordinate
func (m *Model) Bank(x, y int) SampleBank {

	n := m.params.SampleCount
	base := (y*m.width + x) * n * m.channels

	return SampleBank{
		data:     m.samples[base : base+n*m.channels],
		channels: m.channels,
		count:    n,
	}
}

// checkGeometry verifies a frame matches the model dimensions
func (m *Model) checkGeometry(f *Frame) error {

	if f.Width != m.width || f.Height != m.height || f.Channels != m.channels {
		return fmt.Errorf("frame is %dx%dx%d, model is %dx%dx%d: %w",
			f.Width, f.Height, f.Channels,
			m.width, m.height, m.channels, ErrGeometryMismatch)
	}

	return nil
}

// Train seeds every pixels sample bank with one value taken from the frame.
// The value is drawn from a uniformly chosen pixel in the 8 connected
// neighbourhood including the pixel itself, the spatial jitter gives each
// bank more diversity than a short temporal window alone provides.  Until
// banks are full each call fills the next slot, further calls overwrite a
// random slot so a long training window keeps refreshing the model
func (m *Model) Train(frame *Frame) error {

	if err := m.checkGeometry(frame); err != nil {
		return err
	}

	n := m.params.SampleCount

	for y := 0; y < m.height; y++ {
		for x := 0; x < m.width; x++ {

			// jitter offsets in [-1,1] including (0,0), clamped at borders
			nx := clamp(x+m.rng.Intn(3)-1, 0, m.width-1)
			ny := clamp(y+m.rng.Intn(3)-1, 0, m.height-1)

			slot := m.fill

			if slot >= n {
				slot = m.rng.Intn(n)
			}

			m.Bank(x, y).Replace(slot, frame.Pixel(nx, ny))
		}
	}

	if m.fill < n {
		m.fill++
	}

	return nil
}

// Classify labels every pixel of the frame as background or foreground by
// counting sample bank matches within the colour radius.  It is a pure read
// of the model, classifying the same frame twice yields identical masks.
// With Params.Workers > 1 rows are classified in parallel
func (m *Model) Classify(frame *Frame) (*Mask, error) {

	if !m.Trained() {
		return nil, ErrNotTrained
	}

	if err := m.checkGeometry(frame); err != nil {
		return nil, err
	}

	mask := NewMask(m.width, m.height)

	if m.params.Workers <= 1 {
		m.classifyRows(frame, mask, 0, m.height)
		return mask, nil
	}

	var wg sync.WaitGroup

	chunk := (m.height + m.params.Workers - 1) / m.params.Workers

	for start := 0; start < m.height; start += chunk {

		end := start + chunk

		if end > m.height {
			end = m.height
		}

		wg.Add(1)

		go func(start, end int) {
			defer wg.Done()
			m.classifyRows(frame, mask, start, end)
		}(start, end)
	}

	wg.Wait()

	return mask, nil
}

// classifyRows labels the rows [start,end).  Goroutines write disjoint mask
// rows so no synchronisation is needed
func (m *Model) classifyRows(frame *Frame, mask *Mask, start, end int) {

	radius := m.params.Radius
	minMatches := m.params.MinMatches

	for y := start; y < end; y++ {
		for x := 0; x < m.width; x++ {

			matches := m.Bank(x, y).Matches(frame.Pixel(x, y), radius, minMatches)

			if matches < minMatches {
				mask.Set(x, y, Foreground)
			}
		}
	}
}

// Update applies the stochastic update policy using the mask just produced
// by Classify for the same frame.  Only pixels labelled background are
// updated, with probability 1/SubsampleFactor the pixels current value
// replaces a uniformly chosen slot in its own bank, and with an independent
// draw at the same rate the value is diffused into a uniformly chosen 8
// connected neighbours bank.  Diffusion only lands in banks of pixels also
// labelled background, so a foreground pixels bank is never altered by the
// frame that classified it.  The pixel sweep is sequential, diffusion writes
// land in banks the sweep may still visit and must not race with it
func (m *Model) Update(frame *Frame, mask *Mask) error {

	if !m.Trained() {
		return ErrNotTrained
	}

	if err := m.checkGeometry(frame); err != nil {
		return err
	}

	if mask.Width != m.width || mask.Height != m.height {
		return fmt.Errorf("mask is %dx%d, model is %dx%d: %w",
			mask.Width, mask.Height, m.width, m.height, ErrGeometryMismatch)
	}

	n := m.params.SampleCount
	phi := m.params.SubsampleFactor

	for y := 0; y < m.height; y++ {
		for x := 0; x < m.width; x++ {

			if mask.At(x, y) != Background {
				continue
			}

			px := frame.Pixel(x, y)

			// in place update of the pixels own bank
			if m.rng.Intn(phi) == 0 {
				m.Bank(x, y).Replace(m.rng.Intn(n), px)
			}

			// spatial diffusion into a neighbouring bank
			if m.rng.Intn(phi) == 0 {

				nx, ny := m.randNeighbour(x, y)

				if mask.At(nx, ny) == Background {
					m.Bank(nx, ny).Replace(m.rng.Intn(n), px)
				}
			}
		}
	}

	return nil
}

// Segment classifies the frame and applies the update policy with the mask
// just computed, returning the mask.  This is the per frame operation of a
// segmentation run
func (m *Model) Segment(frame *Frame) (*Mask, error) {

	mask, err := m.Classify(frame)

	if err != nil {
		return nil, err
	}

	if err := m.Update(frame, mask); err != nil {
		return nil, err
	}

	return mask, nil
}

// neighbourOffsets are the 8 connected offsets, (0,0) excluded
var neighbourOffsets = [8][2]int{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

// randNeighbour picks a uniform member of the in bounds 8 connected
// neighbour set of the coordinate.  At borders and corners the draw is
// uniform over the neighbours that exist, never the pixel itself
func (m *Model) randNeighbour(x, y int) (int, int) {

	var candidates [8][2]int
	count := 0

	for _, off := range neighbourOffsets {

		nx := x + off[0]
		ny := y + off[1]

		if nx < 0 || nx >= m.width || ny < 0 || ny >= m.height {
			continue
		}

		candidates[count] = [2]int{nx, ny}
		count++
	}

	// a 1x1 frame has no neighbours to diffuse into
	if count == 0 {
		return x, y
	}

	pick := candidates[m.rng.Intn(count)]

	return pick[0], pick[1]
}

// clamp limits v to the range [lo,hi]
func clamp(v, lo, hi int) int {

	if v < lo {
		return lo
	}

	if v > hi {
		return hi
	}

	return v
}
