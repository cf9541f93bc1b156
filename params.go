package vibe

import (
	"fmt"
)

// Params holds the ViBe algorithm parameters.  All fields are fixed for the
// lifetime of a Model
type Params struct {
	// SampleCount is the number of samples kept in each pixels bank
	SampleCount int
	// Radius is the sphere radius in colour space within which a stored
	// sample is considered a match for a new pixel value
	Radius int
	// MinMatches is the minimum number of matching samples required to
	// classify a pixel as background
	MinMatches int
	// SubsampleFactor is the stochastic rate at which background pixels
	// update their sample bank, an update occurs with probability
	// 1/SubsampleFactor
	SubsampleFactor int
	// TrainingFrames is the number of frames used to seed the model
	TrainingFrames int
	// Seed initialises the models random number generator.  A fixed seed
	// makes segmentation runs reproducible.  When zero a time based seed
	// is used
	Seed int64
	// Workers is the number of goroutines used to classify a frame.  Zero
	// or one classifies on the calling goroutine
	Workers int
}

// DefaultParams returns the parameter values from the original ViBe paper
func DefaultParams() Params {
	return Params{
		SampleCount:     20,
		Radius:          20,
		MinMatches:      2,
		SubsampleFactor: 16,
		TrainingFrames:  20,
	}
}

// Validate checks the parameters are a usable combination.  The core fails
// loudly here rather than substituting defaults, callers wanting fallback
// behaviour must apply it before constructing a Model
func (p Params) Validate() error {

	if p.SampleCount < 1 {
		return fmt.Errorf("%w: sample count %d, must be >= 1",
			ErrInvalidParams, p.SampleCount)
	}

	if p.Radius < 1 {
		return fmt.Errorf("%w: radius %d, must be >= 1",
			ErrInvalidParams, p.Radius)
	}

	if p.MinMatches < 1 || p.MinMatches > p.SampleCount {
		return fmt.Errorf("%w: min matches %d, must be between 1 and sample count %d",
			ErrInvalidParams, p.MinMatches, p.SampleCount)
	}

	if p.SubsampleFactor < 1 {
		return fmt.Errorf("%w: subsample factor %d, must be >= 1",
			ErrInvalidParams, p.SubsampleFactor)
	}

	if p.TrainingFrames < 1 {
		return fmt.Errorf("%w: training frames %d, must be >= 1",
			ErrInvalidParams, p.TrainingFrames)
	}

	if p.Workers < 0 {
		return fmt.Errorf("%w: workers %d, must be >= 0",
			ErrInvalidParams, p.Workers)
	}

	return nil
}
