package segment

import (
	"gonum.org/v1/gonum/stat"

	"github.com/swdee/go-vibe"
)

// FrameStat holds per frame segmentation statistics
type FrameStat struct {
	// Index of the frame in the sequence
	Index int
	// ForegroundPx is the number of pixels labelled foreground
	ForegroundPx int
	// Ratio is the fraction of the frame labelled foreground
	Ratio float64
}

// RunStats accumulates per frame statistics over one segmentation run
type RunStats struct {
	// Frames holds one entry per processed frame in sequence order
	Frames []FrameStat
}

// add records the statistics for one produced mask
func (s *RunStats) add(index int, mask *vibe.Mask) {

	fg := mask.ForegroundCount()

	s.Frames = append(s.Frames, FrameStat{
		Index:        index,
		ForegroundPx: fg,
		Ratio:        float64(fg) / float64(len(mask.Pix)),
	})
}

// Summary returns the mean and standard deviation of the foreground ratio
// across the run.  A spiky deviation usually indicates flicker or a model
// that was trained on frames containing moving objects
func (s *RunStats) Summary() (mean, stddev float64) {

	if len(s.Frames) == 0 {
		return 0, 0
	}

	ratios := make([]float64, len(s.Frames))

	for i, f := range s.Frames {
		ratios[i] = f.Ratio
	}

	mean = stat.Mean(ratios, nil)

	if len(ratios) > 1 {
		stddev = stat.StdDev(ratios, nil)
	}

	return mean, stddev
}
