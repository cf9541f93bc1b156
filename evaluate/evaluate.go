// Package evaluate scores a produced segmentation mask against a ground
// truth mask using confusion matrix derived accuracy metrics
package evaluate

import (
	"errors"
	"fmt"

	"github.com/swdee/go-vibe"
)

// ErrDimensionMismatch is returned when the ground truth and produced masks
// are not the same size
var ErrDimensionMismatch = errors.New("mask dimensions do not match")

// ConfusionCounts are the four confusion matrix cells for a binary mask
// comparison.  Foreground is the positive class
type ConfusionCounts struct {
	// TruePositive pixels are foreground in both masks
	TruePositive int
	// FalsePositive pixels are foreground in the produced mask only
	FalsePositive int
	// TrueNegative pixels are background in both masks
	TrueNegative int
	// FalseNegative pixels are foreground in the ground truth only
	FalseNegative int
}

// Total returns the sum of all four cells, always the mask pixel count
func (c ConfusionCounts) Total() int {
	return c.TruePositive + c.FalsePositive + c.TrueNegative + c.FalseNegative
}

// Report holds the confusion counts and the accuracy rates derived from
// them.  Rates with a zero denominator are reported as 0
type Report struct {
	Counts ConfusionCounts
	// Precision is TP/(TP+FP)
	Precision float64
	// Recall is TP/(TP+FN), also called sensitivity
	Recall float64
	// Specificity is TN/(TN+FP)
	Specificity float64
	// FMeasure is the harmonic mean of precision and recall
	FMeasure float64
	// Accuracy is (TP+TN)/total
	Accuracy float64
}

// CompareGroundTruth compares a produced mask against the ground truth and
// returns the accuracy report.  Any pixel value above zero counts as
// foreground so masks need not be strictly 0/255.  Neither mask is modified
func CompareGroundTruth(groundTruth, produced *vibe.Mask) (*Report, error) {

	if groundTruth.Width != produced.Width ||
		groundTruth.Height != produced.Height {
		return nil, fmt.Errorf("ground truth is %dx%d, produced mask is %dx%d: %w",
			groundTruth.Width, groundTruth.Height,
			produced.Width, produced.Height, ErrDimensionMismatch)
	}

	var counts ConfusionCounts

	for i := range groundTruth.Pix {

		truth := groundTruth.Pix[i] > 0
		seen := produced.Pix[i] > 0

		switch {
		case truth && seen:
			counts.TruePositive++
		case !truth && seen:
			counts.FalsePositive++
		case truth && !seen:
			counts.FalseNegative++
		default:
			counts.TrueNegative++
		}
	}

	report := &Report{
		Counts:      counts,
		Precision:   ratio(counts.TruePositive, counts.TruePositive+counts.FalsePositive),
		Recall:      ratio(counts.TruePositive, counts.TruePositive+counts.FalseNegative),
		Specificity: ratio(counts.TrueNegative, counts.TrueNegative+counts.FalsePositive),
		Accuracy: ratio(counts.TruePositive+counts.TrueNegative,
			counts.Total()),
	}

	if report.Precision+report.Recall > 0 {
		report.FMeasure = 2 * report.Precision * report.Recall /
			(report.Precision + report.Recall)
	}

	return report, nil
}

// ratio divides the counts returning 0 when the denominator is zero
func ratio(num, den int) float64 {

	if den == 0 {
		return 0
	}

	return float64(num) / float64(den)
}
