package segment

import (
	"errors"
	"io"
	"math"
	"testing"

	"github.com/swdee/go-vibe"
)

// sliceSource serves frames from a slice and then io.EOF
type sliceSource struct {
	frames []*vibe.Frame
	idx    int
}

func (s *sliceSource) Next() (*vibe.Frame, error) {

	if s.idx >= len(s.frames) {
		return nil, io.EOF
	}

	frame := s.frames[s.idx]
	s.idx++

	return frame, nil
}

// greyFrames creates count identical single channel frames of the given
// value
func greyFrames(t *testing.T, width, height, count int, val uint8) []*vibe.Frame {

	frames := make([]*vibe.Frame, count)

	for i := range frames {

		pix := make([]uint8, width*height)

		for j := range pix {
			pix[j] = val
		}

		frame, err := vibe.NewFrame(width, height, 1, pix)

		if err != nil {
			t.Fatalf("failed to create frame: %v", err)
		}

		frames[i] = frame
	}

	return frames
}

func testParams() vibe.Params {

	p := vibe.DefaultParams()
	p.Seed = 1
	p.TrainingFrames = 5
	p.SampleCount = 5
	p.MinMatches = 2

	return p
}

func TestEngineTrainAndRun(t *testing.T) {

	const width, height = 8, 6

	engine, err := NewEngine(testParams())

	if err != nil {
		t.Fatalf("failed to create engine: %v", err)
	}

	report, err := engine.Train(&sliceSource{frames: greyFrames(t, width, height, 5, 128)})

	if err != nil {
		t.Fatalf("train failed: %v", err)
	}

	if report.Clamped {
		t.Error("full window was reported clamped")
	}

	if report.FramesRead != 5 {
		t.Errorf("expected 5 frames read, got %d", report.FramesRead)
	}

	var emitted []*vibe.Mask

	sink := func(index int, frame *vibe.Frame, mask *vibe.Mask) error {

		if index != len(emitted) {
			t.Errorf("mask %d emitted out of order", index)
		}

		emitted = append(emitted, mask)
		return nil
	}

	stats, err := engine.Run(&sliceSource{frames: greyFrames(t, width, height, 4, 128)}, sink)

	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(emitted) != 4 {
		t.Fatalf("expected 4 masks, got %d", len(emitted))
	}

	for i, mask := range emitted {
		for _, label := range mask.Pix {
			if label != vibe.Background {
				t.Errorf("static frame %d produced foreground", i)
				break
			}
		}
	}

	mean, stddev := stats.Summary()

	if mean != 0 || stddev != 0 {
		t.Errorf("static run summary = (%v, %v), expected zeros", mean, stddev)
	}
}

func TestEngineTrainClamped(t *testing.T) {

	const width, height = 8, 6

	engine, err := NewEngine(testParams())

	if err != nil {
		t.Fatalf("failed to create engine: %v", err)
	}

	// two frames against a window of five, trainer clamps and cycles the
	// frames until the banks are full
	report, err := engine.Train(&sliceSource{frames: greyFrames(t, width, height, 2, 128)})

	if err != nil {
		t.Fatalf("train failed: %v", err)
	}

	if !report.Clamped {
		t.Error("short sequence was not reported clamped")
	}

	if report.FramesRead != 2 {
		t.Errorf("expected 2 frames read, got %d", report.FramesRead)
	}

	if !engine.Model().Trained() {
		t.Error("model not trained after cycling short window")
	}
}

func TestEngineTrainEmptySource(t *testing.T) {

	engine, err := NewEngine(testParams())

	if err != nil {
		t.Fatalf("failed to create engine: %v", err)
	}

	_, err = engine.Train(&sliceSource{})

	if !errors.Is(err, vibe.ErrInsufficientTrainingData) {
		t.Errorf("expected ErrInsufficientTrainingData, got %v", err)
	}
}

func TestEngineRunBeforeTrain(t *testing.T) {

	engine, err := NewEngine(testParams())

	if err != nil {
		t.Fatalf("failed to create engine: %v", err)
	}

	_, err = engine.Run(&sliceSource{frames: greyFrames(t, 4, 4, 1, 128)}, nil)

	if !errors.Is(err, vibe.ErrNotTrained) {
		t.Errorf("expected ErrNotTrained, got %v", err)
	}
}

func TestEngineRunAbortsOnGeometryChange(t *testing.T) {

	const width, height = 8, 6

	engine, err := NewEngine(testParams())

	if err != nil {
		t.Fatalf("failed to create engine: %v", err)
	}

	if _, err := engine.Train(&sliceSource{frames: greyFrames(t, width, height, 5, 128)}); err != nil {
		t.Fatalf("train failed: %v", err)
	}

	frames := greyFrames(t, width, height, 2, 128)
	frames = append(frames, greyFrames(t, width, height-1, 1, 128)...)
	frames = append(frames, greyFrames(t, width, height, 2, 128)...)

	emitted := 0

	stats, err := engine.Run(&sliceSource{frames: frames},
		func(int, *vibe.Frame, *vibe.Mask) error {
			emitted++
			return nil
		})

	if !errors.Is(err, vibe.ErrGeometryMismatch) {
		t.Fatalf("expected ErrGeometryMismatch, got %v", err)
	}

	// the two good frames before the bad one were processed, nothing after
	if emitted != 2 {
		t.Errorf("expected 2 masks before abort, got %d", emitted)
	}

	if len(stats.Frames) != 2 {
		t.Errorf("expected 2 frame stats before abort, got %d", len(stats.Frames))
	}
}

func TestRunStatsSummary(t *testing.T) {

	stats := &RunStats{}

	masks := []struct {
		fg    int
		total int
	}{
		{fg: 0, total: 100},
		{fg: 50, total: 100},
		{fg: 100, total: 100},
	}

	for i, m := range masks {

		mask := vibe.NewMask(10, 10)

		for j := 0; j < m.fg; j++ {
			mask.Pix[j] = vibe.Foreground
		}

		stats.add(i, mask)
	}

	mean, stddev := stats.Summary()

	if math.Abs(mean-0.5) > 1e-9 {
		t.Errorf("expected mean 0.5, got %v", mean)
	}

	// sample standard deviation of {0, 0.5, 1}
	if math.Abs(stddev-0.5) > 1e-9 {
		t.Errorf("expected stddev 0.5, got %v", stddev)
	}
}
