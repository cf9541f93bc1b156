// Package segment drives a ViBe model over an ordered frame sequence,
// training it from a prefix of the sequence and then producing one mask per
// frame
package segment

import (
	"errors"
	"fmt"
	"io"

	"github.com/swdee/go-vibe"
)

// Source supplies an ordered sequence of decoded frames of identical
// geometry.  Next returns io.EOF once the sequence is exhausted
type Source interface {
	Next() (*vibe.Frame, error)
}

// Sink receives one mask per processed frame in sequence order.  The engine
// does not retain the mask after the sink returns
type Sink func(index int, frame *vibe.Frame, mask *vibe.Mask) error

// TrainReport describes how the training window was consumed
type TrainReport struct {
	// Requested is the configured training window in frames
	Requested int
	// FramesRead is the number of distinct frames consumed from the source
	FramesRead int
	// Clamped is set when the sequence held fewer frames than requested and
	// the window was clamped, a warning level condition the caller may log
	Clamped bool
}

// Engine owns a background model exclusively for the duration of one
// segmentation run.  Frames must be processed in sequence order since each
// frames update mutates the model consumed by the next frame
type Engine struct {
	params vibe.Params
	model  *vibe.Model
}

// NewEngine creates an engine for the given parameters.  The model is sized
// lazily from the first training frame
func NewEngine(params vibe.Params) (*Engine, error) {

	if err := params.Validate(); err != nil {
		return nil, err
	}

	return &Engine{
		params: params,
	}, nil
}

// Model returns the engines background model, nil before Train is called
func (e *Engine) Model() *vibe.Model {
	return e.model
}

// Train consumes up to the configured training window of frames from the
// source and seeds the model.  When the source holds fewer frames than the
// window the available frames are used and the report marks the window as
// clamped.  When banks are still short of samples after the window the
// buffered frames are cycled again until every bank is full.  A source with
// no frames at all fails with vibe.ErrInsufficientTrainingData
func (e *Engine) Train(src Source) (*TrainReport, error) {

	report := &TrainReport{
		Requested: e.params.TrainingFrames,
	}

	var window []*vibe.Frame

	for len(window) < e.params.TrainingFrames {

		frame, err := src.Next()

		if errors.Is(err, io.EOF) {
			report.Clamped = true
			break
		}

		if err != nil {
			return nil, fmt.Errorf("reading training frame %d: %w",
				len(window), err)
		}

		window = append(window, frame)
	}

	if len(window) == 0 {
		return nil, vibe.ErrInsufficientTrainingData
	}

	report.FramesRead = len(window)

	if e.model == nil {

		first := window[0]

		model, err := vibe.NewModel(first.Width, first.Height, first.Channels,
			e.params)

		if err != nil {
			return nil, err
		}

		e.model = model
	}

	// cycle the window until every bank holds a full sample set, short
	// sequences repeat frames to fill the remaining slots
	for i := 0; !e.model.Trained(); i++ {

		frame := window[i%len(window)]

		if err := e.model.Train(frame); err != nil {
			return nil, fmt.Errorf("training frame %d: %w", i%len(window), err)
		}
	}

	// consume the rest of the requested window so longer training keeps
	// refreshing the model
	for i := e.model.Params().SampleCount; i < len(window); i++ {
		if err := e.model.Train(window[i]); err != nil {
			return nil, fmt.Errorf("training frame %d: %w", i, err)
		}
	}

	return report, nil
}

// Run performs one classify and update cycle per frame in strict sequence
// order, emitting each mask to the sink.  A classify failure aborts the
// remaining sequence since the model is presumed mis-sized relative to the
// frames.  Returns per frame statistics for the run
func (e *Engine) Run(src Source, sink Sink) (*RunStats, error) {

	if e.model == nil || !e.model.Trained() {
		return nil, vibe.ErrNotTrained
	}

	stats := &RunStats{}

	for index := 0; ; index++ {

		frame, err := src.Next()

		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return stats, fmt.Errorf("reading frame %d: %w", index, err)
		}

		mask, err := e.model.Segment(frame)

		if err != nil {
			return stats, fmt.Errorf("segmenting frame %d: %w", index, err)
		}

		stats.add(index, mask)

		if sink != nil {
			if err := sink(index, frame, mask); err != nil {
				return stats, fmt.Errorf("emitting mask %d: %w", index, err)
			}
		}
	}

	return stats, nil
}
