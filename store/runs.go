package store

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/swdee/go-vibe"
	"github.com/swdee/go-vibe/evaluate"
)

// Run is a stored segmentation run
type Run struct {
	ID         string
	Sequence   string
	Params     vibe.Params
	StartedAt  time.Time
	FinishedAt *time.Time
}

// CreateRun records the start of a segmentation run over the named sequence
// and returns the new run id
func (s *Store) CreateRun(params vibe.Params, sequence string) (string, error) {

	id := uuid.NewString()

	_, err := s.db.Exec(
		`INSERT INTO runs (id, sequence, sample_count, radius, min_matches,
			subsample_factor, training_frames, seed, started_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, sequence, params.SampleCount, params.Radius, params.MinMatches,
		params.SubsampleFactor, params.TrainingFrames, params.Seed,
		time.Now().UTC())

	if err != nil {
		return "", fmt.Errorf("failed to create run: %w", err)
	}

	return id, nil
}

// FinishRun marks a run as completed
func (s *Store) FinishRun(runID string) error {

	_, err := s.db.Exec(
		`UPDATE runs SET finished_at = ? WHERE id = ?`, time.Now().UTC(), runID)

	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}

	return nil
}

// GetRun loads a stored run by id
func (s *Store) GetRun(runID string) (*Run, error) {

	run := &Run{}

	err := s.db.QueryRow(
		`SELECT id, sequence, sample_count, radius, min_matches,
			subsample_factor, training_frames, seed, started_at, finished_at
		FROM runs WHERE id = ?`, runID).Scan(
		&run.ID, &run.Sequence, &run.Params.SampleCount, &run.Params.Radius,
		&run.Params.MinMatches, &run.Params.SubsampleFactor,
		&run.Params.TrainingFrames, &run.Params.Seed,
		&run.StartedAt, &run.FinishedAt)

	if err != nil {
		return nil, fmt.Errorf("failed to get run %s: %w", runID, err)
	}

	return run, nil
}

// RecordFrame stores the statistics for one segmented frame
func (s *Store) RecordFrame(runID string, frameIndex, foregroundPx,
	regionCount int, ratio float64) error {

	_, err := s.db.Exec(
		`INSERT INTO frame_stats (run_id, frame_index, foreground_px,
			foreground_ratio, region_count)
		VALUES (?, ?, ?, ?, ?)`,
		runID, frameIndex, foregroundPx, ratio, regionCount)

	if err != nil {
		return fmt.Errorf("failed to record frame %d: %w", frameIndex, err)
	}

	return nil
}

// FrameCount returns the number of frame statistics recorded for a run
func (s *Store) FrameCount(runID string) (int, error) {

	var count int

	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM frame_stats WHERE run_id = ?`, runID).Scan(&count)

	if err != nil {
		return 0, fmt.Errorf("failed to count frames: %w", err)
	}

	return count, nil
}

// RecordEvaluation stores a ground truth evaluation report for one frame of
// a run
func (s *Store) RecordEvaluation(runID string, frameIndex int,
	report *evaluate.Report) error {

	c := report.Counts

	_, err := s.db.Exec(
		`INSERT INTO evaluations (run_id, frame_index, true_positive,
			false_positive, true_negative, false_negative, precision, recall,
			specificity, f_measure, accuracy)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, frameIndex, c.TruePositive, c.FalsePositive, c.TrueNegative,
		c.FalseNegative, report.Precision, report.Recall, report.Specificity,
		report.FMeasure, report.Accuracy)

	if err != nil {
		return fmt.Errorf("failed to record evaluation: %w", err)
	}

	return nil
}

// GetEvaluation loads the stored evaluation for a frame of a run
func (s *Store) GetEvaluation(runID string, frameIndex int) (*evaluate.Report, error) {

	report := &evaluate.Report{}
	c := &report.Counts

	err := s.db.QueryRow(
		`SELECT true_positive, false_positive, true_negative, false_negative,
			precision, recall, specificity, f_measure, accuracy
		FROM evaluations WHERE run_id = ? AND frame_index = ?`,
		runID, frameIndex).Scan(
		&c.TruePositive, &c.FalsePositive, &c.TrueNegative, &c.FalseNegative,
		&report.Precision, &report.Recall, &report.Specificity,
		&report.FMeasure, &report.Accuracy)

	if err != nil {
		return nil, fmt.Errorf("failed to get evaluation: %w", err)
	}

	return report, nil
}
