package vibe

import (
	"errors"
)

var (
	// ErrNotTrained is returned when Classify or Update is called before
	// the model has collected a full sample bank for every pixel
	ErrNotTrained = errors.New("model has not been trained")

	// ErrInsufficientTrainingData is returned when the frame sequence holds
	// no frames to train the model from
	ErrInsufficientTrainingData = errors.New("insufficient training data")

	// ErrGeometryMismatch is returned when a frame or mask does not have the
	// same dimensions the model was created with
	ErrGeometryMismatch = errors.New("geometry mismatch")

	// ErrInvalidParams is returned when a Params field is out of range
	ErrInvalidParams = errors.New("invalid parameters")
)
