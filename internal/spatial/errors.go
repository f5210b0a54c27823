package spatial

import "errors"

var (
	// ErrInvalidFrame indicates a frame with a non-positive or non-finite dimension.
	ErrInvalidFrame = errors.New("spatial: frame dimensions must be positive")

	// ErrInvalidThresholds indicates clustering thresholds that are not ordered.
	ErrInvalidThresholds = errors.New("spatial: thresholds must satisfy 0 < clustered <= dispersed")
)
