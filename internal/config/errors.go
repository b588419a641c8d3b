// Package config provides configuration types and defaults for vidproof.
package config

import "errors"

// Sentinel errors for configuration validation.
var (
	// ErrInvalidFrameCount indicates a frame count outside the valid range.
	ErrInvalidFrameCount = errors.New("invalid frame count")

	// ErrInvalidPayloadLimit indicates a zero per-image payload limit.
	ErrInvalidPayloadLimit = errors.New("invalid payload limit")

	// ErrInvalidQuality indicates JPEG quality settings outside the valid range.
	ErrInvalidQuality = errors.New("JPEG quality out of range")

	// ErrInvalidWorkers indicates a non-positive batch worker count.
	ErrInvalidWorkers = errors.New("invalid worker count")
)
