// Package config provides configuration types and defaults for vidproof.
package config

import (
	"fmt"
	"os"
	"time"
)

// Default constants
const (
	// DefaultFrameCount is the number of frames sampled per asset.
	DefaultFrameCount = 6

	// MaxFrameCount is the maximum number of frames allowed per asset.
	MaxFrameCount = 20

	// DefaultMaxEncodedBytes is the per-image payload limit of the vision service.
	DefaultMaxEncodedBytes uint64 = 5 * 1024 * 1024

	// DefaultJPEGQualityStart is the quality used on the first recompression pass.
	DefaultJPEGQualityStart = 85

	// DefaultJPEGQualityStep is subtracted between recompression passes.
	DefaultJPEGQualityStep = 10

	// DefaultJPEGQualityFloor is the lowest quality attempted before giving up on shrinking.
	DefaultJPEGQualityFloor = 20

	// DefaultAssumedDuration is used when probing cannot determine duration.
	DefaultAssumedDuration = 6.0

	// HeadTailMarginSecs is skipped at each end of the asset to avoid
	// black frames and fade artifacts at cut points.
	HeadTailMarginSecs = 0.5

	// EndGuardSecs keeps sample timestamps away from the very end of the asset.
	EndGuardSecs = 0.1

	// MaxFrameWidth and MaxFrameHeight cap extracted frame dimensions.
	MaxFrameWidth  = 1920
	MaxFrameHeight = 1080

	// DefaultProbeTimeout bounds ffprobe/mediainfo invocations.
	DefaultProbeTimeout = 10 * time.Second

	// DefaultExtractTimeout bounds each per-frame ffmpeg invocation.
	DefaultExtractTimeout = 30 * time.Second

	// DefaultVisionTimeout bounds the vision-analysis HTTP call.
	DefaultVisionTimeout = 120 * time.Second

	// PassThreshold is the minimum score every dimension must reach.
	PassThreshold = 6.0

	// DefaultVisionModel is the vision-capable model used for scoring.
	DefaultVisionModel = "claude-sonnet-4-20250514"

	// DefaultVisionMaxTokens bounds the scoring response length.
	DefaultVisionMaxTokens = 2048

	// DefaultVisionBaseURL is the vision-analysis service endpoint.
	DefaultVisionBaseURL = "https://api.anthropic.com"

	// DefaultWorkers is the number of assets validated in parallel in batch mode.
	DefaultWorkers = 2

	// MaxRawResponseBytes bounds the raw text carried inside a ParseError.
	MaxRawResponseBytes = 2000
)

// Config holds all configuration for media validation.
type Config struct {
	// Sampling
	FrameCount int

	// Encoding
	MaxEncodedBytes  uint64
	JPEGQualityStart int
	JPEGQualityStep  int
	JPEGQualityFloor int

	// External call timeouts
	ProbeTimeout   time.Duration
	ExtractTimeout time.Duration
	VisionTimeout  time.Duration

	// Vision service
	VisionModel     string
	VisionBaseURL   string
	VisionMaxTokens int
	APIKey          string

	// Paths
	LogDir  string
	TempDir string // Optional, defaults to the OS temp dir

	// Batch mode
	Workers int
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		FrameCount:       DefaultFrameCount,
		MaxEncodedBytes:  DefaultMaxEncodedBytes,
		JPEGQualityStart: DefaultJPEGQualityStart,
		JPEGQualityStep:  DefaultJPEGQualityStep,
		JPEGQualityFloor: DefaultJPEGQualityFloor,
		ProbeTimeout:     DefaultProbeTimeout,
		ExtractTimeout:   DefaultExtractTimeout,
		VisionTimeout:    DefaultVisionTimeout,
		VisionModel:      DefaultVisionModel,
		VisionBaseURL:    DefaultVisionBaseURL,
		VisionMaxTokens:  DefaultVisionMaxTokens,
		Workers:          DefaultWorkers,
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.FrameCount < 1 || c.FrameCount > MaxFrameCount {
		return fmt.Errorf("%w: frame count must be 1-%d, got %d", ErrInvalidFrameCount, MaxFrameCount, c.FrameCount)
	}

	if c.MaxEncodedBytes == 0 {
		return fmt.Errorf("%w: max encoded bytes must be positive", ErrInvalidPayloadLimit)
	}

	if c.JPEGQualityStart < 1 || c.JPEGQualityStart > 100 {
		return fmt.Errorf("%w: start quality must be 1-100, got %d", ErrInvalidQuality, c.JPEGQualityStart)
	}

	if c.JPEGQualityFloor < 1 || c.JPEGQualityFloor > c.JPEGQualityStart {
		return fmt.Errorf("%w: quality floor must be 1-%d, got %d", ErrInvalidQuality, c.JPEGQualityStart, c.JPEGQualityFloor)
	}

	if c.JPEGQualityStep < 1 {
		return fmt.Errorf("%w: quality step must be positive, got %d", ErrInvalidQuality, c.JPEGQualityStep)
	}

	if c.Workers < 1 {
		return fmt.Errorf("%w: workers must be positive, got %d", ErrInvalidWorkers, c.Workers)
	}

	return nil
}

// GetTempDir returns the temp directory, falling back to the OS default.
func (c *Config) GetTempDir() string {
	if c.TempDir != "" {
		return c.TempDir
	}
	return os.TempDir()
}
