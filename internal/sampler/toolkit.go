// Package sampler produces evenly spaced still frames from a video asset.
package sampler

import (
	"context"

	"github.com/vidproof/vidproof/internal/ffprobe"
)

// Toolkit provides media probing and frame extraction capabilities.
// This interface allows sampling logic to be tested without external tools
// and alternative backends to be substituted for the ffmpeg suite.
type Toolkit interface {
	// Probe returns technical metadata for the given asset.
	Probe(ctx context.Context, path string) (*ffprobe.Metadata, error)

	// ExtractFrame writes the still image at the given timestamp to outputPath.
	ExtractFrame(ctx context.Context, path string, timestamp float64, outputPath string) error

	// Available reports whether the extraction backend is installed.
	Available() bool
}
