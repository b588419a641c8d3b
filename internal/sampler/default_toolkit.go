package sampler

import (
	"context"

	"github.com/vidproof/vidproof/internal/errors"
	"github.com/vidproof/vidproof/internal/ffmpeg"
	"github.com/vidproof/vidproof/internal/ffprobe"
	"github.com/vidproof/vidproof/internal/mediainfo"
)

// DefaultToolkit probes with ffprobe (falling back to MediaInfo) and
// extracts frames with ffmpeg.
type DefaultToolkit struct {
	// MaxWidth/MaxHeight cap extracted frame dimensions. Zero disables scaling.
	MaxWidth  int
	MaxHeight int
}

// NewDefaultToolkit creates a toolkit backed by the ffmpeg suite.
func NewDefaultToolkit(maxWidth, maxHeight int) *DefaultToolkit {
	return &DefaultToolkit{MaxWidth: maxWidth, MaxHeight: maxHeight}
}

// Available reports whether ffmpeg is installed.
func (t *DefaultToolkit) Available() bool {
	return ffmpeg.IsAvailable()
}

// Probe returns asset metadata from ffprobe, or from MediaInfo when ffprobe
// is not installed.
func (t *DefaultToolkit) Probe(ctx context.Context, path string) (*ffprobe.Metadata, error) {
	if ffprobe.IsAvailable() {
		return ffprobe.Probe(ctx, path)
	}

	if mediainfo.IsAvailable() {
		info, err := mediainfo.Probe(ctx, path)
		if err != nil {
			return nil, err
		}
		return &ffprobe.Metadata{
			Width:     info.Width,
			Height:    info.Height,
			Duration:  info.Duration,
			Codec:     info.Codec,
			SizeBytes: info.SizeBytes,
			BitRate:   info.BitRate,
		}, nil
	}

	return nil, errors.NewToolUnavailableError("ffprobe")
}

// ExtractFrame grabs a single still image at the given timestamp.
func (t *DefaultToolkit) ExtractFrame(ctx context.Context, path string, timestamp float64, outputPath string) error {
	if !ffmpeg.IsAvailable() {
		return errors.NewToolUnavailableError("ffmpeg")
	}

	return ffmpeg.RunExtract(ctx, &ffmpeg.ExtractParams{
		InputPath:  path,
		OutputPath: outputPath,
		Timestamp:  timestamp,
		MaxWidth:   t.MaxWidth,
		MaxHeight:  t.MaxHeight,
	})
}
