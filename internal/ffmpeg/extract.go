// Package ffmpeg provides FFmpeg command building and execution for frame extraction.
package ffmpeg

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"

	"github.com/vidproof/vidproof/internal/errors"
)

// ExtractParams contains parameters for a single frame extraction.
type ExtractParams struct {
	InputPath  string
	OutputPath string
	Timestamp  float64
	// MaxWidth/MaxHeight cap the extracted frame while preserving aspect ratio.
	// Zero values disable scaling.
	MaxWidth  int
	MaxHeight int
	// Quality is the JPEG quality scale passed to -q:v (2 = high, 31 = worst).
	Quality int
}

// BuildExtractArgs builds the ffmpeg argument list for a single-frame grab.
func BuildExtractArgs(p *ExtractParams) []string {
	quality := p.Quality
	if quality == 0 {
		quality = 2
	}

	args := []string{
		"-ss", fmt.Sprintf("%.3f", p.Timestamp),
		"-i", p.InputPath,
		"-vframes", "1",
		"-q:v", fmt.Sprintf("%d", quality),
	}

	if p.MaxWidth > 0 && p.MaxHeight > 0 {
		scale := fmt.Sprintf(
			"scale='min(%d,iw)':'min(%d,ih)':force_original_aspect_ratio=decrease",
			p.MaxWidth, p.MaxHeight,
		)
		args = append(args, "-vf", scale)
	}

	args = append(args, "-y", p.OutputPath)
	return args
}

// IsAvailable checks if ffmpeg is available on the system.
func IsAvailable() bool {
	_, err := exec.LookPath("ffmpeg")
	return err == nil
}

// RunExtract executes a single-frame extraction.
// The context should carry the per-frame deadline.
func RunExtract(ctx context.Context, p *ExtractParams) error {
	args := BuildExtractArgs(p)

	cmd := exec.CommandContext(ctx, "ffmpeg", args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return errors.NewCommandError("ffmpeg", errors.CommandTimeout, ctx.Err())
		}
		return errors.WrapExecError("ffmpeg", err, stderr.String())
	}

	return nil
}
