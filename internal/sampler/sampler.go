package sampler

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/vidproof/vidproof/internal/config"
	"github.com/vidproof/vidproof/internal/errors"
)

// Frame is one sampled still image, copied to a process-durable location.
type Frame struct {
	Timestamp float64
	Path      string
}

// Logger receives per-frame progress during sampling.
type Logger interface {
	Info(format string, args ...any)
	Warn(format string, args ...any)
}

// Options controls a sampling run.
type Options struct {
	// FrameCount is the number of frames requested.
	FrameCount int
	// ExtractTimeout bounds each per-frame extraction.
	ExtractTimeout time.Duration
	// DurableDir receives the surviving frame copies. The caller owns its lifecycle.
	DurableDir string
	// Logger receives progress and skip notices. Optional.
	Logger Logger
	// OnFrame is called after each extraction attempt, successful or not.
	// Optional.
	OnFrame func(index, total int, timestamp float64, ok bool)
}

// Timestamps computes sample instants for the given duration and frame count.
// Sampling is biased away from the first and last half second to avoid black
// frames and fade artifacts at cut points. Timestamps at or beyond
// duration-0.1s are dropped. The result is strictly increasing and may be
// shorter than requested; it is empty when the usable window is zero.
func Timestamps(duration float64, frameCount int) []float64 {
	if duration <= 0 {
		duration = config.DefaultAssumedDuration
	}
	if frameCount < 1 {
		return nil
	}

	usable := duration - 2*config.HeadTailMarginSecs
	if usable <= 0 {
		return nil
	}

	interval := usable / float64(frameCount+1)

	var timestamps []float64
	for i := 1; i <= frameCount; i++ {
		t := config.HeadTailMarginSecs + interval*float64(i)
		if t >= duration-config.EndGuardSecs {
			continue
		}
		timestamps = append(timestamps, t)
	}

	return timestamps
}

// Sample extracts frames from the asset at evenly spaced timestamps.
//
// Individual extraction failures are logged and skipped; Sample fails only
// when zero frames were obtained. Each surviving frame is copied into
// opts.DurableDir before the scratch directory is removed, so the returned
// paths stay valid after Sample returns.
func Sample(ctx context.Context, toolkit Toolkit, assetPath string, duration float64, opts Options) ([]Frame, error) {
	if !toolkit.Available() {
		return nil, errors.NewToolUnavailableError("ffmpeg")
	}

	timestamps := Timestamps(duration, opts.FrameCount)
	if len(timestamps) == 0 {
		return nil, errors.NewExtractionFailureError(assetPath)
	}

	// Scratch space lives only for the duration of this call.
	scratchDir, err := os.MkdirTemp("", "vidproof-scratch-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create scratch directory: %w", err)
	}
	defer func() {
		if rmErr := os.RemoveAll(scratchDir); rmErr != nil && opts.Logger != nil {
			opts.Logger.Warn("failed to remove scratch directory %s: %v", scratchDir, rmErr)
		}
	}()

	extractTimeout := opts.ExtractTimeout
	if extractTimeout <= 0 {
		extractTimeout = config.DefaultExtractTimeout
	}

	var frames []Frame
	for i, timestamp := range timestamps {
		if ctx.Err() != nil {
			break
		}

		scratchPath := filepath.Join(scratchDir, fmt.Sprintf("frame_%03d.jpg", i))

		extractCtx, cancel := context.WithTimeout(ctx, extractTimeout)
		err := toolkit.ExtractFrame(extractCtx, assetPath, timestamp, scratchPath)
		cancel()

		if err != nil {
			if opts.Logger != nil {
				opts.Logger.Warn("frame %d at %.2fs failed: %v", i+1, timestamp, err)
			}
			if opts.OnFrame != nil {
				opts.OnFrame(i+1, len(timestamps), timestamp, false)
			}
			continue
		}

		durablePath := filepath.Join(opts.DurableDir, fmt.Sprintf("frame_%03d.jpg", i))
		if err := copyFile(scratchPath, durablePath); err != nil {
			if opts.Logger != nil {
				opts.Logger.Warn("frame %d at %.2fs could not be copied: %v", i+1, timestamp, err)
			}
			continue
		}

		frames = append(frames, Frame{Timestamp: timestamp, Path: durablePath})
		if opts.Logger != nil {
			opts.Logger.Info("extracted frame %d/%d at %.2fs", i+1, len(timestamps), timestamp)
		}
		if opts.OnFrame != nil {
			opts.OnFrame(i+1, len(timestamps), timestamp, true)
		}
	}

	if len(frames) == 0 {
		if ctx.Err() != nil {
			return nil, errors.NewCancelledError()
		}
		return nil, errors.NewExtractionFailureError(assetPath)
	}

	return frames, nil
}

// copyFile copies src to dst, creating or truncating dst.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}

	return out.Close()
}
