// Package pipeline orchestrates a validation run from probe to verdict.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/vidproof/vidproof/internal/config"
	"github.com/vidproof/vidproof/internal/errors"
	"github.com/vidproof/vidproof/internal/ffprobe"
	"github.com/vidproof/vidproof/internal/frame"
	"github.com/vidproof/vidproof/internal/report"
	"github.com/vidproof/vidproof/internal/reporter"
	"github.com/vidproof/vidproof/internal/sampler"
	"github.com/vidproof/vidproof/internal/scoring"
	"github.com/vidproof/vidproof/internal/util"
	"github.com/vidproof/vidproof/internal/vision"
)

// Stage identifies where a run currently is, or where it stopped.
type Stage string

const (
	StageProbing     Stage = "probing"
	StageSampling    Stage = "sampling"
	StageEncoding    Stage = "encoding"
	StageSubmitting  Stage = "submitting"
	StageAggregating Stage = "aggregating"
	StageDone        Stage = "done"
)

// Logger is the subset of logging the pipeline needs.
type Logger interface {
	Info(format string, args ...any)
	Debug(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Pipeline validates video assets against an expectation.
type Pipeline struct {
	cfg      *config.Config
	toolkit  sampler.Toolkit
	analyzer vision.Analyzer
	rep      reporter.Reporter
	logger   Logger
}

// New wires a pipeline. A nil reporter is replaced with a no-op one; a nil
// toolkit gets the default ffmpeg-backed implementation.
func New(cfg *config.Config, toolkit sampler.Toolkit, analyzer vision.Analyzer, rep reporter.Reporter, logger Logger) *Pipeline {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	if toolkit == nil {
		toolkit = sampler.NewDefaultToolkit(config.MaxFrameWidth, config.MaxFrameHeight)
	}
	if rep == nil {
		rep = reporter.NullReporter{}
	}
	return &Pipeline{
		cfg:      cfg,
		toolkit:  toolkit,
		analyzer: analyzer,
		rep:      rep,
		logger:   logger,
	}
}

// Validate runs the full pipeline for one asset: probe, sample, encode,
// submit, aggregate. The returned report carries the authoritative verdict.
//
// All temporary state lives under a per-invocation directory that is removed
// before Validate returns, on success and on failure alike.
func (p *Pipeline) Validate(ctx context.Context, assetPath string, exp vision.Expectation) (*report.Report, error) {
	startTime := time.Now()

	// Reject missing or unreadable assets before creating any temp state.
	info, err := os.Stat(assetPath)
	if err != nil {
		return nil, errors.NewAssetNotFoundError(assetPath)
	}
	if info.IsDir() {
		return nil, errors.NewAssetNotReadableError(assetPath, fmt.Errorf("%s is a directory", assetPath))
	}
	f, err := os.Open(assetPath)
	if err != nil {
		return nil, errors.NewAssetNotReadableError(assetPath, err)
	}
	_ = f.Close()

	p.rep.RunStarted(reporter.RunStart{
		AssetPath:   assetPath,
		Campaign:    exp.Campaign,
		Brand:       exp.Brand,
		Expectation: exp.Description,
	})
	p.logf("validating %s", assetPath)

	// A fresh UUID keeps concurrent invocations from colliding even across
	// processes sharing a temp dir.
	workDir := filepath.Join(p.cfg.GetTempDir(), "vidproof-"+uuid.NewString())
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create working directory: %w", err)
	}
	defer func() {
		if rmErr := os.RemoveAll(workDir); rmErr != nil {
			p.warnf("failed to remove working directory %s: %v", workDir, rmErr)
		}
	}()

	// Probe. A failed probe is tolerated: the sampler falls back to an
	// assumed duration.
	metadata := p.probe(ctx, assetPath)

	// After this point failures still return a partial report so callers
	// keep whatever technical metadata was already gathered.
	partial := func(sampled, analyzed int) *report.Report {
		return report.Build(report.BuildParams{
			AssetPath:      assetPath,
			Expectation:    exp,
			Model:          p.cfg.VisionModel,
			Metadata:       metadata,
			FramesSampled:  sampled,
			FramesAnalyzed: analyzed,
			Elapsed:        time.Since(startTime),
		})
	}

	// Sample.
	frames, err := p.sample(ctx, assetPath, metadata, workDir)
	if err != nil {
		return partial(len(frames), 0), err
	}

	// Encode.
	inputs, err := p.encode(frames)
	if err != nil {
		return partial(len(frames), 0), err
	}

	// Submit.
	p.rep.StageProgress(reporter.StageProgress{
		Stage:   string(StageSubmitting),
		Message: fmt.Sprintf("submitting %d frames for analysis", len(inputs)),
	})
	analysis, err := p.analyzer.Analyze(ctx, inputs, exp)
	if err != nil {
		return partial(len(frames), len(inputs)), err
	}

	// Aggregate.
	p.rep.StageProgress(reporter.StageProgress{
		Stage:   string(StageAggregating),
		Message: "scoring analysis",
	})
	verdict := scoring.Aggregate(analysis)
	if verdict.Disagrees() {
		p.warnf("service verdict passed=%t disagrees with local verdict passed=%t",
			verdict.ServicePassed, verdict.Passed)
	}

	rep := report.Build(report.BuildParams{
		AssetPath:      assetPath,
		Expectation:    exp,
		Model:          p.cfg.VisionModel,
		Metadata:       metadata,
		FramesSampled:  len(frames),
		FramesAnalyzed: len(inputs),
		Analysis:       analysis,
		Verdict:        verdict,
		Elapsed:        time.Since(startTime),
	})

	p.rep.Verdict(rep)
	p.logf("verdict for %s: passed=%t overall=%.2f", rep.AssetName, rep.Passed, rep.Overall)

	return rep, nil
}

func (p *Pipeline) probe(ctx context.Context, assetPath string) *ffprobe.Metadata {
	p.rep.StageProgress(reporter.StageProgress{
		Stage:   string(StageProbing),
		Message: "reading technical metadata",
	})

	probeCtx, cancel := context.WithTimeout(ctx, p.cfg.ProbeTimeout)
	defer cancel()

	metadata, err := p.toolkit.Probe(probeCtx, assetPath)
	if err != nil {
		p.warnf("probe failed for %s, assuming %.1fs duration: %v",
			assetPath, config.DefaultAssumedDuration, err)
		p.rep.Warning(fmt.Sprintf("could not probe %s, assuming %.1fs duration",
			util.GetFilename(assetPath), config.DefaultAssumedDuration))
		return nil
	}

	p.rep.AssetProbed(reporter.AssetSummary{
		File:       util.GetFilename(assetPath),
		Duration:   util.FormatDuration(metadata.Duration),
		Resolution: fmt.Sprintf("%dx%d", metadata.Width, metadata.Height),
		Codec:      metadata.Codec,
		Size:       util.FormatBytes(metadata.SizeBytes),
	})

	return metadata
}

func (p *Pipeline) sample(ctx context.Context, assetPath string, metadata *ffprobe.Metadata, workDir string) ([]sampler.Frame, error) {
	duration := 0.0
	if metadata.HasDuration() {
		duration = metadata.Duration
	}

	timestamps := sampler.Timestamps(duration, p.cfg.FrameCount)
	p.rep.SamplingStarted(len(timestamps))

	frames, err := sampler.Sample(ctx, p.toolkit, assetPath, duration, sampler.Options{
		FrameCount:     p.cfg.FrameCount,
		ExtractTimeout: p.cfg.ExtractTimeout,
		DurableDir:     workDir,
		Logger:         loggerOrNop{p.logger},
		OnFrame: func(index, total int, timestamp float64, ok bool) {
			p.rep.FrameSampled(reporter.FrameUpdate{
				Index:     index,
				Total:     total,
				Timestamp: timestamp,
				Skipped:   !ok,
			})
		},
	})
	if err != nil {
		return nil, err
	}

	if len(frames) < len(timestamps) {
		p.rep.Warning(fmt.Sprintf("sampled %d of %d frames, continuing with what succeeded",
			len(frames), len(timestamps)))
	}

	return frames, nil
}

func (p *Pipeline) encode(frames []sampler.Frame) ([]vision.FrameInput, error) {
	p.rep.StageProgress(reporter.StageProgress{
		Stage:   string(StageEncoding),
		Message: fmt.Sprintf("encoding %d frames", len(frames)),
	})

	opts := frame.Options{
		MaxBytes:     p.cfg.MaxEncodedBytes,
		QualityStart: p.cfg.JPEGQualityStart,
		QualityStep:  p.cfg.JPEGQualityStep,
		QualityFloor: p.cfg.JPEGQualityFloor,
		MaxWidth:     config.MaxFrameWidth,
		MaxHeight:    config.MaxFrameHeight,
	}

	var inputs []vision.FrameInput
	var lastErr error
	for _, fr := range frames {
		encoded, err := frame.Encode(fr.Path, opts)
		if err != nil {
			p.warnf("skipping frame at %.2fs: %v", fr.Timestamp, err)
			p.rep.Warning(fmt.Sprintf("skipping undecodable frame at %s", util.FormatTimestamp(fr.Timestamp)))
			lastErr = err
			continue
		}
		inputs = append(inputs, vision.FrameInput{
			Timestamp: fr.Timestamp,
			MediaType: encoded.MediaType,
			Data:      encoded.Data,
		})
	}

	if len(inputs) == 0 {
		if lastErr != nil {
			return nil, lastErr
		}
		return nil, errors.NewServiceError("no frames to analyze", nil)
	}

	return inputs, nil
}

func (p *Pipeline) logf(format string, args ...any) {
	if p.logger != nil {
		p.logger.Info(format, args...)
	}
}

func (p *Pipeline) warnf(format string, args ...any) {
	if p.logger != nil {
		p.logger.Warn(format, args...)
	}
}

// loggerOrNop adapts the optional pipeline logger to the sampler interface.
type loggerOrNop struct {
	logger Logger
}

func (l loggerOrNop) Info(format string, args ...any) {
	if l.logger != nil {
		l.logger.Info(format, args...)
	}
}

func (l loggerOrNop) Warn(format string, args ...any) {
	if l.logger != nil {
		l.logger.Warn(format, args...)
	}
}
