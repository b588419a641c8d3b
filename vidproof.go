// Package vidproof provides a Go library for validating finished marketing
// videos with a vision analysis service.
//
// Vidproof samples still frames from a rendered video, submits them to a
// vision-capable model with a six-dimension scoring rubric, and aggregates
// the scores into a pass/fail report. The local aggregation is
// authoritative; the service's own verdict is kept for comparison.
//
// Basic usage:
//
//	validator, err := vidproof.New(
//	    vidproof.WithAPIKey(os.Getenv("ANTHROPIC_API_KEY")),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	report, err := validator.Validate(ctx, "final_cut.mp4", vidproof.Expectation{
//	    Campaign:    "spring drop",
//	    Brand:       "Acme",
//	    Description: "a 15 second sneaker ad",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Printf("passed=%t overall=%.2f/10\n", report.Passed, report.Overall)
package vidproof

import (
	"context"
	"time"

	"github.com/vidproof/vidproof/internal/config"
	"github.com/vidproof/vidproof/internal/discovery"
	"github.com/vidproof/vidproof/internal/pipeline"
	"github.com/vidproof/vidproof/internal/report"
	"github.com/vidproof/vidproof/internal/reporter"
	"github.com/vidproof/vidproof/internal/sampler"
	"github.com/vidproof/vidproof/internal/vision"
)

// Re-export the types callers interact with.
type (
	Report      = report.Report
	Reporter    = reporter.Reporter
	Analyzer    = vision.Analyzer
	Expectation = vision.Expectation
)

// Validator is the main entry point for video validation.
type Validator struct {
	config   *config.Config
	analyzer vision.Analyzer
	toolkit  sampler.Toolkit
	logger   pipeline.Logger
}

// Option configures the validator.
type Option func(*Validator)

// New creates a new Validator with the given options.
//
// Unless WithAnalyzer is used, an API key is required so the validator can
// reach the vision service.
func New(opts ...Option) (*Validator, error) {
	v := &Validator{config: config.NewConfig()}

	for _, opt := range opts {
		opt(v)
	}

	if err := v.config.Validate(); err != nil {
		return nil, err
	}

	if v.analyzer == nil {
		client, err := vision.NewClient(vision.ClientOptions{
			APIKey:    v.config.APIKey,
			BaseURL:   v.config.VisionBaseURL,
			Model:     v.config.VisionModel,
			MaxTokens: v.config.VisionMaxTokens,
			Timeout:   v.config.VisionTimeout,
		})
		if err != nil {
			return nil, err
		}
		v.analyzer = client
	}

	return v, nil
}

// WithAPIKey sets the vision service API key.
func WithAPIKey(key string) Option {
	return func(v *Validator) {
		v.config.APIKey = key
	}
}

// WithModel sets the vision model used for scoring.
func WithModel(model string) Option {
	return func(v *Validator) {
		v.config.VisionModel = model
	}
}

// WithBaseURL points the validator at a different vision service endpoint.
func WithBaseURL(url string) Option {
	return func(v *Validator) {
		v.config.VisionBaseURL = url
	}
}

// WithFrameCount sets how many frames are sampled per asset (1-20).
func WithFrameCount(n int) Option {
	return func(v *Validator) {
		v.config.FrameCount = n
	}
}

// WithMaxEncodedBytes sets the per-image payload limit.
func WithMaxEncodedBytes(n uint64) Option {
	return func(v *Validator) {
		v.config.MaxEncodedBytes = n
	}
}

// WithVisionTimeout bounds the vision analysis call.
func WithVisionTimeout(d time.Duration) Option {
	return func(v *Validator) {
		v.config.VisionTimeout = d
	}
}

// WithTempDir sets where per-invocation working directories are created.
func WithTempDir(dir string) Option {
	return func(v *Validator) {
		v.config.TempDir = dir
	}
}

// WithWorkers sets how many assets a batch validates in parallel.
func WithWorkers(n int) Option {
	return func(v *Validator) {
		v.config.Workers = n
	}
}

// WithAnalyzer replaces the HTTP vision client. Useful for testing and for
// routing through a gateway.
func WithAnalyzer(a Analyzer) Option {
	return func(v *Validator) {
		v.analyzer = a
	}
}

// WithToolkit replaces the ffmpeg-backed probe and extraction toolkit.
func WithToolkit(t sampler.Toolkit) Option {
	return func(v *Validator) {
		v.toolkit = t
	}
}

// WithLogger attaches a logger for pipeline diagnostics.
func WithLogger(l pipeline.Logger) Option {
	return func(v *Validator) {
		v.logger = l
	}
}

// Validate runs the full pipeline for a single asset.
func (v *Validator) Validate(ctx context.Context, assetPath string, exp Expectation) (*Report, error) {
	return v.ValidateWithReporter(ctx, assetPath, exp, nil)
}

// ValidateWithReporter runs the pipeline with a custom progress reporter.
func (v *Validator) ValidateWithReporter(ctx context.Context, assetPath string, exp Expectation, rep Reporter) (*Report, error) {
	p := pipeline.New(v.config, v.toolkit, v.analyzer, rep, v.logger)
	return p.Validate(ctx, assetPath, exp)
}

// ValidateBatch validates multiple assets with bounded parallelism.
func (v *Validator) ValidateBatch(ctx context.Context, assetPaths []string, exp Expectation, rep Reporter) []pipeline.FileOutcome {
	p := pipeline.New(v.config, v.toolkit, v.analyzer, rep, v.logger)
	return p.ValidateBatch(ctx, assetPaths, exp)
}

// FindVideos finds video files in a directory.
func FindVideos(dir string) ([]string, error) {
	return discovery.FindVideoFiles(dir)
}
