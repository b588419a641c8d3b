// Package main provides the CLI entry point for vidproof.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/vidproof/vidproof/internal/config"
	"github.com/vidproof/vidproof/internal/discovery"
	"github.com/vidproof/vidproof/internal/errors"
	"github.com/vidproof/vidproof/internal/logging"
	"github.com/vidproof/vidproof/internal/pipeline"
	"github.com/vidproof/vidproof/internal/reporter"
	"github.com/vidproof/vidproof/internal/util"
	"github.com/vidproof/vidproof/internal/vision"
)

const (
	appName    = "vidproof"
	appVersion = "0.1.0"
)

// apiKeyEnv is where the vision service key is read from when --api-key is
// not given. A .env file in the working directory is honored.
const apiKeyEnv = "ANTHROPIC_API_KEY"

type validateArgs struct {
	campaign    string
	brand       string
	expectation string
	duration    float64
	resolution  string
	aspect      string
	frames      int
	apiKey      string
	model       string
	baseURL     string
	configPath  string
	reportPath  string
	logDir      string
	tempDir     string
	workers     int
	jsonOutput  bool
	verbose     bool
	noLog       bool
}

func main() {
	root := &cobra.Command{
		Use:           appName,
		Short:         "Validate finished marketing videos with a vision analysis service",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       appVersion,
	}
	root.AddCommand(newValidateCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if suggestion := errors.SuggestionFor(err); suggestion != "" {
			fmt.Fprintf(os.Stderr, "Suggestion: %s\n", suggestion)
		}
		os.Exit(exitCode(err))
	}
}

// exitCode maps outcomes onto distinct exit statuses so CI can branch on
// them: 0 validated and passed, 1 operational error, 2 validated but failed.
func exitCode(err error) int {
	if err == errFailedValidation {
		return 2
	}
	return 1
}

// errFailedValidation marks a clean run whose verdict was a fail.
var errFailedValidation = fmt.Errorf("validation failed")

func newValidateCmd() *cobra.Command {
	var va validateArgs

	cmd := &cobra.Command{
		Use:   "validate <video file or directory>",
		Short: "Sample frames from a video and score it against an expectation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(args[0], va)
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&va.campaign, "campaign", "", "Campaign the video belongs to")
	fs.StringVarP(&va.brand, "brand", "b", "", "Brand the video should represent")
	fs.StringVarP(&va.expectation, "expect", "e", "", "What the video is expected to show")
	fs.Float64Var(&va.duration, "expect-duration", 0, "Expected duration in seconds")
	fs.StringVar(&va.resolution, "expect-resolution", "", "Expected resolution, e.g. 1920x1080")
	fs.StringVar(&va.aspect, "expect-aspect", "", "Expected aspect ratio, e.g. 16:9")
	fs.IntVar(&va.frames, "frames", 0, fmt.Sprintf("Frames to sample, 1-%d (default %d)", config.MaxFrameCount, config.DefaultFrameCount))
	fs.StringVar(&va.apiKey, "api-key", "", "Vision service API key (defaults to $"+apiKeyEnv+")")
	fs.StringVar(&va.model, "model", "", "Vision model (default "+config.DefaultVisionModel+")")
	fs.StringVar(&va.baseURL, "base-url", "", "Vision service base URL")
	fs.StringVarP(&va.configPath, "config", "c", "", "YAML config file")
	fs.StringVarP(&va.reportPath, "report", "r", "", "Write the full report as JSON to this path")
	fs.StringVarP(&va.logDir, "log-dir", "l", "", "Log directory (defaults to the working directory)")
	fs.StringVar(&va.tempDir, "temp-dir", "", "Directory for per-run scratch space")
	fs.IntVar(&va.workers, "workers", 0, fmt.Sprintf("Parallel validations in batch mode (default %d)", config.DefaultWorkers))
	fs.BoolVar(&va.jsonOutput, "json", false, "Emit NDJSON events instead of terminal output")
	fs.BoolVarP(&va.verbose, "verbose", "v", false, "Enable verbose output")
	fs.BoolVar(&va.noLog, "no-log", false, "Disable log file creation")

	return cmd
}

func runValidate(input string, va validateArgs) error {
	inputPath, err := filepath.Abs(input)
	if err != nil {
		return fmt.Errorf("invalid input path: %w", err)
	}

	inputInfo, err := os.Stat(inputPath)
	if err != nil {
		return errors.NewAssetNotFoundError(inputPath)
	}

	cfg, err := buildConfig(va)
	if err != nil {
		return err
	}

	logDir := va.logDir
	if logDir == "" {
		logDir = "."
	}
	logger, err := logging.Setup(logDir, va.verbose, va.noLog)
	if err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	if logger != nil {
		defer func() { _ = logger.Close() }()
	}

	// Discover files to validate
	var assets []string
	if inputInfo.IsDir() {
		result, err := discovery.FindVideoFilesWithLogging(inputPath, logger)
		if err != nil {
			return err
		}
		assets = result.Files
	} else {
		assets = []string{inputPath}
		logger.Info("Validating single file: %s", inputPath)
	}

	analyzer, err := vision.NewClient(vision.ClientOptions{
		APIKey:    cfg.APIKey,
		BaseURL:   cfg.VisionBaseURL,
		Model:     cfg.VisionModel,
		MaxTokens: cfg.VisionMaxTokens,
		Timeout:   cfg.VisionTimeout,
	})
	if err != nil {
		return err
	}

	var rep reporter.Reporter
	if va.jsonOutput {
		rep = reporter.NewJSONReporter()
	} else {
		rep = reporter.NewTerminalReporter()
	}

	// Cancel on SIGINT/SIGTERM
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	exp := vision.Expectation{
		Campaign:           va.campaign,
		Brand:              va.brand,
		Description:        va.expectation,
		ExpectedDuration:   va.duration,
		ExpectedResolution: va.resolution,
		ExpectedAspect:     va.aspect,
	}

	p := pipeline.New(cfg, nil, analyzer, rep, logger)
	outcomes := p.ValidateBatch(ctx, assets, exp)

	return resolveOutcome(outcomes, va.reportPath)
}

// buildConfig layers defaults, a .env file, an optional YAML file, and CLI
// flags, in that order.
func buildConfig(va validateArgs) (*config.Config, error) {
	// Best effort; a missing .env file is fine.
	_ = godotenv.Load()

	cfg := config.NewConfig()

	if va.configPath != "" {
		if err := config.LoadFile(va.configPath, cfg); err != nil {
			return nil, err
		}
	}

	if va.frames != 0 {
		cfg.FrameCount = va.frames
	}
	if va.model != "" {
		cfg.VisionModel = va.model
	}
	if va.baseURL != "" {
		cfg.VisionBaseURL = va.baseURL
	}
	if va.tempDir != "" {
		cfg.TempDir = va.tempDir
	}
	if va.workers != 0 {
		cfg.Workers = va.workers
	}

	cfg.APIKey = va.apiKey
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv(apiKeyEnv)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// resolveOutcome persists reports when requested and converts the batch
// outcome into the process exit status.
func resolveOutcome(outcomes []pipeline.FileOutcome, reportPath string) error {
	var firstErr error
	allPassed := true

	for _, outcome := range outcomes {
		if outcome.Err != nil {
			if firstErr == nil {
				firstErr = outcome.Err
			}
			allPassed = false
			continue
		}
		if !outcome.Report.Passed {
			allPassed = false
		}
		if reportPath != "" {
			path := reportPath
			if len(outcomes) > 1 {
				// One report per file in batch mode.
				base := util.GetFileStem(outcome.AssetPath)
				path = filepath.Join(filepath.Dir(reportPath), base+"_report.json")
			}
			if err := outcome.Report.WriteJSON(path); err != nil {
				return err
			}
		}
	}

	if firstErr != nil {
		return firstErr
	}
	if !allPassed {
		return errFailedValidation
	}
	return nil
}
