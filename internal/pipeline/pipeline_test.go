package pipeline

import (
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"

	"github.com/vidproof/vidproof/internal/config"
	"github.com/vidproof/vidproof/internal/errors"
	"github.com/vidproof/vidproof/internal/ffprobe"
	"github.com/vidproof/vidproof/internal/vision"
)

type mockToolkit struct {
	probeErr   error
	duration   float64
	extractErr map[int]error // keyed by call count, 0-based
	calls      int
}

func (m *mockToolkit) Available() bool { return true }

func (m *mockToolkit) Probe(_ context.Context, path string) (*ffprobe.Metadata, error) {
	if m.probeErr != nil {
		return nil, m.probeErr
	}
	return &ffprobe.Metadata{Width: 1920, Height: 1080, Duration: m.duration, Codec: "h264"}, nil
}

func (m *mockToolkit) ExtractFrame(_ context.Context, _ string, _ float64, outputPath string) error {
	call := m.calls
	m.calls++
	if err, ok := m.extractErr[call]; ok {
		return err
	}

	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, color.RGBA{R: 128, G: 64, B: 32, A: 255})
		}
	}
	f, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	defer f.Close()
	return jpeg.Encode(f, img, nil)
}

type mockAnalyzer struct {
	analysis *vision.Analysis
	err      error
	frames   []vision.FrameInput
}

func (m *mockAnalyzer) Analyze(_ context.Context, frames []vision.FrameInput, _ vision.Expectation) (*vision.Analysis, error) {
	m.frames = frames
	if m.err != nil {
		return nil, m.err
	}
	return m.analysis, nil
}

func passingAnalysis() *vision.Analysis {
	return &vision.Analysis{
		VisualQuality:          8,
		BrandPresence:          7,
		ContentRelevance:       8,
		ProductionValue:        7,
		TechnicalExecution:     8,
		MarketingEffectiveness: 7,
		OverallScore:           7.5,
		Passed:                 true,
		Summary:                "Looks good.",
	}
}

func writeAsset(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "spot_final.mp4")
	if err := os.WriteFile(path, []byte("not a real video"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// tempDirEntries counts leftover entries in the pipeline's temp root.
func tempDirEntries(t *testing.T, dir string) int {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	return len(entries)
}

func testConfig(t *testing.T) *config.Config {
	cfg := config.NewConfig()
	cfg.TempDir = t.TempDir()
	cfg.Workers = 1
	return cfg
}

func TestValidateHappyPath(t *testing.T) {
	cfg := testConfig(t)
	toolkit := &mockToolkit{duration: 6.0}
	analyzer := &mockAnalyzer{analysis: passingAnalysis()}

	p := New(cfg, toolkit, analyzer, nil, nil)
	rep, err := p.Validate(context.Background(), writeAsset(t), vision.Expectation{Description: "a product demo"})
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	if !rep.Passed {
		t.Error("Passed = false, want true")
	}
	if rep.Overall != 7.5 {
		t.Errorf("Overall = %v, want 7.5", rep.Overall)
	}
	if rep.FramesSampled != cfg.FrameCount {
		t.Errorf("FramesSampled = %d, want %d", rep.FramesSampled, cfg.FrameCount)
	}
	if rep.Asset.Width != 1920 {
		t.Errorf("Asset.Width = %d, metadata not echoed", rep.Asset.Width)
	}
	if len(analyzer.frames) != cfg.FrameCount {
		t.Errorf("analyzer received %d frames, want %d", len(analyzer.frames), cfg.FrameCount)
	}

	if n := tempDirEntries(t, cfg.TempDir); n != 0 {
		t.Errorf("%d temp entries left behind after success", n)
	}
}

func TestValidateMissingAsset(t *testing.T) {
	cfg := testConfig(t)
	p := New(cfg, &mockToolkit{duration: 6.0}, &mockAnalyzer{analysis: passingAnalysis()}, nil, nil)

	_, err := p.Validate(context.Background(), filepath.Join(t.TempDir(), "absent.mp4"), vision.Expectation{})
	if err == nil {
		t.Fatal("Validate() did not fail for a missing asset")
	}
	if !errors.IsKind(err, errors.KindAssetNotFound) {
		t.Errorf("error kind = %v, want KindAssetNotFound", err)
	}
	// No temp state may be created before the existence check.
	if n := tempDirEntries(t, cfg.TempDir); n != 0 {
		t.Errorf("%d temp entries created for a missing asset", n)
	}
}

func TestValidateToleratesPartialExtraction(t *testing.T) {
	cfg := testConfig(t)
	toolkit := &mockToolkit{
		duration:   6.0,
		extractErr: map[int]error{1: os.ErrDeadlineExceeded, 3: os.ErrDeadlineExceeded},
	}
	analyzer := &mockAnalyzer{analysis: passingAnalysis()}

	p := New(cfg, toolkit, analyzer, nil, nil)
	rep, err := p.Validate(context.Background(), writeAsset(t), vision.Expectation{})
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	want := cfg.FrameCount - 2
	if rep.FramesSampled != want {
		t.Errorf("FramesSampled = %d, want %d", rep.FramesSampled, want)
	}
	if len(analyzer.frames) != want {
		t.Errorf("analyzer received %d frames, want %d", len(analyzer.frames), want)
	}
}

func TestValidateAllExtractionsFail(t *testing.T) {
	cfg := testConfig(t)
	extractErr := make(map[int]error)
	for i := 0; i < cfg.FrameCount; i++ {
		extractErr[i] = os.ErrDeadlineExceeded
	}
	toolkit := &mockToolkit{duration: 6.0, extractErr: extractErr}

	p := New(cfg, toolkit, &mockAnalyzer{analysis: passingAnalysis()}, nil, nil)
	_, err := p.Validate(context.Background(), writeAsset(t), vision.Expectation{})
	if err == nil {
		t.Fatal("Validate() did not fail with zero frames")
	}
	if !errors.IsKind(err, errors.KindExtractionFailure) {
		t.Errorf("error kind = %v, want KindExtractionFailure", err)
	}
	if n := tempDirEntries(t, cfg.TempDir); n != 0 {
		t.Errorf("%d temp entries left behind after failure", n)
	}
}

func TestValidateProbeFailureFallsBack(t *testing.T) {
	cfg := testConfig(t)
	toolkit := &mockToolkit{probeErr: errors.NewToolUnavailableError("ffprobe")}
	analyzer := &mockAnalyzer{analysis: passingAnalysis()}

	p := New(cfg, toolkit, analyzer, nil, nil)
	rep, err := p.Validate(context.Background(), writeAsset(t), vision.Expectation{})
	if err != nil {
		t.Fatalf("Validate() error = %v, want fallback to assumed duration", err)
	}

	// With the assumed duration every requested frame still fits.
	if rep.FramesSampled != cfg.FrameCount {
		t.Errorf("FramesSampled = %d, want %d", rep.FramesSampled, cfg.FrameCount)
	}
	if rep.Asset.Width != 0 {
		t.Error("Asset metadata should be empty when probing failed")
	}
}

func TestValidateServiceErrorCleansUp(t *testing.T) {
	cfg := testConfig(t)
	analyzer := &mockAnalyzer{err: errors.NewServiceError("vision service returned 500", nil)}

	p := New(cfg, &mockToolkit{duration: 6.0}, analyzer, nil, nil)
	rep, err := p.Validate(context.Background(), writeAsset(t), vision.Expectation{})
	if err == nil {
		t.Fatal("Validate() did not surface the service error")
	}
	if !errors.IsKind(err, errors.KindServiceError) {
		t.Errorf("error kind = %v, want KindServiceError", err)
	}
	if rep == nil || rep.Asset.Duration != 6.0 {
		t.Errorf("partial report = %+v, want probed metadata alongside the error", rep)
	}
	if rep != nil && rep.Passed {
		t.Error("partial report must not carry a passing verdict")
	}
	if n := tempDirEntries(t, cfg.TempDir); n != 0 {
		t.Errorf("%d temp entries left behind after service failure", n)
	}
}

func TestValidateLocalVerdictOverridesService(t *testing.T) {
	cfg := testConfig(t)
	analysis := passingAnalysis()
	analysis.TechnicalExecution = 3
	analysis.Passed = true // service claims a pass anyway

	p := New(cfg, &mockToolkit{duration: 6.0}, &mockAnalyzer{analysis: analysis}, nil, nil)
	rep, err := p.Validate(context.Background(), writeAsset(t), vision.Expectation{})
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	if rep.Passed {
		t.Error("Passed = true, want false from local aggregation")
	}
	if !rep.ServicePassed {
		t.Error("ServicePassed = false, want the service claim preserved")
	}
}

func TestValidateBatch(t *testing.T) {
	cfg := testConfig(t)
	toolkit := &mockToolkit{duration: 6.0}
	analyzer := &mockAnalyzer{analysis: passingAnalysis()}

	good := writeAsset(t)
	missing := filepath.Join(t.TempDir(), "absent.mp4")

	p := New(cfg, toolkit, analyzer, nil, nil)
	outcomes := p.ValidateBatch(context.Background(), []string{good, missing}, vision.Expectation{})

	if len(outcomes) != 2 {
		t.Fatalf("got %d outcomes, want 2", len(outcomes))
	}
	if outcomes[0].Err != nil {
		t.Errorf("outcome 0 error = %v", outcomes[0].Err)
	}
	if outcomes[0].Report == nil || !outcomes[0].Report.Passed {
		t.Error("outcome 0 should carry a passing report")
	}
	if !errors.IsKind(outcomes[1].Err, errors.KindAssetNotFound) {
		t.Errorf("outcome 1 error = %v, want KindAssetNotFound", outcomes[1].Err)
	}
}
