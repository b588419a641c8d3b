package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/vidproof/vidproof/internal/config"
	"github.com/vidproof/vidproof/internal/ffprobe"
	"github.com/vidproof/vidproof/internal/scoring"
	"github.com/vidproof/vidproof/internal/vision"
)

func sampleParams() BuildParams {
	analysis := &vision.Analysis{
		VisualQuality:          8,
		BrandPresence:          7,
		ContentRelevance:       9,
		ProductionValue:        8,
		TechnicalExecution:     7,
		MarketingEffectiveness: 8,
		OverallScore:           7.8,
		Passed:                 true,
		Issues:                 []string{"logo is small"},
		Strengths:              []string{"clean pacing"},
		Recommendations:        []string{"hold the end card"},
		Summary:                "Solid spot.",
		FrameNarrative: vision.FrameNarrative{
			Opening: "Product reveal.",
			Middle:  "Feature callouts.",
			Closing: "Call to action.",
		},
	}

	return BuildParams{
		AssetPath:   "/renders/campaign_final.mp4",
		Expectation: vision.Expectation{
			Campaign:    "spring drop",
			Brand:       "Acme",
			Description: "a 15 second sneaker ad",
		},
		Model:       "test-model",
		Metadata: &ffprobe.Metadata{
			Width:     1920,
			Height:    1080,
			Duration:  15.0,
			Codec:     "h264",
			SizeBytes: 2_400_000,
		},
		FramesSampled:  6,
		FramesAnalyzed: 6,
		Analysis:       analysis,
		Verdict:        scoring.Aggregate(analysis),
		Elapsed:        42 * time.Second,
	}
}

func TestBuildReport(t *testing.T) {
	r := Build(sampleParams())

	if r.AssetName != "campaign_final.mp4" {
		t.Errorf("AssetName = %q", r.AssetName)
	}
	if r.Campaign != "spring drop" || r.Brand != "Acme" {
		t.Errorf("Campaign = %q, Brand = %q, expectation not echoed", r.Campaign, r.Brand)
	}
	if r.Overall != 7.83 {
		t.Errorf("Overall = %v, want 7.83", r.Overall)
	}
	if !r.Passed {
		t.Error("Passed = false, want true")
	}
	if r.Asset.Width != 1920 || r.Asset.Duration != 15.0 {
		t.Errorf("Asset = %+v, metadata not echoed", r.Asset)
	}
	if r.Narrative.Middle != "Feature callouts." {
		t.Errorf("Narrative.Middle = %q", r.Narrative.Middle)
	}
	if r.ElapsedSeconds != 42 {
		t.Errorf("ElapsedSeconds = %v, want 42", r.ElapsedSeconds)
	}
}

func TestDimensionRows(t *testing.T) {
	p := sampleParams()
	p.Analysis.BrandPresence = 4
	p.Verdict = scoring.Aggregate(p.Analysis)

	rows := Build(p).DimensionRows(config.PassThreshold)

	if len(rows) != 6 {
		t.Fatalf("DimensionRows returned %d rows, want 6", len(rows))
	}
	if rows[0].Name != vision.DimVisualQuality || !rows[0].Passed {
		t.Errorf("row 0 = %+v", rows[0])
	}
	if rows[1].Name != vision.DimBrandPresence || rows[1].Passed {
		t.Errorf("row 1 = %+v, want failing brand presence", rows[1])
	}
}

func TestVerdictDisagrees(t *testing.T) {
	p := sampleParams()
	p.Analysis.TechnicalExecution = 3
	p.Analysis.Passed = true
	p.Verdict = scoring.Aggregate(p.Analysis)

	r := Build(p)

	if r.Passed {
		t.Error("Passed = true, want false")
	}
	if !r.VerdictDisagrees() {
		t.Error("VerdictDisagrees() = false, want true")
	}
}

func TestWriteJSONRoundTrip(t *testing.T) {
	r := Build(sampleParams())
	path := filepath.Join(t.TempDir(), "report.json")

	if err := r.WriteJSON(path); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var decoded Report
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("report is not valid JSON: %v", err)
	}
	if decoded.Overall != r.Overall || decoded.Passed != r.Passed {
		t.Errorf("round trip changed verdict: %+v", decoded)
	}
	if decoded.ServicePassed != r.ServicePassed {
		t.Error("round trip dropped the service verdict")
	}
}
