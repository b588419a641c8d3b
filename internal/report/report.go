// Package report assembles and persists validation reports.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/vidproof/vidproof/internal/ffprobe"
	"github.com/vidproof/vidproof/internal/scoring"
	"github.com/vidproof/vidproof/internal/util"
	"github.com/vidproof/vidproof/internal/vision"
)

// AssetInfo echoes the probed technical metadata of the validated video.
type AssetInfo struct {
	Width     int64   `json:"width"`
	Height    int64   `json:"height"`
	Duration  float64 `json:"duration_secs"`
	Codec     string  `json:"codec,omitempty"`
	SizeBytes uint64  `json:"size_bytes,omitempty"`
	BitRate   uint64  `json:"bit_rate,omitempty"`
}

// Narrative is the service's three-part read of the video.
type Narrative struct {
	Opening string `json:"opening,omitempty"`
	Middle  string `json:"middle,omitempty"`
	Closing string `json:"closing,omitempty"`
}

// Report is the full outcome of validating one video.
type Report struct {
	AssetPath   string    `json:"asset_path"`
	AssetName   string    `json:"asset_name"`
	Campaign    string    `json:"campaign,omitempty"`
	Brand       string    `json:"brand,omitempty"`
	Expectation string    `json:"expectation,omitempty"`
	ValidatedAt time.Time `json:"validated_at"`
	Model       string    `json:"model,omitempty"`

	Asset          AssetInfo `json:"asset"`
	FramesSampled  int       `json:"frames_sampled"`
	FramesAnalyzed int       `json:"frames_analyzed"`

	VisualQuality          float64 `json:"visual_quality"`
	BrandPresence          float64 `json:"brand_presence"`
	ContentRelevance       float64 `json:"content_relevance"`
	ProductionValue        float64 `json:"production_value"`
	TechnicalExecution     float64 `json:"technical_execution"`
	MarketingEffectiveness float64 `json:"marketing_effectiveness"`

	Overall float64 `json:"overall_score"`
	Passed  bool    `json:"passed"`

	// The service's own verdict, kept verbatim for comparison.
	ServicePassed  bool    `json:"service_passed"`
	ServiceOverall float64 `json:"service_overall_score"`

	Issues          []string  `json:"issues,omitempty"`
	Strengths       []string  `json:"strengths,omitempty"`
	Recommendations []string  `json:"recommendations,omitempty"`
	Summary         string    `json:"summary,omitempty"`
	Narrative       Narrative `json:"frame_narrative"`

	Elapsed time.Duration `json:"-"`

	// ElapsedSeconds is the serialized form of Elapsed.
	ElapsedSeconds float64 `json:"elapsed_seconds"`
}

// BuildParams collects the inputs for a report.
type BuildParams struct {
	AssetPath      string
	Expectation    vision.Expectation
	Model          string
	Metadata       *ffprobe.Metadata
	FramesSampled  int
	FramesAnalyzed int
	Analysis       *vision.Analysis
	Verdict        scoring.Verdict
	Elapsed        time.Duration
}

// Build assembles a report from a completed validation run.
func Build(p BuildParams) *Report {
	r := &Report{
		AssetPath:   p.AssetPath,
		AssetName:   util.GetFilename(p.AssetPath),
		Campaign:    p.Expectation.Campaign,
		Brand:       p.Expectation.Brand,
		Expectation: p.Expectation.Description,
		ValidatedAt: time.Now().UTC(),
		Model:       p.Model,

		FramesSampled:  p.FramesSampled,
		FramesAnalyzed: p.FramesAnalyzed,

		VisualQuality:          p.Verdict.Scores.VisualQuality,
		BrandPresence:          p.Verdict.Scores.BrandPresence,
		ContentRelevance:       p.Verdict.Scores.ContentRelevance,
		ProductionValue:        p.Verdict.Scores.ProductionValue,
		TechnicalExecution:     p.Verdict.Scores.TechnicalExecution,
		MarketingEffectiveness: p.Verdict.Scores.MarketingEffectiveness,

		Overall:        p.Verdict.Overall,
		Passed:         p.Verdict.Passed,
		ServicePassed:  p.Verdict.ServicePassed,
		ServiceOverall: p.Verdict.ServiceOverall,

		Elapsed:        p.Elapsed,
		ElapsedSeconds: p.Elapsed.Seconds(),
	}

	if p.Metadata != nil {
		r.Asset = AssetInfo{
			Width:     p.Metadata.Width,
			Height:    p.Metadata.Height,
			Duration:  p.Metadata.Duration,
			Codec:     p.Metadata.Codec,
			SizeBytes: p.Metadata.SizeBytes,
			BitRate:   p.Metadata.BitRate,
		}
	}

	if p.Analysis != nil {
		r.Issues = p.Analysis.Issues
		r.Strengths = p.Analysis.Strengths
		r.Recommendations = p.Analysis.Recommendations
		r.Summary = p.Analysis.Summary
		r.Narrative = Narrative{
			Opening: p.Analysis.FrameNarrative.Opening,
			Middle:  p.Analysis.FrameNarrative.Middle,
			Closing: p.Analysis.FrameNarrative.Closing,
		}
	}

	return r
}

// DimensionRow is one scored dimension prepared for presentation.
type DimensionRow struct {
	Name   string
	Score  float64
	Passed bool
}

// DimensionRows returns the six scores in presentation order, each marked
// against the pass threshold.
func (r *Report) DimensionRows(threshold float64) []DimensionRow {
	scores := []float64{
		r.VisualQuality,
		r.BrandPresence,
		r.ContentRelevance,
		r.ProductionValue,
		r.TechnicalExecution,
		r.MarketingEffectiveness,
	}
	rows := make([]DimensionRow, len(scores))
	for i, score := range scores {
		rows[i] = DimensionRow{
			Name:   vision.Dimensions[i],
			Score:  score,
			Passed: score >= threshold,
		}
	}
	return rows
}

// VerdictDisagrees reports whether the service claimed a different outcome
// than the local aggregation.
func (r *Report) VerdictDisagrees() bool {
	return r.Passed != r.ServicePassed
}

// WriteJSON persists the report as indented JSON.
func (r *Report) WriteJSON(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write report to %s: %w", path, err)
	}
	return nil
}
