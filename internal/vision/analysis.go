package vision

// FrameNarrative is the service's three-part description of how the video
// reads across the sampled frames.
type FrameNarrative struct {
	Opening string `json:"opening"`
	Middle  string `json:"middle"`
	Closing string `json:"closing"`
}

// Analysis is the parsed service response. Scores the service omitted are
// zero; the aggregator treats zero as a failing score rather than guessing.
type Analysis struct {
	VisualQuality          float64 `json:"visual_quality"`
	BrandPresence          float64 `json:"brand_presence"`
	ContentRelevance       float64 `json:"content_relevance"`
	ProductionValue        float64 `json:"production_value"`
	TechnicalExecution     float64 `json:"technical_execution"`
	MarketingEffectiveness float64 `json:"marketing_effectiveness"`

	// OverallScore and Passed are the service's own verdict. They are kept
	// for comparison but the aggregator recomputes both.
	OverallScore float64 `json:"overall_score"`
	Passed       bool    `json:"passed"`

	Issues          []string       `json:"issues"`
	Strengths       []string       `json:"strengths"`
	Recommendations []string       `json:"recommendations"`
	Summary         string         `json:"summary"`
	FrameNarrative  FrameNarrative `json:"frame_analysis"`
}

// DimensionScores returns the six scores keyed by dimension name.
func (a *Analysis) DimensionScores() map[string]float64 {
	return map[string]float64{
		DimVisualQuality:          a.VisualQuality,
		DimBrandPresence:          a.BrandPresence,
		DimContentRelevance:       a.ContentRelevance,
		DimProductionValue:        a.ProductionValue,
		DimTechnicalExecution:     a.TechnicalExecution,
		DimMarketingEffectiveness: a.MarketingEffectiveness,
	}
}
