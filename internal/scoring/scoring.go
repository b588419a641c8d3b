// Package scoring turns a parsed vision analysis into a validation verdict.
package scoring

import (
	"math"

	"github.com/vidproof/vidproof/internal/config"
	"github.com/vidproof/vidproof/internal/util"
	"github.com/vidproof/vidproof/internal/vision"
)

// Scores holds the six dimension scores after clamping to the 0-10 scale.
type Scores struct {
	VisualQuality          float64
	BrandPresence          float64
	ContentRelevance       float64
	ProductionValue        float64
	TechnicalExecution     float64
	MarketingEffectiveness float64
}

// All returns the scores in presentation order, matching vision.Dimensions.
func (s Scores) All() []float64 {
	return []float64{
		s.VisualQuality,
		s.BrandPresence,
		s.ContentRelevance,
		s.ProductionValue,
		s.TechnicalExecution,
		s.MarketingEffectiveness,
	}
}

// Verdict is the locally computed outcome. Passed is authoritative; the
// service's own pass claim is kept alongside for comparison.
type Verdict struct {
	Scores        Scores
	Overall       float64
	Passed        bool
	ServicePassed bool

	// ServiceOverall is the overall score the service reported, before
	// local recomputation.
	ServiceOverall float64
}

// Aggregate computes the verdict from a parsed analysis.
//
// Each dimension is clamped to [0, 10]; a score the service omitted stays 0
// and fails that dimension. Overall is the arithmetic mean of the six
// clamped scores. The video passes only when every dimension meets the pass
// threshold, regardless of what the service claimed.
func Aggregate(analysis *vision.Analysis) Verdict {
	scores := Scores{
		VisualQuality:          util.Clamp(analysis.VisualQuality, 0, 10),
		BrandPresence:          util.Clamp(analysis.BrandPresence, 0, 10),
		ContentRelevance:       util.Clamp(analysis.ContentRelevance, 0, 10),
		ProductionValue:        util.Clamp(analysis.ProductionValue, 0, 10),
		TechnicalExecution:     util.Clamp(analysis.TechnicalExecution, 0, 10),
		MarketingEffectiveness: util.Clamp(analysis.MarketingEffectiveness, 0, 10),
	}

	all := scores.All()
	sum := 0.0
	passed := true
	for _, score := range all {
		sum += score
		if score < config.PassThreshold {
			passed = false
		}
	}

	overall := sum / float64(len(all))
	// Keep two decimal places so reports and logs agree.
	overall = math.Round(overall*100) / 100

	return Verdict{
		Scores:         scores,
		Overall:        overall,
		Passed:         passed,
		ServicePassed:  analysis.Passed,
		ServiceOverall: analysis.OverallScore,
	}
}

// Disagrees reports whether the service's pass claim differs from the
// locally computed verdict.
func (v Verdict) Disagrees() bool {
	return v.Passed != v.ServicePassed
}
