package scoring

import (
	"testing"

	"github.com/vidproof/vidproof/internal/vision"
)

func analysisWith(scores [6]float64) *vision.Analysis {
	return &vision.Analysis{
		VisualQuality:          scores[0],
		BrandPresence:          scores[1],
		ContentRelevance:       scores[2],
		ProductionValue:        scores[3],
		TechnicalExecution:     scores[4],
		MarketingEffectiveness: scores[5],
	}
}

func TestAggregateMeanAndPass(t *testing.T) {
	analysis := analysisWith([6]float64{7, 7, 8, 8, 7, 9})

	verdict := Aggregate(analysis)

	if verdict.Overall != 7.67 {
		t.Errorf("Overall = %v, want 7.67", verdict.Overall)
	}
	if !verdict.Passed {
		t.Error("Passed = false, want true when all scores meet the threshold")
	}
}

func TestAggregateSingleLowScoreFails(t *testing.T) {
	analysis := analysisWith([6]float64{9, 9, 9, 9, 9, 5})

	verdict := Aggregate(analysis)

	if verdict.Passed {
		t.Error("Passed = true, want false when one dimension is below threshold")
	}
	if verdict.Overall != 8.33 {
		t.Errorf("Overall = %v, want 8.33", verdict.Overall)
	}
}

func TestAggregateThresholdIsInclusive(t *testing.T) {
	verdict := Aggregate(analysisWith([6]float64{6, 6, 6, 6, 6, 6}))

	if !verdict.Passed {
		t.Error("Passed = false, want true when every score equals the threshold")
	}
	if verdict.Overall != 6.0 {
		t.Errorf("Overall = %v, want 6.0", verdict.Overall)
	}
}

func TestAggregateClampsOutOfRangeScores(t *testing.T) {
	verdict := Aggregate(analysisWith([6]float64{15, -3, 8, 8, 8, 8}))

	if verdict.Scores.VisualQuality != 10 {
		t.Errorf("VisualQuality = %v, want clamped to 10", verdict.Scores.VisualQuality)
	}
	if verdict.Scores.BrandPresence != 0 {
		t.Errorf("BrandPresence = %v, want clamped to 0", verdict.Scores.BrandPresence)
	}
	if verdict.Passed {
		t.Error("Passed = true, want false with a clamped-to-zero dimension")
	}
}

func TestAggregateOmittedScoreFails(t *testing.T) {
	// A service response missing a field leaves that score at zero.
	verdict := Aggregate(analysisWith([6]float64{8, 8, 8, 8, 8, 0}))

	if verdict.Passed {
		t.Error("Passed = true, want false when a score is missing")
	}
}

func TestAggregatePreservesServiceVerdict(t *testing.T) {
	analysis := analysisWith([6]float64{9, 9, 9, 9, 9, 5})
	analysis.Passed = true
	analysis.OverallScore = 8.5

	verdict := Aggregate(analysis)

	if !verdict.ServicePassed {
		t.Error("ServicePassed = false, want the service claim preserved")
	}
	if verdict.ServiceOverall != 8.5 {
		t.Errorf("ServiceOverall = %v, want 8.5", verdict.ServiceOverall)
	}
	if !verdict.Disagrees() {
		t.Error("Disagrees() = false, want true when local and service verdicts differ")
	}
}
