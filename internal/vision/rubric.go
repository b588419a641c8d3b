// Package vision submits sampled frames to a vision analysis service and
// parses the scored response.
package vision

import (
	"fmt"
	"strings"
)

// Dimension names as the service must report them. Order matters for the
// rubric text and for presentation.
const (
	DimVisualQuality          = "visual_quality"
	DimBrandPresence          = "brand_presence"
	DimContentRelevance       = "content_relevance"
	DimProductionValue        = "production_value"
	DimTechnicalExecution     = "technical_execution"
	DimMarketingEffectiveness = "marketing_effectiveness"
)

// Dimensions lists all scored dimensions in presentation order.
var Dimensions = []string{
	DimVisualQuality,
	DimBrandPresence,
	DimContentRelevance,
	DimProductionValue,
	DimTechnicalExecution,
	DimMarketingEffectiveness,
}

var dimensionGuidance = map[string]string{
	DimVisualQuality:          "sharpness, composition, color grading, and overall aesthetic appeal",
	DimBrandPresence:          "how clearly and consistently the brand is represented across frames",
	DimContentRelevance:       "how well the visuals match the stated expectation for this video",
	DimProductionValue:        "evidence of professional production: lighting, framing, transitions",
	DimTechnicalExecution:     "absence of artifacts, glitches, encoding defects, or rendering errors",
	DimMarketingEffectiveness: "how likely the video is to hold attention and drive its message",
}

// Expectation is the caller-supplied description of what the video should
// contain. Only Description is commonly set; the rest sharpen the rubric
// when known.
type Expectation struct {
	Campaign    string
	Brand       string
	Description string

	// Optional technical expectations.
	ExpectedDuration   float64
	ExpectedResolution string
	ExpectedAspect     string
}

// BuildPrompt assembles the scoring rubric sent alongside the frames.
// frameCount is how many stills accompany the prompt.
func BuildPrompt(exp Expectation, frameCount int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are reviewing %d still frames sampled in order from a finished marketing video.\n", frameCount)
	if exp.Campaign != "" {
		fmt.Fprintf(&b, "Campaign: %s\n", exp.Campaign)
	}
	if exp.Brand != "" {
		fmt.Fprintf(&b, "Brand: %s\n", exp.Brand)
	}
	if exp.Description != "" {
		fmt.Fprintf(&b, "The video is expected to show: %s\n", exp.Description)
	}
	if exp.ExpectedDuration > 0 {
		fmt.Fprintf(&b, "Expected duration: %.1f seconds\n", exp.ExpectedDuration)
	}
	if exp.ExpectedResolution != "" {
		fmt.Fprintf(&b, "Expected resolution: %s\n", exp.ExpectedResolution)
	}
	if exp.ExpectedAspect != "" {
		fmt.Fprintf(&b, "Expected aspect ratio: %s\n", exp.ExpectedAspect)
	}
	b.WriteString("\nScore the video on each dimension from 0 to 10:\n")
	for _, dim := range Dimensions {
		fmt.Fprintf(&b, "- %s: %s\n", dim, dimensionGuidance[dim])
	}
	b.WriteString(`
The video passes only if every dimension scores 6 or higher and there are no
critical issues.

Respond with a single JSON object and no other commentary:
{
  "visual_quality": <0-10>,
  "brand_presence": <0-10>,
  "content_relevance": <0-10>,
  "production_value": <0-10>,
  "technical_execution": <0-10>,
  "marketing_effectiveness": <0-10>,
  "overall_score": <0-10>,
  "passed": <true|false>,
  "issues": ["<problems that hurt the video>"],
  "strengths": ["<what works well>"],
  "recommendations": ["<concrete improvements>"],
  "summary": "<one paragraph verdict>",
  "frame_analysis": {
    "opening": "<what the first frames establish>",
    "middle": "<how the middle frames develop it>",
    "closing": "<how the final frames resolve it>"
  }
}
`)
	return b.String()
}
