package vision

import (
	"encoding/json"
	"strings"

	"github.com/vidproof/vidproof/internal/config"
	"github.com/vidproof/vidproof/internal/errors"
	"github.com/vidproof/vidproof/internal/util"
)

// ParseResponse extracts the analysis object from loose service output.
//
// The service is asked for bare JSON but often wraps it in prose or a
// markdown fence. A fenced ```json block wins; otherwise the first balanced
// brace span is tried. Text with no recoverable JSON object yields a parse
// error carrying a truncated copy of the raw response.
func ParseResponse(raw string) (*Analysis, error) {
	for _, candidate := range jsonCandidates(raw) {
		var analysis Analysis
		if err := json.Unmarshal([]byte(candidate), &analysis); err == nil {
			return &analysis, nil
		}
	}
	return nil, errors.NewParseError(util.Truncate(raw, config.MaxRawResponseBytes))
}

// jsonCandidates yields substrings of raw worth attempting to unmarshal,
// most specific first.
func jsonCandidates(raw string) []string {
	var candidates []string
	if fenced := fencedBlock(raw); fenced != "" {
		candidates = append(candidates, fenced)
	}
	if span := balancedBraces(raw); span != "" {
		candidates = append(candidates, span)
	}
	return candidates
}

// fencedBlock returns the contents of the first ```json fence, or "".
func fencedBlock(raw string) string {
	start := strings.Index(raw, "```json")
	if start < 0 {
		return ""
	}
	body := raw[start+len("```json"):]
	end := strings.Index(body, "```")
	if end < 0 {
		return ""
	}
	return strings.TrimSpace(body[:end])
}

// balancedBraces returns the first top-level {...} span in raw, honoring
// string literals and escapes, or "".
func balancedBraces(raw string) string {
	start := strings.IndexByte(raw, '{')
	if start < 0 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(raw); i++ {
		c := raw[i]
		switch {
		case escaped:
			escaped = false
		case inString && c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return raw[start : i+1]
			}
		}
	}
	return ""
}
