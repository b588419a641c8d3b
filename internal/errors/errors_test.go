package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorKindString(t *testing.T) {
	tests := []struct {
		kind ErrorKind
		want string
	}{
		{KindAssetNotFound, "Asset not found"},
		{KindToolUnavailable, "Tool unavailable"},
		{KindExtractionFailure, "Frame extraction failed"},
		{KindServiceError, "Vision service error"},
		{KindParseError, "Response parse error"},
		{KindCancelled, "Operation cancelled"},
	}

	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("ErrorKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestCoreErrorIs(t *testing.T) {
	err := NewAssetNotFoundError("/missing.mp4")

	if !errors.Is(err, &CoreError{Kind: KindAssetNotFound}) {
		t.Error("errors.Is did not match same kind")
	}
	if errors.Is(err, &CoreError{Kind: KindServiceError}) {
		t.Error("errors.Is matched different kind")
	}
}

func TestIsKindThroughWrapping(t *testing.T) {
	inner := NewServiceError("vision call failed", errors.New("connection refused"))
	wrapped := fmt.Errorf("validating asset: %w", inner)

	if !IsKind(wrapped, KindServiceError) {
		t.Error("IsKind failed to find kind through wrapping")
	}

	kind, ok := Kind(wrapped)
	if !ok || kind != KindServiceError {
		t.Errorf("Kind() = %v, %v; want KindServiceError, true", kind, ok)
	}
}

func TestToolUnavailableSuggestion(t *testing.T) {
	err := NewToolUnavailableError("ffmpeg")

	if err.Suggestion == "" {
		t.Fatal("ToolUnavailable error has no install suggestion")
	}
	if !strings.Contains(err.Suggestion, "ffmpeg") {
		t.Errorf("suggestion %q does not mention ffmpeg", err.Suggestion)
	}
	if got := SuggestionFor(fmt.Errorf("probe: %w", err)); got != err.Suggestion {
		t.Errorf("SuggestionFor through wrapping = %q, want %q", got, err.Suggestion)
	}
}

func TestCommandErrorFormatting(t *testing.T) {
	err := NewCommandFailedError("ffprobe", 1, "invalid data found")

	var cmdErr *CommandError
	if !errors.As(err, &cmdErr) {
		t.Fatal("CoreError does not unwrap to CommandError")
	}
	if cmdErr.ExitCode != 1 {
		t.Errorf("ExitCode = %d, want 1", cmdErr.ExitCode)
	}
	if !strings.Contains(err.Error(), "invalid data found") {
		t.Errorf("error message %q missing stderr", err.Error())
	}
}

func TestEncodingFailureUnwrap(t *testing.T) {
	cause := errors.New("image: unknown format")
	err := NewEncodingFailureError("/tmp/frame_001.jpg", cause)

	if !errors.Is(err, cause) {
		t.Error("EncodingFailure did not unwrap to cause")
	}
	if !IsKind(err, KindEncodingFailure) {
		t.Error("IsKind(KindEncodingFailure) = false")
	}
}

func TestParseErrorCarriesRawText(t *testing.T) {
	err := NewParseError("the model replied in prose")
	if !strings.Contains(err.Error(), "the model replied in prose") {
		t.Errorf("ParseError %q does not carry raw text", err.Error())
	}
}
