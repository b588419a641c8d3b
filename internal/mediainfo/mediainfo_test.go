package mediainfo

import "testing"

const sampleOutput = `{
  "media": {
    "track": [
      {
        "@type": "General",
        "Duration": "6.000",
        "FileSize": "2457600",
        "OverallBitRate": "3276800"
      },
      {
        "@type": "Video",
        "Format": "AVC",
        "Width": "1920",
        "Height": "1080",
        "Duration": "6.000"
      },
      {
        "@type": "Audio",
        "Format": "AAC"
      }
    ]
  }
}`

func TestParseAndExtract(t *testing.T) {
	resp, err := parseOutput([]byte(sampleOutput))
	if err != nil {
		t.Fatalf("parseOutput() error = %v", err)
	}

	info := extractInfo(resp)

	if info.Width != 1920 {
		t.Errorf("Width = %d, want 1920", info.Width)
	}
	if info.Height != 1080 {
		t.Errorf("Height = %d, want 1080", info.Height)
	}
	if info.Duration != 6.0 {
		t.Errorf("Duration = %f, want 6.0", info.Duration)
	}
	if info.Codec != "AVC" {
		t.Errorf("Codec = %q, want AVC", info.Codec)
	}
	if info.SizeBytes != 2457600 {
		t.Errorf("SizeBytes = %d, want 2457600", info.SizeBytes)
	}
}

func TestParseOutput_Malformed(t *testing.T) {
	if _, err := parseOutput([]byte(`{"media": {"track": [}`)); err == nil {
		t.Error("parseOutput() expected error for malformed JSON, got nil")
	}
}

func TestExtractInfo_MissingVideoTrack(t *testing.T) {
	resp, err := parseOutput([]byte(`{"media": {"track": [{"@type": "General", "Duration": "bad"}]}}`))
	if err != nil {
		t.Fatalf("parseOutput() error = %v", err)
	}

	info := extractInfo(resp)
	if info.Width != 0 || info.Duration != 0 {
		t.Errorf("expected zero values for missing track, got %+v", info)
	}
}
