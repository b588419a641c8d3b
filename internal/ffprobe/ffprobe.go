// Package ffprobe extracts technical media metadata using ffprobe.
package ffprobe

import (
	"bytes"
	"context"
	"encoding/json"
	"os/exec"
	"strconv"

	"github.com/vidproof/vidproof/internal/errors"
)

// Metadata contains technical properties of a media asset.
// Fields are zero-valued when the probe could not determine them.
type Metadata struct {
	Width     int64
	Height    int64
	Duration  float64
	Codec     string
	SizeBytes uint64
	BitRate   uint64
}

// HasDuration reports whether a usable duration was probed.
func (m *Metadata) HasDuration() bool {
	return m != nil && m.Duration > 0
}

// ffprobeOutput represents the JSON output from ffprobe.
type ffprobeOutput struct {
	Format  ffprobeFormat   `json:"format"`
	Streams []ffprobeStream `json:"streams"`
}

type ffprobeFormat struct {
	Duration string `json:"duration"`
	Size     string `json:"size"`
	BitRate  string `json:"bit_rate"`
}

type ffprobeStream struct {
	CodecType string `json:"codec_type"`
	CodecName string `json:"codec_name"`
	Width     int64  `json:"width"`
	Height    int64  `json:"height"`
}

// IsAvailable checks if ffprobe is available on the system.
func IsAvailable() bool {
	_, err := exec.LookPath("ffprobe")
	return err == nil
}

// Probe runs ffprobe against the asset and returns parsed metadata.
// The context should carry the probe deadline.
func Probe(ctx context.Context, inputPath string) (*Metadata, error) {
	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		inputPath,
	)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	output, err := cmd.Output()
	if err != nil {
		if ctx.Err() != nil {
			return nil, errors.NewCommandError("ffprobe", errors.CommandTimeout, ctx.Err())
		}
		return nil, errors.WrapExecError("ffprobe", err, stderr.String())
	}

	meta, err := parseOutput(output)
	if err != nil {
		return nil, errors.NewCommandError("ffprobe", errors.CommandFailed, err)
	}

	return meta, nil
}

// parseOutput parses raw ffprobe JSON into Metadata.
func parseOutput(data []byte) (*Metadata, error) {
	var probe ffprobeOutput
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, err
	}
	return parseMetadata(&probe), nil
}

// parseMetadata converts raw ffprobe output into Metadata.
// Unparseable fields are left at their zero value rather than failing.
func parseMetadata(probe *ffprobeOutput) *Metadata {
	meta := &Metadata{}

	if probe.Format.Duration != "" {
		if d, err := strconv.ParseFloat(probe.Format.Duration, 64); err == nil {
			meta.Duration = d
		}
	}
	if probe.Format.Size != "" {
		if s, err := strconv.ParseUint(probe.Format.Size, 10, 64); err == nil {
			meta.SizeBytes = s
		}
	}
	if probe.Format.BitRate != "" {
		if b, err := strconv.ParseUint(probe.Format.BitRate, 10, 64); err == nil {
			meta.BitRate = b
		}
	}

	for _, stream := range probe.Streams {
		if stream.CodecType == "video" {
			meta.Width = stream.Width
			meta.Height = stream.Height
			meta.Codec = stream.CodecName
			break
		}
	}

	return meta
}
