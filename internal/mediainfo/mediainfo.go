// Package mediainfo provides a fallback metadata probe using the MediaInfo CLI.
package mediainfo

import (
	"context"
	"encoding/json"
	"os/exec"
	"strconv"

	"github.com/vidproof/vidproof/internal/errors"
)

// GeneralTrack contains container-level information from MediaInfo.
type GeneralTrack struct {
	Duration string `json:"Duration"`
	FileSize string `json:"FileSize"`
	BitRate  string `json:"OverallBitRate"`
}

// VideoTrack contains video track information from MediaInfo.
type VideoTrack struct {
	Format   string `json:"Format"`
	Width    string `json:"Width"`
	Height   string `json:"Height"`
	Duration string `json:"Duration"`
}

// Track represents a MediaInfo track with type information.
type Track struct {
	Type    string `json:"@type"`
	General GeneralTrack
	Video   VideoTrack
}

// UnmarshalJSON implements custom JSON unmarshaling for Track.
func (t *Track) UnmarshalJSON(data []byte) error {
	var typeOnly struct {
		Type string `json:"@type"`
	}
	if err := json.Unmarshal(data, &typeOnly); err != nil {
		return err
	}
	t.Type = typeOnly.Type

	switch t.Type {
	case "General":
		return json.Unmarshal(data, &t.General)
	case "Video":
		return json.Unmarshal(data, &t.Video)
	}
	return nil
}

// Media contains the track array.
type Media struct {
	Track []Track `json:"track"`
}

// Response is the root MediaInfo response structure.
type Response struct {
	Media Media `json:"media"`
}

// Info contains probed asset properties.
type Info struct {
	Width     int64
	Height    int64
	Duration  float64
	Codec     string
	SizeBytes uint64
	BitRate   uint64
}

// IsAvailable checks if MediaInfo is available on the system.
func IsAvailable() bool {
	_, err := exec.LookPath("mediainfo")
	return err == nil
}

// Probe runs MediaInfo against the asset and returns parsed properties.
func Probe(ctx context.Context, inputPath string) (*Info, error) {
	cmd := exec.CommandContext(ctx, "mediainfo", "--Output=JSON", inputPath)

	output, err := cmd.Output()
	if err != nil {
		if ctx.Err() != nil {
			return nil, errors.NewCommandError("mediainfo", errors.CommandTimeout, ctx.Err())
		}
		return nil, errors.WrapExecError("mediainfo", err, "")
	}

	resp, err := parseOutput(output)
	if err != nil {
		return nil, errors.NewCommandError("mediainfo", errors.CommandFailed, err)
	}

	return extractInfo(resp), nil
}

// parseOutput parses MediaInfo JSON output into the Response structure.
func parseOutput(data []byte) (*Response, error) {
	var result Response
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// extractInfo flattens a MediaInfo response into Info.
// Unparseable fields degrade to zero values.
func extractInfo(resp *Response) *Info {
	info := &Info{}

	for i := range resp.Media.Track {
		track := &resp.Media.Track[i]
		switch track.Type {
		case "General":
			if d, err := strconv.ParseFloat(track.General.Duration, 64); err == nil {
				info.Duration = d
			}
			if s, err := strconv.ParseUint(track.General.FileSize, 10, 64); err == nil {
				info.SizeBytes = s
			}
			if b, err := strconv.ParseUint(track.General.BitRate, 10, 64); err == nil {
				info.BitRate = b
			}
		case "Video":
			if w, err := strconv.ParseInt(track.Video.Width, 10, 64); err == nil {
				info.Width = w
			}
			if h, err := strconv.ParseInt(track.Video.Height, 10, 64); err == nil {
				info.Height = h
			}
			info.Codec = track.Video.Format
			if info.Duration == 0 {
				if d, err := strconv.ParseFloat(track.Video.Duration, 64); err == nil {
					info.Duration = d
				}
			}
		}
	}

	return info
}
