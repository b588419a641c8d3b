// Package frame converts sampled still images into transport-safe payloads.
package frame

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/jpeg"
	"os"
	"path/filepath"
	"strings"

	_ "image/gif"
	_ "image/png"

	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"github.com/vidproof/vidproof/internal/config"
	"github.com/vidproof/vidproof/internal/errors"
)

// Encoded is a frame ready for submission: base64 text plus declared media type.
type Encoded struct {
	Data      string
	MediaType string
}

// Options controls payload encoding.
type Options struct {
	MaxBytes     uint64
	QualityStart int
	QualityStep  int
	QualityFloor int
	// MaxWidth/MaxHeight cap the raster during recompression. Zero disables.
	MaxWidth  int
	MaxHeight int
}

// DefaultOptions returns encoding options matching the vision service limits.
func DefaultOptions() Options {
	return Options{
		MaxBytes:     config.DefaultMaxEncodedBytes,
		QualityStart: config.DefaultJPEGQualityStart,
		QualityStep:  config.DefaultJPEGQualityStep,
		QualityFloor: config.DefaultJPEGQualityFloor,
		MaxWidth:     config.MaxFrameWidth,
		MaxHeight:    config.MaxFrameHeight,
	}
}

// MediaTypeForPath declares a media type from the file extension.
// Ambiguous or unknown extensions default to JPEG.
func MediaTypeForPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	default:
		return "image/jpeg"
	}
}

// Encode reads a still image and returns its transport encoding.
//
// Images already under opts.MaxBytes are passed through untouched. Oversized
// images are decoded, flattened to an opaque raster, and re-encoded as JPEG
// at decreasing quality until they fit or the quality floor is reached; the
// final buffer is returned either way. Only an unreadable or undecodable
// image fails, and that failure is scoped to this single frame.
func Encode(path string, opts Options) (*Encoded, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewEncodingFailureError(path, err)
	}

	if opts.MaxBytes == 0 {
		opts.MaxBytes = config.DefaultMaxEncodedBytes
	}

	if uint64(len(raw)) <= opts.MaxBytes {
		return &Encoded{
			Data:      base64.StdEncoding.EncodeToString(raw),
			MediaType: MediaTypeForPath(path),
		}, nil
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, errors.NewEncodingFailureError(path, err)
	}

	buf, err := recompress(img, opts)
	if err != nil {
		return nil, errors.NewEncodingFailureError(path, err)
	}

	return &Encoded{
		Data:      base64.StdEncoding.EncodeToString(buf),
		MediaType: "image/jpeg",
	}, nil
}

// recompress re-encodes the raster as JPEG at stepping-down quality levels.
func recompress(img image.Image, opts Options) ([]byte, error) {
	rgba := flatten(img, opts.MaxWidth, opts.MaxHeight)

	start := opts.QualityStart
	if start <= 0 {
		start = config.DefaultJPEGQualityStart
	}
	step := opts.QualityStep
	if step <= 0 {
		step = config.DefaultJPEGQualityStep
	}
	floor := opts.QualityFloor
	if floor <= 0 {
		floor = config.DefaultJPEGQualityFloor
	}

	var buf bytes.Buffer
	for quality := start; ; quality -= step {
		if quality < floor {
			quality = floor
		}

		buf.Reset()
		if err := jpeg.Encode(&buf, rgba, &jpeg.Options{Quality: quality}); err != nil {
			return nil, err
		}

		if uint64(buf.Len()) <= opts.MaxBytes || quality == floor {
			return buf.Bytes(), nil
		}
	}
}

// flatten converts any color model to an opaque RGBA raster, downscaling to
// the dimension caps when the source exceeds them.
func flatten(img image.Image, maxWidth, maxHeight int) *image.RGBA {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	targetW, targetH := width, height
	if maxWidth > 0 && maxHeight > 0 && (width > maxWidth || height > maxHeight) {
		scale := min(float64(maxWidth)/float64(width), float64(maxHeight)/float64(height))
		targetW = int(float64(width) * scale)
		targetH = int(float64(height) * scale)
		if targetW < 1 {
			targetW = 1
		}
		if targetH < 1 {
			targetH = 1
		}
	}

	rgba := image.NewRGBA(image.Rect(0, 0, targetW, targetH))
	xdraw.CatmullRom.Scale(rgba, rgba.Bounds(), img, bounds, xdraw.Src, nil)
	return rgba
}
