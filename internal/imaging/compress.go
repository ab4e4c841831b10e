// Package imaging shrinks uploaded photos until their encoded form fits the
// remote store's per-field budget.
package imaging

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"math"

	_ "image/gif"
	_ "image/png"

	"golang.org/x/image/draw"
)

// Policy bounds the compression loop. The zero value is not usable; start
// from DefaultPolicy and override what config changes.
type Policy struct {
	// MaxEdge caps the longer image edge in pixels before encoding starts.
	MaxEdge int
	// StartQuality and MinQuality bound the JPEG quality sweep, which
	// steps down by QualityStep until the payload fits.
	StartQuality int
	MinQuality   int
	QualityStep  int
	// TargetEncodedLen is the budget in base64 characters, matching how
	// the store measures field size.
	TargetEncodedLen int
}

func DefaultPolicy() Policy {
	return Policy{
		MaxEdge:          800,
		StartQuality:     70,
		MinQuality:       20,
		QualityStep:      10,
		TargetEncodedLen: 50000,
	}
}

// Result is a compressed photo ready for storage.
type Result struct {
	Base64         string
	EncodedLen     int
	EstimatedBytes int
	Quality        int
	Width          int
	Height         int
}

var ErrNotAnImage = errors.New("payload is not a decodable image")

// TooLargeError reports a photo that stayed over budget at the lowest
// allowed quality. EncodedLen is the best size achieved, so callers can tell
// the user how far off they were.
type TooLargeError struct {
	EncodedLen int
	Target     int
}

func (e *TooLargeError) Error() string {
	return fmt.Sprintf("photo still %d base64 chars at minimum quality, budget is %d", e.EncodedLen, e.Target)
}

// EstimateBytes converts a base64 length to the approximate decoded size.
func EstimateBytes(encodedLen int) int {
	return int(math.Ceil(float64(encodedLen) * 0.75))
}

// Compress decodes data (JPEG, PNG or GIF), downscales it so neither edge
// exceeds p.MaxEdge, then re-encodes as JPEG at decreasing quality until the
// base64 form fits p.TargetEncodedLen. When even p.MinQuality is over
// budget it returns a *TooLargeError carrying the best size achieved.
func Compress(data []byte, p Policy) (Result, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrNotAnImage, err)
	}

	src = downscale(src, p.MaxEdge)
	bounds := src.Bounds()

	var buf bytes.Buffer
	best := Result{Width: bounds.Dx(), Height: bounds.Dy()}
	for q := p.StartQuality; q >= p.MinQuality; q -= p.QualityStep {
		buf.Reset()
		if err := jpeg.Encode(&buf, src, &jpeg.Options{Quality: q}); err != nil {
			return Result{}, fmt.Errorf("encode jpeg: %w", err)
		}
		encoded := base64.StdEncoding.EncodeToString(buf.Bytes())
		if best.Base64 == "" || len(encoded) < best.EncodedLen {
			best.Base64 = encoded
			best.EncodedLen = len(encoded)
			best.EstimatedBytes = EstimateBytes(len(encoded))
			best.Quality = q
		}
		if len(encoded) <= p.TargetEncodedLen {
			return best, nil
		}
	}
	return Result{}, &TooLargeError{EncodedLen: best.EncodedLen, Target: p.TargetEncodedLen}
}

// downscale fits img inside a maxEdge square, preserving aspect ratio.
// Images already within bounds pass through untouched.
func downscale(img image.Image, maxEdge int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxEdge <= 0 || (w <= maxEdge && h <= maxEdge) {
		return img
	}
	scale := float64(maxEdge) / float64(w)
	if h > w {
		scale = float64(maxEdge) / float64(h)
	}
	nw := int(math.Round(float64(w) * scale))
	nh := int(math.Round(float64(h) * scale))
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}
