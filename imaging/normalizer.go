// Package imaging re-encodes downloaded images into opaque JPEGs with an
// optional social-style enhancement. Pure Go, no CGo.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"math"

	"github.com/fwojciec/repost"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// DefaultQuality is the JPEG quality used when Config.Quality is zero.
const DefaultQuality = 95

// Enhancement factors, applied in this order.
const (
	SaturationFactor = 1.2
	ContrastFactor   = 1.1
	BrightnessFactor = 1.1
)

// markerPrefix starts the JPEG comment written into every normalized image.
const markerPrefix = "repost-normalized q="

// Config controls normalization. Callers needing different values use a
// different Normalizer rather than per-call overrides.
type Config struct {
	// Quality is the JPEG quality, 1-100. Zero means DefaultQuality.
	Quality int

	// Enhance applies saturation, contrast and brightness boosts.
	Enhance bool
}

// Ensure Normalizer implements repost.ImageNormalizer at compile time.
var _ repost.ImageNormalizer = (*Normalizer)(nil)

// Normalizer implements repost.ImageNormalizer.
// Normalizer is stateless and safe for concurrent use.
type Normalizer struct {
	quality int
	enhance bool
}

// NewNormalizer creates a new Normalizer.
func NewNormalizer(cfg Config) *Normalizer {
	q := cfg.Quality
	if q <= 0 || q > 100 {
		q = DefaultQuality
	}
	return &Normalizer{quality: q, enhance: cfg.Enhance}
}

// Normalize decodes raw, flattens any alpha onto white, optionally enhances
// and encodes it as JPEG.
//
// Output of a Normalizer carries a JPEG comment marker. Marked input is
// returned byte-identical, so normalizing twice never enhances twice.
func (n *Normalizer) Normalize(raw []byte) (*repost.NormalizedImage, error) {
	if len(raw) == 0 {
		return nil, repost.Errorf(repost.EDECODE, "empty image data")
	}

	if quality, ok := readMarker(raw); ok {
		img, err := jpeg.Decode(bytes.NewReader(raw))
		if err != nil {
			return nil, repost.WrapError(repost.EDECODE, err, "decode normalized image")
		}
		data := make([]byte, len(raw))
		copy(data, raw)
		b := img.Bounds()
		return &repost.NormalizedImage{
			Data:    data,
			Format:  repost.FormatJPEG,
			Quality: quality,
			Width:   b.Dx(),
			Height:  b.Dy(),
		}, nil
	}

	src, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, repost.WrapError(repost.EDECODE, err, "decode image")
	}

	img := Flatten(src)
	if n.enhance {
		Enhance(img)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: n.quality}); err != nil {
		return nil, repost.WrapError(repost.EINTERNAL, err, "encode JPEG")
	}

	b := img.Bounds()
	return &repost.NormalizedImage{
		Data:    writeMarker(buf.Bytes(), n.quality),
		Format:  repost.FormatJPEG,
		Quality: n.quality,
		Width:   b.Dx(),
		Height:  b.Dy(),
	}, nil
}

// Flatten returns an opaque copy of src. Transparent regions are
// composited onto a white background using the alpha channel as mask.
func Flatten(src image.Image) *image.RGBA {
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Over)
	return dst
}

// Enhance boosts saturation, then contrast, then brightness of an opaque
// image in place. Saturation goes first so the contrast boost does not
// amplify already saturated colors.
func Enhance(img *image.RGBA) {
	saturate(img, SaturationFactor)
	contrast(img, ContrastFactor)
	brighten(img, BrightnessFactor)
}

// saturate blends every pixel away from its grayscale value.
func saturate(img *image.RGBA, factor float64) {
	forEachPixel(img, func(p []uint8) {
		gray := luma(p[0], p[1], p[2])
		for i := 0; i < 3; i++ {
			p[i] = clamp(gray + (float64(p[i])-gray)*factor)
		}
	})
}

// contrast blends every pixel away from the image's mean gray level.
func contrast(img *image.RGBA, factor float64) {
	var sum float64
	var count int
	forEachPixel(img, func(p []uint8) {
		sum += math.Floor(luma(p[0], p[1], p[2]))
		count++
	})
	if count == 0 {
		return
	}
	mean := math.Floor(sum/float64(count) + 0.5)
	forEachPixel(img, func(p []uint8) {
		for i := 0; i < 3; i++ {
			p[i] = clamp(mean + (float64(p[i])-mean)*factor)
		}
	})
}

// brighten blends every pixel away from black.
func brighten(img *image.RGBA, factor float64) {
	forEachPixel(img, func(p []uint8) {
		for i := 0; i < 3; i++ {
			p[i] = clamp(float64(p[i]) * factor)
		}
	})
}

// forEachPixel calls fn with the 4-byte RGBA slice of every pixel.
func forEachPixel(img *image.RGBA, fn func(p []uint8)) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := img.Pix[(y-b.Min.Y)*img.Stride:]
		for x := 0; x < b.Dx(); x++ {
			fn(row[x*4 : x*4+4])
		}
	}
}

// luma is the ITU-R 601-2 grayscale value.
func luma(r, g, b uint8) float64 {
	return (float64(r)*299 + float64(g)*587 + float64(b)*114) / 1000
}

func clamp(v float64) uint8 {
	v = math.Round(v)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// writeMarker inserts a COM segment right after the SOI marker.
func writeMarker(data []byte, quality int) []byte {
	payload := []byte(fmt.Sprintf("%s%d", markerPrefix, quality))
	segLen := len(payload) + 2

	out := make([]byte, 0, len(data)+segLen+2)
	out = append(out, data[:2]...)
	out = append(out, 0xFF, 0xFE, byte(segLen>>8), byte(segLen))
	out = append(out, payload...)
	out = append(out, data[2:]...)
	return out
}

// readMarker reports whether data starts with a normalized-image comment
// and returns the quality recorded in it.
func readMarker(data []byte) (int, bool) {
	if len(data) < 6 || data[0] != 0xFF || data[1] != 0xD8 || data[2] != 0xFF || data[3] != 0xFE {
		return 0, false
	}
	segLen := int(data[4])<<8 | int(data[5])
	if segLen < 2 || len(data) < 4+segLen {
		return 0, false
	}
	payload := string(data[6 : 4+segLen])
	var quality int
	if _, err := fmt.Sscanf(payload, markerPrefix+"%d", &quality); err != nil {
		return 0, false
	}
	return quality, true
}
