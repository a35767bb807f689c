package recognizer

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"net/http"

	// Decoders for accepted upload formats.
	_ "image/gif"
	_ "image/png"

	"github.com/sirupsen/logrus"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// DefaultMaxPixels bounds the decoded size of an upload. A few KB of PNG can
// declare a canvas of gigabytes.
const DefaultMaxPixels = 40_000_000

// Preprocessor shrinks images before upload to a vision model.
type Preprocessor struct {
	MaxDimension int
	Quality      int
	// MaxPixels is the largest width×height that is decoded; 0 selects DefaultMaxPixels.
	MaxPixels int
}

// DefaultPreprocessor bounds images to 1024px and re-encodes at JPEG quality 85.
func DefaultPreprocessor() Preprocessor {
	return Preprocessor{MaxDimension: 1024, Quality: 85}
}

// Prepare returns JPEG bytes no larger than MaxDimension on either side,
// together with their mime type. Images are never upscaled. Transparent and
// paletted images are flattened onto white. On any decode or encode failure
// the original bytes are returned unchanged with their sniffed mime type.
//
// Images larger than MaxPixels are not decoded and go out unchanged.
func (p Preprocessor) Prepare(data []byte) ([]byte, string) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		logrus.WithField("component", "recognizer.Preprocessor").Debugf("unknown image, sending original: %v", err)
		return data, http.DetectContentType(data)
	}
	limit := p.MaxPixels
	if limit <= 0 {
		limit = DefaultMaxPixels
	}
	if int64(cfg.Width)*int64(cfg.Height) > int64(limit) {
		logrus.WithFields(logrus.Fields{
			"component": "recognizer.Preprocessor",
			"width":     cfg.Width,
			"height":    cfg.Height,
		}).Warn("image exceeds pixel limit, sending original")
		return data, http.DetectContentType(data)
	}

	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		logrus.WithField("component", "recognizer.Preprocessor").Debugf("decode failed, sending original: %v", err)
		return data, http.DetectContentType(data)
	}

	b := src.Bounds()
	w, h := scaledSize(b.Dx(), b.Dy(), p.MaxDimension)

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	if w == b.Dx() && h == b.Dy() {
		draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Over)
	} else {
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	}

	quality := p.Quality
	if quality <= 0 || quality > 100 {
		quality = 85
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: quality}); err != nil {
		logrus.WithField("component", "recognizer.Preprocessor").Warnf("jpeg encode of %s failed, sending original: %v", format, err)
		return data, http.DetectContentType(data)
	}
	return buf.Bytes(), "image/jpeg"
}

// scaledSize fits w×h inside limit×limit preserving aspect ratio.
func scaledSize(w, h, limit int) (int, int) {
	if limit <= 0 || (w <= limit && h <= limit) {
		return w, h
	}
	if w >= h {
		nh := h * limit / w
		return limit, max(nh, 1)
	}
	nw := w * limit / h
	return max(nw, 1), limit
}
