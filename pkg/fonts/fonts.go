// Package fonts measures label text with the embedded Go Regular face.
//
// Measurement only depends on the text, so diagrams resolve to identical
// output on every machine. The same face is exposed as TTF data for SVG
// previews that embed it.
package fonts

import (
	"encoding/base64"
	"sync"
	"unicode/utf8"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

const (
	// LabelSize is the font size (px) labels are set in.
	LabelSize = 14.0
	// LabelPadding is added on every side of a measured label.
	LabelPadding = 4.0
)

// FontFamily is the CSS font-family name for the embedded face.
const FontFamily = "Go"

// FallbackFontFamily provides fallback fonts for renderers without the embedded font.
const FallbackFontFamily = `'Go', 'Helvetica Neue', Arial, sans-serif`

var (
	face     font.Face
	faceErr  error
	faceOnce sync.Once
	// font.Face is not safe for concurrent use.
	faceMu sync.Mutex
)

func labelFace() (font.Face, error) {
	faceOnce.Do(func() {
		fnt, err := opentype.Parse(goregular.TTF)
		if err != nil {
			faceErr = err
			return
		}
		face, faceErr = opentype.NewFace(fnt, &opentype.FaceOptions{
			Size:    LabelSize,
			DPI:     72,
			Hinting: font.HintingNone,
		})
	})
	return face, faceErr
}

// Measure returns the advance width and line height of text set at
// LabelSize. If the face cannot be loaded it falls back to a fixed
// per-rune estimate.
func Measure(text string) (width, height float64) {
	f, err := labelFace()
	if err != nil {
		return 0.6 * LabelSize * float64(utf8.RuneCountInString(text)), 1.2 * LabelSize
	}
	faceMu.Lock()
	defer faceMu.Unlock()
	adv := font.MeasureString(f, text)
	return float64(adv) / 64, float64(f.Metrics().Height) / 64
}

// MeasureLabel is Measure plus LabelPadding on every side. Empty labels
// measure zero.
func MeasureLabel(text string) (width, height float64) {
	if text == "" {
		return 0, 0
	}
	w, h := Measure(text)
	return w + 2*LabelPadding, h + 2*LabelPadding
}

// GoRegularTTF returns the TTF font data.
func GoRegularTTF() []byte {
	return goregular.TTF
}

// Cache for the base64-encoded font (computed once on first access).
var (
	ttfBase64     string
	ttfBase64Once sync.Once
)

// GoRegularBase64 returns the TTF font data as a base64 string.
// The result is cached after first computation.
func GoRegularBase64() string {
	ttfBase64Once.Do(func() {
		ttfBase64 = base64.StdEncoding.EncodeToString(goregular.TTF)
	})
	return ttfBase64
}
