// Package colour canonicalises the CSS colours found in diagram files.
//
// Hex, rgb() and hsl() colours are normalised to lower-case "#rrggbb" so
// that equal colours compare equal downstream. Anything else (named
// colours, currentColor, var(...)) passes through unchanged.
package colour

import (
	"fmt"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Default is used for strokes and labels without a colour.
const Default = "black"

// Canonical returns the canonical form of s. The empty string stays empty.
func Canonical(s string) (string, error) {
	s = strings.TrimSpace(s)
	lower := strings.ToLower(s)
	switch {
	case s == "":
		return "", nil
	case strings.HasPrefix(s, "#"):
		c, err := colorful.Hex(lower)
		if err != nil {
			return "", fmt.Errorf("invalid hex colour %q", s)
		}
		return c.Clamped().Hex(), nil
	case strings.HasPrefix(lower, "rgb("):
		var r, g, b float64
		if _, err := fmt.Sscanf(compact(lower), "rgb(%g,%g,%g)", &r, &g, &b); err != nil {
			return "", fmt.Errorf("invalid rgb colour %q", s)
		}
		return colorful.Color{R: r / 255, G: g / 255, B: b / 255}.Clamped().Hex(), nil
	case strings.HasPrefix(lower, "hsl("):
		var h, sat, l float64
		if _, err := fmt.Sscanf(compact(lower), "hsl(%g,%g%%,%g%%)", &h, &sat, &l); err != nil {
			return "", fmt.Errorf("invalid hsl colour %q", s)
		}
		return colorful.Hsl(h, sat/100, l/100).Clamped().Hex(), nil
	}
	return s, nil
}

// Or returns the canonical form of s, or def when s is empty or invalid.
func Or(s, def string) string {
	c, err := Canonical(s)
	if err != nil || c == "" {
		return def
	}
	return c
}

func compact(s string) string {
	return strings.ReplaceAll(s, " ", "")
}
