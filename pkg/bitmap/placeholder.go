package bitmap

import (
	"fmt"
	"image"
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/draw"
)

// PlaceholderFunc produces the substitute image shown when a load fails.
type PlaceholderFunc func(width, height int) image.Image

// DefaultPlaceholderColor is a light neutral grey.
var DefaultPlaceholderColor = color.RGBA{R: 0xE3, G: 0xE8, B: 0xEE, A: 0xFF}

// SolidPlaceholder fills the target box with c. Non-positive sizes yield a
// 1x1 image.
func SolidPlaceholder(c color.Color) PlaceholderFunc {
	return func(width, height int) image.Image {
		if width <= 0 {
			width = 1
		}
		if height <= 0 {
			height = 1
		}
		dst := image.NewRGBA(image.Rect(0, 0, width, height))
		draw.Draw(dst, dst.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
		return dst
	}
}

// ParseHexColor parses "#rgb", "#rrggbb" or "#rrggbbaa".
func ParseHexColor(raw string) (color.RGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(raw), "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	if len(hex) != 8 {
		return color.RGBA{}, fmt.Errorf("bitmap: invalid color %q", raw)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("bitmap: invalid color %q: %w", raw, err)
	}
	return color.RGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}
