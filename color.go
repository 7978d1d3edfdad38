package pathedit

import (
	"image/color"

	"github.com/chewxy/math32"
)

// Color is an opaque RGB color with components in the range [0, 1].
// It is bound to the color uniform before a path is drawn.
type Color struct {
	R, G, B float32
}

// Common colors.
var (
	White = Color{R: 1, G: 1, B: 1}
	Black = Color{}
	Red   = Color{R: 1}
	Green = Color{G: 1}
	Blue  = Color{B: 1}
)

// RGB creates a color from RGB components.
func RGB(r, g, b float32) Color {
	return Color{R: r, G: g, B: b}
}

// FromColor converts a standard color.Color to Color, dropping alpha.
func FromColor(c color.Color) Color {
	r, g, b, _ := c.RGBA()
	return Color{
		R: float32(r) / 65535,
		G: float32(g) / 65535,
		B: float32(b) / 65535,
	}
}

// NRGBA converts the color to an opaque color.NRGBA.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{
		R: uint8(clamp255(c.R * 255)),
		G: uint8(clamp255(c.G * 255)),
		B: uint8(clamp255(c.B * 255)),
		A: 255,
	}
}

// Array returns the components as an array, in r, g, b order.
func (c Color) Array() [3]float32 {
	return [3]float32{c.R, c.G, c.B}
}

func clamp255(v float32) float32 {
	return math32.Max(0, math32.Min(255, math32.Round(v)))
}
