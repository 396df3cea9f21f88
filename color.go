package scanline

import (
	"image/color"

	"github.com/gogpu/scanline/internal/blend"
)

// Color is a straight (non-premultiplied) 8-bit RGBA color, the form in
// which resolved brush values arrive from the caller.
type Color struct {
	R, G, B, A uint8
}

// Common colors.
var (
	Transparent = Color{0, 0, 0, 0}
	Black       = Color{0, 0, 0, 255}
	White       = Color{255, 255, 255, 255}
	Red         = Color{255, 0, 0, 255}
	Green       = Color{0, 255, 0, 255}
	Blue        = Color{0, 0, 255, 255}
)

// RGB creates an opaque color.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b, A: 255}
}

// RGBA implements the color.Color interface. The returned components are
// alpha-premultiplied, 16 bits per channel, as that interface requires.
func (c Color) RGBA() (r, g, b, a uint32) {
	a = uint32(c.A) * 0x101
	r = uint32(c.R) * 0x101 * a / 0xffff
	g = uint32(c.G) * 0x101 * a / 0xffff
	b = uint32(c.B) * 0x101 * a / 0xffff
	return
}

// premultiply converts the color to the premultiplied form used by the
// compositor, additionally scaling its opacity by alpha (0..255).
func (c Color) premultiply(alpha uint8) blend.Color {
	a := c.A
	if alpha != 255 {
		a = uint8((uint16(a)*uint16(alpha) + 127) / 255)
	}
	if a == 255 {
		return blend.Color{R: c.R, G: c.G, B: c.B, A: 255}
	}
	return blend.Color{
		R: uint8((uint16(c.R)*uint16(a) + 127) / 255),
		G: uint8((uint16(c.G)*uint16(a) + 127) / 255),
		B: uint8((uint16(c.B)*uint16(a) + 127) / 255),
		A: a,
	}
}

// Verify at compile time that Color implements color.Color.
var _ color.Color = Color{}
