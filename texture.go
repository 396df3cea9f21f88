package scanline

import (
	"github.com/gogpu/gputypes"

	"github.com/gogpu/scanline/internal/blend"
)

// PixelFormat describes the memory layout of texture texels and of output
// buffers. Only RGB888 and RGBA8888Premultiplied are valid output formats;
// all four are valid texture formats.
type PixelFormat uint8

const (
	// RGB888 is 3 bytes per pixel, always opaque.
	RGB888 PixelFormat = iota
	// RGBA8888 is 4 bytes per pixel with straight (unassociated) alpha.
	RGBA8888
	// RGBA8888Premultiplied is 4 bytes per pixel with premultiplied alpha.
	RGBA8888Premultiplied
	// AlphaMap is 1 byte per pixel holding coverage only, tinted by a
	// separate solid color at composite time. Used for glyph bitmaps.
	AlphaMap
)

// BytesPerPixel returns the size of one pixel in this format.
func (f PixelFormat) BytesPerPixel() int {
	switch f {
	case RGB888:
		return 3
	case AlphaMap:
		return 1
	default:
		return 4
	}
}

// String returns the format name.
func (f PixelFormat) String() string {
	switch f {
	case RGB888:
		return "RGB888"
	case RGBA8888:
		return "RGBA8888"
	case RGBA8888Premultiplied:
		return "RGBA8888Premultiplied"
	case AlphaMap:
		return "AlphaMap"
	default:
		return "Unknown"
	}
}

// TextureFormat maps the pixel format onto its GPU texture format for
// interop with the rest of the gogpu ecosystem. The second return is false
// for formats with no GPU equivalent (RGB888, AlphaMap).
func (f PixelFormat) TextureFormat() (gputypes.TextureFormat, bool) {
	switch f {
	case RGBA8888, RGBA8888Premultiplied:
		return gputypes.TextureFormatRGBA8Unorm, true
	default:
		return 0, false
	}
}

// texelFormat converts to the compositor's source-texel enum.
func (f PixelFormat) texelFormat() blend.TexelFormat {
	switch f {
	case RGB888:
		return blend.TexelRGB
	case RGBA8888:
		return blend.TexelRGBA
	case RGBA8888Premultiplied:
		return blend.TexelRGBAPremultiplied
	default:
		return blend.TexelAlphaMap
	}
}

// targetFormat converts to the compositor's destination enum. Only RGB888
// and RGBA8888Premultiplied are valid destinations.
func (f PixelFormat) targetFormat() blend.Format {
	if f == RGB888 {
		return blend.RGB888
	}
	return blend.RGBA8888
}

// Texture is a borrowed view of caller-owned pixel data: decoded image
// texels or a pre-rendered glyph bitmap. The data is only borrowed for the
// duration of one frame and never retained past it.
type Texture struct {
	// Data holds the texels, row-major. It may be a sub-view of a larger
	// allocation; Stride spans the underlying row.
	Data []byte
	// Format is the texel encoding.
	Format PixelFormat
	// Stride is the byte distance between the starts of adjacent rows.
	Stride int
	// Width and Height are the texel extent of the view.
	Width, Height int
}

// IsEmpty reports whether the texture has no texels.
func (t Texture) IsEmpty() bool {
	return len(t.Data) == 0 || t.Width <= 0 || t.Height <= 0
}

// sub returns the texture restricted to the given texel rectangle, which
// must lie within the texture bounds.
func (t Texture) sub(r Rect) Texture {
	return Texture{
		Data:   t.Data[r.MinY*t.Stride+r.MinX*t.Format.BytesPerPixel():],
		Format: t.Format,
		Stride: t.Stride,
		Width:  r.Width(),
		Height: r.Height(),
	}
}
