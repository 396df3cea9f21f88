package blend

// Color is a premultiplied-alpha RGBA color.
// It is an internal copy of the root package's premultiplied color to avoid
// an import cycle.
type Color struct {
	R, G, B, A uint8
}

// Format enumerates the destination pixel layouts the compositor writes.
type Format uint8

const (
	// RGB888 is 3 bytes per pixel, no alpha channel. The destination is
	// treated as opaque.
	RGB888 Format = iota
	// RGBA8888 is 4 bytes per pixel with premultiplied alpha.
	RGBA8888
)

// BytesPerPixel returns the destination stride contribution of one pixel.
func (f Format) BytesPerPixel() int {
	if f == RGB888 {
		return 3
	}
	return 4
}

// TexelFormat enumerates the source texture encodings the compositor reads.
type TexelFormat uint8

const (
	// TexelRGB is 3 bytes per texel, always opaque.
	TexelRGB TexelFormat = iota
	// TexelRGBA is 4 bytes per texel with straight (unassociated) alpha.
	TexelRGBA
	// TexelRGBAPremultiplied is 4 bytes per texel with premultiplied alpha.
	TexelRGBAPremultiplied
	// TexelAlphaMap is 1 byte per texel holding coverage only; the color
	// comes from a separate tint at composite time.
	TexelAlphaMap
)

// BytesPerPixel returns the source stride contribution of one texel.
func (f TexelFormat) BytesPerPixel() int {
	switch f {
	case TexelRGB:
		return 3
	case TexelAlphaMap:
		return 1
	default:
		return 4
	}
}

// FillSpan overwrites n pixels starting at dst with c, ignoring the previous
// destination contents. This is the fast path for opaque solid spans and for
// the background clear; translucent colors are written as-is, not blended.
func FillSpan(dst []byte, f Format, c Color, n int) {
	if f == RGB888 {
		for i := 0; i < n*3; i += 3 {
			dst[i+0] = c.R
			dst[i+1] = c.G
			dst[i+2] = c.B
		}
		return
	}
	for i := 0; i < n*4; i += 4 {
		dst[i+0] = c.R
		dst[i+1] = c.G
		dst[i+2] = c.B
		dst[i+3] = c.A
	}
}

// BlendSpan source-over blends n pixels starting at dst with c.
// Fully opaque colors take the overwrite fast path; fully transparent
// colors leave the destination untouched.
func BlendSpan(dst []byte, f Format, c Color, n int) {
	if c.A == 0 {
		return
	}
	if c.A == 255 {
		FillSpan(dst, f, c, n)
		return
	}
	bpp := f.BytesPerPixel()
	for i := 0; i < n*bpp; i += bpp {
		blendPremul(dst[i:], f, c.R, c.G, c.B, c.A)
	}
}

// BlendPixel source-over blends c into the single pixel at dst.
func BlendPixel(dst []byte, f Format, c Color) {
	if c.A == 0 {
		return
	}
	if c.A == 255 {
		dst[0] = c.R
		dst[1] = c.G
		dst[2] = c.B
		if f == RGBA8888 {
			dst[3] = 255
		}
		return
	}
	blendPremul(dst, f, c.R, c.G, c.B, c.A)
}

// BlendPixelCoverage scales c by an anti-aliasing coverage value and
// source-over blends it into the single pixel at dst.
func BlendPixelCoverage(dst []byte, f Format, c Color, cov uint8) {
	switch cov {
	case 0:
		return
	case 255:
		BlendPixel(dst, f, c)
	default:
		blendPremul(dst, f,
			mulDiv255(c.R, cov),
			mulDiv255(c.G, cov),
			mulDiv255(c.B, cov),
			mulDiv255(c.A, cov))
	}
}

// BlendTexel composites one source texel into the single destination pixel
// at dst. tint carries the glyph or colorize color; a tint with zero alpha
// means "no tint". Alpha-map texels have no color of their own, so a zero
// tint makes them invisible.
func BlendTexel(dst []byte, f Format, src []byte, sf TexelFormat, tint Color) {
	switch sf {
	case TexelRGB:
		dst[0] = src[0]
		dst[1] = src[1]
		dst[2] = src[2]
		if f == RGBA8888 {
			dst[3] = 255
		}
	case TexelRGBA:
		a := src[3]
		if tint.A != 0 {
			BlendPixelCoverage(dst, f, tint, a)
			return
		}
		if a == 255 {
			dst[0] = src[0]
			dst[1] = src[1]
			dst[2] = src[2]
			if f == RGBA8888 {
				dst[3] = 255
			}
			return
		}
		if a == 0 {
			return
		}
		blendPremul(dst, f,
			mulDiv255(src[0], a),
			mulDiv255(src[1], a),
			mulDiv255(src[2], a),
			a)
	case TexelRGBAPremultiplied:
		a := src[3]
		if tint.A != 0 {
			BlendPixelCoverage(dst, f, tint, a)
			return
		}
		BlendPixel(dst, f, Color{R: src[0], G: src[1], B: src[2], A: a})
	case TexelAlphaMap:
		BlendPixelCoverage(dst, f, tint, src[0])
	}
}

// blendPremul is the shared source-over kernel for a premultiplied source
// color with 0 < a < 255.
func blendPremul(dst []byte, f Format, r, g, b, a uint8) {
	inv := 255 - a
	dst[0] = r + mulDiv255(dst[0], inv)
	dst[1] = g + mulDiv255(dst[1], inv)
	dst[2] = b + mulDiv255(dst[2], inv)
	if f == RGBA8888 {
		dst[3] = a + mulDiv255(dst[3], inv)
	}
}
