// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package scanline

import (
	"image"

	xdraw "golang.org/x/image/draw"
)

// TextureCache converts decoded image sources into premultiplied RGBA texel
// buffers once and keeps them keyed by source identity, so repeated frames
// do not re-convert (or re-scale) unchanged images.
//
// The cache is not internally synchronized. The whole pipeline runs on one
// thread and the cache is only mutated through the renderer holding it;
// sharing a cache between renderers on different goroutines requires an
// external mutex.
type TextureCache struct {
	entries map[cacheKey]*image.RGBA
}

// cacheKey identifies one converted (and possibly scaled) source.
type cacheKey struct {
	source uint64
	width  int
	height int
}

// NewTextureCache creates an empty cache.
func NewTextureCache() *TextureCache {
	return &TextureCache{entries: make(map[cacheKey]*image.RGBA)}
}

// Invalidate drops every entry derived from the given source key. Call this
// when the surrounding system destroys the source image.
func (c *TextureCache) Invalidate(source uint64) {
	for k := range c.entries {
		if k.source == source {
			delete(c.entries, k)
		}
	}
}

// Clear drops all entries.
func (c *TextureCache) Clear() {
	clear(c.entries)
}

// Len returns the number of cached conversions.
func (c *TextureCache) Len() int { return len(c.entries) }

// converted returns the source as a premultiplied RGBA texture at its
// natural size.
func (c *TextureCache) converted(src *ImageSource) Texture {
	b := src.Image.Bounds()
	return c.lookup(src, b.Dx(), b.Dy())
}

// scaled returns the source resampled to width x height as a premultiplied
// RGBA texture.
func (c *TextureCache) scaled(src *ImageSource, width, height int) Texture {
	return c.lookup(src, width, height)
}

func (c *TextureCache) lookup(src *ImageSource, width, height int) Texture {
	if width <= 0 || height <= 0 {
		return Texture{}
	}
	key := cacheKey{source: src.CacheKey, width: width, height: height}
	if src.CacheKey != 0 {
		if img, ok := c.entries[key]; ok {
			return rgbaTexture(img)
		}
	}
	img := convert(src.Image, width, height)
	if src.CacheKey != 0 {
		c.entries[key] = img
	}
	return rgbaTexture(img)
}

// convert renders any image.Image into a premultiplied RGBA buffer of the
// requested size. Resampling uses the x/image bilinear scaler; a same-size
// conversion is a plain draw.
func convert(src image.Image, width, height int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	b := src.Bounds()
	if b.Dx() == width && b.Dy() == height {
		xdraw.Draw(dst, dst.Bounds(), src, b.Min, xdraw.Src)
		return dst
	}
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, b, xdraw.Src, nil)
	return dst
}

// rgbaTexture wraps an image.RGBA (which stores premultiplied texels) as a
// borrowed texture view.
func rgbaTexture(img *image.RGBA) Texture {
	b := img.Bounds()
	return Texture{
		Data:   img.Pix,
		Format: RGBA8888Premultiplied,
		Stride: img.Stride,
		Width:  b.Dx(),
		Height: b.Dy(),
	}
}
