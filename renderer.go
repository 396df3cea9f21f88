// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package scanline

import (
	"errors"
	"log/slog"

	"github.com/gogpu/scanline/internal/blend"
)

// Renderer is the incremental software compositor. It turns a resolved item
// tree into pixels one scanline at a time, repainting only the region that
// changed since the output buffer was last presented.
//
// A Renderer is single-threaded and synchronous: Render runs to completion
// and returns once the dirty region has been fully painted. The only state
// retained between frames is the dirty-region history used for back-buffer
// catch-up and the texture cache.
type Renderer struct {
	background Color
	scale      float32
	cache      *TextureCache

	tracker dirtyTracker
	pending Rect
}

// Option configures a Renderer during creation.
type Option func(*Renderer)

// WithBackground sets the color the dirty region is cleared to before
// compositing. The default is white.
func WithBackground(c Color) Option {
	return func(r *Renderer) { r.background = c }
}

// WithScaleFactor sets the logical-to-physical unit multiplier applied at
// scene build time. The default is 1.
func WithScaleFactor(scale float32) Option {
	return func(r *Renderer) { r.scale = scale }
}

// WithTextureCache shares an existing texture cache. By default every
// Renderer owns a private one.
func WithTextureCache(c *TextureCache) Option {
	return func(r *Renderer) { r.cache = c }
}

// NewRenderer creates a renderer.
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{
		background: White,
		scale:      1,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.cache == nil {
		r.cache = NewTextureCache()
	}
	r.scale = normalizeScale(r.scale)
	return r
}

// normalizeScale clamps a non-positive scale factor to 1.
func normalizeScale(scale float32) float32 {
	if scale <= 0 {
		Logger().Warn("scanline: non-positive scale factor clamped to 1",
			slog.Any("scale", scale))
		return 1
	}
	return scale
}

// ScaleFactor returns the current logical-to-physical multiplier.
func (r *Renderer) ScaleFactor() float32 { return r.scale }

// SetScaleFactor changes the logical-to-physical multiplier. The caller is
// expected to follow up with a full-region MarkDirty or an age-0 render,
// since every physical rectangle moves.
func (r *Renderer) SetScaleFactor(scale float32) { r.scale = normalizeScale(scale) }

// TextureCache returns the renderer's texture cache, e.g. to invalidate
// entries when source images are destroyed.
func (r *Renderer) TextureCache() *TextureCache { return r.cache }

// MarkDirty unions a changed item's bounding box (physical pixels) into the
// region repainted by the next Render call.
func (r *Renderer) MarkDirty(rect Rect) {
	r.pending = r.pending.Union(rect)
}

// Render paints the dirty region of the tree into the frame buffer.
//
// bufferAge states how many frames ago the buffer's current contents were
// painted by this renderer: 1 for the previous frame (double buffering with
// no swap misses), 2 or 3 for older round-robin buffers, and 0 when the
// contents are unknown or undefined, which forces a full repaint. The
// returned region is what was actually painted; it is empty when nothing
// changed.
func (r *Renderer) Render(tree *Item, fb *FrameBuffer, bufferAge int) (DirtyRegion, error) {
	if fb == nil {
		return DirtyRegion{}, errors.New("scanline: nil frame buffer")
	}
	if fb.format != RGB888 && fb.format != RGBA8888Premultiplied {
		return DirtyRegion{}, errors.New("scanline: unsupported output format " + fb.format.String())
	}
	bounds := NewRect(0, 0, fb.width, fb.height)
	region := r.tracker.compute(r.pending.Intersect(bounds), bufferAge, bounds)
	r.finishFrame(bounds)
	if region.IsEmpty() {
		return DirtyRegion{}, nil
	}
	scene := buildScene(tree, region, r.scale, r.cache, r.background.premultiply(255))
	r.composite(scene, fb.format, func(y int, line []byte) {
		copy(fb.row(y, region.MinX, region.MaxX), line)
	})
	return DirtyRegion{bounds: region}, nil
}

// RenderByLine paints the dirty region through a streaming line sink
// instead of a whole buffer. width and height describe the output in
// pixels; format must be RGB888 or RGBA8888Premultiplied. bufferAge has the
// same meaning as in Render, with age 1 fitting displays that retain their
// panel contents between updates. Before the first line the provider may
// adjust the dirty rectangle. An empty region produces no callbacks.
func (r *Renderer) RenderByLine(tree *Item, width, height int, format PixelFormat, bufferAge int, provider LineProvider) (DirtyRegion, error) {
	if provider == nil {
		return DirtyRegion{}, errors.New("scanline: nil line provider")
	}
	if format != RGB888 && format != RGBA8888Premultiplied {
		return DirtyRegion{}, errors.New("scanline: unsupported output format " + format.String())
	}
	bounds := NewRect(0, 0, width, height)
	region := r.tracker.compute(r.pending.Intersect(bounds), bufferAge, bounds)
	r.finishFrame(bounds)
	if region.IsEmpty() {
		return DirtyRegion{}, nil
	}
	region = provider.AdjustDirtyRegion(region).Intersect(bounds)
	if region.IsEmpty() {
		return DirtyRegion{}, nil
	}
	scene := buildScene(tree, region, r.scale, r.cache, r.background.premultiply(255))
	r.composite(scene, format, func(y int, line []byte) {
		provider.ProcessLine(y, region.MinX, region.MaxX, line)
	})
	return DirtyRegion{bounds: region}, nil
}

// composite runs the per-scanline loop: clear the line to the background,
// paint the spans back-to-front, hand the line to the sink.
func (r *Renderer) composite(scene *Scene, format PixelFormat, emit func(y int, line []byte)) {
	region := scene.DirtyRect()
	tf := format.targetFormat()
	line := make([]byte, region.Width()*format.BytesPerPixel())
	Logger().Debug("scanline: compositing",
		slog.Int("items", len(scene.items)),
		slog.Int("textures", len(scene.textures)),
		slog.Int("lines", region.Height()))
	for y := region.MinY; y < region.MaxY; y++ {
		blend.FillSpan(line, tf, scene.background, region.Width())
		scene.drawLine(line, tf, y)
		emit(y, line)
		scene.nextLine()
	}
}

// finishFrame records this frame's change region and resets the pending
// marks.
func (r *Renderer) finishFrame(bounds Rect) {
	r.tracker.record(r.pending.Intersect(bounds))
	r.pending = EmptyRect()
}
