// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package scanline

import (
	"errors"
	"image"
)

// FrameBuffer is the full-buffer output sink: a caller-visible pixel buffer
// with an explicit row stride, mutated in place. The stride may exceed the
// pixel width, e.g. for letterboxed displays.
type FrameBuffer struct {
	pixels []byte
	width  int
	height int
	stride int // bytes per row
	format PixelFormat
}

// NewFrameBuffer allocates a frame buffer with a tight stride. Only RGB888
// and RGBA8888Premultiplied are valid output formats; Render rejects
// buffers in any other format.
func NewFrameBuffer(width, height int, format PixelFormat) *FrameBuffer {
	bpp := format.BytesPerPixel()
	return &FrameBuffer{
		pixels: make([]byte, width*height*bpp),
		width:  width,
		height: height,
		stride: width * bpp,
		format: format,
	}
}

// WrapFrameBuffer wraps caller-owned pixel memory. The buffer is used
// directly without copying. Only RGB888 and RGBA8888Premultiplied are valid
// output formats.
func WrapFrameBuffer(pixels []byte, width, height, stride int, format PixelFormat) (*FrameBuffer, error) {
	if format != RGB888 && format != RGBA8888Premultiplied {
		return nil, errors.New("scanline: unsupported output format " + format.String())
	}
	if width <= 0 || height <= 0 {
		return nil, errors.New("scanline: empty frame buffer")
	}
	if stride < width*format.BytesPerPixel() {
		return nil, errors.New("scanline: stride smaller than row")
	}
	if len(pixels) < (height-1)*stride+width*format.BytesPerPixel() {
		return nil, errors.New("scanline: pixel buffer too small")
	}
	return &FrameBuffer{pixels: pixels, width: width, height: height, stride: stride, format: format}, nil
}

// Width returns the buffer width in pixels.
func (fb *FrameBuffer) Width() int { return fb.width }

// Height returns the buffer height in pixels.
func (fb *FrameBuffer) Height() int { return fb.height }

// Stride returns the number of bytes per row.
func (fb *FrameBuffer) Stride() int { return fb.stride }

// Format returns the pixel format of the buffer.
func (fb *FrameBuffer) Format() PixelFormat { return fb.format }

// Pixels returns the raw pixel data.
func (fb *FrameBuffer) Pixels() []byte { return fb.pixels }

// row returns the pixel bytes of columns [x0, x1) of one row.
func (fb *FrameBuffer) row(y, x0, x1 int) []byte {
	bpp := fb.format.BytesPerPixel()
	off := y * fb.stride
	return fb.pixels[off+x0*bpp : off+x1*bpp]
}

// Image copies the buffer into an image.RGBA for inspection or PNG export.
// Only valid for RGBA8888Premultiplied buffers.
func (fb *FrameBuffer) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.width, fb.height))
	for y := 0; y < fb.height; y++ {
		copy(img.Pix[y*img.Stride:], fb.row(y, 0, fb.width))
	}
	return img
}

// LineProvider is the streaming output sink for controllers without an
// addressable frame buffer. The renderer calls ProcessLine once per dirty
// scanline, top to bottom, with a buffer that is only valid for the
// duration of the call.
type LineProvider interface {
	// AdjustDirtyRegion is called once, before the first line, with the
	// rectangle the renderer intends to repaint. The provider may grow it
	// (e.g. to a display's minimum update granularity); the result is
	// clamped back to the output bounds. Return the input unchanged to
	// accept it.
	AdjustDirtyRegion(r Rect) Rect

	// ProcessLine delivers the pixels of columns [x0, x1) of scanline y.
	ProcessLine(y, x0, x1 int, pixels []byte)
}

// LineFunc adapts a plain function to the LineProvider interface, accepting
// the renderer's dirty region as-is.
type LineFunc func(y, x0, x1 int, pixels []byte)

// AdjustDirtyRegion returns r unchanged.
func (f LineFunc) AdjustDirtyRegion(r Rect) Rect { return r }

// ProcessLine calls f.
func (f LineFunc) ProcessLine(y, x0, x1 int, pixels []byte) { f(y, x0, x1, pixels) }
