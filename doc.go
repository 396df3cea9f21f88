// Package scanline is an incremental software compositor: it turns a
// retained, already-laid-out item tree (rectangles, borders, rounded
// corners, images, glyph bitmaps) into raw pixel output one scanline at a
// time, repainting only the region that changed since the output buffer was
// last presented.
//
// # Pipeline
//
// Each frame flows through four stages:
//
//  1. The dirty-region tracker unions the changed item bounds with the
//     regions of previous frames still missing from the back buffer being
//     drawn into (buffer-age catch-up).
//  2. The scene builder walks the item tree once, restricted to the dirty
//     rectangle, and flattens it into an index-referenced list of draw
//     commands.
//  3. The scene advances through the dirty rows with an allocation-free
//     line-advance merge, producing the z-ordered spans touching each line.
//  4. Each span is alpha-blended into a line buffer, which is delivered to
//     either a full frame buffer or a per-line callback.
//
// # Quick Start
//
//	r := scanline.NewRenderer(scanline.WithBackground(scanline.White))
//	fb := scanline.NewFrameBuffer(800, 600, scanline.RGBA8888Premultiplied)
//
//	tree := &scanline.Item{
//	    Kind:       scanline.KindRectangle,
//	    Rect:       scanline.LogicalRect{X: 10, Y: 10, Width: 200, Height: 100},
//	    Background: scanline.Blue,
//	}
//	region, err := r.Render(tree, fb, 0) // age 0: repaint everything
//
// # Scope
//
// The package consumes pre-solved geometry and pre-shaped glyph bitmaps
// only: no layout, no text shaping, no path tessellation, no GPU. Values
// arriving in the item tree are already-resolved scalars; bindings and
// animations live in the surrounding system.
//
// # Concurrency
//
// Everything is single-threaded and synchronous. A Renderer (and its
// texture cache) must not be shared between goroutines without external
// locking.
package scanline
