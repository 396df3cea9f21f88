// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package scanline

// DirtyRegion is the area of the output that must be repainted, tracked as
// a single bounding rectangle in physical pixel space. It is always
// intersected with the output buffer bounds before use.
type DirtyRegion struct {
	bounds Rect
}

// Bounds returns the bounding rectangle of the region.
func (d DirtyRegion) Bounds() Rect { return d.bounds }

// IsEmpty reports whether nothing needs repainting.
func (d DirtyRegion) IsEmpty() bool { return d.bounds.IsEmpty() }

// maxAgeHistory is how many previous frames' dirty regions are retained for
// buffer-age catch-up. Ages beyond this force a full repaint.
const maxAgeHistory = 4

// dirtyTracker records the dirty region of recent frames so that a reused
// back buffer can be caught up with everything painted since it was last
// presented.
type dirtyTracker struct {
	history [maxAgeHistory]Rect
	frames  int
}

// compute resolves the rectangle that must be repainted this frame.
//
// current is the union of this frame's changed item bounding boxes plus any
// extra region requested by the caller. bufferAge is how many frames ago
// the buffer being drawn into was last fully painted: 1 means it holds the
// previous frame, n means n-1 intermediate frames are missing from it, and
// 0 (or unknown/too old) means its contents are unusable. The result is
// clamped to the buffer bounds.
func (t *dirtyTracker) compute(current Rect, bufferAge int, buffer Rect) Rect {
	if bufferAge <= 0 || bufferAge > t.frames || bufferAge > maxAgeHistory {
		return buffer
	}
	region := current
	for i := 1; i < bufferAge; i++ {
		region = region.Union(t.history[(t.frames-i)%maxAgeHistory])
	}
	return region.Intersect(buffer)
}

// record stores the change region of the frame just produced.
func (t *dirtyTracker) record(current Rect) {
	t.history[t.frames%maxAgeHistory] = current
	t.frames++
}
