// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package scanline

import "testing"

func pixelAt(fb *FrameBuffer, x, y int) [3]byte {
	r := fb.row(y, x, x+1)
	return [3]byte{r[0], r[1], r[2]}
}

func TestRenderSolidRectangle(t *testing.T) {
	// A red 20x20 rectangle at (10, 10) on the default white background.
	tree := &Item{
		Kind:       KindRectangle,
		Rect:       LogicalRect{X: 10, Y: 10, Width: 20, Height: 20},
		Background: Red,
	}
	r := NewRenderer()
	fb := NewFrameBuffer(40, 40, RGB888)
	region, err := r.Render(tree, fb, 0)
	if err != nil {
		t.Fatal(err)
	}
	if region.Bounds() != NewRect(0, 0, 40, 40) {
		t.Errorf("age-0 region = %+v, want the full buffer", region.Bounds())
	}
	red := [3]byte{255, 0, 0}
	white := [3]byte{255, 255, 255}
	checks := []struct {
		x, y int
		want [3]byte
	}{
		{0, 0, white}, {9, 9, white}, {10, 10, red}, {29, 29, red},
		{30, 30, white}, {39, 39, white}, {20, 9, white}, {20, 10, red},
	}
	for _, c := range checks {
		if got := pixelAt(fb, c.x, c.y); got != c.want {
			t.Errorf("pixel (%d,%d) = %v, want %v", c.x, c.y, got, c.want)
		}
	}
}

func TestRenderZOrder(t *testing.T) {
	// Two overlapping siblings: the later one paints on top.
	tree := &Item{
		Kind:       KindRectangle,
		Rect:       LogicalRect{Width: 40, Height: 40},
		Background: White,
		Children: []*Item{
			{Kind: KindRectangle, Rect: LogicalRect{X: 5, Y: 5, Width: 20, Height: 20}, Background: Red},
			{Kind: KindRectangle, Rect: LogicalRect{X: 15, Y: 15, Width: 20, Height: 20}, Background: Blue},
		},
	}
	r := NewRenderer()
	fb := NewFrameBuffer(40, 40, RGB888)
	if _, err := r.Render(tree, fb, 0); err != nil {
		t.Fatal(err)
	}
	if got := pixelAt(fb, 10, 10); got != [3]byte{255, 0, 0} {
		t.Errorf("red-only pixel = %v", got)
	}
	if got := pixelAt(fb, 20, 20); got != [3]byte{0, 0, 255} {
		t.Errorf("overlap pixel = %v, want the later sibling", got)
	}
	if got := pixelAt(fb, 30, 30); got != [3]byte{0, 0, 255} {
		t.Errorf("blue-only pixel = %v", got)
	}
}

func TestRenderNothingDirtyIsIdempotent(t *testing.T) {
	tree := &Item{Kind: KindRectangle, Rect: LogicalRect{Width: 10, Height: 10}, Background: Red}
	r := NewRenderer()
	fb := NewFrameBuffer(10, 10, RGB888)
	if _, err := r.Render(tree, fb, 0); err != nil {
		t.Fatal(err)
	}
	// Second frame: the buffer holds the previous frame and nothing was
	// marked dirty, so nothing is painted.
	region, err := r.Render(tree, fb, 1)
	if err != nil {
		t.Fatal(err)
	}
	if !region.IsEmpty() {
		t.Errorf("unchanged frame repainted %+v", region.Bounds())
	}
}

func TestRenderMarkDirtyRepaintsOnlyRegion(t *testing.T) {
	tree := &Item{Kind: KindRectangle, Rect: LogicalRect{Width: 20, Height: 20}, Background: Red}
	r := NewRenderer()
	fb := NewFrameBuffer(20, 20, RGB888)
	if _, err := r.Render(tree, fb, 0); err != nil {
		t.Fatal(err)
	}

	// Scribble over the buffer, then mark only part of it dirty. Only the
	// marked part is restored.
	for i := range fb.Pixels() {
		fb.Pixels()[i] = 0
	}
	r.MarkDirty(NewRect(5, 5, 4, 4))
	region, err := r.Render(tree, fb, 1)
	if err != nil {
		t.Fatal(err)
	}
	if region.Bounds() != NewRect(5, 5, 4, 4) {
		t.Fatalf("region = %+v", region.Bounds())
	}
	if got := pixelAt(fb, 6, 6); got != [3]byte{255, 0, 0} {
		t.Errorf("repainted pixel = %v", got)
	}
	if got := pixelAt(fb, 0, 0); got != [3]byte{0, 0, 0} {
		t.Errorf("pixel outside the dirty region was touched: %v", got)
	}
}

func TestRenderBufferAgeCatchUp(t *testing.T) {
	tree := &Item{Kind: KindRectangle, Rect: LogicalRect{Width: 30, Height: 30}, Background: Red}
	r := NewRenderer()

	// Simulate triple buffering: each buffer sees the renderer every third
	// frame, so it must catch up on the two frames it missed.
	fbA := NewFrameBuffer(30, 30, RGB888)
	if _, err := r.Render(tree, fbA, 0); err != nil {
		t.Fatal(err)
	}
	r.MarkDirty(NewRect(2, 2, 2, 2))
	fbB := NewFrameBuffer(30, 30, RGB888)
	if _, err := r.Render(tree, fbB, 0); err != nil {
		t.Fatal(err)
	}
	r.MarkDirty(NewRect(10, 10, 2, 2))
	fbC := NewFrameBuffer(30, 30, RGB888)
	if _, err := r.Render(tree, fbC, 0); err != nil {
		t.Fatal(err)
	}

	// Back to buffer A, age 3: it missed the frame-2 and frame-3 changes.
	r.MarkDirty(NewRect(20, 20, 2, 2))
	region, err := r.Render(tree, fbA, 3)
	if err != nil {
		t.Fatal(err)
	}
	want := NewRect(2, 2, 20, 20) // union of (2,2)+(10,10)+(20,20) marks
	if region.Bounds() != want {
		t.Errorf("age-3 region = %+v, want %+v", region.Bounds(), want)
	}
}

func TestScaleFactorNormalized(t *testing.T) {
	r := NewRenderer(WithScaleFactor(-2))
	if got := r.ScaleFactor(); got != 1 {
		t.Errorf("ScaleFactor = %v, want clamped to 1", got)
	}
	r.SetScaleFactor(1.5)
	if got := r.ScaleFactor(); got != 1.5 {
		t.Errorf("ScaleFactor = %v", got)
	}
	r.SetScaleFactor(0)
	if got := r.ScaleFactor(); got != 1 {
		t.Errorf("ScaleFactor after zero = %v, want 1", got)
	}
}

func TestRenderNilFrameBuffer(t *testing.T) {
	r := NewRenderer()
	if _, err := r.Render(nil, nil, 0); err == nil {
		t.Error("nil frame buffer did not error")
	}
}

func TestRenderRejectsNonOutputFormats(t *testing.T) {
	tree := &Item{Kind: KindRectangle, Rect: LogicalRect{Width: 8, Height: 8}, Background: Red}
	r := NewRenderer()
	// An alpha-map buffer is narrower than any composite row; a
	// straight-alpha buffer would silently receive premultiplied bytes.
	// Both must be rejected up front, like RenderByLine rejects them.
	for _, format := range []PixelFormat{AlphaMap, RGBA8888} {
		fb := NewFrameBuffer(8, 8, format)
		if _, err := r.Render(tree, fb, 0); err == nil {
			t.Errorf("%v buffer did not error", format)
		}
	}
}

func TestRenderStridePaddingUntouched(t *testing.T) {
	// A letterboxed buffer: 10 pixels wide, stride of 16 pixels. The
	// padding bytes past each row must survive a render.
	stride := 16 * 3
	pixels := make([]byte, 10*stride)
	for i := range pixels {
		pixels[i] = 7
	}
	fb, err := WrapFrameBuffer(pixels, 10, 10, stride, RGB888)
	if err != nil {
		t.Fatal(err)
	}
	tree := &Item{Kind: KindRectangle, Rect: LogicalRect{Width: 10, Height: 10}, Background: Red}
	r := NewRenderer()
	if _, err := r.Render(tree, fb, 0); err != nil {
		t.Fatal(err)
	}
	for y := 0; y < 9; y++ {
		for b := 10 * 3; b < stride; b++ {
			if pixels[y*stride+b] != 7 {
				t.Fatalf("padding byte (%d,%d) overwritten", y, b)
			}
		}
	}
	if got := pixelAt(fb, 9, 9); got != [3]byte{255, 0, 0} {
		t.Errorf("last pixel = %v", got)
	}
}

func TestRenderScaleFactor(t *testing.T) {
	tree := &Item{Kind: KindRectangle, Rect: LogicalRect{Width: 10, Height: 10}, Background: Red}
	r := NewRenderer(WithScaleFactor(2), WithBackground(Black))
	fb := NewFrameBuffer(40, 40, RGB888)
	if _, err := r.Render(tree, fb, 0); err != nil {
		t.Fatal(err)
	}
	if got := pixelAt(fb, 19, 19); got != [3]byte{255, 0, 0} {
		t.Errorf("pixel inside the scaled rect = %v", got)
	}
	if got := pixelAt(fb, 20, 20); got != [3]byte{0, 0, 0} {
		t.Errorf("pixel outside the scaled rect = %v, want background", got)
	}
}

type recordingProvider struct {
	adjusted  Rect
	lines     []int
	x0s, x1s  []int
	firstByte []byte
}

func (p *recordingProvider) AdjustDirtyRegion(r Rect) Rect {
	p.adjusted = r
	return r
}

func (p *recordingProvider) ProcessLine(y, x0, x1 int, pixels []byte) {
	p.lines = append(p.lines, y)
	p.x0s = append(p.x0s, x0)
	p.x1s = append(p.x1s, x1)
	p.firstByte = append(p.firstByte, pixels[0])
}

func TestRenderByLine(t *testing.T) {
	tree := &Item{Kind: KindRectangle, Rect: LogicalRect{Width: 8, Height: 4}, Background: Red}
	r := NewRenderer()
	p := &recordingProvider{}
	region, err := r.RenderByLine(tree, 8, 4, RGB888, 0, p)
	if err != nil {
		t.Fatal(err)
	}
	if region.Bounds() != NewRect(0, 0, 8, 4) {
		t.Fatalf("region = %+v", region.Bounds())
	}
	if p.adjusted != NewRect(0, 0, 8, 4) {
		t.Errorf("AdjustDirtyRegion saw %+v", p.adjusted)
	}
	if len(p.lines) != 4 {
		t.Fatalf("line count = %d", len(p.lines))
	}
	for i, y := range p.lines {
		if y != i {
			t.Errorf("line %d delivered as y=%d", i, y)
		}
		if p.x0s[i] != 0 || p.x1s[i] != 8 {
			t.Errorf("line %d span = [%d,%d)", i, p.x0s[i], p.x1s[i])
		}
		if p.firstByte[i] != 255 {
			t.Errorf("line %d first byte = %d, want red", i, p.firstByte[i])
		}
	}
}

type growingProvider struct {
	recordingProvider
}

func (p *growingProvider) AdjustDirtyRegion(r Rect) Rect {
	p.adjusted = r
	// Grow to a display's 8-pixel horizontal update granularity.
	r.MinX = r.MinX &^ 7
	r.MaxX = (r.MaxX + 7) &^ 7
	return r
}

func TestRenderByLineProviderGrowsRegion(t *testing.T) {
	tree := &Item{Kind: KindRectangle, Rect: LogicalRect{Width: 16, Height: 4}, Background: Red}
	r := NewRenderer()
	p := &growingProvider{}
	if _, err := r.RenderByLine(tree, 16, 4, RGB888, 0, p); err != nil {
		t.Fatal(err)
	}
	// Second frame with a narrow mark: the provider rounds it out.
	r.MarkDirty(NewRect(3, 1, 2, 1))
	region, err := r.RenderByLine(tree, 16, 4, RGB888, 1, p)
	if err != nil {
		t.Fatal(err)
	}
	if got := region.Bounds(); got != NewRect(0, 1, 8, 1) {
		t.Errorf("grown region = %+v", got)
	}
	if last := len(p.x1s) - 1; p.x0s[last] != 0 || p.x1s[last] != 8 {
		t.Errorf("span = [%d,%d), want the rounded-out region", p.x0s[last], p.x1s[last])
	}
}

func TestRenderByLineNoCallbacksWhenClean(t *testing.T) {
	tree := &Item{Kind: KindRectangle, Rect: LogicalRect{Width: 8, Height: 4}, Background: Red}
	r := NewRenderer()
	p := &recordingProvider{}
	if _, err := r.RenderByLine(tree, 8, 4, RGB888, 0, p); err != nil {
		t.Fatal(err)
	}
	n := len(p.lines)
	region, err := r.RenderByLine(tree, 8, 4, RGB888, 1, p)
	if err != nil {
		t.Fatal(err)
	}
	if !region.IsEmpty() || len(p.lines) != n {
		t.Errorf("clean frame still produced %d callbacks", len(p.lines)-n)
	}
}

func TestRenderByLineErrors(t *testing.T) {
	r := NewRenderer()
	if _, err := r.RenderByLine(nil, 8, 4, RGB888, 0, nil); err == nil {
		t.Error("nil provider did not error")
	}
	p := &recordingProvider{}
	if _, err := r.RenderByLine(nil, 8, 4, RGBA8888, 0, p); err == nil {
		t.Error("straight-alpha output format did not error")
	}
}
