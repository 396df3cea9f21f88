package scanline

import (
	"github.com/gogpu/scanline/internal/blend"
	"github.com/gogpu/scanline/internal/fix"
)

// drawLine composites every span touching the current line into the row
// buffer. buf holds the dirty region's horizontal extent; index 0
// corresponds to dirty.MinX. The active items are sorted front-most first,
// so iterating them in reverse paints back-to-front (painter's algorithm).
func (s *Scene) drawLine(buf []byte, format blend.Format, y int) {
	bpp := format.BytesPerPixel()
	items := s.currentItems()
	for i := len(items) - 1; i >= 0; i-- {
		it := &items[i]
		x0 := max(it.pos.X, s.dirty.MinX)
		x1 := min(it.pos.X+it.size.Width, s.dirty.MaxX)
		if x1 <= x0 {
			continue
		}
		span := buf[(x0-s.dirty.MinX)*bpp : (x1-s.dirty.MinX)*bpp]
		switch it.kind {
		case cmdRectangle:
			blend.BlendSpan(span, format, it.color, x1-x0)
		case cmdTexture:
			s.drawTextureLine(span, format, it, x0, x1, y)
		case cmdRoundedRectangle:
			s.drawRoundedRectLine(span, format, it, x0, x1, y)
		}
	}
}

// drawTextureLine samples one row of a texture entry nearest-neighbor at
// the ratio implied by the source extent versus the item size, and blends
// each texel per its format. it.color carries the glyph/colorize tint.
func (s *Scene) drawTextureLine(span []byte, format blend.Format, it *sceneItem, x0, x1, y int) {
	tex := &s.textures[it.index]
	sf := tex.format.texelFormat()
	sbpp := tex.format.BytesPerPixel()
	dbpp := format.BytesPerPixel()
	srcY := (y - it.pos.Y) * tex.height / it.size.Height
	row := tex.data[srcY*tex.stride:]
	for x := x0; x < x1; x++ {
		srcX := (x - it.pos.X) * tex.width / it.size.Width
		blend.BlendTexel(span[(x-x0)*dbpp:], format, row[srcX*sbpp:], sf, it.color)
	}
}

// drawRoundedRectLine paints one scanline of a rounded rectangle:
// transparent gap, anti-aliased outer edge, border (or fill when the row is
// past the border band), anti-aliased inner edge, solid center, mirrored on
// the right half. The per-side clip amounts shift where each boundary is
// evaluated, so a side scrolled out of view degrades to a flat edge.
func (s *Scene) drawRoundedRectLine(span []byte, format blend.Format, it *sceneItem, x0, x1, y int) {
	rr := &s.roundedRects[it.index]
	width := it.size.Width + rr.leftClip + rr.rightClip
	height := it.size.Height + rr.topClip + rr.bottomClip
	uy := y - it.pos.Y + rr.topClip
	dist := min(uy, height-1-uy)
	radius, border := rr.radius, rr.borderWidth

	// Fixed-point crossings of the outer and inner curves with this row's
	// top and bottom edges, evaluated once per line. Past the curved region
	// (dist >= radius) the row is a flat border/fill split at x = border.
	corner := dist < radius
	var oFar, oNear, iFar, iNear fix.Value
	if corner {
		r := fix.FromInt(radius)
		oNear = fix.CurveCrossing(r, fix.FromInt(radius-dist))
		oFar = fix.CurveCrossing(r, fix.FromInt(radius-dist-1))
		if border > 0 && dist >= border {
			ri := fix.FromInt(radius - border)
			b := fix.FromInt(border)
			iNear = b + fix.CurveCrossing(ri, fix.FromInt(radius-dist))
			iFar = b + fix.CurveCrossing(ri, fix.FromInt(radius-dist-1))
		}
	}

	covOuter := func(ux int) uint8 {
		if !corner {
			return 255
		}
		return fix.Coverage(oFar, oNear, fix.FromInt(ux))
	}
	covInner := func(ux int) uint8 {
		if border == 0 {
			return covOuter(ux)
		}
		if dist < border {
			return 0
		}
		if !corner {
			if ux >= border {
				return 255
			}
			return 0
		}
		return fix.Coverage(iFar, iNear, fix.FromInt(ux))
	}

	dbpp := format.BytesPerPixel()
	left := it.pos.X - rr.leftClip // x of the unclipped left edge
	edge := max(radius, border)
	mid0 := max(x0, left+edge)
	mid1 := min(x1, left+width-edge)

	paint := func(from, to int) {
		for x := from; x < to; x++ {
			ux := x - left
			o := min(covOuter(ux), covOuter(width-1-ux))
			in := min(covInner(ux), covInner(width-1-ux))
			if in > o {
				in = o
			}
			dst := span[(x-x0)*dbpp:]
			blend.BlendPixelCoverage(dst, format, rr.innerColor, in)
			blend.BlendPixelCoverage(dst, format, rr.borderColor, o-in)
		}
	}

	if mid0 >= mid1 {
		// Too narrow for a solid center: every pixel sees both edges.
		paint(x0, x1)
		return
	}
	paint(x0, mid0)
	if n := mid1 - mid0; n > 0 {
		c := rr.innerColor
		if dist < border {
			c = rr.borderColor
		}
		blend.BlendSpan(span[(mid0-x0)*dbpp:], format, c, n)
	}
	paint(mid1, x1)
}
