package scanline

import (
	"log/slog"

	"github.com/chewxy/math32"

	"github.com/gogpu/scanline/internal/blend"
)

// minVisibleAlpha is the opacity below which an item is dropped at emission
// time instead of being composited.
const minVisibleAlpha = 0.01

// buildState is the save/restore state carried through the tree walk.
type buildState struct {
	alpha  float32
	offset LogicalPoint
	clip   Rect
}

// builder walks the resolved item tree once per dirty pass and flattens it
// into a Scene. It copies out only the resolved scalar values it needs, so
// the scene never holds a reference back into the live tree.
type builder struct {
	scene *Scene
	scale float32
	cache *TextureCache

	state buildState
	stack []buildState
	nextZ uint16
}

// buildScene flattens the item tree into a scene restricted to the clip
// rectangle (the dirty region in physical pixels). The scale factor
// converts logical units to physical pixels; all geometry past this point
// is integer pixel space.
func buildScene(root *Item, clip Rect, scale float32, cache *TextureCache, background blend.Color) *Scene {
	b := builder{
		scene: &Scene{background: background, dirty: clip},
		scale: scale,
		cache: cache,
		state: buildState{alpha: 1, clip: clip},
	}
	if root != nil && !clip.IsEmpty() {
		b.walk(root)
	}
	if len(b.stack) != 0 {
		panic("scanline: unbalanced save")
	}
	b.scene.prime()
	return b.scene
}

// save pushes the current walk state.
func (b *builder) save() {
	b.stack = append(b.stack, b.state)
}

// restore pops the walk state pushed by the matching save.
func (b *builder) restore() {
	if len(b.stack) == 0 {
		panic("scanline: unbalanced restore")
	}
	b.state = b.stack[len(b.stack)-1]
	b.stack = b.stack[:len(b.stack)-1]
}

func (b *builder) walk(item *Item) {
	switch item.Kind {
	case KindOpacity:
		a := b.state.alpha * item.Opacity
		if a <= minVisibleAlpha {
			return
		}
		b.save()
		b.state.alpha = a
		b.walkChildren(item)
		b.restore()
	case KindClip:
		phys := item.Rect.toPhysical(b.state.offset, b.scale)
		b.save()
		b.state.clip = b.state.clip.Intersect(phys)
		if !b.state.clip.IsEmpty() {
			b.walkChildren(item)
		}
		b.restore()
	case KindRectangle:
		b.emitRectangle(item)
		b.walkChildren(item)
	case KindImage:
		b.emitImage(item)
		b.walkChildren(item)
	case KindText:
		b.emitText(item)
		b.walkChildren(item)
	}
}

// walkChildren visits the children with the item's origin added to the
// offset, since child geometry is relative to the parent.
func (b *builder) walkChildren(item *Item) {
	if len(item.Children) == 0 {
		return
	}
	b.save()
	b.state.offset.X += item.Rect.X
	b.state.offset.Y += item.Rect.Y
	for _, child := range item.Children {
		b.walk(child)
	}
	b.restore()
}

// alpha8 returns the accumulated opacity as an 8-bit value.
func (b *builder) alpha8() uint8 {
	a := math32.Round(b.state.alpha * 255)
	if a >= 255 {
		return 255
	}
	if a <= 0 {
		return 0
	}
	return uint8(a)
}

// push appends one scene item covering the (already clipped, non-empty)
// rectangle. Draw order is the emission order, recorded in z.
func (b *builder) push(r Rect, kind commandKind, color blend.Color, index int) {
	b.scene.items = append(b.scene.items, sceneItem{
		pos:   Point{X: r.MinX, Y: r.MinY},
		size:  Size{Width: r.Width(), Height: r.Height()},
		z:     b.nextZ,
		kind:  kind,
		color: color,
		index: int32(index),
	})
	b.nextZ++
}

// ---------------------------------------------------------------------------
// Rectangle emission
// ---------------------------------------------------------------------------

// emitRectangle lowers a rectangle item. With a zero border radius it emits
// up to five axis-aligned rectangles (fill plus four border strips), each
// clipped individually; with a positive radius it emits one
// rounded-rectangle entry carrying per-side clip amounts.
func (b *builder) emitRectangle(item *Item) {
	rect := item.Rect.toPhysical(b.state.offset, b.scale)
	if rect.IsEmpty() {
		return
	}
	half := min(rect.Width(), rect.Height()) / 2
	radius := min(physicalLength(item.BorderRadius, b.scale), half)
	border := min(physicalLength(item.BorderWidth, b.scale), half)
	if radius > 0 {
		b.emitRoundedRect(item, rect, radius, border)
		return
	}

	fill := Rect{
		MinX: rect.MinX + border, MinY: rect.MinY + border,
		MaxX: rect.MaxX - border, MaxY: rect.MaxY - border,
	}
	b.emitRect(fill, item.Background)
	if border > 0 {
		c := item.BorderColor
		b.emitRect(Rect{rect.MinX, rect.MinY, rect.MaxX, rect.MinY + border}, c)
		b.emitRect(Rect{rect.MinX, rect.MaxY - border, rect.MaxX, rect.MaxY}, c)
		b.emitRect(Rect{rect.MinX, rect.MinY + border, rect.MinX + border, rect.MaxY - border}, c)
		b.emitRect(Rect{rect.MaxX - border, rect.MinY + border, rect.MaxX, rect.MaxY - border}, c)
	}
}

// emitRect appends one solid rectangle, clipped and dropped if invisible.
func (b *builder) emitRect(r Rect, c Color) {
	r = r.Intersect(b.state.clip)
	if r.IsEmpty() {
		return
	}
	pc := c.premultiply(b.alpha8())
	if pc.A < 3 {
		return
	}
	b.push(r, cmdRectangle, pc, -1)
}

// emitRoundedRect appends one rounded-rectangle entry. The per-side clip
// amounts are the deltas between the unclipped and clipped bounds, so a
// corner scrolled off-screen progressively loses its curvature.
func (b *builder) emitRoundedRect(item *Item, rect Rect, radius, border int) {
	clipped := rect.Intersect(b.state.clip)
	if clipped.IsEmpty() {
		return
	}
	alpha := b.alpha8()
	inner := item.Background.premultiply(alpha)
	borderColor := item.BorderColor.premultiply(alpha)
	if border <= 0 {
		borderColor = blend.Color{}
	}
	if inner.A < 3 && borderColor.A < 3 {
		return
	}
	b.scene.roundedRects = append(b.scene.roundedRects, roundedRect{
		radius:      radius,
		borderWidth: border,
		borderColor: borderColor,
		innerColor:  inner,
		leftClip:    clipped.MinX - rect.MinX,
		rightClip:   rect.MaxX - clipped.MaxX,
		topClip:     clipped.MinY - rect.MinY,
		bottomClip:  rect.MaxY - clipped.MaxY,
	})
	b.push(clipped, cmdRoundedRectangle, inner, len(b.scene.roundedRects)-1)
}

// ---------------------------------------------------------------------------
// Image emission
// ---------------------------------------------------------------------------

// emitImage lowers an image item: resolves the pixel source (through the
// texture cache for decoded images), fits it into the destination
// rectangle, and appends one texture entry per visible piece.
func (b *builder) emitImage(item *Item) {
	src := item.Source
	if src == nil {
		return
	}
	dest := item.Rect.toPhysical(b.state.offset, b.scale)
	srcSize := src.size()
	if dest.IsEmpty() || srcSize.IsEmpty() {
		return
	}
	alpha := b.alpha8()
	if float32(alpha)/255 <= minVisibleAlpha {
		return
	}
	tint := blend.Color{}
	if item.Colorize.A != 0 {
		tint = item.Colorize.premultiply(alpha)
	} else if alpha != 255 {
		// Texture entries carry no global alpha; without a tint to fold the
		// opacity into, the texels composite at full strength.
		Logger().Warn("scanline: partial opacity over an untinted image is not scaled",
			slog.Int("alpha", int(alpha)))
	}

	srcRect := NewRect(0, 0, srcSize.Width, srcSize.Height)
	if !item.SourceClip.IsEmpty() {
		srcRect = srcRect.Intersect(item.SourceClip)
		if srcRect.IsEmpty() {
			return
		}
	}

	destRect := dest
	switch item.Fit {
	case FitFill:
		// Source stretches to the destination as-is.
	case FitCover:
		srcRect = coverCrop(srcRect, dest)
	case FitContain:
		destRect = containFit(srcRect, dest)
	case FitTile:
		b.emitTiled(item, src, dest, srcRect, tint)
		return
	}
	if destRect.IsEmpty() || srcRect.IsEmpty() {
		return
	}

	if len(src.Fragments) > 0 {
		b.emitFragments(src, destRect, srcRect, tint)
		return
	}

	tex, ok := b.resolveTexture(src, item.Smooth && item.SourceClip.IsEmpty(), destRect, &srcRect)
	if !ok {
		return
	}
	b.emitTexture(destRect, tex, srcRect, tint)
}

// coverCrop crops the source rectangle to the destination's aspect ratio,
// centered, so that uniform scaling covers the destination exactly.
func coverCrop(src, dest Rect) Rect {
	sw, sh := src.Width(), src.Height()
	dw, dh := dest.Width(), dest.Height()
	if sw*dh > sh*dw {
		visible := max(sh*dw/dh, 1)
		cut := (sw - visible) / 2
		src.MinX += cut
		src.MaxX = src.MinX + visible
	} else {
		visible := max(sw*dh/dw, 1)
		cut := (sh - visible) / 2
		src.MinY += cut
		src.MaxY = src.MinY + visible
	}
	return src
}

// containFit shrinks the destination rectangle to the source's aspect
// ratio, centered, so that the whole source stays visible.
func containFit(src, dest Rect) Rect {
	sw, sh := src.Width(), src.Height()
	dw, dh := dest.Width(), dest.Height()
	if sw*dh > sh*dw {
		h := max(sh*dw/sw, 1)
		pad := (dh - h) / 2
		return Rect{MinX: dest.MinX, MinY: dest.MinY + pad, MaxX: dest.MaxX, MaxY: dest.MinY + pad + h}
	}
	w := max(sw*dh/sh, 1)
	pad := (dw - w) / 2
	return Rect{MinX: dest.MinX + pad, MinY: dest.MinY, MaxX: dest.MinX + pad + w, MaxY: dest.MaxY}
}

// emitTiled repeats the source at its natural size across the destination.
func (b *builder) emitTiled(item *Item, src *ImageSource, dest, srcRect Rect, tint blend.Color) {
	tex, ok := b.resolveTexture(src, false, dest, &srcRect)
	if !ok {
		return
	}
	tw, th := srcRect.Width(), srcRect.Height()
	for y := dest.MinY; y < dest.MaxY; y += th {
		for x := dest.MinX; x < dest.MaxX; x += tw {
			tile := Rect{MinX: x, MinY: y, MaxX: x + tw, MaxY: y + th}.Intersect(dest)
			piece := Rect{
				MinX: srcRect.MinX, MinY: srcRect.MinY,
				MaxX: srcRect.MinX + tile.Width(), MaxY: srcRect.MinY + tile.Height(),
			}
			b.emitTexture(tile, tex, piece, tint)
		}
	}
}

// emitFragments emits one texture entry per atlas fragment, each
// intersected against the requested source rectangle and mapped through the
// source-to-destination scale.
func (b *builder) emitFragments(src *ImageSource, dest, srcRect Rect, tint blend.Color) {
	dw, dh := dest.Width(), dest.Height()
	sw, sh := srcRect.Width(), srcRect.Height()
	for _, frag := range src.Fragments {
		nominal := NewRect(frag.Offset.X, frag.Offset.Y, frag.Source.Width(), frag.Source.Height())
		visible := nominal.Intersect(srcRect)
		if visible.IsEmpty() {
			continue
		}
		// The fragment's texels for the visible part.
		texels := frag.Source.Translate(visible.MinX-nominal.MinX, visible.MinY-nominal.MinY)
		texels.MaxX -= nominal.MaxX - visible.MaxX
		texels.MaxY -= nominal.MaxY - visible.MaxY
		// Map the visible nominal rectangle into destination space.
		fragDest := Rect{
			MinX: dest.MinX + (visible.MinX-srcRect.MinX)*dw/sw,
			MinY: dest.MinY + (visible.MinY-srcRect.MinY)*dh/sh,
			MaxX: dest.MinX + (visible.MaxX-srcRect.MinX)*dw/sw,
			MaxY: dest.MinY + (visible.MaxY-srcRect.MinY)*dh/sh,
		}
		if fragDest.IsEmpty() {
			continue
		}
		b.emitTexture(fragDest, src.Texture, texels, tint)
	}
}

// resolveTexture materializes the texel source. Decoded images go through
// the texture cache, which converts them to premultiplied RGBA once and,
// when smooth is set and the sizes differ, resamples them to the
// destination size (in which case srcRect is rewritten to the scaled
// space).
func (b *builder) resolveTexture(src *ImageSource, smooth bool, dest Rect, srcRect *Rect) (Texture, bool) {
	if src.Image == nil {
		if src.Texture.IsEmpty() {
			return Texture{}, false
		}
		return src.Texture, true
	}
	full := NewRect(0, 0, src.size().Width, src.size().Height)
	wantSmooth := smooth && *srcRect == full &&
		(dest.Width() != full.Width() || dest.Height() != full.Height())
	if wantSmooth {
		tex := b.cache.scaled(src, dest.Width(), dest.Height())
		*srcRect = NewRect(0, 0, tex.Width, tex.Height)
		return tex, !tex.IsEmpty()
	}
	tex := b.cache.converted(src)
	return tex, !tex.IsEmpty()
}

// emitTexture appends one texture entry for the destination rectangle,
// sampling the srcRect texels of tex. Clipping the destination shifts the
// sampled region proportionally so the visible texels stay aligned.
func (b *builder) emitTexture(dest Rect, tex Texture, src Rect, tint blend.Color) {
	if dest.IsEmpty() || src.IsEmpty() || tex.IsEmpty() {
		return
	}
	clipped := dest.Intersect(b.state.clip)
	if clipped.IsEmpty() {
		return
	}
	sw, sh := src.Width(), src.Height()
	dw, dh := dest.Width(), dest.Height()
	adj := src
	adj.MinX += (clipped.MinX - dest.MinX) * sw / dw
	adj.MaxX -= (dest.MaxX - clipped.MaxX) * sw / dw
	adj.MinY += (clipped.MinY - dest.MinY) * sh / dh
	adj.MaxY -= (dest.MaxY - clipped.MaxY) * sh / dh
	// Rounding may pinch a one-texel source closed; keep at least one texel.
	if adj.MaxX <= adj.MinX {
		adj.MaxX = min(adj.MinX+1, tex.Width)
		adj.MinX = adj.MaxX - 1
	}
	if adj.MaxY <= adj.MinY {
		adj.MaxY = min(adj.MinY+1, tex.Height)
		adj.MinY = adj.MaxY - 1
	}
	sub := tex.sub(adj)
	b.scene.textures = append(b.scene.textures, sceneTexture{
		data:   sub.Data,
		format: sub.Format,
		stride: sub.Stride,
		width:  sub.Width,
		height: sub.Height,
	})
	b.push(clipped, cmdTexture, tint, len(b.scene.textures)-1)
}

// ---------------------------------------------------------------------------
// Text emission
// ---------------------------------------------------------------------------

// emitText appends one alpha-map texture entry per pre-shaped glyph, tinted
// with the text color. Glyph placement is already in physical pixels
// relative to the item origin.
func (b *builder) emitText(item *Item) {
	origin := item.Rect.toPhysical(b.state.offset, b.scale)
	tint := item.TextColor.premultiply(b.alpha8())
	if tint.A < 3 {
		return
	}
	bounds := origin.Intersect(b.state.clip)
	if bounds.IsEmpty() {
		return
	}
	b.save()
	b.state.clip = bounds
	for i := range item.Glyphs {
		g := &item.Glyphs[i]
		if g.Bitmap.IsEmpty() {
			continue
		}
		dest := NewRect(origin.MinX+g.X, origin.MinY+g.Y, g.Bitmap.Width, g.Bitmap.Height)
		b.emitTexture(dest, g.Bitmap, NewRect(0, 0, g.Bitmap.Width, g.Bitmap.Height), tint)
	}
	b.restore()
}
