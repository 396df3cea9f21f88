package scanline

import "github.com/chewxy/math32"

// Point is a position in physical pixel space.
type Point struct {
	X, Y int
}

// Size is an extent in physical pixel space.
type Size struct {
	Width, Height int
}

// IsEmpty reports whether the size covers no pixels.
func (s Size) IsEmpty() bool {
	return s.Width <= 0 || s.Height <= 0
}

// Rect is an axis-aligned rectangle in physical pixel space.
// Min is inclusive, Max is exclusive.
type Rect struct {
	MinX, MinY, MaxX, MaxY int
}

// NewRect creates a rectangle from an origin and a size.
func NewRect(x, y, width, height int) Rect {
	return Rect{MinX: x, MinY: y, MaxX: x + width, MaxY: y + height}
}

// EmptyRect returns a rectangle that covers no pixels.
func EmptyRect() Rect {
	return Rect{}
}

// Width returns the horizontal extent in pixels.
func (r Rect) Width() int { return r.MaxX - r.MinX }

// Height returns the vertical extent in pixels.
func (r Rect) Height() int { return r.MaxY - r.MinY }

// IsEmpty reports whether the rectangle covers no pixels.
func (r Rect) IsEmpty() bool {
	return r.MaxX <= r.MinX || r.MaxY <= r.MinY
}

// Intersect returns the overlap of two rectangles. The result may be empty.
func (r Rect) Intersect(o Rect) Rect {
	out := Rect{
		MinX: max(r.MinX, o.MinX),
		MinY: max(r.MinY, o.MinY),
		MaxX: min(r.MaxX, o.MaxX),
		MaxY: min(r.MaxY, o.MaxY),
	}
	if out.IsEmpty() {
		return EmptyRect()
	}
	return out
}

// Union returns the smallest rectangle containing both inputs.
// Empty rectangles do not contribute.
func (r Rect) Union(o Rect) Rect {
	if r.IsEmpty() {
		return o
	}
	if o.IsEmpty() {
		return r
	}
	return Rect{
		MinX: min(r.MinX, o.MinX),
		MinY: min(r.MinY, o.MinY),
		MaxX: max(r.MaxX, o.MaxX),
		MaxY: max(r.MaxY, o.MaxY),
	}
}

// Translate returns the rectangle shifted by dx, dy.
func (r Rect) Translate(dx, dy int) Rect {
	return Rect{MinX: r.MinX + dx, MinY: r.MinY + dy, MaxX: r.MaxX + dx, MaxY: r.MaxY + dy}
}

// Contains reports whether the pixel at x, y lies inside the rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.MinX && x < r.MaxX && y >= r.MinY && y < r.MaxY
}

// LogicalPoint is a position in logical (caller) units.
type LogicalPoint struct {
	X, Y float32
}

// LogicalRect is a rectangle in logical (caller) units, relative to the
// parent item's origin.
type LogicalRect struct {
	X, Y, Width, Height float32
}

// IsEmpty reports whether the rectangle covers no area.
func (r LogicalRect) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// toPhysical converts a logical rectangle, offset by a logical origin, into
// physical pixel space. Edges are rounded independently so that adjacent
// logical rectangles stay adjacent after scaling.
func (r LogicalRect) toPhysical(offset LogicalPoint, scale float32) Rect {
	return Rect{
		MinX: int(math32.Round((offset.X + r.X) * scale)),
		MinY: int(math32.Round((offset.Y + r.Y) * scale)),
		MaxX: int(math32.Round((offset.X + r.X + r.Width) * scale)),
		MaxY: int(math32.Round((offset.Y + r.Y + r.Height) * scale)),
	}
}

// physicalLength converts a logical length to whole physical pixels.
func physicalLength(v, scale float32) int {
	return int(math32.Round(v * scale))
}
