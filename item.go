package scanline

import "image"

// ItemKind tags the closed set of drawable item kinds. The scene builder
// dispatches on this tag; there is no per-kind interface.
type ItemKind uint8

const (
	// KindRectangle is a solid fill, optionally with a border and rounded
	// corners.
	KindRectangle ItemKind = iota
	// KindImage draws a pixel source fitted into the item rectangle.
	KindImage
	// KindText draws a sequence of pre-shaped glyph bitmaps tinted with the
	// text color.
	KindText
	// KindClip restricts its children to the item rectangle.
	KindClip
	// KindOpacity multiplies the opacity of its children.
	KindOpacity
)

// ImageFit selects how an image source is fitted into its item rectangle.
type ImageFit uint8

const (
	// FitFill stretches the source to the item rectangle.
	FitFill ImageFit = iota
	// FitCover scales the source uniformly until it covers the rectangle,
	// cropping the overflow.
	FitCover
	// FitContain scales the source uniformly until it fits entirely inside
	// the rectangle.
	FitContain
	// FitTile repeats the source at its natural size.
	FitTile
)

// Item is one node of the resolved, laid-out item tree handed to the scene
// builder. Geometry is in logical units relative to the parent's origin;
// all paint properties are already-resolved scalar values (no bindings, no
// gradients). Which fields are meaningful depends on Kind.
type Item struct {
	Kind     ItemKind
	Rect     LogicalRect
	Children []*Item

	// Rectangle fields.
	Background   Color
	BorderWidth  float32
	BorderColor  Color
	BorderRadius float32

	// Image fields.
	Source *ImageSource
	Fit    ImageFit
	// SourceClip optionally restricts which texels of the source are drawn,
	// in source pixel coordinates. A zero rectangle means the whole source.
	SourceClip Rect
	// Smooth requests resampling through the texture cache instead of
	// nearest-neighbor sampling during compositing.
	Smooth bool
	// Colorize, when its alpha is non-zero, replaces the source color and
	// keeps only the source alpha.
	Colorize Color

	// Text fields. Glyphs are pre-shaped and positioned in physical pixels
	// relative to the item's physical origin; this core does no shaping.
	Glyphs    []Glyph
	TextColor Color

	// Opacity field (KindOpacity), in 0..1.
	Opacity float32
}

// Glyph is one pre-shaped glyph: a coverage bitmap and its placement in
// physical pixels relative to the text item's physical origin.
type Glyph struct {
	X, Y   int
	Bitmap Texture
}

// ImageSource is a decoded pixel source for image items. Exactly one of
// Texture or Image should be set. Image sources go through the texture
// cache (converted to premultiplied RGBA once, keyed by CacheKey); raw
// Texture sources are used as-is.
type ImageSource struct {
	Texture Texture
	Image   image.Image

	// CacheKey identifies the source in the texture cache. Zero disables
	// caching for this source.
	CacheKey uint64

	// Fragments lists disjoint sub-textures when the source is stored
	// sectioned in a texture atlas. Source is the texel rectangle inside
	// the data, Offset its position in the image's nominal pixel space.
	// Empty means the source is one contiguous texture.
	Fragments []AtlasFragment
}

// AtlasFragment is one disjoint piece of an atlas-sectioned image source.
type AtlasFragment struct {
	Source Rect
	Offset Point
}

// size returns the nominal pixel extent of the source. For fragmented
// sources this is the union of the fragment placements, not the extent of
// the atlas texture they live in.
func (s *ImageSource) size() Size {
	if s.Image != nil {
		b := s.Image.Bounds()
		return Size{Width: b.Dx(), Height: b.Dy()}
	}
	if len(s.Fragments) > 0 {
		var sz Size
		for _, f := range s.Fragments {
			sz.Width = max(sz.Width, f.Offset.X+f.Source.Width())
			sz.Height = max(sz.Height, f.Offset.Y+f.Source.Height())
		}
		return sz
	}
	return Size{Width: s.Texture.Width, Height: s.Texture.Height}
}
