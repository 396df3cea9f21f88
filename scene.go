package scanline

import (
	"sort"

	"github.com/gogpu/scanline/internal/blend"
)

// commandKind tags what a scene item draws.
type commandKind uint8

const (
	cmdRectangle commandKind = iota
	cmdTexture
	cmdRoundedRectangle
)

// sceneItem is one flattened draw command. Textures and rounded-rectangle
// parameters are referenced by index into the per-frame tables, never by
// pointer, so the scene can be moved or pooled without dangling references.
type sceneItem struct {
	pos  Point
	size Size
	z    uint16
	kind commandKind
	// color is the fill color for cmdRectangle and the tint for cmdTexture.
	color blend.Color
	// index references the texture or rounded-rectangle table.
	index int32
}

// sceneTexture is one per-frame texture entry. The item size it is attached
// to may differ from Width/Height; compositing then samples
// nearest-neighbor at the implied ratio.
type sceneTexture struct {
	data   []byte
	format PixelFormat
	stride int
	// width, height are the source texel extent mapped onto the item size.
	width, height int
}

// roundedRect holds the parameters of one rounded-rectangle entry, all in
// physical pixels. The clip fields record how many pixels of the
// rectangle's unclipped bounds were cut away on each side; the scanline
// painter shifts its boundary evaluation by these amounts so a clipped
// corner degrades to a flat edge instead of re-deriving geometry.
type roundedRect struct {
	radius      int
	borderWidth int
	borderColor blend.Color
	innerColor  blend.Color

	leftClip, rightClip, topClip, bottomClip int
}

// Scene is the frame-local, flattened set of draw commands produced by one
// builder walk, together with the line-advance state machine that feeds the
// per-scanline compositor.
//
// The items slice is kept in three contiguous partitions:
//
//	items[:currentEnd]    items overlapping currentLine, sorted by z descending
//	items[currentEnd:futureStart]  slack left behind by expired items
//	items[futureStart:]   items starting below currentLine, sorted by (y asc, z desc)
type Scene struct {
	currentLine int
	items       []sceneItem
	currentEnd  int
	futureStart int

	textures     []sceneTexture
	roundedRects []roundedRect

	background blend.Color
	dirty      Rect
}

// DirtyRect returns the region this scene was built for.
func (s *Scene) DirtyRect() Rect { return s.dirty }

// CurrentLine returns the scanline the active partition currently covers.
func (s *Scene) CurrentLine() int { return s.currentLine }

// exhausted reports whether the scene has advanced past its dirty region.
func (s *Scene) exhausted() bool { return s.currentLine >= s.dirty.MaxY }

// currentItems returns the items overlapping the current line, sorted by z
// descending (front-most first). The slice aliases the scene's backing
// array and is invalidated by nextLine.
func (s *Scene) currentItems() []sceneItem {
	return s.items[:s.currentEnd]
}

// prime sorts the freshly built item list and positions the partitions on
// the first line of the dirty region. Items that already ended above it are
// expired immediately.
func (s *Scene) prime() {
	sort.Slice(s.items, func(i, j int) bool {
		a, b := &s.items[i], &s.items[j]
		if a.pos.Y != b.pos.Y {
			return a.pos.Y < b.pos.Y
		}
		return a.z > b.z
	})
	s.currentLine = s.dirty.MinY
	s.currentEnd = 0
	s.futureStart = 0
	s.promote()
	s.expire()
}

// debugChecks enables partition invariant verification after every line
// advance. The constant lets the compiler drop the checks entirely from
// release builds; tests call checkInvariants directly.
const debugChecks = false

// checkInvariants panics if the item partitions are out of shape: the
// active partition must contain exactly the items covering currentLine in
// z-descending order, and the future partition must stay (y, z)-sorted with
// nothing pending promotion.
func (s *Scene) checkInvariants() {
	if s.currentEnd > s.futureStart || s.futureStart > len(s.items) {
		panic("scanline: scene partitions overlap")
	}
	for i := 0; i < s.currentEnd; i++ {
		it := &s.items[i]
		if it.pos.Y > s.currentLine || it.pos.Y+it.size.Height <= s.currentLine {
			panic("scanline: active item does not cover current line")
		}
		if i > 0 && s.items[i-1].z < it.z {
			panic("scanline: active partition not sorted by z descending")
		}
	}
	for i := s.futureStart; i < len(s.items); i++ {
		it := &s.items[i]
		if it.pos.Y <= s.currentLine {
			panic("scanline: future item pending promotion")
		}
		if i > s.futureStart {
			prev := &s.items[i-1]
			if prev.pos.Y > it.pos.Y || (prev.pos.Y == it.pos.Y && prev.z < it.z) {
				panic("scanline: future partition not sorted")
			}
		}
	}
}

// nextLine advances the state machine by one scanline: items whose vertical
// span no longer covers the new line leave the active partition, items
// whose top row is reached join it, and the active partition's z-descending
// order is re-established. The whole transition is in place and
// allocation-free; it runs once per output scanline.
func (s *Scene) nextLine() {
	s.currentLine++
	s.expire()
	s.promote()
	if debugChecks {
		s.checkInvariants()
	}
}

// expire compacts the active partition down to the items still covering
// currentLine, preserving their z-descending order.
func (s *Scene) expire() {
	w := 0
	for i := 0; i < s.currentEnd; i++ {
		it := s.items[i]
		if it.pos.Y+it.size.Height > s.currentLine {
			s.items[w] = it
			w++
		}
	}
	s.currentEnd = w
}

// promote moves every future item whose top row has been reached into the
// active partition, inserting by z. The write slot freed by consuming the
// future head always lies at or beyond the end of the active partition, so
// the shift in the insertion never touches unread items.
func (s *Scene) promote() {
	for s.futureStart < len(s.items) && s.items[s.futureStart].pos.Y <= s.currentLine {
		it := s.items[s.futureStart]
		s.futureStart++
		pos := sort.Search(s.currentEnd, func(i int) bool {
			return s.items[i].z < it.z
		})
		copy(s.items[pos+1:s.currentEnd+1], s.items[pos:s.currentEnd])
		s.items[pos] = it
		s.currentEnd++
	}
}
