package fix

// Coverage returns the anti-aliased coverage (0..255) of the pixel column
// whose left edge sits at px, for a boundary band that crosses the
// scanline's top and bottom edges at x1 and x2 (x1 <= x2). Everything left
// of the band is outside (coverage 0), everything right of it is fully
// inside (255). Within the band, coverage ramps linearly between the two
// crossings, sampled at the pixel center.
//
// The linear ramp approximates the exact pixel-area integral. The
// approximation is intentional; the visual output depends on it.
func Coverage(x1, x2, px Value) uint8 {
	mid := px + Half
	if x2 <= x1 {
		// Degenerate band: hard step at the crossing.
		if mid < x1 {
			return 0
		}
		return 255
	}
	if mid <= x1 {
		return 0
	}
	if mid >= x2 {
		return 255
	}
	return uint8(((mid - x1) * 255) / (x2 - x1))
}

// CurveCrossing returns the horizontal offset from a rounded corner's outer
// edge at which a circle of the given radius crosses the horizontal line
// that runs y units away from the circle's center:
//
//	x = radius - sqrt(radius² - y²)
//
// y at or beyond the radius clamps to the center column, y at or below zero
// clamps to the outer edge, so the square-root argument is never negative.
func CurveCrossing(radius, y Value) Value {
	if y <= 0 {
		return 0
	}
	if y >= radius {
		return radius
	}
	// The raw product carries 8 fractional bits and overflows int32 for
	// radii above ~2895 px, so the subtraction runs in 64 bits. The root
	// itself is bounded by radius and fits again.
	d := int64(radius)*int64(radius) - int64(y)*int64(y)
	return radius - sqrt64(d)
}

// sqrt64 computes the integer square root of a non-negative 64-bit raw
// value, halving the fractional shift like Value.Sqrt.
func sqrt64(v int64) Value {
	x := uint64(v)
	var r uint64
	bit := uint64(1) << 62
	for bit > x {
		bit >>= 2
	}
	for bit != 0 {
		if x >= r+bit {
			x -= r + bit
			r = r>>1 + bit
		} else {
			r >>= 1
		}
		bit >>= 2
	}
	return Value(r)
}
