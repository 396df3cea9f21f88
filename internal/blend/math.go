// Package blend implements the per-pixel compositing primitives of the
// software compositor: filling and source-over blending of solid colors and
// texture texels into RGB and premultiplied-RGBA destination rows.
//
// The div255 family of functions avoid expensive integer division by using
// bit shifts and addition. These are critical for performance as mulDiv255
// is called for every pixel in every blend operation.
//
// References:
//   - Alpha blending without division: https://arxiv.org/abs/2202.02864
//   - Alvy Ray Smith's technical memos: http://alvyray.com/Memos/
package blend

// div255 divides x by 255 using fast shift approximation.
//
// Formula: (x + 255) >> 8
//
// This is ~5x faster than integer division. The maximum error is +1
// for some input values, which is imperceptible in alpha blending.
func div255(x uint16) uint16 {
	return (x + 255) >> 8
}

// div255Exact divides x by 255 exactly without using division.
//
// This is Alvy Ray Smith's formula, which gives exact results for all
// uint16 values. Use this when exact results are required (e.g., in tests).
func div255Exact(x uint16) uint16 {
	t := x + 1
	return (t + (t >> 8)) >> 8
}

// mulDiv255 multiplies two bytes and divides by 255 using fast approximation.
func mulDiv255(a, b byte) byte {
	return byte(div255(uint16(a) * uint16(b)))
}

// mulDiv255Exact multiplies two bytes and divides by 255 exactly.
func mulDiv255Exact(a, b byte) byte {
	return byte(div255Exact(uint16(a) * uint16(b)))
}
