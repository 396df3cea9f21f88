// Package fix implements the 1/16-pixel fixed-point arithmetic used by the
// rounded-corner coverage computation.
//
// Values carry 4 fractional bits. Mul deliberately multiplies the raw
// shifted integers, so a product carries 8 fractional bits; Sqrt halves the
// shift again, which is why expressions of the form
//
//	(r.Mul(r) - y.Mul(y)).Sqrt()
//
// come back out with the regular 4-bit shift without any explicit rescale.
package fix

// Shift is the number of fractional bits in a Value.
const Shift = 4

// Value is a signed fixed-point number with Shift fractional bits.
type Value int32

const (
	// One is the Value representing 1.0.
	One Value = 1 << Shift
	// Half is the Value representing 0.5.
	Half Value = One / 2
)

// FromInt converts an integer pixel count to a Value.
func FromInt(v int) Value {
	return Value(v) << Shift
}

// Floor returns the largest integer not greater than v.
func (v Value) Floor() int {
	return int(v >> Shift)
}

// Ceil returns the smallest integer not less than v.
func (v Value) Ceil() int {
	return int((v + One - 1) >> Shift)
}

// Mul multiplies the raw shifted integers. The result carries twice the
// fractional bits; callers are expected to feed it into Sqrt (or otherwise
// account for the extra shift) rather than rescale here. The raw product
// overflows int32 once both operands exceed ~2895 px; CurveCrossing widens
// to 64 bits instead of using Mul for that reason.
func (v Value) Mul(o Value) Value {
	return v * o
}

// Sqrt computes the integer square root of the raw value, halving the
// fractional shift. Negative inputs return 0 so that clipped or degenerate
// geometry can never produce the square root of a negative number.
func (v Value) Sqrt() Value {
	if v <= 0 {
		return 0
	}
	x := uint32(v)
	var r uint32
	bit := uint32(1) << 30
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
