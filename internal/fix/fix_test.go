package fix

import (
	"math"
	"testing"
)

func TestFromIntRoundTrip(t *testing.T) {
	for _, v := range []int{0, 1, 7, 255, -3} {
		if got := FromInt(v).Floor(); got != v {
			t.Errorf("FromInt(%d).Floor() = %d", v, got)
		}
	}
}

func TestFloorCeil(t *testing.T) {
	tests := []struct {
		name      string
		v         Value
		wantFloor int
		wantCeil  int
	}{
		{"whole", FromInt(3), 3, 3},
		{"half", FromInt(3) + Half, 3, 4},
		{"just above", FromInt(3) + 1, 3, 4},
		{"just below", FromInt(4) - 1, 3, 4},
		{"zero", 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.Floor(); got != tt.wantFloor {
				t.Errorf("Floor() = %d, want %d", got, tt.wantFloor)
			}
			if got := tt.v.Ceil(); got != tt.wantCeil {
				t.Errorf("Ceil() = %d, want %d", got, tt.wantCeil)
			}
		})
	}
}

func TestMulIsRaw(t *testing.T) {
	// Mul multiplies raw shifted integers: the product carries 8
	// fractional bits instead of 4.
	got := FromInt(3).Mul(FromInt(5))
	want := Value(3 * 5 << (2 * Shift))
	if got != want {
		t.Errorf("Mul = %d, want %d", got, want)
	}
}

func TestSqrtMatchesFloat(t *testing.T) {
	for v := Value(0); v < 1<<16; v += 13 {
		want := Value(math.Sqrt(float64(v)))
		if got := v.Sqrt(); got != want {
			t.Fatalf("Sqrt(%d) = %d, want %d", v, got, want)
		}
	}
}

func TestSqrtHalvesShift(t *testing.T) {
	// sqrt(r*r) must give back r for the composition used by the corner
	// crossing: the doubled shift of Mul cancels out.
	for _, r := range []int{1, 4, 8, 16, 100} {
		v := FromInt(r)
		if got := v.Mul(v).Sqrt(); got != v {
			t.Errorf("sqrt(%d²) = %d, want %d", r, got, v)
		}
	}
}

func TestSqrtNegativeClamps(t *testing.T) {
	if got := Value(-16).Sqrt(); got != 0 {
		t.Errorf("Sqrt(-16) = %d, want 0", got)
	}
}
