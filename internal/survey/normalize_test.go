package survey

import (
	"math"
	"testing"
)

func TestNormalizeValueBounds(t *testing.T) {
	cases := []struct {
		v, max, want float64
	}{
		{0, 7, 0},
		{3.5, 7, 0.5},
		{-3.5, 7, -0.5},
		{7, 7, 1},
		{-7, 7, -1},
		{10, 7, 1},   // clipped
		{-12, 7, -1}, // clipped
	}
	for _, c := range cases {
		if got := NormalizeValue(c.v, c.max); math.Abs(got-c.want) > 1e-12 {
			t.Fatalf("NormalizeValue(%v, %v) = %v, want %v", c.v, c.max, got, c.want)
		}
	}
}

func TestNormalizeMagnitudeNeverExceedsOne(t *testing.T) {
	for _, v := range []float64{-100, -7.0001, -7, -1, 0, 1, 6.999, 7, 7.0001, 100} {
		got := NormalizeValue(v, 7)
		if math.Abs(got) > 1 {
			t.Fatalf("|NormalizeValue(%v, 7)| = %v > 1", v, got)
		}
		if math.Abs(v) >= 7 && math.Abs(got) != 1 {
			t.Fatalf("NormalizeValue(%v, 7) = %v, want saturation at ±1", v, got)
		}
		if math.Abs(v) < 7 && math.Abs(got) == 1 {
			t.Fatalf("NormalizeValue(%v, 7) saturated inside the range", v)
		}
	}
}

func TestNormalizeIdempotentWithinRange(t *testing.T) {
	values := []float64{-6, -0.5, 0, 0.25, 3, 6.9}
	once := Normalize(values, 7)
	twice := Normalize(once, 7)
	for i := range once {
		if once[i] != twice[i] {
			t.Fatalf("normalize not idempotent at %d: %v then %v", i, once[i], twice[i])
		}
	}
}

func TestNormalizeKnownScenario(t *testing.T) {
	// Raw P=5.1213, E=-0.1213 from the known scene against fixedMax=7.
	c := ComputeCoordinates(4, 3, 5, 4, 2, 3, 2, 1)
	n := NormalizeCoordinates(c, 7)
	if math.Abs(n.P-0.731617) > 1e-4 {
		t.Fatalf("normalized P = %v, want ≈0.7316", n.P)
	}
	if math.Abs(n.E-(-0.017331)) > 1e-4 {
		t.Fatalf("normalized E = %v, want ≈-0.0173", n.E)
	}
}

func TestNormalizeClipsLargeRawValue(t *testing.T) {
	if got := NormalizeValue(10, 7); got != 1.0 {
		t.Fatalf("NormalizeValue(10, 7) = %v, want 1.0", got)
	}
}
