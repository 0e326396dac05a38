package survey

// NormalizeValue scales v by fixedMax and clips the result to [-1, 1].
// fixedMax must be positive; configuration validation guarantees that before
// any job runs.
func NormalizeValue(v, fixedMax float64) float64 {
	n := v / fixedMax
	if n > 1 {
		return 1
	}
	if n < -1 {
		return -1
	}
	return n
}

// Normalize applies NormalizeValue to every element, preserving order.
func Normalize(values []float64, fixedMax float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = NormalizeValue(v, fixedMax)
	}
	return out
}

// NormalizeCoordinates scales a coordinate pair into the unit square.
func NormalizeCoordinates(c Coordinates, fixedMax float64) Coordinates {
	return Coordinates{
		P: NormalizeValue(c.P, fixedMax),
		E: NormalizeValue(c.E, fixedMax),
	}
}
