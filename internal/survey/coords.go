// Package survey turns wide survey tables into per-scene circumplex
// coordinates: reshape rows into rating vectors, encode categorical conditions
// into composite scene keys, apply the coordinate transform, and normalize.
package survey

import "math"

// cos45 is the projection factor of the diagonal scales onto the axes. Fixed
// by the coordinate model, not configurable.
var cos45 = math.Sqrt2 / 2

// Coordinates is the raw (Pleasantness, Eventfulness) pair for one scene.
type Coordinates struct {
	P float64
	E float64
}

// ComputeCoordinates derives the circumplex coordinates from one rating
// vector. Argument order follows the rating vocabulary: eventful, vibrant,
// pleasant, calm, uneventful, monotonous, annoying, chaotic.
func ComputeCoordinates(e, v, p, ca, u, m, a, ch float64) Coordinates {
	return Coordinates{
		P: (p - a) + cos45*(ca-ch) + cos45*(v-m),
		E: (e - u) + cos45*(ch-ca) + cos45*(v-m),
	}
}

// ComputeVector derives coordinates from a complete rating vector.
func ComputeVector(r RatingVector) Coordinates {
	return ComputeCoordinates(r[0], r[1], r[2], r[3], r[4], r[5], r[6], r[7])
}
