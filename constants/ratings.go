package constants

import "strings"

// RatingDimensions is the fixed vocabulary of the eight semantic-differential
// scales, in the order the coordinate transform consumes them.
var RatingDimensions = []string{
	"eventful",
	"vibrant",
	"pleasant",
	"calm",
	"uneventful",
	"monotonous",
	"annoying",
	"chaotic",
}

// NumRatings is the size of a complete rating vector.
const NumRatings = 8

// RatingIndex returns the position of name in RatingDimensions, matching
// case-insensitively, or -1 when name is not a rating dimension.
func RatingIndex(name string) int {
	n := strings.ToLower(strings.TrimSpace(name))
	for i, d := range RatingDimensions {
		if d == n {
			return i
		}
	}
	return -1
}
