// Package plot renders the preview artifacts for a processed upload. The
// pipeline treats renderers as external collaborators: one renderer failing
// must not stop the others or fail the job.
package plot

import (
	"fmt"

	"soundmap/internal/settings"
	"soundmap/internal/survey"
)

// Scene is one plotted point: the composite key, its decoded human-readable
// label, and both coordinate forms.
type Scene struct {
	Key   string
	Label string
	Raw   survey.Coordinates
	Norm  survey.Coordinates
}

// Renderer produces one raster artifact from the normalized coordinates.
type Renderer interface {
	// Kind names the artifact variant; it becomes part of the artifact
	// filename ("{job}_{kind}.png").
	Kind() string
	Render(title string, scenes []Scene, snap settings.Snapshot) ([]byte, error)
}

// ForKinds resolves configured plot kinds to renderers. Unknown kinds are a
// configuration problem and reported as an error.
func ForKinds(kinds []string) ([]Renderer, error) {
	out := make([]Renderer, 0, len(kinds))
	for _, k := range kinds {
		switch k {
		case "scatter":
			out = append(out, &ScatterRenderer{})
		case "profile":
			out = append(out, &ProfileRenderer{})
		default:
			return nil, fmt.Errorf("unknown plot kind %q", k)
		}
	}
	return out, nil
}
