package plot

import (
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"soundmap/internal/settings"
)

// ProfileRenderer draws grouped bars of normalized P and E per scene, a
// readable alternative when many scenes crowd the scatter.
type ProfileRenderer struct{}

func (ProfileRenderer) Kind() string { return "profile" }

func (ProfileRenderer) Render(title string, scenes []Scene, snap settings.Snapshot) ([]byte, error) {
	p := plot.New()
	p.Title.Text = title
	p.Y.Label.Text = "Normalized value"
	p.Y.Min, p.Y.Max = -1.05, 1.05
	p.Add(plotter.NewGrid())
	p.Legend.Top = true

	pVals := make(plotter.Values, len(scenes))
	eVals := make(plotter.Values, len(scenes))
	names := make([]string, len(scenes))
	for i, s := range scenes {
		pVals[i] = s.Norm.P
		eVals[i] = s.Norm.E
		names[i] = s.Label
	}

	const barWidth = vg.Points(12)
	pBars, err := plotter.NewBarChart(pVals, barWidth)
	if err != nil {
		return nil, err
	}
	pBars.Color = plotutil.Color(0)
	pBars.Offset = -barWidth / 2

	eBars, err := plotter.NewBarChart(eVals, barWidth)
	if err != nil {
		return nil, err
	}
	eBars.Color = plotutil.Color(1)
	eBars.Offset = barWidth / 2

	p.Add(pBars, eBars)
	p.Legend.Add("Pleasantness", pBars)
	p.Legend.Add("Eventfulness", eBars)
	p.NominalX(names...)

	return renderPNG(p)
}
