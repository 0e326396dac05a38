package plot

import (
	"bytes"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"soundmap/internal/settings"
)

// ScatterRenderer draws the normalized circumplex: one marker per scene on
// fixed ±1.05 axes with quadrant captions, optionally connecting consecutive
// scene pairs.
type ScatterRenderer struct{}

func (ScatterRenderer) Kind() string { return "scatter" }

func (ScatterRenderer) Render(title string, scenes []Scene, snap settings.Snapshot) ([]byte, error) {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "ISOPleasant"
	p.Y.Label.Text = "ISOEventful"
	p.X.Min, p.X.Max = -1.05, 1.05
	p.Y.Min, p.Y.Max = -1.05, 1.05
	p.Add(plotter.NewGrid())
	p.Legend.Top = true
	p.Legend.Left = true

	if err := addAxisLines(p); err != nil {
		return nil, err
	}
	if err := addQuadrantCaptions(p); err != nil {
		return nil, err
	}

	if snap.ConnectPairs {
		if err := addPairLines(p, scenes); err != nil {
			return nil, err
		}
	}

	for i, s := range scenes {
		sc, err := plotter.NewScatter(plotter.XYs{{X: s.Norm.P, Y: s.Norm.E}})
		if err != nil {
			return nil, err
		}
		sc.GlyphStyle.Radius = vg.Points(3.5)
		sc.GlyphStyle.Color = plotutil.Color(i)
		sc.GlyphStyle.Shape = plotutil.Shape(i)
		p.Add(sc)
		p.Legend.Add(s.Label, sc)
	}

	return renderPNG(p)
}

// addPairLines connects scenes pairwise in key order (0-1, 2-3, …), matching
// the paired view/away condition layout.
func addPairLines(p *plot.Plot, scenes []Scene) error {
	for i := 0; i+1 < len(scenes); i += 2 {
		ln, err := plotter.NewLine(plotter.XYs{
			{X: scenes[i].Norm.P, Y: scenes[i].Norm.E},
			{X: scenes[i+1].Norm.P, Y: scenes[i+1].Norm.E},
		})
		if err != nil {
			return err
		}
		ln.LineStyle.Width = vg.Points(0.8)
		ln.LineStyle.Color = color.Gray{Y: 160}
		p.Add(ln)
	}
	return nil
}

func addAxisLines(p *plot.Plot) error {
	for _, pts := range []plotter.XYs{
		{{X: -1.05, Y: 0}, {X: 1.05, Y: 0}},
		{{X: 0, Y: -1.05}, {X: 0, Y: 1.05}},
	} {
		ln, err := plotter.NewLine(pts)
		if err != nil {
			return err
		}
		ln.LineStyle.Width = vg.Points(1)
		ln.LineStyle.Color = color.Gray{Y: 90}
		p.Add(ln)
	}
	return nil
}

func addQuadrantCaptions(p *plot.Plot) error {
	labels, err := plotter.NewLabels(plotter.XYLabels{
		XYs: plotter.XYs{
			{X: -0.56, Y: 0.56},
			{X: 0.56, Y: 0.56},
			{X: -0.56, Y: -0.56},
			{X: 0.56, Y: -0.56},
		},
		Labels: []string{"(Chaotic)", "(Vibrant)", "(Monotonous)", "(Calm)"},
	})
	if err != nil {
		return err
	}
	for i := range labels.TextStyle {
		labels.TextStyle[i].Color = color.Gray{Y: 110}
		labels.TextStyle[i].XAlign = draw.XCenter
	}
	p.Add(labels)
	return nil
}

func renderPNG(p *plot.Plot) ([]byte, error) {
	w, err := p.WriterTo(6*vg.Inch, 6*vg.Inch, "png")
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
