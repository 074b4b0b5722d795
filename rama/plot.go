package rama

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Plot renders the angle pairs as a Ramachandran scatter plot and writes
// it as a PNG to outPath.
func Plot(pairs []AnglePair, title string, outPath string) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "phi (degrees)"
	p.Y.Label.Text = "psi (degrees)"
	p.X.Min, p.X.Max = -180, 180
	p.Y.Min, p.Y.Max = -180, 180
	p.Add(plotter.NewGrid())

	pts := make(plotter.XYs, len(pairs))
	for i, pair := range pairs {
		pts[i].X = pair.Phi
		pts[i].Y = pair.Psi
	}

	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return fmt.Errorf("build scatter: %v", err)
	}
	p.Add(scatter)

	if err := p.Save(5*vg.Inch, 5*vg.Inch, outPath); err != nil {
		return fmt.Errorf("save plot: %v", err)
	}
	return nil
}
