package plots

import (
	"fmt"

	"github.com/KState-HEP-HTT/NNClassifiers/nn-go/metrics"
	"github.com/KState-HEP-HTT/NNClassifiers/nn-golib/errors"
	"github.com/KState-HEP-HTT/NNClassifiers/nn-golib/fileutil"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// NamedCurve is a ROC curve with its legend label.
type NamedCurve struct {
	Name  string
	Curve metrics.Curve
}

// ROC draws the curves with signal efficiency (TPR) on the x axis and
// background efficiency (FPR) on the y axis, and writes them to path. The
// extension of path picks the image format (pdf, png, svg, ...).
func ROC(path, title string, curves ...NamedCurve) (err error) {
	if len(curves) == 0 {
		return errors.Errorf("no curves to plot")
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Signal efficiency"
	p.Y.Label.Text = "Background efficiency"
	p.X.Min, p.X.Max = 0, 1
	p.Y.Min, p.Y.Max = 0, 1
	p.Legend.Top = true
	p.Legend.Left = true
	p.Add(plotter.NewGrid())

	var lines []interface{}
	for _, c := range curves {
		pts := make(plotter.XYs, len(c.Curve.TPR))
		for i := range pts {
			pts[i].X = c.Curve.TPR[i]
			pts[i].Y = c.Curve.FPR[i]
		}
		lines = append(lines, fmt.Sprintf("%s (AUC = %.3f)", c.Name, c.Curve.AUC()), pts)
	}
	if err := plotutil.AddLines(p, lines...); err != nil {
		return errors.Wrapf(err, "drawing ROC curves")
	}

	chance, err := plotter.NewLine(plotter.XYs{{X: 0, Y: 0}, {X: 1, Y: 1}})
	if err != nil {
		return errors.Wrapf(err, "drawing chance line")
	}
	chance.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}
	p.Add(chance)

	wt, err := p.WriterTo(5*vg.Inch, 5*vg.Inch, format(path))
	if err != nil {
		return errors.Wrapf(err, "rendering %s", path)
	}

	w, err := fileutil.NewBufferedWriter(path)
	if err != nil {
		return errors.IO(err, "creating %s", path)
	}
	defer errors.Defer(&err, w.Close)

	if _, err := wt.WriteTo(w); err != nil {
		return errors.IO(err, "writing %s", path)
	}
	return nil
}
