package plots

import (
	"path/filepath"
	"strings"

	"github.com/KState-HEP-HTT/NNClassifiers/nn-go/network"
	"github.com/KState-HEP-HTT/NNClassifiers/nn-golib/errors"
	"github.com/KState-HEP-HTT/NNClassifiers/nn-golib/fileutil"
	"github.com/gocarina/gocsv"
	chart "github.com/wcharczuk/go-chart"
)

// MinEpochs is the shortest history that can be drawn as curves.
const MinEpochs = 2

// Loss draws training and validation loss per epoch as a PNG.
func Loss(path string, hist *network.History) error {
	train, val := series(hist, func(e network.EpochLogs) (float64, float64) { return e.Loss, e.ValLoss })
	top := 0.0
	for _, v := range append(append([]float64(nil), train...), val...) {
		if v > top {
			top = v
		}
	}
	if top == 0 {
		top = 1
	}
	return drawHistory(path, "Loss", "Loss", hist, train, val, &chart.ContinuousRange{Min: 0, Max: 1.1 * top})
}

// Accuracy draws training and validation accuracy per epoch as a PNG.
func Accuracy(path string, hist *network.History) error {
	train, val := series(hist, func(e network.EpochLogs) (float64, float64) { return e.Acc, e.ValAcc })
	return drawHistory(path, "Accuracy", "Accuracy", hist, train, val, &chart.ContinuousRange{Min: 0, Max: 1})
}

func series(hist *network.History, get func(network.EpochLogs) (float64, float64)) ([]float64, []float64) {
	train := make([]float64, hist.Len())
	val := make([]float64, hist.Len())
	for i, e := range hist.Epochs {
		train[i], val[i] = get(e)
	}
	return train, val
}

func drawHistory(path, title, yName string, hist *network.History, train, val []float64, yRange chart.Range) (err error) {
	if hist.Len() < MinEpochs {
		return errors.Errorf("need at least %d epochs to draw %s, got %d", MinEpochs, strings.ToLower(title), hist.Len())
	}
	epochs := make([]float64, hist.Len())
	for i, e := range hist.Epochs {
		epochs[i] = float64(e.Epoch)
	}

	graph := chart.Chart{
		Title:      title,
		TitleStyle: chart.StyleShow(),
		XAxis: chart.XAxis{
			Name:      "Epoch",
			NameStyle: chart.StyleShow(),
			Style:     chart.StyleShow(),
		},
		YAxis: chart.YAxis{
			Name:      yName,
			NameStyle: chart.StyleShow(),
			Style:     chart.StyleShow(),
			Range:     yRange,
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "Training",
				XValues: epochs,
				YValues: train,
				Style: chart.Style{
					Show:        true,
					StrokeColor: chart.ColorBlue,
				},
			},
			chart.ContinuousSeries{
				Name:    "Validation",
				XValues: epochs,
				YValues: val,
				Style: chart.Style{
					Show:        true,
					StrokeColor: chart.ColorRed,
				},
			},
		},
	}
	graph.Elements = []chart.Renderable{
		chart.LegendLeft(&graph),
	}

	w, err := fileutil.NewBufferedWriter(path)
	if err != nil {
		return errors.IO(err, "creating %s", path)
	}
	defer errors.Defer(&err, w.Close)

	if err := graph.Render(chart.PNG, w); err != nil {
		return errors.Wrapf(err, "rendering %s", path)
	}
	return nil
}

// HistoryCSV writes one row per epoch with loss and accuracy columns.
func HistoryCSV(path string, hist *network.History) (err error) {
	w, err := fileutil.NewBufferedWriter(path)
	if err != nil {
		return errors.IO(err, "creating %s", path)
	}
	defer errors.Defer(&err, w.Close)

	epochs := hist.Epochs
	if err := gocsv.Marshal(&epochs, w); err != nil {
		return errors.IO(err, "writing %s", path)
	}
	return nil
}

// format returns the image format implied by the extension of path.
func format(path string) string {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "pdf"
	}
	return strings.ToLower(ext)
}
