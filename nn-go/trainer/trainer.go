package trainer

import (
	"bytes"

	"github.com/KState-HEP-HTT/NNClassifiers/nn-go/assemble"
	"github.com/KState-HEP-HTT/NNClassifiers/nn-go/config"
	"github.com/KState-HEP-HTT/NNClassifiers/nn-go/dataset"
	"github.com/KState-HEP-HTT/NNClassifiers/nn-go/events"
	"github.com/KState-HEP-HTT/NNClassifiers/nn-go/metrics"
	"github.com/KState-HEP-HTT/NNClassifiers/nn-go/network"
	"github.com/KState-HEP-HTT/NNClassifiers/nn-go/plots"
	"github.com/KState-HEP-HTT/NNClassifiers/nn-golib/errors"
	"github.com/KState-HEP-HTT/NNClassifiers/nn-golib/runlog"
	"github.com/KState-HEP-HTT/NNClassifiers/nn-golib/serialization"
	humanize "github.com/dustin/go-humanize"
)

// Report summarizes a run.
type Report struct {
	Signal     int
	Background int
	Train      int
	Test       int

	History      *network.History
	BestEpoch    int
	StoppedEpoch int

	NNAUC   float64
	MELAAUC float64

	Checkpoint string
	Sidecar    string
}

// Sidecar records how a model was trained.
type Sidecar struct {
	ModelName   string   `json:"model_name"`
	Variables   []string `json:"variables"`
	NHidden     int      `json:"nhidden"`
	NJet        bool     `json:"njet"`
	NUserInputs int      `json:"n_user_inputs"`
}

// samples is the assembled input of a run.
type samples struct {
	assemble.Result
	signal, background int
}

func load(cfg config.Config, log *runlog.Logger) (samples, error) {
	defer log.Time("assemble")()

	reader, err := events.NewReader(events.Format(cfg.Format), events.Options{TreeName: cfg.Tree})
	if err != nil {
		return samples{}, err
	}
	selection, err := assemble.SelectionByName(cfg.Selection)
	if err != nil {
		return samples{}, err
	}
	a := assemble.Assembler{
		Reader:    reader,
		Selection: selection,
		NJet:      cfg.NJet,
		Derived:   cfg.Derived,
	}

	sig, err := a.Massage(cfg.Vars, cfg.Signal, assemble.Signal)
	if err != nil {
		return samples{}, errors.Wrapf(err, "assembling signal")
	}
	bkg, err := a.Massage(cfg.Vars, cfg.Background, assemble.Background)
	if err != nil {
		return samples{}, errors.Wrapf(err, "assembling background")
	}
	log.Infof("training statistics: %s signal, %s background events",
		humanize.Comma(int64(sig.Features.Len())), humanize.Comma(int64(bkg.Features.Len())))

	all, err := assemble.Combine(sig, bkg)
	if err != nil {
		return samples{}, err
	}
	return samples{Result: all, signal: sig.Features.Len(), background: bkg.Features.Len()}, nil
}

// Train assembles both samples, trains a network with early stopping, keeps
// the best model at the checkpoint path, and writes the sidecar. Verbose runs
// also write ROC and training-history plots.
func Train(cfg config.Config, log *runlog.Logger) (*Report, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	defer log.FlushDurations()

	data, err := load(cfg, log)
	if err != nil {
		return nil, err
	}

	inputs := data.Inputs()
	stopFormat := log.Time("format")
	split, scaler, err := dataset.FinalFormatting(data.Features, inputs, cfg.TestFraction, cfg.Seed)
	stopFormat()
	if err != nil {
		return nil, errors.Wrapf(err, "formatting dataset")
	}

	net, err := network.New(len(inputs), cfg.Hidden(), cfg.Seed)
	if err != nil {
		return nil, err
	}
	if cfg.Verbose {
		var buf bytes.Buffer
		net.Summary(&buf)
		log.Infof("model summary:\n%s", buf.String())
	}

	stopping := &network.EarlyStopping{Patience: cfg.Patience}
	checkpoint := &network.Checkpoint{Path: cfg.CheckpointPath(), Inputs: inputs, Scaler: scaler}
	stopFit := log.Time("fit")
	hist, err := net.Fit(split.Train.X, split.Train.Y, split.Train.W, network.FitOptions{
		Epochs:          cfg.Epochs,
		BatchSize:       cfg.BatchSize,
		ValidationSplit: cfg.ValidationSplit,
		Seed:            cfg.Seed,
		Callbacks:       []network.Callback{stopping, checkpoint},
		Progress:        cfg.Verbose,
		Logger:          log,
	})
	stopFit()
	if err != nil {
		return nil, errors.Wrapf(err, "training")
	}
	if stopping.StoppedEpoch > 0 {
		log.Infof("early stopping at epoch %d", stopping.StoppedEpoch)
	}
	if best, ok := hist.Best(); ok {
		log.Infof("best epoch %d: val_loss %.4f, val_acc %.4f", best.Epoch, best.ValLoss, best.ValAcc)
	}

	report := &Report{
		Signal:       data.signal,
		Background:   data.background,
		Train:        split.Train.Len(),
		Test:         split.Test.Len(),
		History:      hist,
		BestEpoch:    checkpoint.BestEpoch,
		StoppedEpoch: stopping.StoppedEpoch,
		Checkpoint:   cfg.CheckpointPath(),
	}

	nn, mela, err := rocs(net, split.Test, data.Reference)
	if err != nil {
		return nil, err
	}
	report.NNAUC, report.MELAAUC = nn.AUC(), mela.AUC()
	log.Infof("test AUC: NN %.4f, MELA %.4f", report.NNAUC, report.MELAAUC)

	if cfg.Verbose {
		if err := writePlots(cfg, nn, mela, hist, log); err != nil {
			return nil, err
		}
	}

	if !cfg.DontSaveJSON {
		report.Sidecar = cfg.SidecarPath()
		sidecar := Sidecar{
			ModelName:   cfg.Name(),
			Variables:   cfg.Vars,
			NHidden:     cfg.NHid,
			NJet:        cfg.NJet,
			NUserInputs: data.UserInputs,
		}
		if err := serialization.Encode(report.Sidecar, sidecar); err != nil {
			return nil, errors.IO(err, "writing sidecar %s", report.Sidecar)
		}
	}
	return report, nil
}

// rocs computes the network ROC on the test partition and the reference
// discriminant ROC on the reference table.
func rocs(net *network.Network, test dataset.Partition, reference *events.Table) (metrics.Curve, metrics.Curve, error) {
	scores, err := net.Predict(test.X)
	if err != nil {
		return metrics.Curve{}, metrics.Curve{}, err
	}
	nn, err := metrics.ROC(test.Y, scores, nil)
	if err != nil {
		return metrics.Curve{}, metrics.Curve{}, errors.Wrapf(err, "network ROC")
	}

	disc, err := reference.Column(assemble.ReferenceColumn)
	if err != nil {
		return metrics.Curve{}, metrics.Curve{}, err
	}
	labels, err := reference.Column(assemble.LabelColumn)
	if err != nil {
		return metrics.Curve{}, metrics.Curve{}, err
	}
	mela, err := metrics.ROC(labels, disc, nil)
	if err != nil {
		return metrics.Curve{}, metrics.Curve{}, errors.Wrapf(err, "reference ROC")
	}
	return nn, mela, nil
}

func writePlots(cfg config.Config, nn, mela metrics.Curve, hist *network.History, log *runlog.Logger) error {
	defer log.Time("plots")()

	roc := cfg.PlotPath(".pdf")
	if err := plots.ROC(roc, cfg.Name(), plots.NamedCurve{Name: "NN", Curve: nn}, plots.NamedCurve{Name: "MELA", Curve: mela}); err != nil {
		return err
	}
	log.Debugf("wrote %s", roc)

	if hist == nil {
		return nil
	}
	if err := plots.HistoryCSV(cfg.PlotPath("_history.csv"), hist); err != nil {
		return err
	}
	if hist.Len() < plots.MinEpochs {
		log.Warnf("only %d epoch(s) ran, skipping loss and accuracy curves", hist.Len())
		return nil
	}
	if err := plots.Loss(cfg.PlotPath("_loss.png"), hist); err != nil {
		return err
	}
	return plots.Accuracy(cfg.PlotPath("_acc.png"), hist)
}
