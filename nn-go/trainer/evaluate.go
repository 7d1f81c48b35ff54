package trainer

import (
	"github.com/KState-HEP-HTT/NNClassifiers/nn-go/config"
	"github.com/KState-HEP-HTT/NNClassifiers/nn-go/dataset"
	"github.com/KState-HEP-HTT/NNClassifiers/nn-go/network"
	"github.com/KState-HEP-HTT/NNClassifiers/nn-golib/errors"
	"github.com/KState-HEP-HTT/NNClassifiers/nn-golib/runlog"
)

// Evaluate reloads the checkpointed model, rebuilds the test partition with
// the configured seed, and scores the model and the reference discriminant on
// it. Verbose runs write the ROC plot.
func Evaluate(cfg config.Config, log *runlog.Logger) (*Report, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	defer log.FlushDurations()

	path := cfg.CheckpointPath()
	model, err := network.LoadModel(path)
	if err != nil {
		return nil, err
	}
	if model.Scaler == nil || !model.Scaler.Fitted() {
		return nil, errors.Schema(nil, "model %s has no fitted scaler", path)
	}
	if !sameNames(model.Inputs, cfg.Inputs()) {
		return nil, errors.Config(nil, "model %s was trained on %v, configured inputs are %v", path, model.Inputs, cfg.Inputs())
	}
	net, err := model.Network()
	if err != nil {
		return nil, errors.Wrapf(err, "rebuilding %s", path)
	}

	data, err := load(cfg, log)
	if err != nil {
		return nil, err
	}
	p, err := dataset.FromTable(data.Features, model.Inputs)
	if err != nil {
		return nil, err
	}
	split, err := dataset.TrainTestSplit(p, cfg.TestFraction, cfg.Seed)
	if err != nil {
		return nil, err
	}
	if split.Test.X, err = model.Scaler.Transform(split.Test.X); err != nil {
		return nil, err
	}

	nn, mela, err := rocs(net, split.Test, data.Reference)
	if err != nil {
		return nil, err
	}
	report := &Report{
		Signal:     data.signal,
		Background: data.background,
		Train:      split.Train.Len(),
		Test:       split.Test.Len(),
		NNAUC:      nn.AUC(),
		MELAAUC:    mela.AUC(),
		Checkpoint: path,
	}
	log.Infof("test AUC: NN %.4f, MELA %.4f", report.NNAUC, report.MELAAUC)

	if cfg.Verbose {
		if err := writePlots(cfg, nn, mela, nil, log); err != nil {
			return nil, err
		}
	}
	return report, nil
}

func sameNames(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
