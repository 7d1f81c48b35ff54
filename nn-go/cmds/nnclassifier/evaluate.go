package main

import (
	"github.com/KState-HEP-HTT/NNClassifiers/nn-go/config"
	"github.com/KState-HEP-HTT/NNClassifiers/nn-go/trainer"
	"github.com/KState-HEP-HTT/NNClassifiers/nn-golib/cmdline"
	"github.com/KState-HEP-HTT/NNClassifiers/nn-golib/runlog"
)

var evaluateCmd = cmdline.Command{
	Name:     "evaluate",
	Synopsis: "score a trained model and MELA on the test split",
	Args:     &evaluateArgs{},
}

type evaluateArgs struct {
	RunArgs
	Checkpoint string `arg:"--checkpoint" help:"model to evaluate (default models/<model_name>.json)"`
	cfg        config.Config `arg:"-"`
}

func (a *evaluateArgs) Validate() error {
	cfg, err := a.config()
	if err != nil {
		return err
	}
	setString(&cfg.Checkpoint, a.Checkpoint)
	a.cfg = cfg
	return nil
}

func (a *evaluateArgs) Handle() error {
	log := runlog.New(a.cfg.Verbose)
	defer log.Sync()

	report, err := trainer.Evaluate(a.cfg, log)
	if err != nil {
		return err
	}
	log.Infof("%s: NN AUC %.4f, MELA AUC %.4f on %d test events", report.Checkpoint, report.NNAUC, report.MELAAUC, report.Test)
	return nil
}
