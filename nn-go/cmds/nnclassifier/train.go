package main

import (
	"github.com/KState-HEP-HTT/NNClassifiers/nn-go/config"
	"github.com/KState-HEP-HTT/NNClassifiers/nn-go/trainer"
	"github.com/KState-HEP-HTT/NNClassifiers/nn-golib/cmdline"
	"github.com/KState-HEP-HTT/NNClassifiers/nn-golib/runlog"
)

var trainCmd = cmdline.Command{
	Name:     "train",
	Synopsis: "train a classifier and compare it to MELA",
	Args:     &trainArgs{},
}

type trainArgs struct {
	RunArgs
	cfg config.Config `arg:"-"`
}

func (a *trainArgs) Validate() error {
	cfg, err := a.config()
	if err != nil {
		return err
	}
	a.cfg = cfg
	return nil
}

func (a *trainArgs) Handle() error {
	log := runlog.New(a.cfg.Verbose)
	defer log.Sync()

	report, err := trainer.Train(a.cfg, log)
	if err != nil {
		return err
	}
	log.Infof("best epoch %d of %d, model written to %s", report.BestEpoch, report.History.Len(), report.Checkpoint)
	if report.Sidecar != "" {
		log.Infof("model parameters written to %s", report.Sidecar)
	}
	return nil
}
