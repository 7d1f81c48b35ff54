package network

import (
	"math"

	"github.com/KState-HEP-HTT/NNClassifiers/nn-go/dataset"
	"github.com/KState-HEP-HTT/NNClassifiers/nn-golib/errors"
)

// Callback observes training at the end of every epoch. Returning stop ends
// training after the current epoch; returning an error aborts it.
type Callback interface {
	EpochEnd(logs EpochLogs, n *Network) (stop bool, err error)
}

// EarlyStopping stops training once validation loss has not improved for
// Patience consecutive epochs.
type EarlyStopping struct {
	Patience int
	MinDelta float64

	best    float64
	wait    int
	started bool
	// StoppedEpoch is the epoch training stopped at, or 0.
	StoppedEpoch int
}

// EpochEnd implements Callback.
func (e *EarlyStopping) EpochEnd(logs EpochLogs, _ *Network) (bool, error) {
	if !e.started {
		e.best, e.started = math.Inf(1), true
	}
	if logs.ValLoss-e.MinDelta < e.best {
		e.best = logs.ValLoss
		e.wait = 0
		return false, nil
	}
	e.wait++
	if e.wait >= e.Patience {
		e.StoppedEpoch = logs.Epoch
		return true, nil
	}
	return false, nil
}

// Checkpoint writes the model whenever validation loss reaches a new minimum.
// The written model carries the input names and the fitted scaler so it can
// be evaluated on its own.
type Checkpoint struct {
	Path   string
	Inputs []string
	Scaler *dataset.StandardScaler

	best    float64
	started bool
	// BestEpoch is the epoch of the last write, or 0.
	BestEpoch int
}

// EpochEnd implements Callback.
func (c *Checkpoint) EpochEnd(logs EpochLogs, n *Network) (bool, error) {
	if !c.started {
		c.best, c.started = math.Inf(1), true
	}
	if !(logs.ValLoss < c.best) {
		return false, nil
	}
	if err := SaveModel(c.Path, n.Snapshot(c.Inputs, c.Scaler)); err != nil {
		return false, errors.IO(err, "writing checkpoint %s", c.Path)
	}
	c.best = logs.ValLoss
	c.BestEpoch = logs.Epoch
	return false, nil
}
