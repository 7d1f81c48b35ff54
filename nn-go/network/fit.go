package network

import (
	"math/rand"

	"github.com/KState-HEP-HTT/NNClassifiers/nn-go/metrics"
	"github.com/KState-HEP-HTT/NNClassifiers/nn-golib/errors"
	"github.com/KState-HEP-HTT/NNClassifiers/nn-golib/runlog"
	"github.com/sbwhitecap/tqdm"
	"github.com/sbwhitecap/tqdm/iterators"
	"gonum.org/v1/gonum/mat"
)

// EpochLogs are the metrics recorded at the end of an epoch.
type EpochLogs struct {
	Epoch   int     `csv:"epoch"`
	Loss    float64 `csv:"loss"`
	Acc     float64 `csv:"acc"`
	ValLoss float64 `csv:"val_loss"`
	ValAcc  float64 `csv:"val_acc"`
}

// History is the per-epoch record of a Fit call.
type History struct {
	Epochs []EpochLogs
}

// Len returns the number of epochs run.
func (h *History) Len() int {
	return len(h.Epochs)
}

// Best returns the epoch with the lowest validation loss.
func (h *History) Best() (EpochLogs, bool) {
	if len(h.Epochs) == 0 {
		return EpochLogs{}, false
	}
	best := h.Epochs[0]
	for _, e := range h.Epochs[1:] {
		if e.ValLoss < best.ValLoss {
			best = e
		}
	}
	return best, true
}

// FitOptions configures training.
type FitOptions struct {
	Epochs    int
	BatchSize int
	// ValidationSplit is the trailing fraction of the data held out for
	// validation; it is taken before shuffling.
	ValidationSplit float64
	// Seed drives the per-epoch shuffling.
	Seed      int64
	Callbacks []Callback
	// Progress shows an epoch progress bar on stderr.
	Progress bool
	Logger   *runlog.Logger
}

// Fit trains the network with Adam on weighted binary cross-entropy. w may be
// nil for unit weights.
func (n *Network) Fit(x [][]float64, y, w []float64, opts FitOptions) (*History, error) {
	if len(x) != len(y) || (w != nil && len(w) != len(y)) {
		return nil, errors.Errorf("got %d rows, %d labels and %d weights", len(x), len(y), len(w))
	}
	if opts.Epochs < 1 || opts.BatchSize < 1 {
		return nil, errors.Config(nil, "epochs and batch size must be positive, got %d and %d", opts.Epochs, opts.BatchSize)
	}
	if opts.ValidationSplit <= 0 || opts.ValidationSplit >= 1 {
		return nil, errors.Config(nil, "validation split %v outside (0, 1)", opts.ValidationSplit)
	}
	if w == nil {
		w = make([]float64, len(y))
		for i := range w {
			w[i] = 1
		}
	}
	logger := opts.Logger
	if logger == nil {
		logger = runlog.Nop()
	}

	splitAt := int(float64(len(x)) * (1 - opts.ValidationSplit))
	if splitAt < 1 || splitAt >= len(x) {
		return nil, errors.Errorf("cannot hold out %v of %d events for validation", opts.ValidationSplit, len(x))
	}
	trainX, trainY, trainW := x[:splitAt], y[:splitAt], w[:splitAt]
	valX, err := toDense(x[splitAt:], n.Inputs())
	if err != nil {
		return nil, err
	}
	valY, valW := y[splitAt:], w[splitAt:]

	rng := rand.New(rand.NewSource(opts.Seed))
	order := make([]int, len(trainX))
	for i := range order {
		order[i] = i
	}

	opt := NewAdam()
	hist := &History{}
	var fitErr error

	epoch := func(e int) (stop bool) {
		rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })

		var lossSum, hitSum float64
		for start := 0; start < len(order); start += opts.BatchSize {
			end := start + opts.BatchSize
			if end > len(order) {
				end = len(order)
			}
			bx, by, bw, err := gather(trainX, trainY, trainW, order[start:end], n.Inputs())
			if err != nil {
				fitErr = err
				return true
			}
			loss, grads, p := n.gradients(bx, by, bw)
			opt.Step(n.params(), grads)

			size := float64(end - start)
			lossSum += loss * size
			hitSum += metrics.BinaryAccuracy(by, p, nil) * size
		}

		p := n.predict(valX)
		logs := EpochLogs{
			Epoch:   e + 1,
			Loss:    lossSum / float64(len(order)),
			Acc:     hitSum / float64(len(order)),
			ValLoss: BinaryCrossEntropy(valY, p, valW),
			ValAcc:  metrics.BinaryAccuracy(valY, p, nil),
		}
		hist.Epochs = append(hist.Epochs, logs)
		logger.Debugf("epoch %d/%d: loss %.4f acc %.4f val_loss %.4f val_acc %.4f",
			logs.Epoch, opts.Epochs, logs.Loss, logs.Acc, logs.ValLoss, logs.ValAcc)

		for _, cb := range opts.Callbacks {
			halt, err := cb.EpochEnd(logs, n)
			if err != nil {
				fitErr = err
				return true
			}
			stop = stop || halt
		}
		return stop
	}

	if opts.Progress {
		err := tqdm.With(iterators.Interval(0, opts.Epochs), "Training", func(v interface{}) (brk bool) {
			return epoch(v.(int))
		})
		if err != nil && fitErr == nil {
			fitErr = err
		}
	} else {
		for e := 0; e < opts.Epochs; e++ {
			if epoch(e) {
				break
			}
		}
	}
	if fitErr != nil {
		return hist, fitErr
	}
	return hist, nil
}

func gather(x [][]float64, y, w []float64, idx []int, cols int) (*mat.Dense, []float64, []float64, error) {
	bx := mat.NewDense(len(idx), cols, nil)
	by := make([]float64, len(idx))
	bw := make([]float64, len(idx))
	for i, k := range idx {
		if len(x[k]) != cols {
			return nil, nil, nil, errors.Schema(nil, "row %d has %d values, network takes %d", k, len(x[k]), cols)
		}
		bx.SetRow(i, x[k])
		by[i], bw[i] = y[k], w[k]
	}
	return bx, by, bw, nil
}
