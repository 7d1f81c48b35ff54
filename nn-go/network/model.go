package network

import (
	"github.com/KState-HEP-HTT/NNClassifiers/nn-go/dataset"
	"github.com/KState-HEP-HTT/NNClassifiers/nn-golib/errors"
	"github.com/KState-HEP-HTT/NNClassifiers/nn-golib/serialization"
	"gonum.org/v1/gonum/mat"
)

// LayerParams are the persisted parameters of a Dense layer.
type LayerParams struct {
	Name       string      `json:"name"`
	Activation string      `json:"activation"`
	Weights    [][]float64 `json:"weights"`
	Bias       []float64   `json:"bias"`
}

// Model is a persisted network together with what is needed to apply it to
// raw events: the input column names and the fitted scaler.
type Model struct {
	Inputs []string                `json:"inputs"`
	Layers []LayerParams           `json:"layers"`
	Scaler *dataset.StandardScaler `json:"scaler,omitempty"`
}

// Snapshot copies the network's current parameters into a Model.
func (n *Network) Snapshot(inputs []string, scaler *dataset.StandardScaler) Model {
	m := Model{
		Inputs: append([]string(nil), inputs...),
		Scaler: scaler,
	}
	for _, l := range n.Layers {
		rows := make([][]float64, l.Inputs())
		for i := range rows {
			rows[i] = mat.Row(nil, i, l.W)
		}
		m.Layers = append(m.Layers, LayerParams{
			Name:       l.Name,
			Activation: Sigmoid,
			Weights:    rows,
			Bias:       append([]float64(nil), l.B...),
		})
	}
	return m
}

// Network rebuilds the network, checking that layer shapes chain.
func (m Model) Network() (*Network, error) {
	if len(m.Layers) == 0 {
		return nil, errors.Schema(nil, "model has no layers")
	}
	n := &Network{}
	width := len(m.Inputs)
	for _, lp := range m.Layers {
		if lp.Activation != Sigmoid {
			return nil, errors.Schema(nil, "layer %s has unsupported activation %q", lp.Name, lp.Activation)
		}
		if len(lp.Weights) != width {
			return nil, errors.Schema(nil, "layer %s has %d input rows, expected %d", lp.Name, len(lp.Weights), width)
		}
		units := len(lp.Bias)
		if units == 0 {
			return nil, errors.Schema(nil, "layer %s has no units", lp.Name)
		}
		w := mat.NewDense(width, units, nil)
		for i, row := range lp.Weights {
			if len(row) != units {
				return nil, errors.Schema(nil, "layer %s row %d has %d weights, expected %d", lp.Name, i, len(row), units)
			}
			w.SetRow(i, row)
		}
		n.Layers = append(n.Layers, &Dense{Name: lp.Name, W: w, B: append([]float64(nil), lp.Bias...)})
		width = units
	}
	if width != 1 {
		return nil, errors.Schema(nil, "model output has %d units, expected 1", width)
	}
	return n, nil
}

// SaveModel writes m to path; the extension picks the encoding.
func SaveModel(path string, m Model) error {
	return serialization.Encode(path, m)
}

// LoadModel reads a model written by SaveModel.
func LoadModel(path string) (Model, error) {
	var m Model
	if err := serialization.Decode(path, &m); err != nil {
		return Model{}, errors.IO(err, "loading model %s", path)
	}
	return m, nil
}
