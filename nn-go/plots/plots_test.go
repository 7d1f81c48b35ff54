package plots

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/KState-HEP-HTT/NNClassifiers/nn-go/metrics"
	"github.com/KState-HEP-HTT/NNClassifiers/nn-go/network"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tempDir(t *testing.T) string {
	dir, err := ioutil.TempDir("", "plots")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })
	return dir
}

func history() *network.History {
	return &network.History{Epochs: []network.EpochLogs{
		{Epoch: 1, Loss: 0.69, Acc: 0.5, ValLoss: 0.68, ValAcc: 0.55},
		{Epoch: 2, Loss: 0.6, Acc: 0.7, ValLoss: 0.61, ValAcc: 0.7},
		{Epoch: 3, Loss: 0.5, Acc: 0.8, ValLoss: 0.52, ValAcc: 0.8},
	}}
}

func TestROCWritesPDF(t *testing.T) {
	nn, err := metrics.ROC([]float64{0, 0, 1, 1}, []float64{0.1, 0.4, 0.35, 0.8}, nil)
	require.NoError(t, err)
	mela, err := metrics.ROC([]float64{0, 0, 1, 1}, []float64{0.2, 0.1, 0.3, 0.9}, nil)
	require.NoError(t, err)

	path := filepath.Join(tempDir(t), "plots", "NN_2jet_model.pdf")
	require.NoError(t, ROC(path, "NN_2jet_model", NamedCurve{"NN", nn}, NamedCurve{"MELA", mela}))

	buf, err := ioutil.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(buf), "%PDF"))

	assert.Error(t, ROC(path, "empty"))
}

func TestHistoryPlots(t *testing.T) {
	dir := tempDir(t)
	for name, draw := range map[string]func(string, *network.History) error{
		"loss.png": Loss,
		"acc.png":  Accuracy,
	} {
		path := filepath.Join(dir, name)
		require.NoError(t, draw(path, history()), name)
		buf, err := ioutil.ReadFile(path)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(string(buf), "\x89PNG"), name)
	}

	short := &network.History{Epochs: history().Epochs[:1]}
	assert.Error(t, Loss(filepath.Join(dir, "short.png"), short))
}

func TestHistoryCSV(t *testing.T) {
	path := filepath.Join(tempDir(t), "history.csv")
	require.NoError(t, HistoryCSV(path, history()))

	buf, err := ioutil.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(buf)), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "epoch,loss,acc,val_loss,val_acc", lines[0])
	assert.Equal(t, "1,0.69,0.5,0.68,0.55", lines[1])
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "pdf", format("plots/NN_2jet_model.pdf"))
	assert.Equal(t, "png", format("plots/NN_2jet_model.PNG"))
	assert.Equal(t, "pdf", format("plots/NN_2jet_model"))
}
