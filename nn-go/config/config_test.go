package config

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/KState-HEP-HTT/NNClassifiers/nn-golib/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, contents string) string {
	dir, err := ioutil.TempDir("", "config")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })
	path := filepath.Join(dir, "run.yaml")
	require.NoError(t, ioutil.WriteFile(path, []byte(contents), 0644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())
	assert.Equal(t, "NN_2jet_model", c.Name())
	assert.Equal(t, []int{5}, c.Hidden())
	assert.Equal(t, "models/NN_2jet_model.json", c.CheckpointPath())
	assert.Equal(t, "model_params/model_store.json", c.SidecarPath())
	assert.Equal(t, "plots/NN_2jet_model.pdf", c.PlotPath(".pdf"))
}

func TestNames(t *testing.T) {
	c := Default()
	c.NJet = true
	assert.Equal(t, "NN_njet_model", c.Name())

	c.ModelName = "svfit_mela"
	c.OutputDir = "s3://hep-bucket/runs"
	assert.Equal(t, "s3://hep-bucket/runs/models/svfit_mela.json", c.CheckpointPath())
	assert.Equal(t, "s3://hep-bucket/runs/plots/svfit_mela_loss.png", c.PlotPath("_loss.png"))
	assert.Equal(t, "s3://hep-bucket/runs/model_params/svfit_mela.json", c.SidecarPath())

	c.Checkpoint = "models/other.json.gz"
	assert.Equal(t, "models/other.json.gz", c.CheckpointPath())
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := writeConfig(t, `
nhid: 20
nlayers: 2
vars: [Q2V1, Q2V2, mjj]
selection: sentinel
format: csv
`)
	c, err := Load(path, Default())
	require.NoError(t, err)
	assert.Equal(t, 20, c.NHid)
	assert.Equal(t, []int{20, 20}, c.Hidden())
	assert.Equal(t, []string{"Q2V1", "Q2V2", "mjj"}, c.Vars)
	assert.Equal(t, "sentinel", c.Selection)
	assert.Equal(t, 1024, c.BatchSize, "unset keys keep defaults")
	require.NoError(t, c.Validate())
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	_, err := Load(writeConfig(t, "nhidden: 3\n"), Default())
	assert.True(t, errors.IsConfig(err))

	_, err = Load("does/not/exist.yaml", Default())
	assert.True(t, errors.IsConfig(err))
}

func TestApplyEnv(t *testing.T) {
	c := Default()
	os.Setenv("NN_SEED", "42")
	defer os.Unsetenv("NN_SEED")
	require.NoError(t, c.ApplyEnv())
	assert.Equal(t, int64(42), c.Seed)

	os.Setenv("NN_SEED", "forty-two")
	assert.True(t, errors.IsConfig(c.ApplyEnv()))
}

func TestValidate(t *testing.T) {
	for name, mutate := range map[string]func(*Config){
		"no vars":        func(c *Config) { c.Vars = nil },
		"duplicate var":  func(c *Config) { c.Vars = []string{"Q2V1", "Q2V1"} },
		"unknown derive": func(c *Config) { c.Derived = []string{"mjj_ratio"} },
		"nhid":           func(c *Config) { c.NHid = 0 },
		"nlayers":        func(c *Config) { c.NLayers = 3 },
		"format":         func(c *Config) { c.Format = "h5" },
		"selection":      func(c *Config) { c.Selection = "loose" },
		"signal":         func(c *Config) { c.Signal = "" },
		"epochs":         func(c *Config) { c.Epochs = 0 },
		"patience":       func(c *Config) { c.Patience = -1 },
		"test fraction":  func(c *Config) { c.TestFraction = 1 },
		"val split":      func(c *Config) { c.ValidationSplit = 0 },
		"reference var":  func(c *Config) { c.Vars = []string{"Q2V1", "Dbkg_VBF"} },
		"weight var":     func(c *Config) { c.Vars = []string{"Q2V1", "evtwt"} },
		"sentinel jets": func(c *Config) {
			c.Selection = "sentinel"
			c.Vars = []string{"Q2V1", "numGenJets"}
		},
	} {
		c := Default()
		mutate(&c)
		assert.True(t, errors.IsConfig(c.Validate()), name)
	}

	c := Default()
	c.Derived = []string{"dEtajj"}
	require.NoError(t, c.Validate())
	assert.Equal(t, []string{"Q2V1", "Q2V2", "dEtajj"}, c.Inputs())
}
