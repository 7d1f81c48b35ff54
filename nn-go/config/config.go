package config

import (
	"io/ioutil"

	"github.com/KState-HEP-HTT/NNClassifiers/nn-go/assemble"
	"github.com/KState-HEP-HTT/NNClassifiers/nn-go/events"
	"github.com/KState-HEP-HTT/NNClassifiers/nn-golib/envutil"
	"github.com/KState-HEP-HTT/NNClassifiers/nn-golib/errors"
	"github.com/KState-HEP-HTT/NNClassifiers/nn-golib/fileutil"
	yaml "gopkg.in/yaml.v2"
)

// Config is everything a training or evaluation run needs.
type Config struct {
	Verbose bool `yaml:"verbose"`

	// network shape
	NHid    int `yaml:"nhid"`
	NLayers int `yaml:"nlayers"`

	// inputs
	Vars       []string `yaml:"vars"`
	Derived    []string `yaml:"derived"`
	NJet       bool     `yaml:"njet"`
	Format     string   `yaml:"format"`
	Selection  string   `yaml:"selection"`
	Signal     string   `yaml:"signal"`
	Background string   `yaml:"background"`
	Tree       string   `yaml:"tree"`

	// training
	Epochs          int     `yaml:"epochs"`
	BatchSize       int     `yaml:"batch_size"`
	Patience        int     `yaml:"patience"`
	Seed            int64   `yaml:"seed"`
	TestFraction    float64 `yaml:"test_fraction"`
	ValidationSplit float64 `yaml:"validation_split"`

	// outputs
	ModelName    string `yaml:"model_name"`
	DontSaveJSON bool   `yaml:"dont_save_json"`
	OutputDir    string `yaml:"output_dir"`
	Checkpoint   string `yaml:"checkpoint"`
}

// Default returns the configuration of a plain two-jet training run.
func Default() Config {
	return Config{
		NHid:            5,
		NLayers:         1,
		Vars:            []string{"Q2V1", "Q2V2"},
		Format:          string(events.ROOT),
		Selection:       assemble.PositiveSelection.Name,
		Signal:          "input_files/VBF125.root",
		Background:      "input_files/embed.root",
		Epochs:          5000,
		BatchSize:       1024,
		Patience:        10,
		Seed:            7,
		TestFraction:    0.2,
		ValidationSplit: 0.25,
		OutputDir:       ".",
	}
}

// Load overlays the YAML file at path on base. Keys absent from the file keep
// their base values; unknown keys are rejected.
func Load(path string, base Config) (_ Config, err error) {
	r, err := fileutil.NewReader(path)
	if err != nil {
		return Config{}, errors.Config(err, "opening config %s", path)
	}
	defer errors.Defer(&err, r.Close)

	buf, err := ioutil.ReadAll(r)
	if err != nil {
		return Config{}, errors.Config(err, "reading config %s", path)
	}
	c := base
	if err := yaml.UnmarshalStrict(buf, &c); err != nil {
		return Config{}, errors.Config(err, "parsing config %s", path)
	}
	return c, nil
}

// ApplyEnv overlays environment settings: NN_SEED replaces the seed.
func (c *Config) ApplyEnv() error {
	seed, err := envutil.GetenvDefaultInt64("NN_SEED", c.Seed)
	if err != nil {
		return err
	}
	c.Seed = seed
	return nil
}

// Validate checks the configuration before any file is touched.
func (c Config) Validate() error {
	if len(c.Vars) == 0 {
		return errors.Config(nil, "at least one variable is required")
	}
	seen := make(map[string]bool)
	for _, v := range append(append([]string(nil), c.Vars...), c.Derived...) {
		if seen[v] {
			return errors.Config(nil, "input %q requested twice", v)
		}
		seen[v] = true
	}
	for _, d := range c.Derived {
		if _, err := assemble.DerivationByName(d); err != nil {
			return err
		}
	}
	if c.NHid < 1 {
		return errors.Config(nil, "nhid must be at least 1, got %d", c.NHid)
	}
	if c.NLayers != 1 && c.NLayers != 2 {
		return errors.Config(nil, "nlayers must be 1 or 2, got %d", c.NLayers)
	}
	if _, err := events.NewReader(events.Format(c.Format), events.Options{}); err != nil {
		return err
	}
	selection, err := assemble.SelectionByName(c.Selection)
	if err != nil {
		return err
	}
	if err := selection.CheckInputs(c.Inputs()); err != nil {
		return err
	}
	if c.Signal == "" || c.Background == "" {
		return errors.Config(nil, "both signal and background inputs are required")
	}
	if c.Epochs < 1 || c.BatchSize < 1 {
		return errors.Config(nil, "epochs and batch_size must be positive, got %d and %d", c.Epochs, c.BatchSize)
	}
	if c.Patience < 0 {
		return errors.Config(nil, "patience must not be negative, got %d", c.Patience)
	}
	for name, f := range map[string]float64{"test_fraction": c.TestFraction, "validation_split": c.ValidationSplit} {
		if f <= 0 || f >= 1 {
			return errors.Config(nil, "%s must be in (0, 1), got %v", name, f)
		}
	}
	return nil
}

// Hidden returns the width of each hidden layer.
func (c Config) Hidden() []int {
	hidden := make([]int, c.NLayers)
	for i := range hidden {
		hidden[i] = c.NHid
	}
	return hidden
}

// Inputs returns the network input names: variables then derived inputs.
func (c Config) Inputs() []string {
	return append(append([]string(nil), c.Vars...), c.Derived...)
}

// Name is the model name, defaulting by jet mode.
func (c Config) Name() string {
	if c.ModelName != "" {
		return c.ModelName
	}
	if c.NJet {
		return "NN_njet_model"
	}
	return "NN_2jet_model"
}

// CheckpointPath is where the best model is written and read back.
func (c Config) CheckpointPath() string {
	if c.Checkpoint != "" {
		return c.Checkpoint
	}
	return fileutil.Join(c.OutputDir, "models", c.Name()+".json")
}

// SidecarPath is where the model parameter summary is written. Runs without
// an explicit model name share model_store.json.
func (c Config) SidecarPath() string {
	name := c.ModelName
	if name == "" {
		name = "model_store"
	}
	return fileutil.Join(c.OutputDir, "model_params", name+".json")
}

// PlotPath returns plots/<name><suffix> under the output directory.
func (c Config) PlotPath(suffix string) string {
	return fileutil.Join(c.OutputDir, "plots", c.Name()+suffix)
}
