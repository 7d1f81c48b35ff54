package main

import (
	"github.com/KState-HEP-HTT/NNClassifiers/nn-go/config"
)

// RunArgs are the flags shared by every command. Unset flags leave the value
// from the defaults, the --config file, or the environment in place.
type RunArgs struct {
	Verbose      bool     `arg:"--verbose" help:"verbose output: debug logs, model summary, progress bar and plots"`
	NHid         *int     `arg:"-n,--nhid" help:"number of hidden nodes per layer (default 5)"`
	NLayers      *int     `arg:"--nlayers" help:"number of hidden layers, 1 or 2 (default 1)"`
	Vars         []string `arg:"-v,--vars" help:"input variables (default Q2V1 Q2V2)"`
	Derived      []string `arg:"--derived" help:"derived inputs to add: dEtajj, dPhijj"`
	NJet         bool     `arg:"-N,--njet" help:"run on DY + n-jets instead of exactly two jets"`
	ModelName    string   `arg:"-m,--model_name" help:"name of the model"`
	DontSaveJSON bool     `arg:"-d,--dont_save_json" help:"don't store NN settings to json"`
	Format       string   `arg:"--format" help:"input format: root, csv or jsonl (default root)"`
	Selection    string   `arg:"--selection" help:"selection profile: positive or sentinel (default positive)"`
	Signal       string   `arg:"--signal" help:"signal input (default input_files/VBF125.root)"`
	Background   string   `arg:"--background" help:"background input (default input_files/embed.root)"`
	Tree         string   `arg:"--tree" help:"ROOT tree name (default: first tree in the file)"`
	Epochs       *int     `arg:"--epochs" help:"maximum number of epochs (default 5000)"`
	BatchSize    *int     `arg:"--batch_size" help:"minibatch size (default 1024)"`
	Patience     *int     `arg:"--patience" help:"epochs without val_loss improvement before stopping (default 10)"`
	Seed         *int64   `arg:"--seed" help:"seed for the split, initialization and shuffling (default 7)"`
	Config       string   `arg:"--config" help:"YAML file overlaying the defaults; flags take precedence"`
	OutputDir    string   `arg:"--output_dir" help:"root of models/, model_params/ and plots/ (default .)"`
}

// config resolves defaults, then the config file, then the environment, then flags.
func (a RunArgs) config() (config.Config, error) {
	cfg := config.Default()
	if a.Config != "" {
		var err error
		if cfg, err = config.Load(a.Config, cfg); err != nil {
			return config.Config{}, err
		}
	}
	if err := cfg.ApplyEnv(); err != nil {
		return config.Config{}, err
	}

	if a.Verbose {
		cfg.Verbose = true
	}
	if a.NHid != nil {
		cfg.NHid = *a.NHid
	}
	if a.NLayers != nil {
		cfg.NLayers = *a.NLayers
	}
	if len(a.Vars) > 0 {
		cfg.Vars = a.Vars
	}
	if len(a.Derived) > 0 {
		cfg.Derived = a.Derived
	}
	if a.NJet {
		cfg.NJet = true
	}
	if a.ModelName != "" {
		cfg.ModelName = a.ModelName
	}
	if a.DontSaveJSON {
		cfg.DontSaveJSON = true
	}
	setString(&cfg.Format, a.Format)
	setString(&cfg.Selection, a.Selection)
	setString(&cfg.Signal, a.Signal)
	setString(&cfg.Background, a.Background)
	setString(&cfg.Tree, a.Tree)
	setString(&cfg.OutputDir, a.OutputDir)
	if a.Epochs != nil {
		cfg.Epochs = *a.Epochs
	}
	if a.BatchSize != nil {
		cfg.BatchSize = *a.BatchSize
	}
	if a.Patience != nil {
		cfg.Patience = *a.Patience
	}
	if a.Seed != nil {
		cfg.Seed = *a.Seed
	}
	return cfg, cfg.Validate()
}

func setString(dst *string, flag string) {
	if flag != "" {
		*dst = flag
	}
}
