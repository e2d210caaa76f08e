// Package config loads experiment files for the gradnet driver.
package config

import (
	"bytes"
	"io"
	"os"
	"regexp"

	"github.com/FlavioCFOliveira/gradnet/internal/activations"
	"github.com/FlavioCFOliveira/gradnet/internal/net"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config captures the knobs shared by every experiment in a file.
type Config struct {
	Seed          uint64       `yaml:"seed"`
	Dataset       string       `yaml:"dataset"`
	InputSize     int          `yaml:"input_size"`
	LearningRate  float64      `yaml:"learning_rate"`
	TargetCost    float64      `yaml:"target_cost"`
	MaxIterations int          `yaml:"max_iterations"`
	Lambda        float64      `yaml:"lambda"`
	LogInterval   int          `yaml:"log_interval"`
	CostLogEvery  int          `yaml:"cost_log_every"`
	Runs          int          `yaml:"runs"`
	OutputDir     string       `yaml:"output_dir"`
	Grid          Grid         `yaml:"grid"`
	Experiments   []Experiment `yaml:"experiments"`
}

// Grid is the decision-surface sweep written after each run.
type Grid struct {
	Min  float64 `yaml:"min"`
	Max  float64 `yaml:"max"`
	Step float64 `yaml:"step"`
}

// Experiment is one architecture to train.
type Experiment struct {
	Name   string  `yaml:"name"`
	Layers []Layer `yaml:"layers"`
	// LearningRate overrides Config.LearningRate when non-zero.
	LearningRate float64 `yaml:"learning_rate,omitempty"`
}

// Layer is one dense layer: output size and activation name.
type Layer struct {
	Size       int    `yaml:"size"`
	Activation string `yaml:"activation"`
}

// Overrides captures CLI supplied values.
type Overrides struct {
	Dataset       string
	OutputDir     string
	Seed          uint64
	MaxIterations int
	Runs          int
}

var namePattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// Default returns the spiral experiment with a 2-4-4-1 tanh network.
func Default() *Config {
	return &Config{
		Seed:          net.DefaultSeed,
		Dataset:       "spiral",
		InputSize:     2,
		LearningRate:  0.01,
		TargetCost:    1e-3,
		MaxIterations: 4000000,
		LogInterval:   net.DefaultLogInterval,
		CostLogEvery:  10000,
		Runs:          1,
		OutputDir:     ".",
		Grid:          Grid{Min: 0, Max: 1, Step: 0.01},
		Experiments: []Experiment{{
			Name: "2_4_4_1",
			Layers: []Layer{
				{Size: 4, Activation: "tanh"},
				{Size: 4, Activation: "tanh"},
				{Size: 1, Activation: "tanh"},
			},
		}},
	}
}

// Load reads and validates a Config from YAML.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open config")
	}
	defer f.Close()

	cfg, err := Parse(f)
	if err != nil {
		return nil, errors.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

// Parse decodes YAML on top of Default and validates the result.
// Keys that match no field are rejected.
func Parse(r io.Reader) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}

	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	// Experiments from the file replace the default list rather than merge.
	cfg.Experiments = nil
	if err := dec.Decode(cfg); err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "parse config")
	}
	if cfg.Experiments == nil {
		cfg.Experiments = Default().Experiments
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyOverrides updates c using any non-zero override.
func (c *Config) ApplyOverrides(o Overrides) {
	if o.Dataset != "" {
		c.Dataset = o.Dataset
	}
	if o.OutputDir != "" {
		c.OutputDir = o.OutputDir
	}
	if o.Seed != 0 {
		c.Seed = o.Seed
	}
	if o.MaxIterations > 0 {
		c.MaxIterations = o.MaxIterations
	}
	if o.Runs > 0 {
		c.Runs = o.Runs
	}
}

// Validate verifies the config is runnable.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if c.Dataset == "" {
		return errors.New("dataset must be set")
	}
	if c.InputSize <= 0 {
		return errors.Errorf("input_size must be > 0 (got %d)", c.InputSize)
	}
	if c.LearningRate <= 0 {
		return errors.Errorf("learning_rate must be > 0 (got %g)", c.LearningRate)
	}
	if c.MaxIterations < 0 {
		return errors.Errorf("max_iterations must be >= 0 (got %d)", c.MaxIterations)
	}
	if c.Lambda < 0 {
		return errors.Errorf("lambda must be >= 0 (got %g)", c.Lambda)
	}
	if c.LogInterval <= 0 {
		c.LogInterval = net.DefaultLogInterval
	}
	if c.CostLogEvery <= 0 {
		c.CostLogEvery = c.LogInterval
	}
	if c.CostLogEvery%c.LogInterval != 0 {
		return errors.Errorf("cost_log_every (%d) must be a multiple of log_interval (%d)", c.CostLogEvery, c.LogInterval)
	}
	if c.Runs <= 0 {
		c.Runs = 1
	}
	if c.Grid.Step <= 0 {
		return errors.Errorf("grid.step must be > 0 (got %g)", c.Grid.Step)
	}
	if c.Grid.Max < c.Grid.Min {
		return errors.Errorf("grid.max (%g) must be >= grid.min (%g)", c.Grid.Max, c.Grid.Min)
	}
	if len(c.Experiments) == 0 {
		return errors.New("at least one experiment must be defined")
	}

	seen := make(map[string]bool, len(c.Experiments))
	for i, e := range c.Experiments {
		if !namePattern.MatchString(e.Name) {
			return errors.Errorf("experiment %d: name %q must be non-empty and file-name safe", i, e.Name)
		}
		if seen[e.Name] {
			return errors.Errorf("experiment %d: duplicate name %q", i, e.Name)
		}
		seen[e.Name] = true
		if e.LearningRate < 0 {
			return errors.Errorf("experiment %s: learning_rate must be >= 0 (got %g)", e.Name, e.LearningRate)
		}
		if _, err := e.LayerSpecs(); err != nil {
			return errors.Wrapf(err, "experiment %s", e.Name)
		}
	}
	return nil
}

// LayerSpecs converts the layer list to network layer specs.
func (e Experiment) LayerSpecs() ([]net.LayerSpec, error) {
	if len(e.Layers) == 0 {
		return nil, errors.New("at least one layer is required")
	}
	specs := make([]net.LayerSpec, len(e.Layers))
	for i, l := range e.Layers {
		if l.Size <= 0 {
			return nil, errors.Errorf("layer %d: size must be > 0 (got %d)", i, l.Size)
		}
		act, err := activations.Parse(l.Activation)
		if err != nil {
			return nil, errors.Wrapf(err, "layer %d", i)
		}
		specs[i] = net.LayerSpec{Size: l.Size, Activation: act}
	}
	return specs, nil
}

// Rate returns the experiment's learning rate, falling back to base.
func (e Experiment) Rate(base float64) float64 {
	if e.LearningRate > 0 {
		return e.LearningRate
	}
	return base
}

// TrainConfig builds the training hyperparameters for e.
func (c *Config) TrainConfig(e Experiment) net.TrainConfig {
	return net.TrainConfig{
		LearningRate:  e.Rate(c.LearningRate),
		TargetCost:    c.TargetCost,
		MaxIterations: c.MaxIterations,
		Lambda:        c.Lambda,
		LogInterval:   c.LogInterval,
	}
}
