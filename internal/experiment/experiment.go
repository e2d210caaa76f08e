// Package experiment runs every experiment of a config file and writes
// its cost log and decision-surface grid.
package experiment

import (
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/FlavioCFOliveira/gradnet/internal/config"
	"github.com/FlavioCFOliveira/gradnet/internal/dataset"
	"github.com/FlavioCFOliveira/gradnet/internal/net"
	"github.com/FlavioCFOliveira/gradnet/internal/report"
	"github.com/pkg/errors"
)

// Generated dataset shape used for the "spiral" dataset name.
const (
	SpiralPerArm = 100
	SpiralTurns  = 1.5
)

// Summary describes one finished training run.
type Summary struct {
	Name       string
	Run        int
	Status     net.Status
	Iterations int
	FinalCost  float64
	Elapsed    time.Duration
	CostLog    string
	Grid       string
}

// Runner trains every experiment in Config, Runs times each.
type Runner struct {
	Config *config.Config
	// Logger receives progress lines; nil discards them.
	Logger *log.Logger
}

// LoadDataset resolves a dataset name: "xor" and "spiral" are generated,
// anything else is read as a whitespace-separated file.
func LoadDataset(name string, inputSize int, seed uint64) (*dataset.Dataset, error) {
	switch strings.ToLower(name) {
	case "xor":
		return dataset.XOR(), nil
	case "spiral":
		return dataset.Spiral(SpiralPerArm, SpiralTurns, 0, seed), nil
	}
	return dataset.Load(name, inputSize)
}

// Run loads the dataset once and trains each experiment in order.
// It stops at the first failing run and returns the summaries so far.
func (r *Runner) Run() ([]Summary, error) {
	cfg := r.Config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger := r.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	data, err := LoadDataset(cfg.Dataset, cfg.InputSize, cfg.Seed)
	if err != nil {
		return nil, err
	}
	logger.Printf("dataset=%s samples=%d", cfg.Dataset, data.Len())

	var summaries []Summary
	for _, e := range cfg.Experiments {
		for run := 0; run < cfg.Runs; run++ {
			s, err := r.runOne(e, run, data, logger)
			if err != nil {
				return summaries, errors.Wrapf(err, "experiment %s run %d", e.Name, run)
			}
			summaries = append(summaries, s)
		}
	}
	return summaries, nil
}

func (r *Runner) runOne(e config.Experiment, run int, data *dataset.Dataset, logger *log.Logger) (Summary, error) {
	cfg := r.Config
	specs, err := e.LayerSpecs()
	if err != nil {
		return Summary{}, err
	}
	n, err := net.New(cfg.InputSize, specs, net.WithSeed(cfg.Seed+uint64(run)))
	if err != nil {
		return Summary{}, err
	}

	suffix := e.Name
	label := e.Name
	if cfg.Runs > 1 {
		suffix = fmt.Sprintf("%s_run%d", e.Name, run)
		label = fmt.Sprintf("%s#%d", e.Name, run)
	}

	f, err := report.CreateFile(cfg.OutputDir, "cost_log_"+suffix+".dat")
	if err != nil {
		return Summary{}, err
	}
	costLog := &report.CostLogWriter{W: f, Every: cfg.CostLogEvery}

	tc := cfg.TrainConfig(e)
	tc.Callbacks = []net.Callback{
		net.Logger{Out: logger, Label: label, Every: cfg.CostLogEvery},
		costLog,
	}
	res, err := n.Train(data, tc)
	if cerr := f.Close(); err == nil && cerr != nil {
		err = errors.Wrapf(cerr, "close %s", f.Name())
	}
	if err == nil {
		err = costLog.Err
	}
	if err != nil {
		return Summary{}, err
	}

	s := Summary{
		Name:       e.Name,
		Run:        run,
		Status:     res.Status,
		Iterations: res.Iterations,
		FinalCost:  res.FinalCost,
		Elapsed:    res.Elapsed,
		CostLog:    f.Name(),
	}

	if n.InputSize() != 2 {
		logger.Printf("[%s] skipping grid output for %d-input network", label, n.InputSize())
		return s, nil
	}
	grid := report.GridSpec{Min: cfg.Grid.Min, Max: cfg.Grid.Max, Step: cfg.Grid.Step}
	s.Grid, err = report.WriteFile(cfg.OutputDir, "grid_output_"+suffix+".dat", func(w io.Writer) error {
		return report.WriteGrid(w, n, grid)
	})
	if err != nil {
		return Summary{}, err
	}
	return s, nil
}
