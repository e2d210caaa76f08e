// Command gradnet trains feed-forward networks from an experiment file and
// compares backpropagation with finite differencing.
//
// Usage:
//
//	gradnet train -config exp.yaml [-out dir] [-seed n] [-max-iterations n] [-runs n]
//	gradnet measure [-data file] [-layers 4:tanh,4:tanh,1:tanh] [-out file.csv]
//	gradnet check [-data file] [-layers ...] [-step eps] [-tolerance tol]
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/FlavioCFOliveira/gradnet/internal/config"
	"github.com/FlavioCFOliveira/gradnet/internal/dataset"
	"github.com/FlavioCFOliveira/gradnet/internal/experiment"
	"github.com/FlavioCFOliveira/gradnet/internal/harness"
	"github.com/FlavioCFOliveira/gradnet/internal/net"
	"github.com/FlavioCFOliveira/gradnet/internal/report"
	"github.com/pkg/errors"
)

const usage = `usage: gradnet <command> [flags]

commands:
  train    run every experiment in a YAML config
  measure  time finite differencing against backpropagation per sample
  check    compare backpropagation with finite differencing per sample
`

func main() {
	logger := log.New(os.Stderr, "", log.LstdFlags)
	if err := run(os.Args[1:], os.Stdout, logger); err != nil {
		logger.Fatalf("gradnet: %v", err)
	}
}

func run(args []string, stdout io.Writer, logger *log.Logger) error {
	if len(args) == 0 {
		fmt.Fprint(stdout, usage)
		return errors.New("missing command")
	}
	switch args[0] {
	case "train":
		return runTrain(args[1:], stdout, logger)
	case "measure":
		return runMeasure(args[1:], stdout, logger)
	case "check":
		return runCheck(args[1:], stdout, logger)
	case "help", "-h", "-help", "--help":
		fmt.Fprint(stdout, usage)
		return nil
	}
	return errors.Errorf("unknown command %q", args[0])
}

func runTrain(args []string, stdout io.Writer, logger *log.Logger) error {
	fs := flag.NewFlagSet("train", flag.ContinueOnError)
	fs.SetOutput(stdout)
	cfgPath := fs.String("config", "", "Path to YAML config (built-in spiral experiment when empty)")
	data := fs.String("data", "", "Override dataset path or name")
	out := fs.String("out", "", "Override output directory")
	seed := fs.Uint64("seed", 0, "Override PRNG seed")
	maxIter := fs.Int("max-iterations", 0, "Override iteration cap")
	runs := fs.Int("runs", 0, "Override runs per experiment")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := config.Default()
	if *cfgPath != "" {
		var err error
		if cfg, err = config.Load(*cfgPath); err != nil {
			return errors.Wrap(err, "failed to load config")
		}
	}
	cfg.ApplyOverrides(config.Overrides{
		Dataset:       *data,
		OutputDir:     *out,
		Seed:          *seed,
		MaxIterations: *maxIter,
		Runs:          *runs,
	})
	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "invalid config")
	}

	summaries, err := (&experiment.Runner{Config: cfg, Logger: logger}).Run()
	if err != nil {
		return err
	}
	for _, s := range summaries {
		fmt.Fprintf(stdout, "%s\trun=%d\t%s\titerations=%d\tcost=%.6g\telapsed=%s\n",
			s.Name, s.Run, s.Status, s.Iterations, s.FinalCost, s.Elapsed)
	}
	return nil
}

// networkFlags are shared by measure and check.
type networkFlags struct {
	data      *string
	inputSize *int
	layers    *string
	seed      *uint64
	step      *float64
}

func addNetworkFlags(fs *flag.FlagSet) networkFlags {
	return networkFlags{
		data:      fs.String("data", "xor", "Dataset path, \"xor\" or \"spiral\""),
		inputSize: fs.Int("input-size", 2, "Number of input columns in the dataset"),
		layers:    fs.String("layers", "4:tanh,4:tanh,1:tanh", "Layer sizes and activations"),
		seed:      fs.Uint64("seed", net.DefaultSeed, "PRNG seed for the initial parameters"),
		step:      fs.Float64("step", net.DefaultStep, "Finite-difference step"),
	}
}

// build loads the dataset and a freshly initialised network.
func (f networkFlags) build() (*net.Network, *dataset.Dataset, error) {
	layers, err := config.ParseLayers(*f.layers)
	if err != nil {
		return nil, nil, err
	}
	specs, err := config.Experiment{Name: "cli", Layers: layers}.LayerSpecs()
	if err != nil {
		return nil, nil, err
	}
	n, err := net.New(*f.inputSize, specs, net.WithSeed(*f.seed), net.WithStep(*f.step))
	if err != nil {
		return nil, nil, err
	}
	n.InitialiseParameters()

	data, err := experiment.LoadDataset(*f.data, *f.inputSize, *f.seed)
	if err != nil {
		return nil, nil, err
	}
	return n, data, nil
}

func runMeasure(args []string, stdout io.Writer, logger *log.Logger) error {
	fs := flag.NewFlagSet("measure", flag.ContinueOnError)
	fs.SetOutput(stdout)
	nf := addNetworkFlags(fs)
	out := fs.String("out", "computational_cost_comparison.csv", "Output CSV path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	n, data, err := nf.build()
	if err != nil {
		return err
	}
	timings, err := harness.Measure(n, data)
	if err != nil {
		return err
	}

	f, err := os.Create(*out)
	if err != nil {
		return errors.Wrapf(err, "create %s", *out)
	}
	if err := report.WriteTimings(f, timings); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return errors.Wrapf(err, "close %s", *out)
	}

	s := harness.Summarize(timings)
	logger.Printf("measure samples=%d params=%d fd=%s bp=%s ratio=%.1f",
		s.Samples, n.ParamCount(), s.FiniteDifference, s.Backpropagation, s.Ratio())
	fmt.Fprintf(stdout, "wrote %s\n", *out)
	return nil
}

func runCheck(args []string, stdout io.Writer, logger *log.Logger) error {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	fs.SetOutput(stdout)
	nf := addNetworkFlags(fs)
	tolerance := fs.Float64("tolerance", 1e-5, "Largest acceptable relative error")
	if err := fs.Parse(args); err != nil {
		return err
	}

	n, data, err := nf.build()
	if err != nil {
		return err
	}

	worst := 0.0
	for i, s := range data.Samples {
		bp, err := n.Backpropagation(s.Input, s.Target)
		if err != nil {
			return errors.Wrapf(err, "sample %d", i)
		}
		fd, err := n.FiniteDifference(s.Input, s.Target)
		if err != nil {
			return errors.Wrapf(err, "sample %d", i)
		}
		rel, err := bp.MaxRelativeError(fd)
		if err != nil {
			return errors.Wrapf(err, "sample %d", i)
		}
		fmt.Fprintf(stdout, "sample=%d max_relative_error=%.3g\n", i, rel)
		if rel > worst {
			worst = rel
		}
	}
	logger.Printf("check samples=%d params=%d worst=%.3g tolerance=%g", data.Len(), n.ParamCount(), worst, *tolerance)
	if worst > *tolerance {
		return errors.Errorf("gradients disagree: relative error %.3g exceeds %g", worst, *tolerance)
	}
	return nil
}
