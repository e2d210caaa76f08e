package net

import (
	"math"
	"time"

	"github.com/FlavioCFOliveira/gradnet/internal/dataset"
	"github.com/FlavioCFOliveira/gradnet/internal/opt"
	"github.com/pkg/errors"
)

// DefaultLogInterval is the iteration stride at which Train measures and
// records the dataset cost.
const DefaultLogInterval = 50

// Status is how a training run ended.
type Status int

const (
	// Exhausted means MaxIterations was reached above the target cost.
	Exhausted Status = iota
	// Converged means the measured cost reached the target cost.
	Converged
	// Diverged means the measured cost became NaN or infinite.
	Diverged
)

func (s Status) String() string {
	switch s {
	case Converged:
		return "converged"
	case Diverged:
		return "diverged"
	default:
		return "exhausted"
	}
}

// CostEntry is one cost log sample: the mean dataset cost after Iteration sweeps.
type CostEntry struct {
	Iteration int
	Cost      float64
}

// TrainConfig holds the hyperparameters of a training run.
type TrainConfig struct {
	LearningRate  float64
	TargetCost    float64
	MaxIterations int
	// Lambda is added as Lambda*w to every weight gradient.
	Lambda float64
	// LogInterval defaults to DefaultLogInterval.
	LogInterval int
	Callbacks   []Callback
}

// TrainResult describes a finished training run.
type TrainResult struct {
	CostLog    []CostEntry
	Iterations int
	Status     Status
	// FinalCost is the dataset cost measured after the last iteration.
	FinalCost float64
	Elapsed   time.Duration
}

func (c *TrainConfig) validate() error {
	if c.LearningRate <= 0 {
		return errors.Errorf("learning rate must be > 0 (got %g)", c.LearningRate)
	}
	if c.MaxIterations < 0 {
		return errors.Errorf("max iterations must be >= 0 (got %d)", c.MaxIterations)
	}
	if c.Lambda < 0 {
		return errors.Errorf("lambda must be >= 0 (got %g)", c.Lambda)
	}
	if c.LogInterval <= 0 {
		c.LogInterval = DefaultLogInterval
	}
	return nil
}

// Train reinitialises every parameter and then runs gradient descent over
// data until the measured cost is at most TargetCost, MaxIterations sweeps
// have run, or the cost stops being finite.
//
// Each iteration is one pass over the samples in order. Parameters are
// updated after every sample, not once per pass:
//
//	w -= lr * (∂C/∂w + λw)
//	b -= lr * ∂C/∂b
//
// The dataset cost is measured before the first iteration and after every
// LogInterval-th one, and only those measurements decide convergence. The
// cost log therefore holds ⌊iterations/LogInterval⌋+1 entries.
func (n *Network) Train(data *dataset.Dataset, cfg TrainConfig) (*TrainResult, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if data.Len() == 0 {
		return nil, dataset.ErrEmpty
	}
	for i, s := range data.Samples {
		if err := n.checkSample(s.Input, s.Target); err != nil {
			return nil, errors.Wrapf(err, "sample %d", i)
		}
	}

	start := time.Now()
	n.InitialiseParameters()
	for _, cb := range cfg.Callbacks {
		cb.OnTrainBegin(n)
	}

	res := &TrainResult{}
	current, err := n.record(res, data, 0, cfg.Callbacks)
	if err != nil {
		return nil, err
	}

	sgd := opt.SGD{LearningRate: cfg.LearningRate, Lambda: cfg.Lambda}
	iteration := 0
	for finite(current) && current > cfg.TargetCost && iteration < cfg.MaxIterations {
		for i, s := range data.Samples {
			g, err := n.Backpropagation(s.Input, s.Target)
			if err != nil {
				return nil, errors.Wrapf(err, "iteration %d, sample %d", iteration, i)
			}
			for l, ly := range n.layers {
				sgd.StepWeights(ly.Weights(), g.Weights[l])
				sgd.StepBiases(ly.Biases(), g.Biases[l])
			}
		}
		iteration++

		if iteration%cfg.LogInterval == 0 {
			if current, err = n.record(res, data, iteration, cfg.Callbacks); err != nil {
				return nil, err
			}
		}
	}

	res.Iterations = iteration
	switch {
	case !finite(current):
		res.Status = Diverged
	case current <= cfg.TargetCost:
		res.Status = Converged
	default:
		res.Status = Exhausted
	}
	if res.FinalCost, err = n.CostForTrainingData(data); err != nil {
		return nil, err
	}
	res.Elapsed = time.Since(start)

	for _, cb := range cfg.Callbacks {
		cb.OnTrainEnd(n, res)
	}
	return res, nil
}

// record measures the dataset cost and appends it to the log.
func (n *Network) record(res *TrainResult, data *dataset.Dataset, iteration int, callbacks []Callback) (float64, error) {
	cost, err := n.CostForTrainingData(data)
	if err != nil {
		return 0, err
	}
	res.CostLog = append(res.CostLog, CostEntry{Iteration: iteration, Cost: cost})
	for _, cb := range callbacks {
		cb.OnCostLogged(iteration, cost, n)
	}
	return cost, nil
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
