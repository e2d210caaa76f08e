// Package harness times the two gradient strategies against each other.
package harness

import (
	"time"

	"github.com/FlavioCFOliveira/gradnet/internal/dataset"
	"github.com/FlavioCFOliveira/gradnet/internal/net"
	"github.com/pkg/errors"
)

// Timing is the wall-clock cost of both gradient strategies on one sample.
type Timing struct {
	Sample           int
	FiniteDifference time.Duration
	Backpropagation  time.Duration
}

// Measure times FiniteDifference and then Backpropagation on every sample of
// data using n's current parameters. Nothing is trained and each call builds
// its own gradient buffers, so the two timings share only the read-only
// parameters.
func Measure(n *net.Network, data *dataset.Dataset) ([]Timing, error) {
	if data.Len() == 0 {
		return nil, dataset.ErrEmpty
	}

	timings := make([]Timing, 0, data.Len())
	for i, s := range data.Samples {
		start := time.Now()
		if _, err := n.FiniteDifference(s.Input, s.Target); err != nil {
			return nil, errors.Wrapf(err, "sample %d", i)
		}
		fdTime := time.Since(start)

		start = time.Now()
		if _, err := n.Backpropagation(s.Input, s.Target); err != nil {
			return nil, errors.Wrapf(err, "sample %d", i)
		}
		bpTime := time.Since(start)

		timings = append(timings, Timing{Sample: i, FiniteDifference: fdTime, Backpropagation: bpTime})
	}
	return timings, nil
}

// Summary aggregates a set of timings.
type Summary struct {
	Samples          int
	FiniteDifference time.Duration
	Backpropagation  time.Duration
}

// Summarize totals the timings.
func Summarize(timings []Timing) Summary {
	s := Summary{Samples: len(timings)}
	for _, t := range timings {
		s.FiniteDifference += t.FiniteDifference
		s.Backpropagation += t.Backpropagation
	}
	return s
}

// Ratio is how many times slower finite differencing was than backpropagation.
// It is zero when backpropagation took no measurable time.
func (s Summary) Ratio() float64 {
	if s.Backpropagation == 0 {
		return 0
	}
	return float64(s.FiniteDifference) / float64(s.Backpropagation)
}
