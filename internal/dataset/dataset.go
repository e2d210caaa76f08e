// Package dataset holds labelled training samples and the readers that produce them.
package dataset

import (
	"bufio"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/exp/rand"
)

// ErrEmpty is returned when an operation needs at least one sample.
var ErrEmpty = errors.New("dataset is empty")

// Sample is one (input, target) training pair.
type Sample struct {
	Input  []float64
	Target []float64
}

// Dataset is an ordered collection of samples. The order is the training order.
type Dataset struct {
	Samples []Sample
}

// New pairs inputs with targets.
func New(inputs, targets [][]float64) (*Dataset, error) {
	if len(inputs) != len(targets) {
		return nil, errors.Errorf("%d inputs but %d targets", len(inputs), len(targets))
	}
	d := &Dataset{Samples: make([]Sample, 0, len(inputs))}
	for i := range inputs {
		d.Append(inputs[i], targets[i])
	}
	return d, nil
}

// Append adds a sample at the end of the dataset.
func (d *Dataset) Append(input, target []float64) {
	d.Samples = append(d.Samples, Sample{Input: input, Target: target})
}

// Len returns the number of samples.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Samples)
}

// Shape returns the input and target widths shared by every sample.
func (d *Dataset) Shape() (in, out int, err error) {
	if d.Len() == 0 {
		return 0, 0, ErrEmpty
	}
	in, out = len(d.Samples[0].Input), len(d.Samples[0].Target)
	for i, s := range d.Samples {
		if len(s.Input) != in || len(s.Target) != out {
			return 0, 0, errors.Errorf("sample %d has shape %d->%d, want %d->%d", i, len(s.Input), len(s.Target), in, out)
		}
	}
	return in, out, nil
}

// Load reads a whitespace-separated sample file. See Read.
func Load(path string, inputSize int) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open dataset %s", path)
	}
	defer f.Close()

	d, err := Read(f, inputSize)
	if err != nil {
		return nil, errors.Wrapf(err, "read dataset %s", path)
	}
	return d, nil
}

// Read parses rows of whitespace-separated numbers. The first inputSize
// columns are the input and the remaining columns the target, so the classic
// "x1 x2 label" file is read with inputSize 2. Blank lines and lines starting
// with '#' are skipped. Every row must have the same number of columns.
func Read(r io.Reader, inputSize int) (*Dataset, error) {
	if inputSize <= 0 {
		return nil, errors.Errorf("input size must be > 0 (got %d)", inputSize)
	}

	d := &Dataset{}
	cols := 0
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if cols == 0 {
			if len(fields) <= inputSize {
				return nil, errors.Errorf("line %d: %d columns leaves no target for input size %d", lineNo, len(fields), inputSize)
			}
			cols = len(fields)
		}
		if len(fields) != cols {
			return nil, errors.Errorf("line %d: expected %d columns, got %d", lineNo, cols, len(fields))
		}

		values := make([]float64, cols)
		for j, field := range fields {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, errors.Wrapf(err, "line %d, column %d", lineNo, j+1)
			}
			values[j] = v
		}
		d.Append(values[:inputSize:inputSize], values[inputSize:])
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if d.Len() == 0 {
		return nil, ErrEmpty
	}
	return d, nil
}

// XOR returns the four-point exclusive-or problem with targets 0 and 1.
func XOR() *Dataset {
	d, _ := New(
		[][]float64{{0, 0}, {0, 1}, {1, 0}, {1, 1}},
		[][]float64{{0}, {1}, {1}, {0}},
	)
	return d
}

// Spiral returns two interleaved spiral arms inside the unit square, perArm
// samples each, labelled +1 and -1. Arms alternate so that neither class is
// trained as a contiguous block. noise is the standard deviation of the
// Gaussian jitter added to each coordinate.
func Spiral(perArm int, turns, noise float64, seed uint64) *Dataset {
	rng := rand.New(rand.NewSource(seed))
	d := &Dataset{Samples: make([]Sample, 0, 2*perArm)}
	for i := 0; i < perArm; i++ {
		t := float64(i+1) / float64(perArm)
		radius := 0.45 * t
		for arm := 0; arm < 2; arm++ {
			angle := 2*math.Pi*turns*t + float64(arm)*math.Pi
			x := 0.5 + radius*math.Cos(angle) + noise*rng.NormFloat64()
			y := 0.5 + radius*math.Sin(angle) + noise*rng.NormFloat64()
			label := 1.0
			if arm == 1 {
				label = -1
			}
			d.Append([]float64{x, y}, []float64{label})
		}
	}
	return d
}
