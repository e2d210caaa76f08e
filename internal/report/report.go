// Package report writes the plain-text artefacts of a run: the cost log,
// the decision-surface grid and the gradient timing table.
package report

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/FlavioCFOliveira/gradnet/internal/harness"
	"github.com/FlavioCFOliveira/gradnet/internal/net"
	"github.com/pkg/errors"
)

// TimingsHeader is the first row of the timing table.
var TimingsHeader = []string{"SampleIndex", "FiniteDifferencingTime", "BackpropagationTime"}

// WriteCostLog writes one "iteration cost" line per entry whose iteration is
// a multiple of every. every <= 1 writes all entries.
func WriteCostLog(w io.Writer, log []net.CostEntry, every int) error {
	bw := bufio.NewWriter(w)
	for _, e := range log {
		if every > 1 && e.Iteration%every != 0 {
			continue
		}
		if _, err := fmt.Fprintf(bw, "%d %g\n", e.Iteration, e.Cost); err != nil {
			return errors.Wrap(err, "write cost log")
		}
	}
	return errors.Wrap(bw.Flush(), "write cost log")
}

// GridSpec is an inclusive sweep over both inputs of a two-input network.
type GridSpec struct {
	Min  float64
	Max  float64
	Step float64
}

// DefaultGrid covers the unit square at 0.01 resolution.
var DefaultGrid = GridSpec{Min: 0, Max: 1, Step: 0.01}

// Points returns the sweep coordinates Min, Min+Step, ... up to Max.
// Coordinates are computed from an integer index so rounding cannot drop
// the last point.
func (g GridSpec) Points() ([]float64, error) {
	if g.Step <= 0 {
		return nil, errors.Errorf("grid step must be > 0 (got %g)", g.Step)
	}
	if g.Max < g.Min {
		return nil, errors.Errorf("grid max %g is below min %g", g.Max, g.Min)
	}
	count := int((g.Max-g.Min)/g.Step+1e-9) + 1
	points := make([]float64, count)
	for i := range points {
		points[i] = g.Min + float64(i)*g.Step
	}
	return points, nil
}

// WriteGrid evaluates n at every (x1, x2) of the grid and writes
// "x1 x2 out..." lines, x2 varying fastest.
func WriteGrid(w io.Writer, n *net.Network, g GridSpec) error {
	if n.InputSize() != 2 {
		return errors.Errorf("grid output needs a 2-input network (got %d inputs)", n.InputSize())
	}
	points, err := g.Points()
	if err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	var line strings.Builder
	for _, x1 := range points {
		for _, x2 := range points {
			out, err := n.FeedForward([]float64{x1, x2})
			if err != nil {
				return err
			}
			line.Reset()
			line.WriteString(strconv.FormatFloat(x1, 'g', -1, 64))
			line.WriteByte(' ')
			line.WriteString(strconv.FormatFloat(x2, 'g', -1, 64))
			for _, v := range out {
				line.WriteByte(' ')
				line.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
			}
			line.WriteByte('\n')
			if _, err := bw.WriteString(line.String()); err != nil {
				return errors.Wrap(err, "write grid")
			}
		}
	}
	return errors.Wrap(bw.Flush(), "write grid")
}

// WriteTimings writes the timing table as CSV with durations in microseconds.
func WriteTimings(w io.Writer, timings []harness.Timing) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(TimingsHeader); err != nil {
		return errors.Wrap(err, "write timings")
	}
	for _, t := range timings {
		row := []string{
			strconv.Itoa(t.Sample),
			strconv.FormatInt(t.FiniteDifference.Microseconds(), 10),
			strconv.FormatInt(t.Backpropagation.Microseconds(), 10),
		}
		if err := cw.Write(row); err != nil {
			return errors.Wrap(err, "write timings")
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "write timings")
}

// CreateFile creates dir if needed and truncates dir/name for writing.
func CreateFile(dir, name string) (*os.File, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "create %s", dir)
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		return nil, errors.Wrapf(err, "create %s", path)
	}
	return f, nil
}

// WriteFile creates dir/name and fills it with write.
func WriteFile(dir, name string, write func(io.Writer) error) (string, error) {
	f, err := CreateFile(dir, name)
	if err != nil {
		return "", err
	}
	if err := write(f); err != nil {
		f.Close()
		return "", errors.Wrapf(err, "write %s", f.Name())
	}
	if err := f.Close(); err != nil {
		return "", errors.Wrapf(err, "close %s", f.Name())
	}
	return f.Name(), nil
}
