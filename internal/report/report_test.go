package report

import (
	"bytes"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/FlavioCFOliveira/gradnet/internal/activations"
	"github.com/FlavioCFOliveira/gradnet/internal/dataset"
	"github.com/FlavioCFOliveira/gradnet/internal/harness"
	"github.com/FlavioCFOliveira/gradnet/internal/net"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func identityNet(t *testing.T, inputs int) *net.Network {
	t.Helper()
	n, err := net.New(inputs, []net.LayerSpec{{Size: 1, Activation: activations.Identity{}}})
	require.NoError(t, err)
	return n
}

func TestWriteCostLog(t *testing.T) {
	entries := []net.CostEntry{{Iteration: 0, Cost: 0.5}, {Iteration: 50, Cost: 0.25}, {Iteration: 100, Cost: 0.125}, {Iteration: 150, Cost: 0.0625}}

	var buf bytes.Buffer
	require.NoError(t, WriteCostLog(&buf, entries, 0))
	assert.Equal(t, "0 0.5\n50 0.25\n100 0.125\n150 0.0625\n", buf.String())

	buf.Reset()
	require.NoError(t, WriteCostLog(&buf, entries, 100))
	assert.Equal(t, "0 0.5\n100 0.125\n", buf.String())

	buf.Reset()
	require.NoError(t, WriteCostLog(&buf, nil, 0))
	assert.Empty(t, buf.String())
}

func TestGridPoints(t *testing.T) {
	points, err := DefaultGrid.Points()
	require.NoError(t, err)
	require.Len(t, points, 101)
	assert.Equal(t, 0.0, points[0])
	assert.InDelta(t, 1.0, points[100], 1e-12)
	assert.InDelta(t, 0.37, points[37], 1e-12)

	points, err = GridSpec{Min: -1, Max: 1, Step: 0.5}.Points()
	require.NoError(t, err)
	assert.Equal(t, []float64{-1, -0.5, 0, 0.5, 1}, points)

	points, err = GridSpec{Min: 2, Max: 2, Step: 1}.Points()
	require.NoError(t, err)
	assert.Equal(t, []float64{2}, points)

	_, err = GridSpec{Min: 0, Max: 1, Step: 0}.Points()
	assert.Error(t, err)
	_, err = GridSpec{Min: 1, Max: 0, Step: 0.1}.Points()
	assert.Error(t, err)
}

func TestWriteGrid(t *testing.T) {
	n := identityNet(t, 2)
	// out = x1 + 2*x2
	require.NoError(t, n.SetParams([]float64{1, 2, 0}))

	var buf bytes.Buffer
	require.NoError(t, WriteGrid(&buf, n, GridSpec{Min: 0, Max: 1, Step: 1}))
	assert.Equal(t, "0 0 0\n0 1 2\n1 0 1\n1 1 3\n", buf.String())
}

func TestWriteGridDefaultSize(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteGrid(&buf, identityNet(t, 2), DefaultGrid))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 101*101)
	assert.Len(t, strings.Fields(lines[0]), 3)
}

func TestWriteGridRejectsOtherInputSizes(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, WriteGrid(&buf, identityNet(t, 3), DefaultGrid))
	assert.Empty(t, buf.String())
}

func TestWriteTimings(t *testing.T) {
	timings := []harness.Timing{
		{Sample: 0, FiniteDifference: 1500 * time.Microsecond, Backpropagation: 20 * time.Microsecond},
		{Sample: 1, FiniteDifference: 900 * time.Nanosecond, Backpropagation: 3 * time.Millisecond},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteTimings(&buf, timings))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		TimingsHeader,
		{"0", "1500", "20"},
		{"1", "0", "3000"},
	}, rows)
}

func TestWriteTimingsFromMeasure(t *testing.T) {
	n := identityNet(t, 2)
	timings, err := harness.Measure(n, dataset.XOR())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteTimings(&buf, timings))
	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Len(t, rows, 5)
}

func TestWriteFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")

	path, err := WriteFile(dir, "cost_log.dat", func(w io.Writer) error {
		return WriteCostLog(w, []net.CostEntry{{Iteration: 0, Cost: 1}}, 0)
	})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "cost_log.dat"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "0 1\n", string(data))
}

func TestCostLogWriter(t *testing.T) {
	var buf bytes.Buffer
	w := &CostLogWriter{W: &buf, Every: 100}
	n := identityNet(t, 2)
	_, err := n.Train(dataset.XOR(), net.TrainConfig{
		LearningRate:  0.01,
		TargetCost:    -1,
		MaxIterations: 200,
		Callbacks:     []net.Callback{w},
	})
	require.NoError(t, err)
	require.NoError(t, w.Err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "0 "))
	assert.True(t, strings.HasPrefix(lines[1], "100 "))
	assert.True(t, strings.HasPrefix(lines[2], "200 "))
}
