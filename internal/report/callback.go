package report

import (
	"io"

	"github.com/FlavioCFOliveira/gradnet/internal/net"
)

// CostLogWriter streams cost log entries to W while training runs.
// Write errors are kept in Err and stop further output.
type CostLogWriter struct {
	net.BaseCallback
	W     io.Writer
	Every int
	Err   error
}

// OnCostLogged writes the entry when its iteration passes the Every filter.
func (c *CostLogWriter) OnCostLogged(iteration int, cost float64, n *net.Network) {
	if c.Err != nil {
		return
	}
	c.Err = WriteCostLog(c.W, []net.CostEntry{{Iteration: iteration, Cost: cost}}, c.Every)
}
