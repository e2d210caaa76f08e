package net

import "log"

// Callback observes a training run.
type Callback interface {
	OnTrainBegin(n *Network)
	OnCostLogged(iteration int, cost float64, n *Network)
	OnTrainEnd(n *Network, res *TrainResult)
}

// BaseCallback provides default empty implementations for Callback.
type BaseCallback struct{}

func (c BaseCallback) OnTrainBegin(n *Network)                              {}
func (c BaseCallback) OnCostLogged(iteration int, cost float64, n *Network) {}
func (c BaseCallback) OnTrainEnd(n *Network, res *TrainResult)              {}

// Logger logs training progress. Every filters logged iterations further;
// zero logs every entry. A nil Out disables the callback.
type Logger struct {
	BaseCallback
	Out   *log.Logger
	Label string
	Every int
}

func (c Logger) prefix() string {
	if c.Label == "" {
		return ""
	}
	return "[" + c.Label + "] "
}

func (c Logger) OnTrainBegin(n *Network) {
	if c.Out == nil {
		return
	}
	c.Out.Printf("%straining architecture=%v params=%d", c.prefix(), n.Architecture(), n.ParamCount())
}

func (c Logger) OnCostLogged(iteration int, cost float64, n *Network) {
	if c.Out == nil || (c.Every > 0 && iteration%c.Every != 0) {
		return
	}
	c.Out.Printf("%siteration=%d cost=%.6g", c.prefix(), iteration, cost)
}

func (c Logger) OnTrainEnd(n *Network, res *TrainResult) {
	if c.Out == nil {
		return
	}
	c.Out.Printf("%straining %s after %d iterations cost=%.6g elapsed=%s",
		c.prefix(), res.Status, res.Iterations, res.FinalCost, res.Elapsed)
}
