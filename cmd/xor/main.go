package main

import (
	"fmt"
	"log"
	"os"

	"github.com/FlavioCFOliveira/gradnet/gradnet"
)

func main() {
	fmt.Println("=== XOR Training Example ===")

	// 2 inputs -> 4 hidden -> 4 hidden -> 1 output, tanh throughout
	network, err := gradnet.New(2, []gradnet.LayerSpec{
		gradnet.Layer(4, gradnet.Tanh),
		gradnet.Layer(4, gradnet.Tanh),
		gradnet.Layer(1, gradnet.Tanh),
	}, gradnet.WithSeed(42))
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Network architecture: %v (%d parameters)\n", network.Architecture(), network.ParamCount())

	data := gradnet.XOR()
	res, err := network.Train(data, gradnet.TrainConfig{
		LearningRate:  0.1,
		TargetCost:    1e-4,
		MaxIterations: 100000,
		Callbacks: []gradnet.Callback{
			gradnet.Logger{Out: log.New(os.Stdout, "", 0), Every: 1000},
		},
	})
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println("\nTesting trained network:")
	for _, s := range data.Samples {
		pred, err := network.FeedForward(s.Input)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("Input: %v, Predicted: %.4f, Target: %v\n", s.Input, pred[0], s.Target[0])
	}

	// Compare the analytic gradient with the numeric one at the trained point
	fmt.Println("\nGradient check:")
	for i, s := range data.Samples {
		bp, err := network.Backpropagation(s.Input, s.Target)
		if err != nil {
			log.Fatal(err)
		}
		fd, err := network.FiniteDifference(s.Input, s.Target)
		if err != nil {
			log.Fatal(err)
		}
		rel, err := bp.MaxRelativeError(fd)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("Sample %d: max relative error %.3g\n", i, rel)
	}

	if res.Status != gradnet.Converged {
		fmt.Printf("\nFAILURE: training %s after %d iterations\n", res.Status, res.Iterations)
		os.Exit(1)
	}
	fmt.Printf("\nSUCCESS: converged after %d iterations in %s\n", res.Iterations, res.Elapsed)
}
