package config

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ParseLayers reads a compact layer list such as "4:tanh,4:tanh,1:tanh".
// A layer without an activation defaults to tanh.
func ParseLayers(s string) ([]Layer, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, errors.New("empty layer list")
	}
	var layers []Layer
	for i, part := range strings.Split(s, ",") {
		size, act, found := strings.Cut(strings.TrimSpace(part), ":")
		n, err := strconv.Atoi(strings.TrimSpace(size))
		if err != nil {
			return nil, errors.Wrapf(err, "layer %d: size", i)
		}
		if n <= 0 {
			return nil, errors.Errorf("layer %d: size must be > 0 (got %d)", i, n)
		}
		if !found || strings.TrimSpace(act) == "" {
			act = "tanh"
		}
		layers = append(layers, Layer{Size: n, Activation: strings.TrimSpace(act)})
	}
	return layers, nil
}
