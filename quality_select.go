package lumen

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gekko3d/lumen/shade/rt/lighting"
)

var ErrUnknownQuality = errors.New("unknown quality")

// SelectQuality maps a tier name to a lighting quality. An empty name selects
// the fast tier.
func SelectQuality(log Logger, name string) (lighting.Quality, error) {
	var q lighting.Quality
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "fast":
		q = lighting.QualityFast
	case "precise":
		q = lighting.QualityPrecise
	default:
		return lighting.QualityFast, fmt.Errorf("%q: %w", name, ErrUnknownQuality)
	}
	orNop(log).Infof("Lighting quality selected: %s", q)
	return q, nil
}
