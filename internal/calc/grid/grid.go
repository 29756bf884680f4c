// Package grid builds the uniform axes used by the models and finds the
// sample nearest to a requested value.
package grid

import (
	"fmt"
	"math"

	"github.com/LucasCostaLobato/auditory-system-api/internal/calcerr"
	"gonum.org/v1/gonum/floats"
)

// Linear returns n evenly spaced values from lo to hi inclusive.
func Linear(lo, hi float64, n int) ([]float64, error) {
	if n < 2 {
		return nil, fmt.Errorf("%w: need at least 2 points, got %d", calcerr.ErrInvalidFrequencyRange, n)
	}
	if math.IsNaN(lo) || math.IsNaN(hi) || math.IsInf(lo, 0) || math.IsInf(hi, 0) {
		return nil, fmt.Errorf("%w: bounds must be finite", calcerr.ErrInvalidFrequencyRange)
	}
	return floats.Span(make([]float64, n), lo, hi), nil
}

// DefaultMaxBins is the largest frequency grid a request may ask for unless
// MaxBins is changed.
const DefaultMaxBins = 4096

// MaxBins bounds the frequency grids built from request parameters. Every
// bin of an ear canal solve holds two 1000-point complex rows, so it caps
// the memory of one request. Set it once at startup, before serving.
var MaxBins = DefaultMaxBins

// Bins is Linear for a frequency grid taken from a request. Grids larger
// than MaxBins are rejected.
func Bins(lo, hi float64, n int) ([]float64, error) {
	if n > MaxBins {
		return nil, fmt.Errorf("%w: %d frequency bins, at most %d allowed", calcerr.ErrInvalidFrequencyRange, n, MaxBins)
	}
	return Linear(lo, hi, n)
}

// Nearest returns the index of the element of v closest to target. Ties go
// to the lower index. v must not be empty.
func Nearest(v []float64, target float64) int {
	best := 0
	bestDist := math.Abs(v[0] - target)
	for i := 1; i < len(v); i++ {
		if d := math.Abs(v[i] - target); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}
