package outerear

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/LucasCostaLobato/auditory-system-api/internal/calc/grid"
	"github.com/LucasCostaLobato/auditory-system-api/internal/calcerr"
)

// PRef is the reference pressure for sound pressure levels, in Pa.
const PRef = 20e-6

// NearestFrequency is the index of the bin closest to hz.
func (f *Field) NearestFrequency(hz float64) int { return grid.Nearest(f.Freq, hz) }

// NearestPosition is the index of the grid point closest to xM metres.
func (f *Field) NearestPosition(xM float64) int { return grid.Nearest(f.X, xM) }

// SpatialSlice returns Re p(x) at the bin nearest to hz.
func (f *Field) SpatialSlice(hz float64) []float64 {
	p := f.Pressure[f.NearestFrequency(hz)]
	out := make([]float64, len(p))
	for i, v := range p {
		out[i] = real(v)
	}
	return out
}

// FrequencySlice returns |p| over frequency at the grid point nearest to
// positionMM, or its level in dB re PRef.
func (f *Field) FrequencySlice(positionMM float64, level bool) ([]float64, error) {
	ix := f.NearestPosition(positionMM / 1000)
	out := make([]float64, len(f.Freq))
	for b := range f.Freq {
		out[b] = cmplx.Abs(f.Pressure[b][ix])
		if level {
			out[b] = 20 * math.Log10(out[b]/PRef)
		}
	}
	if err := finite(out, "pressure at %g mm", positionMM); err != nil {
		return nil, err
	}
	return out, nil
}

// Transfer returns |p(output)/p(input)| over frequency. The level form is
// 20 log10 of that ratio, relative to the input pressure rather than to
// PRef, so 0 dB means no gain.
func (f *Field) Transfer(inputMM, outputMM float64, level bool) ([]float64, error) {
	h := f.ratio(inputMM, outputMM)
	if level {
		for i, v := range h {
			h[i] = 20 * math.Log10(v)
		}
	}
	if err := finite(h, "transfer %g mm -> %g mm", inputMM, outputMM); err != nil {
		return nil, err
	}
	return h, nil
}

// WeightedTransfer multiplies a source magnitude spectrum, aligned with the
// field frequencies, into the transfer function. The product is a pressure
// spectrum, so its level form is in dB re PRef: a unit source over a unit
// ratio reads 20 log10(1/PRef), about 94 dB, where Transfer reads 0 dB.
func (f *Field) WeightedTransfer(inputMM, outputMM float64, source []float64, level bool) ([]float64, error) {
	if len(source) != len(f.Freq) {
		return nil, fmt.Errorf("%w: source has %d values, field has %d frequencies",
			calcerr.ErrInvalidFrequencyRange, len(source), len(f.Freq))
	}
	h := f.ratio(inputMM, outputMM)
	for i := range h {
		h[i] = math.Abs(source[i]) * h[i]
		if level {
			h[i] = 20 * math.Log10(h[i]/PRef)
		}
	}
	if err := finite(h, "weighted transfer %g mm -> %g mm", inputMM, outputMM); err != nil {
		return nil, err
	}
	return h, nil
}

func (f *Field) ratio(inputMM, outputMM float64) []float64 {
	in := f.NearestPosition(inputMM / 1000)
	out := f.NearestPosition(outputMM / 1000)
	h := make([]float64, len(f.Freq))
	for b := range f.Freq {
		h[b] = cmplx.Abs(f.Pressure[b][out] / f.Pressure[b][in])
	}
	return h
}

func finite(v []float64, format string, args ...any) error {
	for i, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return fmt.Errorf("%w: %s not finite at bin %d", calcerr.ErrDegenerateBoundaryCondition,
				fmt.Sprintf(format, args...), i)
		}
	}
	return nil
}
