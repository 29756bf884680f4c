// Package inputsignal generates the magnitude spectra of the stimuli that
// can be applied to the ear canal transfer function.
package inputsignal

import (
	"fmt"
	"math/bits"

	algofft "github.com/cwbudde/algo-fft"
	"github.com/cwbudde/algo-dsp/dsp/filter/biquad"
	"github.com/cwbudde/algo-dsp/dsp/filter/design"
	"github.com/cwbudde/algo-dsp/dsp/spectrum"
	"github.com/cwbudde/algo-dsp/measure/sweep"
	"gonum.org/v1/gonum/floats"

	"github.com/LucasCostaLobato/auditory-system-api/internal/calc/grid"
	"github.com/LucasCostaLobato/auditory-system-api/internal/calcerr"
)

type Kind int

const (
	IdealWhiteNoise Kind = iota
	Speech
	Clarinet
	NarrowBandLowFreq
	NarrowBandMidFreq
	NarrowBandHighFreq
)

var kindNames = [...]string{
	IdealWhiteNoise:    "idealWhiteNoise",
	Speech:             "speech",
	Clarinet:           "clarinet",
	NarrowBandLowFreq:  "narrowBandSignalLowFreq",
	NarrowBandMidFreq:  "narrowBandSignalMidFreq",
	NarrowBandHighFreq: "narrowBandSignalHighFreq",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Kinds lists every signal kind.
func Kinds() []Kind {
	out := make([]Kind, len(kindNames))
	for i := range out {
		out[i] = Kind(i)
	}
	return out
}

// ParseKind maps an API name to a Kind. An empty name is IdealWhiteNoise.
func ParseKind(s string) (Kind, error) {
	if s == "" {
		return IdealWhiteNoise, nil
	}
	for i, name := range kindNames {
		if name == s {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", calcerr.ErrInvalidSignal, s)
}

// Band is the pass band of a narrow-band stimulus, in Hz.
type Band struct {
	LowHz, HighHz float64
}

// Band reports the pass band of the narrow-band kinds.
func (k Kind) Band() (Band, bool) {
	switch k {
	case NarrowBandLowFreq:
		return Band{80, 120}, true
	case NarrowBandMidFreq:
		return Band{800, 1200}, true
	case NarrowBandHighFreq:
		return Band{4800, 5200}, true
	default:
		return Band{}, false
	}
}

// FilterOrder is the order of each Butterworth edge of the band-pass.
const FilterOrder = 10

// MaxSweepSamples bounds the narrow-band sweep. Its length is fs/df, which
// grows without limit as the frequency step shrinks.
const MaxSweepSamples = 1 << 22

// Generate returns the linear frequency grid fi..ff with nf points and the
// magnitude spectrum of k on it.
func (l *Library) Generate(k Kind, fi, ff float64, nf int) ([]float64, []float64, error) {
	freq, err := grid.Bins(fi, ff, nf)
	if err != nil {
		return nil, nil, err
	}

	var mag []float64
	switch k {
	case IdealWhiteNoise:
		mag = make([]float64, nf)
		for i := range mag {
			mag[i] = 1
		}
	case Speech:
		mag, err = l.interpolate(k, l.speech, freq)
	case Clarinet:
		mag, err = l.interpolate(k, l.clarinet, freq)
	case NarrowBandLowFreq, NarrowBandMidFreq, NarrowBandHighFreq:
		b, _ := k.Band()
		mag, err = NarrowBand(b, freq)
	default:
		err = fmt.Errorf("%w: %v", calcerr.ErrInvalidSignal, k)
	}
	if err != nil {
		return nil, nil, err
	}
	return freq, mag, nil
}

func (l *Library) interpolate(k Kind, t *Table, freq []float64) ([]float64, error) {
	if t == nil {
		return nil, fmt.Errorf("%w: %v", calcerr.ErrSignalUnavailable, k)
	}
	return spectrum.InterpolateLinear(t.Freq, t.Data, freq)
}

// NarrowBand sweeps linearly from freq[0] to the last frequency at a sample
// rate of twice the last frequency, for 1/df seconds, band-pass filters the
// sweep and returns its peak-normalised magnitude spectrum on freq.
func NarrowBand(b Band, freq []float64) ([]float64, error) {
	if len(freq) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 frequencies", calcerr.ErrInvalidFrequencyRange)
	}
	fi, ff := freq[0], freq[len(freq)-1]
	if b.HighHz >= ff {
		return nil, fmt.Errorf("%w: band edge %g Hz is at or above the Nyquist frequency %g Hz",
			calcerr.ErrInvalidFrequencyRange, b.HighHz, ff)
	}
	fs := 2 * ff
	duration := 1 / (freq[1] - freq[0])
	if samples := duration * fs; !(samples <= MaxSweepSamples) {
		return nil, fmt.Errorf("%w: frequency step %g Hz needs a %g sample sweep, at most %d allowed",
			calcerr.ErrInvalidFrequencyRange, freq[1]-freq[0], samples, MaxSweepSamples)
	}

	sw := sweep.LinearSweep{
		StartFreq:  fi,
		EndFreq:    ff,
		Duration:   duration,
		SampleRate: fs,
	}
	x, err := sw.Generate()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", calcerr.ErrInvalidFrequencyRange, err)
	}

	sections := design.ButterworthHP(b.LowHz, FilterOrder, fs)
	sections = append(sections, design.ButterworthLP(b.HighHz, FilterOrder, fs)...)
	biquad.NewChain(sections).ProcessBlock(x)

	n := nextPowerOf2(len(x))
	plan, err := algofft.NewPlan64(n)
	if err != nil {
		return nil, fmt.Errorf("inputsignal: failed to create FFT plan: %w", err)
	}
	in := make([]complex128, n)
	for i, v := range x {
		in[i] = complex(v, 0)
	}
	out := make([]complex128, n)
	if err := plan.Forward(out, in); err != nil {
		return nil, err
	}

	half := n / 2
	mag := spectrum.Magnitude(out[:half])
	peak := floats.Max(mag)
	if !(peak > 0) {
		return nil, fmt.Errorf("%w: empty band %g-%g Hz", calcerr.ErrInvalidFrequencyRange, b.LowHz, b.HighHz)
	}
	floats.Scale(1/peak, mag)

	binFreq := make([]float64, half)
	for i := range binFreq {
		binFreq[i] = float64(i) * fs / float64(n)
	}
	return spectrum.InterpolateLinear(binFreq, mag, freq)
}

func nextPowerOf2(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(n-1))
}
