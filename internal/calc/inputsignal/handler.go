package inputsignal

import (
	"fmt"
	"math"
	"net/http"

	"github.com/LucasCostaLobato/auditory-system-api/internal/calcerr"
	"github.com/LucasCostaLobato/auditory-system-api/internal/httpq"
)

// PRef is the reference pressure for levels, in Pa.
const PRef = 20e-6

type Handler struct {
	Signals *Library
}

// MagnitudeSpectrum serves the stimulus spectrum, in dB re PRef unless
// level=false.
func (h *Handler) MagnitudeSpectrum(w http.ResponseWriter, r *http.Request) {
	q := httpq.New(r)
	fi := q.Float("fi")
	ff := q.Float("ff")
	nf := q.Int("nf")
	name := q.String("inputSignal", IdealWhiteNoise.String())
	level := q.Bool("level", true)
	if err := q.Err(); err != nil {
		httpq.WriteError(w, r, err)
		return
	}

	kind, err := ParseKind(name)
	if err != nil {
		httpq.WriteError(w, r, err)
		return
	}
	freq, mag, err := h.Signals.Generate(kind, fi, ff, nf)
	if err != nil {
		httpq.WriteError(w, r, err)
		return
	}
	if level {
		if mag, err = Level(mag, freq); err != nil {
			httpq.WriteError(w, r, err)
			return
		}
	}
	httpq.WriteJSON(w, httpq.NewSeries("freq_vec", freq).Add("magnitude", mag))
}

// Level converts magnitudes to dB re PRef. A zero magnitude has no level
// and is reported as an error.
func Level(mag, freq []float64) ([]float64, error) {
	out := make([]float64, len(mag))
	for i, v := range mag {
		out[i] = 20 * math.Log10(math.Abs(v)/PRef)
		if math.IsInf(out[i], 0) || math.IsNaN(out[i]) {
			return nil, fmt.Errorf("%w: magnitude %g at %g Hz has no level", calcerr.ErrInvalidSignal, v, freq[i])
		}
	}
	return out, nil
}
