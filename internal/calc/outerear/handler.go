package outerear

import (
	"net/http"

	"github.com/LucasCostaLobato/auditory-system-api/internal/calc/inputsignal"
	"github.com/LucasCostaLobato/auditory-system-api/internal/calc/middleear"
	"github.com/LucasCostaLobato/auditory-system-api/internal/httpq"
	"github.com/LucasCostaLobato/auditory-system-api/internal/repo"
)

type Handler struct {
	Repo    repo.ParameterSource
	Signals *inputsignal.Library
}

func parseInput(q *httpq.Query) Input {
	return Input{
		LengthM:   q.Float("ecLength"),
		AreaM2:    q.FloatOr("ecArea", DefaultAreaM2),
		MiddleEar: middleear.ParseInput(q),
	}
}

// SpaceDomain serves Re p(x) for each requested frequency.
func (h *Handler) SpaceDomain(w http.ResponseWriter, r *http.Request) {
	q := httpq.New(r)
	in := parseInput(q)
	keys, freqs := q.Floats("frequencies")
	if err := q.Err(); err != nil {
		httpq.WriteError(w, r, err)
		return
	}

	field, err := Calculate(h.Repo, in)
	if err != nil {
		httpq.WriteError(w, r, err)
		return
	}
	out := httpq.NewSeries("x_vec", field.X)
	for i, f := range freqs {
		out.Add(keys[i], field.SpatialSlice(f))
	}
	httpq.WriteJSON(w, out)
}

// FrequencyDomain serves |p| (or its level) over frequency for each
// requested position in millimetres.
func (h *Handler) FrequencyDomain(w http.ResponseWriter, r *http.Request) {
	q := httpq.New(r)
	in := parseInput(q)
	keys, positions := q.Floats("positions")
	level := q.Bool("level", true)
	if err := q.Err(); err != nil {
		httpq.WriteError(w, r, err)
		return
	}

	field, err := Calculate(h.Repo, in)
	if err != nil {
		httpq.WriteError(w, r, err)
		return
	}
	out := httpq.NewSeries("freq_vec", field.Freq)
	for i, x := range positions {
		v, err := field.FrequencySlice(x, level)
		if err != nil {
			httpq.WriteError(w, r, err)
			return
		}
		out.Add(keys[i], v)
	}
	httpq.WriteJSON(w, out)
}

// FRF serves the canal transfer function between two positions in
// millimetres. With inputSignal set, the stimulus spectrum is applied to it.
//
// The two level forms use different references. Without inputSignal the
// level is 20 log10 |p_out/p_in|, a gain in dB. With inputSignal it is the
// weighted pressure in dB re 20 uPa, so the same canal reads about 94 dB
// higher under a unit white noise.
func (h *Handler) FRF(w http.ResponseWriter, r *http.Request) {
	q := httpq.New(r)
	in := parseInput(q)
	inputPos := q.Float("inputPosition")
	outputPos := q.Float("outputPosition")
	level := q.Bool("level", true)
	signal := q.String("inputSignal", "")
	if err := q.Err(); err != nil {
		httpq.WriteError(w, r, err)
		return
	}

	field, err := Calculate(h.Repo, in)
	if err != nil {
		httpq.WriteError(w, r, err)
		return
	}

	var frf []float64
	if signal == "" {
		frf, err = field.Transfer(inputPos, outputPos, level)
	} else {
		frf, err = h.weighted(field, in, signal, inputPos, outputPos, level)
	}
	if err != nil {
		httpq.WriteError(w, r, err)
		return
	}
	httpq.WriteJSON(w, httpq.NewSeries("freq_vec", field.Freq).Add("frf", frf))
}

func (h *Handler) weighted(field *Field, in Input, signal string, inputPos, outputPos float64, level bool) ([]float64, error) {
	kind, err := inputsignal.ParseKind(signal)
	if err != nil {
		return nil, err
	}
	me := in.MiddleEar
	_, source, err := h.Signals.Generate(kind, me.Fi, me.Ff, me.Nf)
	if err != nil {
		return nil, err
	}
	return field.WeightedTransfer(inputPos, outputPos, source, level)
}
