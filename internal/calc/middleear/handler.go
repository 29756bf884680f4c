package middleear

import (
	"net/http"

	"github.com/LucasCostaLobato/auditory-system-api/internal/httpq"
	"github.com/LucasCostaLobato/auditory-system-api/internal/repo"
)

type Handler struct {
	Repo repo.ParameterSource
}

// ParseInput reads the shared middle ear query parameters.
func ParseInput(q *httpq.Query) Input {
	return Input{
		Fi:           q.Float("fi"),
		Ff:           q.Float("ff"),
		Nf:           q.Int("nf"),
		Condition:    q.String("meCondition", "healthy"),
		Severity:     q.String("meSeverity", "low"),
		ReferenceFit: q.String("referenceFit", ""),
	}
}

// FRF serves |measure| over frequency for every requested measure.
func (h *Handler) FRF(w http.ResponseWriter, r *http.Request) {
	q := httpq.New(r)
	in := ParseInput(q)
	measures := q.Strings("measures")
	if err := q.Err(); err != nil {
		httpq.WriteError(w, r, err)
		return
	}

	model, err := Calculate(h.Repo, in)
	if err != nil {
		httpq.WriteError(w, r, err)
		return
	}

	out := httpq.NewSeries("freq_vec", model.Freq)
	for _, name := range measures {
		v, err := model.Measure(name)
		if err != nil {
			httpq.WriteError(w, r, err)
			return
		}
		out.Add(name, v)
	}
	httpq.WriteJSON(w, out)
}

// NaturalFrequencies serves the undamped natural frequencies in Hz.
func (h *Handler) NaturalFrequencies(w http.ResponseWriter, r *http.Request) {
	q := httpq.New(r)
	in := Input{
		Condition:    q.String("meCondition", "healthy"),
		Severity:     q.String("meSeverity", "low"),
		ReferenceFit: q.String("referenceFit", ""),
	}
	p, k, err := Parameters(h.Repo, in)
	if err != nil {
		httpq.WriteError(w, r, err)
		return
	}
	natural, err := NaturalFrequencies(p, k)
	if err != nil {
		httpq.WriteError(w, r, err)
		return
	}
	httpq.WriteJSON(w, map[string][]float64{"naturalFrequencies": natural})
}
