// Package server maps the API paths onto the model handlers.
package server

import (
	"net/http"

	"github.com/LucasCostaLobato/auditory-system-api/internal/calc/inputsignal"
	"github.com/LucasCostaLobato/auditory-system-api/internal/calc/middleear"
	"github.com/LucasCostaLobato/auditory-system-api/internal/calc/outerear"
	"github.com/LucasCostaLobato/auditory-system-api/internal/calc/report"
	"github.com/LucasCostaLobato/auditory-system-api/internal/httpq"
	"github.com/LucasCostaLobato/auditory-system-api/internal/repo"
	"github.com/gorilla/mux"
)

// Deps are the read-only resources shared by every request.
type Deps struct {
	Repo    *repo.Repository
	Signals *inputsignal.Library
}

// NewRouter registers every endpoint. All routes are GET.
func NewRouter(d Deps) *mux.Router {
	r := mux.NewRouter()
	// Routes stay on the top-level router: a subrouter answers a method
	// mismatch with 404 instead of 405.

	meH := &middleear.Handler{Repo: d.Repo}
	reportH := &report.Handler{Repo: d.Repo}
	r.HandleFunc("/middle-ear/frf", meH.FRF).Methods(http.MethodGet)
	r.HandleFunc("/middle-ear/natural-frequencies", meH.NaturalFrequencies).Methods(http.MethodGet)
	r.HandleFunc("/middle-ear/frf/xlsx", reportH.XLSX).Methods(http.MethodGet)
	r.HandleFunc("/middle-ear/report/pdf", reportH.PDF).Methods(http.MethodGet)

	oeH := &outerear.Handler{Repo: d.Repo, Signals: d.Signals}
	r.HandleFunc("/outer-ear/space-domain-analysis", oeH.SpaceDomain).Methods(http.MethodGet)
	r.HandleFunc("/outer-ear/frequency-domain-analysis", oeH.FrequencyDomain).Methods(http.MethodGet)
	r.HandleFunc("/outer-ear/frf", oeH.FRF).Methods(http.MethodGet)

	sigH := &inputsignal.Handler{Signals: d.Signals}
	r.HandleFunc("/input-signal/magnitude-spectrum", sigH.MagnitudeSpectrum).Methods(http.MethodGet)

	r.HandleFunc("/reference-fits", func(w http.ResponseWriter, _ *http.Request) {
		httpq.WriteJSON(w, map[string]any{
			"default": d.Repo.DefaultFit(),
			"fits":    d.Repo.Fits(),
		})
	}).Methods(http.MethodGet)
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}).Methods(http.MethodGet)

	return r
}
