package report

import (
	"log"
	"net/http"

	"github.com/LucasCostaLobato/auditory-system-api/internal/calc/middleear"
	"github.com/LucasCostaLobato/auditory-system-api/internal/httpq"
	"github.com/LucasCostaLobato/auditory-system-api/internal/repo"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Handler struct {
	Repo repo.ParameterSource
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) (*Summary, bool) {
	q := httpq.New(r)
	in := middleear.ParseInput(q)
	measures := q.StringsOr("measures", middleear.Measures)
	if err := q.Err(); err != nil {
		httpq.WriteError(w, r, err)
		return nil, false
	}
	s, err := NewSummary(h.Repo, in, measures)
	if err != nil {
		httpq.WriteError(w, r, err)
		return nil, false
	}
	return s, true
}

// XLSX serves the middle ear FRF as a workbook. Without measures every
// measure is exported.
func (h *Handler) XLSX(w http.ResponseWriter, r *http.Request) {
	s, ok := h.summary(w, r)
	if !ok {
		return
	}
	f, err := s.Workbook()
	if err != nil {
		httpq.WriteError(w, r, err)
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", "attachment; filename=\"middle_ear_frf.xlsx\"")
	if err := f.Write(w); err != nil {
		log.Printf("write workbook: %v", err)
	}
}

// PDF serves the middle ear report.
func (h *Handler) PDF(w http.ResponseWriter, r *http.Request) {
	s, ok := h.summary(w, r)
	if !ok {
		return
	}
	pdf, err := s.PDF()
	if err != nil {
		httpq.WriteError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=\"middle_ear_report.pdf\"")
	if err := pdf.Output(w); err != nil {
		log.Printf("write report: %v", err)
	}
}
