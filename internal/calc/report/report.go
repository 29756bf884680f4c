// Package report renders the middle ear frequency response as an xlsx
// workbook or a short PDF summary.
package report

import (
	"fmt"
	"slices"
	"time"

	"github.com/LucasCostaLobato/auditory-system-api/internal/calc/middleear"
	"github.com/LucasCostaLobato/auditory-system-api/internal/calc/pathology"
	"github.com/LucasCostaLobato/auditory-system-api/internal/calcerr"
	"github.com/LucasCostaLobato/auditory-system-api/internal/repo"
)

// Summary is one solved middle ear model together with the request that
// produced it.
type Summary struct {
	Fit       string
	Condition string
	Severity  string // empty for a healthy ear
	Measures  []string
	Generated time.Time

	Model  *middleear.Model
	series [][]float64 // one per measure, aligned with Model.Freq
}

type defaultFitter interface {
	DefaultFit() string
}

// NewSummary solves the model for in and evaluates every measure. An
// unknown measure fails before the model is solved.
func NewSummary(src repo.ParameterSource, in middleear.Input, measures []string) (*Summary, error) {
	for _, name := range measures {
		if !slices.Contains(middleear.Measures, name) {
			return nil, fmt.Errorf("%w: %q", calcerr.ErrInvalidMeasure, name)
		}
	}
	model, err := middleear.Calculate(src, in)
	if err != nil {
		return nil, err
	}

	s := &Summary{
		Fit:       in.ReferenceFit,
		Condition: in.Condition,
		Measures:  append([]string(nil), measures...),
		Generated: time.Now(),
		Model:     model,
	}
	if s.Fit == "" {
		if d, ok := src.(defaultFitter); ok {
			s.Fit = d.DefaultFit()
		}
	}
	// Both parsed already inside Calculate.
	cond, _ := pathology.ParseCondition(in.Condition)
	s.Condition = string(cond)
	if cond != pathology.Healthy {
		sev, _ := pathology.ParseSeverity(in.Severity)
		s.Severity = string(sev)
	}
	for _, name := range measures {
		v, err := model.Measure(name)
		if err != nil {
			return nil, err
		}
		s.series = append(s.series, v)
	}
	return s, nil
}
