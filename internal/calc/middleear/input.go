package middleear

import (
	"github.com/LucasCostaLobato/auditory-system-api/internal/calc/grid"
	"github.com/LucasCostaLobato/auditory-system-api/internal/calc/pathology"
	"github.com/LucasCostaLobato/auditory-system-api/internal/repo"
)

// Input selects a frequency grid, a reference fit and a condition.
type Input struct {
	Fi           float64 `json:"fi"`
	Ff           float64 `json:"ff"`
	Nf           int     `json:"nf"`
	Condition    string  `json:"meCondition"`
	Severity     string  `json:"meSeverity"`
	ReferenceFit string  `json:"referenceFit"`
}

// Calculate solves the model for the linear grid fi..ff with nf points.
func Calculate(src repo.ParameterSource, in Input) (*Model, error) {
	freq, err := grid.Bins(in.Fi, in.Ff, in.Nf)
	if err != nil {
		return nil, err
	}
	return CalculateAt(src, in, freq)
}

// CalculateAt is Calculate on an explicit frequency vector; in.Fi, in.Ff
// and in.Nf are ignored.
func CalculateAt(src repo.ParameterSource, in Input, freq []float64) (*Model, error) {
	p, k, err := Parameters(src, in)
	if err != nil {
		return nil, err
	}
	return Solve(p, k, freq)
}

// Parameters resolves the reference fit and runs the pathology adjuster.
// Severity is only parsed for a non-healthy condition.
func Parameters(src repo.ParameterSource, in Input) (repo.ParameterSet, pathology.Stiffness, error) {
	cond, err := pathology.ParseCondition(in.Condition)
	if err != nil {
		return repo.ParameterSet{}, pathology.Stiffness{}, err
	}
	sev := pathology.Low
	if cond != pathology.Healthy {
		if sev, err = pathology.ParseSeverity(in.Severity); err != nil {
			return repo.ParameterSet{}, pathology.Stiffness{}, err
		}
	}
	p, err := src.Get(in.ReferenceFit)
	if err != nil {
		return repo.ParameterSet{}, pathology.Stiffness{}, err
	}
	k, err := pathology.Adjust(pathology.Stiffness{K3: p.K3, K7: p.K7}, cond, sev)
	if err != nil {
		return repo.ParameterSet{}, pathology.Stiffness{}, err
	}
	return p, k, nil
}
