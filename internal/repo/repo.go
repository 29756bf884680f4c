package repo

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/LucasCostaLobato/auditory-system-api/internal/calcerr"
)

// NumParameters is the number of values in a middle ear parameter file.
const NumParameters = 16

// ParameterSet is one reference fit of the lumped-element middle ear model.
// Masses are in kg, stiffnesses in N/m, TMArea in m^2.
type ParameterSet struct {
	M1, M2, M3, M4             float64
	K1, K2, K3, K4, K5, K6, K7 float64
	Eta1, Eta2, Eta3, Eta4     float64
	TMArea                     float64
}

// ParameterSetFromValues builds a set from the fixed file order
// m1..m4, k1..k7, eta1..eta4, tmArea.
func ParameterSetFromValues(v []float64) (ParameterSet, error) {
	if len(v) != NumParameters {
		return ParameterSet{}, fmt.Errorf("expected %d parameters, got %d", NumParameters, len(v))
	}
	for i, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return ParameterSet{}, fmt.Errorf("parameter %s is not finite", parameterNames[i])
		}
	}
	return ParameterSet{
		M1: v[0], M2: v[1], M3: v[2], M4: v[3],
		K1: v[4], K2: v[5], K3: v[6], K4: v[7], K5: v[8], K6: v[9], K7: v[10],
		Eta1: v[11], Eta2: v[12], Eta3: v[13], Eta4: v[14],
		TMArea: v[15],
	}, nil
}

var parameterNames = [NumParameters]string{
	"m1", "m2", "m3", "m4",
	"k1", "k2", "k3", "k4", "k5", "k6", "k7",
	"eta1", "eta2", "eta3", "eta4",
	"tmArea",
}

// Values returns the parameters in file order.
func (p ParameterSet) Values() [NumParameters]float64 {
	return [NumParameters]float64{
		p.M1, p.M2, p.M3, p.M4,
		p.K1, p.K2, p.K3, p.K4, p.K5, p.K6, p.K7,
		p.Eta1, p.Eta2, p.Eta3, p.Eta4,
		p.TMArea,
	}
}

func (p ParameterSet) Masses() [4]float64 { return [4]float64{p.M1, p.M2, p.M3, p.M4} }

func (p ParameterSet) LossFactors() [4]float64 { return [4]float64{p.Eta1, p.Eta2, p.Eta3, p.Eta4} }

// Source loads every parameter set it knows, keyed by reference fit.
type Source interface {
	Load(ctx context.Context) (map[string]ParameterSet, error)
}

// ParameterSource is what the solvers need from a repository.
type ParameterSource interface {
	Get(fit string) (ParameterSet, error)
}

// Repository is the read-only table of reference fits. It is built once at
// startup and handed to the handlers; nothing mutates it afterwards.
type Repository struct {
	sets       map[string]ParameterSet
	defaultFit string
}

// New copies sets into a Repository. defaultFit must be one of the keys.
func New(defaultFit string, sets map[string]ParameterSet) (*Repository, error) {
	if _, ok := sets[defaultFit]; !ok {
		return nil, fmt.Errorf("default reference fit %q: %w", defaultFit, calcerr.ErrUnknownReferenceFit)
	}
	cp := make(map[string]ParameterSet, len(sets))
	for k, v := range sets {
		cp[k] = v
	}
	return &Repository{sets: cp, defaultFit: defaultFit}, nil
}

// Load reads all sources in order; later sources override earlier ones
// for the same fit.
func Load(ctx context.Context, defaultFit string, sources ...Source) (*Repository, error) {
	all := make(map[string]ParameterSet)
	for _, src := range sources {
		sets, err := src.Load(ctx)
		if err != nil {
			return nil, err
		}
		for k, v := range sets {
			all[k] = v
		}
	}
	return New(defaultFit, all)
}

// Get returns the set for fit, or the default set for an empty fit.
func (r *Repository) Get(fit string) (ParameterSet, error) {
	if fit == "" {
		fit = r.defaultFit
	}
	p, ok := r.sets[fit]
	if !ok {
		return ParameterSet{}, fmt.Errorf("%w: %q", calcerr.ErrUnknownReferenceFit, fit)
	}
	return p, nil
}

func (r *Repository) DefaultFit() string { return r.defaultFit }

// Fits lists the known reference fits in sorted order.
func (r *Repository) Fits() []string {
	out := make([]string, 0, len(r.sets))
	for k := range r.sets {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
