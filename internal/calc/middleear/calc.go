// Package middleear implements the 4-DOF lumped-element model of the human
// middle ear: tympanic membrane, malleus, incus and stapes footplate
// connected in a chain of springs. The frequency response is computed by
// modal superposition with per-mode proportional damping.
//
// Model reference: https://doi.org/10.55753/aev.v35e52.34
package middleear

import (
	"fmt"
	"math"
	"math/cmplx"
	"sort"

	"github.com/LucasCostaLobato/auditory-system-api/internal/calc/parallel"
	"github.com/LucasCostaLobato/auditory-system-api/internal/calc/pathology"
	"github.com/LucasCostaLobato/auditory-system-api/internal/calcerr"
	"github.com/LucasCostaLobato/auditory-system-api/internal/repo"
	"gonum.org/v1/gonum/mat"
)

// NumDOF is the number of degrees of freedom of the model.
const NumDOF = 4

// Degrees of freedom, in matrix order.
const (
	TympanicMembrane = iota
	Malleus
	Incus
	StapesFootplate
)

const (
	// AirImpedance is the characteristic impedance of air, rho0*c0.
	AirImpedance = 343 * 1.21
	// UnitPressure is the pressure driving the tympanic membrane, in Pa.
	UnitPressure = 1.0
)

// MassMatrix returns diag(m1, m2, m3, m4).
func MassMatrix(p repo.ParameterSet) *mat.SymDense {
	m := p.Masses()
	return mat.NewSymDense(NumDOF, []float64{
		m[0], 0, 0, 0,
		0, m[1], 0, 0,
		0, 0, m[2], 0,
		0, 0, 0, m[3],
	})
}

// StiffnessMatrix returns the chain stiffness matrix. k3 and k7 come from
// the pathology adjuster, the rest from p.
func StiffnessMatrix(p repo.ParameterSet, k pathology.Stiffness) *mat.SymDense {
	k1, k2, k3, k4, k5, k6, k7 := p.K1, p.K2, k.K3, p.K4, p.K5, p.K6, k.K7
	return mat.NewSymDense(NumDOF, []float64{
		k1 + k2, -k2, 0, 0,
		-k2, k2 + k3 + k4, -k4, 0,
		0, -k4, k4 + k5 + k6, -k6,
		0, 0, -k6, k6 + k7,
	})
}

// Decomposition is the solution of K*phi = lambda*M*phi.
type Decomposition struct {
	// Eigenvalues in ascending order, in (rad/s)^2.
	Eigenvalues []float64
	// Modes holds the eigenvectors as columns, normalised so that
	// Modes^T * M * Modes = I.
	Modes *mat.Dense
}

// Decompose solves the symmetric-definite generalized eigenproblem of the
// pencil (K, M) through the Cholesky factor of M.
func Decompose(m, k *mat.SymDense) (Decomposition, error) {
	n, _ := m.Dims()

	var chol mat.Cholesky
	if ok := chol.Factorize(m); !ok {
		return Decomposition{}, fmt.Errorf("%w: mass matrix is not positive definite", calcerr.ErrSingularSystem)
	}
	var l, lInv mat.TriDense
	chol.LTo(&l)
	if err := lInv.InverseTri(&l); err != nil {
		return Decomposition{}, fmt.Errorf("%w: %v", calcerr.ErrSingularSystem, err)
	}

	// A = L^-1 K L^-T is symmetric with the same eigenvalues as the pencil.
	var tmp, a mat.Dense
	tmp.Mul(&lInv, k)
	a.Mul(&tmp, lInv.T())
	sym := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			sym.SetSym(i, j, 0.5*(a.At(i, j)+a.At(j, i)))
		}
	}

	var es mat.EigenSym
	if ok := es.Factorize(sym, true); !ok {
		return Decomposition{}, fmt.Errorf("%w: eigen decomposition did not converge", calcerr.ErrSingularSystem)
	}
	values := es.Values(nil)
	var v mat.Dense
	es.VectorsTo(&v)

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool { return values[order[i]] < values[order[j]] })

	scale := 0.0
	for _, x := range values {
		scale = math.Max(scale, math.Abs(x))
	}
	sorted := make([]float64, n)
	vs := mat.NewDense(n, n, nil)
	for c, src := range order {
		lambda := values[src]
		if lambda < -1e-12*scale {
			return Decomposition{}, fmt.Errorf("%w: stiffness matrix is not positive semi-definite (eigenvalue %g)",
				calcerr.ErrSingularSystem, lambda)
		}
		sorted[c] = math.Max(lambda, 0)
		for r := 0; r < n; r++ {
			vs.Set(r, c, v.At(r, src))
		}
	}

	// phi = L^-T V
	modes := mat.NewDense(n, n, nil)
	modes.Mul(lInv.T(), vs)
	return Decomposition{Eigenvalues: sorted, Modes: modes}, nil
}

func naturalFrequency(lambda float64) float64 {
	return math.Sqrt(lambda) / (2 * math.Pi)
}

// NaturalFrequencies returns the undamped natural frequencies in Hz,
// ascending.
func NaturalFrequencies(p repo.ParameterSet, k pathology.Stiffness) ([]float64, error) {
	dec, err := Decompose(MassMatrix(p), StiffnessMatrix(p, k))
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(dec.Eigenvalues))
	for i, lambda := range dec.Eigenvalues {
		out[i] = naturalFrequency(lambda)
	}
	return out, nil
}

// Model is the frequency response of the middle ear on a frequency grid.
type Model struct {
	Freq               []float64
	NaturalFrequencies []float64 // Hz, ascending
	Decomposition

	// Diagonals of the modal stiffness and damping matrices. The modal
	// mass matrix is the identity.
	ModalStiffness []float64
	ModalDamping   []float64

	// Displacement and Velocity are indexed by degree of freedom, then
	// frequency bin.
	Displacement [NumDOF][]complex128
	Velocity     [NumDOF][]complex128

	Zme []complex128 // acoustic input impedance seen from the ear canal
	ER  []float64    // power reflectance
}

// ValidateFrequencies checks that freq has at least two strictly
// increasing, positive, finite values.
func ValidateFrequencies(freq []float64) error {
	if len(freq) < 2 {
		return fmt.Errorf("%w: need at least 2 frequencies, got %d", calcerr.ErrInvalidFrequencyRange, len(freq))
	}
	for i, f := range freq {
		if !(f > 0) || math.IsInf(f, 0) {
			return fmt.Errorf("%w: frequency %g at index %d", calcerr.ErrInvalidFrequencyRange, f, i)
		}
		if i > 0 && f <= freq[i-1] {
			return fmt.Errorf("%w: frequencies not strictly increasing at index %d", calcerr.ErrInvalidFrequencyRange, i)
		}
	}
	return nil
}

// Solve computes natural frequencies and the per-bin response of the
// middle ear to a unit pressure on the tympanic membrane.
func Solve(p repo.ParameterSet, k pathology.Stiffness, freq []float64) (*Model, error) {
	if err := ValidateFrequencies(freq); err != nil {
		return nil, err
	}
	dec, err := Decompose(MassMatrix(p), StiffnessMatrix(p, k))
	if err != nil {
		return nil, err
	}

	var phi [NumDOF][NumDOF]float64
	for r := 0; r < NumDOF; r++ {
		for c := 0; c < NumDOF; c++ {
			phi[r][c] = dec.Modes.At(r, c)
		}
	}

	// The i-th loss factor damps the i-th mode in ascending order, not the
	// i-th physical coordinate.
	eta := p.LossFactors()
	natural := make([]float64, NumDOF)
	damping := make([]float64, NumDOF)
	var fm [NumDOF]float64
	for i, lambda := range dec.Eigenvalues {
		wn := math.Sqrt(lambda)
		natural[i] = naturalFrequency(lambda)
		damping[i] = eta[i] * wn
		// Only the tympanic membrane is forced.
		fm[i] = phi[TympanicMembrane][i] * UnitPressure * p.TMArea
	}

	nf := len(freq)
	m := &Model{
		Freq:               append([]float64(nil), freq...),
		NaturalFrequencies: natural,
		Decomposition:      dec,
		ModalStiffness:     append([]float64(nil), dec.Eigenvalues...),
		ModalDamping:       damping,
		Zme:                make([]complex128, nf),
		ER:                 make([]float64, nf),
	}
	for d := 0; d < NumDOF; d++ {
		m.Displacement[d] = make([]complex128, nf)
		m.Velocity[d] = make([]complex128, nf)
	}

	area := complex(p.TMArea, 0)
	zAir := complex(AirImpedance/p.TMArea, 0)
	err = parallel.For(nf, func(b int) error {
		w := 2 * math.Pi * freq[b]
		jw := complex(0, w)

		// D(w) = Km - w^2 I + jw Cm is diagonal, so its inverse is too.
		var xm [NumDOF]complex128
		for i := 0; i < NumDOF; i++ {
			d := complex(dec.Eigenvalues[i]-w*w, w*damping[i])
			if d == 0 {
				return fmt.Errorf("%w: undamped resonance of mode %d at %g Hz", calcerr.ErrSingularSystem, i+1, freq[b])
			}
			xm[i] = complex(fm[i], 0) / d
		}
		for r := 0; r < NumDOF; r++ {
			var x complex128
			for i := 0; i < NumDOF; i++ {
				x += complex(phi[r][i], 0) * xm[i]
			}
			m.Displacement[r][b] = x
			m.Velocity[r][b] = jw * x
		}

		zme := 1 / (m.Velocity[TympanicMembrane][b] * area)
		er := cmplx.Abs((zme - zAir) / (zme + zAir))
		er *= er
		if cmplx.IsInf(zme) || cmplx.IsNaN(zme) || math.IsNaN(er) || math.IsInf(er, 0) {
			return fmt.Errorf("%w: input impedance not finite at %g Hz", calcerr.ErrSingularSystem, freq[b])
		}
		m.Zme[b] = zme
		m.ER[b] = er
		return nil
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Measures are the names accepted by Model.Measure, in response order.
var Measures = []string{"Htm", "Hmal", "Hinc", "Hfp", "Zme", "ER"}

// Measure returns the magnitude of a named response: the velocity at one
// of the four coordinates (Htm, Hmal, Hinc, Hfp), Zme, or ER.
func (m *Model) Measure(name string) ([]float64, error) {
	var c []complex128
	switch name {
	case "Htm":
		c = m.Velocity[TympanicMembrane]
	case "Hmal":
		c = m.Velocity[Malleus]
	case "Hinc":
		c = m.Velocity[Incus]
	case "Hfp":
		c = m.Velocity[StapesFootplate]
	case "Zme":
		c = m.Zme
	case "ER":
		return append([]float64(nil), m.ER...), nil
	default:
		return nil, fmt.Errorf("%w: %q", calcerr.ErrInvalidMeasure, name)
	}
	out := make([]float64, len(c))
	for i, v := range c {
		out[i] = cmplx.Abs(v)
	}
	return out, nil
}
