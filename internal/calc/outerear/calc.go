// Package outerear models the ear canal as a one-dimensional lossy
// waveguide driven by a velocity source at the entrance and terminated by
// the middle ear input impedance at the tympanic membrane.
package outerear

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/LucasCostaLobato/auditory-system-api/internal/calc/grid"
	"github.com/LucasCostaLobato/auditory-system-api/internal/calc/parallel"
	"github.com/LucasCostaLobato/auditory-system-api/internal/calcerr"
)

// GridPoints is the number of positions along the canal.
const GridPoints = 1000

// Acoustics are the constants of the air inside the canal.
type Acoustics struct {
	C0   float64 // sound speed, m/s
	Rho0 float64 // air density, kg/m^3
	U0   float64 // particle velocity at the canal entrance, m/s
	Eta  float64 // damping coefficient
}

func DefaultAcoustics() Acoustics {
	return Acoustics{C0: 343, Rho0: 1.21, U0: 1, Eta: 0.08}
}

// Geometry of the canal. AreaM2 does not enter the 1-D wave equation.
type Geometry struct {
	LengthM float64
	AreaM2  float64
}

func (g Geometry) Validate() error {
	if !(g.LengthM > 0) || math.IsInf(g.LengthM, 0) {
		return fmt.Errorf("%w: canal length %g m", calcerr.ErrInvalidGeometry, g.LengthM)
	}
	return nil
}

// Field is the complex pressure and particle velocity, indexed by
// frequency bin then grid position.
type Field struct {
	Freq     []float64
	X        []float64
	Pressure [][]complex128
	Velocity [][]complex128
}

// degenerateTol bounds |Psi| relative to the magnitude of its terms.
const degenerateTol = 1e-12

// SolveField computes the canal field for every frequency in freq, given
// the middle ear impedance zme on the same frequencies.
func SolveField(g Geometry, freq []float64, zme []complex128, ac Acoustics) (*Field, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	if len(freq) == 0 || len(zme) != len(freq) {
		return nil, fmt.Errorf("%w: %d frequencies, %d impedance values",
			calcerr.ErrInvalidFrequencyRange, len(freq), len(zme))
	}

	x, err := grid.Linear(0, g.LengthM, GridPoints)
	if err != nil {
		return nil, err
	}
	f := &Field{
		Freq:     append([]float64(nil), freq...),
		X:        x,
		Pressure: make([][]complex128, len(freq)),
		Velocity: make([][]complex128, len(freq)),
	}

	rc := ac.Rho0 * ac.C0
	p0 := complex(ac.U0*rc, 0)
	L := g.LengthM
	err = parallel.For(len(freq), func(b int) error {
		z := zme[b]
		if cmplx.IsNaN(z) || cmplx.IsInf(z) {
			return fmt.Errorf("%w: middle ear impedance %v at %g Hz", calcerr.ErrDegenerateBoundaryCondition, z, freq[b])
		}
		zn := z / complex(rc, 0)

		w := 2 * math.Pi * freq[b]
		k := complex(w/ac.C0, ac.Eta*w/ac.C0)
		jk := complex(0, 1) * k
		ep := cmplx.Exp(jk * complex(L, 0))
		em := cmplx.Exp(-jk * complex(L, 0))

		// B - A = P0 fixes the source velocity at the entrance, p(L) = Zme u(L)
		// at the tympanic membrane.
		psi := ep + em - zn*ep + zn*em
		scale := (cmplx.Abs(ep) + cmplx.Abs(em)) * (1 + cmplx.Abs(zn))
		if cmplx.Abs(psi) <= degenerateTol*scale {
			return fmt.Errorf("%w: |psi| = %g at %g Hz", calcerr.ErrDegenerateBoundaryCondition, cmplx.Abs(psi), freq[b])
		}
		a := -p0 * em * (1 + zn) / psi
		bb := p0 + a

		pr := make([]complex128, len(x))
		ve := make([]complex128, len(x))
		for i, xi := range x {
			fwd := a * cmplx.Exp(jk*complex(xi, 0))
			bwd := bb * cmplx.Exp(-jk*complex(xi, 0))
			pr[i] = fwd + bwd
			ve[i] = (fwd - bwd) / complex(rc, 0)
			if cmplx.IsNaN(pr[i]) || cmplx.IsInf(pr[i]) || cmplx.IsNaN(ve[i]) || cmplx.IsInf(ve[i]) {
				return fmt.Errorf("%w: non-finite field at %g Hz, x = %g m",
					calcerr.ErrDegenerateBoundaryCondition, freq[b], xi)
			}
		}
		f.Pressure[b] = pr
		f.Velocity[b] = ve
		return nil
	})
	if err != nil {
		return nil, err
	}
	return f, nil
}
