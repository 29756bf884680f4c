package outerear

import (
	"github.com/LucasCostaLobato/auditory-system-api/internal/calc/middleear"
	"github.com/LucasCostaLobato/auditory-system-api/internal/repo"
)

// DefaultAreaM2 is the canal cross section used when none is given, for a
// canal of about 7.5 mm diameter.
const DefaultAreaM2 = 4.4e-5

type Input struct {
	LengthM   float64         `json:"ecLength"`
	AreaM2    float64         `json:"ecArea"`
	MiddleEar middleear.Input `json:"middleEar"`
}

// Calculate solves the middle ear on the requested grid and feeds its
// input impedance to the canal model.
func Calculate(src repo.ParameterSource, in Input) (*Field, error) {
	g := Geometry{LengthM: in.LengthM, AreaM2: in.AreaM2}
	if g.AreaM2 <= 0 {
		g.AreaM2 = DefaultAreaM2
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	me, err := middleear.Calculate(src, in.MiddleEar)
	if err != nil {
		return nil, err
	}
	return SolveField(g, me.Freq, me.Zme, DefaultAcoustics())
}
