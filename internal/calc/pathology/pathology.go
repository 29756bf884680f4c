// Package pathology maps a middle ear condition and severity onto the two
// stiffness constants the conditions act on.
//
// k3 is the malleus ligaments / tensor tympani stiffness and k7 the stapes
// annular ligament / stapedial tendon stiffness. Otosclerosis stiffens k7,
// malleus fixation stiffens k3.
package pathology

import (
	"fmt"
	"strings"

	"github.com/LucasCostaLobato/auditory-system-api/internal/calcerr"
)

type Condition string

const (
	Healthy      Condition = "healthy"
	Otosclerosis Condition = "otosclerosis"
	MalFixation  Condition = "malFixation"
)

type Severity string

const (
	Low    Severity = "low"
	Medium Severity = "medium"
	High   Severity = "high"
)

// Stiffness is the (k3, k7) pair that enters the stiffness matrix.
type Stiffness struct {
	K3 float64 `json:"k3"`
	K7 float64 `json:"k7"`
}

// ParseCondition accepts the query string forms used by the API. An empty
// string is Healthy.
func ParseCondition(s string) (Condition, error) {
	switch c := Condition(strings.TrimSpace(s)); c {
	case "":
		return Healthy, nil
	case Healthy, Otosclerosis, MalFixation:
		return c, nil
	default:
		return "", fmt.Errorf("%w: %q", calcerr.ErrInvalidCondition, s)
	}
}

// ParseSeverity accepts low, medium and high. An empty string is Low.
func ParseSeverity(s string) (Severity, error) {
	switch v := Severity(strings.TrimSpace(s)); v {
	case "":
		return Low, nil
	case Low, Medium, High:
		return v, nil
	default:
		return "", fmt.Errorf("%w: %q", calcerr.ErrInvalidSeverity, s)
	}
}

// Factor is the multiplier a severity applies to the affected stiffness.
func (s Severity) Factor() (float64, error) {
	switch s {
	case Low:
		return 10, nil
	case Medium:
		return 100, nil
	case High:
		return 1000, nil
	default:
		return 0, fmt.Errorf("%w: %q", calcerr.ErrInvalidSeverity, string(s))
	}
}

// Adjust returns the stiffness pair for condition c. Severity is ignored
// for Healthy. Exactly one of K3/K7 changes for a pathological condition.
func Adjust(base Stiffness, c Condition, s Severity) (Stiffness, error) {
	switch c {
	case Healthy:
		return base, nil
	case Otosclerosis, MalFixation:
	default:
		return Stiffness{}, fmt.Errorf("%w: %q", calcerr.ErrInvalidCondition, string(c))
	}

	f, err := s.Factor()
	if err != nil {
		return Stiffness{}, fmt.Errorf("condition %s: %w", c, err)
	}

	out := base
	if c == Otosclerosis {
		out.K7 = base.K7 * f
	} else {
		out.K3 = base.K3 * f
	}
	return out, nil
}
