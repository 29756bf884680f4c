// Package calcerr holds the error taxonomy shared by the auditory models
// and maps it onto HTTP status codes.
package calcerr

import (
	"errors"
	"net/http"
)

var (
	ErrInvalidCondition      = errors.New("invalid middle ear condition")
	ErrInvalidSeverity       = errors.New("invalid middle ear severity")
	ErrInvalidFrequencyRange = errors.New("invalid frequency range")
	ErrInvalidGeometry       = errors.New("invalid ear canal geometry")
	ErrInvalidMeasure        = errors.New("invalid measure")
	ErrInvalidSignal         = errors.New("invalid input signal")
	ErrInvalidQuery          = errors.New("invalid query parameter")
	ErrUnknownReferenceFit   = errors.New("unknown reference fit")
	ErrSignalUnavailable     = errors.New("input signal table not loaded")

	// ErrSingularSystem means the mass/stiffness pencil is not positive
	// definite, or the modal dynamic-stiffness matrix lost a pivot.
	ErrSingularSystem = errors.New("singular middle ear system")

	// ErrDegenerateBoundaryCondition is returned instead of emitting NaN or
	// Inf into an ear canal field.
	ErrDegenerateBoundaryCondition = errors.New("degenerate ear canal boundary condition")
)

// Status returns the HTTP status code for err.
func Status(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrInvalidCondition),
		errors.Is(err, ErrInvalidSeverity),
		errors.Is(err, ErrInvalidFrequencyRange),
		errors.Is(err, ErrInvalidGeometry),
		errors.Is(err, ErrInvalidMeasure),
		errors.Is(err, ErrInvalidSignal),
		errors.Is(err, ErrInvalidQuery):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnknownReferenceFit):
		return http.StatusNotFound
	case errors.Is(err, ErrDegenerateBoundaryCondition):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrSignalUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
