package calcerr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{nil, http.StatusOK},
		{fmt.Errorf("condition %q: %w", "x", ErrInvalidCondition), http.StatusBadRequest},
		{fmt.Errorf("wrapped: %w", ErrInvalidFrequencyRange), http.StatusBadRequest},
		{ErrInvalidGeometry, http.StatusBadRequest},
		{ErrUnknownReferenceFit, http.StatusNotFound},
		{fmt.Errorf("at 1000 Hz: %w", ErrDegenerateBoundaryCondition), http.StatusUnprocessableEntity},
		{ErrSignalUnavailable, http.StatusServiceUnavailable},
		{ErrSingularSystem, http.StatusInternalServerError},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Status(tc.err), "%v", tc.err)
	}
}
