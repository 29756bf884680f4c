package pathology

import (
	"testing"

	"github.com/LucasCostaLobato/auditory-system-api/internal/calcerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseline = Stiffness{K3: 600, K7: 200}

func TestAdjustHealthyIgnoresSeverity(t *testing.T) {
	for _, s := range []Severity{Low, Medium, High, "bogus"} {
		got, err := Adjust(baseline, Healthy, s)
		require.NoError(t, err)
		assert.Equal(t, baseline, got)
	}
}

func TestAdjustMonotonicSeverity(t *testing.T) {
	factors := map[Severity]float64{Low: 10, Medium: 100, High: 1000}

	var prev Stiffness
	for _, s := range []Severity{Low, Medium, High} {
		got, err := Adjust(baseline, Otosclerosis, s)
		require.NoError(t, err)
		assert.Equal(t, baseline.K7*factors[s], got.K7)
		assert.Equal(t, baseline.K3, got.K3)
		assert.Greater(t, got.K7, prev.K7)
		prev = got
	}

	prev = Stiffness{}
	for _, s := range []Severity{Low, Medium, High} {
		got, err := Adjust(baseline, MalFixation, s)
		require.NoError(t, err)
		assert.Equal(t, baseline.K3*factors[s], got.K3)
		assert.Equal(t, baseline.K7, got.K7)
		assert.Greater(t, got.K3, prev.K3)
		prev = got
	}
}

func TestAdjustErrors(t *testing.T) {
	_, err := Adjust(baseline, "perforation", Low)
	assert.ErrorIs(t, err, calcerr.ErrInvalidCondition)

	_, err = Adjust(baseline, Otosclerosis, "extreme")
	assert.ErrorIs(t, err, calcerr.ErrInvalidSeverity)

	_, err = Adjust(baseline, MalFixation, "")
	assert.ErrorIs(t, err, calcerr.ErrInvalidSeverity)
}

func TestParse(t *testing.T) {
	c, err := ParseCondition("")
	require.NoError(t, err)
	assert.Equal(t, Healthy, c)

	c, err = ParseCondition("malFixation")
	require.NoError(t, err)
	assert.Equal(t, MalFixation, c)

	_, err = ParseCondition("MALFIXATION")
	assert.ErrorIs(t, err, calcerr.ErrInvalidCondition)

	s, err := ParseSeverity("")
	require.NoError(t, err)
	assert.Equal(t, Low, s)

	_, err = ParseSeverity("severe")
	assert.ErrorIs(t, err, calcerr.ErrInvalidSeverity)
}
