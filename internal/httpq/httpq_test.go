package httpq

import (
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/LucasCostaLobato/auditory-system-api/internal/calcerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeriesKeepsInsertionOrder(t *testing.T) {
	s := NewSeries("x_vec", []float64{0, 1}).
		Add("1000", []float64{3, 4}).
		Add("250.5", []float64{5, 6}).
		Add("1000", []float64{7, 8})

	b, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Equal(t, `{"x_vec":[0,1],"1000":[7,8],"250.5":[5,6]}`, string(b))
}

func TestSeriesRejectsNaN(t *testing.T) {
	_, err := json.Marshal(NewSeries("freq_vec", []float64{math.NaN()}))
	assert.Error(t, err)
}

func TestQuery(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet,
		"/x?fi=100&ff=2000&nf=10&level=false&positions=1,2.5&positions=3", nil)
	q := New(r)

	assert.Equal(t, 100.0, q.Float("fi"))
	assert.Equal(t, 10, q.Int("nf"))
	assert.False(t, q.Bool("level", true))
	assert.Equal(t, "healthy", q.String("meCondition", "healthy"))
	assert.Equal(t, 0.025, q.FloatOr("ecLength", 0.025))

	raw, vals := q.Floats("positions")
	assert.Equal(t, []string{"1", "2.5", "3"}, raw)
	assert.Equal(t, []float64{1, 2.5, 3}, vals)

	assert.Equal(t, []string{"ER"}, q.StringsOr("measures", []string{"ER"}))
	require.NoError(t, q.Err())
}

func TestQueryErrors(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/x?fi=abc&nf=1.5", nil)
	q := New(r)
	q.Float("fi")
	q.Int("nf")
	q.Strings("frequencies")

	err := q.Err()
	require.ErrorIs(t, err, calcerr.ErrInvalidQuery)
	assert.Contains(t, err.Error(), "fi")
}

func TestQueryListLimit(t *testing.T) {
	vals := strings.Repeat("1,", MaxListLen) + "2"
	q := New(httptest.NewRequest(http.MethodGet, "/x?positions="+vals, nil))
	raw, _ := q.Floats("positions")
	assert.Nil(t, raw)
	require.ErrorIs(t, q.Err(), calcerr.ErrInvalidQuery)

	q = New(httptest.NewRequest(http.MethodGet, "/x?positions="+strings.Repeat("1,", MaxListLen-1)+"2", nil))
	raw, _ = q.Floats("positions")
	assert.Len(t, raw, MaxListLen)
	require.NoError(t, q.Err())
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/x", nil)
	WriteError(rec, r, calcerr.ErrInvalidCondition)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
