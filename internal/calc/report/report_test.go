package report

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/LucasCostaLobato/auditory-system-api/internal/calc/middleear"
	"github.com/LucasCostaLobato/auditory-system-api/internal/calcerr"
	"github.com/LucasCostaLobato/auditory-system-api/internal/repo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var example = repo.ParameterSet{
	M1: 1e-6, M2: 1e-6, M3: 1e-6, M4: 1e-6,
	K1: 1000, K2: 800, K3: 600, K4: 500, K5: 400, K6: 300, K7: 200,
	Eta1: 0.01, Eta2: 0.01, Eta3: 0.01, Eta4: 0.01,
	TMArea: 1e-5,
}

func exampleRepo(t *testing.T) *repo.Repository {
	t.Helper()
	r, err := repo.New("Example4DOF", map[string]repo.ParameterSet{"Example4DOF": example})
	require.NoError(t, err)
	return r
}

func TestNewSummary(t *testing.T) {
	in := middleear.Input{Fi: 100, Ff: 5000, Nf: 50, Condition: "otosclerosis", Severity: "high"}
	s, err := NewSummary(exampleRepo(t), in, []string{"Hfp", "ER"})
	require.NoError(t, err)
	assert.Equal(t, "Example4DOF", s.Fit)
	assert.Equal(t, "otosclerosis", s.Condition)
	assert.Equal(t, "high", s.Severity)
	require.Len(t, s.series, 2)
	assert.Equal(t, s.Model.ER, s.series[1])

	s, err = NewSummary(exampleRepo(t), middleear.Input{Fi: 100, Ff: 5000, Nf: 50, Severity: "high"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "healthy", s.Condition)
	assert.Empty(t, s.Severity)

	_, err = NewSummary(exampleRepo(t), in, []string{"Hstapes"})
	assert.ErrorIs(t, err, calcerr.ErrInvalidMeasure)
}

func TestWorkbook(t *testing.T) {
	in := middleear.Input{Fi: 100, Ff: 1000, Nf: 10}
	s, err := NewSummary(exampleRepo(t), in, []string{"Htm", "Zme"})
	require.NoError(t, err)

	f, err := s.Workbook()
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	require.NoError(t, f.Close())

	book, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer book.Close()
	assert.Equal(t, []string{"FRF", "Modes"}, book.GetSheetList())

	rows, err := book.GetRows("FRF", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	require.Len(t, rows, 11)
	assert.Equal(t, []string{"freq_vec", "Htm", "Zme"}, rows[0])
	for b, row := range rows[1:] {
		require.Len(t, row, 3)
		hz, err := strconv.ParseFloat(row[0], 64)
		require.NoError(t, err)
		assert.InDelta(t, s.Model.Freq[b], hz, 1e-9)
		zme, err := strconv.ParseFloat(row[2], 64)
		require.NoError(t, err)
		assert.InEpsilon(t, s.series[1][b], zme, 1e-12)
	}

	modes, err := book.GetRows("Modes", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	require.Len(t, modes, 1+middleear.NumDOF)
	assert.Equal(t, []string{"mode", "naturalFrequency"}, modes[0])
	assert.Equal(t, "1", modes[1][0])
}

func TestPDF(t *testing.T) {
	in := middleear.Input{Fi: 100, Ff: 8000, Nf: 400}
	s, err := NewSummary(exampleRepo(t), in, middleear.Measures)
	require.NoError(t, err)

	pdf, err := s.PDF()
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, pdf.Output(&buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestSampleBins(t *testing.T) {
	assert.Equal(t, []int{0, 1, 2}, sampleBins(3, 25))
	got := sampleBins(400, 25)
	require.Len(t, got, 25)
	assert.Equal(t, 0, got[0])
	assert.Equal(t, 399, got[24])
	for i := 1; i < len(got); i++ {
		assert.Greater(t, got[i], got[i-1])
	}
}

func TestHandlers(t *testing.T) {
	h := &Handler{Repo: exampleRepo(t)}

	rec := httptest.NewRecorder()
	h.XLSX(rec, httptest.NewRequest(http.MethodGet, "/middle-ear/frf/xlsx?fi=100&ff=1000&nf=5&measures=ER", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, xlsxContentType, rec.Header().Get("Content-Type"))

	rec = httptest.NewRecorder()
	h.PDF(rec, httptest.NewRequest(http.MethodGet, "/middle-ear/report/pdf?fi=100&ff=1000&nf=5", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))

	rec = httptest.NewRecorder()
	h.PDF(rec, httptest.NewRequest(http.MethodGet, "/middle-ear/report/pdf?fi=100&ff=1000&nf=5&meCondition=flu", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	h.XLSX(rec, httptest.NewRequest(http.MethodGet, "/middle-ear/frf/xlsx?ff=1000&nf=5", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
