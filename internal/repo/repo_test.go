package repo

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/LucasCostaLobato/auditory-system-api/internal/calcerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const exampleFile = "1e-6 1e-6 1e-6 1e-6 1000 800 600 500 400 300 200 0.01 0.01 0.01 0.01 1e-5\n"

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestParseParametersOrder(t *testing.T) {
	p, err := ParseParameters("1 2 3 4\n5 6 7 8 9 10 11\t12 13 14 15 16")
	require.NoError(t, err)
	want := [NumParameters]float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16}
	assert.Equal(t, want, p.Values())
	assert.Equal(t, 7.0, p.K3)
	assert.Equal(t, 11.0, p.K7)
	assert.Equal(t, 16.0, p.TMArea)
	assert.Equal(t, [4]float64{12, 13, 14, 15}, p.LossFactors())
}

func TestParseParametersErrors(t *testing.T) {
	_, err := ParseParameters("1 2 3")
	assert.Error(t, err)

	_, err = ParseParameters("1 2 3 4 5 6 7 8 9 10 11 12 13 14 15 x")
	assert.Error(t, err)

	_, err = ParseParameters("1 2 3 4 5 6 7 8 9 10 11 12 13 14 15 NaN")
	assert.Error(t, err)
}

func TestFileSourceLoad(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "Example4DOF.txt", exampleFile)
	writeFile(t, dir, "notes.md", "ignored")

	r, err := Load(context.Background(), "Example4DOF", NewFileSource(dir))
	require.NoError(t, err)
	assert.Equal(t, []string{"Example4DOF"}, r.Fits())

	p, err := r.Get("")
	require.NoError(t, err)
	assert.Equal(t, 1000.0, p.K1)
	assert.Equal(t, 1e-5, p.TMArea)

	_, err = r.Get("LVATB1")
	assert.ErrorIs(t, err, calcerr.ErrUnknownReferenceFit)
}

func TestFileSourceBadFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "Broken.txt", "1 2 3")

	_, err := Load(context.Background(), "Broken", NewFileSource(dir))
	assert.ErrorContains(t, err, "Broken.txt")
}

func TestNewRequiresDefaultFit(t *testing.T) {
	_, err := New("missing", map[string]ParameterSet{"a": {}})
	assert.ErrorIs(t, err, calcerr.ErrUnknownReferenceFit)
}

func TestRepositoryIsIsolatedFromInput(t *testing.T) {
	sets := map[string]ParameterSet{"a": {K1: 1}}
	r, err := New("a", sets)
	require.NoError(t, err)

	sets["a"] = ParameterSet{K1: 2}
	p, err := r.Get("a")
	require.NoError(t, err)
	assert.Equal(t, 1.0, p.K1)
}

type staticSource map[string]ParameterSet

func (s staticSource) Load(context.Context) (map[string]ParameterSet, error) { return s, nil }

func TestLoadLaterSourcesOverride(t *testing.T) {
	r, err := Load(context.Background(), "a",
		staticSource{"a": {K1: 1}, "b": {K1: 5}},
		staticSource{"a": {K1: 2}},
	)
	require.NoError(t, err)
	p, _ := r.Get("a")
	assert.Equal(t, 2.0, p.K1)
	assert.Equal(t, []string{"a", "b"}, r.Fits())
}

func TestXLSXSourceLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fits.xlsx")
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	header := []any{"fit", "m1", "m2", "m3", "m4", "k1", "k2", "k3", "k4", "k5", "k6", "k7", "eta1", "eta2", "eta3", "eta4", "tmArea"}
	numeric := []any{"Numeric", 1e-6, 1e-6, 1e-6, 1e-6, 1000, 800, 600, 500, 400, 300, 200, 0.01, 0.01, 0.01, 0.01, 1e-5}
	text := []any{"Text"}
	for _, s := range strings.Fields(exampleFile) {
		text = append(text, s)
	}
	short := []any{"Short", 1, 2, 3}
	for i, row := range [][]any{header, numeric, text, short} {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	sets, err := NewXLSXSource(path).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, sets, 2)
	assert.Equal(t, 1e-5, sets["Text"].TMArea)
	assert.Equal(t, 600.0, sets["Text"].K3)
	assert.InEpsilon(t, 1e-6, sets["Numeric"].M4, 1e-9)
	assert.InEpsilon(t, 200.0, sets["Numeric"].K7, 1e-9)
	assert.NotContains(t, sets, "Short")

	_, err = NewXLSXSource(filepath.Join(t.TempDir(), "missing.xlsx")).Load(context.Background())
	assert.Error(t, err)
}
