package repo

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// XLSXSource reads reference fits from the first sheet of a workbook. Row 1
// is a header; every later row is a fit name followed by the 16 values in
// parameter file order. Rows that do not parse are logged and skipped.
type XLSXSource struct {
	Path string
}

func NewXLSXSource(path string) *XLSXSource {
	return &XLSXSource{Path: path}
}

func (s *XLSXSource) Load(ctx context.Context) (map[string]ParameterSet, error) {
	f, err := excelize.OpenFile(s.Path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.Path, err)
	}

	out := make(map[string]ParameterSet)
	for i := 1; i < len(rows); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		fit, p, err := parseRow(rows[i])
		if err != nil {
			log.Printf("%s row %d: %v", s.Path, i+1, err)
			continue
		}
		out[fit] = p
	}
	return out, nil
}

func parseRow(row []string) (string, ParameterSet, error) {
	if len(row) == 0 || strings.TrimSpace(row[0]) == "" {
		return "", ParameterSet{}, fmt.Errorf("missing reference fit name")
	}
	values := make([]float64, 0, NumParameters)
	for j, cell := range row[1:] {
		cell = strings.TrimSpace(cell)
		if cell == "" {
			continue
		}
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return "", ParameterSet{}, fmt.Errorf("column %d (%q): %w", j+2, cell, err)
		}
		values = append(values, v)
	}
	p, err := ParameterSetFromValues(values)
	if err != nil {
		return "", ParameterSet{}, err
	}
	return strings.TrimSpace(row[0]), p, nil
}
