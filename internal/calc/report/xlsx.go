package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const (
	frfSheet   = "FRF"
	modesSheet = "Modes"
)

// Workbook lays the summary out as two sheets: FRF with a freq_vec column
// followed by one column per measure, and Modes with the natural
// frequencies. The caller closes the file.
func (s *Summary) Workbook() (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), frfSheet); err != nil {
		f.Close()
		return nil, err
	}

	header := []any{"freq_vec"}
	for _, name := range s.Measures {
		header = append(header, name)
	}
	if err := f.SetSheetRow(frfSheet, "A1", &header); err != nil {
		f.Close()
		return nil, err
	}
	for b, hz := range s.Model.Freq {
		row := []any{hz}
		for _, v := range s.series {
			row = append(row, v[b])
		}
		if err := setRow(f, frfSheet, b+2, row); err != nil {
			f.Close()
			return nil, err
		}
	}

	if _, err := f.NewSheet(modesSheet); err != nil {
		f.Close()
		return nil, err
	}
	if err := setRow(f, modesSheet, 1, []any{"mode", "naturalFrequency"}); err != nil {
		f.Close()
		return nil, err
	}
	for i, fn := range s.Model.NaturalFrequencies {
		if err := setRow(f, modesSheet, i+2, []any{i + 1, fn}); err != nil {
			f.Close()
			return nil, err
		}
	}
	return f, nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("%s row %d: %w", sheet, row, err)
	}
	return nil
}
