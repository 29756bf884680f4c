package report

import (
	"fmt"
	"strings"

	"github.com/phpdave11/gofpdf"
	"gonum.org/v1/gonum/floats"
)

// pdfRows caps the sampled FRF table so the report stays on a page or two.
const pdfRows = 25

// PDF renders an A4 summary: request header, natural frequencies, the
// reflectance range and an evenly sampled table of the measures.
func (s *Summary) PDF() (*gofpdf.Fpdf, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Middle ear frequency response", true)
	pdf.SetFillColor(230, 230, 230)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Middle Ear Frequency Response")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	condition := s.Condition
	if s.Severity != "" {
		condition += " (" + s.Severity + ")"
	}
	for _, line := range []string{
		fmt.Sprintf("Reference fit: %s", s.Fit),
		fmt.Sprintf("Condition: %s", condition),
		fmt.Sprintf("Frequency range: %g - %g Hz, %d bins", s.Model.Freq[0], s.Model.Freq[len(s.Model.Freq)-1], len(s.Model.Freq)),
		fmt.Sprintf("Date: %s", s.Generated.Format("2006-01-02")),
	} {
		pdf.Cell(0, 6, line)
		pdf.Ln(6)
	}
	pdf.Ln(4)

	heading(pdf, "Natural frequencies")
	tableRow(pdf, true, 40, "Mode", "Frequency (Hz)")
	for i, fn := range s.Model.NaturalFrequencies {
		tableRow(pdf, false, 40, fmt.Sprint(i+1), fmt.Sprintf("%.2f", fn))
	}
	pdf.Ln(4)

	heading(pdf, "Energy reflectance")
	er := s.Model.ER
	lo, hi := floats.MinIdx(er), floats.MaxIdx(er)
	pdf.Cell(0, 6, fmt.Sprintf("Minimum %.4f at %g Hz, maximum %.4f at %g Hz",
		er[lo], s.Model.Freq[lo], er[hi], s.Model.Freq[hi]))
	pdf.Ln(10)

	if len(s.Measures) > 0 {
		heading(pdf, "Frequency response (sampled)")
		width := 190 / float64(len(s.Measures)+1)
		tableRow(pdf, true, width, append([]string{"Hz"}, s.Measures...)...)
		for _, b := range sampleBins(len(s.Model.Freq), pdfRows) {
			cells := []string{fmt.Sprintf("%.1f", s.Model.Freq[b])}
			for _, v := range s.series {
				cells = append(cells, fmt.Sprintf("%.4g", v[b]))
			}
			tableRow(pdf, false, width, cells...)
		}
	}

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}
	return pdf, nil
}

func heading(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, title)
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 10)
}

func tableRow(pdf *gofpdf.Fpdf, header bool, width float64, cells ...string) {
	if header {
		pdf.SetFont("Helvetica", "B", 10)
		defer pdf.SetFont("Helvetica", "", 10)
	}
	for _, c := range cells {
		pdf.CellFormat(width, 6, strings.TrimSpace(c), "1", 0, "C", header, 0, "")
	}
	pdf.Ln(-1)
}

// sampleBins picks at most limit indices spread evenly over [0, n),
// always including the first and last.
func sampleBins(n, limit int) []int {
	if n <= limit {
		out := make([]int, n)
		for i := range out {
			out[i] = i
		}
		return out
	}
	out := make([]int, limit)
	for i := range out {
		out[i] = i * (n - 1) / (limit - 1)
	}
	return out
}
